package contacts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("contact not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name         string
	Relationship string
	Phone        string
	Email        string
	IsPrimary    bool
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Contact, error) {
	if strings.TrimSpace(userID) == "" {
		return Contact{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Relationship) == "" {
		return Contact{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Phone) == "" {
		return Contact{}, ErrInvalidInput
	}

	// Regla del primario único: el nuevo primario degrada al vigente.
	if in.IsPrimary {
		if err := s.repo.ClearPrimary(ctx, userID); err != nil {
			return Contact{}, err
		}
	}

	c := Contact{
		ID:           uuid.NewString(),
		UserID:       userID,
		Name:         strings.TrimSpace(in.Name),
		Relationship: strings.TrimSpace(in.Relationship),
		Phone:        strings.TrimSpace(in.Phone),
		Email:        strings.TrimSpace(in.Email),
		IsPrimary:    in.IsPrimary,
		CreatedAt:    s.now(),
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Contact{}, err
	}
	return c, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Contact, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUser(ctx, userID)
}

// Delete borra un contacto verificando que pertenezca al usuario.
func (s *Service) Delete(ctx context.Context, userID, contactID string) (Contact, error) {
	contactID = strings.TrimSpace(contactID)
	if contactID == "" {
		return Contact{}, ErrInvalidInput
	}

	c, err := s.repo.GetByID(ctx, contactID)
	if err != nil {
		return Contact{}, ErrNotFound
	}
	if c.UserID != userID {
		return Contact{}, ErrNotFound
	}

	if err := s.repo.Delete(ctx, contactID); err != nil {
		return Contact{}, err
	}
	return c, nil
}

package medications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidSchedule cubre frecuencia desconocida o end_date < start_date.
	// El original los dejaba pasar (schedule vacío en silencio); acá se
	// rechazan al crear.
	ErrInvalidSchedule = errors.New("invalid schedule")
	// ErrNotFound es el sentinel del contrato de Repository: las
	// implementaciones lo devuelven cuando el medicamento no existe.
	ErrNotFound = errors.New("medication not found")
)

// DoseLogPurger evita importar el paquete doselogs (rompe ciclos).
// Delete lo usa para el cascade: un medicamento borrado no deja logs.
type DoseLogPurger interface {
	DeleteByMedication(ctx context.Context, medicationID string) error
}

type Service struct {
	repo  Repository
	purge DoseLogPurger
	now   func() time.Time
}

func NewService(repo Repository, purge DoseLogPurger) *Service {
	return &Service{
		repo:  repo,
		purge: purge,
		now:   time.Now,
	}
}

type CreateInput struct {
	Name      string
	Dosage    string
	Frequency string
	Time      string // "HH:MM"
	StartDate time.Time
	EndDate   *time.Time
	Notes     string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Medication, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Medication{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Dosage) == "" {
		return Medication{}, ErrInvalidInput
	}
	if in.StartDate.IsZero() {
		return Medication{}, ErrInvalidInput
	}

	freq, err := ParseFrequency(in.Frequency)
	if err != nil {
		return Medication{}, ErrInvalidSchedule
	}

	td, err := ParseTimeOfDay(strings.TrimSpace(in.Time))
	if err != nil {
		return Medication{}, ErrInvalidInput
	}

	start := DateOf(in.StartDate)
	var end *time.Time
	if in.EndDate != nil {
		e := DateOf(*in.EndDate)
		if e.Before(start) {
			return Medication{}, ErrInvalidSchedule
		}
		end = &e
	}

	m := Medication{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        strings.TrimSpace(in.Name),
		Dosage:      strings.TrimSpace(in.Dosage),
		Frequency:   freq,
		TimeOfDay:   td,
		StartDate:   start,
		EndDate:     end,
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   s.now(),
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medication{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Medication, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

// DueToday filtra los medicamentos del usuario que tocan hoy.
// Es una propiedad del schedule: no consulta el log store.
func (s *Service) DueToday(ctx context.Context, ownerUserID string) ([]Medication, error) {
	items, err := s.repo.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}

	today := DateOf(s.now())
	out := make([]Medication, 0, len(items))
	for _, m := range items {
		if m.DueOn(today) {
			out = append(out, m)
		}
	}
	return out, nil
}

// Delete borra el medicamento y, en cascada, todos sus dose logs.
func (s *Service) Delete(ctx context.Context, id string) (Medication, error) {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return Medication{}, err
	}

	if err := s.purge.DeleteByMedication(ctx, m.ID); err != nil {
		return Medication{}, err
	}
	if err := s.repo.Delete(ctx, m.ID); err != nil {
		return Medication{}, err
	}
	return m, nil
}

// OwnerOf expone el dueño de un medicamento sin acoplar otros módulos.
func (s *Service) OwnerOf(ctx context.Context, id string) (string, error) {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return m.OwnerUserID, nil
}

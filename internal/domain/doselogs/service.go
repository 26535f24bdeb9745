package doselogs

import (
	"context"
	"errors"
	"strings"
	"time"

	"serenity/internal/domain/medications"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNoPendingLog = errors.New("no pending dose log")
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

// Materialize genera los dose logs de la ventana para un medicamento y
// devuelve solo los creados en esta corrida. Se llama sincrónicamente al
// crear el medicamento; correrla de nuevo sobre una ventana solapada no
// duplica entradas (el repo ignora duplicados por medicamento+timestamp).
func (s *Service) Materialize(ctx context.Context, m medications.Medication, windowStart time.Time, windowDays int) ([]DoseLog, error) {
	if strings.TrimSpace(m.ID) == "" {
		return nil, ErrInvalidInput
	}
	if windowStart.IsZero() {
		windowStart = s.now()
	}

	out := make([]DoseLog, 0, windowDays)
	for _, ts := range medications.ScheduledTimes(m, windowStart, windowDays) {
		l := DoseLog{
			ID:           uuid.NewString(),
			MedicationID: m.ID,
			ScheduledAt:  ts,
			Taken:        false,
		}

		created, err := s.repo.Create(ctx, l)
		if err != nil {
			return nil, err
		}
		if created {
			out = append(out, l)
		}
	}

	return out, nil
}

// MarkTaken marca como tomada la dosis pendiente más antigua con
// scheduled_at <= at. La acción nombra al medicamento, no a un log puntual:
// esta política determinista reemplaza la ambigüedad del original. Una
// segunda llamada avanza al siguiente pendiente; nunca des-marca.
func (s *Service) MarkTaken(ctx context.Context, medicationID string, at time.Time, notes string) (DoseLog, error) {
	medicationID = strings.TrimSpace(medicationID)
	if medicationID == "" {
		return DoseLog{}, ErrInvalidInput
	}
	if at.IsZero() {
		at = s.now()
	}

	pending, err := s.repo.FirstPending(ctx, medicationID, at)
	if errors.Is(err, ErrNotFound) {
		return DoseLog{}, ErrNoPendingLog
	}
	if err != nil {
		return DoseLog{}, err
	}

	if err := s.repo.MarkTaken(ctx, pending.ID, at, strings.TrimSpace(notes)); err != nil {
		// El log elegido pudo tomarse entre FirstPending y acá: mismo
		// hecho del dominio, no una falla del store.
		if errors.Is(err, ErrNotFound) {
			return DoseLog{}, ErrNoPendingLog
		}
		return DoseLog{}, err
	}
	return s.repo.GetByID(ctx, pending.ID)
}

func (s *Service) ListByMedication(ctx context.Context, medicationID string, limit int) ([]DoseLog, error) {
	medicationID = strings.TrimSpace(medicationID)
	if medicationID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByMedication(ctx, medicationID, limit)
}

// DeleteByMedication implementa medications.DoseLogPurger (cascade delete).
func (s *Service) DeleteByMedication(ctx context.Context, medicationID string) error {
	return s.repo.DeleteByMedication(ctx, medicationID)
}

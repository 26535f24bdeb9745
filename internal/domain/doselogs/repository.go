package doselogs

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound lo devuelven las implementaciones cuando no hay log que
// matchee. El service lo distingue (vía errors.Is) de una falla del store:
// "no hay dosis pendiente" es un hecho del dominio, un store caído no.
var ErrNotFound = errors.New("dose log not found")

// Repository es el log store. La invariante de unicidad vive acá:
// a lo sumo un log por (medication_id, scheduled_at).
type Repository interface {
	// Create inserta el log si no existe otro para el mismo
	// (medication_id, scheduled_at). Un duplicado NO es error:
	// devuelve created=false y deja el registro existente intacto,
	// así re-materializar una ventana es seguro.
	Create(ctx context.Context, l DoseLog) (created bool, err error)

	GetByID(ctx context.Context, id string) (DoseLog, error)

	// ListByMedication devuelve los logs ordenados por scheduled_at
	// descendente. limit <= 0 = sin límite.
	ListByMedication(ctx context.Context, medicationID string, limit int) ([]DoseLog, error)

	// FirstPending devuelve el log pendiente (taken=false) más antiguo
	// con scheduled_at <= until.
	FirstPending(ctx context.Context, medicationID string, until time.Time) (DoseLog, error)

	// MarkTaken marca un log pendiente como tomado. Si el log no existe
	// o ya estaba tomado, not found: nunca pisa un taken_at previo.
	MarkTaken(ctx context.Context, id string, takenAt time.Time, notes string) error

	DeleteByMedication(ctx context.Context, medicationID string) error
}

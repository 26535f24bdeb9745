package medications

import "context"

// Repository devuelve ErrNotFound cuando el medicamento no existe; los
// handlers lo mapean a 404 y cualquier otro error queda como 500.
type Repository interface {
	Create(ctx context.Context, m Medication) error
	GetByID(ctx context.Context, id string) (Medication, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Medication, error)
	Delete(ctx context.Context, id string) error
}

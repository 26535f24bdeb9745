package contacts

import "context"

type Repository interface {
	Create(ctx context.Context, c Contact) error
	GetByID(ctx context.Context, id string) (Contact, error)
	ListByUser(ctx context.Context, userID string) ([]Contact, error)
	Delete(ctx context.Context, id string) error
	// ClearPrimary degrada el primario vigente del usuario (si hay).
	ClearPrimary(ctx context.Context, userID string) error
}

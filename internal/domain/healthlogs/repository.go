package healthlogs

import "context"

type Repository interface {
	Create(ctx context.Context, l HealthLog) error
	// ListByUser devuelve los logs más recientes primero (recorded_at desc).
	// limit <= 0 = sin límite.
	ListByUser(ctx context.Context, userID string, limit int) ([]HealthLog, error)
}

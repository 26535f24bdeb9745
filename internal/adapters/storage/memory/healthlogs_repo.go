package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"serenity/internal/domain/healthlogs"
)

type healthLogRepo struct {
	mu   sync.RWMutex
	byID map[string]healthlogs.HealthLog
}

func NewHealthLogRepo() healthlogs.Repository {
	return &healthLogRepo{
		byID: make(map[string]healthlogs.HealthLog),
	}
}

func (r *healthLogRepo) Create(ctx context.Context, l healthlogs.HealthLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l.ID == "" {
		return errors.New("health log id required")
	}
	if _, exists := r.byID[l.ID]; exists {
		return errors.New("health log already exists")
	}
	r.byID[l.ID] = l
	return nil
}

func (r *healthLogRepo) ListByUser(ctx context.Context, userID string, limit int) ([]healthlogs.HealthLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]healthlogs.HealthLog, 0)
	for _, l := range r.byID {
		if l.UserID == userID {
			out = append(out, l)
		}
	}

	// Orden por recorded_at desc (más reciente primero)
	sort.Slice(out, func(i, j int) bool {
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

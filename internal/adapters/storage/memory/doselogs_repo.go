package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"serenity/internal/domain/doselogs"
)

type doseLogRepo struct {
	mu   sync.RWMutex
	byID map[string]doselogs.DoseLog
	// byKey indexa (medication_id, scheduled_at) para la invariante de
	// unicidad; se mantiene bajo el mismo lock que byID.
	byKey map[string]string
}

func NewDoseLogRepo() doselogs.Repository {
	return &doseLogRepo{
		byID:  make(map[string]doselogs.DoseLog),
		byKey: make(map[string]string),
	}
}

func scheduleKey(medicationID string, scheduledAt time.Time) string {
	return medicationID + "|" + scheduledAt.UTC().Format(time.RFC3339)
}

func (r *doseLogRepo) Create(ctx context.Context, l doselogs.DoseLog) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l.ID == "" {
		return false, errors.New("dose log id required")
	}
	if _, exists := r.byID[l.ID]; exists {
		return false, errors.New("dose log already exists")
	}

	key := scheduleKey(l.MedicationID, l.ScheduledAt)
	if _, exists := r.byKey[key]; exists {
		// Duplicado por (medication_id, scheduled_at): no-op.
		return false, nil
	}

	r.byID[l.ID] = l
	r.byKey[key] = l.ID
	return true, nil
}

func (r *doseLogRepo) GetByID(ctx context.Context, id string) (doselogs.DoseLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.byID[id]
	if !ok {
		return doselogs.DoseLog{}, doselogs.ErrNotFound
	}
	return l, nil
}

func (r *doseLogRepo) ListByMedication(ctx context.Context, medicationID string, limit int) ([]doselogs.DoseLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]doselogs.DoseLog, 0)
	for _, l := range r.byID {
		if l.MedicationID == medicationID {
			out = append(out, l)
		}
	}

	// Orden por scheduled_at desc (más reciente primero)
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledAt.After(out[j].ScheduledAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *doseLogRepo) FirstPending(ctx context.Context, medicationID string, until time.Time) (doselogs.DoseLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		best  doselogs.DoseLog
		found bool
	)
	for _, l := range r.byID {
		if l.MedicationID != medicationID || l.Taken {
			continue
		}
		if l.ScheduledAt.After(until) {
			continue
		}
		if !found || l.ScheduledAt.Before(best.ScheduledAt) {
			best = l
			found = true
		}
	}

	if !found {
		return doselogs.DoseLog{}, doselogs.ErrNotFound
	}
	return best, nil
}

func (r *doseLogRepo) MarkTaken(ctx context.Context, id string, takenAt time.Time, notes string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.byID[id]
	if !ok || l.Taken {
		return doselogs.ErrNotFound
	}

	l.Taken = true
	l.TakenAt = &takenAt
	if notes != "" {
		l.Notes = notes
	}
	r.byID[id] = l
	return nil
}

func (r *doseLogRepo) DeleteByMedication(ctx context.Context, medicationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, l := range r.byID {
		if l.MedicationID != medicationID {
			continue
		}
		delete(r.byID, id)
		delete(r.byKey, scheduleKey(l.MedicationID, l.ScheduledAt))
	}
	return nil
}

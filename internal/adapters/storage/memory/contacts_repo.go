package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"serenity/internal/domain/contacts"
)

type contactRepo struct {
	mu   sync.RWMutex
	byID map[string]contacts.Contact
}

func NewContactRepo() contacts.Repository {
	return &contactRepo{
		byID: make(map[string]contacts.Contact),
	}
}

func (r *contactRepo) Create(ctx context.Context, c contacts.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == "" {
		return errors.New("contact id required")
	}
	if _, exists := r.byID[c.ID]; exists {
		return errors.New("contact already exists")
	}
	r.byID[c.ID] = c
	return nil
}

func (r *contactRepo) GetByID(ctx context.Context, id string) (contacts.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return contacts.Contact{}, ErrNotFound
	}
	return c, nil
}

func (r *contactRepo) ListByUser(ctx context.Context, userID string) ([]contacts.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]contacts.Contact, 0)
	for _, c := range r.byID {
		if c.UserID == userID {
			out = append(out, c)
		}
	}

	// Primario primero, después por created_at asc
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPrimary != out[j].IsPrimary {
			return out[i].IsPrimary
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *contactRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *contactRepo) ClearPrimary(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.byID {
		if c.UserID == userID && c.IsPrimary {
			c.IsPrimary = false
			r.byID[id] = c
		}
	}
	return nil
}

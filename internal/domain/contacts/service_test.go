package contacts

import (
	"context"
	"errors"
	"testing"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Contact
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Contact{}}
}

func (r *testRepo) Create(ctx context.Context, c Contact) error {
	if c.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[c.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[c.ID] = c
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Contact, error) {
	c, ok := r.byID[id]
	if !ok {
		return Contact{}, errRepoNotFound
	}
	return c, nil
}

func (r *testRepo) ListByUser(ctx context.Context, userID string) ([]Contact, error) {
	out := make([]Contact, 0)
	for _, c := range r.byID {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return errRepoNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) ClearPrimary(ctx context.Context, userID string) error {
	for id, c := range r.byID {
		if c.UserID == userID && c.IsPrimary {
			c.IsPrimary = false
			r.byID[id] = c
		}
	}
	return nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_NewPrimaryDemotesPrevious(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	first, err := svc.Create(context.Background(), "user-1", CreateInput{
		Name:         "Ana",
		Relationship: "daughter",
		Phone:        "555-0101",
		IsPrimary:    true,
	})
	if err != nil {
		t.Fatalf("Create #1 error: %v", err)
	}

	second, err := svc.Create(context.Background(), "user-1", CreateInput{
		Name:         "Luis",
		Relationship: "son",
		Phone:        "555-0102",
		IsPrimary:    true,
	})
	if err != nil {
		t.Fatalf("Create #2 error: %v", err)
	}
	if !second.IsPrimary {
		t.Fatalf("expected new contact primary")
	}

	demoted, err := repo.GetByID(context.Background(), first.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if demoted.IsPrimary {
		t.Fatalf("expected previous primary demoted")
	}

	primaries := 0
	for _, c := range repo.byID {
		if c.UserID == "user-1" && c.IsPrimary {
			primaries++
		}
	}
	if primaries != 1 {
		t.Fatalf("expected exactly 1 primary, got %d", primaries)
	}
}

func TestService_Create_NonPrimary_KeepsExistingPrimary(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	primary, err := svc.Create(context.Background(), "user-1", CreateInput{
		Name:         "Ana",
		Relationship: "daughter",
		Phone:        "555-0101",
		IsPrimary:    true,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := svc.Create(context.Background(), "user-1", CreateInput{
		Name:         "Luis",
		Relationship: "son",
		Phone:        "555-0102",
	}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	c, _ := repo.GetByID(context.Background(), primary.ID)
	if !c.IsPrimary {
		t.Fatalf("expected existing primary untouched")
	}
}

func TestService_Create_RejectsMissingFields(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	cases := []CreateInput{
		{Relationship: "son", Phone: "555-0102"}, // sin name
		{Name: "Luis", Phone: "555-0102"},        // sin relationship
		{Name: "Luis", Relationship: "son"},      // sin phone
	}
	for i, in := range cases {
		if _, err := svc.Create(context.Background(), "user-1", in); err != ErrInvalidInput {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestService_Delete_VerifiesOwnership(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	c, err := svc.Create(context.Background(), "user-1", CreateInput{
		Name:         "Ana",
		Relationship: "daughter",
		Phone:        "555-0101",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := svc.Delete(context.Background(), "user-2", c.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for foreign contact, got %v", err)
	}

	deleted, err := svc.Delete(context.Background(), "user-1", c.ID)
	if err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if deleted.ID != c.ID {
		t.Fatalf("expected deleted contact returned")
	}
	if _, err := repo.GetByID(context.Background(), c.ID); err == nil {
		t.Fatalf("expected contact gone")
	}
}

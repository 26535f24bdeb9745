package medications

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Medication
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Medication{}}
}

func (r *testRepo) Create(ctx context.Context, m Medication) error {
	if m.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[m.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Medication, error) {
	m, ok := r.byID[id]
	if !ok {
		return Medication{}, ErrNotFound
	}
	return m, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]Medication, error) {
	out := make([]Medication, 0)
	for _, m := range r.byID {
		if m.OwnerUserID == ownerUserID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type testPurger struct {
	purged []string
}

func (p *testPurger) DeleteByMedication(ctx context.Context, medicationID string) error {
	p.purged = append(p.purged, medicationID)
	return nil
}

// -------------------------
// Tests
// -------------------------

func validInput() CreateInput {
	return CreateInput{
		Name:      "Lisinopril",
		Dosage:    "10mg",
		Frequency: "daily",
		Time:      "08:00",
		StartDate: date(2024, 3, 10),
	}
}

func TestService_Create_NormalizesDates(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, &testPurger{})

	in := validInput()
	in.StartDate = time.Date(2024, 3, 10, 17, 30, 0, 0, time.UTC)

	m, err := svc.Create(context.Background(), "user-1", in)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !m.StartDate.Equal(date(2024, 3, 10)) {
		t.Fatalf("expected start normalized to midnight UTC, got %s", m.StartDate)
	}
	if m.TimeOfDay.Hour != 8 || m.TimeOfDay.Minute != 0 {
		t.Fatalf("expected time 08:00, got %s", m.TimeOfDay)
	}
}

func TestService_Create_RejectsUnknownFrequency(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, &testPurger{})

	in := validInput()
	in.Frequency = "hourly"

	_, err := svc.Create(context.Background(), "user-1", in)
	if err != ErrInvalidSchedule {
		t.Fatalf("expected ErrInvalidSchedule, got %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("expected nothing stored on invalid schedule")
	}
}

func TestService_Create_RejectsEndBeforeStart(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, &testPurger{})

	in := validInput()
	end := date(2024, 3, 1)
	in.EndDate = &end

	_, err := svc.Create(context.Background(), "user-1", in)
	if err != ErrInvalidSchedule {
		t.Fatalf("expected ErrInvalidSchedule, got %v", err)
	}
}

func TestService_Create_RejectsMissingFields(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, &testPurger{})

	cases := []func(*CreateInput){
		func(in *CreateInput) { in.Name = "  " },
		func(in *CreateInput) { in.Dosage = "" },
		func(in *CreateInput) { in.Time = "25:00" },
		func(in *CreateInput) { in.StartDate = time.Time{} },
	}

	for i, mutate := range cases {
		in := validInput()
		mutate(&in)
		if _, err := svc.Create(context.Background(), "user-1", in); err != ErrInvalidInput {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestService_GetByID_MissingIsNotFound(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, &testPurger{})

	_, err := svc.GetByID(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing medication, got %v", err)
	}
}

// Un store caído no debe confundirse con "el medicamento no existe":
// el error de infraestructura sale tal cual y no matchea ErrNotFound.
func TestService_GetByID_StorageFailurePropagates(t *testing.T) {
	repoErr := errors.New("connection refused")
	svc := NewService(&brokenRepo{err: repoErr}, &testPurger{})

	_, err := svc.GetByID(context.Background(), "med-1")
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("storage failure must not look like a missing medication")
	}
	if !errors.Is(err, repoErr) {
		t.Fatalf("expected the store error to propagate, got %v", err)
	}
}

type brokenRepo struct {
	testRepo
	err error
}

func (r *brokenRepo) GetByID(ctx context.Context, id string) (Medication, error) {
	return Medication{}, r.err
}

func TestService_DueToday_FiltersBySchedule(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, &testPurger{})

	today := date(2024, 3, 10)
	svc.now = func() time.Time { return today.Add(15 * time.Hour) }

	// daily: toca hoy
	daily, err := svc.Create(context.Background(), "user-1", validInput())
	if err != nil {
		t.Fatalf("Create daily error: %v", err)
	}

	// weekly arrancando ayer: no toca hoy
	in := validInput()
	in.Frequency = "weekly"
	in.StartDate = today.AddDate(0, 0, -1)
	if _, err := svc.Create(context.Background(), "user-1", in); err != nil {
		t.Fatalf("Create weekly error: %v", err)
	}

	due, err := svc.DueToday(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("DueToday error: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("expected 1 medication due today, got %d", len(due))
	}
	if due[0].ID != daily.ID {
		t.Fatalf("expected daily medication due, got %s", due[0].Name)
	}
}

func TestService_Delete_CascadesToDoseLogs(t *testing.T) {
	repo := newTestRepo()
	purger := &testPurger{}
	svc := NewService(repo, purger)

	m, err := svc.Create(context.Background(), "user-1", validInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	deleted, err := svc.Delete(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if deleted.ID != m.ID {
		t.Fatalf("expected deleted medication returned")
	}

	if len(purger.purged) != 1 || purger.purged[0] != m.ID {
		t.Fatalf("expected dose logs purged for %s, got %v", m.ID, purger.purged)
	}
	if _, err := svc.GetByID(context.Background(), m.ID); err == nil {
		t.Fatalf("expected medication gone after delete")
	}
}

func TestService_Delete_NotFound(t *testing.T) {
	repo := newTestRepo()
	purger := &testPurger{}
	svc := NewService(repo, purger)

	if _, err := svc.Delete(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting unknown medication, got %v", err)
	}
	if len(purger.purged) != 0 {
		t.Fatalf("expected no purge on missing medication")
	}
}

package caregivers

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Grant
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Grant{}}
}

func (r *testRepo) Create(ctx context.Context, g Grant) error {
	if g.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[g.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[g.ID] = g
	return nil
}

func (r *testRepo) Update(ctx context.Context, g Grant) error {
	if g.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[g.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[g.ID] = g
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Grant, error) {
	g, ok := r.byID[id]
	if !ok {
		return Grant{}, errRepoNotFound
	}
	return g, nil
}

func (r *testRepo) ListByPatient(ctx context.Context, patientUserID string) ([]Grant, error) {
	out := make([]Grant, 0)
	for _, g := range r.byID {
		if g.PatientUserID == patientUserID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *testRepo) ListByCaregiver(ctx context.Context, caregiverUserID string) ([]Grant, error) {
	out := make([]Grant, 0)
	for _, g := range r.byID {
		if g.CaregiverUserID == caregiverUserID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *testRepo) GetActiveGrant(ctx context.Context, patientUserID, caregiverUserID string) (Grant, error) {
	var winner Grant
	has := false

	for _, g := range r.byID {
		if g.PatientUserID != patientUserID {
			continue
		}
		if g.CaregiverUserID != caregiverUserID {
			continue
		}
		if g.Status != StatusActive {
			continue
		}

		if !has {
			winner = g
			has = true
			continue
		}
		if g.UpdatedAt.After(winner.UpdatedAt) {
			winner = g
			continue
		}
		if g.UpdatedAt.Equal(winner.UpdatedAt) && g.CreatedAt.After(winner.CreatedAt) {
			winner = g
		}
	}

	if !has {
		return Grant{}, errRepoNotFound
	}
	return winner, nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Invite_DefaultScopes_WhenEmpty(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	g, err := svc.Invite(context.Background(), InviteInput{
		PatientUserID:   "patient-1",
		CaregiverUserID: "caregiver-1",
		Scopes:          nil,
	})
	if err != nil {
		t.Fatalf("Invite returned error: %v", err)
	}
	if g.Status != StatusInvited {
		t.Fatalf("expected status invited, got %s", g.Status)
	}
	if g.CreatedAt != now || g.UpdatedAt != now {
		t.Fatalf("expected CreatedAt/UpdatedAt to be now")
	}
	// default: meds:read + logs:read
	if !HasScope(g, ScopeMedsRead) || !HasScope(g, ScopeLogsRead) {
		t.Fatalf("expected default scopes meds:read + logs:read, got %#v", g.Scopes)
	}
}

func TestService_Invite_StrictScopes_RejectsUnknown(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	_, err := svc.Invite(context.Background(), InviteInput{
		PatientUserID:   "patient-1",
		CaregiverUserID: "caregiver-1",
		Scopes:          []Scope{ScopeLogsRead, Scope("bad:scope")},
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Invite_SelfInvite_Rejected(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	_, err := svc.Invite(context.Background(), InviteInput{
		PatientUserID:   "user-1",
		CaregiverUserID: "user-1",
	})
	if err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for self-invite, got %v", err)
	}
}

func TestService_Invite_Dedup_UpdatesSameGrant(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now1 := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	now2 := now1.Add(5 * time.Minute)

	svc.now = func() time.Time { return now1 }
	g1, err := svc.Invite(context.Background(), InviteInput{
		PatientUserID:   "patient-1",
		CaregiverUserID: "caregiver-1",
		Scopes:          []Scope{ScopeLogsRead},
	})
	if err != nil {
		t.Fatalf("Invite #1 error: %v", err)
	}

	svc.now = func() time.Time { return now2 }
	g2, err := svc.Invite(context.Background(), InviteInput{
		PatientUserID:   "patient-1",
		CaregiverUserID: "caregiver-1",
		Scopes:          []Scope{ScopeLogsRead, ScopeLogsMark},
	})
	if err != nil {
		t.Fatalf("Invite #2 error: %v", err)
	}

	if g2.ID != g1.ID {
		t.Fatalf("expected same grant ID (dedup), got %s vs %s", g1.ID, g2.ID)
	}
	if g2.UpdatedAt != now2 {
		t.Fatalf("expected UpdatedAt to change on reinvite")
	}
	if !HasScope(g2, ScopeLogsMark) || !HasScope(g2, ScopeLogsRead) {
		t.Fatalf("expected scopes updated, got %#v", g2.Scopes)
	}
}

func TestService_Accept_SetsActive_AndIdempotent(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now1 := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	now2 := now1.Add(2 * time.Minute)

	svc.now = func() time.Time { return now1 }
	g, err := svc.Invite(context.Background(), InviteInput{
		PatientUserID:   "patient-1",
		CaregiverUserID: "caregiver-1",
	})
	if err != nil {
		t.Fatalf("Invite error: %v", err)
	}

	svc.now = func() time.Time { return now2 }
	accepted, err := svc.Accept(context.Background(), g.ID, "caregiver-1")
	if err != nil {
		t.Fatalf("Accept error: %v", err)
	}
	if accepted.Status != StatusActive {
		t.Fatalf("expected active, got %s", accepted.Status)
	}

	// idempotente
	accepted2, err := svc.Accept(context.Background(), g.ID, "caregiver-1")
	if err != nil {
		t.Fatalf("Accept #2 error: %v", err)
	}
	if accepted2.Status != StatusActive {
		t.Fatalf("expected active after idempotent accept, got %s", accepted2.Status)
	}
}

func TestService_Accept_WrongCaregiver_Forbidden(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	g, err := svc.Invite(context.Background(), InviteInput{
		PatientUserID:   "patient-1",
		CaregiverUserID: "caregiver-1",
	})
	if err != nil {
		t.Fatalf("Invite error: %v", err)
	}

	if _, err := svc.Accept(context.Background(), g.ID, "someone-else"); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestService_Accept_LeavesOnlyOneActive_ForPatientAndCaregiver(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	// Seed "data sucia": 2 invites para el mismo (paciente, cuidador)
	g1 := Grant{
		ID:              "g1",
		PatientUserID:   "patient-1",
		CaregiverUserID: "caregiver-1",
		Scopes:          []Scope{ScopeLogsRead},
		Status:          StatusInvited,
		CreatedAt:       now.Add(-10 * time.Minute),
		UpdatedAt:       now.Add(-10 * time.Minute),
	}
	g2 := Grant{
		ID:              "g2",
		PatientUserID:   "patient-1",
		CaregiverUserID: "caregiver-1",
		Scopes:          []Scope{ScopeLogsRead},
		Status:          StatusInvited,
		CreatedAt:       now.Add(-5 * time.Minute),
		UpdatedAt:       now.Add(-5 * time.Minute),
	}
	_ = repo.Create(context.Background(), g1)
	_ = repo.Create(context.Background(), g2)

	_, err := svc.Accept(context.Background(), "g2", "caregiver-1")
	if err != nil {
		t.Fatalf("Accept error: %v", err)
	}

	activeCount := 0
	for _, g := range repo.byID {
		if g.PatientUserID == "patient-1" && g.CaregiverUserID == "caregiver-1" && g.Status == StatusActive {
			activeCount++
		}
	}
	if activeCount != 1 {
		t.Fatalf("expected exactly 1 active grant, got %d", activeCount)
	}
}

func TestService_Revoke_ByPatient_AndIdempotent(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	g, err := svc.Invite(context.Background(), InviteInput{
		PatientUserID:   "patient-1",
		CaregiverUserID: "caregiver-1",
	})
	if err != nil {
		t.Fatalf("Invite error: %v", err)
	}
	if _, err := svc.Accept(context.Background(), g.ID, "caregiver-1"); err != nil {
		t.Fatalf("Accept error: %v", err)
	}

	revoked, err := svc.Revoke(context.Background(), g.ID, "patient-1")
	if err != nil {
		t.Fatalf("Revoke error: %v", err)
	}
	if revoked.Status != StatusRevoked || revoked.RevokedAt == nil {
		t.Fatalf("expected revoked with RevokedAt set, got %#v", revoked)
	}

	// idempotente
	revoked2, err := svc.Revoke(context.Background(), g.ID, "patient-1")
	if err != nil {
		t.Fatalf("Revoke #2 error: %v", err)
	}
	if revoked2.Status != StatusRevoked {
		t.Fatalf("expected revoked after idempotent revoke, got %s", revoked2.Status)
	}

	// acceso activo desaparece
	if _, err := svc.GetActiveGrant(context.Background(), "patient-1", "caregiver-1"); err == nil {
		t.Fatalf("expected no active grant after revoke")
	}
}

func TestService_Revoke_WrongPatient_Forbidden(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	g, err := svc.Invite(context.Background(), InviteInput{
		PatientUserID:   "patient-1",
		CaregiverUserID: "caregiver-1",
	})
	if err != nil {
		t.Fatalf("Invite error: %v", err)
	}

	if _, err := svc.Revoke(context.Background(), g.ID, "someone-else"); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

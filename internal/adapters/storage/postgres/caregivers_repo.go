package postgres

import (
	"context"
	"database/sql"
	"strings"

	"serenity/internal/domain/caregivers"
)

type CaregiverGrantsRepo struct {
	db *sql.DB
}

func NewCaregiverGrantsRepo(db *sql.DB) *CaregiverGrantsRepo {
	return &CaregiverGrantsRepo{db: db}
}

func (r *CaregiverGrantsRepo) Create(ctx context.Context, g caregivers.Grant) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO caregiver_grants (
			id, patient_user_id, caregiver_user_id,
			scopes, status,
			created_at, updated_at, revoked_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		g.ID,
		g.PatientUserID,
		g.CaregiverUserID,
		scopesToTextArray(g.Scopes),
		string(g.Status),
		g.CreatedAt,
		g.UpdatedAt,
		toNullTime(g.RevokedAt),
	)
	return err
}

func (r *CaregiverGrantsRepo) Update(ctx context.Context, g caregivers.Grant) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE caregiver_grants
		SET
			scopes = $2,
			status = $3,
			updated_at = $4,
			revoked_at = $5
		WHERE id = $1
	`,
		g.ID,
		scopesToTextArray(g.Scopes),
		string(g.Status),
		g.UpdatedAt,
		toNullTime(g.RevokedAt),
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CaregiverGrantsRepo) GetByID(ctx context.Context, id string) (caregivers.Grant, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return caregivers.Grant{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, patient_user_id, caregiver_user_id,
			scopes, status,
			created_at, updated_at, revoked_at
		FROM caregiver_grants
		WHERE id = $1
	`, id)

	g, err := scanGrant(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return caregivers.Grant{}, ErrNotFound
		}
		return caregivers.Grant{}, err
	}
	return g, nil
}

func (r *CaregiverGrantsRepo) ListByPatient(ctx context.Context, patientUserID string) ([]caregivers.Grant, error) {
	patientUserID = strings.TrimSpace(patientUserID)
	if patientUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, patient_user_id, caregiver_user_id,
			scopes, status,
			created_at, updated_at, revoked_at
		FROM caregiver_grants
		WHERE patient_user_id = $1
		ORDER BY created_at ASC
	`, patientUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectGrants(rows)
}

func (r *CaregiverGrantsRepo) ListByCaregiver(ctx context.Context, caregiverUserID string) ([]caregivers.Grant, error) {
	caregiverUserID = strings.TrimSpace(caregiverUserID)
	if caregiverUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, patient_user_id, caregiver_user_id,
			scopes, status,
			created_at, updated_at, revoked_at
		FROM caregiver_grants
		WHERE caregiver_user_id = $1
		ORDER BY created_at ASC
	`, caregiverUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectGrants(rows)
}

func (r *CaregiverGrantsRepo) GetActiveGrant(ctx context.Context, patientUserID, caregiverUserID string) (caregivers.Grant, error) {
	patientUserID = strings.TrimSpace(patientUserID)
	caregiverUserID = strings.TrimSpace(caregiverUserID)
	if patientUserID == "" || caregiverUserID == "" {
		return caregivers.Grant{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, patient_user_id, caregiver_user_id,
			scopes, status,
			created_at, updated_at, revoked_at
		FROM caregiver_grants
		WHERE patient_user_id = $1
		  AND caregiver_user_id = $2
		  AND status = 'active'
		ORDER BY updated_at DESC
		LIMIT 1
	`, patientUserID, caregiverUserID)

	g, err := scanGrant(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return caregivers.Grant{}, ErrNotFound
		}
		return caregivers.Grant{}, err
	}
	return g, nil
}

func scanGrant(scan func(dest ...any) error) (caregivers.Grant, error) {
	var (
		g         caregivers.Grant
		status    string
		scopes    []string
		revokedAt sql.NullTime
	)

	if err := scan(
		&g.ID,
		&g.PatientUserID,
		&g.CaregiverUserID,
		&scopes,
		&status,
		&g.CreatedAt,
		&g.UpdatedAt,
		&revokedAt,
	); err != nil {
		return caregivers.Grant{}, err
	}

	g.Status = caregivers.Status(status)
	g.Scopes = textArrayToScopes(scopes)
	if revokedAt.Valid {
		t := revokedAt.Time
		g.RevokedAt = &t
	}

	return g, nil
}

func collectGrants(rows *sql.Rows) ([]caregivers.Grant, error) {
	out := make([]caregivers.Grant, 0)
	for rows.Next() {
		g, err := scanGrant(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// helpers
func scopesToTextArray(in []caregivers.Scope) []string {
	if len(in) == 0 {
		return []string{}
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, string(s))
	}
	return out
}

func textArrayToScopes(in []string) []caregivers.Scope {
	if len(in) == 0 {
		return []caregivers.Scope{}
	}
	out := make([]caregivers.Scope, 0, len(in))
	for _, s := range in {
		out = append(out, caregivers.Scope(s))
	}
	return out
}

package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"serenity/internal/domain/medications"
)

type MedicationsRepo struct {
	db *sql.DB
}

func NewMedicationsRepo(db *sql.DB) *MedicationsRepo {
	return &MedicationsRepo{db: db}
}

func (r *MedicationsRepo) Create(ctx context.Context, m medications.Medication) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medications (
			id, owner_user_id,
			name, dosage, frequency, time_of_day,
			start_date, end_date,
			notes, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		m.ID,
		m.OwnerUserID,
		m.Name,
		m.Dosage,
		string(m.Frequency),
		m.TimeOfDay.String(),
		m.StartDate,
		toNullTime(m.EndDate),
		m.Notes,
		m.CreatedAt,
	)
	return err
}

func (r *MedicationsRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return medications.Medication{}, medications.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, owner_user_id,
			name, dosage, frequency, time_of_day,
			start_date, end_date,
			notes, created_at
		FROM medications
		WHERE id = $1
	`, id)

	m, err := scanMedication(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return medications.Medication{}, medications.ErrNotFound
		}
		return medications.Medication{}, err
	}
	return m, nil
}

func (r *MedicationsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]medications.Medication, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, owner_user_id,
			name, dosage, frequency, time_of_day,
			start_date, end_date,
			notes, created_at
		FROM medications
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medications.Medication, 0)
	for rows.Next() {
		m, err := scanMedication(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	return out, rows.Err()
}

func (r *MedicationsRepo) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return medications.ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, `
		DELETE FROM medications
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return medications.ErrNotFound
	}
	return nil
}

func scanMedication(scan func(dest ...any) error) (medications.Medication, error) {
	var (
		m         medications.Medication
		frequency string
		timeOfDay string
		endDate   sql.NullTime
	)

	if err := scan(
		&m.ID,
		&m.OwnerUserID,
		&m.Name,
		&m.Dosage,
		&frequency,
		&timeOfDay,
		&m.StartDate,
		&endDate,
		&m.Notes,
		&m.CreatedAt,
	); err != nil {
		return medications.Medication{}, err
	}

	m.Frequency = medications.Frequency(frequency)

	td, err := medications.ParseTimeOfDay(timeOfDay)
	if err != nil {
		return medications.Medication{}, err
	}
	m.TimeOfDay = td

	// Fechas calendario se normalizan al leer; así DueOn no depende
	// del tipo de columna (date vs timestamptz).
	m.StartDate = medications.DateOf(m.StartDate.UTC())
	if endDate.Valid {
		t := medications.DateOf(endDate.Time.UTC())
		m.EndDate = &t
	}

	return m, nil
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

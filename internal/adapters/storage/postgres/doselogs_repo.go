package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"serenity/internal/domain/doselogs"
)

type DoseLogsRepo struct {
	db *sql.DB
}

func NewDoseLogsRepo(db *sql.DB) *DoseLogsRepo {
	return &DoseLogsRepo{db: db}
}

// Create se apoya en el unique index (medication_id, scheduled_at):
// un duplicado cae en DO NOTHING y devuelve created=false sin error.
func (r *DoseLogsRepo) Create(ctx context.Context, l doselogs.DoseLog) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO dose_logs (
			id, medication_id,
			scheduled_at,
			taken, taken_at,
			notes
		) VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (medication_id, scheduled_at) DO NOTHING
	`,
		l.ID,
		l.MedicationID,
		l.ScheduledAt,
		l.Taken,
		toNullTime(l.TakenAt),
		l.Notes,
	)
	if err != nil {
		return false, err
	}

	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *DoseLogsRepo) GetByID(ctx context.Context, id string) (doselogs.DoseLog, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return doselogs.DoseLog{}, doselogs.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, medication_id,
			scheduled_at,
			taken, taken_at,
			notes
		FROM dose_logs
		WHERE id = $1
	`, id)

	l, err := scanDoseLog(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return doselogs.DoseLog{}, doselogs.ErrNotFound
		}
		return doselogs.DoseLog{}, err
	}
	return l, nil
}

func (r *DoseLogsRepo) ListByMedication(ctx context.Context, medicationID string, limit int) ([]doselogs.DoseLog, error) {
	medicationID = strings.TrimSpace(medicationID)
	if medicationID == "" {
		return nil, nil
	}

	q := `
		SELECT
			id, medication_id,
			scheduled_at,
			taken, taken_at,
			notes
		FROM dose_logs
		WHERE medication_id = $1
		ORDER BY scheduled_at DESC
	`
	args := []any{medicationID}
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]doselogs.DoseLog, 0)
	for rows.Next() {
		l, err := scanDoseLog(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}

	return out, rows.Err()
}

func (r *DoseLogsRepo) FirstPending(ctx context.Context, medicationID string, until time.Time) (doselogs.DoseLog, error) {
	medicationID = strings.TrimSpace(medicationID)
	if medicationID == "" {
		return doselogs.DoseLog{}, doselogs.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, medication_id,
			scheduled_at,
			taken, taken_at,
			notes
		FROM dose_logs
		WHERE medication_id = $1
		  AND taken = false
		  AND scheduled_at <= $2
		ORDER BY scheduled_at ASC
		LIMIT 1
	`, medicationID, until)

	l, err := scanDoseLog(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return doselogs.DoseLog{}, doselogs.ErrNotFound
		}
		return doselogs.DoseLog{}, err
	}
	return l, nil
}

// MarkTaken solo transiciona logs pendientes; el WHERE taken = false
// garantiza que nunca se pisa un taken_at previo.
func (r *DoseLogsRepo) MarkTaken(ctx context.Context, id string, takenAt time.Time, notes string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return doselogs.ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE dose_logs
		SET
			taken = true,
			taken_at = $2,
			notes = CASE WHEN $3 <> '' THEN $3 ELSE notes END
		WHERE id = $1
		  AND taken = false
	`, id, takenAt, notes)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return doselogs.ErrNotFound
	}
	return nil
}

func (r *DoseLogsRepo) DeleteByMedication(ctx context.Context, medicationID string) error {
	medicationID = strings.TrimSpace(medicationID)
	if medicationID == "" {
		return nil
	}

	_, err := r.db.ExecContext(ctx, `
		DELETE FROM dose_logs
		WHERE medication_id = $1
	`, medicationID)
	return err
}

func scanDoseLog(scan func(dest ...any) error) (doselogs.DoseLog, error) {
	var (
		l       doselogs.DoseLog
		takenAt sql.NullTime
	)

	if err := scan(
		&l.ID,
		&l.MedicationID,
		&l.ScheduledAt,
		&l.Taken,
		&takenAt,
		&l.Notes,
	); err != nil {
		return doselogs.DoseLog{}, err
	}

	if takenAt.Valid {
		t := takenAt.Time
		l.TakenAt = &t
	}

	return l, nil
}

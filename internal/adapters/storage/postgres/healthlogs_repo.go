package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"serenity/internal/domain/healthlogs"
)

type HealthLogsRepo struct {
	db *sql.DB
}

func NewHealthLogsRepo(db *sql.DB) *HealthLogsRepo {
	return &HealthLogsRepo{db: db}
}

func (r *HealthLogsRepo) Create(ctx context.Context, l healthlogs.HealthLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO health_logs (
			id, user_id, recorded_at,
			mood, pain_level,
			energy_level, sleep_quality, appetite, mobility,
			heart_rate, breathing, hydration_level,
			medication_taken,
			notes
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		l.ID,
		l.UserID,
		l.RecordedAt,
		string(l.Mood),
		toNullInt(l.PainLevel),
		l.EnergyLevel,
		l.SleepQuality,
		l.Appetite,
		l.Mobility,
		toNullInt(l.HeartRate),
		l.Breathing,
		l.HydrationLevel,
		toNullBool(l.MedicationTaken),
		l.Notes,
	)
	return err
}

func (r *HealthLogsRepo) ListByUser(ctx context.Context, userID string, limit int) ([]healthlogs.HealthLog, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}

	q := `
		SELECT
			id, user_id, recorded_at,
			mood, pain_level,
			energy_level, sleep_quality, appetite, mobility,
			heart_rate, breathing, hydration_level,
			medication_taken,
			notes
		FROM health_logs
		WHERE user_id = $1
		ORDER BY recorded_at DESC
	`
	args := []any{userID}
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]healthlogs.HealthLog, 0)
	for rows.Next() {
		var (
			l         healthlogs.HealthLog
			mood      string
			painLevel sql.NullInt64
			heartRate sql.NullInt64
			medTaken  sql.NullBool
		)

		if err := rows.Scan(
			&l.ID,
			&l.UserID,
			&l.RecordedAt,
			&mood,
			&painLevel,
			&l.EnergyLevel,
			&l.SleepQuality,
			&l.Appetite,
			&l.Mobility,
			&heartRate,
			&l.Breathing,
			&l.HydrationLevel,
			&medTaken,
			&l.Notes,
		); err != nil {
			return nil, err
		}

		l.Mood = healthlogs.Mood(mood)
		if painLevel.Valid {
			v := int(painLevel.Int64)
			l.PainLevel = &v
		}
		if heartRate.Valid {
			v := int(heartRate.Int64)
			l.HeartRate = &v
		}
		if medTaken.Valid {
			v := medTaken.Bool
			l.MedicationTaken = &v
		}

		out = append(out, l)
	}

	return out, rows.Err()
}

func toNullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{Valid: false}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func toNullBool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{Valid: false}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}

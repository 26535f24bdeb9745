package postgres

import (
	"context"
	"database/sql"
	"strings"

	"serenity/internal/domain/contacts"
)

type ContactsRepo struct {
	db *sql.DB
}

func NewContactsRepo(db *sql.DB) *ContactsRepo {
	return &ContactsRepo{db: db}
}

func (r *ContactsRepo) Create(ctx context.Context, c contacts.Contact) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO emergency_contacts (
			id, user_id,
			name, relationship, phone, email,
			is_primary, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		c.ID,
		c.UserID,
		c.Name,
		c.Relationship,
		c.Phone,
		c.Email,
		c.IsPrimary,
		c.CreatedAt,
	)
	return err
}

func (r *ContactsRepo) GetByID(ctx context.Context, id string) (contacts.Contact, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return contacts.Contact{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, user_id,
			name, relationship, phone, email,
			is_primary, created_at
		FROM emergency_contacts
		WHERE id = $1
	`, id)

	var c contacts.Contact
	if err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Name,
		&c.Relationship,
		&c.Phone,
		&c.Email,
		&c.IsPrimary,
		&c.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return contacts.Contact{}, ErrNotFound
		}
		return contacts.Contact{}, err
	}

	return c, nil
}

func (r *ContactsRepo) ListByUser(ctx context.Context, userID string) ([]contacts.Contact, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, user_id,
			name, relationship, phone, email,
			is_primary, created_at
		FROM emergency_contacts
		WHERE user_id = $1
		ORDER BY is_primary DESC, created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]contacts.Contact, 0)
	for rows.Next() {
		var c contacts.Contact
		if err := rows.Scan(
			&c.ID,
			&c.UserID,
			&c.Name,
			&c.Relationship,
			&c.Phone,
			&c.Email,
			&c.IsPrimary,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	return out, rows.Err()
}

func (r *ContactsRepo) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, `
		DELETE FROM emergency_contacts
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ContactsRepo) ClearPrimary(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil
	}

	_, err := r.db.ExecContext(ctx, `
		UPDATE emergency_contacts
		SET is_primary = false
		WHERE user_id = $1
		  AND is_primary = true
	`, userID)
	return err
}

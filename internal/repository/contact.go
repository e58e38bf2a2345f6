package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rolodex/rolodex/internal/model"
)

const contactColumns = `id, owner_id, name, email, phone, company, position, status, notes, created_at, updated_at`

// CreateContact inserts a new contact.
func (r *Repository) CreateContact(ctx context.Context, c *model.Contact) error {
	query := `
		INSERT INTO contacts (` + contactColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		c.ID,
		c.OwnerID,
		c.Name,
		c.Email,
		c.Phone,
		c.Company,
		c.Position,
		string(c.Status),
		c.Notes,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	return nil
}

// ListContactsByOwner returns all contacts of ownerID, newest first.
func (r *Repository) ListContactsByOwner(ctx context.Context, ownerID string) ([]*model.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]*model.Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}

	return contacts, nil
}

// GetContact retrieves a contact by id, scoped to ownerID.
func (r *Repository) GetContact(ctx context.Context, id, ownerID string) (*model.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE id = $1 AND owner_id = $2
	`

	c, err := scanContact(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return c, nil
}

// UpdateContact applies patch in a single statement. NULL parameters keep
// the stored value; a non-nil empty optional field clears it to ''.
func (r *Repository) UpdateContact(ctx context.Context, id, ownerID string, patch model.ContactPatch, updatedAt time.Time) (*model.Contact, error) {
	query := `
		UPDATE contacts
		SET name       = COALESCE($3, name),
		    email      = COALESCE($4, email),
		    phone      = COALESCE($5, phone),
		    company    = COALESCE($6, company),
		    position   = COALESCE($7, position),
		    status     = COALESCE($8, status),
		    notes      = COALESCE($9, notes),
		    updated_at = GREATEST($10, updated_at)
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + contactColumns

	var status *string
	if patch.Status != nil {
		s := string(*patch.Status)
		status = &s
	}

	c, err := scanContact(r.pool.QueryRow(ctx, query,
		id,
		ownerID,
		patch.Name,
		patch.Email,
		patch.Phone,
		patch.Company,
		patch.Position,
		status,
		patch.Notes,
		updatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}

	return c, nil
}

// DeleteContact removes a contact owned by ownerID.
func (r *Repository) DeleteContact(ctx context.Context, id, ownerID string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrContactNotFound
	}

	return nil
}

// CountContacts counts all contacts of ownerID.
func (r *Repository) CountContacts(ctx context.Context, ownerID string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contacts WHERE owner_id = $1`, ownerID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return n, nil
}

// CountContactsByStatus counts contacts of ownerID with the given status.
func (r *Repository) CountContactsByStatus(ctx context.Context, ownerID string, status model.ContactStatus) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM contacts WHERE owner_id = $1 AND status = $2`,
		ownerID, string(status),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count contacts by status: %w", err)
	}
	return n, nil
}

func scanContact(row pgx.Row) (*model.Contact, error) {
	var (
		c      model.Contact
		status string
	)
	if err := row.Scan(
		&c.ID,
		&c.OwnerID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Company,
		&c.Position,
		&status,
		&c.Notes,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.Status = model.ContactStatus(status)
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return &c, nil
}

// Package repository provides database operations for leads.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"climstore_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Lead is the database model for a lead.
type Lead struct {
	ID         uuid.UUID `db:"id"`
	Name       string    `db:"name"`
	Email      string    `db:"email"`
	Phone      string    `db:"phone"`
	PostalCode string    `db:"postal_code"`
	City       string    `db:"city"`
	Source     string    `db:"source"`
	Status     string    `db:"status"`
	Tags       []string  `db:"tags"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// Note is one append-only note on a lead.
type Note struct {
	ID        uuid.UUID `db:"id"`
	LeadID    uuid.UUID `db:"lead_id"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}

// ListParams contains the lead list filters.
type ListParams struct {
	Status string
	Source string
}

// Repository provides persistence for leads.
type Repository interface {
	Create(ctx context.Context, lead *Lead) error
	GetByID(ctx context.Context, id uuid.UUID) (*Lead, error)
	List(ctx context.Context, params ListParams) ([]Lead, error)
	Update(ctx context.Context, lead *Lead) error
	// UpdateStatus is conditional on the previous status.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (bool, error)
	// AddTags merges new tags into the set, keeping existing ones.
	AddTags(ctx context.Context, id uuid.UUID, tags []string) error
	AddNote(ctx context.Context, note *Note) error
	GetNotes(ctx context.Context, leadID uuid.UUID) ([]Note, error)
}

// Postgres implements Repository on a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Create inserts a lead.
func (r *Postgres) Create(ctx context.Context, lead *Lead) error {
	query := `
		INSERT INTO leads (id, name, email, phone, postal_code, city, source, status, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	if _, err := r.pool.Exec(ctx, query,
		lead.ID, lead.Name, lead.Email, lead.Phone, lead.PostalCode, lead.City,
		lead.Source, lead.Status, lead.Tags, lead.CreatedAt, lead.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// GetByID fetches a single lead.
func (r *Postgres) GetByID(ctx context.Context, id uuid.UUID) (*Lead, error) {
	query := `
		SELECT id, name, email, phone, postal_code, city, source, status, tags, created_at, updated_at
		FROM leads
		WHERE id = $1`

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("lead not found")
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return lead, nil
}

// List fetches leads matching the filters, newest first.
func (r *Postgres) List(ctx context.Context, params ListParams) ([]Lead, error) {
	query := `
		SELECT id, name, email, phone, postal_code, city, source, status, tags, created_at, updated_at
		FROM leads
		WHERE ($1 = '' OR status = $1) AND ($2 = '' OR source = $2)
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, params.Status, params.Source)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var leads []Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, *lead)
	}
	return leads, rows.Err()
}

// Update rewrites the contact fields of a lead.
func (r *Postgres) Update(ctx context.Context, lead *Lead) error {
	query := `
		UPDATE leads
		SET name = $2, email = $3, phone = $4, postal_code = $5, city = $6, source = $7, updated_at = $8
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		lead.ID, lead.Name, lead.Email, lead.Phone, lead.PostalCode, lead.City, lead.Source, lead.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("lead not found")
	}
	return nil
}

// UpdateStatus performs a conditional status write.
func (r *Postgres) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE leads SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`,
		id, from, to)
	if err != nil {
		return false, fmt.Errorf("update lead status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// AddTags merges the new tags into the lead's tag set.
func (r *Postgres) AddTags(ctx context.Context, id uuid.UUID, tags []string) error {
	query := `
		UPDATE leads
		SET tags = (SELECT ARRAY(SELECT DISTINCT t FROM unnest(tags || $2) AS t ORDER BY t)),
			updated_at = now()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, tags)
	if err != nil {
		return fmt.Errorf("add lead tags: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("lead not found")
	}
	return nil
}

// AddNote appends a note to a lead.
func (r *Postgres) AddNote(ctx context.Context, note *Note) error {
	if _, err := r.pool.Exec(ctx,
		`INSERT INTO lead_notes (id, lead_id, content, created_at) VALUES ($1, $2, $3, $4)`,
		note.ID, note.LeadID, note.Content, note.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert lead note: %w", err)
	}
	return nil
}

// GetNotes fetches the notes of a lead, oldest first.
func (r *Postgres) GetNotes(ctx context.Context, leadID uuid.UUID) ([]Note, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, lead_id, content, created_at FROM lead_notes WHERE lead_id = $1 ORDER BY created_at`,
		leadID)
	if err != nil {
		return nil, fmt.Errorf("list lead notes: %w", err)
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.LeadID, &n.Content, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan lead note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func scanLead(row pgx.Row) (*Lead, error) {
	var l Lead
	if err := row.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.PostalCode, &l.City,
		&l.Source, &l.Status, &l.Tags, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

var _ Repository = (*Postgres)(nil)

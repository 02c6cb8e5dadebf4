// Package testimonials provides the PostgreSQL-backed testimonial table access.
package testimonials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/wisdombook/internal/common"
	"github.com/dmitrijs2005/wisdombook/internal/dbx"
	"github.com/dmitrijs2005/wisdombook/internal/server/models"
	"github.com/google/uuid"
)

const columns = `id, name, text, rating, approved, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTestimonial(row scanner) (models.Testimonial, error) {
	var t models.Testimonial
	err := row.Scan(&t.ID, &t.Name, &t.Text, &t.Rating, &t.Approved, &t.CreatedAt)
	return t, err
}

// List returns approved and pending testimonials, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]models.Testimonial, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+columns+` FROM testimonials ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select testimonials: %w", err)
	}
	defer rows.Close()

	result := make([]models.Testimonial, 0)
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, in models.TestimonialInput) (models.Testimonial, error) {
	query := `
		INSERT INTO testimonials (id, name, text, rating, approved)
		VALUES ($1, $2, $3, $4, false)
		RETURNING ` + columns

	t, err := scanTestimonial(r.db.QueryRowContext(ctx, query, uuid.NewString(), in.Name, in.Text, in.Rating))
	if err != nil {
		return models.Testimonial{}, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, patch models.TestimonialPatch) (models.Testimonial, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Testimonial{}, common.ErrNotFound
	}

	query := `
		UPDATE testimonials
		SET name = COALESCE($2, name),
		    text = COALESCE($3, text),
		    rating = COALESCE($4, rating),
		    approved = COALESCE($5, approved)
		WHERE id = $1
		RETURNING ` + columns

	var (
		name, text sql.NullString
		rating     sql.NullInt64
		approved   sql.NullBool
	)
	if patch.Name != nil {
		name = sql.NullString{String: *patch.Name, Valid: true}
	}
	if patch.Text != nil {
		text = sql.NullString{String: *patch.Text, Valid: true}
	}
	if patch.Rating != nil {
		rating = sql.NullInt64{Int64: int64(*patch.Rating), Valid: true}
	}
	if patch.Approved != nil {
		approved = sql.NullBool{Bool: *patch.Approved, Valid: true}
	}

	t, err := scanTestimonial(r.db.QueryRowContext(ctx, query, id, name, text, rating, approved))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Testimonial{}, common.ErrNotFound
		}
		return models.Testimonial{}, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

// Delete removes the testimonial; unknown ids are ignored.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM testimonials WHERE id = $1`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

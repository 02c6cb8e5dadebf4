// Package notes provides the PostgreSQL-backed note table access.
package notes

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

const columns = `id, chapter_id, position, text, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(row scanner) (models.Note, error) {
	var n models.Note
	err := row.Scan(&n.ID, &n.ChapterID, &n.Position, &n.Text, &n.CreatedAt)
	return n, err
}

// List returns all notes, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]models.Note, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+columns+` FROM notes ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select notes: %w", err)
	}
	defer rows.Close()

	result := make([]models.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, in models.NoteInput) (models.Note, error) {
	query := `
		INSERT INTO notes (id, chapter_id, position, text)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + columns

	n, err := scanNote(r.db.QueryRowContext(ctx, query, uuid.NewString(), in.ChapterID, in.Position, in.Text))
	if err != nil {
		return models.Note{}, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) UpdateText(ctx context.Context, id string, text string) (models.Note, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Note{}, common.ErrNotFound
	}

	query := `UPDATE notes SET text = $2 WHERE id = $1 RETURNING ` + columns

	n, err := scanNote(r.db.QueryRowContext(ctx, query, id, text))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Note{}, common.ErrNotFound
		}
		return models.Note{}, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// Delete removes the note; unknown ids are ignored.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

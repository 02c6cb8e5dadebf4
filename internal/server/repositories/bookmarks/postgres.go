// Package bookmarks provides the PostgreSQL-backed bookmark table access.
package bookmarks

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

const columns = `id, chapter_id, position, note, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBookmark(row scanner) (models.Bookmark, error) {
	var (
		b    models.Bookmark
		note sql.NullString
	)
	if err := row.Scan(&b.ID, &b.ChapterID, &b.Position, &note, &b.CreatedAt); err != nil {
		return models.Bookmark{}, err
	}
	if note.Valid {
		b.Note = &note.String
	}
	return b, nil
}

// List returns all bookmarks, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]models.Bookmark, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+columns+` FROM bookmarks ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select bookmarks: %w", err)
	}
	defer rows.Close()

	result := make([]models.Bookmark, 0)
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, in models.BookmarkInput) (models.Bookmark, error) {
	query := `
		INSERT INTO bookmarks (id, chapter_id, position, note)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + columns

	b, err := scanBookmark(r.db.QueryRowContext(ctx, query, uuid.NewString(), in.ChapterID, in.Position, nullable(in.Note)))
	if err != nil {
		return models.Bookmark{}, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

// Update applies the non-nil patch fields. An empty note string clears the note.
func (r *PostgresRepository) Update(ctx context.Context, id string, patch models.BookmarkPatch) (models.Bookmark, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Bookmark{}, common.ErrNotFound
	}

	var position sql.NullInt64
	if patch.Position != nil {
		position = sql.NullInt64{Int64: int64(*patch.Position), Valid: true}
	}

	query := `
		UPDATE bookmarks
		SET position = COALESCE($2, position),
		    note = CASE WHEN $3 THEN NULLIF($4, '') ELSE note END
		WHERE id = $1
		RETURNING ` + columns

	var note string
	if patch.Note != nil {
		note = *patch.Note
	}

	b, err := scanBookmark(r.db.QueryRowContext(ctx, query, id, position, patch.Note != nil, note))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Bookmark{}, common.ErrNotFound
		}
		return models.Bookmark{}, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

// Delete removes the bookmark; unknown ids are ignored.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = $1`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

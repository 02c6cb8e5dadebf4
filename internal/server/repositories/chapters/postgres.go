// Package chapters provides the PostgreSQL-backed chapter table access.
package chapters

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/wisdombook/internal/common"
	"github.com/dmitrijs2005/wisdombook/internal/dbx"
	"github.com/dmitrijs2005/wisdombook/internal/server/models"
	"github.com/google/uuid"
)

const columns = `id, title, content, language, "order", images, created_at, updated_at`

// PostgresRepository implements chapter storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanChapter(row scanner) (models.Chapter, error) {
	var (
		c      models.Chapter
		lang   string
		images []byte
	)
	if err := row.Scan(&c.ID, &c.Title, &c.Content, &lang, &c.Order, &images, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return models.Chapter{}, err
	}
	c.Language = models.Language(lang)
	c.Images = []string{}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &c.Images); err != nil {
			return models.Chapter{}, fmt.Errorf("decode images: %w", err)
		}
	}
	return c, nil
}

func encodeImages(images []string) (string, error) {
	if images == nil {
		images = []string{}
	}
	b, err := json.Marshal(images)
	if err != nil {
		return "", fmt.Errorf("encode images: %w", err)
	}
	return string(b), nil
}

// List returns all chapters ordered by "order" ascending.
func (r *PostgresRepository) List(ctx context.Context) ([]models.Chapter, error) {
	query := `SELECT ` + columns + ` FROM chapters ORDER BY "order" ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select chapters: %w", err)
	}
	defer rows.Close()

	result := make([]models.Chapter, 0)
	for rows.Next() {
		c, err := scanChapter(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Insert stores a new chapter and returns the stored row.
func (r *PostgresRepository) Insert(ctx context.Context, in models.ChapterInput) (models.Chapter, error) {
	images, err := encodeImages(in.Images)
	if err != nil {
		return models.Chapter{}, err
	}

	query := `
		INSERT INTO chapters (id, title, content, language, "order", images)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb)
		RETURNING ` + columns

	c, err := scanChapter(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), in.Title, in.Content, string(in.Language), in.Order, images))
	if err != nil {
		return models.Chapter{}, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

// Update replaces the editable fields of chapter id and bumps updated_at.
// Returns common.ErrNotFound when no such chapter exists.
func (r *PostgresRepository) Update(ctx context.Context, id string, in models.ChapterInput) (models.Chapter, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Chapter{}, common.ErrNotFound
	}

	images, err := encodeImages(in.Images)
	if err != nil {
		return models.Chapter{}, err
	}

	query := `
		UPDATE chapters
		SET title = $2, content = $3, language = $4, "order" = $5, images = $6::jsonb, updated_at = now()
		WHERE id = $1
		RETURNING ` + columns

	c, err := scanChapter(r.db.QueryRowContext(ctx, query,
		id, in.Title, in.Content, string(in.Language), in.Order, images))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Chapter{}, common.ErrNotFound
		}
		return models.Chapter{}, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) ([]string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	query := `DELETE FROM chapters WHERE id = $1 RETURNING images`

	var raw []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	var images []string
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &images); err != nil {
			return nil, fmt.Errorf("decode images: %w", err)
		}
	}
	return images, nil
}

// Package gateway is the single entry point to the remote backend: the four
// Postgres tables and the image bucket. A gateway built without a usable
// backend configuration is disabled and fails every call with
// common.ErrGatewayUnavailable.
package gateway

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/wisdombook/internal/common"
	"github.com/dmitrijs2005/wisdombook/internal/dbx"
	"github.com/dmitrijs2005/wisdombook/internal/logging"
	"github.com/dmitrijs2005/wisdombook/internal/server/config"
	"github.com/dmitrijs2005/wisdombook/internal/server/models"
	"github.com/dmitrijs2005/wisdombook/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/wisdombook/internal/server/storage"
	"github.com/jackc/pgx/v5/pgconn"
)

// Images is the object storage used for chapter images.
type Images interface {
	UploadImage(ctx context.Context, name, contentType string, data []byte) (string, error)
	RemoveImage(ctx context.Context, imageURL string)
}

type Gateway struct {
	db        *sql.DB
	repos     repomanager.RepositoryManager
	images    Images
	logger    logging.Logger
	available bool
}

func New(db *sql.DB, repos repomanager.RepositoryManager, images Images, logger logging.Logger) *Gateway {
	return &Gateway{
		db:        db,
		repos:     repos,
		images:    images,
		logger:    logger.With("module", "gateway"),
		available: true,
	}
}

// Disabled returns a gateway that rejects every call.
func Disabled(logger logging.Logger) *Gateway {
	return &Gateway{logger: logger.With("module", "gateway")}
}

// Open builds a gateway from cfg. When the backend is not configured the
// returned gateway is disabled and no error is reported.
func Open(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Gateway, error) {
	if !cfg.BackendConfigured() {
		logger.Warn(ctx, "remote backend not configured, running without data")
		return Disabled(logger), nil
	}

	db, err := repomanager.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	images, err := storage.New(ctx, cfg, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return New(db, repomanager.NewPostgresRepositoryManager(), images, logger), nil
}

// Available reports whether the backend is configured.
func (g *Gateway) Available() bool {
	return g.available
}

// DB exposes the database handle, nil when disabled.
func (g *Gateway) DB() *sql.DB {
	return g.db
}

func (g *Gateway) Close() error {
	if g.db == nil {
		return nil
	}
	return g.db.Close()
}

// RunMigrations applies the embedded schema.
func (g *Gateway) RunMigrations(ctx context.Context) error {
	if !g.available {
		return common.ErrGatewayUnavailable
	}
	return classify(g.repos.RunMigrations(ctx, g.db))
}

// schemaErrorCodes are Postgres SQLSTATEs raised when the tables the service
// expects are missing or out of date.
var schemaErrorCodes = map[string]struct{}{
	"42P01": {}, // undefined_table
	"42703": {}, // undefined_column
	"3F000": {}, // invalid_schema_name
}

// classify maps schema errors to common.ErrSchemaMismatch and leaves others as is.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if _, ok := schemaErrorCodes[pgErr.Code]; ok {
			return fmt.Errorf("%w: %w", common.ErrSchemaMismatch, err)
		}
	}
	return err
}

func (g *Gateway) ListChapters(ctx context.Context) ([]models.Chapter, error) {
	if !g.available {
		return nil, common.ErrGatewayUnavailable
	}
	res, err := g.repos.Chapters(g.db).List(ctx)
	return res, classify(err)
}

func (g *Gateway) InsertChapter(ctx context.Context, in models.ChapterInput) (models.Chapter, error) {
	if !g.available {
		return models.Chapter{}, common.ErrGatewayUnavailable
	}
	res, err := g.repos.Chapters(g.db).Insert(ctx, in)
	return res, classify(err)
}

func (g *Gateway) UpdateChapter(ctx context.Context, id string, in models.ChapterInput) (models.Chapter, error) {
	if !g.available {
		return models.Chapter{}, common.ErrGatewayUnavailable
	}
	res, err := g.repos.Chapters(g.db).Update(ctx, id, in)
	return res, classify(err)
}

// DeleteChapter removes the chapter row, then removes its images from the
// bucket on a best-effort basis.
func (g *Gateway) DeleteChapter(ctx context.Context, id string) error {
	if !g.available {
		return common.ErrGatewayUnavailable
	}
	images, err := g.repos.Chapters(g.db).Delete(ctx, id)
	if err != nil {
		return classify(err)
	}
	for _, img := range images {
		g.images.RemoveImage(ctx, img)
	}
	return nil
}

// ImportChapters inserts all chapters in a single transaction. Nothing is
// stored if any insert fails.
func (g *Gateway) ImportChapters(ctx context.Context, ins []models.ChapterInput) ([]models.Chapter, error) {
	if !g.available {
		return nil, common.ErrGatewayUnavailable
	}

	var out []models.Chapter
	err := dbx.WithTx(ctx, g.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := g.repos.Chapters(tx)
		out = make([]models.Chapter, 0, len(ins))
		for _, in := range ins {
			c, err := repo.Insert(ctx, in)
			if err != nil {
				return err
			}
			out = append(out, c)
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return out, nil
}

func (g *Gateway) ListBookmarks(ctx context.Context) ([]models.Bookmark, error) {
	if !g.available {
		return nil, common.ErrGatewayUnavailable
	}
	res, err := g.repos.Bookmarks(g.db).List(ctx)
	return res, classify(err)
}

func (g *Gateway) InsertBookmark(ctx context.Context, in models.BookmarkInput) (models.Bookmark, error) {
	if !g.available {
		return models.Bookmark{}, common.ErrGatewayUnavailable
	}
	res, err := g.repos.Bookmarks(g.db).Insert(ctx, in)
	return res, classify(err)
}

func (g *Gateway) UpdateBookmark(ctx context.Context, id string, patch models.BookmarkPatch) (models.Bookmark, error) {
	if !g.available {
		return models.Bookmark{}, common.ErrGatewayUnavailable
	}
	res, err := g.repos.Bookmarks(g.db).Update(ctx, id, patch)
	return res, classify(err)
}

func (g *Gateway) DeleteBookmark(ctx context.Context, id string) error {
	if !g.available {
		return common.ErrGatewayUnavailable
	}
	return classify(g.repos.Bookmarks(g.db).Delete(ctx, id))
}

func (g *Gateway) ListNotes(ctx context.Context) ([]models.Note, error) {
	if !g.available {
		return nil, common.ErrGatewayUnavailable
	}
	res, err := g.repos.Notes(g.db).List(ctx)
	return res, classify(err)
}

func (g *Gateway) InsertNote(ctx context.Context, in models.NoteInput) (models.Note, error) {
	if !g.available {
		return models.Note{}, common.ErrGatewayUnavailable
	}
	res, err := g.repos.Notes(g.db).Insert(ctx, in)
	return res, classify(err)
}

func (g *Gateway) UpdateNote(ctx context.Context, id string, text string) (models.Note, error) {
	if !g.available {
		return models.Note{}, common.ErrGatewayUnavailable
	}
	res, err := g.repos.Notes(g.db).UpdateText(ctx, id, text)
	return res, classify(err)
}

func (g *Gateway) DeleteNote(ctx context.Context, id string) error {
	if !g.available {
		return common.ErrGatewayUnavailable
	}
	return classify(g.repos.Notes(g.db).Delete(ctx, id))
}

func (g *Gateway) ListTestimonials(ctx context.Context) ([]models.Testimonial, error) {
	if !g.available {
		return nil, common.ErrGatewayUnavailable
	}
	res, err := g.repos.Testimonials(g.db).List(ctx)
	return res, classify(err)
}

func (g *Gateway) InsertTestimonial(ctx context.Context, in models.TestimonialInput) (models.Testimonial, error) {
	if !g.available {
		return models.Testimonial{}, common.ErrGatewayUnavailable
	}
	res, err := g.repos.Testimonials(g.db).Insert(ctx, in)
	return res, classify(err)
}

func (g *Gateway) UpdateTestimonial(ctx context.Context, id string, patch models.TestimonialPatch) (models.Testimonial, error) {
	if !g.available {
		return models.Testimonial{}, common.ErrGatewayUnavailable
	}
	res, err := g.repos.Testimonials(g.db).Update(ctx, id, patch)
	return res, classify(err)
}

func (g *Gateway) DeleteTestimonial(ctx context.Context, id string) error {
	if !g.available {
		return common.ErrGatewayUnavailable
	}
	return classify(g.repos.Testimonials(g.db).Delete(ctx, id))
}

// UploadImage stores an image and returns its public URL.
func (g *Gateway) UploadImage(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if !g.available {
		return "", common.ErrGatewayUnavailable
	}
	return g.images.UploadImage(ctx, name, contentType, data)
}

// RemoveImage deletes an image on a best-effort basis.
func (g *Gateway) RemoveImage(ctx context.Context, imageURL string) {
	if !g.available {
		g.logger.Warn(ctx, "image not removed, backend not configured", "url", imageURL)
		return
	}
	g.images.RemoveImage(ctx, imageURL)
}

// Package repomanager provides the PostgreSQL RepositoryManager, wiring the
// table repositories together with the embedded goose migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/wisdombook/internal/dbx"
	"github.com/dmitrijs2005/wisdombook/internal/server/migrations"
	"github.com/dmitrijs2005/wisdombook/internal/server/repositories/bookmarks"
	"github.com/dmitrijs2005/wisdombook/internal/server/repositories/chapters"
	"github.com/dmitrijs2005/wisdombook/internal/server/repositories/notes"
	"github.com/dmitrijs2005/wisdombook/internal/server/repositories/testimonials"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Chapters(db dbx.DBTX) chapters.Repository {
	return chapters.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Bookmarks(db dbx.DBTX) bookmarks.Repository {
	return bookmarks.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Notes(db dbx.DBTX) notes.Repository {
	return notes.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Testimonials(db dbx.DBTX) testimonials.Repository {
	return testimonials.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations to db.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

// Open opens a pgx-backed *sql.DB for dsn. The connection is established lazily.
func Open(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}

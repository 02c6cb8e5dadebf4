package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/wisdombook/internal/dbx"
	"github.com/dmitrijs2005/wisdombook/internal/server/repositories/bookmarks"
	"github.com/dmitrijs2005/wisdombook/internal/server/repositories/chapters"
	"github.com/dmitrijs2005/wisdombook/internal/server/repositories/notes"
	"github.com/dmitrijs2005/wisdombook/internal/server/repositories/testimonials"
)

// RepositoryManager vends table repositories bound to a DBTX, so the same
// code path serves plain connections and transactions.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Chapters(db dbx.DBTX) chapters.Repository
	Bookmarks(db dbx.DBTX) bookmarks.Repository
	Notes(db dbx.DBTX) notes.Repository
	Testimonials(db dbx.DBTX) testimonials.Repository
}

package bookmarks

import (
	"context"

	"github.com/dmitrijs2005/wisdombook/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Bookmark, error)
	Insert(ctx context.Context, in models.BookmarkInput) (models.Bookmark, error)
	Update(ctx context.Context, id string, patch models.BookmarkPatch) (models.Bookmark, error)
	Delete(ctx context.Context, id string) error
}

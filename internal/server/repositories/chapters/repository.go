package chapters

import (
	"context"

	"github.com/dmitrijs2005/wisdombook/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Chapter, error)
	Insert(ctx context.Context, in models.ChapterInput) (models.Chapter, error)
	Update(ctx context.Context, id string, in models.ChapterInput) (models.Chapter, error)
	// Delete removes the chapter and returns the image URLs it referenced.
	// Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) ([]string, error)
}

package notes

import (
	"context"

	"github.com/dmitrijs2005/wisdombook/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Note, error)
	Insert(ctx context.Context, in models.NoteInput) (models.Note, error)
	UpdateText(ctx context.Context, id string, text string) (models.Note, error)
	Delete(ctx context.Context, id string) error
}

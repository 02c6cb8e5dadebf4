package testimonials

import (
	"context"

	"github.com/dmitrijs2005/wisdombook/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Testimonial, error)
	// Insert stores a new submission. The row is always created unapproved.
	Insert(ctx context.Context, in models.TestimonialInput) (models.Testimonial, error)
	Update(ctx context.Context, id string, patch models.TestimonialPatch) (models.Testimonial, error)
	Delete(ctx context.Context, id string) error
}

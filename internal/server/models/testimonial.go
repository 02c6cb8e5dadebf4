package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/wisdombook/internal/common"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Testimonial is a reader review. Only approved testimonials are shown to
// readers; pending ones are visible to admins.
type Testimonial struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Text      string    `json:"text"`
	Rating    int       `json:"rating"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"createdAt"`
}

// TestimonialInput is a reader submission. Approved is accepted on the wire
// but always reset to false on submission.
type TestimonialInput struct {
	Name     string `json:"name"`
	Text     string `json:"text"`
	Rating   int    `json:"rating"`
	Approved bool   `json:"approved"`
}

func (in TestimonialInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: testimonial name is required", common.ErrValidation)
	}
	if strings.TrimSpace(in.Text) == "" {
		return fmt.Errorf("%w: testimonial text is required", common.ErrValidation)
	}
	return validateRating(in.Rating)
}

// TestimonialPatch is a partial update; nil fields are left unchanged.
type TestimonialPatch struct {
	Name     *string `json:"name,omitempty"`
	Text     *string `json:"text,omitempty"`
	Rating   *int    `json:"rating,omitempty"`
	Approved *bool   `json:"approved,omitempty"`
}

func (p TestimonialPatch) Validate() error {
	if p.Name == nil && p.Text == nil && p.Rating == nil && p.Approved == nil {
		return fmt.Errorf("%w: empty testimonial update", common.ErrValidation)
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return fmt.Errorf("%w: testimonial name is required", common.ErrValidation)
	}
	if p.Text != nil && strings.TrimSpace(*p.Text) == "" {
		return fmt.Errorf("%w: testimonial text is required", common.ErrValidation)
	}
	if p.Rating != nil {
		return validateRating(*p.Rating)
	}
	return nil
}

func validateRating(r int) error {
	if r < MinRating || r > MaxRating {
		return fmt.Errorf("%w: rating must be between %d and %d", common.ErrValidation, MinRating, MaxRating)
	}
	return nil
}

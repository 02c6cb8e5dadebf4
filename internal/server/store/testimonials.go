package store

import (
	"context"

	"github.com/dmitrijs2005/wisdombook/internal/server/models"
)

// AddTestimonial submits a testimonial for moderation. It is always stored
// unapproved, and it is not added to the local collection; it shows up with
// the next refresh.
func (s *Store) AddTestimonial(ctx context.Context, in models.TestimonialInput) (models.Testimonial, error) {
	in.Approved = false
	if err := in.Validate(); err != nil {
		return models.Testimonial{}, err
	}

	t, err := s.remote.InsertTestimonial(ctx, in)
	if err != nil {
		return models.Testimonial{}, err
	}

	s.logger.Info(ctx, "testimonial submitted", "id", t.ID, "rating", t.Rating)
	s.publish(Event{Collection: CollectionTestimonials, Action: ActionSubmitted, ID: t.ID})
	return t, nil
}

func (s *Store) UpdateTestimonial(ctx context.Context, id string, patch models.TestimonialPatch) (models.Testimonial, error) {
	if err := patch.Validate(); err != nil {
		return models.Testimonial{}, err
	}

	t, err := s.remote.UpdateTestimonial(ctx, id, patch)
	if err != nil {
		return models.Testimonial{}, err
	}

	s.mu.Lock()
	for i := range s.testimonials {
		if s.testimonials[i].ID == id {
			s.testimonials[i] = t
			break
		}
	}
	s.mu.Unlock()

	s.logger.Info(ctx, "testimonial updated", "id", id, "approved", t.Approved)
	s.publish(Event{Collection: CollectionTestimonials, Action: ActionUpdated, ID: id})
	return t, nil
}

func (s *Store) RemoveTestimonial(ctx context.Context, id string) error {
	if err := s.remote.DeleteTestimonial(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	s.testimonials = filter(s.testimonials, func(t models.Testimonial) bool { return t.ID != id })
	s.mu.Unlock()

	s.publish(Event{Collection: CollectionTestimonials, Action: ActionRemoved, ID: id})
	return nil
}

// Testimonials returns every locally known testimonial, newest first.
func (s *Store) Testimonials() []models.Testimonial {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Testimonial{}, s.testimonials...)
}

// ApprovedTestimonials returns the testimonials visible to readers.
func (s *Store) ApprovedTestimonials() []models.Testimonial {
	return s.testimonialsWhere(true)
}

// PendingTestimonials returns the testimonials awaiting moderation.
func (s *Store) PendingTestimonials() []models.Testimonial {
	return s.testimonialsWhere(false)
}

func (s *Store) testimonialsWhere(approved bool) []models.Testimonial {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Testimonial, 0)
	for _, t := range s.testimonials {
		if t.Approved == approved {
			out = append(out, t)
		}
	}
	return out
}

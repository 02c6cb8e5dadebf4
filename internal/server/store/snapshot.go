package store

import "github.com/dmitrijs2005/wisdombook/internal/server/models"

// Snapshot is a consistent copy of all collections.
type Snapshot struct {
	Chapters     []models.Chapter     `json:"chapters"`
	Bookmarks    []models.Bookmark    `json:"bookmarks"`
	Notes        []models.Note        `json:"notes"`
	Testimonials []models.Testimonial `json:"testimonials"`
	Status       Status               `json:"status"`
}

// Stats summarizes the collections for the admin dashboard.
type Stats struct {
	EnglishChapters      int `json:"englishChapters"`
	UrduChapters         int `json:"urduChapters"`
	Bookmarks            int `json:"bookmarks"`
	Notes                int `json:"notes"`
	ApprovedTestimonials int `json:"approvedTestimonials"`
	PendingTestimonials  int `json:"pendingTestimonials"`
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Chapters:     cloneChapters(s.chapters),
		Bookmarks:    cloneBookmarks(s.bookmarks),
		Notes:        append([]models.Note{}, s.notes...),
		Testimonials: append([]models.Testimonial{}, s.testimonials...),
		Status:       s.status,
	}
}

func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{Bookmarks: len(s.bookmarks), Notes: len(s.notes)}
	for _, c := range s.chapters {
		switch c.Language {
		case models.LanguageEnglish:
			st.EnglishChapters++
		case models.LanguageUrdu:
			st.UrduChapters++
		}
	}
	for _, t := range s.testimonials {
		if t.Approved {
			st.ApprovedTestimonials++
		} else {
			st.PendingTestimonials++
		}
	}
	return st
}

package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/wisdombook/internal/server/models"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Stats())
}

// handleAddChapter creates a chapter. A missing order defaults to one past
// the current highest.
func (s *Server) handleAddChapter(w http.ResponseWriter, r *http.Request) {
	var in models.ChapterInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	if in.Order == 0 {
		in.Order = s.store.NextChapterOrder()
	}
	c, err := s.store.AddChapter(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleUpdateChapter(w http.ResponseWriter, r *http.Request) {
	var in models.ChapterInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.store.UpdateChapter(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleRemoveChapter(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RemoveChapter(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListAllTestimonials lists testimonials for moderation. The status
// query parameter narrows to "pending" or "approved".
func (s *Server) handleListAllTestimonials(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("status") {
	case "pending":
		writeJSON(w, http.StatusOK, s.store.PendingTestimonials())
	case "approved":
		writeJSON(w, http.StatusOK, s.store.ApprovedTestimonials())
	default:
		writeJSON(w, http.StatusOK, s.store.Testimonials())
	}
}

func (s *Server) handleUpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	var patch models.TestimonialPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := s.store.UpdateTestimonial(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleRemoveTestimonial(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RemoveTestimonial(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

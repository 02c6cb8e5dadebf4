package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/wisdombook/internal/common"
	"github.com/dmitrijs2005/wisdombook/internal/server/models"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Status())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Refresh(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Status())
}

func (s *Server) handleListChapters(w http.ResponseWriter, r *http.Request) {
	chapters := s.store.SearchChapters(r.URL.Query().Get("q"))

	if lang := strings.TrimSpace(r.URL.Query().Get("language")); lang != "" {
		l := models.Language(lang)
		if !l.Valid() {
			s.writeError(w, r, fmt.Errorf("%w: unsupported language %q", common.ErrValidation, lang))
			return
		}
		filtered := make([]models.Chapter, 0, len(chapters))
		for _, c := range chapters {
			if c.Language == l {
				filtered = append(filtered, c)
			}
		}
		chapters = filtered
	}

	writeJSON(w, http.StatusOK, chapters)
}

func (s *Server) handleGetChapter(w http.ResponseWriter, r *http.Request) {
	c, ok := s.store.Chapter(chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, r, common.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Bookmarks())
}

func (s *Server) handleAddBookmark(w http.ResponseWriter, r *http.Request) {
	var in models.BookmarkInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	b, err := s.store.AddBookmark(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleUpdateBookmark(w http.ResponseWriter, r *http.Request) {
	var patch models.BookmarkPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	b, err := s.store.UpdateBookmark(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleRemoveBookmark(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RemoveBookmark(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Notes())
}

func (s *Server) handleAddNote(w http.ResponseWriter, r *http.Request) {
	var in models.NoteInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	n, err := s.store.AddNote(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

type noteUpdate struct {
	Text string `json:"text"`
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	var in noteUpdate
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	n, err := s.store.UpdateNote(r.Context(), chi.URLParam(r, "id"), in.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleRemoveNote(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RemoveNote(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListApprovedTestimonials(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.ApprovedTestimonials())
}

func (s *Server) handleSubmitTestimonial(w http.ResponseWriter, r *http.Request) {
	var in models.TestimonialInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := s.store.AddTestimonial(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

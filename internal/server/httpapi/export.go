package httpapi

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/wisdombook/internal/server/export"
	"github.com/dmitrijs2005/wisdombook/internal/server/models"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	lang := models.Language(chi.URLParam(r, "language"))

	book, err := export.Build(lang, s.store.ChaptersByLanguage(lang), export.Options{
		Title:  r.URL.Query().Get("title"),
		Author: r.URL.Query().Get("author"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteTo(book, &buf); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/epub+zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(r.URL.Query().Get("title"), lang)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

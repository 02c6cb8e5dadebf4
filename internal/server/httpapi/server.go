// Package httpapi exposes the reader and admin JSON API over HTTP, together
// with a server-sent event stream of store changes.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/wisdombook/internal/logging"
	"github.com/dmitrijs2005/wisdombook/internal/server/config"
	"github.com/dmitrijs2005/wisdombook/internal/server/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Images uploads and removes chapter images.
type Images interface {
	UploadImage(ctx context.Context, name, contentType string, data []byte) (string, error)
	RemoveImage(ctx context.Context, imageURL string)
}

type Server struct {
	address      string
	store        *store.Store
	images       Images
	logger       logging.Logger
	jwtSecret    []byte
	tokenTTL     time.Duration
	passwordHash string
	bucket       string
	maxUpload    int64
}

func NewServer(cfg *config.Config, st *store.Store, images Images, l logging.Logger) *Server {
	return &Server{
		address:      cfg.EndpointAddrHTTP,
		store:        st,
		images:       images,
		logger:       l.With("module", "http_server"),
		jwtSecret:    []byte(cfg.SecretKey),
		tokenTTL:     cfg.AdminTokenValidityDuration,
		passwordHash: cfg.AdminPasswordHash,
		bucket:       cfg.S3Bucket,
		maxUpload:    cfg.MaxUploadBytes,
	}
}

// Router builds the route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Post("/refresh", s.handleRefresh)
		r.Get("/events", s.handleEvents)

		r.Get("/chapters", s.handleListChapters)
		r.Get("/chapters/{id}", s.handleGetChapter)

		r.Get("/bookmarks", s.handleListBookmarks)
		r.Post("/bookmarks", s.handleAddBookmark)
		r.Patch("/bookmarks/{id}", s.handleUpdateBookmark)
		r.Delete("/bookmarks/{id}", s.handleRemoveBookmark)

		r.Get("/notes", s.handleListNotes)
		r.Post("/notes", s.handleAddNote)
		r.Patch("/notes/{id}", s.handleUpdateNote)
		r.Delete("/notes/{id}", s.handleRemoveNote)

		r.Get("/testimonials", s.handleListApprovedTestimonials)
		r.Post("/testimonials", s.handleSubmitTestimonial)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", s.handleLogin)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAdmin)

				r.Get("/stats", s.handleStats)

				r.Post("/chapters", s.handleAddChapter)
				r.Put("/chapters/{id}", s.handleUpdateChapter)
				r.Delete("/chapters/{id}", s.handleRemoveChapter)

				r.Get("/testimonials", s.handleListAllTestimonials)
				r.Patch("/testimonials/{id}", s.handleUpdateTestimonial)
				r.Delete("/testimonials/{id}", s.handleRemoveTestimonial)

				r.Post("/images", s.handleUploadImages)
				r.Delete("/images", s.handleRemoveImage)

				r.Get("/export/{language}", s.handleExport)
			})
		})
	})

	return r
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

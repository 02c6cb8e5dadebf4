// Package store implements the Domain State Store: an in-memory cache of the
// chapters, bookmarks, notes and testimonials collections kept in sync with
// the remote gateway.
//
// Every mutation is two-phase. The remote call runs first, outside any lock;
// only when it succeeds is the matching change applied to the local
// collection. A failed remote call leaves local state untouched.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/wisdombook/internal/logging"
	"github.com/dmitrijs2005/wisdombook/internal/server/models"
	"golang.org/x/sync/singleflight"
)

// Remote is the gateway surface the store depends on.
type Remote interface {
	Available() bool

	ListChapters(ctx context.Context) ([]models.Chapter, error)
	InsertChapter(ctx context.Context, in models.ChapterInput) (models.Chapter, error)
	UpdateChapter(ctx context.Context, id string, in models.ChapterInput) (models.Chapter, error)
	DeleteChapter(ctx context.Context, id string) error
	ImportChapters(ctx context.Context, ins []models.ChapterInput) ([]models.Chapter, error)

	ListBookmarks(ctx context.Context) ([]models.Bookmark, error)
	InsertBookmark(ctx context.Context, in models.BookmarkInput) (models.Bookmark, error)
	UpdateBookmark(ctx context.Context, id string, patch models.BookmarkPatch) (models.Bookmark, error)
	DeleteBookmark(ctx context.Context, id string) error

	ListNotes(ctx context.Context) ([]models.Note, error)
	InsertNote(ctx context.Context, in models.NoteInput) (models.Note, error)
	UpdateNote(ctx context.Context, id string, text string) (models.Note, error)
	DeleteNote(ctx context.Context, id string) error

	ListTestimonials(ctx context.Context) ([]models.Testimonial, error)
	InsertTestimonial(ctx context.Context, in models.TestimonialInput) (models.Testimonial, error)
	UpdateTestimonial(ctx context.Context, id string, patch models.TestimonialPatch) (models.Testimonial, error)
	DeleteTestimonial(ctx context.Context, id string) error
}

// Status describes the outcome of the latest refresh.
type Status struct {
	Loading        bool      `json:"loading"`
	Available      bool      `json:"available"`
	Error          string    `json:"error,omitempty"`
	SchemaMismatch bool      `json:"schemaMismatch"`
	LastRefresh    time.Time `json:"lastRefresh,omitzero"`
}

type Store struct {
	remote Remote
	logger logging.Logger
	now    func() time.Time

	refreshGroup singleflight.Group

	mu           sync.RWMutex
	chapters     []models.Chapter
	bookmarks    []models.Bookmark
	notes        []models.Note
	testimonials []models.Testimonial
	status       Status

	subsMu  sync.Mutex
	subs    map[int]chan Event
	nextSub int
}

func New(remote Remote, logger logging.Logger) *Store {
	return &Store{
		remote:       remote,
		logger:       logger.With("module", "store"),
		now:          time.Now,
		chapters:     []models.Chapter{},
		bookmarks:    []models.Bookmark{},
		notes:        []models.Note{},
		testimonials: []models.Testimonial{},
		status:       Status{Available: remote.Available()},
		subs:         make(map[int]chan Event),
	}
}

// Status returns the current refresh status.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

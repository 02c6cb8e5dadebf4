package httpapi

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/wisdombook/internal/common"
	"github.com/dmitrijs2005/wisdombook/internal/logging"
	"github.com/dmitrijs2005/wisdombook/internal/server/auth"
	"github.com/dmitrijs2005/wisdombook/internal/server/config"
	"github.com/dmitrijs2005/wisdombook/internal/server/models"
	"github.com/dmitrijs2005/wisdombook/internal/server/store"
	"github.com/stretchr/testify/require"
)

const testPassword = "let-me-in"

// fakeRemote implements the parts of store.Remote the handlers reach.
type fakeRemote struct {
	store.Remote

	mu           sync.Mutex
	seq          int
	chapters     []models.Chapter
	bookmarks    []models.Bookmark
	notes        []models.Note
	testimonials []models.Testimonial
	listErr      error
}

func (f *fakeRemote) id(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeRemote) Available() bool { return true }

func (f *fakeRemote) ListChapters(context.Context) ([]models.Chapter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Chapter{}, f.chapters...), nil
}

func (f *fakeRemote) ListBookmarks(context.Context) ([]models.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Bookmark{}, f.bookmarks...), nil
}

func (f *fakeRemote) ListNotes(context.Context) ([]models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Note{}, f.notes...), nil
}

func (f *fakeRemote) ListTestimonials(context.Context) ([]models.Testimonial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Testimonial{}, f.testimonials...), nil
}

func (f *fakeRemote) InsertChapter(_ context.Context, in models.ChapterInput) (models.Chapter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := models.Chapter{ID: f.id("c"), Title: in.Title, Content: in.Content, Language: in.Language, Order: in.Order, Images: in.Images}
	f.chapters = append(f.chapters, c)
	return c, nil
}

func (f *fakeRemote) UpdateChapter(_ context.Context, id string, in models.ChapterInput) (models.Chapter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.chapters {
		if f.chapters[i].ID == id {
			f.chapters[i].Title, f.chapters[i].Content, f.chapters[i].Order = in.Title, in.Content, in.Order
			return f.chapters[i], nil
		}
	}
	return models.Chapter{}, common.ErrNotFound
}

func (f *fakeRemote) DeleteChapter(context.Context, string) error { return nil }

func (f *fakeRemote) InsertBookmark(_ context.Context, in models.BookmarkInput) (models.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return models.Bookmark{ID: f.id("b"), ChapterID: in.ChapterID, Position: in.Position, Note: in.Note}, nil
}

func (f *fakeRemote) DeleteBookmark(context.Context, string) error { return nil }

func (f *fakeRemote) InsertNote(_ context.Context, in models.NoteInput) (models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return models.Note{ID: f.id("n"), ChapterID: in.ChapterID, Position: in.Position, Text: in.Text}, nil
}

func (f *fakeRemote) UpdateNote(_ context.Context, id string, text string) (models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notes {
		if n.ID == id {
			n.Text = text
			return n, nil
		}
	}
	return models.Note{}, common.ErrNotFound
}

func (f *fakeRemote) DeleteNote(context.Context, string) error { return nil }

func (f *fakeRemote) InsertTestimonial(_ context.Context, in models.TestimonialInput) (models.Testimonial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return models.Testimonial{ID: f.id("t"), Name: in.Name, Text: in.Text, Rating: in.Rating, Approved: in.Approved}, nil
}

func (f *fakeRemote) UpdateTestimonial(_ context.Context, id string, patch models.TestimonialPatch) (models.Testimonial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.testimonials {
		if f.testimonials[i].ID == id {
			f.testimonials[i] = applyTestimonialPatch(patch, f.testimonials[i])
			return f.testimonials[i], nil
		}
	}
	return models.Testimonial{}, common.ErrNotFound
}

type fakeImages struct {
	mu       sync.Mutex
	uploaded []string
	removed  []string
	err      error
}

func (f *fakeImages) UploadImage(_ context.Context, name, contentType string, _ []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded = append(f.uploaded, name+"|"+contentType)
	return "http://s3/chapter-images/" + name, nil
}

func (f *fakeImages) RemoveImage(_ context.Context, imageURL string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, imageURL)
}

type fixture struct {
	remote *fakeRemote
	images *fakeImages
	store  *store.Store
	server *Server
	cfg    *config.Config
}

var (
	hashOnce sync.Once
	hash     string
)

func passwordHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		h, err := auth.HashPassword(testPassword)
		require.NoError(t, err)
		hash = h
	})
	return hash
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	remote := &fakeRemote{
		chapters: []models.Chapter{
			{ID: "c1", Title: "Gratitude", Content: "Count your blessings", Language: models.LanguageEnglish, Order: 2, Images: []string{}},
			{ID: "c2", Title: "Opening", Content: "In the beginning", Language: models.LanguageEnglish, Order: 1, Images: []string{}},
			{ID: "c3", Title: "Shukr", Content: "shukr", Language: models.LanguageUrdu, Order: 1, Images: []string{}},
		},
		notes: []models.Note{{ID: "n1", ChapterID: "c1", Text: "old", CreatedAt: now}},
		testimonials: []models.Testimonial{
			{ID: "t1", Name: "Aisha", Text: "Moving", Rating: 5, Approved: false, CreatedAt: now},
			{ID: "t2", Name: "Omar", Text: "Calm", Rating: 4, Approved: true, CreatedAt: now.Add(-time.Hour)},
		},
	}
	images := &fakeImages{}

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.AdminPasswordHash = passwordHash(t)
	cfg.SecretKey = "test-secret"
	cfg.MaxUploadBytes = 64 << 10

	st := store.New(remote, logging.NewNop())
	require.NoError(t, st.Refresh(context.Background()))

	return &fixture{
		remote: remote,
		images: images,
		store:  st,
		server: NewServer(cfg, st, images, logging.NewNop()),
		cfg:    cfg,
	}
}

func (fx *fixture) adminToken(t *testing.T) string {
	t.Helper()
	tok, err := auth.GenerateToken(auth.AdminSubject, []byte(fx.cfg.SecretKey), time.Hour)
	require.NoError(t, err)
	return tok
}

func applyTestimonialPatch(p models.TestimonialPatch, t models.Testimonial) models.Testimonial {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.Rating != nil {
		t.Rating = *p.Rating
	}
	if p.Approved != nil {
		t.Approved = *p.Approved
	}
	return t
}

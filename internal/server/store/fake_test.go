package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/wisdombook/internal/common"
	"github.com/dmitrijs2005/wisdombook/internal/server/models"
)

// fakeRemote is an in-memory Remote. Errors set in the err fields are
// returned by the matching calls.
type fakeRemote struct {
	mu sync.Mutex

	disabled bool
	seq      int
	now      time.Time

	chapters     []models.Chapter
	bookmarks    []models.Bookmark
	notes        []models.Note
	testimonials []models.Testimonial

	listChaptersErr     error
	listBookmarksErr    error
	listNotesErr        error
	listTestimonialsErr error
	mutateErr           error

	listChaptersCalls atomic.Int32
	chaptersGate      chan struct{}

	lastTestimonial models.TestimonialInput
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeRemote) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-new-%d", prefix, f.seq)
}

func (f *fakeRemote) Available() bool { return !f.disabled }

func (f *fakeRemote) ListChapters(ctx context.Context) ([]models.Chapter, error) {
	f.listChaptersCalls.Add(1)
	if f.chaptersGate != nil {
		select {
		case <-f.chaptersGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listChaptersErr != nil {
		return nil, f.listChaptersErr
	}
	out := make([]models.Chapter, len(f.chapters))
	for i, c := range f.chapters {
		out[i] = c.Clone()
	}
	return out, nil
}

func (f *fakeRemote) InsertChapter(ctx context.Context, in models.ChapterInput) (models.Chapter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutateErr != nil {
		return models.Chapter{}, f.mutateErr
	}
	c := models.Chapter{ID: f.nextID("c"), Title: in.Title, Content: in.Content, Language: in.Language,
		Order: in.Order, Images: append([]string{}, in.Images...), CreatedAt: f.now, UpdatedAt: f.now}
	f.chapters = append(f.chapters, c)
	return c, nil
}

func (f *fakeRemote) UpdateChapter(ctx context.Context, id string, in models.ChapterInput) (models.Chapter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutateErr != nil {
		return models.Chapter{}, f.mutateErr
	}
	for i, c := range f.chapters {
		if c.ID == id {
			c.Title, c.Content, c.Language, c.Order, c.Images = in.Title, in.Content, in.Language, in.Order, in.Images
			f.chapters[i] = c
			return c, nil
		}
	}
	return models.Chapter{}, common.ErrNotFound
}

func (f *fakeRemote) DeleteChapter(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutateErr != nil {
		return f.mutateErr
	}
	f.chapters = filter(f.chapters, func(c models.Chapter) bool { return c.ID != id })
	return nil
}

func (f *fakeRemote) ImportChapters(ctx context.Context, ins []models.ChapterInput) ([]models.Chapter, error) {
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	out := make([]models.Chapter, 0, len(ins))
	for _, in := range ins {
		c, err := f.InsertChapter(ctx, in)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeRemote) ListBookmarks(ctx context.Context) ([]models.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listBookmarksErr != nil {
		return nil, f.listBookmarksErr
	}
	return append([]models.Bookmark{}, f.bookmarks...), nil
}

func (f *fakeRemote) InsertBookmark(ctx context.Context, in models.BookmarkInput) (models.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutateErr != nil {
		return models.Bookmark{}, f.mutateErr
	}
	b := models.Bookmark{ID: f.nextID("b"), ChapterID: in.ChapterID, Position: in.Position, Note: in.Note, CreatedAt: f.now}
	f.bookmarks = append([]models.Bookmark{b}, f.bookmarks...)
	return b, nil
}

func (f *fakeRemote) UpdateBookmark(ctx context.Context, id string, patch models.BookmarkPatch) (models.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutateErr != nil {
		return models.Bookmark{}, f.mutateErr
	}
	for i, b := range f.bookmarks {
		if b.ID == id {
			if patch.Position != nil {
				b.Position = *patch.Position
			}
			if patch.Note != nil {
				b.Note = patch.Note
			}
			f.bookmarks[i] = b
			return b, nil
		}
	}
	return models.Bookmark{}, common.ErrNotFound
}

func (f *fakeRemote) DeleteBookmark(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutateErr != nil {
		return f.mutateErr
	}
	f.bookmarks = filter(f.bookmarks, func(b models.Bookmark) bool { return b.ID != id })
	return nil
}

func (f *fakeRemote) ListNotes(ctx context.Context) ([]models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listNotesErr != nil {
		return nil, f.listNotesErr
	}
	return append([]models.Note{}, f.notes...), nil
}

func (f *fakeRemote) InsertNote(ctx context.Context, in models.NoteInput) (models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutateErr != nil {
		return models.Note{}, f.mutateErr
	}
	n := models.Note{ID: f.nextID("n"), ChapterID: in.ChapterID, Position: in.Position, Text: in.Text, CreatedAt: f.now}
	f.notes = append([]models.Note{n}, f.notes...)
	return n, nil
}

func (f *fakeRemote) UpdateNote(ctx context.Context, id string, text string) (models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutateErr != nil {
		return models.Note{}, f.mutateErr
	}
	for i, n := range f.notes {
		if n.ID == id {
			n.Text = text
			f.notes[i] = n
			return n, nil
		}
	}
	return models.Note{}, common.ErrNotFound
}

func (f *fakeRemote) DeleteNote(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutateErr != nil {
		return f.mutateErr
	}
	f.notes = filter(f.notes, func(n models.Note) bool { return n.ID != id })
	return nil
}

func (f *fakeRemote) ListTestimonials(ctx context.Context) ([]models.Testimonial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listTestimonialsErr != nil {
		return nil, f.listTestimonialsErr
	}
	return append([]models.Testimonial{}, f.testimonials...), nil
}

func (f *fakeRemote) InsertTestimonial(ctx context.Context, in models.TestimonialInput) (models.Testimonial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastTestimonial = in
	if f.mutateErr != nil {
		return models.Testimonial{}, f.mutateErr
	}
	t := models.Testimonial{ID: f.nextID("t"), Name: in.Name, Text: in.Text, Rating: in.Rating, Approved: in.Approved, CreatedAt: f.now}
	f.testimonials = append([]models.Testimonial{t}, f.testimonials...)
	return t, nil
}

func (f *fakeRemote) UpdateTestimonial(ctx context.Context, id string, patch models.TestimonialPatch) (models.Testimonial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutateErr != nil {
		return models.Testimonial{}, f.mutateErr
	}
	for i, t := range f.testimonials {
		if t.ID == id {
			t = applyTestimonialPatch(patch, t)
			f.testimonials[i] = t
			return t, nil
		}
	}
	return models.Testimonial{}, common.ErrNotFound
}

func (f *fakeRemote) DeleteTestimonial(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutateErr != nil {
		return f.mutateErr
	}
	f.testimonials = filter(f.testimonials, func(t models.Testimonial) bool { return t.ID != id })
	return nil
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

package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/wisdombook/internal/common"
	"github.com/dmitrijs2005/wisdombook/internal/server/models"
	"golang.org/x/sync/errgroup"
)

// Refresh reloads all four collections from the remote gateway in parallel.
// If any fetch fails the previous collections are kept and the error is
// recorded in Status and returned. Concurrent calls share one in-flight
// refresh, which keeps running when a caller gives up; that caller gets its
// own context error. With the gateway disabled Refresh only logs a warning.
func (s *Store) Refresh(ctx context.Context) error {
	shared := context.WithoutCancel(ctx)
	ch := s.refreshGroup.DoChan("refresh", func() (any, error) {
		return nil, s.refresh(shared)
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) refresh(ctx context.Context) error {
	if !s.remote.Available() {
		s.mu.Lock()
		s.status = Status{Available: false}
		s.mu.Unlock()
		s.logger.Warn(ctx, "remote backend not configured, skipping refresh")
		return nil
	}

	s.mu.Lock()
	s.status.Loading = true
	s.mu.Unlock()

	var (
		chapters     []models.Chapter
		bookmarks    []models.Bookmark
		notes        []models.Note
		testimonials []models.Testimonial
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if chapters, err = s.remote.ListChapters(gctx); err != nil {
			return fmt.Errorf("load chapters: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if bookmarks, err = s.remote.ListBookmarks(gctx); err != nil {
			return fmt.Errorf("load bookmarks: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if notes, err = s.remote.ListNotes(gctx); err != nil {
			return fmt.Errorf("load notes: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if testimonials, err = s.remote.ListTestimonials(gctx); err != nil {
			return fmt.Errorf("load testimonials: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.mu.Lock()
		s.status.Loading = false
		s.status.Available = true
		s.status.Error = err.Error()
		s.status.SchemaMismatch = errors.Is(err, common.ErrSchemaMismatch)
		s.mu.Unlock()

		s.logger.Error(ctx, "refresh failed", "error", err)
		s.publish(Event{Collection: CollectionAll, Action: ActionRefreshFailed})
		return err
	}

	sortChapters(chapters)
	sort.SliceStable(bookmarks, func(i, j int) bool { return bookmarks[i].CreatedAt.After(bookmarks[j].CreatedAt) })
	sort.SliceStable(notes, func(i, j int) bool { return notes[i].CreatedAt.After(notes[j].CreatedAt) })
	sort.SliceStable(testimonials, func(i, j int) bool { return testimonials[i].CreatedAt.After(testimonials[j].CreatedAt) })

	s.mu.Lock()
	s.chapters = nonNil(chapters)
	s.bookmarks = nonNil(bookmarks)
	s.notes = nonNil(notes)
	s.testimonials = nonNil(testimonials)
	s.status = Status{Available: true, LastRefresh: s.now()}
	s.mu.Unlock()

	s.logger.Info(ctx, "store refreshed",
		"chapters", len(chapters), "bookmarks", len(bookmarks),
		"notes", len(notes), "testimonials", len(testimonials))
	s.publish(Event{Collection: CollectionAll, Action: ActionRefreshed})
	return nil
}

func sortChapters(chapters []models.Chapter) {
	sort.SliceStable(chapters, func(i, j int) bool { return chapters[i].Order < chapters[j].Order })
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/wisdombook/internal/common"
	"github.com/dmitrijs2005/wisdombook/internal/server/models"
)

// AddChapter inserts a chapter remotely and adds it to the local collection,
// which stays sorted by order.
func (s *Store) AddChapter(ctx context.Context, in models.ChapterInput) (models.Chapter, error) {
	if err := in.Validate(); err != nil {
		return models.Chapter{}, err
	}

	c, err := s.remote.InsertChapter(ctx, in)
	if err != nil {
		return models.Chapter{}, err
	}

	s.mu.Lock()
	s.chapters = append(s.chapters, c)
	sortChapters(s.chapters)
	s.mu.Unlock()

	s.logger.Info(ctx, "chapter added", "id", c.ID, "language", c.Language, "order", c.Order)
	s.publish(Event{Collection: CollectionChapters, Action: ActionAdded, ID: c.ID})
	return c.Clone(), nil
}

// UpdateChapter replaces the editable fields of chapter id.
func (s *Store) UpdateChapter(ctx context.Context, id string, in models.ChapterInput) (models.Chapter, error) {
	if err := in.Validate(); err != nil {
		return models.Chapter{}, err
	}

	c, err := s.remote.UpdateChapter(ctx, id, in)
	if err != nil {
		return models.Chapter{}, err
	}

	s.mu.Lock()
	for i := range s.chapters {
		if s.chapters[i].ID == id {
			s.chapters[i] = c
			break
		}
	}
	sortChapters(s.chapters)
	s.mu.Unlock()

	s.logger.Info(ctx, "chapter updated", "id", id)
	s.publish(Event{Collection: CollectionChapters, Action: ActionUpdated, ID: id})
	return c.Clone(), nil
}

// RemoveChapter deletes chapter id. Removing an unknown id is not an error.
func (s *Store) RemoveChapter(ctx context.Context, id string) error {
	if err := s.remote.DeleteChapter(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	s.chapters = filter(s.chapters, func(c models.Chapter) bool { return c.ID != id })
	s.mu.Unlock()

	s.logger.Info(ctx, "chapter removed", "id", id)
	s.publish(Event{Collection: CollectionChapters, Action: ActionRemoved, ID: id})
	return nil
}

// ImportChapters inserts a batch of chapters atomically. Either all of them
// are added or none.
func (s *Store) ImportChapters(ctx context.Context, ins []models.ChapterInput) ([]models.Chapter, error) {
	if len(ins) == 0 {
		return nil, fmt.Errorf("%w: nothing to import", common.ErrValidation)
	}
	for i, in := range ins {
		if err := in.Validate(); err != nil {
			return nil, fmt.Errorf("chapter %d: %w", i+1, err)
		}
	}

	added, err := s.remote.ImportChapters(ctx, ins)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.chapters = append(s.chapters, added...)
	sortChapters(s.chapters)
	s.mu.Unlock()

	s.logger.Info(ctx, "chapters imported", "count", len(added))
	s.publish(Event{Collection: CollectionChapters, Action: ActionAdded})
	return cloneChapters(added), nil
}

// Chapters returns all chapters sorted by order.
func (s *Store) Chapters() []models.Chapter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneChapters(s.chapters)
}

// Chapter returns the chapter with the given id.
func (s *Store) Chapter(id string) (models.Chapter, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.chapters {
		if c.ID == id {
			return c.Clone(), true
		}
	}
	return models.Chapter{}, false
}

// ChaptersByLanguage returns the chapters written in lang, sorted by order.
func (s *Store) ChaptersByLanguage(lang models.Language) []models.Chapter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Chapter, 0)
	for _, c := range s.chapters {
		if c.Language == lang {
			out = append(out, c.Clone())
		}
	}
	return out
}

// SearchChapters returns the chapters whose title or content contains query,
// ignoring case. A blank query returns every chapter.
func (s *Store) SearchChapters(query string) []models.Chapter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return searchChapters(s.chapters, query)
}

func searchChapters(chapters []models.Chapter, query string) []models.Chapter {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return cloneChapters(chapters)
	}
	out := make([]models.Chapter, 0)
	for _, c := range chapters {
		if c.Matches(q) {
			out = append(out, c.Clone())
		}
	}
	return out
}

// NextChapterOrder suggests the order for a new chapter: one past the
// highest existing order, or 1 when there are none.
func (s *Store) NextChapterOrder() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	next := 1
	for _, c := range s.chapters {
		if c.Order >= next {
			next = c.Order + 1
		}
	}
	return next
}

func cloneChapters(in []models.Chapter) []models.Chapter {
	out := make([]models.Chapter, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

func filter[T any](in []T, keep func(T) bool) []T {
	out := in[:0:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

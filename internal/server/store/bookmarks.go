package store

import (
	"context"

	"github.com/dmitrijs2005/wisdombook/internal/server/models"
)

// AddBookmark stores a bookmark and puts it first in the local collection.
func (s *Store) AddBookmark(ctx context.Context, in models.BookmarkInput) (models.Bookmark, error) {
	if err := in.Validate(); err != nil {
		return models.Bookmark{}, err
	}

	b, err := s.remote.InsertBookmark(ctx, in)
	if err != nil {
		return models.Bookmark{}, err
	}

	s.mu.Lock()
	s.bookmarks = prepend(s.bookmarks, b)
	s.mu.Unlock()

	s.publish(Event{Collection: CollectionBookmarks, Action: ActionAdded, ID: b.ID})
	return b.Clone(), nil
}

func (s *Store) UpdateBookmark(ctx context.Context, id string, patch models.BookmarkPatch) (models.Bookmark, error) {
	if err := patch.Validate(); err != nil {
		return models.Bookmark{}, err
	}

	b, err := s.remote.UpdateBookmark(ctx, id, patch)
	if err != nil {
		return models.Bookmark{}, err
	}

	s.mu.Lock()
	for i := range s.bookmarks {
		if s.bookmarks[i].ID == id {
			s.bookmarks[i] = b
			break
		}
	}
	s.mu.Unlock()

	s.publish(Event{Collection: CollectionBookmarks, Action: ActionUpdated, ID: id})
	return b.Clone(), nil
}

func (s *Store) RemoveBookmark(ctx context.Context, id string) error {
	if err := s.remote.DeleteBookmark(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	s.bookmarks = filter(s.bookmarks, func(b models.Bookmark) bool { return b.ID != id })
	s.mu.Unlock()

	s.publish(Event{Collection: CollectionBookmarks, Action: ActionRemoved, ID: id})
	return nil
}

// Bookmarks returns the bookmarks, newest first.
func (s *Store) Bookmarks() []models.Bookmark {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneBookmarks(s.bookmarks)
}

func cloneBookmarks(in []models.Bookmark) []models.Bookmark {
	out := make([]models.Bookmark, len(in))
	for i, b := range in {
		out[i] = b.Clone()
	}
	return out
}

func prepend[T any](in []T, v T) []T {
	out := make([]T, 0, len(in)+1)
	out = append(out, v)
	return append(out, in...)
}

package store

import (
	"context"

	"github.com/dmitrijs2005/wisdombook/internal/server/models"
)

func (s *Store) AddNote(ctx context.Context, in models.NoteInput) (models.Note, error) {
	if err := in.Validate(); err != nil {
		return models.Note{}, err
	}

	n, err := s.remote.InsertNote(ctx, in)
	if err != nil {
		return models.Note{}, err
	}

	s.mu.Lock()
	s.notes = prepend(s.notes, n)
	s.mu.Unlock()

	s.publish(Event{Collection: CollectionNotes, Action: ActionAdded, ID: n.ID})
	return n, nil
}

func (s *Store) UpdateNote(ctx context.Context, id string, text string) (models.Note, error) {
	if err := models.ValidateNoteText(text); err != nil {
		return models.Note{}, err
	}

	n, err := s.remote.UpdateNote(ctx, id, text)
	if err != nil {
		return models.Note{}, err
	}

	s.mu.Lock()
	for i := range s.notes {
		if s.notes[i].ID == id {
			s.notes[i] = n
			break
		}
	}
	s.mu.Unlock()

	s.publish(Event{Collection: CollectionNotes, Action: ActionUpdated, ID: id})
	return n, nil
}

func (s *Store) RemoveNote(ctx context.Context, id string) error {
	if err := s.remote.DeleteNote(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	s.notes = filter(s.notes, func(n models.Note) bool { return n.ID != id })
	s.mu.Unlock()

	s.publish(Event{Collection: CollectionNotes, Action: ActionRemoved, ID: id})
	return nil
}

// Notes returns the notes, newest first.
func (s *Store) Notes() []models.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Note{}, s.notes...)
}

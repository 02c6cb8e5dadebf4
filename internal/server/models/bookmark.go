package models

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/wisdombook/internal/common"
	"github.com/google/uuid"
)

// Bookmark marks a reading position. ChapterID is a soft reference: it is not
// checked against existing chapters.
type Bookmark struct {
	ID        string    `json:"id"`
	ChapterID string    `json:"chapterId"`
	Position  int       `json:"position"`
	Note      *string   `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Clone returns a copy that does not share the note.
func (b Bookmark) Clone() Bookmark {
	if b.Note != nil {
		note := *b.Note
		b.Note = &note
	}
	return b
}

type BookmarkInput struct {
	ChapterID string  `json:"chapterId"`
	Position  int     `json:"position"`
	Note      *string `json:"note,omitempty"`
}

func (in BookmarkInput) Validate() error {
	if err := validateChapterRef("bookmark", in.ChapterID); err != nil {
		return err
	}
	if in.Position < 0 {
		return fmt.Errorf("%w: bookmark position must not be negative", common.ErrValidation)
	}
	return nil
}

// BookmarkPatch is a partial update; nil fields are left unchanged.
type BookmarkPatch struct {
	Position *int    `json:"position,omitempty"`
	Note     *string `json:"note,omitempty"`
}

func (p BookmarkPatch) Validate() error {
	if p.Position == nil && p.Note == nil {
		return fmt.Errorf("%w: empty bookmark update", common.ErrValidation)
	}
	if p.Position != nil && *p.Position < 0 {
		return fmt.Errorf("%w: bookmark position must not be negative", common.ErrValidation)
	}
	return nil
}

// validateChapterRef checks the format of a chapter id without looking the
// chapter up.
func validateChapterRef(kind, id string) error {
	if id == "" {
		return fmt.Errorf("%w: %s chapterId is required", common.ErrValidation, kind)
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s chapterId %q is not a valid id", common.ErrValidation, kind, id)
	}
	return nil
}

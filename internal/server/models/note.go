package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/wisdombook/internal/common"
)

type Note struct {
	ID        string    `json:"id"`
	ChapterID string    `json:"chapterId"`
	Position  int       `json:"position"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type NoteInput struct {
	ChapterID string `json:"chapterId"`
	Position  int    `json:"position"`
	Text      string `json:"text"`
}

func (in NoteInput) Validate() error {
	if err := validateChapterRef("note", in.ChapterID); err != nil {
		return err
	}
	return ValidateNoteText(in.Text)
}

// ValidateNoteText rejects blank note text.
func ValidateNoteText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: note text is required", common.ErrValidation)
	}
	return nil
}

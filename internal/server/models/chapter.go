// Package models defines the book entities shared by the gateway, the state
// store and the transport layers, together with their input validation.
//
// JSON names are camelCase; the matching database columns are snake_case
// (chapterId -> chapter_id, createdAt -> created_at, updatedAt -> updated_at).
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/wisdombook/internal/common"
)

// Language of a chapter.
type Language string

const (
	LanguageEnglish Language = "english"
	LanguageUrdu    Language = "urdu"
)

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	return l == LanguageEnglish || l == LanguageUrdu
}

// RTL reports whether the language is written right to left.
func (l Language) RTL() bool {
	return l == LanguageUrdu
}

// Chapter is a unit of the book. Order defines the display sequence within a
// language.
type Chapter struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Language  Language  `json:"language"`
	Order     int       `json:"order"`
	Images    []string  `json:"images"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ChapterInput carries the editable fields of a chapter for insert and update.
type ChapterInput struct {
	Title    string   `json:"title" yaml:"title"`
	Content  string   `json:"content" yaml:"content"`
	Language Language `json:"language" yaml:"language"`
	Order    int      `json:"order" yaml:"order"`
	Images   []string `json:"images" yaml:"images"`
}

// Validate checks that the title is set, that there is either text or at
// least one image, and that language and order are sane.
func (in ChapterInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: chapter title is required", common.ErrValidation)
	}
	if strings.TrimSpace(in.Content) == "" && len(in.Images) == 0 {
		return fmt.Errorf("%w: chapter needs text content or images", common.ErrValidation)
	}
	if !in.Language.Valid() {
		return fmt.Errorf("%w: unsupported language %q", common.ErrValidation, in.Language)
	}
	if in.Order < 1 {
		return fmt.Errorf("%w: chapter order must be at least 1", common.ErrValidation)
	}
	return nil
}

// Clone returns a copy that does not share the images slice.
func (c Chapter) Clone() Chapter {
	c.Images = append([]string(nil), c.Images...)
	return c
}

// Matches reports whether the lower-cased query occurs in the title or the
// content, ignoring case.
func (c Chapter) Matches(lowerQuery string) bool {
	return strings.Contains(strings.ToLower(c.Title), lowerQuery) ||
		strings.Contains(strings.ToLower(c.Content), lowerQuery)
}

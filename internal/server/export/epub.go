// Package export renders the chapters of one language as an EPUB book.
package export

import (
	"fmt"
	"html"
	"io"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/wisdombook/internal/common"
	"github.com/dmitrijs2005/wisdombook/internal/filex"
	"github.com/dmitrijs2005/wisdombook/internal/server/models"
	"github.com/go-shiori/go-epub"
)

// Options describe the book being exported.
type Options struct {
	Title       string
	Author      string
	Description string
	// EmbedImages fetches chapter images into the book. Otherwise images are
	// referenced by their public URL.
	EmbedImages bool
}

var langCodes = map[models.Language]string{
	models.LanguageEnglish: "en",
	models.LanguageUrdu:    "ur",
}

// Build assembles an EPUB from chapters, which must all be in lang and are
// expected in reading order.
func Build(lang models.Language, chapters []models.Chapter, opts Options) (*epub.Epub, error) {
	if !lang.Valid() {
		return nil, fmt.Errorf("%w: unsupported language %q", common.ErrValidation, lang)
	}
	if len(chapters) == 0 {
		return nil, fmt.Errorf("%w: no %s chapters to export", common.ErrNotFound, lang)
	}

	title := opts.Title
	if title == "" {
		title = "Wisdom Book"
	}

	e, err := epub.NewEpub(title)
	if err != nil {
		return nil, fmt.Errorf("failed to create epub: %w", err)
	}
	if opts.Author != "" {
		e.SetAuthor(opts.Author)
	}
	if opts.Description != "" {
		e.SetDescription(opts.Description)
	}
	e.SetLang(langCodes[lang])
	if lang.RTL() {
		e.SetPpd("rtl")
	}

	for _, c := range chapters {
		if c.Language != lang {
			continue
		}
		if err := addChapter(e, c, opts.EmbedImages); err != nil {
			return nil, err
		}
	}

	return e, nil
}

func addChapter(e *epub.Epub, c models.Chapter, embed bool) error {
	var body strings.Builder
	fmt.Fprintf(&body, "<h1>%s</h1>\n", html.EscapeString(c.Title))

	for i, img := range c.Images {
		src := img
		if embed {
			internal, err := e.AddImage(img, "")
			if err != nil {
				return fmt.Errorf("failed to add image %s: %w", img, err)
			}
			src = internal
		}
		fmt.Fprintf(&body, `<div class="image"><img src="%s" alt="Image %d" style="width:100%%;height:auto;"/></div>%s`,
			html.EscapeString(src), i+1, "\n")
	}

	for _, para := range paragraphs(c.Content) {
		fmt.Fprintf(&body, "<p>%s</p>\n", html.EscapeString(para))
	}

	if _, err := e.AddSection(body.String(), c.Title, "", ""); err != nil {
		return fmt.Errorf("failed to add section: %w", err)
	}
	return nil
}

// paragraphs splits content on blank lines.
func paragraphs(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(content, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FileName returns the file name used for an export of lang.
func FileName(title string, lang models.Language) string {
	if title == "" {
		title = "Wisdom Book"
	}
	return filex.SanitizeFilename(fmt.Sprintf("%s (%s)", title, lang)) + ".epub"
}

// WriteTo renders the book to w.
func WriteTo(e *epub.Epub, w io.Writer) error {
	_, err := e.WriteTo(w)
	return err
}

// WriteFile renders the book into dir and returns the written path.
func WriteFile(e *epub.Epub, dir, name string) (string, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(abs, name)
	if err := e.Write(path); err != nil {
		return "", fmt.Errorf("failed to write epub: %w", err)
	}
	return path, nil
}

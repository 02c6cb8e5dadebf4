package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/wisdombook/internal/common"
	"github.com/dmitrijs2005/wisdombook/internal/server/export"
	"github.com/dmitrijs2005/wisdombook/internal/server/models"
	"github.com/dmitrijs2005/wisdombook/internal/server/store"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (a *App) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Insert chapters from a JSON or YAML file",
		Long: `Reads a list of chapters (title, content, language, order, images) and
inserts them in a single transaction. Chapters without an order are appended
after the current last chapter.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ins, err := readChapters(args[0])
			if err != nil {
				return err
			}
			return a.withStore(cmd, func(ctx context.Context, st *store.Store) error {
				next := st.NextChapterOrder()
				for i := range ins {
					if ins[i].Order == 0 {
						ins[i].Order = next
						next++
					}
				}
				added, err := st.ImportChapters(ctx, ins)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d chapters\n", len(added))
				return nil
			})
		},
	}
}

// readChapters decodes a chapter list, as YAML for .yaml/.yml files and as
// JSON otherwise.
func readChapters(path string) ([]models.ChapterInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var ins []models.ChapterInput
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &ins)
	default:
		err = json.Unmarshal(data, &ins)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", common.ErrValidation, path, err)
	}
	return ins, nil
}

func (a *App) exportCmd() *cobra.Command {
	var opts export.Options
	var dir string

	cmd := &cobra.Command{
		Use:   "export <english|urdu>",
		Short: "Write the chapters of one language as an EPUB book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang := models.Language(args[0])
			return a.withStore(cmd, func(_ context.Context, st *store.Store) error {
				book, err := export.Build(lang, st.ChaptersByLanguage(lang), opts)
				if err != nil {
					return err
				}
				path, err := export.WriteFile(book, dir, export.FileName(opts.Title, lang))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&dir, "out", "o", ".", "output directory")
	cmd.Flags().StringVar(&opts.Title, "title", "", "book title")
	cmd.Flags().StringVar(&opts.Author, "author", "", "book author")
	cmd.Flags().StringVar(&opts.Description, "description", "", "book description")
	cmd.Flags().BoolVar(&opts.EmbedImages, "embed-images", false, "download chapter images into the book")
	return cmd
}

package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/wisdombook/internal/common"
	"github.com/dmitrijs2005/wisdombook/internal/server/models"
	"github.com/dmitrijs2005/wisdombook/internal/server/store"
	"github.com/spf13/cobra"
)

func (a *App) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show collection counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(_ context.Context, st *store.Store) error {
				s := st.Stats()
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintf(w, "english chapters\t%d\n", s.EnglishChapters)
				fmt.Fprintf(w, "urdu chapters\t%d\n", s.UrduChapters)
				fmt.Fprintf(w, "bookmarks\t%d\n", s.Bookmarks)
				fmt.Fprintf(w, "notes\t%d\n", s.Notes)
				fmt.Fprintf(w, "approved testimonials\t%d\n", s.ApprovedTestimonials)
				fmt.Fprintf(w, "pending testimonials\t%d\n", s.PendingTestimonials)
				return w.Flush()
			})
		},
	}
}

func (a *App) chaptersCmd() *cobra.Command {
	chapters := &cobra.Command{
		Use:   "chapters",
		Short: "Inspect chapters",
	}

	var language, query string
	list := &cobra.Command{
		Use:   "list",
		Short: "List chapters in reading order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lang := models.Language(language)
			if lang != "" && !lang.Valid() {
				return fmt.Errorf("%w: unsupported language %q", common.ErrValidation, language)
			}
			return a.withStore(cmd, func(_ context.Context, st *store.Store) error {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ORDER\tLANGUAGE\tTITLE\tIMAGES\tID")
				for _, c := range st.SearchChapters(query) {
					if lang != "" && c.Language != lang {
						continue
					}
					fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", c.Order, c.Language, c.Title, len(c.Images), c.ID)
				}
				return w.Flush()
			})
		},
	}
	list.Flags().StringVarP(&language, "language", "l", "", "only chapters in this language (english or urdu)")
	list.Flags().StringVarP(&query, "query", "q", "", "case-insensitive text filter")

	chapters.AddCommand(list)
	return chapters
}

func (a *App) testimonialsCmd() *cobra.Command {
	testimonials := &cobra.Command{
		Use:   "testimonials",
		Short: "Moderate reader testimonials",
	}

	pending := &cobra.Command{
		Use:   "pending",
		Short: "List testimonials awaiting approval",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(_ context.Context, st *store.Store) error {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tRATING\tTEXT")
				for _, t := range st.PendingTestimonials() {
					fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", t.ID, t.Name, t.Rating, t.Text)
				}
				return w.Flush()
			})
		},
	}

	approve := &cobra.Command{
		Use:   "approve <id>...",
		Short: "Approve testimonials",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, ids []string) error {
			return a.setApproval(cmd, ids, true)
		},
	}

	reject := &cobra.Command{
		Use:   "reject <id>...",
		Short: "Delete testimonials",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, ids []string) error {
			return a.withStore(cmd, func(ctx context.Context, st *store.Store) error {
				for _, id := range ids {
					if err := st.RemoveTestimonial(ctx, id); err != nil {
						return fmt.Errorf("reject %s: %w", id, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "rejected %s\n", id)
				}
				return nil
			})
		},
	}

	testimonials.AddCommand(pending, approve, reject)
	return testimonials
}

func (a *App) setApproval(cmd *cobra.Command, ids []string, approved bool) error {
	return a.withStore(cmd, func(ctx context.Context, st *store.Store) error {
		for _, id := range ids {
			t, err := st.UpdateTestimonial(ctx, id, models.TestimonialPatch{Approved: &approved})
			if err != nil {
				return fmt.Errorf("approve %s: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "approved %s (%s)\n", t.ID, t.Name)
		}
		return nil
	})
}

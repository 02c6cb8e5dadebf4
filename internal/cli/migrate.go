package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/wisdombook/internal/logging"
	"github.com/spf13/cobra"
)

func (a *App) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withBackend(cmd, func(ctx context.Context, b Backend, _ logging.Logger) error {
				if err := b.RunMigrations(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	}
}

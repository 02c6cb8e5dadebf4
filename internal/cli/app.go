// Package cli implements bookctl, the operator tool for the book backend:
// schema migrations, admin password hashing, chapter import and export, and
// testimonial moderation.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dmitrijs2005/wisdombook/internal/common"
	"github.com/dmitrijs2005/wisdombook/internal/logging"
	"github.com/dmitrijs2005/wisdombook/internal/server/config"
	"github.com/dmitrijs2005/wisdombook/internal/server/gateway"
	"github.com/dmitrijs2005/wisdombook/internal/server/store"
	"github.com/spf13/cobra"
)

// Backend is the remote side bookctl talks to.
type Backend interface {
	store.Remote
	RunMigrations(ctx context.Context) error
	Close() error
}

var openBackend = func(ctx context.Context, cfg *config.Config, l logging.Logger) (Backend, error) {
	return gateway.Open(ctx, cfg, l)
}

type App struct {
	configPath string
	verbose    bool
	in         io.Reader
}

// NewRootCmd builds the command tree. Output goes to the command's out and
// err writers so callers can redirect it.
func NewRootCmd(in io.Reader) *cobra.Command {
	a := &App{in: in}

	root := &cobra.Command{
		Use:           "bookctl",
		Short:         "Operate the book backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to a JSON or YAML config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		a.migrateCmd(),
		a.hashPasswordCmd(),
		a.statsCmd(),
		a.chaptersCmd(),
		a.testimonialsCmd(),
		a.importCmd(),
		a.exportCmd(),
	)
	return root
}

func (a *App) logger(cmd *cobra.Command) logging.Logger {
	lvl := slog.LevelWarn
	if a.verbose {
		lvl = slog.LevelDebug
	}
	h := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl})
	return logging.NewSlogLogger(slog.New(h))
}

// withBackend opens the configured backend, runs fn and closes it.
func (a *App) withBackend(cmd *cobra.Command, fn func(ctx context.Context, b Backend, l logging.Logger) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadFrom(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	l := a.logger(cmd)
	b, err := openBackend(ctx, cfg, l)
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			l.Warn(ctx, "closing backend", "error", err)
		}
	}()

	if !b.Available() {
		return fmt.Errorf("%w: set a database DSN and storage endpoint", common.ErrGatewayUnavailable)
	}
	return fn(ctx, b, l)
}

// withStore is withBackend plus a loaded store.
func (a *App) withStore(cmd *cobra.Command, fn func(ctx context.Context, st *store.Store) error) error {
	return a.withBackend(cmd, func(ctx context.Context, b Backend, l logging.Logger) error {
		st := store.New(b, l)
		if err := st.Refresh(ctx); err != nil {
			return fmt.Errorf("load data: %w", err)
		}
		return fn(ctx, st)
	})
}

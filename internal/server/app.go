// Package server wires the gateway, the book store and the HTTP and gRPC
// servers together and runs them until a shutdown signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/wisdombook/internal/logging"
	"github.com/dmitrijs2005/wisdombook/internal/server/config"
	"github.com/dmitrijs2005/wisdombook/internal/server/gateway"
	"github.com/dmitrijs2005/wisdombook/internal/server/httpapi"
	"github.com/dmitrijs2005/wisdombook/internal/server/store"

	gs "github.com/dmitrijs2005/wisdombook/internal/server/grpc"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	gateway *gateway.Gateway
	store   *store.Store
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(logging.ParseLevel(c.LogLevel))

	gw, err := gateway.Open(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("gateway init error: %w", err)
	}

	return &App{config: c, logger: logger, gateway: gw, store: store.New(gw, logger)}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config, app.store, app.gateway, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.store)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	// a failed first load leaves the store empty with its error recorded;
	// readers can retry through /api/refresh
	if err := app.store.Refresh(ctx); err != nil {
		app.logger.Warn(ctx, "initial refresh failed", "error", err)
	}

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.gateway.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}

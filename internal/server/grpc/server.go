// Package grpc serves the standard gRPC health service. The book store's
// health follows the outcome of its latest refresh.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/wisdombook/internal/logging"
	"github.com/dmitrijs2005/wisdombook/internal/server/store"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// StoreServiceName is the health service name that reflects the store.
const StoreServiceName = "wisdombook.Store"

// StatusSource reports store status and announces changes.
type StatusSource interface {
	Status() store.Status
	Subscribe() (<-chan store.Event, func())
}

type GRPCServer struct {
	address string
	source  StatusSource
	health  *health.Server
	logger  logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, src StatusSource) *GRPCServer {
	return &GRPCServer{
		address: a,
		source:  src,
		health:  health.NewServer(),
		logger:  l.With("module", "grpc_server"),
	}
}

// servingStatus maps store status to a health status. A store without a
// configured backend or with a failed refresh is not serving.
func servingStatus(st store.Status) healthpb.HealthCheckResponse_ServingStatus {
	if !st.Available || st.Error != "" {
		return healthpb.HealthCheckResponse_NOT_SERVING
	}
	return healthpb.HealthCheckResponse_SERVING
}

// SyncHealth copies the current store status into the health server.
func (s *GRPCServer) SyncHealth() {
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(StoreServiceName, servingStatus(s.source.Status()))
}

func (s *GRPCServer) watch(events <-chan store.Event) {
	for range events {
		s.SyncHealth()
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	events, cancel := s.source.Subscribe()
	s.SyncHealth()
	go s.watch(events)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		cancel()
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}

package server

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-yamdb/internal/config"
	"github.com/MKhiriev/go-yamdb/internal/handler"
	"github.com/MKhiriev/go-yamdb/internal/logger"
)

type server struct {
	httpServer *httpServer
	logger     *logger.Logger
}

func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")

	if cfg.HTTPAddress == "" || handlers == nil || handlers.HTTP == nil {
		return nil, errNoServersAreCreated
	}

	return &server{
		httpServer: newHTTPServer(handlers.HTTP.Init(), cfg, logger),
		logger:     logger,
	}, nil
}

// RunServer serves until SIGINT, SIGTERM or SIGQUIT arrives, then shuts
// down gracefully.
func (s *server) RunServer() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	s.serve(ctx)
}

func (s *server) Shutdown() {
	s.httpServer.Shutdown()
}

// serve runs the HTTP server until ctx is done.
func (s *server) serve(ctx context.Context) {
	stopped := make(chan struct{})
	go func() {
		s.httpServer.RunServer()
		close(stopped)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info().Msg("stop signal received")
		s.Shutdown()
		<-stopped
	case <-stopped:
	}

	s.logger.Info().Msg("server Shutdown gracefully")
}

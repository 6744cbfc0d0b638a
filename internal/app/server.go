package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skyfare/farecalc-service/internal/logger"
)

const (
	readTimeout     = 15 * time.Second
	writeTimeout    = 15 * time.Second
	idleTimeout     = 60 * time.Second
	drainTimeout    = 10 * time.Second
	maxHeaderBytes = 1 << 20
)

// Server runs the HTTP listener and drains it on SIGINT/SIGTERM.
type Server struct {
	srv        *http.Server
	onShutdown []func()
}

// NewServer wraps the router in an http.Server with production timeouts.
func NewServer(handler http.Handler, port string) *Server {
	return &Server{
		srv: &http.Server{
			Addr:           ":" + port,
			Handler:        handler,
			ReadTimeout:    readTimeout,
			WriteTimeout:   writeTimeout,
			IdleTimeout:    idleTimeout,
			MaxHeaderBytes: maxHeaderBytes,
		},
	}
}

// OnShutdown registers a hook to run after the listener stops accepting
// requests. Hooks run in registration order; the entry journal drain goes
// here so buffered audit records reach Mongo before exit.
func (s *Server) OnShutdown(hook func()) {
	s.onShutdown = append(s.onShutdown, hook)
}

// Run serves until the process is signalled, then drains gracefully.
func (s *Server) Run() error {
	log := logger.ForComponent("server")

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.srv.Addr).Msg("Server starting")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Signal received, draining")
	}

	return s.Shutdown()
}

// Shutdown stops accepting connections, waits out in-flight requests up
// to the drain timeout, then runs the registered hooks.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	log := logger.ForComponent("server")
	if err := s.srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Drain deadline exceeded, closing")
		return err
	}

	for _, hook := range s.onShutdown {
		hook()
	}

	log.Info().Msg("Server stopped")
	return nil
}

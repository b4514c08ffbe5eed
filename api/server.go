// Package api serves the read-only query surface of the HTLC ledger:
// swap lookups, active pagination, payout status, the event log, and
// prometheus metrics. Nothing here mutates ledger state.
package api

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/fusionswap/htlc-node/ledger"
)

// Server provides HTTP endpoints over a ledger engine.
type Server struct {
	logger zerolog.Logger
	engine *ledger.Engine
	server *http.Server
}

// NewServer creates a new Server instance.
func NewServer(logger zerolog.Logger, engine *ledger.Engine, port int) *Server {
	s := &Server{
		logger: logger.With().Str("component", "api").Logger(),
		engine: engine,
	}

	mux := s.setupRoutes()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	if s.server == nil {
		return fmt.Errorf("query server is nil")
	}

	// Channel to signal server startup result
	startupChan := make(chan error, 1)

	go func() {
		// Probe the port before committing to ListenAndServe so startup
		// failures surface to the caller instead of a background goroutine.
		ln, err := net.Listen("tcp", s.server.Addr)
		if err != nil {
			startupChan <- fmt.Errorf("failed to bind to address %s: %w", s.server.Addr, err)
			return
		}
		ln.Close()

		startupChan <- nil

		err = s.server.ListenAndServe()
		switch err {
		case nil:
			s.logger.Info().Msg("Query server stopped normally")
		case http.ErrServerClosed:
			s.logger.Info().Msg("Query server closed gracefully")
		default:
			s.logger.Error().Err(err).Msg("Query server error")
		}
	}()

	select {
	case err := <-startupChan:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("server startup timeout")
	}
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

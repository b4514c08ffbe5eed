package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes configures all HTTP routes for the API server.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Health check and metrics
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	// API v1 endpoints
	mux.HandleFunc("/api/v1/swap", s.handleSwap)
	mux.HandleFunc("/api/v1/swaps/active", s.handleActiveSwaps)
	mux.HandleFunc("/api/v1/swap/cross-chain", s.handleCrossChainInfo)
	mux.HandleFunc("/api/v1/payouts", s.handlePayouts)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/info", s.handleInfo)

	return mux
}

package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	swaperrors "github.com/fusionswap/htlc-node/errors"
)

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleSwap handles GET /api/v1/swap?id=<swap_id>
func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		s.writeError(w, http.StatusBadRequest, "id parameter is required", "")
		return
	}

	view, err := s.engine.GetSwap(id)
	if err != nil {
		s.writeSwapError(w, err)
		return
	}
	s.writeData(w, view)
}

// handleCrossChainInfo handles GET /api/v1/swap/cross-chain?id=<swap_id>
func (s *Server) handleCrossChainInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		s.writeError(w, http.StatusBadRequest, "id parameter is required", "")
		return
	}

	info, err := s.engine.GetCrossChainInfo(id)
	if err != nil {
		s.writeSwapError(w, err)
		return
	}
	s.writeData(w, info)
}

// handleActiveSwaps handles GET /api/v1/swaps/active?offset=<n>&limit=<n>
func (s *Server) handleActiveSwaps(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	offset := intParam(r, "offset", 0)
	limit := intParam(r, "limit", 0)

	views, err := s.engine.ListActive(offset, limit)
	if err != nil {
		s.writeSwapError(w, err)
		return
	}
	s.writeData(w, views)
}

// handlePayouts handles GET /api/v1/payouts?status=<status>
func (s *Server) handlePayouts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	views, err := s.engine.ListPayouts(r.URL.Query().Get("status"))
	if err != nil {
		s.writeSwapError(w, err)
		return
	}
	s.writeData(w, views)
}

// handleEvents handles GET /api/v1/events?after=<id>&limit=<n>
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	after := intParam(r, "after", 0)
	limit := intParam(r, "limit", 0)

	views, err := s.engine.ListEvents(uint(after), limit)
	if err != nil {
		s.writeSwapError(w, err)
		return
	}
	s.writeData(w, views)
}

// handleInfo handles GET /api/v1/info
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	info, err := s.engine.Info()
	if err != nil {
		s.writeSwapError(w, err)
		return
	}
	s.writeData(w, info)
}

func (s *Server) writeData(w http.ResponseWriter, data interface{}) {
	response := QueryResponse{
		Data:        data,
		LastFetched: s.engine.Cache().LastUpdated(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message, Code: code})
}

func (s *Server) writeSwapError(w http.ResponseWriter, err error) {
	swapErr := swaperrors.AsSwapError(err)
	status := http.StatusInternalServerError
	if swapErr.Code == swaperrors.CodeNotFound {
		status = http.StatusNotFound
	} else if swapErr.IsRejection() {
		status = http.StatusBadRequest
	}
	s.writeError(w, status, swapErr.Message, string(swapErr.Code))
}

func intParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

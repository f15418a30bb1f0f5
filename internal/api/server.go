package api

import (
	"encoding/json"
	"net/http"

	"github.com/nmoreau/wordflash/internal/logger"
	"github.com/nmoreau/wordflash/internal/services"
)

// Server holds the services the HTTP layer translates to and from JSON.
type Server struct {
	Due      services.DueService
	Sessions services.SessionService

	// DueLimit caps list-scoped due queries when the caller does not pass
	// an explicit limit.
	DueLimit int
}

func (s *Server) respondJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

func (s *Server) decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

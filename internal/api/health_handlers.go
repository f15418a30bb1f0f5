package api

import (
	"net/http"
)

// handleHealth is a liveness probe. It reports only that the process runs.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

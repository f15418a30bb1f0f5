package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/nmoreau/wordflash/internal/errors"
	"github.com/nmoreau/wordflash/internal/logger"
)

func (s *Server) handleDueOverview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID, ok := userFromContext(r.Context())
	if !ok {
		handleError(w, r, errors.NewForbiddenError("caller identity missing"))
		return
	}

	log.Debug("fetching due overview: user_id=%d", userID)
	overview, err := s.Due.DueWords(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, overview)
}

func (s *Server) handleDueByList(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID, ok := userFromContext(r.Context())
	if !ok {
		handleError(w, r, errors.NewForbiddenError("caller identity missing"))
		return
	}

	listID, err := parseListID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	limit := s.limitParam(r)

	log.Debug("fetching due words: user_id=%d, list_id=%d, limit=%d", userID, listID, limit)
	set, err := s.Due.DueWordsByList(r.Context(), userID, listID, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, set)
}

func (s *Server) handleUpcomingWords(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID, ok := userFromContext(r.Context())
	if !ok {
		handleError(w, r, errors.NewForbiddenError("caller identity missing"))
		return
	}

	listID, err := parseListID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	limit := s.limitParam(r)

	log.Debug("fetching upcoming words: user_id=%d, list_id=%d", userID, listID)
	upcoming, err := s.Due.UpcomingWords(r.Context(), userID, listID, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, map[string]any{"words": upcoming})
}

func (s *Server) handleReviewStats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID, ok := userFromContext(r.Context())
	if !ok {
		handleError(w, r, errors.NewForbiddenError("caller identity missing"))
		return
	}

	log.Debug("fetching review stats: user_id=%d", userID)
	stats, err := s.Due.Stats(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, stats)
}

func parseListID(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "listID")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewBadRequestError("invalid list id")
	}
	return id, nil
}

// limitParam reads the optional limit query parameter, falling back to the
// configured default.
func (s *Server) limitParam(r *http.Request) int {
	limit := s.DueLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	return limit
}

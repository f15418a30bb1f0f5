package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nmoreau/wordflash/internal/errors"
	"github.com/nmoreau/wordflash/internal/logger"
	"github.com/nmoreau/wordflash/internal/models"
)

type startSessionRequest struct {
	ListID      int64  `json:"list_id"`
	SessionType string `json:"session_type"`
}

type submitResultRequest struct {
	WordID         int64  `json:"word_id"`
	Result         string `json:"result"`
	ResponseTimeMs *int   `json:"response_time_ms"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID, ok := userFromContext(r.Context())
	if !ok {
		handleError(w, r, errors.NewForbiddenError("caller identity missing"))
		return
	}

	var req startSessionRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid request body"))
		return
	}
	if req.ListID <= 0 {
		handleError(w, r, errors.NewValidationError("list_id", "must be a positive integer"))
		return
	}

	log.Debug("starting session: user_id=%d, list_id=%d, type=%s", userID, req.ListID, req.SessionType)
	payload, err := s.Sessions.Start(r.Context(), userID, req.ListID, models.SessionType(req.SessionType))
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusCreated, payload)
}

func (s *Server) handleActiveSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r.Context())
	if !ok {
		handleError(w, r, errors.NewForbiddenError("caller identity missing"))
		return
	}

	payload, err := s.Sessions.Active(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if payload == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.respondJSON(w, r, http.StatusOK, payload)
}

func (s *Server) handleResumeSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r.Context())
	if !ok {
		handleError(w, r, errors.NewForbiddenError("caller identity missing"))
		return
	}
	sessionID, err := parseSessionID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	payload, err := s.Sessions.Resume(r.Context(), sessionID, userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, payload)
}

func (s *Server) handleSubmitResult(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID, ok := userFromContext(r.Context())
	if !ok {
		handleError(w, r, errors.NewForbiddenError("caller identity missing"))
		return
	}
	sessionID, err := parseSessionID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req submitResultRequest
	if err := s.decodeJSON(r, &req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid request body"))
		return
	}
	result, err := models.ParseReviewResult(req.Result)
	if err != nil {
		handleError(w, r, errors.NewValidationError("result", "must be correct or incorrect"))
		return
	}

	log.Debug("submitting result: session_id=%s, word_id=%d", sessionID, req.WordID)
	if err := s.Sessions.SubmitResult(r.Context(), sessionID, userID, req.WordID, result, req.ResponseTimeMs); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBatchSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r.Context())
	if !ok {
		handleError(w, r, errors.NewForbiddenError("caller identity missing"))
		return
	}
	sessionID, err := parseSessionID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	view, err := s.Sessions.BatchSummary(r.Context(), sessionID, userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID, ok := userFromContext(r.Context())
	if !ok {
		handleError(w, r, errors.NewForbiddenError("caller identity missing"))
		return
	}
	sessionID, err := parseSessionID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("ending session: id=%s, user_id=%d", sessionID, userID)
	summary, err := s.Sessions.End(r.Context(), sessionID, userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, summary)
}

func (s *Server) handleSessionHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r.Context())
	if !ok {
		handleError(w, r, errors.NewForbiddenError("caller identity missing"))
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	entries, err := s.Sessions.History(r.Context(), userID, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, map[string]any{"sessions": entries})
}

func parseSessionID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "sessionID")
	if _, err := uuid.Parse(id); err != nil {
		return "", errors.NewBadRequestError("invalid session id")
	}
	return id, nil
}

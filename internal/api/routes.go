package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(userMiddleware)

		r.Get("/lists/{listID}/due", s.handleDueByList)
		r.Get("/lists/{listID}/upcoming", s.handleUpcomingWords)

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/due", s.handleDueOverview)
			r.Get("/stats", s.handleReviewStats)
			r.Get("/history", s.handleSessionHistory)

			r.Get("/session", s.handleActiveSession)
			r.Post("/session", s.handleStartSession)
			r.Post("/session/{sessionID}/results", s.handleSubmitResult)
			r.Get("/session/{sessionID}/summary", s.handleBatchSummary)
			r.Post("/session/{sessionID}/resume", s.handleResumeSession)
			r.Post("/session/{sessionID}/end", s.handleEndSession)
		})
	})

	return r
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/decks", func(r chi.Router) {
		r.Post("/", s.handleCreateDeck)
		r.Get("/", s.handleListDecks)
		r.Get("/{id}", s.handleGetDeck)
		r.Delete("/{id}", s.handleDeleteDeck)
		r.Get("/{id}/schedule", s.handleDeckSchedule)
		r.Get("/{id}/artifact", s.handleDeckArtifact)
	})

	return r
}

package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all autoencoder routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/autoencoder", func(r chi.Router) {
		r.Post("/runs", h.HandleCreateRun)
		r.Get("/runs", h.HandleListRuns)
		r.Get("/runs/{id}", h.HandleGetRun)
		r.Post("/evaluate", h.HandleEvaluate)
		r.Post("/state", h.HandleProduceState)
	})
}

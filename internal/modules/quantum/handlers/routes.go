package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all quantum routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/quantum", func(r chi.Router) {
		r.Get("/topologies", h.HandleGetTopologies)
		r.Post("/two-qubit-unitary", h.HandleTwoQubitUnitary)
		r.Post("/single-qubit-gate", h.HandleSingleQubitGate)
	})
}

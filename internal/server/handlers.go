package server

import (
	"encoding/json"
	"net/http"

	"github.com/aristath/qae/internal/modules/quantum"
)

// handleHealth reports liveness together with the training setup the
// service was started with.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	scheduled := []string{}
	if s.container.Scheduler != nil {
		scheduled = s.container.Scheduler.Jobs()
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"service":        "qae",
		"topologies":     len(quantum.Topologies),
		"num_ref":        s.cfg.Autoencoder.NumRef,
		"cost_mode":      string(s.cfg.Autoencoder.CostMode),
		"train_samples":  len(s.container.TrainSet.Samples),
		"scheduled_jobs": scheduled,
	})
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// Package handlers provides HTTP handlers for inspecting circuit building blocks.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/qae/internal/domain"
	"github.com/aristath/qae/internal/modules/quantum"
)

// Handler handles quantum HTTP requests
type Handler struct {
	log zerolog.Logger
}

// NewHandler creates a new quantum handler
func NewHandler(log zerolog.Logger) *Handler {
	return &Handler{
		log: log.With().Str("handler", "quantum").Logger(),
	}
}

// TwoQubitRequest carries the 15 angles of a general two-qubit gate
type TwoQubitRequest struct {
	Params []float64 `json:"params"`
}

// SingleQubitRequest carries the angles of a single-qubit gate
type SingleQubitRequest struct {
	Theta float64 `json:"theta"`
	Phi   float64 `json:"phi"`
	PhiZ  float64 `json:"phi_z"`
}

// Entry is one complex matrix element
type Entry struct {
	Real      float64 `json:"real"`
	Imaginary float64 `json:"imaginary"`
}

func matrixEntries(op quantum.Operator) [][]Entry {
	rows := make([][]Entry, op.Dim())
	for i := range rows {
		rows[i] = make([]Entry, op.Dim())
		for j := range rows[i] {
			v := op.At(i, j)
			rows[i][j] = Entry{Real: real(v), Imaginary: imag(v)}
		}
	}
	return rows
}

// HandleGetTopologies handles GET /api/quantum/topologies
func (h *Handler) HandleGetTopologies(w http.ResponseWriter, r *http.Request) {
	topologies := make([]map[string]interface{}, 0, len(quantum.Topologies))
	for _, t := range quantum.Topologies {
		topologies = append(topologies, map[string]interface{}{
			"tag":         string(t),
			"param_count": t.ParamCount(),
		})
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"topologies":   topologies,
			"input_qubits": quantum.InputQubits,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleTwoQubitUnitary handles POST /api/quantum/two-qubit-unitary
func (h *Handler) HandleTwoQubitUnitary(w http.ResponseWriter, r *http.Request) {
	var req TwoQubitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	op, err := quantum.TwoQubitUnitary(req.Params)
	if err != nil {
		if errors.Is(err, domain.ErrMissingParameter) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.log.Error().Err(err).Msg("Failed to build two-qubit unitary")
		http.Error(w, "Failed to build unitary", http.StatusInternalServerError)
		return
	}

	h.writeOperator(w, op)
}

// HandleSingleQubitGate handles POST /api/quantum/single-qubit-gate
func (h *Handler) HandleSingleQubitGate(w http.ResponseWriter, r *http.Request) {
	var req SingleQubitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	h.writeOperator(w, quantum.SingleQubitGate(req.Theta, req.Phi, req.PhiZ))
}

func (h *Handler) writeOperator(w http.ResponseWriter, op quantum.Operator) {
	response := map[string]interface{}{
		"data": map[string]interface{}{
			"qubits":  op.Qubits(),
			"matrix":  matrixEntries(op),
			"unitary": op.IsUnitary(quantum.UnitarityTolerance),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

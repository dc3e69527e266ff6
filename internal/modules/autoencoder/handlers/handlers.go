// Package handlers provides HTTP handlers for autoencoder training runs.
package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/qae/internal/domain"
	"github.com/aristath/qae/internal/modules/autoencoder"
	"github.com/aristath/qae/internal/modules/hydrogen"
	"github.com/aristath/qae/internal/modules/quantum"
)

// Handler handles autoencoder HTTP requests
type Handler struct {
	service  *autoencoder.Service
	producer hydrogen.StateProducer
	log      zerolog.Logger
}

// NewHandler creates a new autoencoder handler
func NewHandler(service *autoencoder.Service, producer hydrogen.StateProducer, log zerolog.Logger) *Handler {
	return &Handler{
		service:  service,
		producer: producer,
		log:      log.With().Str("handler", "autoencoder").Logger(),
	}
}

// RunRequest starts a training run
type RunRequest struct {
	Topology string `json:"topology"`
}

// EvaluateRequest scores a parameter vector
type EvaluateRequest struct {
	Topology string    `json:"topology"`
	Params   []float64 `json:"params"`
}

// StateRequest builds an input state from Hamiltonian coefficients
type StateRequest struct {
	Coefficients []float64 `json:"coefficients"`
}

// RoundResponse is the JSON form of a round. Non-finite values become null.
type RoundResponse struct {
	Index        int      `json:"index"`
	FidelityReal float64  `json:"fidelity_real"`
	FidelityImag float64  `json:"fidelity_imag"`
	ErrorMetric  *float64 `json:"error_metric"`
	Cost         *float64 `json:"cost"`
	LogCost      *float64 `json:"log_cost"`
	Iterations   int      `json:"iterations"`
	Interrupted  bool     `json:"interrupted"`
}

// RunResponse is the JSON form of a stored run
type RunResponse struct {
	ID             string          `json:"id"`
	Topology       string          `json:"topology"`
	NumRef         int             `json:"num_ref"`
	CostMode       string          `json:"cost_mode"`
	Seed           string          `json:"seed"`
	Params         []float64       `json:"params"`
	Rounds         []RoundResponse `json:"rounds"`
	TestFidelities []float64       `json:"test_fidelities"`
	StartedAt      string          `json:"started_at"`
	FinishedAt     string          `json:"finished_at"`
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func toRunResponse(run autoencoder.Run) RunResponse {
	rounds := make([]RoundResponse, 0, len(run.Rounds))
	for _, r := range run.Rounds {
		rounds = append(rounds, RoundResponse{
			Index:        r.Index,
			FidelityReal: r.FidelityReal,
			FidelityImag: r.FidelityImag,
			ErrorMetric:  finite(r.ErrorMetric),
			Cost:         finite(r.Cost),
			LogCost:      finite(r.LogCost),
			Iterations:   r.Iterations,
			Interrupted:  r.Interrupted,
		})
	}
	testFidelities := run.TestFidelities
	if testFidelities == nil {
		testFidelities = []float64{}
	}
	return RunResponse{
		ID:             run.ID,
		Topology:       string(run.Topology),
		NumRef:         run.NumRef,
		CostMode:       string(run.CostMode),
		Seed:           strconv.FormatUint(run.Seed, 10),
		Params:         run.Params,
		Rounds:         rounds,
		TestFidelities: testFidelities,
		StartedAt:      run.StartedAt.UTC().Format(time.RFC3339),
		FinishedAt:     run.FinishedAt.UTC().Format(time.RFC3339),
	}
}

// HandleCreateRun handles POST /api/autoencoder/runs
func (h *Handler) HandleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	run, err := h.service.Train(r.Context(), quantum.Topology(req.Topology))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"data":     toRunResponse(*run),
		"metadata": metadata(),
	})
}

// HandleListRuns handles GET /api/autoencoder/runs?topology=&limit=
func (h *Handler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	var topology quantum.Topology
	if tag := r.URL.Query().Get("topology"); tag != "" {
		t, err := quantum.ParseTopology(tag)
		if err != nil {
			h.writeDomainError(w, err)
			return
		}
		topology = t
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	runs, err := h.service.ListRuns(topology, limit)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	out := make([]RunResponse, 0, len(runs))
	for _, run := range runs {
		out = append(out, toRunResponse(run))
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"runs":  out,
			"count": len(out),
		},
		"metadata": metadata(),
	})
}

// HandleGetRun handles GET /api/autoencoder/runs/{id}
func (h *Handler) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.service.GetRun(chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":     toRunResponse(*run),
		"metadata": metadata(),
	})
}

// HandleEvaluate handles POST /api/autoencoder/evaluate
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ev, err := h.service.Evaluate(quantum.Topology(req.Topology), req.Params)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"topology": string(ev.Topology),
			"fidelity": map[string]interface{}{
				"real":      real(ev.Fidelity),
				"imaginary": imag(ev.Fidelity),
			},
			"error_metric": finite(ev.ErrorMetric),
			"infidelity":   ev.Infidelity,
		},
		"metadata": metadata(),
	})
}

// HandleProduceState handles POST /api/autoencoder/state
func (h *Handler) HandleProduceState(w http.ResponseWriter, r *http.Request) {
	var req StateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	state, err := h.producer.ProduceState(req.Coefficients)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	amps := state.Amplitudes()
	out := make([]map[string]float64, len(amps))
	for i, a := range amps {
		out[i] = map[string]float64{"real": real(a), "imaginary": imag(a)}
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"qubits":     state.Qubits(),
			"amplitudes": out,
			"norm":       state.Norm(),
		},
		"metadata": metadata(),
	})
}

func metadata() map[string]interface{} {
	return map[string]interface{}{
		"timestamp": time.Now().Format(time.RFC3339),
	}
}

// writeDomainError maps the error taxonomy onto HTTP status codes
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidEntry),
		errors.Is(err, domain.ErrMissingParameter),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidConfiguration):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Msg("Request failed")
	}
	h.writeError(w, status, err.Error())
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

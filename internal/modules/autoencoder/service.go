package autoencoder

import (
	"context"
	"fmt"
	"math/cmplx"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/qae/internal/modules/quantum"
)

// Service trains topologies, scores them on held-out states and stores the runs.
type Service struct {
	autoencoder  *Autoencoder
	repo         *RunRepository
	testCircuits []*quantum.Circuit
	log          zerolog.Logger
}

// NewService creates a service. testStates are the held-out input states that
// every finished run is scored on; it may be empty.
func NewService(ae *Autoencoder, repo *RunRepository, testStates []quantum.StateVector, log zerolog.Logger) (*Service, error) {
	circuits := make([]*quantum.Circuit, 0, len(testStates))
	for i, st := range testStates {
		c, err := quantum.NewCircuit(ae.Circuit().NumRef(), st)
		if err != nil {
			return nil, fmt.Errorf("test state %d: %w", i, err)
		}
		circuits = append(circuits, c)
	}
	return &Service{
		autoencoder:  ae,
		repo:         repo,
		testCircuits: circuits,
		log:          log.With().Str("service", "autoencoder").Logger(),
	}, nil
}

// Train runs one topology and persists the result.
func (s *Service) Train(ctx context.Context, topology quantum.Topology) (*Run, error) {
	started := time.Now()
	res, err := s.autoencoder.Run(ctx, topology)
	if err != nil {
		return nil, err
	}
	return s.record(res, started)
}

// TrainAll runs every topology concurrently and persists the results in
// topology order.
func (s *Service) TrainAll(ctx context.Context) ([]Run, error) {
	started := time.Now()
	results, err := s.autoencoder.RunAll(ctx)
	if err != nil {
		return nil, err
	}

	runs := make([]Run, 0, len(results))
	for _, t := range quantum.Topologies {
		run, err := s.record(results[t], started)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, nil
}

func (s *Service) record(res Result, started time.Time) (*Run, error) {
	testFidelities, err := s.TestFidelities(res.Topology, res.Params)
	if err != nil {
		return nil, fmt.Errorf("failed to score test states: %w", err)
	}

	run := &Run{
		Topology:       res.Topology,
		NumRef:         s.autoencoder.Circuit().NumRef(),
		CostMode:       res.CostMode,
		Seed:           res.Seed,
		Params:         res.Params,
		Rounds:         res.Rounds,
		TestFidelities: testFidelities,
		StartedAt:      started,
		FinishedAt:     time.Now(),
	}
	if err := s.repo.Save(run); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("id", run.ID).
		Str("topology", string(run.Topology)).
		Floats64("params", run.Params).
		Int("test_states", len(testFidelities)).
		Msg("Training run stored")
	return run, nil
}

// TestFidelities returns |fidelity| of params on every held-out state.
func (s *Service) TestFidelities(topology quantum.Topology, params []float64) ([]float64, error) {
	out := make([]float64, 0, len(s.testCircuits))
	for _, c := range s.testCircuits {
		u, err := c.Unitary(topology, params)
		if err != nil {
			return nil, err
		}
		f, err := c.ComputeFidelity(u)
		if err != nil {
			return nil, err
		}
		out = append(out, cmplx.Abs(f))
	}
	return out, nil
}

// Evaluate scores params on the training state.
func (s *Service) Evaluate(topology quantum.Topology, params []float64) (Evaluation, error) {
	return s.autoencoder.Evaluate(topology, params)
}

// GetRun returns a stored run.
func (s *Service) GetRun(id string) (*Run, error) {
	return s.repo.Get(id)
}

// ListRuns returns stored runs, newest first.
func (s *Service) ListRuns(topology quantum.Topology, limit int) ([]Run, error) {
	return s.repo.List(topology, limit)
}

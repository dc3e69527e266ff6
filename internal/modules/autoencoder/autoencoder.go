// Package autoencoder drives the variational training loop of the quantum
// autoencoder and keeps a history of completed runs.
package autoencoder

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aristath/qae/internal/domain"
	"github.com/aristath/qae/internal/modules/optimization"
	"github.com/aristath/qae/internal/modules/quantum"
)

// DefaultRounds is the outer round budget.
const DefaultRounds = 2

// seedStream mixes the run seed into the second PCG word.
const seedStream = 0x9e3779b97f4a7c15

// Settings controls the outer training loop.
type Settings struct {
	Rounds       int
	CostMode     optimization.CostMode
	RoundTimeout time.Duration // 0 disables the per-round deadline
}

// Round holds the diagnostics of one outer round.
type Round struct {
	Index        int     `msgpack:"index"`
	FidelityReal float64 `msgpack:"fidelity_real"`
	FidelityImag float64 `msgpack:"fidelity_imag"`
	ErrorMetric  float64 `msgpack:"error_metric"`
	Cost         float64 `msgpack:"cost"`
	LogCost      float64 `msgpack:"log_cost"`
	Iterations   int     `msgpack:"iterations"`
	Interrupted  bool    `msgpack:"interrupted"`
}

// Fidelity reassembles the complex fidelity measured at the start of the round.
func (r Round) Fidelity() complex128 {
	return complex(r.FidelityReal, r.FidelityImag)
}

// Result is the outcome of one training run.
type Result struct {
	Topology quantum.Topology
	Params   []float64
	Rounds   []Round
	CostMode optimization.CostMode
	Seed     uint64
}

// Evaluation is the fidelity of a fixed parameter vector.
type Evaluation struct {
	Topology    quantum.Topology
	Fidelity    complex128
	ErrorMetric float64
	Infidelity  float64
}

// Autoencoder trains circuit parameters against a fixed input state.
type Autoencoder struct {
	circuit   *quantum.Circuit
	optimizer *optimization.BasinHopping
	settings  Settings
	log       zerolog.Logger

	mu  sync.Mutex
	rng *rand.Rand

	// evaluate scores a parameter vector for the infidelity cost.
	evaluate func(quantum.Topology, []float64) (Evaluation, error)
}

// New creates an autoencoder. src seeds every run; runs draw their own seeds
// from it in call order.
func New(circuit *quantum.Circuit, optimizer *optimization.BasinHopping, settings Settings, src rand.Source, log zerolog.Logger) (*Autoencoder, error) {
	if circuit == nil || optimizer == nil {
		return nil, fmt.Errorf("circuit and optimizer are required: %w", domain.ErrInvalidConfiguration)
	}
	if settings.Rounds < 1 {
		return nil, fmt.Errorf("round budget %d: %w", settings.Rounds, domain.ErrInvalidConfiguration)
	}
	if settings.RoundTimeout < 0 {
		return nil, fmt.Errorf("negative round timeout: %w", domain.ErrInvalidConfiguration)
	}
	if settings.CostMode == "" {
		settings.CostMode = optimization.CostLinear
	}
	if _, err := optimization.ParseCostMode(string(settings.CostMode)); err != nil {
		return nil, err
	}

	a := &Autoencoder{
		circuit:   circuit,
		optimizer: optimizer,
		settings:  settings,
		rng:       rand.New(src),
		log:       log.With().Str("component", "autoencoder").Logger(),
	}
	a.evaluate = a.Evaluate
	return a, nil
}

// Circuit returns the circuit being trained.
func (a *Autoencoder) Circuit() *quantum.Circuit {
	return a.circuit
}

// Settings returns the loop settings.
func (a *Autoencoder) Settings() Settings {
	return a.settings
}

func (a *Autoencoder) nextSeed() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rng.Uint64()
}

// Run trains the parameters of the given topology and returns the final vector.
// An unknown topology fails with ErrInvalidEntry before any unitary is built.
func (a *Autoencoder) Run(ctx context.Context, topology quantum.Topology) (Result, error) {
	t, err := quantum.ParseTopology(string(topology))
	if err != nil {
		return Result{}, err
	}
	return a.RunWithSeed(ctx, t, a.nextSeed())
}

// RunWithSeed is Run with an explicit seed, reproducing an earlier run.
func (a *Autoencoder) RunWithSeed(ctx context.Context, topology quantum.Topology, seed uint64) (Result, error) {
	t, err := quantum.ParseTopology(string(topology))
	if err != nil {
		return Result{}, err
	}

	log := a.log.With().Str("topology", string(t)).Uint64("seed", seed).Logger()
	src := rand.NewPCG(seed, seed^seedStream)

	n := t.ParamCount()
	params := optimization.InitialParams(n, src)
	bounds := optimization.Bounds(n)

	result := Result{
		Topology: t,
		CostMode: a.settings.CostMode,
		Seed:     seed,
		Rounds:   make([]Round, 0, a.settings.Rounds),
	}

	for i := 0; i < a.settings.Rounds; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("run cancelled before round %d: %w", i+1, err)
		}

		u, err := a.circuit.Unitary(t, params)
		if err != nil {
			return Result{}, fmt.Errorf("round %d unitary: %w", i+1, err)
		}
		fidelity, err := a.circuit.ComputeFidelity(u)
		if err != nil {
			return Result{}, fmt.Errorf("round %d fidelity: %w", i+1, err)
		}
		metric := quantum.ErrorMetric(fidelity)

		log.Info().
			Int("round", i+1).
			Float64("fidelity_real", real(fidelity)).
			Float64("fidelity_imag", imag(fidelity)).
			Float64("error_metric", metric).
			Msg("Round started")

		found, err := a.optimizeRound(ctx, t, fidelity, params, bounds, src)
		if err != nil {
			return Result{}, fmt.Errorf("round %d optimization: %w", i+1, err)
		}
		params = found.X

		round := Round{
			Index:        i + 1,
			FidelityReal: real(fidelity),
			FidelityImag: imag(fidelity),
			ErrorMetric:  metric,
			Cost:         found.F,
			LogCost:      optimization.LogCost(found.F),
			Iterations:   found.Iterations,
			Interrupted:  found.Interrupted,
		}
		result.Rounds = append(result.Rounds, round)

		log.Info().
			Int("round", round.Index).
			Float64("cost", round.Cost).
			Float64("log_cost", round.LogCost).
			Bool("interrupted", round.Interrupted).
			Msg("Round finished")
	}

	result.Params = params
	return result, nil
}

// optimizeRound minimizes the round's cost. The per-round deadline only
// shortens the search; a done parent ctx or a failed cost evaluation aborts
// the run.
func (a *Autoencoder) optimizeRound(ctx context.Context, t quantum.Topology, fidelity complex128, params []float64, bounds []optimization.Bound, src rand.Source) (optimization.Result, error) {
	var (
		roundCtx context.Context
		cancel   context.CancelFunc
	)
	if a.settings.RoundTimeout > 0 {
		roundCtx, cancel = context.WithTimeout(ctx, a.settings.RoundTimeout)
	} else {
		roundCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	failure := &evalFailure{cancel: cancel}
	found, err := a.optimizer.Minimize(roundCtx, a.objective(t, fidelity, failure), params, bounds, src)
	if ferr := failure.Err(); ferr != nil {
		return optimization.Result{}, fmt.Errorf("cost evaluation failed: %w", ferr)
	}
	if cerr := ctx.Err(); cerr != nil {
		return optimization.Result{}, fmt.Errorf("run cancelled: %w", cerr)
	}
	return found, err
}

// evalFailure holds the first error raised while evaluating the cost and
// stops the search that raised it.
type evalFailure struct {
	mu     sync.Mutex
	err    error
	cancel context.CancelFunc
}

func (e *evalFailure) record(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err == nil {
		e.err = err
		e.cancel()
	}
}

func (e *evalFailure) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// objective returns the round's cost. The linear cost keeps the fidelity
// measured at the start of the round; the infidelity cost re-evaluates the
// circuit at every point and reports evaluation errors to failure.
func (a *Autoencoder) objective(t quantum.Topology, fidelity complex128, failure *evalFailure) optimization.Objective {
	if a.settings.CostMode == optimization.CostInfidelity {
		return func(params []float64) float64 {
			ev, err := a.evaluate(t, params)
			if err != nil {
				failure.record(err)
				return math.NaN()
			}
			return ev.Infidelity
		}
	}
	return optimization.LinearObjective(fidelity)
}

// Evaluate computes the fidelity of params without optimizing.
func (a *Autoencoder) Evaluate(topology quantum.Topology, params []float64) (Evaluation, error) {
	t, err := quantum.ParseTopology(string(topology))
	if err != nil {
		return Evaluation{}, err
	}
	if len(params) < t.ParamCount() {
		return Evaluation{}, fmt.Errorf("topology %s needs %d params, got %d: %w",
			t, t.ParamCount(), len(params), domain.ErrMissingParameter)
	}
	u, err := a.circuit.Unitary(t, params)
	if err != nil {
		return Evaluation{}, err
	}
	fidelity, err := a.circuit.ComputeFidelity(u)
	if err != nil {
		return Evaluation{}, err
	}
	return Evaluation{
		Topology:    t,
		Fidelity:    fidelity,
		ErrorMetric: quantum.ErrorMetric(fidelity),
		Infidelity:  optimization.Infidelity(fidelity),
	}, nil
}

// RunAll trains every topology concurrently. Seeds are drawn in topology order,
// so results do not depend on scheduling. The first failure cancels the others.
func (a *Autoencoder) RunAll(ctx context.Context) (map[quantum.Topology]Result, error) {
	seeds := make([]uint64, len(quantum.Topologies))
	for i := range seeds {
		seeds[i] = a.nextSeed()
	}

	results := make([]Result, len(quantum.Topologies))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range quantum.Topologies {
		i, t := i, t
		g.Go(func() error {
			res, err := a.RunWithSeed(gctx, t, seeds[i])
			if err != nil {
				return fmt.Errorf("topology %s: %w", t, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[quantum.Topology]Result, len(results))
	for _, r := range results {
		out[r.Topology] = r
	}
	return out, nil
}

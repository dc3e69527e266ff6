package optimization

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/aristath/qae/internal/domain"
)

// Defaults for the global search.
const (
	DefaultIterations  = 500
	DefaultStepSize    = 1e-8
	DefaultTemperature = 1.0
)

// Settings configures a basin-hopping search.
type Settings struct {
	Iterations      int     // hops per trial
	StepSize        float64 // half-width of the uniform displacement
	Temperature     float64 // Metropolis temperature; 0 accepts only improvements
	Trials          int     // independent restarts merged by best cost
	Workers         int     // concurrent trials
	LocalIterations int     // cap of each local search
}

// DefaultSettings returns a single-trial search with the reference hop budget.
func DefaultSettings() Settings {
	return Settings{
		Iterations:      DefaultIterations,
		StepSize:        DefaultStepSize,
		Temperature:     DefaultTemperature,
		Trials:          1,
		Workers:         runtime.GOMAXPROCS(0),
		LocalIterations: DefaultLocalIterations,
	}
}

// Result is the outcome of a global search.
type Result struct {
	X           []float64
	F           float64
	Trial       int  // index of the winning trial
	Iterations  int  // hops completed across all trials
	Accepted    int  // accepted hops across all trials
	Interrupted bool // the context ended the search early
}

// BasinHopping alternates random displacement and local minimization,
// accepting moves by the Metropolis criterion.
type BasinHopping struct {
	settings Settings
	local    *LocalMinimizer
	log      zerolog.Logger
}

// NewBasinHopping creates a global optimizer.
func NewBasinHopping(settings Settings, log zerolog.Logger) (*BasinHopping, error) {
	if settings.Iterations < 0 {
		return nil, fmt.Errorf("negative iteration count %d: %w", settings.Iterations, domain.ErrInvalidConfiguration)
	}
	if settings.StepSize < 0 || settings.Temperature < 0 {
		return nil, fmt.Errorf("step size and temperature must be non-negative: %w", domain.ErrInvalidConfiguration)
	}
	if settings.Trials < 1 {
		settings.Trials = 1
	}
	if settings.Workers < 1 {
		settings.Workers = 1
	}
	return &BasinHopping{
		settings: settings,
		local:    NewLocalMinimizer(settings.LocalIterations, log),
		log:      log.With().Str("component", "basin_hopping").Logger(),
	}, nil
}

// Settings returns the effective settings.
func (b *BasinHopping) Settings() Settings {
	return b.settings
}

type trialResult struct {
	best        Point
	found       bool
	iterations  int
	accepted    int
	interrupted bool
}

// Minimize searches for the lowest cost of f inside bounds. Trial 0 starts at
// x0; the others start from uniform points inside the bounds. Every trial
// draws from its own source seeded from src, so a fixed src gives a fixed
// result regardless of scheduling. A done ctx stops all trials and the best
// point so far is returned with Interrupted set. f must be safe for
// concurrent use when Workers > 1.
func (b *BasinHopping) Minimize(ctx context.Context, f Objective, x0 []float64, bounds []Bound, src rand.Source) (Result, error) {
	if len(x0) != len(bounds) {
		return Result{}, fmt.Errorf("start has %d params but %d bounds: %w", len(x0), len(bounds), domain.ErrInvalidInput)
	}
	if len(x0) == 0 {
		return Result{}, fmt.Errorf("empty parameter vector: %w", domain.ErrMissingParameter)
	}

	rng := rand.New(src)
	seeds := make([][2]uint64, b.settings.Trials)
	for i := range seeds {
		seeds[i] = [2]uint64{rng.Uint64(), rng.Uint64()}
	}

	results := make([]trialResult, b.settings.Trials)
	g := new(errgroup.Group)
	g.SetLimit(b.settings.Workers)
	for i := range seeds {
		trial := i
		g.Go(func() error {
			trialSrc := rand.NewPCG(seeds[trial][0], seeds[trial][1])
			start := x0
			if trial > 0 {
				start = sampleWithin(bounds, trialSrc)
			}
			results[trial] = b.runTrial(ctx, trial, f, start, bounds, trialSrc)
			return nil
		})
	}
	_ = g.Wait()

	var out Result
	found := false
	for i, r := range results {
		out.Iterations += r.iterations
		out.Accepted += r.accepted
		out.Interrupted = out.Interrupted || r.interrupted
		if r.found && (!found || r.best.F < out.F) {
			out.X, out.F, out.Trial = r.best.X, r.best.F, i
			found = true
		}
	}
	if !found {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("search cancelled before any candidate: %w", errors.Join(err, domain.ErrNoValidCandidate))
		}
		return Result{}, fmt.Errorf("all %d trials exhausted: %w", b.settings.Trials, domain.ErrNoValidCandidate)
	}

	b.log.Debug().
		Int("trial", out.Trial).
		Float64("cost", out.F).
		Int("iterations", out.Iterations).
		Int("accepted", out.Accepted).
		Bool("interrupted", out.Interrupted).
		Msg("Basin hopping finished")
	return out, nil
}

func (b *BasinHopping) runTrial(ctx context.Context, trial int, f Objective, x0 []float64, bounds []Bound, src rand.Source) trialResult {
	var r trialResult
	log := b.log.With().Int("trial", trial).Logger()

	current, err := b.local.Minimize(ctx, f, x0, bounds)
	if err != nil {
		log.Debug().Err(err).Msg("Initial local search failed")
		return r
	}
	r.best, r.found = current, true

	rng := rand.New(src)
	step := distuv.Uniform{Min: -b.settings.StepSize, Max: b.settings.StepSize, Src: src}
	for i := 0; i < b.settings.Iterations; i++ {
		if ctx.Err() != nil {
			r.interrupted = true
			return r
		}

		trialX := make([]float64, len(current.X))
		for j, v := range current.X {
			trialX[j] = v
			if b.settings.StepSize > 0 {
				trialX[j] += step.Rand()
			}
		}
		candidate, err := b.local.Minimize(ctx, f, trialX, bounds)
		r.iterations++
		if err != nil {
			log.Debug().Err(err).Int("iteration", i).Msg("Local search failed, keeping current point")
			continue
		}

		if b.accept(candidate.F, current.F, rng) {
			current = candidate
			r.accepted++
		}
		if current.F < r.best.F {
			r.best = current
		}
	}
	r.interrupted = ctx.Err() != nil
	return r
}

// accept applies the Metropolis criterion.
func (b *BasinHopping) accept(fNew, fOld float64, rng *rand.Rand) bool {
	if fNew < fOld {
		return true
	}
	if b.settings.Temperature == 0 {
		return false
	}
	return rng.Float64() < math.Exp(-(fNew-fOld)/b.settings.Temperature)
}

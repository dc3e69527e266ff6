package optimization

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"

	"github.com/aristath/qae/internal/domain"
)

// DefaultLocalIterations caps the major iterations of one local search.
const DefaultLocalIterations = 200

// Point is a location and its cost.
type Point struct {
	X []float64
	F float64
}

// LocalMinimizer refines a point with L-BFGS on the objective composed with a
// projection onto the bounds. Gradients come from central finite differences.
type LocalMinimizer struct {
	MaxIterations int
	log           zerolog.Logger
}

// NewLocalMinimizer creates a local minimizer. maxIterations <= 0 uses the default.
func NewLocalMinimizer(maxIterations int, log zerolog.Logger) *LocalMinimizer {
	if maxIterations <= 0 {
		maxIterations = DefaultLocalIterations
	}
	return &LocalMinimizer{
		MaxIterations: maxIterations,
		log:           log.With().Str("component", "local_minimizer").Logger(),
	}
}

// Minimize returns the best point reached from x0, never worse than x0 itself.
// A search that stops early or fails to converge still yields its best point;
// an error is returned only when no finite cost could be evaluated.
func (m *LocalMinimizer) Minimize(ctx context.Context, f Objective, x0 []float64, bounds []Bound) (Point, error) {
	projected := func(x []float64) float64 {
		return f(projectToBounds(x, bounds))
	}

	start := projectToBounds(x0, bounds)
	best := Point{X: start, F: f(start)}
	if !isFinite(best.F) {
		return Point{}, fmt.Errorf("non-finite cost %v at starting point: %w", best.F, domain.ErrNumericalInstability)
	}
	if ctx.Err() != nil {
		return best, nil
	}

	gradSettings := &fd.Settings{Formula: fd.Central}
	problem := optimize.Problem{
		Func: projected,
		Grad: func(grad, x []float64) {
			fd.Gradient(grad, projected, x, gradSettings)
		},
		Status: func() (optimize.Status, error) {
			if ctx.Err() != nil {
				return optimize.RuntimeLimit, nil
			}
			return optimize.NotTerminated, nil
		},
	}
	settings := &optimize.Settings{MajorIterations: m.MaxIterations}

	result, err := optimize.Minimize(problem, start, settings, &optimize.LBFGS{})
	if err != nil {
		m.log.Debug().Err(err).Msg("Local search stopped with error, keeping best point")
	}
	if result == nil || !isFinite(result.F) {
		return best, nil
	}
	if result.Status != optimize.Success && result.Status != optimize.GradientThreshold &&
		result.Status != optimize.FunctionConvergence {
		m.log.Debug().
			Str("status", result.Status.String()).
			Int("iterations", result.Stats.MajorIterations).
			Msg("Local search did not converge")
	}

	x := projectToBounds(result.X, bounds)
	fx := f(x)
	if isFinite(fx) && fx <= best.F {
		best = Point{X: x, F: fx}
	}
	return best, nil
}

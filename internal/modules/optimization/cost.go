package optimization

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/aristath/qae/internal/domain"
)

// CostMode selects the objective minimized in each round.
type CostMode string

const (
	// CostLinear is Σ Re(fidelity)·p_i with fidelity fixed for the round.
	CostLinear CostMode = "linear"
	// CostInfidelity is 1 - |fidelity(p)|, evaluated at every point.
	CostInfidelity CostMode = "infidelity"
)

// ParseCostMode accepts "linear" or "infidelity", case-insensitively.
func ParseCostMode(s string) (CostMode, error) {
	switch mode := CostMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case CostLinear, CostInfidelity:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown cost mode %q: %w", s, domain.ErrInvalidConfiguration)
	}
}

// Objective maps a parameter vector to a scalar cost. Implementations must be
// safe for concurrent use.
type Objective func(params []float64) float64

// LinearCost returns Σ coefficient·p_i.
func LinearCost(params []float64, coefficient float64) float64 {
	return coefficient * floats.Sum(params)
}

// LinearObjective binds a fidelity coefficient into a LinearCost objective.
func LinearObjective(fidelity complex128) Objective {
	c := real(fidelity)
	return func(params []float64) float64 {
		return LinearCost(params, c)
	}
}

// Infidelity returns 1 - |f|.
func Infidelity(f complex128) float64 {
	return 1 - cmplx.Abs(f)
}

// LogCost is log10 of the cost magnitude, used for diagnostics. A zero cost
// maps to -Inf.
func LogCost(cost float64) float64 {
	return math.Log10(math.Abs(cost))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

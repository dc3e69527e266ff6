// Package optimization provides box bounds, cost functions, a bounded local
// minimizer and a basin-hopping global search over circuit parameters.
package optimization

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// ParamUpperBound is the upper end of every parameter range.
const ParamUpperBound = 4 * math.Pi

// Bound is a closed interval [Low, High] for one parameter.
type Bound struct {
	Low  float64
	High float64
}

// Contains reports whether v lies inside the bound.
func (b Bound) Contains(v float64) bool {
	return v >= b.Low && v <= b.High
}

// Bounds returns n copies of [0, 4π].
func Bounds(n int) []Bound {
	bounds := make([]Bound, n)
	for i := range bounds {
		bounds[i] = Bound{Low: 0, High: ParamUpperBound}
	}
	return bounds
}

// InitialParams samples n values uniformly from [0, 4π).
func InitialParams(n int, src rand.Source) []float64 {
	return sampleWithin(Bounds(n), src)
}

// sampleWithin draws one uniform value per bound, half-open at the top.
func sampleWithin(bounds []Bound, src rand.Source) []float64 {
	params := make([]float64, len(bounds))
	for i, b := range bounds {
		u := distuv.Uniform{Min: b.Low, Max: b.High, Src: src}
		v := u.Rand()
		if v >= b.High {
			v = math.Nextafter(b.High, b.Low)
		}
		params[i] = v
	}
	return params
}

// projectToBounds clamps x into the box. Missing bounds leave x unchanged.
func projectToBounds(x []float64, bounds []Bound) []float64 {
	if len(bounds) == 0 {
		return x
	}
	proj := make([]float64, len(x))
	for i := range x {
		proj[i] = math.Max(bounds[i].Low, math.Min(bounds[i].High, x[i]))
	}
	return proj
}

// InBounds reports whether every coordinate of x lies inside its bound.
func InBounds(x []float64, bounds []Bound) bool {
	if len(x) != len(bounds) {
		return false
	}
	for i, v := range x {
		if !bounds[i].Contains(v) {
			return false
		}
	}
	return true
}

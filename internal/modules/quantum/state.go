package quantum

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/cmplxs"

	"github.com/aristath/qae/internal/domain"
)

// NormTolerance bounds the deviation from unit norm accepted for a pure state.
const NormTolerance = 1e-9

// maxQubits bounds registers built from caller-supplied sizes.
const maxQubits = 16

// StateVector is an immutable register state of dimension 2^n.
// New states are produced by Operator.Apply or Tensor; amplitudes are never mutated in place.
type StateVector struct {
	amps   []complex128
	qubits int
}

// NewStateVector copies amps into a state. len(amps) must be a power of two >= 2.
func NewStateVector(amps []complex128) (StateVector, error) {
	n := qubitsFor(len(amps))
	if n < 0 {
		return StateVector{}, fmt.Errorf("state dimension %d is not a power of two: %w", len(amps), domain.ErrInvalidInput)
	}
	cp := make([]complex128, len(amps))
	copy(cp, amps)
	return StateVector{amps: cp, qubits: n}, nil
}

// Basis returns the computational basis state |index⟩ on n qubits. An index
// outside [0, 2^n) fails with ErrInvalidInput.
func Basis(qubits, index int) (StateVector, error) {
	if qubits < 1 || qubits > maxQubits {
		return StateVector{}, fmt.Errorf("basis state on %d qubits: %w", qubits, domain.ErrInvalidInput)
	}
	if index < 0 || index >= 1<<qubits {
		return StateVector{}, fmt.Errorf("basis index %d outside %d-qubit register: %w", index, qubits, domain.ErrInvalidInput)
	}
	return basis(qubits, index), nil
}

// basis is Basis for register sizes fixed in this package.
func basis(qubits, index int) StateVector {
	amps := make([]complex128, 1<<qubits)
	amps[index] = 1
	return StateVector{amps: amps, qubits: qubits}
}

// Qubits returns the register size.
func (s StateVector) Qubits() int { return s.qubits }

// Dim returns 2^Qubits.
func (s StateVector) Dim() int { return len(s.amps) }

// At returns the amplitude of basis state i.
func (s StateVector) At(i int) complex128 { return s.amps[i] }

// Amplitudes returns a copy of the amplitudes.
func (s StateVector) Amplitudes() []complex128 {
	cp := make([]complex128, len(s.amps))
	copy(cp, s.amps)
	return cp
}

// Norm returns the Euclidean norm.
func (s StateVector) Norm() float64 {
	return cmplxs.Norm(s.amps, 2)
}

// IsNormalized reports whether the norm is one within NormTolerance.
func (s StateVector) IsNormalized() bool {
	return math.Abs(s.Norm()-1) <= NormTolerance
}

// Normalize returns s/|s|. A zero vector cannot be normalized.
func (s StateVector) Normalize() (StateVector, error) {
	norm := s.Norm()
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return StateVector{}, fmt.Errorf("cannot normalize state with norm %g: %w", norm, domain.ErrInvalidInput)
	}
	out := make([]complex128, len(s.amps))
	cmplxs.ScaleRealTo(out, 1/norm, s.amps)
	return StateVector{amps: out, qubits: s.qubits}, nil
}

// Inner returns ⟨s|o⟩.
func (s StateVector) Inner(o StateVector) (complex128, error) {
	if s.qubits != o.qubits {
		return 0, fmt.Errorf("inner product of %d- and %d-qubit states: %w", s.qubits, o.qubits, domain.ErrInvalidInput)
	}
	return cmplxs.Dot(s.amps, o.amps), nil
}

// Tensor returns s ⊗ rest[0] ⊗ rest[1] ⊗ ...
func (s StateVector) Tensor(rest ...StateVector) StateVector {
	acc := s
	for _, o := range rest {
		amps := make([]complex128, len(acc.amps)*len(o.amps))
		for i, a := range acc.amps {
			if a == 0 {
				continue
			}
			cmplxs.ScaleTo(amps[i*len(o.amps):(i+1)*len(o.amps)], a, o.amps)
		}
		acc = StateVector{amps: amps, qubits: acc.qubits + o.qubits}
	}
	return acc
}

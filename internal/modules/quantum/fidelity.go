package quantum

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/aristath/qae/internal/domain"
)

// FidelityTolerance is the slack allowed on the [0, 1] bound of |fidelity|.
const FidelityTolerance = 1e-9

// registerQubits is the swap-test register size: ancilla, references, evolved input.
func registerQubits(numRef int) int {
	return 1 + numRef + InputQubits
}

// swapTestOperator builds one Fredkin gate per reference qubit, controlled on the ancilla,
// pairing reference qubit k with trash qubit k of the evolved input.
func swapTestOperator(numRef int) (Operator, error) {
	n := registerQubits(numRef)
	u := Identity(n)
	for k := 0; k < numRef; k++ {
		f, err := Fredkin(n, 0, 1+k, 1+numRef+k)
		if err != nil {
			return Operator{}, err
		}
		u = u.mul(f)
	}
	return u, nil
}

// Evolve returns U·input.
func (c *Circuit) Evolve(u Operator) (StateVector, error) {
	return u.Apply(c.input)
}

// SwapTest applies the controlled swaps to a full register state.
func (c *Circuit) SwapTest(system StateVector) (StateVector, error) {
	return c.swapTest.Apply(system)
}

// MeasureOverlap applies the ancilla Hadamard to measured and returns ⟨reference|measured⟩.
func (c *Circuit) MeasureOverlap(measured, reference StateVector) (complex128, error) {
	out, err := c.readout.Apply(measured)
	if err != nil {
		return 0, err
	}
	return reference.Inner(out)
}

// ComputeFidelity runs the swap test between the trash qubits of U·input and the
// |0…0⟩ reference qubits and returns the overlap.
func (c *Circuit) ComputeFidelity(u Operator) (complex128, error) {
	evolved, err := c.Evolve(u)
	if err != nil {
		return 0, err
	}

	ancilla := basis(1, 0)
	refs := basis(c.numRef, 0)
	rotated, err := Hadamard.Apply(ancilla)
	if err != nil {
		return 0, err
	}

	reference := ancilla.Tensor(refs, evolved)
	probe := rotated.Tensor(refs, evolved)

	swapped, err := c.SwapTest(probe)
	if err != nil {
		return 0, err
	}

	fidelity, err := c.MeasureOverlap(swapped, reference)
	if err != nil {
		return 0, err
	}
	if err := checkFidelity(fidelity); err != nil {
		return 0, err
	}
	return fidelity, nil
}

func checkFidelity(f complex128) error {
	mag := cmplx.Abs(f)
	if math.IsNaN(mag) || mag > 1+FidelityTolerance {
		return fmt.Errorf("fidelity magnitude %g outside [0, 1]: %w", mag, domain.ErrNumericalInstability)
	}
	return nil
}

// ErrorMetric returns -log10(1 - |fidelity|). A perfect fidelity, or one past 1
// by rounding, maps to +Inf.
func ErrorMetric(fidelity complex128) float64 {
	mag := cmplx.Abs(fidelity)
	if mag >= 1 {
		return math.Inf(1)
	}
	return -math.Log10(1 - mag)
}

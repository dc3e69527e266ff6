package hydrogen

import (
	"fmt"

	"github.com/aristath/qae/internal/modules/quantum"
)

// StateProducer turns a Hamiltonian coefficient set into a normalized input state.
type StateProducer interface {
	ProduceState(coefficients []float64) (quantum.StateVector, error)
}

// Factory applies the hydrogen Hamiltonian to |0000⟩.
type Factory struct{}

// NewFactory creates a state factory.
func NewFactory() *Factory {
	return &Factory{}
}

// ProduceState returns H|0000⟩ normalized to unit length.
// A coefficient set whose image vanishes is rejected with ErrInvalidInput.
func (f *Factory) ProduceState(coefficients []float64) (quantum.StateVector, error) {
	h, err := Hamiltonian(coefficients)
	if err != nil {
		return quantum.StateVector{}, err
	}
	ground, err := quantum.Basis(quantum.InputQubits, 0)
	if err != nil {
		return quantum.StateVector{}, err
	}
	raw, err := h.Apply(ground)
	if err != nil {
		return quantum.StateVector{}, err
	}
	state, err := raw.Normalize()
	if err != nil {
		return quantum.StateVector{}, fmt.Errorf("hydrogen state: %w", err)
	}
	return state, nil
}

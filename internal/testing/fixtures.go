package testing

import (
	"math/rand/v2"
	"testing"

	"github.com/aristath/qae/internal/modules/quantum"
)

// RandomState returns a normalized state with Gaussian amplitudes.
func RandomState(t *testing.T, rng *rand.Rand, qubits int) quantum.StateVector {
	t.Helper()
	amps := make([]complex128, 1<<qubits)
	for i := range amps {
		amps[i] = complex(rng.NormFloat64(), rng.NormFloat64())
	}
	s, err := quantum.NewStateVector(amps)
	if err != nil {
		t.Fatalf("Failed to build state: %v", err)
	}
	s, err = s.Normalize()
	if err != nil {
		t.Fatalf("Failed to normalize state: %v", err)
	}
	return s
}

// CompressibleState returns |00⟩⊗φ for a random two-qubit φ: the first two
// qubits are already trash, so the identity compresses it perfectly.
func CompressibleState(t *testing.T, rng *rand.Rand) quantum.StateVector {
	t.Helper()
	trash, err := quantum.Basis(2, 0)
	if err != nil {
		t.Fatalf("Failed to build trash state: %v", err)
	}
	return trash.Tensor(RandomState(t, rng, 2))
}

// NewCircuit builds a circuit, failing the test on error.
func NewCircuit(t *testing.T, numRef int, input quantum.StateVector) *quantum.Circuit {
	t.Helper()
	c, err := quantum.NewCircuit(numRef, input)
	if err != nil {
		t.Fatalf("Failed to build circuit: %v", err)
	}
	return c
}

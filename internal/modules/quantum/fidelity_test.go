package quantum

import (
	"math"
	"math/cmplx"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeFidelity_WithinUnitInterval(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1))

	for _, numRef := range []int{2, 3} {
		c, err := NewCircuit(numRef, randomState(t, rng, InputQubits))
		require.NoError(t, err)

		for _, topology := range Topologies {
			for i := 0; i < 5; i++ {
				u, err := c.Unitary(topology, randomParams(rng, topology.ParamCount()))
				require.NoError(t, err)

				f, err := c.ComputeFidelity(u)
				require.NoError(t, err)
				mag := cmplx.Abs(f)
				assert.GreaterOrEqual(t, mag, 0.0)
				assert.LessOrEqual(t, mag, 1+FidelityTolerance)
			}
		}
	}
}

func TestComputeFidelity_IdentityOnCompressedInput(t *testing.T) {
	rng := rand.New(rand.NewPCG(8, 3))
	// Trash qubits already |00⟩, the information lives in the last two qubits.
	input := basis(2, 0).Tensor(randomState(t, rng, 2))

	c, err := NewCircuit(2, input)
	require.NoError(t, err)

	f, err := c.ComputeFidelity(Identity(InputQubits))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, real(f), testTol)
	assert.InDelta(t, 0.0, imag(f), testTol)
	assert.Greater(t, ErrorMetric(f), 8.0)
}

func TestComputeFidelity_OrthogonalTrash(t *testing.T) {
	rng := rand.New(rand.NewPCG(8, 4))
	// Trash qubits in |11⟩ never overlap the |00⟩ references: only the identity branch survives.
	input := basis(2, 3).Tensor(randomState(t, rng, 2))

	c, err := NewCircuit(2, input)
	require.NoError(t, err)

	f, err := c.ComputeFidelity(Identity(InputQubits))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, real(f), testTol)
}

func TestComputeFidelity_ThreeReferences(t *testing.T) {
	rng := rand.New(rand.NewPCG(2, 2))
	input := basis(3, 0).Tensor(randomState(t, rng, 1))

	c, err := NewCircuit(3, input)
	require.NoError(t, err)

	f, err := c.ComputeFidelity(Identity(InputQubits))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, real(f), testTol)
}

func TestErrorMetric(t *testing.T) {
	assert.InDelta(t, 1.0, ErrorMetric(0.9), 1e-12)
	assert.InDelta(t, 2.0, ErrorMetric(complex(0, 0.99)), 1e-12)
	assert.InDelta(t, 0.0, ErrorMetric(0), 1e-12)
	assert.True(t, math.IsInf(ErrorMetric(1), 1))
	assert.True(t, math.IsInf(ErrorMetric(1+1e-12), 1))
}

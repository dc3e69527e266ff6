package quantum

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/aristath/qae/internal/domain"
)

const testTol = 1e-9

func randomParams(rng *rand.Rand, n int) []float64 {
	params := make([]float64, n)
	for i := range params {
		params[i] = rng.Float64() * 4 * 3.141592653589793
	}
	return params
}

func assertOperatorEqual(t *testing.T, want, got Operator) {
	t.Helper()
	require.Equal(t, want.Qubits(), got.Qubits())
	assert.True(t, mat.CEqualApprox(want.Matrix(), got.Matrix(), testTol), "operators differ")
}

func TestNewOperator_Validation(t *testing.T) {
	_, err := NewOperator(0, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NewOperator(1, []complex128{1, 0, 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	op, err := NewOperator(1, []complex128{0, 1, 1, 0})
	require.NoError(t, err)
	assertOperatorEqual(t, PauliX, op)
}

func TestKron_Dimensions(t *testing.T) {
	op := Kron(PauliX, Identity(1), PauliZ)
	assert.Equal(t, 3, op.Qubits())
	assert.Equal(t, 8, op.Dim())

	// X⊗I⊗Z maps |000⟩ to |100⟩ with +1.
	out, err := op.Apply(basis(3, 0))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, real(out.At(4)), testTol)
}

func TestDagger(t *testing.T) {
	assertOperatorEqual(t, PauliY, PauliY.Dagger())
	g := SingleQubitGate(0.3, 1.2, 2.1)
	assertOperatorEqual(t, Identity(1), g.mul(g.Dagger()))
}

func TestEmbed_MatchesKronForContiguousTargets(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	unit, err := TwoQubitUnitary(randomParams(rng, TwoQubitParamCount))
	require.NoError(t, err)

	got, err := Embed(unit, []int{1, 2}, 4)
	require.NoError(t, err)

	id := Identity(1)
	assertOperatorEqual(t, Kron(id, unit, id), got)
}

func TestEmbed_ReversedTargetsIsSwapConjugation(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	unit, err := TwoQubitUnitary(randomParams(rng, TwoQubitParamCount))
	require.NoError(t, err)

	got, err := Embed(unit, []int{1, 0}, 2)
	require.NoError(t, err)
	assertOperatorEqual(t, product(SwapGate, unit, SwapGate), got)
}

func TestEmbed_CrossPairMatchesSwapConstruction(t *testing.T) {
	rng := rand.New(rand.NewPCG(21, 8))
	unit, err := TwoQubitUnitary(randomParams(rng, TwoQubitParamCount))
	require.NoError(t, err)

	middle, err := Embed(unit, []int{1, 2}, 4)
	require.NoError(t, err)
	swap01, err := Swap(4, 0, 1)
	require.NoError(t, err)

	got, err := Embed(unit, []int{0, 2}, 4)
	require.NoError(t, err)
	assertOperatorEqual(t, product(swap01, middle, swap01), got)
}

func TestEmbed_InvalidTargets(t *testing.T) {
	tests := []struct {
		name    string
		targets []int
	}{
		{"wrong count", []int{0}},
		{"out of range", []int{0, 4}},
		{"negative", []int{-1, 2}},
		{"repeated", []int{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Embed(SwapGate, tt.targets, 4)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCheckUnitary(t *testing.T) {
	assert.NoError(t, Hadamard.CheckUnitary(testTol))

	notUnitary, err := PauliX.Add(PauliZ)
	require.NoError(t, err)
	assert.False(t, notUnitary.IsUnitary(testTol))
	assert.ErrorIs(t, notUnitary.CheckUnitary(testTol), domain.ErrNumericalInstability)
}

func TestAddAndScale(t *testing.T) {
	sum, err := PauliX.Scale(2).Add(PauliZ.Scale(1i))
	require.NoError(t, err)
	assert.Equal(t, complex(0, 1), sum.At(0, 0))
	assert.Equal(t, complex(2, 0), sum.At(0, 1))
	assert.Equal(t, complex(2, 0), sum.At(1, 0))
	assert.Equal(t, complex(0, -1), sum.At(1, 1))

	_, err = PauliX.Add(SwapGate)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApply_SizeMismatch(t *testing.T) {
	_, err := PauliX.Apply(basis(2, 0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

package quantum

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/qae/internal/domain"
)

func randomState(t *testing.T, rng *rand.Rand, qubits int) StateVector {
	t.Helper()
	amps := make([]complex128, 1<<qubits)
	for i := range amps {
		amps[i] = complex(rng.NormFloat64(), rng.NormFloat64())
	}
	s, err := NewStateVector(amps)
	require.NoError(t, err)
	s, err = s.Normalize()
	require.NoError(t, err)
	return s
}

func TestParseTopology(t *testing.T) {
	tests := []struct {
		tag     string
		want    Topology
		wantErr bool
	}{
		{"a", TopologyA, false},
		{"B", TopologyB, false},
		{" b ", TopologyB, false},
		{"x", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := ParseTopology(tt.tag)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidEntry)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTopology_ParamCount(t *testing.T) {
	assert.Equal(t, 15, TopologyA.ParamCount())
	assert.Equal(t, 3, TopologyB.ParamCount())
	assert.Equal(t, 0, Topology("x").ParamCount())
}

func TestNewCircuit_Validation(t *testing.T) {
	input := basis(InputQubits, 0)

	for _, numRef := range []int{0, 1, 4} {
		_, err := NewCircuit(numRef, input)
		assert.ErrorIs(t, err, domain.ErrInvalidConfiguration, "numRef %d", numRef)
	}

	_, err := NewCircuit(2, basis(3, 0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	unnormalized, err := NewStateVector(append([]complex128{2}, make([]complex128, 15)...))
	require.NoError(t, err)
	_, err = NewCircuit(2, unnormalized)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	for _, numRef := range []int{2, 3} {
		c, err := NewCircuit(numRef, input)
		require.NoError(t, err)
		assert.Equal(t, numRef, c.NumRef())
	}
}

func TestUnitaryA_IsUnitary(t *testing.T) {
	c, err := NewCircuit(2, basis(InputQubits, 0))
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(10, 20))
	for i := 0; i < 10; i++ {
		u, err := c.UnitaryA(randomParams(rng, 15))
		require.NoError(t, err)
		assert.Equal(t, InputQubits, u.Qubits())
		assert.True(t, u.IsUnitary(testTol))
	}
}

func TestUnitaryA_FirstLayersMatchTensorConstruction(t *testing.T) {
	c, err := NewCircuit(2, basis(InputQubits, 0))
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(13, 17))
	params := randomParams(rng, 15)
	unit, err := TwoQubitUnitary(params)
	require.NoError(t, err)

	id := Identity(1)
	u1 := Kron(unit, id, id)
	u2 := Kron(id, unit, id)
	u3 := Kron(id, id, unit)
	swap01, err := Swap(4, 0, 1)
	require.NoError(t, err)
	swap12, err := Swap(4, 1, 2)
	require.NoError(t, err)
	swap23, err := Swap(4, 2, 3)
	require.NoError(t, err)
	u4 := product(swap01, u2, swap01)
	u5 := product(swap12, u3, swap12)
	u6 := product(swap23, swap12, u1, swap12, swap23)

	got, err := c.UnitaryA(params)
	require.NoError(t, err)
	assertOperatorEqual(t, product(u1, u2, u3, u4, u5, u6), got)
}

func TestUnitaryB_IsUnitaryAndMatchesLayers(t *testing.T) {
	c, err := NewCircuit(2, basis(InputQubits, 0))
	require.NoError(t, err)

	params := []float64{0.7, 2.3, 5.1}
	got, err := c.UnitaryB(params)
	require.NoError(t, err)
	assert.True(t, got.IsUnitary(testTol))

	r := SingleQubitGate(params[0], params[1], params[2])
	id := Identity(1)
	all := Kron(r, r, r, r)
	want := product(all,
		Kron(id, r, r, r),
		Kron(r, id, r, r),
		Kron(r, r, id, r),
		Kron(r, r, r, id),
		all,
	)
	assertOperatorEqual(t, want, got)
}

func TestUnitaryB_ZeroParamsIsIdentity(t *testing.T) {
	c, err := NewCircuit(2, basis(InputQubits, 0))
	require.NoError(t, err)

	got, err := c.UnitaryB([]float64{0, 0, 0})
	require.NoError(t, err)
	assertOperatorEqual(t, Identity(InputQubits), got)
}

func TestUnitary_Dispatch(t *testing.T) {
	c, err := NewCircuit(2, basis(InputQubits, 0))
	require.NoError(t, err)

	_, err = c.Unitary(TopologyA, make([]float64, 15))
	assert.NoError(t, err)
	_, err = c.Unitary(TopologyB, make([]float64, 3))
	assert.NoError(t, err)

	_, err = c.Unitary(Topology("x"), make([]float64, 15))
	assert.ErrorIs(t, err, domain.ErrInvalidEntry)

	_, err = c.Unitary(TopologyA, make([]float64, 3))
	assert.ErrorIs(t, err, domain.ErrMissingParameter)
	_, err = c.Unitary(TopologyB, make([]float64, 2))
	assert.ErrorIs(t, err, domain.ErrMissingParameter)
}

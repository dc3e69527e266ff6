package quantum

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/qae/internal/domain"
)

func TestRotations_AreUnitary(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 50; i++ {
		theta := (rng.Float64() - 0.5) * 40
		phi := (rng.Float64() - 0.5) * 40
		assert.True(t, RotationXY(theta, phi).IsUnitary(testTol), "Rxy(%g, %g)", theta, phi)
		assert.True(t, RotationZ(phi).IsUnitary(testTol), "Rz(%g)", phi)
	}
}

func TestRotationZ_PeriodFourPi(t *testing.T) {
	for _, phi := range []float64{0, 0.5, math.Pi, 7.3, -2.2} {
		assertOperatorEqual(t, RotationZ(phi), RotationZ(phi+4*math.Pi))
	}
}

func TestRotationXY_PeriodFourPi(t *testing.T) {
	assertOperatorEqual(t, RotationXY(1.1, 0.4), RotationXY(1.1+4*math.Pi, 0.4))
	assertOperatorEqual(t, RotationXY(1.1, 0.4), RotationXY(1.1, 0.4+2*math.Pi))
}

func TestRotationXY_SpecialAngles(t *testing.T) {
	// θ = π, φ = 0 is -i·X.
	assertOperatorEqual(t, PauliX.Scale(-1i), RotationXY(math.Pi, 0))
	// θ = π, φ = π/2 is -i·Y.
	assertOperatorEqual(t, PauliY.Scale(-1i), RotationXY(math.Pi, math.Pi/2))
}

func TestSingleQubitGate_ZeroIsIdentity(t *testing.T) {
	assertOperatorEqual(t, Identity(1), SingleQubitGate(0, 0, 0))
}

func TestSingleQubitGate_Composition(t *testing.T) {
	assertOperatorEqual(t, RotationZ(0.9).mul(RotationXY(0.2, 1.7)), SingleQubitGate(0.2, 1.7, 0.9))
}

func TestEntangleGate(t *testing.T) {
	e := EntangleGate()
	assert.True(t, e.IsUnitary(testTol))

	want := []complex128{1i, 1, 1, 1i}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			expected := complex128(0)
			if i == j {
				expected = want[i]
			}
			assert.InDelta(t, real(expected), real(e.At(i, j)), testTol)
			assert.InDelta(t, imag(expected), imag(e.At(i, j)), testTol)
		}
	}
}

func TestVGate_IsUnitary(t *testing.T) {
	rng := rand.New(rand.NewPCG(4, 4))
	for i := 0; i < 20; i++ {
		p := randomParams(rng, 3)
		assert.True(t, VGate(p[0], p[1], p[2]).IsUnitary(testTol))
	}
}

func TestTwoQubitUnitary(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	for i := 0; i < 20; i++ {
		u, err := TwoQubitUnitary(randomParams(rng, TwoQubitParamCount))
		require.NoError(t, err)
		assert.Equal(t, 2, u.Qubits())
		assert.True(t, u.IsUnitary(testTol))
	}
}

func TestTwoQubitUnitary_Structure(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	p := randomParams(rng, TwoQubitParamCount)

	u, err := TwoQubitUnitary(p)
	require.NoError(t, err)

	before := Kron(SingleQubitGate(p[0], p[1], p[2]), SingleQubitGate(p[3], p[4], p[5]))
	after := Kron(SingleQubitGate(p[9], p[10], p[11]), SingleQubitGate(p[12], p[13], p[14]))
	assertOperatorEqual(t, product(after, VGate(p[6], p[7], p[8]), before), u)
}

func TestTwoQubitUnitary_MissingParameter(t *testing.T) {
	_, err := TwoQubitUnitary(make([]float64, 14))
	assert.ErrorIs(t, err, domain.ErrMissingParameter)

	_, err = SingleQubitGateAt([]float64{1, 2}, 0)
	assert.ErrorIs(t, err, domain.ErrMissingParameter)
}

func TestFredkin(t *testing.T) {
	f, err := Fredkin(3, 0, 1, 2)
	require.NoError(t, err)
	assert.True(t, f.IsUnitary(testTol))

	// |110⟩ -> |101⟩ when the control is set.
	out, err := f.Apply(basis(3, 6))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, real(out.At(5)), testTol)

	// |010⟩ is untouched with the control clear.
	out, err = f.Apply(basis(3, 2))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, real(out.At(2)), testTol)
}

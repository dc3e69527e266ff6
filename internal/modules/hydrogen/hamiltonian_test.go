package hydrogen

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/aristath/qae/internal/domain"
	"github.com/aristath/qae/internal/modules/quantum"
)

func TestPauliString(t *testing.T) {
	op, err := PauliString("ZI")
	require.NoError(t, err)
	assert.Equal(t, 2, op.Qubits())
	assert.Equal(t, complex128(-1), op.At(2, 2))

	_, err = PauliString("ZQ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = PauliString("")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHamiltonian_IsHermitian(t *testing.T) {
	h, err := Hamiltonian(EquilibriumCoefficients)
	require.NoError(t, err)
	assert.Equal(t, quantum.InputQubits, h.Qubits())
	assert.True(t, mat.CEqualApprox(h.Matrix(), h.Dagger().Matrix(), 1e-12))
}

func TestHamiltonian_DiagonalOnVacuum(t *testing.T) {
	c := EquilibriumCoefficients
	h, err := Hamiltonian(c)
	require.NoError(t, err)

	// Every Z is +1 on |0000⟩; the exchange terms cancel there.
	want := c[0] + 2*c[1] + 2*c[2] + c[3] + 2*c[4] + 2*c[5] + c[6]
	assert.InDelta(t, want, real(h.At(0, 0)), 1e-12)
	assert.InDelta(t, 0.0, real(h.At(15, 0)), 1e-12)
}

func TestHamiltonian_ExchangeTermCouplesPairs(t *testing.T) {
	coeffs := make([]float64, CoefficientCount)
	coeffs[7] = 1
	h, err := Hamiltonian(coeffs)
	require.NoError(t, err)

	// |0011⟩ (index 3) couples to |1100⟩ (index 12).
	assert.InDelta(t, 4.0, cmplx.Abs(h.At(12, 3)), 1e-12)
}

func TestHamiltonian_WrongLength(t *testing.T) {
	_, err := Hamiltonian(make([]float64, 7))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Package hydrogen produces molecular hydrogen input states for the autoencoder from the
// coefficients of the four-qubit (minimal basis, Jordan-Wigner mapped) Hamiltonian.
package hydrogen

import (
	"fmt"

	"github.com/aristath/qae/internal/domain"
	"github.com/aristath/qae/internal/modules/quantum"
)

// CoefficientCount is the number of Hamiltonian coefficients.
const CoefficientCount = 8

// EquilibriumDistance is the internuclear distance (Å) of EquilibriumCoefficients.
const EquilibriumDistance = 0.7414

// EquilibriumCoefficients are the Hamiltonian coefficients of H2 near its equilibrium bond length.
var EquilibriumCoefficients = []float64{
	-0.09886397,
	0.17119775,
	-0.22278593,
	0.16862219,
	0.12054482,
	0.16586702,
	0.17434844,
	0.04532220,
}

type signedString struct {
	sign  float64
	pauli string
}

// hamiltonianTerms lists, per coefficient, the Pauli strings it multiplies.
var hamiltonianTerms = [CoefficientCount][]signedString{
	{{1, "IIII"}},
	{{1, "ZIII"}, {1, "IZII"}},
	{{1, "IIZI"}, {1, "IIIZ"}},
	{{1, "ZZII"}},
	{{1, "ZIZI"}, {1, "IZIZ"}},
	{{1, "IZZI"}, {1, "ZIIZ"}},
	{{1, "IIZZ"}},
	{{1, "YXXY"}, {-1, "XXYY"}, {-1, "YYXX"}, {1, "XYYX"}},
}

// PauliString returns the tensor product of single-qubit Paulis named by s (I, X, Y, Z).
func PauliString(s string) (quantum.Operator, error) {
	if s == "" {
		return quantum.Operator{}, fmt.Errorf("empty Pauli string: %w", domain.ErrInvalidInput)
	}
	factors := make([]quantum.Operator, 0, len(s))
	for _, r := range s {
		switch r {
		case 'I':
			factors = append(factors, quantum.Identity(1))
		case 'X':
			factors = append(factors, quantum.PauliX)
		case 'Y':
			factors = append(factors, quantum.PauliY)
		case 'Z':
			factors = append(factors, quantum.PauliZ)
		default:
			return quantum.Operator{}, fmt.Errorf("unknown Pauli %q in %q: %w", r, s, domain.ErrInvalidInput)
		}
	}
	return quantum.Kron(factors[0], factors[1:]...), nil
}

// Hamiltonian builds Σ_k coefficients[k]·(terms of k) on four qubits.
func Hamiltonian(coefficients []float64) (quantum.Operator, error) {
	if len(coefficients) != CoefficientCount {
		return quantum.Operator{}, fmt.Errorf("hamiltonian needs %d coefficients, got %d: %w",
			CoefficientCount, len(coefficients), domain.ErrInvalidInput)
	}

	h := quantum.Identity(quantum.InputQubits).Scale(0)
	for k, terms := range hamiltonianTerms {
		for _, term := range terms {
			p, err := PauliString(term.pauli)
			if err != nil {
				return quantum.Operator{}, err
			}
			h, err = h.Add(p.Scale(complex(coefficients[k]*term.sign, 0)))
			if err != nil {
				return quantum.Operator{}, err
			}
		}
	}
	return h, nil
}

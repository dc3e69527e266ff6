package quantum

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/aristath/qae/internal/domain"
)

// TwoQubitParamCount is the number of real degrees of freedom of the general two-qubit gate.
const TwoQubitParamCount = 15

// SingleQubitParamCount is the number of angles of a general single-qubit gate.
const SingleQubitParamCount = 3

var (
	// PauliX is σx.
	PauliX = mustOperator(1, []complex128{0, 1, 1, 0})
	// PauliY is σy.
	PauliY = mustOperator(1, []complex128{0, -1i, 1i, 0})
	// PauliZ is σz.
	PauliZ = mustOperator(1, []complex128{1, 0, 0, -1})
	// Hadamard is the single-qubit Hadamard gate.
	Hadamard = mustOperator(1, []complex128{
		complex(1/math.Sqrt2, 0), complex(1/math.Sqrt2, 0),
		complex(1/math.Sqrt2, 0), complex(-1/math.Sqrt2, 0),
	})
	// SwapGate exchanges two qubits.
	SwapGate = mustOperator(2, []complex128{
		1, 0, 0, 0,
		0, 0, 1, 0,
		0, 1, 0, 0,
		0, 0, 0, 1,
	})
	// FredkinGate swaps qubits 1 and 2 when qubit 0 is |1⟩.
	FredkinGate = controlled(SwapGate)
)

// controlled returns |0⟩⟨0| ⊗ I + |1⟩⟨1| ⊗ op.
func controlled(op Operator) Operator {
	d := op.Dim()
	data := make([]complex128, 4*d*d)
	stride := 2 * d
	for i := 0; i < d; i++ {
		data[i*stride+i] = 1
		for j := 0; j < d; j++ {
			data[(d+i)*stride+d+j] = op.At(i, j)
		}
	}
	return mustOperator(op.Qubits()+1, data)
}

// RotationXY returns exp(-i·θ/2·(cos φ·X + sin φ·Y)).
func RotationXY(theta, phi float64) Operator {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return mustOperator(1, []complex128{
		c, -1i * s * cmplx.Exp(complex(0, -phi)),
		-1i * s * cmplx.Exp(complex(0, phi)), c,
	})
}

// RotationZ returns exp(-i·φ/2·Z).
func RotationZ(phi float64) Operator {
	return mustOperator(1, []complex128{
		cmplx.Exp(complex(0, -phi/2)), 0,
		0, cmplx.Exp(complex(0, phi/2)),
	})
}

// SingleQubitGate returns RotationZ(phiZ)·RotationXY(theta, phi).
func SingleQubitGate(theta, phi, phiZ float64) Operator {
	return RotationZ(phiZ).mul(RotationXY(theta, phi))
}

// EntangleGate returns exp(iπ/4)·exp(iπ/4·Z⊗Z), which is diagonal: diag(i, 1, 1, i).
func EntangleGate() Operator {
	global := cmplx.Exp(complex(0, math.Pi/4))
	plus := global * cmplx.Exp(complex(0, math.Pi/4))
	minus := global * cmplx.Exp(complex(0, -math.Pi/4))
	return mustOperator(2, []complex128{
		plus, 0, 0, 0,
		0, minus, 0, 0,
		0, 0, minus, 0,
		0, 0, 0, plus,
	})
}

// VGate is the entangling core of the two-qubit decomposition:
// E·(Rxy(β, π/2) ⊗ Rxy(3π/2, δ))·E·(Rxy(α, 0) ⊗ Rxy(3π/2, 0)).
func VGate(alpha, beta, delta float64) Operator {
	outer := Kron(RotationXY(beta, math.Pi/2), RotationXY(3*math.Pi/2, delta))
	inner := Kron(RotationXY(alpha, 0), RotationXY(3*math.Pi/2, 0))
	e := EntangleGate()
	return product(e, outer, e, inner)
}

// SingleQubitGateAt builds the single-qubit gate from params[offset:offset+3].
func SingleQubitGateAt(params []float64, offset int) (Operator, error) {
	if len(params) < offset+SingleQubitParamCount {
		return Operator{}, fmt.Errorf("single-qubit gate at offset %d needs %d parameters, have %d: %w",
			offset, offset+SingleQubitParamCount, len(params), domain.ErrMissingParameter)
	}
	return SingleQubitGate(params[offset], params[offset+1], params[offset+2]), nil
}

// TwoQubitUnitary returns (C⊗D)·V·(A⊗B) where A, B, C, D are single-qubit gates
// from params[0:3], [3:6], [9:12], [12:15] and V = VGate(params[6:9]).
func TwoQubitUnitary(params []float64) (Operator, error) {
	if len(params) < TwoQubitParamCount {
		return Operator{}, fmt.Errorf("two-qubit unitary needs %d parameters, have %d: %w",
			TwoQubitParamCount, len(params), domain.ErrMissingParameter)
	}
	gates := make([]Operator, 0, 4)
	for _, offset := range []int{0, 3, 9, 12} {
		g, err := SingleQubitGateAt(params, offset)
		if err != nil {
			return Operator{}, err
		}
		gates = append(gates, g)
	}
	before := Kron(gates[0], gates[1])
	after := Kron(gates[2], gates[3])
	v := VGate(params[6], params[7], params[8])
	return product(after, v, before), nil
}

// Swap returns the n-qubit operator exchanging qubits a and b.
func Swap(n, a, b int) (Operator, error) {
	return Embed(SwapGate, []int{a, b}, n)
}

// Fredkin returns the n-qubit controlled swap of t1 and t2 on control.
func Fredkin(n, control, t1, t2 int) (Operator, error) {
	return Embed(FredkinGate, []int{control, t1, t2}, n)
}

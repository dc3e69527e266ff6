package quantum

import (
	"fmt"
	"math/bits"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
	"gonum.org/v1/gonum/cmplxs"
	"gonum.org/v1/gonum/mat"

	"github.com/aristath/qae/internal/domain"
)

// UnitarityTolerance is the element-wise tolerance used when checking U·U† = I.
const UnitarityTolerance = 1e-9

// Operator is an immutable 2^n × 2^n complex matrix acting on an n-qubit register.
// Qubit 0 is the leftmost factor of a tensor product (most significant bit of a basis index).
type Operator struct {
	m      *mat.CDense
	qubits int
}

// NewOperator wraps row-major data as an operator on the given number of qubits.
// The slice is copied.
func NewOperator(qubits int, data []complex128) (Operator, error) {
	if qubits < 1 {
		return Operator{}, fmt.Errorf("operator needs at least one qubit, got %d: %w", qubits, domain.ErrInvalidInput)
	}
	dim := 1 << qubits
	if len(data) != dim*dim {
		return Operator{}, fmt.Errorf("operator on %d qubits needs %d entries, got %d: %w", qubits, dim*dim, len(data), domain.ErrInvalidInput)
	}
	cp := make([]complex128, len(data))
	copy(cp, data)
	return Operator{m: mat.NewCDense(dim, dim, cp), qubits: qubits}, nil
}

// mustOperator is used for the fixed gate literals in this package.
func mustOperator(qubits int, data []complex128) Operator {
	op, err := NewOperator(qubits, data)
	if err != nil {
		panic(err)
	}
	return op
}

// Identity returns the identity on n qubits.
func Identity(qubits int) Operator {
	dim := 1 << qubits
	m := mat.NewCDense(dim, dim, nil)
	for i := 0; i < dim; i++ {
		m.Set(i, i, 1)
	}
	return Operator{m: m, qubits: qubits}
}

// Qubits returns the register size the operator acts on.
func (o Operator) Qubits() int { return o.qubits }

// Dim returns 2^Qubits.
func (o Operator) Dim() int { return 1 << o.qubits }

// At returns the (i, j) matrix element.
func (o Operator) At(i, j int) complex128 { return o.m.At(i, j) }

// Matrix exposes the operator as a read-only gonum complex matrix.
func (o Operator) Matrix() mat.CMatrix { return o.m }

// mul returns o·b (b is applied first). Both operands are built in this
// package from fixed-size literals, so a size mismatch is a bug here.
func (o Operator) mul(b Operator) Operator {
	if o.qubits != b.qubits {
		panic(fmt.Sprintf("quantum: operator size mismatch %d vs %d qubits", o.qubits, b.qubits))
	}
	dim := o.Dim()
	out := mat.NewCDense(dim, dim, nil)
	cblas128.Gemm(blas.NoTrans, blas.NoTrans, 1, o.m.RawCMatrix(), b.m.RawCMatrix(), 0, out.RawCMatrix())
	return Operator{m: out, qubits: o.qubits}
}

// product multiplies the operators left to right: product(A, B, C) = A·B·C.
func product(first Operator, rest ...Operator) Operator {
	acc := first
	for _, op := range rest {
		acc = acc.mul(op)
	}
	return acc
}

// Dagger returns the conjugate transpose.
func (o Operator) Dagger() Operator {
	dim := o.Dim()
	out := mat.NewCDense(dim, dim, nil)
	out.Copy(o.m.H())
	return Operator{m: out, qubits: o.qubits}
}

// Scale returns c·o.
func (o Operator) Scale(c complex128) Operator {
	raw := o.m.RawCMatrix()
	data := make([]complex128, len(raw.Data))
	cmplxs.ScaleTo(data, c, raw.Data)
	return Operator{m: mat.NewCDense(raw.Rows, raw.Cols, data), qubits: o.qubits}
}

// Add returns o + b. Operators on different register sizes fail with ErrInvalidInput.
func (o Operator) Add(b Operator) (Operator, error) {
	if o.qubits != b.qubits {
		return Operator{}, fmt.Errorf("cannot add operators on %d and %d qubits: %w", o.qubits, b.qubits, domain.ErrInvalidInput)
	}
	ra, rb := o.m.RawCMatrix(), b.m.RawCMatrix()
	data := make([]complex128, len(ra.Data))
	cmplxs.AddTo(data, ra.Data, rb.Data)
	return Operator{m: mat.NewCDense(ra.Rows, ra.Cols, data), qubits: o.qubits}, nil
}

// Kron returns the tensor product first ⊗ rest[0] ⊗ rest[1] ⊗ ...
func Kron(first Operator, rest ...Operator) Operator {
	acc := first
	for _, op := range rest {
		acc = kron2(acc, op)
	}
	return acc
}

func kron2(a, b Operator) Operator {
	da, db := a.Dim(), b.Dim()
	dim := da * db
	out := mat.NewCDense(dim, dim, nil)
	for i := 0; i < da; i++ {
		for j := 0; j < da; j++ {
			aij := a.m.At(i, j)
			if aij == 0 {
				continue
			}
			for k := 0; k < db; k++ {
				for l := 0; l < db; l++ {
					out.Set(i*db+k, j*db+l, aij*b.m.At(k, l))
				}
			}
		}
	}
	return Operator{m: out, qubits: a.qubits + b.qubits}
}

// IsUnitary reports whether o·o† equals the identity within tol.
func (o Operator) IsUnitary(tol float64) bool {
	return mat.CEqualApprox(o.mul(o.Dagger()).m, Identity(o.qubits).m, tol)
}

// CheckUnitary returns ErrNumericalInstability when o is not unitary within tol.
func (o Operator) CheckUnitary(tol float64) error {
	if !o.IsUnitary(tol) {
		return fmt.Errorf("operator on %d qubits is not unitary within %g: %w", o.qubits, tol, domain.ErrNumericalInstability)
	}
	return nil
}

// Apply returns o·|s⟩.
func (o Operator) Apply(s StateVector) (StateVector, error) {
	if s.qubits != o.qubits {
		return StateVector{}, fmt.Errorf("operator on %d qubits applied to %d-qubit state: %w", o.qubits, s.qubits, domain.ErrInvalidInput)
	}
	dim := o.Dim()
	out := make([]complex128, dim)
	cblas128.Gemv(blas.NoTrans, 1, o.m.RawCMatrix(),
		cblas128.Vector{N: dim, Inc: 1, Data: s.amps},
		0, cblas128.Vector{N: dim, Inc: 1, Data: out})
	return StateVector{amps: out, qubits: s.qubits}, nil
}

// Embed lifts op onto an n-qubit register, acting on targets in the given order
// (targets[0] plays the role of op's qubit 0) and as identity elsewhere.
func Embed(op Operator, targets []int, n int) (Operator, error) {
	if len(targets) != op.qubits {
		return Operator{}, fmt.Errorf("operator on %d qubits given %d targets: %w", op.qubits, len(targets), domain.ErrInvalidInput)
	}
	var mask uint
	for _, t := range targets {
		if t < 0 || t >= n {
			return Operator{}, fmt.Errorf("target qubit %d outside register of %d: %w", t, n, domain.ErrInvalidInput)
		}
		bit := uint(1) << uint(n-1-t)
		if mask&bit != 0 {
			return Operator{}, fmt.Errorf("target qubit %d repeated: %w", t, domain.ErrInvalidInput)
		}
		mask |= bit
	}

	dim := 1 << n
	sub := op.Dim()
	out := mat.NewCDense(dim, dim, nil)
	for i := 0; i < dim; i++ {
		row := subIndex(uint(i), targets, n)
		rest := uint(i) &^ mask
		for k := 0; k < sub; k++ {
			v := op.m.At(row, k)
			if v == 0 {
				continue
			}
			j := rest | spread(uint(k), targets, n)
			out.Set(i, int(j), v)
		}
	}
	return Operator{m: out, qubits: n}, nil
}

// subIndex gathers the bits of index at the target positions into a sub-register index.
func subIndex(index uint, targets []int, n int) int {
	m := len(targets)
	var k int
	for pos, t := range targets {
		b := (index >> uint(n-1-t)) & 1
		k |= int(b) << uint(m-1-pos)
	}
	return k
}

// spread scatters a sub-register index back onto the target positions.
func spread(k uint, targets []int, n int) uint {
	m := len(targets)
	var index uint
	for pos, t := range targets {
		b := (k >> uint(m-1-pos)) & 1
		index |= b << uint(n-1-t)
	}
	return index
}

// qubitsFor returns n such that 2^n == dim, or -1.
func qubitsFor(dim int) int {
	if dim < 2 || dim&(dim-1) != 0 {
		return -1
	}
	return bits.TrailingZeros(uint(dim))
}

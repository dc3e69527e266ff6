// Package quantum simulates the quantum autoencoder circuits: gate construction,
// the two unit-cell topologies, and the swap-test fidelity measurement.
package quantum

import (
	"fmt"
	"strings"

	"github.com/aristath/qae/internal/domain"
)

// InputQubits is the size of the register holding the compressed input state.
const InputQubits = 4

// Topology names one of the two unit-cell circuit layouts.
type Topology string

const (
	// TopologyA applies the 15-parameter two-qubit gate to every pair of the register.
	TopologyA Topology = "a"
	// TopologyB applies one shared single-qubit gate in layers.
	TopologyB Topology = "b"
)

// Topologies lists the supported topologies in evaluation order.
var Topologies = []Topology{TopologyA, TopologyB}

// ParseTopology validates a topology tag.
func ParseTopology(tag string) (Topology, error) {
	switch Topology(strings.ToLower(strings.TrimSpace(tag))) {
	case TopologyA:
		return TopologyA, nil
	case TopologyB:
		return TopologyB, nil
	default:
		return "", fmt.Errorf("topology %q: %w", tag, domain.ErrInvalidEntry)
	}
}

// ParamCount returns the parameter vector length for the topology.
func (t Topology) ParamCount() int {
	switch t {
	case TopologyA:
		return TwoQubitParamCount
	case TopologyB:
		return SingleQubitParamCount
	default:
		return 0
	}
}

// pairsA is the coupling order of topology A: the three neighbouring pairs followed
// by the cross-pair couplings.
var pairsA = [][]int{{0, 1}, {1, 2}, {2, 3}, {0, 2}, {1, 3}, {0, 3}}

// Circuit holds the fixed input state and the parameter-independent swap-test operators.
type Circuit struct {
	numRef   int
	input    StateVector
	swapTest Operator
	readout  Operator
}

// NewCircuit validates numRef (2 or 3) and the 4-qubit input state.
func NewCircuit(numRef int, input StateVector) (*Circuit, error) {
	if numRef < 2 || numRef > 3 {
		return nil, fmt.Errorf("compression valid for only 2 and 3 reference qubits, got %d: %w", numRef, domain.ErrInvalidConfiguration)
	}
	if input.Qubits() != InputQubits {
		return nil, fmt.Errorf("input state has %d qubits, want %d: %w", input.Qubits(), InputQubits, domain.ErrInvalidInput)
	}
	if !input.IsNormalized() {
		return nil, fmt.Errorf("input state norm %g is not 1: %w", input.Norm(), domain.ErrInvalidInput)
	}

	swapTest, err := swapTestOperator(numRef)
	if err != nil {
		return nil, err
	}
	readout, err := Embed(Hadamard, []int{0}, registerQubits(numRef))
	if err != nil {
		return nil, err
	}

	return &Circuit{
		numRef:   numRef,
		input:    input,
		swapTest: swapTest,
		readout:  readout,
	}, nil
}

// NumRef returns the number of reference qubits.
func (c *Circuit) NumRef() int { return c.numRef }

// Input returns the fixed input state.
func (c *Circuit) Input() StateVector { return c.input }

// Unitary dispatches to the topology's unit cell.
func (c *Circuit) Unitary(t Topology, params []float64) (Operator, error) {
	switch t {
	case TopologyA:
		return c.UnitaryA(params)
	case TopologyB:
		return c.UnitaryB(params)
	default:
		return Operator{}, fmt.Errorf("topology %q: %w", t, domain.ErrInvalidEntry)
	}
}

// UnitaryA embeds the two-qubit gate on each of the six qubit pairs and multiplies them
// in coupling order.
func (c *Circuit) UnitaryA(params []float64) (Operator, error) {
	unit, err := TwoQubitUnitary(params)
	if err != nil {
		return Operator{}, err
	}

	layers := make([]Operator, 0, len(pairsA))
	for _, pair := range pairsA {
		op, err := Embed(unit, pair, InputQubits)
		if err != nil {
			return Operator{}, err
		}
		layers = append(layers, op)
	}

	u := product(layers[0], layers[1:]...)
	if err := u.CheckUnitary(UnitarityTolerance); err != nil {
		return Operator{}, fmt.Errorf("topology a: %w", err)
	}
	return u, nil
}

// UnitaryB rotates every qubit, then every qubit but k for k = 0..3, then every qubit again.
func (c *Circuit) UnitaryB(params []float64) (Operator, error) {
	rotate, err := SingleQubitGateAt(params, 0)
	if err != nil {
		return Operator{}, err
	}
	id := Identity(1)

	rotateAll := Kron(rotate, rotate, rotate, rotate)
	layers := []Operator{rotateAll}
	for skip := 0; skip < InputQubits; skip++ {
		factors := make([]Operator, InputQubits)
		for q := range factors {
			factors[q] = rotate
			if q == skip {
				factors[q] = id
			}
		}
		layers = append(layers, Kron(factors[0], factors[1:]...))
	}
	layers = append(layers, rotateAll)

	u := product(layers[0], layers[1:]...)
	if err := u.CheckUnitary(UnitarityTolerance); err != nil {
		return Operator{}, fmt.Errorf("topology b: %w", err)
	}
	return u, nil
}

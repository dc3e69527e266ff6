package testing

import (
	"sync"

	"github.com/aristath/qae/internal/modules/quantum"
)

// MockStateProducer returns a fixed state or error and records the
// coefficient sets it was asked for.
type MockStateProducer struct {
	mu    sync.Mutex
	state quantum.StateVector
	err   error
	calls [][]float64
}

// NewMockStateProducer creates a producer that always returns state.
func NewMockStateProducer(state quantum.StateVector) *MockStateProducer {
	return &MockStateProducer{state: state}
}

// SetError makes every following call fail with err.
func (m *MockStateProducer) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// ProduceState implements the state producer contract.
func (m *MockStateProducer) ProduceState(coefficients []float64) (quantum.StateVector, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := make([]float64, len(coefficients))
	copy(c, coefficients)
	m.calls = append(m.calls, c)
	if m.err != nil {
		return quantum.StateVector{}, m.err
	}
	return m.state, nil
}

// Calls returns the recorded coefficient sets.
func (m *MockStateProducer) Calls() [][]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]float64, len(m.calls))
	copy(out, m.calls)
	return out
}

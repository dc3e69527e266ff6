package hydrogen

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"sort"

	"github.com/aristath/qae/internal/domain"
	"github.com/aristath/qae/internal/modules/quantum"
)

// Sample is one Hamiltonian coefficient set at a given internuclear distance (Å).
type Sample struct {
	Distance     float64   `json:"distance"`
	Coefficients []float64 `json:"coefficients"`
}

// Dataset is an ordered collection of samples, sorted by distance.
type Dataset struct {
	Samples []Sample `json:"samples"`
}

// DefaultDataset holds the single equilibrium sample.
func DefaultDataset() Dataset {
	coeffs := make([]float64, len(EquilibriumCoefficients))
	copy(coeffs, EquilibriumCoefficients)
	return Dataset{Samples: []Sample{{Distance: EquilibriumDistance, Coefficients: coeffs}}}
}

// LoadDataset decodes a JSON dataset and validates every sample.
func LoadDataset(r io.Reader) (Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return Dataset{}, fmt.Errorf("failed to decode dataset: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return Dataset{}, err
	}
	sort.SliceStable(ds.Samples, func(i, j int) bool {
		return ds.Samples[i].Distance < ds.Samples[j].Distance
	})
	return ds, nil
}

// Validate checks sample count and coefficient lengths.
func (d Dataset) Validate() error {
	if len(d.Samples) == 0 {
		return fmt.Errorf("dataset has no samples: %w", domain.ErrInvalidInput)
	}
	for i, s := range d.Samples {
		if len(s.Coefficients) != CoefficientCount {
			return fmt.Errorf("sample %d (r=%g) has %d coefficients, want %d: %w",
				i, s.Distance, len(s.Coefficients), CoefficientCount, domain.ErrInvalidInput)
		}
	}
	return nil
}

// Split shuffles the samples with src and returns train/test sets. The training set
// always holds at least one sample.
func (d Dataset) Split(trainFraction float64, src rand.Source) (train, test Dataset, err error) {
	if trainFraction <= 0 || trainFraction > 1 {
		return Dataset{}, Dataset{}, fmt.Errorf("train fraction %g outside (0, 1]: %w", trainFraction, domain.ErrInvalidInput)
	}
	if err := d.Validate(); err != nil {
		return Dataset{}, Dataset{}, err
	}

	shuffled := make([]Sample, len(d.Samples))
	copy(shuffled, d.Samples)
	rand.New(src).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	n := int(trainFraction * float64(len(shuffled)))
	if n < 1 {
		n = 1
	}
	return Dataset{Samples: shuffled[:n]}, Dataset{Samples: shuffled[n:]}, nil
}

// States produces the input state of every sample.
func (d Dataset) States(p StateProducer) ([]quantum.StateVector, error) {
	states := make([]quantum.StateVector, 0, len(d.Samples))
	for _, s := range d.Samples {
		st, err := p.ProduceState(s.Coefficients)
		if err != nil {
			return nil, fmt.Errorf("sample r=%g: %w", s.Distance, err)
		}
		states = append(states, st)
	}
	return states, nil
}

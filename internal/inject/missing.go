package inject

import (
	"fmt"
	"math/rand"

	"github.com/datavet/vetctl/internal/dataset"
	"github.com/datavet/vetctl/internal/frame"
)

// MissingID blanks out cells so presence checks have something to catch.
const MissingID = "inject.missing"

type missing struct {
	column   string
	count    int
	fraction float64
}

func missingMetadata() Metadata {
	return Metadata{
		ID:          MissingID,
		Name:        "Missing values",
		Description: "Blanks out cells of any column",
	}
}

func newMissing(spec Spec, ds dataset.Spec) (Injector, error) {
	if err := requireColumn(spec, ds, ""); err != nil {
		return nil, err
	}
	fraction := spec.Fraction
	if spec.Count == 0 && fraction == 0 {
		fraction = 0.1
	}
	if fraction < 0 || fraction > 1 {
		return nil, fmt.Errorf("%s: fraction %v outside [0, 1]", MissingID, fraction)
	}
	return &missing{column: spec.Column, count: spec.Count, fraction: fraction}, nil
}

func (m *missing) Metadata() Metadata {
	return missingMetadata()
}

func (m *missing) Apply(f *frame.Frame, rng *rand.Rand) (Report, error) {
	n := f.NumRows()
	count := rowCount(n, m.count, m.fraction)
	for _, row := range pickRows(rng, n, count) {
		if err := f.Set(m.column, row, ""); err != nil {
			return Report{}, err
		}
	}
	return Report{
		Kind:         MissingID,
		Column:       m.column,
		RowsAffected: count,
	}, nil
}

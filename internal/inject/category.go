package inject

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/datavet/vetctl/internal/dataset"
	"github.com/datavet/vetctl/internal/frame"
)

// CategoryID substitutes a value the training domain has never seen.
const CategoryID = "inject.category"

type category struct {
	column   string
	value    string
	count    int
	fraction float64
}

func categoryMetadata() Metadata {
	return Metadata{
		ID:          CategoryID,
		Name:        "Category substitution",
		Description: "Replaces cells of a categorical column with an unseen value",
	}
}

func newCategory(spec Spec, ds dataset.Spec) (Injector, error) {
	if err := requireColumn(spec, ds, dataset.RoleCategorical); err != nil {
		return nil, err
	}
	if strings.TrimSpace(spec.Value) == "" {
		return nil, fmt.Errorf("%s: missing value", CategoryID)
	}
	fraction := spec.Fraction
	if spec.Count == 0 && fraction == 0 {
		fraction = 0.05
	}
	if fraction < 0 || fraction > 1 {
		return nil, fmt.Errorf("%s: fraction %v outside [0, 1]", CategoryID, fraction)
	}
	return &category{column: spec.Column, value: spec.Value, count: spec.Count, fraction: fraction}, nil
}

func (c *category) Metadata() Metadata {
	return categoryMetadata()
}

func (c *category) Apply(f *frame.Frame, rng *rand.Rand) (Report, error) {
	n := f.NumRows()
	count := rowCount(n, c.count, c.fraction)
	for _, row := range pickRows(rng, n, count) {
		if err := f.Set(c.column, row, c.value); err != nil {
			return Report{}, err
		}
	}
	return Report{
		Kind:         CategoryID,
		Column:       c.column,
		RowsAffected: count,
		Note:         fmt.Sprintf("value=%q", c.value),
	}, nil
}

package inject

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/datavet/vetctl/internal/dataset"
	"github.com/datavet/vetctl/internal/frame"
)

// BadTypeID corrupts a numeric column with a non-numeric token.
const BadTypeID = "inject.badtype"

const defaultBadTypeToken = "error"

type badType struct {
	column   string
	token    string
	count    int
	fraction float64
}

func badTypeMetadata() Metadata {
	return Metadata{
		ID:          BadTypeID,
		Name:        "Type corruption",
		Description: "Writes a non-numeric token into cells of a numeric column",
	}
}

func newBadType(spec Spec, ds dataset.Spec) (Injector, error) {
	if err := requireColumn(spec, ds, dataset.RoleNumeric); err != nil {
		return nil, err
	}
	token := spec.Value
	if strings.TrimSpace(token) == "" {
		token = defaultBadTypeToken
	}
	fraction := spec.Fraction
	if spec.Count == 0 && fraction == 0 {
		fraction = 0.1
	}
	if fraction < 0 || fraction > 1 {
		return nil, fmt.Errorf("%s: fraction %v outside [0, 1]", BadTypeID, fraction)
	}
	return &badType{column: spec.Column, token: token, count: spec.Count, fraction: fraction}, nil
}

func (b *badType) Metadata() Metadata {
	return badTypeMetadata()
}

func (b *badType) Apply(f *frame.Frame, rng *rand.Rand) (Report, error) {
	n := f.NumRows()
	count := rowCount(n, b.count, b.fraction)
	for _, row := range pickRows(rng, n, count) {
		if err := f.Set(b.column, row, b.token); err != nil {
			return Report{}, err
		}
	}
	return Report{
		Kind:         BadTypeID,
		Column:       b.column,
		RowsAffected: count,
		Note:         fmt.Sprintf("token=%q", b.token),
	}, nil
}

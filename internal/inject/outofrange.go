package inject

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/datavet/vetctl/internal/dataset"
	"github.com/datavet/vetctl/internal/frame"
)

// RangeID writes numeric cells outside the span the target column holds at
// apply time. A derived value can still land inside bounds inferred from a
// wider split, so steps that must trip a range check set an explicit value.
const RangeID = "inject.range"

type outOfRange struct {
	column string
	// explicit value; when unset the injected value is derived from the
	// column's own span at apply time.
	value    *float64
	count    int
	fraction float64
}

func rangeMetadata() Metadata {
	return Metadata{
		ID:          RangeID,
		Name:        "Out-of-range values",
		Description: "Writes values outside the observed range of a numeric column",
	}
}

func newOutOfRange(spec Spec, ds dataset.Spec) (Injector, error) {
	if err := requireColumn(spec, ds, dataset.RoleNumeric); err != nil {
		return nil, err
	}
	inj := &outOfRange{column: spec.Column, count: spec.Count, fraction: spec.Fraction}
	if raw := strings.TrimSpace(spec.Value); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: value %q is not numeric", RangeID, raw)
		}
		inj.value = &v
	}
	if inj.count == 0 && inj.fraction == 0 {
		inj.count = 5
	}
	if inj.fraction < 0 || inj.fraction > 1 {
		return nil, fmt.Errorf("%s: fraction %v outside [0, 1]", RangeID, inj.fraction)
	}
	return inj, nil
}

func (o *outOfRange) Metadata() Metadata {
	return rangeMetadata()
}

func (o *outOfRange) Apply(f *frame.Frame, rng *rand.Rand) (Report, error) {
	col, ok := f.Column(o.column)
	if !ok {
		return Report{}, fmt.Errorf("%w: %s", frame.ErrUnknownColumn, o.column)
	}

	injected := 0.0
	if o.value != nil {
		injected = *o.value
	} else {
		injected = beyondMax(col)
	}
	cell := strconv.FormatFloat(injected, 'g', -1, 64)

	n := f.NumRows()
	count := rowCount(n, o.count, o.fraction)
	for _, row := range pickRows(rng, n, count) {
		if err := f.Set(o.column, row, cell); err != nil {
			return Report{}, err
		}
	}
	return Report{
		Kind:         RangeID,
		Column:       o.column,
		RowsAffected: count,
		Note:         fmt.Sprintf("value=%s", cell),
	}, nil
}

// beyondMax derives a value above the column's current max by more than
// its span. The span comes from the frame being mutated, not from any
// wider split the schema bounds were inferred from.
func beyondMax(col *frame.Column) float64 {
	lo, hi := 0.0, 0.0
	first := true
	for r, raw := range col.Cells {
		if col.Missing[r] {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		if first {
			lo, hi = v, v
			first = false
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if first {
		return 1
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	return hi + span + 1
}

// Package stats computes per-feature dataset statistics used for schema
// inference and validation.
package stats

import (
	"sort"
	"strconv"

	"github.com/datavet/vetctl/internal/dataset"
	"github.com/datavet/vetctl/internal/frame"
)

// FeatureType is the value type observed in a column's cells.
type FeatureType string

const (
	TypeInt    FeatureType = "INT"
	TypeFloat  FeatureType = "FLOAT"
	TypeString FeatureType = "STRING"
)

// Quantile is one point of a feature's empirical distribution.
type Quantile struct {
	P     float64 `yaml:"p"`
	Value float64 `yaml:"value"`
}

// ValueCount is one categorical value with its frequency.
type ValueCount struct {
	Value string `yaml:"value"`
	Count int    `yaml:"count"`
}

// NumericStats summarizes the valid cells of a numeric feature.
type NumericStats struct {
	Mean      float64    `yaml:"mean"`
	StdDev    float64    `yaml:"std_dev"`
	Min       float64    `yaml:"min"`
	Max       float64    `yaml:"max"`
	Median    float64    `yaml:"median"`
	NumZeros  int        `yaml:"num_zeros"`
	Quantiles []Quantile `yaml:"quantiles"`
}

// CategoricalStats summarizes the present cells of a categorical feature.
// Values carries the full frequency table (count-descending) because schema
// inference derives the domain from it.
type CategoricalStats struct {
	Unique    int          `yaml:"unique"`
	Values    []ValueCount `yaml:"values"`
	AvgLength float64      `yaml:"avg_length"`
}

// Top returns the k most frequent values.
func (c *CategoricalStats) Top(k int) []ValueCount {
	if len(c.Values) <= k {
		return c.Values
	}
	return c.Values[:k]
}

// FeatureStats is the full per-feature summary.
type FeatureStats struct {
	Name          string            `yaml:"name"`
	Type          FeatureType       `yaml:"type"`
	NumNonMissing int               `yaml:"num_non_missing"`
	NumMissing    int               `yaml:"num_missing"`
	NumInvalid    int               `yaml:"num_invalid"`
	Numeric       *NumericStats     `yaml:"numeric,omitempty"`
	Categorical   *CategoricalStats `yaml:"categorical,omitempty"`
}

// DatasetStats is the per-split statistics artifact.
type DatasetStats struct {
	NumExamples int            `yaml:"num_examples"`
	Features    []FeatureStats `yaml:"features"`
}

// Feature resolves a feature summary by name.
func (d DatasetStats) Feature(name string) (FeatureStats, bool) {
	for _, f := range d.Features {
		if f.Name == name {
			return f, true
		}
	}
	return FeatureStats{}, false
}

// TopValueCount is how many categorical values reports display.
const TopValueCount = 10

var quantilePoints = []float64{25, 50, 75, 90, 99}

// Generate computes statistics for every roster column, in roster order.
func Generate(f *frame.Frame) DatasetStats {
	out := DatasetStats{
		NumExamples: f.NumRows(),
		Features:    make([]FeatureStats, 0, f.NumColumns()),
	}
	for i := 0; i < f.NumColumns(); i++ {
		col := f.ColumnAt(i)
		if col.Role == dataset.RoleNumeric {
			out.Features = append(out.Features, numericFeature(col))
		} else {
			out.Features = append(out.Features, categoricalFeature(col))
		}
	}
	return out
}

func numericFeature(col *frame.Column) FeatureStats {
	values := make([]float64, 0, len(col.Cells))
	missing := 0
	invalid := 0
	allInt := true
	for r, cell := range col.Cells {
		if col.Missing[r] {
			missing++
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			invalid++
			continue
		}
		if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
			allInt = false
		}
		values = append(values, v)
	}

	ftype := TypeInt
	if !allInt {
		ftype = TypeFloat
	}
	if len(values) == 0 && invalid > 0 {
		// Nothing numeric survived; the column reads as text.
		ftype = TypeString
	}

	fs := FeatureStats{
		Name:          col.Name,
		Type:          ftype,
		NumNonMissing: len(values) + invalid,
		NumMissing:    missing,
		NumInvalid:    invalid,
		Numeric:       &NumericStats{Quantiles: make([]Quantile, 0, len(quantilePoints))},
	}
	if len(values) == 0 {
		for _, p := range quantilePoints {
			fs.Numeric.Quantiles = append(fs.Numeric.Quantiles, Quantile{P: p})
		}
		return fs
	}

	fs.Numeric.Mean = mean(values)
	fs.Numeric.StdDev = stdDev(values)
	fs.Numeric.Min, fs.Numeric.Max = minMax(values)
	for _, v := range values {
		if v == 0 {
			fs.Numeric.NumZeros++
		}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	fs.Numeric.Median = medianSorted(sorted)
	for _, p := range quantilePoints {
		fs.Numeric.Quantiles = append(fs.Numeric.Quantiles, Quantile{P: p, Value: percentileSorted(sorted, p)})
	}
	return fs
}

func categoricalFeature(col *frame.Column) FeatureStats {
	counts := make(map[string]int)
	missing := 0
	present := 0
	totalLen := 0
	for r, cell := range col.Cells {
		if col.Missing[r] {
			missing++
			continue
		}
		present++
		totalLen += len(cell)
		counts[cell]++
	}

	cs := &CategoricalStats{Unique: len(counts)}
	if present > 0 {
		cs.AvgLength = float64(totalLen) / float64(present)
	}
	cs.Values = sortedValueCounts(counts)

	return FeatureStats{
		Name:          col.Name,
		Type:          TypeString,
		NumNonMissing: present,
		NumMissing:    missing,
		Categorical:   cs,
	}
}

// sortedValueCounts orders by descending count, then ascending value for
// stable artifacts.
func sortedValueCounts(counts map[string]int) []ValueCount {
	all := make([]ValueCount, 0, len(counts))
	for v, c := range counts {
		all = append(all, ValueCount{Value: v, Count: c})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Count != all[j].Count {
			return all[i].Count > all[j].Count
		}
		return all[i].Value < all[j].Value
	})
	return all
}

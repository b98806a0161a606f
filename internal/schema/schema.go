// Package schema infers a dataset schema from training statistics and
// validates evaluation statistics against it.
package schema

import (
	"sort"

	"github.com/datavet/vetctl/internal/stats"
)

// Options tunes inference and validation thresholds.
type Options struct {
	// MinPresence caps the required non-missing fraction recorded per
	// feature; the inferred presence never exceeds what train data showed.
	MinPresence float64
	// DomainSlack is the off-domain frequency a categorical feature may
	// carry before it is flagged. Zero flags any unseen value.
	DomainSlack float64
	// InferBounds records observed train min/max for numeric features so
	// range violations are detectable without hand-editing the schema.
	InferBounds bool
}

func DefaultOptions() Options {
	return Options{
		MinPresence: 0.9,
		DomainSlack: 0,
		InferBounds: true,
	}
}

// Domain is the closed value set of a categorical feature.
type Domain struct {
	Values []string `yaml:"values"`
}

// Bounds is the accepted value range of a numeric feature.
type Bounds struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Feature is one schema entry.
type Feature struct {
	Name     string            `yaml:"name"`
	Type     stats.FeatureType `yaml:"type"`
	Presence float64           `yaml:"presence"`
	Domain   *Domain           `yaml:"domain,omitempty"`
	Bounds   *Bounds           `yaml:"bounds,omitempty"`
}

// Schema is the inferred contract a split must satisfy.
type Schema struct {
	Dataset  string    `yaml:"dataset"`
	Features []Feature `yaml:"features"`
}

// Feature resolves a schema entry by name.
func (s Schema) Feature(name string) (Feature, bool) {
	for _, f := range s.Features {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}

// Infer builds a schema from training statistics: observed type, presence
// floor, categorical domains, and (optionally) numeric bounds.
func Infer(train stats.DatasetStats, datasetName string, opts Options) Schema {
	out := Schema{
		Dataset:  datasetName,
		Features: make([]Feature, 0, len(train.Features)),
	}
	for _, fs := range train.Features {
		feat := Feature{
			Name:     fs.Name,
			Type:     fs.Type,
			Presence: inferPresence(fs, opts.MinPresence),
		}
		if fs.Categorical != nil {
			feat.Domain = inferDomain(fs.Categorical)
		}
		if fs.Numeric != nil && opts.InferBounds && validNumericCount(fs) > 0 {
			feat.Bounds = &Bounds{Min: fs.Numeric.Min, Max: fs.Numeric.Max}
		}
		out.Features = append(out.Features, feat)
	}
	return out
}

func inferPresence(fs stats.FeatureStats, minPresence float64) float64 {
	total := fs.NumNonMissing + fs.NumMissing
	if total == 0 {
		return 0
	}
	observed := float64(fs.NumNonMissing) / float64(total)
	if observed > minPresence {
		return minPresence
	}
	return observed
}

func inferDomain(cs *stats.CategoricalStats) *Domain {
	values := make([]string, 0, len(cs.Values))
	for _, vc := range cs.Values {
		values = append(values, vc.Value)
	}
	sort.Strings(values)
	return &Domain{Values: values}
}

func validNumericCount(fs stats.FeatureStats) int {
	return fs.NumNonMissing - fs.NumInvalid
}

package schema

import (
	"fmt"
	"strings"

	"github.com/datavet/vetctl/internal/stats"
)

// Code identifies one class of schema violation.
type Code string

const (
	CodeNewColumn         Code = "SCHEMA_NEW_COLUMN"
	CodeColumnDropped     Code = "COLUMN_DROPPED"
	CodeTypeMismatch      Code = "FEATURE_TYPE_MISMATCH"
	CodePresenceViolation Code = "PRESENCE_VIOLATION"
	CodeUnexpectedValues  Code = "CATEGORY_UNEXPECTED_VALUES"
	CodeOutOfRange        Code = "VALUE_OUT_OF_RANGE"
	CodeInvalidValues     Code = "INVALID_VALUES"
)

// Anomaly is one detected violation with a human-readable description.
type Anomaly struct {
	Feature     string `yaml:"feature"`
	Code        Code   `yaml:"code"`
	Description string `yaml:"description"`
}

// Anomalies is the validation artifact; it is written even when empty.
type Anomalies struct {
	Items []Anomaly `yaml:"anomalies"`
}

func (a Anomalies) Empty() bool {
	return len(a.Items) == 0
}

// exampleValueCount caps how many offending values a description lists.
const exampleValueCount = 5

// Validate checks evaluation statistics against the schema. Anomalies are
// ordered by the stats feature order (checks in a fixed sequence per
// feature), with dropped schema columns reported last.
func Validate(eval stats.DatasetStats, sch Schema, opts Options) Anomalies {
	var out Anomalies

	seen := make(map[string]struct{}, len(eval.Features))
	for _, fs := range eval.Features {
		seen[fs.Name] = struct{}{}
		feat, ok := sch.Feature(fs.Name)
		if !ok {
			out.Items = append(out.Items, Anomaly{
				Feature:     fs.Name,
				Code:        CodeNewColumn,
				Description: "column is not in the schema",
			})
			continue
		}
		out.Items = append(out.Items, checkFeature(fs, feat, opts)...)
	}

	for _, feat := range sch.Features {
		if _, ok := seen[feat.Name]; ok {
			continue
		}
		out.Items = append(out.Items, Anomaly{
			Feature:     feat.Name,
			Code:        CodeColumnDropped,
			Description: "schema column is missing from the data",
		})
	}
	return out
}

func checkFeature(fs stats.FeatureStats, feat Feature, opts Options) []Anomaly {
	var found []Anomaly

	if !typeCompatible(fs.Type, feat.Type) {
		found = append(found, Anomaly{
			Feature:     fs.Name,
			Code:        CodeTypeMismatch,
			Description: fmt.Sprintf("expected %s, data is %s", feat.Type, fs.Type),
		})
	}

	if a, ok := checkPresence(fs, feat); ok {
		found = append(found, a)
	}

	if fs.NumInvalid > 0 && feat.Type != stats.TypeString {
		found = append(found, Anomaly{
			Feature:     fs.Name,
			Code:        CodeInvalidValues,
			Description: fmt.Sprintf("%d non-numeric values in a %s column", fs.NumInvalid, feat.Type),
		})
	}

	if feat.Domain != nil && fs.Categorical != nil {
		if a, ok := checkDomain(fs, feat, opts.DomainSlack); ok {
			found = append(found, a)
		}
	}

	if feat.Bounds != nil && fs.Numeric != nil && fs.NumNonMissing-fs.NumInvalid > 0 {
		if a, ok := checkBounds(fs, feat); ok {
			found = append(found, a)
		}
	}
	return found
}

// typeCompatible accepts exact matches and lets INT data satisfy a FLOAT
// schema. Everything else is a mismatch.
func typeCompatible(observed, expected stats.FeatureType) bool {
	if observed == expected {
		return true
	}
	return observed == stats.TypeInt && expected == stats.TypeFloat
}

func checkPresence(fs stats.FeatureStats, feat Feature) (Anomaly, bool) {
	total := fs.NumNonMissing + fs.NumMissing
	if total == 0 {
		return Anomaly{}, false
	}
	observed := float64(fs.NumNonMissing) / float64(total)
	if observed >= feat.Presence {
		return Anomaly{}, false
	}
	return Anomaly{
		Feature:     fs.Name,
		Code:        CodePresenceViolation,
		Description: fmt.Sprintf("present in %.4f of examples, schema requires %.4f", observed, feat.Presence),
	}, true
}

func checkDomain(fs stats.FeatureStats, feat Feature, slack float64) (Anomaly, bool) {
	domain := make(map[string]struct{}, len(feat.Domain.Values))
	for _, v := range feat.Domain.Values {
		domain[v] = struct{}{}
	}

	offCount := 0
	var examples []string
	for _, vc := range fs.Categorical.Values {
		if _, ok := domain[vc.Value]; ok {
			continue
		}
		offCount += vc.Count
		if len(examples) < exampleValueCount {
			examples = append(examples, vc.Value)
		}
	}
	if offCount == 0 || fs.NumNonMissing == 0 {
		return Anomaly{}, false
	}
	offFraction := float64(offCount) / float64(fs.NumNonMissing)
	if offFraction <= slack {
		return Anomaly{}, false
	}
	return Anomaly{
		Feature: fs.Name,
		Code:    CodeUnexpectedValues,
		Description: fmt.Sprintf("values missing from the domain (%.4f of examples): %s",
			offFraction, strings.Join(examples, ", ")),
	}, true
}

func checkBounds(fs stats.FeatureStats, feat Feature) (Anomaly, bool) {
	num := fs.Numeric
	if num.Min >= feat.Bounds.Min && num.Max <= feat.Bounds.Max {
		return Anomaly{}, false
	}
	return Anomaly{
		Feature: fs.Name,
		Code:    CodeOutOfRange,
		Description: fmt.Sprintf("observed range [%g, %g] outside schema bounds [%g, %g]",
			num.Min, num.Max, feat.Bounds.Min, feat.Bounds.Max),
	}, true
}

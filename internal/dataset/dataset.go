// Package dataset declares the column roster the pipeline validates against.
package dataset

import (
	"fmt"
	"strings"
)

// Role classifies how a column is interpreted by statistics and schema
// inference.
type Role string

const (
	RoleNumeric     Role = "numeric"
	RoleCategorical Role = "categorical"
)

// Spec is the fixed roster for one tabular dataset: ordered column names
// plus the numeric/categorical partition and the tokens treated as missing.
type Spec struct {
	Name        string
	Columns     []string
	Numeric     []string
	Categorical []string
	NAValues    []string
	Label       string
}

// Adult returns the built-in roster for the UCI Adult census CSV
// (header-less, 15 columns, `?` as the missing marker).
func Adult() Spec {
	return Spec{
		Name: "adult",
		Columns: []string{
			"age",
			"workclass",
			"fnlwgt",
			"education",
			"education-num",
			"marital-status",
			"occupation",
			"relationship",
			"race",
			"sex",
			"capital-gain",
			"capital-loss",
			"hours-per-week",
			"native-country",
			"label",
		},
		Numeric: []string{
			"age",
			"fnlwgt",
			"education-num",
			"capital-gain",
			"capital-loss",
			"hours-per-week",
		},
		Categorical: []string{
			"workclass",
			"education",
			"marital-status",
			"occupation",
			"relationship",
			"race",
			"sex",
			"native-country",
			"label",
		},
		NAValues: []string{"?"},
		Label:    "label",
	}
}

// Validate checks roster consistency: unique declared columns, every
// numeric/categorical name declared, no column in both partitions, and the
// label (when set) declared.
func Validate(spec Spec) error {
	if strings.TrimSpace(spec.Name) == "" {
		return fmt.Errorf("dataset spec missing name")
	}
	if len(spec.Columns) == 0 {
		return fmt.Errorf("dataset %q declares no columns", spec.Name)
	}

	declared := make(map[string]struct{}, len(spec.Columns))
	for _, col := range spec.Columns {
		name := strings.TrimSpace(col)
		if name == "" {
			return fmt.Errorf("dataset %q has an empty column name", spec.Name)
		}
		if _, ok := declared[name]; ok {
			return fmt.Errorf("dataset %q declares column %q twice", spec.Name, name)
		}
		declared[name] = struct{}{}
	}

	roles := make(map[string]Role, len(spec.Numeric)+len(spec.Categorical))
	for _, col := range spec.Numeric {
		if _, ok := declared[col]; !ok {
			return fmt.Errorf("dataset %q numeric column %q is not declared", spec.Name, col)
		}
		roles[col] = RoleNumeric
	}
	for _, col := range spec.Categorical {
		if _, ok := declared[col]; !ok {
			return fmt.Errorf("dataset %q categorical column %q is not declared", spec.Name, col)
		}
		if roles[col] == RoleNumeric {
			return fmt.Errorf("dataset %q column %q is both numeric and categorical", spec.Name, col)
		}
		roles[col] = RoleCategorical
	}

	if spec.Label != "" {
		if _, ok := declared[spec.Label]; !ok {
			return fmt.Errorf("dataset %q label column %q is not declared", spec.Name, spec.Label)
		}
	}
	return nil
}

// RoleOf returns the declared role for a column; columns outside both
// partitions default to categorical.
func (s Spec) RoleOf(column string) Role {
	for _, col := range s.Numeric {
		if col == column {
			return RoleNumeric
		}
	}
	return RoleCategorical
}

// IsNA reports whether a trimmed cell value is one of the missing markers.
func (s Spec) IsNA(value string) bool {
	if value == "" {
		return true
	}
	for _, na := range s.NAValues {
		if value == na {
			return true
		}
	}
	return false
}

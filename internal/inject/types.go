// Package inject corrupts evaluation data on purpose so the validator has
// something to find.
package inject

import (
	"math"
	"math/rand"
	"sort"

	"github.com/datavet/vetctl/internal/frame"
)

// Metadata is the contract for injector identity and display data.
type Metadata struct {
	ID          string
	Name        string
	Description string
}

// Spec is one configured injection step.
type Spec struct {
	Kind     string
	Column   string
	Value    string
	Count    int
	Fraction float64
}

// Report records what one injector actually changed.
type Report struct {
	Kind         string `json:"kind" yaml:"kind"`
	Column       string `json:"column" yaml:"column"`
	RowsAffected int    `json:"rows_affected" yaml:"rows_affected"`
	Note         string `json:"note,omitempty" yaml:"note,omitempty"`
}

// Injector mutates a frame in place using the supplied source of
// randomness.
type Injector interface {
	Metadata() Metadata
	Apply(f *frame.Frame, rng *rand.Rand) (Report, error)
}

// pickRows selects count distinct row indices, ascending.
func pickRows(rng *rand.Rand, n, count int) []int {
	if count > n {
		count = n
	}
	rows := rng.Perm(n)[:count]
	sort.Ints(rows)
	return rows
}

// rowCount resolves an explicit count or a fraction of n, at least one row
// when the frame is non-empty.
func rowCount(n, count int, fraction float64) int {
	if n == 0 {
		return 0
	}
	if count > 0 {
		if count > n {
			return n
		}
		return count
	}
	c := int(math.Round(fraction * float64(n)))
	if c < 1 {
		c = 1
	}
	if c > n {
		c = n
	}
	return c
}

package frame

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/datavet/vetctl/internal/testutil/testlog"
)

func tenRowFrame(t *testing.T) *Frame {
	t.Helper()
	f := New(toySpec())
	for i := 0; i < 10; i++ {
		mustAppend(t, f, []string{strconv.Itoa(i), "oslo", "1"})
	}
	return f
}

func TestSplitSizesAndCoverage(t *testing.T) {
	testlog.Start(t)
	f := tenRowFrame(t)

	train, eval, err := f.Split(0.2, 42)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if train.NumRows() != 8 || eval.NumRows() != 2 {
		t.Fatalf("sizes: got train=%d eval=%d want 8/2", train.NumRows(), eval.NumRows())
	}

	seen := make(map[string]int)
	for _, part := range []*Frame{train, eval} {
		age, _ := part.Column("age")
		for _, cell := range age.Cells {
			seen[cell]++
		}
	}
	if len(seen) != 10 {
		t.Fatalf("splits must cover all rows exactly once: got=%d distinct", len(seen))
	}
	for cell, n := range seen {
		if n != 1 {
			t.Fatalf("row %s appears %d times", cell, n)
		}
	}
}

func TestSplitDeterministicPerSeed(t *testing.T) {
	testlog.Start(t)
	f := tenRowFrame(t)

	_, evalA, err := f.Split(0.3, 7)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	_, evalB, err := f.Split(0.3, 7)
	if err != nil {
		t.Fatalf("split: %v", err)
	}

	agesA, _ := evalA.Column("age")
	agesB, _ := evalB.Column("age")
	if diff := cmp.Diff(agesA.Cells, agesB.Cells); diff != "" {
		t.Fatalf("same seed must give same eval rows (-a +b):\n%s", diff)
	}
}

func TestSplitFractionBounds(t *testing.T) {
	testlog.Start(t)
	f := tenRowFrame(t)
	for _, fraction := range []float64{0, 1, -0.5, 1.5} {
		if _, _, err := f.Split(fraction, 1); err == nil {
			t.Fatalf("fraction %v must be rejected", fraction)
		}
	}
}

package frame

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/datavet/vetctl/internal/dataset"
	"github.com/datavet/vetctl/internal/testutil/testlog"
)

func toySpec() dataset.Spec {
	return dataset.Spec{
		Name:        "toy",
		Columns:     []string{"age", "city", "score"},
		Numeric:     []string{"age", "score"},
		Categorical: []string{"city"},
		NAValues:    []string{"?"},
	}
}

func mustAppend(t *testing.T, f *Frame, rows ...[]string) {
	t.Helper()
	for _, row := range rows {
		if err := f.AppendRow(row); err != nil {
			t.Fatalf("append row: %v", err)
		}
	}
}

func TestAppendRowAndMissingFlags(t *testing.T) {
	testlog.Start(t)
	f := New(toySpec())
	mustAppend(t, f,
		[]string{"39", "oslo", "7.5"},
		[]string{"?", "bergen", ""},
	)

	if f.NumRows() != 2 || f.NumColumns() != 3 {
		t.Fatalf("shape: got=%dx%d want=2x3", f.NumRows(), f.NumColumns())
	}
	age, ok := f.Column("age")
	if !ok {
		t.Fatalf("age column missing")
	}
	wantMissing := []bool{false, true}
	if diff := cmp.Diff(wantMissing, age.Missing); diff != "" {
		t.Fatalf("age missing flags mismatch (-want +got):\n%s", diff)
	}
	score, _ := f.Column("score")
	if !score.Missing[1] {
		t.Fatalf("empty cell must be missing")
	}
}

func TestAppendRowWrongWidth(t *testing.T) {
	testlog.Start(t)
	f := New(toySpec())
	if err := f.AppendRow([]string{"39", "oslo"}); err == nil {
		t.Fatalf("expected error for short row")
	}
}

func TestSetRefreshesMissing(t *testing.T) {
	testlog.Start(t)
	f := New(toySpec())
	mustAppend(t, f, []string{"39", "oslo", "7.5"})

	if err := f.Set("city", 0, "?"); err != nil {
		t.Fatalf("set: %v", err)
	}
	city, _ := f.Column("city")
	if !city.Missing[0] {
		t.Fatalf("NA marker must flip the missing flag")
	}

	if err := f.Set("nope", 0, "x"); err == nil {
		t.Fatalf("expected unknown column error")
	}
	if err := f.Set("city", 9, "x"); err == nil {
		t.Fatalf("expected row out of range error")
	}
}

func TestCoerceCanonicalizesAndCounts(t *testing.T) {
	testlog.Start(t)
	f := New(toySpec())
	mustAppend(t, f,
		[]string{"039", "oslo", "7.50"},
		[]string{"oops", "bergen", "2"},
		[]string{"?", "oslo", "3"},
	)

	invalid := f.Coerce()
	want := map[string]int{"age": 1}
	if diff := cmp.Diff(want, invalid); diff != "" {
		t.Fatalf("invalid counts mismatch (-want +got):\n%s", diff)
	}

	age, _ := f.Column("age")
	if age.Cells[0] != "39" {
		t.Fatalf("canonical form: got=%q want=%q", age.Cells[0], "39")
	}
	if age.Cells[1] != "oops" {
		t.Fatalf("invalid cell must stay in place: got=%q", age.Cells[1])
	}
	score, _ := f.Column("score")
	if score.Cells[0] != "7.5" {
		t.Fatalf("canonical float: got=%q want=%q", score.Cells[0], "7.5")
	}
}

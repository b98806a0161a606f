package dataset

import (
	"strings"
	"testing"

	"github.com/datavet/vetctl/internal/testutil/testlog"
)

func TestAdultSpecIsValid(t *testing.T) {
	testlog.Start(t)
	spec := Adult()
	if err := Validate(spec); err != nil {
		t.Fatalf("adult spec invalid: %v", err)
	}
	if len(spec.Columns) != 15 {
		t.Fatalf("adult columns: got=%d want=15", len(spec.Columns))
	}
	if len(spec.Numeric)+len(spec.Categorical) != len(spec.Columns) {
		t.Fatalf("adult roles do not cover all columns")
	}
}

func TestValidateFailures(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name string
		spec Spec
		want string
	}{
		{
			name: "missing name",
			spec: Spec{Columns: []string{"a"}},
			want: "missing name",
		},
		{
			name: "no columns",
			spec: Spec{Name: "x"},
			want: "declares no columns",
		},
		{
			name: "duplicate column",
			spec: Spec{Name: "x", Columns: []string{"a", "a"}},
			want: "twice",
		},
		{
			name: "undeclared numeric",
			spec: Spec{Name: "x", Columns: []string{"a"}, Numeric: []string{"b"}},
			want: "not declared",
		},
		{
			name: "both roles",
			spec: Spec{Name: "x", Columns: []string{"a"}, Numeric: []string{"a"}, Categorical: []string{"a"}},
			want: "both numeric and categorical",
		},
		{
			name: "undeclared label",
			spec: Spec{Name: "x", Columns: []string{"a"}, Label: "y"},
			want: "label",
		},
	}
	for _, tc := range cases {
		err := Validate(tc.spec)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: got=%v want substring %q", tc.name, err, tc.want)
		}
	}
}

func TestRoleOfAndIsNA(t *testing.T) {
	testlog.Start(t)
	spec := Adult()
	if got := spec.RoleOf("age"); got != RoleNumeric {
		t.Fatalf("age role: got=%s want=%s", got, RoleNumeric)
	}
	if got := spec.RoleOf("workclass"); got != RoleCategorical {
		t.Fatalf("workclass role: got=%s want=%s", got, RoleCategorical)
	}
	if !spec.IsNA("?") || !spec.IsNA("") {
		t.Fatalf("expected ? and empty to be missing markers")
	}
	if spec.IsNA("Private") {
		t.Fatalf("Private must not be a missing marker")
	}
}

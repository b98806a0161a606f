package inject

import (
	"errors"
	"reflect"
	"testing"

	"github.com/datavet/vetctl/internal/dataset"
	"github.com/datavet/vetctl/internal/testutil/testlog"
)

func fakeFactory(spec Spec, ds dataset.Spec) (Injector, error) {
	return nil, nil
}

func TestRegisterResolveAndDuplicate(t *testing.T) {
	testlog.Start(t)
	r := NewRegistry()
	meta := Metadata{ID: "inject.fake", Name: "Fake", Description: "Deterministic fake injector"}

	if err := r.Register(meta, fakeFactory); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register(meta, fakeFactory); !errors.Is(err, ErrInjectorExists) {
		t.Fatalf("expected ErrInjectorExists, got %v", err)
	}
	if _, ok := r.Resolve("inject.fake"); !ok {
		t.Fatalf("resolve failed")
	}
	if _, ok := r.Resolve("fake"); !ok {
		t.Fatalf("short kind must resolve with inject. prefix")
	}
}

func TestResolveMissingKind(t *testing.T) {
	testlog.Start(t)
	r := NewRegistry()
	if _, ok := r.Resolve("inject.missing-kind"); ok {
		t.Fatalf("expected missing kind to return ok=false")
	}
}

func TestListMetadataSorted(t *testing.T) {
	testlog.Start(t)
	r := NewRegistry()
	_ = r.Register(Metadata{ID: "inject.z", Name: "Z", Description: "z"}, fakeFactory)
	_ = r.Register(Metadata{ID: "inject.a", Name: "A", Description: "a"}, fakeFactory)
	_ = r.Register(Metadata{ID: "inject.m", Name: "M", Description: "m"}, fakeFactory)

	list := r.ListMetadata()
	ids := []string{list[0].ID, list[1].ID, list[2].ID}
	want := []string{"inject.a", "inject.m", "inject.z"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("metadata not sorted: got=%v want=%v", ids, want)
	}
}

func TestValidateMetadataFailures(t *testing.T) {
	testlog.Start(t)
	cases := []Metadata{
		{ID: "", Name: "Fake", Description: "x"},
		{ID: "inject.fake", Name: "", Description: "x"},
		{ID: "inject.fake", Name: "Fake", Description: ""},
		{ID: "Inject.Fake", Name: "Fake", Description: "x"},
		{ID: ".inject.fake", Name: "Fake", Description: "x"},
		{ID: "inject..fake", Name: "Fake", Description: "x"},
	}
	for _, meta := range cases {
		if err := ValidateMetadata(meta); !errors.Is(err, ErrInvalidMetadata) {
			t.Fatalf("expected ErrInvalidMetadata for meta=%+v, got %v", meta, err)
		}
	}
}

func TestRegisterNilFactory(t *testing.T) {
	testlog.Start(t)
	r := NewRegistry()
	meta := Metadata{ID: "inject.fake", Name: "Fake", Description: "x"}
	if err := r.Register(meta, nil); !errors.Is(err, ErrFactoryNil) {
		t.Fatalf("expected ErrFactoryNil, got %v", err)
	}
}

func TestBuiltinRegistryHasStockInjectors(t *testing.T) {
	testlog.Start(t)
	r := Builtin()
	for _, kind := range []string{BadTypeID, CategoryID, MissingID, RangeID} {
		if _, ok := r.Resolve(kind); !ok {
			t.Fatalf("builtin %s missing", kind)
		}
	}
}

func TestBuildUnknownKind(t *testing.T) {
	testlog.Start(t)
	r := Builtin()
	_, err := r.Build([]Spec{{Kind: "inject.nope", Column: "age"}}, testSpec())
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestBuildRoleMismatch(t *testing.T) {
	testlog.Start(t)
	r := Builtin()
	cases := []Spec{
		{Kind: BadTypeID, Column: "city"},            // badtype needs numeric
		{Kind: CategoryID, Column: "age", Value: "x"}, // category needs categorical
		{Kind: RangeID, Column: "city"},              // range needs numeric
		{Kind: MissingID, Column: "ghost"},           // unknown column
	}
	for _, spec := range cases {
		if _, err := r.Build([]Spec{spec}, testSpec()); err == nil {
			t.Fatalf("expected error for spec %+v", spec)
		}
	}
}

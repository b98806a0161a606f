package inject

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/datavet/vetctl/internal/dataset"
)

var (
	ErrInjectorExists  = errors.New("injector already exists")
	ErrFactoryNil      = errors.New("injector factory is nil")
	ErrInvalidMetadata = errors.New("invalid injector metadata")
	ErrUnknownKind     = errors.New("unknown injector kind")
)

// Factory builds an injector from one configured step, validated against
// the dataset roster.
type Factory func(spec Spec, ds dataset.Spec) (Injector, error)

type entry struct {
	meta  Metadata
	build Factory
}

// Registry stores injector factories by stable kind identifier.
type Registry struct {
	items map[string]entry
}

// NewRegistry creates an empty injector registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]entry)}
}

// Builtin returns a registry preloaded with the stock injectors.
func Builtin() *Registry {
	r := NewRegistry()
	mustRegister := func(meta Metadata, build Factory) {
		if err := r.Register(meta, build); err != nil {
			panic(err)
		}
	}
	mustRegister(badTypeMetadata(), newBadType)
	mustRegister(categoryMetadata(), newCategory)
	mustRegister(missingMetadata(), newMissing)
	mustRegister(rangeMetadata(), newOutOfRange)
	return r
}

// ValidateMetadata checks required metadata fields and id format.
func ValidateMetadata(meta Metadata) error {
	id := strings.TrimSpace(meta.ID)
	name := strings.TrimSpace(meta.Name)
	desc := strings.TrimSpace(meta.Description)
	if id == "" || name == "" || desc == "" {
		return fmt.Errorf("%w: id, name, and description are required", ErrInvalidMetadata)
	}
	if !isValidID(id) {
		return fmt.Errorf("%w: invalid id format %q", ErrInvalidMetadata, id)
	}
	return nil
}

// Register adds an injector factory to the registry.
func (r *Registry) Register(meta Metadata, build Factory) error {
	if build == nil {
		return ErrFactoryNil
	}
	if err := ValidateMetadata(meta); err != nil {
		return err
	}
	if _, ok := r.items[meta.ID]; ok {
		return ErrInjectorExists
	}
	r.items[meta.ID] = entry{meta: meta, build: build}
	return nil
}

// Resolve returns a factory by kind. Short kinds resolve with the
// "inject." prefix applied (so "badtype" finds "inject.badtype").
func (r *Registry) Resolve(kind string) (Factory, bool) {
	id := strings.TrimSpace(kind)
	if e, ok := r.items[id]; ok {
		return e.build, true
	}
	if e, ok := r.items["inject."+id]; ok {
		return e.build, true
	}
	return nil, false
}

// ListMetadata returns deterministic metadata ordering by id.
func (r *Registry) ListMetadata() []Metadata {
	list := make([]Metadata, 0, len(r.items))
	for _, e := range r.items {
		list = append(list, e.meta)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list
}

// Build resolves every configured step into an injector, preserving order.
func (r *Registry) Build(specs []Spec, ds dataset.Spec) ([]Injector, error) {
	out := make([]Injector, 0, len(specs))
	for i, spec := range specs {
		factory, ok := r.Resolve(spec.Kind)
		if !ok {
			return nil, fmt.Errorf("inject[%d]: %w: %s", i, ErrUnknownKind, spec.Kind)
		}
		inj, err := factory(spec, ds)
		if err != nil {
			return nil, fmt.Errorf("inject[%d]: %w", i, err)
		}
		out = append(out, inj)
	}
	return out, nil
}

func isValidID(id string) bool {
	if id == "" {
		return false
	}
	lastSep := false
	for i := 0; i < len(id); i++ {
		c := id[i]
		isLower := c >= 'a' && c <= 'z'
		isDigit := c >= '0' && c <= '9'
		isSep := c == '.' || c == '-' || c == '_'
		if !(isLower || isDigit || isSep) {
			return false
		}
		if i == 0 || i == len(id)-1 {
			if isSep {
				return false
			}
		}
		if isSep && lastSep {
			return false
		}
		lastSep = isSep
	}
	return true
}

// requireColumn checks the target column exists and has the expected role.
func requireColumn(spec Spec, ds dataset.Spec, want dataset.Role) error {
	column := strings.TrimSpace(spec.Column)
	if column == "" {
		return fmt.Errorf("%s: missing column", spec.Kind)
	}
	declared := false
	for _, col := range ds.Columns {
		if col == column {
			declared = true
			break
		}
	}
	if !declared {
		return fmt.Errorf("%s: column %q is not in dataset %q", spec.Kind, column, ds.Name)
	}
	if want != "" && ds.RoleOf(column) != want {
		return fmt.Errorf("%s: column %q is not %s", spec.Kind, column, want)
	}
	return nil
}

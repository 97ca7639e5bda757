package types

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// Variant describes one record kind: how to build a fresh record and how
// to rehydrate one from a field map.
type Variant struct {
	Kind       string
	New        func() Record
	FromFields func(Fields) (Record, error)
}

// VariantOf builds a Variant from a typed constructor.
func VariantOf[P Record](kind string, newFn func() P) Variant {
	return Variant{
		Kind: kind,
		New:  func() Record { return newFn() },
		FromFields: func(fields Fields) (Record, error) {
			r, err := FromFields(newFn, fields)
			if err != nil {
				return nil, err
			}
			return r, nil
		},
	}
}

// Registry maps kind names to variants. Names match exactly and are
// case-sensitive. A Registry is filled once at start-up and only read
// afterwards.
type Registry struct {
	variants map[string]Variant
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{variants: make(map[string]Variant)}
}

// DefaultRegistry returns a Registry holding every built-in variant.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(VariantOf(KindBaseModel, NewBaseModel))
	r.Register(VariantOf(KindUser, NewUser))
	r.Register(VariantOf(KindState, NewState))
	r.Register(VariantOf(KindCity, NewCity))
	r.Register(VariantOf(KindAmenity, NewAmenity))
	r.Register(VariantOf(KindPlace, NewPlace))
	r.Register(VariantOf(KindReview, NewReview))
	return r
}

// Register adds v, replacing any variant of the same kind.
func (r *Registry) Register(v Variant) {
	r.variants[v.Kind] = v
}

// Lookup returns the variant for kind, or ErrUnknownKind.
func (r *Registry) Lookup(kind string) (Variant, error) {
	v, ok := r.variants[kind]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return v, nil
}

// Has reports whether kind is registered.
func (r *Registry) Has(kind string) bool {
	_, ok := r.variants[kind]
	return ok
}

// New returns a fresh record of the given kind.
func (r *Registry) New(kind string) (Record, error) {
	v, err := r.Lookup(kind)
	if err != nil {
		return nil, err
	}
	return v.New(), nil
}

// Rehydrate rebuilds a record of the given kind from fields. No record is
// constructed when the kind is unknown.
func (r *Registry) Rehydrate(kind string, fields Fields) (Record, error) {
	v, err := r.Lookup(kind)
	if err != nil {
		return nil, err
	}
	rec, err := v.FromFields(fields)
	if err != nil {
		return nil, fmt.Errorf("rehydrating %s: %w", kind, err)
	}
	return rec, nil
}

// Kinds returns the registered kind names in sorted order.
func (r *Registry) Kinds() []string {
	kinds := lo.Keys(r.variants)
	slices.Sort(kinds)
	return kinds
}

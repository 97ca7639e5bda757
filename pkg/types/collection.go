package types

import (
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// Collection maps composite keys to serialized field maps. It holds
// snapshots: reading a record out of it always builds a new object.
type Collection map[string]Fields

// Keys returns the composite keys in sorted order.
func (c Collection) Keys() []string {
	keys := lo.Keys(c)
	slices.Sort(keys)
	return keys
}

// Find rehydrates the record stored under kind and id. It returns
// ErrUnknownKind when reg does not know kind and ErrNotFound when no entry
// has that key.
func (c Collection) Find(reg *Registry, kind, id string) (Record, error) {
	if _, err := reg.Lookup(kind); err != nil {
		return nil, err
	}
	key := JoinKey(kind, id)
	fields, ok := c[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return reg.Rehydrate(kind, fields)
}

// List rehydrates records in key order. An empty kind lists every entry;
// otherwise only entries whose key names that kind are listed. Each entry
// is rehydrated as the kind in its own key, never as the requested one.
//
// Entries that fail to rehydrate are left out and their errors are joined
// into the returned error; the records that did rehydrate are returned
// alongside it.
func (c Collection) List(reg *Registry, kind string) ([]Record, error) {
	if kind != "" && !reg.Has(kind) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	var (
		records []Record
		errs    []error
	)
	for _, key := range c.Keys() {
		keyKind, _, ok := SplitKey(key)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: malformed key %q", ErrInvalidData, key))
			continue
		}
		if kind != "" && keyKind != kind {
			continue
		}
		rec, err := reg.Rehydrate(keyKind, c[key])
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			continue
		}
		records = append(records, rec)
	}
	return records, errors.Join(errs...)
}

// Count returns the number of entries whose key names kind. An empty kind
// counts every entry.
func (c Collection) Count(kind string) int {
	if kind == "" {
		return len(c)
	}
	return lo.CountBy(lo.Keys(c), func(key string) bool {
		k, _, ok := SplitKey(key)
		return ok && k == kind
	})
}

// Remove deletes the entry for kind and id and reports whether it existed.
// The caller persists the removal with Store.Save.
func (c Collection) Remove(kind, id string) bool {
	key := JoinKey(kind, id)
	if _, ok := c[key]; !ok {
		return false
	}
	delete(c, key)
	return true
}

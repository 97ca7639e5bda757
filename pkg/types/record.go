package types

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"
)

// Reserved field names. FieldKind is the discriminator written by Serialize;
// FieldLegacyKind is the discriminator older files carry.
const (
	FieldID         = "id"
	FieldCreatedAt  = "created_at"
	FieldUpdatedAt  = "updated_at"
	FieldKind       = "kind"
	FieldLegacyKind = "__class__"
)

// readOnlyFields cannot be assigned through Set.
var readOnlyFields = map[string]bool{
	FieldID:         true,
	FieldCreatedAt:  true,
	FieldUpdatedAt:  true,
	FieldKind:       true,
	FieldLegacyKind: true,
}

// TimeLayout is the text form of created_at and updated_at in field maps.
const TimeLayout = time.RFC3339Nano

// timeLayouts are accepted when parsing timestamps. Zone-less text is UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// clock returns the current time; tests replace it.
var clock = time.Now

// Fields is a record's field map: field name to value.
type Fields map[string]any

// Record is implemented by every variant. Variants embed Base and add
// their own fields; the set of variants is closed to this package.
type Record interface {
	// Kind returns the variant name used in composite keys.
	Kind() string
	ID() string
	CreatedAt() time.Time
	UpdatedAt() time.Time

	// Touch sets UpdatedAt to now. It does not persist the record;
	// the caller follows up with Store.New and Store.Save.
	Touch()

	// Serialize returns every field plus the kind discriminator, with
	// timestamps as text.
	Serialize() Fields

	// Set assigns a declared field, converting the value to the field's
	// type, or stores an extra field.
	Set(name string, value any) error

	// String renders "[<Kind>] (<id>) <fields>" from the live values.
	String() string

	base() *Base
}

// Key returns the composite key "<Kind>.<id>" addressing r in a Collection.
func Key(r Record) string {
	return JoinKey(r.Kind(), r.ID())
}

// JoinKey builds a composite key.
func JoinKey(kind, id string) string {
	return kind + "." + id
}

// SplitKey splits a composite key at its first dot. ok is false when
// either part is empty.
func SplitKey(key string) (kind, id string, ok bool) {
	kind, id, found := strings.Cut(key, ".")
	if !found || kind == "" || id == "" {
		return "", "", false
	}
	return kind, id, true
}

// Base carries the identity and timestamps shared by all variants, plus
// any fields a variant does not declare.
type Base struct {
	id        string
	createdAt time.Time
	updatedAt time.Time
	extra     Fields
}

func (b *Base) ID() string           { return b.id }
func (b *Base) CreatedAt() time.Time { return b.createdAt }
func (b *Base) UpdatedAt() time.Time { return b.updatedAt }
func (b *Base) base() *Base          { return b }

// Touch sets UpdatedAt to the current time. UpdatedAt never moves
// backwards; if the clock has not advanced since the last update it moves
// forward by one microsecond.
func (b *Base) Touch() {
	now := clock().UTC()
	if !now.After(b.updatedAt) {
		now = b.updatedAt.Add(time.Microsecond)
	}
	b.updatedAt = now
}

// Extra returns a copy of the fields the variant does not declare.
func (b *Base) Extra() Fields {
	out := make(Fields, len(b.extra))
	for k, v := range b.extra {
		out[k] = v
	}
	return out
}

// init assigns a fresh id and sets both timestamps to now.
func (b *Base) init() {
	now := clock().UTC()
	b.id = newID()
	b.createdAt = now
	b.updatedAt = now
	b.extra = make(Fields)
}

// load applies the base keys of fields over a freshly initialized Base.
// Missing keys keep their fresh values.
func (b *Base) load(fields Fields) error {
	if v, ok := fields[FieldID]; ok {
		id, isString := v.(string)
		if !isString || id == "" {
			return fmt.Errorf("%w: id must be a non-empty string, got %T", ErrInvalidData, v)
		}
		b.id = id
	}

	created, hasCreated := fields[FieldCreatedAt]
	updated, hasUpdated := fields[FieldUpdatedAt]
	if hasCreated {
		t, err := ParseTime(created)
		if err != nil {
			return fmt.Errorf("%w: created_at: %v", ErrInvalidData, err)
		}
		b.createdAt = t
		b.updatedAt = t
	}
	if hasUpdated {
		t, err := ParseTime(updated)
		if err != nil {
			return fmt.Errorf("%w: updated_at: %v", ErrInvalidData, err)
		}
		b.updatedAt = t
		if !hasCreated {
			b.createdAt = t
		}
	}
	if b.updatedAt.Before(b.createdAt) {
		return fmt.Errorf("%w: updated_at %s precedes created_at %s",
			ErrInvalidData, FormatTime(b.updatedAt), FormatTime(b.createdAt))
	}
	return nil
}

// fields merges extras, the declared fields of self and the base fields.
// stamp renders the two timestamps.
func (b *Base) fields(self any, stamp func(time.Time) any) Fields {
	declared := declaredFields(self)
	out := make(Fields, len(b.extra)+len(declared)+4)
	for k, v := range b.extra {
		out[k] = v
	}
	for k, v := range declared {
		out[k] = v
	}
	out[FieldID] = b.id
	out[FieldCreatedAt] = stamp(b.createdAt)
	out[FieldUpdatedAt] = stamp(b.updatedAt)
	return out
}

func (b *Base) serialize(self any, kind string) Fields {
	out := b.fields(self, func(t time.Time) any { return FormatTime(t) })
	out[FieldKind] = kind
	return out
}

func (b *Base) format(self any, kind string) string {
	live := b.fields(self, func(t time.Time) any { return t })
	return fmt.Sprintf("[%s] (%s) %v", kind, b.id, map[string]any(live))
}

func (b *Base) set(self any, name string, value any) error {
	if name == "" {
		return ErrInvalidName
	}
	if readOnlyFields[name] {
		return fmt.Errorf("%w: %s", ErrReadOnlyField, name)
	}
	if _, ok := declaredFields(self)[name]; !ok {
		if b.extra == nil {
			b.extra = make(Fields)
		}
		b.extra[name] = value
		return nil
	}
	return decodeChecked(self, Fields{name: value})
}

// rehydrate loads fields into r, which must come fresh from its variant
// constructor so that undeclared defaults are in place.
func rehydrate(r Record, fields Fields) error {
	b := r.base()
	if err := b.load(fields); err != nil {
		return err
	}
	declared := declaredFields(r)
	input := make(Fields, len(declared))
	for k, v := range fields {
		switch {
		case readOnlyFields[k]:
		case v == nil:
			// null keeps the variant default
		default:
			if _, ok := declared[k]; ok {
				input[k] = v
			} else {
				b.extra[k] = v
			}
		}
	}
	return decodeChecked(r, input)
}

// FromFields builds a record with newFn and rehydrates it from fields.
// An empty or nil map yields the same result as newFn.
func FromFields[P Record](newFn func() P, fields Fields) (P, error) {
	r := newFn()
	if err := rehydrate(r, fields); err != nil {
		var zero P
		return zero, err
	}
	return r, nil
}

// FormatTime renders a timestamp as field-map text.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime reads a timestamp from field-map text. time.Time values are
// accepted as they are.
func ParseTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		var err error
		for _, layout := range timeLayouts {
			var parsed time.Time
			parsed, err = time.Parse(layout, t)
			if err == nil {
				return parsed.UTC(), nil
			}
		}
		return time.Time{}, err
	default:
		return time.Time{}, fmt.Errorf("timestamp must be text, got %T", v)
	}
}

// newID returns a UUID v7, falling back to v4.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// declaredFields returns the mapstructure-tagged fields of a variant
// struct. Slices are copied so callers never alias record state.
func declaredFields(self any) Fields {
	out := make(Fields)
	if err := mapstructure.Decode(self, &out); err != nil {
		panic(fmt.Sprintf("types: %T is not a record struct: %v", self, err))
	}
	for k, v := range out {
		if s, ok := v.([]string); ok {
			out[k] = slices.Clone(s)
		}
	}
	return out
}

// decodeChecked decodes input into a scratch copy of target first, so a
// conversion failure leaves target untouched.
func decodeChecked(target any, input Fields) error {
	if len(input) == 0 {
		return nil
	}
	scratch := reflect.New(reflect.TypeOf(target).Elem()).Interface()
	if err := decodeFields(scratch, input); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	if err := decodeFields(target, input); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return nil
}

func decodeFields(target any, input Fields) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.DecodeHookFuncType(convertField),
		ZeroFields: true,
		Result:     target,
	})
	if err != nil {
		return err
	}
	return dec.Decode(map[string]any(input))
}

// convertField covers the conversions mapstructure does not make on its
// own: scalars into text fields, integral floats into int fields and a
// single string into a list field.
func convertField(_ reflect.Type, to reflect.Type, data any) (any, error) {
	switch to.Kind() {
	case reflect.String:
		switch v := data.(type) {
		case bool:
			return strconv.FormatBool(v), nil
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return fmt.Sprint(v), nil
		case float32:
			return strconv.FormatFloat(float64(v), 'g', -1, 32), nil
		case float64:
			return strconv.FormatFloat(v, 'g', -1, 64), nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if f, ok := data.(float64); ok {
			if f != math.Trunc(f) {
				return nil, fmt.Errorf("%v is not an integer", f)
			}
			if f < math.MinInt64 || f >= math.MaxInt64 {
				return nil, fmt.Errorf("%v is out of range for an integer field", f)
			}
		}
	case reflect.Slice:
		if s, ok := data.(string); ok {
			return []string{s}, nil
		}
	}
	return data, nil
}

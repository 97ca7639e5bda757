// Package snapshot converts record collections to and from the JSON
// backing-file format: one object mapping "<Kind>.<id>" keys to field maps.
package snapshot

import (
	"bytes"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// api sorts map keys so that saved files are stable across runs.
var api = sonic.ConfigStd

const indent = "  "

// Encode renders c as an indented JSON object with sorted keys.
func Encode(c types.Collection) ([]byte, error) {
	if c == nil {
		c = types.Collection{}
	}
	data, err := api.MarshalIndent(c, "", indent)
	if err != nil {
		return nil, fmt.Errorf("encoding collection: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses a backing file read from path. Empty or whitespace-only
// data is an empty collection. Anything that is not an object of
// composite keys to field maps is a *types.CorruptStoreError naming path.
func Decode(path string, data []byte) (types.Collection, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return types.Collection{}, nil
	}
	var doc any
	if err := api.Unmarshal(data, &doc); err != nil {
		return nil, &types.CorruptStoreError{Path: path, Reason: "invalid JSON", Err: err}
	}
	top, ok := doc.(map[string]any)
	if !ok {
		return nil, &types.CorruptStoreError{
			Path:   path,
			Reason: fmt.Sprintf("top level is %s, want object", jsonType(doc)),
		}
	}
	c := make(types.Collection, len(top))
	for key, v := range top {
		fields, err := entry(path, key, v)
		if err != nil {
			return nil, err
		}
		c[key] = fields
	}
	return c, nil
}

// EncodeFields renders one field map as compact JSON.
func EncodeFields(f types.Fields) ([]byte, error) {
	data, err := api.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encoding fields: %w", err)
	}
	return data, nil
}

// DecodeFields parses the field map stored under key, applying the same
// checks Decode applies to each entry.
func DecodeFields(path, key string, data []byte) (types.Fields, error) {
	var v any
	if err := api.Unmarshal(data, &v); err != nil {
		return nil, &types.CorruptStoreError{
			Path:   path,
			Reason: fmt.Sprintf("entry %q is not valid JSON", key),
			Err:    err,
		}
	}
	return entry(path, key, v)
}

// Normalize returns f in the shape JSON decoding produces: numbers become
// float64 and lists become []any. A normalized map compares equal to the
// same map after a save and reload.
func Normalize(f types.Fields) (types.Fields, error) {
	data, err := EncodeFields(f)
	if err != nil {
		return nil, err
	}
	var out types.Fields
	if err := api.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("normalizing fields: %w", err)
	}
	if out == nil {
		out = types.Fields{}
	}
	return out, nil
}

func entry(path, key string, v any) (types.Fields, error) {
	_, id, ok := types.SplitKey(key)
	if !ok {
		return nil, &types.CorruptStoreError{
			Path:   path,
			Reason: fmt.Sprintf("key %q is not of the form <Kind>.<id>", key),
		}
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &types.CorruptStoreError{
			Path:   path,
			Reason: fmt.Sprintf("entry %q is %s, want object", key, jsonType(v)),
		}
	}
	if got, present := m[types.FieldID]; present && got != id {
		return nil, &types.CorruptStoreError{
			Path:   path,
			Reason: fmt.Sprintf("entry %q holds id %v", key, got),
		}
	}
	return types.Fields(m), nil
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	default:
		return "number"
	}
}

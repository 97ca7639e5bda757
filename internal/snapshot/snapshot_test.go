package snapshot

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

func TestEncodeSortedAndIndented(t *testing.T) {
	c := types.Collection{
		"User.b":  {"id": "b", "email": "x"},
		"State.a": {"name": "CA", "id": "a"},
	}

	data, err := Encode(c)
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, "{\n  \"State.a\": {\n    \"id\": \"a\""), text)
	assert.Less(t, strings.Index(text, "State.a"), strings.Index(text, "User.b"))
	assert.True(t, strings.HasSuffix(text, "}\n"))
}

func TestEncodeEmpty(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
}

func TestDecodeRoundTrip(t *testing.T) {
	s := types.NewState()
	s.Name = "Oregon"
	p := types.NewPlace()
	p.NumberRooms = 2
	p.AmenityIDs = []string{"a1"}

	c := types.Collection{}
	for _, r := range []types.Record{s, p} {
		f, err := Normalize(r.Serialize())
		require.NoError(t, err)
		c[types.Key(r)] = f
	}

	data, err := Encode(c)
	require.NoError(t, err)
	back, err := Decode("file.json", data)
	require.NoError(t, err)
	assert.Equal(t, c, back)
}

func TestDecodeEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t\n"} {
		c, err := Decode("file.json", []byte(in))
		require.NoError(t, err)
		assert.NotNil(t, c)
		assert.Empty(t, c)
	}
}

func TestDecodeCorrupt(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		reason string
	}{
		{"invalid JSON", `{"State.a": `, "invalid JSON"},
		{"top-level array", `[1, 2]`, "top level is array"},
		{"top-level string", `"hello"`, "top level is string"},
		{"entry not object", `{"State.a": 5}`, `entry "State.a" is number`},
		{"entry null", `{"State.a": null}`, `entry "State.a" is null`},
		{"key without dot", `{"Statea": {}}`, `key "Statea"`},
		{"key without id", `{"State.": {}}`, `key "State."`},
		{"id disagrees", `{"State.a": {"id": "b"}}`, `holds id b`},
		{"numeric id", `{"State.a": {"id": 1}}`, `holds id 1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Decode("/data/file.json", []byte(tt.in))
			require.Error(t, err)
			assert.Nil(t, c)
			assert.ErrorIs(t, err, types.ErrCorruptStore)

			var ce *types.CorruptStoreError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, "/data/file.json", ce.Path)
			assert.Contains(t, ce.Reason, tt.reason)
		})
	}
}

func TestDecodeAcceptsEntryWithoutID(t *testing.T) {
	c, err := Decode("file.json", []byte(`{"State.abc": {"name": "CA"}}`))
	require.NoError(t, err)
	assert.Equal(t, types.Fields{"name": "CA"}, c["State.abc"])
}

func TestNormalize(t *testing.T) {
	got, err := Normalize(types.Fields{
		"n":    3,
		"f":    1.5,
		"list": []string{"a"},
		"s":    "x",
		"b":    true,
		"nil":  nil,
	})
	require.NoError(t, err)
	assert.Equal(t, types.Fields{
		"n":    float64(3),
		"f":    1.5,
		"list": []any{"a"},
		"s":    "x",
		"b":    true,
		"nil":  nil,
	}, got)
}

func TestNormalizeRejectsUnencodable(t *testing.T) {
	_, err := Normalize(types.Fields{"ch": make(chan int)})
	assert.Error(t, err)
}

func TestDecodeFields(t *testing.T) {
	f, err := DecodeFields("db", "City.x", []byte(`{"id":"x","name":"Reno"}`))
	require.NoError(t, err)
	assert.Equal(t, "Reno", f["name"])

	_, err = DecodeFields("db", "City.x", []byte(`{"id":"y"}`))
	assert.ErrorIs(t, err, types.ErrCorruptStore)

	_, err = DecodeFields("db", "City.x", []byte(`not json`))
	assert.ErrorIs(t, err, types.ErrCorruptStore)
}

package jsonmodels_test

import (
	"testing"

	jm "github.com/Ultimaker/jsonmodels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestOrderedMapInsertionOrder(t *testing.T) {
	m := jm.NewOrderedMap()
	m.Set("c", 3)
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("a", 10)

	assert.Equal(t, []any{"c", "a", "b"}, m.Keys(), "re-setting a key keeps its position")
	a, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 10, a)
	assert.Equal(t, 3, m.Len())
}

func TestOrderedMapDelete(t *testing.T) {
	m := jm.OrderedMapOf("a", 1, "b", 2, "c", 3)
	m.Delete("b")

	assert.Equal(t, []any{"a", "c"}, m.Keys())
	_, ok := m.Get("b")
	assert.False(t, ok)

	m.Delete("missing")
	assert.Equal(t, 2, m.Len())
}

func TestOrderedMapOfOddArgumentsPanics(t *testing.T) {
	assert.Panics(t, func() { jm.OrderedMapOf("a", 1, "b") })
}

func TestOrderedMapRangeStopsEarly(t *testing.T) {
	m := jm.OrderedMapOf("a", 1, "b", 2, "c", 3)

	var seen []any
	m.Range(func(k, _ any) bool {
		seen = append(seen, k)
		return len(seen) < 2
	})
	assert.Equal(t, []any{"a", "b"}, seen)
}

func TestOrderedMapEqual(t *testing.T) {
	a := jm.OrderedMapOf("x", 1, "y", 2)
	b := jm.OrderedMapOf("x", 1, "y", 2)
	differentOrder := jm.OrderedMapOf("y", 2, "x", 1)
	differentValue := jm.OrderedMapOf("x", 1, "y", 3)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(differentOrder), "order participates in equality")
	assert.False(t, a.Equal(differentValue))
	assert.False(t, a.Equal(nil))
}

func TestOrderedMapJSONRoundTrip(t *testing.T) {
	m := jm.OrderedMapOf("z", "last?", "a", 1.5, "nested", jm.OrderedMapOf("k", "v"))

	data, err := m.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"z":"last?","a":1.5,"nested":{"k":"v"}}`, string(data))

	var decoded jm.OrderedMap
	require.NoError(t, decoded.UnmarshalJSON(data))
	assert.Equal(t, []any{"z", "a", "nested"}, decoded.Keys())
}

func TestOrderedMapYAMLRoundTrip(t *testing.T) {
	m := jm.OrderedMapOf("z", 1, "a", "two")

	data, err := yaml.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, "z: 1\na: two\n", string(data))

	var decoded jm.OrderedMap
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, []any{"z", "a"}, decoded.Keys())
}

func TestOrderedMapNonStringJSONKeys(t *testing.T) {
	m := jm.OrderedMapOf(1, "one", 2, "two")

	data, err := m.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"1":"one","2":"two"}`, string(data))
}

package jsonmodels_test

import (
	"encoding/json"
	"testing"

	jm "github.com/Ultimaker/jsonmodels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSONPreservesObjectOrder(t *testing.T) {
	v, err := jm.DecodeJSON([]byte(`{"z": 1, "a": 2, "m": 3}`))
	require.NoError(t, err)

	om := v.(*jm.OrderedMap)
	assert.Equal(t, []any{"z", "a", "m"}, om.Keys())
}

func TestDecodeJSONValueKinds(t *testing.T) {
	v, err := jm.DecodeJSON([]byte(`{"s": "x", "n": 4.5, "i": 7, "b": true, "nul": null, "arr": [1, "two"], "obj": {"k": "v"}}`))
	require.NoError(t, err)

	om := v.(*jm.OrderedMap)
	s, _ := om.Get("s")
	assert.Equal(t, "x", s)
	n, _ := om.Get("n")
	assert.Equal(t, json.Number("4.5"), n)
	i, _ := om.Get("i")
	assert.Equal(t, json.Number("7"), i)
	b, _ := om.Get("b")
	assert.Equal(t, true, b)
	nul, ok := om.Get("nul")
	assert.True(t, ok)
	assert.Nil(t, nul)
	arr, _ := om.Get("arr")
	assert.Equal(t, []any{json.Number("1"), "two"}, arr)
	obj, _ := om.Get("obj")
	assert.IsType(t, &jm.OrderedMap{}, obj)
}

func TestDecodeJSONRejectsTrailingData(t *testing.T) {
	_, err := jm.DecodeJSON([]byte(`{"a": 1} {"b": 2}`))
	assert.Error(t, err)
}

func TestDecodeYAMLPreservesOrderAndTypes(t *testing.T) {
	doc := []byte("z: 1\na: text\nm:\n  - true\n  - 2.5\n  - null\n")

	v, err := jm.DecodeYAML(doc)
	require.NoError(t, err)

	om := v.(*jm.OrderedMap)
	assert.Equal(t, []any{"z", "a", "m"}, om.Keys())

	z, _ := om.Get("z")
	assert.Equal(t, int64(1), z)
	a, _ := om.Get("a")
	assert.Equal(t, "text", a)
	m, _ := om.Get("m")
	assert.Equal(t, []any{true, 2.5, nil}, m)
}

func TestDecodeYAMLResolvesAnchors(t *testing.T) {
	doc := []byte("base: &b\n  host: localhost\nderived: *b\n")

	v, err := jm.DecodeYAML(doc)
	require.NoError(t, err)

	om := v.(*jm.OrderedMap)
	derived, _ := om.Get("derived")
	host, _ := derived.(*jm.OrderedMap).Get("host")
	assert.Equal(t, "localhost", host)
}

func newCarShape() *jm.Shape {
	reg := jm.NewRegistry()
	wheel := jm.NewShape("Wheel", []jm.FieldDef{
		jm.F("position", jm.NewString()),
	}, jm.UseRegistry(reg))
	return jm.NewShape("Car", []jm.FieldDef{
		jm.F("make", jm.NewString(jm.Required())),
		jm.F("year", jm.NewInt()),
		jm.F("wheels", jm.NewList(jm.Items(wheel))),
	}, jm.UseRegistry(reg))
}

func TestFromJSONBuildsInstances(t *testing.T) {
	car := newCarShape()

	inst, err := car.FromJSON([]byte(`{
		"make": "Ford",
		"year": 1965,
		"wheels": [{"position": "front-left"}, {"position": "front-right"}]
	}`))
	require.NoError(t, err)
	require.NoError(t, inst.Validate())

	assert.Equal(t, "Ford", inst.MustGet("make"))
	assert.Equal(t, 1965, inst.MustGet("year"))
	wheels := inst.MustGet("wheels").([]any)
	require.Len(t, wheels, 2)
	assert.Equal(t, "front-left", wheels[0].(*jm.Instance).MustGet("position"))
}

func TestFromJSONRejectsNonObjectRoot(t *testing.T) {
	car := newCarShape()
	_, err := car.FromJSON([]byte(`[1, 2, 3]`))
	assert.Error(t, err)
}

func TestToJSONKeepsDeclarationOrder(t *testing.T) {
	car := newCarShape()
	inst := car.MustNew(map[string]any{"make": "Ford", "year": 1965})

	data, err := inst.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"make":"Ford","year":1965,"wheels":[]}`, string(data))
}

func TestJSONRoundTrip(t *testing.T) {
	car := newCarShape()
	original := car.MustNew(map[string]any{
		"make":   "Ford",
		"year":   1965,
		"wheels": []any{map[string]any{"position": "rear-left"}},
	})

	data, err := original.ToJSON()
	require.NoError(t, err)

	decoded, err := car.FromJSON(data)
	require.NoError(t, err)
	assert.True(t, original.Equal(decoded))
}

func TestFromYAMLBuildsInstances(t *testing.T) {
	car := newCarShape()

	inst, err := car.FromYAML([]byte("make: Ford\nyear: 1965\nwheels:\n  - position: rear-left\n"))
	require.NoError(t, err)
	require.NoError(t, inst.Validate())

	assert.Equal(t, "Ford", inst.MustGet("make"))
	assert.Equal(t, 1965, inst.MustGet("year"))
}

func TestYAMLRoundTrip(t *testing.T) {
	car := newCarShape()
	original := car.MustNew(map[string]any{
		"make": "Ford",
		"year": 1965,
	})

	data, err := original.ToYAML()
	require.NoError(t, err)

	decoded, err := car.FromYAML(data)
	require.NoError(t, err)
	assert.True(t, original.Equal(decoded))
}

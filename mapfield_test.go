package jsonmodels_test

import (
	"testing"

	jm "github.com/Ultimaker/jsonmodels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapFieldCoercesKeysAndValues(t *testing.T) {
	f := jm.NewMap(jm.NewString(), jm.NewInt())

	in := jm.OrderedMapOf("a", "1", "b", 2)
	got, err := f.ParseValue(in)
	require.NoError(t, err)

	om := got.(*jm.OrderedMap)
	assert.Equal(t, []any{"a", "b"}, om.Keys(), "iteration order survives parsing")
	a, _ := om.Get("a")
	assert.Equal(t, 1, a)
}

func TestMapFieldKeepsConcreteMapType(t *testing.T) {
	f := jm.NewMap(jm.NewString(), jm.NewInt())

	got, err := f.ParseValue(map[string]any{"x": "7"})
	require.NoError(t, err)

	m, ok := got.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 7, m["x"])
}

func TestMapFieldValidatesEntries(t *testing.T) {
	f := jm.NewMap(jm.NewString(), jm.NewInt())

	assert.NoError(t, f.Validate(jm.OrderedMapOf("a", 1)))

	err := f.Validate(jm.OrderedMapOf("a", "nope"))
	require.Error(t, err)
	assert.Equal(t, jm.CodeInvalidType, jm.ErrorCode(err))

	err = f.Validate("not a map")
	require.Error(t, err)
	assert.Equal(t, jm.CodeInvalidType, jm.ErrorCode(err))
}

func TestMapFieldDefaults(t *testing.T) {
	optional := jm.NewMap(jm.NewString(), jm.NewString())
	assert.Nil(t, optional.DefaultValue())

	required := jm.NewMap(jm.NewString(), jm.NewString(), jm.Required())
	def := required.DefaultValue()
	om, ok := def.(*jm.OrderedMap)
	require.True(t, ok)
	assert.Equal(t, 0, om.Len())

	seeded := jm.NewMap(jm.NewString(), jm.NewInt(), jm.Default(jm.OrderedMapOf("n", 1)))
	first := seeded.DefaultValue().(*jm.OrderedMap)
	first.Set("n", 99)
	second := seeded.DefaultValue().(*jm.OrderedMap)
	n, _ := second.Get("n")
	assert.Equal(t, 1, n, "defaults must not share storage")
}

func TestMapFieldInShape(t *testing.T) {
	shape := jm.NewShape("Config", []jm.FieldDef{
		jm.F("env", jm.NewMap(jm.NewString(), jm.NewString())),
	}, jm.UseRegistry(jm.NewRegistry()))

	inst := shape.MustNew(map[string]any{
		"env": jm.OrderedMapOf("HOME", "/root", "SHELL", "/bin/sh"),
	})
	require.NoError(t, inst.Validate())

	st, err := inst.ToStruct()
	require.NoError(t, err)
	env, _ := st.(*jm.OrderedMap).Get("env")
	assert.Equal(t, []any{"HOME", "SHELL"}, env.(*jm.OrderedMap).Keys())
}

func TestMapFieldNestedValueField(t *testing.T) {
	reg := jm.NewRegistry()
	point := jm.NewShape("Point", []jm.FieldDef{
		jm.F("x", jm.NewInt()),
		jm.F("y", jm.NewInt()),
	}, jm.UseRegistry(reg))

	f := jm.NewMap(jm.NewString(), jm.NewEmbedded(jm.Candidates(point)))

	got, err := f.ParseValue(jm.OrderedMapOf("origin", map[string]any{"x": 0, "y": 0}))
	require.NoError(t, err)

	om := got.(*jm.OrderedMap)
	v, _ := om.Get("origin")
	inst := v.(*jm.Instance)
	assert.Equal(t, 0, inst.MustGet("x"))

	st, err := f.ToStruct(got)
	require.NoError(t, err)
	origin, _ := st.(*jm.OrderedMap).Get("origin")
	x, _ := origin.(*jm.OrderedMap).Get("x")
	assert.Equal(t, 0, x)
}

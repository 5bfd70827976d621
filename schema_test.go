package jsonmodels_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jm "github.com/Ultimaker/jsonmodels"
	js "github.com/Ultimaker/jsonmodels/jsonschema"
	"github.com/Ultimaker/jsonmodels/validators"
)

func TestJSONSchemaFlatShape(t *testing.T) {
	person := jm.NewShape("Person", []jm.FieldDef{
		jm.F("name", jm.NewString(jm.Required(), jm.HelpText("Full name."))),
		jm.F("age", jm.NewInt()),
		jm.F("score", jm.NewFloat()),
		jm.F("active", jm.NewBool()),
	}, jm.UseRegistry(jm.NewRegistry()))

	got, err := person.JSONSchema()
	require.NoError(t, err)

	want := &js.Schema{
		Type:                 "object",
		AdditionalProperties: false,
		Required:             []string{"name"},
		Properties: map[string]*js.Schema{
			"name":   {Type: "string", Description: "Full name."},
			"age":    {Type: "integer"},
			"score":  {Type: "number"},
			"active": {Type: "boolean"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("schema mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONSchemaUsesWireNames(t *testing.T) {
	shape := jm.NewShape("Cat", []jm.FieldDef{
		jm.F("hairColor", jm.NewString(jm.WireName("hair_color"))),
	}, jm.UseRegistry(jm.NewRegistry()))

	got, err := shape.JSONSchema()
	require.NoError(t, err)
	assert.Contains(t, got.Properties, "hair_color")
	assert.NotContains(t, got.Properties, "hairColor")
}

func TestJSONSchemaDefaultsAreSerialized(t *testing.T) {
	shape := jm.NewShape("Prefs", []jm.FieldDef{
		jm.F("theme", jm.NewString(jm.Default("dark"))),
	}, jm.UseRegistry(jm.NewRegistry()))

	got, err := shape.JSONSchema()
	require.NoError(t, err)
	assert.Equal(t, "dark", got.Properties["theme"].Default)
}

func TestJSONSchemaNestedShapeInlined(t *testing.T) {
	reg := jm.NewRegistry()
	wheel := jm.NewShape("Wheel", []jm.FieldDef{
		jm.F("position", jm.NewString()),
	}, jm.UseRegistry(reg))
	car := jm.NewShape("Car", []jm.FieldDef{
		jm.F("wheel", jm.NewEmbedded(jm.Candidates(wheel))),
	}, jm.UseRegistry(reg))

	got, err := car.JSONSchema()
	require.NoError(t, err)

	nested := got.Properties["wheel"]
	require.NotNil(t, nested)
	assert.Equal(t, "object", nested.Type)
	assert.Contains(t, nested.Properties, "position")
	assert.Empty(t, got.Definitions)
}

func TestJSONSchemaPolymorphicOneOf(t *testing.T) {
	reg := jm.NewRegistry()
	dog := jm.NewShape("Dog", []jm.FieldDef{
		jm.F("breed", jm.NewString()),
	}, jm.UseRegistry(reg))
	cat := jm.NewShape("Cat", []jm.FieldDef{
		jm.F("whiskers", jm.NewInt()),
	}, jm.UseRegistry(reg))
	owner := jm.NewShape("Owner", []jm.FieldDef{
		jm.F("pet", jm.NewEmbedded(jm.Candidates(dog, cat))),
	}, jm.UseRegistry(reg))

	got, err := owner.JSONSchema()
	require.NoError(t, err)

	pet := got.Properties["pet"]
	require.Len(t, pet.OneOf, 2)
	assert.Contains(t, pet.OneOf[0].Properties, "breed")
	assert.Contains(t, pet.OneOf[1].Properties, "whiskers")
}

func TestJSONSchemaRecursiveShapeUsesDefinitions(t *testing.T) {
	reg := jm.NewRegistry()
	person := jm.NewShape("Person", []jm.FieldDef{
		jm.F("name", jm.NewString()),
		jm.F("children", jm.NewList(jm.Items(jm.Lazy(".Person")))),
	}, jm.UseRegistry(reg), jm.Namespace("family"))

	got, err := person.JSONSchema()
	require.NoError(t, err)

	children := got.Properties["children"]
	require.NotNil(t, children)
	assert.Equal(t, "array", children.Type)
	require.NotNil(t, children.Items)
	assert.Equal(t, "#/definitions/family.Person", children.Items.Ref)
	require.Contains(t, got.Definitions, "family.Person")
	def := got.Definitions["family.Person"]
	assert.Contains(t, def.Properties, "name")
}

func TestJSONSchemaListOfScalars(t *testing.T) {
	shape := jm.NewShape("Doc", []jm.FieldDef{
		jm.F("tags", jm.NewList(jm.Items(jm.Of[string]()))),
		jm.F("anything", jm.NewList()),
	}, jm.UseRegistry(jm.NewRegistry()))

	got, err := shape.JSONSchema()
	require.NoError(t, err)

	tags := got.Properties["tags"]
	assert.Equal(t, "array", tags.Type)
	require.NotNil(t, tags.Items)
	assert.Equal(t, "string", tags.Items.Type)

	anything := got.Properties["anything"]
	assert.Equal(t, "array", anything.Type)
	assert.Nil(t, anything.Items)
}

func TestJSONSchemaDerivedList(t *testing.T) {
	shape := jm.NewShape("Doc", []jm.FieldDef{
		jm.F("dates", jm.NewDerivedList(jm.NewDateTime())),
	}, jm.UseRegistry(jm.NewRegistry()))

	got, err := shape.JSONSchema()
	require.NoError(t, err)

	dates := got.Properties["dates"]
	assert.Equal(t, "array", dates.Type)
	require.NotNil(t, dates.Items)
	assert.Equal(t, "string", dates.Items.Type)
	assert.Equal(t, "date-time", dates.Items.Format)
}

func TestJSONSchemaMapField(t *testing.T) {
	shape := jm.NewShape("Config", []jm.FieldDef{
		jm.F("env", jm.NewMap(jm.NewString(), jm.NewString())),
	}, jm.UseRegistry(jm.NewRegistry()))

	got, err := shape.JSONSchema()
	require.NoError(t, err)

	env := got.Properties["env"]
	assert.Equal(t, "object", env.Type)
	values, ok := env.AdditionalProperties.(*js.Schema)
	require.True(t, ok)
	assert.Equal(t, "string", values.Type)
}

func TestJSONSchemaValidatorContributions(t *testing.T) {
	shape := jm.NewShape("Account", []jm.FieldDef{
		jm.F("age", jm.NewInt(jm.WithValidators(
			validators.Min{Minimum: 18},
			validators.Max{Maximum: 120, Exclusive: true},
		))),
		jm.F("login", jm.NewString(jm.WithValidators(
			validators.NewRegex("^[a-z]+$"),
			validators.NewLength(validators.WithMinLength(3), validators.WithMaxLength(16)),
		))),
		jm.F("role", jm.NewString(jm.WithValidators(
			validators.NewEnum("admin", "user"),
		))),
		jm.F("tags", jm.NewList(jm.WithValidators(
			validators.NewLength(validators.WithMaxLength(5)),
		))),
	}, jm.UseRegistry(jm.NewRegistry()))

	got, err := shape.JSONSchema()
	require.NoError(t, err)

	age := got.Properties["age"]
	require.NotNil(t, age.Minimum)
	assert.Equal(t, 18.0, *age.Minimum)
	assert.False(t, age.ExclusiveMinimum)
	require.NotNil(t, age.Maximum)
	assert.Equal(t, 120.0, *age.Maximum)
	assert.True(t, age.ExclusiveMaximum)

	login := got.Properties["login"]
	assert.Equal(t, "/^[a-z]+$/", login.Pattern)
	require.NotNil(t, login.MinLength)
	assert.Equal(t, 3, *login.MinLength)
	require.NotNil(t, login.MaxLength)
	assert.Equal(t, 16, *login.MaxLength)

	role := got.Properties["role"]
	assert.Equal(t, []any{"admin", "user"}, role.Enum)

	tags := got.Properties["tags"]
	assert.Nil(t, tags.MaxLength)
	require.NotNil(t, tags.MaxItems)
	assert.Equal(t, 5, *tags.MaxItems)
}

func TestJSONSchemaItemValidatorContributions(t *testing.T) {
	shape := jm.NewShape("Doc", []jm.FieldDef{
		jm.F("codes", jm.NewList(
			jm.Items(jm.Of[string]()),
			jm.ItemValidators(validators.NewRegex("^[A-Z]{3}$")),
		)),
	}, jm.UseRegistry(jm.NewRegistry()))

	got, err := shape.JSONSchema()
	require.NoError(t, err)

	codes := got.Properties["codes"]
	require.NotNil(t, codes.Items)
	assert.Equal(t, "/^[A-Z]{3}$/", codes.Items.Pattern)
}

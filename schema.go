package jsonmodels

import (
	"fmt"

	js "github.com/Ultimaker/jsonmodels/jsonschema"
)

// JSONSchema exports the shape as a JSON Schema document. Nested shapes are
// inlined; shapes reached recursively move to the document's definitions
// section and are referenced by $ref.
func (s *Shape) JSONSchema() (*js.Schema, error) {
	b := &schemaBuilder{
		building:    map[*Shape]bool{},
		recursive:   map[*Shape]bool{},
		definitions: map[string]*js.Schema{},
	}
	root, err := b.buildShape(s)
	if err != nil {
		return nil, err
	}
	if root.Ref != "" {
		// The root itself was reached recursively; promote a copy of the
		// full definition back to the top level. The copy keeps the
		// document from containing itself through Definitions.
		promoted := *b.definitions[definitionName(s)]
		root = &promoted
	}
	if len(b.definitions) > 0 {
		root.Definitions = b.definitions
	}
	return root, nil
}

type schemaBuilder struct {
	building    map[*Shape]bool
	recursive   map[*Shape]bool
	definitions map[string]*js.Schema
}

func definitionName(s *Shape) string {
	if s.namespace == "" {
		return s.name
	}
	return s.namespace + "." + s.name
}

func (b *schemaBuilder) buildShape(s *Shape) (*js.Schema, error) {
	if b.building[s] {
		b.recursive[s] = true
		return &js.Schema{Ref: "#/definitions/" + definitionName(s)}, nil
	}
	b.building[s] = true
	defer delete(b.building, s)

	out := &js.Schema{
		Type:                 "object",
		AdditionalProperties: false,
		Properties:           map[string]*js.Schema{},
	}
	for _, def := range s.defs {
		d := def.Field.Descriptor()
		wire := d.StructureName(def.Attr)
		fs, err := b.fieldSchema(s, def.Field)
		if err != nil {
			return nil, fmt.Errorf("schema for %s.%s: %w", s.name, def.Attr, err)
		}
		out.Properties[wire] = fs
		if d.Required {
			out.Required = append(out.Required, wire)
		}
	}

	if b.recursive[s] {
		b.definitions[definitionName(s)] = out
		return &js.Schema{Ref: "#/definitions/" + definitionName(s)}, nil
	}
	return out, nil
}

func (b *schemaBuilder) fieldSchema(owner *Shape, f Field) (*js.Schema, error) {
	if err := f.Resolve(owner); err != nil {
		return nil, err
	}

	var out *js.Schema
	var err error
	switch t := f.(type) {
	case *EmbeddedField:
		out, err = b.typeSetSchema(t.Types())
	case *DerivedListField:
		out, err = b.itemizedSchema(owner, t.item)
	case *ListField:
		out = &js.Schema{Type: "array"}
		if len(t.ItemTypes()) > 0 {
			out.Items, err = b.typeSetSchema(t.ItemTypes())
			if err == nil {
				applyContributors(out.Items, t.itemValidators)
			}
		}
	case *MapField:
		out = &js.Schema{Type: "object"}
		var vs *js.Schema
		vs, err = b.fieldSchema(owner, t.ValueField())
		if err == nil {
			out.AdditionalProperties = vs
		}
	default:
		out, err = f.Schema()
	}
	if err != nil {
		return nil, err
	}

	d := f.Descriptor()
	applyContributors(out, d.Validators)
	if d.HelpText != "" {
		out.Description = d.HelpText
	}
	if d.HasDefault() && d.defaultValue != nil {
		sv, err := f.ToStruct(d.defaultValue)
		if err != nil {
			return nil, err
		}
		out.Default = sv
	}
	return out, nil
}

// itemizedSchema renders a list whose items follow another field's schema
// and validators.
func (b *schemaBuilder) itemizedSchema(owner *Shape, item Field) (*js.Schema, error) {
	items, err := b.fieldSchema(owner, item)
	if err != nil {
		return nil, err
	}
	return &js.Schema{Type: "array", Items: items}, nil
}

// typeSetSchema renders an accepted-type set as a single schema, or a oneOf
// union when there is more than one member.
func (b *schemaBuilder) typeSetSchema(types TypeSet) (*js.Schema, error) {
	if len(types) == 0 {
		return &js.Schema{}, nil
	}
	if len(types) == 1 {
		return b.typeRefSchema(types[0])
	}
	out := &js.Schema{}
	for _, t := range types {
		ts, err := b.typeRefSchema(t)
		if err != nil {
			return nil, err
		}
		out.OneOf = append(out.OneOf, ts)
	}
	return out, nil
}

func (b *schemaBuilder) typeRefSchema(t TypeRef) (*js.Schema, error) {
	if s, ok := t.(*Shape); ok {
		return b.buildShape(s)
	}
	switch t.TypeName() {
	case "string":
		return &js.Schema{Type: "string"}, nil
	case "int", "int64":
		return &js.Schema{Type: "integer"}, nil
	case "float64":
		return &js.Schema{Type: "number"}, nil
	case "bool":
		return &js.Schema{Type: "boolean"}, nil
	case "time.Time":
		return &js.Schema{Type: "string"}, nil
	case "list":
		return &js.Schema{Type: "array"}, nil
	case "map":
		return &js.Schema{Type: "object"}, nil
	case "any":
		return &js.Schema{}, nil
	default:
		return nil, fmt.Errorf("type %q has no schema form", t.TypeName())
	}
}

func applyContributors(s *js.Schema, validators []Validator) {
	for _, v := range validators {
		if c, ok := v.(SchemaContributor); ok {
			c.ModifySchema(s)
		}
	}
}

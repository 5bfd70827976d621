package jsonmodels

import (
	"fmt"
	"reflect"
	"regexp"

	js "github.com/Ultimaker/jsonmodels/jsonschema"
)

// NotSet is the sentinel distinguishing "no default configured" from a nil
// default.
var NotSet any = notSet{}

type notSet struct{}

func (notSet) String() string { return "<not set>" }

// Validator checks a single value and fails with a validation error.
type Validator interface {
	Validate(value any) error
}

// ValidatorFunc adapts a plain function to the Validator interface.
type ValidatorFunc func(value any) error

func (f ValidatorFunc) Validate(value any) error { return f(value) }

// SchemaContributor is implemented by validators that also constrain the
// schema fragment of the field they are attached to.
type SchemaContributor interface {
	ModifySchema(s *js.Schema)
}

// Field is the contract all fields implement: configuration, default
// handling, the parse/validate/serialize pipeline and schema contribution.
type Field interface {
	// Descriptor exposes the field's shared configuration.
	Descriptor() *Descriptor
	// Types is the accepted-type set; membership is checked on every
	// non-nil value during Validate.
	Types() TypeSet
	// ParseValue coerces a wire value into the stored representation.
	ParseValue(v any) (any, error)
	// Validate runs the type, required and custom-validator checks.
	Validate(v any) error
	// ToStruct renders a stored value into a JSON-primitive-safe structure.
	ToStruct(v any) (any, error)
	// DefaultValue materializes the configured default, or nil.
	DefaultValue() any
	// Schema returns the field's own schema fragment; the document builder
	// layers validator contributions and nested shapes on top.
	Schema() (*js.Schema, error)
	// Resolve binds any lazy type references against the owning shape.
	// It runs before the first Set/Get against a concrete owner and is a
	// no-op for fields without lazy references.
	Resolve(owner *Shape) error
}

// NativeEncoder is the alternate wire-encoding hook for binary document
// encodings that keep richer native types than JSON primitives.
type NativeEncoder interface {
	ToNative(v any) (any, error)
}

// ToNative renders a value through the field's native-encoding hook,
// falling back to ToStruct.
func ToNative(f Field, v any) (any, error) {
	if ne, ok := f.(NativeEncoder); ok {
		return ne.ToNative(v)
	}
	return f.ToStruct(v)
}

// Descriptor is the configuration shared by every field kind.
type Descriptor struct {
	Required   bool
	Nullable   bool
	HelpText   string
	WireName   string
	Validators []Validator

	defaultValue any
}

// HasDefault reports whether a default was configured. Nil counts as a
// configured default; only the NotSet sentinel does not.
func (d *Descriptor) HasDefault() bool { return d.defaultValue != NotSet }

// Default returns the configured default, or the NotSet sentinel.
func (d *Descriptor) Default() any { return d.defaultValue }

// StructureName returns the wire name, falling back to the attribute name.
func (d *Descriptor) StructureName(attr string) string {
	if d.WireName != "" {
		return d.WireName
	}
	return attr
}

// fieldConfig aggregates descriptor options plus kind-specific settings;
// each constructor documents which options apply to it.
type fieldConfig struct {
	desc           Descriptor
	itemTypes      TypeSet
	itemValidators []Validator
	omitEmpty      bool
	layout         string
}

// Option configures a field at construction time.
type Option func(*fieldConfig)

// Required marks the field as rejecting nil values. List fields ignore it:
// they are never required.
func Required() Option { return func(c *fieldConfig) { c.desc.Required = true } }

// Nullable lets nil values skip the field's custom validators.
func Nullable() Option { return func(c *fieldConfig) { c.desc.Nullable = true } }

// HelpText attaches a description used in schema output.
func HelpText(s string) Option { return func(c *fieldConfig) { c.desc.HelpText = s } }

// WireName overrides the name the field uses in structures and schemas.
// The name must match identifier syntax; violation panics at construction.
func WireName(s string) Option { return func(c *fieldConfig) { c.desc.WireName = s } }

// WithValidators appends validators, run in declaration order.
func WithValidators(vs ...Validator) Option {
	return func(c *fieldConfig) { c.desc.Validators = append(c.desc.Validators, vs...) }
}

// Default configures the default value, validated once at construction.
func Default(v any) Option { return func(c *fieldConfig) { c.desc.defaultValue = v } }

// Items declares the accepted item types of a list field.
func Items(refs ...TypeRef) Option {
	return func(c *fieldConfig) { c.itemTypes = append(c.itemTypes, refs...) }
}

// ItemValidators declares per-element validators of a list field.
func ItemValidators(vs ...Validator) Option {
	return func(c *fieldConfig) { c.itemValidators = append(c.itemValidators, vs...) }
}

// OmitEmpty makes an empty collection serialize to nil instead of an empty
// sequence.
func OmitEmpty() Option { return func(c *fieldConfig) { c.omitEmpty = true } }

// Layout sets the serialization layout of time-valued fields, as a Go
// reference-layout string. It governs rendering exactly.
func Layout(layout string) Option { return func(c *fieldConfig) { c.layout = layout } }

var wireNameRe = regexp.MustCompile(`^[A-Za-z_](([\w\-]*)?\w+)?$`)

func applyOptions(opts []Option) fieldConfig {
	c := fieldConfig{desc: Descriptor{defaultValue: NotSet}}
	for _, o := range opts {
		o(&c)
	}
	if c.desc.WireName != "" && !wireNameRe.MatchString(c.desc.WireName) {
		panic(fmt.Sprintf("jsonmodels: wrong name %q", c.desc.WireName))
	}
	return c
}

// base carries the shared configuration and the identity pipeline steps.
// Concrete fields embed it and override what they coerce or render.
type base struct {
	desc  Descriptor
	types TypeSet
}

func newBase(types TypeSet, c fieldConfig) base {
	return base{desc: c.desc, types: types}
}

func (b *base) Descriptor() *Descriptor { return &b.desc }
func (b *base) Types() TypeSet          { return b.types }

func (b *base) ParseValue(v any) (any, error) { return v, nil }
func (b *base) ToStruct(v any) (any, error)   { return v, nil }

func (b *base) Resolve(owner *Shape) error { return nil }

func (b *base) Validate(v any) error { return validateCommon(b.types, &b.desc, v) }

// DefaultValue returns a copy of the configured default so instances never
// share mutable defaults, or nil when none was configured.
func (b *base) DefaultValue() any {
	if !b.desc.HasDefault() {
		return nil
	}
	return copyValue(b.desc.defaultValue)
}

// validateCommon is the ordered pipeline every field's Validate runs first:
// usable-type-set check, type membership (nil skips), required check, then
// the declared validators. Nil plus nullable skips the validators only.
func validateCommon(types TypeSet, d *Descriptor, v any) error {
	if types == nil {
		return fmt.Errorf("field is not usable, try different field type")
	}
	if v != nil && !types.Contains(v) {
		return &BadTypeError{Value: v, Types: types}
	}
	if v == nil && d.Required {
		return &RequiredError{}
	}
	if v == nil && d.Nullable {
		return nil
	}
	for _, val := range d.Validators {
		if err := val.Validate(v); err != nil {
			return err
		}
	}
	return nil
}

// validateDefault runs a field's own Validate over its configured default,
// once, at declaration time. Invalid defaults are programmer errors.
func validateDefault(f Field) {
	d := f.Descriptor()
	if !d.HasDefault() {
		return
	}
	if err := f.Validate(d.defaultValue); err != nil {
		panic(fmt.Sprintf("jsonmodels: invalid default value: %v", err))
	}
}

// copyValue deep-copies the mutable containers a default may hold; scalars
// and shape instances pass through.
func copyValue(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = copyValue(e)
		}
		return out
	case *OrderedMap:
		out := NewOrderedMap()
		t.Range(func(k, e any) bool {
			out.Set(k, copyValue(e))
			return true
		})
		return out
	default:
		if v != nil {
			if rt := reflect.TypeOf(v); rt.Kind() == reflect.Slice {
				rv := reflect.ValueOf(v)
				out := reflect.MakeSlice(rt, rv.Len(), rv.Len())
				reflect.Copy(out, rv)
				return out.Interface()
			}
		}
		return v
	}
}

package jsonmodels

import (
	"reflect"

	js "github.com/Ultimaker/jsonmodels/jsonschema"
)

// ListField holds an ordered sequence. List fields are never required; use
// validators to constrain the number of items and ItemValidators to check
// each individual item.
type ListField struct {
	base
	itemTypes      TypeSet
	itemValidators []Validator
	omitEmpty      bool
	resolved       bool
}

// NewList builds a list field. Relevant options: Items, ItemValidators,
// OmitEmpty, plus the shared descriptor options; Required is force-cleared.
func NewList(opts ...Option) *ListField {
	c := applyOptions(opts)
	f := &ListField{
		base:           newBase(TypeSet{sequenceType{}}, c),
		itemTypes:      c.itemTypes,
		itemValidators: c.itemValidators,
		omitEmpty:      c.omitEmpty,
	}
	f.desc.Required = false
	validateDefault(f)
	return f
}

// DefaultValue returns the configured default, or a fresh empty sequence.
func (f *ListField) DefaultValue() any {
	if f.desc.HasDefault() {
		return copyValue(f.desc.defaultValue)
	}
	return []any{}
}

func (f *ListField) Resolve(owner *Shape) error {
	if f.resolved || !f.itemTypes.hasLazy() {
		f.resolved = true
		return nil
	}
	resolved, err := f.itemTypes.resolve(owner)
	if err != nil {
		return err
	}
	f.itemTypes = resolved
	f.resolved = true
	return nil
}

// ItemTypes is the resolved accepted item-type set.
func (f *ListField) ItemTypes() TypeSet { return f.itemTypes }

// ParseValue casts the value to the field's collection. Nil or empty input
// yields the default; a non-sequence passes through untouched; each element
// is cast against the item types.
func (f *ListField) ParseValue(v any) (any, error) {
	seq, ok := asSequence(v)
	if !ok {
		if v == nil {
			return f.DefaultValue(), nil
		}
		return v, nil
	}
	if len(seq) == 0 {
		return f.DefaultValue(), nil
	}
	out := make([]any, len(seq))
	for i, e := range seq {
		cast, err := f.castElement(e)
		if err != nil {
			return nil, err
		}
		out[i] = cast
	}
	return out, nil
}

// castElement keeps matching elements, embeds dict-like ones against the
// item types and rejects the rest. Untyped lists keep elements as-is.
func (f *ListField) castElement(e any) (any, error) {
	if len(f.itemTypes) == 0 {
		return e, nil
	}
	if f.itemTypes.Contains(e) {
		return e, nil
	}
	if kwargs, keys, ok := asKwargs(e); ok {
		shape, err := resolveEmbedShape(keys, f.itemTypes)
		if err != nil {
			return nil, err
		}
		return shape.New(kwargs)
	}
	return nil, &BadTypeError{Value: e, Types: f.itemTypes, IsList: true}
}

// Validate runs the base pipeline on the whole sequence, then every element
// through the item validators and the item-type membership check. The
// membership check is skipped when no item types were declared.
func (f *ListField) Validate(v any) error {
	if err := f.base.Validate(v); err != nil {
		return err
	}
	seq, ok := asSequence(v)
	if !ok {
		return nil
	}
	for _, e := range seq {
		if err := f.validateItem(e); err != nil {
			return err
		}
	}
	return nil
}

func (f *ListField) validateItem(e any) error {
	for _, val := range f.itemValidators {
		if err := val.Validate(e); err != nil {
			return err
		}
	}
	if len(f.itemTypes) == 0 {
		return nil
	}
	if !f.itemTypes.Contains(e) {
		return &BadTypeError{Value: e, Types: f.itemTypes, IsList: true}
	}
	return nil
}

// ToStruct serializes each element, delegating to the element's own
// serialization when it exposes one. An empty collection serializes to nil
// when the field was configured to omit empty collections.
func (f *ListField) ToStruct(v any) (any, error) {
	seq, ok := asSequence(v)
	if !ok {
		return v, nil
	}
	if len(seq) == 0 && f.omitEmpty {
		return nil, nil
	}
	out := make([]any, len(seq))
	for i, e := range seq {
		if st, ok := e.(structer); ok {
			se, err := st.ToStruct()
			if err != nil {
				return nil, err
			}
			out[i] = se
			continue
		}
		out[i] = e
	}
	return out, nil
}

func (f *ListField) Schema() (*js.Schema, error) { return &js.Schema{Type: "array"}, nil }

// DerivedListField is a list whose items are governed by another field, so
// per-item coercion, validation and serialization all follow that field's
// rules.
type DerivedListField struct {
	ListField
	item Field
}

// NewDerivedList builds a list field whose items are handled by the given
// field. Item types and item validators come from that field.
func NewDerivedList(item Field, opts ...Option) *DerivedListField {
	c := applyOptions(opts)
	c.itemTypes = item.Types()
	c.itemValidators = item.Descriptor().Validators
	f := &DerivedListField{
		ListField: ListField{
			base:           newBase(TypeSet{sequenceType{}}, c),
			itemTypes:      c.itemTypes,
			itemValidators: c.itemValidators,
			omitEmpty:      c.omitEmpty,
		},
		item: item,
	}
	f.desc.Required = false
	validateDefault(f)
	return f
}

func (f *DerivedListField) Resolve(owner *Shape) error {
	if err := f.item.Resolve(owner); err != nil {
		return err
	}
	f.itemTypes = f.item.Types()
	f.resolved = true
	return nil
}

// ParseValue converts every element through the wrapped field; a coercion
// failure is reported as a bad-type error against the wrapped field's
// accepted types.
func (f *DerivedListField) ParseValue(v any) (any, error) {
	if v == nil {
		return f.DefaultValue(), nil
	}
	seq, ok := asSequence(v)
	if !ok {
		return nil, &BadTypeError{Value: v, Types: f.item.Types(), IsList: true}
	}
	out := make([]any, len(seq))
	for i, e := range seq {
		parsed, err := f.item.ParseValue(e)
		if err != nil {
			return nil, &BadTypeError{Value: e, Types: f.item.Types(), IsList: true}
		}
		out[i] = parsed
	}
	return out, nil
}

func (f *DerivedListField) Validate(v any) error {
	if err := f.base.Validate(v); err != nil {
		return err
	}
	seq, ok := asSequence(v)
	if !ok {
		return nil
	}
	for _, e := range seq {
		if err := f.item.Validate(e); err != nil {
			return err
		}
	}
	return nil
}

func (f *DerivedListField) ToStruct(v any) (any, error) {
	seq, ok := asSequence(v)
	if !ok {
		return v, nil
	}
	if len(seq) == 0 && f.omitEmpty {
		return nil, nil
	}
	out := make([]any, len(seq))
	for i, e := range seq {
		se, err := f.item.ToStruct(e)
		if err != nil {
			return nil, err
		}
		out[i] = se
	}
	return out, nil
}

// asSequence views slices and arrays as []any.
func asSequence(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if k := rv.Kind(); k != reflect.Slice && k != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

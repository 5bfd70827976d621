package jsonmodels

import (
	"fmt"
	"reflect"

	js "github.com/Ultimaker/jsonmodels/jsonschema"
)

// MapField keeps a mapping between two other fields: keys and values are
// each parsed, validated and serialized by their own field.
type MapField struct {
	base
	key   Field
	value Field
}

// NewMap builds a map field over a key field and a value field.
func NewMap(key, value Field, opts ...Option) *MapField {
	f := &MapField{
		base:  newBase(TypeSet{mappingType{}}, applyOptions(opts)),
		key:   key,
		value: value,
	}
	validateDefault(f)
	return f
}

func (f *MapField) Resolve(owner *Shape) error {
	if err := f.key.Resolve(owner); err != nil {
		return err
	}
	return f.value.Resolve(owner)
}

// KeyField is the field governing the mapping keys.
func (f *MapField) KeyField() Field { return f.key }

// ValueField is the field governing the mapping values.
func (f *MapField) ValueField() Field { return f.value }

// DefaultValue returns the configured default; a required map without one
// materializes an empty mapping.
func (f *MapField) DefaultValue() any {
	if f.desc.HasDefault() {
		return copyValue(f.desc.defaultValue)
	}
	if f.desc.Required {
		return NewOrderedMap()
	}
	return nil
}

// ParseValue maps every key and value through the respective field,
// preserving the input's concrete mapping type and iteration order.
func (f *MapField) ParseValue(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return f.mapEntries(v, f.key.ParseValue, f.value.ParseValue)
}

// ToStruct mirrors ParseValue with the respective serialization hooks.
func (f *MapField) ToStruct(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return f.mapEntries(v, f.key.ToStruct, f.value.ToStruct)
}

// Validate runs the base pipeline on the whole mapping, then every key and
// value through the respective field's validation.
func (f *MapField) Validate(v any) error {
	if err := f.base.Validate(v); err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	var rerr error
	err := rangeMapping(v, func(k, e any) bool {
		if err := f.key.Validate(k); err != nil {
			rerr = err
			return false
		}
		if err := f.value.Validate(e); err != nil {
			rerr = err
			return false
		}
		return true
	})
	if err != nil {
		return err
	}
	return rerr
}

func (f *MapField) Schema() (*js.Schema, error) { return &js.Schema{Type: "object"}, nil }

type entryFunc func(any) (any, error)

func (f *MapField) mapEntries(v any, keyFn, valueFn entryFunc) (any, error) {
	switch t := v.(type) {
	case *OrderedMap:
		out := NewOrderedMap()
		var rerr error
		t.Range(func(k, e any) bool {
			pk, err := keyFn(k)
			if err != nil {
				rerr = err
				return false
			}
			pe, err := valueFn(e)
			if err != nil {
				rerr = err
				return false
			}
			out.Set(pk, pe)
			return true
		})
		if rerr != nil {
			return nil, rerr
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			pk, err := keyFn(k)
			if err != nil {
				return nil, err
			}
			pe, err := valueFn(e)
			if err != nil {
				return nil, err
			}
			ks, ok := pk.(string)
			if !ok {
				return nil, fmt.Errorf("parsed key %v is not a string", pk)
			}
			out[ks] = pe
		}
		return out, nil
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Map {
			return v, nil
		}
		out := NewOrderedMap()
		for _, k := range rv.MapKeys() {
			pk, err := keyFn(k.Interface())
			if err != nil {
				return nil, err
			}
			pe, err := valueFn(rv.MapIndex(k).Interface())
			if err != nil {
				return nil, err
			}
			out.Set(pk, pe)
		}
		return out, nil
	}
}

func rangeMapping(v any, fn func(k, e any) bool) error {
	switch t := v.(type) {
	case *OrderedMap:
		t.Range(fn)
		return nil
	case map[string]any:
		for k, e := range t {
			if !fn(k, e) {
				return nil
			}
		}
		return nil
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Map {
			return fmt.Errorf("not a mapping: %T", v)
		}
		for _, k := range rv.MapKeys() {
			if !fn(k.Interface(), rv.MapIndex(k).Interface()) {
				return nil
			}
		}
		return nil
	}
}

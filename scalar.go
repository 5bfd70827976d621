package jsonmodels

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"

	js "github.com/Ultimaker/jsonmodels/jsonschema"
)

// StringField accepts string values as-is.
type StringField struct{ base }

// NewString builds a string field.
func NewString(opts ...Option) *StringField {
	f := &StringField{newBase(TypeSet{Of[string]()}, applyOptions(opts))}
	validateDefault(f)
	return f
}

func (f *StringField) Schema() (*js.Schema, error) { return &js.Schema{Type: "string"}, nil }

// IntField accepts integers and coerces strings and numbers to int.
type IntField struct{ base }

// NewInt builds an integer field.
func NewInt(opts ...Option) *IntField {
	f := &IntField{newBase(TypeSet{Of[int]()}, applyOptions(opts))}
	validateDefault(f)
	return f
}

// ParseValue casts the value to int, for example from a string or a JSON
// number. A failed conversion is reported as a bad-type error, never as the
// native conversion error.
func (f *IntField) ParseValue(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t := v.(type) {
	case int:
		return t, nil
	case int8:
		return int(t), nil
	case int16:
		return int(t), nil
	case int32:
		return int(t), nil
	case int64:
		return int(t), nil
	case uint:
		return int(t), nil
	case uint8:
		return int(t), nil
	case uint16:
		return int(t), nil
	case uint32:
		return int(t), nil
	case uint64:
		return int(t), nil
	case float32:
		return int(t), nil
	case float64:
		return int(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i), nil
		}
		if fl, err := strconv.ParseFloat(t.String(), 64); err == nil {
			return int(fl), nil
		}
		return nil, &BadTypeError{Value: v, Types: f.types}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return i, nil
		}
		return nil, &BadTypeError{Value: v, Types: f.types}
	default:
		return nil, &BadTypeError{Value: v, Types: f.types}
	}
}

func (f *IntField) Schema() (*js.Schema, error) { return &js.Schema{Type: "integer"}, nil }

// FloatField accepts floats and ints; no coercion beyond unwrapping JSON
// numbers produced by the wire codecs.
type FloatField struct{ base }

// NewFloat builds a float field.
func NewFloat(opts ...Option) *FloatField {
	f := &FloatField{newBase(TypeSet{Of[float64](), Of[int]()}, applyOptions(opts))}
	validateDefault(f)
	return f
}

func (f *FloatField) ParseValue(v any) (any, error) {
	switch t := v.(type) {
	case json.Number:
		fl, err := strconv.ParseFloat(t.String(), 64)
		if err != nil {
			return nil, &BadTypeError{Value: v, Types: f.types}
		}
		return fl, nil
	case float32:
		return float64(t), nil
	default:
		return v, nil
	}
}

func (f *FloatField) Schema() (*js.Schema, error) { return &js.Schema{Type: "number"}, nil }

// BoolField casts any non-nil input to its boolean truthiness.
type BoolField struct{ base }

// NewBool builds a boolean field.
func NewBool(opts ...Option) *BoolField {
	f := &BoolField{newBase(TypeSet{Of[bool]()}, applyOptions(opts))}
	validateDefault(f)
	return f
}

func (f *BoolField) ParseValue(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return truthy(v), nil
}

func (f *BoolField) Schema() (*js.Schema, error) { return &js.Schema{Type: "boolean"}, nil }

// truthy mirrors duck-typed boolean casting: empty strings, zero numbers
// and empty containers are false, everything else true.
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := strconv.ParseFloat(t.String(), 64)
		return err != nil || f != 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() != 0
	case reflect.Ptr, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// GenericField accepts any value and serializes nested shape instances,
// sequences and mappings recursively into JSON-safe structures, preserving
// mapping order and concrete mapping type.
type GenericField struct{ base }

// NewGeneric builds a field without type constraints.
func NewGeneric(opts ...Option) *GenericField {
	f := &GenericField{newBase(TypeSet{anyType{}}, applyOptions(opts))}
	validateDefault(f)
	return f
}

func (f *GenericField) ToStruct(v any) (any, error) {
	switch t := v.(type) {
	case *Instance:
		return t.ToStruct()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			se, err := f.ToStruct(e)
			if err != nil {
				return nil, err
			}
			out[i] = se
		}
		return out, nil
	case *OrderedMap:
		out := NewOrderedMap()
		var rerr error
		t.Range(func(k, e any) bool {
			sk, err := f.ToStruct(k)
			if err != nil {
				rerr = err
				return false
			}
			se, err := f.ToStruct(e)
			if err != nil {
				rerr = err
				return false
			}
			out.Set(sk, se)
			return true
		})
		return out, rerr
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			se, err := f.ToStruct(e)
			if err != nil {
				return nil, err
			}
			out[k] = se
		}
		return out, nil
	default:
		return v, nil
	}
}

func (f *GenericField) Schema() (*js.Schema, error) { return &js.Schema{}, nil }

package jsonmodels

import (
	"bytes"
	"fmt"
	"reflect"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// OrderedMap is a mapping that preserves key insertion order. It is the
// order-faithful mapping type used by map fields, generic serialization and
// the JSON/YAML codecs. Keys must be comparable.
type OrderedMap struct {
	keys   []any
	values map[any]any
}

// NewOrderedMap returns an empty ordered map.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{values: map[any]any{}}
}

// OrderedMapOf builds an ordered map from alternating key/value pairs.
func OrderedMapOf(pairs ...any) *OrderedMap {
	if len(pairs)%2 != 0 {
		panic("jsonmodels: OrderedMapOf needs an even number of arguments")
	}
	m := NewOrderedMap()
	for i := 0; i < len(pairs); i += 2 {
		m.Set(pairs[i], pairs[i+1])
	}
	return m
}

// Set stores a value, keeping the key's first-insertion position.
func (m *OrderedMap) Set(key, value any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get fetches a value by key.
func (m *OrderedMap) Get(key any) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Delete removes a key, preserving the order of the remaining keys.
func (m *OrderedMap) Delete(key any) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Len is the number of entries.
func (m *OrderedMap) Len() int { return len(m.keys) }

// Keys returns the keys in insertion order.
func (m *OrderedMap) Keys() []any {
	return append([]any{}, m.keys...)
}

// Range calls fn for each entry in insertion order until fn returns false.
func (m *OrderedMap) Range(fn func(key, value any) bool) {
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// Equal reports entry-wise equality including order.
func (m *OrderedMap) Equal(other *OrderedMap) bool {
	if other == nil || m.Len() != other.Len() {
		return false
	}
	for i, k := range m.keys {
		if other.keys[i] != k {
			return false
		}
		if !reflect.DeepEqual(m.values[k], other.values[k]) {
			return false
		}
	}
	return true
}

func (m *OrderedMap) String() string {
	var b bytes.Buffer
	b.WriteString("OrderedMap{")
	for i, k := range m.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v: %v", k, m.values[k])
	}
	b.WriteString("}")
	return b.String()
}

// MarshalJSON renders the entries as a JSON object in insertion order.
// Non-string keys render through their default string form.
func (m *OrderedMap) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		ks, ok := k.(string)
		if !ok {
			ks = fmt.Sprint(k)
		}
		kb, err := gojson.Marshal(ks)
		if err != nil {
			return nil, err
		}
		b.Write(kb)
		b.WriteByte(':')
		vb, err := gojson.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		b.Write(vb)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving key order.
func (m *OrderedMap) UnmarshalJSON(data []byte) error {
	v, err := DecodeJSON(data)
	if err != nil {
		return err
	}
	om, ok := v.(*OrderedMap)
	if !ok {
		return fmt.Errorf("expected JSON object, got %T", v)
	}
	*m = *om
	return nil
}

// MarshalYAML renders the entries as a YAML mapping in insertion order.
func (m *OrderedMap) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range m.keys {
		var kn, vn yaml.Node
		if err := kn.Encode(k); err != nil {
			return nil, err
		}
		if err := vn.Encode(m.values[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &kn, &vn)
	}
	return node, nil
}

// UnmarshalYAML decodes a YAML mapping preserving key order.
func (m *OrderedMap) UnmarshalYAML(node *yaml.Node) error {
	v, err := decodeYAMLNode(node)
	if err != nil {
		return err
	}
	om, ok := v.(*OrderedMap)
	if !ok {
		return fmt.Errorf("expected YAML mapping, got %T", v)
	}
	*m = *om
	return nil
}

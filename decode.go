package jsonmodels

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// DecodeJSON decodes a JSON document into order-preserving generic values:
// objects become *OrderedMap, arrays []any, numbers json.Number, plus
// string, bool and nil.
func DecodeJSON(data []byte) (any, error) {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON document")
	}
	return v, nil
}

func decodeJSONValue(dec *gojson.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeJSONToken(dec, tok)
}

func decodeJSONToken(dec *gojson.Decoder, tok gojson.Token) (any, error) {
	switch t := tok.(type) {
	case gojson.Delim:
		switch t {
		case '{':
			out := NewOrderedMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T, not string", keyTok)
				}
				v, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				out.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return out, nil
		case '[':
			out := []any{}
			for dec.More() {
				v, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				out = append(out, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return out, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	default:
		return tok, nil
	}
}

// DecodeYAML decodes a YAML document into the same order-preserving generic
// values as DecodeJSON, with numbers as int64 or float64.
func DecodeYAML(data []byte) (any, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if node.Kind == 0 {
		return nil, nil
	}
	return decodeYAMLNode(&node)
}

func decodeYAMLNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return decodeYAMLNode(node.Content[0])
	case yaml.AliasNode:
		return decodeYAMLNode(node.Alias)
	case yaml.MappingNode:
		out := NewOrderedMap()
		for i := 0; i+1 < len(node.Content); i += 2 {
			k, err := decodeYAMLNode(node.Content[i])
			if err != nil {
				return nil, err
			}
			v, err := decodeYAMLNode(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			out.Set(k, v)
		}
		return out, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, c := range node.Content {
			v, err := decodeYAMLNode(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		return decodeYAMLScalar(node)
	default:
		return nil, fmt.Errorf("unsupported YAML node kind %d", node.Kind)
	}
}

func decodeYAMLScalar(node *yaml.Node) (any, error) {
	switch node.Tag {
	case "!!null":
		return nil, nil
	case "!!bool":
		return strconv.ParseBool(strings.ToLower(node.Value))
	case "!!int":
		i, err := strconv.ParseInt(node.Value, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("parse YAML int %q: %w", node.Value, err)
		}
		return i, nil
	case "!!float":
		f, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("parse YAML float %q: %w", node.Value, err)
		}
		return f, nil
	default:
		return node.Value, nil
	}
}

// FromJSON decodes a JSON object and constructs an instance from it.
func (s *Shape) FromJSON(data []byte) (*Instance, error) {
	v, err := DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	return s.fromDecoded(v)
}

// FromYAML decodes a YAML mapping and constructs an instance from it.
func (s *Shape) FromYAML(data []byte) (*Instance, error) {
	v, err := DecodeYAML(data)
	if err != nil {
		return nil, err
	}
	return s.fromDecoded(v)
}

func (s *Shape) fromDecoded(v any) (*Instance, error) {
	kwargs, _, ok := asKwargs(v)
	if !ok {
		return nil, fmt.Errorf("document root is %T, not an object", v)
	}
	return s.New(kwargs)
}

// ToJSON renders the instance as a JSON object with fields in declaration
// order.
func (i *Instance) ToJSON() ([]byte, error) {
	st, err := i.ToStruct()
	if err != nil {
		return nil, err
	}
	return gojson.Marshal(st)
}

// ToYAML renders the instance as a YAML mapping with fields in declaration
// order.
func (i *Instance) ToYAML() ([]byte, error) {
	st, err := i.ToStruct()
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(st)
}

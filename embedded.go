package jsonmodels

import (
	"fmt"

	js "github.com/Ultimaker/jsonmodels/jsonschema"
)

// EmbeddedField holds a nested shape instance. With several candidate
// shapes, dict payloads are disambiguated structurally: the single
// candidate whose declared wire-name set covers the payload's keys wins.
type EmbeddedField struct {
	base
	resolved bool
}

// Candidates collects the candidate types of an embedded field.
func Candidates(refs ...TypeRef) []TypeRef { return refs }

// NewEmbedded builds an embedded field over the candidate shapes; string
// paths wrapped with Lazy resolve on first use against the owning shape's
// namespace.
func NewEmbedded(candidates []TypeRef, opts ...Option) *EmbeddedField {
	f := &EmbeddedField{base: newBase(TypeSet(candidates), applyOptions(opts))}
	validateDefault(f)
	return f
}

func (f *EmbeddedField) Resolve(owner *Shape) error {
	if f.resolved || !f.types.hasLazy() {
		f.resolved = true
		return nil
	}
	resolved, err := f.types.resolve(owner)
	if err != nil {
		return err
	}
	f.types = resolved
	f.resolved = true
	return nil
}

// ParseValue constructs a candidate instance from dict payloads; anything
// else passes through unchanged.
func (f *EmbeddedField) ParseValue(v any) (any, error) {
	kwargs, keys, ok := asKwargs(v)
	if !ok {
		return v, nil
	}
	shape, err := resolveEmbedShape(keys, f.types)
	if err != nil {
		return nil, err
	}
	return shape.New(kwargs)
}

// Validate runs the base pipeline, then the stored instance's own
// validation. Values without the contract are accepted at this stage.
func (f *EmbeddedField) Validate(v any) error {
	if err := f.base.Validate(v); err != nil {
		return err
	}
	if inst, ok := v.(*Instance); ok {
		return inst.Validate()
	}
	return nil
}

func (f *EmbeddedField) ToStruct(v any) (any, error) {
	if st, ok := v.(structer); ok {
		return st.ToStruct()
	}
	return v, nil
}

func (f *EmbeddedField) Schema() (*js.Schema, error) { return &js.Schema{}, nil }

type structer interface{ ToStruct() (any, error) }

// resolveEmbedShape picks the shape to construct from a dict payload.
// A single candidate is constructed directly, without any structural check.
// With several candidates, exactly one whose precomputed wire-name set is a
// superset of the payload's keys must match.
func resolveEmbedShape(payloadKeys []string, candidates TypeSet) (*Shape, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no candidate types declared")
	}
	if len(candidates) == 1 {
		s, ok := candidates[0].(*Shape)
		if !ok {
			return nil, fmt.Errorf("embed candidate %q is not a shape", candidates[0].TypeName())
		}
		return s, nil
	}

	var match *Shape
	matches := 0
	for _, c := range candidates {
		s, ok := c.(*Shape)
		if !ok {
			continue
		}
		if s.coversKeys(payloadKeys) {
			match = s
			matches++
		}
	}
	if matches != 1 {
		return nil, &AmbiguousTypeError{Types: candidates}
	}
	return match, nil
}

// asKwargs views dict-like payloads as keyword arguments plus their key
// order. Non-dict values report ok=false.
func asKwargs(v any) (kwargs map[string]any, keys []string, ok bool) {
	switch t := v.(type) {
	case map[string]any:
		kwargs = t
		keys = make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		return kwargs, keys, true
	case *OrderedMap:
		kwargs = make(map[string]any, t.Len())
		keys = make([]string, 0, t.Len())
		bad := false
		t.Range(func(k, e any) bool {
			ks, isStr := k.(string)
			if !isStr {
				bad = true
				return false
			}
			kwargs[ks] = e
			keys = append(keys, ks)
			return true
		})
		if bad {
			return nil, nil, false
		}
		return kwargs, keys, true
	default:
		return nil, nil, false
	}
}

package jsonmodels

import (
	"fmt"
	"sort"
	"strings"
)

// FieldDef binds an attribute name to a field inside a shape.
type FieldDef struct {
	Attr  string
	Field Field
}

// F is shorthand for a FieldDef.
func F(attr string, field Field) FieldDef { return FieldDef{Attr: attr, Field: field} }

// ShapeOption configures a shape at declaration time.
type ShapeOption func(*shapeConfig)

type shapeConfig struct {
	namespace string
	registry  *Registry
}

// Namespace places the shape in a dotted namespace; lazy type references
// declared by its fields resolve relative to it.
func Namespace(ns string) ShapeOption { return func(c *shapeConfig) { c.namespace = ns } }

// UseRegistry registers the shape into a specific registry instead of the
// process-wide one.
func UseRegistry(r *Registry) ShapeOption { return func(c *shapeConfig) { c.registry = r } }

// Shape is a declared data contract: a named, ordered, queryable field
// registry. Shapes register themselves for lazy resolution when created and
// precompute their wire-name set for polymorphic disambiguation.
type Shape struct {
	name      string
	namespace string
	registry  *Registry
	defs      []FieldDef
	index     map[string]int
	wireNames map[string]struct{}
}

// NewShape declares and registers a shape. Duplicate wire names across
// fields are a declaration-time panic.
func NewShape(name string, fields []FieldDef, opts ...ShapeOption) *Shape {
	c := shapeConfig{registry: DefaultRegistry()}
	for _, o := range opts {
		o(&c)
	}
	s := &Shape{
		name:      name,
		namespace: c.namespace,
		registry:  c.registry,
		defs:      append([]FieldDef{}, fields...),
		index:     make(map[string]int, len(fields)),
		wireNames: make(map[string]struct{}, len(fields)),
	}
	for i, def := range s.defs {
		wire := def.Field.Descriptor().StructureName(def.Attr)
		if _, taken := s.wireNames[wire]; taken {
			panic(fmt.Sprintf("jsonmodels: name taken: %q in shape %s", wire, name))
		}
		s.wireNames[wire] = struct{}{}
		s.index[def.Attr] = i
	}
	s.registry.add(s)
	return s
}

// Name is the shape's declared name.
func (s *Shape) Name() string { return s.name }

// Namespace is the shape's dotted namespace, possibly empty.
func (s *Shape) Namespace() string { return s.namespace }

// FullName is the registry key: namespace-qualified name.
func (s *Shape) FullName() string { return registryKey(s.namespace, s.name) }

// Fields returns the ordered field registry.
func (s *Shape) Fields() []FieldDef { return append([]FieldDef{}, s.defs...) }

// Field finds a declared field by attribute name.
func (s *Shape) Field(attr string) (Field, error) {
	i, ok := s.index[attr]
	if !ok {
		return nil, &FieldNotFoundError{Field: attr}
	}
	return s.defs[i].Field, nil
}

// WireNames returns the precomputed set of field wire names.
func (s *Shape) WireNames() []string {
	out := make([]string, 0, len(s.wireNames))
	for n := range s.wireNames {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (s *Shape) coversKeys(keys []string) bool {
	for _, k := range keys {
		if _, ok := s.wireNames[k]; !ok {
			return false
		}
	}
	return true
}

// Contains makes a shape usable as a TypeRef: it accepts its own instances.
func (s *Shape) Contains(v any) bool {
	inst, ok := v.(*Instance)
	return ok && inst.shape == s
}

// TypeName implements TypeRef.
func (s *Shape) TypeName() string { return s.name }

// New constructs an instance from keyword arguments. Wire names are matched
// first, then attribute names; unknown keys are skipped.
func (s *Shape) New(kwargs map[string]any) (*Instance, error) {
	inst := &Instance{
		shape:  s,
		values: make([]any, len(s.defs)),
		stored: make([]bool, len(s.defs)),
	}
	if err := inst.populate(kwargs); err != nil {
		return nil, err
	}
	return inst, nil
}

// MustNew is New, panicking on error. Intended for static fixtures.
func (s *Shape) MustNew(kwargs map[string]any) *Instance {
	inst, err := s.New(kwargs)
	if err != nil {
		panic(err)
	}
	return inst
}

// Instance is one value of a shape. Each declared field has a pre-allocated
// storage slot; a slot materializes its default on first read.
type Instance struct {
	shape  *Shape
	values []any
	stored []bool
}

// Shape returns the instance's shape.
func (i *Instance) Shape() *Shape { return i.shape }

func (i *Instance) populate(kwargs map[string]any) error {
	used := make(map[string]bool, len(kwargs))
	for _, def := range i.shape.defs {
		wire := def.Field.Descriptor().StructureName(def.Attr)
		if v, ok := kwargs[wire]; ok && !used[wire] {
			used[wire] = true
			if err := i.Set(def.Attr, v); err != nil {
				return err
			}
		}
	}
	for _, def := range i.shape.defs {
		if v, ok := kwargs[def.Attr]; ok && !used[def.Attr] {
			used[def.Attr] = true
			if err := i.Set(def.Attr, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// Set parses, validates and stores a value. On failure the slot is left
// untouched and the error carries the shape and field context.
func (i *Instance) Set(attr string, v any) error {
	idx, ok := i.shape.index[attr]
	if !ok {
		return &FieldNotFoundError{Field: attr}
	}
	if err := i.setSlot(idx, v); err != nil {
		return &FieldError{Model: i.shape.name, Field: attr, Value: v, Err: err}
	}
	return nil
}

func (i *Instance) setSlot(idx int, raw any) error {
	f := i.shape.defs[idx].Field
	if err := f.Resolve(i.shape); err != nil {
		return err
	}
	parsed, err := f.ParseValue(raw)
	if err != nil {
		return err
	}
	if err := f.Validate(parsed); err != nil {
		return err
	}
	i.values[idx] = parsed
	i.stored[idx] = true
	return nil
}

// Get returns a field's stored value. A never-set field materializes its
// default through the same parse, validate and store path as Set, exactly
// once; reading a required field that was never set fails the required
// check.
func (i *Instance) Get(attr string) (any, error) {
	idx, ok := i.shape.index[attr]
	if !ok {
		return nil, &FieldNotFoundError{Field: attr}
	}
	f := i.shape.defs[idx].Field
	if !i.stored[idx] {
		if err := i.setSlot(idx, f.DefaultValue()); err != nil {
			return nil, &FieldError{Model: i.shape.name, Field: attr, Err: err}
		}
	}
	return i.values[idx], nil
}

// MustGet is Get, panicking on error.
func (i *Instance) MustGet(attr string) any {
	v, err := i.Get(attr)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate explicitly runs every field's validation over the instance,
// materializing defaults on the way, and recurses into nested instances.
func (i *Instance) Validate() error {
	for _, def := range i.shape.defs {
		v, err := i.Get(def.Attr)
		if err != nil {
			return err
		}
		if err := def.Field.Validate(v); err != nil {
			return &FieldError{Model: i.shape.name, Field: def.Attr, Value: v, Err: err}
		}
		if err := deepValidate(v); err != nil {
			return &FieldError{Model: i.shape.name, Field: def.Attr, Value: v, Err: err}
		}
	}
	return nil
}

// deepValidate follows nested instances inside container values; shallow
// per-field checks already ran.
func deepValidate(v any) error {
	switch t := v.(type) {
	case *Instance:
		return t.Validate()
	case []any:
		for _, e := range t {
			if err := deepValidate(e); err != nil {
				return err
			}
		}
		return nil
	case *OrderedMap:
		var rerr error
		t.Range(func(_, e any) bool {
			rerr = deepValidate(e)
			return rerr == nil
		})
		return rerr
	case map[string]any:
		for _, e := range t {
			if err := deepValidate(e); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

// ToStruct casts the instance to a JSON-primitive-safe, declaration-ordered
// mapping. Nil values of non-required fields are omitted, as are
// collections configured to omit when empty.
func (i *Instance) ToStruct() (any, error) {
	out := NewOrderedMap()
	for _, def := range i.shape.defs {
		v, err := i.Get(def.Attr)
		if err != nil {
			return nil, err
		}
		d := def.Field.Descriptor()
		if v == nil {
			if d.Required {
				return nil, &FieldError{Model: i.shape.name, Field: def.Attr, Err: &RequiredError{}}
			}
			continue
		}
		sv, err := def.Field.ToStruct(v)
		if err != nil {
			return nil, &FieldError{Model: i.shape.name, Field: def.Attr, Value: v, Err: err}
		}
		if sv == nil {
			continue
		}
		out.Set(d.StructureName(def.Attr), sv)
	}
	return out, nil
}

// ToNative mirrors ToStruct through each field's native-encoding hook, for
// binary document encodings that keep richer native types.
func (i *Instance) ToNative() (any, error) {
	out := NewOrderedMap()
	for _, def := range i.shape.defs {
		v, err := i.Get(def.Attr)
		if err != nil {
			return nil, err
		}
		d := def.Field.Descriptor()
		if v == nil {
			if d.Required {
				return nil, &FieldError{Model: i.shape.name, Field: def.Attr, Err: &RequiredError{}}
			}
			continue
		}
		nv, err := ToNative(def.Field, v)
		if err != nil {
			return nil, &FieldError{Model: i.shape.name, Field: def.Attr, Value: v, Err: err}
		}
		if nv == nil {
			continue
		}
		out.Set(d.StructureName(def.Attr), nv)
	}
	return out, nil
}

// Equal compares two instances field by field. Instances of different
// shapes are never equal.
func (i *Instance) Equal(other *Instance) bool {
	if other == nil || i.shape != other.shape {
		return false
	}
	for _, def := range i.shape.defs {
		ours, err := i.Get(def.Attr)
		if err != nil {
			ours = nil
		}
		theirs, err := other.Get(def.Attr)
		if err != nil {
			theirs = nil
		}
		if !valuesEqual(ours, theirs) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b any) bool {
	if ai, ok := a.(*Instance); ok {
		bi, ok := b.(*Instance)
		return ok && ai.Equal(bi)
	}
	if am, ok := a.(*OrderedMap); ok {
		bm, ok := b.(*OrderedMap)
		return ok && am.Equal(bm)
	}
	if as, ok := a.([]any); ok {
		bs, ok := b.([]any)
		if !ok || len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !valuesEqual(as[i], bs[i]) {
				return false
			}
		}
		return true
	}
	return a == b
}

func (i *Instance) String() string {
	attrs := make([]string, 0, len(i.shape.defs))
	for _, def := range i.shape.defs {
		v, err := i.Get(def.Attr)
		if err != nil || v == nil {
			continue
		}
		attrs = append(attrs, fmt.Sprintf("%s=%v", def.Attr, v))
	}
	sort.Strings(attrs)
	return fmt.Sprintf("%s(%s)", i.shape.name, strings.Join(attrs, ", "))
}

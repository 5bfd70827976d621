package jsonmodels

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// TypeRef is one member of a field's accepted-type set. Concrete
// implementations cover Go types, declared shapes and lazy dotted-path
// references to shapes that may not exist yet.
type TypeRef interface {
	// Contains reports whether the value belongs to this type.
	Contains(v any) bool
	// TypeName is the human-readable name used in error messages.
	TypeName() string
}

// TypeSet is an ordered accepted-type set.
type TypeSet []TypeRef

// Contains reports whether any member accepts the value.
func (ts TypeSet) Contains(v any) bool {
	for _, t := range ts {
		if t.Contains(v) {
			return true
		}
	}
	return false
}

// Names returns the member names in declaration order.
func (ts TypeSet) Names() []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.TypeName()
	}
	return out
}

func (ts TypeSet) String() string { return strings.Join(ts.Names(), ", ") }

// resolve replaces lazy references with registry lookups relative to the
// declaring shape. Idempotent; already-resolved members pass through.
func (ts TypeSet) resolve(owner *Shape) (TypeSet, error) {
	out := make(TypeSet, len(ts))
	for i, t := range ts {
		if l, ok := t.(*lazyRef); ok {
			s, err := l.evaluate(owner)
			if err != nil {
				return nil, err
			}
			out[i] = s
			continue
		}
		out[i] = t
	}
	return out, nil
}

func (ts TypeSet) hasLazy() bool {
	for _, t := range ts {
		if _, ok := t.(*lazyRef); ok {
			return true
		}
	}
	return false
}

// goType matches exactly one Go type.
type goType struct{ rt reflect.Type }

// Of returns a TypeRef for the Go type T.
func Of[T any]() TypeRef { return goType{rt: reflect.TypeOf((*T)(nil)).Elem()} }

func (t goType) Contains(v any) bool {
	if v == nil {
		return false
	}
	rt := reflect.TypeOf(v)
	if rt == t.rt {
		return true
	}
	return t.rt.Kind() == reflect.Interface && rt.Implements(t.rt)
}

func (t goType) TypeName() string { return t.rt.String() }

// anyType accepts everything, including nil.
type anyType struct{}

func (anyType) Contains(any) bool { return true }
func (anyType) TypeName() string  { return "any" }

// sequenceType accepts any slice or array value.
type sequenceType struct{}

func (sequenceType) Contains(v any) bool {
	if v == nil {
		return false
	}
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

func (sequenceType) TypeName() string { return "list" }

// mappingType accepts map values and *OrderedMap.
type mappingType struct{}

func (mappingType) Contains(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(*OrderedMap); ok {
		return true
	}
	return reflect.TypeOf(v).Kind() == reflect.Map
}

func (mappingType) TypeName() string { return "map" }

// lazyRef is a deferred dotted-path pointer to a shape, resolved against the
// declaring shape's namespace on first use.
type lazyRef struct{ path string }

// Lazy returns a TypeRef for a dotted shape path, absolute
// ("pets.models.Dog") or relative with leading dots (".Dog" for the
// declaring shape's own namespace, "..shared.Dog" one level up, and so on).
func Lazy(path string) TypeRef { return &lazyRef{path: path} }

// Contains is always false before resolution; Set/Get resolve the reference
// before any membership check runs.
func (*lazyRef) Contains(any) bool { return false }

func (l *lazyRef) TypeName() string { return l.path }

func (l *lazyRef) evaluate(owner *Shape) (*Shape, error) {
	namespace, name, err := evaluatePath(l.path, owner.namespace)
	if err != nil {
		return nil, err
	}
	reg := owner.registry
	if reg == nil {
		reg = DefaultRegistry()
	}
	s, ok := reg.Lookup(namespace, name)
	if !ok {
		return nil, fmt.Errorf("can't find type '%s.%s'", namespace, name)
	}
	return s, nil
}

// evaluatePath splits a dotted path into the namespace to search and the
// type name. Leading dots address relative to the base namespace: one dot is
// the base namespace itself, each additional dot strips one trailing
// segment. Asking for more levels up than the base has is a hard error.
func evaluatePath(path, base string) (namespace, name string, err error) {
	canonical := strings.TrimLeft(path, ".")
	if canonical == "" {
		return "", "", fmt.Errorf("can't evaluate path '%s'", path)
	}
	segments := strings.Split(canonical, ".")

	if strings.HasPrefix(path, ".") {
		dots := len(path) - len(canonical)
		parents := dots - 1
		baseSegments := []string{}
		if base != "" {
			baseSegments = strings.Split(base, ".")
		}
		if parents > len(baseSegments) {
			return "", "", fmt.Errorf("can't evaluate path '%s'", path)
		}
		// A single dot addresses the base namespace itself; each extra dot
		// strips one trailing base segment.
		if parents > 0 {
			baseSegments = baseSegments[:len(baseSegments)-parents]
		}
		segments = append(append([]string{}, baseSegments...), segments...)
	}

	name = segments[len(segments)-1]
	// Stripping every namespace segment falls back to the base namespace,
	// never the root.
	namespace = strings.Join(segments[:len(segments)-1], ".")
	if namespace == "" {
		namespace = base
	}
	return namespace, name, nil
}

// Registry maps namespaced shape names to shapes for lazy resolution.
type Registry struct {
	mu     sync.RWMutex
	shapes map[string]*Shape
}

// NewRegistry returns an empty, isolated registry.
func NewRegistry() *Registry {
	return &Registry{shapes: map[string]*Shape{}}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry is the process-wide registry shapes register into unless
// configured otherwise.
func DefaultRegistry() *Registry { return defaultRegistry }

func (r *Registry) add(s *Shape) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shapes[registryKey(s.namespace, s.name)] = s
}

// Lookup finds a shape by namespace and name.
func (r *Registry) Lookup(namespace, name string) (*Shape, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.shapes[registryKey(namespace, name)]
	return s, ok
}

func registryKey(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}

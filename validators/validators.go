// Package validators provides the stock value validators: numeric bounds,
// regular expressions, length constraints and enumerations. Every validator
// also contributes its constraint to the owning field's schema fragment.
package validators

import (
	"fmt"
	"reflect"
	"regexp"
	"unicode/utf8"

	"github.com/Ultimaker/jsonmodels"
	"github.com/Ultimaker/jsonmodels/internal/regexconv"
	js "github.com/Ultimaker/jsonmodels/jsonschema"
)

// Min requires values to be at least, or with Exclusive strictly above, the
// threshold.
type Min struct {
	Minimum   float64
	Exclusive bool
}

func (v Min) Validate(value any) error {
	n, ok := asNumber(value)
	if !ok {
		return &jsonmodels.BadTypeError{Value: value, Types: numericTypes()}
	}
	if v.Exclusive {
		if n <= v.Minimum {
			return &jsonmodels.MinError{Value: value, Minimum: v.Minimum, Exclusive: true}
		}
		return nil
	}
	if n < v.Minimum {
		return &jsonmodels.MinError{Value: value, Minimum: v.Minimum}
	}
	return nil
}

func (v Min) ModifySchema(s *js.Schema) {
	m := v.Minimum
	s.Minimum = &m
	s.ExclusiveMinimum = v.Exclusive
}

// Max requires values to be at most, or with Exclusive strictly below, the
// threshold.
type Max struct {
	Maximum   float64
	Exclusive bool
}

func (v Max) Validate(value any) error {
	n, ok := asNumber(value)
	if !ok {
		return &jsonmodels.BadTypeError{Value: value, Types: numericTypes()}
	}
	if v.Exclusive {
		if n >= v.Maximum {
			return &jsonmodels.MaxError{Value: value, Maximum: v.Maximum, Exclusive: true}
		}
		return nil
	}
	if n > v.Maximum {
		return &jsonmodels.MaxError{Value: value, Maximum: v.Maximum}
	}
	return nil
}

func (v Max) ModifySchema(s *js.Schema) {
	m := v.Maximum
	s.Maximum = &m
	s.ExclusiveMaximum = v.Exclusive
}

func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	case float32:
		return float64(t), true
	}
	return 0, false
}

func numericTypes() jsonmodels.TypeSet {
	return jsonmodels.TypeSet{jsonmodels.Of[int](), jsonmodels.Of[float64]()}
}

// Regex matches string values against a pattern. The match is a search, not
// anchored; anchor explicitly with ^ and $ when full-string matching is
// wanted. Patterns written as ECMA literals ("/^a/i") carry their own flags.
type Regex struct {
	pattern string
	flags   regexconv.Flags
	re      *regexp.Regexp
	custom  error
}

// RegexOption configures a Regex validator.
type RegexOption func(*Regex)

// IgnoreCase makes the match case-insensitive.
func IgnoreCase() RegexOption { return func(v *Regex) { v.flags.IgnoreCase = true } }

// Multiline makes ^ and $ match at line boundaries.
func Multiline() RegexOption { return func(v *Regex) { v.flags.Multiline = true } }

// CustomError replaces the default pattern error.
func CustomError(err error) RegexOption { return func(v *Regex) { v.custom = err } }

// NewRegex compiles a pattern validator. An ECMA literal pattern supplies
// its own flags; options add to them. Compilation failure panics, matching
// the convention for declaration-time mistakes.
func NewRegex(pattern string, opts ...RegexOption) *Regex {
	body, flags := regexconv.FromECMA(pattern)
	v := &Regex{pattern: body, flags: flags}
	for _, o := range opts {
		o(v)
	}
	v.re = regexp.MustCompile(v.flags.Prefix() + v.pattern)
	return v
}

func (v *Regex) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return &jsonmodels.BadTypeError{Value: value, Types: jsonmodels.TypeSet{jsonmodels.Of[string]()}}
	}
	if !v.re.MatchString(s) {
		if v.custom != nil {
			return v.custom
		}
		return &jsonmodels.PatternError{Value: s, Pattern: v.pattern}
	}
	return nil
}

// ModifySchema writes the pattern in ECMA literal form, the form JSON
// Schema consumers expect flags in.
func (v *Regex) ModifySchema(s *js.Schema) {
	s.Pattern = regexconv.ToECMA(v.pattern, v.flags)
}

// Length constrains the length of strings, in runes, and of sequences and
// mappings, in elements.
type Length struct {
	min *int
	max *int
}

// LengthOption configures a Length validator.
type LengthOption func(*Length)

// WithMinLength sets the inclusive lower bound.
func WithMinLength(n int) LengthOption { return func(v *Length) { v.min = &n } }

// WithMaxLength sets the inclusive upper bound.
func WithMaxLength(n int) LengthOption { return func(v *Length) { v.max = &n } }

// NewLength builds a length validator. At least one bound is mandatory;
// none panics at declaration time.
func NewLength(opts ...LengthOption) *Length {
	v := &Length{}
	for _, o := range opts {
		o(v)
	}
	if v.min == nil && v.max == nil {
		panic("validators: either minimum or maximum length must be specified")
	}
	return v
}

func (v *Length) Validate(value any) error {
	n, err := lengthOf(value)
	if err != nil {
		return err
	}
	if v.min != nil && n < *v.min {
		return &jsonmodels.MinLengthError{Value: value, Minimum: *v.min}
	}
	if v.max != nil && n > *v.max {
		return &jsonmodels.MaxLengthError{Value: value, Maximum: *v.max}
	}
	return nil
}

func lengthOf(v any) (int, error) {
	if s, ok := v.(string); ok {
		return utf8.RuneCountInString(s), nil
	}
	if om, ok := v.(*jsonmodels.OrderedMap); ok {
		return om.Len(), nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), nil
	}
	return 0, fmt.Errorf("value %v has no length", v)
}

// ModifySchema writes item-count bounds for array fields and string-length
// bounds otherwise.
func (v *Length) ModifySchema(s *js.Schema) {
	if s.Type == "array" {
		s.MinItems = v.min
		s.MaxItems = v.max
		return
	}
	s.MinLength = v.min
	s.MaxLength = v.max
}

// Enum requires the value to be one of a fixed choice set. Membership uses
// deep equality, so container choices work too.
type Enum struct {
	choices []any
}

// NewEnum builds an enumeration validator over the given choices.
func NewEnum(choices ...any) *Enum {
	return &Enum{choices: append([]any{}, choices...)}
}

func (v *Enum) Validate(value any) error {
	for _, c := range v.choices {
		if reflect.DeepEqual(value, c) {
			return nil
		}
	}
	return &jsonmodels.EnumError{Value: value, Choices: append([]any{}, v.choices...)}
}

func (v *Enum) ModifySchema(s *js.Schema) {
	s.Enum = append([]any{}, v.choices...)
}

var (
	_ jsonmodels.Validator         = Min{}
	_ jsonmodels.Validator         = Max{}
	_ jsonmodels.Validator         = (*Regex)(nil)
	_ jsonmodels.Validator         = (*Length)(nil)
	_ jsonmodels.Validator         = (*Enum)(nil)
	_ jsonmodels.SchemaContributor = Min{}
	_ jsonmodels.SchemaContributor = Max{}
	_ jsonmodels.SchemaContributor = (*Regex)(nil)
	_ jsonmodels.SchemaContributor = (*Length)(nil)
	_ jsonmodels.SchemaContributor = (*Enum)(nil)
)

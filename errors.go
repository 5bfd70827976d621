package jsonmodels

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Ultimaker/jsonmodels/i18n"
)

// Error codes (exported consts for IDE completion and type safety by convention)
const (
	CodeRequired      = "required"
	CodeInvalidType   = "invalid_type"
	CodeAmbiguousType = "ambiguous_type"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodePattern       = "pattern"
	CodeInvalidEnum   = "invalid_enum"
)

// coder is implemented by every validation error in this package.
type coder interface{ Code() string }

// ErrorCode extracts the stable code from a validation error, unwrapping
// FieldError context. It returns "" for foreign errors.
func ErrorCode(err error) string {
	for err != nil {
		if c, ok := err.(coder); ok {
			return c.Code()
		}
		err = errors.Unwrap(err)
	}
	return ""
}

// RequiredError reports a null value on a required field.
type RequiredError struct{}

func (*RequiredError) Error() string { return i18n.T(CodeRequired, nil) }
func (*RequiredError) Code() string  { return CodeRequired }

// BadTypeError reports a value outside a field's accepted type set.
// IsList marks violations raised for an element of a list-typed field.
type BadTypeError struct {
	Value  any
	Types  TypeSet
	IsList bool
}

func (e *BadTypeError) Error() string {
	if e.IsList {
		return fmt.Sprintf("%s: all items must be instances of %q, and not %q",
			i18n.T(CodeInvalidType, nil), e.Types.String(), typeName(e.Value))
	}
	return fmt.Sprintf("%s: expected type %q, received %v",
		i18n.T(CodeInvalidType, nil), e.Types.String(), e.Value)
}
func (*BadTypeError) Code() string { return CodeInvalidType }

// AmbiguousTypeError reports a dict payload whose structural match count
// among several polymorphic candidates differs from one.
type AmbiguousTypeError struct {
	Types TypeSet
}

func (e *AmbiguousTypeError) Error() string {
	return fmt.Sprintf("%s: cannot decide which type to choose from %q",
		i18n.T(CodeAmbiguousType, nil), e.Types.String())
}
func (*AmbiguousTypeError) Code() string { return CodeAmbiguousType }

// MinError reports a value under a Min validator threshold.
type MinError struct {
	Value     any
	Minimum   float64
	Exclusive bool
}

func (e *MinError) Error() string {
	if e.Exclusive {
		return fmt.Sprintf("%s: '%v' is lower or equal than minimum ('%v')",
			i18n.T(CodeTooSmall, nil), e.Value, e.Minimum)
	}
	return fmt.Sprintf("%s: '%v' is lower than minimum ('%v')",
		i18n.T(CodeTooSmall, nil), e.Value, e.Minimum)
}
func (*MinError) Code() string { return CodeTooSmall }

// MaxError reports a value over a Max validator threshold.
type MaxError struct {
	Value     any
	Maximum   float64
	Exclusive bool
}

func (e *MaxError) Error() string {
	if e.Exclusive {
		return fmt.Sprintf("%s: '%v' is bigger or equal than maximum ('%v')",
			i18n.T(CodeTooBig, nil), e.Value, e.Maximum)
	}
	return fmt.Sprintf("%s: '%v' is bigger than maximum ('%v')",
		i18n.T(CodeTooBig, nil), e.Value, e.Maximum)
}
func (*MaxError) Code() string { return CodeTooBig }

// MinLengthError reports a value shorter than a Length validator's lower bound.
type MinLengthError struct {
	Value   any
	Minimum int
}

func (e *MinLengthError) Error() string {
	return fmt.Sprintf("%s: value '%v' length is lower than allowed minimum '%d'",
		i18n.T(CodeTooShort, nil), e.Value, e.Minimum)
}
func (*MinLengthError) Code() string { return CodeTooShort }

// MaxLengthError reports a value longer than a Length validator's upper bound.
type MaxLengthError struct {
	Value   any
	Maximum int
}

func (e *MaxLengthError) Error() string {
	return fmt.Sprintf("%s: value '%v' length is bigger than allowed maximum '%d'",
		i18n.T(CodeTooLong, nil), e.Value, e.Maximum)
}
func (*MaxLengthError) Code() string { return CodeTooLong }

// PatternError reports a string that did not match a Regex validator pattern.
type PatternError struct {
	Value   string
	Pattern string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("%s: value %q did not match pattern %q",
		i18n.T(CodePattern, nil), e.Value, e.Pattern)
}
func (*PatternError) Code() string { return CodePattern }

// EnumError reports a value outside an Enum validator's choice set.
type EnumError struct {
	Value   any
	Choices []any
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("%s: value '%v'", i18n.T(CodeInvalidEnum, nil), e.Value)
}
func (*EnumError) Code() string { return CodeInvalidEnum }

// FieldError enriches a validation error with the shape and field that
// produced it.
type FieldError struct {
	Model string
	Field string
	Value any
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("error for field '%s.%s': %v", e.Model, e.Field, e.Err)
}
func (e *FieldError) Unwrap() error { return e.Err }

// FieldNotFoundError reports a lookup for an undeclared field.
type FieldNotFoundError struct {
	Field string
}

func (e *FieldNotFoundError) Error() string { return fmt.Sprintf("field not found: %s", e.Field) }

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", v), "*")
}

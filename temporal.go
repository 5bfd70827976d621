package jsonmodels

import (
	"fmt"
	"time"

	js "github.com/Ultimaker/jsonmodels/jsonschema"
)

// Serialization layouts. Time-valued fields render ISO-8601 unless a Layout
// option was supplied, in which case that layout governs rendering exactly.
const (
	timeLayout     = "15:04:05"
	dateLayout     = "2006-01-02"
	dateTimeLayout = time.RFC3339
)

var (
	timeParseLayouts = []string{
		"15:04:05.999999999Z07:00",
		"15:04:05.999999999",
		"15:04:05",
		"15:04",
	}
	dateParseLayouts = []string{
		dateLayout,
		time.RFC3339Nano,
		time.RFC3339,
	}
	dateTimeParseLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		dateLayout,
	}
)

func parseTemporal(s string, layouts []string) (time.Time, error) {
	var firstErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// TimeField holds a time of day.
type TimeField struct {
	base
	layout string
}

// NewTime builds a time-of-day field. The Layout option overrides the
// ISO-8601 serialization.
func NewTime(opts ...Option) *TimeField {
	c := applyOptions(opts)
	f := &TimeField{base: newBase(TypeSet{Of[time.Time]()}, c), layout: c.layout}
	validateDefault(f)
	return f
}

// ParseValue parses a string into a time value; time values pass through.
func (f *TimeField) ParseValue(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return t, nil
	case string:
		parsed, err := parseTemporal(t, timeParseLayouts)
		if err != nil {
			return nil, fmt.Errorf("parse time %q: %w", t, err)
		}
		return parsed, nil
	default:
		return v, nil
	}
}

func (f *TimeField) ToStruct(v any) (any, error) {
	t, ok := v.(time.Time)
	if !ok {
		return nil, &BadTypeError{Value: v, Types: f.types}
	}
	if f.layout != "" {
		return t.Format(f.layout), nil
	}
	return t.Format("15:04:05.999999999"), nil
}

func (f *TimeField) Schema() (*js.Schema, error) {
	return &js.Schema{Type: "string", Format: "time"}, nil
}

// DateField holds a calendar date.
type DateField struct {
	base
	layout string
}

// NewDate builds a date field. The Layout option overrides the default
// 2006-01-02 serialization.
func NewDate(opts ...Option) *DateField {
	c := applyOptions(opts)
	f := &DateField{base: newBase(TypeSet{Of[time.Time]()}, c), layout: c.layout}
	validateDefault(f)
	return f
}

// ParseValue parses a string into a date value; time values pass through.
func (f *DateField) ParseValue(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return t, nil
	case string:
		parsed, err := parseTemporal(t, dateParseLayouts)
		if err != nil {
			return nil, fmt.Errorf("parse date %q: %w", t, err)
		}
		return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, parsed.Location()), nil
	default:
		return v, nil
	}
}

func (f *DateField) ToStruct(v any) (any, error) {
	t, ok := v.(time.Time)
	if !ok {
		return nil, &BadTypeError{Value: v, Types: f.types}
	}
	if f.layout != "" {
		return t.Format(f.layout), nil
	}
	return t.Format(dateLayout), nil
}

// ToNative keeps the native time value for binary document encodings.
func (f *DateField) ToNative(v any) (any, error) { return v, nil }

func (f *DateField) Schema() (*js.Schema, error) {
	return &js.Schema{Type: "string", Format: "date"}, nil
}

// DateTimeField holds a date with time.
type DateTimeField struct {
	base
	layout string
}

// NewDateTime builds a datetime field. The Layout option overrides the
// RFC 3339 serialization.
func NewDateTime(opts ...Option) *DateTimeField {
	c := applyOptions(opts)
	f := &DateTimeField{base: newBase(TypeSet{Of[time.Time]()}, c), layout: c.layout}
	validateDefault(f)
	return f
}

// ParseValue parses a string into a datetime; time values and nil pass
// through, and an empty string parses to nil.
func (f *DateTimeField) ParseValue(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return t, nil
	case string:
		if t == "" {
			return nil, nil
		}
		parsed, err := parseTemporal(t, dateTimeParseLayouts)
		if err != nil {
			return nil, fmt.Errorf("parse datetime %q: %w", t, err)
		}
		return parsed, nil
	default:
		return v, nil
	}
}

func (f *DateTimeField) ToStruct(v any) (any, error) {
	t, ok := v.(time.Time)
	if !ok {
		return nil, &BadTypeError{Value: v, Types: f.types}
	}
	if f.layout != "" {
		return t.Format(f.layout), nil
	}
	return t.Format(dateTimeLayout), nil
}

func (f *DateTimeField) Schema() (*js.Schema, error) {
	return &js.Schema{Type: "string", Format: "date-time"}, nil
}

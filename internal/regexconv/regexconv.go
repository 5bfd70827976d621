// Package regexconv converts between ECMA-262 regex literals, the form JSON
// Schema's pattern keyword expects, and plain Go pattern strings.
package regexconv

import "strings"

// Flags are the pattern flags expressible in both regex dialects.
type Flags struct {
	IgnoreCase bool
	Multiline  bool
}

// Prefix renders the flags as a Go inline-flag group, or "" for no flags.
func (f Flags) Prefix() string {
	var b strings.Builder
	if f.IgnoreCase {
		b.WriteByte('i')
	}
	if f.Multiline {
		b.WriteByte('m')
	}
	if b.Len() == 0 {
		return ""
	}
	return "(?" + b.String() + ")"
}

// IsECMA reports whether the pattern is written as an ECMA regex literal,
// with enclosing slashes and optional trailing flags.
func IsECMA(pattern string) bool {
	if !strings.HasPrefix(pattern, "/") {
		return false
	}
	return strings.LastIndex(pattern, "/") > 0
}

// FromECMA splits an ECMA regex literal into its body and flags. A pattern
// that is not an ECMA literal is returned unchanged with empty flags.
func FromECMA(pattern string) (body string, flags Flags) {
	if !IsECMA(pattern) {
		return pattern, Flags{}
	}
	last := strings.LastIndex(pattern, "/")
	body = pattern[1:last]
	for _, r := range pattern[last+1:] {
		switch r {
		case 'i':
			flags.IgnoreCase = true
		case 'm':
			flags.Multiline = true
		}
	}
	return body, flags
}

// ToECMA renders a body and flags as an ECMA regex literal.
func ToECMA(body string, flags Flags) string {
	var b strings.Builder
	b.WriteByte('/')
	b.WriteString(body)
	b.WriteByte('/')
	if flags.IgnoreCase {
		b.WriteByte('i')
	}
	if flags.Multiline {
		b.WriteByte('m')
	}
	return b.String()
}

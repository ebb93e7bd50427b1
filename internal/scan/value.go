// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import (
	"fmt"
	"strings"
)

// Kind classifies a top-level value inside an array, object or argument list.
type Kind int

const (
	// KindBare is anything that is not a literal group: identifiers,
	// numbers, booleans, expressions.
	KindBare Kind = iota
	KindString
	KindArray
	KindObject
)

// Value is one element of a comma-separated list. Raw keeps the source
// text, including quotes or delimiters.
type Value struct {
	Kind Kind
	Raw  string
}

// Text returns the unescaped contents of a string value, or "" for any
// other kind.
func (v Value) Text() string {
	if v.Kind != KindString || len(v.Raw) < 2 {
		return ""
	}
	return Unescape(v.Raw[1 : len(v.Raw)-1])
}

// Body returns the text between the delimiters of an array or object
// value, or "" for any other kind.
func (v Value) Body() string {
	if v.Kind != KindArray && v.Kind != KindObject {
		return ""
	}
	return Inner(v.Raw)
}

// Bool reports whether the value is the literal true, bare or quoted.
func (v Value) Bool() bool {
	switch v.Kind {
	case KindBare:
		return v.Raw == "true"
	case KindString:
		return strings.EqualFold(strings.TrimSpace(v.Text()), "true")
	}
	return false
}

func classify(raw string) Value {
	if raw == "" {
		return Value{Kind: KindBare}
	}
	switch c := raw[0]; {
	case isQuote(c):
		if end, err := skipString(raw, 0); err == nil && end == len(raw) {
			return Value{Kind: KindString, Raw: raw}
		}
	case c == '[':
		if end, err := MatchDelimiter(raw, 0); err == nil && end == len(raw) {
			return Value{Kind: KindArray, Raw: raw}
		}
	case c == '{':
		if end, err := MatchDelimiter(raw, 0); err == nil && end == len(raw) {
			return Value{Kind: KindObject, Raw: raw}
		}
	}
	return Value{Kind: KindBare, Raw: raw}
}

// splitTopLevel cuts body at every comma that is outside strings, comments
// and nested groups. Empty pieces (trailing commas) are dropped.
func splitTopLevel(body string) ([]string, error) {
	var (
		parts []string
		start int
	)
	flush := func(end int) {
		if p := strings.TrimSpace(body[start:end]); p != "" {
			parts = append(parts, p)
		}
	}

	for i := 0; i < len(body); {
		c := body[i]
		switch {
		case isQuote(c):
			end, err := skipString(body, i)
			if err != nil {
				flush(len(body))
				return parts, err
			}
			i = end
			continue
		case c == '/':
			if end := skipComment(body, i); end > i {
				// Comments are dropped from the piece they sit in.
				body = body[:i] + strings.Repeat(" ", end-i) + body[end:]
				i = end
				continue
			}
		case closers[c] != 0:
			end, err := MatchDelimiter(body, i)
			if err != nil {
				flush(len(body))
				return parts, err
			}
			i = end
			continue
		case c == ',':
			flush(i)
			start = i + 1
		}
		i++
	}
	flush(len(body))
	return parts, nil
}

// Values splits an array body or argument list into its top-level values.
// On malformed input the values read so far are returned with the error.
func Values(body string) ([]Value, error) {
	parts, err := splitTopLevel(body)
	values := make([]Value, 0, len(parts))
	for _, p := range parts {
		values = append(values, classify(p))
	}
	return values, err
}

// Field is one key/value member of an object literal.
type Field struct {
	Key   string
	Value Value
}

// Object is a parsed object literal. Only its top-level members are
// addressable; nested objects stay as raw values until parsed themselves.
type Object struct {
	Fields []Field
}

// ParseObject parses a balanced "{...}" span into its top-level fields.
// Members without a key (spreads, shorthand) are ignored. Keys may be bare
// identifiers or quoted.
func ParseObject(span string) (Object, error) {
	if len(span) < 2 || span[0] != '{' || span[len(span)-1] != '}' {
		return Object{}, fmt.Errorf("%w: object span must be enclosed in braces", ErrMalformedSource)
	}
	return ParseMembers(Inner(span))
}

// ParseMembers parses the body of an object literal (without braces).
func ParseMembers(body string) (Object, error) {
	parts, err := splitTopLevel(body)
	var obj Object
	for _, p := range parts {
		key, rest, ok := splitMember(p)
		if !ok {
			continue
		}
		obj.Fields = append(obj.Fields, Field{Key: key, Value: classify(rest)})
	}
	return obj, err
}

// splitMember separates "key: value". Quoted keys are unquoted.
func splitMember(member string) (key, value string, ok bool) {
	var i int
	if isQuote(member[0]) {
		end, err := skipString(member, 0)
		if err != nil {
			return "", "", false
		}
		key = Unescape(member[1 : end-1])
		i = end
	} else {
		for i < len(member) && isIdentByte(member[i]) {
			i++
		}
		key = member[:i]
	}
	if key == "" {
		return "", "", false
	}
	rest := strings.TrimSpace(member[i:])
	if !strings.HasPrefix(rest, ":") {
		return "", "", false
	}
	return key, strings.TrimSpace(rest[1:]), true
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || c == '-' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// Get returns the first top-level value stored under key.
func (o Object) Get(key string) (Value, bool) {
	for _, f := range o.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// String returns the unescaped string stored under key. A missing key or a
// non-string value yields "".
func (o Object) String(key string) string {
	v, _ := o.Get(key)
	return v.Text()
}

// FirstString returns the first non-empty string among keys, in order.
func (o Object) FirstString(keys ...string) string {
	for _, k := range keys {
		if s := o.String(k); s != "" {
			return s
		}
	}
	return ""
}

// Array returns the body of the array stored under key.
func (o Object) Array(key string) (string, bool) {
	v, ok := o.Get(key)
	if !ok || v.Kind != KindArray {
		return "", false
	}
	return v.Body(), true
}

// Bool reports whether key holds true.
func (o Object) Bool(key string) bool {
	v, _ := o.Get(key)
	return v.Bool()
}

// Strings returns the unescaped string literals of an array body in order.
// Non-string elements are skipped.
func Strings(body string) ([]string, error) {
	values, err := Values(body)
	var out []string
	for _, v := range values {
		if v.Kind == KindString {
			out = append(out, v.Text())
		}
	}
	return out, err
}

// Unescape resolves backslash escapes in a string literal body: quotes,
// \n, \t and \\. \r is dropped; unknown escapes are kept verbatim.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch n := s[i]; n {
		case '\'', '"', '`', '\\':
			b.WriteByte(n)
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			// dropped
		default:
			b.WriteByte('\\')
			b.WriteByte(n)
		}
	}
	return b.String()
}

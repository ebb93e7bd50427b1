// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan reads the object-literal fragments embedded in template
// sources: balanced delimiter matching, quote-aware splitting of arrays,
// objects and argument lists, and string unescaping.
//
// Every scan is bounded by the input length. Unbalanced input yields
// ErrMalformedSource instead of looping or panicking.
package scan

import (
	"errors"
	"fmt"
)

// ErrMalformedSource reports an opening delimiter or quote with no matching
// close before end of input.
var ErrMalformedSource = errors.New("malformed source")

// closers maps each opening delimiter to its closing partner.
var closers = map[byte]byte{
	'{': '}',
	'[': ']',
	'(': ')',
}

func isQuote(c byte) bool {
	return c == '\'' || c == '"' || c == '`'
}

// skipString returns the index one past the string literal opening at
// text[i]. Inside the literal a backslash escapes the following byte.
func skipString(text string, i int) (int, error) {
	quote := text[i]
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case quote:
			return j + 1, nil
		}
	}
	return len(text), fmt.Errorf("%w: unterminated string at offset %d", ErrMalformedSource, i)
}

// skipComment returns the index one past a // or /* */ comment starting at
// text[i], or i when no comment starts there.
func skipComment(text string, i int) int {
	if i+1 >= len(text) || text[i] != '/' {
		return i
	}
	switch text[i+1] {
	case '/':
		for j := i + 2; j < len(text); j++ {
			if text[j] == '\n' {
				return j + 1
			}
		}
		return len(text)
	case '*':
		for j := i + 2; j+1 < len(text); j++ {
			if text[j] == '*' && text[j+1] == '/' {
				return j + 2
			}
		}
		return len(text)
	}
	return i
}

// MatchDelimiter returns the index one past the delimiter that closes the
// '{', '[' or '(' at text[open]. Quoted regions and comments are skipped,
// so delimiters inside strings are never counted.
func MatchDelimiter(text string, open int) (int, error) {
	if open < 0 || open >= len(text) {
		return -1, fmt.Errorf("%w: offset %d outside input", ErrMalformedSource, open)
	}
	openCh := text[open]
	closeCh, ok := closers[openCh]
	if !ok {
		return -1, fmt.Errorf("%w: %q at offset %d is not an opening delimiter", ErrMalformedSource, openCh, open)
	}

	depth := 0
	for i := open; i < len(text); {
		c := text[i]
		switch {
		case isQuote(c):
			end, err := skipString(text, i)
			if err != nil {
				return -1, fmt.Errorf("matching %q at offset %d: %w", openCh, open, err)
			}
			i = end
			continue
		case c == '/':
			if end := skipComment(text, i); end > i {
				i = end
				continue
			}
		case c == openCh:
			depth++
		case c == closeCh:
			depth--
			if depth == 0 {
				return i + 1, nil
			}
		}
		i++
	}
	return -1, fmt.Errorf("%w: %q at offset %d is never closed", ErrMalformedSource, openCh, open)
}

// Balanced returns the span text[open:end] that starts at the delimiter at
// text[open] and ends with its match.
func Balanced(text string, open int) (string, error) {
	end, err := MatchDelimiter(text, open)
	if err != nil {
		return "", err
	}
	return text[open:end], nil
}

// Inner strips the outer delimiters from a balanced span.
func Inner(span string) string {
	if len(span) < 2 {
		return ""
	}
	return span[1 : len(span)-1]
}

// SplitBalanced returns every top-level span in text that opens with the
// open delimiter, in order. Spans nested inside another group or inside a
// string are not returned separately. On an unbalanced span the spans found
// so far are returned together with the error.
func SplitBalanced(text string, open byte) ([]string, error) {
	if _, ok := closers[open]; !ok {
		return nil, fmt.Errorf("%q is not an opening delimiter", open)
	}

	var spans []string
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case isQuote(c):
			end, err := skipString(text, i)
			if err != nil {
				return spans, err
			}
			i = end
			continue
		case c == '/':
			if end := skipComment(text, i); end > i {
				i = end
				continue
			}
		case c == open:
			end, err := MatchDelimiter(text, i)
			if err != nil {
				return spans, err
			}
			spans = append(spans, text[i:end])
			i = end
			continue
		case closers[c] != 0:
			// A group of another kind: skip it whole so its children stay nested.
			end, err := MatchDelimiter(text, i)
			if err != nil {
				return spans, err
			}
			i = end
			continue
		}
		i++
	}
	return spans, nil
}

// IndexAfter returns the index of the first occurrence of c in text at or
// after from, or -1.
func IndexAfter(text string, from int, c byte) int {
	for i := from; i < len(text); i++ {
		if text[i] == c {
			return i
		}
	}
	return -1
}

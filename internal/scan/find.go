// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import "strings"

// FindString returns the unescaped value of the first "key: 'value'" pair
// anywhere in text. The key may be bare or quoted and must sit on a word
// boundary; whitespace around the colon is ignored. A missing key yields "".
func FindString(text, key string) string {
	if key == "" {
		return ""
	}
	for from := 0; from < len(text); {
		idx := strings.Index(text[from:], key)
		if idx < 0 {
			return ""
		}
		start := from + idx
		from = start + len(key)

		if v, ok := stringAfterKey(text, start, key); ok {
			return v
		}
	}
	return ""
}

// stringAfterKey checks that text[start:] begins a "key: 'value'" pair and
// returns the value.
func stringAfterKey(text string, start int, key string) (string, bool) {
	if start > 0 {
		prev := text[start-1]
		if isIdentByte(prev) {
			return "", false
		}
	}
	i := start + len(key)
	if i < len(text) && isIdentByte(text[i]) {
		return "", false
	}
	// Optional closing quote of a quoted key.
	if i < len(text) && isQuote(text[i]) && start > 0 && text[start-1] == text[i] {
		i++
	}
	i = skipSpace(text, i)
	if i >= len(text) || text[i] != ':' {
		return "", false
	}
	i = skipSpace(text, i+1)
	if i >= len(text) || !isQuote(text[i]) {
		return "", false
	}
	end, err := skipString(text, i)
	if err != nil {
		return "", false
	}
	return Unescape(text[i+1 : end-1]), true
}

func skipSpace(text string, i int) int {
	for i < len(text) {
		switch text[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"github.com/pdiddy/article-engine/internal/scan"
)

// positionalStrings binds the Nth top-level string literal of the call to
// a field name. Bare identifiers and other non-literals are not counted, so
// an argument list that changes shape at the call site shifts every later
// field; this table is the only place that convention lives.
var positionalStrings = []string{
	"title",
	"image",
	"image_alt",
	"intro_text",
	"conclusion",
}

// positionalArrays binds the Nth top-level array literal of the call to a
// field name.
var positionalArrays = []string{
	"content_sections",
	"toc_items",
}

// Positional maps the top-level arguments of a call onto the field names
// of the named form: the Nth string literal goes to positionalStrings[N]
// and the Nth array literal to positionalArrays[N]. Surplus literals are
// ignored.
func Positional(args []scan.Value) scan.Object {
	var (
		obj               scan.Object
		nStrings, nArrays int
	)
	for _, v := range args {
		switch v.Kind {
		case scan.KindString:
			if nStrings < len(positionalStrings) {
				obj.Fields = append(obj.Fields, scan.Field{Key: positionalStrings[nStrings], Value: v})
			}
			nStrings++
		case scan.KindArray:
			if nArrays < len(positionalArrays) {
				obj.Fields = append(obj.Fields, scan.Field{Key: positionalArrays[nArrays], Value: v})
			}
			nArrays++
		}
	}
	return obj
}

// positionalObject reads the call's argument list and maps it with
// Positional. An unterminated call is read up to end of input.
func (p *Parser) positionalObject(text string, w *warnings) scan.Object {
	open, _ := p.positionalOpen(text)
	body := ""
	if span, err := scan.Balanced(text, open); err != nil {
		w.add("positional call: %v; reading to end of input", err)
		body = text[open+1:]
	} else {
		body = scan.Inner(span)
	}

	args, err := scan.Values(body)
	if err != nil {
		w.add("positional arguments: %v", err)
	}
	return Positional(args)
}

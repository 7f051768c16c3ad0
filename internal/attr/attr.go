// Package attr parses per-field option directives.
//
// A directive list is a comma separated sequence of items:
//
//	min = 2.0, max = 3.0, display = Euler, label = "Speed", collapse
//
// An item is either an assignment `key = expr` or a bare flag `key` whose
// value is true. Keys are identifiers, or decimal integers which address a
// nested field of the field's value type (`0 = { min = 0 }`). Expressions use
// HCL native syntax and evaluate to cty values.
//
// The meta keys "ignore" and "override_where_clause" are structural: they
// control which fields get an address and how generic bounds are computed,
// and never end up in an options record.
package attr

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// TagKey is the struct tag key holding a field's directive list.
const TagKey = "inspector"

// Meta keys.
const (
	KeyIgnore              = "ignore"
	KeyOverrideWhereClause = "override_where_clause"
)

// Directive is a single parsed item of a directive list.
type Directive struct {
	// Key is the option name. Empty for sub-addresses.
	Key string
	// Index is the nested field index when Sub is set.
	Index int
	Sub   bool
	// Flag is set for bare keys; Expr is nil in that case.
	Flag bool
	Expr hcl.Expression

	KeyRange hcl.Range
	Range    hcl.Range
}

// Name returns the key as written in the source.
func (d Directive) Name() string {
	if d.Sub {
		return strconv.Itoa(d.Index)
	}

	return d.Key
}

// IsMeta reports whether the directive is structural.
func (d Directive) IsMeta() bool {
	return !d.Sub && (d.Key == KeyIgnore || d.Key == KeyOverrideWhereClause)
}

// Value evaluates the directive. Flags evaluate to true.
func (d Directive) Value(ctx *hcl.EvalContext) (cty.Value, hcl.Diagnostics) {
	if d.Flag || d.Expr == nil {
		return cty.True, nil
	}

	return d.Expr.Value(ctx)
}

// List is an ordered directive list.
type List struct {
	Items []Directive
}

// Get returns the directive with the given key.
func (l List) Get(key string) (Directive, bool) {
	for _, d := range l.Items {
		if !d.Sub && d.Key == key {
			return d, true
		}
	}

	return Directive{}, false
}

// Ignore reports whether the list carries the ignore flag. An explicit
// `ignore = false` is honoured; any other non-bool value is an error and
// leaves the field visible.
func (l List) Ignore() (bool, hcl.Diagnostics) {
	d, ok := l.Get(KeyIgnore)
	if !ok {
		return false, nil
	}

	v, diags := d.Value(nil)
	if diags.HasErrors() {
		return false, diags
	}

	if v.IsNull() || !v.IsKnown() || v.Type() != cty.Bool {
		return false, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid ignore",
			Detail:   fmt.Sprintf("ignore must be a bool, got %s.", v.Type().FriendlyName()),
			Subject:  d.Range.Ptr(),
		}}
	}

	return v.True(), nil
}

// OverrideWhereClause returns the override clause and whether it was set.
func (l List) OverrideWhereClause() (string, bool, hcl.Diagnostics) {
	d, ok := l.Get(KeyOverrideWhereClause)
	if !ok {
		return "", false, nil
	}

	v, diags := d.Value(nil)
	if diags.HasErrors() {
		return "", true, diags
	}

	if d.Flag || v.Type() != cty.String || v.IsNull() {
		return "", true, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid override_where_clause",
			Detail:   "override_where_clause must be a string literal, e.g. override_where_clause = \"T any\".",
			Subject:  d.Range.Ptr(),
		}}
	}

	return v.AsString(), true, nil
}

// Options returns the non-meta directives.
func (l List) Options() []Directive {
	out := make([]Directive, 0, len(l.Items))
	for _, d := range l.Items {
		if d.IsMeta() {
			continue
		}

		out = append(out, d)
	}

	return out
}

// Parse parses a directive list. filename and start locate src in the
// original source so diagnostics point at the annotation.
func Parse(src, filename string, start hcl.Pos) (List, hcl.Diagnostics) {
	if start.Line == 0 {
		start = hcl.InitialPos
	}

	var (
		list  List
		diags hcl.Diagnostics
		seen  = map[string]hcl.Range{}
	)

	for _, it := range splitItems(src, start) {
		d, itemDiags := parseItem(it, filename)
		diags = append(diags, itemDiags...)

		if itemDiags.HasErrors() {
			continue
		}

		name := d.Name()
		if prev, dup := seen[name]; dup {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate option",
				Detail:   fmt.Sprintf("The option %q was already set at %s.", name, prev),
				Subject:  d.KeyRange.Ptr(),
			})

			continue
		}

		seen[name] = d.KeyRange
		list.Items = append(list.Items, d)
	}

	return list, diags
}

// HasFlag reports whether src sets key as a bare flag or to true. Malformed
// lists report false.
func HasFlag(src, key string) bool {
	if !strings.Contains(src, key) {
		return false
	}

	list, diags := Parse(src, "", hcl.InitialPos)
	if diags.HasErrors() {
		return false
	}

	if key == KeyIgnore {
		ignored, diags := list.Ignore()
		return ignored && !diags.HasErrors()
	}

	d, ok := list.Get(key)
	if !ok {
		return false
	}

	v, vd := d.Value(nil)

	return !vd.HasErrors() && v.Type() == cty.Bool && v.True()
}

type item struct {
	text  string
	start hcl.Pos
}

// splitItems splits src on commas that are not nested in brackets or quotes.
func splitItems(src string, start hcl.Pos) []item {
	var (
		items []item
		depth int
		quote bool
		esc   bool
		from  = 0
		pos   = start
		begin = start
	)

	flush := func(to int) {
		items = append(items, item{text: src[from:to], start: begin})
	}

	for i, r := range src {
		switch {
		case esc:
			esc = false
		case quote && r == '\\':
			esc = true
		case r == '"':
			quote = !quote
		case quote:
		case r == '(' || r == '[' || r == '{':
			depth++
		case r == ')' || r == ']' || r == '}':
			depth--
		case r == ',' && depth <= 0:
			flush(i)
			from = i + 1
			begin = advance(pos, ",")
		}

		pos = advance(pos, string(r))
	}

	// A trailing comma is allowed.
	if strings.TrimSpace(src[from:]) != "" {
		flush(len(src))
	}

	return items
}

func parseItem(it item, filename string) (Directive, hcl.Diagnostics) {
	text := it.text
	lead := len(text) - len(strings.TrimLeft(text, " \t\r\n"))
	keyStart := advance(it.start, text[:lead])
	rest := text[lead:]

	if strings.TrimSpace(rest) == "" {
		r := hcl.Range{Filename: filename, Start: it.start, End: advance(it.start, text)}

		return Directive{}, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Empty option",
			Detail:   "Expected an option of the form key = value or a bare key.",
			Subject:  &r,
		}}
	}

	n := 0
	for n < len(rest) && isKeyByte(rest[n]) {
		n++
	}

	key := rest[:n]
	keyRange := hcl.Range{Filename: filename, Start: keyStart, End: advance(keyStart, key)}
	whole := hcl.Range{Filename: filename, Start: keyStart, End: advance(keyStart, strings.TrimRight(rest, " \t\r\n"))}

	d := Directive{KeyRange: keyRange, Range: whole}

	switch {
	case key == "":
		return d, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid option key",
			Detail:   fmt.Sprintf("Expected an identifier or a field index, found %q.", firstRune(rest)),
			Subject:  keyRange.Ptr(),
		}}
	case isDigit(rune(key[0])):
		idx, err := strconv.Atoi(key)
		if err != nil || !isDecimal(key) {
			return d, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Invalid field index",
				Detail:   fmt.Sprintf("%q is neither an identifier nor a field index.", key),
				Subject:  keyRange.Ptr(),
			}}
		}

		d.Sub, d.Index = true, idx
	default:
		d.Key = key
	}

	after := rest[n:]
	trimmed := strings.TrimLeft(after, " \t\r\n")

	if trimmed == "" {
		if d.Sub {
			return d, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Missing nested options",
				Detail:   fmt.Sprintf("Field index %d must be assigned an object, e.g. %d = { min = 0 }.", d.Index, d.Index),
				Subject:  keyRange.Ptr(),
			}}
		}

		d.Flag = true

		return d, nil
	}

	if trimmed[0] != '=' || strings.HasPrefix(trimmed, "==") {
		at := advance(keyRange.End, after[:len(after)-len(trimmed)])
		r := hcl.Range{Filename: filename, Start: at, End: advance(at, firstRune(trimmed))}

		return d, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Missing '='",
			Detail:   fmt.Sprintf("Expected '=' after option %q.", d.Name()),
			Subject:  &r,
		}}
	}

	exprText := trimmed[1:]
	exprStart := advance(keyRange.End, after[:len(after)-len(trimmed)+1])

	if strings.TrimSpace(exprText) == "" {
		r := hcl.Range{Filename: filename, Start: exprStart, End: exprStart}

		return d, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Missing value",
			Detail:   fmt.Sprintf("The option %q has no value.", d.Name()),
			Subject:  &r,
		}}
	}

	expr, diags := hclsyntax.ParseExpression([]byte(exprText), filename, exprStart)
	if diags.HasErrors() {
		return d, diags
	}

	if d.Sub {
		if _, ok := expr.(*hclsyntax.ObjectConsExpr); !ok {
			return d, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Invalid nested options",
				Detail:   fmt.Sprintf("Field index %d must be assigned an object, e.g. %d = { min = 0 }.", d.Index, d.Index),
				Subject:  expr.Range().Ptr(),
			}}
		}
	}

	d.Expr = expr

	return d, diags
}

// advance moves pos over s.
func advance(pos hcl.Pos, s string) hcl.Pos {
	for _, r := range s {
		pos.Byte += utf8.RuneLen(r)
		if r == '\n' {
			pos.Line++
			pos.Column = 1

			continue
		}

		pos.Column++
	}

	return pos
}

func isKeyByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isDecimal(s string) bool {
	for _, r := range s {
		if !isDigit(r) {
			return false
		}
	}

	return s != ""
}

func firstRune(s string) string {
	if s == "" {
		return ""
	}

	_, size := utf8.DecodeRuneInString(s)

	return s[:size]
}

package toon

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/reoring/toon/codec"
	"github.com/reoring/toon/internal/wire"
)

// Decode parses TOON text into an array of records. With CoerceTypes off,
// every value is a string; on, unquoted values matching number, boolean,
// null-token or RFC3339 patterns coerce to native types, recursively for
// nested blocks. One-shot decoding aborts on the first malformed row; the
// streaming variant skips and reports instead.
func Decode(text string, opts ...DecodeOptions) ([]Record, error) {
	o := normalizeDecodeOpts(opts)
	p := newDocParser(o, true)
	a := wire.NewLineAssembler(p.strat, p.delim)
	if err := a.Feed([]byte(text), p.feed); err != nil {
		return nil, err
	}
	if err := a.Finish(p.feed); err != nil {
		return nil, err
	}
	return p.finish()
}

// groupLine is one logical line of the current row group, with its indent
// depth stripped.
type groupLine struct {
	text  string
	depth int
	line  int
}

// docParser consumes logical lines and accumulates decoded records. It is the
// single parse routine behind Decode and StreamDecoder; failFast selects the
// one-shot abort-on-first-error policy, otherwise malformed rows are skipped
// and surfaced as Issues.
type docParser struct {
	o        DecodeOptions
	strat    wire.Strategy
	delim    byte
	failFast bool

	header   *wire.Header
	group    []groupLine
	consumed int
	out      []Record
	issues   Issues
}

func newDocParser(o DecodeOptions, failFast bool) *docParser {
	strat := wire.StrategyCSV
	if o.Escape == EscapeBackslash {
		strat = wire.StrategyBackslash
	}
	return &docParser{o: o, strat: strat, delim: defaultDelimiter, failFast: failFast}
}

func (p *docParser) depthOf(line string) (depth int, rest string, ok bool) {
	n := 0
	for n < len(line) && line[n] == ' ' {
		n++
	}
	if n%p.o.Indent != 0 {
		return 0, "", false
	}
	return n / p.o.Indent, line[n:], true
}

func (p *docParser) feed(line string, lineNo int) error {
	if strings.TrimSpace(line) == "" {
		// A whitespace-only line indented to row depth is a row whose every
		// cell is empty; anything shallower is a blank separator.
		if p.header == nil || len(line) < p.o.Indent {
			return nil
		}
	}
	depth, rest, ok := p.depthOf(line)
	if !ok {
		return &ParseError{Line: lineNo, Reason: "indentation is not a multiple of the indent width"}
	}

	if p.header == nil {
		h, ok, err := wire.ParseHeader(rest, p.delim)
		if !ok || err != nil || depth != 0 || h.Name != "" {
			return &ParseError{Line: lineNo, Reason: "malformed document header"}
		}
		p.header = &h
		return nil
	}

	switch {
	case depth == 0:
		return &ParseError{Line: lineNo, Reason: "unexpected content at document level"}
	case depth == 1:
		if err := p.finalizeGroup(); err != nil {
			return err
		}
		if p.consumed >= p.header.Count {
			return &CountMismatchError{Declared: p.header.Count, Actual: p.consumed + 1}
		}
		p.group = append(p.group[:0], groupLine{text: rest, depth: depth, line: lineNo})
	default:
		if len(p.group) == 0 {
			return p.rowError(&ParseError{Line: lineNo, Reason: "nested block without an owning row"})
		}
		p.group = append(p.group, groupLine{text: rest, depth: depth, line: lineNo})
	}
	return nil
}

// finalizeGroup parses the pending row group into a record. Malformed groups
// count as consumed either way: the row was present on the wire.
func (p *docParser) finalizeGroup() error {
	if len(p.group) == 0 {
		return nil
	}
	group := p.group
	p.group = nil
	p.consumed++

	rec, err := p.parseGroup(p.header, group, 1)
	if err != nil {
		return p.rowError(err)
	}
	if p.o.Schema != nil {
		for _, f := range p.o.Schema.Fields {
			if _, ok := rec.Get(f.Name); !ok {
				rec.Set(f.Name, Null())
			}
		}
	}
	p.out = append(p.out, rec)
	return nil
}

// rowError applies the error policy: abort in one-shot mode, collect as a
// diagnostic in streaming mode.
func (p *docParser) rowError(err error) error {
	if p.failFast {
		return err
	}
	is := Issue{Code: CodeParseError, Message: err.Error(), Cause: err}
	if pe, ok := AsParseError(err); ok {
		is.Line = pe.Line
	}
	if p.consumed > 0 {
		is.Path = "/" + strconv.Itoa(p.consumed-1)
	}
	p.issues = AppendIssues(p.issues, is)
	if p.o.OnIssue != nil {
		p.o.OnIssue(is)
	}
	return nil
}

func (p *docParser) finish() ([]Record, error) {
	if p.header == nil {
		return nil, &ParseError{Line: 1, Reason: "missing document header"}
	}
	if err := p.finalizeGroup(); err != nil {
		return nil, err
	}
	if p.consumed != p.header.Count {
		return nil, &CountMismatchError{Declared: p.header.Count, Actual: p.consumed}
	}
	if p.out == nil {
		p.out = []Record{}
	}
	return p.out, nil
}

// parseGroup decodes one row (group[0]) plus its nested sub-blocks into a
// record. rowDepth is the indent level of the row itself.
func (p *docParser) parseGroup(h *wire.Header, group []groupLine, rowDepth int) (Record, error) {
	row := group[0]
	cells, open, err := wire.SplitRow(row.text, p.strat, p.delim)
	if err != nil || open {
		return Record{}, &ParseError{Line: row.line, Reason: "malformed row: " + splitReason(err, open)}
	}
	if len(cells) != len(h.Columns) {
		return Record{}, &ParseError{
			Line:   row.line,
			Reason: fmt.Sprintf("row has %d values, header declares %d fields", len(cells), len(h.Columns)),
		}
	}

	var rec Record
	for i, path := range h.Columns {
		setPath(&rec, path, p.cellValue(cells[i], p.hintFor(h, path)))
	}

	i := 1
	for i < len(group) {
		l := group[i]
		if l.depth != rowDepth+1 {
			return Record{}, &ParseError{Line: l.line, Reason: "misindented line inside row"}
		}
		sub, ok, herr := wire.ParseHeader(l.text, p.delim)
		if !ok || herr != nil || sub.Name == "" {
			return Record{}, &ParseError{Line: l.line, Reason: "expected nested block header"}
		}
		j := i + 1
		for j < len(group) && group[j].depth > rowDepth+1 {
			j++
		}
		elems, berr := p.parseBlock(&sub, group[i+1:j], rowDepth+2)
		if berr != nil {
			return Record{}, berr
		}
		rec.Set(sub.Name, Arr(elems...))
		i = j
	}
	return rec, nil
}

// parseBlock decodes a nested sub-block: scalar rows when the header has no
// field list, record rows otherwise. A nested count disagreement is a parse
// error local to the owning row, not a document-level count mismatch.
func (p *docParser) parseBlock(h *wire.Header, body []groupLine, rowDepth int) ([]Value, error) {
	elems := []Value{}
	if len(h.Columns) == 0 {
		for _, l := range body {
			if l.depth != rowDepth {
				return nil, &ParseError{Line: l.line, Reason: "misindented line inside block"}
			}
			cells, open, err := wire.SplitRow(l.text, p.strat, p.delim)
			if err != nil || open {
				return nil, &ParseError{Line: l.line, Reason: "malformed row: " + splitReason(err, open)}
			}
			if len(cells) != 1 {
				return nil, &ParseError{Line: l.line, Reason: "scalar block row must hold exactly one value"}
			}
			elems = append(elems, p.cellValue(cells[0], nil))
		}
	} else {
		i := 0
		for i < len(body) {
			if body[i].depth != rowDepth {
				return nil, &ParseError{Line: body[i].line, Reason: "misindented line inside block"}
			}
			j := i + 1
			for j < len(body) && body[j].depth > rowDepth {
				j++
			}
			rec, err := p.parseGroup(h, body[i:j], rowDepth)
			if err != nil {
				return nil, err
			}
			elems = append(elems, Obj(rec))
			i = j
		}
	}
	if len(elems) != h.Count {
		return nil, &ParseError{
			Line:   firstLine(body),
			Reason: fmt.Sprintf("nested block %q declares %d rows, got %d", h.Name, h.Count, len(elems)),
		}
	}
	return elems, nil
}

func firstLine(body []groupLine) int {
	if len(body) > 0 {
		return body[0].line
	}
	return 0
}

func splitReason(err error, open bool) string {
	if open {
		return "unterminated quote"
	}
	if err != nil {
		return err.Error()
	}
	return "invalid field"
}

// hintFor resolves the schema field for a top-level column, used as a
// coercion hint. Only document-level columns consult the schema.
func (p *docParser) hintFor(h *wire.Header, path []string) *SchemaField {
	if p.o.Schema == nil || h != p.header {
		return nil
	}
	f := p.o.Schema.Field(path[0])
	for i := 1; i < len(path) && f != nil; i++ {
		var next *SchemaField
		for fi := range f.Fields {
			if f.Fields[fi].Name == path[i] {
				next = &f.Fields[fi]
				break
			}
		}
		f = next
	}
	return f
}

// cellValue converts one split cell into a Value. Quoted cells are always
// strings; unquoted cells coerce by pattern when CoerceTypes is on, with the
// schema hint taking precedence.
func (p *docParser) cellValue(c wire.Field, hint *SchemaField) Value {
	if c.Quoted || !p.o.CoerceTypes {
		return Str(c.Text)
	}
	switch c.Text {
	case "":
		return Null()
	case "null":
		return Null()
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	if hint != nil && hint.Type == TypeString {
		return Str(c.Text)
	}
	if codec.IsDate(c.Text) {
		if t, err := codec.ParseDate(c.Text); err == nil {
			return Date(t)
		}
	}
	if wire.LooksNumeric(c.Text) {
		if f, err := strconv.ParseFloat(c.Text, 64); err == nil {
			return Num(f)
		}
	}
	return Str(c.Text)
}

// setPath stores a value under a dotted column path, materializing
// intermediate objects.
func setPath(rec *Record, path []string, v Value) {
	cur := rec
	for i := 0; i < len(path)-1; i++ {
		if ex, ok := cur.Get(path[i]); ok && ex.Kind() == KindObject {
			cur = ex.AsObject()
			continue
		}
		nv := Obj(NewRecord())
		cur.Set(path[i], nv)
		cur = nv.AsObject()
	}
	cur.Set(path[len(path)-1], v)
}

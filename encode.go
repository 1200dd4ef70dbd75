package toon

import (
	"strconv"

	"github.com/reoring/toon/codec"
	"github.com/reoring/toon/internal/wire"
)

// Encode serializes an array of records into TOON text. The schema comes from
// EncodeOptions.Schema when set (and must then account for every field
// actually present) or is inferred over the full input. An empty array
// encodes as exactly `[0]{}:`.
//
// The output round-trips through Decode with matching options, except fields
// elided by NullSkip, which decode back as explicit null when the decoder is
// handed the schema. That lossiness is by design, not an approximation.
func Encode(records []Record, opts ...EncodeOptions) (string, error) {
	o := normalizeEncodeOpts(opts)
	if len(records) == 0 {
		return "[0]{}:", nil
	}

	schema := o.Schema
	if schema == nil {
		inferred, _, err := InferSchema(records)
		if err != nil {
			return "", err
		}
		schema = inferred
	} else if err := checkSchemaCovers(records, schema); err != nil {
		return "", err
	}

	e := &encoder{o: o, delim: defaultDelimiter}
	if err := e.writeBlock("", records, schema.Fields, 0); err != nil {
		return "", err
	}
	// Drop the final newline; documents end after the last row.
	out := e.buf
	if n := len(out); n > 0 && out[n-1] == '\n' {
		out = out[:n-1]
	}
	return string(out), nil
}

// checkSchemaCovers fails when a record carries a field, at any depth, that
// the explicit schema does not define.
func checkSchemaCovers(records []Record, s *Schema) error {
	for i := range records {
		if err := checkFieldsCover(&records[i], s.Fields, ""); err != nil {
			return err
		}
	}
	return nil
}

func checkFieldsCover(r *Record, fields []SchemaField, prefix string) error {
	byName := make(map[string]*SchemaField, len(fields))
	for i := range fields {
		byName[fields[i].Name] = &fields[i]
	}
	for _, k := range r.Keys() {
		f, ok := byName[k]
		if !ok {
			return &SchemaMismatchError{
				Field:  prefix + k,
				Actual: "present",
				Reason: "field not covered by the explicit schema",
			}
		}
		v, _ := r.Get(k)
		switch {
		case f.Type == TypeObject && v.Kind() == KindObject:
			if err := checkFieldsCover(v.AsObject(), f.Fields, prefix+k+"."); err != nil {
				return err
			}
		case f.Type == TypeArray && v.Kind() == KindArray && f.Elem != nil && f.Elem.Type == TypeObject:
			for _, ev := range v.AsArray() {
				if ev.Kind() != KindObject {
					continue
				}
				if err := checkFieldsCover(ev.AsObject(), f.Elem.Fields, prefix+k+"."); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

type encoder struct {
	buf   []byte
	o     EncodeOptions
	delim byte
}

// column is one flattened header position: a dotted path to a scalar leaf.
type column struct {
	path  []string
	field *SchemaField
}

// blockPlan is the realized layout of one block: scalar/flattened columns in
// header order, then array fields emitted as nested sub-blocks.
type blockPlan struct {
	cols   []column
	arrays []*SchemaField
}

func buildPlan(fields []SchemaField, nh NullHandling, prefix []string) blockPlan {
	var p blockPlan
	for i := range fields {
		f := &fields[i]
		if nh == NullSkip && f.Type == TypeNull {
			continue
		}
		switch f.Type {
		case TypeObject:
			sub := buildPlan(f.Fields, nh, append(prefix, f.Name))
			p.cols = append(p.cols, sub.cols...)
			p.arrays = append(p.arrays, sub.arrays...)
		case TypeArray:
			p.arrays = append(p.arrays, f)
		default:
			path := make([]string, 0, len(prefix)+1)
			path = append(path, prefix...)
			path = append(path, f.Name)
			p.cols = append(p.cols, column{path: path, field: f})
		}
	}
	return p
}

func (e *encoder) indent(depth int) {
	for i := 0; i < depth*e.o.Indent; i++ {
		e.buf = append(e.buf, ' ')
	}
}

// writeBlock emits one block: header at depth, one row per record at depth+1,
// and each record's array fields as sub-blocks at depth+2, recursing with the
// identical grammar.
func (e *encoder) writeBlock(name string, records []Record, fields []SchemaField, depth int) error {
	plan := buildPlan(fields, e.o.NullHandling, nil)
	if len(plan.cols) == 0 && len(records) > 0 {
		return &SchemaMismatchError{
			Field:  name,
			Reason: "no representable columns; rows would be empty",
		}
	}

	cols := make([][]string, len(plan.cols))
	for i, c := range plan.cols {
		cols[i] = c.path
	}
	e.indent(depth)
	e.buf = append(e.buf, wire.FormatHeader(name, len(records), cols, e.delim)...)
	e.buf = append(e.buf, '\n')

	for ri := range records {
		if err := e.writeRow(&records[ri], plan, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) writeRow(r *Record, plan blockPlan, depth int) error {
	e.indent(depth)
	for i, c := range plan.cols {
		if i > 0 {
			e.buf = append(e.buf, e.delim)
		}
		v, ok := lookupPath(r, c.path)
		if !ok {
			v = Null()
		}
		if err := e.writeCell(v, c.field); err != nil {
			return err
		}
	}
	e.buf = append(e.buf, '\n')

	for _, af := range plan.arrays {
		v, ok := r.Get(af.Name)
		if !ok || v.IsNull() {
			continue
		}
		if v.Kind() != KindArray {
			return &SchemaMismatchError{
				Field:    af.Name,
				Expected: "array",
				Actual:   v.Kind().String(),
			}
		}
		if err := e.writeArray(af, v.AsArray(), depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) writeArray(f *SchemaField, elems []Value, depth int) error {
	if f.Elem != nil && f.Elem.Type == TypeObject {
		recs := make([]Record, len(elems))
		for i, ev := range elems {
			if ev.Kind() != KindObject {
				return &SchemaMismatchError{
					Field:    f.Name,
					Expected: "object",
					Actual:   ev.Kind().String(),
					Reason:   "mixed element kinds in record array",
				}
			}
			recs[i] = *ev.AsObject()
		}
		return e.writeBlock(f.Name, recs, f.Elem.Fields, depth)
	}

	// Scalar sub-block: `name[N]{}:` with one value per row.
	e.indent(depth)
	e.buf = append(e.buf, wire.FormatHeader(f.Name, len(elems), nil, e.delim)...)
	e.buf = append(e.buf, '\n')
	for _, ev := range elems {
		e.indent(depth + 1)
		if err := e.writeCell(ev, f.Elem); err != nil {
			return err
		}
		e.buf = append(e.buf, '\n')
	}
	return nil
}

func (e *encoder) writeCell(v Value, f *SchemaField) error {
	switch v.Kind() {
	case KindNull:
		if e.o.NullHandling == NullLiteral {
			e.buf = append(e.buf, "null"...)
		}
		// NullEmpty and NullSkip leave the cell empty.
	case KindString:
		strat := wire.StrategyCSV
		if e.o.Escape == EscapeBackslash {
			strat = wire.StrategyBackslash
		}
		e.buf = wire.AppendField(e.buf, v.AsString(), strat, e.delim)
	case KindNumber:
		e.buf = append(e.buf, formatNumber(v.AsNumber())...)
	case KindBool:
		e.buf = strconv.AppendBool(e.buf, v.AsBool())
	case KindTime:
		e.buf = append(e.buf, codec.FormatDate(v.AsTime())...)
	default:
		name := ""
		expected := "scalar"
		if f != nil {
			name = f.Name
			expected = f.Type.String()
		}
		return &SchemaMismatchError{
			Field:    name,
			Expected: expected,
			Actual:   v.Kind().String(),
		}
	}
	return nil
}

// lookupPath walks a dotted column path through nested objects.
func lookupPath(r *Record, path []string) (Value, bool) {
	cur := r
	for i, seg := range path {
		v, ok := cur.Get(seg)
		if !ok {
			return Value{}, false
		}
		if i == len(path)-1 {
			return v, true
		}
		if v.Kind() != KindObject {
			return Value{}, false
		}
		cur = v.AsObject()
	}
	return Value{}, false
}

package toon

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	"github.com/reoring/toon/codec"
)

// RecordsFromJSON decodes a JSON array of objects into records. It streams
// tokens rather than unmarshalling into maps so that field order survives the
// trip; numbers decode as float64, everything else maps to the obvious kind.
func RecordsFromJSON(data []byte) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("toon: invalid JSON: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, errors.New("toon: top-level JSON value must be an array of objects")
	}

	out := []Record{}
	for dec.More() {
		v, err := decodeJSONValue(dec)
		if err != nil {
			return nil, err
		}
		if v.Kind() != KindObject {
			return nil, errors.New("toon: top-level JSON array elements must be objects")
		}
		out = append(out, *v.AsObject())
	}
	if _, err := dec.Token(); err != nil { // closing ']'
		return nil, fmt.Errorf("toon: invalid JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("toon: trailing content after JSON array")
	}
	return out, nil
}

func decodeJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, fmt.Errorf("toon: invalid JSON: %w", err)
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			rec := NewRecord()
			for dec.More() {
				ktok, err := dec.Token()
				if err != nil {
					return Value{}, fmt.Errorf("toon: invalid JSON: %w", err)
				}
				key := ktok.(string)
				v, err := decodeJSONValue(dec)
				if err != nil {
					return Value{}, err
				}
				rec.Set(key, v)
			}
			if _, err := dec.Token(); err != nil { // closing '}'
				return Value{}, fmt.Errorf("toon: invalid JSON: %w", err)
			}
			return Obj(rec), nil
		case '[':
			elems := []Value{}
			for dec.More() {
				v, err := decodeJSONValue(dec)
				if err != nil {
					return Value{}, err
				}
				elems = append(elems, v)
			}
			if _, err := dec.Token(); err != nil { // closing ']'
				return Value{}, fmt.Errorf("toon: invalid JSON: %w", err)
			}
			return Arr(elems...), nil
		}
		return Value{}, fmt.Errorf("toon: unexpected JSON delimiter %v", t)
	case string:
		return Str(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("toon: invalid JSON number %q: %w", t.String(), err)
		}
		return Num(f), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	}
	return Value{}, fmt.Errorf("toon: unexpected JSON token %v", tok)
}

// RecordsToJSON encodes records as a JSON array of objects, preserving field
// order. Dates render as RFC3339 strings.
func RecordsToJSON(records []Record) ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('[')
	for i := range records {
		if i > 0 {
			b.WriteByte(',')
		}
		data, err := records[i].MarshalJSON()
		if err != nil {
			return nil, err
		}
		b.Write(data)
	}
	b.WriteByte(']')
	return b.Bytes(), nil
}

// MarshalJSON renders the record as a JSON object in insertion order.
func (r Record) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		kdata, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		b.Write(kdata)
		b.WriteByte(':')
		vdata, err := r.vals[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		b.Write(vdata)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// MarshalJSON renders the value as plain JSON. Non-finite numbers, which JSON
// cannot carry, render as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		s := formatNumber(v.num)
		return []byte(s), nil
	case KindBool:
		if v.b {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case KindTime:
		return json.Marshal(codec.FormatDate(v.t))
	case KindObject:
		return v.obj.MarshalJSON()
	case KindArray:
		var b bytes.Buffer
		b.WriteByte('[')
		for i := range v.arr {
			if i > 0 {
				b.WriteByte(',')
			}
			data, err := v.arr[i].MarshalJSON()
			if err != nil {
				return nil, err
			}
			b.Write(data)
		}
		b.WriteByte(']')
		return b.Bytes(), nil
	}
	return nil, fmt.Errorf("toon: unmarshalable kind %v", v.kind)
}

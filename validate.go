package toon

import (
	"github.com/reoring/toon/codec"
	"github.com/reoring/toon/internal/wire"
)

// FieldError is one validation finding, addressed by record index and field
// name (dotted for nested object fields).
type FieldError struct {
	RecordIndex int    `json:"recordIndex"`
	Field       string `json:"field"`
	Expected    string `json:"expected"`
	Actual      string `json:"actual"`
	Code        string `json:"code"`
}

// ValidationResult is the outcome of ValidateSchema. Unknown fields surface
// as warnings and do not affect Valid.
type ValidationResult struct {
	Valid    bool         `json:"valid"`
	Errors   []FieldError `json:"errors"`
	Warnings []FieldError `json:"warnings,omitempty"`
}

// ValidateSchema checks every record against the schema: presence of
// non-nullable fields, type compatibility (coercible strings pass), and
// unknown fields (warnings only). It never returns a Go error; findings come
// back as data.
func ValidateSchema(records []Record, schema *Schema) ValidationResult {
	res := ValidationResult{Valid: true}
	if schema == nil {
		return res
	}
	for i, r := range records {
		validateRecord(&res, i, r, schema.Fields, "")
	}
	res.Valid = len(res.Errors) == 0
	return res
}

func validateRecord(res *ValidationResult, idx int, r Record, fields []SchemaField, prefix string) {
	known := make(map[string]bool, len(fields))
	for fi := range fields {
		f := &fields[fi]
		known[f.Name] = true
		name := prefix + f.Name

		v, ok := r.Get(f.Name)
		if !ok || v.IsNull() {
			if !f.Nullable {
				actual := "missing"
				if ok {
					actual = "null"
				}
				res.Errors = append(res.Errors, FieldError{
					RecordIndex: idx, Field: name,
					Expected: f.Type.String(), Actual: actual,
					Code: CodeRequired,
				})
			}
			continue
		}

		if f.Type == TypeObject && v.Kind() == KindObject {
			validateRecord(res, idx, *v.AsObject(), f.Fields, name+".")
			continue
		}
		if f.Type == TypeArray && v.Kind() == KindArray {
			if f.Elem != nil {
				for _, ev := range v.AsArray() {
					if ev.IsNull() || compatible(ev, f.Elem.Type) {
						continue
					}
					res.Errors = append(res.Errors, FieldError{
						RecordIndex: idx, Field: name,
						Expected: f.Elem.Type.String(), Actual: ev.Kind().String(),
						Code: CodeInvalidType,
					})
					break
				}
			}
			continue
		}
		if !compatible(v, f.Type) {
			res.Errors = append(res.Errors, FieldError{
				RecordIndex: idx, Field: name,
				Expected: f.Type.String(), Actual: v.Kind().String(),
				Code: CodeInvalidType,
			})
		}
	}

	for _, k := range r.Keys() {
		if known[k] {
			continue
		}
		v, _ := r.Get(k)
		res.Warnings = append(res.Warnings, FieldError{
			RecordIndex: idx, Field: prefix + k,
			Actual: v.Kind().String(),
			Code:   CodeUnknownField,
		})
	}
}

// compatible reports whether a non-null value satisfies the expected type.
// Strings that would coerce to the expected scalar pass; structural
// mismatches (object where a scalar is expected) fail.
func compatible(v Value, t FieldType) bool {
	k := kindToType(v.Kind())
	if k == t {
		return true
	}
	switch t {
	case TypeString:
		// Any scalar renders as a string.
		return k == TypeNumber || k == TypeBool || k == TypeDate
	case TypeNumber:
		return k == TypeString && wire.LooksNumeric(v.AsString())
	case TypeBool:
		s := v.AsString()
		return k == TypeString && (s == "true" || s == "false")
	case TypeDate:
		return k == TypeString && codec.IsDate(v.AsString())
	case TypeNull:
		return false
	}
	return false
}

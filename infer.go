package toon

import (
	"github.com/reoring/toon/i18n"
)

// InferSchema derives a Schema by sampling records: union field set, field
// order fixed at first occurrence, per-field type from the first non-null
// value, nullability from any absent or null value.
//
// A field seen with conflicting kinds (number in one record, string in
// another) widens to string and is reported in the returned diagnostics; in
// strict mode inference fails with SchemaMismatchError instead. Inference is
// a pure function of the sampled input.
func InferSchema(records []Record, opts ...InferOptions) (*Schema, Issues, error) {
	o := normalizeInferOpts(opts)
	sample := records
	if o.SampleSize > 0 && o.SampleSize < len(sample) {
		sample = sample[:o.SampleSize]
	}
	fields, diags, err := inferFields(sample, "", o.Strict)
	if err != nil {
		return nil, diags, err
	}
	return &Schema{Fields: fields}, diags, nil
}

func kindToType(k Kind) FieldType {
	switch k {
	case KindString:
		return TypeString
	case KindNumber:
		return TypeNumber
	case KindBool:
		return TypeBool
	case KindTime:
		return TypeDate
	case KindObject:
		return TypeObject
	case KindArray:
		return TypeArray
	default:
		return TypeNull
	}
}

func inferFields(records []Record, path string, strict bool) ([]SchemaField, Issues, error) {
	var order []string
	seen := make(map[string]bool)
	for _, r := range records {
		for _, k := range r.Keys() {
			if !seen[k] {
				seen[k] = true
				order = append(order, k)
			}
		}
	}

	var fields []SchemaField
	var diags Issues
	for _, name := range order {
		f := SchemaField{Name: name, Type: TypeNull}
		fieldPath := path + "/" + name
		typed := false
		widened := false

		var objSamples []Record
		var arrSamples []Value

		for _, r := range records {
			v, ok := r.Get(name)
			if !ok || v.IsNull() {
				f.Nullable = true
				continue
			}
			t := kindToType(v.Kind())
			if !typed {
				f.Type = t
				typed = true
			} else if f.Type != t && !widened {
				if strict {
					return nil, diags, &SchemaMismatchError{
						Field:    fieldPath,
						Expected: f.Type.String(),
						Actual:   t.String(),
						Reason:   "inconsistent field types across records",
					}
				}
				diags = AppendIssues(diags, Issue{
					Path:    fieldPath,
					Code:    CodeTypeWidened,
					Message: i18n.T(CodeTypeWidened, nil),
				})
				f.Type = TypeString
				widened = true
				objSamples = nil
				arrSamples = nil
			}
			switch {
			case f.Type == TypeObject && v.Kind() == KindObject:
				objSamples = append(objSamples, *v.AsObject())
			case f.Type == TypeArray && v.Kind() == KindArray:
				arrSamples = append(arrSamples, v.AsArray()...)
			}
		}

		switch f.Type {
		case TypeObject:
			sub, subDiags, err := inferFields(objSamples, fieldPath, strict)
			diags = AppendIssues(diags, subDiags...)
			if err != nil {
				return nil, diags, err
			}
			f.Fields = sub
		case TypeArray:
			elem, elemDiags, err := inferElem(arrSamples, fieldPath, strict)
			diags = AppendIssues(diags, elemDiags...)
			if err != nil {
				return nil, diags, err
			}
			f.Elem = elem
		}
		fields = append(fields, f)
	}
	return fields, diags, nil
}

func inferElem(elems []Value, path string, strict bool) (*SchemaField, Issues, error) {
	elem := &SchemaField{Type: TypeNull}
	var diags Issues
	typed := false
	widened := false
	var objSamples []Record

	for _, v := range elems {
		if v.IsNull() {
			elem.Nullable = true
			continue
		}
		t := kindToType(v.Kind())
		if !typed {
			elem.Type = t
			typed = true
		} else if elem.Type != t && !widened {
			if strict {
				return nil, diags, &SchemaMismatchError{
					Field:    path,
					Expected: elem.Type.String(),
					Actual:   t.String(),
					Reason:   "inconsistent array element types",
				}
			}
			diags = AppendIssues(diags, Issue{
				Path:    path,
				Code:    CodeTypeWidened,
				Message: i18n.T(CodeTypeWidened, nil),
			})
			elem.Type = TypeString
			widened = true
			objSamples = nil
		}
		if elem.Type == TypeObject && v.Kind() == KindObject {
			objSamples = append(objSamples, *v.AsObject())
		}
	}

	if elem.Type == TypeObject {
		sub, subDiags, err := inferFields(objSamples, path, strict)
		diags = AppendIssues(diags, subDiags...)
		if err != nil {
			return nil, diags, err
		}
		elem.Fields = sub
	}
	return elem, diags, nil
}

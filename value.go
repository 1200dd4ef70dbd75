package toon

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind enumerates the variants a Value can hold.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindTime
	KindObject
	KindArray
)

// String returns the kind name as used in schemas and error messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindTime:
		return "date"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Value is a tagged variant over the scalar and container types TOON can
// represent. The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	t    time.Time
	obj  *Record
	arr  []Value
}

// Null returns the null Value.
func Null() Value { return Value{} }

// Str returns a string Value.
func Str(s string) Value { return Value{kind: KindString, str: s} }

// Num returns a number Value.
func Num(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Date returns a date Value carrying the given instant.
func Date(t time.Time) Value { return Value{kind: KindTime, t: t} }

// Obj returns an object Value wrapping the given record.
func Obj(r Record) Value { return Value{kind: KindObject, obj: &r} }

// Arr returns an array Value over the given elements.
func Arr(vs ...Value) Value {
	if vs == nil {
		vs = []Value{}
	}
	return Value{kind: KindArray, arr: vs}
}

// Kind reports the variant held by the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the string payload; "" for other kinds.
func (v Value) AsString() string { return v.str }

// AsNumber returns the numeric payload; 0 for other kinds.
func (v Value) AsNumber() float64 { return v.num }

// AsBool returns the boolean payload; false for other kinds.
func (v Value) AsBool() bool { return v.b }

// AsTime returns the date payload; the zero time for other kinds.
func (v Value) AsTime() time.Time { return v.t }

// AsObject returns the object payload; nil for other kinds.
func (v Value) AsObject() *Record { return v.obj }

// AsArray returns the array payload; nil for other kinds.
func (v Value) AsArray() []Value { return v.arr }

// Equal reports deep equality between two values. Dates compare with
// time.Time.Equal so equivalent instants in different zones match.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	case KindTime:
		return v.t.Equal(o.t)
	case KindObject:
		return v.obj.Equal(*o.obj)
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Record is an ordered mapping from field name to Value. Field order is
// significant: inference fixes column order at first occurrence.
// The zero Record is empty and ready to use.
type Record struct {
	keys []string
	vals map[string]Value
}

// NewRecord returns an empty record.
func NewRecord() Record { return Record{} }

// Set stores a value under name, appending the key on first occurrence and
// replacing in place afterwards. It returns the record for chaining.
func (r *Record) Set(name string, v Value) *Record {
	if r.vals == nil {
		r.vals = make(map[string]Value)
	}
	if _, ok := r.vals[name]; !ok {
		r.keys = append(r.keys, name)
	}
	r.vals[name] = v
	return r
}

// Get returns the value stored under name.
func (r Record) Get(name string) (Value, bool) {
	v, ok := r.vals[name]
	return v, ok
}

// Keys returns the field names in insertion order. The returned slice is
// shared; callers must not mutate it.
func (r Record) Keys() []string { return r.keys }

// Len returns the number of fields.
func (r Record) Len() int { return len(r.keys) }

// Equal reports deep equality: same field set, same order, equal values.
func (r Record) Equal(o Record) bool {
	if len(r.keys) != len(o.keys) {
		return false
	}
	for i, k := range r.keys {
		if o.keys[i] != k {
			return false
		}
		if !r.vals[k].Equal(o.vals[k]) {
			return false
		}
	}
	return true
}

// RecordsEqual reports deep equality between two record slices.
func RecordsEqual(a, b []Record) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// formatNumber renders a float the way TOON writes numbers: shortest plain
// decimal form, no trailing zeros. NaN and infinities render as null.
func formatNumber(f float64) string {
	if f != f || math.IsInf(f, 0) {
		return "null"
	}
	if f == 0 {
		return "0"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	return s
}

package toon_test

import (
	"testing"

	toon "github.com/reoring/toon"
)

// rec builds a record from alternating name/Value pairs.
func rec(pairs ...any) toon.Record {
	r := toon.NewRecord()
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(pairs[i].(string), pairs[i+1].(toon.Value))
	}
	return r
}

func TestEncodeBasicTable(t *testing.T) {
	records := []toon.Record{
		rec("id", toon.Num(1), "name", toon.Str("Alice"), "age", toon.Num(30)),
		rec("id", toon.Num(2), "name", toon.Str("Bob"), "age", toon.Num(25)),
	}
	got, err := toon.Encode(records)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := "[2]{id,name,age}:\n  1,Alice,30\n  2,Bob,25"
	if got != want {
		t.Fatalf("Encode mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestEncodeEmptyArray(t *testing.T) {
	got, err := toon.Encode(nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got != "[0]{}:" {
		t.Fatalf("empty array must encode as %q, got %q", "[0]{}:", got)
	}
}

func TestDecodeEmptyArray(t *testing.T) {
	records, err := toon.Decode("[0]{}:")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if records == nil {
		t.Fatalf("Decode must return an empty slice, not nil")
	}
	if len(records) != 0 {
		t.Fatalf("want 0 records, got %d", len(records))
	}
}

func TestDecodeBasicTable(t *testing.T) {
	text := "[2]{id,name,age}:\n  1,Alice,30\n  2,Bob,25"
	records, err := toon.Decode(text, toon.DecodeOptions{CoerceTypes: true})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []toon.Record{
		rec("id", toon.Num(1), "name", toon.Str("Alice"), "age", toon.Num(30)),
		rec("id", toon.Num(2), "name", toon.Str("Bob"), "age", toon.Num(25)),
	}
	if !toon.RecordsEqual(records, want) {
		t.Fatalf("Decode mismatch: got %+v", records)
	}
}

func TestDecodeWithoutCoercionKeepsStrings(t *testing.T) {
	records, err := toon.Decode("[1]{id,ok}:\n  1,true")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []toon.Record{rec("id", toon.Str("1"), "ok", toon.Str("true"))}
	if !toon.RecordsEqual(records, want) {
		t.Fatalf("got %+v, want raw strings", records)
	}
}

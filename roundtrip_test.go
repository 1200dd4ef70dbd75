package toon_test

import (
	"testing"
	"time"

	toon "github.com/reoring/toon"
)

func roundTrip(t *testing.T, records []toon.Record, eo toon.EncodeOptions, do toon.DecodeOptions) []toon.Record {
	t.Helper()
	text, err := toon.Encode(records, eo)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back, err := toon.Decode(text, do)
	if err != nil {
		t.Fatalf("Decode %q: %v", text, err)
	}
	return back
}

func TestRoundTripScalars(t *testing.T) {
	records := []toon.Record{
		rec("id", toon.Num(1), "name", toon.Str("Alice"), "ok", toon.Bool(true), "note", toon.Null()),
		rec("id", toon.Num(2.5), "name", toon.Str("Bob,Jr"), "ok", toon.Bool(false), "note", toon.Str("x")),
	}
	back := roundTrip(t, records, toon.EncodeOptions{}, toon.DecodeOptions{CoerceTypes: true})
	if !toon.RecordsEqual(back, records) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", back, records)
	}
}

func TestRoundTripAwkwardStrings(t *testing.T) {
	awkward := []string{
		"a,b", `quoted "inner"`, "42", "007", "true", "null", "", " padded ",
		"line1\nline2", "a\r\nb", "tab\there", "trailing\\", `""`,
	}
	records := make([]toon.Record, len(awkward))
	for i, s := range awkward {
		records[i] = rec("v", toon.Str(s))
	}

	for _, esc := range []toon.EscapeStrategy{toon.EscapeCSV, toon.EscapeBackslash} {
		back := roundTrip(t, records,
			toon.EncodeOptions{Escape: esc},
			toon.DecodeOptions{CoerceTypes: true, Escape: esc})
		if !toon.RecordsEqual(back, records) {
			t.Fatalf("escape %v: round trip mismatch:\n got %+v\nwant %+v", esc, back, records)
		}
	}
}

func TestRoundTripAllEmptyRow(t *testing.T) {
	// The first row renders as a whitespace-only line; it is still a row.
	records := []toon.Record{
		rec("a", toon.Null()),
		rec("a", toon.Num(1)),
	}
	back := roundTrip(t, records, toon.EncodeOptions{}, toon.DecodeOptions{CoerceTypes: true})
	if !toon.RecordsEqual(back, records) {
		t.Fatalf("got %+v, want %+v", back, records)
	}
}

func TestRoundTripEmptyScalarArrayElement(t *testing.T) {
	records := []toon.Record{
		rec("a", toon.Num(1), "xs", toon.Arr(toon.Null(), toon.Num(2))),
	}
	back := roundTrip(t, records, toon.EncodeOptions{}, toon.DecodeOptions{CoerceTypes: true})
	if !toon.RecordsEqual(back, records) {
		t.Fatalf("got %+v, want %+v", back, records)
	}
}

func TestRoundTripNullLiteral(t *testing.T) {
	records := []toon.Record{
		rec("a", toon.Num(1), "b", toon.Null()),
		rec("a", toon.Num(2), "b", toon.Str("x")),
	}
	back := roundTrip(t, records,
		toon.EncodeOptions{NullHandling: toon.NullLiteral},
		toon.DecodeOptions{CoerceTypes: true})
	if !toon.RecordsEqual(back, records) {
		t.Fatalf("got %+v", back)
	}
}

func TestRoundTripNullSkipRestoresViaSchema(t *testing.T) {
	records := []toon.Record{
		rec("a", toon.Num(1), "b", toon.Null()),
		rec("a", toon.Num(2), "b", toon.Null()),
	}
	schema, _, err := toon.InferSchema(records)
	if err != nil {
		t.Fatalf("InferSchema: %v", err)
	}
	back := roundTrip(t, records,
		toon.EncodeOptions{NullHandling: toon.NullSkip},
		toon.DecodeOptions{CoerceTypes: true, Schema: schema})
	if !toon.RecordsEqual(back, records) {
		t.Fatalf("skipped fields must come back as explicit null:\n got %+v\nwant %+v", back, records)
	}
}

func TestRoundTripNested(t *testing.T) {
	records := []toon.Record{
		rec(
			"id", toon.Num(1),
			"customer", toon.Obj(rec("name", toon.Str("Alice"), "city", toon.Str("Paris"))),
			"items", toon.Arr(
				toon.Obj(rec("sku", toon.Str("A1"), "qty", toon.Num(2))),
				toon.Obj(rec("sku", toon.Str("B2"), "qty", toon.Num(1))),
			),
			"tags", toon.Arr(toon.Str("new"), toon.Str("sale")),
		),
		rec(
			"id", toon.Num(2),
			"customer", toon.Obj(rec("name", toon.Str("Bob"), "city", toon.Str("Lyon"))),
			"items", toon.Arr(),
			"tags", toon.Arr(),
		),
	}
	back := roundTrip(t, records, toon.EncodeOptions{}, toon.DecodeOptions{CoerceTypes: true})
	if !toon.RecordsEqual(back, records) {
		t.Fatalf("nested round trip mismatch:\n got %+v\nwant %+v", back, records)
	}
}

func TestRoundTripDates(t *testing.T) {
	records := []toon.Record{
		rec("at", toon.Date(time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)), "label", toon.Str("2024-05-01T10:30:00Z")),
	}
	back := roundTrip(t, records, toon.EncodeOptions{}, toon.DecodeOptions{CoerceTypes: true})
	if !toon.RecordsEqual(back, records) {
		t.Fatalf("date round trip mismatch:\n got %+v\nwant %+v", back, records)
	}
}

func TestRoundTripEncodeStable(t *testing.T) {
	// Encoding the decoded records again reproduces the same document.
	records := []toon.Record{
		rec("id", toon.Num(1), "name", toon.Str("a,b"), "ok", toon.Bool(true)),
		rec("id", toon.Num(2), "name", toon.Str(`say "hi"`), "ok", toon.Null()),
	}
	first, err := toon.Encode(records)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back, err := toon.Decode(first, toon.DecodeOptions{CoerceTypes: true})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	second, err := toon.Encode(back)
	if err != nil {
		t.Fatalf("re-Encode: %v", err)
	}
	if first != second {
		t.Fatalf("unstable encoding:\nfirst:  %q\nsecond: %q", first, second)
	}
}

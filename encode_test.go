package toon_test

import (
	"strings"
	"testing"
	"time"

	toon "github.com/reoring/toon"
)

func TestEncodeNullHandling(t *testing.T) {
	records := []toon.Record{
		rec("a", toon.Num(1), "b", toon.Null()),
		rec("a", toon.Num(2), "b", toon.Str("x")),
	}

	got, err := toon.Encode(records)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got != "[2]{a,b}:\n  1,\n  2,x" {
		t.Fatalf("NullEmpty: got %q", got)
	}

	got, err = toon.Encode(records, toon.EncodeOptions{NullHandling: toon.NullLiteral})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got != "[2]{a,b}:\n  1,null\n  2,x" {
		t.Fatalf("NullLiteral: got %q", got)
	}
}

func TestEncodeNullSkipDropsAllNullField(t *testing.T) {
	records := []toon.Record{
		rec("a", toon.Num(1), "b", toon.Null()),
		rec("a", toon.Num(2), "b", toon.Null()),
	}
	got, err := toon.Encode(records, toon.EncodeOptions{NullHandling: toon.NullSkip})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got != "[2]{a}:\n  1\n  2" {
		t.Fatalf("NullSkip: got %q", got)
	}
}

func TestEncodeQuoting(t *testing.T) {
	records := []toon.Record{rec(
		"comma", toon.Str("a,b"),
		"quote", toon.Str(`say "hi"`),
		"numeric", toon.Str("42"),
		"boolish", toon.Str("true"),
		"empty", toon.Str(""),
		"padded", toon.Str(" x "),
	)}
	got, err := toon.Encode(records)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	lines := strings.Split(got, "\n")
	want := `  "a,b","say ""hi""","42","true",""," x "`
	if lines[1] != want {
		t.Fatalf("row: got %q, want %q", lines[1], want)
	}
}

func TestEncodeDateUnquoted(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	records := []toon.Record{rec("at", toon.Date(ts))}
	got, err := toon.Encode(records)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got != "[1]{at}:\n  2024-05-01T10:30:00Z" {
		t.Fatalf("got %q", got)
	}
}

func TestEncodeDateShapedStringQuoted(t *testing.T) {
	records := []toon.Record{rec("at", toon.Str("2024-05-01T10:30:00Z"))}
	got, err := toon.Encode(records)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got != "[1]{at}:\n  \"2024-05-01T10:30:00Z\"" {
		t.Fatalf("date-shaped string must stay quoted, got %q", got)
	}
}

func TestEncodeNestedObjectFlattens(t *testing.T) {
	addr := rec("city", toon.Str("Paris"), "zip", toon.Str("75001"))
	records := []toon.Record{rec("id", toon.Num(1), "address", toon.Obj(addr))}
	got, err := toon.Encode(records)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got != "[1]{id,address.city,address.zip}:\n  1,Paris,75001" {
		t.Fatalf("got %q", got)
	}
}

func TestEncodeArraySubBlock(t *testing.T) {
	items := toon.Arr(
		toon.Obj(rec("sku", toon.Str("A1"), "qty", toon.Num(2))),
		toon.Obj(rec("sku", toon.Str("B2"), "qty", toon.Num(1))),
	)
	records := []toon.Record{rec("id", toon.Num(7), "items", items)}
	got, err := toon.Encode(records)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := "[1]{id}:\n" +
		"  7\n" +
		"    items[2]{sku,qty}:\n" +
		"      A1,2\n" +
		"      B2,1"
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeScalarArraySubBlock(t *testing.T) {
	records := []toon.Record{rec("id", toon.Num(1), "tags", toon.Arr(toon.Str("x"), toon.Str("y")))}
	got, err := toon.Encode(records)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := "[1]{id}:\n  1\n    tags[2]{}:\n      x\n      y"
	if got != want {
		t.Fatalf("got %q", got)
	}
}

func TestEncodeExplicitSchemaRejectsUnknownField(t *testing.T) {
	schema := toon.NewSchema(toon.SchemaField{Name: "a", Type: toon.TypeNumber})
	records := []toon.Record{rec("a", toon.Num(1), "b", toon.Num(2))}
	_, err := toon.Encode(records, toon.EncodeOptions{Schema: schema})
	sm, ok := toon.AsSchemaMismatch(err)
	if !ok {
		t.Fatalf("want SchemaMismatchError, got %v", err)
	}
	if sm.Field != "b" {
		t.Fatalf("offending field: got %q", sm.Field)
	}
}

func TestEncodeExplicitSchemaRejectsUncoveredNestedField(t *testing.T) {
	schema := toon.NewSchema(toon.SchemaField{
		Name: "customer", Type: toon.TypeObject,
		Fields: []toon.SchemaField{{Name: "name", Type: toon.TypeString}},
	})
	records := []toon.Record{rec("customer", toon.Obj(rec("name", toon.Str("Alice"), "city", toon.Str("Paris"))))}
	_, err := toon.Encode(records, toon.EncodeOptions{Schema: schema})
	sm, ok := toon.AsSchemaMismatch(err)
	if !ok {
		t.Fatalf("want SchemaMismatchError, got %v", err)
	}
	if sm.Field != "customer.city" {
		t.Fatalf("offending field: got %q, want %q", sm.Field, "customer.city")
	}
}

func TestEncodeExplicitSchemaRejectsUncoveredArrayElementField(t *testing.T) {
	schema := toon.NewSchema(toon.SchemaField{
		Name: "items", Type: toon.TypeArray,
		Elem: &toon.SchemaField{
			Type:   toon.TypeObject,
			Fields: []toon.SchemaField{{Name: "sku", Type: toon.TypeString}},
		},
	})
	records := []toon.Record{rec("items", toon.Arr(
		toon.Obj(rec("sku", toon.Str("A1"), "qty", toon.Num(2))),
	))}
	_, err := toon.Encode(records, toon.EncodeOptions{Schema: schema})
	sm, ok := toon.AsSchemaMismatch(err)
	if !ok {
		t.Fatalf("want SchemaMismatchError, got %v", err)
	}
	if sm.Field != "items.qty" {
		t.Fatalf("offending field: got %q, want %q", sm.Field, "items.qty")
	}
}

func TestEncodeUnrepresentableRows(t *testing.T) {
	// Every field dropped by NullSkip leaves rows with no columns.
	records := []toon.Record{rec("a", toon.Null())}
	_, err := toon.Encode(records, toon.EncodeOptions{NullHandling: toon.NullSkip})
	if _, ok := toon.AsSchemaMismatch(err); !ok {
		t.Fatalf("want SchemaMismatchError, got %v", err)
	}
}

func TestEncodeQuotedHeaderNames(t *testing.T) {
	records := []toon.Record{rec("order.id", toon.Num(9), "name", toon.Str("n"))}
	got, err := toon.Encode(records)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.HasPrefix(got, `[1]{"order.id",name}:`) {
		t.Fatalf("dotted field name must be quoted in header, got %q", got)
	}

	back, err := toon.Decode(got, toon.DecodeOptions{CoerceTypes: true})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !toon.RecordsEqual(back, records) {
		t.Fatalf("round trip: got %+v", back)
	}
}

package wire

import (
	"reflect"
	"testing"
)

func TestFormatHeader(t *testing.T) {
	cols := [][]string{{"id"}, {"address", "city"}, {"order.id"}}
	got := FormatHeader("", 2, cols, ',')
	want := `[2]{id,address.city,"order.id"}:`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	got = FormatHeader("items", 0, nil, ',')
	if got != "items[0]{}:" {
		t.Fatalf("got %q", got)
	}
}

func TestParseHeader(t *testing.T) {
	h, ok, err := ParseHeader(`[2]{id,address.city,"order.id"}:`, ',')
	if !ok || err != nil {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if h.Name != "" || h.Count != 2 {
		t.Fatalf("got %+v", h)
	}
	want := [][]string{{"id"}, {"address", "city"}, {"order.id"}}
	if !reflect.DeepEqual(h.Columns, want) {
		t.Fatalf("columns: got %v", h.Columns)
	}
}

func TestParseHeaderNamedEmpty(t *testing.T) {
	h, ok, err := ParseHeader("tags[3]{}:", ',')
	if !ok || err != nil {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if h.Name != "tags" || h.Count != 3 || h.Columns != nil {
		t.Fatalf("got %+v", h)
	}
}

func TestParseHeaderQuotedName(t *testing.T) {
	h, ok, err := ParseHeader(`"weird[name]"[1]{a}:`, ',')
	if !ok || err != nil {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if h.Name != "weird[name]" || h.Count != 1 {
		t.Fatalf("got %+v", h)
	}
}

func TestParseHeaderNotHeaderShaped(t *testing.T) {
	for _, line := range []string{"1,2,3", "plain text", "{a}:", "[2]{a}", ""} {
		if _, ok, _ := ParseHeader(line, ','); ok {
			t.Fatalf("%q must not parse as a header", line)
		}
	}
}

func TestParseHeaderMalformed(t *testing.T) {
	for _, line := range []string{"[x]{a}:", "[-1]{a}:", "[01]{a}:", "[1]{a}: x", "[1]{,}:", `[1]{"a}:`} {
		_, ok, err := ParseHeader(line, ',')
		if !ok || err == nil {
			t.Fatalf("%q: want header-shaped error, got ok=%v err=%v", line, ok, err)
		}
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	cols := [][]string{{"plain"}, {"dot.ted"}, {"a", "b", "c"}, {`q"q`}, {"sp ace"}}
	line := FormatHeader("blk", 7, cols, ',')
	h, ok, err := ParseHeader(line, ',')
	if !ok || err != nil {
		t.Fatalf("%q: ok=%v err=%v", line, ok, err)
	}
	if h.Name != "blk" || h.Count != 7 || !reflect.DeepEqual(h.Columns, cols) {
		t.Fatalf("got %+v", h)
	}
}

package wire

import (
	"strconv"
	"strings"
)

// Header is a parsed block header: `[N]{fields}:` at document level, or
// `name[N]{fields}:` for a nested block.
type Header struct {
	Name    string     // empty for the document header
	Count   int        // declared record count, load-bearing
	Columns [][]string // column paths; empty for `{}` headers
}

// ErrBadHeader reports a header-shaped line that is malformed.
var ErrBadHeader = strconv.ErrSyntax

// FormatHeader renders a header line (without indentation or newline).
func FormatHeader(name string, count int, cols [][]string, delim byte) string {
	var b strings.Builder
	if name != "" {
		b.Write(appendNameSegment(nil, name, delim))
	}
	b.WriteByte('[')
	b.WriteString(strconv.Itoa(count))
	b.WriteString("]{")
	for i, c := range cols {
		if i > 0 {
			b.WriteByte(delim)
		}
		b.WriteString(EncodeName(c, delim))
	}
	b.WriteString("}:")
	return b.String()
}

// ParseHeader parses a block header line (indentation already stripped).
// ok is false when the line is not header-shaped at all; err is non-nil when
// it is header-shaped but malformed (bad count, missing brace, trailing
// content).
func ParseHeader(line string, delim byte) (h Header, ok bool, err error) {
	name, rest, nerr := decodeBlockName(line)
	if nerr != nil {
		return Header{}, false, nil
	}
	if len(rest) == 0 || rest[0] != '[' {
		return Header{}, false, nil
	}
	rest = rest[1:]

	end := strings.IndexByte(rest, ']')
	if end < 0 {
		return Header{}, false, nil
	}
	countText := rest[:end]
	rest = rest[end+1:]

	if len(rest) < 3 || rest[0] != '{' {
		return Header{}, false, nil
	}
	brace := strings.LastIndexByte(rest, '}')
	if brace < 0 || brace+1 >= len(rest) || rest[brace+1] != ':' {
		return Header{}, false, nil
	}
	if strings.TrimSpace(rest[brace+2:]) != "" {
		return Header{Name: name}, true, ErrBadHeader
	}

	count, cerr := strconv.Atoi(countText)
	if cerr != nil || count < 0 || (len(countText) > 1 && countText[0] == '0') {
		return Header{Name: name}, true, ErrBadHeader
	}

	list := rest[1:brace]
	var cols [][]string
	if list != "" {
		cols, err = SplitNames(list, delim)
		if err != nil {
			return Header{Name: name, Count: count}, true, ErrBadHeader
		}
	}
	return Header{Name: name, Count: count, Columns: cols}, true, nil
}

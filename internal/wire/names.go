package wire

import (
	"errors"
	"strings"
)

// Column names in a header are dot-joined paths: `address.city` addresses the
// city field of the flattened address object. A segment whose literal text
// would be ambiguous (it contains a dot, the delimiter, quotes, brackets or
// whitespace) is written quoted with csv-style doubling, independent of the
// value escape strategy: `"order.id".qty` is a two-segment path whose first
// segment is the literal name "order.id".

// ErrBadName reports a malformed column name or block name.
var ErrBadName = errors.New("wire: malformed name")

func nameNeedsQuoting(seg string, delim byte) bool {
	if len(seg) == 0 {
		return true
	}
	if seg[0] == ' ' || seg[len(seg)-1] == ' ' {
		return true
	}
	for i := 0; i < len(seg); i++ {
		switch seg[i] {
		case delim, '.', '"', '\\', '\n', '\r', '{', '}', '[', ']', ':':
			return true
		}
	}
	return false
}

func appendNameSegment(dst []byte, seg string, delim byte) []byte {
	if !nameNeedsQuoting(seg, delim) {
		return append(dst, seg...)
	}
	dst = append(dst, '"')
	for i := 0; i < len(seg); i++ {
		if seg[i] == '"' {
			dst = append(dst, '"', '"')
		} else {
			dst = append(dst, seg[i])
		}
	}
	return append(dst, '"')
}

// EncodeName renders a column path for a header field list.
func EncodeName(path []string, delim byte) string {
	var dst []byte
	for i, seg := range path {
		if i > 0 {
			dst = append(dst, '.')
		}
		dst = appendNameSegment(dst, seg, delim)
	}
	return string(dst)
}

// SplitNames parses a header field list into column paths.
func SplitNames(list string, delim byte) ([][]string, error) {
	var paths [][]string
	var path []string
	var cur strings.Builder
	inQuote := false
	segQuoted := false
	segClosed := false

	pushSeg := func() error {
		if !segQuoted && cur.Len() == 0 {
			return ErrBadName
		}
		path = append(path, cur.String())
		cur.Reset()
		segQuoted = false
		segClosed = false
		return nil
	}
	pushPath := func() error {
		if err := pushSeg(); err != nil {
			return err
		}
		paths = append(paths, path)
		path = nil
		return nil
	}

	for i := 0; i < len(list); i++ {
		c := list[i]
		if inQuote {
			if c == '"' {
				if i+1 < len(list) && list[i+1] == '"' {
					cur.WriteByte('"')
					i++
					continue
				}
				inQuote = false
				segClosed = true
				continue
			}
			cur.WriteByte(c)
			continue
		}
		switch {
		case c == delim:
			if err := pushPath(); err != nil {
				return nil, err
			}
		case c == '.':
			if err := pushSeg(); err != nil {
				return nil, err
			}
		case segClosed:
			return nil, ErrBadName
		case c == '"' && cur.Len() == 0 && !segQuoted:
			inQuote = true
			segQuoted = true
		default:
			cur.WriteByte(c)
		}
	}
	if inQuote {
		return nil, ErrBadName
	}
	if err := pushPath(); err != nil {
		return nil, err
	}
	return paths, nil
}

// decodeBlockName parses a nested block's name token (a single segment,
// optionally quoted). It returns the remaining input after the name.
func decodeBlockName(line string) (name string, rest string, err error) {
	if len(line) == 0 || line[0] != '"' {
		i := strings.IndexByte(line, '[')
		if i < 0 {
			return "", "", ErrBadName
		}
		return line[:i], line[i:], nil
	}
	var b strings.Builder
	i := 1
	for i < len(line) {
		if line[i] == '"' {
			if i+1 < len(line) && line[i+1] == '"' {
				b.WriteByte('"')
				i += 2
				continue
			}
			return b.String(), line[i+1:], nil
		}
		b.WriteByte(line[i])
		i++
	}
	return "", "", ErrBadName
}

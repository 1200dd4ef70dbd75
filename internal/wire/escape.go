// Package wire implements the line-level TOON codec: field escaping and
// splitting, and header formatting and parsing. It is shared by the one-shot
// and streaming paths so both agree on every escaping edge case.
package wire

import (
	"errors"
	"regexp"
	"strings"

	"github.com/reoring/toon/codec"
)

// Strategy selects how quote/delimiter/newline characters inside string
// values are encoded.
type Strategy int

const (
	StrategyCSV       Strategy = iota // Quote-doubling; newlines stay literal inside quotes.
	StrategyBackslash                 // Backslash escapes; a row is always one physical line.
)

// Field is one split row cell. Quoted distinguishes `""` from an empty cell
// and keeps quoted values exempt from type coercion.
type Field struct {
	Text   string
	Quoted bool
}

// ErrUnterminatedQuote reports a row that ends inside an open quote under the
// backslash strategy, where no continuation line can follow.
var ErrUnterminatedQuote = errors.New("wire: unterminated quote")

// ErrDanglingEscape reports a backslash at end of input.
var ErrDanglingEscape = errors.New("wire: dangling escape")

// ErrStrayQuote reports content between a closing quote and the next
// delimiter.
var ErrStrayQuote = errors.New("wire: unexpected character after closing quote")

var numericRe = regexp.MustCompile(`^-?\d+(?:\.\d+)?(?:[eE][+-]?\d+)?$`)

// LooksNumeric reports whether an unquoted cell would coerce to a number.
// Leading-zero integers ("007") stay strings, mirroring JSON number syntax.
func LooksNumeric(s string) bool {
	if !numericRe.MatchString(s) {
		return false
	}
	digits := s
	if digits[0] == '-' {
		digits = digits[1:]
	}
	if len(digits) > 1 && digits[0] == '0' && digits[1] != '.' {
		return false
	}
	return true
}

// NeedsQuoting reports whether a string value must be quoted so that decoding
// returns it verbatim instead of coercing or mis-splitting it.
func NeedsQuoting(s string, delim byte) bool {
	if len(s) == 0 {
		return true
	}
	switch s {
	case "true", "false", "null":
		return true
	}
	if s[0] == ' ' || s[len(s)-1] == ' ' {
		return true
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case delim, '"', '\\', '\n', '\r':
			return true
		}
	}
	if LooksNumeric(s) {
		return true
	}
	return codec.IsDate(s)
}

// AppendField appends the wire form of a string cell, quoting and escaping as
// the strategy demands.
func AppendField(dst []byte, s string, st Strategy, delim byte) []byte {
	if !NeedsQuoting(s, delim) {
		return append(dst, s...)
	}
	dst = append(dst, '"')
	switch st {
	case StrategyBackslash:
		for i := 0; i < len(s); i++ {
			switch s[i] {
			case '\\':
				dst = append(dst, '\\', '\\')
			case '"':
				dst = append(dst, '\\', '"')
			case '\n':
				dst = append(dst, '\\', 'n')
			case '\r':
				dst = append(dst, '\\', 'r')
			case '\t':
				dst = append(dst, '\\', 't')
			default:
				dst = append(dst, s[i])
			}
		}
	default: // StrategyCSV
		for i := 0; i < len(s); i++ {
			if s[i] == '"' {
				dst = append(dst, '"', '"')
			} else {
				dst = append(dst, s[i])
			}
		}
	}
	return append(dst, '"')
}

// EncodeField returns the wire form of a string cell.
func EncodeField(s string, st Strategy, delim byte) string {
	return string(AppendField(nil, s, st, delim))
}

// SplitRow splits one logical row into cells, honoring quote and escape
// state. Under the csv strategy a line ending inside an open quote is not an
// error: SplitRow reports open=true and the caller joins the next physical
// line (with the newline restored) and re-splits.
func SplitRow(line string, st Strategy, delim byte) (fields []Field, open bool, err error) {
	var cur strings.Builder
	quoted := false  // current cell started with a quote
	inQuote := false // currently inside the quotes
	closed := false  // current cell's quote has closed

	flush := func() {
		text := cur.String()
		if !quoted {
			text = strings.TrimSpace(text)
		}
		fields = append(fields, Field{Text: text, Quoted: quoted})
		cur.Reset()
		quoted = false
		closed = false
	}

	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case inQuote && st == StrategyCSV:
			if c == '"' {
				if i+1 < len(line) && line[i+1] == '"' {
					cur.WriteByte('"')
					i += 2
					continue
				}
				inQuote = false
				closed = true
				i++
				continue
			}
			cur.WriteByte(c)
			i++
		case inQuote: // StrategyBackslash
			switch c {
			case '\\':
				if i+1 >= len(line) {
					return nil, false, ErrDanglingEscape
				}
				switch line[i+1] {
				case 'n':
					cur.WriteByte('\n')
				case 'r':
					cur.WriteByte('\r')
				case 't':
					cur.WriteByte('\t')
				case '"':
					cur.WriteByte('"')
				case '\\':
					cur.WriteByte('\\')
				default:
					cur.WriteByte(line[i+1])
				}
				i += 2
			case '"':
				inQuote = false
				closed = true
				i++
			default:
				cur.WriteByte(c)
				i++
			}
		default:
			switch {
			case c == delim:
				flush()
				i++
			case closed:
				// Only whitespace may sit between a closing quote and the
				// next delimiter.
				if c == ' ' || c == '\t' {
					i++
					continue
				}
				return nil, false, ErrStrayQuote
			case c == '"' && cur.Len() == 0 && !quoted:
				quoted = true
				inQuote = true
				i++
			case c == ' ' && cur.Len() == 0 && !quoted:
				// leading padding before a cell
				i++
			default:
				cur.WriteByte(c)
				i++
			}
		}
	}
	if inQuote {
		if st == StrategyCSV {
			return nil, true, nil
		}
		return nil, false, ErrUnterminatedQuote
	}
	flush()
	return fields, false, nil
}

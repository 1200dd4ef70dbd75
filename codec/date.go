// Package codec holds the scalar codecs shared by the encoder, decoder and
// schema inference. Dates travel as RFC3339 strings on the wire.
package codec

import "time"

// ParseDate parses an RFC3339 timestamp, accepting optional fractional
// seconds (RFC3339Nano with trailing zeros trimmed or not).
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

// IsDate reports whether s is a parseable RFC3339 timestamp.
func IsDate(s string) bool {
	// Cheap shape check before the full parse: "2006-01-02T..." is the
	// shortest valid form.
	if len(s) < 20 || s[4] != '-' || s[7] != '-' || s[10] != 'T' {
		return false
	}
	_, err := ParseDate(s)
	return err == nil
}

// FormatDate renders t in canonical wire form: UTC, RFC3339Nano (Go trims
// trailing fractional zeros).
func FormatDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

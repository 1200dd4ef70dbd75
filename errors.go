package toon

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/toon/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeSchemaMismatch = "schema_mismatch"
	CodeParseError     = "parse_error"
	CodeCountMismatch  = "count_mismatch"
	CodeRequired       = "required"
	CodeInvalidType    = "invalid_type"
	CodeUnknownField   = "unknown_field"
	CodeTypeWidened    = "type_widened"
	CodeTruncated      = "truncated"
)

// Issue represents a single diagnostic entry. Schema inference and the
// streaming decoder report non-fatal findings as Issues rather than errors.
type Issue struct {
	Path    string // Slash path to the offending location (for example: /2/price).
	Code    string // One of the codes listed above.
	Message string
	Line    int   // Input line number when known (0 otherwise).
	Cause   error // Optional: underlying error.
}

// Issues is a collection of diagnostics that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. parse_error at /2
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// SchemaMismatchError reports an encode-time structural incompatibility:
// records that the resolved schema (and the active null-handling policy)
// cannot represent.
type SchemaMismatchError struct {
	Field    string // Offending field name (dotted for nested fields).
	Expected string // Expected type name, "" when the field is unaccounted for.
	Actual   string // Observed type name or shape.
	Reason   string
}

func (e *SchemaMismatchError) Error() string {
	msg := i18n.T(CodeSchemaMismatch, map[string]string{"field": e.Field})
	if e.Field != "" {
		msg = fmt.Sprintf("%s: field %q", msg, e.Field)
	}
	if e.Expected != "" || e.Actual != "" {
		msg = fmt.Sprintf("%s (expected %s, got %s)", msg, e.Expected, e.Actual)
	}
	if e.Reason != "" {
		msg = msg + ": " + e.Reason
	}
	return msg
}

// Code returns the stable issue code for this error.
func (e *SchemaMismatchError) Code() string { return CodeSchemaMismatch }

// ParseError reports malformed input at decode time. Line is 1-based.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at line %d: %s", i18n.T(CodeParseError, nil), e.Line, e.Reason)
}

// Code returns the stable issue code for this error.
func (e *ParseError) Code() string { return CodeParseError }

// CountMismatchError reports disagreement between a header's declared record
// count and the rows actually present. It is always fatal: it signals either a
// caller bug or truncated input.
type CountMismatchError struct {
	Declared int
	Actual   int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("%s: declared %d, got %d", i18n.T(CodeCountMismatch, nil), e.Declared, e.Actual)
}

// Code returns the stable issue code for this error.
func (e *CountMismatchError) Code() string { return CodeCountMismatch }

// AsSchemaMismatch extracts a SchemaMismatchError using errors.As.
func AsSchemaMismatch(err error) (*SchemaMismatchError, bool) {
	var e *SchemaMismatchError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// AsParseError extracts a ParseError using errors.As.
func AsParseError(err error) (*ParseError, bool) {
	var e *ParseError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// AsCountMismatch extracts a CountMismatchError using errors.As.
func AsCountMismatch(err error) (*CountMismatchError, bool) {
	var e *CountMismatchError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

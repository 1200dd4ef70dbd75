package toon

// NullHandling controls how absent/null field values are rendered.
type NullHandling int

const (
	NullEmpty   NullHandling = iota // Render null as an empty field (default).
	NullLiteral                     // Render null as the literal token "null".
	NullSkip                        // Omit all-null fields from the header and every row.
)

// EscapeStrategy dictates how delimiter/quote/newline characters inside string
// values are encoded. The decoder never auto-detects the strategy; encode and
// decode options must match.
type EscapeStrategy int

const (
	EscapeCSV       EscapeStrategy = iota // Quote-doubling; newlines stay literal inside quotes (default).
	EscapeBackslash                       // Backslash escapes for quote, backslash and control characters.
)

// EncodeOptions bundles encoding options.
type EncodeOptions struct {
	Schema       *Schema        // Explicit schema; nil means infer over the full input.
	NullHandling NullHandling   // Default NullEmpty.
	Escape       EscapeStrategy // Default EscapeCSV.
	Indent       int            // Spaces per indentation level; default 2.
}

// DecodeOptions bundles decoding options.
type DecodeOptions struct {
	CoerceTypes bool           // When false every value decodes as a string.
	Escape      EscapeStrategy // Must match the strategy used at encode time.
	Schema      *Schema        // Optional coercion hints; also restores skipped fields as null.
	Indent      int            // Spaces per indentation level; default 2.
	// OnIssue, when set, receives row-level diagnostics as the streaming
	// decoder skips malformed lines. One-shot Decode ignores it.
	OnIssue func(Issue)
}

// InferOptions bundles schema inference options.
type InferOptions struct {
	SampleSize int  // Records to scan; 0 means all.
	Strict     bool // Fail with SchemaMismatchError on inconsistent field types.
}

const (
	defaultIndent    = 2
	defaultDelimiter = ','
)

func normalizeEncodeOpts(opts []EncodeOptions) EncodeOptions {
	var o EncodeOptions
	if len(opts) > 0 {
		o = opts[len(opts)-1]
	}
	if o.Indent <= 0 {
		o.Indent = defaultIndent
	}
	return o
}

func normalizeDecodeOpts(opts []DecodeOptions) DecodeOptions {
	var o DecodeOptions
	if len(opts) > 0 {
		o = opts[len(opts)-1]
	}
	if o.Indent <= 0 {
		o.Indent = defaultIndent
	}
	return o
}

func normalizeInferOpts(opts []InferOptions) InferOptions {
	var o InferOptions
	if len(opts) > 0 {
		o = opts[len(opts)-1]
	}
	return o
}

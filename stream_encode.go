package toon

import (
	"errors"
	"io"

	"github.com/reoring/toon/internal/wire"
)

// ErrNotInitialized is returned by StreamEncoder methods invoked before a
// schema is available.
var ErrNotInitialized = errors.New("toon: stream encoder not initialized")

// ErrHeaderNotWritten is returned when records are encoded before WriteHeader.
var ErrHeaderNotWritten = errors.New("toon: header not written")

// StreamEncoder emits a TOON document incrementally without holding all
// records in memory. The record count must be known up front; Close verifies
// that exactly that many records were written. Output is byte-identical to
// Encode over the same records and options.
type StreamEncoder struct {
	w     io.Writer
	o     EncodeOptions
	delim byte

	schema     *Schema
	plan       blockPlan
	declared   int
	headerDone bool
	written    int
}

// NewStreamEncoder builds a streaming encoder over w. Call Initialize (or set
// EncodeOptions.Schema), then WriteHeader, then EncodeRecord/EncodeBatch, then
// Close.
func NewStreamEncoder(w io.Writer, opts ...EncodeOptions) *StreamEncoder {
	o := normalizeEncodeOpts(opts)
	s := &StreamEncoder{w: w, o: o, delim: defaultDelimiter}
	if o.Schema != nil {
		s.setSchema(o.Schema)
	}
	return s
}

func (s *StreamEncoder) setSchema(sc *Schema) {
	s.schema = sc
	s.plan = buildPlan(sc.Fields, s.o.NullHandling, nil)
}

// Initialize fixes the schema. With EncodeOptions.Schema set the sample is
// ignored; otherwise the schema is inferred from the sample records, which are
// NOT written — pass them again through EncodeRecord.
func (s *StreamEncoder) Initialize(sample []Record) error {
	if s.schema != nil {
		return nil
	}
	inferred, _, err := InferSchema(sample)
	if err != nil {
		return err
	}
	s.setSchema(inferred)
	return nil
}

// WriteHeader emits the document header declaring total records. A zero total
// writes the canonical empty document regardless of schema.
func (s *StreamEncoder) WriteHeader(total int) error {
	if s.headerDone {
		return errors.New("toon: header already written")
	}
	if total == 0 {
		if _, err := io.WriteString(s.w, "[0]{}:"); err != nil {
			return err
		}
		s.declared = 0
		s.headerDone = true
		return nil
	}
	if s.schema == nil {
		return ErrNotInitialized
	}
	if len(s.plan.cols) == 0 {
		return &SchemaMismatchError{Reason: "no representable columns; rows would be empty"}
	}
	cols := make([][]string, len(s.plan.cols))
	for i, c := range s.plan.cols {
		cols[i] = c.path
	}
	if _, err := io.WriteString(s.w, wire.FormatHeader("", total, cols, s.delim)); err != nil {
		return err
	}
	s.declared = total
	s.headerDone = true
	return nil
}

// EncodeRecord writes one record as a row plus its nested sub-blocks. A
// record carrying a field the schema does not define fails; fields the schema
// defines but the record lacks encode per the null policy.
func (s *StreamEncoder) EncodeRecord(r Record) error {
	if !s.headerDone {
		return ErrHeaderNotWritten
	}
	if s.written >= s.declared {
		return &CountMismatchError{Declared: s.declared, Actual: s.written + 1}
	}
	if err := checkFieldsCover(&r, s.schema.Fields, ""); err != nil {
		return err
	}

	e := &encoder{o: s.o, delim: s.delim}
	if err := e.writeRow(&r, s.plan, 1); err != nil {
		return err
	}
	// Rows are newline-prefixed so the document never ends with a newline.
	buf := e.buf
	if n := len(buf); n > 0 && buf[n-1] == '\n' {
		buf = buf[:n-1]
	}
	if _, err := s.w.Write([]byte{'\n'}); err != nil {
		return err
	}
	if _, err := s.w.Write(buf); err != nil {
		return err
	}
	s.written++
	return nil
}

// EncodeBatch writes records in order, stopping at the first failure.
func (s *StreamEncoder) EncodeBatch(records []Record) error {
	for i := range records {
		if err := s.EncodeRecord(records[i]); err != nil {
			return err
		}
	}
	return nil
}

// Written reports how many records have been emitted so far.
func (s *StreamEncoder) Written() int { return s.written }

// Close reconciles the emitted row count against the declared header count.
// It does not close the underlying writer.
func (s *StreamEncoder) Close() error {
	if !s.headerDone {
		return ErrHeaderNotWritten
	}
	if s.written != s.declared {
		return &CountMismatchError{Declared: s.declared, Actual: s.written}
	}
	return nil
}

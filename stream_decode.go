package toon

import (
	"errors"

	"github.com/reoring/toon/internal/wire"
)

var errDecoderFinished = errors.New("toon: decoder already flushed")

// StreamDecoder parses a TOON document from arbitrary byte chunks, emitting
// records as their rows complete. Unlike Decode, a malformed row does not
// abort the stream: the row is skipped and reported as a diagnostic (and to
// DecodeOptions.OnIssue when set). Document-level problems — a bad header,
// content outside any row, a count overrun — remain fatal, as does the final
// count reconciliation in Flush.
type StreamDecoder struct {
	p       *docParser
	a       *wire.LineAssembler
	emitted int
	err     error
	done    bool
}

// NewStreamDecoder builds a decoder; feed it with Decode and terminate with
// Flush.
func NewStreamDecoder(opts ...DecodeOptions) *StreamDecoder {
	o := normalizeDecodeOpts(opts)
	p := newDocParser(o, false)
	return &StreamDecoder{p: p, a: wire.NewLineAssembler(p.strat, p.delim)}
}

// Decode consumes one chunk and returns the records completed by it. Chunk
// boundaries carry no meaning; a row split across chunks is buffered until its
// final byte arrives. Once Decode fails, the decoder is poisoned and every
// later call returns the same error.
func (d *StreamDecoder) Decode(chunk []byte) ([]Record, error) {
	if d.err != nil {
		return nil, d.err
	}
	if d.done {
		return nil, errDecoderFinished
	}
	if err := d.a.Feed(chunk, d.p.feed); err != nil {
		d.err = err
		return nil, err
	}
	return d.take(), nil
}

// Flush terminates the stream: the buffered partial row is finalized and the
// consumed row count is reconciled against the header. It returns any records
// completed by the final row.
func (d *StreamDecoder) Flush() ([]Record, error) {
	if d.err != nil {
		return nil, d.err
	}
	if d.done {
		return nil, errDecoderFinished
	}
	d.done = true
	if err := d.a.Finish(d.p.feed); err != nil {
		d.err = err
		return nil, err
	}
	if _, err := d.p.finish(); err != nil {
		d.err = err
		return nil, err
	}
	return d.take(), nil
}

// Diagnostics returns the malformed-row issues collected so far.
func (d *StreamDecoder) Diagnostics() Issues {
	return d.p.issues
}

func (d *StreamDecoder) take() []Record {
	out := d.p.out[d.emitted:]
	d.emitted = len(d.p.out)
	if len(out) == 0 {
		return nil
	}
	return out
}

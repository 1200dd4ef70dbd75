package wire

import (
	"bytes"
	"strings"
)

// LineAssembler turns arbitrary byte chunks into logical lines. It buffers a
// trailing partial physical line across Feed calls, and under the csv
// strategy it also joins physical lines while a quoted value is still open,
// restoring the newline the split removed.
type LineAssembler struct {
	strat   Strategy
	delim   byte
	partial []byte
	pending string
	pendLn  int
	lineNo  int
}

// NewLineAssembler builds an assembler for the given escape strategy.
func NewLineAssembler(st Strategy, delim byte) *LineAssembler {
	return &LineAssembler{strat: st, delim: delim}
}

// Feed consumes a chunk and invokes emit once per completed logical line with
// the 1-based physical line number where it starts.
func (a *LineAssembler) Feed(chunk []byte, emit func(text string, line int) error) error {
	data := chunk
	if len(a.partial) > 0 {
		data = append(a.partial, chunk...)
		a.partial = nil
	}
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		line := string(data[:i])
		data = data[i+1:]
		if err := a.push(line, emit); err != nil {
			return err
		}
	}
	if len(data) > 0 {
		a.partial = append(a.partial, data...)
	}
	return nil
}

// Finish flushes the buffered partial line, if any. A logical line still open
// inside a quote is emitted as-is; the parser reports it as unterminated.
func (a *LineAssembler) Finish(emit func(text string, line int) error) error {
	if len(a.partial) > 0 {
		line := string(a.partial)
		a.partial = nil
		if err := a.push(line, emit); err != nil {
			return err
		}
	}
	if a.pending != "" {
		text, ln := a.pending, a.pendLn
		a.pending = ""
		return emit(text, ln)
	}
	return nil
}

func (a *LineAssembler) push(line string, emit func(text string, line int) error) error {
	a.lineNo++
	candidate := line
	startLn := a.lineNo
	if a.pending != "" {
		candidate = a.pending + "\n" + line
		startLn = a.pendLn
	}
	// A trailing CR is part of the value when the quote is still open (the
	// CRLF pair sits inside the quotes); otherwise it is line-terminator junk.
	trimmed := strings.TrimSuffix(candidate, "\r")
	if a.strat == StrategyCSV {
		if _, open, _ := SplitRow(trimmed, a.strat, a.delim); open {
			a.pending = candidate
			a.pendLn = startLn
			return nil
		}
	}
	a.pending = ""
	return emit(trimmed, startLn)
}

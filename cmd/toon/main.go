package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	toon "github.com/reoring/toon"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "encode":
		encodeCmd(os.Args[2:])
	case "decode":
		decodeCmd(os.Args[2:])
	case "validate":
		validateCmd(os.Args[2:])
	case "infer":
		inferCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "toon CLI\n\nUsage:\n  toon encode [-in records.json] [-o out.toon] [-schema schema.yaml] [-null empty|null|skip] [-escape csv|backslash] [-indent N]\n  toon decode [-in doc.toon] [-o out.json] [-schema schema.yaml] [-coerce] [-escape csv|backslash] [-indent N]\n  toon validate -schema schema.yaml [-in records.json]\n  toon infer [-in records.json] [-o schema.yaml] [-sample N] [-strict]\n\nNotes:\n  - \"-\" or an empty path means stdin/stdout. Paths ending in .gz are gzip-compressed.")
}

func encodeCmd(args []string) {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	var in, out, schemaPath, null, escape string
	var indent int
	fs.StringVar(&in, "in", "", "input JSON file (array of objects)")
	fs.StringVar(&out, "o", "", "output TOON file")
	fs.StringVar(&schemaPath, "schema", "", "schema YAML file; inferred when omitted")
	fs.StringVar(&null, "null", "empty", "null handling: empty, null or skip")
	fs.StringVar(&escape, "escape", "csv", "escape strategy: csv or backslash")
	fs.IntVar(&indent, "indent", 2, "spaces per nesting level")
	_ = fs.Parse(args)

	o := toon.EncodeOptions{Indent: indent}
	o.NullHandling = parseNull(null)
	o.Escape = parseEscape(escape)
	if schemaPath != "" {
		o.Schema = loadSchema(schemaPath)
	}

	records, err := toon.RecordsFromJSON(readAll(in))
	if err != nil {
		fatalf("encode: %v", err)
	}

	w, closeOut := openOut(out)
	defer closeOut()

	// Stream so large inputs are not re-buffered as one string.
	enc := toon.NewStreamEncoder(w, o)
	if err := enc.Initialize(records); err != nil {
		fatalf("encode: %v", err)
	}
	if err := enc.WriteHeader(len(records)); err != nil {
		fatalf("encode: %v", err)
	}
	if err := enc.EncodeBatch(records); err != nil {
		fatalf("encode: %v", err)
	}
	if err := enc.Close(); err != nil {
		fatalf("encode: %v", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		fatalf("encode: %v", err)
	}
}

func decodeCmd(args []string) {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	var in, out, schemaPath, escape string
	var coerce bool
	var indent int
	fs.StringVar(&in, "in", "", "input TOON file")
	fs.StringVar(&out, "o", "", "output JSON file")
	fs.StringVar(&schemaPath, "schema", "", "schema YAML file for coercion hints")
	fs.BoolVar(&coerce, "coerce", false, "coerce unquoted values to native types")
	fs.StringVar(&escape, "escape", "csv", "escape strategy: csv or backslash")
	fs.IntVar(&indent, "indent", 2, "spaces per nesting level")
	_ = fs.Parse(args)

	o := toon.DecodeOptions{CoerceTypes: coerce, Indent: indent}
	o.Escape = parseEscape(escape)
	if schemaPath != "" {
		o.Schema = loadSchema(schemaPath)
	}
	o.OnIssue = func(is toon.Issue) {
		fmt.Fprintf(os.Stderr, "toon decode: line %d: %s\n", is.Line, is.Message)
	}

	r, closeIn := openIn(in)
	defer closeIn()

	dec := toon.NewStreamDecoder(o)
	var records []toon.Record
	buf := make([]byte, 32*1024)
	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			recs, err := dec.Decode(buf[:n])
			if err != nil {
				fatalf("decode: %v", err)
			}
			records = append(records, recs...)
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			fatalf("decode: read: %v", rerr)
		}
	}
	recs, err := dec.Flush()
	if err != nil {
		fatalf("decode: %v", err)
	}
	records = append(records, recs...)

	data, err := toon.RecordsToJSON(records)
	if err != nil {
		fatalf("decode: %v", err)
	}
	w, closeOut := openOut(out)
	defer closeOut()
	if _, err := w.Write(append(data, '\n')); err != nil {
		fatalf("decode: write: %v", err)
	}
	if len(dec.Diagnostics()) > 0 {
		os.Exit(1)
	}
}

func validateCmd(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	var in, schemaPath string
	fs.StringVar(&in, "in", "", "input JSON file (array of objects)")
	fs.StringVar(&schemaPath, "schema", "", "schema YAML file (required)")
	_ = fs.Parse(args)
	if schemaPath == "" {
		fs.Usage()
		os.Exit(2)
	}

	records, err := toon.RecordsFromJSON(readAll(in))
	if err != nil {
		fatalf("validate: %v", err)
	}
	res := toon.ValidateSchema(records, loadSchema(schemaPath))
	report(res)
	if !res.Valid {
		os.Exit(1)
	}
}

func report(res toon.ValidationResult) {
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "warning: record %d field %q: %s\n", w.RecordIndex, w.Field, w.Code)
	}
	for _, e := range res.Errors {
		fmt.Fprintf(os.Stderr, "record %d field %q: expected %s, got %s\n", e.RecordIndex, e.Field, e.Expected, e.Actual)
	}
	if res.Valid {
		fmt.Println("valid")
	} else {
		fmt.Printf("invalid: %d error(s)\n", len(res.Errors))
	}
}

func inferCmd(args []string) {
	fs := flag.NewFlagSet("infer", flag.ExitOnError)
	var in, out string
	var sample int
	var strict bool
	fs.StringVar(&in, "in", "", "input JSON file (array of objects)")
	fs.StringVar(&out, "o", "", "output schema YAML file")
	fs.IntVar(&sample, "sample", 0, "records to sample; 0 scans all")
	fs.BoolVar(&strict, "strict", false, "fail on conflicting field types instead of widening")
	_ = fs.Parse(args)

	records, err := toon.RecordsFromJSON(readAll(in))
	if err != nil {
		fatalf("infer: %v", err)
	}
	schema, issues, err := toon.InferSchema(records, toon.InferOptions{SampleSize: sample, Strict: strict})
	if err != nil {
		fatalf("infer: %v", err)
	}
	for _, is := range issues {
		fmt.Fprintf(os.Stderr, "infer: %s: %s\n", is.Path, is.Message)
	}
	data, err := toon.SchemaToYAML(schema)
	if err != nil {
		fatalf("infer: %v", err)
	}
	w, closeOut := openOut(out)
	defer closeOut()
	if _, err := w.Write(data); err != nil {
		fatalf("infer: write: %v", err)
	}
}

func parseNull(s string) toon.NullHandling {
	switch s {
	case "empty":
		return toon.NullEmpty
	case "null":
		return toon.NullLiteral
	case "skip":
		return toon.NullSkip
	}
	fatalf("unknown null handling %q (want empty, null or skip)", s)
	return toon.NullEmpty
}

func parseEscape(s string) toon.EscapeStrategy {
	switch s {
	case "csv":
		return toon.EscapeCSV
	case "backslash":
		return toon.EscapeBackslash
	}
	fatalf("unknown escape strategy %q (want csv or backslash)", s)
	return toon.EscapeCSV
}

func loadSchema(path string) *toon.Schema {
	data, err := os.ReadFile(path)
	if err != nil {
		fatalf("reading schema: %v", err)
	}
	s, err := toon.ParseSchemaYAML(data)
	if err != nil {
		fatalf("parsing schema: %v", err)
	}
	return s
}

func readAll(path string) []byte {
	r, closeIn := openIn(path)
	defer closeIn()
	data, err := io.ReadAll(r)
	if err != nil {
		fatalf("reading input: %v", err)
	}
	return data
}

func openIn(path string) (io.Reader, func()) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}
	}
	f, err := os.Open(path)
	if err != nil {
		fatalf("opening input: %v", err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, func() { f.Close() }
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		fatalf("opening gzip input: %v", err)
	}
	return zr, func() { zr.Close(); f.Close() }
}

func openOut(path string) (io.Writer, func()) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}
	}
	f, err := os.Create(path)
	if err != nil {
		fatalf("opening output: %v", err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, func() {
			if err := f.Close(); err != nil {
				fatalf("closing output: %v", err)
			}
		}
	}
	zw := gzip.NewWriter(f)
	return zw, func() {
		if err := zw.Close(); err != nil {
			fatalf("closing gzip output: %v", err)
		}
		if err := f.Close(); err != nil {
			fatalf("closing output: %v", err)
		}
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}

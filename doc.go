// Package toon implements TOON, a compact tabular text format for arrays of
// uniform records. It provides:
//
// - One-shot Encode/Decode with configurable null handling and escaping
// - Schema inference, validation, and YAML/JSON schema serialization
// - A stable error model (Issue codes plus typed ParseError/CountMismatchError/SchemaMismatchError)
// - Streaming variants (StreamEncoder/StreamDecoder) for bounded-memory processing
//
// Design policy:
// - Keep only public APIs in the root package; put the low-level line/field codec under internal/wire.
// - Place the date codec under codec/ and the CLI under cmd/toon.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	text, err := toon.Encode(records)
//	recs, err := toon.Decode(text, toon.DecodeOptions{CoerceTypes: true})
//
//	schema, diags, err := toon.InferSchema(records)
//	result := toon.ValidateSchema(records, schema)
package toon

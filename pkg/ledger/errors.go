package ledger

import "errors"

// Sentinel errors shared by every stage that loads or transforms records.
var (
	// ErrMalformedRecord marks a single record that lacks text or position.
	// Callers skip the record and keep going.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrSchemaMismatch marks a table without a required column. Fatal.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrEmptyInput marks a run without any usable records. Fatal.
	ErrEmptyInput = errors.New("empty input")
)

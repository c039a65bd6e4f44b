package labels

import "errors"

var (
	// ErrEmptySource means the label source held no rows at all.
	ErrEmptySource = errors.New("label source is empty")
	// ErrNoUsableRecords means every row was skipped during normalization.
	ErrNoUsableRecords = errors.New("no usable label records")
	// ErrAmbiguousColumnSpec means named and positional column selection were
	// mixed, or neither was given. Configuration error; nothing is read.
	ErrAmbiguousColumnSpec = errors.New("ambiguous column spec")
	// ErrColumnNotFound means a named column matched nothing in the header.
	ErrColumnNotFound = errors.New("column not found")
)

package quiz

import "errors"

var (
	ErrNotFound = errors.New("quiz not found")

	// ErrCorrectOptionRange rejects a question whose correctOption does not
	// index into its options. Checked at write time only.
	ErrCorrectOptionRange = errors.New("correctOption out of range")
)

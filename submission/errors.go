package submission

import "errors"

// Sentinel errors for package submission.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// Extraction errors
	ErrUnsafePath = errors.New("archive member escapes extraction directory")

	// Staging errors
	ErrNoBaseFiles = errors.New("base files path returned no matches")
	ErrNoSolutions = errors.New("solutions path returned no matches")
)

package sanitize

import "errors"

// Sentinel kinds for sanitization errors.
var (
	ErrMalformed = errors.New("malformed model response")
)

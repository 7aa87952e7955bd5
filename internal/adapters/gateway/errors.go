package gateway

import "errors"

// Sentinel kinds for gateway errors.
var (
	ErrUnavailable = errors.New("text-completion gateway unavailable")
)

package domain

import "errors"

// Error categories shared by adapters, services and handlers.
// Callers wrap them with context and classify with errors.Is.
var (
	// Timeout, connection failure, or an upstream 5xx.
	ErrNetwork = errors.New("network error")
	// Upstream payload could not be decoded.
	ErrParse = errors.New("malformed upstream payload")
	// User input that cannot be acted on (empty or ungeocodable origin, bad mode).
	ErrInput = errors.New("invalid input")
	// Unknown hospital id.
	ErrNotFound = errors.New("not found")
)

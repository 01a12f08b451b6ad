package errors

import (
	"errors"
)

// Sentinel categories for a single generation invocation. Every category is
// terminal: nothing in this bot retries, queues, or backs off.
var (
	// ErrConfiguration - a required key or model name is missing.
	ErrConfiguration = errors.New("configuration error")

	// ErrTransport - network failure, timeout, or non-2xx provider status.
	ErrTransport = errors.New("transport error")

	// ErrResponseShape - provider returned success but the body does not carry
	// the expected choices[0].message.content path.
	ErrResponseShape = errors.New("response shape error")

	// ErrInternal - anything unanticipated.
	ErrInternal = errors.New("internal error")
)

package relay

import "errors"

// ErrInvalidRequest indicates malformed or missing client input. The HTTP
// boundary maps it to a 400-class response; everything else from this
// package maps to 500.
var ErrInvalidRequest = errors.New("invalid request")

// StoreError wraps a failure from the message store. The underlying message
// is preserved verbatim for the boundary to surface.
type StoreError struct {
	Op  string // operation that failed, e.g. "loading history"
	Err error
}

func (e *StoreError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// CompletionError wraps a failure from the completion client, including
// transport errors and non-success upstream statuses. The upstream status
// code and raw error body stay folded into the message.
type CompletionError struct {
	Err error
}

func (e *CompletionError) Error() string {
	return e.Err.Error()
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

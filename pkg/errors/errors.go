// Package errors defines the error taxonomy of the webhook protocol
// client, plus the sentinel errors shared between client and server.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidJSONFormat is returned when a request payload cannot be parsed
	ErrInvalidJSONFormat = errors.New("invalid JSON format in request")

	// ErrInvalidPayload is returned when a response body is not valid UTF-8
	ErrInvalidPayload = errors.New("response body is not valid UTF-8")
)

// TransportError wraps a connection-level failure reaching the remote
// endpoint. It is never retried by the client.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// EncodeError wraps a failure serializing a local request body. It
// indicates a contract violation by the caller, not a remote problem.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode request body: %v", e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// DecodeError wraps a response body that was not valid JSON for the
// expected shape. Raw carries the body text for diagnostics.
type DecodeError struct {
	Raw string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response body: %v: %s", e.Err, e.Raw)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// RemoteError is a non-success answer from the remote endpoint. The
// provider's message is carried verbatim and never interpreted.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote returned status %d: %s", e.StatusCode, e.Body)
}

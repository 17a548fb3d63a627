package protocol

import (
	"errors"
	"fmt"
)

// Error kinds for wire-level failures. Every parse failure maps to exactly
// one of these, so callers can distinguish them with errors.Is.
var (
	// ErrMalformedLength indicates a length or count field that is not a
	// valid non-negative decimal (the literal -1 for null frames excepted)
	ErrMalformedLength = errors.New("malformed length")

	// ErrUnexpectedEOF indicates the transport closed mid-frame
	ErrUnexpectedEOF = errors.New("unexpected EOF")

	// ErrUnknownTypeTag indicates a first byte matching none of + - : $ *
	ErrUnknownTypeTag = errors.New("unknown type tag")

	// ErrTerminatorMismatch indicates a missing or corrupt CRLF terminator
	ErrTerminatorMismatch = errors.New("terminator mismatch")

	// ErrEmptyCommand indicates an attempt to encode a command with no
	// arguments. This is a programming error, not a wire fault.
	ErrEmptyCommand = errors.New("empty command")

	// ErrInvalidCommand indicates a well-framed request that is not a
	// valid command, e.g. an empty array or a non-bulk element. Unlike
	// the wire-level kinds above, the frame boundary is intact and the
	// stream stays usable.
	ErrInvalidCommand = errors.New("invalid command")
)

// Error is a RESP parse error. It wraps one of the kind sentinels above and
// carries the detail of what was actually seen on the wire.
type Error struct {
	Kind    error
	Message string
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("protocol error: %s: %s", e.Kind, e.Message)
}

// Unwrap returns the kind sentinel so errors.Is(err, ErrMalformedLength)
// and friends work on wrapped errors.
func (e *Error) Unwrap() error {
	return e.Kind
}

func errMalformedLength(format string, args ...interface{}) error {
	return &Error{Kind: ErrMalformedLength, Message: fmt.Sprintf(format, args...)}
}

func errUnknownTypeTag(format string, args ...interface{}) error {
	return &Error{Kind: ErrUnknownTypeTag, Message: fmt.Sprintf(format, args...)}
}

func errTerminatorMismatch(format string, args ...interface{}) error {
	return &Error{Kind: ErrTerminatorMismatch, Message: fmt.Sprintf(format, args...)}
}

func errUnexpectedEOF(format string, args ...interface{}) error {
	return &Error{Kind: ErrUnexpectedEOF, Message: fmt.Sprintf(format, args...)}
}

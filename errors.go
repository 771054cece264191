package termsnap

import (
	"errors"
	"fmt"
)

// Protocol errors. They are always wrapped in a *ProtocolError.
var (
	ErrEmptyCommand   = errors.New("empty command")
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadCount       = errors.New("invalid byte count")
	ErrTruncated      = errors.New("truncated input")
	ErrFeedTooLarge   = errors.New("byte count exceeds feed limit")
)

// ErrInvalidChar is returned for a character code that is not a Unicode scalar value.
var ErrInvalidChar = errors.New("invalid character code")

// ErrRowOrder is returned when an engine delivers its first cell outside row 0.
var ErrRowOrder = errors.New("row delivered out of order")

// ProtocolError reports malformed or truncated command input.
// The stream cannot be resynchronized after one.
type ProtocolError struct {
	Command string
	Err     error
}

func (e *ProtocolError) Error() string {
	if e.Command == "" {
		return fmt.Sprintf("protocol: %v", e.Err)
	}
	return fmt.Sprintf("protocol: command %q: %v", e.Command, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// CodecError reports cell data from the engine that cannot be encoded.
type CodecError struct {
	Op  string
	Err error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("codec: %s: %v", e.Op, e.Err)
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

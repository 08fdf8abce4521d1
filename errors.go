package botifactory

import (
	"errors"
	"fmt"

	"github.com/adamwoolhether/botifactory/client"
)

var (
	// ErrURLParse means the endpoint is not an absolute URL.
	ErrURLParse = errors.New("url parse")
	// ErrURLPath means path segments cannot be appended to the endpoint,
	// as with opaque URLs such as mailto:x.
	ErrURLPath = errors.New("url path")
	// ErrInvalidIdentifier means the operation needs the other Identifier
	// variant, or the Identifier is unset.
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrRequest covers transport failures, unexpected status codes and
	// undecodable response bodies.
	ErrRequest = errors.New("request")
	// ErrIO covers local file read and write failures.
	ErrIO = errors.New("io")
	// ErrHeaderValue means a header would not survive the wire.
	ErrHeaderValue = errors.New("header value")
	// ErrInvalidInput means a payload failed validation before any I/O.
	ErrInvalidInput = errors.New("invalid input")
)

// Error is returned by every operation in this package. Kind is one of the
// package sentinels and Err is the underlying cause; both are reachable with
// errors.Is and errors.As.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(op string, kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// classify maps a client failure onto the package sentinels.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, client.ErrInvalidHeader):
		return newError(op, ErrHeaderValue, err)
	case errors.Is(err, client.ErrLocalIO):
		return newError(op, ErrIO, err)
	case errors.Is(err, client.ErrInvalidOption):
		return newError(op, ErrInvalidInput, err)
	default:
		return newError(op, ErrRequest, err)
	}
}

// identifierError reports an Identifier of the wrong variant.
type identifierError struct {
	want string
	got  Identifier
}

func (e *identifierError) Error() string {
	return "want " + e.want + " identifier, got " + e.got.String()
}

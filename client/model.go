package client

import (
	"errors"
	"fmt"
	"net/http"
)

// maxErrBodySize caps the amount of response body read when
// building an error for an unexpected status code. This prevents
// unbounded memory usage when a large response arrives with a
// wrong status.
const maxErrBodySize = 4 << 10 // 4KB

// AnySuccess may be passed as the expected status code to accept any 2xx
// response.
const AnySuccess = 0

// execFn represents a func to operate on a response.
type execFn func(response *http.Response) error

var (
	// ErrUnexpectedStatusCode is the sentinel error wrapped by [UnexpectedStatusError].
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	// ErrAuthFailure is joined with [ErrUnexpectedStatusCode] when the server
	// responds with 401 Unauthorized or 403 Forbidden.
	ErrAuthFailure = errors.New("auth failure")
	// ErrInvalidHeader is returned by [Request] when a header name or value
	// would not survive the wire.
	ErrInvalidHeader = errors.New("invalid header")
	// ErrInvalidOption is returned when an option or argument is rejected
	// before the request is sent.
	ErrInvalidOption = errors.New("invalid option")
)

// UnexpectedStatusError is returned when the HTTP response status code
// does not match the expected value.
type UnexpectedStatusError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("%v: %d, body: %s", e.Err, e.StatusCode, e.Body)
}

func (e *UnexpectedStatusError) Unwrap() error {
	return e.Err
}

// statusAccepted reports whether code satisfies expCode.
func statusAccepted(code, expCode int) bool {
	if expCode == AnySuccess {
		return code >= 200 && code < 300
	}
	return code == expCode
}

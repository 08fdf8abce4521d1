package download

import (
	"errors"
	"fmt"
)

var (
	ErrContentLengthMismatch = errors.New("content length mismatch")
	ErrChecksumMismatch      = errors.New("checksum mismatch")
	ErrDownloadCancelled     = errors.New("download cancelled")
	ErrGroupShutdown         = errors.New("download queue shut down")
	// ErrLocalIO marks failures creating, writing, syncing or renaming
	// the destination file, as opposed to failures reading the body.
	ErrLocalIO = errors.New("local file operation failed")
)

type Error struct {
	Detail string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

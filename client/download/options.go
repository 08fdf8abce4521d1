package download

import (
	"errors"
	"hash"
)

// Option defines optional settings for downloading files.
// WithChecksum enables checksum validation of the downloaded file.
// h is a hash.Hash instance (e.g. sha256.New()), and expected is the
// hex-encoded expected checksum string.
//
// WithProgress enables periodic download progress logging via the
// logger supplied to Handle.
//
// WithSkipExisting causes Handle to return nil immediately when
// the destination file already exists, avoiding a redundant download.
//
// WithBatch places an async download on a new Queue that runs at most
// maxConcurrent downloads at once.
type Option func(*options) error

type options struct {
	checksum     *checksumVerifier
	progress     bool
	skipExisting bool
	queue        *Queue
}

func WithChecksum(h hash.Hash, expected string) Option {
	return func(opts *options) error {
		if h == nil {
			return errors.New("hash must not be nil")
		}

		if expected == "" {
			return errors.New("expected checksum must not be empty")
		}

		h.Reset()
		opts.checksum = &checksumVerifier{hash: h, expected: expected}
		return nil
	}
}

func WithProgress() Option {
	return func(opts *options) error {
		opts.progress = true
		return nil
	}
}

func WithSkipExisting() Option {
	return func(opts *options) error {
		opts.skipExisting = true
		return nil
	}
}

func WithBatch(maxConcurrent int) Option {
	return withBatch(newQueue(maxConcurrent))
}

// withBatch joins an existing queue; used by Result.Add.
func withBatch(q *Queue) Option {
	return func(opts *options) error {
		if opts.queue != nil {
			return errors.New("download already belongs to a batch")
		}
		opts.queue = q
		return nil
	}
}

func apply(optFns []Option) (options, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return options{}, err
		}
	}
	return opts, nil
}

// CheckOptions reports the first option in optFns that fails to apply.
func CheckOptions(optFns ...Option) error {
	_, err := apply(optFns)
	return err
}

// QueueFor returns the Queue selected by WithBatch among optFns, or a
// fresh unbounded Queue when none was given.
func QueueFor(optFns ...Option) (*Queue, error) {
	opts, err := apply(optFns)
	if err != nil {
		return nil, err
	}
	if opts.queue == nil {
		return newQueue(0), nil
	}
	return opts.queue, nil
}

package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Handle streams body to a temp file in the same directory as destPath,
// which is renamed over destPath on success. On any error the temp file
// is removed and destPath is left untouched.
func Handle(ctx context.Context, body io.Reader, contentLength int64, destPath string, logger *slog.Logger, optFns ...Option) error {
	opts, err := apply(optFns)
	if err != nil {
		return fmt.Errorf("applying option: %w", err)
	}

	if opts.skipExisting {
		if _, err := os.Stat(destPath); err == nil {
			logger.Info("skipping existing file", "path", destPath)
			return nil
		}
	}

	body = &contextReader{ctx: ctx, r: body}

	file, err := os.CreateTemp(filepath.Dir(destPath), ".botifactory-dl-*")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %w", ErrLocalIO, err)
	}

	var successful bool
	defer func() {
		if err := file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			logger.Error("defer closing temp file", "error", err)
		}
		if !successful {
			if err := os.Remove(file.Name()); err != nil {
				logger.Error("failed to remove temp file", "error", err)
			}
		}
	}()

	var writer io.Writer = fileWriter{file}
	if opts.checksum != nil {
		writer = io.MultiWriter(writer, opts.checksum)
	}

	if opts.progress {
		writer = &progressWriter{
			w:         writer,
			logger:    logger,
			path:      destPath,
			total:     contentLength,
			startTime: time.Now(),
		}
	}

	n, err := io.Copy(writer, body)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("%w: %w", ErrDownloadCancelled, err)
		}

		return fmt.Errorf("copying file body: %w", err)
	}

	if contentLength >= 0 && n != contentLength {
		return &Error{
			Err:    ErrContentLengthMismatch,
			Detail: fmt.Sprintf("expected %d bytes, got %d", contentLength, n),
		}
	}

	if err := opts.checksum.Verify(); err != nil {
		return err
	}

	if err := file.Chmod(destMode(destPath)); err != nil {
		return fmt.Errorf("%w: setting temp file mode: %w", ErrLocalIO, err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("%w: syncing temp file: %w", ErrLocalIO, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: closing temp file: %w", ErrLocalIO, err)
	}
	if err := os.Rename(file.Name(), destPath); err != nil {
		return fmt.Errorf("%w: renaming temp file: %w", ErrLocalIO, err)
	}

	successful = true

	return nil
}

// defaultFileMode applies to downloads that do not replace an existing file.
const defaultFileMode os.FileMode = 0o644

// destMode keeps the permissions of a file being replaced.
func destMode(destPath string) os.FileMode {
	if fi, err := os.Stat(destPath); err == nil && fi.Mode().IsRegular() {
		return fi.Mode().Perm()
	}
	return defaultFileMode
}

// contextReader stops a copy once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}

// fileWriter tags write failures with ErrLocalIO.
type fileWriter struct {
	f *os.File
}

func (fw fileWriter) Write(p []byte) (int, error) {
	n, err := fw.f.Write(p)
	if err != nil {
		return n, fmt.Errorf("%w: writing temp file: %w", ErrLocalIO, err)
	}
	return n, nil
}

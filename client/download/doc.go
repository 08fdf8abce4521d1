// Package download streams HTTP response bodies to disk with optional
// checksum validation and progress reporting.
//
// # Single Download
//
// [Handle] writes the response body to a temporary file alongside the
// destination path, then renames it over the destination on success,
// replacing any file already there:
//
//	err := download.Handle(ctx, resp.Body, resp.ContentLength, destPath, logger,
//		download.WithChecksum(sha256.New(), expectedHex),
//	)
//
// Failures touching the local filesystem wrap [ErrLocalIO], so callers
// can tell a full disk from a dropped connection.
//
// # Batches
//
// [WithBatch] creates a [Queue] bounding how many downloads run at once.
// [Queue.Start] runs one unit of work and returns its [Result].
//
// Most callers should use the higher-level
// [github.com/adamwoolhether/botifactory/client] package, which invokes
// Handle internally and re-exports the download options as
// client.With* functions.
package download

// Package client provides the configurable HTTP client the botifactory
// scopes run their requests through, built on [net/http].
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := client.Build(
//		client.WithTimeout(10 * time.Second),
//		client.WithUserAgent("deployer/1.0"),
//		client.WithRequestID(),
//	)
//
// # Making Requests
//
// Construct a [Request] for a URL, then execute with [Client.Do]:
//
//	req, err := client.Request(ctx, u, http.MethodGet)
//	err = c.Do(req, http.StatusOK, client.WithDestination(&body))
//
// Raw bodies are captured with [WithBytes]. Multipart uploads stream files
// from disk with [WithMultipart]:
//
//	req, err := client.Request(ctx, u, http.MethodPost,
//		client.WithMultipart(
//			[]client.FormField{{Name: "version", Value: "1.2.3"}},
//			client.FormFile{Field: "binary", Path: "./bot"},
//		),
//	)
//
// # Downloading Files
//
// Stream a response body directly to disk with optional checksum
// verification and progress reporting:
//
//	err = c.Download(req, http.StatusOK, "/tmp/bot",
//		client.WithChecksum(sha256.New(), expectedHex),
//		client.WithProgress(),
//	)
//
// # Async Downloads
//
// [Client.DownloadAsync] runs a download in the background. [WithBatch]
// sets a concurrency limit and [DownloadResult.Add] enqueues more files:
//
//	r, err := c.DownloadAsync(req1, http.StatusOK, "/tmp/a", client.WithBatch(4))
//	r.Add(req2, http.StatusOK, "/tmp/b")
//	err = r.Wait() // blocks until all downloads finish
//
// For lower-level control see the
// [github.com/adamwoolhether/botifactory/client/download] package.
package client

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/adamwoolhether/botifactory/client/download"
)

// Client wraps the std-lib *http.Client
// It sets a default *http.Client and *http.Transport, which
// can be customized via optional funcs.
type Client struct {
	c      *http.Client
	logger *slog.Logger
}

// Build creates a [Client]. A Client is safe for concurrent use and is
// meant to be shared for the lifetime of the process.
func Build(optFns ...Option) (*Client, error) {
	client := &Client{
		c:      &http.Client{},
		logger: slog.Default(),
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	if opts.client != nil {
		client.c = opts.client
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	if opts.timeout != nil {
		client.c.Timeout = *opts.timeout
	}

	if opts.noFollowRedirects {
		client.c.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		transport = http.DefaultTransport
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	if opts.requestID {
		transport = requestID{base: transport}
	}
	if opts.tracer != nil {
		transport = tracing{tracer: opts.tracer, base: transport}
	}
	client.c.Transport = transport

	return client, nil
}

// Logger returns the logger the Client reports through.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// Do will fire the request, and write response to the given dest object if any.
// Pass [AnySuccess] as expCode to accept any 2xx status.
func (c *Client) Do(req *http.Request, expCode int, opts ...DoOption) error {
	var settings doOpts
	for _, opt := range opts {
		err := opt(&settings)
		if err != nil {
			closeBody(req)
			return fmt.Errorf("%w: %w", ErrInvalidOption, err)
		}
	}

	doFunc := func(resp *http.Response) error {
		switch {
		case settings.rawBody != nil:
			b, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("reading body: %w", err)
			}
			*settings.rawBody = b

		case settings.responseBody != nil:
			d := json.NewDecoder(resp.Body)

			if settings.useJSONNum {
				d.UseNumber()
			}

			if err := d.Decode(settings.responseBody); err != nil {
				return fmt.Errorf("decoding body: %w", err)
			}
		}

		return nil
	}

	return c.exec(req, expCode, doFunc)
}

// Download executes a request that's intended to stream the response body to destPath.
// Data streams to a temp file in the same directory, then the temp file is renamed to
// destPath on success or cleared on failure.
func (c *Client) Download(req *http.Request, expCode int, destPath string, opts ...DownloadOption) error {
	if destPath == "" {
		closeBody(req)
		return fmt.Errorf("%w: destPath must not be empty", ErrInvalidOption)
	}

	if err := download.CheckOptions(opts...); err != nil {
		closeBody(req)
		return fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}

	dlFunc := func(resp *http.Response) error {
		if err := download.Handle(req.Context(), resp.Body, resp.ContentLength, destPath, c.logger, opts...); err != nil {
			return fmt.Errorf("download: %w", err)
		}

		return nil
	}

	return c.exec(req, expCode, dlFunc)
}

// DownloadAsync runs [Client.Download] in the background and returns a
// [DownloadResult] tracking it. With [WithBatch] the download joins a
// bounded queue that further downloads can join through [DownloadResult.Add].
func (c *Client) DownloadAsync(req *http.Request, expCode int, destPath string, opts ...DownloadOption) (*DownloadResult, error) {
	if destPath == "" {
		closeBody(req)
		return nil, fmt.Errorf("%w: destPath must not be empty", ErrInvalidOption)
	}

	queue, err := download.QueueFor(opts...)
	if err != nil {
		closeBody(req)
		return nil, fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}

	work := func(ctx context.Context) error {
		return c.Download(req.WithContext(ctx), expCode, destPath, opts...)
	}

	return queue.Start(req.Context(), work, c.DownloadAsync), nil
}

// Request instantiates an *http.Request with the provided information.
// It's just a convenience method that wraps the public Request func.
func (c *Client) Request(ctx context.Context, reqURL *url.URL, method string, opts ...RequestOption) (*http.Request, error) {
	return Request(ctx, reqURL, method, opts...)
}

// exec runs the request and injected function on success after validating the expected status code.
func (c *Client) exec(req *http.Request, expCode int, fn execFn) error {
	resp, err := c.c.Do(req)
	if err != nil {
		return fmt.Errorf("exec http do: %w", err)
	}

	discardBody := true
	defer func() {
		if discardBody {
			if _, err = io.Copy(io.Discard, resp.Body); err != nil {
				c.logger.Error("failed to discard unused body", "error", err)
			}
		}
		if err = resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	if !statusAccepted(resp.StatusCode, expCode) {
		b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrBodySize))
		if err != nil {
			b = []byte("unable to read body")
		}

		statusErr := ErrUnexpectedStatusCode
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			statusErr = fmt.Errorf("%w: %w", ErrAuthFailure, ErrUnexpectedStatusCode)
		}

		return &UnexpectedStatusError{
			StatusCode: resp.StatusCode,
			Body:       string(b),
			Err:        statusErr,
		}
	}

	if err := fn(resp); err != nil {
		discardBody = false
		return fmt.Errorf("exec fn: %w", err)
	}

	return nil
}

// Request instantiates an *http.Request with the provided information.
// Content-Type defaults to `application/json` if unspecified via WithContentType
// or implied by WithMultipart. Header names and values are validated.
func Request(ctx context.Context, reqURL *url.URL, method string, opts ...RequestOption) (*http.Request, error) {
	var settings requestOpts
	for _, opt := range opts {
		err := opt(&settings)
		if err != nil {
			return nil, err
		}
	}

	for k, v := range settings.headers {
		if !validHeaderName(k) {
			return nil, fmt.Errorf("header name %q: %w", k, ErrInvalidHeader)
		}
		for _, element := range v {
			if !validHeaderValue(element) {
				return nil, fmt.Errorf("header %s value %q: %w", k, element, ErrInvalidHeader)
			}
		}
	}

	contentType := "application/json"
	if settings.contentType != nil {
		contentType = *settings.contentType
	}

	var body io.Reader
	switch {
	case settings.form != nil:
		rc, formType, err := settings.form.open()
		if err != nil {
			return nil, fmt.Errorf("building multipart payload: %w", err)
		}
		body = rc
		contentType = formType

	case settings.rawBody != nil:
		body = settings.rawBody

	case settings.body != nil:
		var payload bytes.Buffer
		if err := json.NewEncoder(&payload).Encode(settings.body); err != nil {
			return nil, fmt.Errorf("encoding request payload: %w", err)
		}
		body = &payload
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		if rc, ok := body.(io.Closer); ok {
			rc.Close()
		}
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	for _, cookie := range settings.cookies {
		req.AddCookie(cookie)
	}

	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range settings.headers {
		for _, element := range v {
			req.Header.Add(k, element)
		}
	}

	return req, nil
}

// closeBody releases a request body that will never be sent.
func closeBody(req *http.Request) {
	if req != nil && req.Body != nil {
		req.Body.Close()
	}
}

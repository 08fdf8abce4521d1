package client

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Option is a functional option for configuring a [Client] via [Build].
type Option func(*options) error
type options struct {
	client            *http.Client
	rt                http.RoundTripper
	timeout           *time.Duration
	userAgent         string
	noFollowRedirects bool
	requestID         bool
	tracer            trace.Tracer
	logger            *slog.Logger
}

// WithClient replaces the default [http.Client] used by the [Client].
func WithClient(hc *http.Client) Option {
	return func(c *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		c.client = hc
		return nil
	}
}

// WithTransport sets a custom [http.RoundTripper] as the base transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *options) error {
		if rt == nil {
			return errors.New("transport must not be nil")
		}
		c.rt = rt
		return nil
	}
}

// WithTimeout sets the overall request timeout on the underlying [http.Client].
func WithTimeout(d time.Duration) Option {
	return func(c *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		c.timeout = &d
		return nil
	}
}

// WithUserAgent adds a persistent User-Agent header to all outgoing requests.
func WithUserAgent(header string) Option {
	return func(c *options) error {
		if !validHeaderValue(header) {
			return fmt.Errorf("user agent %q: %w", header, ErrInvalidHeader)
		}
		c.userAgent = header
		return nil
	}
}

// WithNoFollowRedirects prevents the [Client] from following HTTP redirects.
func WithNoFollowRedirects() Option {
	return func(c *options) error {
		c.noFollowRedirects = true
		return nil
	}
}

// WithRequestID stamps every outgoing request with a random
// X-Request-ID header, unless the request already carries one.
func WithRequestID() Option {
	return func(c *options) error {
		c.requestID = true
		return nil
	}
}

// WithTracer records every outgoing request as a client span on tracer
// and propagates the span context in the request headers.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *options) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		c.tracer = tracer
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(c *options) error {
		c.logger = logger
		return nil
	}
}

// DoOption is a functional option for [Client.Do].
type DoOption func(options *doOpts) error

type doOpts struct {
	responseBody any
	rawBody      *[]byte
	useJSONNum   bool
}

// WithDestination decodes the HTTP response body into bodyTemplate.
// bodyTemplate must be a pointer.
func WithDestination[T any](bodyTemplate *T) DoOption {
	return func(opts *doOpts) error {
		if opts.rawBody != nil {
			return errors.New("cannot combine WithDestination and WithBytes")
		}
		opts.responseBody = bodyTemplate

		return nil
	}
}

// WithBytes captures the raw HTTP response body into dst.
func WithBytes(dst *[]byte) DoOption {
	return func(opts *doOpts) error {
		if dst == nil {
			return errors.New("bytes destination must not be nil")
		}
		if opts.responseBody != nil {
			return errors.New("cannot combine WithDestination and WithBytes")
		}
		opts.rawBody = dst

		return nil
	}
}

// WithJSONNumb tells the JSON decoder to use [json.Decoder.UseNumber],
// preserving number precision as [json.Number] instead of float64.
func WithJSONNumb() DoOption {
	return func(opts *doOpts) error {
		opts.useJSONNum = true

		return nil
	}
}

// RequestOption is a functional option for [Request].
type RequestOption func(options *requestOpts) error

type requestOpts struct {
	body        any
	rawBody     io.Reader
	form        *form
	contentType *string
	cookies     []*http.Cookie
	headers     map[string][]string
}

// WithPayload sets the JSON-encoded request body.
func WithPayload(body any) RequestOption {
	return func(opts *requestOpts) error {
		opts.body = body

		return nil
	}
}

// WithBody sends r verbatim as the request body. Pair it with
// [WithContentType]; the default Content-Type is still "application/json".
func WithBody(r io.Reader) RequestOption {
	return func(opts *requestOpts) error {
		if r == nil {
			return errors.New("body must not be nil")
		}
		opts.rawBody = r

		return nil
	}
}

// WithMultipart sends a multipart/form-data body made of the given text
// fields followed by the given files. Files are streamed from disk while
// the request is written, and the Content-Type is set accordingly.
func WithMultipart(fields []FormField, files ...FormFile) RequestOption {
	return func(opts *requestOpts) error {
		if len(fields) == 0 && len(files) == 0 {
			return errors.New("multipart body must not be empty")
		}
		for _, f := range files {
			if f.Field == "" || f.Path == "" {
				return errors.New("form file needs a field name and a path")
			}
		}
		opts.form = &form{fields: fields, files: files}

		return nil
	}
}

// WithContentType overrides the default "application/json" Content-Type header.
func WithContentType(contentType string) RequestOption {
	return func(opts *requestOpts) error {
		if contentType == "" {
			return errors.New("cannot use empty content type")
		}

		opts.contentType = &contentType

		return nil
	}
}

// WithHeaders adds custom headers to the outgoing request.
func WithHeaders(headers map[string][]string) RequestOption {
	return func(opts *requestOpts) error {
		opts.headers = headers

		return nil
	}
}

// WithCookies attaches the given cookies to the outgoing request.
func WithCookies(cookies ...*http.Cookie) RequestOption {
	return func(opts *requestOpts) error {
		opts.cookies = cookies

		return nil
	}
}

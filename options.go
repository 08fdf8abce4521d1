package botifactory

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/adamwoolhether/botifactory/client"
)

// Option configures a [Botifactory] via [New].
type Option func(*options) error

type options struct {
	client  *client.Client
	logger  *slog.Logger
	routes  *Routes
	headers http.Header
}

// WithClient sets the [client.Client] used for every request. Without it
// all Botifactory values share one process-wide client.
func WithClient(c *client.Client) Option {
	return func(o *options) error {
		if c == nil {
			return errors.New("client must not be nil")
		}
		o.client = c
		return nil
	}
}

// WithLogger sets the logger requests are reported to at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) error {
		if l == nil {
			return errors.New("logger must not be nil")
		}
		o.logger = l
		return nil
	}
}

// WithRoutes replaces [DefaultRoutes] with r. Every route must have at
// least one segment.
func WithRoutes(r Routes) Option {
	return func(o *options) error {
		if err := r.validate(); err != nil {
			return err
		}
		o.routes = &r
		return nil
	}
}

// WithHeader adds a static header to every request. Values are checked
// when each request is built and fail with [ErrHeaderValue].
func WithHeader(key, value string) Option {
	return func(o *options) error {
		if key == "" {
			return errors.New("header key must not be empty")
		}
		if o.headers == nil {
			o.headers = make(http.Header)
		}
		o.headers.Add(key, value)
		return nil
	}
}

package botifactory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/adamwoolhether/botifactory/client"
)

// sharedClient is built on first use and serves every Botifactory that
// was not given its own client.
var sharedClient = sync.OnceValues(func() (*client.Client, error) {
	return client.Build()
})

// Botifactory is the root scope: a server endpoint and a project name.
// It is immutable and safe for concurrent use.
type Botifactory struct {
	endpoint url.URL
	project  string
	routes   Routes
	client   *client.Client
	logger   *slog.Logger
	headers  http.Header
}

// New returns a Botifactory for project on the server at endpoint. No
// network I/O happens until an operation is called.
func New(endpoint, project string, optFns ...Option) (*Botifactory, error) {
	const op = "new"

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, newError(op, ErrURLParse, err)
	}
	if !u.IsAbs() {
		return nil, newError(op, ErrURLParse, fmt.Errorf("endpoint %q is not absolute", endpoint))
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}

	b := Botifactory{
		endpoint: *u,
		project:  project,
		routes:   DefaultRoutes(),
		client:   opts.client,
		logger:   opts.logger,
		headers:  opts.headers,
	}

	if opts.routes != nil {
		b.routes = *opts.routes
	}

	if b.client == nil {
		if b.client, err = sharedClient(); err != nil {
			return nil, fmt.Errorf("building shared client: %w", err)
		}
	}

	if b.logger == nil {
		b.logger = b.client.Logger()
	}

	return &b, nil
}

// Endpoint returns a copy of the server endpoint.
func (b *Botifactory) Endpoint() *url.URL {
	u := b.endpoint
	return &u
}

// ProjectName returns the project this scope is bound to.
func (b *Botifactory) ProjectName() string {
	return b.project
}

// NewProjectURL is the target of [Botifactory.NewProject].
func (b *Botifactory) NewProjectURL() (*url.URL, error) {
	return b.url("new project url", b.routes.NewProject)
}

// CreateChannelURL is the target of [Botifactory.NewChannel].
func (b *Botifactory) CreateChannelURL() (*url.URL, error) {
	return b.url("create channel url", b.routes.NewChannel)
}

// ProjectURL is the target of [Botifactory.Project].
func (b *Botifactory) ProjectURL() (*url.URL, error) {
	return b.url("project url", b.routes.Project)
}

// NewProject creates a project named name and returns it together with a
// Botifactory scoped to it on the same endpoint. b remains usable.
func (b *Botifactory) NewProject(ctx context.Context, name string) (Project, *Botifactory, error) {
	const op = "new project"

	payload := CreateProject{ProjectName: name}
	if err := validInput(op, payload); err != nil {
		return Project{}, nil, err
	}

	u, err := b.NewProjectURL()
	if err != nil {
		return Project{}, nil, err
	}

	var body projectBody
	if err := b.do(ctx, op, http.MethodPost, u, "", []client.RequestOption{client.WithPayload(payload)}, client.WithDestination(&body)); err != nil {
		return Project{}, nil, err
	}

	scoped := *b
	scoped.project = name

	return body.Project, &scoped, nil
}

// Project fetches the project this scope is bound to.
func (b *Botifactory) Project(ctx context.Context) (Project, error) {
	const op = "project"

	u, err := b.ProjectURL()
	if err != nil {
		return Project{}, err
	}

	var body projectBody
	if err := b.do(ctx, op, http.MethodGet, u, "", nil, client.WithDestination(&body)); err != nil {
		return Project{}, err
	}

	return body.Project, nil
}

// NewChannel creates a channel named name in the project and returns it
// together with a ChannelAPI addressing it by id.
func (b *Botifactory) NewChannel(ctx context.Context, name string) (Channel, *ChannelAPI, error) {
	const op = "new channel"

	payload := CreateChannel{ChannelName: name}
	if err := validInput(op, payload); err != nil {
		return Channel{}, nil, err
	}

	u, err := b.CreateChannelURL()
	if err != nil {
		return Channel{}, nil, err
	}

	var body channelBody
	if err := b.do(ctx, op, http.MethodPost, u, "", []client.RequestOption{client.WithPayload(payload)}, client.WithDestination(&body)); err != nil {
		return Channel{}, nil, err
	}

	return body.Channel, b.Channel(ByID(body.Channel.ID)), nil
}

// Channel narrows b to the channel addressed by id. The identifier is
// checked when an operation runs.
func (b *Botifactory) Channel(id Identifier) *ChannelAPI {
	return &ChannelAPI{base: *b, id: id}
}

// url expands route for this scope and appends it to the endpoint.
func (b *Botifactory) url(op string, route []string, params ...string) (*url.URL, error) {
	params = append([]string{ProjectParam, b.project}, params...)

	u, err := joinSegments(b.endpoint, expand(route, params...)...)
	if err != nil {
		return nil, newError(op, ErrURLPath, err)
	}

	return u, nil
}

// request builds a request carrying the static headers and, when set, an
// Accept header.
func (b *Botifactory) request(ctx context.Context, u *url.URL, method, accept string, reqOpts ...client.RequestOption) (*http.Request, error) {
	headers := b.headers.Clone()
	if accept != "" {
		if headers == nil {
			headers = make(http.Header)
		}
		headers.Set("Accept", accept)
	}

	if headers != nil {
		reqOpts = append(reqOpts, client.WithHeaders(headers))
	}

	return client.Request(ctx, u, method, reqOpts...)
}

// do runs one exchange against u, accepting any 2xx status.
func (b *Botifactory) do(ctx context.Context, op, method string, u *url.URL, accept string, reqOpts []client.RequestOption, doOpts ...client.DoOption) error {
	b.logger.DebugContext(ctx, "botifactory request", "op", op, "method", method, "url", u.String())

	req, err := b.request(ctx, u, method, accept, reqOpts...)
	if err != nil {
		return classify(op, err)
	}

	if err := b.client.Do(req, client.AnySuccess, doOpts...); err != nil {
		return classify(op, err)
	}

	return nil
}

var (
	// errUnset is the cause attached to ErrInvalidIdentifier for the zero Identifier.
	errUnset = errors.New("identifier is unset")
	// errEmptyName rejects ByName("") before it collapses into another route.
	errEmptyName = errors.New("identifier name is empty")
)

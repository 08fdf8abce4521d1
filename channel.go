package botifactory

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/adamwoolhether/botifactory/client"
)

// ChannelAPI is a Botifactory narrowed to one channel. It is immutable and
// safe for concurrent use.
type ChannelAPI struct {
	base Botifactory
	id   Identifier
}

// Identifier returns the identifier this scope addresses the channel by.
func (c *ChannelAPI) Identifier() Identifier {
	return c.id
}

// ProjectName returns the project the channel belongs to.
func (c *ChannelAPI) ProjectName() string {
	return c.base.project
}

// ChannelURL addresses the channel by name under the project, or by id
// under the channel root.
func (c *ChannelAPI) ChannelURL() (*url.URL, error) {
	const op = "channel url"

	if name, ok := c.id.Name(); ok {
		if name == "" {
			return nil, newError(op, ErrInvalidIdentifier, errEmptyName)
		}
		return c.base.url(op, c.base.routes.ChannelByName, ChannelParam, name)
	}
	if id, ok := c.id.ID(); ok {
		return c.base.url(op, c.base.routes.ChannelByID, IDParam, strconv.FormatInt(id, 10))
	}

	return nil, newError(op, ErrInvalidIdentifier, errUnset)
}

// LatestReleaseURL is the channel URL followed by the latest segment.
func (c *ChannelAPI) LatestReleaseURL() (*url.URL, error) {
	return c.childURL(LatestName)
}

// PreviousReleaseURL is the channel URL followed by the previous segment.
func (c *ChannelAPI) PreviousReleaseURL() (*url.URL, error) {
	return c.childURL(PreviousName)
}

// NewReleaseURL is the channel URL followed by the new segment.
func (c *ChannelAPI) NewReleaseURL() (*url.URL, error) {
	return c.childURL("new")
}

func (c *ChannelAPI) childURL(segment string) (*url.URL, error) {
	u, err := c.ChannelURL()
	if err != nil {
		return nil, err
	}

	next, err := joinSegments(*u, segment)
	if err != nil {
		return nil, newError(segment+" release url", ErrURLPath, err)
	}

	return next, nil
}

// Channel fetches the channel.
func (c *ChannelAPI) Channel(ctx context.Context) (Channel, error) {
	const op = "channel"

	u, err := c.ChannelURL()
	if err != nil {
		return Channel{}, err
	}

	var body channelBody
	if err := c.base.do(ctx, op, http.MethodGet, u, "", nil, client.WithDestination(&body)); err != nil {
		return Channel{}, err
	}

	return body.Channel, nil
}

// LatestRelease fetches the newest release on the channel.
func (c *ChannelAPI) LatestRelease(ctx context.Context) (Release, error) {
	u, err := c.LatestReleaseURL()
	if err != nil {
		return Release{}, err
	}
	return c.base.release(ctx, "latest release", u, "")
}

// PreviousRelease fetches the release before the newest one.
func (c *ChannelAPI) PreviousRelease(ctx context.Context) (Release, error) {
	u, err := c.PreviousReleaseURL()
	if err != nil {
		return Release{}, err
	}
	return c.base.release(ctx, "previous release", u, "")
}

// NewRelease uploads the binary at nr.Path as version nr.Version. The file
// is streamed from disk. The returned ReleaseAPI addresses the new release
// by id.
func (c *ChannelAPI) NewRelease(ctx context.Context, nr NewRelease) (Release, *ReleaseAPI, error) {
	const op = "new release"

	if err := validInput(op, nr); err != nil {
		return Release{}, nil, err
	}

	u, err := c.NewReleaseURL()
	if err != nil {
		return Release{}, nil, err
	}

	form := client.WithMultipart(
		[]client.FormField{{Name: "version", Value: nr.Version}},
		client.FormFile{Field: "binary", Path: nr.Path},
	)

	var body releaseBody
	if err := c.base.do(ctx, op, http.MethodPost, u, "", []client.RequestOption{form}, client.WithDestination(&body)); err != nil {
		return Release{}, nil, err
	}

	return body.Release, c.Release(ByID(body.Release.ID)), nil
}

// Release narrows c to the release addressed by id.
func (c *ChannelAPI) Release(id Identifier) *ReleaseAPI {
	return &ReleaseAPI{channel: *c, id: id}
}

// release fetches and decodes a release envelope from u.
func (b *Botifactory) release(ctx context.Context, op string, u *url.URL, accept string) (Release, error) {
	var body releaseBody
	if err := b.do(ctx, op, http.MethodGet, u, accept, nil, client.WithDestination(&body)); err != nil {
		return Release{}, err
	}

	return body.Release, nil
}

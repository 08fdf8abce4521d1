package botifactory

import (
	"context"
	"hash"
	"net/http"
	"net/url"
	"strconv"

	"github.com/adamwoolhether/botifactory/client"
)

// Media types negotiated for a release resource.
const (
	mediaJSON   = "application/json"
	mediaBinary = "application/octet-stream"
)

// ReleaseAPI is a ChannelAPI narrowed to one release. It is immutable and
// safe for concurrent use.
type ReleaseAPI struct {
	channel ChannelAPI
	id      Identifier
}

// Identifier returns the identifier this scope addresses the release by.
func (r *ReleaseAPI) Identifier() Identifier {
	return r.id
}

// Channel returns the identifier of the channel the release was reached through.
func (r *ReleaseAPI) Channel() Identifier {
	return r.channel.id
}

// ReleaseByIDURL addresses the release under the release root. It fails
// with [ErrInvalidIdentifier] unless the release is addressed by id.
func (r *ReleaseAPI) ReleaseByIDURL() (*url.URL, error) {
	const op = "release by id url"

	id, ok := r.id.ID()
	if !ok {
		return nil, newError(op, ErrInvalidIdentifier, r.mismatch("id"))
	}

	base := &r.channel.base
	return base.url(op, base.routes.ReleaseByID, IDParam, strconv.FormatInt(id, 10))
}

// ReleaseByNameURL is the channel URL followed by the release name. It
// fails with [ErrInvalidIdentifier] unless the release is addressed by name.
func (r *ReleaseAPI) ReleaseByNameURL() (*url.URL, error) {
	const op = "release by name url"

	name, ok := r.id.Name()
	if !ok {
		return nil, newError(op, ErrInvalidIdentifier, r.mismatch("name"))
	}
	if name == "" {
		return nil, newError(op, ErrInvalidIdentifier, errEmptyName)
	}

	u, err := r.channel.ChannelURL()
	if err != nil {
		return nil, err
	}

	next, err := joinSegments(*u, name)
	if err != nil {
		return nil, newError(op, ErrURLPath, err)
	}

	return next, nil
}

// ReleaseURL dispatches on the identifier variant.
func (r *ReleaseAPI) ReleaseURL() (*url.URL, error) {
	if _, ok := r.id.ID(); ok {
		return r.ReleaseByIDURL()
	}
	if _, ok := r.id.Name(); ok {
		return r.ReleaseByNameURL()
	}

	return nil, newError("release url", ErrInvalidIdentifier, errUnset)
}

func (r *ReleaseAPI) mismatch(want string) error {
	if r.id.IsZero() {
		return errUnset
	}
	return &identifierError{want: want, got: r.id}
}

// Info fetches the release metadata, negotiating JSON.
func (r *ReleaseAPI) Info(ctx context.Context) (Release, error) {
	u, err := r.ReleaseURL()
	if err != nil {
		return Release{}, err
	}
	return r.channel.base.release(ctx, "release info", u, mediaJSON)
}

// ByID fetches the release metadata from the release root. It fails with
// [ErrInvalidIdentifier] unless the release is addressed by id.
func (r *ReleaseAPI) ByID(ctx context.Context) (Release, error) {
	u, err := r.ReleaseByIDURL()
	if err != nil {
		return Release{}, err
	}
	return r.channel.base.release(ctx, "release by id", u, "")
}

// Binary fetches the release binary into memory.
func (r *ReleaseAPI) Binary(ctx context.Context) ([]byte, error) {
	const op = "release binary"

	u, err := r.ReleaseURL()
	if err != nil {
		return nil, err
	}

	var b []byte
	if err := r.channel.base.do(ctx, op, http.MethodGet, u, mediaBinary, nil, client.WithBytes(&b)); err != nil {
		return nil, err
	}

	return b, nil
}

// BinaryRequest prepares the GET request used to download the binary. It
// can be handed to [client.DownloadResult.Add] to join a batch.
func (r *ReleaseAPI) BinaryRequest(ctx context.Context) (*http.Request, error) {
	const op = "release binary request"

	u, err := r.ReleaseURL()
	if err != nil {
		return nil, err
	}

	req, err := r.channel.base.request(ctx, u, http.MethodGet, "")
	if err != nil {
		return nil, classify(op, err)
	}

	return req, nil
}

// BinaryToPath streams the release binary to dest, replacing any existing
// file once the transfer completes. Options are checked before the request
// is sent and fail with [ErrInvalidInput].
func (r *ReleaseAPI) BinaryToPath(ctx context.Context, dest string, opts ...client.DownloadOption) error {
	const op = "release binary to path"

	req, err := r.BinaryRequest(ctx)
	if err != nil {
		return err
	}

	base := &r.channel.base
	base.logger.DebugContext(ctx, "botifactory request", "op", op, "method", req.Method, "url", req.URL.String(), "dest", dest)

	if err := base.client.Download(req, client.AnySuccess, dest, opts...); err != nil {
		return classify(op, err)
	}

	return nil
}

// BinaryToPathAsync starts [ReleaseAPI.BinaryToPath] in the background.
// Errors from the transfer itself are reported by the returned result
// and are not classified.
func (r *ReleaseAPI) BinaryToPathAsync(ctx context.Context, dest string, opts ...client.DownloadOption) (*client.DownloadResult, error) {
	const op = "release binary to path async"

	req, err := r.BinaryRequest(ctx)
	if err != nil {
		return nil, err
	}

	base := &r.channel.base
	base.logger.DebugContext(ctx, "botifactory request", "op", op, "method", req.Method, "url", req.URL.String(), "dest", dest)

	res, err := base.client.DownloadAsync(req, client.AnySuccess, dest, opts...)
	if err != nil {
		return nil, classify(op, err)
	}

	return res, nil
}

// VerifyHash returns a download option checking the transferred bytes
// against want using h, typically the Hash of the release's metadata.
func VerifyHash(h hash.Hash, want Hash) client.DownloadOption {
	return client.WithChecksum(h, want.String())
}

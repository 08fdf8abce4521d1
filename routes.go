package botifactory

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Placeholders substituted into route segments.
const (
	ProjectParam = "{project}"
	ChannelParam = "{channel}"
	IDParam      = "{id}"
)

// Routes maps each server resource to a list of path segment templates
// appended to the endpoint. A segment may contain [ProjectParam],
// [ChannelParam] or [IDParam].
type Routes struct {
	NewProject    []string
	Project       []string
	NewChannel    []string
	ChannelByName []string
	ChannelByID   []string
	ReleaseByID   []string
}

// DefaultRoutes returns the routing table of current servers, where
// projects live under an explicit project segment.
func DefaultRoutes() Routes {
	return Routes{
		NewProject:    []string{"project", "new"},
		Project:       []string{"project", ProjectParam},
		NewChannel:    []string{ProjectParam, "channel", "new"},
		ChannelByName: []string{ProjectParam, ChannelParam},
		ChannelByID:   []string{"channel", IDParam},
		ReleaseByID:   []string{"release", IDParam},
	}
}

// RelativeRoutes returns the routing table of servers that mount projects
// directly under the endpoint.
func RelativeRoutes() Routes {
	r := DefaultRoutes()
	r.NewProject = []string{"new"}
	r.Project = []string{ProjectParam}
	return r
}

func (r Routes) validate() error {
	routes := map[string][]string{
		"new project":     r.NewProject,
		"project":         r.Project,
		"new channel":     r.NewChannel,
		"channel by name": r.ChannelByName,
		"channel by id":   r.ChannelByID,
		"release by id":   r.ReleaseByID,
	}

	var errs []error
	for name, segs := range routes {
		if len(segs) == 0 {
			errs = append(errs, fmt.Errorf("route %q is empty", name))
		}
	}

	return errors.Join(errs...)
}

// expand substitutes params into route. Substituted values are not
// rescanned for placeholders.
func expand(route []string, params ...string) []string {
	r := strings.NewReplacer(params...)
	out := make([]string, len(route))
	for i, seg := range route {
		out[i] = r.Replace(seg)
	}
	return out
}

// joinSegments clones base and appends each segment percent-encoded.
// A trailing slash on base is dropped first. Empty segments are rejected.
func joinSegments(base url.URL, segments ...string) (*url.URL, error) {
	if base.Opaque != "" {
		return nil, fmt.Errorf("cannot append segments to opaque url %q", base.String())
	}
	for i, seg := range segments {
		if seg == "" {
			return nil, fmt.Errorf("path segment %d is empty", i)
		}
	}

	u := base
	if u.User != nil {
		user := *u.User
		u.User = &user
	}

	path := strings.TrimSuffix(u.Path, "/")
	raw := strings.TrimSuffix(u.EscapedPath(), "/")
	for _, seg := range segments {
		path += "/" + seg
		raw += "/" + url.PathEscape(seg)
	}

	u.Path = path
	u.RawPath = raw
	if u.Path == u.RawPath {
		u.RawPath = ""
	}

	return &u, nil
}

package botifactory_test

import (
	"errors"
	"net/url"
	"testing"

	"github.com/adamwoolhether/botifactory"
)

func newBF(t *testing.T, endpoint, project string, opts ...botifactory.Option) *botifactory.Botifactory {
	t.Helper()

	bf, err := botifactory.New(endpoint, project, opts...)
	if err != nil {
		t.Fatalf("failed to create botifactory: %v", err)
	}

	return bf
}

func TestURLs(t *testing.T) {
	stable := botifactory.ByName("stable")
	test := botifactory.ByName("test")

	tests := []struct {
		name     string
		endpoint string
		project  string
		opts     []botifactory.Option
		build    func(*botifactory.Botifactory) (*url.URL, error)
		want     string
	}{
		{
			name:     "project",
			endpoint: "https://host",
			project:  "p",
			build:    (*botifactory.Botifactory).ProjectURL,
			want:     "https://host/project/p",
		},
		{
			name:     "trailing slash dropped",
			endpoint: "https://host/",
			project:  "p",
			build:    (*botifactory.Botifactory).ProjectURL,
			want:     "https://host/project/p",
		},
		{
			name:     "endpoint path kept",
			endpoint: "https://host/api/v1/",
			project:  "p",
			build:    (*botifactory.Botifactory).ProjectURL,
			want:     "https://host/api/v1/project/p",
		},
		{
			name:     "query kept",
			endpoint: "https://host/api?region=eu",
			project:  "p",
			build:    (*botifactory.Botifactory).ProjectURL,
			want:     "https://host/api/project/p?region=eu",
		},
		{
			name:     "non ascii project",
			endpoint: "https://host",
			project:  "ünï",
			build:    (*botifactory.Botifactory).ProjectURL,
			want:     "https://host/project/%C3%BCn%C3%AF",
		},
		{
			name:     "reserved characters in project",
			endpoint: "https://host",
			project:  "a b/c",
			build:    (*botifactory.Botifactory).ProjectURL,
			want:     "https://host/project/a%20b%2Fc",
		},
		{
			name:     "new project",
			endpoint: "https://botifactory.example.com",
			project:  "test-project",
			build:    (*botifactory.Botifactory).NewProjectURL,
			want:     "https://botifactory.example.com/project/new",
		},
		{
			name:     "create channel",
			endpoint: "https://botifactory.example.com",
			project:  "test-project",
			build:    (*botifactory.Botifactory).CreateChannelURL,
			want:     "https://botifactory.example.com/test-project/channel/new",
		},
		{
			name:     "channel by name",
			endpoint: "https://host",
			project:  "p",
			build: func(bf *botifactory.Botifactory) (*url.URL, error) {
				return bf.Channel(stable).ChannelURL()
			},
			want: "https://host/p/stable",
		},
		{
			name:     "channel by id",
			endpoint: "https://host",
			project:  "p",
			build: func(bf *botifactory.Botifactory) (*url.URL, error) {
				return bf.Channel(botifactory.ByID(7)).ChannelURL()
			},
			want: "https://host/channel/7",
		},
		{
			name:     "latest release",
			endpoint: "https://host",
			project:  "p",
			build: func(bf *botifactory.Botifactory) (*url.URL, error) {
				return bf.Channel(test).LatestReleaseURL()
			},
			want: "https://host/p/test/latest",
		},
		{
			name:     "previous release",
			endpoint: "https://host",
			project:  "p",
			build: func(bf *botifactory.Botifactory) (*url.URL, error) {
				return bf.Channel(test).PreviousReleaseURL()
			},
			want: "https://host/p/test/previous",
		},
		{
			name:     "new release",
			endpoint: "https://botifactory.example.com",
			project:  "test-project",
			build: func(bf *botifactory.Botifactory) (*url.URL, error) {
				return bf.Channel(test).NewReleaseURL()
			},
			want: "https://botifactory.example.com/test-project/test/new",
		},
		{
			name:     "release by id",
			endpoint: "https://host",
			project:  "p",
			build: func(bf *botifactory.Botifactory) (*url.URL, error) {
				return bf.Channel(stable).Release(botifactory.ByID(1)).ReleaseByIDURL()
			},
			want: "https://host/release/1",
		},
		{
			name:     "release by name",
			endpoint: "https://host",
			project:  "p",
			build: func(bf *botifactory.Botifactory) (*url.URL, error) {
				return bf.Channel(stable).Release(botifactory.ByName("1.0.0")).ReleaseByNameURL()
			},
			want: "https://host/p/stable/1.0.0",
		},
		{
			name:     "release dispatch by id",
			endpoint: "https://host",
			project:  "p",
			build: func(bf *botifactory.Botifactory) (*url.URL, error) {
				return bf.Channel(stable).Release(botifactory.ByID(9)).ReleaseURL()
			},
			want: "https://host/release/9",
		},
		{
			name:     "release dispatch by name under channel id",
			endpoint: "https://host",
			project:  "p",
			build: func(bf *botifactory.Botifactory) (*url.URL, error) {
				return bf.Channel(botifactory.ByID(3)).Release(botifactory.ByName("beta 1")).ReleaseURL()
			},
			want: "https://host/channel/3/beta%201",
		},
		{
			name:     "relative new project",
			endpoint: "https://host",
			project:  "p",
			opts:     []botifactory.Option{botifactory.WithRoutes(botifactory.RelativeRoutes())},
			build:    (*botifactory.Botifactory).NewProjectURL,
			want:     "https://host/new",
		},
		{
			name:     "relative project",
			endpoint: "https://host",
			project:  "p",
			opts:     []botifactory.Option{botifactory.WithRoutes(botifactory.RelativeRoutes())},
			build:    (*botifactory.Botifactory).ProjectURL,
			want:     "https://host/p",
		},
		{
			name:     "custom template",
			endpoint: "https://host",
			project:  "p",
			opts: []botifactory.Option{botifactory.WithRoutes(func() botifactory.Routes {
				r := botifactory.DefaultRoutes()
				r.ChannelByName = []string{"v2", botifactory.ProjectParam + "-" + botifactory.ChannelParam}
				return r
			}())},
			build: func(bf *botifactory.Botifactory) (*url.URL, error) {
				return bf.Channel(stable).LatestReleaseURL()
			},
			want: "https://host/v2/p-stable/latest",
		},
		{
			name:     "placeholders in values are literal",
			endpoint: "https://host",
			project:  "{channel}",
			build: func(bf *botifactory.Botifactory) (*url.URL, error) {
				return bf.Channel(stable).ChannelURL()
			},
			want: "https://host/%7Bchannel%7D/stable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bf := newBF(t, tt.endpoint, tt.project, tt.opts...)

			first, err := tt.build(bf)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := first.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}

			second, err := tt.build(bf)
			if err != nil {
				t.Fatalf("unexpected error on second build: %v", err)
			}
			if first.String() != second.String() {
				t.Errorf("builder not idempotent: %q != %q", first, second)
			}
		})
	}
}

func TestURLs_DoNotAliasEndpoint(t *testing.T) {
	bf := newBF(t, "https://host/api", "p")

	u, err := bf.ProjectURL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	u.Path = "/mutated"

	if got := bf.Endpoint().String(); got != "https://host/api" {
		t.Errorf("endpoint changed to %q", got)
	}

	again, err := bf.ProjectURL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := again.String(); got != "https://host/api/project/p" {
		t.Errorf("got %q after mutating a previous result", got)
	}
}

func TestURLs_InvalidIdentifier(t *testing.T) {
	bf := newBF(t, "https://host", "p")
	stable := bf.Channel(botifactory.ByName("stable"))

	tests := []struct {
		name  string
		build func() (*url.URL, error)
	}{
		{
			name:  "by id url with name",
			build: stable.Release(botifactory.ByName("1.0.0")).ReleaseByIDURL,
		},
		{
			name:  "by name url with id",
			build: stable.Release(botifactory.ByID(1)).ReleaseByNameURL,
		},
		{
			name:  "unset release",
			build: stable.Release(botifactory.Identifier{}).ReleaseURL,
		},
		{
			name:  "unset release by id",
			build: stable.Release(botifactory.Identifier{}).ReleaseByIDURL,
		},
		{
			name:  "unset channel",
			build: bf.Channel(botifactory.Identifier{}).ChannelURL,
		},
		{
			name:  "unset channel latest",
			build: bf.Channel(botifactory.Identifier{}).LatestReleaseURL,
		},
		{
			name:  "release name under unset channel",
			build: bf.Channel(botifactory.Identifier{}).Release(botifactory.ByName("x")).ReleaseURL,
		},
		{
			name:  "empty channel name",
			build: bf.Channel(botifactory.ByName("")).ChannelURL,
		},
		{
			name:  "empty channel name latest",
			build: bf.Channel(botifactory.ByName("")).LatestReleaseURL,
		},
		{
			name:  "empty release name by name url",
			build: stable.Release(botifactory.ByName("")).ReleaseByNameURL,
		},
		{
			name:  "empty release name",
			build: stable.Release(botifactory.ByName("")).ReleaseURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := tt.build()
			if !errors.Is(err, botifactory.ErrInvalidIdentifier) {
				t.Fatalf("expected ErrInvalidIdentifier, got %v", err)
			}
			if u != nil {
				t.Errorf("expected nil url, got %q", u)
			}

			var bfErr *botifactory.Error
			if !errors.As(err, &bfErr) {
				t.Fatalf("expected *botifactory.Error, got %T", err)
			}
			if bfErr.Op == "" {
				t.Error("expected an op")
			}
		})
	}
}

func TestURLs_EmptySegment(t *testing.T) {
	noProject := newBF(t, "https://host", "")
	emptyRoute := newBF(t, "https://host", "p", botifactory.WithRoutes(botifactory.Routes{
		NewProject:    []string{"project", "new"},
		Project:       []string{"project", ""},
		NewChannel:    []string{botifactory.ProjectParam, "channel", "new"},
		ChannelByName: []string{botifactory.ProjectParam, botifactory.ChannelParam},
		ChannelByID:   []string{"channel", botifactory.IDParam},
		ReleaseByID:   []string{"release", botifactory.IDParam},
	}))

	builders := map[string]func() (*url.URL, error){
		"project without name":        noProject.ProjectURL,
		"create channel without name": noProject.CreateChannelURL,
		"channel without project":     noProject.Channel(botifactory.ByName("stable")).ChannelURL,
		"latest without project":      noProject.Channel(botifactory.ByName("stable")).LatestReleaseURL,
		"empty route segment":         emptyRoute.ProjectURL,
	}

	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			u, err := build()
			if !errors.Is(err, botifactory.ErrURLPath) {
				t.Fatalf("expected ErrURLPath, got %v", err)
			}
			if u != nil {
				t.Errorf("expected nil url, got %q", u)
			}
		})
	}

	// Routes without the project keep working.
	if _, err := noProject.Channel(botifactory.ByID(3)).ChannelURL(); err != nil {
		t.Errorf("channel by id: %v", err)
	}
}

func TestURLs_OpaqueEndpoint(t *testing.T) {
	bf := newBF(t, "mailto:releases@example.com", "p")

	builders := map[string]func() (*url.URL, error){
		"project":     bf.ProjectURL,
		"new project": bf.NewProjectURL,
		"channel":     bf.Channel(botifactory.ByName("stable")).ChannelURL,
		"release":     bf.Channel(botifactory.ByName("stable")).Release(botifactory.ByID(1)).ReleaseURL,
	}

	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			if _, err := build(); !errors.Is(err, botifactory.ErrURLPath) {
				t.Errorf("expected ErrURLPath, got %v", err)
			}
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		opts     []botifactory.Option
		wantKind error
	}{
		{name: "relative", endpoint: "host/path", wantKind: botifactory.ErrURLParse},
		{name: "unparsable", endpoint: "://bad", wantKind: botifactory.ErrURLParse},
		{name: "control character", endpoint: "https://host/\x7f", wantKind: botifactory.ErrURLParse},
		{name: "empty routes", endpoint: "https://host", opts: []botifactory.Option{botifactory.WithRoutes(botifactory.Routes{})}},
		{name: "nil client", endpoint: "https://host", opts: []botifactory.Option{botifactory.WithClient(nil)}},
		{name: "nil logger", endpoint: "https://host", opts: []botifactory.Option{botifactory.WithLogger(nil)}},
		{name: "empty header key", endpoint: "https://host", opts: []botifactory.Option{botifactory.WithHeader("", "v")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bf, err := botifactory.New(tt.endpoint, "p", tt.opts...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if bf != nil {
				t.Error("expected nil Botifactory")
			}
			if tt.wantKind != nil && !errors.Is(err, tt.wantKind) {
				t.Errorf("expected %v, got %v", tt.wantKind, err)
			}
		})
	}
}

func TestIdentifier(t *testing.T) {
	name := botifactory.ByName("stable")
	if got, ok := name.Name(); !ok || got != "stable" {
		t.Errorf("Name() = %q, %v", got, ok)
	}
	if _, ok := name.ID(); ok {
		t.Error("name identifier reported an id")
	}

	id := botifactory.ByID(0)
	if got, ok := id.ID(); !ok || got != 0 {
		t.Errorf("ID() = %d, %v", got, ok)
	}
	if id.IsZero() {
		t.Error("ByID(0) must not be the unset identifier")
	}

	var unset botifactory.Identifier
	if !unset.IsZero() {
		t.Error("zero identifier must be unset")
	}

	for ident, want := range map[botifactory.Identifier]string{
		name:  "name:stable",
		id:    "id:0",
		unset: "unset",
	} {
		if got := ident.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}

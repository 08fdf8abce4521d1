package main

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/urfave/cli/v2"
	"go.opentelemetry.io/otel"

	"github.com/adamwoolhether/botifactory"
	"github.com/adamwoolhether/botifactory/client"
	"github.com/adamwoolhether/botifactory/internal/config"
)

const tracerName = "github.com/adamwoolhether/botifactory/cmd/botifactory"

// env is the state shared by every command once the global flags are parsed.
type env struct {
	cfg *config.Config
	bf  *botifactory.Botifactory
	out io.Writer
}

// newCLIApp creates the CLI application with all commands. Flag defaults
// come from cfg.
func newCLIApp(cfg *config.Config, stdout, stderr io.Writer) *cli.App {
	e := &env{cfg: cfg, out: stdout}

	app := &cli.App{
		Name:      "botifactory",
		Usage:     "Manage projects, channels and releases on a botifactory server",
		Version:   Version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "endpoint", Aliases: []string{"e"}, Value: cfg.Endpoint, Usage: "Server endpoint URL"},
			&cli.StringFlag{Name: "project", Aliases: []string{"p"}, Value: cfg.Project, Usage: "Project name"},
			&cli.StringFlag{Name: "routes", Value: cfg.Routes, Usage: "Server route table: default|relative"},
			&cli.DurationFlag{Name: "timeout", Value: cfg.Timeout, Usage: "Overall request timeout"},
			&cli.StringFlag{Name: "user-agent", Value: cfg.UserAgent, Usage: "User-Agent header"},
			&cli.StringFlag{Name: "log-level", Value: cfg.LogLevel, Usage: "debug|info|warn|error"},
		},
		Before: e.setup,
		Commands: []*cli.Command{
			projectCmd(e),
			channelCmd(e),
			releaseCmd(e),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// setup merges the global flags into the config and builds the client.
func (e *env) setup(c *cli.Context) error {
	e.cfg.Endpoint = c.String("endpoint")
	e.cfg.Project = c.String("project")
	e.cfg.Routes = c.String("routes")
	e.cfg.Timeout = c.Duration("timeout")
	e.cfg.UserAgent = c.String("user-agent")
	e.cfg.LogLevel = c.String("log-level")

	// Help and version output need no server.
	if c.Args().Len() == 0 || wantsHelp(c.Args().Slice()) {
		return nil
	}

	if err := e.cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), 2)
	}

	lvl, _ := e.cfg.Level()
	routes, _ := e.cfg.RouteTable()
	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: lvl}))

	hc, err := client.Build(
		client.WithTimeout(e.cfg.Timeout),
		client.WithUserAgent(e.cfg.UserAgent),
		client.WithRequestID(),
		client.WithTracer(otel.Tracer(tracerName)),
		client.WithLogger(logger),
	)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	e.bf, err = botifactory.New(e.cfg.Endpoint, e.cfg.Project,
		botifactory.WithClient(hc),
		botifactory.WithLogger(logger),
		botifactory.WithRoutes(routes),
	)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	return nil
}

// projectCmd creates the project command group.
func projectCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "project",
		Usage: "Inspect or create projects",
		Subcommands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Show the configured project",
				Action: func(c *cli.Context) error {
					project, err := e.bf.Project(c.Context)
					if err != nil {
						return outputError(err)
					}
					return e.outputJSON(project)
				},
			},
			{
				Name:      "create",
				Usage:     "Create a project",
				ArgsUsage: "NAME",
				Action: func(c *cli.Context) error {
					name, err := requireArg(c, "NAME")
					if err != nil {
						return err
					}

					project, _, err := e.bf.NewProject(c.Context, name)
					if err != nil {
						return outputError(err)
					}
					return e.outputJSON(project)
				},
			},
		},
	}
}

// channelCmd creates the channel command group.
func channelCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "channel",
		Usage: "Inspect or create channels",
		Subcommands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Show a channel by name or id",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Channel name"},
					&cli.Int64Flag{Name: "id", Usage: "Channel id"},
				},
				Action: func(c *cli.Context) error {
					id, err := identifierFrom(c, "name", "id")
					if err != nil {
						return err
					}

					channel, err := e.bf.Channel(id).Channel(c.Context)
					if err != nil {
						return outputError(err)
					}
					return e.outputJSON(channel)
				},
			},
			{
				Name:      "create",
				Usage:     "Create a channel in the project",
				ArgsUsage: "NAME",
				Action: func(c *cli.Context) error {
					name, err := requireArg(c, "NAME")
					if err != nil {
						return err
					}

					channel, _, err := e.bf.NewChannel(c.Context, name)
					if err != nil {
						return outputError(err)
					}
					return e.outputJSON(channel)
				},
			},
		},
	}
}

// releaseCmd creates the release command group.
func releaseCmd(e *env) *cli.Command {
	channelFlags := []cli.Flag{
		&cli.StringFlag{Name: "channel", Aliases: []string{"c"}, Usage: "Channel name"},
		&cli.Int64Flag{Name: "channel-id", Usage: "Channel id"},
	}

	releaseFlags := append([]cli.Flag{
		&cli.Int64Flag{Name: "id", Usage: "Release id"},
		&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Release name, resolved within --channel"},
	}, channelFlags...)

	return &cli.Command{
		Name:  "release",
		Usage: "Inspect, download or upload releases",
		Subcommands: []*cli.Command{
			{
				Name:  "latest",
				Usage: "Show the newest release on a channel",
				Flags: channelFlags,
				Action: func(c *cli.Context) error {
					ch, err := e.channel(c)
					if err != nil {
						return err
					}

					rel, err := ch.LatestRelease(c.Context)
					if err != nil {
						return outputError(err)
					}
					return e.outputJSON(rel)
				},
			},
			{
				Name:  "previous",
				Usage: "Show the release before the newest one",
				Flags: channelFlags,
				Action: func(c *cli.Context) error {
					ch, err := e.channel(c)
					if err != nil {
						return err
					}

					rel, err := ch.PreviousRelease(c.Context)
					if err != nil {
						return outputError(err)
					}
					return e.outputJSON(rel)
				},
			},
			{
				Name:  "info",
				Usage: "Show a release by id, or by name within a channel",
				Flags: releaseFlags,
				Action: func(c *cli.Context) error {
					r, err := e.release(c)
					if err != nil {
						return err
					}

					rel, err := r.Info(c.Context)
					if err != nil {
						return outputError(err)
					}
					return e.outputJSON(rel)
				},
			},
			{
				Name:  "download",
				Usage: "Download a release binary to a file",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Required: true, Usage: "Destination file, replaced if it exists"},
					&cli.StringFlag{Name: "checksum", Usage: "Expected hex SHA-256 of the binary"},
					&cli.BoolFlag{Name: "progress", Usage: "Log download progress"},
				}, releaseFlags...),
				Action: func(c *cli.Context) error {
					r, err := e.release(c)
					if err != nil {
						return err
					}

					var opts []client.DownloadOption
					if sum := c.String("checksum"); sum != "" {
						opts = append(opts, client.WithChecksum(sha256.New(), sum))
					}
					if c.Bool("progress") {
						opts = append(opts, client.WithProgress())
					}

					out := c.String("out")
					if err := r.BinaryToPath(c.Context, out, opts...); err != nil {
						return outputError(err)
					}
					return e.outputJSON(map[string]string{"path": out})
				},
			},
			{
				Name:  "upload",
				Usage: "Upload a binary as a new release",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "version", Aliases: []string{"v"}, Required: true, Usage: "Release version"},
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true, Usage: "Binary to upload"},
				}, channelFlags...),
				Action: func(c *cli.Context) error {
					ch, err := e.channel(c)
					if err != nil {
						return err
					}

					rel, _, err := ch.NewRelease(c.Context, botifactory.NewRelease{
						Version: c.String("version"),
						Path:    c.String("file"),
					})
					if err != nil {
						return outputError(err)
					}
					return e.outputJSON(rel)
				},
			},
		},
	}
}

// channel resolves --channel or --channel-id.
func (e *env) channel(c *cli.Context) (*botifactory.ChannelAPI, error) {
	id, err := identifierFrom(c, "channel", "channel-id")
	if err != nil {
		return nil, err
	}
	return e.bf.Channel(id), nil
}

// release resolves --id, or --name within the channel flags.
func (e *env) release(c *cli.Context) (*botifactory.ReleaseAPI, error) {
	hasID := c.IsSet("id")
	hasName := c.IsSet("name")

	switch {
	case hasID && hasName:
		return nil, usageError("use either --id or --name, not both")
	case hasID:
		// Release ids resolve without a channel.
		return e.bf.Channel(botifactory.Identifier{}).Release(botifactory.ByID(c.Int64("id"))), nil
	case hasName:
		ch, err := e.channel(c)
		if err != nil {
			return nil, err
		}
		return ch.Release(botifactory.ByName(c.String("name"))), nil
	default:
		return nil, usageError("one of --id or --name is required")
	}
}

// identifierFrom builds an Identifier from exactly one of a name flag and
// an id flag.
func identifierFrom(c *cli.Context, nameFlag, idFlag string) (botifactory.Identifier, error) {
	hasName := c.IsSet(nameFlag)
	hasID := c.IsSet(idFlag)

	switch {
	case hasName && hasID:
		return botifactory.Identifier{}, usageError(fmt.Sprintf("use either --%s or --%s, not both", nameFlag, idFlag))
	case hasName:
		return botifactory.ByName(c.String(nameFlag)), nil
	case hasID:
		return botifactory.ByID(c.Int64(idFlag)), nil
	default:
		return botifactory.Identifier{}, usageError(fmt.Sprintf("one of --%s or --%s is required", nameFlag, idFlag))
	}
}

func requireArg(c *cli.Context, name string) (string, error) {
	if c.NArg() != 1 || c.Args().First() == "" {
		return "", usageError(name + " argument is required")
	}
	return c.Args().First(), nil
}

// outputJSON writes v to stdout as indented JSON.
func (e *env) outputJSON(v any) error {
	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats a library error for the CLI. Usage mistakes exit 2,
// everything else exits 1.
func outputError(err error) error {
	code := 1
	if errors.Is(err, botifactory.ErrInvalidInput) || errors.Is(err, botifactory.ErrInvalidIdentifier) {
		code = 2
	}
	return cli.Exit(err.Error(), code)
}

func wantsHelp(args []string) bool {
	for _, a := range args {
		if a == "help" || a == "--help" || a == "-h" {
			return true
		}
	}
	return false
}

func usageError(msg string) error {
	return cli.Exit(msg, 2)
}

// Package config loads the command-line configuration from the
// environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/adamwoolhether/botifactory"
)

// Route table names accepted in BOTIFACTORY_ROUTES.
const (
	RoutesDefault  = "default"
	RoutesRelative = "relative"
)

type Config struct {
	Endpoint  string
	Project   string
	Routes    string
	Timeout   time.Duration
	UserAgent string
	LogLevel  string
}

// Load reads envFiles (".env" when none are given) into the environment
// without overriding variables that are already set, then builds a Config.
// A missing file is not an error. Load does not call Validate, so that
// command-line flags can fill in the rest first.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading env file: %w", err)
		}
		slog.Debug("no .env file found, using environment variables")
	}

	timeout, err := getEnvAsDuration("BOTIFACTORY_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Endpoint:  getEnv("BOTIFACTORY_ENDPOINT", ""),
		Project:   getEnv("BOTIFACTORY_PROJECT", ""),
		Routes:    getEnv("BOTIFACTORY_ROUTES", RoutesDefault),
		Timeout:   timeout,
		UserAgent: getEnv("BOTIFACTORY_USER_AGENT", "botifactory-cli"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Endpoint == "" {
		errs = append(errs, errors.New("BOTIFACTORY_ENDPOINT is required"))
	} else if u, err := url.Parse(c.Endpoint); err != nil || !u.IsAbs() {
		errs = append(errs, fmt.Errorf("BOTIFACTORY_ENDPOINT %q is not an absolute url", c.Endpoint))
	}

	if c.Project == "" {
		errs = append(errs, errors.New("BOTIFACTORY_PROJECT is required"))
	}

	if _, err := c.RouteTable(); err != nil {
		errs = append(errs, err)
	}

	if c.Timeout < 0 {
		errs = append(errs, errors.New("BOTIFACTORY_TIMEOUT must not be negative"))
	}

	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// RouteTable returns the routing table named by Routes.
func (c *Config) RouteTable() (botifactory.Routes, error) {
	switch strings.ToLower(c.Routes) {
	case RoutesDefault, "":
		return botifactory.DefaultRoutes(), nil
	case RoutesRelative:
		return botifactory.RelativeRoutes(), nil
	default:
		return botifactory.Routes{}, fmt.Errorf("BOTIFACTORY_ROUTES %q must be %q or %q", c.Routes, RoutesDefault, RoutesRelative)
	}
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}

	return value, nil
}

// Package config defines the server configuration: how to reach or
// launch the browser, what navigation is permitted and where artifacts
// go. It is produced by the CLI layer — flags merged over an optional
// YAML file — and consumed verbatim by the browser manager.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/pilot/pkg/browser"
)

// Config is the full server configuration.
type Config struct {
	Connect   ConnectConfig `yaml:"connect"`
	Launch    LaunchConfig  `yaml:"launch"`
	Origins   OriginConfig  `yaml:"origins"`
	OutputDir string        `yaml:"output_dir"`
	LogFile   string        `yaml:"log_file"`
}

// ConnectConfig attaches to an already-running browser. Setting either
// endpoint selects connect mode.
type ConnectConfig struct {
	// CDPEndpoint is the http endpoint of the browser's remote
	// debugging server.
	CDPEndpoint string `yaml:"cdp_endpoint"`

	// WSEndpoint is the websocket endpoint of a browser server.
	WSEndpoint string `yaml:"ws_endpoint"`

	// Headers are sent with the websocket connect request.
	Headers map[string]string `yaml:"headers"`
}

// LaunchConfig launches a local browser when no connect endpoint is
// configured.
type LaunchConfig struct {
	Headless          bool     `yaml:"headless"`
	Channel           string   `yaml:"channel"`
	ExecutablePath    string   `yaml:"executable_path"`
	Isolated          bool     `yaml:"isolated"`
	Viewport          string   `yaml:"viewport"`
	Args              []string `yaml:"args"`
	IgnoreHTTPSErrors bool     `yaml:"ignore_https_errors"`
	Devtools          bool     `yaml:"devtools"`
}

// OriginConfig restricts navigation with glob patterns matched against
// the target origin.
type OriginConfig struct {
	Allowed []string `yaml:"allowed"`
	Blocked []string `yaml:"blocked"`
}

// Default returns the configuration used when nothing is specified: a
// headless local browser with no origin restrictions.
func Default() *Config {
	return &Config{
		Launch: LaunchConfig{
			Headless: true,
			Viewport: "1280x720",
		},
	}
}

// Load reads a YAML configuration file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations that cannot be acted on.
func (c *Config) Validate() error {
	if c.Connect.CDPEndpoint != "" && c.Connect.WSEndpoint != "" {
		return fmt.Errorf("cdp_endpoint and ws_endpoint are mutually exclusive")
	}
	if c.Launch.Viewport != "" {
		if _, err := parseViewport(c.Launch.Viewport); err != nil {
			return err
		}
	}
	return nil
}

// BrowserOptions translates the configuration into the browser
// manager's options.
func (c *Config) BrowserOptions() (browser.Options, error) {
	opts := browser.Options{
		CDPEndpoint:       c.Connect.CDPEndpoint,
		WSEndpoint:        c.Connect.WSEndpoint,
		WSHeaders:         c.Connect.Headers,
		Headless:          c.Launch.Headless,
		ExecutablePath:    c.Launch.ExecutablePath,
		Channel:           c.Launch.Channel,
		Isolated:          c.Launch.Isolated,
		Args:              c.Launch.Args,
		IgnoreHTTPSErrors: c.Launch.IgnoreHTTPSErrors,
		Devtools:          c.Launch.Devtools,
		AllowedOrigins:    c.Origins.Allowed,
		BlockedOrigins:    c.Origins.Blocked,
		OutputDir:         c.OutputDir,
	}

	if c.Launch.Viewport != "" {
		size, err := parseViewport(c.Launch.Viewport)
		if err != nil {
			return browser.Options{}, err
		}
		opts.Viewport = size
	}
	return opts, nil
}

// parseViewport parses "WIDTHxHEIGHT", e.g. "1280x720".
func parseViewport(s string) (*browser.Size, error) {
	parts := strings.SplitN(s, "x", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid viewport %q, expected WIDTHxHEIGHT", s)
	}
	width, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, fmt.Errorf("invalid viewport width in %q", s)
	}
	height, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, fmt.Errorf("invalid viewport height in %q", s)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("viewport dimensions must be positive in %q", s)
	}
	return &browser.Size{Width: width, Height: height}, nil
}

// Package main starts the pilot MCP server: browser automation exposed
// as protocol tools over stdio. Configuration comes from flags merged
// over an optional YAML file; stdout is reserved for the protocol
// stream and all logging goes to stderr.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/entrhq/pilot/pkg/browser"
	"github.com/entrhq/pilot/pkg/config"
	"github.com/entrhq/pilot/pkg/dispatch"
	"github.com/entrhq/pilot/pkg/logging"
	"github.com/entrhq/pilot/pkg/tools"
)

const version = "0.1.0"

// cliFlags holds the parsed command line. set records which flags were
// given explicitly, so only those override the config file.
type cliFlags struct {
	configFile  string
	showVersion bool

	cdpEndpoint string
	wsEndpoint  string
	headers     headerFlag

	headless          bool
	channel           string
	executablePath    string
	isolated          bool
	viewport          string
	browserArgs       stringListFlag
	ignoreHTTPSErrors bool
	devtools          bool

	allowedOrigins string
	blockedOrigins string
	outputDir      string
	logFile        string

	set map[string]bool
}

// headerFlag collects repeated "Name: value" header flags.
type headerFlag map[string]string

func (h headerFlag) String() string { return fmt.Sprintf("%v", map[string]string(h)) }

func (h headerFlag) Set(value string) error {
	name, val, ok := strings.Cut(value, ":")
	if !ok {
		return fmt.Errorf("invalid header %q, expected \"Name: value\"", value)
	}
	h[strings.TrimSpace(name)] = strings.TrimSpace(val)
	return nil
}

// stringListFlag collects a repeatable string flag.
type stringListFlag []string

func (s *stringListFlag) String() string { return strings.Join(*s, " ") }

func (s *stringListFlag) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func main() {
	flags := parseFlags()

	if flags.showVersion {
		fmt.Printf("pilot v%s\n", version)
		return
	}

	if err := run(flags); err != nil {
		fmt.Fprintf(os.Stderr, "pilot: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() *cliFlags {
	flags := &cliFlags{headers: headerFlag{}}

	flag.StringVar(&flags.configFile, "config", "", "Path to a YAML configuration file")
	flag.BoolVar(&flags.showVersion, "version", false, "Show version and exit")

	flag.StringVar(&flags.cdpEndpoint, "cdp-endpoint", "", "Connect to a running browser over CDP at this http endpoint")
	flag.StringVar(&flags.wsEndpoint, "ws-endpoint", "", "Connect to a browser server at this websocket endpoint")
	flag.Var(flags.headers, "header", "Header sent with the websocket connect request, as \"Name: value\" (repeatable)")

	flag.BoolVar(&flags.headless, "headless", true, "Run the launched browser without a visible window")
	flag.StringVar(&flags.channel, "channel", "", "Browser release channel to launch (chrome, msedge, ...)")
	flag.StringVar(&flags.executablePath, "executable-path", "", "Browser binary to launch instead of the bundled one")
	flag.BoolVar(&flags.isolated, "isolated", false, "Give every rebuilt context a fresh incognito profile")
	flag.StringVar(&flags.viewport, "viewport", "", "Viewport size as WIDTHxHEIGHT, e.g. 1280x720")
	flag.Var(&flags.browserArgs, "browser-arg", "Extra argument passed to the browser process (repeatable)")
	flag.BoolVar(&flags.ignoreHTTPSErrors, "ignore-https-errors", false, "Accept invalid or self-signed certificates")
	flag.BoolVar(&flags.devtools, "devtools", false, "Open the developer tools panel for each page")

	flag.StringVar(&flags.allowedOrigins, "allowed-origins", "", "Comma-separated origin globs navigation is restricted to")
	flag.StringVar(&flags.blockedOrigins, "blocked-origins", "", "Comma-separated origin globs navigation is denied for")
	flag.StringVar(&flags.outputDir, "output-dir", "", "Directory for screenshots and PDFs")
	flag.StringVar(&flags.logFile, "log-file", "", "Mirror logs to this file in addition to stderr")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pilot - browser automation over the Model Context Protocol\n\n")
		fmt.Fprintf(os.Stderr, "Usage: pilot [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Launch a headless browser\n")
		fmt.Fprintf(os.Stderr, "  pilot\n\n")
		fmt.Fprintf(os.Stderr, "  # Attach to a running Chrome\n")
		fmt.Fprintf(os.Stderr, "  pilot -cdp-endpoint http://127.0.0.1:9222\n\n")
	}

	flag.Parse()

	flags.set = make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { flags.set[f.Name] = true })
	return flags
}

func run(flags *cliFlags) error {
	cfg := config.Default()
	if flags.configFile != "" {
		loaded, err := config.Load(flags.configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	applyFlags(cfg, flags)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	opts, err := cfg.BrowserOptions()
	if err != nil {
		return err
	}

	log := logging.NewLogger("pilot")
	if cfg.LogFile != "" {
		if err := log.MirrorToFile(cfg.LogFile); err != nil {
			return err
		}
		defer log.Close()
	}

	manager, err := browser.NewManager(opts, logging.NewLogger("browser"))
	if err != nil {
		return err
	}
	defer manager.Close()

	registry, err := tools.NewRegistry(tools.All()...)
	if err != nil {
		return err
	}

	dispatcher := dispatch.New(manager, registry, logging.NewLogger("dispatch"))
	srv := dispatcher.NewServer("pilot", version)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Infof("shutting down")
		if err := manager.Close(); err != nil {
			log.Errorf("shutdown: %v", err)
		}
		os.Exit(0)
	}()

	log.Infof("pilot v%s serving %d tools over stdio", version, registry.Len())
	if err := server.ServeStdio(srv); err != nil {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}

// applyFlags overrides config values with explicitly set flags.
func applyFlags(cfg *config.Config, flags *cliFlags) {
	if flags.set["cdp-endpoint"] {
		cfg.Connect.CDPEndpoint = flags.cdpEndpoint
	}
	if flags.set["ws-endpoint"] {
		cfg.Connect.WSEndpoint = flags.wsEndpoint
	}
	if flags.set["header"] {
		cfg.Connect.Headers = flags.headers
	}
	if flags.set["headless"] {
		cfg.Launch.Headless = flags.headless
	}
	if flags.set["channel"] {
		cfg.Launch.Channel = flags.channel
	}
	if flags.set["executable-path"] {
		cfg.Launch.ExecutablePath = flags.executablePath
	}
	if flags.set["isolated"] {
		cfg.Launch.Isolated = flags.isolated
	}
	if flags.set["viewport"] {
		cfg.Launch.Viewport = flags.viewport
	}
	if flags.set["browser-arg"] {
		cfg.Launch.Args = flags.browserArgs
	}
	if flags.set["ignore-https-errors"] {
		cfg.Launch.IgnoreHTTPSErrors = flags.ignoreHTTPSErrors
	}
	if flags.set["devtools"] {
		cfg.Launch.Devtools = flags.devtools
	}
	if flags.set["allowed-origins"] {
		cfg.Origins.Allowed = splitList(flags.allowedOrigins)
	}
	if flags.set["blocked-origins"] {
		cfg.Origins.Blocked = splitList(flags.blockedOrigins)
	}
	if flags.set["output-dir"] {
		cfg.OutputDir = flags.outputDir
	}
	if flags.set["log-file"] {
		cfg.LogFile = flags.logFile
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

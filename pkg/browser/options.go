package browser

import "io"

// Size is a viewport size in CSS pixels.
type Size struct {
	Width  int
	Height int
}

// Options configures how the Manager obtains a browser. Exactly one of
// two modes applies per Manager: connect mode is selected whenever
// CDPEndpoint or WSEndpoint is set; otherwise a local browser is
// launched.
type Options struct {
	// Connect mode inputs.

	// CDPEndpoint is the HTTP endpoint of an already-running browser's
	// remote debugging server, e.g. "http://127.0.0.1:9222".
	CDPEndpoint string

	// WSEndpoint is the websocket endpoint of a running browser server.
	WSEndpoint string

	// WSHeaders are additional HTTP headers sent with the websocket
	// connect request.
	WSHeaders map[string]string

	// Launch mode inputs.

	// Headless runs the launched browser without a visible window.
	Headless bool

	// ExecutablePath overrides the browser binary to launch.
	ExecutablePath string

	// Channel selects a release channel ("chrome", "msedge", ...)
	// instead of the bundled browser.
	Channel string

	// Isolated gives every reconstructed Context a fresh incognito
	// browser context instead of adopting the browser's default one.
	Isolated bool

	// Viewport sets the page viewport. Nil leaves the driver default.
	Viewport *Size

	// Args are extra process arguments passed to the browser.
	Args []string

	// IgnoreHTTPSErrors accepts invalid or self-signed certificates.
	IgnoreHTTPSErrors bool

	// Devtools opens the developer tools panel for each page.
	Devtools bool

	// DriverLogs receives the automation driver's own output. Nil
	// discards it, which keeps the protocol stream on stdout clean.
	DriverLogs io.Writer

	// Origin policy applied to navigation.

	// AllowedOrigins restricts navigation to origins matching one of
	// these glob patterns. Empty means all origins are allowed.
	AllowedOrigins []string

	// BlockedOrigins denies navigation to matching origins. A block
	// match wins over an allow match.
	BlockedOrigins []string

	// OutputDir is where capture tools write screenshots and PDFs.
	// Empty falls back to the working directory.
	OutputDir string
}

// connectMode reports whether connect inputs are present. Connect is
// selected whenever either endpoint is set, regardless of launch inputs.
func (o Options) connectMode() bool {
	return o.CDPEndpoint != "" || o.WSEndpoint != ""
}

package browser

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/pilot/pkg/logging"
)

// Manager owns the browser handle and the Context built around it. It
// resolves the handle on demand — connecting to a running browser or
// launching a local one — and reconciles the Context's identity across
// calls: as long as the resolved handle is the same object, the same
// Context is returned; a new handle forces a full reconstruction.
//
// GetContext is not internally serialized against tool execution; the
// dispatcher calls it while holding the call mutex.
type Manager struct {
	mu     sync.Mutex
	opts   Options
	policy *originPolicy
	log    *logging.Logger

	pw      *playwright.Playwright
	browser playwright.Browser
	current *Context

	// resolve is swappable so reconciliation can be tested without a
	// driver process.
	resolve func() (playwright.Browser, error)
}

// NewManager creates a Manager for the given options. The driver is not
// started until the first GetContext call.
func NewManager(opts Options, log *logging.Logger) (*Manager, error) {
	policy, err := newOriginPolicy(opts.AllowedOrigins, opts.BlockedOrigins)
	if err != nil {
		return nil, err
	}
	m := &Manager{
		opts:   opts,
		policy: policy,
		log:    log,
	}
	m.resolve = m.resolveBrowser
	return m, nil
}

// GetContext resolves the browser handle and returns the Context wrapped
// around it. The handle comparison is by identity, never by value: a
// reconnect that yields an equivalent but distinct handle still triggers
// reconstruction, and every reference into the prior Context becomes
// stale. Resolution failures propagate to the caller and are not
// retried.
func (m *Manager) GetContext(ctx context.Context) (*Context, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.resolve()
	if err != nil {
		return nil, err
	}

	if b == m.browser && m.current != nil {
		return m.current, nil
	}

	if m.current != nil {
		m.log.Infof("browser handle changed, rebuilding context")
		m.current.invalidate()
	}
	m.browser = b
	m.current = newContext(b, m.opts, m.policy)
	return m.current, nil
}

// resolveBrowser returns a live browser handle, reusing the cached one
// when it is still connected to the same target. Connect mode is
// selected whenever an endpoint is configured; otherwise a local browser
// is launched.
func (m *Manager) resolveBrowser() (playwright.Browser, error) {
	if m.browser != nil && m.browser.IsConnected() {
		return m.browser, nil
	}

	if m.opts.connectMode() {
		pw, err := m.ensureDriver(false)
		if err != nil {
			return nil, err
		}
		if m.opts.CDPEndpoint != "" {
			m.log.Infof("connecting over CDP to %s", m.opts.CDPEndpoint)
			b, err := pw.Chromium.ConnectOverCDP(m.opts.CDPEndpoint, playwright.BrowserTypeConnectOverCDPOptions{
				Headers: m.opts.WSHeaders,
			})
			if err != nil {
				return nil, fmt.Errorf("connecting to %s: %w", m.opts.CDPEndpoint, err)
			}
			return b, nil
		}
		m.log.Infof("connecting to browser server at %s", m.opts.WSEndpoint)
		b, err := pw.Chromium.Connect(m.opts.WSEndpoint, playwright.BrowserTypeConnectOptions{
			Headers: m.opts.WSHeaders,
		})
		if err != nil {
			return nil, fmt.Errorf("connecting to %s: %w", m.opts.WSEndpoint, err)
		}
		return b, nil
	}

	pw, err := m.ensureDriver(true)
	if err != nil {
		return nil, err
	}
	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(m.opts.Headless),
		Args:     m.opts.Args,
	}
	if m.opts.Channel != "" {
		launchOpts.Channel = playwright.String(m.opts.Channel)
	}
	if m.opts.ExecutablePath != "" {
		launchOpts.ExecutablePath = playwright.String(m.opts.ExecutablePath)
	}
	if m.opts.Devtools {
		launchOpts.Devtools = playwright.Bool(true)
	}
	m.log.Infof("launching browser (headless=%t channel=%q)", m.opts.Headless, m.opts.Channel)
	b, err := pw.Chromium.Launch(launchOpts)
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}
	return b, nil
}

// ensureDriver starts the playwright driver once. Browser binaries are
// only installed when we are going to launch locally; connecting to a
// remote browser needs no local install.
func (m *Manager) ensureDriver(installBrowsers bool) (*playwright.Playwright, error) {
	if m.pw != nil {
		return m.pw, nil
	}

	sink := m.opts.DriverLogs
	if sink == nil {
		sink = io.Discard
	}
	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  sink,
		Stderr:  sink,
	}
	if installBrowsers {
		if err := playwright.Install(runOpts); err != nil {
			return nil, fmt.Errorf("installing playwright: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("starting playwright driver: %w", err)
	}
	m.pw = pw
	return pw, nil
}

// Close tears down the current Context, the browser handle and the
// driver process. Safe to call when nothing was ever resolved.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	if m.current != nil {
		if err := m.current.Close(); err != nil {
			errs = append(errs, err)
		}
		m.current.invalidate()
		m.current = nil
	}
	if m.browser != nil {
		if err := m.browser.Close(); err != nil {
			errs = append(errs, err)
		}
		m.browser = nil
	}
	if m.pw != nil {
		if err := m.pw.Stop(); err != nil {
			errs = append(errs, err)
		}
		m.pw = nil
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}
	return nil
}

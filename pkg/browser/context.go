package browser

import (
	"fmt"
	"strings"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// Context wraps one live browser automation session: the browser handle
// plus the page and tab state derived from it. A Context is owned
// exclusively by the Manager; tool handlers receive a borrowed reference
// and must never retain it across calls, because reconnection replaces
// the Context wholesale.
type Context struct {
	browser playwright.Browser
	opts    Options
	policy  *originPolicy

	bctx   playwright.BrowserContext
	pages  []playwright.Page
	active int

	// Driver events arrive on the driver's goroutine, concurrently with
	// the serialized tool call, so the buffers get their own lock.
	evmu     sync.Mutex
	console  []ConsoleEntry
	inflight map[playwright.Request]*NetworkEntry
	network  []*NetworkEntry

	valid bool
}

// ConsoleEntry is one recorded console message.
type ConsoleEntry struct {
	Type     string
	Text     string
	Location string
}

// NetworkEntry is one recorded network request. Status is zero until a
// response arrives.
type NetworkEntry struct {
	Method       string
	URL          string
	ResourceType string
	Status       int
}

// TabInfo describes one open tab.
type TabInfo struct {
	Index  int
	URL    string
	Title  string
	Active bool
}

func newContext(b playwright.Browser, opts Options, policy *originPolicy) *Context {
	return &Context{
		browser:  b,
		opts:     opts,
		policy:   policy,
		active:   -1,
		inflight: make(map[playwright.Request]*NetworkEntry),
		valid:    true,
	}
}

// invalidate marks the Context stale. Every accessor fails afterwards so
// a handler holding a reference across a reconnect cannot touch the
// replaced session.
func (c *Context) invalidate() {
	c.valid = false
}

func (c *Context) ensureValid() error {
	if !c.valid {
		return fmt.Errorf("stale browser context: the underlying browser handle was replaced")
	}
	return nil
}

// ensureBrowserContext creates or adopts the playwright browser context
// on first use. Without the isolated option, an existing context on the
// browser (the normal case when attached over CDP to a user's browser)
// is adopted rather than shadowed by a fresh incognito one.
func (c *Context) ensureBrowserContext() error {
	if err := c.ensureValid(); err != nil {
		return err
	}
	if c.bctx != nil {
		return nil
	}

	if !c.opts.Isolated {
		if existing := c.browser.Contexts(); len(existing) > 0 {
			c.bctx = existing[0]
			for _, p := range c.bctx.Pages() {
				c.adoptPage(p)
			}
			return nil
		}
	}

	ctxOpts := playwright.BrowserNewContextOptions{}
	if c.opts.Viewport != nil {
		ctxOpts.Viewport = &playwright.Size{
			Width:  c.opts.Viewport.Width,
			Height: c.opts.Viewport.Height,
		}
	}
	if c.opts.IgnoreHTTPSErrors {
		ctxOpts.IgnoreHttpsErrors = playwright.Bool(true)
	}

	bctx, err := c.browser.NewContext(ctxOpts)
	if err != nil {
		return fmt.Errorf("creating browser context: %w", err)
	}
	c.bctx = bctx
	return nil
}

// adoptPage starts tracking a page and subscribes to its console and
// network events.
func (c *Context) adoptPage(p playwright.Page) {
	c.pages = append(c.pages, p)
	if c.active < 0 {
		c.active = len(c.pages) - 1
	}

	p.OnConsole(func(msg playwright.ConsoleMessage) {
		entry := ConsoleEntry{Type: msg.Type(), Text: msg.Text()}
		if loc := msg.Location(); loc != nil {
			entry.Location = fmt.Sprintf("%s:%d", loc.URL, loc.LineNumber)
		}
		c.evmu.Lock()
		c.console = append(c.console, entry)
		c.evmu.Unlock()
	})

	p.OnRequest(func(req playwright.Request) {
		entry := &NetworkEntry{
			Method:       req.Method(),
			URL:          req.URL(),
			ResourceType: req.ResourceType(),
		}
		c.evmu.Lock()
		c.inflight[req] = entry
		c.network = append(c.network, entry)
		c.evmu.Unlock()
	})

	p.OnResponse(func(resp playwright.Response) {
		c.evmu.Lock()
		if entry, ok := c.inflight[resp.Request()]; ok {
			entry.Status = resp.Status()
			delete(c.inflight, resp.Request())
		}
		c.evmu.Unlock()
	})
}

// Page returns the active page, opening the first one on demand.
func (c *Context) Page() (playwright.Page, error) {
	if err := c.ensureBrowserContext(); err != nil {
		return nil, err
	}
	if len(c.pages) == 0 {
		p, err := c.bctx.NewPage()
		if err != nil {
			return nil, fmt.Errorf("opening page: %w", err)
		}
		c.adoptPage(p)
	}
	if c.active < 0 || c.active >= len(c.pages) {
		c.active = 0
	}
	return c.pages[c.active], nil
}

// Navigate loads url in the active page after checking the origin
// policy.
func (c *Context) Navigate(url string) error {
	if err := c.policy.check(url); err != nil {
		return err
	}
	page, err := c.Page()
	if err != nil {
		return err
	}
	if _, err := page.Goto(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// GoBack navigates the active page back in history.
func (c *Context) GoBack() error {
	page, err := c.Page()
	if err != nil {
		return err
	}
	if _, err := page.GoBack(); err != nil {
		return fmt.Errorf("going back failed: %w", err)
	}
	return nil
}

// Reload reloads the active page.
func (c *Context) Reload() error {
	page, err := c.Page()
	if err != nil {
		return err
	}
	if _, err := page.Reload(); err != nil {
		return fmt.Errorf("reload failed: %w", err)
	}
	return nil
}

// Click clicks the first element matching selector.
func (c *Context) Click(selector string) error {
	page, err := c.Page()
	if err != nil {
		return err
	}
	if err := page.Click(selector); err != nil {
		return fmt.Errorf("click on %q failed: %w", selector, err)
	}
	return nil
}

// Hover hovers over the first element matching selector.
func (c *Context) Hover(selector string) error {
	page, err := c.Page()
	if err != nil {
		return err
	}
	if err := page.Hover(selector); err != nil {
		return fmt.Errorf("hover on %q failed: %w", selector, err)
	}
	return nil
}

// Type fills the element matching selector with text, optionally
// pressing Enter afterwards to submit.
func (c *Context) Type(selector, text string, submit bool) error {
	page, err := c.Page()
	if err != nil {
		return err
	}
	if err := page.Fill(selector, text); err != nil {
		return fmt.Errorf("typing into %q failed: %w", selector, err)
	}
	if submit {
		if err := page.Press(selector, "Enter"); err != nil {
			return fmt.Errorf("submitting %q failed: %w", selector, err)
		}
	}
	return nil
}

// PressKey presses a keyboard key ("Enter", "ArrowDown", ...) on the
// active page.
func (c *Context) PressKey(key string) error {
	page, err := c.Page()
	if err != nil {
		return err
	}
	if err := page.Keyboard().Press(key); err != nil {
		return fmt.Errorf("pressing %q failed: %w", key, err)
	}
	return nil
}

// SelectOption selects values in the dropdown matching selector and
// returns the values actually selected.
func (c *Context) SelectOption(selector string, values []string) ([]string, error) {
	page, err := c.Page()
	if err != nil {
		return nil, err
	}
	selected, err := page.SelectOption(selector, playwright.SelectOptionValues{
		Values: &values,
	})
	if err != nil {
		return nil, fmt.Errorf("selecting option in %q failed: %w", selector, err)
	}
	return selected, nil
}

// Evaluate runs a JavaScript expression in the active page and returns
// its result.
func (c *Context) Evaluate(expression string) (interface{}, error) {
	page, err := c.Page()
	if err != nil {
		return nil, err
	}
	result, err := page.Evaluate(expression)
	if err != nil {
		return nil, fmt.Errorf("evaluate failed: %w", err)
	}
	return result, nil
}

// Screenshot captures the active page as PNG bytes.
func (c *Context) Screenshot(fullPage bool) ([]byte, error) {
	page, err := c.Page()
	if err != nil {
		return nil, err
	}
	data, err := page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(fullPage),
		Type:     playwright.ScreenshotTypePng,
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return data, nil
}

// PDF renders the active page to PDF and returns the document bytes.
func (c *Context) PDF() ([]byte, error) {
	page, err := c.Page()
	if err != nil {
		return nil, err
	}
	data, err := page.PDF()
	if err != nil {
		return nil, fmt.Errorf("pdf rendering failed: %w", err)
	}
	return data, nil
}

// ExtractText returns the readable text of the active page, cleaned of
// scripts and markup noise. selector optionally narrows extraction to a
// subtree; maxLength truncates the result when positive.
func (c *Context) ExtractText(selector string, maxLength int) (string, error) {
	page, err := c.Page()
	if err != nil {
		return "", err
	}

	var rawHTML string
	if selector != "" {
		element, err := page.QuerySelector(selector)
		if err != nil {
			return "", fmt.Errorf("selector query failed: %w", err)
		}
		if element == nil {
			return "", fmt.Errorf("no element matches selector %q", selector)
		}
		rawHTML, err = element.InnerHTML()
		if err != nil {
			return "", fmt.Errorf("reading element html failed: %w", err)
		}
	} else {
		rawHTML, err = page.Content()
		if err != nil {
			return "", fmt.Errorf("reading page html failed: %w", err)
		}
	}

	return extractText(rawHTML, maxLength)
}

// Resize changes the active page's viewport.
func (c *Context) Resize(width, height int) error {
	page, err := c.Page()
	if err != nil {
		return err
	}
	if err := page.SetViewportSize(width, height); err != nil {
		return fmt.Errorf("resize failed: %w", err)
	}
	return nil
}

// ConsoleMessages returns the console messages recorded since the
// Context was built.
func (c *Context) ConsoleMessages() ([]ConsoleEntry, error) {
	if err := c.ensureValid(); err != nil {
		return nil, err
	}
	c.evmu.Lock()
	defer c.evmu.Unlock()
	out := make([]ConsoleEntry, len(c.console))
	copy(out, c.console)
	return out, nil
}

// NetworkRequests returns the network requests recorded since the
// Context was built.
func (c *Context) NetworkRequests() ([]NetworkEntry, error) {
	if err := c.ensureValid(); err != nil {
		return nil, err
	}
	c.evmu.Lock()
	defer c.evmu.Unlock()
	out := make([]NetworkEntry, 0, len(c.network))
	for _, entry := range c.network {
		out = append(out, *entry)
	}
	return out, nil
}

// Tabs lists the open tabs.
func (c *Context) Tabs() ([]TabInfo, error) {
	if err := c.ensureBrowserContext(); err != nil {
		return nil, err
	}
	infos := make([]TabInfo, 0, len(c.pages))
	for i, p := range c.pages {
		title, err := p.Title()
		if err != nil {
			title = ""
		}
		infos = append(infos, TabInfo{
			Index:  i,
			URL:    p.URL(),
			Title:  title,
			Active: i == c.active,
		})
	}
	return infos, nil
}

// NewTab opens a new tab, optionally navigating it, and makes it active.
func (c *Context) NewTab(url string) error {
	if err := c.ensureBrowserContext(); err != nil {
		return err
	}
	p, err := c.bctx.NewPage()
	if err != nil {
		return fmt.Errorf("opening tab: %w", err)
	}
	c.adoptPage(p)
	c.active = len(c.pages) - 1
	if url != "" {
		return c.Navigate(url)
	}
	return nil
}

// SelectTab makes the tab at index active and brings it to front.
func (c *Context) SelectTab(index int) error {
	if err := c.ensureValid(); err != nil {
		return err
	}
	if index < 0 || index >= len(c.pages) {
		return fmt.Errorf("no tab at index %d", index)
	}
	c.active = index
	if err := c.pages[index].BringToFront(); err != nil {
		return fmt.Errorf("selecting tab %d failed: %w", index, err)
	}
	return nil
}

// CloseTab closes the tab at index. Closing the active tab activates the
// previous one, or the new first tab when the first was closed; closing
// any other tab leaves the active tab unchanged.
func (c *Context) CloseTab(index int) error {
	if err := c.ensureValid(); err != nil {
		return err
	}
	if index < 0 || index >= len(c.pages) {
		return fmt.Errorf("no tab at index %d", index)
	}
	if err := c.pages[index].Close(); err != nil {
		return fmt.Errorf("closing tab %d failed: %w", index, err)
	}
	c.pages = append(c.pages[:index], c.pages[index+1:]...)
	if index < c.active || (index == c.active && c.active > 0) {
		c.active--
	}
	if len(c.pages) == 0 {
		c.active = -1
	}
	return nil
}

// Snapshot captures the current page state: URL, title and an ARIA
// accessibility snapshot of the document. This is the finalize capture
// appended after successful tool calls.
func (c *Context) Snapshot() (string, error) {
	page, err := c.Page()
	if err != nil {
		return "", err
	}

	title, err := page.Title()
	if err != nil {
		title = ""
	}
	aria, err := page.Locator("body").AriaSnapshot()
	if err != nil {
		return "", fmt.Errorf("capturing page snapshot: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "- Page URL: %s\n", page.URL())
	fmt.Fprintf(&b, "- Page Title: %s\n", title)
	b.WriteString("- Page Snapshot:\n```yaml\n")
	b.WriteString(aria)
	b.WriteString("\n```\n")
	return b.String(), nil
}

// OutputDir is where capture tools write artifacts.
func (c *Context) OutputDir() string {
	return c.opts.OutputDir
}

// Close releases the pages and, when this Context created its own
// incognito browser context, that context too. The browser handle itself
// belongs to the Manager.
func (c *Context) Close() error {
	if c.bctx == nil {
		return nil
	}
	for _, p := range c.pages {
		_ = p.Close()
	}
	c.pages = nil
	c.active = -1
	if c.opts.Isolated {
		if err := c.bctx.Close(); err != nil {
			return fmt.Errorf("closing browser context: %w", err)
		}
	}
	c.bctx = nil
	return nil
}

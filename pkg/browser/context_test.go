package browser

import (
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPage satisfies playwright.Page through embedding; only Close is
// overridden, anything else panics.
type stubPage struct {
	playwright.Page
	closed bool
}

func (p *stubPage) Close(options ...playwright.PageCloseOptions) error {
	p.closed = true
	return nil
}

func newDetachedContext(t *testing.T) *Context {
	t.Helper()
	policy, err := newOriginPolicy(nil, nil)
	require.NoError(t, err)
	return newContext(nil, Options{}, policy)
}

func TestContext_StaleAfterInvalidate(t *testing.T) {
	c := newDetachedContext(t)

	_, err := c.ConsoleMessages()
	require.NoError(t, err)

	c.invalidate()

	_, err = c.ConsoleMessages()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stale browser context")

	_, err = c.NetworkRequests()
	assert.Error(t, err)
	assert.Error(t, c.SelectTab(0))
	assert.Error(t, c.CloseTab(0))
}

func TestContext_TabIndexBounds(t *testing.T) {
	c := newDetachedContext(t)

	err := c.SelectTab(3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tab at index 3")

	assert.Error(t, c.CloseTab(-1))
}

func TestContext_NavigateHonorsOriginPolicy(t *testing.T) {
	policy, err := newOriginPolicy(nil, []string{"blocked.test"})
	require.NoError(t, err)
	c := newContext(nil, Options{}, policy)

	// The policy is checked before the page is touched, so no driver is
	// needed to observe the denial.
	err = c.Navigate("https://blocked.test/login")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked by origin policy")
}

func TestContext_CloseTabKeepsActivePage(t *testing.T) {
	p0, p1, p2 := &stubPage{}, &stubPage{}, &stubPage{}
	c := newDetachedContext(t)
	c.pages = []playwright.Page{p0, p1, p2}
	c.active = 1

	// Closing a tab before the active one must not change which page is
	// active.
	require.NoError(t, c.CloseTab(0))
	assert.True(t, p0.closed)
	require.Len(t, c.pages, 2)
	assert.Same(t, playwright.Page(p1), c.pages[c.active])
}

func TestContext_CloseActiveTabActivatesPrevious(t *testing.T) {
	p0, p1, p2 := &stubPage{}, &stubPage{}, &stubPage{}
	c := newDetachedContext(t)
	c.pages = []playwright.Page{p0, p1, p2}
	c.active = 1

	require.NoError(t, c.CloseTab(1))
	assert.True(t, p1.closed)
	assert.Same(t, playwright.Page(p0), c.pages[c.active])

	// Closing the first tab while it is active activates the new first.
	c.active = 0
	require.NoError(t, c.CloseTab(0))
	assert.Same(t, playwright.Page(p2), c.pages[c.active])

	// Closing the last remaining tab leaves nothing active.
	require.NoError(t, c.CloseTab(0))
	assert.Equal(t, -1, c.active)
}

func TestContext_CloseWithoutSessionIsNoOp(t *testing.T) {
	c := newDetachedContext(t)
	assert.NoError(t, c.Close())
}

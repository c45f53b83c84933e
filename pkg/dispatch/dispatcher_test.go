package dispatch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pilot/pkg/browser"
	"github.com/entrhq/pilot/pkg/logging"
	"github.com/entrhq/pilot/pkg/tools"
)

type fakeResolver struct {
	ctx   *browser.Context
	err   error
	calls int32
}

func (f *fakeResolver) GetContext(ctx context.Context) (*browser.Context, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.ctx, f.err
}

func newTestDispatcher(t *testing.T, defs ...tools.Definition) (*Dispatcher, *fakeResolver) {
	t.Helper()
	registry, err := tools.NewRegistry(defs)
	require.NoError(t, err)
	resolver := &fakeResolver{ctx: &browser.Context{}}
	return New(resolver, registry, logging.NewLogger("test")), resolver
}

func textDef(name, text string) tools.Definition {
	return tools.Definition{
		Tool: mcp.NewTool(name),
		Handler: func(ctx context.Context, args map[string]any, resp *tools.Response, bctx *browser.Context) error {
			resp.AddText(text)
			return nil
		},
	}
}

func TestDispatch_SuccessReturnsHandlerContent(t *testing.T) {
	d, resolver := newTestDispatcher(t, textDef("browser_hello", "hello"))
	def, _ := d.registry.Lookup("browser_hello")

	result, err := d.dispatch(context.Background(), def, map[string]any{"x": 1.0})
	require.NoError(t, err)
	require.Len(t, result.Content, 1)
	assert.False(t, result.IsError)
	assert.Equal(t, int32(1), resolver.calls)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "hello", text.Text)
}

func TestDispatch_HandlerFaultPropagates(t *testing.T) {
	handlerErr := errors.New("element not found")
	def := tools.Definition{
		Tool: mcp.NewTool("browser_fail"),
		Handler: func(ctx context.Context, args map[string]any, resp *tools.Response, bctx *browser.Context) error {
			resp.AddText("partial output that must be dropped")
			return handlerErr
		},
	}
	d, _ := newTestDispatcher(t, def)
	looked, _ := d.registry.Lookup("browser_fail")

	result, err := d.dispatch(context.Background(), looked, nil)
	require.ErrorIs(t, err, handlerErr)
	assert.Nil(t, result, "a handler fault must not produce a result")
}

func TestDispatch_ResolutionErrorPropagates(t *testing.T) {
	d, resolver := newTestDispatcher(t, textDef("browser_hello", "hello"))
	resolver.err = errors.New("connection refused")
	resolver.ctx = nil
	def, _ := d.registry.Lookup("browser_hello")

	result, err := d.dispatch(context.Background(), def, nil)
	require.ErrorIs(t, err, resolver.err)
	assert.Nil(t, result)
}

func TestDispatch_FinalizeFailureIsContained(t *testing.T) {
	def := tools.Definition{
		Tool: mcp.NewTool("browser_click"),
		Handler: func(ctx context.Context, args map[string]any, resp *tools.Response, bctx *browser.Context) error {
			resp.AddText("clicked")
			// The zero Context handed out by the fake resolver is stale,
			// so the snapshot capture in finalize will fail.
			resp.SetIncludeSnapshot()
			return nil
		},
	}
	d, _ := newTestDispatcher(t, def)
	looked, _ := d.registry.Lookup("browser_click")

	result, err := d.dispatch(context.Background(), looked, nil)
	require.NoError(t, err, "finalize failures are returned as normal results")
	require.NotNil(t, result)
	assert.True(t, result.IsError)
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "finalizing browser_click")
	assert.Contains(t, text.Text, "stale browser context")
}

func TestDispatch_NoTwoHandlersOverlap(t *testing.T) {
	var running int32
	def := tools.Definition{
		Tool: mcp.NewTool("browser_slow"),
		Handler: func(ctx context.Context, args map[string]any, resp *tools.Response, bctx *browser.Context) error {
			require.Equal(t, int32(1), atomic.AddInt32(&running, 1), "handler bodies overlapped")
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			resp.AddText("done")
			return nil
		},
	}
	d, _ := newTestDispatcher(t, def)
	looked, _ := d.registry.Lookup("browser_slow")

	const calls = 16
	results := make(chan *mcp.CallToolResult, calls)
	var wg sync.WaitGroup
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := d.dispatch(context.Background(), looked, nil)
			require.NoError(t, err)
			results <- result
		}()
	}
	wg.Wait()
	close(results)

	count := 0
	for range results {
		count++
	}
	assert.Equal(t, calls, count, "exactly one result per call")
}

func TestDispatch_SequentialCallsServedInIssueOrder(t *testing.T) {
	var mu sync.Mutex
	var order []string

	record := func(name string, block chan struct{}) tools.Definition {
		return tools.Definition{
			Tool: mcp.NewTool(name),
			Handler: func(ctx context.Context, args map[string]any, resp *tools.Response, bctx *browser.Context) error {
				mu.Lock()
				order = append(order, name)
				mu.Unlock()
				if block != nil {
					<-block
				}
				resp.AddText(name)
				return nil
			},
		}
	}

	navigateRunning := make(chan struct{})
	d, _ := newTestDispatcher(t,
		record("browser_navigate", navigateRunning),
		record("browser_screenshot", nil),
		record("browser_console_messages", nil),
	)

	var wg sync.WaitGroup
	run := func(name string) {
		def, ok := d.registry.Lookup(name)
		require.True(t, ok)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := d.dispatch(context.Background(), def, nil)
			require.NoError(t, err)
		}()
	}

	// Issue "navigate" and wait until it is inside its handler, holding
	// the mutex. Then issue "screenshot" and "console_messages" in that
	// order, giving each time to join the FIFO queue.
	run("browser_navigate")
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(order) == 1
	}, time.Second, time.Millisecond)

	run("browser_screenshot")
	time.Sleep(20 * time.Millisecond)
	run("browser_console_messages")
	time.Sleep(20 * time.Millisecond)

	close(navigateRunning)
	wg.Wait()

	assert.Equal(t, []string{"browser_navigate", "browser_screenshot", "browser_console_messages"}, order)
}

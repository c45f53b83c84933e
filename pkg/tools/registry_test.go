package tools

import (
	"context"
	"sort"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pilot/pkg/browser"
)

func noopHandler(ctx context.Context, args map[string]any, resp *Response, bctx *browser.Context) error {
	return nil
}

func def(name string) Definition {
	return Definition{Tool: mcp.NewTool(name), Handler: noopHandler}
}

func TestNewRegistry_SortsLexicographically(t *testing.T) {
	// Registration order is deliberately scrambled.
	r, err := NewRegistry(
		[]Definition{def("browser_type"), def("browser_click")},
		[]Definition{def("browser_navigate")},
	)
	require.NoError(t, err)

	var names []string
	for _, d := range r.List() {
		names = append(names, d.Name())
	}
	assert.Equal(t, []string{"browser_click", "browser_navigate", "browser_type"}, names)
}

func TestNewRegistry_RejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(
		[]Definition{def("browser_click")},
		[]Definition{def("browser_click")},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate tool name "browser_click"`)
}

func TestNewRegistry_RejectsEmptyNameAndNilHandler(t *testing.T) {
	_, err := NewRegistry([]Definition{{Tool: mcp.NewTool("")}})
	assert.Error(t, err)

	_, err = NewRegistry([]Definition{{Tool: mcp.NewTool("browser_click")}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no handler")
}

func TestRegistry_Lookup(t *testing.T) {
	r, err := NewRegistry([]Definition{def("browser_click")})
	require.NoError(t, err)

	d, ok := r.Lookup("browser_click")
	assert.True(t, ok)
	assert.Equal(t, "browser_click", d.Name())

	_, ok = r.Lookup("browser_missing")
	assert.False(t, ok)
}

func TestAll_MergesIntoValidRegistry(t *testing.T) {
	r, err := NewRegistry(All()...)
	require.NoError(t, err)

	// Representative names from each capability group.
	for _, name := range []string{
		"browser_navigate",
		"browser_click",
		"browser_screenshot",
		"browser_console_messages",
		"browser_network_requests",
		"browser_evaluate",
		"browser_tab_list",
		"browser_close",
		"browser_extract_text",
	} {
		_, ok := r.Lookup(name)
		assert.True(t, ok, "missing tool %s", name)
	}

	names := make([]string, 0, r.Len())
	for _, d := range r.List() {
		names = append(names, d.Name())
	}
	assert.True(t, sort.StringsAreSorted(names), "listing must be name-sorted: %v", names)
}

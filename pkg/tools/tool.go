package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/entrhq/pilot/pkg/browser"
)

// HandlerFunc is the uniform tool handler signature. A handler signals
// its outcome only by returning nil (success) or an error (failure);
// all result data is communicated through mutations on the Response,
// never through a return value. The browser Context is borrowed for the
// duration of the call.
type HandlerFunc func(ctx context.Context, args map[string]any, resp *Response, bctx *browser.Context) error

// Definition pairs a protocol tool descriptor — name, description,
// parameter schema and annotations — with its handler. Definitions are
// contributed by capability groups, merged into a Registry once at
// startup, and immutable thereafter.
type Definition struct {
	Tool    mcp.Tool
	Handler HandlerFunc
}

// Name returns the tool's unique name.
func (d Definition) Name() string { return d.Tool.Name }

// All returns every capability group's definitions, ready for registry
// construction.
func All() [][]Definition {
	return [][]Definition{
		NavigationTools(),
		InteractionTools(),
		CaptureTools(),
		ConsoleTools(),
		NetworkTools(),
		ScriptTools(),
		TabTools(),
		SessionTools(),
		ExtractionTools(),
	}
}

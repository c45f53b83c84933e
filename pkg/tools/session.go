package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/entrhq/pilot/pkg/browser"
)

// SessionTools contributes session-level operations.
func SessionTools() []Definition {
	return []Definition{
		{
			Tool: mcp.NewTool("browser_close",
				mcp.WithDescription("Close the pages of the current browser session. The next tool call reopens them."),
				mcp.WithTitleAnnotation("Close the browser"),
				mcp.WithDestructiveHintAnnotation(true),
			),
			Handler: closeSession,
		},
		{
			Tool: mcp.NewTool("browser_resize",
				mcp.WithDescription("Resize the page viewport."),
				mcp.WithTitleAnnotation("Resize the viewport"),
				mcp.WithNumber("width",
					mcp.Required(),
					mcp.Description("Viewport width in pixels."),
				),
				mcp.WithNumber("height",
					mcp.Required(),
					mcp.Description("Viewport height in pixels."),
				),
			),
			Handler: resize,
		},
	}
}

func closeSession(ctx context.Context, args map[string]any, resp *Response, bctx *browser.Context) error {
	if err := bctx.Close(); err != nil {
		return err
	}
	resp.AddText("Closed the browser session")
	return nil
}

func resize(ctx context.Context, args map[string]any, resp *Response, bctx *browser.Context) error {
	width, err := requireInt(args, "width")
	if err != nil {
		return err
	}
	height, err := requireInt(args, "height")
	if err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("viewport dimensions must be positive, got %dx%d", width, height)
	}
	if err := bctx.Resize(width, height); err != nil {
		return err
	}
	resp.AddText(fmt.Sprintf("Resized viewport to %dx%d", width, height))
	resp.SetIncludeSnapshot()
	return nil
}

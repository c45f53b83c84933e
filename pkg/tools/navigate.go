package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/entrhq/pilot/pkg/browser"
)

// NavigationTools contributes the tools that move the page through URLs
// and history.
func NavigationTools() []Definition {
	return []Definition{
		{
			Tool: mcp.NewTool("browser_navigate",
				mcp.WithDescription("Navigate the browser to a URL."),
				mcp.WithTitleAnnotation("Navigate to a URL"),
				mcp.WithOpenWorldHintAnnotation(true),
				mcp.WithString("url",
					mcp.Required(),
					mcp.Description("The URL to navigate to, including the scheme."),
				),
			),
			Handler: navigate,
		},
		{
			Tool: mcp.NewTool("browser_navigate_back",
				mcp.WithDescription("Go back to the previous page in history."),
				mcp.WithTitleAnnotation("Go back"),
				mcp.WithOpenWorldHintAnnotation(true),
			),
			Handler: navigateBack,
		},
		{
			Tool: mcp.NewTool("browser_reload",
				mcp.WithDescription("Reload the current page."),
				mcp.WithTitleAnnotation("Reload the page"),
				mcp.WithOpenWorldHintAnnotation(true),
			),
			Handler: reload,
		},
	}
}

func navigate(ctx context.Context, args map[string]any, resp *Response, bctx *browser.Context) error {
	url, err := requireString(args, "url")
	if err != nil {
		return err
	}
	if err := bctx.Navigate(url); err != nil {
		return err
	}
	resp.AddText(fmt.Sprintf("Navigated to %s", url))
	resp.SetIncludeSnapshot()
	return nil
}

func navigateBack(ctx context.Context, args map[string]any, resp *Response, bctx *browser.Context) error {
	if err := bctx.GoBack(); err != nil {
		return err
	}
	resp.AddText("Navigated back")
	resp.SetIncludeSnapshot()
	return nil
}

func reload(ctx context.Context, args map[string]any, resp *Response, bctx *browser.Context) error {
	if err := bctx.Reload(); err != nil {
		return err
	}
	resp.AddText("Reloaded the page")
	resp.SetIncludeSnapshot()
	return nil
}

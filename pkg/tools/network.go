package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/entrhq/pilot/pkg/browser"
)

// NetworkTools contributes network inspection.
func NetworkTools() []Definition {
	return []Definition{
		{
			Tool: mcp.NewTool("browser_network_requests",
				mcp.WithDescription("Return the network requests recorded since the browser context was created."),
				mcp.WithTitleAnnotation("Network requests"),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: networkRequests,
		},
	}
}

func networkRequests(ctx context.Context, args map[string]any, resp *Response, bctx *browser.Context) error {
	entries, err := bctx.NetworkRequests()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		resp.AddText("No network requests")
		return nil
	}

	var b strings.Builder
	for _, entry := range entries {
		if entry.Status > 0 {
			fmt.Fprintf(&b, "[%s] %d %s (%s)\n", entry.Method, entry.Status, entry.URL, entry.ResourceType)
		} else {
			fmt.Fprintf(&b, "[%s] pending %s (%s)\n", entry.Method, entry.URL, entry.ResourceType)
		}
	}
	resp.AddText(strings.TrimRight(b.String(), "\n"))
	return nil
}

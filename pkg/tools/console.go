package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/entrhq/pilot/pkg/browser"
)

// ConsoleTools contributes console inspection.
func ConsoleTools() []Definition {
	return []Definition{
		{
			Tool: mcp.NewTool("browser_console_messages",
				mcp.WithDescription("Return the console messages recorded since the browser context was created."),
				mcp.WithTitleAnnotation("Console messages"),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: consoleMessages,
		},
	}
}

func consoleMessages(ctx context.Context, args map[string]any, resp *Response, bctx *browser.Context) error {
	entries, err := bctx.ConsoleMessages()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		resp.AddText("No console messages")
		return nil
	}

	var b strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&b, "[%s] %s", strings.ToUpper(entry.Type), entry.Text)
		if entry.Location != "" {
			fmt.Fprintf(&b, " (%s)", entry.Location)
		}
		b.WriteString("\n")
	}
	resp.AddText(strings.TrimRight(b.String(), "\n"))
	return nil
}

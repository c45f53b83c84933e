package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/entrhq/pilot/pkg/browser"
)

// TabTools contributes tab management.
func TabTools() []Definition {
	return []Definition{
		{
			Tool: mcp.NewTool("browser_tab_list",
				mcp.WithDescription("List the open browser tabs."),
				mcp.WithTitleAnnotation("List tabs"),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: tabList,
		},
		{
			Tool: mcp.NewTool("browser_tab_new",
				mcp.WithDescription("Open a new tab, optionally navigating it to a URL, and make it active."),
				mcp.WithTitleAnnotation("New tab"),
				mcp.WithString("url",
					mcp.Description("URL to open in the new tab. Blank opens an empty tab."),
				),
			),
			Handler: tabNew,
		},
		{
			Tool: mcp.NewTool("browser_tab_select",
				mcp.WithDescription("Make the tab at the given index active."),
				mcp.WithTitleAnnotation("Select a tab"),
				mcp.WithNumber("index",
					mcp.Required(),
					mcp.Description("Zero-based tab index from browser_tab_list."),
				),
			),
			Handler: tabSelect,
		},
		{
			Tool: mcp.NewTool("browser_tab_close",
				mcp.WithDescription("Close the tab at the given index."),
				mcp.WithTitleAnnotation("Close a tab"),
				mcp.WithDestructiveHintAnnotation(true),
				mcp.WithNumber("index",
					mcp.Required(),
					mcp.Description("Zero-based tab index from browser_tab_list."),
				),
			),
			Handler: tabClose,
		},
	}
}

func tabList(ctx context.Context, args map[string]any, resp *Response, bctx *browser.Context) error {
	tabs, err := bctx.Tabs()
	if err != nil {
		return err
	}
	if len(tabs) == 0 {
		resp.AddText("No open tabs")
		return nil
	}

	var b strings.Builder
	for _, tab := range tabs {
		marker := " "
		if tab.Active {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %d: %s (%s)\n", marker, tab.Index, tab.Title, tab.URL)
	}
	resp.AddText(strings.TrimRight(b.String(), "\n"))
	return nil
}

func tabNew(ctx context.Context, args map[string]any, resp *Response, bctx *browser.Context) error {
	url := optionalString(args, "url")
	if err := bctx.NewTab(url); err != nil {
		return err
	}
	if url != "" {
		resp.AddText(fmt.Sprintf("Opened new tab at %s", url))
	} else {
		resp.AddText("Opened new tab")
	}
	resp.SetIncludeSnapshot()
	return nil
}

func tabSelect(ctx context.Context, args map[string]any, resp *Response, bctx *browser.Context) error {
	index, err := requireInt(args, "index")
	if err != nil {
		return err
	}
	if err := bctx.SelectTab(index); err != nil {
		return err
	}
	resp.AddText(fmt.Sprintf("Selected tab %d", index))
	resp.SetIncludeSnapshot()
	return nil
}

func tabClose(ctx context.Context, args map[string]any, resp *Response, bctx *browser.Context) error {
	index, err := requireInt(args, "index")
	if err != nil {
		return err
	}
	if err := bctx.CloseTab(index); err != nil {
		return err
	}
	resp.AddText(fmt.Sprintf("Closed tab %d", index))
	return nil
}

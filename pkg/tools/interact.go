package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/entrhq/pilot/pkg/browser"
)

// InteractionTools contributes the input-simulation tools.
func InteractionTools() []Definition {
	return []Definition{
		{
			Tool: mcp.NewTool("browser_click",
				mcp.WithDescription("Click the element matching a CSS selector."),
				mcp.WithTitleAnnotation("Click an element"),
				mcp.WithString("selector",
					mcp.Required(),
					mcp.Description("CSS selector of the element to click."),
				),
			),
			Handler: click,
		},
		{
			Tool: mcp.NewTool("browser_type",
				mcp.WithDescription("Type text into the element matching a CSS selector, optionally submitting with Enter."),
				mcp.WithTitleAnnotation("Type text"),
				mcp.WithString("selector",
					mcp.Required(),
					mcp.Description("CSS selector of the input element."),
				),
				mcp.WithString("text",
					mcp.Required(),
					mcp.Description("Text to type into the element."),
				),
				mcp.WithBoolean("submit",
					mcp.Description("Press Enter after typing to submit."),
				),
			),
			Handler: typeText,
		},
		{
			Tool: mcp.NewTool("browser_hover",
				mcp.WithDescription("Hover over the element matching a CSS selector."),
				mcp.WithTitleAnnotation("Hover an element"),
				mcp.WithString("selector",
					mcp.Required(),
					mcp.Description("CSS selector of the element to hover."),
				),
			),
			Handler: hover,
		},
		{
			Tool: mcp.NewTool("browser_press_key",
				mcp.WithDescription("Press a keyboard key on the active page."),
				mcp.WithTitleAnnotation("Press a key"),
				mcp.WithString("key",
					mcp.Required(),
					mcp.Description("Key name, e.g. Enter, Escape, ArrowDown, a."),
				),
			),
			Handler: pressKey,
		},
		{
			Tool: mcp.NewTool("browser_select_option",
				mcp.WithDescription("Select one or more options in a dropdown element."),
				mcp.WithTitleAnnotation("Select an option"),
				mcp.WithString("selector",
					mcp.Required(),
					mcp.Description("CSS selector of the select element."),
				),
				mcp.WithArray("values",
					mcp.Required(),
					mcp.Description("Option values to select."),
					mcp.Items(map[string]any{"type": "string"}),
				),
			),
			Handler: selectOption,
		},
	}
}

func click(ctx context.Context, args map[string]any, resp *Response, bctx *browser.Context) error {
	selector, err := requireString(args, "selector")
	if err != nil {
		return err
	}
	if err := bctx.Click(selector); err != nil {
		return err
	}
	resp.AddText(fmt.Sprintf("Clicked %s", selector))
	resp.SetIncludeSnapshot()
	return nil
}

func typeText(ctx context.Context, args map[string]any, resp *Response, bctx *browser.Context) error {
	selector, err := requireString(args, "selector")
	if err != nil {
		return err
	}
	text, err := requireString(args, "text")
	if err != nil {
		return err
	}
	submit := optionalBool(args, "submit", false)

	if err := bctx.Type(selector, text, submit); err != nil {
		return err
	}
	if submit {
		resp.AddText(fmt.Sprintf("Typed into %s and submitted", selector))
	} else {
		resp.AddText(fmt.Sprintf("Typed into %s", selector))
	}
	resp.SetIncludeSnapshot()
	return nil
}

func hover(ctx context.Context, args map[string]any, resp *Response, bctx *browser.Context) error {
	selector, err := requireString(args, "selector")
	if err != nil {
		return err
	}
	if err := bctx.Hover(selector); err != nil {
		return err
	}
	resp.AddText(fmt.Sprintf("Hovered over %s", selector))
	resp.SetIncludeSnapshot()
	return nil
}

func pressKey(ctx context.Context, args map[string]any, resp *Response, bctx *browser.Context) error {
	key, err := requireString(args, "key")
	if err != nil {
		return err
	}
	if err := bctx.PressKey(key); err != nil {
		return err
	}
	resp.AddText(fmt.Sprintf("Pressed %s", key))
	resp.SetIncludeSnapshot()
	return nil
}

func selectOption(ctx context.Context, args map[string]any, resp *Response, bctx *browser.Context) error {
	selector, err := requireString(args, "selector")
	if err != nil {
		return err
	}
	values, err := requireStringSlice(args, "values")
	if err != nil {
		return err
	}
	selected, err := bctx.SelectOption(selector, values)
	if err != nil {
		return err
	}
	resp.AddText(fmt.Sprintf("Selected %s in %s", strings.Join(selected, ", "), selector))
	resp.SetIncludeSnapshot()
	return nil
}

package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/entrhq/pilot/pkg/browser"
)

// ScriptTools contributes JavaScript evaluation.
func ScriptTools() []Definition {
	return []Definition{
		{
			Tool: mcp.NewTool("browser_evaluate",
				mcp.WithDescription("Evaluate a JavaScript expression in the page and return its result. Wrap multi-statement code in an IIFE."),
				mcp.WithTitleAnnotation("Evaluate JavaScript"),
				mcp.WithString("expression",
					mcp.Required(),
					mcp.Description("JavaScript expression to evaluate in the page context."),
				),
			),
			Handler: evaluate,
		},
	}
}

func evaluate(ctx context.Context, args map[string]any, resp *Response, bctx *browser.Context) error {
	expression, err := requireString(args, "expression")
	if err != nil {
		return err
	}
	result, err := bctx.Evaluate(expression)
	if err != nil {
		return err
	}
	if result == nil {
		resp.AddText("undefined")
		return nil
	}
	return resp.AddStructured(result)
}

package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/entrhq/pilot/pkg/browser"
)

const defaultExtractLength = 10000

// ExtractionTools contributes readable-text extraction.
func ExtractionTools() []Definition {
	return []Definition{
		{
			Tool: mcp.NewTool("browser_extract_text",
				mcp.WithDescription("Extract the readable text of the current page, cleaned of scripts and markup."),
				mcp.WithTitleAnnotation("Extract page text"),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithString("selector",
					mcp.Description("CSS selector limiting extraction to a subtree. Blank extracts the whole page."),
				),
				mcp.WithNumber("max_length",
					mcp.Description("Maximum number of characters to return. Defaults to 10000."),
				),
			),
			Handler: extractText,
		},
	}
}

func extractText(ctx context.Context, args map[string]any, resp *Response, bctx *browser.Context) error {
	selector := optionalString(args, "selector")
	maxLength := optionalInt(args, "max_length", defaultExtractLength)

	text, err := bctx.ExtractText(selector, maxLength)
	if err != nil {
		return err
	}
	if text == "" {
		resp.AddText("The page has no readable text")
		return nil
	}
	resp.AddText(text)
	return nil
}

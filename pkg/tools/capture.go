package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/entrhq/pilot/pkg/browser"
)

// CaptureTools contributes the tools that record the page: screenshots,
// accessibility snapshots and PDF export.
func CaptureTools() []Definition {
	return []Definition{
		{
			Tool: mcp.NewTool("browser_screenshot",
				mcp.WithDescription("Capture a screenshot of the current page as a PNG image."),
				mcp.WithTitleAnnotation("Take a screenshot"),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithBoolean("full_page",
					mcp.Description("Capture the full scrollable page instead of the viewport."),
				),
			),
			Handler: screenshot,
		},
		{
			Tool: mcp.NewTool("browser_snapshot",
				mcp.WithDescription("Capture an accessibility snapshot of the current page. Better than a screenshot for reading page structure."),
				mcp.WithTitleAnnotation("Page snapshot"),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: snapshot,
		},
		{
			Tool: mcp.NewTool("browser_pdf_save",
				mcp.WithDescription("Render the current page to a PDF file on disk."),
				mcp.WithTitleAnnotation("Save as PDF"),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithString("filename",
					mcp.Description("Output file name. Defaults to a timestamped name in the output directory."),
				),
			),
			Handler: pdfSave,
		},
	}
}

func screenshot(ctx context.Context, args map[string]any, resp *Response, bctx *browser.Context) error {
	fullPage := optionalBool(args, "full_page", false)

	data, err := bctx.Screenshot(fullPage)
	if err != nil {
		return err
	}
	resp.AddText(fmt.Sprintf("Captured screenshot (%d bytes)", len(data)))
	resp.AddImage(data, "image/png")
	return nil
}

func snapshot(ctx context.Context, args map[string]any, resp *Response, bctx *browser.Context) error {
	// The capture itself happens in the finalize step, shared with every
	// state-changing tool.
	resp.SetIncludeSnapshot()
	return nil
}

func pdfSave(ctx context.Context, args map[string]any, resp *Response, bctx *browser.Context) error {
	data, err := bctx.PDF()
	if err != nil {
		return err
	}

	filename := optionalString(args, "filename")
	if filename == "" {
		filename = fmt.Sprintf("page-%s.pdf", time.Now().Format("20060102-150405"))
	}
	dir := bctx.OutputDir()
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}

	pages, err := api.PageCountFile(path)
	if err != nil {
		return fmt.Errorf("validating pdf output: %w", err)
	}

	resp.AddText(fmt.Sprintf("Saved PDF to %s (%d pages)", path, pages))
	return nil
}

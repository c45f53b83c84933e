package tools

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/entrhq/pilot/pkg/browser"
)

// Response accumulates a tool call's output as an ordered sequence of
// content segments. One Response is created per call and discarded after
// Finalize; handlers never return result data directly.
type Response struct {
	segments        []mcp.Content
	includeSnapshot bool
}

// NewResponse returns an empty Response.
func NewResponse() *Response {
	return &Response{}
}

// AddText appends a text segment.
func (r *Response) AddText(text string) {
	r.segments = append(r.segments, mcp.NewTextContent(text))
}

// AddStructured marshals v to indented JSON and appends it as a text
// segment.
func (r *Response) AddStructured(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding structured content: %w", err)
	}
	r.segments = append(r.segments, mcp.NewTextContent(string(data)))
	return nil
}

// AddImage appends a binary image segment, base64-encoded for the wire.
func (r *Response) AddImage(data []byte, mimeType string) {
	encoded := base64.StdEncoding.EncodeToString(data)
	r.segments = append(r.segments, mcp.NewImageContent(encoded, mimeType))
}

// SetIncludeSnapshot arranges for Finalize to append a capture of the
// page state after the handler's work. Tools that change what the page
// shows opt in; pure readers do not.
func (r *Response) SetIncludeSnapshot() {
	r.includeSnapshot = true
}

// Len returns the number of accumulated segments.
func (r *Response) Len() int { return len(r.segments) }

// Finalize completes the response and returns the protocol result. When
// a snapshot was requested, the capture runs here — after the handler
// has already succeeded — and its failure is returned to the dispatcher
// rather than folded into the handler outcome.
func (r *Response) Finalize(toolName string, bctx *browser.Context) (*mcp.CallToolResult, error) {
	if r.includeSnapshot && bctx != nil {
		snapshot, err := bctx.Snapshot()
		if err != nil {
			return nil, fmt.Errorf("finalizing %s: %w", toolName, err)
		}
		r.segments = append(r.segments, mcp.NewTextContent(snapshot))
	}

	return &mcp.CallToolResult{Content: r.segments}, nil
}

// Package dispatch wires the tool registry to the protocol server and
// enforces the one-call-one-result contract.
//
// Every registered tool is wrapped with the same pipeline: acquire the
// call mutex, log the inbound call, resolve the shared browser context
// (still inside the critical section, so reconciliation is serialized
// too), run the handler against a fresh Response, then finalize.
//
// Failures follow a two-tier policy, visible in the handler signature
// (*mcp.CallToolResult, error):
//
//   - a handler or resolution error is logged and returned as the error
//     value — a call fault propagated to the transport;
//   - a finalize error, which can only happen after the handler
//     succeeded, is contained: it becomes a single error-flagged text
//     segment in an otherwise normal result.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/entrhq/pilot/pkg/browser"
	"github.com/entrhq/pilot/pkg/locking"
	"github.com/entrhq/pilot/pkg/logging"
	"github.com/entrhq/pilot/pkg/tools"
)

// ContextResolver resolves the shared browser context for a call. It is
// satisfied by *browser.Manager.
type ContextResolver interface {
	GetContext(ctx context.Context) (*browser.Context, error)
}

// Dispatcher serializes tool calls against the shared browser context
// and converts handler outcomes into protocol results.
type Dispatcher struct {
	mu       locking.Mutex
	resolver ContextResolver
	registry *tools.Registry
	log      *logging.Logger
}

// New creates a Dispatcher over the given resolver and registry.
func New(resolver ContextResolver, registry *tools.Registry, log *logging.Logger) *Dispatcher {
	return &Dispatcher{
		resolver: resolver,
		registry: registry,
		log:      log,
	}
}

// Register installs a wrapped handler for every registered tool on srv.
func (d *Dispatcher) Register(srv *server.MCPServer) {
	for _, def := range d.registry.List() {
		srv.AddTool(def.Tool, d.wrap(def))
	}
}

// NewServer builds the protocol server with every tool installed.
func (d *Dispatcher) NewServer(name, version string) *server.MCPServer {
	srv := server.NewMCPServer(name, version,
		server.WithToolCapabilities(false),
	)
	d.Register(srv)
	return srv
}

func (d *Dispatcher) wrap(def tools.Definition) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return d.dispatch(ctx, def, req.GetArguments())
	}
}

// dispatch runs one call under the mutex. The deferred release covers
// every exit path, including handler panics unwinding through here, so
// a stuck queue cannot outlive a failed call.
func (d *Dispatcher) dispatch(ctx context.Context, def tools.Definition, args map[string]any) (*mcp.CallToolResult, error) {
	guard := d.mu.Acquire()
	defer guard.Release()

	d.log.Infof("call %s %s", def.Name(), formatArgs(args))

	bctx, err := d.resolver.GetContext(ctx)
	if err != nil {
		d.log.Errorf("call %s: context resolution failed: %v", def.Name(), err)
		return nil, err
	}

	resp := tools.NewResponse()
	if err := def.Handler(ctx, args, resp, bctx); err != nil {
		d.log.Errorf("call %s failed: %v", def.Name(), err)
		return nil, err
	}

	result, err := resp.Finalize(def.Name(), bctx)
	if err != nil {
		// The handler already succeeded, so the failure is contained in
		// an error-flagged result instead of a call fault.
		d.log.Errorf("call %s: finalize failed: %v", def.Name(), err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return result, nil
}

func formatArgs(args map[string]any) string {
	if len(args) == 0 {
		return "{}"
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Sprintf("%v", args)
	}
	return string(data)
}

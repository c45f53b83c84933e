// Package tools defines the browser tools pilot exposes over the
// protocol and the building blocks every tool call shares.
//
// A tool is a Definition: a protocol descriptor (name, description,
// parameter schema, annotations) paired with a HandlerFunc. Handlers
// follow one contract: they receive decoded arguments, a Response to
// accumulate output in, and a borrowed browser Context; they return nil
// on success or an error on failure, and never return result data.
//
// Definitions are contributed by capability groups — navigation,
// interaction, capture, console, network, script, tabs, session,
// extraction — and merged by NewRegistry into an immutable, name-sorted
// Registry at startup.
//
// The Response finalize step can append a page-state capture after the
// handler succeeds; tools that change what the page shows opt in with
// SetIncludeSnapshot.
package tools

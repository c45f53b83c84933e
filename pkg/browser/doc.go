// Package browser resolves and owns the shared browser automation
// session that every tool call operates on.
//
// The package is built around two types:
//
//  1. Manager: resolves the browser handle — connecting to an already
//     running instance over CDP or websocket, or launching a local one —
//     and reconciles the Context across calls. Reconciliation is by
//     handle identity: the same handle yields the same Context, a new
//     handle replaces it wholesale and invalidates all prior per-page
//     state.
//  2. Context: wraps one live session. It lazily opens a browser
//     context and page, tracks tabs, records console and network
//     traffic through driver events, and exposes the navigation,
//     input, capture and evaluation operations tool handlers use.
//
// Contexts are borrowed, never owned: a handler must not keep one
// across calls. After a reconnect every method of the old Context
// fails with a stale-context error.
//
// Navigation is filtered by an origin policy built from allow/block
// glob patterns, matched against the target URL's origin.
package browser

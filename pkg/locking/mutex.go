// Package locking provides the FIFO mutual-exclusion primitive that
// serializes tool calls against the shared browser context.
//
// Unlike sync.Mutex, ownership is handed to waiters in strict arrival
// order, so sequentially issued calls are always served in submission
// order. There is no timeout or cancellation: callers must release the
// Guard on every exit path, typically with defer, or every later caller
// blocks forever.
package locking

import "sync"

// Mutex is an asynchronous mutual-exclusion lock with FIFO waiters.
// The zero value is an unlocked Mutex ready for use.
type Mutex struct {
	mu      sync.Mutex
	held    bool
	waiters []chan struct{}
}

// Acquire blocks until the caller owns the mutex and returns the Guard
// representing that ownership. Waiters are granted ownership in the
// order their Acquire calls arrived.
func (m *Mutex) Acquire() *Guard {
	m.mu.Lock()
	if !m.held {
		m.held = true
		m.mu.Unlock()
		return &Guard{m: m}
	}

	ready := make(chan struct{})
	m.waiters = append(m.waiters, ready)
	m.mu.Unlock()

	<-ready
	return &Guard{m: m}
}

// Guard is a disposable token representing exclusive ownership of a
// Mutex. Exactly one Guard is live at any instant; a new Guard becomes
// live only after the previous one is released.
type Guard struct {
	m    *Mutex
	once sync.Once
}

// Release gives up ownership. If waiters are queued, ownership transfers
// directly to the earliest one, unblocking its Acquire. Releasing the
// same Guard more than once is a no-op.
func (g *Guard) Release() {
	g.once.Do(func() {
		m := g.m
		m.mu.Lock()
		if len(m.waiters) > 0 {
			// Ownership transfers without ever becoming free, so no
			// late-arriving Acquire can jump the queue.
			ready := m.waiters[0]
			m.waiters = m.waiters[1:]
			m.mu.Unlock()
			close(ready)
			return
		}
		m.held = false
		m.mu.Unlock()
	})
}

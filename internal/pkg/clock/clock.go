// Package clock implements the Lamport logical clock carried in every
// protocol message. One instance co-evolves per endpoint per session.
package clock

import "sync"

// Clock is a monotonically increasing logical counter. Safe for
// concurrent use within a session.
type Clock struct {
	mu  sync.Mutex
	val uint64
}

// New creates a Clock starting at zero.
func New() *Clock {
	return &Clock{}
}

// Tick advances the clock for a local event and returns the new value.
// Called once per outbound message construction.
func (c *Clock) Tick() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.val++
	return c.val
}

// Witness merges a clock value received from the peer and advances,
// so that max(current, remote) < new value. Called once per inbound
// message processed.
func (c *Clock) Witness(remote uint64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if remote > c.val {
		c.val = remote
	}
	c.val++
	return c.val
}

// Now returns the current clock value without advancing it.
func (c *Clock) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.val
}

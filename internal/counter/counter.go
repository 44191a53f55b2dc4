// Package counter provides the process-wide sequence used for hymn ids and request numbers.
package counter

import "sync"

// Counter hands out strictly increasing values starting at 1.
// A single Counter is shared by every worker in a run.
type Counter struct {
	mu   sync.Mutex
	last int64
}

// New returns a counter whose first Next call yields 1.
func New() *Counter {
	return &Counter{}
}

// Next increments the counter and returns the new value.
func (c *Counter) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last++
	return c.last
}

// Current returns the most recently issued value, or 0 if none.
func (c *Counter) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

package formcache

import (
	"context"
	"time"
)

// SaveDebounced batches rapid edits to the same form into a single
// storage write, performed one debounce window after the last call.
// The delay is a throttle, not a correctness guarantee: callers must
// not assume the draft has landed until the window elapses or Flush is
// called.
func (c *Cache) SaveDebounced(formID string, data map[string]interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending[formID] = data
	if timer, ok := c.timers[formID]; ok {
		timer.Reset(c.window)
		return
	}
	c.timers[formID] = time.AfterFunc(c.window, func() {
		c.flush(formID)
	})
}

// Flush persists any pending debounced draft for formID immediately.
// Call it when the owning form unmounts.
func (c *Cache) Flush(formID string) {
	c.mu.Lock()
	if timer, ok := c.timers[formID]; ok {
		timer.Stop()
	}
	c.mu.Unlock()
	c.flush(formID)
}

// FlushAll persists every pending debounced draft. Call it on
// shutdown.
func (c *Cache) FlushAll() {
	c.mu.Lock()
	formIDs := make([]string, 0, len(c.pending))
	for _, timer := range c.timers {
		timer.Stop()
	}
	for formID := range c.pending {
		formIDs = append(formIDs, formID)
	}
	c.mu.Unlock()

	for _, formID := range formIDs {
		c.flush(formID)
	}
}

func (c *Cache) flush(formID string) {
	c.mu.Lock()
	data, ok := c.pending[formID]
	delete(c.pending, formID)
	delete(c.timers, formID)
	c.mu.Unlock()

	if !ok {
		return
	}
	c.Save(context.Background(), formID, data)
}

func (c *Cache) cancelPending(formID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if timer, ok := c.timers[formID]; ok {
		timer.Stop()
		delete(c.timers, formID)
	}
	delete(c.pending, formID)
}

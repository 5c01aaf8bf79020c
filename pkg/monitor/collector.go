package monitor

import "sync"

// Collector receives verification events and fans them out to
// registered handlers, keeping a bounded history for late
// observers. Safe for concurrent use.
type Collector struct {
	mu       sync.RWMutex
	handlers []func(Event)
	history  []Event
	limit    int
}

// NewCollector creates a Collector keeping up to limit historic
// events; zero or negative means the default of 256.
func NewCollector(limit int) *Collector {
	if limit <= 0 {
		limit = 256
	}
	return &Collector{limit: limit}
}

// OnEvent registers a handler invoked synchronously for every
// emitted event.
func (c *Collector) OnEvent(handler func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
}

// Emit records an event and notifies all handlers.
func (c *Collector) Emit(event Event) {
	c.mu.Lock()
	c.history = append(c.history, event)
	if len(c.history) > c.limit {
		c.history = c.history[len(c.history)-c.limit:]
	}
	handlers := make([]func(Event), len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	for _, handler := range handlers {
		handler(event)
	}
}

// Events returns a copy of the retained history.
func (c *Collector) Events() []Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Event, len(c.history))
	copy(out, c.history)
	return out
}

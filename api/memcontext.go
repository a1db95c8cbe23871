package api

import (
	"sync"
	"time"
)

// contextEntry holds one key's value, its propagation flag, and the timer
// backing an optional TTL.
type contextEntry struct {
	value      any
	propagated bool
	timer      *time.Timer
}

// MemContext is the in-memory Context implementation attached to sessions
// and message-passing endpoints. Expiry runs on a per-key time.Timer that
// removes the entry in place; SetExpireNotifier registers a callback fired
// with the expiring key, letting an owner log or react without polling.
type MemContext struct {
	mu       sync.RWMutex
	entries  map[string]*contextEntry
	onExpire func(key string)
}

// NewMemContext constructs an empty MemContext.
func NewMemContext() *MemContext {
	return &MemContext{entries: make(map[string]*contextEntry)}
}

// SetExpireNotifier registers fn to be called (off the timer goroutine,
// after the entry has already been removed) whenever a TTL set via
// WithExpiration fires. A nil fn disables notification.
func (c *MemContext) SetExpireNotifier(fn func(key string)) {
	c.mu.Lock()
	c.onExpire = fn
	c.mu.Unlock()
}

// Set assigns a value for a key, optionally marking it as propagated.
// Replacing a key cancels any TTL the previous value had armed.
func (c *MemContext) Set(key string, value any, propagated bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.entries[key]; ok && old.timer != nil {
		old.timer.Stop()
	}
	c.entries[key] = &contextEntry{value: value, propagated: propagated}
}

// Get fetches a value, returning (value, exists).
func (c *MemContext) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Delete removes a value/key, cancelling its TTL if one was set.
func (c *MemContext) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		if e.timer != nil {
			e.timer.Stop()
		}
		delete(c.entries, key)
	}
}

// Clone returns a new MemContext carrying only the keys marked propagated,
// matching the "explicit propagation control" this type exists for — a
// child operation inherits what its parent chose to propagate, nothing
// more. The clone starts with no expiry notifier; callers that need one
// call SetExpireNotifier again on the clone.
func (c *MemContext) Clone() Context {
	c.mu.RLock()
	defer c.mu.RUnlock()
	clone := NewMemContext()
	for k, e := range c.entries {
		if e.propagated {
			clone.entries[k] = &contextEntry{value: e.value, propagated: e.propagated}
		}
	}
	return clone
}

// WithExpiration arms a TTL on an already-Set key; it is a no-op if the key
// does not exist. A second call on the same key replaces the prior timer.
func (c *MemContext) WithExpiration(key string, ttlNanos int64) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		return
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(time.Duration(ttlNanos), func() {
		c.Delete(key)
		c.mu.RLock()
		notify := c.onExpire
		c.mu.RUnlock()
		if notify != nil {
			notify(key)
		}
	})
	c.mu.Unlock()
}

// IsPropagated checks if a key is marked for propagation.
func (c *MemContext) IsPropagated(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return ok && e.propagated
}

// Keys returns all present keys, in no particular order.
func (c *MemContext) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return keys
}

var _ Context = (*MemContext)(nil)

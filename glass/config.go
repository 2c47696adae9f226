package glass

import "sync/atomic"

// Config is the process-wide effect configuration context
// Thread-Safety:
//   - Update: single writer (directive executor)
//   - Load/Generation: any goroutine, lock-free
type Config struct {
	current    atomic.Pointer[Params]
	generation atomic.Uint64
}

// NewConfig creates a Config publishing initial as generation 0
func NewConfig(initial Params) *Config {
	c := &Config{}
	c.current.Store(&initial)
	return c
}

// Load returns the last fully committed parameter set
func (c *Config) Load() Params {
	return *c.current.Load()
}

// Generation increments once per commit
// Readers compare generations to detect a stale cached snapshot
func (c *Config) Generation() uint64 {
	return c.generation.Load()
}

// Update applies fn to a private copy and publishes it
// fn must not fail; validation happens before Update is called
func (c *Config) Update(fn func(p *Params)) Params {
	next := *c.current.Load()
	fn(&next)
	c.current.Store(&next)
	c.generation.Add(1)
	return next
}

package diag

import "sync"

// Collector accumulates Diagnostics over the lifetime of one compilation
// run. Append-only: nothing is ever removed or reordered (spec.md §6,
// "The diagnostics collector is append-only during a run"). Safe for
// concurrent use from several goroutines.
type Collector struct {
	mu   sync.Mutex
	diag []Diagnostic
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Append records d.
func (c *Collector) Append(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diag = append(c.diag, d)
}

// Diagnostics returns every diagnostic recorded so far, in append order.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.diag))
	copy(out, c.diag)
	return out
}

// HasErrors reports whether any recorded diagnostic has Error severity.
func (c *Collector) HasErrors() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range c.diag {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// ExitCode returns the process exit code implied by the diagnostics
// recorded so far: 0 unless at least one is an Error (spec.md §6).
func (c *Collector) ExitCode() int {
	if c.HasErrors() {
		return 1
	}
	return 0
}

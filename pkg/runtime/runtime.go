// Package runtime defines the boundary to whatever actually
// executes learner code. The engine never runs submissions; a
// Runtime does, and hands back an execution context the verifier
// can look names up in.
package runtime

import (
	"context"
	"fmt"
	"sync"

	"digital.vasic.tutor/pkg/step"
)

// Execution is what a Runtime produced for one submission: the
// script's result value and the names bound after it ran.
type Execution struct {
	Result  any
	Context step.ExecutionContext
}

// Runtime executes learner source and exposes the outcome.
// Implementations own sandboxing, resource limits, and timeouts;
// none of that is the engine's concern.
type Runtime interface {
	// Name returns the runtime's unique name.
	Name() string

	// Run executes the source and returns the execution.
	Run(ctx context.Context, source string) (*Execution, error)
}

// Registry manages named runtimes. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	runtimes map[string]Runtime
}

// NewRegistry creates an empty runtime registry.
func NewRegistry() *Registry {
	return &Registry{runtimes: make(map[string]Runtime)}
}

// Register adds a runtime. Returns an error on a nil runtime,
// an empty name, or a duplicate.
func (r *Registry) Register(rt Runtime) error {
	if rt == nil {
		return fmt.Errorf("runtime cannot be nil")
	}
	name := rt.Name()
	if name == "" {
		return fmt.Errorf("runtime name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.runtimes[name]; exists {
		return fmt.Errorf("runtime %q already registered", name)
	}
	r.runtimes[name] = rt
	return nil
}

// Get retrieves a registered runtime by name.
func (r *Registry) Get(name string) (Runtime, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.runtimes[name]
	return rt, ok
}

// Names returns the registered runtime names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.runtimes))
	for name := range r.runtimes {
		out = append(out, name)
	}
	return out
}

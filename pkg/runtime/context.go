package runtime

import (
	"fmt"

	"digital.vasic.tutor/pkg/step"
)

// ScriptFunc turns a whole submitted script into a callable over
// named inputs, for exercises with no learner-defined function.
type ScriptFunc func(args map[string]any) (any, error)

// MapContext is an in-memory ExecutionContext over bound names.
// Runtime implementations and tests populate it after running a
// submission.
type MapContext struct {
	values map[string]any
	script ScriptFunc
}

// MapContextOption configures a MapContext.
type MapContextOption func(*MapContext)

// WithScript provides the script-as-function derivation used by
// AsFunction.
func WithScript(fn ScriptFunc) MapContextOption {
	return func(c *MapContext) { c.script = fn }
}

// NewMapContext creates a context over the given bindings. The
// map is not copied; callers hand over ownership.
func NewMapContext(values map[string]any, opts ...MapContextOption) *MapContext {
	if values == nil {
		values = make(map[string]any)
	}
	c := &MapContext{values: values}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup returns the value bound to name.
func (c *MapContext) Lookup(name string) (any, bool) {
	v, ok := c.values[name]
	return v, ok
}

// AsFunction derives a callable from the submitted script.
func (c *MapContext) AsFunction(params []string) (*step.Callable, error) {
	if c.script == nil {
		return nil, fmt.Errorf("runtime cannot functionise this submission")
	}
	return &step.Callable{
		Name:   "solution",
		Params: params,
		Call:   c.script,
	}, nil
}

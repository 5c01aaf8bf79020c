package step

import (
	"fmt"
	"strings"
)

// Callable is a function the engine can invoke with named
// arguments: either an authored reference solution or a learner
// function handed over by the execution runtime.
type Callable struct {
	// Name is the function name. The reserved name "solution"
	// marks a whole-program exercise with no learner-defined
	// function.
	Name string

	// Params holds the parameter names in declaration order,
	// excluding any internal leading context parameter.
	Params []string

	// Types optionally maps parameter names to Python type
	// hints ("int", "str", "list[int]", ...) used to synthesize
	// inputs when a step declares no tests.
	Types map[string]string

	// Call invokes the function with arguments keyed by
	// parameter name.
	Call func(args map[string]any) (any, error)
}

// Signature renders the parameter list as it appears in a def
// header, e.g. "(word, count)".
func (c *Callable) Signature() string {
	return "(" + strings.Join(c.Params, ", ") + ")"
}

// Invoke calls the function, converting a panic in the
// implementation into an error so a broken learner function is a
// failing test case rather than a crash.
func (c *Callable) Invoke(args map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("call %s: %v", c.Name, r)
		}
	}()
	return c.Call(args)
}

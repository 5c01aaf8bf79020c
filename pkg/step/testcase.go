package step

import "fmt"

// TestCase pairs named inputs with the output the reference
// solution produces for them.
type TestCase struct {
	Inputs   map[string]any `json:"inputs"`
	Expected any            `json:"expected"`
}

// CopyInputs returns a deep copy of the case's inputs so one
// invocation cannot mutate values seen by the next.
func (t TestCase) CopyInputs() map[string]any {
	out := make(map[string]any, len(t.Inputs))
	for k, v := range t.Inputs {
		out[k] = CopyValue(v)
	}
	return out
}

// CopyValue deep-copies a value from the engine's vocabulary:
// scalars, []any, and map[string]any. Scalars are returned as-is.
func CopyValue(v any) any {
	switch val := v.(type) {
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = CopyValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = CopyValue(item)
		}
		return out
	default:
		return v
	}
}

// TestDecl is the authoring form of a test case. Inputs may be
// given by name, or positionally via Args and resolved against
// the solution's parameter names at build time.
type TestDecl struct {
	Inputs   map[string]any `json:"inputs" yaml:"inputs"`
	Args     []any          `json:"args" yaml:"args"`
	Expected any            `json:"expected" yaml:"expected"`
}

// Resolve converts the declaration into a TestCase, mapping
// positional arguments onto the given parameter names.
func (d TestDecl) Resolve(params []string) (TestCase, error) {
	if d.Inputs != nil {
		if len(d.Args) != 0 {
			return TestCase{}, fmt.Errorf("test declares both inputs and args")
		}
		return TestCase{Inputs: d.Inputs, Expected: d.Expected}, nil
	}
	if len(d.Args) != len(params) {
		return TestCase{}, fmt.Errorf(
			"test has %d positional args for %d parameters",
			len(d.Args), len(params),
		)
	}
	inputs := make(map[string]any, len(d.Args))
	for i, arg := range d.Args {
		inputs[params[i]] = arg
	}
	return TestCase{Inputs: inputs, Expected: d.Expected}, nil
}

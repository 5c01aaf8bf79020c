// Package generate synthesizes representative test inputs from
// declared Python parameter types. Values are random per process
// run but stable within it, so a synthesized case replayed against
// the reference solution is idempotent.
package generate

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"digital.vasic.tutor/pkg/step"
)

// TypeNotSupportedError reports a parameter whose type hint (or
// lack of one) cannot be used to synthesize a value. It is
// distinguishable from an ordinary wrong-answer failure.
type TypeNotSupportedError struct {
	Param string
	Hint  string
}

func (e *TypeNotSupportedError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf(
			"parameter %s has no type annotation to generate from", e.Param,
		)
	}
	return fmt.Sprintf(
		"cannot generate a value of type %s for parameter %s",
		e.Hint, e.Param,
	)
}

// Generator produces synthetic input values. Safe for concurrent
// use; values are memoized per type hint for in-run determinism.
type Generator struct {
	mu    sync.Mutex
	rng   *rand.Rand
	cache map[string]any
}

// New creates a Generator seeded from the clock. Tests that need
// fixed values can use NewSeeded.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded creates a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{
		rng:   rand.New(rand.NewSource(seed)),
		cache: make(map[string]any),
	}
}

// Inputs synthesizes one value per parameter of the callable,
// keyed by parameter name.
func (g *Generator) Inputs(c *step.Callable) (map[string]any, error) {
	out := make(map[string]any, len(c.Params))
	for _, name := range c.Params {
		hint, ok := c.Types[name]
		if !ok || hint == "" {
			return nil, &TypeNotSupportedError{Param: name}
		}
		value, err := g.ForType(hint)
		if err != nil {
			return nil, &TypeNotSupportedError{Param: name, Hint: hint}
		}
		out[name] = value
	}
	return out, nil
}

// ForType synthesizes a value for one Python type hint. Repeated
// calls with the same hint return the same value within a run.
func (g *Generator) ForType(hint string) (any, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	hint = strings.TrimSpace(hint)
	if cached, ok := g.cache[hint]; ok {
		return step.CopyValue(cached), nil
	}

	value, err := g.synthesize(hint)
	if err != nil {
		return nil, err
	}
	g.cache[hint] = value
	return step.CopyValue(value), nil
}

func (g *Generator) synthesize(hint string) (any, error) {
	if elem, ok := strings.CutPrefix(hint, "list["); ok {
		elem, ok = strings.CutSuffix(elem, "]")
		if !ok {
			return nil, fmt.Errorf("malformed type hint %q", hint)
		}
		length := 2 + g.rng.Intn(3)
		items := make([]any, length)
		for i := range items {
			value, err := g.synthesize(elem)
			if err != nil {
				return nil, err
			}
			items[i] = value
		}
		return items, nil
	}

	switch hint {
	case "int":
		return g.rng.Intn(100) + 1, nil
	case "float":
		return float64(g.rng.Intn(1000)) / 10, nil
	case "bool":
		return g.rng.Intn(2) == 0, nil
	case "str":
		letters := "abcdefghijklmnopqrstuvwxyz"
		length := 3 + g.rng.Intn(3)
		b := make([]byte, length)
		for i := range b {
			b[i] = letters[g.rng.Intn(len(letters))]
		}
		return string(b), nil
	}
	return nil, fmt.Errorf("unsupported type hint %q", hint)
}

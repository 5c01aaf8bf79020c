// Package verify runs a learner's callable against a reference
// solution over declared or synthesized test cases and reports the
// first mismatch.
package verify

import (
	"fmt"
	"reflect"
	"sync"
)

// Comparator decides whether an actual output equals an expected
// one, with equality appropriate to the value's type.
type Comparator func(expected, actual any) bool

// Comparers is a registry of per-kind output comparators. It is
// safe for concurrent use.
type Comparers struct {
	mu    sync.RWMutex
	kinds map[string]Comparator
}

// NewComparers creates a registry with the built-in comparators
// for numbers, strings, booleans, lists, and maps.
func NewComparers() *Comparers {
	c := &Comparers{kinds: make(map[string]Comparator)}
	c.kinds["number"] = c.compareNumbers
	c.kinds["string"] = compareStrict
	c.kinds["bool"] = compareStrict
	c.kinds["list"] = c.compareLists
	c.kinds["map"] = c.compareMaps
	return c
}

// Register adds a comparator for a custom value kind. Returns an
// error if the kind is already registered.
func (c *Comparers) Register(kind string, cmp Comparator) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.kinds[kind]; exists {
		return fmt.Errorf("comparator already registered: %s", kind)
	}
	c.kinds[kind] = cmp
	return nil
}

// Equal compares an actual output against the expected one. The
// comparator is chosen by the expected value's kind; unknown kinds
// fall back to deep equality.
func (c *Comparers) Equal(expected, actual any) bool {
	c.mu.RLock()
	cmp, ok := c.kinds[kindOf(expected)]
	c.mu.RUnlock()

	if !ok {
		return reflect.DeepEqual(expected, actual)
	}
	return cmp(expected, actual)
}

func kindOf(v any) string {
	switch v.(type) {
	case int, int32, int64, float32, float64:
		return "number"
	case string:
		return "string"
	case bool:
		return "bool"
	case []any:
		return "list"
	case map[string]any:
		return "map"
	}
	return "other"
}

func compareStrict(expected, actual any) bool {
	return expected == actual
}

// compareNumbers treats 6 and 6.0 as equal, mirroring Python's
// value equality across int and float.
func (c *Comparers) compareNumbers(expected, actual any) bool {
	e, ok := toFloat(expected)
	if !ok {
		return false
	}
	a, ok := toFloat(actual)
	if !ok {
		return false
	}
	return e == a
}

func (c *Comparers) compareLists(expected, actual any) bool {
	e, ok := expected.([]any)
	if !ok {
		return false
	}
	a, ok := actual.([]any)
	if !ok || len(a) != len(e) {
		return false
	}
	for i := range e {
		if !c.Equal(e[i], a[i]) {
			return false
		}
	}
	return true
}

func (c *Comparers) compareMaps(expected, actual any) bool {
	e, ok := expected.(map[string]any)
	if !ok {
		return false
	}
	a, ok := actual.(map[string]any)
	if !ok || len(a) != len(e) {
		return false
	}
	for k, ev := range e {
		av, present := a[k]
		if !present || !c.Equal(ev, av) {
			return false
		}
	}
	return true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

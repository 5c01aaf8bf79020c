package verify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.tutor/pkg/step"
)

type fakeContext struct {
	values map[string]any
	script func(map[string]any) (any, error)
}

func (c *fakeContext) Lookup(name string) (any, bool) {
	v, ok := c.values[name]
	return v, ok
}

func (c *fakeContext) AsFunction(params []string) (*step.Callable, error) {
	if c.script == nil {
		return nil, errors.New("no script recorded")
	}
	return &step.Callable{
		Name:   "solution",
		Params: params,
		Call:   c.script,
	}, nil
}

func TestResolve_NamedFunction(t *testing.T) {
	want := &step.Callable{
		Name:   "double",
		Params: []string{"x"},
		Call: func(args map[string]any) (any, error) {
			return args["x"].(int) * 2, nil
		},
	}
	sub := step.Submission{Context: &fakeContext{
		values: map[string]any{"double": want},
	}}
	got, diag, err := Resolve(sub, &step.Callable{
		Name: "double", Params: []string{"x"},
	})
	require.NoError(t, err)
	assert.Nil(t, diag)
	assert.Same(t, want, got)
}

func TestResolve_MissingFunction(t *testing.T) {
	sub := step.Submission{Context: &fakeContext{values: map[string]any{}}}
	got, diag, err := Resolve(sub, &step.Callable{
		Name: "double", Params: []string{"x"},
	})
	require.NoError(t, err)
	assert.Nil(t, got)
	require.NotNil(t, diag)
	assert.Equal(t, "You must define a function `double`", diag.Text)
}

func TestResolve_NotAFunction(t *testing.T) {
	sub := step.Submission{Context: &fakeContext{
		values: map[string]any{"double": 42},
	}}
	_, diag, err := Resolve(sub, &step.Callable{
		Name: "double", Params: []string{"x"},
	})
	require.NoError(t, err)
	require.NotNil(t, diag)
	assert.Equal(t, "`double` is not a function.", diag.Text)
}

func TestResolve_SignatureMismatch(t *testing.T) {
	bound := &step.Callable{
		Name:   "double",
		Params: []string{"x", "y"},
		Call: func(args map[string]any) (any, error) {
			return nil, nil
		},
	}
	sub := step.Submission{Context: &fakeContext{
		values: map[string]any{"double": bound},
	}}
	_, diag, err := Resolve(sub, &step.Callable{
		Name: "double", Params: []string{"x"},
	})
	require.NoError(t, err)
	require.NotNil(t, diag)
	assert.Contains(t, diag.Text, "The signature should be:")
	assert.Contains(t, diag.Text, "def double(x):")
	assert.Contains(t, diag.Text, "def double(x, y):")
}

func TestResolve_ScriptExercise(t *testing.T) {
	sub := step.Submission{Context: &fakeContext{
		script: func(args map[string]any) (any, error) {
			return args["x"].(int) + 1, nil
		},
	}}
	got, diag, err := Resolve(sub, &step.Callable{
		Name: "solution", Params: []string{"x"},
	})
	require.NoError(t, err)
	assert.Nil(t, diag)
	require.NotNil(t, got)
	out, err := got.Invoke(map[string]any{"x": 1})
	require.NoError(t, err)
	assert.Equal(t, 2, out)
}

func TestResolve_ScriptExerciseCannotFunctionise(t *testing.T) {
	sub := step.Submission{Context: &fakeContext{}}
	_, _, err := Resolve(sub, &step.Callable{
		Name: "solution", Params: []string{"x"},
	})
	assert.Error(t, err)
}

package verify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.tutor/pkg/generate"
	"digital.vasic.tutor/pkg/step"
)

func doubler(calls *int) *step.Callable {
	return &step.Callable{
		Name:   "double",
		Params: []string{"x"},
		Types:  map[string]string{"x": "int"},
		Call: func(args map[string]any) (any, error) {
			if calls != nil {
				*calls++
			}
			return args["x"].(int) * 2, nil
		},
	}
}

func declaredCases(pairs ...[2]int) []step.TestCase {
	cases := make([]step.TestCase, 0, len(pairs))
	for _, p := range pairs {
		cases = append(cases, step.TestCase{
			Inputs:   map[string]any{"x": p[0]},
			Expected: p[1],
		})
	}
	return cases
}

func TestVerifier_Verify_AllCasesPass(t *testing.T) {
	v := NewVerifier()
	out, err := v.Verify(doubler(nil), doubler(nil),
		declaredCases([2]int{1, 2}, [2]int{3, 6}, [2]int{10, 20}))
	require.NoError(t, err)
	assert.True(t, out.Passed)
	assert.Nil(t, out.Failure)
}

func TestVerifier_Verify_ReportsFirstMismatch(t *testing.T) {
	candidate := &step.Callable{
		Name:   "double",
		Params: []string{"x"},
		Call: func(args map[string]any) (any, error) {
			return args["x"].(int) * 3, nil
		},
	}
	v := NewVerifier()
	out, err := v.Verify(candidate, doubler(nil),
		declaredCases([2]int{2, 4}))
	require.NoError(t, err)
	assert.False(t, out.Passed)
	require.NotNil(t, out.Failure)
	assert.Equal(t, map[string]any{"x": 2}, out.Failure.Inputs)
	assert.Equal(t, 4, out.Failure.Expected)
	assert.Equal(t, 6, out.Failure.Actual)
	assert.Empty(t, out.Failure.Err)
}

// Verification stops at the first failing case: a candidate that
// disagrees only on the third of five cases is invoked exactly
// three times.
func TestVerifier_Verify_StopsAtFirstFailure(t *testing.T) {
	calls := 0
	candidate := &step.Callable{
		Name:   "double",
		Params: []string{"x"},
		Call: func(args map[string]any) (any, error) {
			calls++
			x := args["x"].(int)
			if x == 3 {
				return 0, nil
			}
			return x * 2, nil
		},
	}
	v := NewVerifier()
	out, err := v.Verify(candidate, doubler(nil), declaredCases(
		[2]int{1, 2}, [2]int{2, 4}, [2]int{3, 6}, [2]int{4, 8}, [2]int{5, 10},
	))
	require.NoError(t, err)
	assert.False(t, out.Passed)
	assert.Equal(t, 3, calls)
}

func TestVerifier_Verify_CandidatePanicBecomesReport(t *testing.T) {
	candidate := &step.Callable{
		Name:   "double",
		Params: []string{"x"},
		Call: func(args map[string]any) (any, error) {
			panic("boom")
		},
	}
	v := NewVerifier()
	out, err := v.Verify(candidate, doubler(nil),
		declaredCases([2]int{1, 2}))
	require.NoError(t, err)
	assert.False(t, out.Passed)
	require.NotNil(t, out.Failure)
	assert.Contains(t, out.Failure.Err, "boom")
}

func TestVerifier_Verify_CandidateErrorBecomesReport(t *testing.T) {
	candidate := &step.Callable{
		Name:   "double",
		Params: []string{"x"},
		Call: func(args map[string]any) (any, error) {
			return nil, errors.New("NameError: name 'y' is not defined")
		},
	}
	v := NewVerifier()
	out, err := v.Verify(candidate, doubler(nil),
		declaredCases([2]int{1, 2}))
	require.NoError(t, err)
	assert.False(t, out.Passed)
	assert.Contains(t, out.Failure.Err, "NameError")
}

// Mutating the inputs inside the candidate must not corrupt the
// verdict for the reference run or the report.
func TestVerifier_Verify_InputsAreCopiedPerInvocation(t *testing.T) {
	reference := &step.Callable{
		Name:   "head",
		Params: []string{"items"},
		Types:  map[string]string{"items": "list[int]"},
		Call: func(args map[string]any) (any, error) {
			return args["items"].([]any)[0], nil
		},
	}
	candidate := &step.Callable{
		Name:   "head",
		Params: []string{"items"},
		Call: func(args map[string]any) (any, error) {
			items := args["items"].([]any)
			first := items[0]
			items[0] = nil
			return first, nil
		},
	}
	v := NewVerifier(WithGenerator(generate.NewSeeded(11)))
	out, err := v.Verify(candidate, reference, nil)
	require.NoError(t, err)
	assert.True(t, out.Passed)
}

func TestVerifier_Verify_SynthesizedCase(t *testing.T) {
	v := NewVerifier(WithGenerator(generate.NewSeeded(5)))
	calls := 0
	out, err := v.Verify(doubler(&calls), doubler(nil), nil)
	require.NoError(t, err)
	assert.True(t, out.Passed)
	assert.Equal(t, 1, calls)
}

func TestVerifier_Verify_SynthesizedMismatch(t *testing.T) {
	candidate := &step.Callable{
		Name:   "double",
		Params: []string{"x"},
		Call: func(args map[string]any) (any, error) {
			return -1, nil
		},
	}
	v := NewVerifier(WithGenerator(generate.NewSeeded(5)))
	out, err := v.Verify(candidate, doubler(nil), nil)
	require.NoError(t, err)
	assert.False(t, out.Passed)
	require.NotNil(t, out.Failure)
	assert.NotNil(t, out.Failure.Expected)
}

// A reference whose parameters cannot be synthesized is a
// diagnostic condition, not a wrong answer.
func TestVerifier_Verify_SynthesisFailureIsError(t *testing.T) {
	reference := &step.Callable{
		Name:   "mystery",
		Params: []string{"x"},
		Call: func(args map[string]any) (any, error) {
			return nil, nil
		},
	}
	v := NewVerifier()
	_, err := v.Verify(doubler(nil), reference, nil)
	var tErr *generate.TypeNotSupportedError
	require.ErrorAs(t, err, &tErr)
}

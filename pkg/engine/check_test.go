package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.tutor/pkg/course"
	"digital.vasic.tutor/pkg/step"
)

func buildEngine(t *testing.T, pages ...step.PageDecl) *Engine {
	t.Helper()
	r, err := course.Build(pages...)
	require.NoError(t, err)
	e, err := New(r)
	require.NoError(t, err)
	return e
}

func messagePage(messages ...step.MessageDecl) step.PageDecl {
	return step.PageDecl{
		Slug:      "birds",
		FinalText: "Done!",
		Steps: []step.StepDecl{{
			Name:     "assign_word",
			Text:     "Type this:\n\n    __program_indented__",
			Program:  `word = "bird"`,
			Messages: messages,
		}},
	}
}

func TestDispatch_FailureMessageFires(t *testing.T) {
	e := buildEngine(t, messagePage(step.MessageDecl{
		StepDecl: step.StepDecl{
			Text:    "You swapped two letters there.",
			Program: `word = "brid"`,
		},
		AfterSuccess: false,
	}))

	res, err := e.CheckStep(context.Background(), "birds", "assign_word",
		editorSubmission(`word = "brid"`))
	require.NoError(t, err)
	assert.True(t, res.Verdict.IsMessage())
	assert.Contains(t, res.Verdict.Message, "swapped two letters")
}

// A message whose trigger does not match the outcome, or whose own
// re-check fails, leaves the raw verdict in place.
func TestDispatch_MisTriggeredMessagesLeaveRawVerdict(t *testing.T) {
	e := buildEngine(t, messagePage(
		step.MessageDecl{
			StepDecl: step.StepDecl{
				Text:    "You swapped two letters there.",
				Program: `word = "brid"`,
			},
			AfterSuccess: false,
		},
		step.MessageDecl{
			StepDecl: step.StepDecl{
				Text:    "Nice, that's the spirit.",
				Program: `word = "bird"`,
			},
			AfterSuccess: true,
		},
	))

	// Fails, but matches neither message program: plain false.
	res, err := e.CheckStep(context.Background(), "birds", "assign_word",
		editorSubmission(`word = "robin"`))
	require.NoError(t, err)
	assert.False(t, res.Verdict.Pass)
	assert.False(t, res.Verdict.IsMessage())

	// Passes: the after-success message fires.
	res, err = e.CheckStep(context.Background(), "birds", "assign_word",
		editorSubmission(`word = "bird"`))
	require.NoError(t, err)
	assert.True(t, res.Verdict.IsMessage())
	assert.Contains(t, res.Verdict.Message, "spirit")
}

func TestDispatch_FirstMatchingMessageWins(t *testing.T) {
	e := buildEngine(t, messagePage(
		step.MessageDecl{
			StepDecl: step.StepDecl{
				Text:    "First diagnosis.",
				Program: `word = "brid"`,
			},
		},
		step.MessageDecl{
			StepDecl: step.StepDecl{
				Text:    "Second diagnosis.",
				Program: `word = "brid"`,
			},
		},
	))

	res, err := e.CheckStep(context.Background(), "birds", "assign_word",
		editorSubmission(`word = "brid"`))
	require.NoError(t, err)
	assert.Contains(t, res.Verdict.Message, "First diagnosis.")
	assert.NotContains(t, res.Verdict.Message, "Second diagnosis.")
}

// A match-anywhere message triggers when its template occurs
// anywhere in the submission, not just as the whole program.
func TestDispatch_MatchAnywhereMessage(t *testing.T) {
	e := buildEngine(t, messagePage(step.MessageDecl{
		StepDecl: step.StepDecl{
			Text:    "Don't print here, just assign.",
			Program: `print(__any__)`,
		},
		AfterSuccess:  false,
		MatchAnywhere: true,
	}))

	res, err := e.CheckStep(context.Background(), "birds", "assign_word",
		editorSubmission("word = \"bird\"\nprint(word)"))
	require.NoError(t, err)
	assert.True(t, res.Verdict.IsMessage())
	assert.Contains(t, res.Verdict.Message, "just assign")
}

// A case-only match on a message's own program still fires the
// message.
func TestDispatch_MessageRecheckAcceptsCaseDrift(t *testing.T) {
	e := buildEngine(t, messagePage(step.MessageDecl{
		StepDecl: step.StepDecl{
			Text:    "You swapped two letters there.",
			Program: `word = "brid"`,
		},
		AfterSuccess: false,
	}))

	res, err := e.CheckStep(context.Background(), "birds", "assign_word",
		editorSubmission(`Word = "brid"`))
	require.NoError(t, err)
	assert.True(t, res.Verdict.IsMessage())
	assert.Contains(t, res.Verdict.Message, "swapped two letters")
}

// The case advisory on the step itself is already the most
// specific feedback; messages never replace it.
func TestDispatch_CaseAdvisoryBypassesMessages(t *testing.T) {
	e := buildEngine(t, messagePage(step.MessageDecl{
		StepDecl: step.StepDecl{
			Text:    "Should not appear.",
			Program: `word = "bird"`,
		},
		AfterSuccess: false,
	}))

	res, err := e.CheckStep(context.Background(), "birds", "assign_word",
		editorSubmission(`Word = "bird"`))
	require.NoError(t, err)
	assert.True(t, res.Verdict.IsMessage())
	assert.Contains(t, res.Verdict.Message, "case sensitive")
}

// Structured diagnostics from an exercise check (missing function,
// bad signature) bypass the message scan the same way.
func TestDispatch_DiagnosticBypassesMessages(t *testing.T) {
	r, err := course.Build(step.PageDecl{
		Slug:      "functions",
		FinalText: "Done!",
		Steps: []step.StepDecl{{
			Name: "write_double",
			Text: "Define `double`.",
			Solution: &step.Callable{
				Name:   "double",
				Params: []string{"x"},
				Types:  map[string]string{"x": "int"},
				Call: func(args map[string]any) (any, error) {
					return args["x"].(int) * 2, nil
				},
			},
			SolutionSource: "def double(_, x):\n    return x * 2",
			Tests: []step.TestDecl{
				{Inputs: map[string]any{"x": 3}, Expected: 6},
			},
			Messages: []step.MessageDecl{{
				StepDecl: step.StepDecl{
					Text:    "Should not appear.",
					Program: `x = __any__`,
				},
				AfterSuccess:  false,
				MatchAnywhere: true,
			}},
		}},
	})
	require.NoError(t, err)
	e, err := New(r)
	require.NoError(t, err)

	res, err := e.CheckStep(context.Background(), "functions", "write_double",
		exerciseSubmission("x = 1", nil))
	require.NoError(t, err)
	assert.True(t, res.Verdict.IsMessage())
	assert.Equal(t, "You must define a function `double`", res.Verdict.Message)
}

// A parse fault short-circuits before any message can fire.
func TestDispatch_ParseFaultBeatsMessages(t *testing.T) {
	e := buildEngine(t, messagePage(step.MessageDecl{
		StepDecl: step.StepDecl{
			Text:    "Should not appear.",
			Program: `word = __any__`,
		},
		AfterSuccess:  false,
		MatchAnywhere: true,
	}))

	res, err := e.CheckStep(context.Background(), "birds", "assign_word",
		editorSubmission(`word = "bird`))
	require.NoError(t, err)
	assert.False(t, res.Verdict.Pass)
	assert.False(t, res.Verdict.IsMessage())
}

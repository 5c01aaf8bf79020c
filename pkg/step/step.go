// Package step defines the data vocabulary of the verification
// engine: submissions, callables, test cases, step declarations,
// and their built immutable forms.
package step

// Origin describes how a submission's code was produced and run.
type Origin string

const (
	// OriginEditor means the code was typed and run from the
	// editor.
	OriginEditor Origin = "editor"

	// OriginShell means the code was entered at the interactive
	// shell.
	OriginShell Origin = "shell"

	// OriginPaste means the code was pasted rather than typed.
	OriginPaste Origin = "paste"
)

// ExecutionContext is the boundary to the runtime that executed a
// learner's submission. The engine never runs learner code itself;
// it only consumes the names bound after the caller ran it.
type ExecutionContext interface {
	// Lookup returns the value bound to name after the
	// submission ran, and whether the name is bound at all.
	Lookup(name string) (any, bool)

	// AsFunction derives a callable from the whole submitted
	// script, treating the given parameter names as its inputs.
	// Used for exercises verified against a free-form script
	// rather than a learner-defined function.
	AsFunction(params []string) (*Callable, error)
}

// Submission bundles everything the caller knows about one
// learner attempt at a step.
type Submission struct {
	// ID identifies this attempt. The engine assigns one if
	// empty.
	ID string

	// Source is the raw code text as submitted.
	Source string

	// Result is the value produced by running the source in the
	// caller's runtime, if any. The checks never read it; it is
	// carried for embedders that render the evaluated value
	// alongside the verdict.
	Result any

	// Origin tags how the code was obtained and run.
	Origin Origin

	// Context exposes the names bound after the source ran.
	Context ExecutionContext
}

// Verdict is the outcome of checking a submission against a step:
// either a plain pass/fail or a structured feedback message.
type Verdict struct {
	// Pass reports whether the raw check succeeded. Ignored by
	// renderers when Message is set.
	Pass bool

	// Message holds rendered feedback text. Non-empty means the
	// verdict is the structured message form.
	Message string
}

// Fail is the plain failing verdict.
var Fail = Verdict{}

// Pass is the plain passing verdict.
var Pass = Verdict{Pass: true}

// Msg returns a structured message verdict.
func Msg(text string) Verdict {
	return Verdict{Message: text}
}

// IsMessage reports whether the verdict carries feedback text.
func (v Verdict) IsMessage() bool { return v.Message != "" }

// Kind discriminates how a step is checked.
type Kind string

const (
	// KindVerbatim checks the submission structurally against a
	// fixed template program.
	KindVerbatim Kind = "verbatim"

	// KindExercise checks the submission behaviorally against a
	// reference solution over test cases.
	KindExercise Kind = "exercise"
)

// Step is the built, immutable form of a checkable exercise unit.
// Instances are produced by course.Build and never mutated after.
type Step struct {
	// Name identifies the step within its page.
	Name string

	// Kind selects the check strategy.
	Kind Kind

	// Text is the rendered instructional markup, with any
	// program placeholder already substituted.
	Text string

	// Program is the canonical template or solution source shown
	// to the learner.
	Program string

	// Hints holds the rendered hint blocks in order.
	Hints []string

	// Solution is the reference callable for exercise steps,
	// nil for verbatim steps.
	Solution *Callable

	// Tests holds the declared test cases, possibly empty.
	Tests []TestCase

	// ExpectedOrigin, when non-empty, constrains how the
	// submission must have been produced.
	ExpectedOrigin Origin

	// Messages holds the built conditional feedback steps in
	// declaration order.
	Messages []*Message
}

// Message is a built conditional feedback step bound to its
// parent's outcome.
type Message struct {
	Step

	// AfterSuccess selects the parent outcome this message fires
	// on: true for pass, false for fail.
	AfterSuccess bool

	// MatchAnywhere makes a verbatim message match when its
	// template matches any subtree of the submission, not only
	// the whole program.
	MatchAnywhere bool
}

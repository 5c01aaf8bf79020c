package verify

import (
	"digital.vasic.tutor/pkg/generate"
	"digital.vasic.tutor/pkg/step"
)

// FailureReport carries the first failing case for rendering as
// feedback.
type FailureReport struct {
	// Inputs are the arguments the callables were invoked with.
	Inputs map[string]any `json:"inputs"`

	// Expected is the output the reference solution requires.
	Expected any `json:"expected"`

	// Actual is the output the candidate produced, nil when the
	// candidate raised instead.
	Actual any `json:"actual"`

	// Err describes a runtime fault in the candidate, empty for
	// a plain value mismatch.
	Err string `json:"error,omitempty"`
}

// Outcome is the result of behavioral verification: a pass, or
// the first failure found.
type Outcome struct {
	Passed  bool
	Failure *FailureReport
}

var pass = Outcome{Passed: true}

// Verifier runs candidates against references. Safe for
// concurrent use.
type Verifier struct {
	comparers *Comparers
	generator *generate.Generator
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithComparers replaces the output comparator registry.
func WithComparers(c *Comparers) Option {
	return func(v *Verifier) { v.comparers = c }
}

// WithGenerator replaces the input generator used when a step
// declares no tests.
func WithGenerator(g *generate.Generator) Option {
	return func(v *Verifier) { v.generator = g }
}

// NewVerifier creates a Verifier with the supplied options.
func NewVerifier(opts ...Option) *Verifier {
	v := &Verifier{
		comparers: NewComparers(),
		generator: generate.New(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify runs the candidate over the declared cases in order, or
// over one synthesized case when none are declared. It stops at
// the first failing case. A non-nil error means verification
// could not run at all (input synthesis failed); that is a
// diagnostic condition, not a wrong answer.
func (v *Verifier) Verify(
	candidate, reference *step.Callable,
	cases []step.TestCase,
) (Outcome, error) {
	if len(cases) == 0 {
		return v.verifySynthesized(candidate, reference)
	}

	for _, tc := range cases {
		inputs := tc.CopyInputs()
		actual, err := candidate.Invoke(inputs)
		if err != nil {
			return Outcome{Failure: &FailureReport{
				Inputs:   tc.CopyInputs(),
				Expected: tc.Expected,
				Err:      err.Error(),
			}}, nil
		}
		if !v.comparers.Equal(tc.Expected, actual) {
			return Outcome{Failure: &FailureReport{
				Inputs:   tc.CopyInputs(),
				Expected: tc.Expected,
				Actual:   actual,
			}}, nil
		}
	}
	return pass, nil
}

// verifySynthesized checks the candidate against the reference's
// own output on generated inputs. The synthesized value is never
// compared to a stored expectation; it exists to exercise the
// function.
func (v *Verifier) verifySynthesized(
	candidate, reference *step.Callable,
) (Outcome, error) {
	inputs, err := v.generator.Inputs(reference)
	if err != nil {
		return Outcome{}, err
	}

	expected, err := reference.Invoke(copyInputs(inputs))
	if err != nil {
		return Outcome{Failure: &FailureReport{
			Inputs: inputs,
			Err:    "reference solution failed: " + err.Error(),
		}}, nil
	}

	actual, err := candidate.Invoke(copyInputs(inputs))
	if err != nil {
		return Outcome{Failure: &FailureReport{
			Inputs:   inputs,
			Expected: expected,
			Err:      err.Error(),
		}}, nil
	}
	if !v.comparers.Equal(expected, actual) {
		return Outcome{Failure: &FailureReport{
			Inputs:   inputs,
			Expected: expected,
			Actual:   actual,
		}}, nil
	}
	return pass, nil
}

func copyInputs(inputs map[string]any) map[string]any {
	out := make(map[string]any, len(inputs))
	for k, v := range inputs {
		out[k] = step.CopyValue(v)
	}
	return out
}

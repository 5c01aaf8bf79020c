package verify

import (
	"fmt"

	"digital.vasic.tutor/pkg/step"
)

// Diagnostic is a structured message describing why a candidate
// could not be verified: a missing function, a non-callable bound
// to the expected name, or a signature mismatch. It is surfaced
// to the learner verbatim and bypasses test execution.
type Diagnostic struct {
	Text string
}

// Resolve finds the learner's candidate for a reference solution.
//
// A reference named "solution" marks a whole-program exercise:
// the candidate is derived from the submitted script itself. Any
// other name must be bound to a function in the execution
// context, with a parameter signature matching the reference's
// (the reference's internal context parameter was stripped at
// build time and never appears here).
//
// The returned error reports a script that could not be
// functionised; the dispatcher converts it into a plain failing
// verdict.
func Resolve(
	sub step.Submission,
	reference *step.Callable,
) (*step.Callable, *Diagnostic, error) {
	if reference.Name == "solution" {
		candidate, err := sub.Context.AsFunction(reference.Params)
		if err != nil {
			return nil, nil, fmt.Errorf("functionise script: %w", err)
		}
		return candidate, nil, nil
	}

	bound, ok := sub.Context.Lookup(reference.Name)
	if !ok {
		return nil, &Diagnostic{Text: fmt.Sprintf(
			"You must define a function `%s`", reference.Name,
		)}, nil
	}

	candidate, ok := bound.(*step.Callable)
	if !ok || candidate.Call == nil {
		return nil, &Diagnostic{Text: fmt.Sprintf(
			"`%s` is not a function.", reference.Name,
		)}, nil
	}

	if candidate.Signature() != reference.Signature() {
		return nil, &Diagnostic{Text: fmt.Sprintf(
			"The signature should be:\n\n"+
				"    def %s%s:\n\n"+
				"not:\n\n"+
				"    def %s%s:",
			reference.Name, reference.Signature(),
			reference.Name, candidate.Signature(),
		)}, nil
	}

	return candidate, nil, nil
}

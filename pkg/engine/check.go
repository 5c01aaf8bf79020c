package engine

import (
	"errors"

	"digital.vasic.tutor/pkg/generate"
	"digital.vasic.tutor/pkg/logging"
	"digital.vasic.tutor/pkg/match"
	"digital.vasic.tutor/pkg/step"
	"digital.vasic.tutor/pkg/verify"
)

// checkWithMessages runs the step/message dispatch state machine:
// origin gate, raw check, boolean normalization, then the first
// message whose trigger matches the outcome and whose own re-check
// passes wins.
func (e *Engine) checkWithMessages(
	s *step.Step,
	sub step.Submission,
) (step.Verdict, *verify.FailureReport) {
	if s.ExpectedOrigin != "" && sub.Origin != s.ExpectedOrigin {
		return step.Fail, nil
	}

	// A submission that does not parse is a plain failure for
	// every step variant, before any other checking.
	if err := match.Validate(sub.Source); err != nil {
		return step.Fail, nil
	}

	raw, failure := e.check(s, nil, sub)

	// A structured diagnostic produced directly by the check
	// (signature mismatch, case advisory) is already the most
	// specific feedback available; messages do not refine it.
	if raw.IsMessage() {
		return raw, failure
	}

	outcome := raw.Pass
	for _, m := range s.Messages {
		if m.AfterSuccess != outcome {
			continue
		}
		recheck, _ := e.check(&m.Step, m, sub)
		// A message fires when its re-check holds, including the
		// case-advisory form of a structural match. A failing
		// re-check silently falls through to the next candidate.
		if recheck.Pass || recheck.IsMessage() {
			return step.Msg(m.Text), failure
		}
	}
	return raw, failure
}

// check runs a single step's own check: structural for verbatim
// steps, behavioral for exercises. The message argument is
// non-nil when re-checking a message step.
func (e *Engine) check(
	s *step.Step,
	m *step.Message,
	sub step.Submission,
) (step.Verdict, *verify.FailureReport) {
	if s.Kind == step.KindVerbatim {
		return e.checkStructural(s, m, sub), nil
	}
	return e.checkBehavioral(s, sub)
}

func (e *Engine) checkStructural(
	s *step.Step,
	m *step.Message,
	sub step.Submission,
) step.Verdict {
	if m != nil && m.MatchAnywhere {
		found, err := match.Search(sub.Source, s.Program)
		if err != nil || !found {
			return step.Fail
		}
		return step.Pass
	}

	result, err := match.Match(sub.Source, s.Program)
	if err != nil {
		if !errors.Is(err, match.ErrSyntax) {
			// Template faults are caught at build time; anything
			// here is an internal error, surfaced as a plain fail.
			e.logger.Error("structural match failed",
				logging.Field{Key: "step", Value: s.Name},
				logging.Field{Key: "error", Value: err.Error()},
			)
		}
		return step.Fail
	}

	switch result.Kind {
	case match.KindExact:
		return step.Pass
	case match.KindCase:
		e.metrics.RecordMatch("case")
		return step.Msg(result.Advisory)
	}
	return step.Fail
}

func (e *Engine) checkBehavioral(
	s *step.Step,
	sub step.Submission,
) (step.Verdict, *verify.FailureReport) {
	// Exercises are about code the learner composed; shell
	// one-liners don't qualify.
	if sub.Origin == step.OriginShell {
		return step.Fail, nil
	}
	if sub.Context == nil {
		return step.Fail, nil
	}

	candidate, diag, err := verify.Resolve(sub, s.Solution)
	if err != nil {
		return step.Fail, nil
	}
	if diag != nil {
		return step.Msg(diag.Text), nil
	}

	// No declared tests means the verifier synthesizes inputs from
	// the solution's type hints.
	if len(s.Tests) == 0 {
		for _, name := range s.Solution.Params {
			e.metrics.RecordSynthesis(s.Solution.Types[name])
		}
	}

	outcome, err := e.verifier.Verify(candidate, s.Solution, s.Tests)
	if err != nil {
		// Input synthesis failed; distinguishable from a wrong
		// answer so the caller can surface an authoring problem.
		var unsupported *generate.TypeNotSupportedError
		if errors.As(err, &unsupported) {
			return step.Msg(unsupported.Error()), nil
		}
		return step.Fail, nil
	}
	if outcome.Passed {
		return step.Pass, nil
	}
	return step.Fail, outcome.Failure
}

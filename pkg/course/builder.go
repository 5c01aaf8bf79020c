package course

import (
	"fmt"
	"regexp"
	"strings"

	"digital.vasic.tutor/pkg/match"
	"digital.vasic.tutor/pkg/step"
	"digital.vasic.tutor/pkg/verify"
)

// buildVerifier cross-checks message solutions against parent
// solutions at build time.
var buildVerifier = verify.NewVerifier()

// buildStep validates and normalizes one step declaration into
// its immutable form.
func buildStep(page string, decl step.StepDecl) (*step.Step, error) {
	return buildStepInner(page, decl, false)
}

func buildStepInner(page string, decl step.StepDecl, isMessage bool) (*step.Step, error) {
	name := decl.Name
	if name == "" && !isMessage {
		return nil, authoringErr(page, "", "step has no name")
	}

	text := decl.Text
	if strings.TrimSpace(text) == "" {
		return nil, authoringErr(page, name, "step text must not be empty")
	}
	if err := noWeirdWhitespace(text); err != nil {
		return nil, authoringErr(page, name, "text: %v", err)
	}

	hasProgram := decl.Program != ""
	hasSolution := decl.Solution != nil || decl.SolutionSource != ""
	if hasProgram == hasSolution {
		return nil, authoringErr(page, name,
			"exactly one of program and solution must be set")
	}
	if hasSolution && (decl.Solution == nil || decl.SolutionSource == "") {
		return nil, authoringErr(page, name,
			"a solution needs both the callable and its source")
	}

	kind := decl.Kind
	switch {
	case kind == "" && hasProgram:
		kind = step.KindVerbatim
	case kind == "" && hasSolution:
		kind = step.KindExercise
	case kind == step.KindVerbatim && !hasProgram:
		return nil, authoringErr(page, name, "verbatim step needs a program")
	case kind == step.KindExercise && !hasSolution:
		return nil, authoringErr(page, name, "exercise step needs a solution")
	case kind != step.KindVerbatim && kind != step.KindExercise:
		return nil, authoringErr(page, name, "unknown step kind %q", kind)
	}

	switch decl.ExpectedOrigin {
	case "", step.OriginEditor, step.OriginShell, step.OriginPaste:
	default:
		return nil, authoringErr(page, name,
			"unknown expected origin %q", decl.ExpectedOrigin)
	}

	var (
		program string
		tests   []step.TestCase
		err     error
	)
	if kind == step.KindVerbatim {
		if len(decl.Tests) > 0 && !isMessage {
			return nil, authoringErr(page, name,
				"verbatim step cannot declare tests")
		}
		program = strings.TrimSpace(dedent(decl.Program))
	} else {
		tests, err = resolveTests(decl.Tests, decl.Solution.Params)
		if err != nil {
			return nil, authoringErr(page, name, "tests: %v", err)
		}
		if len(tests) == 0 {
			if err := synthesizable(decl.Solution); err != nil {
				return nil, authoringErr(page, name,
					"no tests and inputs cannot be synthesized: %v", err)
			}
		}
		program, err = programFromSolution(decl, tests)
		if err != nil {
			return nil, authoringErr(page, name, "%v", err)
		}
	}

	if err := noWeirdWhitespace(program); err != nil {
		return nil, authoringErr(page, name, "program: %v", err)
	}
	if program == "" {
		return nil, authoringErr(page, name, "program is empty after normalization")
	}
	if err := match.Validate(program); err != nil {
		return nil, authoringErr(page, name, "program does not parse: %v", err)
	}

	// Verbatim steps embed their program in the text unless the
	// author opts out; other steps only when asked.
	programInText := kind == step.KindVerbatim && !isMessage
	if decl.ProgramInText != nil {
		programInText = *decl.ProgramInText
	}
	text, err = substituteProgram(text, program, programInText)
	if err != nil {
		return nil, authoringErr(page, name, "%v", err)
	}

	text, err = renderMarkdown(strings.TrimSpace(dedent(text)))
	if err != nil {
		return nil, authoringErr(page, name, "%v", err)
	}

	hints := make([]string, 0, len(decl.Hints))
	for i, hint := range decl.Hints {
		rendered, err := renderMarkdown(strings.TrimSpace(dedent(hint)))
		if err != nil {
			return nil, authoringErr(page, name, "hint %d: %v", i, err)
		}
		hints = append(hints, rendered)
	}

	built := &step.Step{
		Name:           name,
		Kind:           kind,
		Text:           text,
		Program:        program,
		Hints:          hints,
		Solution:       decl.Solution,
		Tests:          tests,
		ExpectedOrigin: decl.ExpectedOrigin,
	}

	for i, mdecl := range decl.Messages {
		message, err := buildMessage(page, built, decl, mdecl)
		if err != nil {
			return nil, fmt.Errorf("message %d of %s: %w", i, name, err)
		}
		built.Messages = append(built.Messages, message)
	}
	return built, nil
}

// buildMessage normalizes a nested message declaration, filling
// empty fields from the parent: tests always, the solution when
// the message declares neither a program nor its own solution.
func buildMessage(
	page string,
	parent *step.Step,
	parentDecl step.StepDecl,
	decl step.MessageDecl,
) (*step.Message, error) {
	eff := decl.StepDecl
	if eff.Name == "" {
		eff.Name = parent.Name
	}
	if eff.Program == "" && eff.Solution == nil {
		if parentDecl.Solution == nil {
			return nil, authoringErr(page, eff.Name,
				"message declares no program and the parent has no solution to inherit")
		}
		eff.Solution = parentDecl.Solution
		eff.SolutionSource = parentDecl.SolutionSource
	}
	if len(eff.Tests) == 0 {
		eff.Tests = parentDecl.Tests
	}

	built, err := buildStepInner(page, eff, true)
	if err != nil {
		return nil, err
	}

	// An after-success exercise message must agree with the
	// parent's reference solution on the declared tests. This is
	// an authoring sanity check, run once here rather than per
	// request.
	if decl.AfterSuccess &&
		built.Kind == step.KindExercise &&
		parent.Solution != nil &&
		built.Solution != parent.Solution {
		outcome, err := buildVerifier.Verify(
			built.Solution, parent.Solution, parent.Tests,
		)
		if err != nil {
			return nil, authoringErr(page, eff.Name,
				"cross-check against parent solution: %v", err)
		}
		if !outcome.Passed {
			return nil, authoringErr(page, eff.Name,
				"message solution disagrees with parent solution on inputs %v",
				outcome.Failure.Inputs)
		}
	}

	return &step.Message{
		Step:          *built,
		AfterSuccess:  decl.AfterSuccess,
		MatchAnywhere: decl.MatchAnywhere,
	}, nil
}

// programFromSolution derives the canonical program text from a
// reference solution's source. A solution named "solution" is a
// whole-script exercise: its body is extracted and prefixed with
// the first test case's input bindings. Any other solution keeps
// its def header with the internal context parameter stripped.
func programFromSolution(decl step.StepDecl, tests []step.TestCase) (string, error) {
	src := strings.TrimRight(dedent(strings.Trim(decl.SolutionSource, "\n")), "\n ")
	sol := decl.Solution

	if sol.Name == "solution" {
		if len(tests) == 0 {
			return "", fmt.Errorf("a whole-script exercise needs at least one declared test")
		}
		lines := strings.Split(src, "\n")
		header := regexp.MustCompile(`^def\s+solution\s*\(.*\)\s*:\s*$`)
		if !header.MatchString(lines[0]) {
			return "", fmt.Errorf("solution source must start with a def solution(...) header")
		}
		body := strings.TrimSpace(dedent(strings.Join(lines[1:], "\n")))
		if body == "" {
			return "", fmt.Errorf("solution body is empty")
		}
		return inputsString(tests[0].Inputs, sol.Params) + "\n" + body, nil
	}

	header := regexp.MustCompile(
		`def\s+` + regexp.QuoteMeta(sol.Name) + `\s*\(\s*_\s*(?:,\s*)?[^)]*\)\s*:`,
	)
	if !header.MatchString(src) {
		return "", fmt.Errorf(
			"solution source must define %s with the internal context parameter first",
			sol.Name,
		)
	}
	replaced := header.ReplaceAllLiteralString(
		src, "def "+sol.Name+sol.Signature()+":",
	)
	return replaced, nil
}

// substituteProgram embeds the canonical program into the text
// where a placeholder asks for it, and verifies no marker
// survives.
func substituteProgram(text, program string, programInText bool) (string, error) {
	if !strings.Contains(text, "__program_") {
		if programInText {
			return "", fmt.Errorf(
				"either include __program__ or __program_indented__ in the text, " +
					"or set program_in_text to false",
			)
		}
		return text, nil
	}

	text = strings.ReplaceAll(text, "__program__", program)

	indented := indent(program, "    ")
	marker := regexp.MustCompile(`(?m)^[ ]*__program_indented__`)
	text = marker.ReplaceAllStringFunc(text, func(string) string {
		return indented
	})

	if strings.Contains(text, "__program_") {
		return "", fmt.Errorf("program placeholder not fully substituted")
	}
	return text, nil
}

func resolveTests(decls []step.TestDecl, params []string) ([]step.TestCase, error) {
	if len(decls) == 0 {
		return nil, nil
	}
	out := make([]step.TestCase, 0, len(decls))
	for i, d := range decls {
		tc, err := d.Resolve(params)
		if err != nil {
			return nil, fmt.Errorf("test %d: %w", i, err)
		}
		out = append(out, tc)
	}
	return out, nil
}

// synthesizable checks that every parameter of a solution carries
// a type hint, so the input generator can stand in for tests.
func synthesizable(sol *step.Callable) error {
	for _, name := range sol.Params {
		if hint, ok := sol.Types[name]; !ok || hint == "" {
			return fmt.Errorf("parameter %s has no type hint", name)
		}
	}
	return nil
}

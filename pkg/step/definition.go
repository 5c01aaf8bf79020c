package step

// StepDecl describes a step declaratively. It captures everything
// the build pass needs to produce an immutable Step: no side
// effects occur until course.Build runs.
//
// Exactly one of {Program} and {Solution + SolutionSource} must be
// set. For verbatim steps Program is the fixed template. For
// exercise steps Solution is the reference implementation and
// SolutionSource its Python source, written with the internal
// leading context parameter (e.g. "def double(_, x):"); the build
// pass strips that parameter when deriving the canonical program.
type StepDecl struct {
	// Name identifies the step within its page.
	Name string `json:"name" yaml:"name"`

	// Kind selects the check strategy. Defaults to verbatim when
	// Program is set and exercise when Solution is set.
	Kind Kind `json:"kind" yaml:"kind"`

	// Text is the instructional markup. It may embed the
	// canonical program via the __program__ or
	// __program_indented__ placeholder.
	Text string `json:"text" yaml:"text"`

	// ProgramInText asserts that Text embeds a placeholder; the
	// build fails if neither marker is present. Verbatim steps
	// default to true.
	ProgramInText *bool `json:"program_in_text" yaml:"program_in_text"`

	// Program is the fixed template source for verbatim steps.
	Program string `json:"program" yaml:"program"`

	// Solution is the reference callable for exercise steps.
	Solution *Callable `json:"-" yaml:"-"`

	// SolutionSource is the Python source of the reference
	// solution, including the leading context parameter.
	SolutionSource string `json:"solution_source" yaml:"solution_source"`

	// Hints holds hint markup blocks, rendered in order.
	Hints []string `json:"hints" yaml:"hints"`

	// Tests holds the declared test cases for exercise steps.
	Tests []TestDecl `json:"tests" yaml:"tests"`

	// ExpectedOrigin optionally constrains the submission origin.
	ExpectedOrigin Origin `json:"expected_origin" yaml:"expected_origin"`

	// Messages holds nested conditional feedback declarations in
	// dispatch order.
	Messages []MessageDecl `json:"messages" yaml:"messages"`
}

// MessageDecl declares a conditional feedback step. Empty fields
// inherit from the parent step at build time: tests always, the
// solution when the message is exercise-kind and declares none.
type MessageDecl struct {
	StepDecl `yaml:",inline"`

	// AfterSuccess selects the parent outcome the message fires
	// on.
	AfterSuccess bool `json:"after_success" yaml:"after_success"`

	// MatchAnywhere lets a verbatim message fire when its
	// template matches any subtree of the submission.
	MatchAnywhere bool `json:"match_anywhere" yaml:"match_anywhere"`
}

// PageDecl describes one tutorial page: an ordered sequence of
// steps plus trailing closing text.
type PageDecl struct {
	// Slug uniquely addresses the page. Required.
	Slug string `json:"slug" yaml:"slug"`

	// Title is the display title; derived from the slug when
	// empty.
	Title string `json:"title" yaml:"title"`

	// Steps holds the step declarations in display order.
	Steps []StepDecl `json:"steps" yaml:"steps"`

	// FinalText is the closing markup shown after the last step.
	FinalText string `json:"final_text" yaml:"final_text"`
}

// ChapterDecl groups pages; purely organizational.
type ChapterDecl struct {
	Title string     `json:"title" yaml:"title"`
	Pages []PageDecl `json:"pages" yaml:"pages"`
}

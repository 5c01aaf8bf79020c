package course

import (
	"strings"

	"digital.vasic.tutor/pkg/step"
)

// FinalTextName is the pseudo-step name under which a page's
// closing text appears in the step listing.
const FinalTextName = "final_text"

// Page is the built, immutable form of a tutorial page: its steps
// in declaration order plus the rendered closing text.
type Page struct {
	// Slug uniquely addresses the page.
	Slug string

	// Title is the rendered display title.
	Title string

	// FinalText is the rendered closing markup.
	FinalText string

	registry *Registry
	steps    []*step.Step
	byName   map[string]*step.Step
}

// StepInfo is the introspection record consumed by the rendering
// and navigation layer.
type StepInfo struct {
	Name  string   `json:"name"`
	Text  string   `json:"text"`
	Hints []string `json:"hints"`
}

// buildPage validates and normalizes one page declaration.
func buildPage(r *Registry, decl step.PageDecl) (*Page, error) {
	if decl.Slug == "" {
		return nil, authoringErr("", "", "page has no slug")
	}
	if len(decl.Steps) == 0 {
		return nil, authoringErr(decl.Slug, "", "page has no steps")
	}
	if decl.FinalText == "" {
		return nil, authoringErr(decl.Slug, "", "page has no final text")
	}
	if err := noWeirdWhitespace(decl.FinalText); err != nil {
		return nil, authoringErr(decl.Slug, "", "final text: %v", err)
	}

	title := decl.Title
	if title == "" {
		title = titleFromSlug(decl.Slug)
	}
	title, err := renderInline(title)
	if err != nil {
		return nil, authoringErr(decl.Slug, "", "title: %v", err)
	}

	finalText, err := renderMarkdown(strings.TrimSpace(dedent(decl.FinalText)))
	if err != nil {
		return nil, authoringErr(decl.Slug, "", "final text: %v", err)
	}

	page := &Page{
		Slug:      decl.Slug,
		Title:     title,
		FinalText: finalText,
		registry:  r,
		byName:    make(map[string]*step.Step, len(decl.Steps)),
	}
	for _, sd := range decl.Steps {
		built, err := buildStep(decl.Slug, sd)
		if err != nil {
			return nil, err
		}
		if _, dup := page.byName[built.Name]; dup {
			return nil, authoringErr(decl.Slug, built.Name, "duplicate step name")
		}
		page.steps = append(page.steps, built)
		page.byName[built.Name] = built
	}
	return page, nil
}

// Step retrieves a step by name.
func (p *Page) Step(name string) (*step.Step, bool) {
	s, ok := p.byName[name]
	return s, ok
}

// Steps returns the page's steps in declaration order.
func (p *Page) Steps() []*step.Step {
	out := make([]*step.Step, len(p.steps))
	copy(out, p.steps)
	return out
}

// StepNames returns the step names in order, with the final text
// pseudo-step appended.
func (p *Page) StepNames() []string {
	out := make([]string, 0, len(p.steps)+1)
	for _, s := range p.steps {
		out = append(out, s.Name)
	}
	return append(out, FinalTextName)
}

// StepTexts returns the rendered step texts in order, ending with
// the closing text.
func (p *Page) StepTexts() []string {
	out := make([]string, 0, len(p.steps)+1)
	for _, s := range p.steps {
		out = append(out, s.Text)
	}
	return append(out, p.FinalText)
}

// StepInfos returns the introspection records for every step and
// the final text.
func (p *Page) StepInfos() []StepInfo {
	out := make([]StepInfo, 0, len(p.steps)+1)
	for _, s := range p.steps {
		out = append(out, StepInfo{Name: s.Name, Text: s.Text, Hints: s.Hints})
	}
	return append(out, StepInfo{Name: FinalTextName, Text: p.FinalText, Hints: []string{}})
}

// Index returns the page's position in the global page order.
func (p *Page) Index() int {
	return p.registry.indexOf(p.Slug)
}

// NextPage returns the following page in registration order, or
// nil at the end.
func (p *Page) NextPage() *Page {
	i := p.Index()
	if i < 0 || i+1 >= len(p.registry.slugs) {
		return nil
	}
	return p.registry.pages[p.registry.slugs[i+1]]
}

// PreviousPage returns the preceding page, or nil at the start.
func (p *Page) PreviousPage() *Page {
	i := p.Index()
	if i <= 0 {
		return nil
	}
	return p.registry.pages[p.registry.slugs[i-1]]
}

// Chapter groups pages; purely organizational.
type Chapter struct {
	Title string
	Pages []*Page
}

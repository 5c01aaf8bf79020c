package course

import (
	"fmt"
	"sync"

	"digital.vasic.tutor/pkg/step"
)

// Registry holds every built page, keyed by slug and ordered by
// registration. It is sealed once building completes; reads after
// that are lock-free and safe to share across concurrent
// verification calls.
type Registry struct {
	mu       sync.Mutex
	pages    map[string]*Page
	slugs    []string
	chapters []*Chapter
	sealed   bool
}

// NewRegistry creates an empty, unsealed Registry.
func NewRegistry() *Registry {
	return &Registry{pages: make(map[string]*Page)}
}

// Build constructs a sealed registry from page declarations. Any
// authoring fault aborts the build.
func Build(decls ...step.PageDecl) (*Registry, error) {
	r := NewRegistry()
	for _, decl := range decls {
		if err := r.Add(decl); err != nil {
			return nil, err
		}
	}
	r.Seal()
	return r, nil
}

// BuildChapters constructs a sealed registry from chapter
// declarations, preserving chapter grouping for navigation.
func BuildChapters(decls ...step.ChapterDecl) (*Registry, error) {
	r := NewRegistry()
	for _, ch := range decls {
		if err := r.AddChapter(ch); err != nil {
			return nil, err
		}
	}
	r.Seal()
	return r, nil
}

// Add builds and registers one page. It fails after Seal, or when
// the slug is already taken.
func (r *Registry) Add(decl step.PageDecl) error {
	page, err := buildPage(r, decl)
	if err != nil {
		return err
	}
	return r.register(page)
}

// AddChapter builds and registers a chapter's pages as a group.
func (r *Registry) AddChapter(decl step.ChapterDecl) error {
	chapter := &Chapter{Title: decl.Title}
	for _, pd := range decl.Pages {
		page, err := buildPage(r, pd)
		if err != nil {
			return err
		}
		if err := r.register(page); err != nil {
			return err
		}
		chapter.Pages = append(chapter.Pages, page)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chapters = append(r.chapters, chapter)
	return nil
}

func (r *Registry) register(page *Page) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("registry is sealed; cannot register page %s", page.Slug)
	}
	if _, exists := r.pages[page.Slug]; exists {
		return authoringErr(page.Slug, "", "duplicate page slug")
	}
	r.pages[page.Slug] = page
	r.slugs = append(r.slugs, page.Slug)
	return nil
}

// Seal freezes the registry. Page order is fixed from here on.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// Sealed reports whether building has completed.
func (r *Registry) Sealed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sealed
}

// Page retrieves a page by slug.
func (r *Registry) Page(slug string) (*Page, bool) {
	p, ok := r.pages[slug]
	return p, ok
}

// Slugs returns the page slugs in registration order.
func (r *Registry) Slugs() []string {
	out := make([]string, len(r.slugs))
	copy(out, r.slugs)
	return out
}

// Pages returns all pages in registration order.
func (r *Registry) Pages() []*Page {
	out := make([]*Page, 0, len(r.slugs))
	for _, slug := range r.slugs {
		out = append(out, r.pages[slug])
	}
	return out
}

// Chapters returns the chapter grouping, empty when pages were
// registered without chapters.
func (r *Registry) Chapters() []*Chapter {
	out := make([]*Chapter, len(r.chapters))
	copy(out, r.chapters)
	return out
}

func (r *Registry) indexOf(slug string) int {
	for i, s := range r.slugs {
		if s == slug {
			return i
		}
	}
	return -1
}

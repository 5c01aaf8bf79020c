package course

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"digital.vasic.tutor/pkg/step"
)

// Library resolves solution names in content files to registered
// reference callables. Safe for concurrent use.
type Library struct {
	mu    sync.RWMutex
	funcs map[string]*step.Callable
}

// NewLibrary creates an empty Library.
func NewLibrary() *Library {
	return &Library{funcs: make(map[string]*step.Callable)}
}

// Register adds a reference solution under a content-file name.
// Returns an error on a duplicate name.
func (l *Library) Register(name string, c *step.Callable) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.funcs[name]; exists {
		return fmt.Errorf("solution already registered: %s", name)
	}
	l.funcs[name] = c
	return nil
}

// Get retrieves a registered solution by name.
func (l *Library) Get(name string) (*step.Callable, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.funcs[name]
	return c, ok
}

// ContentFile is the on-disk structure of a page definition file
// (JSON or YAML).
type ContentFile struct {
	Version string    `json:"version" yaml:"version"`
	Name    string    `json:"name" yaml:"name"`
	Pages   []PageDef `json:"pages" yaml:"pages"`
}

// PageDef is the file form of a page declaration.
type PageDef struct {
	Slug      string    `json:"slug" yaml:"slug"`
	Title     string    `json:"title" yaml:"title"`
	FinalText string    `json:"final_text" yaml:"final_text"`
	Steps     []StepDef `json:"steps" yaml:"steps"`
}

// StepDef is the file form of a step declaration. Solution names
// a callable in the Library; code cannot live in content files.
type StepDef struct {
	Name           string          `json:"name" yaml:"name"`
	Kind           string          `json:"kind" yaml:"kind"`
	Text           string          `json:"text" yaml:"text"`
	ProgramInText  *bool           `json:"program_in_text" yaml:"program_in_text"`
	Program        string          `json:"program" yaml:"program"`
	Solution       string          `json:"solution" yaml:"solution"`
	SolutionSource string          `json:"solution_source" yaml:"solution_source"`
	Hints          []string        `json:"hints" yaml:"hints"`
	Tests          []step.TestDecl `json:"tests" yaml:"tests"`
	ExpectedOrigin string          `json:"expected_origin" yaml:"expected_origin"`
	Messages       []MessageDef    `json:"messages" yaml:"messages"`
}

// MessageDef is the file form of a nested message declaration.
type MessageDef struct {
	StepDef       `yaml:",inline"`
	AfterSuccess  bool `json:"after_success" yaml:"after_success"`
	MatchAnywhere bool `json:"match_anywhere" yaml:"match_anywhere"`
}

// ValidationError reports an issue found in a content file.
type ValidationError struct {
	Field   string
	Message string
	Index   int // -1 if not applicable
}

func (e ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("pages[%d].%s: %s", e.Index, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateContent checks the file-level structure and returns all
// problems found. Step-level semantics are validated by Build.
func ValidateContent(file *ContentFile) []ValidationError {
	var errs []ValidationError
	if file.Version == "" {
		errs = append(errs, ValidationError{
			Field: "version", Message: "version is required", Index: -1,
		})
	}
	slugs := make(map[string]bool)
	for i, p := range file.Pages {
		if p.Slug == "" {
			errs = append(errs, ValidationError{
				Field: "slug", Message: "page slug is required", Index: i,
			})
		} else if slugs[p.Slug] {
			errs = append(errs, ValidationError{
				Field: "slug", Message: "duplicate page slug: " + p.Slug, Index: i,
			})
		}
		slugs[p.Slug] = true
		if len(p.Steps) == 0 {
			errs = append(errs, ValidationError{
				Field: "steps", Message: "page has no steps", Index: i,
			})
		}
	}
	return errs
}

// Loader reads page declarations from content files, resolving
// solution references against a Library.
type Loader struct {
	library *Library
}

// NewLoader creates a Loader over the given Library.
func NewLoader(library *Library) *Loader {
	return &Loader{library: library}
}

// LoadFile reads one JSON or YAML content file into page
// declarations ready for Build.
func (l *Loader) LoadFile(path string) ([]step.PageDecl, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content file %s: %w", path, err)
	}

	var file ContentFile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &file)
	} else {
		err = yaml.Unmarshal(data, &file)
	}
	if err != nil {
		return nil, fmt.Errorf("parse content file %s: %w", path, err)
	}

	if errs := ValidateContent(&file); len(errs) > 0 {
		return nil, fmt.Errorf("content file %s: %w", path, errs[0])
	}

	decls := make([]step.PageDecl, 0, len(file.Pages))
	for _, p := range file.Pages {
		decl, err := l.pageDecl(p)
		if err != nil {
			return nil, fmt.Errorf("content file %s: %w", path, err)
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

// LoadDir loads every .json, .yaml, and .yml content file in a
// directory, in name order, without recursing.
func (l *Loader) LoadDir(dir string) ([]step.PageDecl, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read content directory %s: %w", dir, err)
	}

	var decls []step.PageDecl
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".json", ".yaml", ".yml":
		default:
			continue
		}
		loaded, err := l.LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		decls = append(decls, loaded...)
	}
	return decls, nil
}

func (l *Loader) pageDecl(p PageDef) (step.PageDecl, error) {
	decl := step.PageDecl{
		Slug:      p.Slug,
		Title:     p.Title,
		FinalText: p.FinalText,
	}
	for _, sd := range p.Steps {
		built, err := l.stepDecl(p.Slug, sd)
		if err != nil {
			return step.PageDecl{}, err
		}
		decl.Steps = append(decl.Steps, built)
	}
	return decl, nil
}

func (l *Loader) stepDecl(slug string, sd StepDef) (step.StepDecl, error) {
	decl := step.StepDecl{
		Name:           sd.Name,
		Kind:           step.Kind(sd.Kind),
		Text:           sd.Text,
		ProgramInText:  sd.ProgramInText,
		Program:        sd.Program,
		SolutionSource: sd.SolutionSource,
		Hints:          sd.Hints,
		Tests:          sd.Tests,
		ExpectedOrigin: step.Origin(sd.ExpectedOrigin),
	}
	if sd.Solution != "" {
		callable, ok := l.library.Get(sd.Solution)
		if !ok {
			return step.StepDecl{}, fmt.Errorf(
				"page %s, step %s: unknown solution %q",
				slug, sd.Name, sd.Solution,
			)
		}
		decl.Solution = callable
	}
	for _, md := range sd.Messages {
		inner, err := l.stepDecl(slug, md.StepDef)
		if err != nil {
			return step.StepDecl{}, err
		}
		decl.Messages = append(decl.Messages, step.MessageDecl{
			StepDecl:      inner,
			AfterSuccess:  md.AfterSuccess,
			MatchAnywhere: md.MatchAnywhere,
		})
	}
	return decl, nil
}

// Package match compares learner programs against template
// programs structurally, using tree-sitter syntax trees. Matching
// is tolerant of formatting and quote style but strict about
// identifier and literal case, with a dedicated advisory result
// when case is the only difference.
package match

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrSyntax reports that a source text failed to parse. The
// dispatcher converts it into a plain failing verdict.
var ErrSyntax = errors.New("source does not parse")

// Wildcard is the template identifier that matches any subtree.
const Wildcard = "__any__"

// CaseAdvisory is the feedback surfaced when a submission matches
// the template only after lower-casing both sources.
const CaseAdvisory = "Python is case sensitive! That means that small and capital " +
	"letters matter and changing them changes the meaning of the program. " +
	"The strings `'hello'` and `'Hello'` are different, as are the variable " +
	"names `word` and `Word`."

// Kind is the tri-state outcome of a structural match.
type Kind int

const (
	// KindNone means the trees do not match.
	KindNone Kind = iota

	// KindCase means the trees match only after lower-casing
	// both sources; Advisory carries the feedback text.
	KindCase

	// KindExact means the trees match as written.
	KindExact
)

// Result is the outcome of Match.
type Result struct {
	Kind     Kind
	Advisory string
}

// Matched reports whether the result is an exact match.
func (r Result) Matched() bool { return r.Kind == KindExact }

// Match parses both sources and compares their trees under
// template equivalence. A candidate that fails to parse returns
// ErrSyntax; a template that fails to parse is an authoring bug
// and returns an ordinary error.
func Match(candidate, template string) (Result, error) {
	ok, err := treesMatch(candidate, template)
	if err != nil {
		return Result{}, err
	}
	if ok {
		return Result{Kind: KindExact}, nil
	}

	// The most common near-miss for beginners is case drift, so
	// name that mistake instead of failing silently.
	ok, err = treesMatch(
		strings.ToLower(candidate), strings.ToLower(template),
	)
	if err == nil && ok {
		return Result{Kind: KindCase, Advisory: CaseAdvisory}, nil
	}
	return Result{Kind: KindNone}, nil
}

// Search reports whether the template matches any subtree of the
// candidate, rather than the whole program.
func Search(candidate, template string) (bool, error) {
	ctree, csrc, err := parse(candidate)
	if err != nil {
		return false, err
	}
	defer ctree.Close()

	ttree, tsrc, err := parseTemplate(template)
	if err != nil {
		return false, err
	}
	defer ttree.Close()

	for _, target := range templateTargets(ttree.RootNode()) {
		if searchNode(ctree.RootNode(), target, csrc, tsrc) {
			return true, nil
		}
	}
	return false, nil
}

// Validate checks that a source text parses. Used at build time
// on templates and canonical programs.
func Validate(source string) error {
	tree, _, err := parse(source)
	if err != nil {
		return err
	}
	tree.Close()
	return nil
}

func treesMatch(candidate, template string) (bool, error) {
	ctree, csrc, err := parse(candidate)
	if err != nil {
		return false, err
	}
	defer ctree.Close()

	ttree, tsrc, err := parseTemplate(template)
	if err != nil {
		return false, err
	}
	defer ttree.Close()

	return nodesEqual(ctree.RootNode(), ttree.RootNode(), csrc, tsrc), nil
}

// parse builds a tree for one source. A new parser per call keeps
// the function safe for concurrent use.
func parse(source string) (*sitter.Tree, []byte, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	src := []byte(source)
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, nil, fmt.Errorf("tree-sitter parse: %w", err)
	}
	root := tree.RootNode()
	if root == nil || root.HasError() {
		tree.Close()
		return nil, nil, ErrSyntax
	}
	return tree, src, nil
}

func parseTemplate(template string) (*sitter.Tree, []byte, error) {
	tree, src, err := parse(template)
	if errors.Is(err, ErrSyntax) {
		return nil, nil, fmt.Errorf("template %w", ErrSyntax)
	}
	return tree, src, err
}

// nodesEqual implements template equivalence: node kinds align,
// string literals compare by content regardless of quote style,
// other leaves compare by exact text, and a template wildcard
// identifier accepts any candidate subtree.
func nodesEqual(cand, tmpl *sitter.Node, csrc, tsrc []byte) bool {
	if isWildcard(tmpl, tsrc) {
		return true
	}
	if cand.Type() != tmpl.Type() {
		return false
	}

	if cand.Type() == "string" {
		return stringContent(cand, csrc) == stringContent(tmpl, tsrc)
	}

	cc := meaningfulChildren(cand)
	tc := meaningfulChildren(tmpl)
	if len(cc) == 0 && len(tc) == 0 {
		return cand.Content(csrc) == tmpl.Content(tsrc)
	}
	if len(cc) != len(tc) {
		return false
	}
	for i := range cc {
		if !nodesEqual(cc[i], tc[i], csrc, tsrc) {
			return false
		}
	}
	return true
}

func isWildcard(n *sitter.Node, src []byte) bool {
	return n.Type() == "identifier" && n.Content(src) == Wildcard
}

// meaningfulChildren returns the named children that carry
// program structure. Comments are not part of the match relation.
func meaningfulChildren(n *sitter.Node) []*sitter.Node {
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

// stringContent joins the content fragments of a string literal,
// skipping the quote tokens so 'x' and "x" compare equal.
func stringContent(n *sitter.Node, src []byte) string {
	var b strings.Builder
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "string_start", "string_end":
		default:
			b.WriteString(child.Content(src))
		}
	}
	return b.String()
}

// templateTargets picks the nodes a Search template stands for:
// each top-level statement, unwrapped from its expression
// statement when it is a bare expression.
func templateTargets(root *sitter.Node) []*sitter.Node {
	var targets []*sitter.Node
	for _, stmt := range meaningfulChildren(root) {
		targets = append(targets, stmt)
		if stmt.Type() == "expression_statement" {
			if inner := meaningfulChildren(stmt); len(inner) == 1 {
				targets = append(targets, inner[0])
			}
		}
	}
	return targets
}

func searchNode(cand, target *sitter.Node, csrc, tsrc []byte) bool {
	if nodesEqual(cand, target, csrc, tsrc) {
		return true
	}
	for _, child := range meaningfulChildren(cand) {
		if searchNode(child, target, csrc, tsrc) {
			return true
		}
	}
	return false
}

package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch_IdenticalPrograms(t *testing.T) {
	r, err := Match(
		`print("Hello, World!")`,
		`print("Hello, World!")`,
	)
	require.NoError(t, err)
	assert.Equal(t, KindExact, r.Kind)
	assert.True(t, r.Matched())
}

func TestMatch_QuoteStyleIsIrrelevant(t *testing.T) {
	r, err := Match(
		`print('Hello, World!')`,
		`print("Hello, World!")`,
	)
	require.NoError(t, err)
	assert.Equal(t, KindExact, r.Kind)
}

func TestMatch_FormattingIsIrrelevant(t *testing.T) {
	r, err := Match(
		`x  =  1`,
		`x = 1`,
	)
	require.NoError(t, err)
	assert.Equal(t, KindExact, r.Kind)
}

func TestMatch_CaseDriftReturnsAdvisory(t *testing.T) {
	r, err := Match(
		`print("hello, world!")`,
		`print("Hello, World!")`,
	)
	require.NoError(t, err)
	assert.Equal(t, KindCase, r.Kind)
	assert.Equal(t, CaseAdvisory, r.Advisory)
	assert.False(t, r.Matched())
}

func TestMatch_CaseDriftInIdentifier(t *testing.T) {
	r, err := Match(
		`Word = "bird"`,
		`word = "bird"`,
	)
	require.NoError(t, err)
	assert.Equal(t, KindCase, r.Kind)
}

func TestMatch_DifferentIdentifierIsNoMatch(t *testing.T) {
	r, err := Match(
		`prin("Hello, World!")`,
		`print("Hello, World!")`,
	)
	require.NoError(t, err)
	assert.Equal(t, KindNone, r.Kind)
}

func TestMatch_DifferentLiteralIsNoMatch(t *testing.T) {
	r, err := Match(`x = 2`, `x = 1`)
	require.NoError(t, err)
	assert.Equal(t, KindNone, r.Kind)
}

func TestMatch_DifferentStructureIsNoMatch(t *testing.T) {
	r, err := Match(`x = 1`, `print(1)`)
	require.NoError(t, err)
	assert.Equal(t, KindNone, r.Kind)
}

func TestMatch_ExtraStatementIsNoMatch(t *testing.T) {
	r, err := Match("x = 1\ny = 2", "x = 1")
	require.NoError(t, err)
	assert.Equal(t, KindNone, r.Kind)
}

func TestMatch_CommentsAreIgnored(t *testing.T) {
	r, err := Match(
		"x = 1  # set x\n",
		"x = 1",
	)
	require.NoError(t, err)
	assert.Equal(t, KindExact, r.Kind)
}

func TestMatch_CandidateSyntaxError(t *testing.T) {
	_, err := Match(`print(`, `print(1)`)
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestMatch_WildcardAcceptsAnySubtree(t *testing.T) {
	r, err := Match(
		`print("hi " + name)`,
		`print(__any__)`,
	)
	require.NoError(t, err)
	assert.Equal(t, KindExact, r.Kind)
}

func TestMatch_WildcardStillChecksStructure(t *testing.T) {
	r, err := Match(
		`input(__whatever__)`,
		`print(__any__)`,
	)
	require.NoError(t, err)
	assert.Equal(t, KindNone, r.Kind)
}

func TestMatch_MultiLinePrograms(t *testing.T) {
	candidate := "def greet(name):\n    print('hello ' + name)"
	template := "def greet(name):\n    print(\"hello \" + name)"
	r, err := Match(candidate, template)
	require.NoError(t, err)
	assert.Equal(t, KindExact, r.Kind)
}

func TestSearch_FindsTemplateInsideProgram(t *testing.T) {
	source := "x = 1\nfor word in words:\n    print(word)\n"
	found, err := Search(source, "print(__any__)")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestSearch_AbsentTemplate(t *testing.T) {
	found, err := Search("x = 1", "print(__any__)")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(`print("ok")`))
	assert.ErrorIs(t, Validate(`def (`), ErrSyntax)
}

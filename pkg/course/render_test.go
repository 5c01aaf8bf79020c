package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTitleFromSlug(t *testing.T) {
	cases := map[string]string{
		"IntroducingVariables": "Introducing Variables",
		"introducing_variables": "Introducing Variables",
		"for-loops":             "For Loops",
		"intro":                 "Intro",
	}
	for slug, want := range cases {
		assert.Equal(t, want, titleFromSlug(slug), "slug %q", slug)
	}
}

func TestRenderInline(t *testing.T) {
	html, err := renderInline("Getting *Started*")
	require.NoError(t, err)
	assert.Equal(t, "Getting <em>Started</em>", html)
}

func TestNoWeirdWhitespace(t *testing.T) {
	assert.NoError(t, noWeirdWhitespace("plain text\nwith lines"))
	assert.Error(t, noWeirdWhitespace("has\ta tab"))
	assert.Error(t, noWeirdWhitespace("has\ra return"))
	assert.Error(t, noWeirdWhitespace("has a nbsp"))
}

func TestDedent(t *testing.T) {
	assert.Equal(t,
		"first\n    second",
		dedent("    first\n        second"))
	assert.Equal(t,
		"first\n\nsecond",
		dedent("  first\n\n  second"))
	assert.Equal(t, "no margin", dedent("no margin"))
}

func TestIndent(t *testing.T) {
	assert.Equal(t,
		"    a\n\n    b",
		indent("a\n\nb", "    "))
}

func TestPythonLiteral(t *testing.T) {
	assert.Equal(t, "None", pythonLiteral(nil))
	assert.Equal(t, "True", pythonLiteral(true))
	assert.Equal(t, "False", pythonLiteral(false))
	assert.Equal(t, "42", pythonLiteral(42))
	assert.Equal(t, "2.5", pythonLiteral(2.5))
	assert.Equal(t, "'bird'", pythonLiteral("bird"))
	assert.Equal(t, `'it\'s'`, pythonLiteral("it's"))
	assert.Equal(t, `'a\nb'`, pythonLiteral("a\nb"))
	assert.Equal(t, "[1, 'two', [3]]", pythonLiteral([]any{1, "two", []any{3}}))
	assert.Equal(t,
		"{'a': 1, 'b': 2}",
		pythonLiteral(map[string]any{"b": 2, "a": 1}))
}

func TestInputsString(t *testing.T) {
	got := inputsString(
		map[string]any{"name": "spam", "count": 3},
		[]string{"count", "name"},
	)
	assert.Equal(t, "count = 3\nname = 'spam'", got)
}

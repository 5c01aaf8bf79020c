package course

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
)

var markdown = goldmark.New()

// renderMarkdown converts instructional markup to HTML.
func renderMarkdown(text string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// renderInline converts markup and strips the wrapping paragraph,
// for single-line values such as page titles.
func renderInline(text string) (string, error) {
	html, err := renderMarkdown(text)
	if err != nil {
		return "", err
	}
	html = strings.TrimPrefix(html, "<p>")
	html = strings.TrimSuffix(html, "</p>")
	return html, nil
}

// titleFromSlug derives a display title from a page slug:
// "IntroducingVariables" and "introducing_variables" both become
// "Introducing Variables".
func titleFromSlug(slug string) string {
	var words []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	for _, r := range slug {
		switch {
		case r == '_' || r == '-' || r == ' ':
			flush()
		case unicode.IsUpper(r):
			flush()
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
	}
	flush()

	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// noWeirdWhitespace rejects whitespace that survives copy-paste
// but breaks Python programs or rendered text.
func noWeirdWhitespace(text string) error {
	for _, bad := range []struct {
		char rune
		name string
	}{
		{'\t', "tab"},
		{'\r', "carriage return"},
		{' ', "non-breaking space"},
		{'', "vertical tab"},
		{'', "form feed"},
	} {
		if strings.ContainsRune(text, bad.char) {
			return fmt.Errorf("text contains a %s character", bad.name)
		}
	}
	return nil
}

// dedent strips the longest common leading whitespace from every
// non-blank line.
func dedent(text string) string {
	lines := strings.Split(text, "\n")
	margin := -1
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" {
			continue
		}
		indent := len(line) - len(trimmed)
		if margin < 0 || indent < margin {
			margin = indent
		}
	}
	if margin <= 0 {
		return text
	}
	for i, line := range lines {
		if len(line) >= margin {
			lines[i] = line[margin:]
		} else {
			lines[i] = strings.TrimLeft(line, " ")
		}
	}
	return strings.Join(lines, "\n")
}

// indent prefixes every non-blank line.
func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

package course

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// pythonLiteral renders a Go value as the Python literal a learner
// would type, for input bindings embedded in program text.
func pythonLiteral(v any) string {
	switch val := v.(type) {
	case nil:
		return "None"
	case bool:
		if val {
			return "True"
		}
		return "False"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case string:
		return pythonString(val)
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = pythonLiteral(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = pythonString(k) + ": " + pythonLiteral(val[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return fmt.Sprintf("%v", v)
}

func pythonString(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// inputsString renders test inputs as assignment lines in
// parameter order, the preamble of a whole-script exercise
// program.
func inputsString(inputs map[string]any, params []string) string {
	lines := make([]string, 0, len(inputs))
	for _, name := range params {
		if value, ok := inputs[name]; ok {
			lines = append(lines, name+" = "+pythonLiteral(value))
		}
	}
	return strings.Join(lines, "\n")
}

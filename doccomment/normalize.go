package doccomment

import (
	"strings"

	"go.jacobcolvin.com/nixdoc/doccomment/grammar"
)

const blank = " \t\r\n"

// Normalize turns a raw doc comment, delimiters and original indentation
// included, into its documentation text.
//
// The common indentation is removed, the "/**" opener is replaced by spaces
// so that text on the first line keeps its column, the "*/" closer is
// dropped, and the result is unindented and trimmed once more.
func Normalize(raw string) string {
	s := trimUnindent(raw)

	if rest, ok := strings.CutPrefix(s, grammar.Opener); ok {
		s = "   " + rest
	}

	s = strings.TrimSuffix(s, "/")
	s = strings.TrimSuffix(s, "*")

	return trimUnindent(s)
}

func trimUnindent(s string) string {
	return strings.Trim(unindent(strings.TrimRight(s, "\n")), blank)
}

// unindent removes the smallest indentation of any non-blank line from every
// line. Only whole columns are removed: lines shorter than the indentation
// become empty.
func unindent(s string) string {
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	indent := -1

	for _, line := range lines {
		n := len(line) - len(strings.TrimLeft(line, blank))
		if n < len(line) && (indent < 0 || n < indent) {
			indent = n
		}
	}

	var sb strings.Builder

	for _, line := range lines {
		if indent >= 0 && len(line) >= indent {
			sb.WriteString(line[indent:])
		}

		sb.WriteByte('\n')
	}

	return sb.String()
}

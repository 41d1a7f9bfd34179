package doccomment

import (
	"regexp"
	"strings"

	"go.jacobcolvin.com/nixdoc/doccomment/grammar"
)

var (
	fullMatcher   = NewMatcher(false)
	simpleMatcher = NewMatcher(true)
)

// Match is a doc comment found in front of a definition.
type Match struct {
	// Raw is the comment including its delimiters and the indentation in
	// front of its first line.
	Raw string
	// Attr is the last segment of the attribute path assigned between the
	// comment and the definition, if any.
	Attr string
	// Start and End are the byte offsets of Raw in the searched text.
	Start int
	End   int
	// Lambdas is the number of curried lambda parameters between the comment
	// and the definition.
	Lambdas int
}

// Matcher finds the doc comment at the end of a source prefix.
// A Matcher is safe for concurrent use.
//
// Create instances with [NewMatcher].
type Matcher struct {
	re      *regexp.Regexp
	lambda  *regexp.Regexp
	doc     int
	attr    int
	lambdas int
}

// NewMatcher creates a [Matcher]. A simple matcher only accepts whitespace
// and line comments after the doc comment; otherwise an attribute path
// assignment and curried lambda parameters are accepted too.
func NewMatcher(simple bool) *Matcher {
	re := grammar.MustCompile(simple)

	return &Matcher{
		re:      re,
		lambda:  regexp.MustCompile(grammar.Start + grammar.Lambda),
		doc:     re.SubexpIndex(grammar.GroupDoc),
		attr:    re.SubexpIndex(grammar.GroupAttr),
		lambdas: re.SubexpIndex(grammar.GroupLambdas),
	}
}

// Match reports the doc comment that ends prefix, if any.
//
// The text is read backwards from its end, one line at a time, over the
// text that may follow a doc comment: whitespace, line comments, an
// attribute path assignment and lambda parameters. The first line holding
// anything else must hold the "*/" that closes the comment. The comment
// itself starts at the first "/*" after the block comment before it, not
// counting "/*" inside line comments or inside a "..." string on the same
// line. If that comment is a plain "/*" comment, there is no match.
//
// As in the Nix lexer, a comment runs to the first "*/", so a "/**" quoted
// inside a doc comment is part of its text. Every byte of prefix is examined
// a bounded number of times.
func (m *Matcher) Match(prefix string) (Match, bool) {
	closer, ok := findCloser(prefix)
	if !ok {
		return Match{}, false
	}

	opener, ok := findOpener(prefix, closer)
	if !ok {
		return Match{}, false
	}

	return m.matchAt(prefix, opener)
}

func (m *Matcher) matchAt(prefix string, idx int) (Match, bool) {
	start := indentStart(prefix, idx)
	tail := prefix[start:]

	loc := m.re.FindStringSubmatchIndex(tail)
	if loc == nil {
		return Match{}, false
	}

	raw := submatch(tail, loc, m.doc)
	if raw == "" {
		return Match{}, false
	}

	match := Match{
		Raw:   raw,
		Start: start + loc[2*m.doc],
		End:   start + loc[2*m.doc+1],
	}

	if m.attr >= 0 {
		match.Attr = submatch(tail, loc, m.attr)
	}

	if m.lambdas >= 0 {
		match.Lambdas = m.countLambdas(submatch(tail, loc, m.lambdas))
	}

	return match, true
}

// countLambdas walks a matched lambda chain one parameter at a time, so that
// text inside line comments is never counted.
func (m *Matcher) countLambdas(chain string) int {
	n := 0

	for chain != "" {
		loc := m.lambda.FindStringIndex(chain)
		if loc == nil || loc[1] == 0 {
			break
		}

		chain = chain[loc[1]:]
		n++
	}

	return n
}

// findCloser returns the offset of the last "*/" in prefix that is followed
// only by trailer text. Lines made of trailer text alone are skipped; on the
// first other line, the leftmost "*/" whose remainder is trailer text wins,
// since any later one sits inside a line comment.
func findCloser(prefix string) (int, bool) {
	end := len(prefix)

	for {
		lineStart := strings.LastIndexByte(prefix[:end], '\n') + 1
		line := prefix[lineStart:end]

		if !isTrailer(line) {
			for i := 0; ; {
				k := strings.Index(line[i:], grammar.Closer)
				if k < 0 {
					return -1, false
				}

				i += k + len(grammar.Closer)
				if isTrailer(line[i:]) {
					return lineStart + i - len(grammar.Closer), true
				}
			}
		}

		if lineStart == 0 {
			return -1, false
		}

		end = lineStart - 1
	}
}

// findOpener returns the offset of the "/**" that opens the comment closed at
// closer. Scanning starts on the line of the previous "*/" and skips block
// comments, line comments and "..." strings; the first block comment that is
// still open at closer is the one closer ends.
func findOpener(prefix string, closer int) (int, bool) {
	from := strings.LastIndex(prefix[:closer], grammar.Closer)
	if from < 0 {
		from = 0
	}

	from = strings.LastIndexByte(prefix[:from], '\n') + 1

	inString := false

	for i := from; i < closer; i++ {
		switch c := prefix[i]; {
		case c == '\n':
			inString = false

		case inString && c == '\\':
			i++

		case c == '"':
			inString = !inString

		case inString:

		case c == '#':
			nl := strings.IndexByte(prefix[i:closer], '\n')
			if nl < 0 {
				return -1, false
			}

			i += nl - 1

		case strings.HasPrefix(prefix[i:], "/*"):
			if i+2 > closer {
				return -1, false
			}

			end := strings.Index(prefix[i+2:closer], grammar.Closer)
			if end >= 0 {
				i += 2 + end + len(grammar.Closer) - 1

				continue
			}

			if strings.HasPrefix(prefix[i:], grammar.Opener) && i+len(grammar.Opener) <= closer {
				return i, true
			}

			return -1, false
		}
	}

	return -1, false
}

// isTrailer reports whether s, a single line, holds only text that may
// separate a doc comment from its definition, optionally ending in a line
// comment.
func isTrailer(s string) bool {
	for i := range len(s) {
		c := s[i]

		switch {
		case c == '#':
			return true
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case strings.IndexByte(" \t\r_'-.=(:", c) >= 0:
		default:
			return false
		}
	}

	return true
}

func submatch(s string, loc []int, group int) string {
	if 2*group+1 >= len(loc) || loc[2*group] < 0 {
		return ""
	}

	return s[loc[2*group]:loc[2*group+1]]
}

// indentStart returns the offset of the run of spaces and tabs that ends at
// idx.
func indentStart(s string, idx int) int {
	for idx > 0 && (s[idx-1] == ' ' || s[idx-1] == '\t') {
		idx--
	}

	return idx
}

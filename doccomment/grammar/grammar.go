// Package grammar holds the pattern fragments used to recognize Nix
// documentation comments in raw source text.
//
// The fragments cover a deliberately small slice of the language: whitespace
// with "#" line comments, identifiers, attribute paths, assignment, curried
// lambda parameters, opening parentheses and the "/** ... */" comment itself.
// Anything outside that slice does not match, so callers report no
// documentation rather than the wrong documentation.
//
// Every fragment is a valid standalone RE2 pattern. Fragments are composed by
// plain string concatenation; [Pattern] builds the full pattern and [Compile]
// compiles it.
package grammar

import "regexp"

// Names of the capture groups in the composed patterns.
const (
	GroupDoc     = "doc"
	GroupAttr    = "attr"
	GroupLambdas = "lambdas"
)

const (
	// Space matches a run of spaces, tabs and line breaks.
	Space = `[ \t\r\n]*`

	// LineComment matches a "#" comment up to the end of its line.
	LineComment = `#[^\r\n]*`

	// Whitespace matches whitespace interleaved with line comments.
	Whitespace = `(?:` + Space + `(?:` + LineComment + Space + `)*)`

	// Ident matches a single identifier.
	Ident = `[a-zA-Z_][a-zA-Z0-9_'-]*`

	// Path matches a dotted attribute path and captures its last segment.
	Path = `(?:(?:` + Ident + Whitespace + `\.` + Whitespace + `)*(?P<` + GroupAttr + `>` + Ident + `))`

	// Assign matches the assignment operator and the whitespace after it.
	Assign = `(?:=` + Whitespace + `)`

	// Binding matches "path =".
	Binding = `(?:` + Path + Whitespace + Assign + `)`

	// LParens matches a run of opening parentheses.
	LParens = `(?:\(` + Whitespace + `)*`

	// Lambda matches a single lambda parameter, "x:", optionally wrapped in
	// opening parentheses.
	Lambda = `(?:` + LParens + Ident + `:` + Whitespace + `)`

	// LambdaChain matches zero or more curried lambda parameters followed by
	// any remaining opening parentheses.
	LambdaChain = `(?P<` + GroupLambdas + `>` + Lambda + `*)` + LParens

	// DocComment matches a "/** ... */" block including the indentation in
	// front of it. The body never contains "*/" and never starts with "/",
	// since "/**/" is an empty plain comment.
	DocComment = `(?P<` + GroupDoc + `>[ \t]*/\*\*(?:(?:[^*/]|\*+[^*/])(?:[^*]|\*+[^*/])*)?\*+/)`

	// Start matches the beginning of the text.
	Start = `\A`

	// Anchor matches the end of the text.
	Anchor = `\z`

	// Opener is the literal that starts every doc comment.
	Opener = "/**"

	// Closer is the literal that ends every block comment.
	Closer = "*/"
)

// Pattern returns the pattern a source suffix must match, from its first byte
// to its last, for the doc comment it starts with to be attributed to the
// definition at the end of the text. The suffix starts at the indentation in
// front of an [Opener].
//
// The full pattern accepts an optional binding and a lambda chain between the
// comment and the definition:
//
//	/** doc */ f = x: y: <definition>
//	f = /** doc */ (x: (y: <definition>
//
// The simple pattern accepts only whitespace and line comments.
func Pattern(simple bool) string {
	if simple {
		return Start + DocComment + Whitespace + Anchor
	}

	return Start + DocComment + Whitespace + Binding + `?` + LambdaChain + Anchor
}

// Compile compiles the pattern returned by [Pattern].
func Compile(simple bool) (*regexp.Regexp, error) {
	return regexp.Compile(Pattern(simple))
}

// MustCompile is like [Compile] but panics if the pattern cannot be compiled.
func MustCompile(simple bool) *regexp.Regexp {
	return regexp.MustCompile(Pattern(simple))
}

// MustCompileFragment compiles a single fragment anchored at both ends, for
// matching a whole string against it.
func MustCompileFragment(fragment string) *regexp.Regexp {
	return regexp.MustCompile(Start + `(?:` + fragment + `)` + Anchor)
}

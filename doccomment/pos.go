package doccomment

import (
	"fmt"
	"strconv"
	"strings"
)

// Origin identifies where the text behind a [Pos] comes from.
//
// It is one of [SourcePath], [StringOrigin] or [StdinOrigin]. Only
// [SourcePath] can be read back to look up documentation.
type Origin interface {
	origin()
}

// SourcePath is the [Origin] of text read from a file.
type SourcePath struct {
	Path string
}

// StringOrigin is the [Origin] of text evaluated from a string.
type StringOrigin struct {
	Source string
}

// StdinOrigin is the [Origin] of text read from standard input.
type StdinOrigin struct{}

func (SourcePath) origin()   {}
func (StringOrigin) origin() {}
func (StdinOrigin) origin()  {}

// Pos is the position of a definition as reported by the parser.
// Line and Column are 1-based; Column counts bytes.
type Pos struct {
	Origin Origin
	Line   int
	Column int
}

// String returns the position as "origin:line:column".
func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", originName(p.Origin), p.Line, p.Column)
}

// ParsePos parses a position of the form "path:line:column" into a [Pos] with
// a [SourcePath] origin. The path itself may contain colons.
func ParsePos(s string) (Pos, error) {
	rest, colStr, ok := cutLast(s, ":")
	if !ok {
		return Pos{}, fmt.Errorf("%w: %q: want path:line:column", ErrInvalidPosition, s)
	}

	path, lineStr, ok := cutLast(rest, ":")
	if !ok || path == "" {
		return Pos{}, fmt.Errorf("%w: %q: want path:line:column", ErrInvalidPosition, s)
	}

	line, err := strconv.Atoi(lineStr)
	if err != nil || line < 1 {
		return Pos{}, fmt.Errorf("%w: %q: line must be a positive integer", ErrInvalidPosition, s)
	}

	col, err := strconv.Atoi(colStr)
	if err != nil || col < 1 {
		return Pos{}, fmt.Errorf("%w: %q: column must be a positive integer", ErrInvalidPosition, s)
	}

	return Pos{
		Origin: SourcePath{Path: path},
		Line:   line,
		Column: col,
	}, nil
}

func cutLast(s, sep string) (string, string, bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, "", false
	}

	return s[:i], s[i+len(sep):], true
}

func originName(o Origin) string {
	switch o := o.(type) {
	case SourcePath:
		return o.Path
	case StringOrigin:
		return "«string»"
	case StdinOrigin:
		return "«stdin»"
	}

	return "«none»"
}

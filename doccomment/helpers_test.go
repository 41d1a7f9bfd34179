package doccomment_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/nixdoc/doccomment"
)

// posAt returns the position of the first occurrence of marker in src.
func posAt(t *testing.T, path, src, marker string) doccomment.Pos {
	t.Helper()

	i := strings.Index(src, marker)
	require.GreaterOrEqual(t, i, 0, "marker %q not found", marker)

	lineStart := strings.LastIndexByte(src[:i], '\n') + 1

	return doccomment.Pos{
		Origin: doccomment.SourcePath{Path: path},
		Line:   strings.Count(src[:i], "\n") + 1,
		Column: i - lineStart + 1,
	}
}

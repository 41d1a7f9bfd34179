package doccomment

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Opener opens source files for reading.
type Opener interface {
	Open(path string) (io.ReadCloser, error)
}

// OSOpener opens files from the operating system.
type OSOpener struct{}

// Open opens the named file with [os.Open].
func (OSOpener) Open(path string) (io.ReadCloser, error) {
	return os.Open(path) //nolint:gosec // Reading the file a position refers to is the point.
}

// FSOpener opens files from an [fs.FS]. Paths must be valid [fs.ValidPath]
// names.
type FSOpener struct {
	FS fs.FS
}

// Open opens the named file from the underlying [fs.FS].
func (o FSOpener) Open(path string) (io.ReadCloser, error) {
	return o.FS.Open(path)
}

// DirOpener opens files below the directory Root. Relative paths are
// resolved against Root. Absolute paths must lie inside Root; they are opened
// by their path relative to it.
type DirOpener struct {
	Root string
}

// Open opens the named file below Root. Paths leaving Root fail with
// [ErrOutsideRoot].
func (o DirOpener) Open(path string) (io.ReadCloser, error) {
	name := filepath.Clean(path)

	if filepath.IsAbs(name) {
		root, err := filepath.Abs(o.Root)
		if err != nil {
			return nil, fmt.Errorf("resolve root: %w", err)
		}

		name, err = filepath.Rel(root, name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrOutsideRoot, path)
		}
	}

	if name == ".." || strings.HasPrefix(name, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}

	return os.DirFS(o.Root).Open(filepath.ToSlash(name))
}

// ReadPrefix returns the text of r in front of the given 1-based line and
// column.
//
// Every line before line is returned with its trailing newline. Of line
// itself only the first column-1 bytes are returned, or the whole line if it
// is shorter. If r ends before line, the whole text is returned.
func ReadPrefix(r io.Reader, line, column int) (string, error) {
	if line < 1 {
		return "", nil
	}

	br := bufio.NewReader(r)

	var sb strings.Builder

	for n := 1; n <= line; n++ {
		text, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: line %d: %w", ErrReadSource, n, err)
		}

		if text == "" && err != nil {
			break
		}

		text = strings.TrimSuffix(text, "\n")

		if n < line {
			sb.WriteString(text)
			sb.WriteByte('\n')
		} else {
			sb.WriteString(text[:min(max(column-1, 0), len(text))])
		}

		if err != nil {
			break
		}
	}

	return sb.String(), nil
}

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"golang.org/x/term"

	"go.jacobcolvin.com/nixdoc/doccomment"
)

// Output is the format results are printed in.
type Output string

const (
	// OutputAuto prints text to terminals and JSON otherwise.
	OutputAuto Output = "auto"
	// OutputText prints the comments themselves.
	OutputText Output = "text"
	// OutputJSON prints a JSON array of results.
	OutputJSON Output = "json"
	// OutputYAML prints a YAML sequence of results.
	OutputYAML Output = "yaml"
)

var (
	// ErrUnknownOutput indicates an unrecognized --output value.
	ErrUnknownOutput = errors.New("unknown output format")
	// ErrWriteOutput indicates a failure writing results.
	ErrWriteOutput = errors.New("write output")
)

var allOutputs = []Output{OutputAuto, OutputText, OutputJSON, OutputYAML}

// ParseOutput parses a case-insensitive output format name.
func ParseOutput(s string) (Output, error) {
	o := Output(strings.ToLower(s))
	for _, known := range allOutputs {
		if o == known {
			return o, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownOutput, s)
}

func allOutputStrings() []string {
	out := make([]string, 0, len(allOutputs))
	for _, o := range allOutputs {
		out = append(out, string(o))
	}

	return out
}

// resolve replaces [OutputAuto] with a concrete format for w.
func (o Output) resolve(w io.Writer) Output {
	if o != OutputAuto {
		return o
	}

	f, ok := w.(*os.File)
	if ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // File descriptors fit in int.
		return OutputText
	}

	return OutputJSON
}

type result struct {
	Position     string `json:"position"               yaml:"position"`
	Comment      string `json:"comment"                yaml:"comment"`
	RawComment   string `json:"rawComment"             yaml:"rawComment"`
	TimesApplied int    `json:"timesApplied,omitempty" yaml:"timesApplied,omitempty"`
	Found        bool   `json:"found"                  yaml:"found"`
}

func newResults(positions []doccomment.Pos, docs []doccomment.Doc) []result {
	results := make([]result, len(positions))

	for i, pos := range positions {
		doc := docs[i]
		results[i] = result{
			Position:     pos.String(),
			Comment:      doc.Comment(),
			RawComment:   doc.RawComment(),
			TimesApplied: doc.TimesApplied(),
			Found:        !doc.IsEmpty(),
		}
	}

	return results
}

func writeResults(w io.Writer, format Output, results []result, raw bool) error {
	var (
		out []byte
		err error
	)

	switch format {
	case OutputJSON:
		out, err = json.MarshalIndent(results, "", "  ")
		out = append(out, '\n')

	case OutputYAML:
		out, err = yaml.Marshal(results)

	case OutputText, OutputAuto:
		out = []byte(formatText(results, raw))
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	return nil
}

// formatText prints each found comment. With more than one result, each
// comment is preceded by its position. Missing documentation prints nothing.
func formatText(results []result, raw bool) string {
	var sb strings.Builder

	for _, r := range results {
		if !r.Found {
			continue
		}

		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}

		if len(results) > 1 {
			sb.WriteString("# ")
			sb.WriteString(r.Position)
			sb.WriteByte('\n')
		}

		text := r.Comment
		if raw {
			text = r.RawComment
		}

		sb.WriteString(text)
		sb.WriteByte('\n')
	}

	return sb.String()
}

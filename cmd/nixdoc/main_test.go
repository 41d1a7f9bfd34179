package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/nixdoc/doccomment"
	"go.jacobcolvin.com/nixdoc/stringtest"
)

var listsNix = stringtest.Input(`
	{ lib }:
	{
	  /**
	    Applies f to every element.

	        map (x: x + 1) [ 1 2 ]
	  */
	  map = f: list: lib.genList (i: f (lib.elemAt list i)) (lib.length list);

	  # Not documentation.
	  length = builtins.length;
	}
`)

// position returns the "path:line:column" of the first occurrence of marker.
func position(t *testing.T, path, src, marker string) string {
	t.Helper()

	i := strings.Index(src, marker)
	require.GreaterOrEqual(t, i, 0, "marker %q not found", marker)

	line := strings.Count(src[:i], "\n") + 1
	col := i - (strings.LastIndexByte(src[:i], '\n') + 1) + 1

	return doccomment.Pos{
		Origin: doccomment.SourcePath{Path: path},
		Line:   line,
		Column: col,
	}.String()
}

func writeFixture(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "lists.nix")
	require.NoError(t, os.WriteFile(path, []byte(listsNix), 0o644))

	return dir, path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(t.Context())

	return stdout.String(), stderr.String(), err
}

func TestText(t *testing.T) {
	t.Parallel()

	_, path := writeFixture(t)
	mapPos := position(t, path, listsNix, "f: list:")
	lengthPos := position(t, path, listsNix, "builtins.length")

	tcs := map[string]struct {
		args []string
		want string
	}{
		"single position": {
			args: []string{mapPos},
			want: stringtest.JoinLF(
				"Applies f to every element.",
				"",
				"    map (x: x + 1) [ 1 2 ]",
				"",
			),
		},
		"raw comment": {
			args: []string{"--raw", mapPos},
			want: stringtest.JoinLF(
				"  /**",
				"    Applies f to every element.",
				"",
				"        map (x: x + 1) [ 1 2 ]",
				"  */",
				"",
			),
		},
		"missing documentation is silent": {
			args: []string{lengthPos},
			want: "",
		},
		"several positions": {
			args: []string{lengthPos, mapPos, mapPos},
			want: stringtest.JoinLF(
				"# "+mapPos,
				"Applies f to every element.",
				"",
				"    map (x: x + 1) [ 1 2 ]",
				"",
				"# "+mapPos,
				"Applies f to every element.",
				"",
				"    map (x: x + 1) [ 1 2 ]",
				"",
			),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			stdout, _, err := execute(t, append([]string{"--output", "text"}, tc.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tc.want, stdout)
		})
	}
}

func TestJSON(t *testing.T) {
	t.Parallel()

	_, path := writeFixture(t)
	mapPos := position(t, path, listsNix, "lib.genList")
	lengthPos := position(t, path, listsNix, "builtins.length")

	// Output to a buffer is not a terminal, so auto selects JSON.
	stdout, _, err := execute(t, "--times-applied", mapPos, lengthPos)
	require.NoError(t, err)

	var got []result
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.Len(t, got, 2)

	assert.Equal(t, mapPos, got[0].Position)
	assert.True(t, got[0].Found)
	assert.Equal(t, 2, got[0].TimesApplied)
	assert.Contains(t, got[0].Comment, "Applies f to every element.")
	assert.True(t, strings.HasPrefix(got[0].RawComment, "  /**"))

	assert.Equal(t, result{Position: lengthPos}, got[1])
}

func TestYAML(t *testing.T) {
	t.Parallel()

	dir, _ := writeFixture(t)
	mapPos := position(t, "lists.nix", listsNix, "f: list:")

	stdout, _, err := execute(t, "-o", "yaml", "--root", dir, mapPos)
	require.NoError(t, err)

	var got []result
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &got))
	require.Len(t, got, 1)

	assert.Equal(t, mapPos, got[0].Position)
	assert.Equal(t, stringtest.JoinLF(
		"Applies f to every element.",
		"",
		"    map (x: x + 1) [ 1 2 ]",
	), got[0].Comment)
	assert.Zero(t, got[0].TimesApplied)
}

func TestSimple(t *testing.T) {
	t.Parallel()

	_, path := writeFixture(t)

	stdout, _, err := execute(t, "-o", "text", "--simple", "--strict", position(t, path, listsNix, "f: list:"))
	require.ErrorIs(t, err, ErrMissingDoc)
	assert.Empty(t, stdout)
}

func TestErrors(t *testing.T) {
	t.Parallel()

	_, path := writeFixture(t)
	mapPos := position(t, path, listsNix, "f: list:")
	lengthPos := position(t, path, listsNix, "builtins.length")

	tcs := map[string]struct {
		want error
		args []string
	}{
		"invalid position": {
			args: []string{"lists.nix"},
			want: doccomment.ErrInvalidPosition,
		},
		"unknown output": {
			args: []string{"--output", "xml", mapPos},
			want: ErrUnknownOutput,
		},
		"zero jobs": {
			args: []string{"--jobs", "0", mapPos},
			want: ErrInvalidJobs,
		},
		"strict with missing documentation": {
			args: []string{"--strict", mapPos, lengthPos},
			want: ErrMissingDoc,
		},
		"strict with missing file": {
			args: []string{"--strict", filepath.Join(filepath.Dir(path), "missing.nix") + ":1:1"},
			want: ErrMissingDoc,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, _, err := execute(t, tc.args...)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestMissingFileIsNotAnError(t *testing.T) {
	t.Parallel()

	stdout, stderr, err := execute(t,
		"-o", "text", "--log-level", "debug", "--log-format", "logfmt",
		filepath.Join(t.TempDir(), "missing.nix")+":1:1",
	)
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "no doc comment")
	assert.Contains(t, stderr, doccomment.ErrOpenSource.Error())
}

func TestManyPositionsKeepOrder(t *testing.T) {
	t.Parallel()

	_, path := writeFixture(t)
	mapPos := position(t, path, listsNix, "f: list:")
	lengthPos := position(t, path, listsNix, "builtins.length")

	args := []string{"--jobs", "3"}
	for i := range 40 {
		if i%3 == 0 {
			args = append(args, lengthPos)
		} else {
			args = append(args, mapPos)
		}
	}

	stdout, _, err := execute(t, args...)
	require.NoError(t, err)

	var got []result
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.Len(t, got, 40)

	for i, r := range got {
		assert.Equal(t, i%3 != 0, r.Found, "result %d", i)
	}
}

func TestVersion(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "revision")
}

func TestOutputCompletions(t *testing.T) {
	t.Parallel()

	cmd := newRootCommand()

	fn, ok := cmd.GetFlagCompletionFunc("output")
	require.True(t, ok)

	values, _ := fn(cmd, nil, "")
	assert.Equal(t, []string{"auto", "text", "json", "yaml"}, values)
}

// Profiling changes process-wide runtime state, so this test is not parallel.
func TestProfileFlags(t *testing.T) {
	_, path := writeFixture(t)
	heap := filepath.Join(t.TempDir(), "heap.prof")

	_, _, err := execute(t, "--heap-profile", heap, position(t, path, listsNix, "f: list:"))
	require.NoError(t, err)

	info, err := os.Stat(heap)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestParseOutput(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input       string
		want        Output
		expectError bool
	}{
		"auto":             {input: "auto", want: OutputAuto},
		"case insensitive": {input: "YAML", want: OutputYAML},
		"unknown":          {input: "toml", expectError: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseOutput(tc.input)
			if tc.expectError {
				require.ErrorIs(t, err, ErrUnknownOutput)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestResolveOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	assert.Equal(t, OutputJSON, OutputAuto.resolve(&buf))
	assert.Equal(t, OutputYAML, OutputYAML.resolve(&buf))
}

func TestSchemaValidatesOutput(t *testing.T) {
	t.Parallel()

	_, path := writeFixture(t)

	schemaOut, _, err := execute(t, "schema")
	require.NoError(t, err)

	var schema jsonschema.Schema
	require.NoError(t, json.Unmarshal([]byte(schemaOut), &schema))

	resolved, err := schema.Resolve(nil)
	require.NoError(t, err)

	stdout, _, err := execute(t, "--times-applied",
		position(t, path, listsNix, "lib.genList"),
		position(t, path, listsNix, "builtins.length"),
	)
	require.NoError(t, err)

	var instance any
	require.NoError(t, json.Unmarshal([]byte(stdout), &instance))
	require.NoError(t, resolved.Validate(instance))

	require.Error(t, resolved.Validate([]any{map[string]any{"position": "a.nix:1:1"}}))
}

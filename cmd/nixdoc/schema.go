package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/cobra"
)

const schemaDraft = "https://json-schema.org/draft/2020-12/schema"

// resultSchema describes the JSON and YAML output of nixdoc.
func resultSchema() *jsonschema.Schema {
	str := func(desc string) *jsonschema.Schema {
		return &jsonschema.Schema{Type: "string", Description: desc}
	}

	return &jsonschema.Schema{
		Schema:      schemaDraft,
		Title:       "nixdoc results",
		Description: "Documentation found for each requested position, in argument order.",
		Type:        "array",
		Items: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"position":   str("The requested position, as path:line:column."),
				"comment":    str("The normalized comment text."),
				"rawComment": str("The comment as written, with delimiters and leading indentation."),
				"timesApplied": {
					Type:        "integer",
					Minimum:     jsonschema.Ptr(0.0),
					Description: "Curried arguments between the comment and the position, with --times-applied.",
				},
				"found": {
					Type:        "boolean",
					Description: "Whether documentation was found.",
				},
			},
			Required:             []string{"position", "comment", "rawComment", "found"},
			AdditionalProperties: &jsonschema.Schema{Not: &jsonschema.Schema{}},
		},
	}
}

func newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the json and yaml output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := json.MarshalIndent(resultSchema(), "", "  ")
			if err != nil {
				return fmt.Errorf("%w: %w", ErrWriteOutput, err)
			}

			_, err = cmd.OutOrStdout().Write(append(out, '\n'))
			if err != nil {
				return fmt.Errorf("%w: %w", ErrWriteOutput, err)
			}

			return nil
		},
	}
}

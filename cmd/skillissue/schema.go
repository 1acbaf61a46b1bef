package main

import (
	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/Akram012388/skillissue-world/pkg/types/catalog"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema for skill data files",
	Long: `Print the JSON Schema describing a data file: an array of skill records. Point
an editor at it to get completion and validation while authoring data files.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return printJSON(dataFileSchema())
	},
}

// dataFileSchema describes a JSON or YAML data file.
func dataFileSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema := reflector.Reflect([]catalog.Skill{})
	schema.Title = "skillissue data file"
	schema.Description = "A list of agent skills to seed into the catalog."
	return schema
}

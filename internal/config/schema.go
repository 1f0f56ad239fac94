package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Schema reflects the JSON Schema for the .ssq.yml document. Additional
// properties are rejected, matching the strict decoder.
func Schema() *jsonschema.Schema {
	r := jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: false,
	}
	s := r.Reflect(&Document{})
	s.Title = "ssq configuration"
	s.Description = "Layered configuration document for the ssq secret scanner."
	return s
}

// SchemaJSON renders the schema as indented JSON for the schema subcommand.
func SchemaJSON() ([]byte, error) {
	return json.MarshalIndent(Schema(), "", "  ")
}

package definition

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/sociomantic-tsunami/dmqpkg/pkg/definition/schema"
)

const (
	definitionSchemaName = "definition.schema.json"
	configSchemaName     = "config.schema.json"
)

// ValidateAgainstSchema compiles schemaBytes and validates the JSON document
// in data against it. name only identifies the schema in errors.
func ValidateAgainstSchema(name string, schemaBytes, data []byte) error {
	comp := jsonschema.NewCompiler()
	if err := comp.AddResource(name, bytes.NewReader(schemaBytes)); err != nil {
		return fmt.Errorf("loading schema %q: %w", name, err)
	}
	sch, err := comp.Compile(name)
	if err != nil {
		return fmt.Errorf("compiling schema %q: %w", name, err)
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid JSON for %q: %w", name, err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("schema validation against %q failed: %w", name, err)
	}
	return nil
}

// ValidateSchema checks the JSON form of d against the definition schema
func ValidateSchema(d Definition) error {
	doc := struct {
		Options Options  `json:"options"`
		Args    []string `json:"args"`
	}{
		Options: d.Options,
		Args:    d.ArgStrings(),
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling definition: %w", err)
	}
	return ValidateAgainstSchema(definitionSchemaName, schema.DefinitionSchema, data)
}

// ValidateConfigJSON checks a builder configuration document
func ValidateConfigJSON(data []byte) error {
	return ValidateAgainstSchema(configSchemaName, schema.ConfigSchema, data)
}

package schema

import _ "embed"

//go:embed definition.schema.json
var DefinitionSchema []byte

//go:embed config.schema.json
var ConfigSchema []byte

package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// RigConfigSchema is the JSON schema a rig config file follows.
var RigConfigSchema = (&jsonschema.Reflector{ExpandedStruct: true}).Reflect(&RigConfig{})

// Schema returns the rig config schema as indented JSON.
func Schema() ([]byte, error) {
	return json.MarshalIndent(RigConfigSchema, "", "  ")
}

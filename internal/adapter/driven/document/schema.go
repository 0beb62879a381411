package document

import (
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "https://passenger.local/schemas/vault.json"

// vaultSchemaJSON describes the decrypted vault document. Decoding rejects
// anything that does not match before it reaches the domain.
const vaultSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://passenger.local/schemas/vault.json",
  "type": "object",
  "required": ["owner", "masterPassphrase"],
  "properties": {
    "owner": { "type": "string" },
    "masterPassphrase": { "type": "string" },
    "entries": {
      "type": ["array", "null"],
      "items": { "$ref": "#/$defs/entry" }
    },
    "constants": {
      "type": ["array", "null"],
      "items": { "$ref": "#/$defs/constant" }
    }
  },
  "$defs": {
    "entry": {
      "type": "object",
      "required": ["id", "platform", "url", "identity", "passphraseHistory", "totalAccesses", "createdAt", "updatedAt"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "platform": { "type": "string", "minLength": 1 },
        "url": { "type": "string", "minLength": 1 },
        "identity": { "type": "string", "minLength": 1 },
        "notes": { "type": "string" },
        "passphraseHistory": {
          "type": "array",
          "minItems": 1,
          "items": { "$ref": "#/$defs/record" }
        },
        "totalAccesses": { "type": "integer", "minimum": 0 },
        "createdAt": { "type": "string", "format": "date-time" },
        "updatedAt": { "type": "string", "format": "date-time" }
      }
    },
    "record": {
      "type": "object",
      "required": ["value", "createdAt"],
      "properties": {
        "value": { "type": "string", "minLength": 1 },
        "createdAt": { "type": "string", "format": "date-time" }
      }
    },
    "constant": {
      "type": "object",
      "required": ["key", "value"],
      "properties": {
        "key": { "type": "string", "minLength": 1 },
        "value": { "type": "string", "minLength": 1 }
      }
    }
  }
}`

func compileSchema() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.AssertFormat()

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(vaultSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshal vault schema: %w", err)
	}
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("add vault schema resource: %w", err)
	}
	s, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile vault schema: %w", err)
	}
	return s, nil
}

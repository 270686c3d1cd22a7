package config

// Schema is the JSON Schema (Draft 2020-12) for .codestats.yaml. YAML
// documents are validated against it after conversion to JSON.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/unbound-force/codestats/config.schema.json",
  "title": "codestats configuration",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "defaults": {
      "type": "boolean",
      "description": "Seed the default Rails-style layout before applying this file"
    },
    "raw_lines": {
      "type": "string",
      "enum": ["physical", "non_blank"],
      "description": "Which lines count toward raw line totals"
    },
    "extensions": {
      "type": "array",
      "items": { "type": "string", "minLength": 1 }
    },
    "groups": {
      "type": "array",
      "items": { "$ref": "#/$defs/Group" }
    },
    "test_groups": {
      "type": "array",
      "items": { "type": "string", "minLength": 1 }
    },
    "ignore": {
      "type": "array",
      "items": { "type": "string", "minLength": 1 }
    }
  },
  "$defs": {
    "Group": {
      "type": "object",
      "required": ["label", "path"],
      "additionalProperties": false,
      "properties": {
        "label": { "type": "string", "minLength": 1 },
        "path": { "type": "string", "minLength": 1 },
        "recursive": { "type": "boolean" },
        "script": { "type": "boolean" }
      }
    }
  }
}`

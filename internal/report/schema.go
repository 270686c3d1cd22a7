package report

// Schema is the JSON Schema (Draft 2020-12) for the JSON report. It
// documents the structure returned by WriteJSON.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/unbound-force/codestats/report.schema.json",
  "title": "codestats report",
  "description": "Output schema for codestats report --format=json",
  "type": "object",
  "required": ["version", "groups", "summary"],
  "properties": {
    "version": {
      "type": "string",
      "description": "Report layout version (semver)"
    },
    "groups": {
      "type": "array",
      "items": { "$ref": "#/$defs/Group" }
    },
    "total": { "$ref": "#/$defs/Group" },
    "summary": { "$ref": "#/$defs/Summary" }
  },
  "$defs": {
    "Group": {
      "type": "object",
      "required": ["name", "lines", "loc", "classes", "methods", "loc_per_method"],
      "properties": {
        "name": { "type": "string" },
        "lines": { "type": "integer", "minimum": 0, "description": "Raw lines" },
        "loc": { "type": "integer", "minimum": 0, "description": "Lines that are neither blank nor comments" },
        "classes": { "type": "integer", "minimum": 0 },
        "methods": { "type": "integer", "minimum": 0 },
        "methods_per_class": { "type": "integer", "minimum": 0, "description": "Absent for aggregates" },
        "loc_per_method": { "type": "integer", "minimum": 0 }
      }
    },
    "Summary": {
      "type": "object",
      "required": ["code_loc", "test_loc", "ratio"],
      "properties": {
        "code_loc": { "type": "integer", "minimum": 0 },
        "test_loc": { "type": "integer", "minimum": 0 },
        "ratio": { "type": "string", "pattern": "^1:[0-9]+\\.[0-9]$" }
      }
    }
  }
}`

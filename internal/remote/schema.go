package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const namesSchemaJSON = `{
  "type": "object",
  "required": ["names"],
  "properties": {
    "names": {"type": "array", "items": {"type": "string"}}
  }
}`

const tasksSchemaJSON = `{
  "type": "object",
  "required": ["tasks"],
  "properties": {
    "tasks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id"],
        "properties": {
          "id": {"type": ["string", "integer"]},
          "name": {"type": "string"},
          "category": {"type": "string"},
          "checked": {"type": "boolean"}
        }
      }
    }
  }
}`

const taskSchemaJSON = `{
  "type": "object",
  "required": ["checked"],
  "properties": {
    "id": {"type": ["string", "integer"]},
    "name": {"type": "string"},
    "checked": {"type": "boolean"}
  }
}`

var (
	namesSchema = jsonschema.MustCompileString("names.json", namesSchemaJSON)
	tasksSchema = jsonschema.MustCompileString("tasks.json", tasksSchemaJSON)
	taskSchema  = jsonschema.MustCompileString("task.json", taskSchemaJSON)
)

// validateBody checks raw JSON against schema and reports the first leaf failure.
func validateBody(schema *jsonschema.Schema, body []byte) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return firstSchemaCause(err)
	}
	return nil
}

func firstSchemaCause(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := strings.TrimPrefix(ve.InstanceLocation, "/")
	if loc == "" {
		return fmt.Errorf("%s", ve.Message)
	}
	return fmt.Errorf("%s: %s", loc, ve.Message)
}

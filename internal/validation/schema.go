// Package validation validates fragment frontmatter metadata against the
// JSON schema the corpus is configured with.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid    = errors.New("schema invalid")
	ErrSchemaValidation = errors.New("schema validation failed")
)

// MetaJSONSchema describes the frontmatter keys a fragment may open with.
// Custom keys are allowed; the recognised keys are typed strictly.
const MetaJSONSchema = `
{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "FragmentMeta",
  "type": "object",
  "properties": {
    "author": {
      "type": "string",
      "description": "Contributor credited for the change"
    },
    "prs": {
      "type": "array",
      "items": {
        "type": "integer",
        "minimum": 1
      },
      "description": "Pull request numbers associated with the change"
    },
    "tags": {
      "type": "array",
      "items": {
        "type": "string"
      }
    }
  },
  "additionalProperties": true
}
`

// ValidationIssue captures a single validation failure.
type ValidationIssue struct {
	Location string
	Message  string
}

// PayloadValidationError surfaces validation issues with schema-aware context.
type PayloadValidationError struct {
	Issues []ValidationIssue
	Cause  error
}

func (e *PayloadValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *PayloadValidationError) Unwrap() error {
	return ErrSchemaValidation
}

// Issues extracts validation issues from an error.
func Issues(err error) []ValidationIssue {
	if err == nil {
		return nil
	}
	var payloadErr *PayloadValidationError
	if errors.As(err, &payloadErr) && payloadErr != nil {
		return payloadErr.Issues
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) && validationErr != nil {
		return collectValidationIssues(validationErr)
	}
	return []ValidationIssue{{Message: err.Error()}}
}

// ValidateSchema ensures the supplied schema document can be compiled.
func ValidateSchema(schema string) error {
	if strings.TrimSpace(schema) == "" {
		return nil
	}
	if _, err := compileSchema(schema); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return nil
}

// ValidateMeta validates raw frontmatter keys against the given schema. An
// empty schema disables validation; MetaJSONSchema is the default.
func ValidateMeta(schema string, raw map[string]any) error {
	if strings.TrimSpace(schema) == "" {
		return nil
	}
	if raw == nil {
		raw = map[string]any{}
	}
	compiled, err := compileSchema(schema)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	if err := compiled.Validate(normalizePayload(raw)); err != nil {
		return &PayloadValidationError{
			Issues: Issues(err),
			Cause:  err,
		}
	}
	return nil
}

// normalizePayload round-trips the payload through JSON so YAML-decoded types
// (e.g. int64, map[any]any) match the forms the schema validator expects.
func normalizePayload(raw map[string]any) any {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return raw
	}
	var out any
	if err := json.Unmarshal(encoded, &out); err != nil {
		return raw
	}
	return out
}

func compileSchema(schema string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", bytes.NewReader([]byte(schema))); err != nil {
		return nil, err
	}
	return compiler.Compile("schema.json")
}

func collectValidationIssues(err *jsonschema.ValidationError) []ValidationIssue {
	if err == nil {
		return nil
	}
	issues := []ValidationIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ValidationIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}

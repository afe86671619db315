// Package validation checks a rendered values document against an optional
// JSON Schema before the deployment tool consumes it.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidateDocument parses the rendered document as YAML and validates it
// against the JSON Schema at schemaPath. Rendering already succeeded at this
// point; a schema failure is a pre-flight signal that the deployment tool
// would reject the document.
func ValidateDocument(document string, schemaPath string) error {
	schemaBytes, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read schema %s: %w", schemaPath, err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	if err := compiler.AddResource("schema.json", bytes.NewReader(schemaBytes)); err != nil {
		return fmt.Errorf("failed to add schema resource: %w", err)
	}

	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}

	// The validator expects values as decoded by encoding/json, so go
	// through a YAML -> JSON conversion instead of decoding YAML directly.
	jsonBytes, err := yaml.YAMLToJSON([]byte(document))
	if err != nil {
		return fmt.Errorf("rendered document is not valid YAML: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal(jsonBytes, &doc); err != nil {
		return fmt.Errorf("failed to decode rendered document: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return formatSchemaValidationError(validationErr)
		}
		return fmt.Errorf("document validation failed: %w", err)
	}

	return nil
}

// formatSchemaValidationError flattens a validation error tree into a
// readable message.
func formatSchemaValidationError(err *jsonschema.ValidationError) error {
	var messages []string

	var collectErrors func(*jsonschema.ValidationError)
	collectErrors = func(e *jsonschema.ValidationError) {
		if e.Message != "" {
			location := e.InstanceLocation
			if location == "" {
				location = "(root)"
			}
			messages = append(messages, fmt.Sprintf("%s: %s", location, e.Message))
		}

		for _, cause := range e.Causes {
			collectErrors(cause)
		}
	}

	collectErrors(err)

	if len(messages) == 0 {
		return fmt.Errorf("document validation failed")
	}

	return fmt.Errorf("document validation failed:\n    - %s", strings.Join(messages, "\n    - "))
}

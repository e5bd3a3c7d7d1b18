// Package schemas provides JSON Schema validation for the JSON artifacts written next to a dataset.
package schemas

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Schema files, relative to the repository root
const (
	ManifestSchema   = "schemas/manifest.schema.json"
	ViolationsSchema = "schemas/violations.schema.json"
)

// ResolveSchemaPath attempts to find a schema file by trying multiple common path resolutions.
// It tries the path relative to the current working directory, then one and two levels up,
// so commands and tests resolve the same file from cmd/ or internal/ directories.
// Returns the first path that exists, or empty string if none found.
func ResolveSchemaPath(relativePath string) string {
	candidates := []string{
		relativePath,
		filepath.Join("..", relativePath),
		filepath.Join("..", "..", relativePath),
	}

	for _, candidate := range candidates {
		if absPath, err := filepath.Abs(candidate); err == nil {
			if _, err := os.Stat(absPath); err == nil {
				return absPath
			}
		}
	}

	return ""
}

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// ValidateJSON validates a JSON file against a JSON Schema file
func ValidateJSON(schemaPath, jsonPath string) error {
	schemaAbsPath, err := existingAbs(schemaPath, "schema")
	if err != nil {
		return err
	}
	jsonAbsPath, err := existingAbs(jsonPath, "JSON")
	if err != nil {
		return err
	}

	return validate(
		schemaAbsPath,
		gojsonschema.NewReferenceLoader("file://"+schemaAbsPath),
		gojsonschema.NewReferenceLoader("file://"+jsonAbsPath),
	)
}

// ValidateDocument validates an in-memory Go value against a JSON Schema file.
// The value is encoded the way encoding/json would write it.
func ValidateDocument(schemaPath string, doc any) error {
	schemaAbsPath, err := existingAbs(schemaPath, "schema")
	if err != nil {
		return err
	}

	return validate(
		schemaAbsPath,
		gojsonschema.NewReferenceLoader("file://"+schemaAbsPath),
		gojsonschema.NewGoLoader(doc),
	)
}

func existingAbs(path, kind string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s path: %w", kind, err)
	}
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%s file not found: %s", kind, absPath)
	}
	return absPath, nil
}

func validate(schemaName string, schema, document gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(schema, document)
	if err != nil {
		// Loading failed (unresolvable $ref, invalid schema syntax, unreadable document)
		return &SchemaLoadError{
			Path:    schemaName,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}

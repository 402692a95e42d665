package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed document.schema.json
var documentSchema string

// compiled at init; the embedded schema is part of the binary, so a compile
// failure is a programming error.
var documentValidator = jsonschema.MustCompileString("document.schema.json", documentSchema)

// ValidateDocument checks that raw is a well-formed schema document before it
// is handed to code generation. Schemas produced by the reconstruction engine
// always pass; this guards externally submitted documents.
func ValidateDocument(raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("schema document is not valid JSON: %w", err)
	}
	if err := documentValidator.Validate(v); err != nil {
		return fmt.Errorf("schema document failed validation: %w", err)
	}
	return nil
}

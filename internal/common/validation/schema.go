// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Validator checks action payloads against JSON schemas before the
// workflow engine touches them.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

const disbursementSchema = `{
	"type": "object",
	"required": ["bankName", "accountNumber", "amount", "date"],
	"properties": {
		"bankName": {"type": "string", "minLength": 1},
		"accountNumber": {"type": "string", "minLength": 1},
		"amount": {"type": "integer", "minimum": 1},
		"date": {"type": "string", "minLength": 1},
		"notes": {"type": "string"}
	}
}`

const resubmissionSchema = `{
	"type": "object",
	"required": ["customerName", "nik", "loanAmount", "tenor"],
	"properties": {
		"customerName": {"type": "string", "minLength": 1},
		"nik": {"type": "string", "minLength": 1},
		"loanAmount": {"type": "integer", "minimum": 1},
		"tenor": {"type": "integer", "minimum": 1},
		"debtorOccupation": {"type": "string"},
		"income": {"type": "integer", "minimum": 0},
		"yearsOfService": {"type": "integer", "minimum": 0}
	}
}`

// NewValidator compiles the built-in payload schemas.
func NewValidator() (*Validator, error) {
	v := &Validator{schemas: make(map[string]*gojsonschema.Schema)}

	for name, raw := range map[string]string{
		"disbursement": disbursementSchema,
		"resubmission": resubmissionSchema,
	} {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s schema: %w", name, err)
		}
		v.schemas[name] = schema
	}

	return v, nil
}

// Validate checks a payload against a named schema and returns the list
// of violations, one per field.
func (v *Validator) Validate(schemaName string, payload interface{}) ([]string, error) {
	schema, ok := v.schemas[schemaName]
	if !ok {
		return nil, fmt.Errorf("unknown schema: %s", schemaName)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(payload))
	if err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return violations, nil
}

// ValidateDisbursement checks a disbursement payload.
func (v *Validator) ValidateDisbursement(payload interface{}) ([]string, error) {
	return v.Validate("disbursement", payload)
}

// ValidateResubmission checks a resubmission payload.
func (v *Validator) ValidateResubmission(payload interface{}) ([]string, error) {
	return v.Validate("resubmission", payload)
}

// FormatViolations joins violations into a single human-readable detail string.
func FormatViolations(violations []string) string {
	return strings.Join(violations, "; ")
}

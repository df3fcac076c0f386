// Package correction defines the correction request and result types, the
// request validator, and the snapshot assembler used by stream consumers.
package correction

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Request is a validated correction request.
type Request struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

// Policy holds the constraints a request is validated against.
type Policy struct {
	MaxTextLength int      `json:"max_text_length"`
	Models        []string `json:"models"`
	DefaultModel  string   `json:"default_model"`
}

// Check verifies the policy itself is usable.
func (p Policy) Check() error {
	if p.MaxTextLength <= 0 {
		return fmt.Errorf("max text length must be positive, got %d", p.MaxTextLength)
	}
	if len(p.Models) == 0 {
		return errors.New("at least one model is required")
	}
	if !slices.Contains(p.Models, p.DefaultModel) {
		return fmt.Errorf("default model %q is not in models %v", p.DefaultModel, p.Models)
	}
	return nil
}

// ValidationError describes every constraint a request body failed.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

// Validator checks request bodies against a Policy.
// It is immutable and safe for concurrent use.
type Validator struct {
	policy Policy
	schema *jsonschema.Schema
}

// NewValidator compiles the request schema for the policy.
func NewValidator(p Policy) (*Validator, error) {
	if err := p.Check(); err != nil {
		return nil, fmt.Errorf("invalid correction policy: %w", err)
	}
	p.Models = slices.Clone(p.Models)

	raw, err := json.Marshal(RequestSchema(p))
	if err != nil {
		return nil, fmt.Errorf("failed to serialize request schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("request.json", bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to load request schema: %w", err)
	}
	schema, err := compiler.Compile("request.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile request schema: %w", err)
	}

	return &Validator{policy: p, schema: schema}, nil
}

// RequestSchema returns the JSON schema a request body must satisfy.
// Only the length of text is bounded; unknown keys are ignored.
func RequestSchema(p Policy) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{
				"type":      "string",
				"maxLength": p.MaxTextLength,
			},
			"model": map[string]any{
				"type": "string",
				"enum": p.Models,
			},
		},
		"required": []string{"text"},
	}
}

// Policy returns the policy the validator was built from.
func (v *Validator) Policy() Policy {
	p := v.policy
	p.Models = slices.Clone(p.Models)
	return p
}

// Validate parses and validates a raw request body.
// A rejection is always a *ValidationError.
func (v *Validator) Validate(body []byte) (*Request, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &ValidationError{Problems: []string{fmt.Sprintf("invalid JSON body: %v", err)}}
	}

	if err := v.schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return nil, &ValidationError{Problems: problems(ve)}
		}
		return nil, &ValidationError{Problems: []string{err.Error()}}
	}

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &ValidationError{Problems: []string{fmt.Sprintf("invalid request: %v", err)}}
	}
	if req.Model == "" {
		req.Model = v.policy.DefaultModel
	}
	return &req, nil
}

// problems flattens a schema validation error into "field: reason" lines.
func problems(ve *jsonschema.ValidationError) []string {
	var out []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			field := strings.TrimPrefix(e.InstanceLocation, "/")
			if field == "" {
				field = "body"
			}
			out = append(out, field+": "+e.Message)
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	return out
}

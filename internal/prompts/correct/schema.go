package correct

// SchemaName is the structured output name sent to the provider.
const SchemaName = "fixed_text"

// SchemaDescription describes the structured output to the provider.
const SchemaDescription = "Corrected text and a brief explanation of the changes"

// Field descriptions are part of the contract with the model.
const (
	FixedTextDescription   = "The corrected version of the text with all spelling, grammar, punctuation, and clarity issues fixed"
	ExplanationDescription = "A brief, clear explanation of the main changes made during correction"
)

// ResultSchema returns the JSON schema for correction output: exactly two
// string fields, both required, nothing else allowed.
// A fresh map is returned on each call.
func ResultSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"fixedText": map[string]any{
				"type":        "string",
				"description": FixedTextDescription,
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": ExplanationDescription,
			},
		},
		"required":             []string{"fixedText", "explanation"},
		"additionalProperties": false,
	}
}

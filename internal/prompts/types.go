// Package prompts holds the embedded prompt templates sent to the model.
//
// Templates are embedded .tmpl files; the text is the source of truth and is
// exposed read-only (with its variables and hash) for traceability.
package prompts

// EmbeddedPrompt represents a prompt loaded from an embedded .tmpl file.
type EmbeddedPrompt struct {
	Key         string   `json:"key"`         // Hierarchical key: correction.user
	Text        string   `json:"text"`        // The prompt text (Go template)
	Description string   `json:"description"` // Human-readable description
	Variables   []string `json:"variables"`   // Extracted template variables
	Hash        string   `json:"hash"`        // SHA256 hash of the text for change detection
}

// NewEmbeddedPrompt fills in the derived fields of an embedded prompt.
func NewEmbeddedPrompt(key, text, description string) EmbeddedPrompt {
	return EmbeddedPrompt{
		Key:         key,
		Text:        text,
		Description: description,
		Variables:   ExtractVariables(text),
		Hash:        HashText(text),
	}
}

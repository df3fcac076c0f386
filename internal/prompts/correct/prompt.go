package correct

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/fixspelling/fixspell/internal/prompts"
)

//go:embed user.tmpl
var userPromptTmpl string

// userPromptText is the de-indented template text. Dedent runs on the template
// only, so the caller's text keeps its own whitespace.
var userPromptText = prompts.Dedent(userPromptTmpl)

var userTemplate = template.Must(template.New("user").Parse(userPromptText))

// UserPromptKey identifies the correction prompt.
const UserPromptKey = "correction.user"

// UserPrompt builds the correction prompt for the given text.
func UserPrompt(text string) (string, error) {
	var buf bytes.Buffer
	data := struct{ Text string }{Text: text}
	if err := userTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render correction prompt: %w", err)
	}
	return buf.String(), nil
}

// Prompt returns the embedded correction prompt with its variables and hash.
func Prompt() prompts.EmbeddedPrompt {
	return prompts.NewEmbeddedPrompt(
		UserPromptKey,
		userPromptText,
		"Grammar and spelling correction prompt - the text is the only parameter",
	)
}

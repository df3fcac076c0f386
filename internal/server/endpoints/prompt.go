package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/fixspelling/fixspell/internal/api"
	"github.com/fixspelling/fixspell/internal/prompts"
	"github.com/fixspelling/fixspell/internal/prompts/correct"
)

// PromptResponse is the correction prompt and the output schema it is sent with.
type PromptResponse struct {
	prompts.EmbeddedPrompt `yaml:",inline"`
	SchemaName             string         `json:"schema_name" yaml:"schema_name"`
	Schema                 map[string]any `json:"schema" yaml:"schema"`
}

// PromptEndpoint handles GET /api/prompt.
type PromptEndpoint struct{}

func (e *PromptEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/prompt", e.handler
}

// handler godoc
//
//	@Summary		Get the correction prompt
//	@Description	Get the instruction template, its variables and hash, and the structured output schema
//	@Tags			correction
//	@Produce		json
//	@Success		200	{object}	PromptResponse
//	@Router			/api/prompt [get]
func (e *PromptEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, PromptResponse{
		EmbeddedPrompt: correct.Prompt(),
		SchemaName:     correct.SchemaName,
		Schema:         correct.ResultSchema(),
	})
}

func (e *PromptEndpoint) Command(getServerURL func() string) *cobra.Command {
	var textOnly bool
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Show the correction prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp PromptResponse
			if err := client.Get(cmd.Context(), "/api/prompt", &resp); err != nil {
				return err
			}
			if textOnly {
				cmd.Println(resp.Text)
				return nil
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().BoolVar(&textOnly, "text", false, "Print only the template text")
	return cmd
}

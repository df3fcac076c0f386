package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/fixspelling/fixspell/internal/api"
	"github.com/fixspelling/fixspell/internal/svcctx"
)

// ModelsResponse describes what POST /api/fix accepts.
type ModelsResponse struct {
	Models        []string `json:"models"`
	DefaultModel  string   `json:"default_model"`
	MaxTextLength int      `json:"max_text_length"`
}

// ModelsEndpoint handles GET /api/models.
type ModelsEndpoint struct{}

func (e *ModelsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/models", e.handler
}

// handler godoc
//
//	@Summary		List accepted models
//	@Description	Get the model identifiers /api/fix accepts, the default, and the text length cap
//	@Tags			correction
//	@Produce		json
//	@Success		200	{object}	ModelsResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/models [get]
func (e *ModelsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	v := svcctx.ValidatorFrom(r.Context())
	if v == nil {
		writeError(w, http.StatusInternalServerError, "validator not available")
		return
	}
	p := v.Policy()
	writeJSON(w, http.StatusOK, ModelsResponse{
		Models:        p.Models,
		DefaultModel:  p.DefaultModel,
		MaxTextLength: p.MaxTextLength,
	})
}

func (e *ModelsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models the server accepts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ModelsResponse
			if err := client.Get(cmd.Context(), "/api/models", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

package endpoints

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/fixspelling/fixspell/internal/correction"
	"github.com/fixspelling/fixspell/internal/providers"
	"github.com/fixspelling/fixspell/internal/svcctx"
)

// defaultMaxBodyBytes applies when the services carry no limit.
const defaultMaxBodyBytes = 64 << 10

// FixRequest is the request body for POST /api/fix.
type FixRequest struct {
	Text  string `json:"text" example:"Their going too the store tomorow."`
	Model string `json:"model,omitempty" example:"gpt-5-mini"`
}

// FixEndpoint handles POST /api/fix.
type FixEndpoint struct {
	// HomeDir returns the client home directory for saved preferences.
	// Evaluated when the command runs; nil or "" means ~/.fixspell.
	HomeDir func() string
}

func (e *FixEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/fix", e.handler
}

// handler godoc
//
//	@Summary		Correct a text
//	@Description	Streams the corrected text and an explanation as chunks of one JSON object
//	@Description	{"fixedText": string, "explanation": string}. Failures after the first chunk
//	@Description	abort the connection instead of returning an error body.
//	@Tags			correction
//	@Accept			json
//	@Produce		plain
//	@Param			request	body		FixRequest	true	"Text to correct"
//	@Success		200		{object}	correction.Result
//	@Failure		400		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/fix [post]
func (e *FixEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := svcctx.LoggerFrom(ctx)

	validator := svcctx.ValidatorFrom(ctx)
	pipeline := svcctx.PipelineFrom(ctx)
	if validator == nil || pipeline == nil {
		writeError(w, http.StatusInternalServerError, "correction pipeline not initialized")
		return
	}

	maxBytes := int64(defaultMaxBodyBytes)
	if s := svcctx.ServicesFrom(ctx); s != nil && s.MaxBodyBytes > 0 {
		maxBytes = s.MaxBodyBytes
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	req, err := validator.Validate(body)
	if err != nil {
		logger.Debug("rejected correction request", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	client, err := svcctx.CorrectionClientFrom(ctx)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	session, err := pipeline.Start(ctx, client, req, svcctx.RequestIDFrom(ctx))
	if err != nil {
		writeError(w, upstreamStatus(err), err.Error())
		return
	}
	defer session.Close()

	// Nothing is written until the first chunk, so an upstream that fails
	// immediately still gets a proper error response.
	if !session.Next() {
		err := session.Err()
		if err == nil {
			err = correction.ErrIncomplete
		}
		if ctx.Err() != nil {
			return
		}
		writeError(w, upstreamStatus(err), err.Error())
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("Cache-Control", "no-cache")
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	write := func(chunk string) error {
		if _, err := io.WriteString(w, chunk); err != nil {
			return err
		}
		return rc.Flush()
	}

	if err := write(session.Chunk()); err != nil {
		logger.Debug("client went away", "error", err)
		return
	}
	for session.Next() {
		if err := write(session.Chunk()); err != nil {
			logger.Debug("client went away", "error", err)
			return
		}
	}

	if err := session.Err(); err != nil {
		if ctx.Err() != nil {
			return
		}
		// The status line is already out; breaking the connection is the
		// only way left to tell the client the object is not complete.
		logger.Warn("aborting correction stream", "error", err, "bytes", len(session.Output()))
		panic(http.ErrAbortHandler)
	}
}

// upstreamStatus maps a pipeline failure that happened before any output.
func upstreamStatus(err error) int {
	if errors.Is(err, providers.ErrUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

func (e *FixEndpoint) Command(getServerURL func() string) *cobra.Command {
	var opts fixOptions
	cmd := &cobra.Command{
		Use:   "fix [text...]",
		Short: "Correct grammar and spelling",
		Long: `Correct grammar and spelling in a text.

The text is taken from the arguments, or from stdin when there are none.
The corrected text is printed as it streams in, followed by a short
explanation of the changes.

The selected model is remembered in the home directory; pass --model
to change it. Use -i for an interactive session that keeps a history
of the corrections made.`,
		Example: `  fixspell api fix "Their going too fast"
  fixspell api fix --model gpt-5-mini < draft.txt
  fixspell api fix --copy "i has a apple"
  fixspell api fix -i`,
		RunE: func(cmd *cobra.Command, args []string) error {
			homeDir := ""
			if e.HomeDir != nil {
				homeDir = e.HomeDir()
			}
			opts.modelChanged = cmd.Flags().Changed("model")
			fc, err := newFixClient(getServerURL(), homeDir, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if opts.interactive {
				return fc.interactive(cmd.Context(), cmd.InOrStdin())
			}
			text, err := inputText(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			_, err = fc.fix(cmd.Context(), text)
			return err
		},
	}
	cmd.Flags().StringVarP(&opts.model, "model", "m", "", "Model to use (saved for later runs)")
	cmd.Flags().BoolVarP(&opts.copy, "copy", "c", false, "Copy the corrected text to the clipboard")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "Correct texts line by line until :quit")
	cmd.Flags().BoolVar(&opts.structured, "structured", false, "Print the final result in the --output format instead of streaming")
	return cmd
}

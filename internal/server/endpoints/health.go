package endpoints

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/fixspelling/fixspell/internal/api"
	"github.com/fixspelling/fixspell/internal/providers"
	"github.com/fixspelling/fixspell/internal/svcctx"
	"github.com/fixspelling/fixspell/version"
)

// readyCheckTimeout bounds the upstream probe made by /ready.
const readyCheckTimeout = 10 * time.Second

// HealthResponse is the response for health check endpoints.
type HealthResponse struct {
	Status   string `json:"status"`
	Provider string `json:"provider,omitempty"`
	Error    string `json:"error,omitempty"`
}

// HealthEndpoint handles GET /health.
type HealthEndpoint struct{}

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

// handler godoc
//
//	@Summary	Liveness check
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Router		/health [get]
func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/health", &resp); err != nil {
				return err
			}
			fmt.Printf("Status: %s\n", resp.Status)
			return nil
		},
	}
}

// ReadyEndpoint handles GET /ready.
type ReadyEndpoint struct{}

func (e *ReadyEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/ready", e.handler
}

// handler godoc
//
//	@Summary		Readiness check
//	@Description	Reports ok only when the correction provider is registered and reachable
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Failure		503	{object}	HealthResponse
//	@Router			/ready [get]
func (e *ReadyEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var name string
	if s := svcctx.ServicesFrom(r.Context()); s != nil {
		name = s.Provider
	}
	resp := HealthResponse{Status: "ok", Provider: name}

	client, err := svcctx.CorrectionClientFrom(r.Context())
	if err != nil {
		resp.Status = "degraded"
		resp.Error = err.Error()
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	if hc, ok := client.(providers.HealthChecker); ok {
		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()
		if err := hc.HealthCheck(ctx); err != nil {
			svcctx.LoggerFrom(r.Context()).Warn("provider health check failed", "provider", name, "error", err)
			resp.Status = "degraded"
			resp.Error = err.Error()
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *ReadyEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "ready",
		Short: "Check server readiness (includes the model provider)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/ready", &resp); err != nil {
				return err
			}
			fmt.Printf("Status:   %s\n", resp.Status)
			if resp.Provider != "" {
				fmt.Printf("Provider: %s\n", resp.Provider)
			}
			return nil
		},
	}
}

// StatusResponse is the detailed status response.
type StatusResponse struct {
	Server     string          `json:"server"`
	Version    string          `json:"version"`
	Uptime     string          `json:"uptime"`
	ConfigFile string          `json:"config_file,omitempty"`
	Providers  ProvidersStatus `json:"providers"`
}

// ProvidersStatus shows registered model clients and which one serves corrections.
type ProvidersStatus struct {
	Registered []string `json:"registered"`
	Correction string   `json:"correction"`
	Available  bool     `json:"available"`
}

// StatusEndpoint handles GET /status.
type StatusEndpoint struct{}

func (e *StatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/status", e.handler
}

// handler godoc
//
//	@Summary	Detailed server status
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	StatusResponse
//	@Router		/status [get]
func (e *StatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Server:  "running",
		Version: version.GitRelease,
	}
	resp.Providers.Registered = []string{}

	if s := svcctx.ServicesFrom(r.Context()); s != nil {
		if !s.StartedAt.IsZero() {
			resp.Uptime = time.Since(s.StartedAt).Round(time.Second).String()
		}
		resp.ConfigFile = s.ConfigFile
		resp.Providers.Correction = s.Provider
		if s.Registry != nil {
			resp.Providers.Registered = s.Registry.List()
			resp.Providers.Available = s.Registry.Has(s.Provider)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *StatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get detailed server status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StatusResponse
			if err := client.Get(cmd.Context(), "/status", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

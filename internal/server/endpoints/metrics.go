package endpoints

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fixspelling/fixspell/internal/api"
	"github.com/fixspelling/fixspell/internal/metrics"
	"github.com/fixspelling/fixspell/internal/svcctx"
)

// MetricsResponse summarizes recent corrections.
type MetricsResponse struct {
	Total    int                         `json:"total"`
	Failures int                         `json:"failures"`
	Summary  *metrics.Summary            `json:"summary"`
	Detailed *metrics.DetailedStats      `json:"detailed"`
	ByModel  map[string]*metrics.Summary `json:"by_model"`
	Recent   []metrics.Metric            `json:"recent"`
}

// MetricsEndpoint handles GET /api/metrics.
type MetricsEndpoint struct{}

func (e *MetricsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/metrics", e.handler
}

// handler godoc
//
//	@Summary		Correction metrics
//	@Description	Latency, size and error statistics for corrections served since startup
//	@Tags			metrics
//	@Produce		json
//	@Param			model	query		string	false	"Only this model"
//	@Param			limit	query		int		false	"Number of recent entries (default 20)"
//	@Success		200		{object}	MetricsResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/metrics [get]
func (e *MetricsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	rec := svcctx.MetricsFrom(r.Context())
	if rec == nil {
		writeError(w, http.StatusInternalServerError, "metrics not available")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", v))
			return
		}
		limit = n
	}
	f := metrics.Filter{Model: r.URL.Query().Get("model")}

	total, failures := rec.Totals()
	recent := rec.List(f, limit)
	if recent == nil {
		recent = []metrics.Metric{}
	}
	writeJSON(w, http.StatusOK, MetricsResponse{
		Total:    total,
		Failures: failures,
		Summary:  rec.GetSummary(f),
		Detailed: rec.GetDetailedStats(f),
		ByModel:  rec.SummaryByModel(f),
		Recent:   recent,
	})
}

func (e *MetricsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var model string
	var limit int
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show correction metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			q := url.Values{}
			if model != "" {
				q.Set("model", model)
			}
			q.Set("limit", strconv.Itoa(limit))

			var resp MetricsResponse
			if err := client.Get(cmd.Context(), "/api/metrics?"+q.Encode(), &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&model, "model", "", "Only show this model")
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of recent corrections to list")
	return cmd
}

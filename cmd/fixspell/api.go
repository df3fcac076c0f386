package main

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/spf13/cobra"

	"github.com/fixspelling/fixspell/internal/api"
	"github.com/fixspelling/fixspell/internal/server/endpoints"
)

var serverURL string

var (
	waitTimeout  time.Duration
	waitInterval time.Duration
)

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait until the server is ready",
	Long: `Poll /ready until the server and its model provider are available.

Useful in scripts right after starting "fixspell serve".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), waitTimeout)
		defer cancel()

		if err := waitReady(ctx, getServerURL(), waitInterval, func(n uint, err error) {
			fmt.Fprintf(cmd.ErrOrStderr(), "not ready (attempt %d): %v\n", n+1, err)
		}); err != nil {
			return fmt.Errorf("server not ready after %s: %w", waitTimeout, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ready")
		return nil
	},
}

// waitReady polls /ready until it succeeds or ctx ends.
func waitReady(ctx context.Context, url string, interval time.Duration, onRetry func(uint, error)) error {
	client := api.NewClient(url)
	return retry.Do(
		func() error {
			reqCtx, cancel := context.WithTimeout(ctx, interval+5*time.Second)
			defer cancel()
			var resp endpoints.HealthResponse
			return client.Get(reqCtx, "/ready", &resp)
		},
		retry.Context(ctx),
		retry.Attempts(0),
		retry.Delay(interval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(onRetry),
	)
}

func init() {
	registry := api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{HomeDir: getHomeDir}) {
		registry.Register(ep)
	}
	apiCmd := registry.BuildCommands(getServerURL)

	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	waitCmd.Flags().DurationVar(&waitTimeout, "timeout", 30*time.Second, "How long to wait")
	waitCmd.Flags().DurationVar(&waitInterval, "interval", time.Second, "Delay between attempts")
	apiCmd.AddCommand(waitCmd)

	rootCmd.AddCommand(apiCmd)
}

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fixspelling/fixspell/internal/config"
	"github.com/fixspelling/fixspell/internal/server"
)

var (
	serveHost     string
	servePort     string
	serveLogLevel string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the fixspell server",
	Long: `Start the fixspell HTTP server.

The server provides:
  - GET  /              - Browser page
  - POST /api/fix       - Stream a correction for {"text", "model"?}
  - GET  /api/models    - Accepted models and the text length limit
  - GET  /api/prompt    - The correction prompt and output schema
  - GET  /api/metrics   - Latency and error statistics for recent corrections
  - GET  /health        - Basic server health check
  - GET  /ready         - Readiness check (includes the model provider)
  - GET  /status        - Registered providers and uptime
  - GET  /swagger.json  - OpenAPI document
  - GET  /swagger       - API documentation

The config file is watched; edits to providers and the correction policy
apply without a restart.

Examples:
  fixspell serve                    # Start on the configured port (default 8080)
  fixspell serve --port 3000        # Start on custom port
  fixspell serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Get home directory
		h, err := getHome()
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		cm, err := config.NewManager(cfgFile, ".", h.Path())
		if err != nil {
			return err
		}
		cfg := cm.Get()

		logCfg := cfg.Log
		if serveLogLevel != "" {
			logCfg.Level = serveLogLevel
		}
		logger, err := newLogger(os.Stdout, logCfg)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		cm.SetLogger(logger)

		if path := cm.ConfigFile(); path != "" {
			logger.Info("loaded config", "file", path)
			cm.WatchConfig()
		} else {
			logger.Info("no config file found, using defaults", "hint", "fixspell config init")
		}

		// Create server
		srv, err := server.New(server.Config{
			Host:          serveHost,
			Port:          servePort,
			ConfigManager: cm,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

// newLogger builds the server logger from the log config.
func newLogger(w io.Writer, c config.LogCfg) (*slog.Logger, error) {
	level, err := c.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	switch c.Format {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", c.Format)
	}
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default: server.host from config)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default: server.port from config)")
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", "", "Log level: debug, info, warn, error (default: log.level from config)")

	rootCmd.AddCommand(serveCmd)
}

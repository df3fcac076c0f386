package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fixspelling/fixspell/internal/api"
	"github.com/fixspelling/fixspell/internal/config"
	"github.com/fixspelling/fixspell/internal/correction"
	"github.com/fixspelling/fixspell/internal/fixer"
	"github.com/fixspelling/fixspell/internal/metrics"
	"github.com/fixspelling/fixspell/internal/providers"
	"github.com/fixspelling/fixspell/internal/server/endpoints"
	"github.com/fixspelling/fixspell/internal/svcctx"
)

const shutdownTimeout = 30 * time.Second

// Server is the main fixspell HTTP server.
type Server struct {
	httpServer *http.Server
	registry   *providers.Registry
	metrics    *metrics.Recorder
	configMgr  *config.Manager
	logger     *slog.Logger
	startedAt  time.Time

	// services is swapped whole on config reload; requests see either the
	// old or the new set, never a mix.
	services atomic.Pointer[svcctx.Services]

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
	addr    string
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: server.host from config)
	Host string
	// Port is the port to listen on (default: server.port from config)
	Port string
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Settings is used when no ConfigManager is set (default: config.DefaultConfig)
	Settings *config.Config
	// Registry overrides the provider registry built from config.
	// Config reloads leave an injected registry alone.
	Registry *providers.Registry
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	settings := cfg.Settings
	if cfg.ConfigManager != nil {
		settings = cfg.ConfigManager.Get()
	}
	if settings == nil {
		settings = config.DefaultConfig()
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.Host == "" {
		cfg.Host = settings.Server.Host
	}
	if cfg.Port == "" {
		cfg.Port = settings.Server.Port
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	ownRegistry := cfg.Registry == nil
	registry := cfg.Registry
	if ownRegistry {
		registry = providers.NewRegistryFromConfig(settings.ToProviderRegistryConfig(), cfg.Logger)
	}

	s := &Server{
		registry:  registry,
		metrics:   metrics.NewRecorder(metrics.DefaultCapacity),
		configMgr: cfg.ConfigManager,
		logger:    cfg.Logger,
		startedAt: time.Now(),
	}

	services, err := s.buildServices(settings)
	if err != nil {
		return nil, err
	}
	s.services.Store(services)

	// Watch for config changes
	if cfg.ConfigManager != nil {
		cfg.ConfigManager.OnChange(func(c *config.Config) {
			s.reload(c, ownRegistry)
		})
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{}) {
		s.endpointRegistry.Register(ep)
	}

	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux)

	s.httpServer = &http.Server{
		Addr:        net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:     s.middleware(mux),
		ReadTimeout: time.Duration(settings.Server.ReadTimeoutSeconds) * time.Second,
		// Corrections stream for as long as the model takes; the pipeline
		// timeout bounds them instead.
		WriteTimeout: 0,
		IdleTimeout:  time.Duration(settings.Server.IdleTimeoutSeconds) * time.Second,
		ErrorLog:     slog.NewLogLogger(cfg.Logger.Handler(), slog.LevelWarn),
	}
	s.addr = s.httpServer.Addr

	return s, nil
}

// reload applies a changed config. The provider registry is only rebuilt
// when the server owns it.
func (s *Server) reload(c *config.Config, reloadRegistry bool) {
	if reloadRegistry {
		s.registry.Reload(c.ToProviderRegistryConfig())
	}
	next, err := s.buildServices(c)
	if err != nil {
		s.logger.Error("failed to apply reloaded config", "error", err)
		return
	}
	s.services.Store(next)
	s.logger.Info("services reloaded from config",
		"provider", c.Correction.Provider,
		"models", c.Correction.Models,
	)
}

// buildServices builds the request-scoped service set for a config.
func (s *Server) buildServices(c *config.Config) (*svcctx.Services, error) {
	validator, err := correction.NewValidator(c.Policy())
	if err != nil {
		return nil, fmt.Errorf("failed to build request validator: %w", err)
	}
	configFile := ""
	if s.configMgr != nil {
		configFile = s.configMgr.ConfigFile()
	}
	return &svcctx.Services{
		Registry:  s.registry,
		Validator: validator,
		Pipeline: fixer.New(fixer.Config{
			Timeout: c.RequestTimeout(),
			Logger:  s.logger,
			Metrics: s.metrics,
		}),
		Metrics:      s.metrics,
		Logger:       s.logger,
		Provider:     c.Correction.Provider,
		MaxBodyBytes: c.Server.MaxBodyBytes,
		StartedAt:    s.startedAt,
		ConfigFile:   configFile,
	}, nil
}

// Start starts the server.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.running = true
	s.addr = ln.Addr().String()
	s.mu.Unlock()

	if !s.registry.Has(s.Services().Provider) {
		s.logger.Warn("correction provider is not registered; /api/fix will return 503",
			"provider", s.Services().Provider)
	}

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.Addr())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown, letting in-flight corrections finish.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var err error
	if err = s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		err = fmt.Errorf("shutdown: %w", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return err
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address. Once started this is the
// bound address, so a ":0" port resolves to the one picked by the kernel.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// Registry returns the provider registry.
func (s *Server) Registry() *providers.Registry {
	return s.registry
}

// Metrics returns the correction metrics recorder. It outlives config reloads.
func (s *Server) Metrics() *metrics.Recorder {
	return s.metrics
}

// Services returns the current service set.
func (s *Server) Services() *svcctx.Services {
	return s.services.Load()
}

// Handler returns the server's root handler, routes and middleware included.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) middleware(next http.Handler) http.Handler {
	return s.withRequestID(s.withLogging(s.withServices(next)))
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if services := s.services.Load(); services != nil {
			ctx = svcctx.WithServices(ctx, services)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

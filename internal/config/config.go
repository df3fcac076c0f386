package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/fixspelling/fixspell/internal/correction"
	"github.com/fixspelling/fixspell/internal/providers"
)

// EnvPrefix prefixes environment overrides, e.g. FIXSPELL_SERVER_PORT.
const EnvPrefix = "FIXSPELL"

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	v         *viper.Viper
	config    *Config
	callbacks []func(*Config)
	logger    *slog.Logger
}

// NewManager creates a new config manager and loads initial config.
// When cfgFile is empty, config.yaml is searched for in searchPaths,
// falling back to ./ and $HOME/.fixspell.
func NewManager(cfgFile string, searchPaths ...string) (*Manager, error) {
	cm := &Manager{
		v:         viper.New(),
		callbacks: make([]func(*Config), 0),
		logger:    slog.Default(),
	}

	if err := cm.initViper(cfgFile, searchPaths); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile string, searchPaths []string) error {
	v := cm.v
	setDefaults(v, DefaultConfig())

	// Environment variables with FIXSPELL_ prefix
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if len(searchPaths) == 0 {
			searchPaths = []string{".", "$HOME/.fixspell"}
		}
		for _, p := range searchPaths {
			v.AddConfigPath(p)
		}
	}

	// Try to read config file (not required)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// setDefaults registers every default as a leaf key, so environment
// overrides apply to nested values.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read_timeout_seconds", d.Server.ReadTimeoutSeconds)
	v.SetDefault("server.idle_timeout_seconds", d.Server.IdleTimeoutSeconds)
	v.SetDefault("server.max_body_bytes", d.Server.MaxBodyBytes)

	for name, p := range d.Providers {
		prefix := "providers." + name + "."
		v.SetDefault(prefix+"type", p.Type)
		v.SetDefault(prefix+"api_key", p.APIKey)
		v.SetDefault(prefix+"base_url", p.BaseURL)
		v.SetDefault(prefix+"timeout_seconds", p.TimeoutSeconds)
		v.SetDefault(prefix+"enabled", p.Enabled)
	}

	v.SetDefault("correction.provider", d.Correction.Provider)
	v.SetDefault("correction.max_text_length", d.Correction.MaxTextLength)
	v.SetDefault("correction.models", d.Correction.Models)
	v.SetDefault("correction.default_model", d.Correction.DefaultModel)
	v.SetDefault("correction.timeout_seconds", d.Correction.TimeoutSeconds)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// load parses the current viper state into a validated Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// SetLogger sets the logger used to report reload problems.
func (cm *Manager) SetLogger(logger *slog.Logger) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.logger = logger
}

// ConfigFile returns the path of the loaded config file, or "" if defaults are in use.
func (cm *Manager) ConfigFile() string {
	return cm.v.ConfigFileUsed()
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration.
// An edit that fails to load or validate is logged and the last good
// config stays in effect.
func (cm *Manager) WatchConfig() {
	cm.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()

		cm.mu.Lock()
		logger := cm.logger
		if err != nil {
			cm.mu.Unlock()
			logger.Error("config reload failed, keeping previous config", "file", e.Name, "error", err)
			return
		}
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		logger.Info("config reloaded", "file", e.Name)
		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	cm.v.WatchConfig()
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envVarPattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// Validate checks the config for values the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("server.max_body_bytes must be positive, got %d", c.Server.MaxBodyBytes))
	}
	if err := c.Policy().Check(); err != nil {
		errs = append(errs, fmt.Errorf("correction: %w", err))
	}
	if c.Correction.Provider == "" {
		errs = append(errs, errors.New("correction.provider is required"))
	} else if _, ok := c.Providers[c.Correction.Provider]; !ok {
		errs = append(errs, fmt.Errorf("correction.provider %q is not defined under providers", c.Correction.Provider))
	}
	for name, p := range c.Providers {
		switch p.Type {
		case providers.OpenAIClientName, providers.MockClientName:
		default:
			errs = append(errs, fmt.Errorf("providers.%s.type %q is not supported", name, p.Type))
		}
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Policy returns the request policy for the correction validator.
func (c *Config) Policy() correction.Policy {
	return correction.Policy{
		MaxTextLength: c.Correction.MaxTextLength,
		Models:        c.Correction.Models,
		DefaultModel:  c.Correction.DefaultModel,
	}
}

// RequestTimeout returns the per-request correction timeout.
func (c *Config) RequestTimeout() time.Duration {
	return seconds(c.Correction.TimeoutSeconds)
}

// SlogLevel parses the configured log level.
func (l LogCfg) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level %q: %w", l.Level, err)
	}
	return level, nil
}

// ToProviderRegistryConfig converts the config to a format suitable for providers.Registry.
// It resolves all ${ENV_VAR} references in API keys and base URLs.
func (c *Config) ToProviderRegistryConfig() providers.RegistryConfig {
	cfg := providers.RegistryConfig{
		Providers: make(map[string]providers.ProviderConfig, len(c.Providers)),
	}

	for name, p := range c.Providers {
		cfg.Providers[name] = providers.ProviderConfig{
			Type:    p.Type,
			APIKey:  ResolveEnvVars(p.APIKey),
			BaseURL: ResolveEnvVars(p.BaseURL),
			Timeout: seconds(p.TimeoutSeconds),
			Enabled: p.Enabled,
		}
	}

	return cfg
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# fixspell configuration
# API keys use ${ENV_VAR} syntax to reference environment variables
# Set this in your shell (or a .env file): export OPENAI_API_KEY=xxx
# Any key can be overridden with FIXSPELL_<SECTION>_<KEY>, e.g. FIXSPELL_SERVER_PORT=9090

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}

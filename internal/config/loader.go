// Package config provides centralized configuration management.
// Values resolve in three layers: built-in defaults, an optional user
// config file discovered via app identity, and environment variables.
package config

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fulmenhq/gofulmen/appidentity"
	gfconfig "github.com/fulmenhq/gofulmen/config"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/catwhisperingninja/cat-dexscreener/internal/appid"
	"github.com/catwhisperingninja/cat-dexscreener/internal/core"
	"github.com/catwhisperingninja/cat-dexscreener/internal/core/engine"
)

var (
	// appConfig holds the current application configuration
	appConfig   *Config
	configMu    sync.RWMutex
	appIdentity *appidentity.Identity
)

// Load loads configuration using the three-layer pattern:
// 1. Built-in defaults
// 2. User overrides from XDG config paths
// 3. Environment variables and runtime overrides
//
// This function is safe to call multiple times (e.g., for config reload)
func Load(ctx context.Context, runtimeOverrides ...map[string]any) (*Config, error) {
	// Get app identity if not already loaded
	if appIdentity == nil {
		identity, err := appid.Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load app identity: %w", err)
		}
		appIdentity = identity
	}

	v := viper.New()
	setDefaults(v)

	// Layer 2: user config file, discovered via XDG paths. A missing file
	// is fine; a malformed one is not.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configDir := gfconfig.GetAppConfigDir(configName()); strings.TrimSpace(configDir) != "" {
		v.AddConfigPath(configDir)
	}
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Layer 3: environment variables ({PREFIX}SERVER_PORT and friends)
	v.SetEnvPrefix(strings.TrimSuffix(envPrefix(), "_"))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Runtime overrides win over everything
	for _, overrides := range runtimeOverrides {
		if err := v.MergeConfigMap(overrides); err != nil {
			return nil, fmt.Errorf("failed to merge runtime overrides: %w", err)
		}
	}

	// Unmarshal into typed config struct
	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if strings.TrimSpace(cfg.Store.URL) == "" && strings.TrimSpace(cfg.Store.Path) == "" {
		cfg.Store.Path = DefaultStorePath()
	}

	// Store the loaded config
	setConfig(cfg)

	return cfg, nil
}

// setDefaults registers Layer 1 defaults, including the documented upstream
// rate ceilings per endpoint class.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "15s")

	v.SetDefault("gateway.base_url", engine.DefaultBaseURL)
	v.SetDefault("gateway.timeout", "10s")
	v.SetDefault("gateway.classes.token-metadata.capacity", 60)
	v.SetDefault("gateway.classes.token-metadata.window", "60s")
	v.SetDefault("gateway.classes.dex-data.capacity", 300)
	v.SetDefault("gateway.classes.dex-data.window", "60s")

	v.SetDefault("store.driver", "libsql")
	v.SetDefault("store.journal_enabled", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.profile", "STRUCTURED")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)

	v.SetDefault("health.enabled", true)

	v.SetDefault("debug.enabled", false)
	v.SetDefault("debug.pprof_enabled", false)
}

// LimiterClasses converts configured class overrides into limiter classes.
func (c *Config) LimiterClasses() map[string]core.LimiterClass {
	classes := make(map[string]core.LimiterClass, len(c.Gateway.Classes))
	for name, class := range c.Gateway.Classes {
		classes[name] = core.LimiterClass{
			Capacity: class.Capacity,
			Window:   class.Window,
		}
	}
	return classes
}

// GetConfig returns the current application configuration (thread-safe)
func GetConfig() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return appConfig
}

// setConfig updates the current configuration (thread-safe)
func setConfig(cfg *Config) {
	configMu.Lock()
	defer configMu.Unlock()
	appConfig = cfg
}

// envPrefix returns the identity env prefix with a trailing underscore.
func envPrefix() string {
	prefix := "DEXSCREENER_"
	if appIdentity != nil && strings.TrimSpace(appIdentity.EnvPrefix) != "" {
		prefix = appIdentity.EnvPrefix
	}
	if !strings.HasSuffix(prefix, "_") {
		prefix += "_"
	}
	return prefix
}

// configName returns the config directory name from app identity.
func configName() string {
	if appIdentity != nil {
		if strings.TrimSpace(appIdentity.ConfigName) != "" {
			return appIdentity.ConfigName
		}
		if strings.TrimSpace(appIdentity.BinaryName) != "" {
			return appIdentity.BinaryName
		}
	}
	return "cat-dexscreener"
}

// binaryName returns the binary name from app identity.
func binaryName() string {
	if appIdentity != nil && strings.TrimSpace(appIdentity.BinaryName) != "" {
		return appIdentity.BinaryName
	}
	return "cat-dexscreener"
}

// DefaultConfigPath returns the XDG-compliant path to the user config file.
func DefaultConfigPath() string {
	configDir := gfconfig.GetAppConfigDir(configName())
	if strings.TrimSpace(configDir) == "" {
		return ""
	}
	return filepath.Join(configDir, "config.yaml")
}

// DefaultDataDir returns the XDG-compliant data directory for the app.
func DefaultDataDir() string {
	return gfconfig.GetAppDataDir(configName())
}

// DefaultStorePath returns the XDG-compliant path to the database file.
func DefaultStorePath() string {
	dataDir := gfconfig.GetAppDataDir(configName())
	if strings.TrimSpace(dataDir) == "" {
		return "./" + binaryName() + ".db"
	}
	return filepath.Join(dataDir, binaryName()+".db")
}

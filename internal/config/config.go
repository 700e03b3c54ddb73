package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"atlasdash/internal/errors"
)

// DefaultAPIBase is the hosted backend used when no override is configured.
// ATLAS_API_BASE replaces it at deploy time; the settings store overrides
// both at runtime.
const DefaultAPIBase = "https://api.autoimmune-atlas.org"

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Atlas    AtlasConfig
	Settings SettingsConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// AtlasConfig holds upstream atlas API settings
type AtlasConfig struct {
	DefaultBase string
	Demo        bool
	DemoDelay   time.Duration
}

// SettingsConfig holds the location of the persisted settings file
type SettingsConfig struct {
	Path string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Atlas: AtlasConfig{
			DefaultBase: getEnvOrDefault("ATLAS_API_BASE", DefaultAPIBase),
			Demo:        getEnvBoolOrDefault("ATLAS_DEMO", false),
			DemoDelay:   getEnvDurationOrDefault("ATLAS_DEMO_DELAY", 150*time.Millisecond),
		},
		Settings: SettingsConfig{
			Path: getEnvOrDefault("SETTINGS_PATH", defaultSettingsPath()),
		},
	}

	if config.Atlas.DefaultBase == "" {
		return nil, errors.ConfigInvalid("ATLAS_API_BASE must not be empty")
	}
	if config.Server.Port == "" {
		return nil, errors.ConfigInvalid("PORT must not be empty")
	}

	return config, nil
}

// defaultSettingsPath places the settings file under the user config dir.
// An empty path is valid: the store then runs without persistence.
func defaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "atlasdash", "settings.json")
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

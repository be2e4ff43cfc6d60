// Package config loads the demo application's settings.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Store backends.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// DefaultAPIKey is used when no key is configured.
const DefaultAPIKey = "sample-key"

// Config holds the demo application's settings.
type Config struct {
	APIKey         string `mapstructure:"api_key"`
	Base64Encoding bool   `mapstructure:"base64_encoding"`
	Store          string `mapstructure:"store"`
	SessionDir     string `mapstructure:"-"`
}

// Load reads minisdk.yaml from sessionDir. Environment variables prefixed
// with MINISDK_ (MINISDK_API_KEY, MINISDK_BASE64_ENCODING, MINISDK_STORE)
// override the file. A missing file yields defaults.
func Load(sessionDir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("minisdk")
	v.SetConfigType("yaml")
	v.AddConfigPath(sessionDir)
	v.SetEnvPrefix("MINISDK")
	v.AutomaticEnv()

	v.SetDefault("api_key", DefaultAPIKey)
	v.SetDefault("base64_encoding", true)
	v.SetDefault("store", StoreFile)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading minisdk.yaml in %s: %w", sessionDir, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding minisdk.yaml in %s: %w", sessionDir, err)
	}
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	cfg.SessionDir = sessionDir
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the store backend. The API key is not checked; the SDK
// accepts any key.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreFile, StoreSQLite, StoreMemory:
		return nil
	default:
		return fmt.Errorf("invalid store %q: must be one of %s, %s, %s", c.Store, StoreFile, StoreSQLite, StoreMemory)
	}
}

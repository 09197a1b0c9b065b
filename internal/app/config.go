package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete storefront configuration, loadable from
// environment variables (KAMILA_ prefix) or YAML config files. Command-line
// flags are reserved for the subcommand dispatch, so aconfig skips them.
type Config struct {
	BaseURL       string        `default:"http://localhost:5000" usage:"Storefront backend base URL"`
	WhatsAppPhone string        `default:"6285246982655" usage:"Store WhatsApp number, international format without + or leading 0"`
	CachePath     string        `usage:"Local cache file (KAMILA_CACHE_PATH); defaults to ~/.kamila/cache.json"`
	HTTPTimeout   time.Duration `default:"30s" usage:"Per-request HTTP timeout"`
	Breaker       BreakerConfig
}

// BreakerConfig tunes the circuit breaker guarding the backend API.
type BreakerConfig struct {
	Failures uint32        `default:"5"   usage:"Consecutive failures that open the circuit"`
	Timeout  time.Duration `default:"30s" usage:"How long the circuit stays open before probing"`
}

// LoadConfig loads configuration from environment variables and YAML config
// files, and fills in the cache path default.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "KAMILA",
		SkipFlags: true,
		Files:     []string{"config.yaml", "/etc/kamila/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	if cfg.CachePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "resolve home dir for cache path")
		}
		cfg.CachePath = filepath.Join(home, ".kamila", "cache.json")
	}

	return &cfg, nil
}

package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config carries the client settings. Env vars win; flags only fill values
// the environment left empty.
type Config struct {
	// Gateway endpoint and public API key. Both are required for every
	// data-dependent command.
	GatewayURL string `env:"GATEWAY_URL"`
	GatewayKey string `env:"GATEWAY_KEY"`

	// Local state locations.
	TokenFile    string `env:"TOKEN_FILE"`
	SnapshotPath string `env:"CLIENT_DB_PATH"`

	// CacheTTL is the staleness window of the query cache.
	CacheTTL time.Duration `env:"CACHE_TTL"`

	Version bool `env:"-"` // show client version and exit (flag only)
}

// NewConfig loads .env, the environment and flags, in that order of
// precedence.
func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	flag.StringVar(&cfg.GatewayURL, "gateway-url", cfg.GatewayURL, "base URL of the storefront gateway")
	flag.StringVar(&cfg.GatewayKey, "gateway-key", cfg.GatewayKey, "public API key for the gateway")
	flag.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "path to the auth token file")
	flag.StringVar(&cfg.SnapshotPath, "client-db", cfg.SnapshotPath, "path to the offline catalog snapshot")
	flag.DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "staleness window for cached query results")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "show client version and exit")

	flag.Parse()

	cfg.GatewayURL = strings.TrimRight(strings.TrimSpace(cfg.GatewayURL), "/")

	// Fill local-state defaults if empty. Failures are left for the consumer
	// to surface; an unwritable config dir must not kill commands that never
	// touch local state.
	if home, err := os.UserConfigDir(); err == nil {
		base := filepath.Join(home, "kunstgalerie")
		if cfg.TokenFile == "" {
			cfg.TokenFile = filepath.Join(base, "auth_token")
		}
		if cfg.SnapshotPath == "" {
			cfg.SnapshotPath = filepath.Join(base, "catalog.sqlite")
		}
	}
	return cfg
}

// RequireGateway validates that the gateway endpoint is configured. Missing
// settings are a fatal startup condition for all data-dependent commands.
func (c *Config) RequireGateway() error {
	if c.GatewayURL == "" || c.GatewayKey == "" {
		return errors.New("GATEWAY_URL and GATEWAY_KEY must be configured (env, .env or flags)")
	}
	return nil
}

package config

import (
	"flag"
	"os"
	"testing"
	"time"
)

// resetFlagSet replaces the global FlagSet before each NewConfig call so the
// same flags are not registered twice across tests.
func resetFlagSet(t *testing.T) {
	t.Helper()
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flag.CommandLine.SetOutput(os.Stderr)
	os.Args = []string{os.Args[0]}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"GATEWAY_URL", "GATEWAY_KEY", "TOKEN_FILE", "CLIENT_DB_PATH", "CACHE_TTL"} {
		t.Setenv(k, "")
	}
}

func TestNewConfig_DefaultsWhenEnvEmpty(t *testing.T) {
	clearEnv(t)
	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.GatewayURL != "" || cfg.GatewayKey != "" {
		t.Fatalf("gateway settings must stay empty without env: url=%q key=%q", cfg.GatewayURL, cfg.GatewayKey)
	}
	if cfg.TokenFile == "" || cfg.SnapshotPath == "" {
		t.Fatalf("local state defaults must be non-empty: TokenFile=%q SnapshotPath=%q", cfg.TokenFile, cfg.SnapshotPath)
	}
	if err := cfg.RequireGateway(); err == nil {
		t.Fatalf("expected RequireGateway to fail on empty config")
	}
}

func TestNewConfig_EnvWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("GATEWAY_URL", "https://galerie.example.org/")
	t.Setenv("GATEWAY_KEY", "anon-key")
	t.Setenv("CACHE_TTL", "45s")

	resetFlagSet(t)
	cfg := NewConfig()

	if cfg.GatewayURL != "https://galerie.example.org" {
		t.Fatalf("trailing slash must be trimmed, got %q", cfg.GatewayURL)
	}
	if cfg.GatewayKey != "anon-key" {
		t.Fatalf("GatewayKey expected 'anon-key', got %q", cfg.GatewayKey)
	}
	if cfg.CacheTTL != 45*time.Second {
		t.Fatalf("CacheTTL expected 45s, got %v", cfg.CacheTTL)
	}
	if err := cfg.RequireGateway(); err != nil {
		t.Fatalf("RequireGateway: %v", err)
	}
}

func TestNewConfig_FlagsFillEmptyValues(t *testing.T) {
	clearEnv(t)
	resetFlagSet(t)
	os.Args = append(os.Args, "-gateway-url", "http://localhost:54321", "-gateway-key", "local-key", "-cache-ttl", "10s")

	cfg := NewConfig()
	if cfg.GatewayURL != "http://localhost:54321" {
		t.Fatalf("GatewayURL expected flag value, got %q", cfg.GatewayURL)
	}
	if cfg.GatewayKey != "local-key" {
		t.Fatalf("GatewayKey expected flag value, got %q", cfg.GatewayKey)
	}
	if cfg.CacheTTL != 10*time.Second {
		t.Fatalf("CacheTTL expected 10s, got %v", cfg.CacheTTL)
	}
}

func TestConfig_RequireGateway(t *testing.T) {
	cfg := &Config{GatewayURL: "http://localhost", GatewayKey: ""}
	if err := cfg.RequireGateway(); err == nil {
		t.Fatalf("expected error with missing key")
	}
	cfg.GatewayKey = "k"
	if err := cfg.RequireGateway(); err != nil {
		t.Fatalf("RequireGateway: %v", err)
	}
}

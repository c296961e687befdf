package config

import "testing"

func validConfig() Config {
	return Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{DSN: "postgres://localhost:5432/events?sslmode=disable"},
	}
}

func TestValidate_InvalidProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Provider = "gpu-cluster"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid embedding provider")
	}

	expected := `embedding.provider must be none, local, or remote, got "gpu-cluster"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_ValidProviders(t *testing.T) {
	for _, provider := range []string{"", "none", "local", "remote"} {
		t.Run("provider="+provider, func(t *testing.T) {
			cfg := validConfig()
			cfg.Embedding.Provider = provider

			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error for valid provider %q: %v", provider, err)
			}
		})
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDSN(t *testing.T) {
	cfg := validConfig()
	cfg.Database.DSN = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database DSN")
	}
}

func TestValidate_CacheEnabledWithoutAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Enabled = true

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for enabled cache without addrs")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.MaxOpenConns != 25 {
		t.Errorf("expected MaxOpenConns=25, got %d", cfg.Database.MaxOpenConns)
	}
	if cfg.Cache.TTLHours != 168 {
		t.Errorf("expected TTLHours=168, got %d", cfg.Cache.TTLHours)
	}
	if cfg.Embedding.RateLimitPerMinute != 60 {
		t.Errorf("expected RateLimitPerMinute=60, got %d", cfg.Embedding.RateLimitPerMinute)
	}
	if cfg.Search.CandidatePoolSize != 200 {
		t.Errorf("expected CandidatePoolSize=200, got %d", cfg.Search.CandidatePoolSize)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database:  DatabaseConfig{MaxOpenConns: 50, MaxIdleConns: 10, ConnMaxLifetime: 600},
		Embedding: EmbeddingConfig{RateLimitPerMinute: 120},
		Search:    SearchConfig{CandidatePoolSize: 500},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Database.MaxOpenConns != 50 {
		t.Errorf("expected MaxOpenConns=50, got %d", cfg.Database.MaxOpenConns)
	}
	if cfg.Embedding.RateLimitPerMinute != 120 {
		t.Errorf("expected RateLimitPerMinute=120, got %d", cfg.Embedding.RateLimitPerMinute)
	}
	if cfg.Search.CandidatePoolSize != 500 {
		t.Errorf("expected CandidatePoolSize=500, got %d", cfg.Search.CandidatePoolSize)
	}
}

func TestResolveEmbeddingProvider(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		inCI     bool
		expected string
	}{
		{"explicit wins over CI", "remote", true, "remote"},
		{"explicit none", "none", false, "none"},
		{"unset in CI", "", true, "none"},
		{"unset in dev", "", false, "local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Embedding.Provider = tt.explicit

			if got := cfg.ResolveEmbeddingProvider(tt.inCI); got != tt.expected {
				t.Errorf("ResolveEmbeddingProvider(%v) = %q, want %q", tt.inCI, got, tt.expected)
			}
		})
	}
}

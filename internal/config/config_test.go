package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("unexpected default port: %s", cfg.Port)
	}
	if cfg.CompileAPIURL == "" || cfg.OCRAPIURL == "" {
		t.Fatal("expected default upstream URLs")
	}
	if cfg.RateLimitRPS != 10 {
		t.Fatalf("unexpected default rate limit: %d", cfg.RateLimitRPS)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("COMPILE_API_URL", "http://compile.test/run")
	t.Setenv("RATE_LIMIT_RPS", "3")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9999" || cfg.CompileAPIURL != "http://compile.test/run" {
		t.Fatalf("overrides not applied: %#v", cfg)
	}
	if cfg.RateLimitRPS != 3 || cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("overrides not applied: %#v", cfg)
	}
}

func TestLoadRejectsBadRateLimit(t *testing.T) {
	t.Setenv("RATE_LIMIT_RPS", "-2")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative rate limit")
	}
}

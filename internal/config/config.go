package config

import (
	"errors"
	"os"
	"strconv"
)

// Config holds the service configuration, all sourced from environment
// variables. Gemini credentials are read by the llm/gemini package itself.
type Config struct {
	Port          string
	CompileAPIURL string
	OCRAPIURL     string
	OCRAPIKey     string
	RedisAddr     string // optional; enables rate limiting when set
	RateLimitRPS  int
	StatsSchedule string // cron spec for the usage reporter; empty disables
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnvOrDefault("PORT", "8080"),
		CompileAPIURL: getEnvOrDefault("COMPILE_API_URL", "http://compile-api:8080/compile"),
		OCRAPIURL:     getEnvOrDefault("OCR_API_URL", "https://api.ocr.space/parse/image"),
		OCRAPIKey:     os.Getenv("OCR_API_KEY"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RateLimitRPS:  getEnvInt("RATE_LIMIT_RPS", 10),
		StatsSchedule: os.Getenv("STATS_REPORT_SCHEDULE"),
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.CompileAPIURL == "" {
		return errors.New("COMPILE_API_URL must not be empty")
	}
	if cfg.OCRAPIURL == "" {
		return errors.New("OCR_API_URL must not be empty")
	}
	if cfg.RateLimitRPS <= 0 {
		return errors.New("RATE_LIMIT_RPS must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

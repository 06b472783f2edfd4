package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	APIPort  string
	LogLevel string

	// DatabaseDSN accepts a postgres:// URL or a sqlite file path.
	DatabaseDSN string

	ProviderBaseURL string
	ProviderAPIKey  string
	VisionModel     string
	TextModel       string
	RequestTimeout  time.Duration

	DefaultLanguage          string
	EnableImagePreprocessing bool

	NATSURL          string
	NATSTraceSubject string

	APIRateLimitRPS    int
	APIRateLimitBurst  int
	MaxInFlightUploads int
}

func Load() Config {
	return Config{
		APIPort:  mustEnv("API_PORT", "8000"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		DatabaseDSN: mustEnv("DATABASE_DSN", "./forms.db"),

		ProviderBaseURL: mustEnv("PROVIDER_BASE_URL", "https://router.huggingface.co/v1"),
		ProviderAPIKey:  mustEnv("PROVIDER_API_KEY", ""),
		VisionModel:     mustEnv("VISION_MODEL", "Qwen/Qwen2.5-VL-7B-Instruct:hyperbolic"),
		TextModel:       mustEnv("TEXT_MODEL", "Qwen/Qwen2.5-VL-7B-Instruct:hyperbolic"),
		RequestTimeout:  mustEnvDuration("PROVIDER_REQUEST_TIMEOUT", 120*time.Second),

		DefaultLanguage:          mustEnv("DEFAULT_LANGUAGE", "English"),
		EnableImagePreprocessing: mustEnvBool("ENABLE_IMAGE_PREPROCESSING", true),

		NATSURL:          mustEnv("NATS_URL", ""),
		NATSTraceSubject: mustEnv("NATS_TRACE_SUBJECT", "extraction.traces"),

		APIRateLimitRPS:    mustEnvInt("API_RATE_LIMIT_RPS", 0),
		APIRateLimitBurst:  mustEnvInt("API_RATE_LIMIT_BURST", 0),
		MaxInFlightUploads: mustEnvInt("MAX_IN_FLIGHT_UPLOADS", 0),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func mustEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

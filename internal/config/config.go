package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	portEnv     = "PORT"
	logLevelEnv = "LOG_LEVEL"

	otlpEndpointEnv = "OTEL_EXPORTER_OTLP_ENDPOINT"
	otlpHeadersEnv  = "OTEL_EXPORTER_OTLP_HEADERS"

	defaultPort = "8080"
)

type Config struct {
	Port     string
	LogLevel slog.Level

	OTLPEndpoint string
	OTLPHeaders  string

	Aggregation *AggregationConfig
	Catalog     *CatalogConfig
	Context     *ContextConfig
	Redis       *RedisConfig
	Display     DisplayConfig
}

// Load reads the configuration from the environment. A .env file in the working
// directory is applied first when present; variables already set win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port := os.Getenv(portEnv)
	if port == "" {
		port = defaultPort
	}

	redisConfig, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}

	contextConfig, err := LoadContextConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:         port,
		LogLevel:     parseLogLevel(os.Getenv(logLevelEnv)),
		OTLPEndpoint: os.Getenv(otlpEndpointEnv),
		OTLPHeaders:  os.Getenv(otlpHeadersEnv),
		Aggregation:  LoadAggregationConfig(),
		Catalog:      LoadCatalogConfig(),
		Context:      contextConfig,
		Redis:        redisConfig,
		Display:      LoadDisplayConfig(),
	}, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func positiveIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

// durationEnv accepts Go duration strings. Zero is allowed and negative or
// malformed values fall back.
func durationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return fallback
}

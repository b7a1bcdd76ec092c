package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	JWKSURL     string // Empty disables bearer token verification
	CORSOrigins string
	TablePrefix string
	// Machine translation
	AnthropicAPIKey  string
	TranslationModel string
	// Export archive
	ExportStorage  string // "local" or "minio"
	ExportDir      string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	// Observability
	LogDir         string // Empty disables the log file
	LogMaxFiles    int
	MetricsEnabled bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		JWKSURL:     getEnv("JWKS_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix: getTablePrefix(env),
		// Machine translation
		AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
		TranslationModel: getEnv("TRANSLATION_MODEL", "claude-haiku-4-5-20251001"),
		// Export archive
		ExportStorage:  strings.ToLower(getEnv("EXPORT_STORAGE", "local")),
		ExportDir:      getEnv("EXPORT_DIR", "./exports"),
		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("MINIO_BUCKET", "manual-exports"),
		MinioUseSSL:    getEnv("MINIO_USE_SSL", "false") == "true",
		// Observability
		LogDir:         getEnv("LOG_DIR", ""),
		LogMaxFiles:    getEnvInt("LOG_MAX_FILES", 10),
		MetricsEnabled: getEnv("METRICS_ENABLED", "true") == "true",
	}
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

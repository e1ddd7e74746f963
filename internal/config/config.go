package config

import "os"

// Config holds runtime settings loaded from the environment.
type Config struct {
	Port        string
	DatabaseDSN string
	Env         string
	LogLevel    string
	LogFormat   string
}

// Load reads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (loaded by the caller) > default.
func Load() Config {
	return Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", "billing.db"),
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "console"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// PieceSizes maps a named piece size to its weight per piece in kg.
// 10 Tola is 116.5 grams. Fixed at initialization, not runtime-extensible.
var PieceSizes = map[string]float64{
	"10 Tola": 0.1165,
	"500 g":   0.5,
	"1 kg":    1.0,
}

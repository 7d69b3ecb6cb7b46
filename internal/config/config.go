package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr    string
	DBPath  string
	Storage string // "sqlite" or "memory"

	ModelProvider string // "langchain", "openai" or "mock"
	Model         string
	BaseURL       string
	APIKey        string
	ModelTimeout  time.Duration
	Temperature   float64
	MaxTokens     int

	LogLevel string
}

// Load reads the environment, seeded from a .env file in the working
// directory when one exists.
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom is Load with an explicit env file. Variables already set in the
// environment win over the file.
func LoadFrom(envFile string) (*Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := &Config{
		Addr:          getEnv("BUILDER_ADDR", ":8100"),
		DBPath:        getEnv("BUILDER_DB_PATH", "builder.db"),
		Storage:       getEnv("BUILDER_STORAGE", "sqlite"),
		ModelProvider: getEnv("BUILDER_MODEL_PROVIDER", "langchain"),
		Model:         getEnv("BUILDER_MODEL", "gpt-3.5-turbo"),
		BaseURL:       getEnv("BUILDER_BASE_URL", ""),
		APIKey:        getEnv("OPENAI_API_KEY", ""),
		LogLevel:      getEnv("BUILDER_LOG_LEVEL", "info"),
	}

	var err error
	if cfg.ModelTimeout, err = time.ParseDuration(getEnv("BUILDER_MODEL_TIMEOUT", "60s")); err != nil {
		return nil, fmt.Errorf("invalid BUILDER_MODEL_TIMEOUT: %w", err)
	}
	if cfg.Temperature, err = strconv.ParseFloat(getEnv("BUILDER_TEMPERATURE", "0.7"), 64); err != nil {
		return nil, fmt.Errorf("invalid BUILDER_TEMPERATURE: %w", err)
	}
	if cfg.MaxTokens, err = strconv.Atoi(getEnv("BUILDER_MAX_TOKENS", "2000")); err != nil {
		return nil, fmt.Errorf("invalid BUILDER_MAX_TOKENS: %w", err)
	}

	switch cfg.Storage {
	case "sqlite", "memory":
	default:
		return nil, fmt.Errorf("unknown BUILDER_STORAGE %q", cfg.Storage)
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

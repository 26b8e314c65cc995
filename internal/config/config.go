// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ericfisherdev/promptenhancer/internal/domain/model"
)

const defaultEnvFile = ".env"

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr  string
	Provider    model.Provider
	Model       string // Empty selects the provider's default model.
	BaseURL     string // Empty selects the provider's public endpoint.
	DBPath      string // Empty disables run history.
	LogLevel    slog.Level
	CORSOrigins []string
}

// HistoryEnabled reports whether run history should be persisted.
func (c *Config) HistoryEnabled() bool {
	return c.DBPath != ""
}

// Load reads configuration from environment variables and returns a validated Config.
// Variables from PROMPTENHANCER_ENV_FILE (default ".env") are loaded first without
// overriding the process environment; a missing default file is not an error.
// All variables are optional:
// PROMPTENHANCER_LISTEN_ADDR (127.0.0.1:8080), PROMPTENHANCER_PROVIDER (openai),
// PROMPTENHANCER_MODEL, PROMPTENHANCER_BASE_URL, PROMPTENHANCER_DB_PATH,
// PROMPTENHANCER_LOG_LEVEL (info), PROMPTENHANCER_CORS_ORIGINS (comma-separated).
// The API credential is never read from configuration; users supply it per request.
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("PROMPTENHANCER_LISTEN_ADDR"); ok && v != "" {
		listenAddr = v
	}

	provider := model.ProviderOpenAI
	if v, ok := os.LookupEnv("PROMPTENHANCER_PROVIDER"); ok && v != "" {
		switch p := model.Provider(strings.ToLower(strings.TrimSpace(v))); p {
		case model.ProviderOpenAI, model.ProviderAnthropic:
			provider = p
		default:
			return nil, fmt.Errorf("PROMPTENHANCER_PROVIDER has unsupported value %q (want openai or anthropic)", v)
		}
	}

	logLevel := slog.LevelInfo
	if v, ok := os.LookupEnv("PROMPTENHANCER_LOG_LEVEL"); ok && v != "" {
		if err := logLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("PROMPTENHANCER_LOG_LEVEL has invalid level %q: %w", v, err)
		}
	}

	var corsOrigins []string
	if v, ok := os.LookupEnv("PROMPTENHANCER_CORS_ORIGINS"); ok && v != "" {
		for _, origin := range strings.Split(v, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				corsOrigins = append(corsOrigins, origin)
			}
		}
	}
	if corsOrigins == nil {
		corsOrigins = []string{}
	}

	return &Config{
		ListenAddr:  listenAddr,
		Provider:    provider,
		Model:       strings.TrimSpace(os.Getenv("PROMPTENHANCER_MODEL")),
		BaseURL:     strings.TrimSpace(os.Getenv("PROMPTENHANCER_BASE_URL")),
		DBPath:      os.Getenv("PROMPTENHANCER_DB_PATH"),
		LogLevel:    logLevel,
		CORSOrigins: corsOrigins,
	}, nil
}

// loadEnvFile loads a dotenv file. An explicitly configured file must exist.
func loadEnvFile() error {
	path, explicit := os.LookupEnv("PROMPTENHANCER_ENV_FILE")
	if !explicit || path == "" {
		path = defaultEnvFile
	}

	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("PROMPTENHANCER_ENV_FILE %q could not be loaded: %w", path, err)
}

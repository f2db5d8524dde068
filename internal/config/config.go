package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Config holds all application configuration.
type Config struct {
	Env      string
	Database DatabaseConfig
	HTTP     HTTPConfig
	CORS     CORSConfig
	GRPC     GRPCConfig
	Auth     AuthConfig
	Tracing  TracingConfig
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Path string // SQLite database file path
}

// HTTPConfig contains HTTP API settings.
type HTTPConfig struct {
	Address string // listen address (e.g., ":3000")
}

// CORSConfig lists the browser origins allowed to call the HTTP API.
type CORSConfig struct {
	AllowedOrigins []string // "*" allows any origin
}

// GRPCConfig contains gRPC health listener settings.
type GRPCConfig struct {
	Address string // gRPC server listen address (e.g., ":50051")
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret  string        // JWT signing secret
	TokenTTL   time.Duration // lifetime of issued tokens
	BcryptCost int
}

// TracingConfig contains OpenTelemetry exporter settings.
type TracingConfig struct {
	Endpoint string // OTLP/HTTP host:port; empty disables export
}

// Load loads configuration from environment variables with sensible defaults.
// A .env file in the working directory is read first if present.
func Load() (*Config, error) {
	cfg, err := load("")
	if err != nil {
		return nil, err
	}

	// Validate critical settings
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set; required for production")
	}

	return cfg, nil
}

// LoadWithDefaults is like Load but uses a safe default for JWT_SECRET in development.
// WARNING: Only use in development! Use Load() in production.
func LoadWithDefaults() (*Config, error) {
	return load("dev-secret-change-me")
}

func load(defaultSecret string) (*Config, error) {
	// Missing .env is the common case outside local runs.
	_ = godotenv.Load()

	ttl, err := getEnvDuration("TOKEN_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}
	cost, err := getEnvInt("BCRYPT_COST", 10)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env: getEnv("APP_ENV", EnvLocal),
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "sweetshop.db"),
		},
		HTTP: HTTPConfig{
			Address: getEnv("HTTP_ADDRESS", ":3000"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ORIGINS", []string{"*"}),
		},
		GRPC: GRPCConfig{
			Address: getEnv("GRPC_ADDRESS", ":50051"),
		},
		Auth: AuthConfig{
			JWTSecret:  getEnv("JWT_SECRET", defaultSecret),
			TokenTTL:   ttl,
			BcryptCost: cost,
		},
		Tracing: TracingConfig{
			Endpoint: getEnv("OTEL_ENDPOINT", ""),
		},
	}

	if cfg.Auth.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive, got %s", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.BcryptCost < 4 || cfg.Auth.BcryptCost > 31 {
		return nil, fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", cfg.Auth.BcryptCost)
	}
	switch cfg.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return nil, fmt.Errorf("APP_ENV must be one of %s, %s, %s; got %q", EnvLocal, EnvDev, EnvProd, cfg.Env)
	}
	return cfg, nil
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// getEnvInt retrieves an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}

// getEnvList splits a comma-separated variable, dropping blank entries.
func getEnvList(key string, defaultVal []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		return d, nil
	}
	return defaultVal, nil
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	return fmt.Sprintf("Config{Env: %s, DB: %s, HTTP: %s, CORS: %v, gRPC: %s, TokenTTL: %s, Auth: *** (masked) ***}",
		c.Env, c.Database.Path, c.HTTP.Address, c.CORS.AllowedOrigins, c.GRPC.Address, c.Auth.TokenTTL)
}

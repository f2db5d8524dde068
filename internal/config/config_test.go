package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func clearEnv() {
	for _, k := range []string{"DB_PATH", "HTTP_ADDRESS", "GRPC_ADDRESS", "JWT_SECRET", "TOKEN_TTL", "BCRYPT_COST", "APP_ENV", "OTEL_ENDPOINT", "CORS_ORIGINS"} {
		os.Unsetenv(k)
	}
}

func TestLoadWithDefaults_Succeeds(t *testing.T) {
	// Ensure envs are clean to use defaults
	clearEnv()
	cfg, err := LoadWithDefaults()
	if err != nil {
		t.Fatalf("LoadWithDefaults: %v", err)
	}
	if cfg.HTTP.Address == "" || cfg.GRPC.Address == "" || cfg.Database.Path == "" || cfg.Auth.JWTSecret == "" {
		t.Fatalf("unexpected empty defaults: %+v", cfg)
	}
	if cfg.Auth.TokenTTL != 7*24*time.Hour {
		t.Fatalf("token ttl = %s, want 168h", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.BcryptCost != 10 {
		t.Fatalf("bcrypt cost = %d, want 10", cfg.Auth.BcryptCost)
	}
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	clearEnv()
	t.Setenv("DB_PATH", "test.db")
	t.Setenv("HTTP_ADDRESS", ":1234")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when JWT_SECRET is not set")
	}
	// When set, it should succeed
	t.Setenv("JWT_SECRET", "x")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with secret set: %v", err)
	}
	if cfg.HTTP.Address != ":1234" || cfg.Database.Path != "test.db" {
		t.Fatalf("env overrides ignored: %+v", cfg)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	cases := map[string][2]string{
		"bad ttl":       {"TOKEN_TTL", "soon"},
		"negative ttl":  {"TOKEN_TTL", "-1h"},
		"bad cost":      {"BCRYPT_COST", "ten"},
		"cost too high": {"BCRYPT_COST", "40"},
		"unknown env":   {"APP_ENV", "staging"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv()
			t.Setenv("JWT_SECRET", "x")
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", kv[0], kv[1])
			}
		})
	}
}

func TestString_MasksSecret(t *testing.T) {
	clearEnv()
	t.Setenv("JWT_SECRET", "super-secret-value")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if strings.Contains(cfg.String(), "super-secret-value") {
		t.Fatalf("secret leaked in String(): %s", cfg.String())
	}
}

func TestLoad_CORSOrigins(t *testing.T) {
	clearEnv()
	cfg, err := LoadWithDefaults()
	if err != nil {
		t.Fatalf("LoadWithDefaults: %v", err)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Fatalf("default origins = %v, want [*]", cfg.CORS.AllowedOrigins)
	}

	t.Setenv("CORS_ORIGINS", " http://localhost:5173 , ,https://shop.example.com")
	cfg, err = LoadWithDefaults()
	if err != nil {
		t.Fatalf("LoadWithDefaults: %v", err)
	}
	want := []string{"http://localhost:5173", "https://shop.example.com"}
	if strings.Join(cfg.CORS.AllowedOrigins, "|") != strings.Join(want, "|") {
		t.Fatalf("origins = %v, want %v", cfg.CORS.AllowedOrigins, want)
	}
}

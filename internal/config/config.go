// Package config loads the process-wide configuration.
//
// The configuration is read once at startup into an immutable struct and
// passed explicitly to the components that need it (token service, store
// initializer, server). Nothing reads environment variables after startup.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every tunable of the service. Values come from PASTEBIN_*
// environment variables, with a .env file honoured in development.
type Config struct {
	Port     int           `envconfig:"PORT" default:"8000"`
	DBPath   string        `envconfig:"DB_PATH" default:"data/pastebin.db"`
	TokenTTL time.Duration `envconfig:"TOKEN_TTL" default:"1800s"`

	// JWTSecret signs access tokens. When unset a random secret is generated
	// at startup, which means every issued token becomes invalid as soon as
	// the process restarts. That is an operational requirement, not a bug:
	// set PASTEBIN_JWT_SECRET in any deployment where tokens must survive a
	// restart or be shared between replicas.
	JWTSecret string `envconfig:"JWT_SECRET"`

	// BaseURL, when set, is used as the scheme://host prefix of the
	// pagination link headers. When empty, links are built from the Host of
	// the incoming request.
	BaseURL string `envconfig:"BASE_URL"`

	// GeneratedSecret records that JWTSecret was filled with a random value
	// because none was configured. main logs a warning when it is set.
	GeneratedSecret bool `ignored:"true"`
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first if present; real environment variables
// take precedence over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("pastebin", &cfg); err != nil {
		return nil, fmt.Errorf("config: reading environment: %w", err)
	}

	if cfg.JWTSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, fmt.Errorf("config: generating signing secret: %w", err)
		}
		cfg.JWTSecret = secret
		cfg.GeneratedSecret = true
	}

	return &cfg, nil
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Server contains configuration for the Profile API process.
type Server struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"APP_ENV" envDefault:"development"`

	FirebaseProjectID            string `env:"FIREBASE_PROJECT_ID" envDefault:"demo-test-project"`
	GoogleApplicationCredentials string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
}

// IsProduction reports whether fault detail must be suppressed in responses.
func (s Server) IsProduction() bool {
	return s.Environment == "production"
}

// Client contains configuration for the profilectl front end.
type Client struct {
	APIBaseURL string `env:"PROFILEHUB_API_URL" envDefault:"http://localhost:8080"`
	CacheDir   string `env:"PROFILEHUB_CACHE_DIR"`
}

// LoadServer reads server configuration from the environment, loading a .env
// file first when one is present.
func LoadServer() (*Server, error) {
	_ = godotenv.Load()

	cfg := Server{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}
	return &cfg, nil
}

// LoadClient reads client configuration from the environment. The cache
// directory defaults to a per-user location when unset.
func LoadClient() (*Client, error) {
	_ = godotenv.Load()

	cfg := Client{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse client config: %w", err)
	}
	if cfg.CacheDir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve cache dir: %w", err)
		}
		cfg.CacheDir = filepath.Join(base, "profilehub")
	}
	return &cfg, nil
}

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the process needs from the environment.
// It is loaded once at startup and treated as immutable after that.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`

	GitHubKey         string `env:"GITHUB_KEY,required"`
	GitHubSecret      string `env:"GITHUB_SECRET,required"`
	GitHubCallbackURL string `env:"GITHUB_CALLBACK_URL" envDefault:"http://localhost:8080/auth/github/callback"`

	GoogleKey         string `env:"GOOGLE_KEY,required"`
	GoogleSecret      string `env:"GOOGLE_SECRET,required"`
	GoogleCallbackURL string `env:"GOOGLE_CALLBACK_URL" envDefault:"http://localhost:8080/auth/google/callback"`

	SessionSecret   string        `env:"SESSION_SECRET,required"`
	SessionLifetime time.Duration `env:"SESSION_LIFETIME" envDefault:"24h"`

	Port string `env:"PORT" envDefault:"8080"`
}

// Load parses the process environment. A missing required variable is
// a startup failure; the caller must not serve traffic on error.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config contains server configuration parameters.
type Config struct {
	Port          string `env:"PORT" envDefault:"3000"`
	DatabasePath  string `env:"DATABASE_PATH" envDefault:"./articles.db"`
	MigrationsDir string `env:"MIGRATIONS_DIR" envDefault:"./database/migrations"`
	TemplatesDir  string `env:"TEMPLATES_DIR" envDefault:"./web"`
	OutputDir     string `env:"OUTPUT_DIR" envDefault:"./public"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

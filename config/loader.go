package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Load reads configuration with priority ENV > YAML > defaults.
// A .env file in the working directory is loaded into the environment
// first. SCDDB_CONFIG names an optional YAML file; when it is set the file
// must exist.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("SCDDB_CONFIG"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// defaults holds settings whose default is true. cleanenv cannot express
// them: a false read from YAML is indistinguishable from unset.
func defaults() Config {
	return Config{Blob: BlobConfig{UseSSL: true}}
}

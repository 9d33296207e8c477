package config

import (
	"errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the gateway's runtime configuration, loaded from the
// environment with an optional .env file for local development.
type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	Env      string `envconfig:"APP_ENV" default:"local"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// DatabaseURL empty selects the in-memory store.
	DatabaseURL string `envconfig:"DATABASE_URL"`

	GoogleAPIKey string `envconfig:"GOOGLE_API_KEY"`
	Model        string `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`

	Blob BlobConfig
}

// BlobConfig controls the optional S3-compatible artifact mirror.
type BlobConfig struct {
	Enabled   bool   `envconfig:"BLOB_ENABLED" default:"false"`
	Endpoint  string `envconfig:"BLOB_S3_ENDPOINT" default:"minio:9000"`
	Region    string `envconfig:"BLOB_S3_REGION" default:"us-east-1"`
	AccessKey string `envconfig:"BLOB_S3_ACCESS_KEY"`
	SecretKey string `envconfig:"BLOB_S3_SECRET_KEY"`
	Bucket    string `envconfig:"BLOB_S3_BUCKET" default:"backforge-artifacts"`
	UseSSL    bool   `envconfig:"BLOB_S3_USE_SSL" default:"false"`
}

// Load reads configuration from the environment. A .env file is
// applied first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(cfg.Port, ":") {
		cfg.Port = ":" + cfg.Port
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.GoogleAPIKey) == "" {
		return errors.New("GOOGLE_API_KEY is required")
	}
	return nil
}

// Local reports whether the gateway runs in the local environment.
func (c *Config) Local() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "local")
}

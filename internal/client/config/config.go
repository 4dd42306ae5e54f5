package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds runtime settings for the recipebook CLI.
//
// Units: RequestTimeout is a time.Duration (e.g., 10*time.Second).
type Config struct {
	// APIBaseURL is the root of the recipe REST API, e.g. http://localhost:8000/api.
	APIBaseURL string `env:"RECIPES_API_BASE"`
	// DatabasePath is the sqlite file holding the session token.
	DatabasePath string `env:"RECIPES_DB_PATH"`
	// RequestTimeout bounds a single API request.
	RequestTimeout time.Duration `env:"RECIPES_REQUEST_TIMEOUT"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL"`

	// S3 configures the export sink for s3:// destinations.
	S3 S3Config `envPrefix:"RECIPES_S3_"`
}

// S3Config configures S3 or an S3 compatible store such as MinIO.
// Empty credentials fall back to the default AWS credential chain.
type S3Config struct {
	Region       string `env:"REGION"`
	Endpoint     string `env:"ENDPOINT"`
	AccessKey    string `env:"ACCESS_KEY"`
	SecretKey    string `env:"SECRET_KEY"`
	UsePathStyle bool   `env:"USE_PATH_STYLE"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000/api"
	c.DatabasePath = "recipebook.db"
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "info"
	c.S3.Region = "us-east-1"
}

// Load builds a Config from defaults, then the environment (optionally seeded
// from a dotenv file), then a JSON file, then flags. Later sources take
// precedence over earlier ones.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, args); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}

// LoadConfig loads the configuration from the process command line.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

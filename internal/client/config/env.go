package config

import (
	"errors"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/recipebook/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv overlays cfg with environment variables. A dotenv file given via
// -e/-env-file must exist; otherwise ./.env is loaded when present. Variables
// already set in the environment win over the file.
func parseEnv(cfg *Config, args []string) error {
	if path := flagx.EnvFileFlag(args); path != "" {
		if err := godotenv.Load(path); err != nil {
			return err
		}
	} else if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return err
		}
	}

	return env.Parse(cfg)
}

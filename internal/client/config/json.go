package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/recipebook/internal/flagx"
)

// Duration accepts either a Go duration string ("3s") or integer
// nanoseconds in JSON.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent fields
// leave the corresponding Config values untouched.
type JsonConfig struct {
	APIBaseURL     *string   `json:"api_base_url"`
	DatabasePath   *string   `json:"database_path"`
	RequestTimeout *Duration `json:"request_timeout"`
	LogLevel       *string   `json:"log_level"`
	S3             *struct {
		Region       *string `json:"region"`
		Endpoint     *string `json:"endpoint"`
		AccessKey    *string `json:"access_key"`
		SecretKey    *string `json:"secret_key"`
		UsePathStyle *bool   `json:"use_path_style"`
	} `json:"s3"`
}

// parseJson overlays cfg with the JSON file named by -c/-config. Without the
// flag nothing is loaded.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if s3 := jc.S3; s3 != nil {
		setString(&cfg.S3.Region, s3.Region)
		setString(&cfg.S3.Endpoint, s3.Endpoint)
		setString(&cfg.S3.AccessKey, s3.AccessKey)
		setString(&cfg.S3.SecretKey, s3.SecretKey)
		if s3.UsePathStyle != nil {
			cfg.S3.UsePathStyle = *s3.UsePathStyle
		}
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the configuration carries everything the server
// needs to start. Redis and S3 are optional subsystems and are not required.
func ValidateConfig(cfg *Config) error {
	var errors []string

	required := map[string]string{
		"DB_USER":     cfg.DBUser,
		"DB_PASSWORD": cfg.DBPassword,
		"DB_NAME":     cfg.DBName,
		"DB_HOST":     cfg.DBHost,
		"DB_PORT":     cfg.DBPort,
		"JWT_SECRET":  cfg.JWTSecret,
		"SERVER_PORT": cfg.ServerPort,
	}
	for field, value := range required {
		if value == "" {
			errors = append(errors, fmt.Sprintf("required setting %s is not set", field))
		}
	}

	if cfg.S3Bucket != "" && cfg.AWSRegion == "" {
		errors = append(errors, "AWS_REGION is required when S3_BUCKET_NAME is set")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}

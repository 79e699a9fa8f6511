package config

import (
	"fmt"
	"strings"
)

// ValidateConfig checks that everything the server cannot run without is set.
func ValidateConfig(cfg *Config) error {
	var missing []string

	if cfg.DBUser == "" {
		missing = append(missing, "DB_USER")
	}
	if cfg.DBName == "" {
		missing = append(missing, "DB_NAME")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if cfg.DBSSLMode != "disable" && cfg.DBSSLMode != "require" &&
		cfg.DBSSLMode != "verify-ca" && cfg.DBSSLMode != "verify-full" {
		return fmt.Errorf("invalid DB_SSL_MODE: %s", cfg.DBSSLMode)
	}

	return nil
}

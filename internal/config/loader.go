package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Load reads configuration from environment variables. It applies defaults
// for unset values, normalizes the blob key layout, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		// Skip unexported fields
		if !fieldVal.CanSet() {
			continue
		}

		// Recurse into nested structs
		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		// Get tags
		envName := field.Tag.Get("env")
		envAlt := field.Tag.Get("envAlt")
		defaultVal := field.Tag.Get("default")
		required := field.Tag.Get("required") == "true"

		if envName == "" {
			continue
		}

		// Try primary env var, then the legacy alternate
		value := os.Getenv(envName)
		if value == "" && envAlt != "" {
			value = os.Getenv(envAlt)
		}

		// Apply default if not set
		if value == "" {
			if required {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = defaultVal
		}

		if value == "" {
			continue
		}

		// Set the field value
		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		// Handle time.Duration specially
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer: %w", err)
			}
			field.SetInt(i)
		}

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.String {
			// Split comma-separated values, trim whitespace
			parts := strings.Split(value, ",")
			result := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					result = append(result, p)
				}
			}
			field.Set(reflect.ValueOf(result))
		} else {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// normalize fixes up key-layout values so the rest of the code never has to
// reason about separators: prefixes end with exactly one "/", directory
// segments carry none, and the account URL drops a trailing slash.
func (c *Config) normalize() {
	c.Azure.AccountURL = strings.TrimRight(c.Azure.AccountURL, "/")
	c.Dataset.DataPrefix = normalizePrefix(c.Dataset.DataPrefix)
	c.Dataset.RepositoryPrefix = normalizePrefix(c.Dataset.RepositoryPrefix)
	c.Publish.HistoryPrefix = normalizePrefix(c.Publish.HistoryPrefix)
	c.Dataset.PartitionDir = strings.Trim(c.Dataset.PartitionDir, "/")
	c.Dataset.ValidationDir = strings.Trim(c.Dataset.ValidationDir, "/")
	c.Publish.ExportKey = strings.TrimLeft(c.Publish.ExportKey, "/")
}

func normalizePrefix(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}
	return p + "/"
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}

	// Azure validation
	if c.Azure.AccountURL == "" {
		errs = append(errs, "AZURE_ACCOUNT_URL is required")
	} else if !strings.HasPrefix(c.Azure.AccountURL, "http://") && !strings.HasPrefix(c.Azure.AccountURL, "https://") {
		errs = append(errs, fmt.Sprintf("AZURE_ACCOUNT_URL (%q) must be an http(s) URL", c.Azure.AccountURL))
	}
	if c.Azure.Container == "" {
		errs = append(errs, "AZURE_CONTAINER is required")
	}
	if c.Azure.OpTimeout <= 0 {
		errs = append(errs, "AZURE_OP_TIMEOUT must be positive")
	}

	// Transfer validation: the endpoint is optional, but a configured host
	// needs a full credential set.
	if c.Transfer.Host != "" {
		if c.Transfer.User == "" {
			errs = append(errs, "FTP_USER is required when FTP_HOST is set")
		}
		if c.Transfer.Password == "" {
			errs = append(errs, "FTP_PASSWORD is required when FTP_HOST is set")
		}
		if c.Transfer.Port <= 0 || c.Transfer.Port > 65535 {
			errs = append(errs, fmt.Sprintf("FTP_PORT (%d) must be 1-65535", c.Transfer.Port))
		}
	}

	// Dataset layout validation
	if c.Dataset.PartitionDir == "" {
		errs = append(errs, "PARTITION_DIR must not be empty")
	}
	if c.Dataset.PartitionFile == "" {
		errs = append(errs, "PARTITION_FILE must not be empty")
	}
	if len(c.Dataset.Statuses) == 0 {
		errs = append(errs, "DATASET_STATUSES must list at least one status")
	}

	// Publish layout validation
	if c.Publish.ExportKey == "" {
		errs = append(errs, "PUBLISH_EXPORT_KEY must not be empty")
	}
	if c.Publish.VendorFile == "" {
		errs = append(errs, "PUBLISH_VENDOR_FILE must not be empty")
	}
	if c.Publish.ExportFile == "" {
		errs = append(errs, "PUBLISH_EXPORT_FILE must not be empty")
	}

	// Upload validation
	if c.Upload.MaxFileSize <= 0 {
		errs = append(errs, "UPLOAD_MAX_FILE_SIZE must be positive")
	}
	if c.Upload.MaxTitleLength <= 0 {
		errs = append(errs, "UPLOAD_MAX_TITLE_LENGTH must be positive")
	}

	// Rate limit validation
	if c.Rate.Enabled && c.Rate.RequestsPerMinute <= 0 {
		errs = append(errs, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe representation of the config for logging. The SAS
// token and FTP password are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port))
	b.WriteString(fmt.Sprintf("Azure: {AccountURL: %q, Container: %q, SASToken: [MASKED], OpTimeout: %s}, ",
		c.Azure.AccountURL, c.Azure.Container, c.Azure.OpTimeout))
	b.WriteString(fmt.Sprintf("Transfer: {Host: %q, User: %q, Password: [MASKED]}, ",
		c.Transfer.Host, c.Transfer.User))
	b.WriteString(fmt.Sprintf("Dataset: {DataPrefix: %q, PartitionDir: %q, Statuses: %v}, ",
		c.Dataset.DataPrefix, c.Dataset.PartitionDir, c.Dataset.Statuses))
	b.WriteString(fmt.Sprintf("Publish: {ExportKey: %q, ExportFile: %q}, ",
		c.Publish.ExportKey, c.Publish.ExportFile))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}

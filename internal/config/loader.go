package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Load reads configuration from the process environment, applies defaults
// and validates the result.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom is Load with an explicit variable lookup.
func LoadFrom(getenv func(string) string) (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem(), getenv); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct populates struct fields from env, recursing into sections.
func loadStruct(v reflect.Value, getenv func(string) string) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			if err := loadStruct(fieldVal, getenv); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		if envName == "" {
			continue
		}

		value := getenv(envName)
		if alt := field.Tag.Get("envAlt"); value == "" && alt != "" {
			value = getenv(alt)
		}
		if value == "" {
			if field.Tag.Get("required") == "true" {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = field.Tag.Get("default")
		}
		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		if field.Type() == durationType {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.SetInt(int64(d))
			return nil
		}
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(i)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}
		var items []string
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				items = append(items, p)
			}
		}
		field.Set(reflect.ValueOf(items))

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []string
	check := func(bad bool, format string, args ...any) {
		if bad {
			errs = append(errs, fmt.Sprintf(format, args...))
		}
	}

	check(c.Server.Port <= 0 || c.Server.Port > 65535, "SERVER_PORT (%d) must be 1-65535", c.Server.Port)
	check(c.Server.ReadTimeout < 0, "SERVER_READ_TIMEOUT must be non-negative")
	check(c.Server.WriteTimeout < 0, "SERVER_WRITE_TIMEOUT must be non-negative")
	check(c.Server.ShutdownTimeout <= 0, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	check(c.Server.RequestTimeout <= 0, "SERVER_REQUEST_TIMEOUT must be positive")

	if c.Database.Enabled() {
		check(c.Database.MaxConns <= 0, "DB_MAX_CONNS must be positive")
		check(c.Database.MinConns < 0, "DB_MIN_CONNS must be non-negative")
		check(c.Database.MaxConns < c.Database.MinConns, "DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)",
			c.Database.MaxConns, c.Database.MinConns)
	}

	check(c.Convert.MaxFileSize <= 0, "CONVERT_MAX_FILE_SIZE must be positive")
	check(c.Convert.MaxConcurrent <= 0, "CONVERT_MAX_CONCURRENT must be positive")
	check(c.Convert.MaxWaitTime <= 0, "CONVERT_MAX_WAIT_TIME must be positive")
	check(c.Convert.Timeout <= 0, "CONVERT_TIMEOUT must be positive")
	check(c.Convert.ResultTTL <= 0, "CONVERT_RESULT_TTL must be positive")

	if c.Rate.Enabled {
		check(c.Rate.RequestsPerMinute <= 0, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
		check(c.Rate.ConvertLimit <= 0, "RATE_LIMIT_CONVERT must be positive when rate limiting is enabled")
	}

	check(c.Security.RequireAPIKey && len(c.Security.APIKeys) == 0,
		"REQUIRE_API_KEY is true but API_KEYS is empty; configure at least one API key or disable auth")

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// String renders the config for logging with secrets masked.
func (c *Config) String() string {
	db := "disabled"
	if c.Database.Enabled() {
		db = fmt.Sprintf("{URL: [MASKED], MaxConns: %d, MinConns: %d}", c.Database.MaxConns, c.Database.MinConns)
	}
	return fmt.Sprintf("Config{Server: {Addr: %q}, Database: %s, "+
		"Convert: {MaxFileSize: %d, MaxConcurrent: %d, AllowOverrides: %v, AllowImprovise: %v, LabConfigPath: %q}, "+
		"Rate: {Enabled: %v, RequestsPerMinute: %d}, Security: {RequireAPIKey: %v, APIKeys: %d}, "+
		"Logging: {Level: %q, Format: %q}}",
		c.Server.Addr(), db,
		c.Convert.MaxFileSize, c.Convert.MaxConcurrent, c.Convert.AllowOverrides, c.Convert.AllowImprovise, c.Convert.LabConfigPath,
		c.Rate.Enabled, c.Rate.RequestsPerMinute, c.Security.RequireAPIKey, len(c.Security.APIKeys),
		c.Logging.Level, c.Logging.Format)
}

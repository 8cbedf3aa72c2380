// Package config loads service configuration from an optional JSON file and the environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Backend names accepted in configuration.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// Duration is a time.Duration that reads and writes Go duration strings ("30s") in JSON.
type Duration time.Duration

// UnmarshalJSON accepts either a duration string or a number of nanoseconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid duration %s", string(data))
	}
	*d = Duration(n)
	return nil
}

// MarshalJSON writes the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the full service configuration. Every field is optional in the
// file; Default supplies the baseline and the environment overrides both.
type Config struct {
	// Generation
	Backend   string `json:"backend,omitempty" validate:"oneof=local remote"` // Where guidance is computed
	RemoteURL string `json:"remote_url,omitempty" validate:"omitempty,url"`   // Base URL of the remote guidance service
	Enhance   bool   `json:"enhance,omitempty"`                               // Expand guidance with Gemini
	APIKey    string `json:"api_key,omitempty"`                               // Gemini API key
	Model     string `json:"model,omitempty"`                                 // Gemini model name

	// Cache for enhanced guidance
	RedisURL string   `json:"redis_url,omitempty"`
	CacheTTL Duration `json:"cache_ttl,omitempty" validate:"gte=0"`

	// Server
	Port           int      `json:"port,omitempty" validate:"min=1,max=65535"`
	RequestTimeout Duration `json:"request_timeout,omitempty" validate:"gt=0"`
	LogLevel       string   `json:"log_level,omitempty" validate:"oneof=debug info warn error"`
}

// Default returns the baseline configuration: local rule engine, no enhancement.
func Default() *Config {
	return &Config{
		Backend:        BackendLocal,
		Model:          "gemini-2.5-flash",
		CacheTTL:       Duration(time.Hour),
		Port:           8080,
		RequestTimeout: Duration(30 * time.Second),
		LogLevel:       "info",
	}
}

// Load builds the effective configuration: defaults, then the JSON file at
// path (skipped when path is empty), then environment overrides. The result
// is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg.merge(fileCfg)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// merge copies every set field of other onto c.
func (c *Config) merge(other *Config) {
	if other.Backend != "" {
		c.Backend = other.Backend
	}
	if other.RemoteURL != "" {
		c.RemoteURL = other.RemoteURL
	}
	if other.Enhance {
		c.Enhance = true
	}
	if other.APIKey != "" {
		c.APIKey = other.APIKey
	}
	if other.Model != "" {
		c.Model = other.Model
	}
	if other.RedisURL != "" {
		c.RedisURL = other.RedisURL
	}
	if other.CacheTTL != 0 {
		c.CacheTTL = other.CacheTTL
	}
	if other.Port != 0 {
		c.Port = other.Port
	}
	if other.RequestTimeout != 0 {
		c.RequestTimeout = other.RequestTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
}

// ApplyEnv overrides fields from environment variables. Unset or empty
// variables leave the current value alone.
func (c *Config) ApplyEnv() error {
	c.Backend = getEnvString("GUIDANCE_BACKEND", c.Backend)
	c.RemoteURL = getEnvString("GUIDANCE_REMOTE_URL", c.RemoteURL)
	c.APIKey = getEnvString("GEMINI_API_KEY", c.APIKey)
	c.Model = getEnvString("GEMINI_MODEL", c.Model)
	c.RedisURL = getEnvString("REDIS_URL", c.RedisURL)
	c.LogLevel = strings.ToLower(getEnvString("LOG_LEVEL", c.LogLevel))

	var err error
	if c.Enhance, err = getEnvBool("GUIDANCE_ENHANCE", c.Enhance); err != nil {
		return err
	}
	if c.Port, err = getEnvInt("PORT", c.Port); err != nil {
		return err
	}

	ttl, err := getEnvDuration("CACHE_TTL", c.CacheTTL.Std())
	if err != nil {
		return err
	}
	c.CacheTTL = Duration(ttl)

	timeout, err := getEnvDuration("REQUEST_TIMEOUT", c.RequestTimeout.Std())
	if err != nil {
		return err
	}
	c.RequestTimeout = Duration(timeout)

	return nil
}

// Validate checks field values and cross-field requirements.
func (c *Config) Validate() error {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		return name
	})

	if err := v.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("config error: '%s' failed %s validation (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.Backend == BackendRemote && c.RemoteURL == "" {
		return fmt.Errorf("config error: 'remote_url' is required when backend is 'remote'")
	}
	if c.Enhance && c.APIKey == "" {
		return fmt.Errorf("config error: 'api_key' is required when enhance is enabled (set GEMINI_API_KEY)")
	}
	return nil
}

func getEnvString(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("config error: %s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("config error: %s must be a boolean: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("config error: %s must be a duration: %w", key, err)
	}
	return d, nil
}

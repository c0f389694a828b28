// Package config loads client settings from a YAML or JSON file, a .env
// file and APCA_* environment variables.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/betbot/alpaca/pkg/logger"
	"github.com/betbot/alpaca/pkg/ratelimit"
	"github.com/betbot/alpaca/pkg/sdk/http"
	"github.com/betbot/alpaca/pkg/sdk/paginate"
	"github.com/betbot/alpaca/pkg/sdk/trading"
	"github.com/betbot/alpaca/pkg/secretstore"
)

const (
	EnvKeyID              = "APCA_API_KEY_ID"
	EnvSecretKey          = "APCA_API_SECRET_KEY"
	EnvEnvironment        = "APCA_ENV"
	EnvTimeoutSeconds     = "APCA_TIMEOUT_SECONDS"
	EnvRateLimitPerMinute = "APCA_RATE_LIMIT_PER_MINUTE"
	EnvRateLimitBurst     = "APCA_RATE_LIMIT_BURST"
	EnvPageSize           = "APCA_PAGE_SIZE"
	EnvMaxTotal           = "APCA_MAX_TOTAL"
	EnvLogLevel           = "APCA_LOG_LEVEL"
	EnvLogFile            = "APCA_LOG_FILE"
	EnvSecretDB           = "APCA_SECRET_DB"
	EnvSecretStoreKey     = "APCA_SECRET_KEY"

	defaultTimeout = 30 * time.Second
)

// Config is the resolved client configuration.
type Config struct {
	KeyID              string
	SecretKey          string
	Environment        trading.Environment
	Timeout            time.Duration
	RateLimitPerMinute int
	PageSize           int
	MaxTotal           int
	LogLevel           string
	LogFile            string

	// RateLimitBurst selects a token bucket of this capacity refilled at
	// RateLimitPerMinute. Zero keeps the sliding one-minute window.
	RateLimitBurst int

	// SecretDB is the Badger directory consulted when credentials are not
	// configured directly. SecretStoreKey is its encryption key, env only.
	SecretDB       string
	SecretStoreKey string
}

// ConfigFile is the on-disk layout.
type ConfigFile struct {
	KeyID              string `yaml:"key_id" json:"key_id"`
	SecretKey          string `yaml:"secret_key" json:"secret_key"`
	Env                string `yaml:"env" json:"env"`
	TimeoutSeconds     int    `yaml:"timeout_seconds" json:"timeout_seconds"`
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute" json:"rate_limit_per_minute"`
	RateLimitBurst     int    `yaml:"rate_limit_burst" json:"rate_limit_burst"`
	PageSize           int    `yaml:"page_size" json:"page_size"`
	MaxTotal           int    `yaml:"max_total" json:"max_total"`
	LogLevel           string `yaml:"log_level" json:"log_level"`
	LogFile            string `yaml:"log_file" json:"log_file"`
	SecretDB           string `yaml:"secret_db" json:"secret_db"`
}

// LoadDotEnv loads a .env file into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "load %s", path)
	}
	return nil
}

// LoadFromFile resolves the configuration. Environment variables win over
// the file, which wins over defaults. An empty filePath skips the file.
func LoadFromFile(filePath string) (*Config, error) {
	cf := &ConfigFile{}
	if filePath != "" {
		var err error
		cf, err = loadConfigFile(filePath)
		if err != nil {
			return nil, errors.Wrapf(err, "load config %s", filePath)
		}
	}

	envName := firstNonEmpty(os.Getenv(EnvEnvironment), cf.Env, trading.Paper.String())
	env, err := trading.ParseEnvironment(envName)
	if err != nil {
		return nil, err
	}

	timeout := defaultTimeout
	if secs := firstPositive(parseIntEnv(EnvTimeoutSeconds, 0), cf.TimeoutSeconds); secs > 0 {
		timeout = time.Duration(secs) * time.Second
	}

	c := &Config{
		KeyID:              firstNonEmpty(os.Getenv(EnvKeyID), cf.KeyID),
		SecretKey:          firstNonEmpty(os.Getenv(EnvSecretKey), cf.SecretKey),
		Environment:        env,
		Timeout:            timeout,
		RateLimitPerMinute: firstPositive(parseIntEnv(EnvRateLimitPerMinute, 0), cf.RateLimitPerMinute, ratelimit.DefaultRequestsPerMinute),
		RateLimitBurst:     firstPositive(parseIntEnv(EnvRateLimitBurst, 0), cf.RateLimitBurst),
		PageSize:           firstPositive(parseIntEnv(EnvPageSize, 0), cf.PageSize, paginate.DefaultPageSize),
		MaxTotal:           firstPositive(parseIntEnv(EnvMaxTotal, 0), cf.MaxTotal, paginate.DefaultMaxTotal),
		LogLevel:           firstNonEmpty(os.Getenv(EnvLogLevel), cf.LogLevel, "info"),
		LogFile:            firstNonEmpty(os.Getenv(EnvLogFile), cf.LogFile),
		SecretDB:           firstNonEmpty(os.Getenv(EnvSecretDB), cf.SecretDB),
		SecretStoreKey:     os.Getenv(EnvSecretStoreKey),
	}

	if (c.KeyID == "" || c.SecretKey == "") && c.SecretDB != "" {
		if err := c.loadStoredCredentials(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Config) loadStoredCredentials() error {
	key, err := secretstore.ParseKey(c.SecretStoreKey)
	if err != nil {
		return errors.Wrap(err, EnvSecretStoreKey)
	}
	store, err := secretstore.Open(secretstore.OpenOptions{Path: c.SecretDB, EncryptionKey: key})
	if err != nil {
		return err
	}
	defer store.Close()

	keyID, secret, ok, err := store.Credentials()
	if err != nil {
		return err
	}
	if ok {
		c.KeyID = firstNonEmpty(c.KeyID, keyID)
		c.SecretKey = firstNonEmpty(c.SecretKey, secret)
	}
	return nil
}

func loadConfigFile(filePath string) (*ConfigFile, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cf ConfigFile
	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cf); err != nil {
			return nil, errors.Wrap(err, "parse yaml")
		}
	case ".json":
		if err := json.Unmarshal(data, &cf); err != nil {
			return nil, errors.Wrap(err, "parse json")
		}
	default:
		return nil, errors.Errorf("unsupported config format %q (want .yaml, .yml or .json)", ext)
	}
	return &cf, nil
}

func (c *Config) Validate() error {
	if c.KeyID == "" {
		return errors.Errorf("%s is not configured", EnvKeyID)
	}
	if c.SecretKey == "" {
		return errors.Errorf("%s is not configured", EnvSecretKey)
	}
	if c.Environment != trading.Live && c.Environment != trading.Paper {
		return errors.Errorf("invalid environment %v", c.Environment)
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if c.RateLimitPerMinute <= 0 {
		return errors.Errorf("%s must be positive", EnvRateLimitPerMinute)
	}
	if c.RateLimitBurst < 0 {
		return errors.Errorf("%s must not be negative", EnvRateLimitBurst)
	}
	if c.PageSize <= 0 || c.MaxTotal <= 0 {
		return errors.Errorf("%s and %s must be positive", EnvPageSize, EnvMaxTotal)
	}
	return nil
}

func (c *Config) Credentials() http.Credentials {
	return http.Credentials{KeyID: c.KeyID, SecretKey: c.SecretKey}
}

// DispatcherOptions configures an http.Client from c.
func (c *Config) DispatcherOptions() []http.Option {
	return []http.Option{
		http.WithCredentials(c.Credentials()),
		http.WithTimeout(c.Timeout),
		http.WithRateLimiter(c.RateLimiter()),
	}
}

// RateLimiter builds the limiter selected by RateLimitBurst.
func (c *Config) RateLimiter() ratelimit.RateLimiter {
	if c.RateLimitBurst > 0 {
		return ratelimit.Burst(c.RateLimitBurst, c.RateLimitPerMinute)
	}
	return ratelimit.PerMinute(c.RateLimitPerMinute)
}

func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:      c.LogLevel,
		OutputFile: c.LogFile,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

// parseIntEnv falls back to defaultValue when the variable is unset or not
// a number.
func parseIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}
	return parsed
}

// Package config loads service settings from defaults, an optional YAML
// file and DOCCHECK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "DOCCHECK"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	OCR       OCRConfig       `mapstructure:"ocr"`
	Vision    VisionConfig    `mapstructure:"vision"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Receipt   ReceiptConfig   `mapstructure:"receipt"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Addr        string `mapstructure:"addr"`
	MaxUploadMB int    `mapstructure:"max_upload_mb"`
	PublicURL   string `mapstructure:"public_url"`
}

type OCRConfig struct {
	// Provider is "vision" or "gemini".
	Provider       string `mapstructure:"provider"`
	Language       string `mapstructure:"language"`
	EarlyExitScore int    `mapstructure:"early_exit_score"`
	RetryAttempts  int    `mapstructure:"retry_attempts"`
	Parallel       bool   `mapstructure:"parallel"`
}

type VisionConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type ReceiptConfig struct {
	// Secret signs receipts. Receipts are disabled when it is empty.
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type RateLimitConfig struct {
	// RedisURL selects the shared Redis limiter. Empty keeps counters in
	// process memory.
	RedisURL          string `mapstructure:"redis_url"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.max_upload_mb", 50)
	v.SetDefault("server.public_url", "http://localhost:8000")
	v.SetDefault("ocr.provider", "vision")
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.early_exit_score", 4)
	v.SetDefault("ocr.retry_attempts", 2)
	v.SetDefault("ocr.parallel", false)
	v.SetDefault("vision.credentials_file", "${GOOGLE_APPLICATION_CREDENTIALS}")
	v.SetDefault("gemini.api_key", "${GEMINI_API_KEY}")
	v.SetDefault("gemini.model", "gemini-2.0-flash-lite")
	v.SetDefault("receipt.secret", "")
	v.SetDefault("receipt.ttl", "168h")
	v.SetDefault("ratelimit.redis_url", "")
	v.SetDefault("ratelimit.requests_per_minute", 30)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads the configuration. cfgFile overrides the config.yaml search
// in ./ and $HOME/.doccheck; a missing search file is not an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.doccheck")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Vision.CredentialsFile = ResolveEnvVars(cfg.Vision.CredentialsFile)
	cfg.Gemini.APIKey = ResolveEnvVars(cfg.Gemini.APIKey)
	cfg.Receipt.Secret = ResolveEnvVars(cfg.Receipt.Secret)
	cfg.RateLimit.RedisURL = ResolveEnvVars(cfg.RateLimit.RedisURL)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.OCR.Provider {
	case "vision", "gemini":
	default:
		return fmt.Errorf("unknown ocr.provider %q (want vision or gemini)", c.OCR.Provider)
	}
	if c.OCR.EarlyExitScore < 1 {
		return fmt.Errorf("ocr.early_exit_score must be positive, got %d", c.OCR.EarlyExitScore)
	}
	if c.Server.MaxUploadMB < 1 {
		return fmt.Errorf("server.max_upload_mb must be positive, got %d", c.Server.MaxUploadMB)
	}
	if c.RateLimit.RequestsPerMinute < 0 {
		return fmt.Errorf("ratelimit.requests_per_minute must not be negative, got %d", c.RateLimit.RequestsPerMinute)
	}
	return nil
}

// MaxUploadBytes is the request body limit for uploads.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}

var envRefRe = regexp.MustCompile(`\$\{([^}]+)\}`)

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envRefRe.ReplaceAllStringFunc(value, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}

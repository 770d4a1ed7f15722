// Package config loads server settings from defaults, an optional config
// file, a .env file, environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Auth modes.
const (
	AuthOff      = "off"
	AuthOptional = "optional"
	AuthRequired = "required"
)

const minSecretLength = 16

type Config struct {
	// HTTP server
	Port           int           `mapstructure:"port"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	CORSOrigins    []string      `mapstructure:"cors_origins"`

	// Database
	DBPath string `mapstructure:"db_path"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// Admin tokens
	AuthMode  string        `mapstructure:"auth_mode"`
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`

	// AMQP events. An empty URL disables publishing.
	AMQPURL      string `mapstructure:"amqp_url"`
	AMQPExchange string `mapstructure:"amqp_exchange"`

	// Billing. An empty cron spec disables automatic month close.
	BillingCron    string `mapstructure:"billing_cron"`
	BillingWorkers int    `mapstructure:"billing_workers"`
}

// SetDefaults registers every key with its default, so environment variables
// of the same name in upper case (DB_PATH, BILLING_CRON) override them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("request_timeout", "30s")
	v.SetDefault("cors_origins", []string{"*"})
	v.SetDefault("db_path", "./data/mealledger.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("auth_mode", AuthOff)
	v.SetDefault("jwt_secret", "")
	v.SetDefault("token_ttl", "24h")
	v.SetDefault("amqp_url", "")
	v.SetDefault("amqp_exchange", "mealledger")
	v.SetDefault("billing_cron", "0 2 1 * *")
	v.SetDefault("billing_workers", 4)
}

// Load reads envFile (or ./.env when empty; a missing file is fine), then the
// config file set on v, if any, and decodes everything into a validated Config.
func Load(v *viper.Viper, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	SetDefaults(v)
	v.AutomaticEnv()

	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	decoderConfigOption := viper.DecoderConfigOption(func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err := v.Unmarshal(&cfg, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	if c.Port < 1 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", c.Port))
	}
	if c.RequestTimeout < 0 {
		problems = append(problems, fmt.Sprintf("invalid request timeout %v: must not be negative", c.RequestTimeout))
	}
	if c.DBPath == "" {
		problems = append(problems, "database path cannot be empty")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
	}

	switch c.AuthMode {
	case AuthOff:
	case AuthOptional, AuthRequired:
		if len(c.JWTSecret) < minSecretLength {
			problems = append(problems, fmt.Sprintf("JWT secret must be at least %d characters when auth mode is '%s'", minSecretLength, c.AuthMode))
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid auth mode '%s': must be off, optional or required", c.AuthMode))
	}
	if c.TokenTTL <= 0 {
		problems = append(problems, fmt.Sprintf("invalid token TTL %v: must be positive", c.TokenTTL))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if c.BillingCron != "" {
		if _, err := cron.ParseStandard(c.BillingCron); err != nil {
			problems = append(problems, fmt.Sprintf("invalid billing cron '%s': %v", c.BillingCron, err))
		}
	}
	if c.BillingWorkers < 1 || c.BillingWorkers > 64 {
		problems = append(problems, fmt.Sprintf("invalid billing workers %d: must be between 1 and 64", c.BillingWorkers))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

package config

import (
	"fmt"
	"strings"
	"time"

	"findash/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every variable, e.g. FINDASH_SERVER_PORT
const EnvPrefix = "FINDASH"

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `envconfig:"SERVER"`
	Analysis AnalysisConfig `envconfig:"ANALYSIS"`
	Logging  LoggingConfig  `envconfig:"LOGGING"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            int           `envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	GinMode         string        `envconfig:"GIN_MODE" default:"release" validate:"oneof=debug release test"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"15s" validate:"gt=0"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s" validate:"gt=0"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s" validate:"gt=0"`
	MaxBodyBytes    int64         `envconfig:"MAX_BODY_BYTES" default:"10485760" validate:"min=1024"`
	RateLimitRPS    float64       `envconfig:"RATE_LIMIT_RPS" default:"20" validate:"gte=0"` // 0 disables
	RateLimitBurst  int           `envconfig:"RATE_LIMIT_BURST" default:"40" validate:"gte=0"`
}

// AnalysisConfig holds defaults for the dashboard pipeline
type AnalysisConfig struct {
	DefaultHorizon     int     `envconfig:"DEFAULT_HORIZON" default:"30" validate:"min=1,max=365"`
	TimestampThreshold float64 `envconfig:"TIMESTAMP_THRESHOLD" default:"0.8" validate:"gt=0,lte=1"`
	SheetName          string  `envconfig:"SHEET_NAME"`
}

// LoggingConfig holds log settings
type LoggingConfig struct {
	Level string `envconfig:"LEVEL" default:"INFO" validate:"oneof=ERROR WARN INFO DEBUG error warn info debug"`
}

// Addr is the listen address for the HTTP server
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// Load reads configuration from FINDASH_* environment variables and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "failed to load configuration from environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration with every default applied
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			GinMode:         "release",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    10 << 20,
			RateLimitRPS:    20,
			RateLimitBurst:  40,
		},
		Analysis: AnalysisConfig{
			DefaultHorizon:     30,
			TimestampThreshold: 0.8,
		},
		Logging: LoggingConfig{Level: "INFO"},
	}
}

var validate = validator.New()

// Validate checks field constraints and reports every violation at once
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.ConfigInvalid(err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return errors.ConfigInvalid("configuration validation failed: " + strings.Join(msgs, "; "))
}

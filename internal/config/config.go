package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/Juniorkpabitey/virtra/internal/repository/postgres"
	"github.com/Juniorkpabitey/virtra/pkg/auth"
	"github.com/Juniorkpabitey/virtra/pkg/messaging/redis"
	"github.com/Juniorkpabitey/virtra/pkg/validator"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  postgres.Config `mapstructure:"database"`
	JWT       auth.Config     `mapstructure:"jwt"`
	Redis     redis.Config    `mapstructure:"redis"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Email     EmailConfig     `mapstructure:"email"`
	Outbox    OutboxConfig    `mapstructure:"outbox"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port" envconfig:"SERVER_PORT" default:"8080"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" envconfig:"SERVER_REQUEST_TIMEOUT" default:"30s"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps" envconfig:"SERVER_RATE_LIMIT_RPS" default:"20"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst" envconfig:"SERVER_RATE_LIMIT_BURST" default:"40"`
}

type AssistantConfig struct {
	BaseURL            string        `mapstructure:"base_url" envconfig:"ASSISTANT_BASE_URL"`
	APIKey             string        `mapstructure:"api_key" envconfig:"ASSISTANT_API_KEY"`
	Model              string        `mapstructure:"model" envconfig:"ASSISTANT_MODEL"`
	SystemPrompt       string        `mapstructure:"system_prompt" envconfig:"ASSISTANT_SYSTEM_PROMPT"`
	DoctorSystemPrompt string        `mapstructure:"doctor_system_prompt" envconfig:"ASSISTANT_DOCTOR_SYSTEM_PROMPT"`
	Timeout            time.Duration `mapstructure:"timeout" envconfig:"ASSISTANT_TIMEOUT" default:"60s"`
}

type StorageConfig struct {
	Dir     string `mapstructure:"dir" envconfig:"STORAGE_DIR" default:"./data/uploads"`
	BaseURL string `mapstructure:"base_url" envconfig:"STORAGE_BASE_URL" default:"http://localhost:8080/static"`
}

type EmailConfig struct {
	Host     string `mapstructure:"host" envconfig:"EMAIL_HOST"`
	Port     int    `mapstructure:"port" envconfig:"EMAIL_PORT" default:"587"`
	Username string `mapstructure:"username" envconfig:"EMAIL_USERNAME"`
	Password string `mapstructure:"password" envconfig:"EMAIL_PASSWORD"`
	From     string `mapstructure:"from" envconfig:"EMAIL_FROM"`
}

type OutboxConfig struct {
	BatchSize       int           `mapstructure:"batch_size" envconfig:"OUTBOX_BATCH_SIZE" default:"100"`
	PollInterval    time.Duration `mapstructure:"poll_interval" envconfig:"OUTBOX_POLL_INTERVAL" default:"5s"`
	RetryAttempts   int           `mapstructure:"retry_attempts" envconfig:"OUTBOX_RETRY_ATTEMPTS" default:"3"`
	RetryDelay      time.Duration `mapstructure:"retry_delay" envconfig:"OUTBOX_RETRY_DELAY" default:"5s"`
	RetentionDays   int           `mapstructure:"retention_days" envconfig:"OUTBOX_RETENTION_DAYS" default:"7"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" envconfig:"OUTBOX_CLEANUP_INTERVAL" default:"1h"`
}

// LoadConfig reads config.yaml, falling back to environment variables when
// no config file is present.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return loadFromEnv()
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func loadFromEnv() (*Config, error) {
	var config Config
	if err := envconfig.Process("virtra", &config); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func validate(cfg *Config) error {
	v := validator.New()

	checks := []struct {
		name  string
		value interface{}
		rules string
	}{
		{"server.port", cfg.Server.Port, "required,gte=1,lte=65535"},
		{"database.host", cfg.Database.Host, "required"},
		{"database.name", cfg.Database.Name, "required"},
		{"jwt.secret", cfg.JWT.Secret, "required"},
		{"jwt.refresh_secret", cfg.JWT.RefreshSecret, "required"},
		{"storage.base_url", cfg.Storage.BaseURL, "required,url"},
	}
	for _, c := range checks {
		if err := v.Var(c.value, c.rules); err != nil {
			return fmt.Errorf("invalid config value for %s: %w", c.name, err)
		}
	}
	return nil
}

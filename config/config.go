package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env               string        `mapstructure:"env"`                // current application environment (local, production)
	Addr              string        `mapstructure:"addr"`               // HTTP listen address
	SQLitePath        string        `mapstructure:"sqlite_path"`        // path to the SQLite database file
	QuestionsWorkbook string        `mapstructure:"questions_workbook"` // optional .xlsx file to seed the question bank from
	SessionTTL        time.Duration `mapstructure:"session_ttl"`        // lifetime of login sessions
	Redis             Redis         `mapstructure:"redis"`              // session store configuration section
}

// Redis contains session-store connection parameters.
type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"-"` // loaded from environment only
	DB       int    `mapstructure:"db"`
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("addr", ":8080")
	v.SetDefault("sqlite_path", "questions.db")
	v.SetDefault("questions_workbook", "")
	v.SetDefault("session_ttl", "24h")
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis_password", "REDIS_PASSWORD")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	cfg.Redis.Password = v.GetString("redis_password")

	if cfg.SessionTTL <= 0 {
		return nil, errors.New("session_ttl must be positive")
	}

	return &cfg, nil
}

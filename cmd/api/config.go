package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fastprodman/betledger/internal/config"
	"github.com/fastprodman/betledger/pkg/envconf"
)

type apiConfig struct {
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL" default:"INFO" yaml:"log_level"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" default:"10s" yaml:"shutdown_timeout"`

	HTTP     config.HTTPConfig     `yaml:"http"`
	Postgres config.PostgresConfig `yaml:"postgres"`
	Redis    config.RedisConfig    `yaml:"redis"`
	Kafka    config.KafkaConfig    `yaml:"kafka"`
	Metrics  config.MetricsConfig  `yaml:"metrics"`
}

// readConfig applies defaults, then the optional YAML file named by
// APP_CONFIG_FILE, then environment variables. Zero values written in the file
// are kept.
func readConfig() (*apiConfig, error) {
	cfg := new(apiConfig)

	err := envconf.Defaults(cfg)
	if err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	path := os.Getenv("APP_CONFIG_FILE")
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		err = yaml.Unmarshal(raw, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	err = envconf.Override(cfg)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	return cfg, nil
}

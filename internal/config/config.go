package config

import "time"

type PostgresConfig struct {
	DSN             string        `env:"PG_DSN" yaml:"dsn"`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" default:"10" yaml:"max_open_conns"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" default:"5" yaml:"max_idle_conns"`
	ConnMaxIdleTime time.Duration `env:"PG_CONN_MAX_IDLE_TIME" default:"5m" yaml:"conn_max_idle_time"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" default:"30m" yaml:"conn_max_lifetime"`
}

// RedisConfig configures the settings cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR" default:"" yaml:"addr"`
	Password string        `env:"REDIS_PASSWORD" default:"" yaml:"password"`
	DB       int           `env:"REDIS_DB" default:"0" yaml:"db"`
	TTL      time.Duration `env:"SETTINGS_CACHE_TTL" default:"30s" yaml:"ttl"`
}

// KafkaConfig configures bet event publishing. Empty Brokers disables it.
type KafkaConfig struct {
	Brokers string `env:"KAFKA_BROKERS" default:"" yaml:"brokers"`
	Topic   string `env:"KAFKA_TOPIC_BETS" default:"bets" yaml:"topic"`
}

type MetricsConfig struct {
	Port          uint16 `env:"METRICS_PORT" default:"9090" yaml:"port"`
	StatsSchedule string `env:"STATS_SCHEDULE" default:"@every 1m" yaml:"stats_schedule"`
}

type HTTPConfig struct {
	Port           uint16   `env:"APP_PORT" default:"8080" yaml:"port"`
	AllowedOrigins []string `env:"-" yaml:"allowed_origins"`
}

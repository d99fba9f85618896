package config

import (
	"time"
)

type Config struct {
	Server  ServerConfig
	Broker  BrokerConfig
	Logging LoggingConfig
	Monitor MonitorConfig
}

type ServerConfig struct {
	Port        int             `mapstructure:"port"`
	ReadTimeout time.Duration   `mapstructure:"read_timeout"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	Enabled         bool    `mapstructure:"enabled"`
	RPS             float64 `mapstructure:"rps"`
	Burst           int     `mapstructure:"burst"`
	CleanupInterval int     `mapstructure:"cleanup_interval"`
	MaxAge          int     `mapstructure:"max_age"`
}

type BrokerConfig struct {
	Type  string      `mapstructure:"type"`
	Kafka KafkaConfig `mapstructure:"kafka"`
}

type KafkaConfig struct {
	Brokers []string    `mapstructure:"brokers"`
	GroupID string      `mapstructure:"group_id"`
	Topics  []string    `mapstructure:"topics"`
	Retry   RetryConfig `mapstructure:"retry"`
}

type RetryConfig struct {
	MaxAttempts     int           `mapstructure:"max_attempts"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
	Multiplier      float64       `mapstructure:"multiplier"`
	MaxElapsedTime  time.Duration `mapstructure:"max_elapsed_time"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MonitorConfig drives the core: how often each consumer's delta is
// recomputed, how many inter-arrival gaps the rate estimator keeps, and
// whether payloads are run through the decoder registry.
type MonitorConfig struct {
	RecomputeInterval time.Duration `mapstructure:"recompute_interval"`
	WindowSize        int           `mapstructure:"window_size"`
	DecoderEnabled    bool          `mapstructure:"decoder_enabled"`
}

func Load(configFile string) (*Config, error) {
	return LoadConfig(configFile)
}

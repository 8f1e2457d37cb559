// Package config defines the ClauseLens configuration tree. Infrastructure
// sections reuse the adapters' own config types so that a loaded Config can
// be handed to constructors without translation.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/ClauseLens/internal/infrastructure/database/redis"
	"github.com/turtacn/ClauseLens/internal/infrastructure/extraction"
	"github.com/turtacn/ClauseLens/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ClauseLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseLens/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ClauseLens/internal/infrastructure/rendering"
	"github.com/turtacn/ClauseLens/internal/infrastructure/storage/minio"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`

	// RateLimitRPS <= 0 disables per-client rate limiting of /api/v1.
	RateLimitRPS   float64  `mapstructure:"rate_limit_rps"`
	RateLimitBurst int      `mapstructure:"rate_limit_burst"`
	CORSOrigins    []string `mapstructure:"cors_origins"`
}

// Addr is the listen address.
func (s ServerConfig) Addr() string { return fmt.Sprintf("%s:%d", s.Host, s.Port) }

// ComparisonConfig tunes the engine and its result cache.
type ComparisonConfig struct {
	PairingLower       float64       `mapstructure:"pairing_lower"`
	PairingUpper       float64       `mapstructure:"pairing_upper"`
	AlignmentThreshold float64       `mapstructure:"alignment_threshold"`
	MaxDiffCells       int           `mapstructure:"max_diff_cells"`
	CacheTTL           time.Duration `mapstructure:"cache_ttl"`
}

// ReportConfig controls PDF layout, row caps and archiving.
type ReportConfig struct {
	Title                    string           `mapstructure:"title"`
	MaxKeyChangesPerCategory int              `mapstructure:"max_key_changes_per_category"`
	MaxAllChanges            int              `mapstructure:"max_all_changes"`
	MaxDetailedChanges       int              `mapstructure:"max_detailed_changes"`
	KeyPrefix                string           `mapstructure:"key_prefix"`
	URLExpiry                time.Duration    `mapstructure:"url_expiry"`
	PDF                      rendering.Config `mapstructure:"pdf"`
}

// RedisConfig adds cache and lock settings to the connection parameters.
type RedisConfig struct {
	redis.RedisConfig `mapstructure:",squash"`

	Enabled    bool          `mapstructure:"enabled"`
	KeyPrefix  string        `mapstructure:"key_prefix"`
	DefaultTTL time.Duration `mapstructure:"default_ttl"`
	LockTTL    time.Duration `mapstructure:"lock_ttl"`
}

// KafkaConfig is shared by the API server (publishing requests) and the
// worker (consuming them).
type KafkaConfig struct {
	kafka.SecurityConfig `mapstructure:",squash"`

	Enabled           bool              `mapstructure:"enabled"`
	Brokers           []string          `mapstructure:"brokers"`
	GroupID           string            `mapstructure:"group_id"`
	AutoOffsetReset   string            `mapstructure:"auto_offset_reset"` // "earliest" | "latest"
	Acks              string            `mapstructure:"acks"`
	Compression       string            `mapstructure:"compression"`
	AutoCreateTopics  bool              `mapstructure:"auto_create_topics"`
	ReplicationFactor int               `mapstructure:"replication_factor"`
	Retry             kafka.RetryConfig `mapstructure:"retry"`
}

// ProducerConfig derives the producer settings.
func (k KafkaConfig) ProducerConfig() kafka.ProducerConfig {
	return kafka.ProducerConfig{
		Brokers:          k.Brokers,
		Acks:             k.Acks,
		CompressionCodec: k.Compression,
		Security:         k.SecurityConfig,
	}
}

// ConsumerConfig derives the consumer settings for topics.
func (k KafkaConfig) ConsumerConfig(topics ...string) kafka.ConsumerConfig {
	return kafka.ConsumerConfig{
		Brokers:         k.Brokers,
		GroupID:         k.GroupID,
		Topics:          topics,
		AutoOffsetReset: k.AutoOffsetReset,
		Retry:           k.Retry,
		Security:        k.SecurityConfig,
	}
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	prometheus.CollectorConfig `mapstructure:",squash"`

	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// WorkerConfig holds worker process settings.
type WorkerConfig struct {
	HealthPort   int    `mapstructure:"health_port"`
	ResultPrefix string `mapstructure:"result_prefix"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Server     ServerConfig      `mapstructure:"server"`
	Log        logging.LogConfig `mapstructure:"log"`
	Comparison ComparisonConfig  `mapstructure:"comparison"`
	Extraction extraction.Config `mapstructure:"extraction"`
	Report     ReportConfig      `mapstructure:"report"`
	Redis      RedisConfig       `mapstructure:"redis"`
	MinIO      minio.MinIOConfig `mapstructure:"minio"`
	Kafka      KafkaConfig       `mapstructure:"kafka"`
	Metrics    MetricsConfig     `mapstructure:"metrics"`
	Worker     WorkerConfig      `mapstructure:"worker"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config and
// returns the first problem found.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("config: server.max_upload_bytes must be positive")
	}

	cmp := c.Comparison
	if cmp.PairingLower <= 0 || cmp.PairingUpper > 1 || cmp.PairingLower >= cmp.PairingUpper {
		return fmt.Errorf("config: comparison pairing thresholds must satisfy 0 < lower < upper <= 1, got %.2f/%.2f",
			cmp.PairingLower, cmp.PairingUpper)
	}
	if cmp.AlignmentThreshold <= 0 || cmp.AlignmentThreshold > 1 {
		return fmt.Errorf("config: comparison.alignment_threshold %.2f is out of range (0, 1]", cmp.AlignmentThreshold)
	}

	r := c.Report
	if r.MaxKeyChangesPerCategory < 1 || r.MaxAllChanges < 1 || r.MaxDetailedChanges < 1 {
		return fmt.Errorf("config: report row caps must be >= 1")
	}

	if c.Redis.Enabled {
		switch c.Redis.Mode {
		case "", "standalone":
			if c.Redis.Addr == "" {
				return fmt.Errorf("config: redis.addr is required")
			}
		case "sentinel":
			if c.Redis.MasterName == "" || len(c.Redis.SentinelAddrs) == 0 {
				return fmt.Errorf("config: redis sentinel mode needs master_name and sentinel_addrs")
			}
		case "cluster":
			if len(c.Redis.ClusterAddrs) == 0 {
				return fmt.Errorf("config: redis cluster mode needs cluster_addrs")
			}
		default:
			return fmt.Errorf("config: redis.mode %q is invalid", c.Redis.Mode)
		}
	}

	if c.MinIO.Enabled && c.MinIO.Endpoint == "" {
		return fmt.Errorf("config: minio.endpoint is required")
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
		}
		if c.Kafka.GroupID == "" {
			return fmt.Errorf("config: kafka.group_id is required")
		}
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}

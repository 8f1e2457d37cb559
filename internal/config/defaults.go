package config

import (
	"time"

	"github.com/turtacn/ClauseLens/internal/application/comparison"
	"github.com/turtacn/ClauseLens/internal/application/reporting"
	"github.com/turtacn/ClauseLens/internal/infrastructure/messaging/kafka"
)

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = 8080
	DefaultServerMode      = "release"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultMaxUploadBytes  = 32 << 20

	DefaultComparisonCacheTTL = time.Hour

	DefaultReportTitle     = "Document Comparison Report"
	DefaultReportKeyPrefix = "reports"
	DefaultReportURLExpiry = 24 * time.Hour

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "clauselens:"
	DefaultRedisLockTTL   = 10 * time.Minute

	DefaultMinIOEndpoint = "localhost:9000"

	DefaultKafkaBroker            = "localhost:9092"
	DefaultKafkaGroupID           = "clauselens-worker"
	DefaultKafkaReplicationFactor = 1

	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "clauselens"

	DefaultWorkerHealthPort   = 8081
	DefaultWorkerResultPrefix = "results"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills every zero-value field in cfg with the platform default.
// Explicitly configured values are left unchanged.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.Server.RateLimitRPS > 0 && cfg.Server.RateLimitBurst == 0 {
		cfg.Server.RateLimitBurst = int(cfg.Server.RateLimitRPS * 2)
		if cfg.Server.RateLimitBurst < 1 {
			cfg.Server.RateLimitBurst = 1
		}
	}

	// ── Comparison ────────────────────────────────────────────────────────────
	if cfg.Comparison.PairingLower == 0 {
		cfg.Comparison.PairingLower = comparison.DefaultPairingLower
	}
	if cfg.Comparison.PairingUpper == 0 {
		cfg.Comparison.PairingUpper = comparison.DefaultPairingUpper
	}
	if cfg.Comparison.AlignmentThreshold == 0 {
		cfg.Comparison.AlignmentThreshold = comparison.DefaultAlignmentThreshold
	}
	if cfg.Comparison.MaxDiffCells == 0 {
		cfg.Comparison.MaxDiffCells = comparison.DefaultMaxDiffCells
	}
	if cfg.Comparison.CacheTTL == 0 {
		cfg.Comparison.CacheTTL = DefaultComparisonCacheTTL
	}

	// ── Report ────────────────────────────────────────────────────────────────
	if cfg.Report.Title == "" {
		cfg.Report.Title = DefaultReportTitle
	}
	if cfg.Report.MaxKeyChangesPerCategory == 0 {
		cfg.Report.MaxKeyChangesPerCategory = reporting.DefaultMaxKeyChangesPerCategory
	}
	if cfg.Report.MaxAllChanges == 0 {
		cfg.Report.MaxAllChanges = reporting.DefaultMaxAllChanges
	}
	if cfg.Report.MaxDetailedChanges == 0 {
		cfg.Report.MaxDetailedChanges = reporting.DefaultMaxDetailedChanges
	}
	if cfg.Report.KeyPrefix == "" {
		cfg.Report.KeyPrefix = DefaultReportKeyPrefix
	}
	if cfg.Report.URLExpiry == 0 {
		cfg.Report.URLExpiry = DefaultReportURLExpiry
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Mode == "" {
		cfg.Redis.Mode = "standalone"
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = cfg.Comparison.CacheTTL
	}
	if cfg.Redis.LockTTL == 0 {
		cfg.Redis.LockTTL = DefaultRedisLockTTL
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.AutoOffsetReset == "" {
		cfg.Kafka.AutoOffsetReset = "earliest"
	}
	if cfg.Kafka.ReplicationFactor == 0 {
		cfg.Kafka.ReplicationFactor = DefaultKafkaReplicationFactor
	}
	if cfg.Kafka.Retry.DeadLetterTopic == "" {
		cfg.Kafka.Retry.DeadLetterTopic = kafka.TopicComparisonDeadLetter
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}

	// ── Worker ────────────────────────────────────────────────────────────────
	if cfg.Worker.HealthPort == 0 {
		cfg.Worker.HealthPort = DefaultWorkerHealthPort
	}
	if cfg.Worker.ResultPrefix == "" {
		cfg.Worker.ResultPrefix = DefaultWorkerResultPrefix
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// EngineOptions maps the comparison section onto engine thresholds.
func (c ComparisonConfig) EngineOptions() comparison.Options {
	return comparison.Options{
		PairingLower:       c.PairingLower,
		PairingUpper:       c.PairingUpper,
		AlignmentThreshold: c.AlignmentThreshold,
		MaxDiffCells:       c.MaxDiffCells,
	}
}

// RenderOptions maps the report section onto renderer options.
func (r ReportConfig) RenderOptions() reporting.RenderOptions {
	return reporting.RenderOptions{
		Title:                    r.Title,
		MaxKeyChangesPerCategory: r.MaxKeyChangesPerCategory,
		MaxAllChanges:            r.MaxAllChanges,
		MaxDetailedChanges:       r.MaxDetailedChanges,
	}
}

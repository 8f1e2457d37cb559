package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/ClauseLens/internal/application/comparison"
	"github.com/turtacn/ClauseLens/internal/application/reporting"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultServerMode, cfg.Server.Mode)
	assert.Equal(t, int64(DefaultMaxUploadBytes), cfg.Server.MaxUploadBytes)
	assert.Equal(t, comparison.DefaultPairingLower, cfg.Comparison.PairingLower)
	assert.Equal(t, comparison.DefaultPairingUpper, cfg.Comparison.PairingUpper)
	assert.Equal(t, comparison.DefaultAlignmentThreshold, cfg.Comparison.AlignmentThreshold)
	assert.Equal(t, reporting.DefaultMaxAllChanges, cfg.Report.MaxAllChanges)
	assert.Equal(t, DefaultRedisAddr, cfg.Redis.Addr)
	assert.Equal(t, "standalone", cfg.Redis.Mode)
	assert.Equal(t, DefaultComparisonCacheTTL, cfg.Redis.DefaultTTL)
	assert.Equal(t, []string{DefaultKafkaBroker}, cfg.Kafka.Brokers)
	assert.Equal(t, DefaultMetricsPath, cfg.Metrics.Path)
	assert.Equal(t, DefaultWorkerResultPrefix, cfg.Worker.ResultPrefix)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
}

func TestApplyDefaults_PreserveExistingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Comparison.PairingLower = 0.5
	cfg.Comparison.CacheTTL = 5 * time.Minute
	cfg.Report.Title = "Lease Review"
	cfg.Log.Level = "debug"

	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 0.5, cfg.Comparison.PairingLower)
	assert.Equal(t, "Lease Review", cfg.Report.Title)
	assert.Equal(t, 5*time.Minute, cfg.Redis.DefaultTTL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestApplyDefaults_Nil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

func TestEngineAndRenderOptions(t *testing.T) {
	cfg := validConfig()

	opts := cfg.Comparison.EngineOptions()
	assert.Equal(t, comparison.DefaultOptions(), opts)

	ro := cfg.Report.RenderOptions()
	assert.Equal(t, DefaultReportTitle, ro.Title)
	assert.Equal(t, reporting.DefaultMaxKeyChangesPerCategory, ro.MaxKeyChangesPerCategory)
	assert.Equal(t, reporting.DefaultMaxDetailedChanges, ro.MaxDetailedChanges)
}

func TestApplyDefaults_RateLimitBurst(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	assert.Zero(t, cfg.Server.RateLimitBurst)

	cfg = &Config{}
	cfg.Server.RateLimitRPS = 5
	ApplyDefaults(cfg)
	assert.Equal(t, 10, cfg.Server.RateLimitBurst)

	cfg = &Config{}
	cfg.Server.RateLimitRPS = 0.2
	ApplyDefaults(cfg)
	assert.Equal(t, 1, cfg.Server.RateLimitBurst)
}

func TestApplyDefaults_DeadLetterTopic(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	assert.Equal(t, "clauselens.comparison.dlq", cfg.Kafka.Retry.DeadLetterTopic)

	cfg = &Config{}
	cfg.Kafka.Retry.DeadLetterTopic = "custom.dlq"
	ApplyDefaults(cfg)
	assert.Equal(t, "custom.dlq", cfg.Kafka.Retry.DeadLetterTopic)
}

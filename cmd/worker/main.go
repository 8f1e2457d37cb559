// Background worker entry point for ClauseLens. It consumes
// comparison.requested events, runs the comparison on the uploaded documents,
// stores the JSON analysis (and optionally the PDF report) in object storage
// and publishes comparison.completed or comparison.failed.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/turtacn/ClauseLens/internal/application/comparison"
	"github.com/turtacn/ClauseLens/internal/application/reporting"
	"github.com/turtacn/ClauseLens/internal/application/worker"
	"github.com/turtacn/ClauseLens/internal/config"
	"github.com/turtacn/ClauseLens/internal/infrastructure/database/redis"
	"github.com/turtacn/ClauseLens/internal/infrastructure/extraction"
	"github.com/turtacn/ClauseLens/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ClauseLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseLens/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ClauseLens/internal/infrastructure/rendering"
	"github.com/turtacn/ClauseLens/internal/infrastructure/storage/minio"
	httpserver "github.com/turtacn/ClauseLens/internal/interfaces/http"
	"github.com/turtacn/ClauseLens/internal/interfaces/http/handlers"
)

// Build-time variables injected via ldflags.
var version = "dev"

const (
	startupTimeout      = 30 * time.Second
	consumerStopTimeout = 10 * time.Minute
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: CLAUSELENS_* environment)")
	healthPort := flag.Int("health-port", 0, "health and metrics port (overrides config)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadOrEnv(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *healthPort > 0 {
		cfg.Worker.HealthPort = *healthPort
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("worker exited with error", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger logging.Logger) error {
	if !cfg.Kafka.Enabled || !cfg.MinIO.Enabled {
		return fmt.Errorf("the worker needs kafka.enabled and minio.enabled")
	}
	logger.Info("starting ClauseLens worker",
		logging.String("version", version),
		logging.String("group", cfg.Kafka.GroupID),
		logging.String("topic", kafka.TopicComparisonRequested),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	// Metrics
	var (
		appMetrics     *prometheus.AppMetrics
		compareMetrics comparison.Metrics
		reportMetrics  reporting.Metrics
		healthGauge    handlers.HealthGauge
		routerCfg      httpserver.RouterConfig
	)
	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(cfg.Metrics.CollectorConfig, logger)
		if err != nil {
			return fmt.Errorf("metrics collector: %w", err)
		}
		appMetrics = prometheus.NewAppMetrics(collector)
		compareMetrics, reportMetrics, healthGauge = appMetrics, appMetrics, appMetrics
		routerCfg.MetricsHandler = collector.Handler()
		routerCfg.MetricsPath = cfg.Metrics.Path
	}

	// Storage
	minioClient, err := minio.NewMinIOClient(&cfg.MinIO, logger)
	if err != nil {
		return fmt.Errorf("minio: %w", err)
	}
	uploads := minio.NewUploadRepository(minioClient, logger)
	reports := minio.NewReportRepository(minioClient, logger)
	checkers := []handlers.HealthChecker{
		handlers.NewCheck("minio", minioClient.Ping),
	}

	// Redis: analysis cache and run locks
	var (
		cache comparison.ResultCache
		locks worker.LockProvider
	)
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(&cfg.Redis.RedisConfig, logger)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer redisClient.Close()
		cache = redis.NewRedisCache(redisClient, logger,
			redis.WithPrefix(cfg.Redis.KeyPrefix+"analysis:"),
			redis.WithDefaultTTL(cfg.Redis.DefaultTTL))
		factory := redis.NewLockFactory(redisClient, cfg.Redis.KeyPrefix, logger)
		locks = func(runID string) worker.RunLock {
			return factory.NewMutex("run:"+runID, redis.WithLockTTL(cfg.Redis.LockTTL))
		}
		checkers = append(checkers, handlers.NewCheck("redis", redisClient.Ping))
	} else {
		logger.Warn("redis disabled; redelivered requests may be processed twice")
	}

	// Kafka
	if cfg.Kafka.AutoCreateTopics {
		tm, err := kafka.NewTopicManager(cfg.Kafka.Brokers, logger)
		if err != nil {
			return fmt.Errorf("kafka topic manager: %w", err)
		}
		err = tm.EnsureTopics(startCtx, kafka.DefaultTopics(cfg.Kafka.ReplicationFactor))
		_ = tm.Close()
		if err != nil {
			return fmt.Errorf("kafka topics: %w", err)
		}
	}
	producer, err := kafka.NewProducer(cfg.Kafka.ProducerConfig(), logger)
	if err != nil {
		return fmt.Errorf("kafka producer: %w", err)
	}
	defer producer.Close()

	consumer, err := kafka.NewConsumer(cfg.Kafka.ConsumerConfig(kafka.TopicComparisonRequested), producer, logger)
	if err != nil {
		return fmt.Errorf("kafka consumer: %w", err)
	}
	if appMetrics != nil {
		consumer.SetObserver(appMetrics)
	}

	// Application services
	var pdf extraction.Extractor
	pdfExtractor := extraction.NewPDFExtractor(cfg.Extraction, logger)
	if err := pdfExtractor.CheckAvailable(); err != nil {
		logger.Warn("pdftotext not found, PDF documents will fail", logging.Err(err))
	} else {
		pdf = pdfExtractor
	}
	engine := comparison.NewEngine(cfg.Comparison.EngineOptions(), logger)
	compareSvc := comparison.NewService(engine, extraction.NewAutoExtractor(pdf, logger), cache, compareMetrics,
		comparison.ServiceConfig{CacheTTL: cfg.Comparison.CacheTTL}, logger)
	renderer := reporting.NewRenderer(rendering.Factory(cfg.Report.PDF), cfg.Report.RenderOptions(), logger)
	reportSvc := reporting.NewService(renderer, reports, reportMetrics,
		reporting.ServiceConfig{KeyPrefix: cfg.Report.KeyPrefix, URLExpiry: cfg.Report.URLExpiry}, logger)

	handler := worker.NewComparisonHandler(uploads, reports, locks, compareSvc, reportSvc, producer,
		worker.Config{ResultPrefix: cfg.Worker.ResultPrefix}, logger)
	consumer.Subscribe(kafka.TopicComparisonRequested, handler.Handle)

	// Health and metrics endpoint
	gin.SetMode(gin.ReleaseMode)
	routerCfg.HealthHandler = handlers.NewHealthHandler(version, healthGauge, checkers...)
	routerCfg.Logger = logger
	healthSrv := httpserver.NewServer(httpserver.ServerConfig{
		Addr:            fmt.Sprintf(":%d", cfg.Worker.HealthPort),
		ShutdownTimeout: 5 * time.Second,
	}, httpserver.NewRouter(routerCfg), logger.Named("health"))

	errCh := make(chan error, 1)
	go func() { errCh <- healthSrv.Start() }()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	if err := consumer.Start(ctx); err != nil {
		return fmt.Errorf("kafka consumer start: %w", err)
	}
	logger.Info("worker started", logging.Int("health_port", cfg.Worker.HealthPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("health server failed", logging.Err(err))
		}
	case sig := <-quit:
		logger.Info("received shutdown signal", logging.String("signal", sig.String()))
	}

	// In-flight messages keep their offsets and are redelivered if the
	// consumer does not finish before the timeout.
	stop()
	closed := make(chan error, 1)
	go func() { closed <- consumer.Close() }()
	select {
	case err := <-closed:
		if err != nil {
			logger.Error("kafka consumer close error", logging.Err(err))
		}
	case <-time.After(consumerStopTimeout):
		logger.Warn("consumer shutdown timeout exceeded, forcing exit")
	}

	if err := healthSrv.Stop(context.Background()); err != nil {
		logger.Error("health server shutdown error", logging.Err(err))
	}
	logger.Info("ClauseLens worker stopped")
	return nil
}

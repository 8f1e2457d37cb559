// API server entry point for ClauseLens.
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
	"github.com/turtacn/ClauseLens/internal/interfaces/http/middleware"
)

// Build-time variables injected via ldflags.
var version = "dev"

const startupTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: CLAUSELENS_* environment)")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	flag.Parse()

	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.LoadOrEnv(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)

	if *configPath != "" {
		err := config.Watch(*configPath, func(next *config.Config) {
			logger.Info("configuration file changed, restart to apply",
				logging.String("path", *configPath),
				logging.String("log_level", next.Log.Level),
				logging.Float64("rate_limit_rps", next.Server.RateLimitRPS))
		}, func(err error) {
			logger.Warn("ignoring invalid configuration reload", logging.Err(err))
		})
		if err != nil {
			logger.Warn("config watch disabled", logging.Err(err))
		}
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("API server exited with error", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger logging.Logger) error {
	logger.Info("starting ClauseLens API server",
		logging.String("version", version),
		logging.String("addr", cfg.Server.Addr()),
		logging.Bool("redis", cfg.Redis.Enabled),
		logging.Bool("minio", cfg.MinIO.Enabled),
		logging.Bool("kafka", cfg.Kafka.Enabled),
	)
	gin.SetMode(cfg.Server.Mode)

	startCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	// Metrics
	var (
		appMetrics     *prometheus.AppMetrics
		compareMetrics comparison.Metrics
		reportMetrics  reporting.Metrics
		httpMetrics    middleware.HTTPMetrics
		healthGauge    handlers.HealthGauge
		routerCfg      httpserver.RouterConfig
	)
	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(cfg.Metrics.CollectorConfig, logger)
		if err != nil {
			return fmt.Errorf("metrics collector: %w", err)
		}
		appMetrics = prometheus.NewAppMetrics(collector)
		compareMetrics, reportMetrics, httpMetrics, healthGauge = appMetrics, appMetrics, appMetrics, appMetrics
		routerCfg.MetricsHandler = collector.Handler()
		routerCfg.MetricsPath = cfg.Metrics.Path
	}

	var checkers []handlers.HealthChecker

	// Redis result cache
	var cache comparison.ResultCache
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(&cfg.Redis.RedisConfig, logger)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer redisClient.Close()
		cache = redis.NewRedisCache(redisClient, logger,
			redis.WithPrefix(cfg.Redis.KeyPrefix+"analysis:"),
			redis.WithDefaultTTL(cfg.Redis.DefaultTTL))
		checkers = append(checkers, &redisHealthAdapter{client: redisClient})
	}

	// MinIO report archive and upload store
	var (
		reportStore reporting.ObjectStorage
		uploads     minio.ObjectRepository
		results     minio.ObjectRepository
	)
	if cfg.MinIO.Enabled {
		minioClient, err := minio.NewMinIOClient(&cfg.MinIO, logger)
		if err != nil {
			return fmt.Errorf("minio: %w", err)
		}
		reports := minio.NewReportRepository(minioClient, logger)
		reportStore, results = reports, reports
		uploads = minio.NewUploadRepository(minioClient, logger)
		checkers = append(checkers, &minioHealthAdapter{client: minioClient})
	}

	// Kafka request publisher
	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		p, err := kafka.NewProducer(cfg.Kafka.ProducerConfig(), logger)
		if err != nil {
			return fmt.Errorf("kafka producer: %w", err)
		}
		defer p.Close()
		producer = p
		if cfg.Kafka.AutoCreateTopics {
			if err := ensureTopics(startCtx, cfg, logger); err != nil {
				return err
			}
		}
	}

	// Application services
	var pdf extraction.Extractor
	pdfExtractor := extraction.NewPDFExtractor(cfg.Extraction, logger)
	if err := pdfExtractor.CheckAvailable(); err != nil {
		logger.Warn("pdftotext not found, PDF uploads will be rejected", logging.Err(err))
	} else {
		pdf = pdfExtractor
	}

	engine := comparison.NewEngine(cfg.Comparison.EngineOptions(), logger)
	compareSvc := comparison.NewService(engine, extraction.NewAutoExtractor(pdf, logger), cache, compareMetrics,
		comparison.ServiceConfig{CacheTTL: cfg.Comparison.CacheTTL}, logger)
	renderer := reporting.NewRenderer(rendering.Factory(cfg.Report.PDF), cfg.Report.RenderOptions(), logger)
	reportSvc := reporting.NewService(renderer, reportStore, reportMetrics,
		reporting.ServiceConfig{KeyPrefix: cfg.Report.KeyPrefix, URLExpiry: cfg.Report.URLExpiry}, logger)

	// Router
	maxUpload := cfg.Server.MaxUploadBytes
	routerCfg.ComparisonHandler = handlers.NewComparisonHandler(compareSvc, maxUpload, logger)
	routerCfg.ReportHandler = handlers.NewReportHandler(compareSvc, reportSvc, maxUpload, logger)
	routerCfg.DocumentHandler = handlers.NewDocumentHandler(compareSvc, maxUpload)
	routerCfg.HealthHandler = handlers.NewHealthHandler(version, healthGauge, checkers...)
	if producer != nil && uploads != nil {
		routerCfg.JobHandler = handlers.NewJobHandler(uploads, results, producer, cfg.Worker.ResultPrefix, maxUpload, logger)
	} else {
		logger.Info("async comparison jobs disabled; they need both kafka and minio")
	}
	routerCfg.Logger = logger
	routerCfg.HTTPMetrics = httpMetrics
	routerCfg.Logging = middleware.DefaultLoggingConfig()

	if len(cfg.Server.CORSOrigins) > 0 {
		cors := middleware.DefaultCORSConfig()
		cors.AllowedOrigins = cfg.Server.CORSOrigins
		routerCfg.CORS = &cors
	}
	if cfg.Server.RateLimitRPS > 0 {
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.Server.RateLimitRPS
		rl.BurstSize = cfg.Server.RateLimitBurst
		limiter := middleware.NewTokenBucketLimiter(rl.RequestsPerSecond, rl.BurstSize, rl.CleanupInterval)
		defer limiter.Stop()
		routerCfg.RateLimiter = limiter
		routerCfg.RateLimit = rl
	}

	srv := httpserver.NewServer(httpserver.ServerConfig{
		Addr:            cfg.Server.Addr(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, httpserver.NewRouter(routerCfg), logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutdown signal received", logging.String("signal", sig.String()))
	}

	if err := srv.Stop(context.Background()); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}
	return nil
}

func ensureTopics(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	tm, err := kafka.NewTopicManager(cfg.Kafka.Brokers, logger)
	if err != nil {
		return fmt.Errorf("kafka topic manager: %w", err)
	}
	defer tm.Close()
	if err := tm.EnsureTopics(ctx, kafka.DefaultTopics(cfg.Kafka.ReplicationFactor)); err != nil {
		return fmt.Errorf("kafka topics: %w", err)
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aescanero/gistproxy/internal/application/gists"
	"github.com/aescanero/gistproxy/internal/config"
	memorycache "github.com/aescanero/gistproxy/pkg/adapters/cache/memory"
	rediscache "github.com/aescanero/gistproxy/pkg/adapters/cache/redis"
	"github.com/aescanero/gistproxy/pkg/adapters/github"
	"github.com/aescanero/gistproxy/pkg/adapters/metrics/prometheus"
	"github.com/aescanero/gistproxy/pkg/api/http"
	"github.com/aescanero/gistproxy/pkg/ports"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version is set by build flags
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("starting gistproxy",
		zap.String("version", Version),
		zap.String("build_time", BuildTime))

	// Initialize cache backend
	var cache ports.Cache
	var redisClient *goredis.Client

	switch cfg.Cache.Backend {
	case "redis":
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})

		// Test Redis connection
		ctx := context.Background()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		logger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

		cache = rediscache.NewCache(redisClient, cfg.Cache.TTL, logger)

	default:
		cache = memorycache.NewCache(cfg.Cache.TTL)
	}

	// Initialize adapters
	upstream := github.NewClient(&github.Config{
		BaseURL:   cfg.GitHub.BaseURL,
		Token:     cfg.GitHub.Token,
		UserAgent: cfg.GitHub.UserAgent,
		Timeout:   cfg.GitHub.Timeout,
		Logger:    logger,
	})

	metricsCollector := prometheus.NewCollector()

	// Initialize application components
	service := gists.NewService(upstream, cache, metricsCollector, logger, cfg.Cache.TTL)

	monitor := gists.NewCacheMonitor(cache, metricsCollector, cfg.Cache.MonitorInterval, logger)
	monitor.Start()

	// Initialize API server
	httpServer := http.NewServer(&http.Config{
		Port:    cfg.Port,
		Service: service,
		Metrics: metricsCollector,
		Logger:  logger,
	})

	// Start server
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	logger.Info("gistproxy started",
		zap.Int("port", cfg.Port),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.Duration("cache_ttl", cfg.Cache.TTL),
		zap.String("upstream", cfg.GitHub.BaseURL))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("received shutdown signal")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// Shutdown components
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	monitor.Stop()

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Redis close error", zap.Error(err))
		}
	}

	logger.Info("gistproxy shut down complete")
}

// initLogger initializes the logger based on log level
func initLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	return logger
}

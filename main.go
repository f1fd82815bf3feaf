package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kknight78/ffmpeg-banner-api/api"
	"github.com/kknight78/ffmpeg-banner-api/banner"
	"github.com/kknight78/ffmpeg-banner-api/cache"
	"github.com/kknight78/ffmpeg-banner-api/config"
	"github.com/kknight78/ffmpeg-banner-api/fetch"
	"github.com/kknight78/ffmpeg-banner-api/job"
	"github.com/kknight78/ffmpeg-banner-api/kafka"
	"github.com/kknight78/ffmpeg-banner-api/logger"
	"github.com/kknight78/ffmpeg-banner-api/storage"
	"github.com/kknight78/ffmpeg-banner-api/video"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogDir)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	presets, err := banner.LoadPresets(cfg.Banner.PresetsFile)
	if err != nil {
		zlog.Fatal("Failed to load banner presets", zap.Error(err))
	}

	publisher, checker, err := buildPublisher(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to initialize publisher", zap.Error(err))
	}

	runnerOpts := job.RunnerOptions{
		Fetcher:    fetch.New(cfg.Fetch, zlog),
		Prober:     job.ProbeFunc(video.Probe),
		Renderer:   video.NewRenderer(cfg.Banner, zlog),
		Publisher:  publisher,
		Presets:    presets,
		ScratchDir: cfg.Scratch.Dir,
		Checker:    checker,
		Logger:     zlog,
	}
	if cfg.Redis.Addr != "" {
		results, err := cache.NewResultCache(cfg.Redis)
		if err != nil {
			zlog.Fatal("Failed to connect to result cache", zap.Error(err))
		}
		defer results.Close()
		runnerOpts.Cache = results
	}

	runner, err := job.NewRunner(runnerOpts)
	if err != nil {
		zlog.Fatal("Failed to initialize job runner", zap.Error(err))
	}

	var consumer *kafka.Consumer
	if len(cfg.Kafka.Brokers) > 0 {
		consumer, err = kafka.NewConsumer(kafka.ConsumerConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
			Handler: kafka.NewOverlayHandler(runner, zlog),
			Logger:  zlog,
		})
		if err != nil {
			zlog.Fatal("Failed to create kafka consumer", zap.Error(err))
		}
		if err := consumer.Start(ctx); err != nil {
			zlog.Fatal("Failed to start kafka consumer", zap.Error(err))
		}
	}

	gin.SetMode(gin.ReleaseMode)
	server := api.NewServer(cfg.Server, api.NewRouter(runner, cfg.RateLimit, zlog), zlog)

	go func() {
		if err := server.Start(); err != nil {
			zlog.Error("HTTP server failed", zap.Error(err))
			cancel()
		}
	}()

	zlog.Info("banner overlay service started",
		zap.Int("port", cfg.Server.Port),
		zap.String("publisher", cfg.Publisher),
		zap.Bool("kafka_intake", consumer != nil),
		zap.Bool("result_cache", runnerOpts.Cache != nil))

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	zlog.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			zlog.Error("Kafka consumer close failed", zap.Error(err))
		}
	}
	cancel()

	zlog.Info("Server shutdown complete")
}

// buildPublisher selects the configured publishing backend. S3 can verify
// previously published URLs, so it doubles as the publish checker; YouTube
// cannot, so jobs running against it skip that verification.
func buildPublisher(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (job.Publisher, job.PublishChecker, error) {
	switch cfg.Publisher {
	case "youtube":
		pub, err := storage.NewYouTubePublisher(ctx, cfg.YouTube.ServiceAccountFile, zlog)
		if err != nil {
			return nil, nil, err
		}
		return pub, nil, nil
	default:
		pub, err := storage.NewS3Publisher(ctx, cfg.S3, zlog)
		if err != nil {
			return nil, nil, err
		}
		return pub, pub, nil
	}
}

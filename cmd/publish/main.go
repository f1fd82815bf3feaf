// Command publish uploads an already-rendered video straight to the
// configured backend, skipping the overlay pipeline. Handy when a rendition
// rendered fine but its upload failed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kknight78/ffmpeg-banner-api/config"
	"github.com/kknight78/ffmpeg-banner-api/logger"
	"github.com/kknight78/ffmpeg-banner-api/storage"
)

func main() {
	_ = godotenv.Load()

	file := flag.String("file", "", "Path of the rendered video to publish")
	backend := flag.String("publisher", "", "Publishing backend (s3 or youtube); defaults to PUBLISHER from the environment")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *backend != "" {
		cfg.Publisher = *backend
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogDir)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	ctx := context.Background()

	var url string
	switch cfg.Publisher {
	case "youtube":
		pub, err := storage.NewYouTubePublisher(ctx, cfg.YouTube.ServiceAccountFile, zlog)
		if err != nil {
			zlog.Fatal("Failed to initialize YouTube publisher", zap.Error(err))
		}
		url, err = pub.Publish(ctx, *file)
		if err != nil {
			zlog.Fatal("Publish failed", zap.Error(err))
		}
	default:
		pub, err := storage.NewS3Publisher(ctx, cfg.S3, zlog)
		if err != nil {
			zlog.Fatal("Failed to initialize S3 publisher", zap.Error(err))
		}
		url, err = pub.Publish(ctx, *file)
		if err != nil {
			zlog.Fatal("Publish failed", zap.Error(err))
		}
	}

	fmt.Println(url)
}

package main

import (
	"context"
	"log"
	"log/slog"
	"qnasearch/db"
	"qnasearch/internal/config"
	"qnasearch/internal/ingest"
	"qnasearch/pkg/storage"

	"github.com/joho/godotenv"
)

func main() {

	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	slog.SetDefault(cfg.Logger())

	ctx := context.Background()

	redisClient, err := db.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer redisClient.Close()

	objects, err := storage.NewS3Store(ctx, storage.Options{
		Region:   cfg.AWSRegion,
		Bucket:   cfg.Bucket,
		Endpoint: cfg.S3Endpoint,
	})
	if err != nil {
		log.Fatalf("error creating S3 client: %v", err)
	}

	queue := db.NewQueue(redisClient, db.ImportQueueKey)

	queued, err := ingest.Scan(ctx, objects, queue, cfg.TranscriptPrefix)
	if err != nil {
		slog.Error("error scanning transcripts", "prefix", cfg.TranscriptPrefix, "queued", queued, "error", err)
		return
	}

	pending, err := queue.Len(ctx)
	if err != nil {
		slog.Warn("error reading queue length", "error", err)
	}

	slog.Info("scan complete", "prefix", cfg.TranscriptPrefix, "queued", queued, "pending", pending)
}

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"qnasearch/db"
	"qnasearch/internal/config"
	"qnasearch/internal/ingest"
	"qnasearch/internal/repository"
	"qnasearch/pkg/storage"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {

	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	slog.SetDefault(cfg.Logger())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := db.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer redisClient.Close()

	conn, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer conn.Close()

	objects, err := storage.NewS3Store(ctx, storage.Options{
		Region:   cfg.AWSRegion,
		Bucket:   cfg.Bucket,
		Endpoint: cfg.S3Endpoint,
	})
	if err != nil {
		log.Fatalf("error creating S3 client: %v", err)
	}

	questionRepo := repository.NewQuestionRepository(conn)
	importer := ingest.NewImporter(objects, questionRepo)
	worker := ingest.NewWorker(importer, db.NewQueue(redisClient, db.ImportQueueKey))

	stats, err := worker.Run(ctx)
	if err != nil {
		slog.Error("import stopped", "error", err)
	}

	total, err := questionRepo.Count(ctx)
	if err != nil {
		slog.Warn("error counting questions", "error", err)
	}

	slog.Info("import complete",
		"inserted", stats.Inserted,
		"updated", stats.Updated,
		"skipped", stats.Skipped,
		"retried", stats.Retried,
		"failed", stats.Failed,
		"total", total,
	)
}

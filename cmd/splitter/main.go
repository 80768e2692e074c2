package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"qnasearch/db"
	"qnasearch/internal/config"
	"qnasearch/internal/split"
	"qnasearch/pkg/audio"
	"qnasearch/pkg/storage"
	"qnasearch/pkg/telegram"
	"qnasearch/pkg/transcribe"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {

	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}
	if err := cfg.ValidateTelegram(); err != nil {
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

	objects, err := storage.NewS3Store(ctx, storage.Options{
		Region:   cfg.AWSRegion,
		Bucket:   cfg.Bucket,
		Endpoint: cfg.S3Endpoint,
	})
	if err != nil {
		log.Fatalf("error creating S3 client: %v", err)
	}

	jobs, err := transcribe.NewJobs(ctx, cfg.AWSRegion, cfg.Bucket, cfg.TranscriptPrefix)
	if err != nil {
		log.Fatalf("error creating Transcribe client: %v", err)
	}

	ffmpeg, err := audio.NewFFmpeg(cfg.FFmpegPath)
	if err != nil {
		log.Fatalf("error locating ffmpeg: %v", err)
	}

	splitter := split.NewSplitter(ffmpeg, objects, jobs, db.NewCursor(redisClient, db.TelegramCursorKey), cfg.AudioPrefix)
	splitter.WorkDir = cfg.WorkDir

	client := telegram.NewClient(telegram.Options{
		AppID:       cfg.TelegramAPIID,
		AppHash:     cfg.TelegramAPIHash,
		SessionPath: cfg.TelegramSession,
		Phone:       cfg.TelegramPhone,
		Password:    cfg.TelegramPassword,
		Code:        promptCode,
	})

	var stats split.Stats
	err = client.Run(ctx, cfg.TelegramChannel, func(ctx context.Context, ch *telegram.Channel) error {
		var err error
		stats, err = splitter.Run(ctx, ch)
		return err
	})
	if err != nil {
		slog.Error("split stopped", "channel", cfg.TelegramChannel, "error", err)
	}

	slog.Info("split complete",
		"channel", cfg.TelegramChannel,
		"posts", stats.Posts,
		"recordings", stats.Recordings,
		"skipped", stats.Skipped,
		"clips", stats.Clips,
		"jobs", stats.Jobs,
		"failed", stats.Failed,
	)
}

func promptCode(ctx context.Context) (string, error) {
	fmt.Print("Enter the code sent by Telegram: ")

	code, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(code), nil
}

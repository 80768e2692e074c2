package main

import (
	"context"
	"log"
	"log/slog"
	"qnasearch/db"
	"qnasearch/internal/config"
	"qnasearch/internal/handler"
	"qnasearch/internal/repository"
	"qnasearch/internal/service"
	"qnasearch/pkg/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
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

	conn, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer conn.Close()

	audioStore, err := storage.NewS3Store(ctx, storage.Options{
		Region:   cfg.AWSRegion,
		Bucket:   cfg.Bucket,
		Endpoint: cfg.S3Endpoint,
	})
	if err != nil {
		log.Fatalf("error creating S3 client: %v", err)
	}

	questionRepo := repository.NewQuestionRepository(conn)
	searchService := service.NewSearchService(questionRepo)
	audioService := service.NewAudioService(questionRepo, audioStore, service.AudioConfig{
		Prefix:      cfg.AudioPrefix,
		URLExpiry:   cfg.URLExpiry,
		MaxDistance: cfg.MaxMatchDistance,
	})
	questionHandler := handler.NewQuestionHandler(searchService, audioService, conn)

	r := gin.Default()

	allowedOrigins := cfg.AllowedOrigins()
	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/search", questionHandler.Search)
	r.GET("/questions/:id/audio", questionHandler.GetAudio)
	r.POST("/process", questionHandler.Process)
	r.GET("/health", questionHandler.GetHealth)

	slog.Info("starting api", "addr", cfg.Addr, "bucket", cfg.Bucket, "audio_prefix", cfg.AudioPrefix)

	err = r.Run(cfg.Addr)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}

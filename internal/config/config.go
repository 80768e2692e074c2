package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DatabaseURL string
	RedisURL    string
	Addr        string
	FrontendURL string

	AWSRegion        string
	Bucket           string
	S3Endpoint       string
	AudioPrefix      string
	TranscriptPrefix string

	URLExpiry        time.Duration
	MaxMatchDistance int

	TelegramAPIID    int
	TelegramAPIHash  string
	TelegramChannel  string
	TelegramSession  string
	TelegramPhone    string
	TelegramPassword string
	FFmpegPath       string
	WorkDir          string

	LogLevel string
}

// Load reads the configuration from the environment. Call godotenv.Load
// first to pick up a .env file.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         getEnv("REDIS_URL", "localhost:6379"),
		Addr:             getEnv("ADDR", ":8080"),
		FrontendURL:      os.Getenv("FRONTEND_URL"),
		AWSRegion:        getEnv("AWS_DEFAULT_REGION", "us-east-1"),
		Bucket:           getEnv("TELEGRAM_QNA_BUCKET", "telegram-qna-splits"),
		S3Endpoint:       os.Getenv("S3_ENDPOINT"),
		AudioPrefix:      getEnv("AUDIO_PREFIX", "initial-splits/"),
		TranscriptPrefix: getEnv("TRANSCRIPT_PREFIX", "transcripts/"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		TelegramAPIHash:  os.Getenv("TELEGRAM_API_HASH"),
		TelegramChannel:  getEnv("TELEGRAM_CHANNEL_URL", "https://t.me/devtestingchannel"),
		TelegramSession:  getEnv("TELEGRAM_SESSION_FILE", "session.json"),
		TelegramPhone:    os.Getenv("TELEGRAM_PHONE"),
		TelegramPassword: os.Getenv("TELEGRAM_PASSWORD"),
		FFmpegPath:       getEnv("FFMPEG_PATH", "ffmpeg"),
		WorkDir:          os.Getenv("WORK_DIR"),
	}

	var err error

	cfg.URLExpiry, err = time.ParseDuration(getEnv("AUDIO_URL_EXPIRY", "20m"))
	if err != nil {
		return cfg, fmt.Errorf("invalid AUDIO_URL_EXPIRY: %w", err)
	}

	cfg.MaxMatchDistance, err = strconv.Atoi(getEnv("MAX_MATCH_DISTANCE", "0"))
	if err != nil {
		return cfg, fmt.Errorf("invalid MAX_MATCH_DISTANCE: %w", err)
	}

	cfg.TelegramAPIID, err = strconv.Atoi(getEnv("TELEGRAM_API_ID", "0"))
	if err != nil {
		return cfg, fmt.Errorf("invalid TELEGRAM_API_ID: %w", err)
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("TELEGRAM_QNA_BUCKET is required")
	}
	if c.URLExpiry <= 0 {
		return fmt.Errorf("AUDIO_URL_EXPIRY must be positive, got %s", c.URLExpiry)
	}
	if c.MaxMatchDistance < 0 {
		return fmt.Errorf("MAX_MATCH_DISTANCE must not be negative, got %d", c.MaxMatchDistance)
	}
	return nil
}

// ValidateTelegram checks the settings only the splitter needs.
func (c Config) ValidateTelegram() error {
	if c.TelegramAPIID <= 0 || c.TelegramAPIHash == "" {
		return fmt.Errorf("TELEGRAM_API_ID and TELEGRAM_API_HASH are required")
	}
	if c.TelegramChannel == "" {
		return fmt.Errorf("TELEGRAM_CHANNEL_URL is required")
	}
	return nil
}

// AllowedOrigins lists the CORS origins for the API.
func (c Config) AllowedOrigins() []string {
	origins := []string{"http://localhost:3000"}
	if c.FrontendURL != "" {
		origins = append(origins, c.FrontendURL)
	}
	return origins
}

func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Logger returns the JSON logger every binary installs as the default.
func (c Config) Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: c.SlogLevel()}))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package service

import (
	"context"
	"log/slog"
	"qnasearch/internal/match"
	"qnasearch/internal/model"
	"time"
)

const DefaultURLExpiry = 20 * time.Minute

type AudioStore interface {
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

type AudioConfig struct {
	// Prefix is prepended to "<date> - " when listing candidate keys.
	Prefix      string
	URLExpiry   time.Duration
	MaxDistance int
}

type AudioService struct {
	questions QuestionStore
	audio     AudioStore
	cfg       AudioConfig
	selector  match.Selector
	now       func() time.Time
}

func NewAudioService(questions QuestionStore, audio AudioStore, cfg AudioConfig) *AudioService {
	if cfg.URLExpiry <= 0 {
		cfg.URLExpiry = DefaultURLExpiry
	}

	return &AudioService{
		questions: questions,
		audio:     audio,
		cfg:       cfg,
		selector:  match.Selector{MaxDistance: cfg.MaxDistance},
		now:       time.Now,
	}
}

// CandidatePrefix is the key prefix shared by every recording of a date.
func (s *AudioService) CandidatePrefix(date string) string {
	return s.cfg.Prefix + date + " - "
}

// Resolve finds the recording that best matches question id and returns a
// signed link to it. Each call lists and signs afresh.
func (s *AudioService) Resolve(ctx context.Context, id int64) (*model.AudioLink, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}

	question, err := s.questions.GetByID(ctx, id)
	if err != nil {
		slog.Error("error fetching question", "error", err, "question_id", id)
		return nil, newError(ErrQueryFailed, "", err)
	}

	if question == nil {
		return nil, ErrNotFound
	}

	prefix := s.CandidatePrefix(question.Date)

	keys, err := s.audio.ListKeys(ctx, prefix)
	if err != nil {
		slog.Error("error listing audio objects", "error", err, "question_id", id, "prefix", prefix)
		return nil, newError(ErrUpstreamUnavailable, "Could not list audio files for this date.", err)
	}

	if len(keys) == 0 {
		slog.Warn("no audio objects for question", "question_id", id, "prefix", prefix)
		return nil, ErrNoCandidates
	}

	best, ok := s.selector.Select(question.Title, match.CandidatesFromKeys(keys))
	if !ok {
		slog.Warn("no acceptable audio match", "question_id", id, "candidates", len(keys), "closest", best.Key, "distance", best.Distance)
		return nil, ErrNoMatch
	}

	url, err := s.audio.PresignGet(ctx, best.Key, s.cfg.URLExpiry)
	if err != nil {
		slog.Error("error signing audio url", "error", err, "question_id", id, "key", best.Key)
		return nil, newError(ErrUpstreamUnavailable, "Could not generate audio URL.", err)
	}

	slog.Info("resolved audio", "question_id", id, "key", best.Key, "distance", best.Distance, "candidates", len(keys))

	return &model.AudioLink{
		Title:     question.Title,
		URL:       url,
		Key:       best.Key,
		Distance:  best.Distance,
		ExpiresAt: s.now().Add(s.cfg.URLExpiry),
	}, nil
}

package service

import (
	"context"
	"log/slog"
	"qnasearch/internal/model"
	"qnasearch/internal/repository"
	"strings"
	"unicode/utf8"
)

type QuestionStore interface {
	Search(ctx context.Context, query string, mode model.SearchMode, limit int) ([]model.Question, error)
	GetByID(ctx context.Context, id int64) (*model.Question, error)
}

type SearchService struct {
	store QuestionStore
}

func NewSearchService(store QuestionStore) *SearchService {
	return &SearchService{store: store}
}

// Search returns questions whose title (or, in both mode, title or
// transcription) contains query, newest first. A blank query returns no
// results without touching the store.
func (s *SearchService) Search(ctx context.Context, query string, mode model.SearchMode) ([]model.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.SearchResult{}, nil
	}

	questions, err := s.store.Search(ctx, query, mode, repository.SearchLimit)
	if err != nil {
		slog.Error("error searching questions", "error", err, "query", query, "mode", mode)
		return nil, newError(ErrQueryFailed, "", err)
	}

	results := make([]model.SearchResult, 0, len(questions))
	for _, q := range questions {
		results = append(results, model.SearchResult{
			ID:      q.ID,
			Title:   q.Title,
			Date:    q.Date,
			Snippet: Snippet(q.Transcription),
		})
	}

	return results, nil
}

// Snippet cuts a transcription to its first model.SnippetLength characters,
// appending an ellipsis when anything was cut.
func Snippet(transcription string) string {
	if utf8.RuneCountInString(transcription) <= model.SnippetLength {
		return transcription
	}

	runes := []rune(transcription)
	return string(runes[:model.SnippetLength]) + model.SnippetSuffix
}

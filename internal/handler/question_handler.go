package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"qnasearch/internal/model"
	"qnasearch/internal/service"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type Searcher interface {
	Search(ctx context.Context, query string, mode model.SearchMode) ([]model.SearchResult, error)
}

type AudioResolver interface {
	Resolve(ctx context.Context, id int64) (*model.AudioLink, error)
}

type HealthChecker interface {
	PingContext(ctx context.Context) error
}

type QuestionHandler struct {
	search Searcher
	audio  AudioResolver
	health HealthChecker
}

func NewQuestionHandler(search Searcher, audio AudioResolver, health HealthChecker) *QuestionHandler {
	return &QuestionHandler{search: search, audio: audio, health: health}
}

func (h *QuestionHandler) Search(c *gin.Context) {
	query := formValue(c, "query")
	mode := model.ParseSearchMode(formValue(c, "mode"))

	results, err := h.search.Search(c.Request.Context(), query, mode)
	if err != nil {
		writeError(c, err)
		return
	}

	res := SearchResponse{
		Status:  statusOK,
		Results: make([]SearchResultResponse, 0, len(results)),
	}

	for _, r := range results {
		res.Results = append(res.Results, SearchResultResponse{
			ID:      r.ID,
			Title:   r.Title,
			Date:    r.Date,
			Snippet: r.Snippet,
		})
	}

	c.JSON(http.StatusOK, res)
}

func (h *QuestionHandler) GetAudio(c *gin.Context) {
	raw := c.Param("id")
	if raw == "" {
		raw = formValue(c, "id")
	}

	// unparseable ids fall through as 0 and are rejected by the resolver
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		slog.Warn("invalid question id", "id", raw, "error", err)
		id = 0
	}

	link, err := h.audio.Resolve(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, AudioResponse{
		Status:    statusOK,
		Title:     link.Title,
		AudioURL:  link.URL,
		ExpiresAt: link.ExpiresAt.Format(time.RFC3339),
	})
}

// Process serves the single form endpoint the original web page posts to,
// dispatching on the "action" field.
func (h *QuestionHandler) Process(c *gin.Context) {
	switch formValue(c, "action") {
	case "search":
		h.Search(c)
	case "get_audio":
		h.GetAudio(c)
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Status: statusError, Message: "Invalid action."})
	}
}

func (h *QuestionHandler) GetHealth(c *gin.Context) {
	if err := h.health.PingContext(c.Request.Context()); err != nil {
		slog.Error("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

func formValue(c *gin.Context, name string) string {
	if v, ok := c.GetPostForm(name); ok {
		return v
	}
	return c.Query(name)
}

func writeError(c *gin.Context, err error) {
	svcErr := service.AsError(err)

	var status int
	switch {
	case errors.Is(svcErr, service.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(svcErr, service.ErrNotFound), errors.Is(svcErr, service.ErrNoCandidates):
		status = http.StatusNotFound
	case errors.Is(svcErr, service.ErrNoMatch):
		status = http.StatusUnprocessableEntity
	case errors.Is(svcErr, service.ErrUpstreamUnavailable):
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "path", c.FullPath(), "kind", svcErr.Kind.String(), "error", err)
	}

	c.JSON(status, ErrorResponse{Status: statusError, Message: svcErr.Message})
}

package handler

const (
	statusOK    = "ok"
	statusError = "error"
)

type SearchResultResponse struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Date    string `json:"date"`
	Snippet string `json:"snippet"`
}

type SearchResponse struct {
	Status  string                 `json:"status"`
	Results []SearchResultResponse `json:"results"`
}

type AudioResponse struct {
	Status    string `json:"status"`
	Title     string `json:"title"`
	AudioURL  string `json:"audio_url"`
	ExpiresAt string `json:"expires_at"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

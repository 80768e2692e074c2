package model

import "time"

const (
	SnippetLength = 180
	SnippetSuffix = "…"
)

type SearchMode string

const (
	SearchModeTitle SearchMode = "title"
	SearchModeBoth  SearchMode = "both"
)

// ParseSearchMode maps anything other than "both" to title-only search.
func ParseSearchMode(s string) SearchMode {
	if SearchMode(s) == SearchModeBoth {
		return SearchModeBoth
	}
	return SearchModeTitle
}

type Question struct {
	ID            int64
	Title         string
	Date          string
	Transcription string
}

type SearchResult struct {
	ID      int64
	Title   string
	Date    string
	Snippet string
}

type AudioLink struct {
	Title     string
	URL       string
	Key       string
	Distance  int
	ExpiresAt time.Time
}

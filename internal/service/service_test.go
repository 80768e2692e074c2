package service

import (
	"context"
	"errors"
	"qnasearch/internal/model"
	"qnasearch/internal/repository"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

type fakeQuestionStore struct {
	questions   []model.Question
	question    *model.Question
	err         error
	searchCalls int
	lastQuery   string
	lastMode    model.SearchMode
	lastLimit   int
}

func (f *fakeQuestionStore) Search(ctx context.Context, query string, mode model.SearchMode, limit int) ([]model.Question, error) {
	f.searchCalls++
	f.lastQuery = query
	f.lastMode = mode
	f.lastLimit = limit
	return f.questions, f.err
}

func (f *fakeQuestionStore) GetByID(ctx context.Context, id int64) (*model.Question, error) {
	return f.question, f.err
}

type fakeAudioStore struct {
	keys       []string
	listErr    error
	signErr    error
	listCalls  int
	signCalls  int
	listPrefix string
	signedKey  string
	expiry     time.Duration
}

func (f *fakeAudioStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	f.listCalls++
	f.listPrefix = prefix
	return f.keys, f.listErr
}

func (f *fakeAudioStore) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	f.signCalls++
	f.signedKey = key
	f.expiry = expiry
	if f.signErr != nil {
		return "", f.signErr
	}
	return "https://signed.example/" + key, nil
}

func TestSearch_EmptyQuery(t *testing.T) {
	store := &fakeQuestionStore{}
	svc := NewSearchService(store)

	for _, q := range []string{"", "   ", "\t\n"} {
		results, err := svc.Search(context.Background(), q, model.SearchModeBoth)
		assert.Equal(t, nil, err)
		assert.Equal(t, 0, len(results))
		assert.Equal(t, true, results != nil)
	}

	assert.Equal(t, 0, store.searchCalls)
}

func TestSearch_ShapesResults(t *testing.T) {
	store := &fakeQuestionStore{
		questions: []model.Question{
			{ID: 2, Title: "Foo Bar", Date: "2024-01-01", Transcription: "irrelevant"},
			{ID: 1, Title: "Foo Baz", Date: "2023-01-01"},
		},
	}
	svc := NewSearchService(store)

	results, err := svc.Search(context.Background(), "  foo ", model.SearchModeTitle)

	assert.Equal(t, nil, err)
	assert.Equal(t, "foo", store.lastQuery)
	assert.Equal(t, model.SearchModeTitle, store.lastMode)
	assert.Equal(t, repository.SearchLimit, store.lastLimit)
	assert.Equal(t, 2, len(results))
	assert.Equal(t, int64(2), results[0].ID)
	assert.Equal(t, "irrelevant", results[0].Snippet)
	assert.Equal(t, "", results[1].Snippet)
}

func TestSearch_StoreError(t *testing.T) {
	store := &fakeQuestionStore{err: errors.New("pq: relation \"questions\" does not exist")}
	svc := NewSearchService(store)

	_, err := svc.Search(context.Background(), "foo", model.SearchModeBoth)

	assert.Equal(t, true, errors.Is(err, ErrQueryFailed))
	assert.Equal(t, "Query failed.", AsError(err).Message)
	assert.Equal(t, false, strings.Contains(AsError(err).Message, "pq:"))
}

func TestSnippet(t *testing.T) {
	exact := strings.Repeat("a", 180)
	assert.Equal(t, exact, Snippet(exact))

	over := strings.Repeat("a", 181)
	assert.Equal(t, strings.Repeat("a", 180)+"…", Snippet(over))

	assert.Equal(t, "", Snippet(""))

	multibyte := strings.Repeat("ü", 181)
	got := Snippet(multibyte)
	assert.Equal(t, strings.Repeat("ü", 180)+"…", got)
}

func newTestAudioService(questions QuestionStore, audio AudioStore) *AudioService {
	return NewAudioService(questions, audio, AudioConfig{Prefix: "initial-splits/"})
}

func TestResolve_InvalidID(t *testing.T) {
	audio := &fakeAudioStore{}
	svc := newTestAudioService(&fakeQuestionStore{}, audio)

	for _, id := range []int64{0, -4} {
		_, err := svc.Resolve(context.Background(), id)
		assert.Equal(t, true, errors.Is(err, ErrInvalidInput))
	}
	assert.Equal(t, 0, audio.listCalls)
}

func TestResolve_NotFound(t *testing.T) {
	audio := &fakeAudioStore{}
	svc := newTestAudioService(&fakeQuestionStore{}, audio)

	_, err := svc.Resolve(context.Background(), 42)

	assert.Equal(t, true, errors.Is(err, ErrNotFound))
	assert.Equal(t, 0, audio.listCalls)
	assert.Equal(t, 0, audio.signCalls)
}

func TestResolve_LookupError(t *testing.T) {
	audio := &fakeAudioStore{}
	svc := newTestAudioService(&fakeQuestionStore{err: errors.New("connection refused")}, audio)

	_, err := svc.Resolve(context.Background(), 1)

	assert.Equal(t, true, errors.Is(err, ErrQueryFailed))
	assert.Equal(t, 0, audio.listCalls)
}

func TestResolve_ListError(t *testing.T) {
	questions := &fakeQuestionStore{question: &model.Question{ID: 1, Title: "Hello", Date: "2024-01-01"}}
	audio := &fakeAudioStore{listErr: errors.New("AccessDenied")}
	svc := newTestAudioService(questions, audio)

	_, err := svc.Resolve(context.Background(), 1)

	assert.Equal(t, true, errors.Is(err, ErrUpstreamUnavailable))
	assert.Equal(t, "Could not list audio files for this date.", AsError(err).Message)
	assert.Equal(t, 0, audio.signCalls)
}

func TestResolve_NoCandidates(t *testing.T) {
	questions := &fakeQuestionStore{question: &model.Question{ID: 1, Title: "Hello", Date: "2024-01-01"}}
	audio := &fakeAudioStore{}
	svc := newTestAudioService(questions, audio)

	_, err := svc.Resolve(context.Background(), 1)

	assert.Equal(t, true, errors.Is(err, ErrNoCandidates))
	assert.Equal(t, "initial-splits/2024-01-01 - ", audio.listPrefix)
	assert.Equal(t, 0, audio.signCalls)
}

func TestResolve_SignError(t *testing.T) {
	questions := &fakeQuestionStore{question: &model.Question{ID: 1, Title: "Hello", Date: "2024-01-01"}}
	audio := &fakeAudioStore{
		keys:    []string{"initial-splits/2024-01-01 - Hello.mp3"},
		signErr: errors.New("no credentials"),
	}
	svc := newTestAudioService(questions, audio)

	_, err := svc.Resolve(context.Background(), 1)

	assert.Equal(t, true, errors.Is(err, ErrUpstreamUnavailable))
	assert.Equal(t, "Could not generate audio URL.", AsError(err).Message)
}

func TestResolve_PicksBestMatch(t *testing.T) {
	questions := &fakeQuestionStore{question: &model.Question{ID: 7, Title: "Hello, World!", Date: "2024-01-01"}}
	audio := &fakeAudioStore{
		keys: []string{
			"initial-splits/2024-01-01 - Hallo Weld.mp3",
			"initial-splits/2024-01-01 - Hello World.mp3",
			"initial-splits/2024-01-01 - Goodbye.mp3",
		},
	}
	svc := newTestAudioService(questions, audio)
	fixed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	link, err := svc.Resolve(context.Background(), 7)

	assert.Equal(t, nil, err)
	assert.Equal(t, "Hello, World!", link.Title)
	assert.Equal(t, "initial-splits/2024-01-01 - Hello World.mp3", link.Key)
	assert.Equal(t, "https://signed.example/initial-splits/2024-01-01 - Hello World.mp3", link.URL)
	assert.Equal(t, 0, link.Distance)
	assert.Equal(t, DefaultURLExpiry, audio.expiry)
	assert.Equal(t, fixed.Add(DefaultURLExpiry), link.ExpiresAt)
	assert.Equal(t, 1, audio.listCalls)
	assert.Equal(t, 1, audio.signCalls)
}

func TestResolve_RepeatedCallsDoNotCache(t *testing.T) {
	questions := &fakeQuestionStore{question: &model.Question{ID: 7, Title: "Hello", Date: "2024-01-01"}}
	audio := &fakeAudioStore{keys: []string{"initial-splits/2024-01-01 - Hello.mp3"}}
	svc := newTestAudioService(questions, audio)

	for i := 0; i < 3; i++ {
		_, err := svc.Resolve(context.Background(), 7)
		assert.Equal(t, nil, err)
	}

	assert.Equal(t, 3, audio.listCalls)
	assert.Equal(t, 3, audio.signCalls)
}

func TestResolve_MaxDistance(t *testing.T) {
	questions := &fakeQuestionStore{question: &model.Question{ID: 7, Title: "Hello", Date: "2024-01-01"}}
	audio := &fakeAudioStore{keys: []string{"initial-splits/2024-01-01 - A completely different lecture.mp3"}}
	svc := NewAudioService(questions, audio, AudioConfig{Prefix: "initial-splits/", MaxDistance: 5, URLExpiry: time.Minute})

	_, err := svc.Resolve(context.Background(), 7)

	assert.Equal(t, true, errors.Is(err, ErrNoMatch))
	assert.Equal(t, 0, audio.signCalls)
}

func TestAsError(t *testing.T) {
	wrapped := newError(ErrNotFound, "", nil)
	assert.Equal(t, KindNotFound, AsError(wrapped).Kind)

	plain := AsError(errors.New("boom"))
	assert.Equal(t, KindQueryFailure, plain.Kind)
	assert.Equal(t, "Query failed.", plain.Message)
}

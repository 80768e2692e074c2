// Package ingest loads Transcribe output from object storage into the
// questions table.
package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"qnasearch/internal/model"
	"qnasearch/pkg/transcribe"
	"strings"
	"time"
)

type Outcome int

const (
	Skipped Outcome = iota
	Inserted
	Updated
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Updated:
		return "updated"
	}
	return "skipped"
}

type ObjectLister interface {
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}

type ObjectReader interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

type QuestionWriter interface {
	Upsert(ctx context.Context, q *model.Question) (bool, error)
}

type Importer struct {
	objects   ObjectReader
	questions QuestionWriter
}

func NewImporter(objects ObjectReader, questions QuestionWriter) *Importer {
	return &Importer{objects: objects, questions: questions}
}

// Process imports one transcript object. Keys that are not .json, whose
// name does not carry a date and title, or whose transcript is empty are
// skipped without error.
func (i *Importer) Process(ctx context.Context, key string) (Outcome, error) {
	if !strings.HasSuffix(key, transcribe.Ext) {
		return Skipped, nil
	}

	title, date, ok := transcribe.ParseFilename(key)
	if !ok || title == "" {
		slog.Warn("transcript name has no date and title", "key", key)
		return Skipped, nil
	}

	body, err := i.objects.Open(ctx, key)
	if err != nil {
		return Skipped, err
	}
	defer body.Close()

	text, err := transcribe.ParseTranscript(body)
	if err != nil {
		return Skipped, fmt.Errorf("parse %q: %w", key, err)
	}

	if text == "" {
		slog.Warn("empty transcription", "key", key)
		return Skipped, nil
	}

	q := model.Question{Title: title, Date: date, Transcription: text}
	inserted, err := i.questions.Upsert(ctx, &q)
	if err != nil {
		return Skipped, err
	}

	if inserted {
		return Inserted, nil
	}
	return Updated, nil
}

type Enqueuer interface {
	Push(ctx context.Context, item string) error
}

// Scan queues every transcript key under prefix and returns how many were
// queued.
func Scan(ctx context.Context, lister ObjectLister, queue Enqueuer, prefix string) (int, error) {
	keys, err := lister.ListKeys(ctx, prefix)
	if err != nil {
		return 0, err
	}

	queued := 0
	for _, key := range keys {
		if !strings.HasSuffix(key, transcribe.Ext) {
			continue
		}

		if err := queue.Push(ctx, key); err != nil {
			return queued, fmt.Errorf("queue %q: %w", key, err)
		}
		queued++
	}

	return queued, nil
}

type WorkQueue interface {
	Pop(ctx context.Context, timeout time.Duration) (string, bool, error)
	Push(ctx context.Context, item string) error
	Fail(ctx context.Context, item string) (int64, error)
	DeadLetter(ctx context.Context, item string) error
	Done(ctx context.Context, item string) error
}

type Stats struct {
	Inserted int
	Updated  int
	Skipped  int
	Retried  int
	Failed   int
}

type Worker struct {
	importer    *Importer
	queue       WorkQueue
	MaxAttempts int64
	PopTimeout  time.Duration
	RetryDelay  time.Duration
}

func NewWorker(importer *Importer, queue WorkQueue) *Worker {
	return &Worker{
		importer:    importer,
		queue:       queue,
		MaxAttempts: 3,
		PopTimeout:  5 * time.Second,
		RetryDelay:  time.Second,
	}
}

// Run drains the queue. It returns once a pop times out with nothing
// queued, the context ends, or the queue itself fails.
func (w *Worker) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		key, ok, err := w.queue.Pop(ctx, w.PopTimeout)
		if err != nil {
			return stats, fmt.Errorf("pop: %w", err)
		}
		if !ok {
			return stats, nil
		}

		outcome, err := w.importer.Process(ctx, key)
		if err != nil {
			slog.Error("error importing transcript", "key", key, "error", err)

			attempts, qErr := w.queue.Fail(ctx, key)
			if qErr != nil {
				return stats, fmt.Errorf("record failure %q: %w", key, qErr)
			}

			if attempts >= w.MaxAttempts {
				slog.Warn("transcript exceeded max attempts, moving to dead letter", "key", key, "attempts", attempts)
				if err := w.queue.DeadLetter(ctx, key); err != nil {
					return stats, fmt.Errorf("dead letter %q: %w", key, err)
				}
				stats.Failed++
				continue
			}

			if err := w.queue.Push(ctx, key); err != nil {
				return stats, fmt.Errorf("requeue %q: %w", key, err)
			}

			stats.Retried++
			if w.RetryDelay > 0 {
				select {
				case <-ctx.Done():
					return stats, ctx.Err()
				case <-time.After(w.RetryDelay):
				}
			}
			continue
		}

		if err := w.queue.Done(ctx, key); err != nil {
			slog.Warn("error clearing attempts", "key", key, "error", err)
		}

		switch outcome {
		case Inserted:
			stats.Inserted++
		case Updated:
			stats.Updated++
		default:
			stats.Skipped++
		}

		slog.Info("transcript processed", "key", key, "outcome", outcome.String())
	}
}

// Package split turns livestream recordings posted to Telegram into
// per-question clips in object storage and starts a transcription job for
// each clip.
package split

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"qnasearch/pkg/telegram"
	"strconv"
	"time"
)

type Channel interface {
	Posts(ctx context.Context, afterID int) ([]telegram.Post, error)
	Download(ctx context.Context, postID int, w io.Writer) error
}

type Cutter interface {
	Cut(ctx context.Context, src, dst string, start, end time.Duration) error
}

type Uploader interface {
	Put(ctx context.Context, key string, body io.ReadSeeker, contentType string) error
}

type JobStarter interface {
	Start(ctx context.Context, job, mediaKey string) error
}

type Cursor interface {
	Get(ctx context.Context) (int, error)
	Set(ctx context.Context, id int) error
}

type Stats struct {
	Posts      int
	Recordings int
	Skipped    int
	Clips      int
	Jobs       int
	Failed     int
}

type Splitter struct {
	cutter  Cutter
	uploads Uploader
	jobs    JobStarter
	cursor  Cursor

	// AudioPrefix is prepended to clip names to form object keys.
	AudioPrefix string
	// WorkDir holds downloads and clips while a post is processed. Empty
	// means the system temp dir.
	WorkDir string
}

func NewSplitter(cutter Cutter, uploads Uploader, jobs JobStarter, cursor Cursor, audioPrefix string) *Splitter {
	return &Splitter{
		cutter:      cutter,
		uploads:     uploads,
		jobs:        jobs,
		cursor:      cursor,
		AudioPrefix: audioPrefix,
	}
}

// Run processes every post newer than the saved cursor, oldest first, and
// advances the cursor after each one. A failed download or cut stops the
// run before the cursor moves past that post. Failed uploads and job starts
// are logged and counted.
func (s *Splitter) Run(ctx context.Context, ch Channel) (Stats, error) {
	var stats Stats

	lastID, err := s.cursor.Get(ctx)
	if err != nil {
		return stats, fmt.Errorf("read cursor: %w", err)
	}

	slog.Info("reading channel", "last_id", lastID)

	posts, err := ch.Posts(ctx, lastID)
	if err != nil {
		return stats, err
	}

	for _, post := range posts {
		stats.Posts++

		if post.IsRecording() {
			if err := s.process(ctx, ch, post, &stats); err != nil {
				return stats, fmt.Errorf("post %d: %w", post.ID, err)
			}
		}

		if post.ID > lastID {
			lastID = post.ID
			if err := s.cursor.Set(ctx, lastID); err != nil {
				return stats, fmt.Errorf("save cursor: %w", err)
			}
		}
	}

	return stats, nil
}

func (s *Splitter) process(ctx context.Context, ch Channel, post telegram.Post, stats *Stats) error {
	stamps := telegram.ParseTimestamps(post.Text)
	if len(stamps) == 0 {
		slog.Warn("no timestamps found, skipping", "post_id", post.ID)
		stats.Skipped++
		return nil
	}

	date := telegram.DateOrUnknown(post.Text)

	dir, err := os.MkdirTemp(s.WorkDir, "post-"+strconv.Itoa(post.ID)+"-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, date+".mp3")
	if err := s.download(ctx, ch, post.ID, src); err != nil {
		return err
	}

	slog.Info("downloaded recording", "post_id", post.ID, "date", date, "questions", len(stamps))

	for i, clip := range telegram.Clips(date, stamps) {
		dst := filepath.Join(dir, "clip-"+strconv.Itoa(i)+".mp3")
		if err := s.cutter.Cut(ctx, src, dst, clip.Start, clip.End); err != nil {
			return err
		}

		key := s.AudioPrefix + clip.Name
		if err := s.upload(ctx, dst, key); err != nil {
			slog.Error("error uploading clip", "key", key, "error", err)
			stats.Failed++
			continue
		}
		stats.Clips++

		job := telegram.JobName(clip.Name, post.ID, i)
		if err := s.jobs.Start(ctx, job, key); err != nil {
			slog.Error("error starting transcription job", "job", job, "key", key, "error", err)
			stats.Failed++
			continue
		}
		stats.Jobs++

		slog.Info("clip uploaded", "key", key, "job", job)
	}

	stats.Recordings++
	return nil
}

func (s *Splitter) download(ctx context.Context, ch Channel, postID int, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := ch.Download(ctx, postID, f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func (s *Splitter) upload(ctx context.Context, path, key string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return s.uploads.Put(ctx, key, f, telegram.AudioMIME)
}

// Package audio cuts recordings into clips with the ffmpeg binary.
package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

type FFmpeg struct {
	path string
}

// NewFFmpeg locates the ffmpeg binary. An empty bin means "ffmpeg" on PATH.
func NewFFmpeg(bin string) (*FFmpeg, error) {
	if bin == "" {
		bin = "ffmpeg"
	}

	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found: %w", err)
	}

	return &FFmpeg{path: path}, nil
}

// Cut writes src[start:end] to dst without re-encoding. A zero end runs
// to the end of src.
func (f *FFmpeg) Cut(ctx context.Context, src, dst string, start, end time.Duration) error {
	cmd := exec.CommandContext(ctx, f.path, CutArgs(src, dst, start, end)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg cut %q: %w: %s", dst, err, strings.TrimSpace(stderr.String()))
	}

	return nil
}

func CutArgs(src, dst string, start, end time.Duration) []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-y", "-ss", seconds(start), "-i", src}
	if end > start {
		args = append(args, "-t", seconds(end-start))
	}
	return append(args, "-c", "copy", dst)
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}

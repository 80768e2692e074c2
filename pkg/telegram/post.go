// Package telegram reads livestream Q&A posts from a Telegram channel and
// turns their timestamp lists into named clips.
package telegram

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	AudioMIME   = "audio/mpeg"
	UnknownDate = "unknown-date"

	// MaxTitleLength caps the sanitized question in a clip name, in runes.
	MaxTitleLength = 180
	// MaxJobNameLength is the Transcribe limit on job names.
	MaxJobNameLength = 200

	qnaMarker = "livestream counselling q&a timestamps"
	clipExt   = ".mp3"
)

var (
	channelLink    = regexp.MustCompile(`(?i)https?://t\.me/\S+`)
	postDate       = regexp.MustCompile(`(January|February|March|April|May|June|July|August|September|October|November|December)[\s\p{Zs}]+(\d{1,2})(?:st|nd|rd|th)?,[\s\p{Zs}]*(\d{4})`)
	timestampLine  = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?\s*[-–]?\s*(.+)$`)
	unsafeFilename = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	unsafeJobName  = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
)

var months = map[string]string{
	"January": "01", "February": "02", "March": "03", "April": "04",
	"May": "05", "June": "06", "July": "07", "August": "08",
	"September": "09", "October": "10", "November": "11", "December": "12",
}

// Post is a channel message. MIMEType and Audio describe the attached
// document, if any.
type Post struct {
	ID       int
	Text     string
	MIMEType string
	Audio    bool
}

// IsRecording reports whether the post carries an mp3 recording with a Q&A
// timestamp list.
func (p Post) IsRecording() bool {
	return p.Audio && p.MIMEType == AudioMIME && IsQnA(p.Text)
}

// IsQnA reports whether text is a livestream Q&A timestamp post. Channel
// links are ignored and whitespace is collapsed before matching.
func IsQnA(text string) bool {
	if text == "" {
		return false
	}

	cleaned := channelLink.ReplaceAllString(text, "")
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	return strings.Contains(strings.ToLower(cleaned), qnaMarker)
}

// ExtractDate finds the first "Month D[th], YYYY" in text and formats it
// as YYYY-DD-MM. Clip names and the questions table both carry this
// order, so audio lookups depend on it staying as is.
func ExtractDate(text string) (string, bool) {
	cleaned := channelLink.ReplaceAllString(text, "")
	cleaned = strings.ReplaceAll(cleaned, "\n", " ")

	m := postDate.FindStringSubmatch(cleaned)
	if m == nil {
		return "", false
	}

	day := m[2]
	if len(day) == 1 {
		day = "0" + day
	}

	return m[3] + "-" + day + "-" + months[m[1]], true
}

// DateOrUnknown is ExtractDate with UnknownDate as the fallback.
func DateOrUnknown(text string) string {
	if date, ok := ExtractDate(text); ok {
		return date
	}
	return UnknownDate
}

type Timestamp struct {
	Offset   time.Duration
	Question string
}

// ParseTimestamps reads "H:MM[:SS] - question" lines. A two-part stamp is
// hours and minutes. Lines that do not match are ignored.
func ParseTimestamps(text string) []Timestamp {
	var stamps []Timestamp

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		m := timestampLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}

		question := strings.TrimSpace(m[4])
		if question == "" {
			continue
		}

		hours, _ := strconv.Atoi(m[1])
		minutes, _ := strconv.Atoi(m[2])
		seconds := 0
		if m[3] != "" {
			seconds, _ = strconv.Atoi(m[3])
		}

		stamps = append(stamps, Timestamp{
			Offset:   time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second,
			Question: question,
		})
	}

	return stamps
}

// Clip is one question's slice of a recording. A zero End runs to the end
// of the recording.
type Clip struct {
	Name  string
	Start time.Duration
	End   time.Duration
}

// Clips cuts a recording at each timestamp. Each clip ends where the next
// one starts and the last runs to the end.
func Clips(date string, stamps []Timestamp) []Clip {
	clips := make([]Clip, 0, len(stamps))

	for i, ts := range stamps {
		clip := Clip{Name: ClipName(date, ts.Question), Start: ts.Offset}
		if i+1 < len(stamps) {
			clip.End = stamps[i+1].Offset
		}
		clips = append(clips, clip)
	}

	return clips
}

// ClipName is the object name of a clip, "<date> - <question>.mp3".
func ClipName(date, question string) string {
	return date + " - " + SanitizeFilename(question) + clipExt
}

// SanitizeFilename replaces characters that are unsafe in file names with
// "_" and caps the result at MaxTitleLength runes.
func SanitizeFilename(name string) string {
	name = unsafeFilename.ReplaceAllString(name, "_")

	if utf8.RuneCountInString(name) <= MaxTitleLength {
		return name
	}
	return string([]rune(name)[:MaxTitleLength])
}

// JobName derives a Transcribe job name from a clip name. Characters
// outside [a-zA-Z0-9_-] become "_", so " - " turns into "_-_". The
// trailing "-<post>_<index>" keeps names unique across runs and is dropped
// again when the transcript is imported.
func JobName(clipName string, postID, index int) string {
	base, _, _ := strings.Cut(clipName, clipExt)
	base = unsafeJobName.ReplaceAllString(base, "_")

	suffix := fmt.Sprintf("-%d_%d", postID, index)
	if limit := MaxJobNameLength - len(suffix); len(base) > limit {
		base = base[:limit]
	}

	return base + suffix
}

// ChannelName reduces a t.me link or @handle to the bare username.
func ChannelName(channel string) string {
	name := strings.TrimSpace(channel)
	for _, prefix := range []string{"https://", "http://", "t.me/", "@"} {
		name = strings.TrimPrefix(name, prefix)
	}
	return strings.Trim(name, "/")
}

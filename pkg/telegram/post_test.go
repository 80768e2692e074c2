package telegram

import (
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/gotd/td/tg"
)

const samplePost = `Livestream Counselling Q&A Timestamps
https://t.me/somechannel/123
November 29th, 2022

0:00 - Introduction
0:05 – Addressing the non-muslim with "dear" in emails
1:02:30 Zakat on savings?
not a timestamp
`

func TestIsQnA(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", false},
		{"marker", samplePost, true},
		{"collapsed whitespace", "LIVESTREAM   counselling\n Q&A  timestamps", true},
		{"link inside marker", "livestream counselling https://t.me/x q&a timestamps", true},
		{"other post", "Friday reminder", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsQnA(tt.text))
		})
	}
}

func TestExtractDate(t *testing.T) {
	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{samplePost, "2022-29-11", true},
		{"Held on March 3, 2024 after Asr", "2024-03-03", true},
		{"May 1st,2023", "2023-01-05", true},
		{"December\n22nd, 2021", "2021-22-12", true},
		{"https://t.me/x/January 5, 2020", "", false},
		{"no date here", "", false},
	}

	for _, tt := range tests {
		got, ok := ExtractDate(tt.text)
		assert.Equal(t, tt.ok, ok)
		assert.Equal(t, tt.want, got)
	}

	assert.Equal(t, UnknownDate, DateOrUnknown("no date here"))
}

func TestParseTimestamps(t *testing.T) {
	stamps := ParseTimestamps(samplePost)

	assert.Equal(t, 3, len(stamps))
	assert.Equal(t, Timestamp{Offset: 0, Question: "Introduction"}, stamps[0])
	assert.Equal(t, Timestamp{Offset: 5 * time.Minute, Question: `Addressing the non-muslim with "dear" in emails`}, stamps[1])
	assert.Equal(t, Timestamp{Offset: time.Hour + 2*time.Minute + 30*time.Second, Question: "Zakat on savings?"}, stamps[2])

	assert.Equal(t, 0, len(ParseTimestamps("no stamps\nat all")))
}

func TestClips(t *testing.T) {
	clips := Clips("2022-29-11", ParseTimestamps(samplePost))

	assert.Equal(t, 3, len(clips))
	assert.Equal(t, Clip{Name: "2022-29-11 - Introduction.mp3", Start: 0, End: 5 * time.Minute}, clips[0])
	assert.Equal(t, `2022-29-11 - Addressing the non-muslim with _dear_ in emails.mp3`, clips[1].Name)
	assert.Equal(t, time.Hour+2*time.Minute+30*time.Second, clips[1].End)
	assert.Equal(t, "2022-29-11 - Zakat on savings_.mp3", clips[2].Name)
	assert.Equal(t, time.Duration(0), clips[2].End)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a_b_c_d_e_f_g_h_i", SanitizeFilename(`a<b>c:d"e/f\g|h?i`))
	assert.Equal(t, "tab_here", SanitizeFilename("tab\there"))
	assert.Equal(t, "Zakāt", SanitizeFilename("Zakāt"))

	long := SanitizeFilename(strings.Repeat("é", 200))
	assert.Equal(t, strings.Repeat("é", MaxTitleLength), long)
}

func TestJobName(t *testing.T) {
	name := JobName(`2022-29-11 - Addressing the non-muslim with _dear_ in emails.mp3`, 584, 1)
	assert.Equal(t, "2022-29-11_-_Addressing_the_non-muslim_with__dear__in_emails-584_1", name)

	assert.Equal(t, "2024-03-03_-_Zak_t-9_0", JobName("2024-03-03 - Zakāt.mp3", 9, 0))

	long := JobName("2024-03-03 - "+strings.Repeat("x", 190)+".mp3", 12345, 7)
	assert.Equal(t, MaxJobNameLength, len(long))
	assert.Equal(t, true, strings.HasSuffix(long, "-12345_7"))
}

func TestChannelName(t *testing.T) {
	assert.Equal(t, "devtestingchannel", ChannelName("https://t.me/devtestingchannel"))
	assert.Equal(t, "devtestingchannel", ChannelName("t.me/devtestingchannel/"))
	assert.Equal(t, "devtestingchannel", ChannelName("@devtestingchannel"))
	assert.Equal(t, "devtestingchannel", ChannelName("devtestingchannel"))
}

func TestPostIsRecording(t *testing.T) {
	assert.Equal(t, true, Post{Text: samplePost, MIMEType: AudioMIME, Audio: true}.IsRecording())
	assert.Equal(t, false, Post{Text: samplePost, MIMEType: "audio/ogg", Audio: true}.IsRecording())
	assert.Equal(t, false, Post{Text: samplePost, MIMEType: AudioMIME}.IsRecording())
	assert.Equal(t, false, Post{Text: "hello", MIMEType: AudioMIME, Audio: true}.IsRecording())
}

func TestChannelPost(t *testing.T) {
	ch := &Channel{documents: make(map[int]*tg.InputDocumentFileLocation)}

	p := ch.post(&tg.Message{
		ID:      42,
		Message: samplePost,
		Media: &tg.MessageMediaDocument{
			Document: &tg.Document{
				ID:            7,
				AccessHash:    8,
				FileReference: []byte{1},
				MimeType:      AudioMIME,
				Attributes:    []tg.DocumentAttributeClass{&tg.DocumentAttributeAudio{Duration: 3600}},
			},
		},
	})

	assert.Equal(t, true, p.IsRecording())
	assert.Equal(t, int64(7), ch.documents[42].ID)

	plain := ch.post(&tg.Message{ID: 43, Message: "text only"})
	assert.Equal(t, false, plain.Audio)
	assert.Equal(t, true, ch.documents[43] == nil)
}

func TestHistoryMessages(t *testing.T) {
	msgs := []tg.MessageClass{&tg.Message{ID: 2}, &tg.MessageService{ID: 1}}

	assert.Equal(t, 2, len(historyMessages(&tg.MessagesChannelMessages{Messages: msgs})))
	assert.Equal(t, 2, len(historyMessages(&tg.MessagesMessagesSlice{Messages: msgs})))
	assert.Equal(t, 0, len(historyMessages(&tg.MessagesMessagesNotModified{})))
}

// Package transcribe reads AWS Transcribe output files.
package transcribe

import (
	"encoding/json"
	"io"
	"path"
	"strings"
)

const Ext = ".json"

type output struct {
	Results struct {
		Transcripts []struct {
			Transcript string `json:"transcript"`
		} `json:"transcripts"`
	} `json:"results"`
}

// ParseTranscript returns the first transcript of a Transcribe result with
// whitespace collapsed. A result without transcripts yields "".
func ParseTranscript(r io.Reader) (string, error) {
	var out output
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return "", err
	}

	if len(out.Results.Transcripts) == 0 {
		return "", nil
	}

	return strings.Join(strings.Fields(out.Results.Transcripts[0].Transcript), " "), nil
}

// ParseFilename splits an exported file name such as
//
//	2022-29-11_-_Addressing_the_non-muslim_with__dear__in_emails-584040.json
//
// into its title and date. The trailing "-<id>" is dropped and underscores
// become spaces.
func ParseFilename(name string) (title, date string, ok bool) {
	base := strings.TrimSuffix(path.Base(name), Ext)

	date, rest, found := strings.Cut(base, "_-_")
	if !found {
		return "", "", false
	}

	if i := strings.LastIndex(rest, "-"); i >= 0 {
		rest = rest[:i]
	}

	title = strings.TrimSpace(strings.ReplaceAll(rest, "_", " "))
	return title, date, true
}

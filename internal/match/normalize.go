// Package match pairs question titles with audio object keys.
//
// Object keys are not linked to database rows. A key is chosen at request
// time by comparing normalized titles with Levenshtein distance, so the
// result is a best guess rather than a lookup.
package match

import (
	"path"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const audioExt = ".mp3"

var datePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\s*-\s*`)

// Normalize lowercases text with full Unicode case mapping, turns every run of characters that are not
// letters, numbers or whitespace into a single space, collapses whitespace
// and trims the result.
func Normalize(text string) string {
	// A Caser keeps state, so each call gets its own.
	lowered := cases.Lower(language.Und).String(text)

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, lowered)

	return strings.Join(strings.Fields(cleaned), " ")
}

// StripDatePrefix removes a leading "YYYY-MM-DD - " from a key basename.
func StripDatePrefix(name string) string {
	return datePrefix.ReplaceAllString(name, "")
}

// KeyTitle returns the basename of an object key without its .mp3 extension.
func KeyTitle(key string) string {
	return strings.TrimSuffix(path.Base(key), audioExt)
}

package match

import "github.com/agnivade/levenshtein"

type Candidate struct {
	// Key is the full object key returned to the caller.
	Key string
	// Title is the key basename without extension, date prefix included.
	Title string
}

type Match struct {
	Key      string
	Distance int
}

// Selector picks the closest candidate for a title. A MaxDistance of zero
// accepts any distance.
type Selector struct {
	MaxDistance int
}

// Distance is the rune-level Levenshtein distance between a and b.
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// CandidatesFromKeys builds candidates from raw object keys.
func CandidatesFromKeys(keys []string) []Candidate {
	candidates := make([]Candidate, 0, len(keys))
	for _, key := range keys {
		candidates = append(candidates, Candidate{Key: key, Title: KeyTitle(key)})
	}
	return candidates
}

// Select returns the candidate whose normalized title is nearest to target.
// Ties go to the earliest candidate. It reports false when candidates is
// empty or the best distance is above MaxDistance.
func (s Selector) Select(target string, candidates []Candidate) (Match, bool) {
	normTarget := Normalize(target)

	var best Match
	found := false

	for _, c := range candidates {
		d := Distance(normTarget, Normalize(StripDatePrefix(c.Title)))
		if !found || d < best.Distance {
			best = Match{Key: c.Key, Distance: d}
			found = true
		}
	}

	if !found {
		return Match{}, false
	}

	if s.MaxDistance > 0 && best.Distance > s.MaxDistance {
		return best, false
	}

	return best, true
}

func SelectBestMatch(target string, candidates []Candidate) (Match, bool) {
	return Selector{}.Select(target, candidates)
}

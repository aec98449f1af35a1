package fuzzy

import (
	"strings"
	"unicode"
)

// termSeparators lists the punctuation that splits text into terms, in
// addition to unicode whitespace.
const termSeparators = `-_.,!?;:()[]{}'"`

// partialMatchCap keeps substring containment strictly below a full
// term match: the containment bonus is the length ratio scaled by this
// factor, so even a near-complete overlap cannot reach 1.0.
const partialMatchCap = 0.8

// Tokenize splits text into matchable terms. Terms are separated by
// whitespace and the fixed punctuation set, empty tokens are dropped,
// and everything is lowercased unless caseSensitive is set.
func Tokenize(text string, caseSensitive bool) []string {
	if !caseSensitive {
		text = strings.ToLower(text)
	}
	return strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(termSeparators, r)
	})
}

// TermMatch is the best pairing found for a single query term.
type TermMatch struct {
	Term  string
	Score float64
}

// MatchTerm finds the candidate closest to queryTerm and reports it with
// its score, or a zero TermMatch when no candidate scores above zero.
//
// Every candidate is scored by edit-distance similarity. When
// partialMatch is set and the query term has at least three characters,
// candidates that contain the query term (or are contained by it) also
// earn a length-ratio bonus, shorter/longer * 0.8, and the higher of the
// two scores wins. maxDistance > 0 excludes candidates more than that
// many edits away from the similarity scoring; zero means no cap.
func MatchTerm(queryTerm string, candidates []string, partialMatch bool, maxDistance int) TermMatch {
	var best TermMatch
	qLen := len([]rune(queryTerm))

	for _, candidate := range candidates {
		score := 0.0
		if maxDistance <= 0 || Distance(queryTerm, candidate) <= maxDistance {
			score = Similarity(queryTerm, candidate)
		}

		if partialMatch && qLen >= 3 &&
			(strings.Contains(candidate, queryTerm) || strings.Contains(queryTerm, candidate)) {
			cLen := len([]rune(candidate))
			shorter := min(qLen, cLen)
			longer := max(qLen, cLen)
			if longer > 0 {
				if bonus := float64(shorter) / float64(longer) * partialMatchCap; bonus > score {
					score = bonus
				}
			}
		}

		if score > best.Score {
			best = TermMatch{Term: candidate, Score: score}
		}
	}

	return best
}

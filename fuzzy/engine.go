package fuzzy

import (
	"slices"
	"strings"
)

// verbatimScore is awarded when the whole query appears inside the text:
// high, but deliberately below the 1.0 reserved for exact term equality.
const verbatimScore = 0.9

// suggestionSimilarityFloor is the minimum similarity for a vocabulary
// term to qualify as a suggestion. It is stricter than the matching
// threshold because a suggestion has to be worth retyping.
const suggestionSimilarityFloor = 0.6

// MatchOptions control approximate matching.
type MatchOptions struct {
	// Threshold is the minimum score for a term to count as matched and
	// for Match to report an overall match.
	Threshold float64

	// CaseSensitive disables the default lowercase normalization.
	CaseSensitive bool

	// MaxDistance, when positive, caps how many edits away a candidate
	// term may be before edit-distance similarity stops counting. Zero
	// means no cap.
	MaxDistance int

	// PartialMatch enables the substring containment bonus for terms.
	PartialMatch bool
}

// DefaultMatchOptions returns the options used when callers have no
// special requirements.
func DefaultMatchOptions() MatchOptions {
	return MatchOptions{
		Threshold:     0.3,
		CaseSensitive: false,
		MaxDistance:   0,
		PartialMatch:  true,
	}
}

// Result is the outcome of matching one query against one text.
type Result struct {
	Matches      bool
	Score        float64
	MatchedTerms []string
}

// Match scores query against text.
//
// A query contained verbatim in the text short-circuits to the fixed
// verbatim score. Otherwise every query term is matched against the
// text's terms, terms scoring below the threshold are dropped, and the
// final score is
//
//	(sum of kept scores / term count) * (kept count / term count)
//
// so a missing term is punished twice: once by contributing nothing to
// the sum and once by shrinking the coverage ratio.
func Match(query, text string, opts MatchOptions) Result {
	queryNorm := query
	textNorm := text
	if !opts.CaseSensitive {
		queryNorm = strings.ToLower(query)
		textNorm = strings.ToLower(text)
	}
	queryNorm = strings.TrimSpace(queryNorm)

	if queryNorm != "" && strings.Contains(textNorm, queryNorm) {
		return Result{
			Matches:      verbatimScore >= opts.Threshold,
			Score:        verbatimScore,
			MatchedTerms: []string{queryNorm},
		}
	}

	queryTerms := Tokenize(query, opts.CaseSensitive)
	if len(queryTerms) == 0 {
		return Result{}
	}
	textTerms := Tokenize(text, opts.CaseSensitive)

	var sum float64
	matched := make([]string, 0, len(queryTerms))
	for _, term := range queryTerms {
		best := MatchTerm(term, textTerms, opts.PartialMatch, opts.MaxDistance)
		if best.Term != "" && best.Score >= opts.Threshold {
			sum += best.Score
			matched = append(matched, best.Term)
		}
	}

	total := float64(len(queryTerms))
	score := (sum / total) * (float64(len(matched)) / total)

	return Result{
		Matches:      score > 0 && score >= opts.Threshold,
		Score:        score,
		MatchedTerms: matched,
	}
}

// ItemMatch pairs an item with its best score across the item's fields.
type ItemMatch[T any] struct {
	Item         T
	Score        float64
	MatchedTerms []string
}

// Search matches query against every text of every item, keeps the best
// field score as the item's score and drops items that score zero. The
// fields function extracts the candidate texts from an item. Results are
// ordered by descending score; ties keep the input order of items, which
// makes the ranking deterministic.
func Search[T any](query string, items []T, fields func(T) []string, opts MatchOptions) []ItemMatch[T] {
	results := make([]ItemMatch[T], 0, len(items))

	for _, item := range items {
		var best float64
		var terms []string
		seen := make(map[string]bool)
		for _, text := range fields(item) {
			res := Match(query, text, opts)
			if res.Score > best {
				best = res.Score
			}
			for _, term := range res.MatchedTerms {
				if !seen[term] {
					seen[term] = true
					terms = append(terms, term)
				}
			}
		}
		if best > 0 {
			results = append(results, ItemMatch[T]{Item: item, Score: best, MatchedTerms: terms})
		}
	}

	slices.SortStableFunc(results, func(a, b ItemMatch[T]) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	return results
}

// Suggestions proposes alternative terms for a query that found nothing.
//
// A vocabulary term qualifies when it contains the query as a substring
// (exact equality excluded), or when it has at least three characters
// and its similarity to the query reaches the suggestion floor.
// Substring containers sort first, the rest follow by descending
// similarity. The query itself and duplicates are never returned.
func Suggestions(query string, vocabulary []string, maxSuggestions int) []string {
	if maxSuggestions <= 0 {
		return nil
	}
	queryNorm := strings.ToLower(strings.TrimSpace(query))
	if queryNorm == "" {
		return nil
	}

	type candidate struct {
		term       string
		similarity float64
		contains   bool
	}

	seen := make(map[string]bool)
	candidates := make([]candidate, 0, len(vocabulary))
	for _, term := range vocabulary {
		termNorm := strings.ToLower(term)
		if termNorm == queryNorm || seen[termNorm] {
			continue
		}
		contains := strings.Contains(termNorm, queryNorm)
		similarity := Similarity(queryNorm, termNorm)
		if !contains && (len([]rune(termNorm)) < 3 || similarity < suggestionSimilarityFloor) {
			continue
		}
		seen[termNorm] = true
		candidates = append(candidates, candidate{term: term, similarity: similarity, contains: contains})
	}

	slices.SortStableFunc(candidates, func(a, b candidate) int {
		if a.contains != b.contains {
			if a.contains {
				return -1
			}
			return 1
		}
		switch {
		case a.similarity > b.similarity:
			return -1
		case a.similarity < b.similarity:
			return 1
		default:
			return 0
		}
	})

	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}

	suggestions := make([]string, len(candidates))
	for i, c := range candidates {
		suggestions[i] = c.term
	}
	return suggestions
}

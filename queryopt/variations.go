package queryopt

import "strings"

// Variation is one alternative phrasing of a query, tagged with the
// technique that produced it and how promising it looks.
type Variation struct {
	Text                 string
	Technique            Technique
	Confidence           float64
	EstimatedImprovement float64
}

// Variations generates alternative phrasings for a query that found
// nothing: the original first, then the fully optimized rewrite, each
// single-technique rewrite, case variants, and (for long queries)
// token half-splits and a keywords-only form. The list is deduplicated
// in insertion order and never exceeds maxVariations; callers try the
// entries in order and stop at the first that yields results.
func (o *Optimizer) Variations(query string, maxVariations int) []Variation {
	if maxVariations <= 0 {
		return nil
	}

	variations := []Variation{{Text: query, Technique: TechniqueOriginal, Confidence: 1.0}}
	seen := map[string]bool{query: true}

	add := func(text string, technique Technique, confidence, improvement float64) {
		if len(variations) >= maxVariations || text == "" || seen[text] {
			return
		}
		seen[text] = true
		variations = append(variations, Variation{
			Text:                 text,
			Technique:            technique,
			Confidence:           confidence,
			EstimatedImprovement: improvement,
		})
	}

	if opt := o.Optimize(query); len(opt.Techniques) > 0 {
		add(opt.Query, TechniqueOptimized, opt.Confidence, opt.EstimatedImprovement)
	}

	for _, step := range pipeline {
		if text, changed := step.apply(o, query); changed {
			add(text, step.technique, clamp(baseConfidence+step.confidence, 0, maxConfidence), step.improvement)
		}
	}

	add(strings.ToLower(query), TechniqueLowercase, 0.6, 0.05)
	add(strings.ToUpper(query), TechniqueUppercase, 0.3, 0.02)

	if class := classifyLength(query); class == LengthLong || class == LengthVeryLong {
		tokens := strings.Fields(query)
		if len(tokens) >= 2 {
			mid := len(tokens) / 2
			add(strings.Join(tokens[:mid], " "), TechniqueFirstHalf, 0.4, 0.1)
			add(strings.Join(tokens[mid:], " "), TechniqueSecondHalf, 0.4, 0.1)
		}

		var keywords []string
		for _, tok := range tokens {
			if len([]rune(tok)) > 3 {
				keywords = append(keywords, tok)
			}
		}
		if len(keywords) > 0 {
			add(strings.Join(keywords, " "), TechniqueKeywordsOnly, 0.5, 0.15)
		}
	}

	return variations
}

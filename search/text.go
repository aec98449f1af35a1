package search

import (
	"strings"

	"github.com/outfield/retriever/core"
	"github.com/outfield/retriever/fuzzy"
)

// Stop words to exclude from the suggestion vocabulary. They sit within
// edit distance of many short queries while being useless as corrections.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true,
}

// harvestVocabulary collects the distinct terms found in the enabled fields
// of every record, in first-seen order, skipping stop words.
func harvestVocabulary(records []*core.Record, opts Options) []string {
	seen := make(map[string]bool)
	var vocabulary []string

	for _, record := range records {
		for _, field := range enabledFields(record, opts) {
			for _, term := range fuzzy.Tokenize(field, opts.CaseSensitive) {
				if seen[term] || stopWords[strings.ToLower(term)] {
					continue
				}
				seen[term] = true
				vocabulary = append(vocabulary, term)
			}
		}
	}

	return vocabulary
}

package queryopt

import (
	"maps"
	"strings"
	"unicode"
)

// Technique tags a query rewrite with the transformation that produced it.
type Technique string

// Rewrite techniques, in the order the optimization pipeline applies them.
const (
	TechniqueWhitespace    Technique = "whitespace_normalization"
	TechniqueTypos         Technique = "typo_correction"
	TechniqueAbbreviations Technique = "abbreviation_expansion"
	TechniqueCompoundSplit Technique = "compound_splitting"
	TechniqueSpecialChars  Technique = "special_char_removal"
	TechniqueSynonyms      Technique = "synonym_injection"
	TechniqueProperNouns   Technique = "proper_noun_capitalization"
)

// Variation-only techniques. These never appear in an Optimization but
// tag the alternative phrasings produced by Variations.
const (
	TechniqueOriginal     Technique = "original"
	TechniqueOptimized    Technique = "optimized"
	TechniqueLowercase    Technique = "lowercase"
	TechniqueUppercase    Technique = "uppercase"
	TechniqueFirstHalf    Technique = "first_half"
	TechniqueSecondHalf   Technique = "second_half"
	TechniqueKeywordsOnly Technique = "keywords_only"
)

const (
	// baseConfidence is the floor granted as soon as any technique
	// fires; the per-technique increments stack on top of it.
	baseConfidence = 0.5

	// maxConfidence caps aggregate confidence: a rewrite is never a
	// certainty, however many techniques agreed on it.
	maxConfidence = 0.95

	// maxImprovement caps the estimated improvement of a rewrite.
	maxImprovement = 0.8
)

// Optimization is the outcome of rewriting a query: the final text, the
// techniques that fired, and aggregate confidence/improvement estimates.
type Optimization struct {
	Query                string
	Techniques           []Technique
	Confidence           float64
	EstimatedImprovement float64
}

// Optimizer rewrites queries using fixed correction tables. The zero
// value is not usable; construct with New.
type Optimizer struct {
	typos         map[string]string
	abbreviations map[string][]string
	synonyms      map[string][]string
	properNouns   map[string]string
}

// Option configures an Optimizer during construction.
type Option func(*Optimizer) error

// WithTypoCorrections replaces the typo table. Keys are misspellings,
// values their corrections; keys must be lowercase.
func WithTypoCorrections(table map[string]string) Option {
	return func(o *Optimizer) error {
		if table == nil {
			return ErrNilTable
		}
		o.typos = maps.Clone(table)
		return nil
	}
}

// WithAbbreviations replaces the abbreviation table. Each key maps to
// its known expansions; the longest expansion wins during rewriting.
func WithAbbreviations(table map[string][]string) Option {
	return func(o *Optimizer) error {
		if table == nil {
			return ErrNilTable
		}
		o.abbreviations = maps.Clone(table)
		return nil
	}
}

// WithSynonyms replaces the synonym table used for short-query
// broadening.
func WithSynonyms(table map[string][]string) Option {
	return func(o *Optimizer) error {
		if table == nil {
			return ErrNilTable
		}
		o.synonyms = maps.Clone(table)
		return nil
	}
}

// WithProperNouns replaces the proper-noun table. Keys are lowercase
// spellings, values the canonical capitalization.
func WithProperNouns(table map[string]string) Option {
	return func(o *Optimizer) error {
		if table == nil {
			return ErrNilTable
		}
		o.properNouns = maps.Clone(table)
		return nil
	}
}

// New creates an Optimizer with the default correction tables, then
// applies any options.
func New(opts ...Option) (*Optimizer, error) {
	o := &Optimizer{
		typos:         defaultTypos,
		abbreviations: defaultAbbreviations,
		synonyms:      defaultSynonyms,
		properNouns:   defaultProperNouns,
	}

	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// techniqueStep pairs a technique with its pipeline transformation and
// the confidence/improvement increments it contributes when it fires.
type techniqueStep struct {
	technique   Technique
	confidence  float64
	improvement float64
	apply       func(o *Optimizer, query string) (string, bool)
}

// pipeline is the fixed rewrite order. Each step applies only when it
// actually changes the query.
var pipeline = []techniqueStep{
	{TechniqueWhitespace, 0.05, 0.02, (*Optimizer).normalizeWhitespace},
	{TechniqueTypos, 0.25, 0.30, (*Optimizer).correctTypos},
	{TechniqueAbbreviations, 0.15, 0.20, (*Optimizer).expandAbbreviations},
	{TechniqueCompoundSplit, 0.10, 0.15, (*Optimizer).splitCompounds},
	{TechniqueSpecialChars, 0.05, 0.05, (*Optimizer).stripSpecialChars},
	{TechniqueSynonyms, 0.10, 0.10, (*Optimizer).injectSynonyms},
	{TechniqueProperNouns, 0.05, 0.05, (*Optimizer).capitalizeProperNouns},
}

// Optimize rewrites query through the full technique pipeline and
// reports what changed. When no technique fires, the query is returned
// unchanged with zero confidence and improvement.
func (o *Optimizer) Optimize(query string) Optimization {
	result := query
	var applied []Technique
	var confidence, improvement float64

	for _, step := range pipeline {
		next, changed := step.apply(o, result)
		if !changed {
			continue
		}
		result = next
		applied = append(applied, step.technique)
		confidence += step.confidence
		improvement += step.improvement
	}

	if len(applied) > 0 {
		confidence += baseConfidence
	}

	return Optimization{
		Query:                result,
		Techniques:           applied,
		Confidence:           clamp(confidence, 0, maxConfidence),
		EstimatedImprovement: clamp(improvement, 0, maxImprovement),
	}
}

func (o *Optimizer) normalizeWhitespace(query string) (string, bool) {
	out := strings.Join(strings.Fields(query), " ")
	if out == query {
		return query, false
	}
	return out, true
}

func (o *Optimizer) correctTypos(query string) (string, bool) {
	words := strings.Fields(query)
	changed := false
	for i, w := range words {
		if fix, ok := o.typos[strings.ToLower(w)]; ok && fix != w {
			words[i] = fix
			changed = true
		}
	}
	if !changed {
		return query, false
	}
	return strings.Join(words, " "), true
}

func (o *Optimizer) expandAbbreviations(query string) (string, bool) {
	words := strings.Fields(query)
	changed := false
	for i, w := range words {
		expansions := o.abbreviations[strings.ToLower(w)]
		if len(expansions) == 0 {
			continue
		}
		longest := expansions[0]
		for _, e := range expansions[1:] {
			if len(e) > len(longest) {
				longest = e
			}
		}
		if longest != w {
			words[i] = longest
			changed = true
		}
	}
	if !changed {
		return query, false
	}
	return strings.Join(words, " "), true
}

func (o *Optimizer) splitCompounds(query string) (string, bool) {
	runes := []rune(query)
	var b strings.Builder
	b.Grow(len(query) + 8)
	changed := false
	for i, r := range runes {
		if i > 0 {
			prev := runes[i-1]
			boundary := (unicode.IsLower(prev) && unicode.IsUpper(r)) ||
				(unicode.IsLetter(prev) && unicode.IsDigit(r)) ||
				(unicode.IsDigit(prev) && unicode.IsLetter(r))
			if boundary {
				b.WriteRune(' ')
				changed = true
			}
		}
		b.WriteRune(r)
	}
	if !changed {
		return query, false
	}
	return b.String(), true
}

func (o *Optimizer) stripSpecialChars(query string) (string, bool) {
	var b strings.Builder
	b.Grow(len(query))
	for _, r := range query {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	out := strings.Join(strings.Fields(b.String()), " ")
	if out == query {
		return query, false
	}
	return out, true
}

// injectSynonyms broadens very short queries by appending one synonym
// per token. Longer queries carry enough signal already, so anything
// over two tokens is left alone.
func (o *Optimizer) injectSynonyms(query string) (string, bool) {
	words := strings.Fields(query)
	if len(words) == 0 || len(words) > 2 {
		return query, false
	}

	present := make(map[string]bool, len(words))
	for _, w := range words {
		present[strings.ToLower(w)] = true
	}

	var additions []string
	for _, w := range words {
		for _, syn := range o.synonyms[strings.ToLower(w)] {
			if present[strings.ToLower(syn)] {
				continue
			}
			present[strings.ToLower(syn)] = true
			additions = append(additions, syn)
			break
		}
	}

	if len(additions) == 0 {
		return query, false
	}
	return strings.Join(append(words, additions...), " "), true
}

func (o *Optimizer) capitalizeProperNouns(query string) (string, bool) {
	words := strings.Fields(query)
	changed := false
	for i, w := range words {
		if canonical, ok := o.properNouns[strings.ToLower(w)]; ok && canonical != w {
			words[i] = canonical
			changed = true
		}
	}
	if !changed {
		return query, false
	}
	return strings.Join(words, " "), true
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

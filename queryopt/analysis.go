package queryopt

import (
	"strings"
	"unicode"
)

// LengthClass buckets a query by its character count.
type LengthClass string

// Length classes, shortest first.
const (
	LengthShort    LengthClass = "short"     // at most 10 characters
	LengthMedium   LengthClass = "medium"    // 11 to 30
	LengthLong     LengthClass = "long"      // 31 to 100
	LengthVeryLong LengthClass = "very_long" // over 100
)

// Complexity buckets a query by its token count.
type Complexity string

// Complexity classes.
const (
	ComplexitySimple   Complexity = "simple"   // single token
	ComplexityModerate Complexity = "moderate" // two or three tokens
	ComplexityComplex  Complexity = "complex"  // four or more
)

// Analysis is the structural classification of a raw query.
type Analysis struct {
	LengthClass      LengthClass
	Complexity       Complexity
	HasSpecialChars  bool
	HasTypos         bool
	HasAbbreviations bool
	IsCompound       bool
}

// Analyze classifies query without rewriting it. Typo and abbreviation
// detection consult the optimizer's tables on whitespace-split tokens.
func (o *Optimizer) Analyze(query string) Analysis {
	tokens := strings.Fields(query)

	a := Analysis{
		LengthClass: classifyLength(query),
		Complexity:  classifyComplexity(len(tokens)),
	}

	for _, r := range query {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) {
			a.HasSpecialChars = true
			break
		}
	}

	for _, tok := range tokens {
		lower := strings.ToLower(tok)
		if _, ok := o.typos[lower]; ok {
			a.HasTypos = true
		}
		if _, ok := o.abbreviations[lower]; ok {
			a.HasAbbreviations = true
		}
	}

	a.IsCompound = isCompound(query, tokens)

	return a
}

// Quality deltas per classification. A query starts at 0.5 and moves by
// these amounts; medium-length, moderately complex queries with no
// typos or special characters score best.
var (
	lengthDeltas = map[LengthClass]float64{
		LengthShort:    -0.1,
		LengthMedium:   0.1,
		LengthLong:     0.05,
		LengthVeryLong: -0.2,
	}

	complexityDeltas = map[Complexity]float64{
		ComplexitySimple:   0.1,
		ComplexityModerate: 0.05,
		ComplexityComplex:  -0.1,
	}
)

const (
	typoPenalty        = 0.3
	specialCharPenalty = 0.1
)

// QualityScore estimates in [0, 1] how well query is likely to search
// as written. Callers treat anything below 0.5 as worth optimizing
// before the first pass.
func (o *Optimizer) QualityScore(query string) float64 {
	a := o.Analyze(query)

	score := 0.5
	score += lengthDeltas[a.LengthClass]
	score += complexityDeltas[a.Complexity]
	if a.HasTypos {
		score -= typoPenalty
	}
	if a.HasSpecialChars {
		score -= specialCharPenalty
	}

	return clamp(score, 0, 1)
}

func classifyLength(query string) LengthClass {
	switch n := len([]rune(query)); {
	case n <= 10:
		return LengthShort
	case n <= 30:
		return LengthMedium
	case n <= 100:
		return LengthLong
	default:
		return LengthVeryLong
	}
}

func classifyComplexity(tokens int) Complexity {
	switch {
	case tokens <= 1:
		return ComplexitySimple
	case tokens <= 3:
		return ComplexityModerate
	default:
		return ComplexityComplex
	}
}

// isCompound reports whether the query looks like a joined-up word: an
// internal lower-to-upper transition anywhere, or a single token longer
// than eight characters.
func isCompound(query string, tokens []string) bool {
	runes := []rune(query)
	for i := 1; i < len(runes); i++ {
		if unicode.IsLower(runes[i-1]) && unicode.IsUpper(runes[i]) {
			return true
		}
	}
	return len(tokens) == 1 && len([]rune(tokens[0])) > 8
}

package queryopt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimize_TypoCorrection(t *testing.T) {
	o, err := New()
	require.NoError(t, err)

	opt := o.Optimize("fuzy search")

	assert.Equal(t, "fuzzy search find", opt.Query,
		"typo fixed, then a synonym appended for the two-token query")
	assert.Equal(t, []Technique{TechniqueTypos, TechniqueSynonyms}, opt.Techniques)
	assert.InDelta(t, 0.85, opt.Confidence, 1e-9)
	assert.InDelta(t, 0.40, opt.EstimatedImprovement, 1e-9)
}

func TestOptimize_WhitespaceTypoAbbreviation(t *testing.T) {
	o, err := New()
	require.NoError(t, err)

	opt := o.Optimize("  teh   DB  ")

	assert.Equal(t, "the database", opt.Query)
	assert.Equal(t, []Technique{TechniqueWhitespace, TechniqueTypos, TechniqueAbbreviations}, opt.Techniques)
	assert.InDelta(t, 0.95, opt.Confidence, 1e-9, "confidence clamps at 0.95")
}

func TestOptimize_CompoundSplitting(t *testing.T) {
	o, err := New()
	require.NoError(t, err)

	tests := []struct {
		query string
		want  string
	}{
		{query: "fuzzySearch", want: "fuzzy Search"},
		{query: "log4j", want: "log 4 j"},
		{query: "camelCaseQuery", want: "camel Case Query"},
	}

	for _, tc := range tests {
		opt := o.Optimize(tc.query)
		assert.Equal(t, tc.want, opt.Query, "query %q", tc.query)
		assert.Contains(t, opt.Techniques, TechniqueCompoundSplit)
	}
}

func TestOptimize_SpecialCharRemoval(t *testing.T) {
	o, err := New()
	require.NoError(t, err)

	opt := o.Optimize("what?!")

	assert.Equal(t, "what", opt.Query)
	assert.Equal(t, []Technique{TechniqueSpecialChars}, opt.Techniques)
}

func TestOptimize_ProperNounCapitalization(t *testing.T) {
	o, err := New()
	require.NoError(t, err)

	opt := o.Optimize("github actions")

	assert.Equal(t, "GitHub actions", opt.Query)
	assert.Equal(t, []Technique{TechniqueProperNouns}, opt.Techniques)
}

func TestOptimize_SynonymsSkipLongQueries(t *testing.T) {
	o, err := New()
	require.NoError(t, err)

	opt := o.Optimize("search the whole index")

	assert.NotContains(t, opt.Techniques, TechniqueSynonyms,
		"three or more tokens carry enough signal already")
}

func TestOptimize_CleanQueryUntouched(t *testing.T) {
	o, err := New()
	require.NoError(t, err)

	opt := o.Optimize("goroutine leak detection tools")

	assert.Equal(t, "goroutine leak detection tools", opt.Query)
	assert.Empty(t, opt.Techniques)
	assert.Zero(t, opt.Confidence)
	assert.Zero(t, opt.EstimatedImprovement)
}

func TestOptimize_BoundsHold(t *testing.T) {
	o, err := New()
	require.NoError(t, err)

	queries := []string{
		"  teh   DB  ",
		"fuzy serch",
		"what?! where?!",
		"githubActions k8s cfg",
		"",
	}

	for _, q := range queries {
		opt := o.Optimize(q)
		assert.GreaterOrEqual(t, opt.Confidence, 0.0, "query %q", q)
		assert.LessOrEqual(t, opt.Confidence, 0.95, "query %q", q)
		assert.GreaterOrEqual(t, opt.EstimatedImprovement, 0.0, "query %q", q)
		assert.LessOrEqual(t, opt.EstimatedImprovement, 0.8, "query %q", q)
	}
}

func TestNew_ReplacementTables(t *testing.T) {
	o, err := New(WithTypoCorrections(map[string]string{"gopher": "golang"}))
	require.NoError(t, err)

	assert.Equal(t, "golang", o.Optimize("gopher").Query)

	opt := o.Optimize("fuzy")
	assert.NotContains(t, opt.Techniques, TechniqueTypos,
		"replacing the table drops the default entries")
}

func TestNew_NilTableRejected(t *testing.T) {
	for _, opt := range []Option{
		WithTypoCorrections(nil),
		WithAbbreviations(nil),
		WithSynonyms(nil),
		WithProperNouns(nil),
	} {
		_, err := New(opt)
		assert.ErrorIs(t, err, ErrNilTable)
	}
}

func TestAbbreviationExpansion_PicksLongest(t *testing.T) {
	o, err := New()
	require.NoError(t, err)

	got, changed := o.expandAbbreviations("auth failed")

	assert.True(t, changed)
	assert.Equal(t, "authentication failed", got, "the longest expansion wins")
}

func TestCorrectTypos_NoChangeKeepsInput(t *testing.T) {
	o, err := New()
	require.NoError(t, err)

	got, changed := o.correctTypos("  spaced   out  ")

	assert.False(t, changed)
	assert.Equal(t, "  spaced   out  ", got,
		"typo correction alone must not touch whitespace")
}

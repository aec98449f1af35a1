package queryopt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariations_OriginalAlwaysFirst(t *testing.T) {
	o, err := New()
	require.NoError(t, err)

	for _, query := range []string{"fuzy search", "db", "clean query", "what?!"} {
		got := o.Variations(query, 10)

		require.NotEmpty(t, got, "query %q", query)
		assert.Equal(t, query, got[0].Text, "the original query leads the list")
		assert.Equal(t, TechniqueOriginal, got[0].Technique)
		assert.InDelta(t, 1.0, got[0].Confidence, 1e-9)
	}
}

func TestVariations_RespectsLimit(t *testing.T) {
	o, err := New()
	require.NoError(t, err)

	for max := 1; max <= 6; max++ {
		got := o.Variations("fuzy serch db", max)
		assert.LessOrEqual(t, len(got), max, "maxVariations %d", max)
	}

	assert.Nil(t, o.Variations("fuzy serch db", 0))
}

func TestVariations_Deduplicated(t *testing.T) {
	o, err := New()
	require.NoError(t, err)

	got := o.Variations("fuzy search", 10)

	seen := make(map[string]bool)
	for _, v := range got {
		assert.False(t, seen[v.Text], "duplicate variation %q", v.Text)
		seen[v.Text] = true
	}

	texts := make([]string, len(got))
	for i, v := range got {
		texts[i] = v.Text
	}
	assert.Contains(t, texts, "fuzzy search", "the typo-corrected form must be offered")
}

func TestVariations_CaseVariants(t *testing.T) {
	o, err := New()
	require.NoError(t, err)

	got := o.Variations("Fuzzy Matching", 10)

	byTechnique := make(map[Technique]string)
	for _, v := range got {
		byTechnique[v.Technique] = v.Text
	}

	assert.Equal(t, "fuzzy matching", byTechnique[TechniqueLowercase])
	assert.Equal(t, "FUZZY MATCHING", byTechnique[TechniqueUppercase])
}

func TestVariations_LongQuerySplits(t *testing.T) {
	o, err := New()
	require.NoError(t, err)

	query := "finding the proper way to configure database connection pooling"
	got := o.Variations(query, 20)

	byTechnique := make(map[Technique]string)
	for _, v := range got {
		byTechnique[v.Technique] = v.Text
	}

	assert.Equal(t, "finding the proper way", byTechnique[TechniqueFirstHalf])
	assert.Equal(t, "to configure database connection pooling", byTechnique[TechniqueSecondHalf])
	assert.Equal(t, "finding proper configure database connection pooling",
		byTechnique[TechniqueKeywordsOnly], "tokens of three characters or fewer are dropped")
}

func TestVariations_ShortQueryHasNoSplits(t *testing.T) {
	o, err := New()
	require.NoError(t, err)

	got := o.Variations("fuzzy search", 20)

	for _, v := range got {
		assert.NotEqual(t, TechniqueFirstHalf, v.Technique)
		assert.NotEqual(t, TechniqueSecondHalf, v.Technique)
		assert.NotEqual(t, TechniqueKeywordsOnly, v.Technique)
	}
}

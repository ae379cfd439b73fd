package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	t.Run("positive keywords raise the score", func(t *testing.T) {
		assert.InDelta(t, 0.5, Score("un cours excellent"), 0.001)
		assert.InDelta(t, 1.0, Score("excellent et très clair"), 0.001)
	})

	t.Run("negative keywords lower the score", func(t *testing.T) {
		assert.InDelta(t, -0.5, Score("vraiment ennuyeux"), 0.001)
		assert.InDelta(t, -1.0, Score("ennuyeux et confus"), 0.001)
	})

	t.Run("mixed keywords cancel out", func(t *testing.T) {
		assert.InDelta(t, 0, Score("excellent mais confus"), 0.001)
	})

	t.Run("no keywords scores zero", func(t *testing.T) {
		assert.Zero(t, Score("le cours a eu lieu mardi"))
		assert.Zero(t, Score(""))
	})

	t.Run("score is clamped", func(t *testing.T) {
		assert.Equal(t, 1.0, Score("bon excellent bien super clair"))
		assert.Equal(t, -1.0, Score("mauvais nul ennuyeux confus mal"))
	})

	t.Run("case insensitive", func(t *testing.T) {
		assert.InDelta(t, 0.5, Score("EXCELLENT"), 0.001)
	})
}

func TestExtractThemes(t *testing.T) {
	texts := []string{
		"Le rythme du cours était trop rapide",
		"Le professeur explique très bien",
		"Le rythme est vraiment trop rapide pour moi",
	}

	themes := ExtractThemes(texts)
	assert.NotEmpty(t, themes)

	var foundRythme bool
	for _, theme := range themes {
		if theme.Label == "rythme" {
			foundRythme = true
			assert.GreaterOrEqual(t, theme.Frequency, 2)
		}
	}
	assert.True(t, foundRythme)
}

func TestExtractThemes_NoMatches(t *testing.T) {
	themes := ExtractThemes([]string{"rien de particulier"})
	assert.Empty(t, themes)
}

package sentiment

import (
	"strings"
)

// Keyword lists for the naive scorer. Placeholder for a real NLP backend;
// quality is out of scope, only the [-1,1] contract matters.
var (
	positiveWords = []string{
		"bon", "excellent", "bien", "super", "intéressant",
		"utile", "clair", "facile",
	}
	negativeWords = []string{
		"mauvais", "nul", "ennuyeux", "rapide", "incompréhensible",
		"difficile", "confus", "mal",
	}
)

// Score rates a free-text answer on [-1, 1]: each positive keyword adds 0.5,
// each negative one subtracts 0.5, clamped at the bounds.
func Score(text string) float64 {
	var score float64

	for _, word := range strings.Fields(strings.ToLower(text)) {
		if contains(positiveWords, word) {
			score += 0.5
		}
		if contains(negativeWords, word) {
			score -= 0.5
		}
	}

	return clamp(score, -1, 1)
}

func contains(words []string, w string) bool {
	for _, word := range words {
		if word == w {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package sentiment

import (
	"strings"
)

type Theme struct {
	Label     string   `json:"label"`
	Frequency int      `json:"frequency"`
	Polarity  string   `json:"polarity"` // "positif", "negatif", "neutre"
	Keywords  []string `json:"keywords"`
}

var themeKeywords = map[string][]string{
	"qualité":       {"qualité", "niveau", "enseignement"},
	"difficulté":    {"difficile", "facile", "complexe", "simple"},
	"intérêt":       {"intéressant", "ennuyeux", "passionnant"},
	"compréhension": {"comprendre", "clair", "confus", "explication"},
	"rythme":        {"rapide", "lent", "temps", "vitesse"},
}

// ExtractThemes classifies a set of free-text responses into coarse themes
// with an aggregate polarity per theme.
func ExtractThemes(responses []string) []Theme {
	type bucket struct {
		count     int
		sentiment float64
	}
	buckets := make(map[string]*bucket)

	for _, response := range responses {
		text := strings.ToLower(response)
		for theme, keywords := range themeKeywords {
			for _, keyword := range keywords {
				if strings.Contains(text, keyword) {
					b, ok := buckets[theme]
					if !ok {
						b = &bucket{}
						buckets[theme] = b
					}
					b.count++
					b.sentiment += Score(response)
					break
				}
			}
		}
	}

	themes := make([]Theme, 0, len(buckets))
	for label, b := range buckets {
		polarity := "neutre"
		if b.sentiment > 0 {
			polarity = "positif"
		} else if b.sentiment < 0 {
			polarity = "negatif"
		}
		themes = append(themes, Theme{
			Label:     label,
			Frequency: b.count,
			Polarity:  polarity,
			Keywords:  themeKeywords[label],
		})
	}

	return themes
}

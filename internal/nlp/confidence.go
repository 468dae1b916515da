package nlp

import (
	"math"
	"unicode/utf8"
)

const (
	MaxConfidence      = 0.95
	FallbackConfidence = 0.3
	earlyMatchBonus    = 0.1
	earlyMatchFraction = 0.3
)

// Confidence scores a match spanning text[start:end] (byte offsets). Longer
// matches score higher and matches in the first 30% of the text get a bonus.
// Lengths are counted in runes.
func Confidence(text string, start, end int) float64 {
	if text == "" || start < 0 || end < start || end > len(text) {
		return FallbackConfidence
	}
	textLen := float64(utf8.RuneCountInString(text))
	matchLen := float64(utf8.RuneCountInString(text[start:end]))
	offset := float64(utf8.RuneCountInString(text[:start]))

	score := math.Min(MaxConfidence, 2*matchLen/textLen)
	if offset < textLen*earlyMatchFraction {
		score += earlyMatchBonus
	}
	return math.Min(score, MaxConfidence)
}

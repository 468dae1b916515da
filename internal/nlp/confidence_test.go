package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfidence(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		start, end int
		want       float64
	}{
		{"whole text capped", "estou triste", 0, 12, 0.95},
		{"short early match gets bonus", "abcdefghijklmnopqrst", 0, 2, 0.3},
		{"short late match", "abcdefghijklmnopqrst", 18, 20, 0.2},
		{"runes not bytes", "ééééééééééééééééééé", 0, 4, 0.3105263157894737},
		{"empty text", "", 0, 0, FallbackConfidence},
		{"negative start", "abc", -1, 2, FallbackConfidence},
		{"end past text", "abc", 0, 9, FallbackConfidence},
		{"inverted span", "abc", 2, 1, FallbackConfidence},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Confidence(tt.text, tt.start, tt.end), 1e-9)
		})
	}
}

func TestConfidence_Range(t *testing.T) {
	text := "eu gostaria de livros de terror hoje"
	for start := 0; start <= len(text); start++ {
		for end := start; end <= len(text); end++ {
			c := Confidence(text, start, end)
			assert.GreaterOrEqual(t, c, 0.0)
			assert.LessOrEqual(t, c, MaxConfidence)
		}
	}
}

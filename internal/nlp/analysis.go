package nlp

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	suggestionSimilarity = 0.6
	maxSuggestions       = 3
	simpleInputWords     = 5
)

var yearPattern = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

// Criteria are the filters found in a message regardless of its intent.
type Criteria struct {
	Genre      string `json:"genre,omitempty"`
	Author     string `json:"author,omitempty"`
	Year       int    `json:"year,omitempty"`
	Bestseller *bool  `json:"bestseller,omitempty"`
}

func (c Criteria) Empty() bool {
	return c.Genre == "" && c.Author == "" && c.Year == 0 && c.Bestseller == nil
}

type InputAnalysis struct {
	Length         int    `json:"length"`
	WordCount      int    `json:"word_count"`
	HasQuestion    bool   `json:"has_question_mark"`
	HasExclamation bool   `json:"has_exclamation"`
	Language       string `json:"language_detected"`
	Complexity     string `json:"complexity"`
}

type SentimentScores struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
}

// ComplexResult bundles every analysis run on a message.
type ComplexResult struct {
	Primary      Intent          `json:"primary_intent"`
	Criteria     Criteria        `json:"multiple_criteria"`
	Input        InputAnalysis   `json:"input_analysis"`
	Sentiment    SentimentScores `json:"sentiment"`
	Titles       []string        `json:"mentioned_titles,omitempty"`
	ContextGenre string          `json:"context_genre,omitempty"`
	Suggestions  []string        `json:"suggestions"`
}

// DetectCriteria looks for a canonical genre, a known author, a 19xx/20xx
// year and bestseller keywords anywhere in text.
func (p *Pipeline) DetectCriteria(text string) Criteria {
	lower := strings.ToLower(text)
	var c Criteria
	for _, g := range p.lex.Genres {
		if strings.Contains(lower, g.Name) {
			c.Genre = g.Name
			break
		}
	}
	for _, a := range p.lex.Authors {
		if strings.Contains(lower, a.Name) {
			c.Author = a.Name
			break
		}
	}
	if y := yearPattern.FindString(text); y != "" {
		c.Year, _ = strconv.Atoi(y)
	}
	switch {
	case containsAny(lower, p.lex.Criteria.Bestseller):
		c.Bestseller = boolPtr(true)
	case containsAny(lower, p.lex.Criteria.NonBestseller):
		c.Bestseller = boolPtr(false)
	}
	return c
}

// Suggest returns up to three "did you mean" hints for genres and authors
// that look like the whole message.
func (p *Pipeline) Suggest(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	consider := func(name string) {
		if len(out) < maxSuggestions && Similarity(lower, name) > suggestionSimilarity {
			out = append(out, fmt.Sprintf("Você quis dizer '%s'?", name))
		}
	}
	for _, g := range p.lex.Genres {
		consider(g.Name)
	}
	for _, a := range p.lex.Authors {
		consider(a.Name)
	}
	return out
}

func (p *Pipeline) AnalyzeInput(text string) InputAnalysis {
	words := len(strings.Fields(text))
	complexity := "complex"
	if words <= simpleInputWords {
		complexity = "simple"
	}
	return InputAnalysis{
		Length:         utf8.RuneCountInString(text),
		WordCount:      words,
		HasQuestion:    strings.Contains(text, "?"),
		HasExclamation: strings.Contains(text, "!"),
		Language:       "portuguese",
		Complexity:     complexity,
	}
}

// Sentiment counts keyword hits per polarity and returns their proportions.
func (p *Pipeline) Sentiment(text string) SentimentScores {
	lower := strings.ToLower(text)
	pos := countContained(lower, p.lex.Sentiment.Positive)
	neg := countContained(lower, p.lex.Sentiment.Negative)
	neu := countContained(lower, p.lex.Sentiment.Neutral)
	total := float64(pos + neg + neu)
	if total == 0 {
		return SentimentScores{Positive: 0.33, Negative: 0.33, Neutral: 0.34}
	}
	return SentimentScores{
		Positive: float64(pos) / total,
		Negative: float64(neg) / total,
		Neutral:  float64(neu) / total,
	}
}

// ValidateGenre maps a free-form genre onto the catalog's spelling: exact
// case-insensitive match first, then containment either way. Unknown genres
// come back unchanged.
func (p *Pipeline) ValidateGenre(genre string) string {
	lower := strings.ToLower(strings.TrimSpace(genre))
	if lower == "" {
		return genre
	}
	for _, g := range p.lex.Genres {
		if lower == strings.ToLower(g.Display) {
			return g.Display
		}
	}
	for _, g := range p.lex.Genres {
		d := strings.ToLower(g.Display)
		if strings.Contains(d, lower) || strings.Contains(lower, d) {
			return g.Display
		}
	}
	return genre
}

// DetectTitles lists the well-known titles mentioned as whole words.
func (p *Pipeline) DetectTitles(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, t := range p.lex.Titles {
		if containsWord(lower, t) {
			out = append(out, t)
		}
	}
	return out
}

// ContextGenre guesses a catalog genre from loose context words such as
// "leve" or "denso".
func (p *Pipeline) ContextGenre(text string) string {
	lower := strings.ToLower(text)
	for _, c := range p.lex.Context {
		if strings.Contains(lower, c.Keyword) {
			return c.Genre
		}
	}
	return ""
}

// ProcessComplex runs the classifier plus every auxiliary analysis.
// Suggestions are only computed for unknown messages.
func (p *Pipeline) ProcessComplex(text string) ComplexResult {
	res := ComplexResult{
		Primary:      p.Process(text),
		Criteria:     p.DetectCriteria(text),
		Input:        p.AnalyzeInput(text),
		Sentiment:    p.Sentiment(text),
		Titles:       p.DetectTitles(text),
		ContextGenre: p.ContextGenre(text),
		Suggestions:  []string{},
	}
	if res.Primary.Unknown() {
		if s := p.Suggest(text); len(s) > 0 {
			res.Suggestions = s
		}
	}
	return res
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if w != "" && strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func countContained(s string, words []string) int {
	n := 0
	for _, w := range words {
		if w != "" && strings.Contains(s, w) {
			n++
		}
	}
	return n
}

func containsWord(s, word string) bool {
	if word == "" {
		return false
	}
	for from := 0; from < len(s); {
		i := strings.Index(s[from:], word)
		if i < 0 {
			return false
		}
		start := from + i
		if atWordBoundary(s, start, start+len(word)) {
			return true
		}
		from = start + 1
	}
	return false
}

func boolPtr(b bool) *bool { return &b }

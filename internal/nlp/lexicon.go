// Package nlp classifies Portuguese book-request messages into intents.
//
// A message goes through three stages: genre synonyms are rewritten to their
// canonical genre name, the rewritten text is matched against ordered
// per-intent patterns, and entities are extracted from the winning match.
// All rule data lives in a Lexicon, which is loaded from YAML.
package nlp

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultLexicon []byte

// Intent names, in the order they are evaluated by the default lexicon.
const (
	IntentGenre          = "recommend_by_genre"
	IntentAuthor         = "recommend_by_author"
	IntentSimilar        = "recommend_similar"
	IntentYear           = "books_by_year"
	IntentNonBestsellers = "non_bestsellers"
	IntentBestsellers    = "bestsellers"
	IntentMood           = "recommend_by_mood"
	IntentOccasion       = "recommend_by_occasion"
	IntentUnknown        = "unknown"
)

// DefaultTargetGenre is used when a mood or occasion has no genre mapping.
const DefaultTargetGenre = "Romance"

var knownIntents = map[string]bool{
	IntentGenre:          true,
	IntentAuthor:         true,
	IntentSimilar:        true,
	IntentYear:           true,
	IntentNonBestsellers: true,
	IntentBestsellers:    true,
	IntentMood:           true,
	IntentOccasion:       true,
}

type IntentRules struct {
	Name string `yaml:"name"`
	// RejectStopwords skips matches whose first capture is a stopword and
	// keeps scanning.
	RejectStopwords bool     `yaml:"reject_stopwords"`
	Patterns        []string `yaml:"patterns"`
}

type Genre struct {
	Name     string   `yaml:"name"`
	Display  string   `yaml:"display"`
	Synonyms []string `yaml:"synonyms"`
}

type Author struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

type SentimentWords struct {
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
	Neutral  []string `yaml:"neutral"`
}

type ContextGenre struct {
	Keyword string `yaml:"keyword"`
	Genre   string `yaml:"genre"`
}

type CriteriaWords struct {
	Bestseller    []string `yaml:"bestseller"`
	NonBestseller []string `yaml:"non_bestseller"`
}

// Lexicon holds every table the classifier consults.
type Lexicon struct {
	Intents   []IntentRules     `yaml:"intents"`
	Genres    []Genre           `yaml:"genres"`
	Moods     map[string]string `yaml:"moods"`
	Occasions map[string]string `yaml:"occasions"`
	Authors   []Author          `yaml:"authors"`
	Stopwords []string          `yaml:"stopwords"`
	Sentiment SentimentWords    `yaml:"sentiment"`
	Criteria  CriteriaWords     `yaml:"criteria"`
	Titles    []string          `yaml:"titles"`
	Context   []ContextGenre    `yaml:"context_genres"`
}

// DefaultLexicon returns the built-in Portuguese lexicon.
func DefaultLexicon() (*Lexicon, error) {
	return ParseLexicon(defaultLexicon)
}

// LoadLexicon reads a lexicon from a YAML file. An empty path yields the
// built-in lexicon.
func LoadLexicon(path string) (*Lexicon, error) {
	if path == "" {
		return DefaultLexicon()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	return ParseLexicon(data)
}

func ParseLexicon(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}
	lex.normalize()
	if err := lex.Validate(); err != nil {
		return nil, err
	}
	return &lex, nil
}

// normalize lowercases lookup keys so matching can run on lowercased text.
func (l *Lexicon) normalize() {
	for i := range l.Genres {
		l.Genres[i].Name = strings.ToLower(strings.TrimSpace(l.Genres[i].Name))
		for j, s := range l.Genres[i].Synonyms {
			l.Genres[i].Synonyms[j] = strings.ToLower(strings.TrimSpace(s))
		}
	}
	for i := range l.Authors {
		l.Authors[i].Name = strings.ToLower(strings.TrimSpace(l.Authors[i].Name))
		for j, a := range l.Authors[i].Aliases {
			l.Authors[i].Aliases[j] = strings.ToLower(strings.TrimSpace(a))
		}
	}
	l.Moods = lowerKeys(l.Moods)
	l.Occasions = lowerKeys(l.Occasions)
	for i, w := range l.Stopwords {
		l.Stopwords[i] = strings.ToLower(strings.TrimSpace(w))
	}
	for i, t := range l.Titles {
		l.Titles[i] = strings.ToLower(strings.TrimSpace(t))
	}
	for i := range l.Context {
		l.Context[i].Keyword = strings.ToLower(strings.TrimSpace(l.Context[i].Keyword))
	}
}

func lowerKeys(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return out
}

// Validate checks the lexicon for structural problems. Pattern syntax is
// checked when the matcher compiles them.
func (l *Lexicon) Validate() error {
	if len(l.Intents) == 0 {
		return fmt.Errorf("lexicon: no intents defined")
	}
	seen := make(map[string]bool, len(l.Intents))
	for _, in := range l.Intents {
		if !knownIntents[in.Name] {
			return fmt.Errorf("lexicon: unknown intent %q", in.Name)
		}
		if seen[in.Name] {
			return fmt.Errorf("lexicon: intent %q defined twice", in.Name)
		}
		seen[in.Name] = true
		if len(in.Patterns) == 0 {
			return fmt.Errorf("lexicon: intent %q has no patterns", in.Name)
		}
	}
	for _, g := range l.Genres {
		if g.Name == "" {
			return fmt.Errorf("lexicon: genre with empty name")
		}
		if g.Display == "" {
			return fmt.Errorf("lexicon: genre %q has no display name", g.Name)
		}
		for _, syn := range g.Synonyms {
			if syn == "" {
				return fmt.Errorf("lexicon: genre %q has an empty synonym", g.Name)
			}
		}
	}
	for _, a := range l.Authors {
		if a.Name == "" {
			return fmt.Errorf("lexicon: author with empty name")
		}
		for _, alias := range a.Aliases {
			if alias == "" {
				return fmt.Errorf("lexicon: author %q has an empty alias", a.Name)
			}
		}
	}
	return nil
}

// GenreDisplay maps a canonical genre name to its catalog spelling.
func (l *Lexicon) GenreDisplay(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, g := range l.Genres {
		if g.Name == name {
			return g.Display, true
		}
	}
	return "", false
}

// MoodGenre returns the catalog genre recommended for a mood word.
func (l *Lexicon) MoodGenre(mood string) string {
	if g, ok := l.Moods[strings.ToLower(mood)]; ok {
		return g
	}
	return DefaultTargetGenre
}

// OccasionGenre returns the catalog genre recommended for an occasion.
func (l *Lexicon) OccasionGenre(occasion string) string {
	if g, ok := l.Occasions[strings.ToLower(occasion)]; ok {
		return g
	}
	return DefaultTargetGenre
}

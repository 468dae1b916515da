package nlp

import (
	"strconv"
	"strings"
)

// Entity keys.
const (
	EntityTarget   = "target"
	EntityAuthor   = "author"
	EntityYear     = "year"
	EntityMood     = "mood"
	EntityOccasion = "occasion"
)

const centuryMarker = "século"

// Intent is a classification result. Entities is never nil.
type Intent struct {
	Name       string            `json:"intent"`
	Confidence float64           `json:"confidence"`
	Entities   map[string]string `json:"entities"`
}

func (i Intent) Entity(key string) string {
	return i.Entities[key]
}

// Year returns the year entity as an integer.
func (i Intent) Year() (int, bool) {
	v, ok := i.Entities[EntityYear]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (i Intent) Unknown() bool {
	return i.Name == IntentUnknown
}

func unknownIntent() Intent {
	return Intent{Name: IntentUnknown, Confidence: 0.0, Entities: map[string]string{}}
}

// Pipeline wires the expander, matcher and author normalizer over one
// lexicon. It is safe for concurrent use; only Settings is mutable.
type Pipeline struct {
	lex      *Lexicon
	expander *Expander
	matcher  *Matcher
	authors  *AuthorNormalizer
	settings *Settings
}

// NewPipeline compiles lex. A nil settings gets DefaultSettings.
func NewPipeline(lex *Lexicon, settings *Settings) (*Pipeline, error) {
	matcher, err := NewMatcher(lex.Intents, lex.Stopwords)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = DefaultSettings()
	}
	return &Pipeline{
		lex:      lex,
		expander: NewExpander(lex.Genres),
		matcher:  matcher,
		authors:  NewAuthorNormalizer(lex.Authors),
		settings: settings,
	}, nil
}

// NewDefaultPipeline builds a pipeline over the embedded lexicon.
func NewDefaultPipeline() (*Pipeline, error) {
	lex, err := DefaultLexicon()
	if err != nil {
		return nil, err
	}
	return NewPipeline(lex, nil)
}

func (p *Pipeline) Lexicon() *Lexicon { return p.lex }

func (p *Pipeline) Settings() *Settings { return p.settings }

func (p *Pipeline) Authors() *AuthorNormalizer { return p.authors }

// Expand runs only the synonym expansion stage.
func (p *Pipeline) Expand(text string) string { return p.expander.Expand(text) }

// Process classifies text.
func (p *Pipeline) Process(text string) Intent {
	expanded := p.expander.Expand(strings.TrimSpace(text))
	m, ok := p.matcher.Match(expanded)
	if !ok {
		return unknownIntent()
	}
	return Intent{
		Name:       m.Intent,
		Confidence: Confidence(expanded, m.Start, m.End),
		Entities:   p.extract(expanded, m),
	}
}

func (p *Pipeline) extract(text string, m Match) map[string]string {
	entities := map[string]string{}
	if !m.hasGroups() && m.Intent != IntentMood && m.Intent != IntentOccasion {
		return entities
	}
	capture := m.Capture()

	switch m.Intent {
	case IntentGenre, IntentSimilar:
		if target := trimCapture(capture); target != "" {
			entities[EntityTarget] = target
		}
	case IntentAuthor:
		fragment := trimCapture(capture)
		if name, ok := p.authors.Normalize(fragment); ok {
			entities[EntityAuthor] = name
		} else if fragment != "" {
			entities[EntityAuthor] = fragment
		}
	case IntentYear:
		n, err := strconv.Atoi(strings.TrimSpace(capture))
		if err != nil {
			break
		}
		if strings.Contains(text, centuryMarker) {
			n = (n-1)*100 + 50
		}
		entities[EntityYear] = strconv.Itoa(n)
	case IntentMood:
		mood := strings.TrimSpace(capture)
		entities[EntityMood] = mood
		entities[EntityTarget] = p.lex.MoodGenre(mood)
	case IntentOccasion:
		occasion := strings.TrimSpace(capture)
		entities[EntityOccasion] = occasion
		entities[EntityTarget] = p.lex.OccasionGenre(occasion)
	}
	return entities
}

package nlp

import (
	"fmt"
	"regexp"
)

type rule struct {
	intent          string
	source          string
	re              *regexp.Regexp
	rejectStopwords bool
}

// Matcher evaluates the intent patterns in lexicon order.
type Matcher struct {
	rules     []rule
	stopwords map[string]bool
}

// Match is the winning pattern hit. Offsets are byte offsets into the
// matched text; Groups[0] is the whole match and unmatched groups are empty.
type Match struct {
	Intent  string
	Pattern string
	Start   int
	End     int
	Groups  []string
}

// Capture returns the first non-empty capture group, or the whole match when
// the pattern captured nothing.
func (m Match) Capture() string {
	for _, g := range m.Groups[1:] {
		if g != "" {
			return g
		}
	}
	return m.Groups[0]
}

func (m Match) hasGroups() bool {
	return len(m.Groups) > 1
}

func NewMatcher(intents []IntentRules, stopwords []string) (*Matcher, error) {
	m := &Matcher{stopwords: make(map[string]bool, len(stopwords))}
	for _, w := range stopwords {
		m.stopwords[w] = true
	}
	for _, in := range intents {
		for _, p := range in.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, fmt.Errorf("compile %s pattern %q: %w", in.Name, p, err)
			}
			m.rules = append(m.rules, rule{
				intent:          in.Name,
				source:          p,
				re:              re,
				rejectStopwords: in.RejectStopwords,
			})
		}
	}
	return m, nil
}

// Match returns the first accepted hit. Intents are tried in order, and
// within an intent its patterns in order.
func (m *Matcher) Match(text string) (Match, bool) {
	for _, r := range m.rules {
		if !r.rejectStopwords {
			loc := r.re.FindStringSubmatchIndex(text)
			if loc != nil {
				return newMatch(r, text, loc), true
			}
			continue
		}
		for _, loc := range r.re.FindAllStringSubmatchIndex(text, -1) {
			hit := newMatch(r, text, loc)
			if hit.hasGroups() && m.stopwords[hit.Groups[1]] {
				continue
			}
			return hit, true
		}
	}
	return Match{}, false
}

func newMatch(r rule, text string, loc []int) Match {
	groups := make([]string, len(loc)/2)
	for i := range groups {
		if loc[2*i] >= 0 {
			groups[i] = text[loc[2*i]:loc[2*i+1]]
		}
	}
	return Match{
		Intent:  r.intent,
		Pattern: r.source,
		Start:   loc[0],
		End:     loc[1],
		Groups:  groups,
	}
}

// Rules returns the number of compiled patterns.
func (m *Matcher) Rules() int {
	return len(m.rules)
}

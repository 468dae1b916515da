package nlp

import (
	"sort"
	"strings"

	aho "github.com/petar-dambovaliev/aho-corasick"
)

// Expander rewrites genre synonyms to their canonical genre name. It scans
// the text once with an Aho-Corasick automaton holding every canonical name
// and synonym.
type Expander struct {
	automaton aho.AhoCorasick
	terms     []string
	canonical []string
}

type termSpan struct {
	start, end int
	term       int
}

// NewExpander builds the automaton for genres. Canonical names map to
// themselves; a synonym listed under several genres maps to the first one.
func NewExpander(genres []Genre) *Expander {
	e := &Expander{}
	seen := make(map[string]bool)
	add := func(term, genre string) {
		if term == "" || seen[term] {
			return
		}
		seen[term] = true
		e.terms = append(e.terms, term)
		e.canonical = append(e.canonical, genre)
	}
	for _, g := range genres {
		add(g.Name, g.Name)
	}
	for _, g := range genres {
		for _, s := range g.Synonyms {
			add(s, g.Name)
		}
	}
	if len(e.terms) > 0 {
		builder := aho.NewAhoCorasickBuilder(aho.Opts{
			DFA: true,
		})
		e.automaton = builder.Build(e.terms)
	}
	return e
}

// Expand lowercases text and replaces every whole-word synonym occurrence
// with its canonical genre. Overlapping candidates resolve leftmost first,
// longest on ties. Expanding an already expanded text is a no-op.
func (e *Expander) Expand(text string) string {
	lower := strings.ToLower(text)
	if len(e.terms) == 0 || lower == "" {
		return lower
	}

	var spans []termSpan
	iter := e.automaton.IterOverlappingByte([]byte(lower))
	for next := iter.Next(); next != nil; next = iter.Next() {
		m := *next
		if atWordBoundary(lower, m.Start(), m.End()) {
			spans = append(spans, termSpan{start: m.Start(), end: m.End(), term: m.Pattern()})
		}
	}
	if len(spans) == 0 {
		return lower
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end > spans[j].end
	})

	var b strings.Builder
	b.Grow(len(lower))
	pos := 0
	for _, s := range spans {
		if s.start < pos {
			continue
		}
		b.WriteString(lower[pos:s.start])
		b.WriteString(e.canonical[s.term])
		pos = s.end
	}
	b.WriteString(lower[pos:])
	return b.String()
}

// Terms returns the number of terms in the automaton.
func (e *Expander) Terms() int {
	return len(e.terms)
}

package nlp

import "strings"

// MinAuthorSimilarity is the ratio a fuzzy match must exceed.
const MinAuthorSimilarity = 0.7

// AuthorNormalizer maps free-form author fragments onto known author names.
type AuthorNormalizer struct {
	names   []string
	folded  []string
	aliases map[string]int
}

func NewAuthorNormalizer(authors []Author) *AuthorNormalizer {
	n := &AuthorNormalizer{aliases: make(map[string]int)}
	for i, a := range authors {
		n.names = append(n.names, a.Name)
		n.folded = append(n.folded, Fold(a.Name))
		for _, alias := range a.Aliases {
			key := Fold(alias)
			if _, taken := n.aliases[key]; !taken {
				n.aliases[key] = i
			}
		}
	}
	return n
}

// Normalize resolves fragment to a known author: exact name first, then an
// alias, then the closest name by edit distance above MinAuthorSimilarity.
func (n *AuthorNormalizer) Normalize(fragment string) (string, bool) {
	key := Fold(strings.TrimSpace(fragment))
	if key == "" {
		return "", false
	}
	for i, f := range n.folded {
		if f == key {
			return n.names[i], true
		}
	}
	if i, ok := n.aliases[key]; ok {
		return n.names[i], true
	}

	best, bestScore := -1, 0.0
	for i, f := range n.folded {
		score := Similarity(key, f)
		if score > MinAuthorSimilarity && score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return "", false
	}
	return n.names[best], true
}

// Names returns the canonical author names in lexicon order.
func (n *AuthorNormalizer) Names() []string {
	return append([]string(nil), n.names...)
}

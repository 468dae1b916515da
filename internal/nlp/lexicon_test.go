package nlp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLexicon(t *testing.T) {
	lex, err := DefaultLexicon()
	require.NoError(t, err)

	names := make([]string, 0, len(lex.Intents))
	for _, in := range lex.Intents {
		names = append(names, in.Name)
	}
	assert.Equal(t, []string{
		IntentGenre, IntentAuthor, IntentSimilar, IntentYear,
		IntentNonBestsellers, IntentBestsellers, IntentMood, IntentOccasion,
	}, names)
	assert.Len(t, lex.Genres, 11)
	assert.Len(t, lex.Authors, 17)
	assert.Equal(t, "terror", lex.Genres[0].Name)
	assert.Equal(t, "Literatura Brasileira", lex.Genres[10].Display)

	_, err = NewMatcher(lex.Intents, lex.Stopwords)
	assert.NoError(t, err)
}

func TestLexicon_Lookups(t *testing.T) {
	lex, err := DefaultLexicon()
	require.NoError(t, err)

	assert.Equal(t, "Autoajuda", lex.MoodGenre("deprimido"))
	assert.Equal(t, "Romance", lex.MoodGenre("entediado"))
	assert.Equal(t, "Mistério", lex.OccasionGenre("avião"))
	assert.Equal(t, "Romance", lex.OccasionGenre("casamento"))

	d, ok := lex.GenreDisplay("Ficção Científica")
	assert.True(t, ok)
	assert.Equal(t, "Ficção Científica", d)
	_, ok = lex.GenreDisplay("culinária")
	assert.False(t, ok)
}

func TestParseLexicon_Invalid(t *testing.T) {
	tests := map[string]string{
		"no intents":     "genres: []",
		"unknown intent": "intents:\n  - name: dance\n    patterns: [x]",
		"duplicate": "intents:\n  - name: bestsellers\n    patterns: [x]\n" +
			"  - name: bestsellers\n    patterns: [y]",
		"empty patterns": "intents:\n  - name: bestsellers\n    patterns: []",
		"empty synonym": "intents:\n  - name: bestsellers\n    patterns: [x]\n" +
			"genres:\n  - name: terror\n    display: Terror\n    synonyms: ['']",
		"not yaml": "intents: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseLexicon([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadLexicon_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	doc := "intents:\n  - name: bestsellers\n    patterns: ['top']\n" +
		"moods:\n  Feliz: Fantasia\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	lex, err := LoadLexicon(path)
	require.NoError(t, err)

	p, err := NewPipeline(lex, nil)
	require.NoError(t, err)
	assert.Equal(t, IntentBestsellers, p.Process("os TOP da semana").Name)
	assert.Equal(t, "Fantasia", lex.MoodGenre("feliz"))

	_, err = LoadLexicon(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultLexicon_MarkedDeviations(t *testing.T) {
	lex, err := DefaultLexicon()
	require.NoError(t, err)

	genre := lex.Intents[0]
	require.Equal(t, IntentGenre, genre.Name)
	assert.Contains(t, genre.Patterns[4], "(?:livros?|algo|obras?|leituras?)")

	order := map[string]int{}
	for i, in := range lex.Intents {
		order[in.Name] = i
	}
	assert.Less(t, order[IntentNonBestsellers], order[IntentBestsellers])

	p, err := NewPipeline(lex, nil)
	require.NoError(t, err)
	assert.Equal(t, IntentNonBestsellers, p.Process("prefiro não ler bestseller").Name)
	assert.Equal(t, IntentMood, p.Process("estou me sentindo muito triste").Name)
}

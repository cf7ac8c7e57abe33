package word

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Run("accepts two han characters", func(t *testing.T) {
		w, err := Normalize("企业")
		require.NoError(t, err)
		assert.Equal(t, Word("企业"), w)
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		w, err := Normalize("  玉佩\n")
		require.NoError(t, err)
		assert.Equal(t, Word("玉佩"), w)
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		for _, raw := range []string{"", "词", "三个字", "词语词语"} {
			_, err := Normalize(raw)
			assert.ErrorIs(t, err, ErrWrongLength, "raw=%q", raw)
		}
	})

	t.Run("rejects non-han characters", func(t *testing.T) {
		for _, raw := range []string{"ab", "词a", "1词", "！词"} {
			_, err := Normalize(raw)
			assert.ErrorIs(t, err, ErrInvalidChars, "raw=%q", raw)
		}
	})
}

func TestInitAndLexicon(t *testing.T) {
	require.NoError(t, Init())

	lex, q := Stats()
	assert.Greater(t, lex, 0)
	assert.Greater(t, q, 0)

	assert.True(t, InLexicon("企业"))
	assert.True(t, InLexicon("公司"))
	assert.False(t, InLexicon("子虚"))

	// every question word must be guessable
	for _, w := range Questions() {
		assert.True(t, InLexicon(w), "question %q missing from lexicon", w)
	}
}

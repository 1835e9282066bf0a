package moderation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const replacementChar = '*'

// The dictionary uses specific words to avoid partial collisions
// (e.g., "he" inside "The").
func TestModerator_Mask(t *testing.T) {
	req := require.New(t)
	dictionary := []string{"badger", "snake", "mushroom"}
	mod, err := NewModerator(dictionary, replacementChar)
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Simple word and space preservation",
			input:    "The badger is here",
			expected: "The ****** is here",
		},
		{
			name:     "Multiple occurrences and preserved spacing",
			input:    "badger badger badger",
			expected: "****** ****** ******",
		},
		{
			name:     "Leet speak and internal punctuation",
			input:    "Look at B.4.d.g.€r !",
			expected: "Look at ********** !",
		},
		{
			name:     "Uppercase and extreme noise",
			input:    "S-N-A-K-E is a B.A.D.G.E.R",
			expected: "********* is a ***********",
		},
		{
			name:     "Accents and special characters (UTF-8)",
			input:    "Un été avec un badger",
			expected: "Un été avec un ******",
		},
		{
			name:     "Word adjacent to trailing punctuation",
			input:    "I love badger!",
			expected: "I love ******!",
		},
		{
			name:     "Nothing to mask",
			input:    "Chat-Relay is amazing",
			expected: "Chat-Relay is amazing",
		},
		{
			name:     "Empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req.Equal(tt.expected, mod.Mask(tt.input), "test=%s", tt.name)
		})
	}
}

func TestModerator_CornerCases(t *testing.T) {
	req := require.New(t)

	// Given a dictionary polluted with pure noise entries
	dictionary := []string{"...", ",,,", "", "badger"}
	mod, err := NewModerator(dictionary, replacementChar)
	req.NoError(err)

	// Then the real word is still masked
	req.Equal("The ****** is safe", mod.Mask("The badger is safe"))

	// Then noise-only content passes through untouched
	req.Equal("Hello ...", mod.Mask("Hello ..."))
}

func TestModerator_Disabled(t *testing.T) {
	req := require.New(t)

	// Given no usable dictionary entries
	mod, err := NewModerator(nil, replacementChar)
	req.NoError(err)

	// Then masking is a passthrough
	req.Equal("anything goes", mod.Mask("anything goes"))
}

func TestLoadWords(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "words.txt")
	req.NoError(os.WriteFile(path, []byte("# header\nbadger\n\n  snake  \n# tail\n"), 0o600))

	words, err := LoadWords(path)
	req.NoError(err)
	req.Equal([]string{"badger", "snake"}, words)

	_, err = LoadWords(filepath.Join(t.TempDir(), "missing.txt"))
	req.Error(err)
}

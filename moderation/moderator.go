// Package moderation masks censored words in chat content before it is
// persisted or forwarded. Matching is case, spacing, punctuation and
// leet-speak insensitive; masking preserves the original rune length.
package moderation

import (
	"bufio"
	"os"
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// leet maps common substitution characters back to their letter.
var leet = map[rune]rune{
	'4': 'a', '@': 'a',
	'3': 'e', '€': 'e',
	'1': 'i', '!': 'i', '|': 'i',
	'0': 'o',
	'5': 's', '$': 's',
}

type Moderator struct {
	machine  *goahocorasick.Machine
	maskRune rune
}

// NewModerator builds the Aho-Corasick automaton over the normalized word
// list. An empty list yields a disabled moderator.
func NewModerator(words []string, maskRune rune) (*Moderator, error) {
	var patterns [][]rune
	for _, word := range words {
		if normalized, _ := normalize(word); len(normalized) > 0 {
			patterns = append(patterns, normalized)
		}
	}
	if len(patterns) == 0 {
		return &Moderator{maskRune: maskRune}, nil
	}

	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{machine: machine, maskRune: maskRune}, nil
}

// LoadWords reads a newline-delimited word list. Blank lines and lines
// starting with '#' are skipped.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words, scanner.Err()
}

// Mask replaces every rune of a matched span with the mask rune, keeping
// the surrounding text untouched.
func (m *Moderator) Mask(content string) string {
	if m.machine == nil {
		return content
	}
	normalized, origIdx := normalize(content)
	if len(normalized) == 0 {
		return content
	}

	spans := m.machine.MultiPatternSearch(normalized, false)
	if len(spans) == 0 {
		return content
	}

	runes := []rune(content)
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(origIdx) {
			continue
		}
		for i := origIdx[start]; i <= origIdx[end-1]; i++ {
			runes[i] = m.maskRune
		}
	}
	return string(runes)
}

// normalize lowercases, undoes leet substitutions and drops separator noise,
// keeping a mapping from normalized positions back to original rune indexes.
func normalize(input string) ([]rune, []int) {
	runes := []rune(input)
	normalized := make([]rune, 0, len(runes))
	origIdx := make([]int, 0, len(runes))
	for i, r := range runes {
		if mapped, ok := leet[r]; ok {
			r = mapped
		}
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		normalized = append(normalized, unicode.ToLower(r))
		origIdx = append(origIdx, i)
	}
	return normalized, origIdx
}

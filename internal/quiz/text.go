package quiz

import (
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

const (
	upperPlaceholder = "X"
	lowerPlaceholder = "x"
)

// vowelGroups lists the maskable vowels in masking order: the capital letter
// first, then its lowercase and accented lowercase forms.
var vowelGroups = [vowelGroupCount][3]string{
	{"A", "a", "á"},
	{"E", "e", "é"},
	{"I", "i", "í"},
	{"O", "o", "ó"},
	{"U", "u", "ú"},
}

// MaskVowels hides the first groups vowel groups of text behind placeholder
// glyphs. Every other character is preserved.
func MaskVowels(text string, groups int) string {
	groups = max(0, min(groups, vowelGroupCount))
	if groups == 0 {
		return text
	}

	pairs := make([]string, 0, groups*6)
	for _, group := range vowelGroups[:groups] {
		pairs = append(pairs,
			group[0], upperPlaceholder,
			group[1], lowerPlaceholder,
			group[2], lowerPlaceholder,
		)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// Wrap collapses whitespace and fills text to lines of at most width runes.
// Words longer than width are left on their own line.
func Wrap(text string, width int) string {
	flat := strings.Join(strings.Fields(text), " ")
	if width <= 0 {
		return flat
	}
	return wordwrap.WrapString(flat, uint(width))
}

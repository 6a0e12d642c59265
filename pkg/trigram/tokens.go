package trigram

import "strings"

// Tokenize lowercases text and splits it on runs of whitespace. Punctuation
// stays attached to the words it touches. An empty text yields no tokens.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Fields(strings.ToLower(text))
}

package level

import (
	"strings"
	"unicode"
)

// maxWordLen matches the word parser's limit on target length.
const maxWordLen = 20

// Filter lower-cases words and keeps the playable ones: letters, spaces and
// hyphens only, shorter than maxWordLen, first occurrence wins.
func Filter(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if !playable(w) {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

func playable(word string) bool {
	if word == "" || len([]rune(word)) >= maxWordLen {
		return false
	}
	for _, r := range word {
		if r != ' ' && r != '-' && !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

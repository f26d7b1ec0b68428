// Package wordparse turns free-text AI output into word lists.
package wordparse

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

const (
	punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
	trimSet     = punctuation + " \t\r\n"
	maxWordLen  = 20
)

// Strategy extracts raw items from text. It returns nil when it does not apply.
type Strategy func(text string) []string

// Strategies are tried in order; the first one producing words wins.
var Strategies = []Strategy{Structured, CommaSplit, NewlineSplit}

// Parse extracts a normalized word list from text. When target is set it is
// always part of the result. Words of maxWordLen runes or more are dropped.
func Parse(text, target string) []string {
	var words []string
	for _, strategy := range Strategies {
		words = normalize(strategy(text))
		if len(words) > 0 {
			break
		}
	}
	if t := normalizeWord(target); t != "" && !contains(words, t) {
		words = append(words, t)
	}
	out := words[:0]
	for _, w := range words {
		if utf8.RuneCountInString(w) < maxWordLen {
			out = append(out, w)
		}
	}
	return out
}

// Structured parses the first bracketed sequence in text as a YAML flow
// sequence, which also covers JSON arrays.
func Structured(text string) []string {
	open := strings.IndexByte(text, '[')
	closeIdx := strings.LastIndexByte(text, ']')
	if open < 0 || closeIdx <= open {
		return nil
	}
	var items []any
	if err := yaml.Unmarshal([]byte(text[open:closeIdx+1]), &items); err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// CommaSplit splits on commas; a single part does not count.
func CommaSplit(text string) []string {
	return splitMulti(strings.TrimSpace(text), ",")
}

// NewlineSplit splits on line breaks; a single line does not count.
func NewlineSplit(text string) []string {
	return splitMulti(strings.TrimSpace(text), "\n")
}

func splitMulti(text, sep string) []string {
	parts := strings.Split(text, sep)
	if len(parts) <= 1 {
		return nil
	}
	return parts
}

func normalize(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		w := normalizeWord(item)
		if w == "" {
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

func normalizeWord(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return -1
		}
		return r
	}, s)
	return strings.ToLower(strings.Trim(s, trimSet))
}

func contains(words []string, w string) bool {
	for _, existing := range words {
		if existing == w {
			return true
		}
	}
	return false
}

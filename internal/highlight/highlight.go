// Package highlight merges highlight ranges and splits text into display segments.
//
// Offsets are rune indices into the text.
package highlight

import (
	"sort"
	"unicode"

	"github.com/verte-zerg/taboo/internal/model"
)

// Segment is a run of text that is either highlighted or not.
type Segment struct {
	Text        string `json:"text"`
	Highlighted bool   `json:"highlighted"`
}

// Clamp bounds ranges to [0, n] and drops the ones left empty or inverted.
func Clamp(ranges []model.Highlight, n int) []model.Highlight {
	if n < 0 {
		n = 0
	}
	out := make([]model.Highlight, 0, len(ranges))
	for _, r := range ranges {
		r.Start = clampInt(r.Start, 0, n)
		r.End = clampInt(r.End, 0, n)
		if r.Start >= r.End {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Sanitize returns a sorted, non-overlapping copy of ranges.
// Ranges sharing a start keep the longest one, overlapping ranges are merged
// and ranges contained in an earlier one are dropped. Empty ranges are ignored.
func Sanitize(ranges []model.Highlight) []model.Highlight {
	byStart := make(map[int]model.Highlight, len(ranges))
	for _, r := range ranges {
		if r.Start >= r.End {
			continue
		}
		if cur, ok := byStart[r.Start]; ok && cur.End >= r.End {
			continue
		}
		byStart[r.Start] = r
	}
	deduped := make([]model.Highlight, 0, len(byStart))
	for _, r := range byStart {
		deduped = append(deduped, r)
	}
	sort.Slice(deduped, func(i, j int) bool {
		return deduped[i].Start < deduped[j].Start
	})

	results := make([]model.Highlight, 0, len(deduped))
	prevEnd := 0
	for _, r := range deduped {
		if len(results) > 0 && r.Start < prevEnd {
			if r.End > prevEnd {
				results[len(results)-1].End = r.End
				prevEnd = r.End
			}
			continue
		}
		results = append(results, r)
		prevEnd = r.End
	}
	return results
}

// Apply walks text and hands each normal and highlighted part to the callbacks,
// in order. A highlighted part starts at the first letter or digit at or after
// its range start; skipped characters stay in the preceding normal part.
// Without usable ranges the whole text is a single normal part.
func Apply[T any](text string, ranges []model.Highlight, onNormal, onHighlight func(string) T) []T {
	runes := []rune(text)
	ranges = Sanitize(Clamp(ranges, len(runes)))

	out := make([]T, 0, 2*len(ranges)+1)
	normalFrom := 0
	for _, r := range ranges {
		start := r.Start
		for start < r.End && !isWordRune(runes[start]) {
			start++
		}
		if start == r.End {
			continue
		}
		if start > normalFrom {
			out = append(out, onNormal(string(runes[normalFrom:start])))
		}
		out = append(out, onHighlight(string(runes[start:r.End])))
		normalFrom = r.End
	}
	if normalFrom < len(runes) || len(out) == 0 {
		out = append(out, onNormal(string(runes[normalFrom:])))
	}
	return out
}

// Segments splits text into normal and highlighted segments.
func Segments(text string, ranges []model.Highlight) []Segment {
	return Apply(text, ranges,
		func(s string) Segment { return Segment{Text: s} },
		func(s string) Segment { return Segment{Text: s, Highlighted: true} },
	)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

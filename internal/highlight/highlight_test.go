package highlight

import (
	"reflect"
	"strings"
	"testing"

	"github.com/verte-zerg/taboo/internal/model"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   []model.Highlight
		want []model.Highlight
	}{
		{
			name: "longer duplicate wins",
			in:   []model.Highlight{{Start: 0, End: 5}, {Start: 0, End: 3}},
			want: []model.Highlight{{Start: 0, End: 5}},
		},
		{
			name: "overlap merges",
			in:   []model.Highlight{{Start: 0, End: 5}, {Start: 3, End: 8}},
			want: []model.Highlight{{Start: 0, End: 8}},
		},
		{
			name: "disjoint unchanged",
			in:   []model.Highlight{{Start: 0, End: 2}, {Start: 5, End: 7}},
			want: []model.Highlight{{Start: 0, End: 2}, {Start: 5, End: 7}},
		},
		{
			name: "contained dropped",
			in:   []model.Highlight{{Start: 0, End: 10}, {Start: 2, End: 4}},
			want: []model.Highlight{{Start: 0, End: 10}},
		},
		{
			name: "chain of overlaps merges fully",
			in:   []model.Highlight{{Start: 6, End: 10}, {Start: 0, End: 5}, {Start: 3, End: 8}},
			want: []model.Highlight{{Start: 0, End: 10}},
		},
		{
			name: "adjacent stay separate",
			in:   []model.Highlight{{Start: 4, End: 6}, {Start: 0, End: 4}},
			want: []model.Highlight{{Start: 0, End: 4}, {Start: 4, End: 6}},
		},
		{
			name: "empty ranges dropped",
			in:   []model.Highlight{{Start: 3, End: 3}, {Start: 5, End: 4}, {Start: 1, End: 2}},
			want: []model.Highlight{{Start: 1, End: 2}},
		},
		{
			name: "nil input",
			in:   nil,
			want: []model.Highlight{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Sanitize(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeDoesNotMutateInput(t *testing.T) {
	in := []model.Highlight{{Start: 0, End: 5}, {Start: 3, End: 8}}
	_ = Sanitize(in)
	if in[0].End != 5 || in[1].Start != 3 {
		t.Fatalf("input was modified: %v", in)
	}
}

func TestClamp(t *testing.T) {
	got := Clamp([]model.Highlight{{Start: -4, End: 2}, {Start: 7, End: 99}, {Start: 20, End: 30}}, 11)
	want := []model.Highlight{{Start: 0, End: 2}, {Start: 7, End: 11}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Clamp = %v, want %v", got, want)
	}
}

func TestApplyWithoutRanges(t *testing.T) {
	calls := 0
	parts := Apply("hello world", nil,
		func(s string) string { calls++; return "N:" + s },
		func(s string) string { t.Fatalf("unexpected highlight %q", s); return "" },
	)
	if len(parts) != 1 || parts[0] != "N:hello world" || calls != 1 {
		t.Fatalf("unexpected parts: %v", parts)
	}
}

func TestApplyEmptyText(t *testing.T) {
	segs := Segments("", []model.Highlight{{Start: 0, End: 3}})
	if len(segs) != 1 || segs[0].Text != "" || segs[0].Highlighted {
		t.Fatalf("unexpected segments: %+v", segs)
	}
}

func TestSegmentsSnapToWordStart(t *testing.T) {
	segs := Segments("Hello, world!", []model.Highlight{{Start: 5, End: 12}})
	want := []Segment{
		{Text: "Hello, "},
		{Text: "world", Highlighted: true},
		{Text: "!"},
	}
	if !reflect.DeepEqual(segs, want) {
		t.Fatalf("got %+v, want %+v", segs, want)
	}
}

func TestSegmentsLeadingHighlight(t *testing.T) {
	segs := Segments("Hello, world!", []model.Highlight{{Start: 0, End: 5}})
	want := []Segment{
		{Text: "Hello", Highlighted: true},
		{Text: ", world!"},
	}
	if !reflect.DeepEqual(segs, want) {
		t.Fatalf("got %+v, want %+v", segs, want)
	}
}

func TestSegmentsMergesAndClamps(t *testing.T) {
	text := "hello world"
	segs := Segments(text, []model.Highlight{{Start: 7, End: 99}, {Start: 8, End: 9}, {Start: 0, End: 2}})
	want := []Segment{
		{Text: "he", Highlighted: true},
		{Text: "llo w"},
		{Text: "orld", Highlighted: true},
	}
	if !reflect.DeepEqual(segs, want) {
		t.Fatalf("got %+v, want %+v", segs, want)
	}
	var joined strings.Builder
	for _, s := range segs {
		joined.WriteString(s.Text)
	}
	if joined.String() != text {
		t.Fatalf("segments do not cover text: %q", joined.String())
	}
}

func TestSegmentsPunctuationOnlyRangeStaysNormal(t *testing.T) {
	segs := Segments("a, b", []model.Highlight{{Start: 1, End: 3}})
	if len(segs) != 1 || segs[0].Text != "a, b" || segs[0].Highlighted {
		t.Fatalf("unexpected segments: %+v", segs)
	}
}

func TestSegmentsUseRuneOffsets(t *testing.T) {
	segs := Segments("café au lait", []model.Highlight{{Start: 5, End: 7}})
	want := []Segment{
		{Text: "café "},
		{Text: "au", Highlighted: true},
		{Text: " lait"},
	}
	if !reflect.DeepEqual(segs, want) {
		t.Fatalf("got %+v, want %+v", segs, want)
	}
}

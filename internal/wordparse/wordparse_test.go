package wordparse

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		target string
		want   []string
	}{
		{
			name: "json array",
			text: `["Fruit", "Red", "tree", "fruit"]`,
			want: []string{"fruit", "red", "tree"},
		},
		{
			name:   "unquoted flow sequence inside prose",
			text:   "Sure! Here you go: [Orchard, Cider, Pie]",
			target: "apple",
			want:   []string{"orchard", "cider", "pie", "apple"},
		},
		{
			name: "comma separated",
			text: "  Red, green , crunchy.  ",
			want: []string{"red", "green", "crunchy"},
		},
		{
			name: "numbered lines",
			text: "1. Engine\n2. Wheels\n3) Road",
			want: []string{"engine", "wheels", "road"},
		},
		{
			name:   "single word falls back to target only",
			text:   "banana",
			target: "Apple",
			want:   []string{"apple"},
		},
		{
			name:   "target not duplicated",
			text:   "apple, pear",
			target: "APPLE",
			want:   []string{"apple", "pear"},
		},
		{
			name: "long items dropped",
			text: "ok, supercalifragilisticexpialidocious",
			want: []string{"ok"},
		},
		{
			name: "nothing usable",
			text: "",
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text, tt.target)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Parse(%q, %q) = %#v, want %#v", tt.text, tt.target, got, tt.want)
			}
		})
	}
}

func TestStructuredRejectsNonSequence(t *testing.T) {
	if got := Structured("no brackets here"); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	if got := Structured("] backwards ["); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	if got := Structured("[a, {b: c}, 4, d]"); !reflect.DeepEqual(got, []string{"a", "d"}) {
		t.Fatalf("expected only string items, got %v", got)
	}
}

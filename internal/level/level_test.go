package level

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/taboo/internal/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "fruits.yaml", "name: Fruits\ndifficulty: 2\nwords:\n  - Apple\n  - pear\n  - apple\n  - 42\n")
	lvl, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if lvl.Name != "Fruits" || lvl.Difficulty != model.Medium {
		t.Fatalf("unexpected level %+v", lvl)
	}
	if len(lvl.Words) != 2 || lvl.Words[0] != "apple" || lvl.Words[1] != "pear" {
		t.Fatalf("unexpected words %v", lvl.Words)
	}
}

func TestLoadText(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "animals.txt", "# comment\ncat\n\npolar bear\ndon't\n")
	lvl, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if lvl.Name != "animals" || lvl.Difficulty != model.Easy {
		t.Fatalf("unexpected level %+v", lvl)
	}
	if len(lvl.Words) != 2 || lvl.Words[1] != "polar bear" {
		t.Fatalf("unexpected words %v", lvl.Words)
	}
}

func TestLoadRejectsEmpty(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.txt", "\n123\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for level without playable words")
	}
}

func TestListAndFind(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.txt", "bee\n")
	writeFile(t, dir, "a.yml", "words: [ant]\n")
	writeFile(t, dir, "notes.md", "ignored")

	levels, err := List(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(levels) != 2 || levels[0].Name != "a" || levels[1].Name != "b" {
		t.Fatalf("unexpected levels %+v", levels)
	}
	lvl, err := Find(dir, "B")
	if err != nil || lvl.Words[0] != "bee" {
		t.Fatalf("find: %+v %v", lvl, err)
	}
	if _, err := Find(dir, "c"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListMissingDir(t *testing.T) {
	levels, err := List(filepath.Join(t.TempDir(), "missing"))
	if err != nil || len(levels) != 0 {
		t.Fatalf("expected no levels, got %v err=%v", levels, err)
	}
}

func TestDisplayName(t *testing.T) {
	cases := map[string]string{
		"world_capitals": "World Capitals",
		"worldCapitals":  "World Capitals",
		"  sci-fi films": "Sci Fi Films",
		"NBA":            "NBA",
		"":               "Unknown",
	}
	for in, want := range cases {
		if got := DisplayName(in); got != want {
			t.Fatalf("DisplayName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFilter(t *testing.T) {
	got := Filter([]string{" Cat ", "cat", "co-op", "x1", "", "supercalifragilistic"})
	if len(got) != 2 || got[0] != "cat" || got[1] != "co-op" {
		t.Fatalf("unexpected filter result %v", got)
	}
}

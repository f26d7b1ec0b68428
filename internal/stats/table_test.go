package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Player", "Score", "Rounds"}
	rows := [][]string{
		{"neo", "198.5", "3"},
		{"trinity", "87", "12"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Player  Score Rounds" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "neo     198.5      3" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "trinity    87     12" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideCells(t *testing.T) {
	lines := formatTable([]string{"Player", "Score"}, [][]string{{"名前", "1"}}, map[int]bool{1: true})
	if lines[1] != "名前       1" {
		t.Fatalf("expected wide runes to count double: %q", lines[1])
	}
}

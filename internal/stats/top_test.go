package stats

import (
	"testing"

	"github.com/verte-zerg/taboo/internal/model"
)

func TestTopLevelsByPlays(t *testing.T) {
	games := []model.GameAggregate{
		{Level: "b", TotalScore: 10},
		{Level: "a", TotalScore: 30},
		{Level: "a", TotalScore: 50},
		{Level: "c", TotalScore: 5},
		{Level: "b", TotalScore: 70},
	}
	top := TopLevelsByPlays(games, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(top))
	}
	if top[0].Level != "a" || top[1].Level != "b" {
		t.Fatalf("unexpected order: %+v", top)
	}
	if top[0].Best != 50 || top[1].Best != 70 {
		t.Fatalf("unexpected best scores: %+v", top)
	}
}

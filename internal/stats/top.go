package stats

import (
	"sort"

	"github.com/verte-zerg/taboo/internal/model"
)

// LevelCount is the number of games and the best score for a level.
type LevelCount struct {
	Level string
	Plays int
	Best  float64
}

// TopLevelsByPlays returns the n most played levels.
func TopLevelsByPlays(games []model.GameAggregate, n int) []LevelCount {
	if n <= 0 || len(games) == 0 {
		return nil
	}
	byLevel := map[string]*LevelCount{}
	for _, g := range games {
		c, ok := byLevel[g.Level]
		if !ok {
			c = &LevelCount{Level: g.Level, Best: g.TotalScore}
			byLevel[g.Level] = c
		}
		c.Plays++
		if g.TotalScore > c.Best {
			c.Best = g.TotalScore
		}
	}
	items := make([]LevelCount, 0, len(byLevel))
	for _, c := range byLevel {
		items = append(items, *c)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Plays == items[j].Plays {
			return items[i].Level < items[j].Level
		}
		return items[i].Plays > items[j].Plays
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}

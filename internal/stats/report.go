package stats

import (
	"context"

	"github.com/verte-zerg/taboo/internal/model"
)

// GameSource lists stored games.
type GameSource interface {
	ListGames(ctx context.Context, filter model.GameFilter) ([]model.GameAggregate, error)
	BestGames(ctx context.Context, filter model.GameFilter) ([]model.GameAggregate, error)
}

// Report contains precomputed data for leaderboard rendering.
type Report struct {
	// Games are the most recent games, oldest first.
	Games  []model.GameAggregate
	Best   []model.GameAggregate
	Levels []LevelCount
}

// ReportConfig selects the games in a report.
type ReportConfig struct {
	Filter model.GameFilter
	// Last keeps only the most recent games; 0 keeps all.
	Last int
	// Top bounds the best games and levels lists.
	Top int
}

// BuildReport loads and prepares data for leaderboard rendering.
func BuildReport(ctx context.Context, src GameSource, cfg ReportConfig) (Report, error) {
	filter := cfg.Filter
	filter.Limit = cfg.Last
	filter.Offset = 0
	recent, err := src.ListGames(ctx, filter)
	if err != nil {
		return Report{}, err
	}
	games := make([]model.GameAggregate, len(recent))
	for i, g := range recent {
		games[len(recent)-1-i] = g
	}

	top := cfg.Top
	if top <= 0 {
		top = 10
	}
	bestFilter := cfg.Filter
	bestFilter.Limit = top
	bestFilter.Offset = 0
	best, err := src.BestGames(ctx, bestFilter)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Games:  games,
		Best:   best,
		Levels: TopLevelsByPlays(games, top),
	}, nil
}

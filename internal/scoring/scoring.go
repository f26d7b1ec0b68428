// Package scoring computes round and game scores.
package scoring

import (
	"math"

	"github.com/verte-zerg/taboo/internal/model"
)

// DefaultClueScore is used when a round has no AI-judged score.
const DefaultClueScore = 50.0

const maxScore = 100.0

// Multipliers weight the time and clue components of a round score.
type Multipliers struct {
	Time float64 `json:"time"`
	Clue float64 `json:"clue"`
}

// DifficultyMultipliers returns the weighting for a difficulty tier.
// Harder topics favor clue quality over speed.
func DifficultyMultipliers(d model.Difficulty) Multipliers {
	switch d {
	case model.Easy:
		return Multipliers{Time: 0.4, Clue: 0.6}
	case model.Medium:
		return Multipliers{Time: 0.3, Clue: 0.7}
	case model.Hard:
		return Multipliers{Time: 0.2, Clue: 0.8}
	default:
		return Multipliers{Time: 0.5, Clue: 0.5}
	}
}

// EffectiveSeconds floors non-positive (and NaN) completion times to 1.
func EffectiveSeconds(completion float64) float64 {
	if math.IsNaN(completion) || completion <= 0 {
		return 1
	}
	return completion
}

// TimeScore decays linearly from 100 with elapsed seconds, clamped to [0, 100].
func TimeScore(completion float64) float64 {
	return clamp(maxScore-EffectiveSeconds(completion), 0, maxScore)
}

// Calculator computes scores with a configurable default clue score.
type Calculator struct {
	DefaultClueScore float64
}

// New returns a Calculator using DefaultClueScore.
func New() Calculator {
	return Calculator{DefaultClueScore: DefaultClueScore}
}

// ClueScore passes the AI score through, substituting the default when absent.
func (c Calculator) ClueScore(ai *float64) float64 {
	if ai == nil || math.IsNaN(*ai) || math.IsInf(*ai, 0) {
		return c.DefaultClueScore
	}
	return *ai
}

// RoundScore returns the weighted round score rounded to one decimal.
func (c Calculator) RoundScore(r model.Round) float64 {
	m := DifficultyMultipliers(r.Difficulty)
	sum := addDecimals(
		mulDecimal(TimeScore(r.CompletionSeconds), m.Time),
		mulDecimal(c.ClueScore(r.AIScore), m.Clue),
	)
	return roundDecimal(sum, 1)
}

// GameTotal is the aggregate of a sequence of rounds.
type GameTotal struct {
	Score   float64 `json:"score"`
	Seconds float64 `json:"seconds"`
}

// Total sums round scores, rounding once at the end, and sums effective seconds.
func (c Calculator) Total(rounds []model.Round) GameTotal {
	scores := make([]float64, len(rounds))
	var seconds float64
	for i, r := range rounds {
		scores[i] = c.RoundScore(r)
		seconds += EffectiveSeconds(r.CompletionSeconds)
	}
	return GameTotal{Score: RoundedSum(scores), Seconds: seconds}
}

// Breakdown explains how a round score was composed.
type Breakdown struct {
	Difficulty       model.Difficulty `json:"difficulty"`
	Multipliers      Multipliers      `json:"multipliers"`
	EffectiveSeconds float64          `json:"effective_seconds"`
	TimeScore        float64          `json:"time_score"`
	TimeWeighted     float64          `json:"time_weighted"`
	ClueScore        float64          `json:"clue_score"`
	ClueWeighted     float64          `json:"clue_weighted"`
	Total            float64          `json:"total"`
	Judged           bool             `json:"judged"`
}

// Breakdown returns the components of a round score for display.
func (c Calculator) Breakdown(r model.Round) Breakdown {
	m := DifficultyMultipliers(r.Difficulty)
	timeScore := TimeScore(r.CompletionSeconds)
	clue := c.ClueScore(r.AIScore)
	return Breakdown{
		Difficulty:       r.Difficulty,
		Multipliers:      m,
		EffectiveSeconds: EffectiveSeconds(r.CompletionSeconds),
		TimeScore:        timeScore,
		TimeWeighted:     roundDecimal(mulDecimal(timeScore, m.Time), 1),
		ClueScore:        clue,
		ClueWeighted:     roundDecimal(mulDecimal(clue, m.Clue), 1),
		Total:            c.RoundScore(r),
		Judged:           r.AIScore != nil,
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

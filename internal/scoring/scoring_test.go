package scoring

import (
	"math"
	"testing"

	"github.com/verte-zerg/taboo/internal/model"
)

func TestDifficultyMultipliersSumToOne(t *testing.T) {
	for _, d := range []model.Difficulty{model.Easy, model.Medium, model.Hard, 0, 7} {
		m := DifficultyMultipliers(d)
		if math.Abs(m.Time+m.Clue-1) > 1e-9 {
			t.Fatalf("difficulty %d: weights sum to %v", d, m.Time+m.Clue)
		}
	}
	if got := DifficultyMultipliers(model.Hard); got.Time != 0.2 || got.Clue != 0.8 {
		t.Fatalf("unexpected hard weights: %+v", got)
	}
	if got := DifficultyMultipliers(42); got.Time != 0.5 || got.Clue != 0.5 {
		t.Fatalf("unexpected fallback weights: %+v", got)
	}
}

func TestTimeScore(t *testing.T) {
	tests := []struct {
		name       string
		completion float64
		want       float64
	}{
		{"zero floors to one second", 0, 99},
		{"negative floors to one second", -12, 99},
		{"nan floors to one second", math.NaN(), 99},
		{"one second", 1, 99},
		{"ten seconds", 10, 90},
		{"fractional", 12.5, 87.5},
		{"hundred", 100, 0},
		{"past hundred", 250, 0},
		{"infinite", math.Inf(1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TimeScore(tt.completion); got != tt.want {
				t.Fatalf("TimeScore(%v) = %v, want %v", tt.completion, got, tt.want)
			}
		})
	}
}

func TestRoundScoreMonotonicInTime(t *testing.T) {
	calc := New()
	for _, d := range []model.Difficulty{model.Easy, model.Medium, model.Hard, 9} {
		prev := math.Inf(1)
		for s := -5.0; s <= 150; s += 0.5 {
			got := calc.RoundScore(model.Round{Difficulty: d, CompletionSeconds: s, AIScore: model.Float(70)})
			if got > prev {
				t.Fatalf("difficulty %d: score rose from %v to %v at %vs", d, prev, got, s)
			}
			prev = got
		}
	}
}

func TestClueScoreDefault(t *testing.T) {
	calc := New()
	if got := calc.ClueScore(nil); got != 50 {
		t.Fatalf("expected neutral default 50, got %v", got)
	}
	if got := calc.ClueScore(model.Float(math.NaN())); got != 50 {
		t.Fatalf("expected NaN to use default, got %v", got)
	}
	if got := calc.ClueScore(model.Float(0)); got != 0 {
		t.Fatalf("expected explicit zero to pass through, got %v", got)
	}

	round := model.Round{Difficulty: model.Easy, CompletionSeconds: 10}
	if got := calc.RoundScore(round); got != 66 {
		t.Fatalf("expected 36+30=66, got %v", got)
	}
	zero := Calculator{DefaultClueScore: 0}
	if got := zero.RoundScore(round); got != 36 {
		t.Fatalf("expected 36 with zero default, got %v", got)
	}
}

func TestGameTotalMediumScenario(t *testing.T) {
	calc := New()
	rounds := []model.Round{
		{Difficulty: model.Medium, CompletionSeconds: 10, AIScore: model.Float(80)},
		{Difficulty: model.Medium, CompletionSeconds: 20, AIScore: model.Float(60)},
		{Difficulty: model.Medium, CompletionSeconds: 30, AIScore: model.Float(40)},
	}
	want := []float64{83, 66, 49}
	for i, r := range rounds {
		if got := calc.RoundScore(r); got != want[i] {
			t.Fatalf("round %d: got %v, want %v", i+1, got, want[i])
		}
	}
	total := calc.Total(rounds)
	if total.Score != 198 {
		t.Fatalf("expected total 198, got %v", total.Score)
	}
	if total.Seconds != 60 {
		t.Fatalf("expected 60 total seconds, got %v", total.Seconds)
	}
}

func TestTotalSecondsUsesEffectiveSeconds(t *testing.T) {
	total := New().Total([]model.Round{
		{Difficulty: model.Easy, CompletionSeconds: 0},
		{Difficulty: model.Easy, CompletionSeconds: -3},
		{Difficulty: model.Easy, CompletionSeconds: 4},
	})
	if total.Seconds != 6 {
		t.Fatalf("expected 6 seconds, got %v", total.Seconds)
	}
}

func TestRoundedSumRoundsOnce(t *testing.T) {
	if got := RoundedSum([]float64{33.33, 33.34}); got != 66.7 {
		t.Fatalf("expected 66.7, got %v", got)
	}
	perTerm := Round(33.33, 1) + Round(33.34, 1)
	if Round(perTerm, 1) != 66.6 {
		t.Fatalf("expected per-term rounding to give 66.6, got %v", perTerm)
	}
	if got := RoundedSum(nil); got != 0 {
		t.Fatalf("expected empty sum 0, got %v", got)
	}
	if got := RoundedSum([]float64{1.25, math.NaN(), math.Inf(1)}); got != 1.3 {
		t.Fatalf("expected non-finite values skipped, got %v", got)
	}
}

func TestRoundHalfAwayFromZero(t *testing.T) {
	tests := []struct {
		in     float64
		places int32
		want   float64
	}{
		{0.15, 1, 0.2},
		{2.25, 1, 2.3},
		{1.005, 2, 1.01},
		{-0.15, 1, -0.2},
		{83.00000000000001, 1, 83},
	}
	for _, tt := range tests {
		if got := Round(tt.in, tt.places); got != tt.want {
			t.Fatalf("Round(%v, %d) = %v, want %v", tt.in, tt.places, got, tt.want)
		}
	}
}

func TestBreakdown(t *testing.T) {
	b := New().Breakdown(model.Round{Difficulty: model.Medium, CompletionSeconds: 10, AIScore: model.Float(80)})
	if b.TimeScore != 90 || b.TimeWeighted != 27 {
		t.Fatalf("unexpected time component: %+v", b)
	}
	if b.ClueScore != 80 || b.ClueWeighted != 56 {
		t.Fatalf("unexpected clue component: %+v", b)
	}
	if b.Total != 83 || !b.Judged {
		t.Fatalf("unexpected total: %+v", b)
	}

	unjudged := New().Breakdown(model.Round{Difficulty: model.Hard, CompletionSeconds: 0})
	if unjudged.Judged || unjudged.EffectiveSeconds != 1 || unjudged.ClueScore != 50 {
		t.Fatalf("unexpected unjudged breakdown: %+v", unjudged)
	}
}

func TestLegacyScore(t *testing.T) {
	if got := LegacyScore(2, 30); got != 66.67 {
		t.Fatalf("expected 66.67, got %v", got)
	}
	if got := LegacyScore(1, 0); got != 1000 {
		t.Fatalf("expected 1000 for floored time, got %v", got)
	}
	if got := LegacyScore(3, math.Inf(1)); got != 0 {
		t.Fatalf("expected 0 for infinite time, got %v", got)
	}
}

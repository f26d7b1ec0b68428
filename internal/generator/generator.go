// Package generator picks target words for a game.
package generator

import (
	"math/rand"
	"time"
)

// Generator draws targets from a level's words.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// PickTargets returns count distinct words chosen uniformly. All words are
// returned, shuffled, when there are fewer than count.
func (g *Generator) PickTargets(words []string, count int) []string {
	return g.PickFresh(words, count, nil, 0)
}

// PickFresh returns count distinct words, biased away from words the player has
// already seen. A word played n times is drawn with weight 1/(1+n*factor).
func (g *Generator) PickFresh(words []string, count int, played map[string]int, factor float64) []string {
	if count <= 0 || len(words) == 0 {
		return nil
	}
	pool := make([]string, len(words))
	copy(pool, words)
	weights := make([]float64, len(pool))
	total := 0.0
	for i, word := range pool {
		w := 1.0
		if n := played[word]; n > 0 && factor > 0 {
			w = 1.0 / (1.0 + float64(n)*factor)
		}
		weights[i] = w
		total += w
	}

	if count > len(pool) {
		count = len(pool)
	}
	result := make([]string, 0, count)
	for len(result) < count {
		r := g.rnd.Float64() * total
		acc := 0.0
		idx := len(pool) - 1
		for j, w := range weights {
			acc += w
			if r < acc {
				idx = j
				break
			}
		}
		result = append(result, pool[idx])
		total -= weights[idx]
		last := len(pool) - 1
		pool[idx], weights[idx] = pool[last], weights[last]
		pool, weights = pool[:last], weights[:last]
	}
	return result
}

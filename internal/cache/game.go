package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/verte-zerg/taboo/internal/model"
)

const (
	keyLevel  = "level"
	keyRounds = "rounds"
	keyUser   = "user"
)

// GameCache stores the level, rounds and player of the game in progress.
type GameCache struct {
	store Store
}

// NewGameCache wraps a Store.
func NewGameCache(store Store) *GameCache {
	return &GameCache{store: store}
}

// CacheLevel stores the level being played.
func (c *GameCache) CacheLevel(ctx context.Context, level model.Level) error {
	return c.put(ctx, keyLevel, level)
}

// Level returns the cached level.
func (c *GameCache) Level(ctx context.Context) (model.Level, bool, error) {
	var level model.Level
	ok, err := c.get(ctx, keyLevel, &level)
	return level, ok, err
}

// ClearLevel drops the cached level.
func (c *GameCache) ClearLevel(ctx context.Context) error {
	return c.store.Clear(ctx, keyLevel)
}

// CacheRound adds a round, replacing any round with the same index, and keeps
// rounds ordered by index.
func (c *GameCache) CacheRound(ctx context.Context, round model.Round) error {
	rounds, err := c.Rounds(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range rounds {
		if rounds[i].Index == round.Index {
			rounds[i] = round
			replaced = true
			break
		}
	}
	if !replaced {
		rounds = append(rounds, round)
	}
	sort.SliceStable(rounds, func(i, j int) bool {
		return rounds[i].Index < rounds[j].Index
	})
	return c.put(ctx, keyRounds, rounds)
}

// Rounds returns the cached rounds, empty when none were cached.
func (c *GameCache) Rounds(ctx context.Context) ([]model.Round, error) {
	var rounds []model.Round
	if _, err := c.get(ctx, keyRounds, &rounds); err != nil {
		return nil, err
	}
	return rounds, nil
}

// ReplaceRounds overwrites all cached rounds.
func (c *GameCache) ReplaceRounds(ctx context.Context, rounds []model.Round) error {
	return c.put(ctx, keyRounds, rounds)
}

// ClearRounds drops the cached rounds.
func (c *GameCache) ClearRounds(ctx context.Context) error {
	return c.store.Clear(ctx, keyRounds)
}

// User returns the cached player.
func (c *GameCache) User(ctx context.Context) (model.User, bool, error) {
	var user model.User
	ok, err := c.get(ctx, keyUser, &user)
	return user, ok, err
}

// SetUser stores the player.
func (c *GameCache) SetUser(ctx context.Context, user model.User) error {
	return c.put(ctx, keyUser, user)
}

// ClearAll drops everything in the underlying store.
func (c *GameCache) ClearAll(ctx context.Context) error {
	return c.store.ClearAll(ctx)
}

func (c *GameCache) put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode cached %s: %w", key, err)
	}
	if err := c.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("failed to cache %s: %w", key, err)
	}
	return nil
}

func (c *GameCache) get(ctx context.Context, key string, v any) (bool, error) {
	data, ok, err := c.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to read cached %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return true, nil
}

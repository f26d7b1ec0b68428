// Package gamefile reads finished games exported as YAML or JSON.
package gamefile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/taboo/internal/model"
)

const defaultPlayer = "anonymous"

type gameFile struct {
	ID         string        `yaml:"id"`
	Player     string        `yaml:"player"`
	Level      string        `yaml:"level"`
	Difficulty int           `yaml:"difficulty"`
	CreatedAt  string        `yaml:"created_at"`
	Rounds     []model.Round `yaml:"rounds"`
}

// Decode parses a game document. JSON input is accepted as YAML.
func Decode(data []byte) (model.Game, error) {
	var f gameFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return model.Game{}, fmt.Errorf("failed to decode game: %w", err)
	}
	level := strings.TrimSpace(f.Level)
	if level == "" {
		return model.Game{}, fmt.Errorf("game has no level")
	}
	if len(f.Rounds) == 0 {
		return model.Game{}, fmt.Errorf("game %q has no rounds", level)
	}
	difficulty := model.Difficulty(f.Difficulty)
	if difficulty == 0 {
		difficulty = model.Easy
	}
	if difficulty < model.Easy || difficulty > model.Hard {
		return model.Game{}, fmt.Errorf("invalid difficulty %d", f.Difficulty)
	}

	game := model.Game{
		ID:         strings.TrimSpace(f.ID),
		Player:     strings.TrimSpace(f.Player),
		Level:      level,
		Difficulty: difficulty,
		Rounds:     make([]model.Round, len(f.Rounds)),
	}
	if game.Player == "" {
		game.Player = defaultPlayer
	}
	if f.CreatedAt != "" {
		created, err := time.Parse(time.RFC3339, f.CreatedAt)
		if err != nil {
			return model.Game{}, fmt.Errorf("invalid created_at: %w", err)
		}
		game.CreatedAt = created
	}

	for i, r := range f.Rounds {
		if strings.TrimSpace(r.Target) == "" {
			return model.Game{}, fmt.Errorf("round %d has no target", i+1)
		}
		if r.CompletionSeconds < 0 {
			return model.Game{}, fmt.Errorf("round %d has negative completion time", i+1)
		}
		r.Index = i
		if r.Difficulty == 0 {
			r.Difficulty = difficulty
		}
		game.Rounds[i] = r
	}
	return game, nil
}

// Load reads and decodes a single game file.
func Load(path string) (model.Game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Game{}, fmt.Errorf("failed to read game file: %w", err)
	}
	game, err := Decode(data)
	if err != nil {
		return model.Game{}, fmt.Errorf("%s: %w", path, err)
	}
	return game, nil
}

// Expand resolves glob patterns (with ** support) into a sorted, de-duplicated
// list of game files. A pattern matching nothing is an error.
func Expand(patterns []string) ([]string, error) {
	seen := map[string]struct{}{}
	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		found := 0
		for _, m := range matches {
			if !Supported(m) {
				continue
			}
			found++
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			paths = append(paths, m)
		}
		if found == 0 {
			return nil, fmt.Errorf("no game files match %q", pattern)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Supported reports whether path has a game file extension.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}

// Package level loads topic word lists.
package level

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/taboo/internal/model"
)

// ErrNotFound is returned when no level file matches a name.
var ErrNotFound = errors.New("level not found")

var extensions = []string{".yaml", ".yml", ".txt"}

type levelFile struct {
	Name       string   `yaml:"name"`
	Difficulty int      `yaml:"difficulty"`
	Words      []string `yaml:"words"`
}

// Load reads a level from a .yaml/.yml or .txt file. Text files hold one word
// per line and default to Easy; the file name is the level name when none is set.
func Load(path string) (model.Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Level{}, err
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var lvl model.Level
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var f levelFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return model.Level{}, fmt.Errorf("failed to parse level %s: %w", path, err)
		}
		lvl = model.Level{Name: f.Name, Difficulty: model.Difficulty(f.Difficulty), Words: f.Words}
	case ".txt":
		words, err := readLines(data)
		if err != nil {
			return model.Level{}, fmt.Errorf("failed to read level %s: %w", path, err)
		}
		lvl = model.Level{Words: words}
	default:
		return model.Level{}, fmt.Errorf("unsupported level file %s", path)
	}

	if lvl.Name == "" {
		lvl.Name = base
	}
	if lvl.Difficulty == 0 {
		lvl.Difficulty = model.Easy
	}
	lvl.Words = Filter(lvl.Words)
	if len(lvl.Words) == 0 {
		return model.Level{}, fmt.Errorf("level %s has no playable words", lvl.Name)
	}
	return lvl, nil
}

func readLines(data []byte) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// List loads every level in dir, sorted by name. A missing dir yields no levels.
func List(dir string) ([]model.Level, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var levels []model.Level
	for _, entry := range entries {
		if entry.IsDir() || !supported(entry.Name()) {
			continue
		}
		lvl, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		levels = append(levels, lvl)
	}
	sort.Slice(levels, func(i, j int) bool {
		return levels[i].Name < levels[j].Name
	})
	return levels, nil
}

// Find returns the level named name (case-insensitive) from dir.
func Find(dir, name string) (model.Level, error) {
	levels, err := List(dir)
	if err != nil {
		return model.Level{}, err
	}
	for _, lvl := range levels {
		if strings.EqualFold(lvl.Name, name) {
			return lvl, nil
		}
	}
	return model.Level{}, fmt.Errorf("%q: %w", name, ErrNotFound)
}

func supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// DisplayName turns a level name such as "world_capitals" or "worldCapitals"
// into "World Capitals". Empty names are "Unknown".
func DisplayName(name string) string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(runes[i-1]) {
			flush()
		}
		cur = append(cur, r)
	}
	flush()
	if len(words) == 0 {
		return "Unknown"
	}
	for i, w := range words {
		rs := []rune(w)
		rs[0] = unicode.ToUpper(rs[0])
		words[i] = string(rs)
	}
	return strings.Join(words, " ")
}

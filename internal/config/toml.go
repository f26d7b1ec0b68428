// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Game    GameConfig    `toml:"game"`
	Scoring ScoringConfig `toml:"scoring"`
	Cache   CacheConfig   `toml:"cache"`
	Judge   JudgeConfig   `toml:"judge"`
	Server  ServerConfig  `toml:"server"`
	Log     LogConfig     `toml:"log"`
}

// GameConfig maps game-related settings.
type GameConfig struct {
	Player    *string `toml:"player"`
	Rounds    *int    `toml:"rounds"`
	LevelsDir *string `toml:"levels-dir"`
	Fresh     *bool   `toml:"fresh"`
}

// ScoringConfig maps scoring settings.
type ScoringConfig struct {
	DefaultClueScore *float64 `toml:"default-clue-score"`
}

// CacheConfig selects where an unfinished game is kept.
type CacheConfig struct {
	Backend       *string `toml:"backend"`
	RedisAddr     *string `toml:"redis-addr"`
	RedisPassword *string `toml:"redis-password"`
	RedisDB       *int    `toml:"redis-db"`
	RedisPrefix   *string `toml:"redis-prefix"`
}

// JudgeConfig maps AI judge settings. The API key only comes from the environment.
type JudgeConfig struct {
	Model       *string `toml:"model"`
	BaseURL     *string `toml:"base-url"`
	Attempts    *int    `toml:"attempts"`
	Retries     *int    `toml:"retries"`
	Concurrency *int    `toml:"concurrency"`
}

// ServerConfig maps HTTP API settings.
type ServerConfig struct {
	Addr *string `toml:"addr"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Mode *string `toml:"mode"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

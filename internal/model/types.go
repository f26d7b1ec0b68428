// Package model defines shared data structures.
package model

import (
	"strconv"
	"time"
)

// Difficulty is the tier of a topic.
type Difficulty int

// Difficulty tiers.
const (
	Easy   Difficulty = 1
	Medium Difficulty = 2
	Hard   Difficulty = 3
)

// String returns the tier name, or "Unknown".
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "Easy"
	case Medium:
		return "Medium"
	case Hard:
		return "Hard"
	default:
		return "Unknown"
	}
}

// Label returns the tier name, optionally followed by the number in brackets.
func (d Difficulty) Label(withNumber bool) string {
	if !withNumber {
		return d.String()
	}
	return d.String() + " (" + strconv.Itoa(int(d)) + ")"
}

// Highlight is a [Start, End) character range inside a response.
type Highlight struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Level is a topic with its target words.
type Level struct {
	Name       string     `json:"name" yaml:"name"`
	Difficulty Difficulty `json:"difficulty" yaml:"difficulty"`
	Words      []string   `json:"words" yaml:"words"`
}

// Round is a single played target word.
type Round struct {
	Index             int         `json:"index" yaml:"index"`
	Target            string      `json:"target" yaml:"target"`
	Question          string      `json:"question" yaml:"question"`
	Response          string      `json:"response" yaml:"response"`
	CompletionSeconds float64     `json:"completion" yaml:"completion"`
	Difficulty        Difficulty  `json:"difficulty" yaml:"difficulty"`
	AIScore           *float64    `json:"ai_score,omitempty" yaml:"ai_score,omitempty"`
	AIExplanation     string      `json:"ai_explanation,omitempty" yaml:"ai_explanation,omitempty"`
	Highlights        []Highlight `json:"highlights,omitempty" yaml:"highlights,omitempty"`
}

// Game is a finished sequence of rounds on one level.
type Game struct {
	ID         string     `json:"id" yaml:"id"`
	Player     string     `json:"player" yaml:"player"`
	Level      string     `json:"level" yaml:"level"`
	Difficulty Difficulty `json:"difficulty" yaml:"difficulty"`
	CreatedAt  time.Time  `json:"created_at" yaml:"created_at"`
	Rounds     []Round    `json:"rounds" yaml:"rounds"`
}

// GameAggregate summarizes a stored game for listings.
type GameAggregate struct {
	ID           string     `json:"id"`
	Player       string     `json:"player"`
	Level        string     `json:"level"`
	Difficulty   Difficulty `json:"difficulty"`
	CreatedAt    time.Time  `json:"created_at"`
	RoundCount   int        `json:"round_count"`
	TotalScore   float64    `json:"total_score"`
	TotalSeconds float64    `json:"total_seconds"`
}

// GameFilter narrows game listings.
type GameFilter struct {
	Level  string
	Player string
	Since  *time.Time
	Limit  int
	Offset int
}

// User identifies the local player.
type User struct {
	Nickname    string `json:"nickname"`
	RecoveryKey string `json:"recovery_key,omitempty"`
}

// Chat is one message of a round conversation.
type Chat struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

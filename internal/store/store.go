// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/verte-zerg/taboo/internal/highlight"
	"github.com/verte-zerg/taboo/internal/model"
	"github.com/verte-zerg/taboo/internal/scoring"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when a game does not exist.
var ErrNotFound = errors.New("not found")

// Store wraps SQLite access for games and cached state.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			player TEXT NOT NULL,
			level TEXT NOT NULL,
			difficulty INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			total_score REAL NOT NULL,
			total_seconds REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS rounds (
			game_id TEXT NOT NULL,
			idx INTEGER NOT NULL,
			target TEXT NOT NULL,
			question TEXT NOT NULL,
			response TEXT NOT NULL,
			completion REAL NOT NULL,
			difficulty INTEGER NOT NULL,
			ai_score REAL,
			ai_explanation TEXT NOT NULL,
			PRIMARY KEY (game_id, idx)
		);`,
		`CREATE TABLE IF NOT EXISTS highlights (
			game_id TEXT NOT NULL,
			round_idx INTEGER NOT NULL,
			start_pos INTEGER NOT NULL,
			end_pos INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS cache_entries (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_games_level ON games(level);`,
		`CREATE INDEX IF NOT EXISTS idx_games_player ON games(player);`,
		`CREATE INDEX IF NOT EXISTS idx_games_total_score ON games(total_score);`,
		`CREATE INDEX IF NOT EXISTS idx_highlights_round ON highlights(game_id, round_idx);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertGame stores a finished game with its rounds and sanitized highlights.
// An empty ID gets a fresh UUID and a zero CreatedAt becomes now.
func (s *Store) InsertGame(ctx context.Context, game model.Game, total scoring.GameTotal) (string, error) {
	if game.ID == "" {
		game.ID = uuid.NewString()
	}
	if game.CreatedAt.IsZero() {
		game.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO games (id, player, level, difficulty, created_at, total_score, total_seconds)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		game.ID,
		game.Player,
		game.Level,
		int(game.Difficulty),
		game.CreatedAt.UTC().Format(timeLayout),
		total.Score,
		total.Seconds,
	)
	if err != nil {
		return "", err
	}

	for _, r := range game.Rounds {
		var aiScore sql.NullFloat64
		if r.AIScore != nil {
			aiScore = sql.NullFloat64{Float64: *r.AIScore, Valid: true}
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO rounds (game_id, idx, target, question, response, completion, difficulty, ai_score, ai_explanation)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			game.ID, r.Index, r.Target, r.Question, r.Response, r.CompletionSeconds, int(r.Difficulty), aiScore, r.AIExplanation,
		)
		if err != nil {
			return "", err
		}
		ranges := highlight.Sanitize(highlight.Clamp(r.Highlights, utf8.RuneCountInString(r.Response)))
		for _, h := range ranges {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO highlights (game_id, round_idx, start_pos, end_pos) VALUES (?, ?, ?, ?)`,
				game.ID, r.Index, h.Start, h.End,
			)
			if err != nil {
				return "", err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return "", err
	}
	return game.ID, nil
}

// GetGame loads a game with its rounds and highlights.
func (s *Store) GetGame(ctx context.Context, id string) (model.Game, error) {
	var game model.Game
	var createdAt string
	var difficulty int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, player, level, difficulty, created_at FROM games WHERE id = ?`, id,
	).Scan(&game.ID, &game.Player, &game.Level, &difficulty, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Game{}, fmt.Errorf("game %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Game{}, err
	}
	game.Difficulty = model.Difficulty(difficulty)
	if game.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return model.Game{}, err
	}

	rounds, err := s.listRounds(ctx, id)
	if err != nil {
		return model.Game{}, err
	}
	highlights, err := s.listHighlights(ctx, id)
	if err != nil {
		return model.Game{}, err
	}
	for i := range rounds {
		rounds[i].Highlights = highlights[rounds[i].Index]
	}
	game.Rounds = rounds
	return game, nil
}

func (s *Store) listRounds(ctx context.Context, gameID string) ([]model.Round, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, target, question, response, completion, difficulty, ai_score, ai_explanation
		 FROM rounds WHERE game_id = ? ORDER BY idx ASC`, gameID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var rounds []model.Round
	for rows.Next() {
		var r model.Round
		var difficulty int
		var aiScore sql.NullFloat64
		if err := rows.Scan(&r.Index, &r.Target, &r.Question, &r.Response, &r.CompletionSeconds, &difficulty, &aiScore, &r.AIExplanation); err != nil {
			return nil, err
		}
		r.Difficulty = model.Difficulty(difficulty)
		if aiScore.Valid {
			r.AIScore = model.Float(aiScore.Float64)
		}
		rounds = append(rounds, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rounds, nil
}

func (s *Store) listHighlights(ctx context.Context, gameID string) (map[int][]model.Highlight, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT round_idx, start_pos, end_pos FROM highlights WHERE game_id = ? ORDER BY round_idx, start_pos`, gameID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	result := map[int][]model.Highlight{}
	for rows.Next() {
		var idx int
		var h model.Highlight
		if err := rows.Scan(&idx, &h.Start, &h.End); err != nil {
			return nil, err
		}
		result[idx] = append(result[idx], h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListGames returns game aggregates matching the filter, newest first.
func (s *Store) ListGames(ctx context.Context, filter model.GameFilter) ([]model.GameAggregate, error) {
	return s.queryGames(ctx, filter, "created_at DESC")
}

// BestGames returns game aggregates matching the filter, highest total first.
func (s *Store) BestGames(ctx context.Context, filter model.GameFilter) ([]model.GameAggregate, error) {
	return s.queryGames(ctx, filter, "total_score DESC, created_at ASC")
}

func (s *Store) queryGames(ctx context.Context, filter model.GameFilter, order string) ([]model.GameAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Level != "" {
		clauses = append(clauses, "g.level = ?")
		args = append(args, filter.Level)
	}
	if filter.Player != "" {
		clauses = append(clauses, "g.player = ?")
		args = append(args, filter.Player)
	}
	if filter.Since != nil {
		clauses = append(clauses, "g.created_at >= ?")
		args = append(args, filter.Since.UTC().Format(timeLayout))
	}
	limit := -1
	if filter.Limit > 0 {
		limit = filter.Limit
	}
	offset := 0
	if filter.Offset > 0 {
		offset = filter.Offset
	}
	args = append(args, limit, offset)

	query := fmt.Sprintf(`SELECT g.id, g.player, g.level, g.difficulty, g.created_at, g.total_score, g.total_seconds,
		(SELECT COUNT(*) FROM rounds r WHERE r.game_id = g.id) AS round_count
		FROM games g
		WHERE %s
		ORDER BY %s
		LIMIT ? OFFSET ?`, strings.Join(clauses, " AND "), order)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var games []model.GameAggregate
	for rows.Next() {
		var agg model.GameAggregate
		var createdAt string
		var difficulty int
		if err := rows.Scan(&agg.ID, &agg.Player, &agg.Level, &difficulty, &createdAt, &agg.TotalScore, &agg.TotalSeconds, &agg.RoundCount); err != nil {
			return nil, err
		}
		agg.Difficulty = model.Difficulty(difficulty)
		parsed, err := time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, err
		}
		agg.CreatedAt = parsed
		games = append(games, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

// DeleteGame removes a game and everything attached to it.
func (s *Store) DeleteGame(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()
	var res sql.Result
	res, err = tx.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return err
	}
	var n int64
	if n, err = res.RowsAffected(); err != nil {
		return err
	}
	if n == 0 {
		err = fmt.Errorf("game %s: %w", id, ErrNotFound)
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM rounds WHERE game_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM highlights WHERE game_id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// PlayedTargets counts how often player has had each target word.
func (s *Store) PlayedTargets(ctx context.Context, player string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.target, COUNT(*) FROM rounds r JOIN games g ON g.id = r.game_id
		 WHERE g.player = ? GROUP BY r.target`, player)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	counts := map[string]int{}
	for rows.Next() {
		var target string
		var n int
		if err := rows.Scan(&target, &n); err != nil {
			return nil, err
		}
		counts[target] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

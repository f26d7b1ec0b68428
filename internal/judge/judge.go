// Package judge asks an AI model to rate the clues of each round.
package judge

import (
	"context"
	"fmt"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/taboo/internal/logger"
	"github.com/verte-zerg/taboo/internal/model"
)

// FallbackExplanation is stored when no evaluation succeeded.
const FallbackExplanation = "Sorry, the AI judge could not evaluate this round, so it received the neutral score of 50. " +
	"This score does not reflect the quality of your clues."

// Evaluation is one judge verdict for a round.
type Evaluation struct {
	Score     float64  `json:"score"`
	Reasoning string   `json:"reasoning"`
	Examples  []string `json:"examples"`
}

// Judge rates how well a conversation hinted at target.
type Judge interface {
	Evaluate(ctx context.Context, target string, conversation []model.Chat) (Evaluation, error)
}

// Options controls JudgeRounds.
type Options struct {
	// Attempts is the number of independent evaluations per round; the best wins.
	Attempts int
	// Retries is how many times a failed evaluation is repeated.
	Retries int
	// Concurrency bounds the number of rounds judged at once.
	Concurrency         int
	FallbackScore       float64
	FallbackExplanation string
	Logger              *logger.Logger
}

// DefaultOptions returns three attempts with five retries each and a neutral fallback.
func DefaultOptions() Options {
	return Options{
		Attempts:            3,
		Retries:             5,
		Concurrency:         4,
		FallbackScore:       50,
		FallbackExplanation: FallbackExplanation,
	}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.Attempts <= 0 {
		o.Attempts = def.Attempts
	}
	if o.Retries < 0 {
		o.Retries = 0
	}
	if o.Concurrency <= 0 {
		o.Concurrency = def.Concurrency
	}
	if o.FallbackExplanation == "" {
		o.FallbackExplanation = def.FallbackExplanation
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	return o
}

// JudgeRounds fills the AI score of every round that has none and returns the
// updated copy. Rounds that already carry a score and an explanation are left
// alone. Failed rounds get the fallback score; only context cancellation is an
// error.
func JudgeRounds(ctx context.Context, j Judge, rounds []model.Round, opts Options) ([]model.Round, error) {
	opts = opts.normalized()
	out := make([]model.Round, len(rounds))
	copy(out, rounds)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i := range out {
		if judged(out[i]) {
			continue
		}
		i := i
		g.Go(func() error {
			eval, ok, err := bestOf(gctx, j, out[i], opts)
			if err != nil {
				return err
			}
			if !ok {
				opts.Logger.Warn("judge fallback", "round", out[i].Index, "target", out[i].Target)
				out[i].AIScore = model.Float(opts.FallbackScore)
				out[i].AIExplanation = opts.FallbackExplanation
				return nil
			}
			out[i].AIScore = model.Float(eval.Score)
			out[i].AIExplanation = eval.Reasoning
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to judge rounds: %w", err)
	}
	return out, nil
}

func judged(r model.Round) bool {
	return r.AIScore != nil && r.AIExplanation != ""
}

func bestOf(ctx context.Context, j Judge, r model.Round, opts Options) (Evaluation, bool, error) {
	var best Evaluation
	found := false
	conversation := RoundConversation(r)
	for attempt := 0; attempt < opts.Attempts; attempt++ {
		eval, ok, err := evaluateWithRetry(ctx, j, r.Target, conversation, opts)
		if err != nil {
			return Evaluation{}, false, err
		}
		if !ok {
			continue
		}
		if !found || eval.Score > best.Score {
			best = eval
			found = true
		}
	}
	return best, found, nil
}

func evaluateWithRetry(ctx context.Context, j Judge, target string, conversation []model.Chat, opts Options) (Evaluation, bool, error) {
	for try := 0; try <= opts.Retries; try++ {
		if err := ctx.Err(); err != nil {
			return Evaluation{}, false, err
		}
		eval, err := j.Evaluate(ctx, target, conversation)
		if err == nil && validScore(eval.Score) {
			return eval, true, nil
		}
		if err == nil {
			err = fmt.Errorf("score %v out of range", eval.Score)
		}
		opts.Logger.Debug("judge evaluation failed", "target", target, "try", try, "error", err)
	}
	return Evaluation{}, false, nil
}

func validScore(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 100
}

// RoundConversation turns a stored round into the chat the judge reads.
func RoundConversation(r model.Round) []model.Chat {
	var chats []model.Chat
	if r.Question != "" {
		chats = append(chats, model.Chat{Role: "user", Content: r.Question})
	}
	if r.Response != "" {
		chats = append(chats, model.Chat{Role: "assistant", Content: r.Response})
	}
	return chats
}

// ConversationFeed flattens chats into "P:..||G:.." form, skipping system and
// error messages.
func ConversationFeed(chats []model.Chat) string {
	parts := make([]string, 0, len(chats))
	for _, c := range chats {
		switch c.Role {
		case "error", "system":
			continue
		case "user":
			parts = append(parts, "P:"+c.Content)
		default:
			parts = append(parts, "G:"+c.Content)
		}
	}
	return strings.Join(parts, "||")
}

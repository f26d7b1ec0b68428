package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/verte-zerg/taboo/internal/model"
)

const (
	defaultModel   = "openai/gpt-4o-mini"
	defaultBaseURL = "https://openrouter.ai"
	requestTimeout = 60 * time.Second
)

const instruction = "You judge a game of Taboo. The player (P) gives clues so the guesser (G) says the target word. " +
	"Rate from 0 to 100 how relevant, creative and efficient the clues are for the target. " +
	`Answer with JSON only: {"score": number, "reasoning": string, "examples": [string]}.`

// OpenRouter is a Judge backed by an OpenAI-compatible chat completions API.
type OpenRouter struct {
	key     string
	model   string
	baseURL string
	client  *http.Client
}

// NewOpenRouter returns an adapter. Empty model and base URL use defaults.
func NewOpenRouter(apiKey, model, baseURL string) *OpenRouter {
	if model == "" {
		model = defaultModel
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &OpenRouter{key: apiKey, model: model, baseURL: baseURL, client: &http.Client{Timeout: 2 * time.Minute}}
}

// Evaluate implements Judge.
func (a *OpenRouter) Evaluate(ctx context.Context, target string, conversation []model.Chat) (Evaluation, error) {
	payload := map[string]any{
		"model":  a.model,
		"stream": false,
		"messages": []map[string]any{
			{"role": "system", "content": instruction},
			{"role": "user", "content": fmt.Sprintf("Target: %s\nConversation: %s", target, ConversationFeed(conversation))},
		},
		"response_format": map[string]any{"type": "json_object"},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Evaluation{}, fmt.Errorf("marshal request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, a.baseURL+"/api/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Evaluation{}, err
	}
	if a.key != "" {
		req.Header.Set("Authorization", "Bearer "+a.key)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return Evaluation{}, fmt.Errorf("openrouter timeout after %s (model=%s)", requestTimeout, a.model)
		}
		return Evaluation{}, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort body close.
			_ = cerr
		}
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, readErr := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if readErr != nil {
			return Evaluation{}, fmt.Errorf("openrouter status %d and read body failed: %v", resp.StatusCode, readErr)
		}
		return Evaluation{}, fmt.Errorf("openrouter status %d: %s", resp.StatusCode, truncate(strings.ReplaceAll(string(rb), a.key, "[REDACTED]"), 400))
	}

	var raw struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Evaluation{}, fmt.Errorf("decode response: %w", err)
	}
	if len(raw.Choices) == 0 {
		return Evaluation{}, errors.New("openrouter: no choices")
	}
	return parseEvaluation(raw.Choices[0].Message.Content)
}

func parseEvaluation(content string) (Evaluation, error) {
	clean, err := extractJSONObject(content)
	if err != nil {
		return Evaluation{}, err
	}
	var eval Evaluation
	if err := json.Unmarshal([]byte(clean), &eval); err != nil {
		return Evaluation{}, fmt.Errorf("decode evaluation: %w", err)
	}
	return eval, nil
}

func extractJSONObject(s string) (string, error) {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "```") {
		if i := strings.Index(t, "\n"); i >= 0 {
			t = t[i+1:]
		}
		if j := strings.LastIndex(t, "```"); j >= 0 {
			t = t[:j]
		}
	}
	start := strings.Index(t, "{")
	end := strings.LastIndex(t, "}")
	if start < 0 || end <= start {
		return "", errors.New("openrouter: no JSON object in content")
	}
	return t[start : end+1], nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/verte-zerg/taboo/internal/gamefile"
	"github.com/verte-zerg/taboo/internal/highlight"
	"github.com/verte-zerg/taboo/internal/logger"
	"github.com/verte-zerg/taboo/internal/model"
	"github.com/verte-zerg/taboo/internal/scoring"
	"github.com/verte-zerg/taboo/internal/store"
	"github.com/verte-zerg/taboo/internal/wordparse"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	defaultBest     = 10
)

// GameStore is the persistence the API needs.
type GameStore interface {
	InsertGame(ctx context.Context, game model.Game, total scoring.GameTotal) (string, error)
	GetGame(ctx context.Context, id string) (model.Game, error)
	ListGames(ctx context.Context, filter model.GameFilter) ([]model.GameAggregate, error)
	BestGames(ctx context.Context, filter model.GameFilter) ([]model.GameAggregate, error)
}

// Handler serves the API endpoints.
type Handler struct {
	log   *logger.Logger
	games GameStore
	calc  scoring.Calculator
}

// NewHandler builds a Handler.
func NewHandler(log *logger.Logger, games GameStore, calc scoring.Calculator) *Handler {
	return &Handler{
		log:   log.With("component", "api"),
		games: games,
		calc:  calc,
	}
}

type scoreRequest struct {
	Rounds []model.Round `json:"rounds"`
}

type scoreResponse struct {
	Rounds []scoring.Breakdown `json:"rounds"`
	Total  scoring.GameTotal   `json:"total"`
}

type highlightRequest struct {
	Text   string            `json:"text"`
	Ranges []model.Highlight `json:"ranges"`
}

type parseRequest struct {
	Text   string `json:"text"`
	Target string `json:"target"`
}

type gameResponse struct {
	Game   model.Game          `json:"game"`
	Rounds []scoring.Breakdown `json:"rounds"`
	Total  scoring.GameTotal   `json:"total"`
}

func respondError(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Score returns the breakdown of every round and the game total.
func (h *Handler) Score(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if len(req.Rounds) == 0 {
		respondError(c, http.StatusBadRequest, errors.New("rounds are required"))
		return
	}
	c.JSON(http.StatusOK, h.scoreRounds(req.Rounds))
}

func (h *Handler) scoreRounds(rounds []model.Round) scoreResponse {
	resp := scoreResponse{Rounds: make([]scoring.Breakdown, len(rounds))}
	for i, r := range rounds {
		resp.Rounds[i] = h.calc.Breakdown(r)
	}
	resp.Total = h.calc.Total(rounds)
	return resp
}

// Highlights merges ranges and splits text into display segments.
func (h *Handler) Highlights(c *gin.Context) {
	var req highlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	ranges := highlight.Sanitize(highlight.Clamp(req.Ranges, utf8.RuneCountInString(req.Text)))
	c.JSON(http.StatusOK, gin.H{
		"ranges":   ranges,
		"segments": highlight.Segments(req.Text, req.Ranges),
	})
}

// ParseWords extracts a word list from free text.
func (h *Handler) ParseWords(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	words := wordparse.Parse(req.Text, req.Target)
	if words == nil {
		words = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"words": words})
}

// ListGames pages through stored games, newest first.
func (h *Handler) ListGames(c *gin.Context) {
	filter, err := filterFromQuery(c, defaultPageSize)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	page, err := queryInt(c, "page", 1)
	if err != nil || page < 1 {
		respondError(c, http.StatusBadRequest, errors.New("page must be a positive integer"))
		return
	}
	filter.Offset = (page - 1) * filter.Limit

	games, err := h.games.ListGames(c.Request.Context(), filter)
	if err != nil {
		h.log.Error("list games failed", "error", err)
		respondError(c, http.StatusInternalServerError, errors.New("failed to list games"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": nonNil(games), "page": page, "limit": filter.Limit})
}

// BestGames returns the highest scoring games.
func (h *Handler) BestGames(c *gin.Context) {
	filter, err := filterFromQuery(c, defaultBest)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	games, err := h.games.BestGames(c.Request.Context(), filter)
	if err != nil {
		h.log.Error("best games failed", "error", err)
		respondError(c, http.StatusInternalServerError, errors.New("failed to list games"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": nonNil(games)})
}

// GetGame returns a stored game with its score breakdown.
func (h *Handler) GetGame(c *gin.Context) {
	id := c.Param("id")
	game, err := h.games.GetGame(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(c, http.StatusNotFound, fmt.Errorf("game %s not found", id))
			return
		}
		h.log.Error("get game failed", "error", err, "id", id)
		respondError(c, http.StatusInternalServerError, errors.New("failed to load game"))
		return
	}
	scored := h.scoreRounds(game.Rounds)
	c.JSON(http.StatusOK, gameResponse{Game: game, Rounds: scored.Rounds, Total: scored.Total})
}

// SaveGame stores a finished game and returns its id and total.
func (h *Handler) SaveGame(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	game, err := gamefile.Decode(data)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	total := h.calc.Total(game.Rounds)
	id, err := h.games.InsertGame(c.Request.Context(), game, total)
	if err != nil {
		h.log.Error("save game failed", "error", err)
		respondError(c, http.StatusInternalServerError, errors.New("failed to save game"))
		return
	}
	h.log.Info("game saved", "id", id, "level", game.Level, "score", total.Score)
	c.JSON(http.StatusCreated, gin.H{"id": id, "total": total})
}

func filterFromQuery(c *gin.Context, defaultLimit int) (model.GameFilter, error) {
	limit, err := queryInt(c, "limit", defaultLimit)
	if err != nil || limit < 1 || limit > maxPageSize {
		return model.GameFilter{}, fmt.Errorf("limit must be between 1 and %d", maxPageSize)
	}
	filter := model.GameFilter{
		Level:  c.Query("level"),
		Player: c.Query("player"),
		Limit:  limit,
	}
	if v := c.Query("since"); v != "" {
		since, err := time.ParseInLocation("2006-01-02", v, time.UTC)
		if err != nil {
			return model.GameFilter{}, fmt.Errorf("since must be YYYY-MM-DD")
		}
		filter.Since = &since
	}
	return filter, nil
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	v := c.Query(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func nonNil(games []model.GameAggregate) []model.GameAggregate {
	if games == nil {
		return []model.GameAggregate{}
	}
	return games
}

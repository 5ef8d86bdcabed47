package http

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/connect4-matrix/internal/service/game"
	"github.com/iamasit07/connect4-matrix/internal/transport/websocket"
)

const (
	defaultRoundLimit = 20
	maxRoundLimit     = 100
)

type RoundLister interface {
	ListRecentRounds(ctx context.Context, limit int) ([]game.RoundSummary, error)
}

type ScoreTotals interface {
	GetScores(ctx context.Context, names ...string) (map[string]int64, error)
}

// SpectatorHandler serves read-only views of the match from the hub cache
// and, when configured, the persistent stores.
type SpectatorHandler struct {
	Hub    *websocket.Hub
	Conns  *websocket.ConnectionManager
	Rounds RoundLister
	Totals ScoreTotals
}

func NewSpectatorHandler(hub *websocket.Hub, conns *websocket.ConnectionManager, rounds RoundLister, totals ScoreTotals) *SpectatorHandler {
	return &SpectatorHandler{Hub: hub, Conns: conns, Rounds: rounds, Totals: totals}
}

func (h *SpectatorHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"spectators": h.Conns.Count(),
	})
}

func (h *SpectatorHandler) GetBoard(c *gin.Context) {
	frame, ok := h.Hub.Frame()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No board yet"})
		return
	}
	c.JSON(http.StatusOK, frame)
}

type scoresResponse struct {
	Session []game.Player    `json:"session"`
	Totals  map[string]int64 `json:"totals,omitempty"`
}

func (h *SpectatorHandler) GetScores(c *gin.Context) {
	resp := scoresResponse{Session: h.Hub.Scores()}

	if h.Totals != nil && len(resp.Session) > 0 {
		names := make([]string, len(resp.Session))
		for i, p := range resp.Session {
			names[i] = p.Name
		}
		totals, err := h.Totals.GetScores(c.Request.Context(), names...)
		if err != nil {
			log.Printf("[REDIS] Failed to read score totals: %v", err)
		} else {
			resp.Totals = totals
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (h *SpectatorHandler) GetRounds(c *gin.Context) {
	limit := defaultRoundLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxRoundLimit)
	}

	if h.Rounds == nil {
		c.JSON(http.StatusOK, h.Hub.RecentRounds(limit))
		return
	}

	rounds, err := h.Rounds.ListRecentRounds(c.Request.Context(), limit)
	if err != nil {
		log.Printf("[POSTGRES] Failed to list rounds: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rounds"})
		return
	}
	c.JSON(http.StatusOK, rounds)
}

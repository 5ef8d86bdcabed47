package websocket

import (
	"sync"

	"github.com/iamasit07/connect4-matrix/internal/service/game"
)

// Message types sent to spectators
const (
	TypeWelcome       = "welcome"
	TypeBoard         = "board"
	TypeRoundFinished = "round_finished"
	TypeScores        = "scores"
)

type ServerMessage struct {
	Type     string             `json:"type"`
	ClientID string             `json:"clientId,omitempty"`
	Frame    *game.Frame        `json:"frame,omitempty"`
	Round    *game.RoundSummary `json:"round,omitempty"`
	Scores   []game.Player      `json:"scores,omitempty"`
}

// recentRounds bounds the in-memory round list served without a database.
const recentRounds = 20

// Hub mirrors the match for spectators. It is registered as a match listener
// and keeps the latest frame so late joiners and HTTP handlers never touch
// the match itself.
type Hub struct {
	conns *ConnectionManager

	mu     sync.RWMutex
	frame  *game.Frame
	scores []game.Player
	rounds []game.RoundSummary
}

func NewHub(conns *ConnectionManager) *Hub {
	return &Hub{conns: conns}
}

func (h *Hub) BoardChanged(frame game.Frame) {
	h.mu.Lock()
	h.frame = &frame
	h.mu.Unlock()

	h.conns.BroadcastMessage(ServerMessage{Type: TypeBoard, Frame: &frame})
}

func (h *Hub) RoundFinished(summary game.RoundSummary) {
	h.mu.Lock()
	h.scores = summary.Scores
	h.rounds = append(h.rounds, summary)
	if len(h.rounds) > recentRounds {
		h.rounds = h.rounds[len(h.rounds)-recentRounds:]
	}
	h.mu.Unlock()

	h.conns.BroadcastMessage(ServerMessage{Type: TypeRoundFinished, Round: &summary, Scores: summary.Scores})
}

func (h *Hub) ScoresChanged(scores []game.Player) {
	h.mu.Lock()
	h.scores = scores
	h.mu.Unlock()
	h.conns.BroadcastMessage(ServerMessage{Type: TypeScores, Scores: scores})
}

// SetScores seeds the score table before the first round finishes.
func (h *Hub) SetScores(scores []game.Player) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.scores = scores
}

// Frame returns the latest board frame, if any.
func (h *Hub) Frame() (game.Frame, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.frame == nil {
		return game.Frame{}, false
	}
	return *h.frame, true
}

func (h *Hub) Scores() []game.Player {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]game.Player(nil), h.scores...)
}

// RecentRounds returns up to limit finished rounds, newest first.
func (h *Hub) RecentRounds(limit int) []game.RoundSummary {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]game.RoundSummary, 0, min(limit, len(h.rounds)))
	for i := len(h.rounds) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, h.rounds[i])
	}
	return out
}

func (h *Hub) welcome(id string) ServerMessage {
	h.mu.RLock()
	defer h.mu.RUnlock()
	msg := ServerMessage{Type: TypeWelcome, ClientID: id, Scores: h.scores}
	if h.frame != nil {
		f := *h.frame
		msg.Frame = &f
	}
	return msg
}

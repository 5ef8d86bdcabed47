package game

import (
	"errors"
	"time"

	"github.com/iamasit07/connect4-matrix/internal/domain"
)

var (
	ErrNoRound         = errors.New("no round in progress")
	ErrRoundInProgress = errors.New("round already in progress")
	ErrNotHumanTurn    = errors.New("it is the AI's turn")
	ErrNotAITurn       = errors.New("it is not the AI's turn")
	ErrUndoWithAI      = errors.New("undo is only available without the AI")
)

// Round end reasons
const (
	ReasonConnectFour = "connect_four"
	ReasonDraw        = "draw"
	ReasonAbandoned   = "abandoned"
)

const AIName = "AI"

// Player is one seat at the table with its running score.
type Player struct {
	Name  string      `json:"name"`
	Tile  domain.Tile `json:"tile"`
	Score int         `json:"score"`
	Bot   bool        `json:"bot"`
}

// Move describes a single placement.
type Move struct {
	Number int         `json:"number"`
	Column int         `json:"column"`
	Row    int         `json:"row"`
	Tile   domain.Tile `json:"tile"`
	Player string      `json:"player"`
}

// Frame is what a renderer needs to draw the grid, indicator row included.
type Frame struct {
	RoundID  string          `json:"roundId,omitempty"`
	Board    [][]domain.Tile `json:"board"`
	Selected int             `json:"selected"`
	Active   string          `json:"active"`
	Move     *Move           `json:"move,omitempty"`
}

// RoundSummary is published once per finished or abandoned round.
type RoundSummary struct {
	RoundID    string          `json:"roundId"`
	Player1    string          `json:"player1"`
	Player2    string          `json:"player2"`
	Winner     string          `json:"winner,omitempty"`
	WinnerTile domain.Tile     `json:"winnerTile"`
	Reason     string          `json:"reason"`
	Moves      int             `json:"moves"`
	Line       []domain.Cell   `json:"line,omitempty"`
	Board      [][]domain.Tile `json:"board"`
	Scores     []Player        `json:"scores"`
	StartedAt  time.Time       `json:"startedAt"`
	FinishedAt time.Time       `json:"finishedAt"`
}

// TurnResult is returned after every accepted placement.
type TurnResult struct {
	Move    Move
	Outcome domain.Outcome
}

// Listener receives board and round updates. Calls are made synchronously
// from the goroutine driving the match.
type Listener interface {
	BoardChanged(frame Frame)
	RoundFinished(summary RoundSummary)
	// ScoresChanged is called when scores change outside a finished round.
	ScoresChanged(scores []Player)
}

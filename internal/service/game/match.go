package game

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/iamasit07/connect4-matrix/internal/domain"
	"github.com/iamasit07/connect4-matrix/internal/service/bot"
	"github.com/iamasit07/connect4-matrix/pkg/uid"
)

type Options struct {
	Width       int
	Height      int
	Player1Name string
	Player2Name string
	AIEnabled   bool
	Rand        *rand.Rand
	Listeners   []Listener
}

// Match drives rounds on a single grid: whose turn it is, the AI seat, the
// score per player and notifications to listeners. A Match is meant to be
// driven from one goroutine.
type Match struct {
	grid *domain.Grid

	// advisors by tile; the AI seat uses the Player2 advisor, hints use
	// the active player's
	advisors map[domain.Tile]*bot.Advisor

	player1 *Player
	player2 *Player
	ai      *Player
	active  *Player

	aiEnabled bool

	roundID   string
	roundOpen bool
	moves     int
	startedAt time.Time
	last      *RoundSummary

	listeners []Listener
}

func NewMatch(opts Options) (*Match, error) {
	grid, err := domain.NewGrid(opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	advisors := make(map[domain.Tile]*bot.Advisor, 2)
	for _, tile := range []domain.Tile{domain.Player1, domain.Player2} {
		// each advisor gets its own source so they stay reproducible
		// independently of how often the other is consulted
		a, err := bot.NewAdvisor(opts.Width, opts.Height, tile, rand.New(rand.NewSource(rng.Int63())))
		if err != nil {
			return nil, err
		}
		advisors[tile] = a
	}

	m := &Match{
		grid:      grid,
		advisors:  advisors,
		player1:   &Player{Name: nameOr(opts.Player1Name, "a"), Tile: domain.Player1},
		player2:   &Player{Name: nameOr(opts.Player2Name, "b"), Tile: domain.Player2},
		ai:        &Player{Name: AIName, Tile: domain.Player2, Bot: true},
		aiEnabled: opts.AIEnabled,
		listeners: opts.Listeners,
	}
	m.active = m.player1
	return m, nil
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

// AddListener registers l for future notifications.
func (m *Match) AddListener(l Listener) {
	m.listeners = append(m.listeners, l)
}

// Grid exposes the authoritative grid for read-only use.
func (m *Match) Grid() *domain.Grid { return m.grid }

func (m *Match) AIEnabled() bool { return m.aiEnabled }
func (m *Match) RoundOpen() bool { return m.roundOpen }
func (m *Match) RoundID() string { return m.roundID }

// Active returns a copy of the player whose turn it is.
func (m *Match) Active() Player { return *m.active }

// IsAITurn reports whether the next placement belongs to the AI.
func (m *Match) IsAITurn() bool { return m.active.Bot }

// LastRound returns the summary of the most recently finished round.
func (m *Match) LastRound() (RoundSummary, bool) {
	if m.last == nil {
		return RoundSummary{}, false
	}
	return *m.last, true
}

func (m *Match) opponentSeat() *Player {
	if m.aiEnabled {
		return m.ai
	}
	return m.player2
}

// Scores lists the players and their scores, the AI last.
func (m *Match) Scores() []Player {
	return []Player{*m.player1, *m.player2, *m.ai}
}

func (m *Match) ResetScores() {
	m.player1.Score = 0
	m.player2.Score = 0
	m.ai.Score = 0

	scores := m.Scores()
	for _, l := range m.listeners {
		l.ScoresChanged(scores)
	}
}

func (m *Match) EnableAI() error  { return m.setAI(true) }
func (m *Match) DisableAI() error { return m.setAI(false) }

// ToggleAI flips the AI seat and returns the new state.
func (m *Match) ToggleAI() (bool, error) {
	err := m.setAI(!m.aiEnabled)
	return m.aiEnabled, err
}

func (m *Match) setAI(enabled bool) error {
	if m.roundOpen {
		return ErrRoundInProgress
	}
	m.aiEnabled = enabled
	m.active = m.player1
	log.Printf("[MATCH] AI enabled: %v", enabled)
	m.notifyBoard(nil)
	return nil
}

// StartRound opens a new round on the (already reset) grid.
func (m *Match) StartRound() error {
	if m.roundOpen {
		return ErrRoundInProgress
	}
	m.roundID = uid.NewRoundID()
	m.roundOpen = true
	m.moves = 0
	m.startedAt = time.Now()
	m.grid.SetActiveTile(m.active.Tile)

	log.Printf("[MATCH] Round %s started: %s vs %s, %s begins",
		m.roundID, m.player1.Name, m.opponentSeat().Name, m.active.Name)
	m.notifyBoard(nil)
	return nil
}

// Play places the active human player's tile in column (1-indexed).
func (m *Match) Play(column int) (TurnResult, error) {
	if err := m.humanTurn(); err != nil {
		return TurnResult{}, err
	}
	if err := m.grid.Place(column, m.active.Tile); err != nil {
		return TurnResult{}, err
	}
	return m.afterPlacement(column), nil
}

// PlayAtSelection places the active tile in the cursor column.
func (m *Match) PlayAtSelection() (TurnResult, error) {
	if err := m.humanTurn(); err != nil {
		return TurnResult{}, err
	}
	column := m.grid.Selected() + 1
	if err := m.grid.PlaceAtSelection(); err != nil {
		return TurnResult{}, err
	}
	return m.afterPlacement(column), nil
}

// PlayAI asks the advisor for a column and plays it for the AI seat.
func (m *Match) PlayAI() (TurnResult, error) {
	if !m.roundOpen {
		return TurnResult{}, ErrNoRound
	}
	if !m.active.Bot {
		return TurnResult{}, ErrNotAITurn
	}

	column, err := m.advisors[m.active.Tile].RecommendMove(m.grid)
	if err != nil {
		return TurnResult{}, fmt.Errorf("ai move: %w", err)
	}
	if err := m.grid.Place(column, m.active.Tile); err != nil {
		return TurnResult{}, fmt.Errorf("ai move %d rejected: %w", column, err)
	}
	return m.afterPlacement(column), nil
}

func (m *Match) humanTurn() error {
	if !m.roundOpen {
		return ErrNoRound
	}
	if m.active.Bot {
		return ErrNotHumanTurn
	}
	return nil
}

// Hint returns the column the advisor would pick for the active player.
func (m *Match) Hint() (int, error) {
	if !m.roundOpen {
		return 0, ErrNoRound
	}
	return m.advisors[m.active.Tile].RecommendMove(m.grid)
}

// Undo takes back the last placement and returns the turn to its player.
// It is only available between humans and only one move deep.
func (m *Match) Undo() error {
	if m.aiEnabled {
		return ErrUndoWithAI
	}
	if !m.roundOpen {
		return ErrNoRound
	}
	if err := m.grid.UndoLast(); err != nil {
		return err
	}
	m.moves--
	m.swapTurn()
	m.notifyBoard(nil)
	return nil
}

func (m *Match) MoveSelectionLeft() {
	m.grid.MoveSelectionLeft()
	m.notifyBoard(nil)
}

func (m *Match) MoveSelectionRight() {
	m.grid.MoveSelectionRight()
	m.notifyBoard(nil)
}

func (m *Match) afterPlacement(column int) TurnResult {
	m.moves++
	cell, _ := m.grid.LastMove()
	move := Move{
		Number: m.moves,
		Column: column,
		Row:    cell.Y,
		Tile:   m.active.Tile,
		Player: m.active.Name,
	}

	out := m.grid.CheckFour()
	switch out.Kind {
	case domain.Winner:
		m.active.Score++
		log.Printf("[MATCH] Round %s: %s wins with move %d", m.roundID, m.active.Name, m.moves)
		m.notifyBoard(&move)
		m.finish(ReasonConnectFour, &out)
	case domain.Draw:
		log.Printf("[MATCH] Round %s: draw after %d moves", m.roundID, m.moves)
		m.notifyBoard(&move)
		m.finish(ReasonDraw, nil)
	default:
		m.swapTurn()
		m.notifyBoard(&move)
	}

	return TurnResult{Move: move, Outcome: out}
}

func (m *Match) swapTurn() {
	if m.active == m.player1 {
		m.active = m.opponentSeat()
	} else {
		m.active = m.player1
	}
	m.grid.SetActiveTile(m.active.Tile)
}

// finish closes the round and publishes its summary. The grid keeps the
// final position until EndRound.
func (m *Match) finish(reason string, out *domain.Outcome) {
	summary := RoundSummary{
		RoundID:    m.roundID,
		Player1:    m.player1.Name,
		Player2:    m.opponentSeat().Name,
		Reason:     reason,
		Moves:      m.moves,
		Board:      m.grid.Snapshot(),
		StartedAt:  m.startedAt,
		FinishedAt: time.Now(),
	}
	if out != nil && out.Kind == domain.Winner {
		summary.Winner = m.active.Name
		summary.WinnerTile = out.Winner
		summary.Line = out.Line[:]
	}
	summary.Scores = m.Scores()

	m.roundOpen = false
	m.last = &summary
	for _, l := range m.listeners {
		l.RoundFinished(summary)
	}
}

// EndRound clears the grid for the next round. A round still in progress is
// recorded as abandoned. With the AI on, player 1 always begins; otherwise
// the turn passes from whoever was active when the round ended.
func (m *Match) EndRound() {
	if m.roundOpen {
		log.Printf("[MATCH] Round %s abandoned after %d moves", m.roundID, m.moves)
		m.finish(ReasonAbandoned, nil)
	}

	if m.aiEnabled {
		m.active = m.player1
	} else {
		if m.active == m.player1 {
			m.active = m.player2
		} else {
			m.active = m.player1
		}
	}

	m.grid.Reset()
	m.roundID = ""
	m.moves = 0
	m.notifyBoard(nil)
}

// Frame returns the current board as listeners see it.
func (m *Match) Frame() Frame { return m.frame(nil) }

func (m *Match) frame(move *Move) Frame {
	return Frame{
		RoundID:  m.roundID,
		Board:    m.grid.Snapshot(),
		Selected: m.grid.Selected(),
		Active:   m.active.Name,
		Move:     move,
	}
}

func (m *Match) notifyBoard(move *Move) {
	if len(m.listeners) == 0 {
		return
	}
	f := m.frame(move)
	for _, l := range m.listeners {
		l.BoardChanged(f)
	}
}

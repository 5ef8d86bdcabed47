package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/connect4-matrix/internal/domain"
)

type recorder struct {
	frames []Frame
	rounds []RoundSummary
	scores [][]Player
}

func (r *recorder) BoardChanged(f Frame)           { r.frames = append(r.frames, f) }
func (r *recorder) RoundFinished(s RoundSummary) { r.rounds = append(r.rounds, s) }
func (r *recorder) ScoresChanged(p []Player)     { r.scores = append(r.scores, p) }

func newTestMatch(t *testing.T, ai bool) (*Match, *recorder) {
	t.Helper()
	rec := &recorder{}
	m, err := NewMatch(Options{
		Width:       7,
		Height:      7,
		Player1Name: "alice",
		Player2Name: "bob",
		AIEnabled:   ai,
		Rand:        rand.New(rand.NewSource(1)),
		Listeners:   []Listener{rec},
	})
	require.NoError(t, err)
	return m, rec
}

func playAll(t *testing.T, m *Match, columns ...int) TurnResult {
	t.Helper()
	var res TurnResult
	for _, c := range columns {
		var err error
		res, err = m.Play(c)
		require.NoError(t, err)
	}
	return res
}

func TestNewMatchRejectsBadDimensions(t *testing.T) {
	_, err := NewMatch(Options{Width: 3, Height: 7})
	assert.ErrorIs(t, err, domain.ErrDimension)
}

func TestPlayRequiresRound(t *testing.T) {
	m, _ := newTestMatch(t, false)
	_, err := m.Play(1)
	assert.ErrorIs(t, err, ErrNoRound)
}

func TestHotSeatRoundToWin(t *testing.T) {
	m, rec := newTestMatch(t, false)
	require.NoError(t, m.StartRound())
	assert.Equal(t, "alice", m.Active().Name)

	// alice builds the bottom row, bob stacks on top
	res := playAll(t, m, 1, 1, 2, 2, 3, 3)
	assert.Equal(t, domain.None, res.Outcome.Kind)
	assert.Equal(t, "alice", m.Active().Name)

	res = playAll(t, m, 4)
	require.Equal(t, domain.Winner, res.Outcome.Kind)
	assert.Equal(t, domain.Player1, res.Outcome.Winner)
	assert.Equal(t, 7, res.Move.Number)
	assert.Equal(t, 6, res.Move.Row)
	assert.False(t, m.RoundOpen())

	require.Len(t, rec.rounds, 1)
	summary := rec.rounds[0]
	assert.Equal(t, "alice", summary.Winner)
	assert.Equal(t, ReasonConnectFour, summary.Reason)
	assert.Equal(t, 7, summary.Moves)
	assert.Len(t, summary.Line, domain.ToWin)
	assert.Equal(t, 1, summary.Scores[0].Score)
	assert.Equal(t, 0, summary.Scores[1].Score)

	_, err := m.Play(5)
	assert.ErrorIs(t, err, ErrNoRound)

	// the loser opens the next round
	m.EndRound()
	assert.Equal(t, "bob", m.Active().Name)
	assert.Equal(t, domain.None, m.Grid().CheckFour().Kind)
	require.NoError(t, m.StartRound())
	res = playAll(t, m, 1)
	assert.Equal(t, domain.Player2, res.Move.Tile)
}

func TestPlayRejectsFullColumnWithoutLosingTurn(t *testing.T) {
	m, _ := newTestMatch(t, false)
	require.NoError(t, m.StartRound())
	playAll(t, m, 1, 1, 1, 1, 1, 1)

	active := m.Active().Name
	_, err := m.Play(1)
	assert.ErrorIs(t, err, domain.ErrColumnFull)
	_, err = m.Play(9)
	assert.ErrorIs(t, err, domain.ErrInvalidColumn)
	assert.Equal(t, active, m.Active().Name)
}

func TestUndoReturnsTurn(t *testing.T) {
	m, _ := newTestMatch(t, false)
	require.NoError(t, m.StartRound())
	playAll(t, m, 3)
	assert.Equal(t, "bob", m.Active().Name)

	require.NoError(t, m.Undo())
	assert.Equal(t, "alice", m.Active().Name)
	tile, _ := m.Grid().Get(2, 6)
	assert.Equal(t, domain.Empty, tile)

	assert.ErrorIs(t, m.Undo(), domain.ErrNoUndo)
}

func TestUndoDisabledWithAI(t *testing.T) {
	m, _ := newTestMatch(t, true)
	require.NoError(t, m.StartRound())
	playAll(t, m, 3)
	assert.ErrorIs(t, m.Undo(), ErrUndoWithAI)
}

func TestAITurns(t *testing.T) {
	m, rec := newTestMatch(t, true)
	require.NoError(t, m.StartRound())

	_, err := m.PlayAI()
	assert.ErrorIs(t, err, ErrNotAITurn)

	playAll(t, m, 4)
	assert.True(t, m.IsAITurn())
	_, err = m.Play(4)
	assert.ErrorIs(t, err, ErrNotHumanTurn)

	res, err := m.PlayAI()
	require.NoError(t, err)
	assert.Equal(t, domain.Player2, res.Move.Tile)
	assert.Equal(t, AIName, res.Move.Player)
	assert.False(t, m.IsAITurn())

	last := rec.frames[len(rec.frames)-1]
	require.NotNil(t, last.Move)
	assert.Equal(t, res.Move.Column, last.Move.Column)
	assert.Equal(t, "alice", last.Active)
}

func TestAIPlaysRoundToCompletion(t *testing.T) {
	m, rec := newTestMatch(t, true)
	require.NoError(t, m.StartRound())

	for turn := 0; m.RoundOpen(); turn++ {
		require.Less(t, turn, 7*6, "round should end once the grid is full")

		if m.IsAITurn() {
			_, err := m.PlayAI()
			require.NoError(t, err)
			continue
		}
		// alice plays the first column that accepts a piece
		played := false
		for c := 1; c <= 7 && !played; c++ {
			_, err := m.Play(c)
			played = err == nil
		}
		require.True(t, played)
	}

	require.Len(t, rec.rounds, 1)
	assert.Contains(t, []string{ReasonConnectFour, ReasonDraw}, rec.rounds[0].Reason)
	assert.Equal(t, AIName, rec.rounds[0].Player2)
}

func TestPlayAtSelection(t *testing.T) {
	m, rec := newTestMatch(t, false)
	require.NoError(t, m.StartRound())

	m.MoveSelectionRight()
	m.MoveSelectionRight()
	assert.Equal(t, 2, rec.frames[len(rec.frames)-1].Selected)

	res, err := m.PlayAtSelection()
	require.NoError(t, err)
	assert.Equal(t, 3, res.Move.Column)

	// bob's tile is now painted at the cursor
	tile, _ := m.Grid().Get(2, domain.IndicatorRow)
	assert.Equal(t, domain.Player2, tile)

	m.MoveSelectionLeft()
	tile, _ = m.Grid().Get(2, domain.IndicatorRow)
	assert.Equal(t, domain.Empty, tile)
}

func TestHint(t *testing.T) {
	m, _ := newTestMatch(t, false)
	_, err := m.Hint()
	assert.ErrorIs(t, err, ErrNoRound)

	require.NoError(t, m.StartRound())
	playAll(t, m, 1, 1, 2, 2, 3)

	// bob should block alice at column 4
	col, err := m.Hint()
	require.NoError(t, err)
	assert.Equal(t, 4, col)
}

func TestEndRoundAbandons(t *testing.T) {
	m, rec := newTestMatch(t, false)
	require.NoError(t, m.StartRound())
	playAll(t, m, 1, 2)

	m.EndRound()
	require.Len(t, rec.rounds, 1)
	assert.Equal(t, ReasonAbandoned, rec.rounds[0].Reason)
	assert.Empty(t, rec.rounds[0].Winner)
	assert.False(t, m.RoundOpen())

	for _, row := range m.Grid().Snapshot() {
		for _, tile := range row {
			assert.Equal(t, domain.Empty, tile)
		}
	}
}

func TestToggleAI(t *testing.T) {
	m, rec := newTestMatch(t, false)

	m.EndRound()
	assert.Equal(t, "bob", m.Active().Name)

	on, err := m.ToggleAI()
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, "alice", m.Active().Name)
	// listeners see the seat change
	assert.Equal(t, "alice", rec.frames[len(rec.frames)-1].Active)

	require.NoError(t, m.StartRound())
	_, err = m.ToggleAI()
	assert.ErrorIs(t, err, ErrRoundInProgress)
	assert.ErrorIs(t, m.StartRound(), ErrRoundInProgress)
}

func TestResetScores(t *testing.T) {
	m, rec := newTestMatch(t, false)
	require.NoError(t, m.StartRound())
	playAll(t, m, 1, 1, 2, 2, 3, 3, 4)

	assert.Equal(t, 1, m.Scores()[0].Score)
	assert.Empty(t, rec.scores)

	m.ResetScores()
	for _, p := range m.Scores() {
		assert.Zero(t, p.Score)
	}
	require.Len(t, rec.scores, 1)
	assert.Len(t, rec.scores[0], 3)
	for _, p := range rec.scores[0] {
		assert.Zero(t, p.Score)
	}
}

func TestFrame(t *testing.T) {
	m, _ := newTestMatch(t, false)
	f := m.Frame()
	assert.Empty(t, f.RoundID)
	assert.Len(t, f.Board, 7)
	assert.Equal(t, "alice", f.Active)
	assert.Nil(t, f.Move)
}

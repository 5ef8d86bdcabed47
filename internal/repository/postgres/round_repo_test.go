package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/connect4-matrix/internal/domain"
	"github.com/iamasit07/connect4-matrix/internal/service/game"
	"github.com/iamasit07/connect4-matrix/pkg/uid"
)

func TestDecodeRound(t *testing.T) {
	var s game.RoundSummary
	err := decodeRound(&s, 2,
		[]byte(`[{"x":0,"y":6},{"x":1,"y":6},{"x":2,"y":6},{"x":3,"y":6}]`),
		[]byte(`[[0,0],[1,2]]`),
		[]byte(`[{"name":"a","tile":1,"score":3,"bot":false}]`),
	)
	require.NoError(t, err)
	assert.Equal(t, domain.Player2, s.WinnerTile)
	assert.Len(t, s.Line, domain.ToWin)
	assert.Equal(t, domain.Cell{X: 3, Y: 6}, s.Line[3])
	assert.Equal(t, [][]domain.Tile{{0, 0}, {1, 2}}, s.Board)
	assert.Equal(t, 3, s.Scores[0].Score)

	s = game.RoundSummary{}
	require.NoError(t, decodeRound(&s, 0, nil, []byte(`[]`), nil))
	assert.Nil(t, s.Line)

	assert.Error(t, decodeRound(&s, 0, nil, []byte(`{`), nil))
}

// Runs against a real database when TEST_DATABASE_URL is set.
func TestRoundRepoRoundTrip(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	db, err := Open(ctx, url, 2, 2, 1)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, RunMigrations(ctx, db))

	repo := NewRoundRepo(db)
	finished := time.Now().UTC().Truncate(time.Millisecond)
	s := game.RoundSummary{
		RoundID:    uid.NewRoundID(),
		Player1:    "a",
		Player2:    "AI",
		Winner:     "a",
		WinnerTile: domain.Player1,
		Reason:     game.ReasonConnectFour,
		Moves:      7,
		Line:       []domain.Cell{{X: 0, Y: 6}, {X: 1, Y: 6}, {X: 2, Y: 6}, {X: 3, Y: 6}},
		Board:      [][]domain.Tile{{0, 0, 0, 0}},
		Scores:     []game.Player{{Name: "a", Tile: domain.Player1, Score: 1}},
		StartedAt:  finished.Add(-time.Minute),
		FinishedAt: finished,
	}
	require.NoError(t, repo.SaveRound(ctx, s))
	require.NoError(t, repo.SaveRound(ctx, s))

	rounds, err := repo.ListRecentRounds(ctx, 50)
	require.NoError(t, err)
	var found *game.RoundSummary
	for i := range rounds {
		if rounds[i].RoundID == s.RoundID {
			found = &rounds[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, s.Line, found.Line)
	assert.Equal(t, s.Winner, found.Winner)
	assert.True(t, s.FinishedAt.Equal(found.FinishedAt))

	n, err := repo.DeleteRoundsOlderThan(ctx, finished.Add(time.Second))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))
}

package redis

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/connect4-matrix/pkg/uid"
)

func TestScoreKey(t *testing.T) {
	assert.Equal(t, "connect4:score:alice", scoreKey("alice"))
}

func TestInitRedisDisabled(t *testing.T) {
	assert.Nil(t, InitRedis(context.Background(), "", ""))
	assert.Nil(t, InitRedis(context.Background(), "redis://%zz", ""))
}

// Runs against a real server when TEST_REDIS_ADDR is set.
func TestScoreCache(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client := InitRedis(ctx, addr, os.Getenv("TEST_REDIS_PASSWORD"))
	require.NotNil(t, client)
	t.Cleanup(func() { client.Close() })

	cache := NewScoreCache(client)
	winner := "winner-" + uid.NewRoundID()
	other := "other-" + uid.NewRoundID()
	t.Cleanup(func() { cache.ResetScores(ctx, winner, other) })

	total, err := cache.IncrScore(ctx, winner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	total, err = cache.IncrScore(ctx, winner)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	scores, err := cache.GetScores(ctx, winner, other)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{winner: 2, other: 0}, scores)

	require.NoError(t, cache.ResetScores(ctx, winner))
	scores, err = cache.GetScores(ctx, winner)
	require.NoError(t, err)
	assert.Zero(t, scores[winner])
}

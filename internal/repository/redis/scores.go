package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const scoreKeyPrefix = "connect4:score:"

func scoreKey(name string) string {
	return scoreKeyPrefix + name
}

// ScoreCache keeps all-time win counters per player name.
type ScoreCache struct {
	client *redis.Client
}

func NewScoreCache(client *redis.Client) *ScoreCache {
	return &ScoreCache{client: client}
}

// IncrScore adds one win for name and returns the new total.
func (s *ScoreCache) IncrScore(ctx context.Context, name string) (int64, error) {
	total, err := s.client.Incr(ctx, scoreKey(name)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment score for %s: %w", name, err)
	}
	return total, nil
}

// GetScores returns the stored totals for names; unknown names count zero.
func (s *ScoreCache) GetScores(ctx context.Context, names ...string) (map[string]int64, error) {
	out := make(map[string]int64, len(names))
	if len(names) == 0 {
		return out, nil
	}

	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = scoreKey(name)
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(keys))
	for i, key := range keys {
		cmds[i] = pipe.Get(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to read scores: %w", err)
	}

	for i, cmd := range cmds {
		n, err := cmd.Int64()
		if errors.Is(err, redis.Nil) {
			n = 0
		} else if err != nil {
			return nil, fmt.Errorf("failed to read score for %s: %w", names[i], err)
		}
		out[names[i]] = n
	}
	return out, nil
}

// ResetScores deletes the stored totals for names.
func (s *ScoreCache) ResetScores(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = scoreKey(name)
	}
	return s.client.Del(ctx, keys...).Err()
}

package cleanup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakePruner struct {
	mu      sync.Mutex
	cutoffs []time.Time
	err     error
}

func (f *fakePruner) DeleteRoundsOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, cutoff)
	return 3, f.err
}

func (f *fakePruner) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cutoffs)
}

func TestRunCleanupUsesRetention(t *testing.T) {
	now := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	p := &fakePruner{}
	w := NewWorker(p, 48*time.Hour)
	w.now = func() time.Time { return now }

	w.runCleanup(context.Background())
	assert.Equal(t, []time.Time{now.Add(-48 * time.Hour)}, p.cutoffs)

	p.err = errors.New("db down")
	w.runCleanup(context.Background())
	assert.Equal(t, 2, p.calls())
}

func TestStartRunsPeriodicallyUntilCancelled(t *testing.T) {
	p := &fakePruner{}
	w := NewWorker(p, time.Hour)
	w.Interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	assert.Eventually(t, func() bool { return p.calls() >= 3 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	time.Sleep(30 * time.Millisecond)
	settled := p.calls()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, p.calls())
}

package cleanup

import (
	"context"
	"log"
	"time"
)

// RoundPruner deletes finished rounds older than a cutoff.
type RoundPruner interface {
	DeleteRoundsOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type Worker struct {
	Rounds    RoundPruner
	Retention time.Duration
	Interval  time.Duration

	now func() time.Time
}

func NewWorker(rounds RoundPruner, retention time.Duration) *Worker {
	return &Worker{
		Rounds:    rounds,
		Retention: retention,
		Interval:  1 * time.Hour,
		now:       time.Now,
	}
}

// Start runs a cleanup immediately and then every Interval until ctx is
// cancelled.
func (w *Worker) Start(ctx context.Context) {
	go func() {
		w.runCleanup(ctx)

		ticker := time.NewTicker(w.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Println("[CLEANUP] Background worker stopped")
				return
			case <-ticker.C:
				w.runCleanup(ctx)
			}
		}
	}()
	log.Println("[CLEANUP] Background worker started")
}

// runCleanup executes the actual cleanup logic
func (w *Worker) runCleanup(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cutoff := w.now().Add(-w.Retention)
	deletedCount, err := w.Rounds.DeleteRoundsOlderThan(ctx, cutoff)
	if err != nil {
		log.Printf("[CLEANUP] Error pruning round history: %v", err)
		return
	}
	if deletedCount > 0 {
		log.Printf("[CLEANUP] Removed %d rounds finished before %s", deletedCount, cutoff.Format(time.RFC3339))
	}
}

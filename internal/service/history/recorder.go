package history

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/iamasit07/connect4-matrix/internal/repository/kafka"
	"github.com/iamasit07/connect4-matrix/internal/service/game"
)

type RoundStore interface {
	SaveRound(ctx context.Context, s game.RoundSummary) error
}

type ScoreStore interface {
	IncrScore(ctx context.Context, name string) (int64, error)
}

type EventPublisher interface {
	Emit(ctx context.Context, event, roundID string, payload map[string]any) error
}

// Sinks are the optional destinations of match history; nil fields are
// skipped.
type Sinks struct {
	Rounds RoundStore
	Scores ScoreStore
	Events EventPublisher
}

const (
	queueSize  = 256
	jobTimeout = 5 * time.Second
)

// Recorder is a match listener that forwards moves and finished rounds to
// the sinks on its own goroutine, in the order the match produced them.
// A full queue drops the newest job rather than stall the game.
type Recorder struct {
	sinks Sinks
	jobs  chan func(context.Context)
	done  chan struct{}

	mu     sync.Mutex
	closed bool
}

func NewRecorder(sinks Sinks) *Recorder {
	r := &Recorder{
		sinks: sinks,
		jobs:  make(chan func(context.Context), queueSize),
		done:  make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *Recorder) run() {
	defer close(r.done)
	for job := range r.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		job(ctx)
		cancel()
	}
}

// Close stops accepting jobs and waits for the queued ones to finish.
func (r *Recorder) Close() {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.jobs)
	}
	r.mu.Unlock()
	<-r.done
}

func (r *Recorder) enqueue(name string, job func(context.Context)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	select {
	case r.jobs <- job:
	default:
		log.Printf("[HISTORY] Queue full, dropping %s", name)
	}
}

func (r *Recorder) BoardChanged(frame game.Frame) {
	if frame.Move == nil || r.sinks.Events == nil {
		return
	}
	move := *frame.Move
	roundID := frame.RoundID

	r.enqueue(kafka.EventMove, func(ctx context.Context) {
		err := r.sinks.Events.Emit(ctx, kafka.EventMove, roundID, map[string]any{
			"number": move.Number,
			"column": move.Column,
			"row":    move.Row,
			"tile":   int(move.Tile),
			"player": move.Player,
		})
		if err != nil {
			log.Printf("[KAFKA] %v", err)
		}
	})
}

// ScoresChanged is a no-op: stored totals count wins over all sessions and
// survive a session reset.
func (r *Recorder) ScoresChanged([]game.Player) {}

func (r *Recorder) RoundFinished(summary game.RoundSummary) {
	r.enqueue(kafka.EventRoundFinished, func(ctx context.Context) {
		if r.sinks.Rounds != nil {
			if err := r.sinks.Rounds.SaveRound(ctx, summary); err != nil {
				log.Printf("[POSTGRES] %v", err)
			}
		}

		if r.sinks.Scores != nil && summary.Winner != "" {
			total, err := r.sinks.Scores.IncrScore(ctx, summary.Winner)
			if err != nil {
				log.Printf("[REDIS] %v", err)
			} else {
				log.Printf("[REDIS] %s now has %d wins", summary.Winner, total)
			}
		}

		if r.sinks.Events != nil {
			err := r.sinks.Events.Emit(ctx, kafka.EventRoundFinished, summary.RoundID, map[string]any{
				"player1":    summary.Player1,
				"player2":    summary.Player2,
				"winner":     summary.Winner,
				"reason":     summary.Reason,
				"moves":      summary.Moves,
				"durationMs": summary.FinishedAt.Sub(summary.StartedAt).Milliseconds(),
			})
			if err != nil {
				log.Printf("[KAFKA] %v", err)
			}
		}
	})
}

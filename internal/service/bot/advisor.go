package bot

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/iamasit07/connect4-matrix/internal/domain"
)

// ErrNoLegalMove is returned when a move is requested on a board that
// accepts no more pieces.
var ErrNoLegalMove = errors.New("no legal move")

// Advisor recommends columns for one tile. It probes hypothetical moves on a
// private scratch grid and never touches the grid it is asked about.
// An Advisor is not safe for concurrent use.
type Advisor struct {
	tile     domain.Tile
	opponent domain.Tile

	// reference mirrors the caller's grid; scratch is reset from it before
	// every candidate evaluation.
	reference *domain.Grid
	scratch   *domain.Grid

	rng *rand.Rand
}

// NewAdvisor creates an advisor playing tile on a width×height grid. A nil
// rng is replaced with a time-seeded source.
func NewAdvisor(width, height int, tile domain.Tile, rng *rand.Rand) (*Advisor, error) {
	if tile == domain.Empty {
		return nil, domain.ErrInvalidTile
	}

	reference, err := domain.NewGrid(width, height)
	if err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Advisor{
		tile:      tile,
		opponent:  tile.Opponent(),
		reference: reference,
		scratch:   reference.Clone(),
		rng:       rng,
	}, nil
}

// Tile returns the tile this advisor plays.
func (a *Advisor) Tile() domain.Tile {
	return a.tile
}

// RecommendMove returns the 1-indexed column the advisor would play on
// current. It takes an immediate win, then blocks an immediate opponent win,
// and otherwise ranks the columns in random order, avoiding moves that hand
// the opponent a win on the next turn.
func (a *Advisor) RecommendMove(current *domain.Grid) (int, error) {
	if current.IsFull() {
		return 0, ErrNoLegalMove
	}
	if err := a.sync(current); err != nil {
		return 0, err
	}

	if col, ok := a.probe(a.tile); ok {
		log.Printf("[AI] %s: making four at column %d", a.tile, col)
		return col, nil
	}

	if col, ok := a.probe(a.opponent); ok {
		log.Printf("[AI] %s: blocking four at column %d", a.tile, col)
		return col, nil
	}

	columns := make([]int, a.reference.Width())
	for i := range columns {
		columns[i] = i + 1
	}
	a.rng.Shuffle(len(columns), func(i, j int) {
		columns[i], columns[j] = columns[j], columns[i]
	})

	r := a.rank(columns)
	if !r.usable() {
		return 0, fmt.Errorf("%w: ranking ended with %s", ErrNoLegalMove, r.kind)
	}

	log.Printf("[AI] %s: placing %s at column %d", a.tile, r.kind, r.column)
	return r.column, nil
}

// sync copies current into both working grids, reallocating them only when
// the dimensions changed.
func (a *Advisor) sync(current *domain.Grid) error {
	if a.reference.Width() != current.Width() || a.reference.Height() != current.Height() {
		a.reference = current.Clone()
		a.scratch = current.Clone()
		return nil
	}
	if err := a.reference.CopyFrom(current); err != nil {
		return err
	}
	return a.scratch.CopyFrom(current)
}

// probe reports the first column, in ascending order, where placing tile on
// top of the current scratch state completes four for tile. The scratch grid
// is left as it was.
func (a *Advisor) probe(tile domain.Tile) (int, bool) {
	for col := 1; col <= a.scratch.Width(); col++ {
		if err := a.scratch.Place(col, tile); err != nil {
			continue
		}
		out := a.scratch.CheckFour()
		_ = a.scratch.UndoLast()

		if out.Kind == domain.Winner && out.Winner == tile {
			return col, true
		}
	}
	return 0, false
}

// rank evaluates the last candidate against the reference board and recurses
// into the rest when that candidate is full or hands the opponent a win.
// Each step judges its column against the current board, not against the
// candidates tried before it.
func (a *Advisor) rank(candidates []int) ranking {
	// reference and scratch always share dimensions here
	_ = a.scratch.CopyFrom(a.reference)

	if len(candidates) == 0 {
		return ranking{kind: noOptions}
	}
	column := candidates[len(candidates)-1]
	rest := candidates[:len(candidates)-1]

	if err := a.scratch.Place(column, a.tile); err != nil {
		if !errors.Is(err, domain.ErrColumnFull) {
			return ranking{kind: noOptions}
		}
		if r := a.rank(rest); r.usable() {
			return r
		}
		return ranking{kind: columnFull, column: column}
	}

	if _, ok := a.probe(a.tile); ok {
		return ranking{kind: winChance, column: column}
	}

	if _, ok := a.probe(a.opponent); ok {
		// only a safe column replaces this one; anything else keeps it
		if r := a.rank(rest); r.kind == neutral {
			return r
		}
		return ranking{kind: opponentWin, column: column}
	}

	return ranking{kind: neutral, column: column}
}

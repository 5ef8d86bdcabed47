package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/iamasit07/connect4-matrix/internal/domain"
	"github.com/iamasit07/connect4-matrix/internal/service/game"
)

// errClosed signals that the input stream ended mid-round.
var errClosed = errors.New("input closed")

// Console plays a Match over a line-oriented reader and writer.
type Console struct {
	match *game.Match
	in    io.Reader
	out   io.Writer

	lines   chan string
	readErr error
	once    sync.Once
}

func NewConsole(match *game.Match, in io.Reader, out io.Writer) *Console {
	return &Console{
		match: match,
		in:    in,
		out:   out,
		lines: make(chan string),
	}
}

// scan feeds lines to the console and closes the channel once the input
// ends, leaving io.EOF or the read error in readErr.
func (c *Console) scan() {
	sc := bufio.NewScanner(c.in)
	for sc.Scan() {
		c.lines <- sc.Text()
	}
	c.readErr = sc.Err()
	if c.readErr == nil {
		c.readErr = io.EOF
	}
	close(c.lines)
}

// Run shows the round menu until the player quits, the input ends or ctx is
// cancelled. A round in progress when Run returns is abandoned.
func (c *Console) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.println("Start new round? [Y/n]\t(type \"help\" for help page)")
		in, err := c.read(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if errors.Is(err, ErrInvalidInput) {
			c.println("Invalid")
			continue
		}
		if err != nil {
			return err
		}

		switch in.Kind {
		case Enter, Yes:
			if err := c.playRound(ctx); err != nil {
				if errors.Is(err, errClosed) {
					return nil
				}
				return err
			}
		case No, Quit:
			return nil
		case ToggleAI:
			on, err := c.match.ToggleAI()
			if err != nil {
				c.printf("Cannot toggle AI: %v\n", err)
				continue
			}
			if on {
				c.println("Toggling AI on")
			} else {
				c.println("Toggling AI off")
			}
		case Scores:
			c.printScores()
		case ResetScores:
			c.match.ResetScores()
			c.println("Scores reset")
		case Help:
			c.menuHelp()
		default:
			c.println("Invalid")
		}
	}
}

// turn is how a human turn ended.
type turn int

const (
	turnPlaced turn = iota
	turnUndone
	turnQuit
)

// playRound runs one round to its end. The grid is cleared on return,
// abandoning the round if it is still open.
func (c *Console) playRound(ctx context.Context) error {
	if err := c.match.StartRound(); err != nil {
		return err
	}
	defer c.match.EndRound()

	for c.match.RoundOpen() {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.printBoard()
		active := c.match.Active()
		c.printf("%s's turn.\n", active.Name)

		var res game.TurnResult
		if active.Bot {
			var err error
			res, err = c.match.PlayAI()
			if err != nil {
				return err
			}
			c.printf("AI placed in column %d\n", res.Move.Column)
		} else {
			var (
				t   turn
				err error
			)
			res, t, err = c.humanTurn(ctx)
			if err != nil {
				return err
			}
			if t == turnQuit {
				break
			}
			if t == turnUndone {
				continue
			}
		}

		switch res.Outcome.Kind {
		case domain.Winner:
			c.printBoard()
			c.printf("%s wins\n", res.Move.Player)
		case domain.Draw:
			c.printBoard()
			c.println("Draw")
		}
	}

	c.printScores()
	return nil
}

// humanTurn reads commands until a tile is placed, undo hands the turn back
// or the player quits the round.
func (c *Console) humanTurn(ctx context.Context) (game.TurnResult, turn, error) {
	for {
		in, err := c.read(ctx)
		if errors.Is(err, io.EOF) {
			return game.TurnResult{}, turnQuit, errClosed
		}
		if errors.Is(err, ErrInvalidInput) {
			c.printf("Invalid input. Must be a number between 1 and %d\n", c.match.Grid().Width())
			continue
		}
		if err != nil {
			return game.TurnResult{}, turnQuit, err
		}

		switch in.Kind {
		case Column:
			res, err := c.match.Play(in.Column)
			if c.placementFailed(err, in.Column) {
				continue
			}
			return res, turnPlaced, nil
		case Place:
			column := c.match.Grid().Selected() + 1
			res, err := c.match.PlayAtSelection()
			if c.placementFailed(err, column) {
				continue
			}
			return res, turnPlaced, nil
		case Left:
			c.match.MoveSelectionLeft()
			c.printBoard()
		case Right:
			c.match.MoveSelectionRight()
			c.printBoard()
		case Undo:
			if err := c.match.Undo(); err != nil {
				c.printf("Cannot undo: %v\n", err)
				continue
			}
			c.println("Last move taken back")
			return game.TurnResult{}, turnUndone, nil
		case Hint:
			col, err := c.match.Hint()
			if err != nil {
				c.printf("No hint available: %v\n", err)
				continue
			}
			c.printf("Hint: column %d\n", col)
		case Scores:
			c.printScores()
		case Quit:
			return game.TurnResult{}, turnQuit, nil
		case Help:
			c.roundHelp()
		default:
			c.printf("Invalid input. Must be a number between 1 and %d\n", c.match.Grid().Width())
		}
	}
}

// placementFailed reports a rejected placement to the player.
func (c *Console) placementFailed(err error, column int) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, domain.ErrColumnFull):
		c.printf("Column %d is already full!\n", column)
	case errors.Is(err, domain.ErrInvalidColumn):
		c.printf("Column %d does not exist!\n", column)
	default:
		c.printf("Cannot place tile: %v\n", err)
	}
	return true
}

// read waits for the next line or for ctx to be cancelled.
func (c *Console) read(ctx context.Context) (Input, error) {
	c.once.Do(func() { go c.scan() })

	select {
	case <-ctx.Done():
		return Input{}, ctx.Err()
	case text, ok := <-c.lines:
		if !ok {
			if !errors.Is(c.readErr, io.EOF) {
				log.Printf("[MATCH] Input error: %v", c.readErr)
			}
			return Input{}, c.readErr
		}
		return ParseInput(text)
	}
}

func (c *Console) printBoard() {
	c.printf("%s", c.match.Grid())
}

func (c *Console) printScores() {
	scores := c.match.Scores()
	if c.match.AIEnabled() {
		c.printf("\n%s's score: %d\t%s's score: %d\n", scores[0].Name, scores[0].Score, scores[2].Name, scores[2].Score)
		return
	}
	c.printf("\n%s's score: %d\t%s's score: %d\n", scores[0].Name, scores[0].Score, scores[1].Name, scores[1].Score)
}

func (c *Console) menuHelp() {
	c.println("Commands")
	c.println("  help\t\t\tshow this page")
	c.println("  toggle ai\t\ttoggle the ai on/off")
	c.println("  yes\t\t\tconfirm action (only when applicable)")
	c.println("  no\t\t\tdecline action (only when applicable)")
	c.println("  KEY: Enter\t\tuse highlighted option (only when applicable)")
	c.println("  scores\t\tshow the score line")
	c.println("  reset scores\t\tset every score back to zero")
	c.println("  quit\t\t\tquit")
	c.println("Aliases")
	c.println("  h, ?\t\t\tshort for help")
	c.println("  ai\t\t\tshort for toggle ai")
	c.println("  y\t\t\tshort for yes")
	c.println("  n\t\t\tshort for no")
	c.println("  score\t\t\tshort for scores")
	c.println("  exit, stop, q, e, s\tshort for quit")
}

func (c *Console) roundHelp() {
	width := c.match.Grid().Width()
	c.printf("Place a piece in a column by typing a number between 1 and %d", width)
	c.println(" (the column numbers are visible above the columns)")
	c.println("Move the cursor with left/right (l/r) and drop with place (p)")
	c.println("Type hint for a suggested column, undo (u) to take back the last move")
	c.println("Type quit to stop the round")
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

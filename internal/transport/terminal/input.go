package terminal

import (
	"errors"
	"strconv"
	"strings"
)

var ErrInvalidInput = errors.New("invalid input")

type Kind int

const (
	Enter Kind = iota
	Yes
	No
	Quit
	ToggleAI
	Help
	Column
	Left
	Right
	Place
	Undo
	Hint
	Scores
	ResetScores
)

// Input is one parsed line of terminal input. Column is set only for the
// Column kind.
type Input struct {
	Kind   Kind
	Column int
}

// ParseInput interprets a line typed at the prompt. Matching ignores case and
// surrounding whitespace.
func ParseInput(line string) (Input, error) {
	s := strings.ToLower(strings.TrimSpace(line))
	switch s {
	case "":
		return Input{Kind: Enter}, nil
	case "yes", "y":
		return Input{Kind: Yes}, nil
	case "no", "n":
		return Input{Kind: No}, nil
	case "stop", "exit", "quit", "s", "e", "q":
		return Input{Kind: Quit}, nil
	case "ai", "toggle ai":
		return Input{Kind: ToggleAI}, nil
	case "help", "h", "?":
		return Input{Kind: Help}, nil
	case "left", "l":
		return Input{Kind: Left}, nil
	case "right", "r":
		return Input{Kind: Right}, nil
	case "place", "p":
		return Input{Kind: Place}, nil
	case "undo", "u":
		return Input{Kind: Undo}, nil
	case "hint":
		return Input{Kind: Hint}, nil
	case "score", "scores":
		return Input{Kind: Scores}, nil
	case "reset scores":
		return Input{Kind: ResetScores}, nil
	}

	col, err := strconv.Atoi(s)
	if err != nil || col < 0 {
		return Input{}, ErrInvalidInput
	}
	return Input{Kind: Column, Column: col}, nil
}

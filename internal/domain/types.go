package domain

// Tile is the content of a single grid cell.
type Tile int

const (
	Empty Tile = iota
	Player1
	Player2
)

func (t Tile) String() string {
	switch t {
	case Player1:
		return "player1"
	case Player2:
		return "player2"
	default:
		return "empty"
	}
}

// Opponent returns the other player's tile. Empty has no opponent.
func (t Tile) Opponent() Tile {
	switch t {
	case Player1:
		return Player2
	case Player2:
		return Player1
	}
	return Empty
}

const (
	MinWidth  = 4
	MinHeight = 5
	ToWin     = 4

	// IndicatorRow holds the column cursor and never a placed piece.
	IndicatorRow = 0
	// FirstPlayableRow is the topmost row pieces can land in.
	FirstPlayableRow = 1
)

// Cell is a 0-indexed grid coordinate.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// OutcomeKind is the result class reported by CheckFour.
type OutcomeKind int

const (
	None OutcomeKind = iota
	Winner
	Draw
)

func (k OutcomeKind) String() string {
	switch k {
	case Winner:
		return "winner"
	case Draw:
		return "draw"
	default:
		return "none"
	}
}

// Outcome describes the state of a grid after a placement. Winner and Line
// are only set when Kind is Winner.
type Outcome struct {
	Kind   OutcomeKind
	Winner Tile
	Line   [ToWin]Cell
}

// basic errors that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrDimension     Error = "invalid dimension"
	ErrInvalidColumn Error = "invalid column"
	ErrInvalidTile   Error = "invalid tile"
	ErrColumnFull    Error = "column is full"
	ErrNoUndo        Error = "no move to undo"
)

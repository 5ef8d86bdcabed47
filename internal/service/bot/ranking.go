package bot

// rankKind orders candidate evaluations, best first.
type rankKind int

const (
	winChance   rankKind = iota // sets up a winning follow-up
	neutral                     // opponent gains no immediate win
	opponentWin                 // opponent could win right after
	columnFull
	noOptions
)

func (k rankKind) String() string {
	switch k {
	case winChance:
		return "win chance"
	case neutral:
		return "neutral"
	case opponentWin:
		return "opponent win"
	case columnFull:
		return "column full"
	default:
		return "no options"
	}
}

type ranking struct {
	kind   rankKind
	column int
}

// usable reports whether the ranking names a column that can be played.
func (r ranking) usable() bool {
	return r.kind <= opponentWin
}

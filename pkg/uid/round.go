package uid

import "github.com/google/uuid"

// NewRoundID returns a random identifier for a round.
func NewRoundID() string {
	return uuid.NewString()
}

package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/iamasit07/connect4-matrix/internal/domain"
	"github.com/iamasit07/connect4-matrix/internal/service/game"
)

// decodeRound fills the JSON columns of a scanned round.
func decodeRound(s *game.RoundSummary, tile int, line, board, scores []byte) error {
	s.WinnerTile = domain.Tile(tile)

	if len(line) > 0 {
		if err := json.Unmarshal(line, &s.Line); err != nil {
			return fmt.Errorf("invalid win line: %w", err)
		}
	}
	if err := json.Unmarshal(board, &s.Board); err != nil {
		return fmt.Errorf("invalid board state: %w", err)
	}
	if len(scores) > 0 {
		if err := json.Unmarshal(scores, &s.Scores); err != nil {
			return fmt.Errorf("invalid scores: %w", err)
		}
	}
	return nil
}

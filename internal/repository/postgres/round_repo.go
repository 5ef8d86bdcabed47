package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iamasit07/connect4-matrix/internal/service/game"
)

type RoundRepo struct {
	DB *sql.DB
}

func NewRoundRepo(db *sql.DB) *RoundRepo {
	return &RoundRepo{DB: db}
}

// SaveRound stores a finished round. Saving the same round twice keeps the
// latest outcome.
func (r *RoundRepo) SaveRound(ctx context.Context, s game.RoundSummary) error {
	boardJSON, err := json.Marshal(s.Board)
	if err != nil {
		return fmt.Errorf("failed to marshal board state: %w", err)
	}
	scoresJSON, err := json.Marshal(s.Scores)
	if err != nil {
		return fmt.Errorf("failed to marshal scores: %w", err)
	}
	// win_line stays NULL for draws and abandoned rounds
	var lineJSON any
	if len(s.Line) > 0 {
		b, err := json.Marshal(s.Line)
		if err != nil {
			return fmt.Errorf("failed to marshal win line: %w", err)
		}
		lineJSON = b
	}

	query := `
	INSERT INTO rounds (round_id, player1, player2, winner, winner_tile, reason, total_moves, win_line, board_state, scores, started_at, finished_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (round_id) DO UPDATE SET
		winner = EXCLUDED.winner,
		winner_tile = EXCLUDED.winner_tile,
		reason = EXCLUDED.reason,
		total_moves = EXCLUDED.total_moves,
		win_line = EXCLUDED.win_line,
		board_state = EXCLUDED.board_state,
		scores = EXCLUDED.scores,
		finished_at = EXCLUDED.finished_at;
	`

	_, err = r.DB.ExecContext(ctx, query,
		s.RoundID, s.Player1, s.Player2, s.Winner, int(s.WinnerTile), s.Reason, s.Moves,
		lineJSON, boardJSON, scoresJSON, s.StartedAt, s.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert round %s: %w", s.RoundID, err)
	}
	return nil
}

// ListRecentRounds returns up to limit rounds, most recently finished first.
func (r *RoundRepo) ListRecentRounds(ctx context.Context, limit int) ([]game.RoundSummary, error) {
	query := `
	SELECT round_id, player1, player2, winner, winner_tile, reason, total_moves,
	       win_line, board_state, scores, started_at, finished_at
	FROM rounds
	ORDER BY finished_at DESC
	LIMIT $1;
	`

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds: %w", err)
	}
	defer rows.Close()

	rounds := make([]game.RoundSummary, 0, limit)
	for rows.Next() {
		var (
			s                  game.RoundSummary
			tile               int
			line, board, score []byte
		)
		if err := rows.Scan(&s.RoundID, &s.Player1, &s.Player2, &s.Winner, &tile, &s.Reason, &s.Moves,
			&line, &board, &score, &s.StartedAt, &s.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan round: %w", err)
		}
		if err := decodeRound(&s, tile, line, board, score); err != nil {
			return nil, fmt.Errorf("round %s: %w", s.RoundID, err)
		}
		rounds = append(rounds, s)
	}
	return rounds, rows.Err()
}

// DeleteRoundsOlderThan removes rounds finished before cutoff and returns how
// many were deleted.
func (r *RoundRepo) DeleteRoundsOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM rounds WHERE finished_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old rounds: %w", err)
	}
	return res.RowsAffected()
}

package daily

import (
	"context"
	"strings"
	"time"
)

// Result is one finished game, kept for the player's history.
type Result struct {
	ID         string    `json:"id"`
	PlayerID   string    `json:"-"`
	Mode       string    `json:"mode"`
	Date       string    `json:"date"`
	AnswerID   string    `json:"answerId"`
	Status     string    `json:"status"`
	Guesses    int       `json:"guesses"`
	Powerups   []string  `json:"powerups"`
	FinishedAt time.Time `json:"finishedAt"`
}

// InsertResult stores a finished game. Re-inserting the same id is ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO game_results(id, player_id, mode, date, answer_id, status, guesses, powerups)
		VALUES(?,?,?,?,?,?,?,?)`,
		r.ID, r.PlayerID, r.Mode, r.Date, r.AnswerID, r.Status, r.Guesses, strings.Join(r.Powerups, ","),
	)
	return err
}

// History returns a player's most recent results, newest first.
func (s *Store) History(ctx context.Context, playerID string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mode, date, answer_id, status, guesses, powerups, finished_at
		FROM game_results
		WHERE player_id=?
		ORDER BY finished_at DESC, rowid DESC
		LIMIT ?`, playerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Result, 0, limit)
	for rows.Next() {
		var (
			r        Result
			powerups string
		)
		if err := rows.Scan(&r.ID, &r.Mode, &r.Date, &r.AnswerID, &r.Status, &r.Guesses, &powerups, &r.FinishedAt); err != nil {
			return nil, err
		}
		r.PlayerID = playerID
		r.Powerups = []string{}
		if powerups != "" {
			r.Powerups = strings.Split(powerups, ",")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

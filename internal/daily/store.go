package daily

import (
	"context"
	"database/sql"
	"errors"
)

// Flag keys recorded once per UTC day.
const (
	FlagDailyPlayed       = "daily_played"
	FlagHardcoreAttempted = "hardcore_attempted"
)

// Store persists per-player "today" flags in the player_flags table.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Get returns the stored value for (playerID, key); ok is false when absent.
func (s *Store) Get(ctx context.Context, playerID, key string) (value string, ok bool, err error) {
	err = s.db.QueryRowContext(ctx,
		"SELECT value FROM player_flags WHERE player_id=? AND key=?",
		playerID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set upserts the value for (playerID, key).
func (s *Store) Set(ctx context.Context, playerID, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO player_flags(player_id, key, value) VALUES(?,?,?)
		ON CONFLICT(player_id, key) DO UPDATE SET value=excluded.value, updated_at=CURRENT_TIMESTAMP`,
		playerID, key, value,
	)
	return err
}

// ForPlayer scopes the store to one player.
func (s *Store) ForPlayer(playerID string) *PlayerFlags {
	return &PlayerFlags{store: s, playerID: playerID}
}

// PlayerFlags is the flag store as one player's game sees it.
type PlayerFlags struct {
	store    *Store
	playerID string
}

func (p *PlayerFlags) Get(ctx context.Context, key string) (string, bool, error) {
	return p.store.Get(ctx, p.playerID, key)
}

func (p *PlayerFlags) Set(ctx context.Context, key, value string) error {
	return p.store.Set(ctx, p.playerID, key, value)
}

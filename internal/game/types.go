// internal/game/types.go
//
// Core type definitions for the Discdle game engine.
// Defines:
//   - Mode: casual, daily, hardcore.
//   - Status: in progress, won, lost (guesses exhausted), lost (time expired).
//   - Mark: per-attribute result of a guess (exact/wrong, or higher/lower when revealed).
//   - GuessRecord: one submitted guess with its raw feedback.

package game

import (
	"context"
	"errors"
	"time"

	"github.com/robalobadob/discdle/internal/discs"
)

const (
	MaxGuesses          = 6
	HardcoreSeconds     = 60
	FirstOfferMisses    = 2
	SecondOfferMisses   = 4
	MaxChosenPowerups   = 2
	defaultTickInterval = time.Second
)

// Mode selects how the answer is picked and which rules apply.
type Mode string

const (
	ModeCasual   Mode = "casual"
	ModeDaily    Mode = "daily"
	ModeHardcore Mode = "hardcore"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, bool) {
	switch m := Mode(s); m {
	case ModeCasual, ModeDaily, ModeHardcore:
		return m, true
	}
	return "", false
}

// Theme is the page theme class the client applies for the mode.
func (m Mode) Theme() string {
	switch m {
	case ModeDaily:
		return "daily-theme"
	case ModeHardcore:
		return "hardcore-theme"
	}
	return ""
}

// Status is the session state. Every status but StatusInProgress is terminal.
type Status string

const (
	StatusInProgress      Status = "in_progress"
	StatusWon             Status = "won"
	StatusLostExhausted   Status = "lost_exhausted"
	StatusLostTimeExpired Status = "lost_time_expired"
)

// Terminal reports whether the game is over.
func (s Status) Terminal() bool { return s != StatusInProgress }

// Mark is the evaluation of one attribute of a guess.
//   - "exact":  same value as the answer.
//   - "wrong":  different value, no direction known.
//   - "higher": the answer's number is higher than the guess.
//   - "lower":  the answer's number is lower than the guess.
type Mark string

const (
	MarkExact  Mark = "exact"
	MarkWrong  Mark = "wrong"
	MarkHigher Mark = "higher"
	MarkLower  Mark = "lower"
)

// Feedback is the raw exact/wrong result per attribute.
type Feedback map[discs.Attribute]Mark

// GuessRecord is one submitted guess. Seq is 1-based submission order.
type GuessRecord struct {
	Seq      int        `json:"seq"`
	Disc     discs.Disc `json:"disc"`
	Feedback Feedback   `json:"feedback"`
}

// TimerState is the hardcore countdown.
type TimerState struct {
	Remaining int  `json:"remaining"`
	Active    bool `json:"active"`
}

// FlagStore is the per-player key-value store for "today" flags.
type FlagStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Clock supplies the current instant. Calendar logic always uses its UTC date.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// Rejections. None are fatal; the session is left unchanged.
var (
	ErrInvalidGuessInput  = errors.New("no disc matches that guess")
	ErrGuessAfterTerminal = errors.New("game is already over")
	ErrDailyAlreadyPlayed = errors.New("daily already played today")
	ErrPowerupsDisabled   = errors.New("powerups are disabled in hardcore mode")
	ErrPowerupNotOffered  = errors.New("powerup is not on offer")
	ErrGameOver           = errors.New("powerups cannot be chosen after the game ends")
)

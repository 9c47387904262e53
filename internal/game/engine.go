// internal/game/engine.go
//
// Core game engine for a single Discdle session.
// Responsibilities:
//   - Create sessions with a freshly selected answer (daily: by UTC date; else random).
//   - Resolve and apply guesses (catalog id, or "Brand Name" in hardcore).
//   - Unlock powerup offers at 2 and 4 misses; apply chosen powerups.
//   - Track state transitions: in progress → won / lost (exhausted | time expired).
//   - Record the player's "today" flags exactly once.
//
// A Session is not safe for concurrent use; Controller serializes access.
package game

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/discdle/internal/daily"
	"github.com/robalobadob/discdle/internal/discs"
	"github.com/robalobadob/discdle/internal/powerup"
	"github.com/robalobadob/discdle/internal/prng"
)

// Deps are the collaborators a session needs.
type Deps struct {
	Catalog *discs.Catalog
	Flags   FlagStore
	Clock   Clock
	// Rand drives casual/hardcore answers and offers. Defaults to prng.Unseeded.
	Rand prng.Source
	// TimerSeconds is the hardcore budget. Defaults to HardcoreSeconds.
	TimerSeconds int
}

func (d Deps) withDefaults() Deps {
	if d.Clock == nil {
		d.Clock = SystemClock
	}
	if d.Rand == nil {
		d.Rand = prng.Unseeded()
	}
	if d.TimerSeconds <= 0 {
		d.TimerSeconds = HardcoreSeconds
	}
	return d
}

// Session holds the state of one game.
type Session struct {
	id     string
	mode   Mode
	date   string
	answer discs.Disc
	deps   Deps

	status      Status
	guesses     []GuessRecord
	chosen      []string
	firstOffer  []string
	secondOffer []string
	// fullScanAfter is the guess count when full scan was chosen.
	fullScanAfter int
	timer         TimerState
}

// NewSession deals a new game for mode.
func NewSession(mode Mode, deps Deps) *Session {
	deps = deps.withDefaults()
	now := deps.Clock.Now()
	s := &Session{
		id:            uuid.NewString(),
		mode:          mode,
		date:          daily.DateKey(now),
		deps:          deps,
		status:        StatusInProgress,
		guesses:       []GuessRecord{},
		fullScanAfter: powerup.NotApplied,
		timer:         TimerState{Remaining: deps.TimerSeconds},
	}
	if mode == ModeDaily {
		s.answer = daily.SelectDaily(deps.Catalog, now)
	} else {
		s.answer = daily.SelectRandom(deps.Catalog, deps.Rand)
	}
	return s
}

// SubmitGuess resolves input to a disc and applies it.
//
// Rejections leave the session untouched:
//   - ErrInvalidGuessInput:  no catalog match.
//   - ErrGuessAfterTerminal: the game is over.
//   - ErrDailyAlreadyPlayed: daily already won today and no guess made yet.
func (s *Session) SubmitGuess(ctx context.Context, input string) (GuessRecord, error) {
	guess, ok := s.resolve(input)
	if !ok {
		return GuessRecord{}, ErrInvalidGuessInput
	}
	if s.status.Terminal() {
		return GuessRecord{}, ErrGuessAfterTerminal
	}
	if s.mode == ModeDaily && len(s.guesses) == 0 && s.flaggedToday(ctx, daily.FlagDailyPlayed) {
		return GuessRecord{}, ErrDailyAlreadyPlayed
	}

	if s.mode == ModeHardcore && len(s.guesses) == 0 {
		s.timer = TimerState{Remaining: s.deps.TimerSeconds, Active: true}
	}

	rec := GuessRecord{
		Seq:      len(s.guesses) + 1,
		Disc:     guess,
		Feedback: Score(guess, s.answer),
	}
	s.guesses = append(s.guesses, rec)
	won := guess.ID == s.answer.ID

	misses := len(s.guesses)
	if won {
		misses--
	}
	s.offerPowerups(misses)

	switch {
	case won:
		s.finish(ctx, StatusWon)
	case len(s.guesses) >= MaxGuesses:
		s.finish(ctx, StatusLostExhausted)
	}
	return rec, nil
}

func (s *Session) resolve(input string) (discs.Disc, bool) {
	if s.mode == ModeHardcore {
		return s.deps.Catalog.ByFullName(input)
	}
	return s.deps.Catalog.ByID(input)
}

// finish moves to a terminal status and records the day's flag.
func (s *Session) finish(ctx context.Context, st Status) {
	s.status = st
	s.timer.Active = false
	switch {
	case s.mode == ModeDaily && st == StatusWon:
		s.flagToday(ctx, daily.FlagDailyPlayed)
	case s.mode == ModeHardcore && len(s.guesses) > 0:
		s.flagToday(ctx, daily.FlagHardcoreAttempted)
	}
}

// offerPowerups generates any offer whose miss threshold has been reached.
// Each offer is generated once. A winning guess never counts as a miss.
func (s *Session) offerPowerups(misses int) {
	if s.mode == ModeHardcore {
		return
	}
	if misses >= FirstOfferMisses && len(s.firstOffer) == 0 {
		s.firstOffer = powerup.PickChoices(nil, s.offerSource(false))
	}
	if misses >= SecondOfferMisses && len(s.secondOffer) == 0 && len(s.chosen) == 1 {
		s.secondOffer = powerup.PickChoices(s.chosen, s.offerSource(true))
	}
}

func (s *Session) offerSource(second bool) prng.Source {
	if s.mode != ModeDaily {
		return s.deps.Rand
	}
	return powerup.OfferSource(true, s.date, second, s.chosen)
}

// ChoosePowerup takes a powerup from the current offer. Choices are final.
func (s *Session) ChoosePowerup(id string) error {
	if s.mode == ModeHardcore {
		return ErrPowerupsDisabled
	}
	if s.status.Terminal() {
		return ErrGameOver
	}
	var offer []string
	switch len(s.chosen) {
	case 0:
		offer = s.firstOffer
	case 1:
		offer = s.secondOffer
	}
	if !slices.Contains(offer, id) || slices.Contains(s.chosen, id) {
		return ErrPowerupNotOffered
	}

	s.chosen = append(s.chosen, id)
	if id == powerup.FullScanID && s.fullScanAfter == powerup.NotApplied {
		s.fullScanAfter = len(s.guesses)
	}
	// a late first pick may already be past the second threshold
	s.offerPowerups(s.Misses())
	log.Debug().Str("session", s.id).Str("powerup", id).Int("guesses", len(s.guesses)).Msg("powerup chosen")
	return nil
}

// Tick advances the hardcore countdown by one second. It reports whether
// the tick expired the timer.
func (s *Session) Tick(ctx context.Context) bool {
	if !s.timer.Active || s.status.Terminal() {
		return false
	}
	s.timer.Remaining--
	if s.timer.Remaining > 0 {
		return false
	}
	s.timer.Remaining = 0
	s.finish(ctx, StatusLostTimeExpired)
	return true
}

// Abandon is called when the player leaves the session for another one.
// Leaving a started hardcore game counts as today's attempt.
func (s *Session) Abandon(ctx context.Context) {
	s.timer.Active = false
	if s.mode == ModeHardcore && !s.status.Terminal() && len(s.guesses) > 0 {
		s.flagToday(ctx, daily.FlagHardcoreAttempted)
	}
}

// flaggedToday reports whether key holds today's UTC date. Store errors
// read as "not set" so a broken store never blocks play.
func (s *Session) flaggedToday(ctx context.Context, key string) bool {
	if s.deps.Flags == nil {
		return false
	}
	v, ok, err := s.deps.Flags.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("flag", key).Msg("read flag")
		return false
	}
	return ok && v == daily.DateKey(s.deps.Clock.Now())
}

// flagToday sets key to today's date unless it already holds it.
func (s *Session) flagToday(ctx context.Context, key string) {
	if s.deps.Flags == nil || s.flaggedToday(ctx, key) {
		return
	}
	if err := s.deps.Flags.Set(ctx, key, daily.DateKey(s.deps.Clock.Now())); err != nil {
		log.Warn().Err(err).Str("flag", key).Msg("write flag")
	}
}

// ---------------------------------------------------------------------------
// derived views

func (s *Session) ID() string { return s.id }
func (s *Session) Mode() Mode { return s.mode }
func (s *Session) Date() string { return s.date }
func (s *Session) Answer() discs.Disc { return s.answer }
func (s *Session) Status() Status { return s.status }
func (s *Session) Timer() TimerState { return s.timer }
func (s *Session) Chosen() []string { return slices.Clone(s.chosen) }
func (s *Session) FirstOffer() []string { return slices.Clone(s.firstOffer) }
func (s *Session) SecondOffer() []string { return slices.Clone(s.secondOffer) }

// Guesses returns the guess history in submission order.
func (s *Session) Guesses() []GuessRecord { return slices.Clone(s.guesses) }

// Won reports whether the last guess hit the answer.
func (s *Session) Won() bool { return s.status == StatusWon }

// Misses counts guesses that are not the winning guess.
func (s *Session) Misses() int {
	if s.status == StatusWon {
		return len(s.guesses) - 1
	}
	return len(s.guesses)
}

// PendingOffer returns the offer the player can pick from right now, if any.
func (s *Session) PendingOffer() []string {
	if s.status.Terminal() {
		return nil
	}
	switch {
	case len(s.chosen) == 0 && s.Misses() >= FirstOfferMisses:
		return slices.Clone(s.firstOffer)
	case len(s.chosen) == 1 && s.Misses() >= SecondOfferMisses:
		return slices.Clone(s.secondOffer)
	}
	return nil
}

// Reveal is the combined effect of the chosen powerups.
func (s *Session) Reveal() powerup.RevealState {
	return powerup.Reveal(s.chosen, s.fullScanAfter)
}

// CellStatus is the live board status of guess i's attribute a.
func (s *Session) CellStatus(i int, a discs.Attribute) Mark {
	if i < 0 || i >= len(s.guesses) {
		return MarkWrong
	}
	rec := s.guesses[i]
	r := s.Reveal()
	return DisplayStatus(rec, a, s.answer, r.Directions, true, r.FullScanApplies(rec.Seq))
}

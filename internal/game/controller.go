package game

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Controller owns a player's current session and its hardcore countdown.
// All access to the session goes through the controller's mutex; the
// countdown goroutine is the only other writer and it stops as soon as
// the session it was started for is replaced.
type Controller struct {
	mu      sync.Mutex
	deps    Deps
	every   time.Duration
	session *Session
	stop    context.CancelFunc
	// onFinish runs under the lock when a session ends.
	onFinish func(*Session)
}

// ControllerOption customizes a Controller.
type ControllerOption func(*Controller)

// WithTickInterval changes the countdown tick (tests use milliseconds).
func WithTickInterval(d time.Duration) ControllerOption {
	return func(c *Controller) { c.every = d }
}

// WithOnFinish registers a hook run once per session when it ends.
func WithOnFinish(fn func(*Session)) ControllerOption {
	return func(c *Controller) { c.onFinish = fn }
}

// NewController starts a controller with a fresh session in mode.
func NewController(mode Mode, deps Deps, opts ...ControllerOption) *Controller {
	c := &Controller{deps: deps, every: defaultTickInterval}
	for _, o := range opts {
		o(c)
	}
	c.session = NewSession(mode, deps)
	return c
}

// Submit applies a guess to the current session.
func (c *Controller) Submit(ctx context.Context, input string) (GuessRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session
	rec, err := s.SubmitGuess(ctx, input)
	if err != nil {
		return rec, err
	}
	if s.Timer().Active && c.stop == nil {
		c.startTimerLocked(s)
	}
	if s.Status().Terminal() {
		c.stopTimerLocked()
		c.finishedLocked(s)
	}
	return rec, nil
}

// Choose picks a powerup in the current session.
func (c *Controller) Choose(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.ChoosePowerup(id)
}

// NewGame discards the current session and deals another in the same mode.
func (c *Controller) NewGame(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked(ctx, c.session.Mode())
}

// SwitchMode discards the current session and deals one in mode.
func (c *Controller) SwitchMode(ctx context.Context, mode Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked(ctx, mode)
}

// Close stops the countdown. The controller must not be used afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimerLocked()
}

// View runs fn with the current session under the lock. fn must not retain s.
func (c *Controller) View(fn func(s *Session)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.session)
}

// Snapshot renders the current session.
func (c *Controller) Snapshot() Snapshot {
	var snap Snapshot
	c.View(func(s *Session) { snap = NewSnapshot(s) })
	return snap
}

func (c *Controller) resetLocked(ctx context.Context, mode Mode) {
	// stop first so no tick can land on the discarded session
	c.stopTimerLocked()
	c.session.Abandon(ctx)
	c.session = NewSession(mode, c.deps)
}

func (c *Controller) stopTimerLocked() {
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
}

func (c *Controller) startTimerLocked(s *Session) {
	ctx, cancel := context.WithCancel(context.Background())
	c.stop = cancel
	go c.countdown(ctx, s)
}

func (c *Controller) countdown(ctx context.Context, s *Session) {
	t := time.NewTicker(c.every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}

		c.mu.Lock()
		// cancellation happens under the lock, so this check is final
		if ctx.Err() != nil || c.session != s {
			c.mu.Unlock()
			return
		}
		expired := s.Tick(ctx)
		if expired {
			c.stopTimerLocked()
			c.finishedLocked(s)
		}
		c.mu.Unlock()

		if expired {
			log.Info().Str("session", s.ID()).Msg("hardcore timer expired")
			return
		}
	}
}

func (c *Controller) finishedLocked(s *Session) {
	if c.onFinish != nil {
		c.onFinish(s)
	}
}

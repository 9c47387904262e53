// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily cycle.
// Exposes under /daily:
//   - GET /daily/countdown        → time until the next daily reset
//   - GET /daily/countdown/stream → the same, pushed once per second (SSE)
//   - GET /daily/status           → today's date and the player's "today" flags
//
// Also serves GET /game/history from the game_results table.
//
// The answer itself rolls over at UTC midnight; the countdown shows the
// product's announced reset time in the configured zone.

package httpserver

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/discdle/internal/daily"
)

// SSE event names.
const (
	eventCountdown = "countdown"
	eventReset     = "reset"
)

// mountDaily registers all /daily routes. The stream is long-lived and is
// kept out of the request timeout.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/countdown/stream", s.handleCountdownStream)
		r.Group(func(r chi.Router) {
			r.Use(s.withPlayer)
			r.Get("/countdown", s.handleCountdown)
			r.Get("/status", s.handleDailyStatus)
		})
	})
}

// countdownRes is the countdown payload (also the SSE event data).
type countdownRes struct {
	Remaining string `json:"remaining"` // HH:MM:SS
	Seconds   int    `json:"seconds"`
	Zone      string `json:"zone"`
}

func (s *Server) countdown() countdownRes {
	d := daily.UntilNextReset(s.opts.Clock.Now(), s.opts.ResetLocation)
	return countdownRes{
		Remaining: daily.FormatCountdown(d),
		Seconds:   int(d / time.Second),
		Zone:      s.opts.ResetLocation.String(),
	}
}

func (s *Server) handleCountdown(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.countdown())
}

// handleCountdownStream pushes a countdown event every second until the
// client goes away. A reset event is sent when the countdown reaches zero.
func (s *Server) handleCountdownStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming_unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	send := func() error {
		c := s.countdown()
		event := eventCountdown
		if c.Seconds == 0 {
			event = eventReset
		}
		_, err := fmt.Fprintf(w, "event: %s\ndata: {\"remaining\":%q,\"seconds\":%d,\"zone\":%q}\n\n",
			event, c.Remaining, c.Seconds, c.Zone)
		flusher.Flush()
		return err
	}

	ctx := r.Context()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	if err := send(); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("countdown stream closed")
			return
		case <-ticker.C:
			if err := send(); err != nil {
				return
			}
		}
	}
}

type statusRes struct {
	Date              string `json:"date"`
	DailyPlayed       bool   `json:"dailyPlayed"`
	HardcoreAttempted bool   `json:"hardcoreAttempted"`
}

// handleDailyStatus reports which of today's one-shot modes the player has used.
func (s *Server) handleDailyStatus(w http.ResponseWriter, r *http.Request) {
	flags := s.flagsFor(playerID(r.Context()))
	today := daily.DateKey(s.opts.Clock.Now())
	is := func(key string) bool {
		v, ok, err := flags.Get(r.Context(), key)
		if err != nil {
			log.Warn().Err(err).Str("flag", key).Msg("read flag")
			return false
		}
		return ok && v == today
	}
	writeJSON(w, http.StatusOK, statusRes{
		Date:              today,
		DailyPlayed:       is(daily.FlagDailyPlayed),
		HardcoreAttempted: is(daily.FlagHardcoreAttempted),
	})
}

// handleHistory returns the player's finished games, newest first.
// Without a database there is no history.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.results == nil {
		writeJSON(w, http.StatusOK, []daily.Result{})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit > 100 {
		limit = 100
	}
	rows, err := s.results.History(r.Context(), playerID(r.Context()), limit)
	if err != nil {
		log.Error().Err(err).Msg("load history")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

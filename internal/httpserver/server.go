// internal/httpserver/server.go
//
// HTTP server wiring for the Discdle backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (per player): POST /game/new, GET /game, POST /game/guess,
//     POST /game/powerup, GET|POST /game/share, GET /game/history.
//   - Catalog endpoints: /catalog/brands, /catalog/discs.
//   - Daily endpoints: mounted under /daily (countdown + SSE stream).
//
// Notes:
//   - Each player owns one game.Controller, kept in a store.Store.
//   - Finished games are written to game_results when a database is configured.
//   - Domain rejections map to JSON {"error":"..."} with a 4xx status.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/discdle/internal/daily"
	"github.com/robalobadob/discdle/internal/discs"
	"github.com/robalobadob/discdle/internal/game"
	"github.com/robalobadob/discdle/internal/powerup"
	"github.com/robalobadob/discdle/internal/share"
	"github.com/robalobadob/discdle/internal/store"
)

// Options configure a Server. Catalog and Games are required.
type Options struct {
	Catalog *discs.Catalog
	Games   store.Store
	// DB enables persistent flags and result history. Nil keeps flags in memory.
	DB *sql.DB

	JWTSecret    string
	CookieName   string
	CookieSecure bool
	ClientOrigin string

	ResetLocation   *time.Location
	HardcoreSeconds int
	ShareTitle      string

	// Clock and TickInterval are overridden in tests.
	Clock        game.Clock
	TickInterval time.Duration
}

// Server bundles the router and the game dependencies.
type Server struct {
	r       *chi.Mux
	opts    Options
	results *daily.Store
	flags   *store.MemoryFlags
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	if opts.Clock == nil {
		opts.Clock = game.SystemClock
	}
	if opts.ResetLocation == nil {
		opts.ResetLocation = time.UTC
	}
	if opts.ShareTitle == "" {
		opts.ShareTitle = share.DefaultTitle
	}
	if opts.CookieName == "" {
		opts.CookieName = "discdle_player"
	}
	s := &Server{r: chi.NewRouter(), opts: opts}
	if opts.DB != nil {
		s.results = daily.NewStore(opts.DB)
	} else {
		s.flags = store.NewMemoryFlags()
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(jsonContentType) // default JSON responses
	s.r.Use(s.cors)          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"discdle","endpoints":["/health","POST /game/new","POST /game/guess","/catalog/*","/daily/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// Everything but the SSE stream is bounded in time.
	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))

		r.Route("/game", func(r chi.Router) {
			r.Use(s.withPlayer)
			r.Post("/new", s.handleNewGame)
			r.Get("/", s.handleGetGame)
			r.Post("/guess", s.handleGuess)
			r.Post("/powerup", s.handlePowerup)
			r.Get("/share", s.handleShareText)
			r.Post("/share", s.handleShare)
			r.Get("/history", s.handleHistory)
		})
		r.Route("/catalog", func(r chi.Router) {
			r.Use(s.withPlayer)
			r.Get("/brands", s.handleBrands)
			r.Get("/discs", s.handleDiscs)
		})
	})

	s.mountDaily(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.opts.ClientOrigin
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ helpers ------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// errorStatus maps domain rejections to a status and error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, game.ErrInvalidGuessInput):
		return http.StatusBadRequest, "invalid_guess"
	case errors.Is(err, game.ErrGuessAfterTerminal):
		return http.StatusConflict, "game_over"
	case errors.Is(err, game.ErrDailyAlreadyPlayed):
		return http.StatusConflict, "daily_already_played"
	case errors.Is(err, game.ErrPowerupsDisabled):
		return http.StatusBadRequest, "powerups_disabled"
	case errors.Is(err, game.ErrPowerupNotOffered):
		return http.StatusBadRequest, "powerup_not_offered"
	case errors.Is(err, game.ErrGameOver):
		return http.StatusConflict, "game_over"
	case errors.Is(err, store.ErrUnknownGame):
		return http.StatusNotFound, "no_game"
	}
	return http.StatusInternalServerError, "server_error"
}

func writeDomainError(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	}
	writeError(w, status, code)
}

// flagsFor returns the player's flag store.
func (s *Server) flagsFor(playerID string) game.FlagStore {
	if s.results != nil {
		return s.results.ForPlayer(playerID)
	}
	return s.flags.ForPlayer(playerID)
}

// controller returns the player's live controller.
func (s *Server) controller(r *http.Request) (*game.Controller, error) {
	return s.opts.Games.Get(r.Context(), playerID(r.Context()))
}

// recordResult persists a finished game. It runs under the controller lock,
// so it must not call back into the controller.
func (s *Server) recordResult(playerID string) func(*game.Session) {
	return func(sess *game.Session) {
		if s.results == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := s.results.InsertResult(ctx, daily.Result{
			ID:       sess.ID(),
			PlayerID: playerID,
			Mode:     string(sess.Mode()),
			Date:     sess.Date(),
			AnswerID: sess.Answer().ID,
			Status:   string(sess.Status()),
			Guesses:  len(sess.Guesses()),
			Powerups: sess.Chosen(),
		})
		if err != nil {
			log.Warn().Err(err).Str("session", sess.ID()).Msg("insert result")
		}
	}
}

// ------------------------------ GAME ---------------------------------------

type newGameReq struct {
	Mode string `json:"mode"` // "casual" | "daily" | "hardcore"; default casual
}

// handleNewGame deals a new game. An existing controller is reused so that
// leaving a running hardcore game is recorded and its timer stops.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	mode := game.ModeCasual
	if req.Mode != "" {
		m, ok := game.ParseMode(req.Mode)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_mode")
			return
		}
		mode = m
	}

	pid := playerID(r.Context())
	c, err := s.opts.Games.Get(r.Context(), pid)
	switch {
	case err == nil:
		c.SwitchMode(r.Context(), mode)
	case errors.Is(err, store.ErrUnknownGame):
		deps := game.Deps{
			Catalog:      s.opts.Catalog,
			Flags:        s.flagsFor(pid),
			Clock:        s.opts.Clock,
			TimerSeconds: s.opts.HardcoreSeconds,
		}
		opts := []game.ControllerOption{game.WithOnFinish(s.recordResult(pid))}
		if s.opts.TickInterval > 0 {
			opts = append(opts, game.WithTickInterval(s.opts.TickInterval))
		}
		c = game.NewController(mode, deps, opts...)
		if err := s.opts.Games.Save(r.Context(), pid, c); err != nil {
			log.Error().Err(err).Msg("save game")
			writeError(w, http.StatusInternalServerError, "save_failed")
			return
		}
	default:
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c.Snapshot())
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	c, err := s.controller(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c.Snapshot())
}

type guessReq struct {
	Guess string `json:"guess"` // disc id, or "Brand Name" in hardcore
}

type guessRes struct {
	Guess game.GuessRecord `json:"guess"`
	Game  game.Snapshot    `json:"game"`
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	c, err := s.controller(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	rec, err := c.Submit(r.Context(), req.Guess)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, guessRes{Guess: rec, Game: c.Snapshot()})
}

type powerupReq struct {
	ID string `json:"id"`
}

func (s *Server) handlePowerup(w http.ResponseWriter, r *http.Request) {
	var req powerupReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	c, err := s.controller(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := c.Choose(req.ID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c.Snapshot())
}

// ------------------------------ SHARE --------------------------------------

type shareRes struct {
	Title   string        `json:"title"`
	Text    string        `json:"text"`
	Outcome share.Outcome `json:"outcome,omitempty"`
	Message string        `json:"message,omitempty"`
}

func (s *Server) shareText(r *http.Request) (string, error) {
	c, err := s.controller(r)
	if err != nil {
		return "", err
	}
	var text string
	c.View(func(sess *game.Session) { text = share.FromSession(s.opts.ShareTitle, sess) })
	return text, nil
}

func (s *Server) handleShareText(w http.ResponseWriter, r *http.Request) {
	text, err := s.shareText(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shareRes{Title: s.opts.ShareTitle, Text: text})
}

// shareReport is what the client observed when it tried its share sinks.
// Each field is "ok", "unavailable", "failed" or empty (sink not present).
type shareReport struct {
	Native    string `json:"native"`
	Clipboard string `json:"clipboard"`
}

var errSinkFailed = errors.New("client reported failure")

// reportedSink replays one client-side result as a share sink.
type reportedSink string

func (r reportedSink) result() error {
	switch r {
	case "ok":
		return nil
	case "unavailable":
		return share.ErrUnavailable
	}
	return errSinkFailed
}

func (r reportedSink) Share(context.Context, string, string) error { return r.result() }
func (r reportedSink) Copy(context.Context, string) error          { return r.result() }

// handleShare resolves the client's share attempt into an outcome and the
// status line to show.
func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	var rep shareReport
	if err := json.NewDecoder(r.Body).Decode(&rep); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	text, err := s.shareText(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var (
		native share.Sharer
		clip   share.Copier
	)
	if rep.Native != "" {
		native = reportedSink(rep.Native)
	}
	if rep.Clipboard != "" {
		clip = reportedSink(rep.Clipboard)
	}
	out := share.Attempt(r.Context(), native, clip, s.opts.ShareTitle, text)
	writeJSON(w, http.StatusOK, shareRes{Title: s.opts.ShareTitle, Text: text, Outcome: out, Message: out.Message()})
}

// ----------------------------- CATALOG -------------------------------------

func (s *Server) handleBrands(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.opts.Catalog.Brands())
}

type discOption struct {
	discs.Disc
	// Label is the picker text, with any values revealed by scanner powerups.
	Label string `json:"label"`
}

// handleDiscs lists the picker options for a brand (all discs without one).
func (s *Server) handleDiscs(w http.ResponseWriter, r *http.Request) {
	list := s.opts.Catalog.All()
	if brand := r.URL.Query().Get("brand"); brand != "" {
		list = s.opts.Catalog.ByBrand(brand)
	}
	var values discs.AttrSet
	if c, err := s.controller(r); err == nil {
		c.View(func(sess *game.Session) { values = sess.Reveal().Values })
	}
	out := make([]discOption, 0, len(list))
	for _, d := range list {
		out = append(out, discOption{Disc: d, Label: powerup.Label(d, values)})
	}
	writeJSON(w, http.StatusOK, out)
}

package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/robalobadob/discdle/internal/daily"
	"github.com/robalobadob/discdle/internal/discs"
	"github.com/robalobadob/discdle/internal/game"
	"github.com/robalobadob/discdle/internal/storage"
	"github.com/robalobadob/discdle/internal/store"
)

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

var testNow = time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, withDB bool) *Server {
	t.Helper()
	cat, err := discs.Load("")
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{
		Catalog:         cat,
		Games:           store.NewMemoryStore(),
		JWTSecret:       "test-secret",
		CookieName:      "discdle_player",
		HardcoreSeconds: 60,
		Clock:           fixedClock(testNow),
		TickInterval:    5 * time.Millisecond,
	}
	if withDB {
		db, err := storage.Open(filepath.Join(t.TempDir(), "discdle.db"))
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = db.Close() })
		if err := storage.Migrate(db); err != nil {
			t.Fatal(err)
		}
		opts.DB = db
	}
	return New(opts)
}

// player replays the identity cookie the server hands out.
type player struct {
	t      *testing.T
	s      *Server
	cookie *http.Cookie
}

func (p *player) do(method, path string, body any) *httptest.ResponseRecorder {
	p.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	return p.send(method, path, &buf)
}

// send posts a raw body, for payloads that are not valid JSON.
func (p *player) send(method, path string, body io.Reader) *httptest.ResponseRecorder {
	p.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if p.cookie != nil {
		req.AddCookie(p.cookie)
	}
	rec := httptest.NewRecorder()
	p.s.Router().ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == "discdle_player" {
			p.cookie = c
		}
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	return decode[map[string]string](t, rec)["error"]
}

func TestHealth(t *testing.T) {
	p := &player{t: t, s: newTestServer(t, false)}
	rec := p.do(http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok":true`) {
		t.Fatalf("health = %d %s", rec.Code, rec.Body.String())
	}
	rec = p.do(http.MethodGet, "/nope", nil)
	if rec.Code != http.StatusNotFound || errorCode(t, rec) != "not_found" {
		t.Fatalf("404 = %d %s", rec.Code, rec.Body.String())
	}
}

func TestPlayerIdentity(t *testing.T) {
	s := newTestServer(t, false)
	p := &player{t: t, s: s}
	p.do(http.MethodGet, "/catalog/brands", nil)
	if p.cookie == nil {
		t.Fatal("first request must issue a player cookie")
	}
	first := p.cookie.Value
	id, err := s.parsePlayerToken(first)
	if err != nil || id == "" {
		t.Fatalf("issued token does not parse: %v", err)
	}

	rec := p.do(http.MethodGet, "/catalog/brands", nil)
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("a valid cookie must be kept")
	}

	p.cookie = &http.Cookie{Name: "discdle_player", Value: first + "x"}
	p.do(http.MethodGet, "/catalog/brands", nil)
	if p.cookie.Value == first+"x" {
		t.Fatal("tampered token must be replaced")
	}
}

func TestGameFlow(t *testing.T) {
	s := newTestServer(t, true)
	p := &player{t: t, s: s}

	if rec := p.do(http.MethodGet, "/game", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("GET /game before new = %d", rec.Code)
	}
	if rec := p.do(http.MethodPost, "/game/new", newGameReq{Mode: "blitz"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad mode = %d", rec.Code)
	}

	rec := p.do(http.MethodPost, "/game/new", newGameReq{Mode: "daily"})
	snap := decode[game.Snapshot](t, rec)
	if snap.Mode != game.ModeDaily || snap.Date != "2024-06-01" || snap.Theme != "daily-theme" {
		t.Fatalf("new daily = %+v", snap)
	}

	answer := daily.SelectDaily(s.opts.Catalog, testNow)
	var wrong []string
	for _, d := range s.opts.Catalog.All() {
		if d.ID != answer.ID && len(wrong) < 2 {
			wrong = append(wrong, d.ID)
		}
	}

	if rec := p.do(http.MethodPost, "/game/guess", guessReq{Guess: "not-a-disc"}); errorCode(t, rec) != "invalid_guess" {
		t.Fatalf("invalid guess = %s", rec.Body.String())
	}
	for _, id := range wrong {
		if rec := p.do(http.MethodPost, "/game/guess", guessReq{Guess: id}); rec.Code != http.StatusOK {
			t.Fatalf("guess %s = %d %s", id, rec.Code, rec.Body.String())
		}
	}
	snap = decode[game.Snapshot](t, p.do(http.MethodGet, "/game", nil))
	if len(snap.Offer) != 2 || snap.Answer != nil {
		t.Fatalf("after two misses: offer=%v answer=%v", snap.Offer, snap.Answer)
	}

	if rec := p.do(http.MethodPost, "/game/powerup", powerupReq{ID: "nope"}); errorCode(t, rec) != "powerup_not_offered" {
		t.Fatalf("bad powerup = %s", rec.Body.String())
	}
	snap = decode[game.Snapshot](t, p.do(http.MethodPost, "/game/powerup", powerupReq{ID: snap.Offer[0].ID}))
	if len(snap.Chosen) != 1 {
		t.Fatalf("chosen = %v", snap.Chosen)
	}

	res := decode[guessRes](t, p.do(http.MethodPost, "/game/guess", guessReq{Guess: answer.ID}))
	if res.Game.Status != game.StatusWon || res.Game.Answer == nil || res.Guess.Seq != 3 {
		t.Fatalf("winning guess = %+v", res)
	}

	sh := decode[shareRes](t, p.do(http.MethodGet, "/game/share", nil))
	if !strings.HasPrefix(sh.Text, "Discdle 3/6\n") {
		t.Fatalf("share text = %q", sh.Text)
	}

	st := decode[statusRes](t, p.do(http.MethodGet, "/daily/status", nil))
	if !st.DailyPlayed || st.HardcoreAttempted {
		t.Fatalf("status = %+v", st)
	}

	hist := decode[[]daily.Result](t, p.do(http.MethodGet, "/game/history", nil))
	if len(hist) != 1 || hist[0].Status != "won" || hist[0].Guesses != 3 || len(hist[0].Powerups) != 1 {
		t.Fatalf("history = %+v", hist)
	}

	p.do(http.MethodPost, "/game/new", newGameReq{Mode: "daily"})
	if rec := p.do(http.MethodPost, "/game/guess", guessReq{Guess: answer.ID}); errorCode(t, rec) != "daily_already_played" {
		t.Fatalf("replay = %s", rec.Body.String())
	}
}

func TestShareOutcome(t *testing.T) {
	s := newTestServer(t, false)
	p := &player{t: t, s: s}
	p.do(http.MethodPost, "/game/new", newGameReq{Mode: "daily"})
	answer := daily.SelectDaily(s.opts.Catalog, testNow)
	p.do(http.MethodPost, "/game/guess", guessReq{Guess: answer.ID})

	cases := []struct {
		rep  shareReport
		want string
	}{
		{shareReport{Native: "ok"}, "shared"},
		{shareReport{Native: "unavailable", Clipboard: "ok"}, "copied"},
		{shareReport{Clipboard: "failed"}, "failed"},
		{shareReport{}, "unsupported"},
	}
	for _, tc := range cases {
		res := decode[shareRes](t, p.do(http.MethodPost, "/game/share", tc.rep))
		if string(res.Outcome) != tc.want || res.Message == "" {
			t.Fatalf("%+v -> %+v", tc.rep, res)
		}
	}
}

func TestHardcoreOverHTTP(t *testing.T) {
	s := newTestServer(t, true)
	s.opts.HardcoreSeconds = 2
	p := &player{t: t, s: s}

	snap := decode[game.Snapshot](t, p.do(http.MethodPost, "/game/new", newGameReq{Mode: "hardcore"}))
	if snap.Timer == nil || snap.Timer.Active {
		t.Fatalf("timer before first guess = %+v", snap.Timer)
	}

	pid, err := s.parsePlayerToken(p.cookie.Value)
	if err != nil {
		t.Fatal(err)
	}
	c, err := s.opts.Games.Get(context.Background(), pid)
	if err != nil {
		t.Fatal(err)
	}
	var answer discs.Disc
	c.View(func(sess *game.Session) { answer = sess.Answer() })
	guess := s.opts.Catalog.At(0)
	if guess.ID == answer.ID {
		guess = s.opts.Catalog.At(1)
	}

	rec := p.do(http.MethodPost, "/game/guess", guessReq{Guess: guess.ID})
	if errorCode(t, rec) != "invalid_guess" {
		t.Fatalf("hardcore id guess = %s", rec.Body.String())
	}
	rec = p.do(http.MethodPost, "/game/guess", guessReq{Guess: strings.ToUpper(guess.FullName())})
	if rec.Code != http.StatusOK {
		t.Fatalf("hardcore name guess = %d %s", rec.Code, rec.Body.String())
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		snap = decode[game.Snapshot](t, p.do(http.MethodGet, "/game", nil))
		if snap.Status == game.StatusLostTimeExpired {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("timer never expired: %+v", snap.Timer)
		}
		time.Sleep(5 * time.Millisecond)
	}
	if rec := p.do(http.MethodPost, "/game/powerup", powerupReq{ID: "rim-scan"}); errorCode(t, rec) != "powerups_disabled" {
		t.Fatalf("hardcore powerup = %s", rec.Body.String())
	}

	st := decode[statusRes](t, p.do(http.MethodGet, "/daily/status", nil))
	if !st.HardcoreAttempted {
		t.Fatal("expired hardcore game must be recorded")
	}
	hist := decode[[]daily.Result](t, p.do(http.MethodGet, "/game/history", nil))
	if len(hist) != 1 || hist[0].Status != string(game.StatusLostTimeExpired) {
		t.Fatalf("history = %+v", hist)
	}
}

func TestCatalog(t *testing.T) {
	s := newTestServer(t, false)
	p := &player{t: t, s: s}

	brands := decode[[]string](t, p.do(http.MethodGet, "/catalog/brands", nil))
	if len(brands) == 0 {
		t.Fatal("no brands")
	}
	opts := decode[[]discOption](t, p.do(http.MethodGet, "/catalog/discs?brand="+brands[0], nil))
	if len(opts) == 0 {
		t.Fatal("no discs for brand")
	}
	for _, o := range opts {
		if o.Brand != brands[0] || o.Label != o.Name {
			t.Fatalf("option = %+v", o)
		}
	}
	all := decode[[]discOption](t, p.do(http.MethodGet, "/catalog/discs", nil))
	if len(all) != s.opts.Catalog.Len() {
		t.Fatalf("all discs = %d", len(all))
	}
}

func TestCountdown(t *testing.T) {
	s := newTestServer(t, false)
	s.opts.ResetLocation, _ = time.LoadLocation("America/New_York")
	p := &player{t: t, s: s}

	// 15:00 UTC is 11:00 in New York (EDT)
	c := decode[countdownRes](t, p.do(http.MethodGet, "/daily/countdown", nil))
	if c.Remaining != "13:00:00" || c.Seconds != 13*3600 || c.Zone != "America/New_York" {
		t.Fatalf("countdown = %+v", c)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/daily/countdown/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	body := rec.Body.String()
	if rec.Header().Get("Content-Type") != "text/event-stream" {
		t.Fatalf("content type = %q", rec.Header().Get("Content-Type"))
	}
	if !strings.HasPrefix(body, "event: countdown\ndata: {\"remaining\":\"13:00:00\"") {
		t.Fatalf("stream = %q", body)
	}
}

func TestNewGameBody(t *testing.T) {
	p := &player{t: t, s: newTestServer(t, false)}
	rec := p.send(http.MethodPost, "/game/new", strings.NewReader(`{"mode":`))
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "bad_json" {
		t.Fatalf("malformed body = %d %s", rec.Code, rec.Body.String())
	}

	rec = p.send(http.MethodPost, "/game/new", strings.NewReader(""))
	if rec.Code != http.StatusOK {
		t.Fatalf("empty body = %d %s", rec.Code, rec.Body.String())
	}
	if got := decode[map[string]any](t, rec)["mode"]; got != "casual" {
		t.Fatalf("empty body mode = %v", got)
	}
}

func TestErrorStatus(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{game.ErrInvalidGuessInput, http.StatusBadRequest},
		{game.ErrGuessAfterTerminal, http.StatusConflict},
		{game.ErrDailyAlreadyPlayed, http.StatusConflict},
		{game.ErrPowerupsDisabled, http.StatusBadRequest},
		{game.ErrPowerupNotOffered, http.StatusBadRequest},
		{game.ErrGameOver, http.StatusConflict},
		{store.ErrUnknownGame, http.StatusNotFound},
		{context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got, _ := errorStatus(tc.err); got != tc.code {
			t.Fatalf("errorStatus(%v) = %d, want %d", tc.err, got, tc.code)
		}
	}
}

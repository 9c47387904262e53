package game

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/robalobadob/discdle/internal/discs"
)

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

var june1 = fixedClock(time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC))

// memFlags is a FlagStore that counts writes.
type memFlags struct {
	mu     sync.Mutex
	values map[string]string
	sets   int
}

func newMemFlags() *memFlags { return &memFlags{values: map[string]string{}} }

func (m *memFlags) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memFlags) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	m.sets++
	return nil
}

func (m *memFlags) value(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key]
}

// testCatalog has ten discs d0..d9. Brand alternates, speed is i+1,
// glide is 4 for all but d5, turn/fade vary.
func testCatalog(t *testing.T) *discs.Catalog {
	t.Helper()
	var list []discs.Disc
	for i := 0; i < 10; i++ {
		brand := "Innova"
		if i%2 == 1 {
			brand = "Discraft"
		}
		glide := 4.0
		if i == 5 {
			glide = 6
		}
		list = append(list, discs.Disc{
			ID:      fmt.Sprintf("d%d", i),
			Brand:   brand,
			Name:    fmt.Sprintf("Model%d", i),
			Type:    "Midrange",
			Speed:   float64(i + 1),
			Glide:   glide,
			Turn:    float64(-(i % 3)),
			Fade:    float64(i % 4),
			Profile: discs.ProfileModerate,
		})
	}
	c, err := discs.New(list)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return c
}

func testDeps(t *testing.T, flags FlagStore) Deps {
	return Deps{Catalog: testCatalog(t), Flags: flags, Clock: june1}
}

func mustGuess(t *testing.T, s *Session, input string) GuessRecord {
	t.Helper()
	rec, err := s.SubmitGuess(context.Background(), input)
	if err != nil {
		t.Fatalf("SubmitGuess(%q): %v", input, err)
	}
	return rec
}

// wrongIDs returns n catalog ids that are not the answer.
func wrongIDs(s *Session, n int) []string {
	var out []string
	for i := 0; i < 10 && len(out) < n; i++ {
		id := fmt.Sprintf("d%d", i)
		if id != s.Answer().ID {
			out = append(out, id)
		}
	}
	return out
}

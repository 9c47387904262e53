package store

import (
	"context"
	"errors"
	"testing"

	"github.com/robalobadob/discdle/internal/discs"
	"github.com/robalobadob/discdle/internal/game"
)

func controller(t *testing.T) *game.Controller {
	t.Helper()
	c, err := discs.Load("")
	if err != nil {
		t.Fatal(err)
	}
	return game.NewController(game.ModeCasual, game.Deps{Catalog: c})
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	if _, err := st.Get(ctx, "p1"); !errors.Is(err, ErrUnknownGame) {
		t.Fatalf("Get on empty store: %v", err)
	}
	a := controller(t)
	if err := st.Save(ctx, "p1", a); err != nil {
		t.Fatal(err)
	}
	got, err := st.Get(ctx, "p1")
	if err != nil || got != a {
		t.Fatalf("Get = %p, %v", got, err)
	}

	b := controller(t)
	_ = st.Save(ctx, "p1", b)
	if got, _ := st.Get(ctx, "p1"); got != b {
		t.Fatal("Save must replace the controller")
	}
	if _, err := st.Get(ctx, "p2"); !errors.Is(err, ErrUnknownGame) {
		t.Fatal("players are isolated")
	}

	if err := st.Delete(ctx, "p1"); err != nil {
		t.Fatal(err)
	}
	if err := st.Delete(ctx, "p1"); !errors.Is(err, ErrUnknownGame) {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestMemoryFlags(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryFlags()
	a, b := m.ForPlayer("a"), m.ForPlayer("b")

	if _, ok, _ := a.Get(ctx, "daily_played"); ok {
		t.Fatal("fresh store has no flags")
	}
	if err := a.Set(ctx, "daily_played", "2024-06-01"); err != nil {
		t.Fatal(err)
	}
	if v, ok, _ := m.ForPlayer("a").Get(ctx, "daily_played"); !ok || v != "2024-06-01" {
		t.Fatalf("Get = %q %v", v, ok)
	}
	if _, ok, _ := b.Get(ctx, "daily_played"); ok {
		t.Fatal("flags leaked across players")
	}
}

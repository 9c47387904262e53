// internal/store/memory.go
//
// In-memory registry of live game controllers, one per player, plus an
// in-memory flag store used when no database is configured.
//
// Characteristics:
//   - Controllers are keyed by player id in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - Get returns ErrUnknownGame for players without a controller.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/discdle/internal/game"
)

// ErrUnknownGame is returned when a player has no live game.
var ErrUnknownGame = errors.New("no game for player")

// Store holds live controllers by player id.
type Store interface {
	// Save registers or replaces the player's controller. A replaced
	// controller is closed.
	Save(ctx context.Context, playerID string, c *game.Controller) error

	// Get returns the player's controller or ErrUnknownGame.
	Get(ctx context.Context, playerID string) (*game.Controller, error)

	// Delete closes and forgets the player's controller.
	Delete(ctx context.Context, playerID string) error
}

type memory struct {
	mu    sync.RWMutex                // guards games
	games map[string]*game.Controller // keyed by player id
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]*game.Controller)}
}

func (m *memory) Save(_ context.Context, playerID string, c *game.Controller) error {
	m.mu.Lock()
	old := m.games[playerID]
	m.games[playerID] = c
	m.mu.Unlock()
	if old != nil && old != c {
		old.Close()
	}
	return nil
}

func (m *memory) Get(_ context.Context, playerID string) (*game.Controller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.games[playerID]; ok {
		return c, nil
	}
	return nil, ErrUnknownGame
}

func (m *memory) Delete(_ context.Context, playerID string) error {
	m.mu.Lock()
	c, ok := m.games[playerID]
	delete(m.games, playerID)
	m.mu.Unlock()
	if !ok {
		return ErrUnknownGame
	}
	c.Close()
	return nil
}

// MemoryFlags is a process-local flag store for all players.
type MemoryFlags struct {
	mu    sync.RWMutex
	flags map[string]map[string]string
}

// NewMemoryFlags returns an empty flag store.
func NewMemoryFlags() *MemoryFlags {
	return &MemoryFlags{flags: make(map[string]map[string]string)}
}

// ForPlayer scopes the store to one player.
func (m *MemoryFlags) ForPlayer(playerID string) game.FlagStore {
	return playerFlags{m: m, id: playerID}
}

type playerFlags struct {
	m  *MemoryFlags
	id string
}

func (p playerFlags) Get(_ context.Context, key string) (string, bool, error) {
	p.m.mu.RLock()
	defer p.m.mu.RUnlock()
	v, ok := p.m.flags[p.id][key]
	return v, ok, nil
}

func (p playerFlags) Set(_ context.Context, key, value string) error {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	if p.m.flags[p.id] == nil {
		p.m.flags[p.id] = make(map[string]string)
	}
	p.m.flags[p.id][key] = value
	return nil
}

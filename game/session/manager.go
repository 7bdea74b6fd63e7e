package session

import (
	"errors"
	"sync"

	"github.com/wricardo/multiplayer-pong/game/engine"
	"github.com/wricardo/multiplayer-pong/game/service"
)

var (
	ErrGameAlreadyExists = errors.New("game already exists")
)

// Manager is the in-memory registry of running games
type Manager struct {
	games map[string]*service.Game
	mu    sync.RWMutex
}

// NewManager creates a new game registry
func NewManager() *Manager {
	return &Manager{
		games: make(map[string]*service.Game),
	}
}

// Create registers a game around an already built simulation, so it is
// complete by the time Get or List can see it.
func (m *Manager) Create(id string, arena *engine.Arena, eng *engine.Game) (*service.Game, error) {
	if id == "" {
		return nil, service.ErrInvalidGameID
	}
	if eng == nil {
		return nil, errors.New("game engine is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// IDs come from share URLs, so lookups are exact.
	if _, exists := m.games[id]; exists {
		return nil, ErrGameAlreadyExists
	}

	game := service.NewGame(id, arena, eng)
	m.games[id] = game

	return game, nil
}

// Get retrieves a game by ID
func (m *Manager) Get(id string) (*service.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	game, exists := m.games[id]
	if !exists {
		return nil, service.ErrGameNotFound
	}
	return game, nil
}

// List returns all running games
func (m *Manager) List() []*service.Game {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Game, 0, len(m.games))
	for _, game := range m.games {
		result = append(result, game)
	}

	return result
}

// Delete removes a game
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.games[id]; !exists {
		return service.ErrGameNotFound
	}
	delete(m.games, id)

	return nil
}

// Count returns the number of running games
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

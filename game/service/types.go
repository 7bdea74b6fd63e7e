package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wricardo/multiplayer-pong/game/engine"
)

// Game is one running match and the connections attached to it.
type Game struct {
	ID        string
	Arena     *engine.Arena
	CreatedAt time.Time

	mu      sync.Mutex
	engine  *engine.Game
	players map[engine.PlayerID]int
	cancel  context.CancelFunc
}

// NewGame wraps a simulation so it can be shared between the loop and the connections.
func NewGame(id string, arena *engine.Arena, eng *engine.Game) *Game {
	return &Game{
		ID:        id,
		Arena:     arena,
		CreatedAt: time.Now(),
		engine:    eng,
		players:   make(map[engine.PlayerID]int),
	}
}

// State returns a copy of the current state.
func (g *Game) State() engine.GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.engine.State()
}

// Step advances the simulation by one tick.
func (g *Game) Step() engine.GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.engine.Step()
}

// ApplyIntent moves the player's paddle; the engine clamps it.
func (g *Game) ApplyIntent(player engine.PlayerID, y float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.engine.ApplyIntent(player, y)
}

// Connections returns the number of open connections to this game.
func (g *Game) Connections() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.players {
		n += c
	}
	return n
}

// Players returns the player slots with at least one connection, sorted.
func (g *Game) Players() []engine.PlayerID {
	g.mu.Lock()
	defer g.mu.Unlock()
	players := make([]engine.PlayerID, 0, len(g.players))
	for p := range g.players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i] < players[j] })
	return players
}

func (g *Game) attach(player engine.PlayerID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.players[player]++
}

// detach returns the remaining connection count.
func (g *Game) detach(player engine.PlayerID) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.players[player] > 0 {
		g.players[player]--
	}
	if g.players[player] == 0 {
		delete(g.players, player)
	}
	n := 0
	for _, c := range g.players {
		n += c
	}
	return n
}

// GameInfo provides information about a running game
type GameInfo struct {
	ID          string            `json:"id"`
	ArenaName   string            `json:"arena_name"`
	CreatedAt   time.Time         `json:"created_at"`
	Players     []engine.PlayerID `json:"players"`
	Connections int               `json:"connections"`
	GameState   *engine.GameState `json:"game_state"`
}

// ArenaInfo provides basic information about an arena configuration
type ArenaInfo struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	BallSpeed   float64 `json:"ball_speed"`
	TickRate    int     `json:"tick_rate"`
}

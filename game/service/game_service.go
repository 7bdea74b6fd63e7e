package service

import (
	"context"
	"errors"

	"github.com/wricardo/multiplayer-pong/game/engine"
)

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrInvalidGameID   = errors.New("invalid game ID")
	ErrInvalidPlayerID = errors.New("invalid player ID")
)

// GameService defines all game-related operations of the authoritative server
type GameService interface {
	// Connection lifecycle. The first Join of a game creates it and starts its
	// loop; the last Leave stops the loop and removes the game.
	Join(ctx context.Context, gameID string, player engine.PlayerID) error
	Leave(ctx context.Context, gameID string, player engine.PlayerID) error

	// Game Operations
	ApplyIntent(ctx context.Context, gameID string, player engine.PlayerID, intent engine.PaddleIntent) error

	// Game State
	GetState(ctx context.Context, gameID string) (*engine.GameState, error)
	ListGames(ctx context.Context) ([]*GameInfo, error)

	// Configuration
	ListArenas(ctx context.Context) ([]*ArenaInfo, error)

	// Shutdown stops every running game loop.
	Shutdown()
}

// GameRegistry defines game storage operations. Create receives the built
// simulation so a registered game is never seen half-initialized.
type GameRegistry interface {
	Create(id string, arena *engine.Arena, eng *engine.Game) (*Game, error)
	Get(id string) (*Game, error)
	List() []*Game
	Delete(id string) error
}

// ArenaManager handles arena configuration loading
type ArenaManager interface {
	LoadArena(name string) (*engine.Arena, error)
	ListArenas() ([]*ArenaInfo, error)
	GetDefault() *engine.Arena
}

// Broadcaster pushes a new state to every client connected to a game.
type Broadcaster interface {
	BroadcastState(gameID string, state *engine.GameState)
}

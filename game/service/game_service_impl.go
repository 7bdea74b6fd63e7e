package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/wricardo/multiplayer-pong/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	games       GameRegistry
	arenas      ArenaManager
	broadcaster Broadcaster
	clock       clockwork.Clock
	newRand     func() engine.Rand

	// mu serializes Join and Leave so a game cannot be joined while it is being torn down.
	mu sync.Mutex
}

type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastState(string, *engine.GameState) {}

// NewGameService creates a new game service instance. A nil broadcaster drops
// every state; a nil clock uses the wall clock.
func NewGameService(games GameRegistry, arenas ArenaManager, broadcaster Broadcaster, clock clockwork.Clock) GameService {
	if broadcaster == nil {
		broadcaster = noopBroadcaster{}
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &gameServiceImpl{
		games:       games,
		arenas:      arenas,
		broadcaster: broadcaster,
		clock:       clock,
		newRand: func() engine.Rand {
			return engine.NewRand(uint64(time.Now().UnixNano()))
		},
	}
}

// Join attaches a connection to a game, creating the game on first use
func (s *gameServiceImpl) Join(ctx context.Context, gameID string, player engine.PlayerID) error {
	if gameID == "" {
		return ErrInvalidGameID
	}
	if player == "" {
		return ErrInvalidPlayerID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	game, err := s.games.Get(gameID)
	if errors.Is(err, ErrGameNotFound) {
		game, err = s.createGame(gameID)
	}
	if err != nil {
		return err
	}

	game.attach(player)
	log.Info().
		Str("game_id", gameID).
		Str("player_id", string(player)).
		Int("connections", game.Connections()).
		Msg("player joined")

	return nil
}

func (s *gameServiceImpl) createGame(gameID string) (*Game, error) {
	arena := s.arenas.GetDefault()
	eng, err := engine.NewGame(arena, s.newRand())
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	game, err := s.games.Create(gameID, arena, eng)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	game.cancel = cancel
	go s.runLoop(loopCtx, game)

	log.Info().Str("game_id", gameID).Str("arena", arena.Name).Msg("game created")
	return game, nil
}

// Leave detaches a connection; the last one out stops and removes the game
func (s *gameServiceImpl) Leave(ctx context.Context, gameID string, player engine.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, err := s.games.Get(gameID)
	if err != nil {
		return err
	}

	remaining := game.detach(player)
	log.Info().
		Str("game_id", gameID).
		Str("player_id", string(player)).
		Int("connections", remaining).
		Msg("player left")

	if remaining > 0 {
		return nil
	}

	if game.cancel != nil {
		game.cancel()
	}
	if err := s.games.Delete(gameID); err != nil && !errors.Is(err, ErrGameNotFound) {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	log.Info().Str("game_id", gameID).Msg("game removed")

	return nil
}

// ApplyIntent moves the player's paddle to the proposed position
func (s *gameServiceImpl) ApplyIntent(ctx context.Context, gameID string, player engine.PlayerID, intent engine.PaddleIntent) error {
	game, err := s.games.Get(gameID)
	if err != nil {
		return err
	}

	game.ApplyIntent(player, intent.PaddleY)
	return nil
}

// GetState returns the current state of a game
func (s *gameServiceImpl) GetState(ctx context.Context, gameID string) (*engine.GameState, error) {
	game, err := s.games.Get(gameID)
	if err != nil {
		return nil, err
	}

	state := game.State()
	return &state, nil
}

// ListGames returns every running game, oldest first
func (s *gameServiceImpl) ListGames(ctx context.Context) ([]*GameInfo, error) {
	games := s.games.List()
	sort.Slice(games, func(i, j int) bool {
		return games[i].CreatedAt.Before(games[j].CreatedAt)
	})

	infos := make([]*GameInfo, 0, len(games))
	for _, g := range games {
		state := g.State()
		infos = append(infos, &GameInfo{
			ID:          g.ID,
			ArenaName:   g.Arena.Name,
			CreatedAt:   g.CreatedAt,
			Players:     g.Players(),
			Connections: g.Connections(),
			GameState:   &state,
		})
	}

	return infos, nil
}

// ListArenas returns all available arena configurations
func (s *gameServiceImpl) ListArenas(ctx context.Context) ([]*ArenaInfo, error) {
	return s.arenas.ListArenas()
}

// Shutdown stops every running game loop
func (s *gameServiceImpl) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range s.games.List() {
		if g.cancel != nil {
			g.cancel()
		}
	}
}

// runLoop steps the game at the arena tick rate and broadcasts every new state
func (s *gameServiceImpl) runLoop(ctx context.Context, game *Game) {
	ticker := s.clock.NewTicker(time.Second / time.Duration(game.Arena.TickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("game_id", game.ID).Msg("game loop stopped")
			return
		case <-ticker.Chan():
			state := game.Step()
			s.broadcaster.BroadcastState(game.ID, &state)
		}
	}
}

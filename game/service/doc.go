// Package service provides the authoritative game layer of the pong server.
//
// The service package implements:
//   - Per-game simulation loops driven by a clock
//   - Connection lifecycle (first join creates a game, last leave removes it)
//   - Paddle intents from connected players
//
// Core Interfaces:
//
// GameService is the main service interface used by the transports.
// GameRegistry stores running games by ID.
// ArenaManager loads arena configurations.
// Broadcaster pushes every new state to the connected clients of a game.
//
// Usage:
//
//	registry := session.NewManager()
//	arenas, _ := config.NewManager("arenas", "classic")
//	svc := service.NewGameService(registry, arenas, hub, nil)
//	defer svc.Shutdown()
//
//	_ = svc.Join(ctx, "k3x9qa", engine.Player1)
//	_ = svc.ApplyIntent(ctx, "k3x9qa", engine.Player1, engine.PaddleIntent{PaddleY: 270})
//
// Each game ticks at its arena tick rate. The loop uses a clockwork.Clock so
// tests can drive it with a fake clock.
package service

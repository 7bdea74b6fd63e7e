// Package session resolves who a client is and keeps track of running games.
//
// Identity:
//
// A client learns its game and player from the page URL it was opened with.
// The "game" query parameter names the game; without it a random base-36 ID
// is generated. A non-empty fragment makes the client player 2, so the link
// player 1 shares looks like:
//
//	http://localhost:5173/?game=k3x9qa#2
//
// No check is made that two clients agree on a game, and random IDs are not
// checked for collisions.
//
// Registry:
//
// Manager is the thread-safe in-memory registry of running games used by the
// server. Game IDs are matched exactly.
//
// Usage:
//
//	id, err := session.ResolveIdentity(pageURL)
//	if err != nil {
//		log.Fatal(err)
//	}
//	endpoint := id.Endpoint("ws://localhost:8000")
//
//	arena := engine.DefaultArena()
//	eng, err := engine.NewGame(arena, engine.NewRand(seed))
//	manager := session.NewManager()
//	game, err := manager.Create(id.GameID, arena, eng)
package session

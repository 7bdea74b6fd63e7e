// Package websocket provides the server side of the real-time game channel.
//
// The package uses a hub-and-spoke model where a central Hub manages all
// connections, grouped into one room per game. Each connection is served by a
// read pump and a write pump goroutine.
//
// Message Protocol:
//
//   - Incoming: {"paddleY": 270}, one intent per text frame
//   - Outgoing: one complete GameState JSON object per text frame
//
// Frames without a numeric paddleY are logged and ignored; the connection
// stays open.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	svc := service.NewGameService(registry, arenas, hub, nil)
//	router.HandleFunc("/ws/{gameId}/{playerId}", func(w http.ResponseWriter, r *http.Request) {
//		vars := mux.Vars(r)
//		hub.ServeWS(w, r, vars["gameId"], engine.PlayerID(vars["playerId"]), svc)
//	})
//
// Connection Lifecycle:
//
// 1. Client connects to /ws/{gameId}/{playerId}
// 2. Handler.Join is called, then the connection joins its room
// 3. Client sends intents, receives every broadcast state
// 4. Disconnection unregisters the client and calls Handler.Leave
//
// BroadcastState never blocks the game loop. A client whose send queue is
// full is disconnected.
package websocket

// Package api provides the HTTP surface of the ping pong game server.
//
// Endpoints:
//
// Play:
//   - GET /ws/{gameId}/{playerId} - WebSocket for player 1 or 2 of a game
//
// Games:
//   - GET /api/games - List running games
//   - GET /api/games/{id}/state - Current state of one game
//   - POST /api/games/{id}/players/{playerId}/paddle - Move a paddle with {"paddleY": n}
//
// Configuration:
//   - GET /api/arenas - List available arenas
//
// Operations:
//   - GET /healthz - Liveness check
//   - POST /mcp - MCP tool endpoint, when a handler is supplied
//
// Errors are returned as {"error": "message"}. Every origin is allowed, since
// the browser client is usually served from a different port.
package api

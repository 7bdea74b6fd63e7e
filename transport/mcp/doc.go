// Package mcp exposes the ping pong game server to AI agents over the Model
// Context Protocol.
//
// Client registers its tools on an mcp-go server and answers each tool call
// by calling the server's REST API, so the same binary can serve agents over
// HTTP (POST /mcp) or over stdio against a remote game server.
//
// MCP Tools:
//   - list_games: Running games with their arena and connected players
//   - game_state: Ball, paddles, obstacles and score of one game
//   - move_paddle: Propose a paddleY for player 1 or 2
//   - list_arenas: Arena configurations the server can run
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8000")
//	http.Handle("/mcp", client)
//
//	// or over stdio
//	server.ServeStdio(client.GetMCPServer())
package mcp

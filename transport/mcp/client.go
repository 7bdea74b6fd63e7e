package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
	"github.com/wricardo/multiplayer-pong/game/engine"
	"github.com/wricardo/multiplayer-pong/game/service"
)

// Version is reported to MCP clients during initialization.
const Version = "1.0.0"

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API at baseURL
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Multiplayer Ping Pong",
		Version,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Multiplayer Ping Pong - MCP Interface

This is a thin client that proxies all requests to the game server's REST API.

THE GAME:
Two paddles on an 800x600 field. Player 1 owns the left paddle, player 2 the right.
A paddle is 100 tall and its top edge (paddleY) stays within 0..500. Two obstacles
drift inside the field and deflect the ball. A miss scores for the other player.

AVAILABLE TOOLS:
- list_games: List running games and who is connected
- game_state: Get the ball, paddles, obstacles and score of a game
- move_paddle: Move a player's paddle to a new paddleY
- list_arenas: List arena configurations the server can run

A game exists only while at least one player is connected over its websocket.`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_games",
		Description: "List all running games",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListGames)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current state of a game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID, the ?game= value of the page URL",
				},
			},
			Required: []string{"game_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_paddle",
		Description: "Move a player's paddle. The server clamps paddle_y to 0..500",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
				"player_id": map[string]interface{}{
					"type":        "string",
					"description": "Player whose paddle moves",
					"enum":        []string{"1", "2"},
				},
				"paddle_y": map[string]interface{}{
					"type":        "number",
					"description": "New top edge of the paddle",
				},
			},
			Required: []string{"game_id", "player_id", "paddle_y"},
		},
	}, c.handleMovePaddle)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_arenas",
		Description: "List available arena configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListArenas)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// ServeHTTP answers one JSON-RPC message per POST
func (c *Client) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	response := c.mcpServer.HandleMessage(r.Context(), body)

	w.Header().Set("Content-Type", "application/json")
	responseData, err := json.Marshal(response)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal MCP response")
		http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
		return
	}
	w.Write(responseData)
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// Tool handlers

func (c *Client) handleListGames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Total int                `json:"total"`
		Games []service.GameInfo `json:"games"`
	}

	if err := c.apiCall(ctx, "GET", "/api/games", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Running Games (%d):\n\n", response.Total)
	for _, g := range response.Games {
		players := make([]string, 0, len(g.Players))
		for _, p := range g.Players {
			players = append(players, string(p))
		}
		result += fmt.Sprintf("- %s (Arena: %s, Players: [%s], Created: %s)\n",
			g.ID, g.ArenaName, strings.Join(players, ","), g.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID, _ := arguments(request)["game_id"].(string)
	if gameID == "" {
		return mcp.NewToolResultError("game_id is required"), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", "/api/games/"+url.PathEscape(gameID)+"/state", nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(gameID, &state)), nil
}

func (c *Client) handleMovePaddle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	gameID, _ := args["game_id"].(string)
	if gameID == "" {
		return mcp.NewToolResultError("game_id is required"), nil
	}

	var playerID string
	switch v := args["player_id"].(type) {
	case string:
		playerID = v
	case float64:
		playerID = strconv.Itoa(int(v))
	}
	if playerID != string(engine.Player1) && playerID != string(engine.Player2) {
		return mcp.NewToolResultError("player_id must be 1 or 2"), nil
	}

	paddleY, ok := args["paddle_y"].(float64)
	if !ok {
		return mcp.NewToolResultError("paddle_y must be a number"), nil
	}

	path := fmt.Sprintf("/api/games/%s/players/%s/paddle", url.PathEscape(gameID), playerID)
	var state engine.GameState
	if err := c.apiCall(ctx, "POST", path, engine.PaddleIntent{PaddleY: paddleY}, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Player %s paddle now at %.0f\n\n%s",
		playerID, state.PaddleY(engine.PlayerID(playerID)), formatGameState(gameID, &state))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListArenas(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Arenas []service.ArenaInfo `json:"arenas"`
	}

	if err := c.apiCall(ctx, "GET", "/api/arenas", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Arenas:\n\n"
	for _, a := range response.Arenas {
		result += fmt.Sprintf("- %s: %s (ball speed %.1f, %d ticks/s)\n",
			a.Name, a.Description, a.BallSpeed, a.TickRate)
	}

	return mcp.NewToolResultText(result), nil
}

func formatGameState(gameID string, state *engine.GameState) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Game: %s | Score: %d - %d\n", gameID, state.Score1, state.Score2)
	fmt.Fprintf(&b, "Ball: (%.0f, %.0f) moving (%.1f, %.1f)\n", state.BallX, state.BallY, state.BallDX, state.BallDY)
	fmt.Fprintf(&b, "Paddle 1: y=%.0f | Paddle 2: y=%.0f\n", state.Paddle1Y, state.Paddle2Y)
	fmt.Fprintf(&b, "Obstacles: (%.0f, %.0f) and (%.0f, %.0f)\n",
		state.Obstacle1X, state.Obstacle1Y, state.Obstacle2X, state.Obstacle2Y)

	return b.String()
}

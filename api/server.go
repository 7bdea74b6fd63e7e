package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"github.com/wricardo/multiplayer-pong/game/engine"
	"github.com/wricardo/multiplayer-pong/game/service"
	"github.com/wricardo/multiplayer-pong/transport/websocket"
)

// Server represents the HTTP surface of the game server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	mcp     http.Handler
	router  *mux.Router
	handler http.Handler
}

// NewServer creates a new API server. A nil mcpHandler leaves /mcp unrouted.
func NewServer(gameService service.GameService, hub *websocket.Hub, mcpHandler http.Handler) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		mcp:     mcpHandler,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()

	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})
	s.handler = c.Handler(s.router)

	return s
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// WebSocket, one connection per player
	s.router.HandleFunc("/ws/{gameId}/{playerId}", s.handleWebSocket)

	api := s.router.PathPrefix("/api").Subrouter()

	// Games
	api.HandleFunc("/games", s.handleListGames).Methods("GET")
	api.HandleFunc("/games/{id}/state", s.handleGetGameState).Methods("GET")
	api.HandleFunc("/games/{id}/players/{playerId}/paddle", s.handleMovePaddle).Methods("POST")

	// Configuration
	api.HandleFunc("/arenas", s.handleListArenas).Methods("GET")

	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	if s.mcp != nil {
		s.router.Handle("/mcp", s.mcp).Methods("POST")
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// errorStatus maps service errors to HTTP status codes
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidGameID), errors.Is(err, service.ErrInvalidPlayerID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func validPlayer(id string) bool {
	return id == string(engine.Player1) || id == string(engine.Player2)
}

// Game Handlers

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.service.ListGames(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"total": len(games),
		"games": games,
	})
}

func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	state, err := s.service.GetState(r.Context(), gameID)
	if err != nil {
		respondError(w, errorStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleMovePaddle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := vars["id"]
	playerID := vars["playerId"]

	if !validPlayer(playerID) {
		respondError(w, http.StatusBadRequest, service.ErrInvalidPlayerID.Error())
		return
	}

	var req struct {
		PaddleY *float64 `json:"paddleY"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PaddleY == nil {
		respondError(w, http.StatusBadRequest, "paddleY is required")
		return
	}

	intent := engine.PaddleIntent{PaddleY: *req.PaddleY}
	if err := s.service.ApplyIntent(r.Context(), gameID, engine.PlayerID(playerID), intent); err != nil {
		respondError(w, errorStatus(err), err.Error())
		return
	}

	state, err := s.service.GetState(r.Context(), gameID)
	if err != nil {
		respondError(w, errorStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, state)
}

// Configuration Handlers

func (s *Server) handleListArenas(w http.ResponseWriter, r *http.Request) {
	arenas, err := s.service.ListArenas(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"arenas": arenas,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := vars["gameId"]
	playerID := vars["playerId"]

	if !validPlayer(playerID) {
		http.Error(w, "player must be 1 or 2", http.StatusBadRequest)
		return
	}
	if s.hub == nil {
		http.Error(w, "websocket hub unavailable", http.StatusServiceUnavailable)
		return
	}

	log.Debug().Str("game_id", gameID).Str("player_id", playerID).Msg("websocket upgrade")
	s.hub.ServeWS(w, r, gameID, engine.PlayerID(playerID), s.service)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

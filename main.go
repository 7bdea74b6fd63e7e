// Command pong-server runs the authoritative server of the multiplayer ping
// pong game.
//
// It has two modes:
//  1. default – runs the HTTP server exposing the game websocket, a REST API, and an /mcp endpoint
//  2. "mcp" – runs an MCP stdio server that talks to a running game server's REST API
//
// Flags control host/port, the arena directory and default arena, debug
// logging, and optional ngrok tunneling so a remote second player can join.
// Every flag can also be set through the environment or a .env file.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/multiplayer-pong/api"
	"github.com/wricardo/multiplayer-pong/game/config"
	"github.com/wricardo/multiplayer-pong/game/service"
	"github.com/wricardo/multiplayer-pong/game/session"
	"github.com/wricardo/multiplayer-pong/transport/mcp"
	"github.com/wricardo/multiplayer-pong/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Multiplayer Ping Pong Server"
)

// main loads .env and runs the command line.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: error loading .env file: %v\n", err)
	}

	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

// newCommand builds the command tree with its flags and environment sources.
func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "pong-server",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Usage:   "HTTP server host",
				Value:   "0.0.0.0",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Usage:   "HTTP server port",
				Value:   8000,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "arena-dir",
				Usage:   "directory containing arena YAML files",
				Value:   "arenas",
				Sources: cli.EnvVars("ARENA_DIR"),
			},
			&cli.StringFlag{
				Name:    "arena",
				Usage:   "arena new games start with",
				Value:   "classic",
				Sources: cli.EnvVars("ARENA"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "expose the server through an ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			setupLogging(cmd.Bool("debug"))
			return ctx, nil
		},
		Action: runHTTPServer,
		Commands: []*cli.Command{
			{
				Name:  "mcp",
				Usage: "run an MCP stdio server against a running game server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "api-url",
						Usage:   "base URL of the game server REST API",
						Value:   "http://localhost:8000",
						Sources: cli.EnvVars("PONG_API_URL"),
					},
				},
				Action: runStdioMCP,
			},
		},
	}
}

func setupLogging(debug bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// initializeServices wires the arena manager, game registry, and game service.
func initializeServices(arenaDir, arenaName string, broadcaster service.Broadcaster) (service.GameService, error) {
	arenas, err := config.NewManager(arenaDir, arenaName)
	if err != nil {
		return nil, fmt.Errorf("failed to create arena manager: %w", err)
	}

	log.Info().Str("dir", arenaDir).Str("arena", arenas.GetDefault().Name).Msg("arenas loaded")

	return service.NewGameService(session.NewManager(), arenas, broadcaster, nil), nil
}

// runHTTPServer starts the HTTP server with the websocket hub, REST API, and
// /mcp endpoint. With --ngrok it also provisions a public tunnel.
func runHTTPServer(ctx context.Context, cmd *cli.Command) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hub := websocket.NewHub()
	go hub.Run(ctx)

	gameService, err := initializeServices(cmd.String("arena-dir"), cmd.String("arena"), hub)
	if err != nil {
		return err
	}
	defer gameService.Shutdown()

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))
	mcpClient := mcp.NewClient(fmt.Sprintf("http://127.0.0.1:%d", cmd.Int("port")))
	handler := api.NewServer(gameService, hub, mcpClient)

	httpServer := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Handle shutdown signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	serveErr := make(chan error, 1)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Info().Str("addr", addr).Msg("HTTP server listening")
		log.Info().Msgf("WebSocket: ws://%s/ws/<game_id>/<player_id>", addr)
		log.Info().Msgf("REST API: http://%s/api", addr)
		log.Info().Msgf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), handler)
		}()
	}

	// Wait for shutdown signal
	select {
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err = <-serveErr:
		log.Error().Err(err).Msg("HTTP server failed")
	case <-ctx.Done():
	}
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Error().Err(shutdownErr).Msg("HTTP server shutdown error")
	}

	wg.Wait()
	log.Info().Msg("server stopped")
	return err
}

// runNgrok serves handler through an ngrok tunnel until ctx is done.
func runNgrok(ctx context.Context, authToken, domain string, handler http.Handler) {
	if authToken == "" {
		log.Warn().Msg("ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	log.Info().Msg("starting ngrok tunnel")

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Info().Str("domain", domain).Msg("using custom ngrok domain")
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Error().Err(err).Msg("failed to start ngrok tunnel")
		return
	}

	// http.Serve returns once the tunnel is closed.
	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close ngrok tunnel")
		}
	}()

	log.Info().Str("url", tun.URL()).Msg("ngrok tunnel established")
	log.Info().Msgf("  WebSocket (ngrok): %s/ws/<game_id>/<player_id>", tun.URL())
	log.Info().Msgf("  MCP endpoint (ngrok): %s/mcp", tun.URL())

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Error().Err(err).Msg("ngrok server error")
	}
	log.Info().Msg("ngrok tunnel closed")
}

// runStdioMCP serves the MCP tools over stdio. Logs go to stderr so stdout
// stays a clean JSON-RPC stream.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	apiURL := cmd.String("api-url")
	mcpClient := mcp.NewClient(apiURL)

	log.Info().Str("api_url", apiURL).Msg("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server: %w", err)
	}
	return nil
}

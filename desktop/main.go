// Command pong is the desktop client of the multiplayer ping pong game.
//
// The game and player come from a page-style URL: ?game=<id> picks the game
// (a random one is created without it) and any #fragment joins as player 2.
//
//	pong                                   # host a new game as player 1
//	pong --url 'http://localhost:5173/?game=k3x9qa#2'
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/multiplayer-pong/client"
	"github.com/wricardo/multiplayer-pong/game/session"
	"github.com/wricardo/multiplayer-pong/transport/wsclient"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: could not load .env file: %v\n", err)
	}

	cmd := &cli.Command{
		Name:  "pong",
		Usage: "Play multiplayer ping pong against a friend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Usage:   "page URL carrying ?game=<id> and an optional #fragment for player 2",
				Value:   "http://localhost:5173/",
				Sources: cli.EnvVars("PONG_URL"),
			},
			&cli.StringFlag{
				Name:    "server",
				Usage:   "websocket base URL of the game server",
				Value:   "ws://localhost:8000",
				Sources: cli.EnvVars("PONG_SERVER"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("PONG_DEBUG"),
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("pong client failed")
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd.Bool("debug"))

	pageURL := cmd.String("url")
	identity, err := session.ResolveIdentity(pageURL)
	if err != nil {
		return err
	}

	if identity.IsHost() {
		log.Info().Str("url", identity.ShareURL(pageURL)).Msg("Share this URL with player 2")
	}

	f, err := loadFonts()
	if err != nil {
		return err
	}

	ctrl := client.NewController(cmd.String("server"), client.WebsocketDialer(wsclient.NewDialer()))
	defer ctrl.Close()
	ctrl.SetIdentity(identity)

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(newView(ctrl, f)); err != nil {
		return fmt.Errorf("game loop: %w", err)
	}
	return nil
}

func setupLogging(debug bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

package session

import (
	"fmt"
	"math/big"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/wricardo/multiplayer-pong/game/engine"
)

// gameIDLength is the number of base-36 digits kept from a random UUID.
const gameIDLength = 6

// Identity is the (game, player) pair a client joins with.
type Identity struct {
	GameID   string
	PlayerID engine.PlayerID
}

// ResolveIdentity reads the identity from a page URL. The game comes from the
// "game" query parameter, or a fresh random ID when absent. Any non-empty
// fragment makes the client player 2.
func ResolveIdentity(pageURL string) (Identity, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to parse page URL: %w", err)
	}

	id := Identity{
		GameID:   u.Query().Get("game"),
		PlayerID: engine.Player1,
	}
	if id.GameID == "" {
		id.GameID = NewGameID()
	}
	if u.Fragment != "" {
		id.PlayerID = engine.Player2
	}

	return id, nil
}

// NewGameID returns a short random base-36 game ID.
func NewGameID() string {
	u := uuid.New()
	s := new(big.Int).SetBytes(u[:]).Text(36)
	if len(s) > gameIDLength {
		s = s[len(s)-gameIDLength:]
	}
	return s
}

// ShareURL is the link that lets a second player join this game.
func (id Identity) ShareURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		u = &url.URL{Path: "/"}
	}

	share := url.URL{
		Scheme:   u.Scheme,
		Host:     u.Host,
		Path:     u.Path,
		RawQuery: url.Values{"game": []string{id.GameID}}.Encode(),
		Fragment: string(engine.Player2),
	}
	return share.String()
}

// Endpoint returns the websocket URL for this identity on the given server.
func (id Identity) Endpoint(server string) string {
	return strings.TrimRight(server, "/") + "/ws/" + url.PathEscape(id.GameID) + "/" + url.PathEscape(string(id.PlayerID))
}

// IsHost reports whether this client created the game.
func (id Identity) IsHost() bool {
	return id.PlayerID == engine.Player1
}

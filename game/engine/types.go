package engine

// PlayerID identifies a paddle slot. The wire value is "1" or "2".
type PlayerID string

const (
	Player1 PlayerID = "1"
	Player2 PlayerID = "2"
)

// Field and presentation constants shared by the client renderer and the server physics.
const (
	GameWidth    = 800
	GameHeight   = 600
	PaddleWidth  = 20
	PaddleHeight = 100
	BallSize     = 15
	ObstacleSize = 50

	// PaddleStep is how far one arrow key press proposes to move the paddle.
	PaddleStep = 20

	BallSpeed   = 5.0
	BallSpeedUp = 1.1
	TicksPerSec = 60
	MaxPaddleY  = GameHeight - PaddleHeight
)

// GameState is the server-authoritative snapshot pushed to every client in a game.
type GameState struct {
	BallX  float64 `json:"ball_x"`
	BallY  float64 `json:"ball_y"`
	BallDX float64 `json:"ball_dx"`
	BallDY float64 `json:"ball_dy"`

	Paddle1Y float64 `json:"paddle1_y"`
	Paddle2Y float64 `json:"paddle2_y"`

	Score1 int `json:"score1"`
	Score2 int `json:"score2"`

	Obstacle1X float64 `json:"obstacle1_x"`
	Obstacle1Y float64 `json:"obstacle1_y"`
	Obstacle2X float64 `json:"obstacle2_x"`
	Obstacle2Y float64 `json:"obstacle2_y"`
}

// PaddleY returns the last known paddle position of the given player.
// Any player other than Player1 reads the right-hand paddle.
func (s *GameState) PaddleY(player PlayerID) float64 {
	if player == Player1 {
		return s.Paddle1Y
	}
	return s.Paddle2Y
}

// PaddleIntent is the only message a client sends: a proposed paddle Y.
type PaddleIntent struct {
	PaddleY float64 `json:"paddleY"`
}

// Key is the subset of keyboard input the game cares about.
type Key int

const (
	KeyOther Key = iota
	KeyArrowUp
	KeyArrowDown
)

func (k Key) String() string {
	switch k {
	case KeyArrowUp:
		return "ArrowUp"
	case KeyArrowDown:
		return "ArrowDown"
	default:
		return "Other"
	}
}

package engine

import (
	"math"
	"time"

	"golang.org/x/exp/rand"
)

// Rand is the randomness the simulation needs. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// NewRand returns a seeded generator suitable for NewGame.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Game is the authoritative simulation of one match. It is not safe for
// concurrent use; callers serialize access.
type Game struct {
	arena *Arena
	rng   Rand
	state GameState
}

// NewGame creates a match with the ball at the centre, both paddles centred
// and the obstacles placed randomly inside the arena's spawn ranges.
func NewGame(arena *Arena, rng Rand) (*Game, error) {
	if arena == nil {
		arena = DefaultArena()
	}
	if err := ValidateArena(arena); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewRand(uint64(time.Now().UnixNano()))
	}

	g := &Game{arena: arena, rng: rng}
	g.state = GameState{
		BallX:    GameWidth / 2,
		BallY:    GameHeight / 2,
		BallDX:   arena.BallSpeed,
		BallDY:   arena.BallSpeed,
		Paddle1Y: MaxPaddleY / 2,
		Paddle2Y: MaxPaddleY / 2,
	}
	g.state.Obstacle1X, g.state.Obstacle1Y = g.spawn(arena.Obstacles[0])
	g.state.Obstacle2X, g.state.Obstacle2Y = g.spawn(arena.Obstacles[1])

	return g, nil
}

// Arena returns the rules this match runs with.
func (g *Game) Arena() *Arena {
	return g.arena
}

// State returns a copy of the current state.
func (g *Game) State() GameState {
	return g.state
}

// ApplyIntent moves a paddle to the proposed position, clamped to the field.
func (g *Game) ApplyIntent(player PlayerID, y float64) {
	y = ClampPaddleY(y)
	if player == Player1 {
		g.state.Paddle1Y = y
	} else {
		g.state.Paddle2Y = y
	}
}

// Step advances the ball by one tick and resolves collisions and scoring.
func (g *Game) Step() GameState {
	s := &g.state
	s.BallX += s.BallDX
	s.BallY += s.BallDY

	g.collidePaddles()
	g.collideObstacles()

	if s.BallY <= 0 || s.BallY >= GameHeight-BallSize {
		s.BallDY = -s.BallDY
	}

	if s.BallX <= 0 {
		s.Score2++
		g.ResetBall()
	} else if s.BallX >= GameWidth {
		s.Score1++
		g.ResetBall()
	}

	return g.state
}

// ResetBall puts the ball back in the centre heading in a random diagonal.
func (g *Game) ResetBall() {
	speed := g.arena.BallSpeed
	g.state.BallX = GameWidth / 2
	g.state.BallY = GameHeight / 2
	g.state.BallDX = speed * g.sign()
	g.state.BallDY = speed * g.sign()
}

func (g *Game) collidePaddles() {
	s := &g.state
	if s.BallX <= PaddleWidth && s.BallY >= s.Paddle1Y && s.BallY <= s.Paddle1Y+PaddleHeight {
		s.BallDX = math.Abs(s.BallDX) * g.arena.SpeedUp
	}
	if s.BallX >= GameWidth-PaddleWidth-BallSize && s.BallY >= s.Paddle2Y && s.BallY <= s.Paddle2Y+PaddleHeight {
		s.BallDX = -math.Abs(s.BallDX) * g.arena.SpeedUp
	}
}

func (g *Game) collideObstacles() {
	s := &g.state
	obstacles := [2][2]float64{
		{s.Obstacle1X, s.Obstacle1Y},
		{s.Obstacle2X, s.Obstacle2Y},
	}
	for _, o := range obstacles {
		ox, oy := o[0], o[1]
		if s.BallX < ox || s.BallX > ox+ObstacleSize || s.BallY < oy || s.BallY > oy+ObstacleSize {
			continue
		}
		// Bounce on the axis where the ball is furthest from the obstacle centre.
		dx := s.BallX - (ox + ObstacleSize/2)
		dy := s.BallY - (oy + ObstacleSize/2)
		if math.Abs(dx) > math.Abs(dy) {
			s.BallDX = -s.BallDX
		} else {
			s.BallDY = -s.BallDY
		}
	}
}

func (g *Game) spawn(o ObstacleSpawn) (float64, float64) {
	return float64(g.randInt(o.X)), float64(g.randInt(o.Y))
}

func (g *Game) randInt(r Range) int {
	return r.Min + g.rng.Intn(r.Max-r.Min+1)
}

func (g *Game) sign() float64 {
	if g.rng.Float64() > 0.5 {
		return 1
	}
	return -1
}

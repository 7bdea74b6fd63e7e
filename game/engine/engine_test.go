package engine

import (
	"testing"
)

// fixedRand returns scripted values so physics tests are deterministic.
type fixedRand struct {
	ints   []int
	floats []float64
}

func (r *fixedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	if v >= n {
		return n - 1
	}
	return v
}

func (r *fixedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.9
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func newTestGame(t *testing.T) *Game {
	t.Helper()
	g, err := NewGame(DefaultArena(), &fixedRand{})
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	return g
}

func TestNewGame(t *testing.T) {
	g, err := NewGame(DefaultArena(), &fixedRand{ints: []int{10, 20, 30, 40}})
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}

	s := g.State()
	if s.BallX != 400 || s.BallY != 300 {
		t.Errorf("Expected ball at (400,300), got (%v,%v)", s.BallX, s.BallY)
	}
	if s.BallDX != BallSpeed || s.BallDY != BallSpeed {
		t.Errorf("Expected ball velocity (%v,%v), got (%v,%v)", BallSpeed, BallSpeed, s.BallDX, s.BallDY)
	}
	if s.Paddle1Y != 250 || s.Paddle2Y != 250 {
		t.Errorf("Expected paddles centred at 250, got %v and %v", s.Paddle1Y, s.Paddle2Y)
	}
	if s.Obstacle1X != 210 || s.Obstacle1Y != 70 {
		t.Errorf("Expected obstacle 1 at (210,70), got (%v,%v)", s.Obstacle1X, s.Obstacle1Y)
	}
	if s.Obstacle2X != 530 || s.Obstacle2Y != 90 {
		t.Errorf("Expected obstacle 2 at (530,90), got (%v,%v)", s.Obstacle2X, s.Obstacle2Y)
	}
	if s.Score1 != 0 || s.Score2 != 0 {
		t.Errorf("Expected zero scores, got %d-%d", s.Score1, s.Score2)
	}
}

func TestNewGame_NilArenaUsesDefault(t *testing.T) {
	g, err := NewGame(nil, nil)
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	if g.Arena().Name != "classic" {
		t.Errorf("Expected default arena, got %s", g.Arena().Name)
	}

	s := g.State()
	if s.Obstacle1X < 200 || s.Obstacle1X > 300 {
		t.Errorf("Obstacle 1 x out of spawn range: %v", s.Obstacle1X)
	}
	if s.Obstacle2X < 500 || s.Obstacle2X > 600 {
		t.Errorf("Obstacle 2 x out of spawn range: %v", s.Obstacle2X)
	}
}

func TestNewGame_InvalidArena(t *testing.T) {
	arena := DefaultArena()
	arena.BallSpeed = 0

	if _, err := NewGame(arena, nil); err == nil {
		t.Error("Expected error for invalid arena")
	}
}

func TestApplyIntent_Clamps(t *testing.T) {
	g := newTestGame(t)

	tests := []struct {
		player   PlayerID
		proposed float64
		want     float64
	}{
		{Player1, 120, 120},
		{Player1, -40, 0},
		{Player1, 900, 500},
		{Player2, 300, 300},
		{Player2, 501, 500},
	}

	for _, tt := range tests {
		g.ApplyIntent(tt.player, tt.proposed)
		s := g.State()
		got := s.PaddleY(tt.player)
		if got != tt.want {
			t.Errorf("ApplyIntent(%s, %v): expected %v, got %v", tt.player, tt.proposed, tt.want, got)
		}
	}
}

func TestStep_MovesBall(t *testing.T) {
	g := newTestGame(t)

	s := g.Step()
	if s.BallX != 405 || s.BallY != 305 {
		t.Errorf("Expected ball at (405,305), got (%v,%v)", s.BallX, s.BallY)
	}
}

func TestStep_PaddleBounceSpeedsUp(t *testing.T) {
	g := newTestGame(t)
	g.state.BallX = 22
	g.state.BallY = 300
	g.state.BallDX = -5
	g.state.BallDY = 0
	g.state.Paddle1Y = 250

	s := g.Step()
	if s.BallDX <= 5 || s.BallDX > 5.51 {
		t.Errorf("Expected ball to bounce right at 1.1x speed, got dx=%v", s.BallDX)
	}
}

func TestStep_RightPaddleBounce(t *testing.T) {
	g := newTestGame(t)
	g.state.BallX = 763
	g.state.BallY = 100
	g.state.BallDX = 5
	g.state.BallDY = 0
	g.state.Paddle2Y = 50

	s := g.Step()
	if s.BallDX >= 0 {
		t.Errorf("Expected ball to bounce left, got dx=%v", s.BallDX)
	}
}

func TestStep_WallBounce(t *testing.T) {
	g := newTestGame(t)
	g.state.BallX = 400
	g.state.BallY = 2
	g.state.BallDX = 0
	g.state.BallDY = -5

	s := g.Step()
	if s.BallDY != 5 {
		t.Errorf("Expected dy to flip to 5, got %v", s.BallDY)
	}
}

func TestStep_ObstacleBounce(t *testing.T) {
	g := newTestGame(t)
	g.state.Obstacle1X = 300
	g.state.Obstacle1Y = 300
	g.state.Obstacle2X = 700
	g.state.Obstacle2Y = 50

	// Entering from the left edge, horizontally dominant offset.
	g.state.BallX = 298
	g.state.BallY = 325
	g.state.BallDX = 5
	g.state.BallDY = 0

	s := g.Step()
	if s.BallDX != -5 {
		t.Errorf("Expected horizontal bounce, got dx=%v", s.BallDX)
	}

	// Entering from the top edge, vertically dominant offset.
	g.state.BallX = 325
	g.state.BallY = 298
	g.state.BallDX = 0
	g.state.BallDY = 5

	s = g.Step()
	if s.BallDY != -5 {
		t.Errorf("Expected vertical bounce, got dy=%v", s.BallDY)
	}
}

func TestStep_Scoring(t *testing.T) {
	g, err := NewGame(DefaultArena(), &fixedRand{floats: []float64{0.9, 0.1, 0.1, 0.9}})
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}

	// Miss on the left: player 2 scores.
	g.state.BallX = 3
	g.state.BallY = 10
	g.state.BallDX = -5
	g.state.BallDY = 0
	g.state.Paddle1Y = 400

	s := g.Step()
	if s.Score2 != 1 || s.Score1 != 0 {
		t.Fatalf("Expected 0-1, got %d-%d", s.Score1, s.Score2)
	}
	if s.BallX != 400 || s.BallY != 300 {
		t.Errorf("Expected ball reset to centre, got (%v,%v)", s.BallX, s.BallY)
	}
	if s.BallDX != 5 || s.BallDY != -5 {
		t.Errorf("Expected reset velocity (5,-5), got (%v,%v)", s.BallDX, s.BallDY)
	}

	// Miss on the right: player 1 scores.
	g.state.BallX = 797
	g.state.BallY = 10
	g.state.BallDX = 5
	g.state.BallDY = 0
	g.state.Paddle2Y = 400

	s = g.Step()
	if s.Score1 != 1 || s.Score2 != 1 {
		t.Errorf("Expected 1-1, got %d-%d", s.Score1, s.Score2)
	}
	if s.BallDX != -5 || s.BallDY != 5 {
		t.Errorf("Expected reset velocity (-5,5), got (%v,%v)", s.BallDX, s.BallDY)
	}
}

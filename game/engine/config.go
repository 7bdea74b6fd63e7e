package engine

import (
	"errors"
	"fmt"
)

var ErrInvalidArena = errors.New("invalid arena")

// Range is an inclusive integer interval used for random obstacle placement.
type Range struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// ObstacleSpawn bounds the top-left corner of one obstacle.
type ObstacleSpawn struct {
	X Range `yaml:"x" json:"x"`
	Y Range `yaml:"y" json:"y"`
}

// Arena holds the tunable rules of a match.
type Arena struct {
	Name        string          `yaml:"name" json:"name"`
	Description string          `yaml:"description" json:"description"`
	BallSpeed   float64         `yaml:"ball_speed" json:"ball_speed"`
	SpeedUp     float64         `yaml:"speed_up" json:"speed_up"`
	TickRate    int             `yaml:"tick_rate" json:"tick_rate"`
	Obstacles   []ObstacleSpawn `yaml:"obstacles" json:"obstacles"`
}

// DefaultArena mirrors the classic layout: one obstacle on each half, kept
// away from the centre line.
func DefaultArena() *Arena {
	return &Arena{
		Name:        "classic",
		Description: "Two random obstacles, one per half",
		BallSpeed:   BallSpeed,
		SpeedUp:     BallSpeedUp,
		TickRate:    TicksPerSec,
		Obstacles: []ObstacleSpawn{
			{
				X: Range{Min: GameWidth / 4, Max: GameWidth/2 - 100},
				Y: Range{Min: ObstacleSize, Max: GameHeight - ObstacleSize},
			},
			{
				X: Range{Min: GameWidth/2 + 100, Max: 3 * GameWidth / 4},
				Y: Range{Min: ObstacleSize, Max: GameHeight - ObstacleSize},
			},
		},
	}
}

// ValidateArena checks that an arena can be simulated.
func ValidateArena(a *Arena) error {
	if a == nil {
		return fmt.Errorf("%w: arena is nil", ErrInvalidArena)
	}
	if a.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidArena)
	}
	if a.BallSpeed <= 0 {
		return fmt.Errorf("%w: ball_speed must be positive, got %v", ErrInvalidArena, a.BallSpeed)
	}
	if a.SpeedUp < 1 {
		return fmt.Errorf("%w: speed_up must be at least 1, got %v", ErrInvalidArena, a.SpeedUp)
	}
	if a.TickRate < 1 || a.TickRate > 240 {
		return fmt.Errorf("%w: tick_rate must be between 1 and 240, got %d", ErrInvalidArena, a.TickRate)
	}
	if len(a.Obstacles) != 2 {
		return fmt.Errorf("%w: exactly 2 obstacles are required, got %d", ErrInvalidArena, len(a.Obstacles))
	}

	for i, o := range a.Obstacles {
		if err := validateRange(o.X, GameWidth-ObstacleSize); err != nil {
			return fmt.Errorf("%w: obstacle %d x: %v", ErrInvalidArena, i+1, err)
		}
		if err := validateRange(o.Y, GameHeight-ObstacleSize); err != nil {
			return fmt.Errorf("%w: obstacle %d y: %v", ErrInvalidArena, i+1, err)
		}
	}

	return nil
}

func validateRange(r Range, limit int) error {
	if r.Min > r.Max {
		return fmt.Errorf("min %d is greater than max %d", r.Min, r.Max)
	}
	if r.Min < 0 || r.Max > limit {
		return fmt.Errorf("range [%d,%d] is outside [0,%d]", r.Min, r.Max, limit)
	}
	return nil
}

// Package render draws a game state onto a 2D canvas.
//
// Frame is pure: it only issues drawing calls on the Canvas it is given, so
// the same sequence drives the desktop window and the tests.
package render

import (
	"image/color"
	"strconv"

	"github.com/wricardo/multiplayer-pong/game/engine"
)

// Presentation constants.
var (
	Background = color.RGBA{0x1a, 0x1a, 0x1a, 0xff}
	CenterLine = color.RGBA{0x33, 0x33, 0x33, 0xff}
	Foreground = color.RGBA{0xff, 0xff, 0xff, 0xff}
	Obstacle   = color.RGBA{0xff, 0x44, 0x44, 0xff}
)

const (
	DashLength = 10
	DashGap    = 10
	BallGlow   = 10
	ScoreSize  = 48
	ScoreY     = 60
)

// Canvas is the drawing surface Frame needs.
type Canvas interface {
	Clear()
	FillRect(x, y, w, h float64, c color.Color)
	StrokeDashedLine(x1, y1, x2, y2, dash, gap float64, c color.Color)
	// FillCircle draws a disc with a soft halo of the given radius around it.
	FillCircle(cx, cy, r float64, c color.Color, glow float64)
	// FillText draws bold text horizontally centred on x with its baseline at y.
	FillText(text string, x, y, size float64, c color.Color)
}

// Frame redraws the whole field for one state. A nil state draws nothing.
func Frame(c Canvas, s *engine.GameState) {
	if s == nil {
		return
	}

	const (
		w = float64(engine.GameWidth)
		h = float64(engine.GameHeight)
	)

	c.Clear()
	c.FillRect(0, 0, w, h, Background)
	c.StrokeDashedLine(w/2, 0, w/2, h, DashLength, DashGap, CenterLine)

	c.FillRect(0, s.Paddle1Y, engine.PaddleWidth, engine.PaddleHeight, Foreground)
	c.FillRect(w-engine.PaddleWidth, s.Paddle2Y, engine.PaddleWidth, engine.PaddleHeight, Foreground)

	c.FillCircle(s.BallX, s.BallY, engine.BallSize/2.0, Foreground, BallGlow)

	c.FillRect(s.Obstacle1X, s.Obstacle1Y, engine.ObstacleSize, engine.ObstacleSize, Obstacle)
	c.FillRect(s.Obstacle2X, s.Obstacle2Y, engine.ObstacleSize, engine.ObstacleSize, Obstacle)

	c.FillText(strconv.Itoa(s.Score1), w/4, ScoreY, ScoreSize, Foreground)
	c.FillText(strconv.Itoa(s.Score2), 3*w/4, ScoreY, ScoreSize, Foreground)
}

package main

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/wricardo/multiplayer-pong/client"
	"github.com/wricardo/multiplayer-pong/game/engine"
	"github.com/wricardo/multiplayer-pong/render"
)

const (
	margin       = 40
	fieldX       = margin
	fieldY       = 140
	footerHeight = 130
	screenWidth  = engine.GameWidth + 2*margin
	screenHeight = fieldY + engine.GameHeight + footerHeight

	windowTitle = "Multiplayer Ping Pong"
	retryHint   = " (Click to retry)"
	connecting  = "Connecting to game server..."
	controlHint = "Use ↑ and ↓ arrow keys to move your paddle"

	// Held arrow keys repeat like a keyboard does: after a delay, then steadily.
	repeatDelay    = 15
	repeatInterval = 3
)

var (
	pageColor    = color.RGBA{0x11, 0x18, 0x27, 0xff}
	panelColor   = color.RGBA{0x1f, 0x29, 0x37, 0xff}
	borderColor  = color.RGBA{0x37, 0x41, 0x51, 0xff}
	bannerColor  = color.RGBA{0xef, 0x44, 0x44, 0xff}
	connectColor = color.RGBA{0x60, 0xa5, 0xfa, 0xff}
	mutedColor   = color.RGBA{0x9c, 0xa3, 0xaf, 0xff}

	bannerRect = image.Rect(fieldX, 62, fieldX+engine.GameWidth, 102)
)

// view is the ebiten.Game that shows one controller.
type view struct {
	ctrl   *client.Controller
	fonts  *fonts
	field  *ebiten.Image
	canvas *imageCanvas

	drawnVersion uint64
}

func newView(ctrl *client.Controller, f *fonts) *view {
	field := ebiten.NewImage(engine.GameWidth, engine.GameHeight)
	return &view{
		ctrl:   ctrl,
		fonts:  f,
		field:  field,
		canvas: &imageCanvas{img: field, fonts: f},
	}
}

// Update handles input. Drawing the field is left to Draw.
func (v *view) Update() error {
	if ebiten.IsWindowBeingClosed() {
		v.ctrl.Close()
		return ebiten.Termination
	}

	for key, intent := range map[ebiten.Key]engine.Key{
		ebiten.KeyArrowUp:   engine.KeyArrowUp,
		ebiten.KeyArrowDown: engine.KeyArrowDown,
	} {
		if keyFired(inpututil.KeyPressDuration(key)) {
			v.ctrl.HandleKey(intent)
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if v.ctrl.Snapshot().Error != "" && image.Pt(x, y).In(bannerRect) {
			v.ctrl.Retry()
		}
	}

	return nil
}

// keyFired reports whether a key held for the given number of ticks produces
// a keydown on this tick.
func keyFired(ticks int) bool {
	if ticks == 1 {
		return true
	}
	return ticks > repeatDelay && (ticks-repeatDelay)%repeatInterval == 0
}

// Draw composes the page. The field image is redrawn only when a new state arrived.
func (v *view) Draw(screen *ebiten.Image) {
	snap := v.ctrl.Snapshot()

	if snap.State != nil && snap.Version != v.drawnVersion {
		render.Frame(v.canvas, snap.State)
		v.drawnVersion = snap.Version
	}

	screen.Fill(pageColor)
	center := float64(screenWidth) / 2

	drawCentered(screen, windowTitle, v.fonts.face(true, 30), center, 44, color.White)

	if msg := bannerText(snap); msg != "" {
		vector.DrawFilledRect(screen, float32(bannerRect.Min.X), float32(bannerRect.Min.Y),
			float32(bannerRect.Dx()), float32(bannerRect.Dy()), bannerColor, false)
		drawCentered(screen, msg, v.fonts.face(false, 18), center, float64(bannerRect.Max.Y)-14, color.White)
	}
	if snap.Connecting {
		drawCentered(screen, connecting, v.fonts.face(false, 18), center, 126, connectColor)
	}

	vector.DrawFilledRect(screen, fieldX-16, fieldY-8, engine.GameWidth+32, engine.GameHeight+16, panelColor, false)
	vector.StrokeRect(screen, fieldX-1, fieldY-1, engine.GameWidth+2, engine.GameHeight+2, 1, borderColor, false)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(fieldX, fieldY)
	screen.DrawImage(v.field, op)

	footerY := float64(fieldY + engine.GameHeight)
	drawCentered(screen, "You are Player "+string(snap.Identity.PlayerID), v.fonts.face(false, 22), center, footerY+44, color.White)
	drawCentered(screen, "Game ID: "+snap.Identity.GameID, v.fonts.face(false, 16), center, footerY+72, mutedColor)
	drawCentered(screen, controlHint, v.fonts.face(false, 14), center, footerY+106, color.White)
}

// Layout returns the fixed page size
func (v *view) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

// bannerText is the error line, with the retry hint while no attempt is running.
func bannerText(snap client.Snapshot) string {
	if snap.Error == "" {
		return ""
	}
	if snap.Connecting {
		return snap.Error
	}
	return snap.Error + retryHint
}

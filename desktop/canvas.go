package main

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// fonts holds the two typefaces the client draws with.
type fonts struct {
	bold    *text.GoTextFaceSource
	regular *text.GoTextFaceSource
}

func loadFonts() (*fonts, error) {
	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to load bold font: %w", err)
	}
	regular, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to load regular font: %w", err)
	}
	return &fonts{bold: bold, regular: regular}, nil
}

func (f *fonts) face(bold bool, size float64) *text.GoTextFace {
	src := f.regular
	if bold {
		src = f.bold
	}
	return &text.GoTextFace{Source: src, Size: size}
}

// drawCentered draws s centred on x with its baseline at y.
func drawCentered(dst *ebiten.Image, s string, face *text.GoTextFace, x, y float64, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y-face.Metrics().HAscent)
	op.PrimaryAlign = text.AlignCenter
	op.ColorScale.ScaleWithColor(c)
	text.Draw(dst, s, face, op)
}

// imageCanvas draws the field onto an ebiten image.
type imageCanvas struct {
	img   *ebiten.Image
	fonts *fonts
}

func (c *imageCanvas) Clear() {
	c.img.Clear()
}

func (c *imageCanvas) FillRect(x, y, w, h float64, clr color.Color) {
	vector.DrawFilledRect(c.img, float32(x), float32(y), float32(w), float32(h), clr, false)
}

func (c *imageCanvas) StrokeDashedLine(x1, y1, x2, y2, dash, gap float64, clr color.Color) {
	length := math.Hypot(x2-x1, y2-y1)
	if length == 0 {
		return
	}
	ux, uy := (x2-x1)/length, (y2-y1)/length

	for d := 0.0; d < length; d += dash + gap {
		end := math.Min(d+dash, length)
		vector.StrokeLine(c.img,
			float32(x1+ux*d), float32(y1+uy*d),
			float32(x1+ux*end), float32(y1+uy*end),
			1, clr, false)
	}
}

func (c *imageCanvas) FillCircle(cx, cy, r float64, clr color.Color, glow float64) {
	if glow > 0 {
		cr, cg, cb, _ := clr.RGBA()
		// Rings fade out from the disc edge to r+glow.
		const rings = 5
		for i := rings; i > 0; i-- {
			spread := glow * float64(i) / rings
			alpha := uint8(60 * (1 - float64(i-1)/rings))
			halo := color.NRGBA{uint8(cr >> 8), uint8(cg >> 8), uint8(cb >> 8), alpha}
			vector.DrawFilledCircle(c.img, float32(cx), float32(cy), float32(r+spread), halo, true)
		}
	}
	vector.DrawFilledCircle(c.img, float32(cx), float32(cy), float32(r), clr, true)
}

func (c *imageCanvas) FillText(s string, x, y, size float64, clr color.Color) {
	drawCentered(c.img, s, c.fonts.face(true, size), x, y, clr)
}

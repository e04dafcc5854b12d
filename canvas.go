package seal

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Text anchors, as fractions of the glyph box.
const (
	AnchorStart  = 0.0
	AnchorMiddle = 0.5
	AnchorEnd    = 1.0
)

// Canvas is a drawing surface over an RGBA buffer. A clipped canvas shares
// pixels with its parent but never paints outside its own bounds.
type Canvas struct {
	img *image.RGBA
}

// NewCanvas allocates a transparent width x height canvas.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Image returns the backing buffer.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Bounds reports the drawable area.
func (c *Canvas) Bounds() image.Rectangle {
	return c.img.Bounds()
}

// FillRect paints r with col, replacing what was there.
func (c *Canvas) FillRect(r image.Rectangle, col color.Color) {
	r = r.Intersect(c.img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(c.img, r, image.NewUniform(col), image.Point{}, draw.Src)
}

// Clipped returns a canvas restricted to r.
func (c *Canvas) Clipped(r image.Rectangle) *Canvas {
	sub, _ := c.img.SubImage(r.Intersect(c.img.Bounds())).(*image.RGBA)
	return &Canvas{img: sub}
}

// DrawText draws text so that the point (ax, ay) of its glyph box lands on
// (x, y). The glyph box spans the advance width horizontally and the face's
// ascent plus descent vertically.
func (c *Canvas) DrawText(face font.Face, text string, x, y, ax, ay float64, col color.Color) {
	if text == "" || face == nil || c.img.Bounds().Empty() {
		return
	}

	m := face.Metrics()
	ascent := fixedToFloat(m.Ascent)
	height := ascent + fixedToFloat(m.Descent)
	width := fixedToFloat(font.MeasureString(face, text))

	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot: fixed.Point26_6{
			X: floatToFixed(x - ax*width),
			Y: floatToFixed(y - ay*height + ascent),
		},
	}
	d.DrawString(text)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

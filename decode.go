package seal

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
)

// EncodePNG writes the provided image to the writer as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// VerifyPNG decodes an exported seal and checks that it holds exactly the
// pixels of want.
func VerifyPNG(data []byte, want *image.RGBA) error {
	if want == nil {
		return fmt.Errorf("nil image provided")
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode png: %w", err)
	}

	if img.Bounds() != want.Bounds() {
		return fmt.Errorf("size mismatch: have %v, want %v", img.Bounds(), want.Bounds())
	}

	got := toRGBA(img)
	b := want.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if g, w := got.RGBAAt(x, y), want.RGBAAt(x, y); g != w {
				return fmt.Errorf("pixel (%d,%d) mismatch: have %v, want %v", x, y, g, w)
			}
		}
	}
	return nil
}

// toRGBA copies the image into an RGBA buffer unless it already is one.
func toRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba
	}
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

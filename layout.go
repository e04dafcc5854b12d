package seal

import (
	"fmt"
	"image"
	"math"
)

const (
	minBorderWidth   = 6
	borderRatio      = 0.025
	textPadding      = 3
	labelScale       = 0.9
	labelLift        = 0.05
	minLabelFontSize = 10
	labelFontStep    = 2
	watermarkRatio   = 0.1
	watermarkInset   = 1
)

// MaxDimension is the largest accepted width or height. A MaxDimension
// square seal needs 400 MB of RGBA pixels.
const MaxDimension = 10000

// Layout captures the geometry derived from a seal's canvas size. It is a
// function of width and height only; text metrics are applied on top of it
// by the renderer.
type Layout struct {
	Width  int
	Height int

	BorderWidth int
	// Inner is the white panel. It is empty when the border consumes the
	// whole canvas along either axis.
	Inner image.Rectangle

	MaxTextWidth    int
	MaxTextHeight   int
	InitialFontSize int
	// LabelX and LabelY locate the centre of the label's glyph box.
	LabelX float64
	LabelY float64

	WatermarkFontSize int
	// WatermarkX is where the first repetition starts and WatermarkY is the
	// bottom edge of the band.
	WatermarkX         int
	WatermarkY         int
	WatermarkAvailable int
}

// ComputeLayout derives the seal geometry for a width x height canvas.
func ComputeLayout(width, height int) (Layout, error) {
	if err := checkDimensions(width, height); err != nil {
		return Layout{}, err
	}

	bw := BorderWidth(width)
	maxTextHeight := height - bw*2 - textPadding*2

	return Layout{
		Width:              width,
		Height:             height,
		BorderWidth:        bw,
		Inner:              innerRect(width, height, bw),
		MaxTextWidth:       width - bw*2 - textPadding*2,
		MaxTextHeight:      maxTextHeight,
		InitialFontSize:    floorScale(maxTextHeight, labelScale),
		LabelX:             float64(width) / 2,
		LabelY:             float64(height)/2 - float64(floorScale(height, labelLift)),
		WatermarkFontSize:  floorScale(height, watermarkRatio),
		WatermarkX:         bw + watermarkInset,
		WatermarkY:         height - bw - watermarkInset,
		WatermarkAvailable: width - bw*2 - watermarkInset*2,
	}, nil
}

// checkDimensions rejects non-positive sizes and sizes above MaxDimension.
func checkDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimension, width, height)
	}
	if width > MaxDimension || height > MaxDimension {
		return fmt.Errorf("%w: %dx%d exceeds %d per side", ErrInvalidDimension, width, height, MaxDimension)
	}
	return nil
}

// BorderWidth returns max(6, floor(width*0.025)).
func BorderWidth(width int) int {
	bw := floorScale(width, borderRatio)
	if bw < minBorderWidth {
		return minBorderWidth
	}
	return bw
}

// innerRect returns the panel inside the border. An inverted panel collapses
// to the empty rectangle; image.Rect would swap its corners instead.
func innerRect(width, height, bw int) image.Rectangle {
	r := image.Rectangle{
		Min: image.Pt(bw, bw),
		Max: image.Pt(width-bw, height-bw),
	}
	if r.Empty() {
		return image.Rectangle{}
	}
	return r
}

func floorScale(v int, f float64) int {
	return int(math.Floor(float64(v) * f))
}

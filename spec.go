package seal

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Form defaults and minimums of the seal maker.
const (
	DefaultText      = "張無忌"
	DefaultWidth     = 242
	DefaultHeight    = 100
	DefaultFont      = "DFKai-SB"
	DefaultWatermark = "Taiwan Green Productivity"

	MinWidth  = 100
	MinHeight = 50
)

// Spec describes one seal.
type Spec struct {
	Text       string `json:"text"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	FontFamily string `json:"fontFamily"`
	Watermark  string `json:"watermark"`
}

// DefaultSpec returns the seal the form starts with.
func DefaultSpec() Spec {
	return Spec{
		Text:       DefaultText,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		FontFamily: DefaultFont,
		Watermark:  DefaultWatermark,
	}
}

// Validate reports ErrInvalidDimension for a non-positive canvas size or one
// above MaxDimension. Any other field value is accepted.
func (s Spec) Validate() error {
	return checkDimensions(s.Width, s.Height)
}

// Clamp applies the form's input rules: an unset size takes the default and
// sizes below the minimum are raised to it.
func (s Spec) Clamp() Spec {
	s.Width = clampSize(s.Width, DefaultWidth, MinWidth)
	s.Height = clampSize(s.Height, DefaultHeight, MinHeight)
	return s
}

// SpecFromValues builds a clamped Spec from form or query values. Missing
// keys keep their defaults; an unparseable size is treated as unset. Sizes
// are not capped here, so an oversized request fails Validate.
func SpecFromValues(v url.Values) Spec {
	s := DefaultSpec()
	if v.Has("text") {
		s.Text = v.Get("text")
	}
	if v.Has("width") {
		s.Width = atoi(v.Get("width"))
	}
	if v.Has("height") {
		s.Height = atoi(v.Get("height"))
	}
	if v.Has("font") {
		s.FontFamily = resolveFontParam(v.Get("font"))
	}
	if v.Has("watermark") {
		s.Watermark = v.Get("watermark")
	}
	return s.Clamp()
}

func resolveFontParam(id string) string {
	if opt, ok := LookupFont(id); ok {
		return opt.Family
	}
	return id
}

func clampSize(v, def, min int) int {
	if v == 0 {
		v = def
	}
	if v < min {
		return min
	}
	return v
}

func atoi(s string) int {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	switch {
	case math.IsNaN(n):
		return 0
	case n > math.MaxInt32:
		return math.MaxInt32
	case n < math.MinInt32:
		return math.MinInt32
	}
	return int(n)
}

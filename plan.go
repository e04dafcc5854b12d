package seal

import (
	"math"
	"strings"
)

// Plan is the fully resolved layout of one seal: geometry, fitted label
// size and the watermark repetitions to draw. It depends on the Spec and
// the measurer only.
type Plan struct {
	Layout

	// LabelFamily is the family list used for the label, user choice first.
	LabelFamily   string
	LabelFontSize int
	LabelWidth    float64

	// WatermarkUnit is one repetition of the caption, trailing space included.
	WatermarkUnit  string
	WatermarkWidth float64
	Watermark      []Repetition
}

// Repetition is one placement of the watermark caption along the band.
type Repetition struct {
	X float64
	// Clipped repetitions only show their leading Visible pixels.
	Clipped bool
	Visible float64
}

// PlanSeal resolves the layout of spec against m without drawing anything.
func PlanSeal(spec Spec, m TextMeasurer) (Plan, error) {
	l, err := ComputeLayout(spec.Width, spec.Height)
	if err != nil {
		return Plan{}, err
	}

	p := Plan{
		Layout:        l,
		LabelFamily:   labelFamily(spec.FontFamily),
		WatermarkUnit: spec.Watermark + " ",
	}

	if spec.Text != "" {
		p.LabelFontSize = FitFontSize(m, spec.Text, p.LabelFamily, l.InitialFontSize, l.MaxTextWidth)
		if p.LabelFontSize > 0 {
			p.LabelWidth = m.MeasureWidth(spec.Text, float64(p.LabelFontSize), p.LabelFamily, true)
		}
	}

	if l.WatermarkFontSize > 0 {
		p.WatermarkWidth = m.MeasureWidth(p.WatermarkUnit, float64(l.WatermarkFontSize), WatermarkFamily, false)
		p.Watermark = TileWatermark(l.WatermarkX, l.WatermarkAvailable, p.WatermarkWidth)
	}
	return p, nil
}

// FitFontSize returns the largest bold size, stepping down by 2 from
// initial, at which text fits within maxWidth. The search stops at 10 even
// when the text still overflows, and never goes above initial.
func FitFontSize(m TextMeasurer, text, family string, initial, maxWidth int) int {
	size := initial
	for size > minLabelFontSize && m.MeasureWidth(text, float64(size), family, true) > float64(maxWidth) {
		size -= labelFontStep
		if size < minLabelFontSize {
			size = minLabelFontSize
		}
	}
	return size
}

// TileWatermark lays out repetitions of a caption single pixels wide from
// startX across available pixels. The final repetition is clipped so the
// band ends exactly at startX+available. A non-positive or non-finite width
// yields no repetitions, and the count never exceeds available+1.
func TileWatermark(startX, available int, single float64) []Repetition {
	if available <= 0 || !(single > 0) || math.IsInf(single, 1) {
		return nil
	}

	count := int(math.Min(math.Ceil(float64(available)/single), float64(available+1)))
	reps := make([]Repetition, 0, count)

	x := float64(startX)
	for i := 0; i < count; i++ {
		remaining := float64(available) - (x - float64(startX))
		if remaining <= 0 {
			break
		}

		rep := Repetition{X: x}
		if remaining < single {
			rep.Clipped = true
			rep.Visible = remaining
		}
		reps = append(reps, rep)
		x += single
	}
	return reps
}

func labelFamily(family string) string {
	if strings.TrimSpace(family) == "" {
		return FallbackFamily
	}
	return family + ", " + FallbackFamily
}

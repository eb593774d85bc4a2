package patterns

import (
	"math"

	"github.com/fluxwm/layoutengine/internal/core/geom"
)

// BlendMode selects how a pattern's color is composited over what is
// already on the canvas.
type BlendMode uint8

const (
	// BlendPassThrough hands the color to the painter unchanged; fast paths
	// may copy it directly instead of compositing.
	BlendPassThrough BlendMode = iota
	// BlendNormal is plain source-over-destination compositing.
	BlendNormal
)

// String returns a string representation of the blending mode.
func (m BlendMode) String() string {
	switch m {
	case BlendPassThrough:
		return "PassThrough"
	case BlendNormal:
		return "Normal"
	default:
		return "Unknown"
	}
}

// BlendOver composites the color over a background with the given opacity
// using the Porter–Duff source-over formula:
//
//	Ao = As + Ab*(1 - As)
//	Co = (As*Cs + Ab*(1 - As)*Cb) / Ao
func (c Color) BlendOver(bg Color, opacity float64) Color {
	opacity = geom.ClampF64(opacity, 0, 1)

	as := float64(c.A) / 255.0 * opacity
	ab := float64(bg.A) / 255.0
	ao := as + ab*(1-as)
	if ao <= 0 {
		return Color{}
	}

	mix := func(s, b uint8) uint8 {
		v := (as*float64(s) + ab*(1-as)*float64(b)) / ao
		return uint8(math.Round(geom.ClampF64(v, 0, 255)))
	}

	return Color{
		R: mix(c.R, bg.R),
		G: mix(c.G, bg.G),
		B: mix(c.B, bg.B),
		A: uint8(math.Round(ao * 255)),
	}
}

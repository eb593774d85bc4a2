// Package colors exposes the pattern package's color model under a short
// import path, together with the small named palette the drawing
// instructions and their tests actually use.
package colors

import "github.com/fluxwm/layoutengine/internal/core/image/patterns"

// Color is the 8-bit-per-channel RGBA color used by every fill and stroke.
type Color = patterns.Color

// Pattern and BlendedPattern re-export the fill interfaces so callers can
// build patterns without importing the internal package directly.
type (
	Pattern        = patterns.Pattern
	BlendedPattern = patterns.BlendedPattern
	BlendMode      = patterns.BlendMode
)

const (
	BlendPassThrough = patterns.BlendPassThrough
	BlendNormal      = patterns.BlendNormal
)

// NewSolid wraps a color as a uniform fill pattern.
var NewSolid = patterns.NewSolid

// NewSolidWithBlend wraps a color as a uniform fill with an explicit blend
// mode and opacity.
var NewSolidWithBlend = patterns.NewSolidWithBlend

// HEX parses a hexadecimal color string (e.g. "#RRGGBB" or "#RRGGBBAA").
var HEX = patterns.ColorFromHex

// RGBA builds a color from explicit 8-bit channels.
func RGBA(r, g, b, a uint8) Color { return Color{R: r, G: g, B: b, A: a} }

// Named palette. Values follow the common X11/CSS definitions.
var (
	Transparent = Color{R: 0, G: 0, B: 0, A: 0}
	Black       = Color{R: 0, G: 0, B: 0, A: 255}

	Aquamarine        = Color{R: 127, G: 255, B: 212, A: 255}
	Blue              = Color{R: 0, G: 0, B: 255, A: 255}
	CobaltBlue        = Color{R: 0, G: 71, B: 171, A: 255}
	Coral             = Color{R: 255, G: 127, B: 80, A: 255}
	CornflowerBlue    = Color{R: 100, G: 149, B: 237, A: 255}
	DarkGreen         = Color{R: 0, G: 100, B: 0, A: 255}
	DavysGray         = Color{R: 85, G: 85, B: 85, A: 255}
	IndianRed         = Color{R: 205, G: 92, B: 92, A: 255}
	LightYellow       = Color{R: 255, G: 255, B: 224, A: 255}
	MediumPurple      = Color{R: 147, G: 112, B: 219, A: 255}
	MediumSpringGreen = Color{R: 0, G: 250, B: 154, A: 255}
	MidnightBlue      = Color{R: 25, G: 25, B: 112, A: 255}
	MintCream         = Color{R: 245, G: 255, B: 250, A: 255}
	Navy              = Color{R: 0, G: 0, B: 128, A: 255}
	Orange            = Color{R: 255, G: 165, B: 0, A: 255}
	OrangeRed         = Color{R: 255, G: 69, B: 0, A: 255}
	Pumpkin           = Color{R: 255, G: 117, B: 24, A: 255}
	RebeccaPurple     = Color{R: 102, G: 51, B: 153, A: 255}
	SkyBlue           = Color{R: 135, G: 206, B: 235, A: 255}
)

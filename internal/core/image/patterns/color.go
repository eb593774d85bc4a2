package patterns

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/fluxwm/layoutengine/internal/core/geom"
)

// Color represents a simple 8-bit per channel RGBA color.
// It includes an optional BlendMode field used for compositing.
type Color struct {
	R, G, B, A uint8
	blendMode  BlendMode
}

// BlendMode returns the current blending mode assigned to the color.
func (c Color) BlendMode() BlendMode {
	return c.blendMode
}

// NewColorFromStd converts a standard color.Color into a Color type.
func NewColorFromStd(c color.Color) Color {
	r, g, b, a := c.RGBA()
	return Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

// RGBA returns 16-bit per channel alpha-premultiplied color components.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	r *= uint32(c.A)
	r /= 0xff
	g = uint32(c.G)
	g |= g << 8
	g *= uint32(c.A)
	g /= 0xff
	b = uint32(c.B)
	b |= b << 8
	b *= uint32(c.A)
	b /= 0xff
	a = uint32(c.A)
	a |= a << 8
	return
}

// ToHex returns the color as a hexadecimal string in #RRGGBB or #RRGGBBAA format.
func (c Color) ToHex() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// ColorFromHex parses a hexadecimal color string (#RGB, #RRGGBB, or #RRGGBBAA)
// and returns a corresponding Color value.
func ColorFromHex(hex string) (Color, error) {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 3:
		_, err := fmt.Sscanf(hex, "%1x%1x%1x", &r, &g, &b)
		if err != nil {
			return Color{}, err
		}
		r, g, b = r*17, g*17, b*17
	case 6:
		_, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b)
		if err != nil {
			return Color{}, err
		}
	case 8:
		_, err := fmt.Sscanf(hex, "%02x%02x%02x%02x", &r, &g, &b, &a)
		if err != nil {
			return Color{}, err
		}
	default:
		return Color{}, fmt.Errorf("invalid hex color format: %s", hex)
	}
	return Color{R: r, G: g, B: b, A: a}, nil
}

// ToColor converts the custom Color type into a standard color.RGBA.
func (c Color) ToColor() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// MakeSolidPattern creates a solid fill pattern from this color,
// preserving its blend mode and full opacity.
func (c Color) MakeSolidPattern() BlendedPattern {
	return NewSolidWithBlend(c, c.blendMode, 1)
}

// SetBlendMode assigns a new blending mode to the color.
func (c Color) SetBlendMode(mode BlendMode) Color {
	c.blendMode = mode
	return c
}

// SetOpacity sets the color’s alpha channel from a normalized opacity value [0–1].
func (c Color) SetOpacity(opacity float64) Color {
	opacity = geom.ClampF64(opacity, 0, 1)
	c.A = uint8(math.Round(opacity * 255))
	return c
}

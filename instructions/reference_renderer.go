package instructions

import (
	"github.com/fluxwm/layoutengine/internal/core/image/patterns"
	"github.com/fluxwm/layoutengine/layout"
)

// BoxStyle is the paint a reference renderer applies on top of a solved
// PositionedRectangle. layout.Solve never produces color or stroke
// information of its own -- the solver's whole concern is geometry -- so
// styling always arrives out of band, keyed by the same NodeId the
// StyledTree was built with.
type BoxStyle struct {
	Fill        patterns.Color
	Stroke      patterns.Color
	StrokeWidth float64
	Radius      float64
}

// NewPositionedRectangle builds a *Rectangle whose position and size come
// directly from a solved PositionedRectangle, styled by style. It is the
// rectangle half of the minimal reference renderer a PositionedRectangle
// pipeline needs: box geometry in, a drawable Shape out, with no caller
// ever reading PositionedRectangle fields by hand.
func NewPositionedRectangle(result *layout.LayoutResult, id layout.NodeId, style BoxStyle) *Rectangle {
	pr := result.RectOf(id)
	rect := NewRectangle(
		float64(pr.Position.X), float64(pr.Position.Y),
		float64(pr.Size.Width), float64(pr.Size.Height),
	)
	if style.Radius > 0 {
		rect.SetRadius(style.Radius)
	}
	if style.Fill != (patterns.Color{}) {
		rect.SetFillColor(style.Fill)
	}
	if style.StrokeWidth > 0 {
		rect.SetLineWidth(style.StrokeWidth).SetStrokeColor(style.Stroke)
	}
	return rect
}

// PositionText moves t onto the box layout.Solve assigned to id and, if that
// box carries a finite width, wraps t at it. A text node's solved box is a
// wrap constraint rather than a fixed frame -- Text determines its own
// height from content and line count, it is never stretched to fill a box
// the way a Rectangle fill is.
func PositionText(result *layout.LayoutResult, id layout.NodeId, t *Text) {
	pr := result.RectOf(id)
	t.SetPosition(int(pr.Position.X), int(pr.Position.Y))
	if pr.Size.Width > 0 {
		t.SetMaxWidth(float64(pr.Size.Width))
	}
}

// DrawSubtree paints every id in ids as a styled Rectangle box positioned by
// result onto layer, in the order given -- callers typically pass a
// back-to-front painter's-algorithm traversal of the StyledTree the result
// was solved for. Ids absent from styles draw as a fully transparent box,
// which leaves the layer's pixels unchanged and clips nothing drawn after
// it. Routed through
// Layer.LoadInstruction, the same compositing path every other Shape in
// this package uses, rather than poking at the layer's buffer directly.
func DrawSubtree(result *layout.LayoutResult, ids []layout.NodeId, styles map[layout.NodeId]BoxStyle, layer *Layer) {
	for _, id := range ids {
		layer.LoadInstruction(NewPositionedRectangle(result, id, styles[id]))
	}
}

// SetBounds adapts Rectangle to the Boundable capability auto_layout.go
// looks for: a shape that can be repositioned and resized in one call,
// receiving int pixel bounds directly from a PositionedRectangle instead of
// going through SetPosition/SetSize's separate float64 calls.
func (r *Rectangle) SetBounds(x, y, w, h int) {
	r.x, r.y = float64(x), float64(y)
	r.width, r.height = float64(w), float64(h)
}

var _ Boundable = (*Rectangle)(nil)

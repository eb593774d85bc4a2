package layout

// LogicalPosition is a point in logical (DPI-independent) pixels.
type LogicalPosition struct {
	X, Y float32
}

// LogicalSize is a width/height pair in logical pixels.
type LogicalSize struct {
	Width, Height float32
}

// LogicalRect is an axis-aligned rectangle in logical pixels: the unit
// every PositionedRectangle is expressed in.
type LogicalRect struct {
	Origin LogicalPosition
	Size   LogicalSize
}

// Right and Bottom are convenience accessors for the rectangle's far edges.
func (r LogicalRect) Right() float32  { return r.Origin.X + r.Size.Width }
func (r LogicalRect) Bottom() float32 { return r.Origin.Y + r.Size.Height }

// Contains reports whether other lies entirely within r.
func (r LogicalRect) Contains(other LogicalRect) bool {
	return other.Origin.X >= r.Origin.X && other.Origin.Y >= r.Origin.Y &&
		other.Right() <= r.Right() && other.Bottom() <= r.Bottom()
}

// Union returns the smallest rectangle containing both r and other. A
// zero-valued r (no Size) is treated as absent and other is returned
// unchanged, so callers can fold a sequence of rects starting from the zero
// value without special-casing the first one.
func (r LogicalRect) Union(other LogicalRect) LogicalRect {
	if r.Size.Width == 0 && r.Size.Height == 0 {
		return other
	}
	minX := minF32(r.Origin.X, other.Origin.X)
	minY := minF32(r.Origin.Y, other.Origin.Y)
	maxX := maxF32(r.Right(), other.Right())
	maxY := maxF32(r.Bottom(), other.Bottom())
	return LogicalRect{
		Origin: LogicalPosition{X: minX, Y: minY},
		Size:   LogicalSize{Width: maxX - minX, Height: maxY - minY},
	}
}

func minF32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

// DpiScaleFactor converts logical pixels to physical device pixels. A
// value of 1.0 means logical and physical pixels coincide.
type DpiScaleFactor float32

// ToPhysical scales a LogicalSize to physical pixels at this DPI factor.
func (d DpiScaleFactor) ToPhysical(s LogicalSize) LogicalSize {
	return LogicalSize{Width: s.Width * float32(d), Height: s.Height * float32(d)}
}

// Viewport is the solver's top-level input: the window or root
// surface the tree is laid out into.
type Viewport struct {
	Size        LogicalSize
	DpiScale    DpiScaleFactor
	MaxIFrameDepth int // 0 means the package default (see iframe.go)
}

// widthConstraint and heightConstraint express the viewport as the root
// node's available space on each axis: an exact pin, since a top-level
// surface ordinarily has a definite size. A caller that wants the root to shrink-wrap its content
// instead (e.g. an auto-sized container measuring itself before it has a
// final placement) signals that by passing a non-finite size — isInfOrNaN
// already treats anything beyond ±1e38 as such, so math.MaxFloat32 works as
// the sentinel without a dedicated flag on Viewport.
func (v Viewport) widthConstraint() Constraint  { return viewportAxisConstraint(v.Size.Width) }
func (v Viewport) heightConstraint() Constraint { return viewportAxisConstraint(v.Size.Height) }

func viewportAxisConstraint(size float32) Constraint {
	if isInfOrNaN(size) {
		return UnconstrainedC()
	}
	return EqualToC(size)
}

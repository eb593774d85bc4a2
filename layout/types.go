package layout

// LayoutPosition mirrors CSS position: the positioning scheme applied to a
// node when the Positioner places it.
type LayoutPosition int

const (
	PositionStatic LayoutPosition = iota
	PositionRelative
	PositionAbsolute
	PositionFixed
)

// IsPositioned reports whether a node of this LayoutPosition can serve as
// the reference ancestor for an absolutely positioned descendant.
func (p LayoutPosition) IsPositioned() bool { return p != PositionStatic }

// IsOutOfFlow reports whether the node is removed from normal flow entirely:
// it consumes no space in its parent's main-axis sum and is placed against a
// reference ancestor instead. Only absolute/fixed qualify; relative nodes
// stay in flow and are merely shifted after placement.
func (p LayoutPosition) IsOutOfFlow() bool { return p == PositionAbsolute || p == PositionFixed }

// FlexDirection selects the main-axis orientation and direction of a flex
// container.
type FlexDirection int

const (
	Row FlexDirection = iota
	RowReverse
	Column
	ColumnReverse
)

// MainAxis reports which physical Axis (width or height) is the main axis
// for this direction.
func (d FlexDirection) MainAxis() Axis {
	if d == Row || d == RowReverse {
		return AxisWidth
	}
	return AxisHeight
}

// Reversed reports whether children are laid out back-to-front along the
// main axis.
func (d FlexDirection) Reversed() bool { return d == RowReverse || d == ColumnReverse }

// IsRow reports whether the main axis is horizontal.
func (d FlexDirection) IsRow() bool { return d == Row || d == RowReverse }

// JustifyContent controls distribution of free space along the main axis.
type JustifyContent int

const (
	JustifyStart JustifyContent = iota
	JustifyEnd
	JustifyCenter
	JustifySpaceBetween
	JustifySpaceAround
	JustifySpaceEvenly
)

// AlignItems controls placement along the cross axis, either per line
// (AlignItems/AlignSelf) or across multiple wrapped lines (AlignContent).
type AlignItems int

const (
	AlignStart AlignItems = iota
	AlignEnd
	AlignCenter
	AlignStretch
)

// BoxSizing controls whether an explicit width/height is interpreted as the
// content box (padding/border added on top) or the border box (padding and
// border carved out of the explicit size).
type BoxSizing int

const (
	ContentBox BoxSizing = iota
	BorderBox
)

// OverflowMode controls what the OverflowDetector does when a subtree's
// content rectangle exceeds its container.
type OverflowMode int

const (
	OverflowVisible OverflowMode = iota
	OverflowHidden
	OverflowAuto
	OverflowScroll
)

// Clips reports whether this overflow mode clips without exposing a scroll
// region.
func (o OverflowMode) Clips() bool { return o == OverflowHidden }

// PixelValue is a resolved length: either an absolute pixel value or a
// percentage of the parent's resolved size on the same axis.
type PixelValue struct {
	Percent bool
	Value   float32 // px if !Percent, else percent units in [0, 100+]
}

// Px constructs an absolute pixel length.
func Px(v float32) PixelValue { return PixelValue{Value: v} }

// Pct constructs a percent-of-parent length.
func Pct(v float32) PixelValue { return PixelValue{Percent: true, Value: v} }

// Resolve converts the value to pixels given the parent's resolved size on
// the same axis. Percent-of-an-unconstrained-parent (parent == +Inf) and any
// other non-finite result clamp to 0 rather than leaking NaN/Inf downstream.
func (p PixelValue) Resolve(parentSize float32) float32 {
	var px float32
	if p.Percent {
		if isInfOrNaN(parentSize) {
			return 0
		}
		px = parentSize * p.Value / 100.0
	} else {
		px = p.Value
	}
	return clampNeg(px)
}

func isInfOrNaN(v float32) bool {
	f := float64(v)
	return f != f || f > 1e38 || f < -1e38
}

// SizeConstraint is the raw, unresolved width or height configuration read
// from the property cache: an explicit size and/or a min/max pair. Absent
// fields (nil) mean unconstrained on that side.
type SizeConstraint struct {
	Exact *PixelValue
	Min   *PixelValue
	Max   *PixelValue
}

// WhConfig bundles the width and height SizeConstraint for one node.
type WhConfig struct {
	Width  SizeConstraint
	Height SizeConstraint
}

// OffsetQuad is a CSS-style four-sided spatial quantity (padding, margin,
// border-width), each side independently a fixed-or-percent PixelValue.
type OffsetQuad struct {
	Top, Right, Bottom, Left PixelValue
}

// PositionOffsets holds the optional top/right/bottom/left placement used
// by relative, absolute and fixed positioned nodes. A nil field means "not
// set". For absolute/fixed nodes Right/Bottom take precedence over Left/Top
// when both are set; for relative nodes Left/Top win.
type PositionOffsets struct {
	Top, Right, Bottom, Left *PixelValue
}

// AllOffsets is the second of the parallel per-node input arrays:
// everything about a node's box model and flow participation except its
// width/height constraint and flex factors.
type AllOffsets struct {
	Padding      OffsetQuad
	Margin       OffsetQuad
	BorderWidths OffsetQuad
	Position     LayoutPosition
	PositionOff  PositionOffsets
	BoxSizing    BoxSizing
	OverflowX    OverflowMode
	OverflowY    OverflowMode
	HasBoxShadow bool // opaque painting concern; layout only needs to know it doesn't affect geometry
}

// ContainerConfig groups the flex-container properties of a node: how it
// arranges its own children. Carried as its own parallel array alongside
// WhConfig/AllOffsets.
type ContainerConfig struct {
	Direction    FlexDirection
	Wrap         bool
	Justify      JustifyContent
	AlignItems   AlignItems
	AlignContent AlignItems
	GapMain      float32
	GapCross     float32
}

// ItemConfig groups the flex-item properties of a node: how it participates
// in its parent's flex layout.
type ItemConfig struct {
	FlexGrow   float32 // >= 0
	FlexShrink float32 // parsed and stored, never consulted
	AlignSelf  *AlignItems
	IgnoreGapBefore bool
	ZIndex     int
}

// Axis distinguishes the two independent solver passes: width and height.
// The solver is written once, generalized over Axis, instead of duplicating
// every pass per dimension.
type Axis int

const (
	AxisWidth Axis = iota
	AxisHeight
)

func (a Axis) String() string {
	if a == AxisWidth {
		return "width"
	}
	return "height"
}

// sizeConstraintFor selects the width or height SizeConstraint of a WhConfig.
func sizeConstraintFor(axis Axis, wh WhConfig) SizeConstraint {
	if axis == AxisWidth {
		return wh.Width
	}
	return wh.Height
}

// loHi returns the (lo, hi) sides of an OffsetQuad for the given axis:
// (left, right) for width, (top, bottom) for height.
func loHi(axis Axis, q OffsetQuad) (lo, hi PixelValue) {
	if axis == AxisWidth {
		return q.Left, q.Right
	}
	return q.Top, q.Bottom
}

package layout

// AxisRect is the solver's per-node, per-axis working state.
// The final axis size of a node is MinInnerSizePx + FlexGrowPx; the total
// outer size adds padding and border (margin sits outside that for
// ContentBox nodes; BorderBox nodes fold padding+border into the explicit
// size during determinePreferred instead).
type AxisRect struct {
	Preferred      Constraint
	MarginLo       float32
	MarginHi       float32
	PaddingLo      float32
	PaddingHi      float32
	BorderLo       float32
	BorderHi       float32
	PositionLo     *float32 // resolved top/left (nil if unset)
	PositionHi     *float32 // resolved bottom/right (nil if unset)
	BoxSizing      BoxSizing
	FlexGrowPx     float32
	MinInnerSizePx float32
	FlexBasisPx    float32 // hypothetical pre-growth size (content only, ignoring an explicit min's bump) — the starting point flex distribution grows or shrinks from
}

// InnerSize is the node's solved content-box size on this axis.
func (r *AxisRect) InnerSize() float32 { return r.MinInnerSizePx + r.FlexGrowPx }

// PaddingSum is the sum of both padding sides.
func (r *AxisRect) PaddingSum() float32 { return r.PaddingLo + r.PaddingHi }

// BorderSum is the sum of both border-width sides.
func (r *AxisRect) BorderSum() float32 { return r.BorderLo + r.BorderHi }

// MarginSum is the sum of both margin sides.
func (r *AxisRect) MarginSum() float32 { return r.MarginLo + r.MarginHi }

// Total is the node's outer size on this axis: inner content size plus
// padding plus border plus margin (inner = content + padding; outer = inner
// + border + margin).
func (r *AxisRect) Total() float32 {
	return r.InnerSize() + r.PaddingSum() + r.BorderSum() + r.MarginSum()
}

// OuterNoMargin is Total without the margin contribution — the size the
// node actually occupies in the parent's content box (used when summing a
// parent's required inner size, which must not double count margins it
// doesn't own).
func (r *AxisRect) OuterNoMargin() float32 {
	return r.InnerSize() + r.PaddingSum() + r.BorderSum()
}

// FlexBasis is a child's contribution to its parent's main-axis sum before
// growth: its pre-growth outer size including margins. Built on MinInnerSizePx rather than InnerSize so a bubble over
// already-grown rects (the restricted relayout path) aggregates the same
// values a from-scratch bubble would.
func (r *AxisRect) FlexBasis() float32 {
	return r.MinInnerSizePx + r.PaddingSum() + r.BorderSum() + r.MarginSum()
}

package layout

// LayoutResult is the solver's total output: one
// PositionedRectangle per node, the overflow regions detected against the
// final geometry, and the per-axis solver rects the geometry was derived
// from. Solve never returns an error — every input, however degenerate,
// produces some result.
//
// A result also retains what it was solved from (tree, resolved properties,
// the content measurer with its cached heights, viewport), which is what lets
// Relayout patch it in place instead of re-solving from scratch.
type LayoutResult struct {
	Rectangles  []PositionedRectangle
	Overflow    []OverflowResult
	WidthRects  []AxisRect
	HeightRects []AxisRect

	tree     *StyledTree
	props    *ResolvedProperties
	measure  *ContentMeasurer
	viewport Viewport
}

// RectOf returns the positioned rectangle for id, or the zero rectangle if
// id is out of range.
func (r *LayoutResult) RectOf(id NodeId) PositionedRectangle {
	if id < 0 || int(id) >= len(r.Rectangles) {
		return PositionedRectangle{}
	}
	return r.Rectangles[id]
}

// Solve runs the full layout pass over tree:
// PropertyResolver, then WidthSolver, then a second content-measurement
// pass that re-wraps text at its solved width, then HeightSolver, then the
// Positioner, then the OverflowDetector. IFrame nodes are expanded in place
// before property resolution, bounded by viewport.MaxIFrameDepth (or
// DefaultMaxIFrameDepth).
func Solve(tree *StyledTree, cache PropertyCache, fonts FontRegistry, images ImageRegistry, viewport Viewport) *LayoutResult {
	tree.RebuildDepthOrder()

	measure := NewContentMeasurer(fonts, images)

	maxDepth := viewport.MaxIFrameDepth
	resolveIFrames(tree, func(id NodeId) LogicalRect {
		// Coarse bound: the iframe host's preferred content size isn't
		// known yet at resolution time, so callbacks are handed the full
		// viewport as their candidate bounds. A host is expanded only once,
		// so these bounds are not refined later.
		return LogicalRect{Size: viewport.Size}
	}, maxDepth)

	props := ResolveProperties(tree, cache)

	widths := SolveAxis(tree, props, measure, AxisWidth, viewport.widthConstraint())
	remeasureWrappedText(tree, props, measure, widths)
	heights := SolveAxis(tree, props, measure, AxisHeight, viewport.heightConstraint())

	rects := Position(tree, props, widths, heights, LogicalPosition{})
	overflow := DetectOverflow(tree, props, rects)

	return &LayoutResult{
		Rectangles:  rects,
		Overflow:    overflow,
		WidthRects:  widths,
		HeightRects: heights,
		tree:        tree,
		props:       props,
		measure:     measure,
		viewport:    viewport,
	}
}

// remeasureWrappedText re-runs text measurement for every NodeText node now
// that WidthSolver has settled its content width, wrapping at that width and
// caching the resulting height in measure so HeightSolver's init pass (via
// PreferredContentSize) sees the real wrapped height instead of the
// single-line height WidthSolver used.
//
// The wrap width is the narrower of the text node's own solved inner width
// and its containing block's (immediate parent's) solved inner width. A bare
// text node with no sibling and no explicit sizing settles, via
// determinePreferred's content branch, at an unbounded-max Between(content,
// +Inf) — its own box never shrinks below that single-line width (nothing in
// the main- or cross-axis distribution passes lowers a node below its
// MinInnerSizePx). Left unguarded that would make a node's own solved width
// always equal its unconstrained content width, so "re-measure at the solved
// width" would be a no-op and text would never wrap inside a narrower
// parent. Clamping to the parent's inner width is what the containing
// block actually constrains text to in normal flow.
func remeasureWrappedText(tree *StyledTree, props *ResolvedProperties, measure *ContentMeasurer, widths []AxisRect) {
	for i := 0; i < tree.Len(); i++ {
		id := NodeId(i)
		switch tree.NodeType(id) {
		case NodeText:
			if measure.Fonts == nil {
				continue
			}
			wrapWidth := widths[id].InnerSize()
			if parent, ok := tree.ParentOf(id); ok {
				if pw := widths[parent].InnerSize(); pw < wrapWidth {
					wrapWidth = pw
				}
			}
			measure.MeasureWrapped(tree, id, props.TextOpts[id], wrapWidth)
		case NodeImage:
			// Aspect preservation: an image whose solved width diverged from
			// its intrinsic width gets a proportionally scaled height.
			measure.ScaleImageHeight(tree, id, widths[id].InnerSize())
		}
	}
}

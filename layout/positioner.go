package layout


// PositionedRectangle is the final, absolute (window-space) geometry the
// solver reports for one node.
type PositionedRectangle struct {
	NodeID   NodeId
	Kind     LayoutPosition  // which positioning scheme produced Position
	Position LogicalPosition // outer top-left, window coordinates
	// StaticPosition is where the node's outer top-left would sit in normal
	// flow, window coordinates — the hit-testing reference. It differs
	// from Position only for Relative nodes (which
	// are shifted after flow placement); out-of-flow nodes report their
	// resolved position for both.
	StaticPosition LogicalPosition
	Size           LogicalSize // outer (border-box) size
	ContentSize    LogicalSize // inner (content-box) size
	PaddingTop, PaddingRight, PaddingBottom, PaddingLeft float32
	BorderTop, BorderRight, BorderBottom, BorderLeft     float32
	MarginTop, MarginRight, MarginBottom, MarginLeft     float32
	BoxSizing            BoxSizing
	OverflowX, OverflowY OverflowMode
}

// ContentOrigin is the window-space origin of this node's content box —
// where its children's flow layout begins.
func (p PositionedRectangle) ContentOrigin() LogicalPosition {
	return LogicalPosition{
		X: p.Position.X + p.BorderLeft + p.PaddingLeft,
		Y: p.Position.Y + p.BorderTop + p.PaddingTop,
	}
}

// positioner walks the tree top-down assigning absolute positions. It reads
// the already-solved width/height AxisRects and never revisits sizing.
type positioner struct {
	tree    *StyledTree
	props   *ResolvedProperties
	widths  []AxisRect
	heights []AxisRect
	out     []PositionedRectangle
}

// Position runs the positioning pass: flow children are placed according
// to their container's direction, wrap, justify-content and
// align-items/align-content; absolutely positioned children are placed
// against their nearest positioned ancestor (walking up the tree until one
// is found, or the root if none is) and fixed children against the
// viewport, with right/bottom taking precedence over left/top per side.
func Position(tree *StyledTree, props *ResolvedProperties, widths, heights []AxisRect, origin LogicalPosition) []PositionedRectangle {
	p := &positioner{tree: tree, props: props, widths: widths, heights: heights, out: make([]PositionedRectangle, tree.Len())}
	p.place(tree.Root(), origin)
	p.placeAbsolutes()
	return p.out
}

func (p *positioner) rect(id NodeId) PositionedRectangle {
	w, h := &p.widths[id], &p.heights[id]
	off := p.props.Offsets[id]
	return PositionedRectangle{
		NodeID:        id,
		Kind:          off.Position,
		Size:          LogicalSize{Width: w.Total() - w.MarginSum(), Height: h.Total() - h.MarginSum()},
		ContentSize:   LogicalSize{Width: w.InnerSize(), Height: h.InnerSize()},
		PaddingTop:    h.PaddingLo, PaddingBottom: h.PaddingHi,
		PaddingLeft:   w.PaddingLo, PaddingRight: w.PaddingHi,
		BorderTop:     h.BorderLo, BorderBottom: h.BorderHi,
		BorderLeft:    w.BorderLo, BorderRight: w.BorderHi,
		MarginTop:     h.MarginLo, MarginBottom: h.MarginHi,
		MarginLeft:    w.MarginLo, MarginRight: w.MarginHi,
		BoxSizing:     off.BoxSizing,
		OverflowX:     off.OverflowX, OverflowY: off.OverflowY,
	}
}

// place assigns id's outer top-left to origin, stores its rectangle, and
// lays out its flow children within its content box. Relative children stay
// in flow (they occupy their static slot) and are shifted by their offsets
// afterwards; only absolute/fixed children are excluded, handled by
// placeAbsolutes once the whole flow pass is done.
func (p *positioner) place(id NodeId, origin LogicalPosition) {
	r := p.rect(id)
	r.Position = origin
	r.StaticPosition = origin
	p.out[id] = r

	children := p.tree.ChildrenOf(id)
	var flow []NodeId
	for _, c := range children {
		if !p.props.Offsets[c].Position.IsOutOfFlow() {
			flow = append(flow, c)
		}
	}
	if len(flow) == 0 {
		return
	}

	container := p.props.Containers[id]
	content := r.ContentOrigin()
	contentSize := r.ContentSize
	mainAxis := container.Direction.MainAxis()

	lines := p.buildLines(flow, container, mainAxis, contentSize)
	p.placeLines(id, lines, container, mainAxis, content, contentSize)
}

type flexLine struct {
	nodes    []NodeId
	mainSize float32
	crossSize float32
}

// buildLines groups flow children into one or more lines. When Wrap is
// disabled every child lands on a single line regardless of overflow
// (overflow is the OverflowDetector's concern, not the Positioner's).
func (p *positioner) buildLines(flow []NodeId, container ContainerConfig, mainAxis Axis, contentSize LogicalSize) []flexLine {
	avail := axisOf(contentSize, mainAxis)

	if !container.Wrap {
		return []flexLine{p.summarizeLine(flow, mainAxis)}
	}

	var lines []flexLine
	var cur []NodeId
	curMain := float32(0)
	for _, c := range flow {
		basis := p.outerMain(c, mainAxis)
		gap := float32(0)
		if len(cur) > 0 {
			gap = container.GapMain
		}
		if len(cur) > 0 && curMain+gap+basis > avail {
			lines = append(lines, p.summarizeLine(cur, mainAxis))
			cur = nil
			curMain = 0
			gap = 0
		}
		cur = append(cur, c)
		curMain += gap + basis
	}
	if len(cur) > 0 {
		lines = append(lines, p.summarizeLine(cur, mainAxis))
	}
	return lines
}

func (p *positioner) summarizeLine(nodes []NodeId, mainAxis Axis) flexLine {
	crossAxis := otherAxis(mainAxis)
	var main, cross float32
	for _, n := range nodes {
		// Gaps are excluded from the summary size; the placement pass adds
		// them per slot so IgnoreGapBefore can skip individual ones.
		main += p.outerMain(n, mainAxis)
		if c := p.outerMain(n, crossAxis); c > cross {
			cross = c
		}
	}
	return flexLine{nodes: nodes, mainSize: main, crossSize: cross}
}

func (p *positioner) outerMain(id NodeId, axis Axis) float32 {
	if axis == AxisWidth {
		return p.widths[id].Total()
	}
	return p.heights[id].Total()
}

func axisOf(s LogicalSize, axis Axis) float32 {
	if axis == AxisWidth {
		return s.Width
	}
	return s.Height
}

func otherAxis(a Axis) Axis {
	if a == AxisWidth {
		return AxisHeight
	}
	return AxisWidth
}

// placeLines lays out each line along the main axis per justify-content,
// distributes lines along the cross axis per align-content, and places each
// child within its line per align-items/align-self.
func (p *positioner) placeLines(parent NodeId, lines []flexLine, container ContainerConfig, mainAxis Axis, content LogicalPosition, contentSize LogicalSize) {
	crossAxis := otherAxis(mainAxis)
	totalCross := float32(0)
	for i, l := range lines {
		if i > 0 {
			totalCross += container.GapCross
		}
		totalCross += l.crossSize
	}

	crossAvail := axisOf(contentSize, crossAxis)

	// align-content: stretch hands each line an equal share of the leftover
	// cross space; the toJustify table below then packs the (now full-size)
	// lines from the start.
	if container.AlignContent == AlignStretch && len(lines) > 0 {
		if extra := (crossAvail - totalCross) / float32(len(lines)); extra > 0 {
			for i := range lines {
				lines[i].crossSize += extra
			}
			totalCross = crossAvail
		}
	}

	crossStart, crossGap := distribute1D(container.AlignContent.toJustify(), crossAvail, totalCross, len(lines))

	crossCursor := crossStart
	for _, line := range lines {
		p.placeLine(parent, line, container, mainAxis, content, contentSize, crossCursor)
		crossCursor += line.crossSize + crossGap + container.GapCross
	}
}

func (p *positioner) placeLine(parent NodeId, line flexLine, container ContainerConfig, mainAxis Axis, content LogicalPosition, contentSize LogicalSize, crossOffset float32) {
	crossAxis := otherAxis(mainAxis)
	mainAvail := axisOf(contentSize, mainAxis)

	gapTotal := float32(0)
	if len(line.nodes) > 1 {
		gapTotal = container.GapMain * float32(len(line.nodes)-1)
	}
	mainStart, mainGap := distribute1D(container.Justify, mainAvail, line.mainSize+gapTotal, len(line.nodes))

	nodes := line.nodes
	if container.Direction.Reversed() {
		nodes = reversed(nodes)
	}

	cursor := mainStart
	for i, id := range nodes {
		if i > 0 && !p.props.Items[id].IgnoreGapBefore {
			cursor += container.GapMain + mainGap
		}
		size := p.outerMain(id, mainAxis)

		align := container.AlignItems
		if as := p.props.Items[id].AlignSelf; as != nil {
			align = *as
		}
		crossSize := p.outerMain(id, crossAxis)
		crossPos := crossOffset
		switch align {
		case AlignEnd:
			crossPos = crossOffset + (line.crossSize - crossSize)
		case AlignCenter:
			crossPos = crossOffset + (line.crossSize-crossSize)/2
		}

		// cursor/crossPos track the outer (margin-inclusive) slot; the
		// node's border box starts after its lo-side margin on each axis.
		mainLo, crossLo := p.marginLo(id, mainAxis), p.marginLo(id, crossAxis)

		var static LogicalPosition
		if mainAxis == AxisWidth {
			static = LogicalPosition{X: content.X + cursor + mainLo, Y: content.Y + crossPos + crossLo}
		} else {
			static = LogicalPosition{X: content.X + crossPos + crossLo, Y: content.Y + cursor + mainLo}
		}

		dx, dy := p.relativeShift(id, contentSize)
		p.place(id, LogicalPosition{X: static.X + dx, Y: static.Y + dy})
		p.out[id].StaticPosition = static
		cursor += size
	}
}

func (p *positioner) marginLo(id NodeId, axis Axis) float32 {
	if axis == AxisWidth {
		return p.widths[id].MarginLo
	}
	return p.heights[id].MarginLo
}

// relativeShift resolves a position:relative node's offset from its static
// flow slot: left/top move it positive, right/bottom negative, with left/top
// winning when both sides of an axis are set (the node still occupies its
// static slot in the parent's flow either way).
func (p *positioner) relativeShift(id NodeId, parentContent LogicalSize) (dx, dy float32) {
	off := p.props.Offsets[id]
	if off.Position != PositionRelative {
		return 0, 0
	}
	po := off.PositionOff
	if po.Left != nil {
		dx = po.Left.Resolve(parentContent.Width)
	} else if po.Right != nil {
		dx = -po.Right.Resolve(parentContent.Width)
	}
	if po.Top != nil {
		dy = po.Top.Resolve(parentContent.Height)
	} else if po.Bottom != nil {
		dy = -po.Bottom.Resolve(parentContent.Height)
	}
	return dx, dy
}

// distribute1D computes the starting offset and the extra per-gap spacing
// for distributing `used` size (content + its internal gaps) across `avail`
// space given justify-content semantics, including the full
// SpaceBetween/Around/Evenly table.
func distribute1D(j JustifyContent, avail, used float32, n int) (start, extraGap float32) {
	free := avail - used
	if free < 0 {
		free = 0
	}
	switch j {
	case JustifyEnd:
		return free, 0
	case JustifyCenter:
		return free / 2, 0
	case JustifySpaceBetween:
		if n <= 1 {
			return 0, 0
		}
		return 0, free / float32(n-1)
	case JustifySpaceAround:
		if n == 0 {
			return 0, 0
		}
		gap := free / float32(n)
		return gap / 2, gap
	case JustifySpaceEvenly:
		gap := free / float32(n+1)
		return gap, gap
	default: // JustifyStart
		return 0, 0
	}
}

// toJustify lets AlignContent (an AlignItems value) reuse distribute1D's
// justify-content table for cross-axis line distribution; Stretch behaves
// like Start here since placeLines has already grown the lines' cross
// sizes to take up the free cross space.
func (a AlignItems) toJustify() JustifyContent {
	switch a {
	case AlignEnd:
		return JustifyEnd
	case AlignCenter:
		return JustifyCenter
	default:
		return JustifyStart
	}
}

func reversed(ids []NodeId) []NodeId {
	out := make([]NodeId, len(ids))
	for i, id := range ids {
		out[len(ids)-1-i] = id
	}
	return out
}

// placeAbsolutes positions every position:absolute node against its nearest
// positioned ancestor (walking up to the nearest non-Static ancestor, or the
// tree root if none exists) and every position:fixed node against the
// viewport, honoring right/bottom over left/top when both are set on a
// side.
func (p *positioner) placeAbsolutes() {
	// Top-down so an absolute ancestor is itself positioned before its own
	// absolute descendants are resolved against it.
	for _, e := range p.tree.DepthOrder() {
		id := e.NodeID
		off := p.props.Offsets[id]
		if !off.Position.IsOutOfFlow() {
			continue
		}

		var ref LogicalRect
		if off.Position == PositionFixed {
			// Fixed nodes anchor to the viewport: the root's outer rect,
			// which the flow pass pinned to the window surface.
			rootRect := p.out[p.tree.Root()]
			ref = LogicalRect{Origin: rootRect.Position, Size: rootRect.Size}
		} else {
			a := p.out[p.referenceAncestor(id)]
			ref = LogicalRect{Origin: a.ContentOrigin(), Size: a.ContentSize}
		}
		w, h := &p.widths[id], &p.heights[id]

		x := ref.Origin.X
		if off.PositionOff.Right != nil {
			x = ref.Right() - off.PositionOff.Right.Resolve(ref.Size.Width) - w.MarginHi - w.OuterNoMargin()
		} else if off.PositionOff.Left != nil {
			x = ref.Origin.X + off.PositionOff.Left.Resolve(ref.Size.Width) + w.MarginLo
		}

		y := ref.Origin.Y
		if off.PositionOff.Bottom != nil {
			y = ref.Bottom() - off.PositionOff.Bottom.Resolve(ref.Size.Height) - h.MarginHi - h.OuterNoMargin()
		} else if off.PositionOff.Top != nil {
			y = ref.Origin.Y + off.PositionOff.Top.Resolve(ref.Size.Height) + h.MarginLo
		}

		p.place(id, LogicalPosition{X: x, Y: y})
	}
}

// referenceAncestor walks up from id's parent to the nearest ancestor whose
// LayoutPosition is not Static, returning the tree root if none is found.
func (p *positioner) referenceAncestor(id NodeId) NodeId {
	cur, ok := p.tree.ParentOf(id)
	for ok {
		if p.props.Offsets[cur].Position.IsPositioned() {
			return cur
		}
		cur, ok = p.tree.ParentOf(cur)
	}
	return p.tree.Root()
}

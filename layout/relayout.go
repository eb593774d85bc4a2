package layout

import "sort"

// ChangedProperty names one property-group mutation a caller wants to apply
// incrementally instead of re-running Solve from scratch.
type ChangedProperty int

const (
	ChangedWidth ChangedProperty = iota
	ChangedHeight
	ChangedPadding
	ChangedMargin
	ChangedBorder
	ChangedPosition
	ChangedFlexGrow
	ChangedFlexDirection
	ChangedJustifyContent
	ChangedAlignItems
	ChangedText
)

// StyleChange is one node's property mutation, as reported by a caller that
// already knows what changed (e.g. a hover-state restyle).
type StyleChange struct {
	NodeID   NodeId
	Property ChangedProperty
}

// TextChange is one node's text-content replacement. Relayout writes the
// new string into the tree itself before re-solving.
type TextChange struct {
	NodeID NodeId
	Text   string
}

// RelayoutResult pairs the updated LayoutResult with the set of nodes whose
// geometry the relayout recomputed: every redistributed parent, its direct
// children, and any node the reposition sweep actually moved.
type RelayoutResult struct {
	*LayoutResult
	ChangedNodes map[NodeId]bool
}

// relayoutSets holds the six work-sets an incremental pass accumulates:
// which parents need their children's width or height redistributed, which
// nodes need their own new size bubbled up, and which parents need their
// children repositioned on each axis.
type relayoutSets struct {
	parentsRecalcWidth  map[NodeId]bool
	parentsRecalcHeight map[NodeId]bool
	bubbleWidth         map[NodeId]bool
	bubbleHeight        map[NodeId]bool
	repositionX         map[NodeId]bool
	repositionY         map[NodeId]bool
}

func newRelayoutSets() *relayoutSets {
	return &relayoutSets{
		parentsRecalcWidth:  map[NodeId]bool{},
		parentsRecalcHeight: map[NodeId]bool{},
		bubbleWidth:         map[NodeId]bool{},
		bubbleHeight:        map[NodeId]bool{},
		repositionX:         map[NodeId]bool{},
		repositionY:         map[NodeId]bool{},
	}
}

// propertyAxisEffect is the fixed property-to-axis dispatch table: which
// axis(es) a property change can affect, and whether it changes this node's
// own contribution to its parent's size (requiring a re-init and a bubble)
// versus only how the node arranges children already sized (recalc only).
func propertyAxisEffect(p ChangedProperty) (width, height, bubbles bool) {
	switch p {
	case ChangedWidth:
		return true, false, true
	case ChangedHeight:
		return false, true, true
	case ChangedPadding, ChangedMargin, ChangedBorder, ChangedText:
		return true, true, true
	case ChangedPosition:
		// Switching between static and absolute moves the node in or out of
		// its parent's flow, which changes the parent's main-axis sum on
		// both axes.
		return true, true, true
	case ChangedFlexDirection:
		// Direction flips which axis the node's children sum along, which
		// changes the node's own aggregate minimum on both axes.
		return true, true, true
	case ChangedFlexGrow, ChangedJustifyContent, ChangedAlignItems:
		return true, true, false
	default:
		return false, false, false
	}
}

// Relayout patches a previously solved LayoutResult after a batch of style
// and text changes. prev must come from Solve (or an earlier
// Relayout) over the same tree; it is updated in place and returned.
//
// The restricted path re-initializes only the nodes whose own preferred size
// may have changed, bubbles their new minimums up with early termination
// (stopping one level above the last ancestor whose own minimum actually
// moved), redistributes flex growth top-down over just the dirty parents —
// cascading deeper whenever a redistribution changed a child's inner size —
// and re-places only the topmost dirty subtrees. The bubble and init state
// of every untouched node is reused as-is.
//
// A viewport change invalidates the root constraint every percent and
// flex-grow value in the tree hangs off, so it falls through to a full
// re-solve; the changed-node set is then computed by diffing geometry.
func Relayout(prev *LayoutResult, cache PropertyCache, viewport Viewport, changes []StyleChange, textChanges []TextChange) *RelayoutResult {
	if prev == nil || prev.tree == nil {
		return nil
	}

	// Early-out: same viewport, nothing changed.
	if len(changes) == 0 && len(textChanges) == 0 && viewport == prev.viewport {
		return &RelayoutResult{LayoutResult: prev, ChangedNodes: map[NodeId]bool{}}
	}

	tree := prev.tree

	if viewport != prev.viewport {
		old := prev.Rectangles
		next := Solve(tree, cache, prev.measure.Fonts, prev.measure.Images, viewport)
		return &RelayoutResult{LayoutResult: next, ChangedNodes: diffRects(old, next.Rectangles)}
	}

	oldRects := append([]PositionedRectangle(nil), prev.Rectangles...)

	merged := append([]StyleChange(nil), changes...)
	textChanged := map[NodeId]bool{}
	for _, tc := range textChanges {
		tree.SetText(tc.NodeID, tc.Text)
		prev.measure.InvalidateWrapped(tc.NodeID)
		textChanged[tc.NodeID] = true
		merged = append(merged, StyleChange{NodeID: tc.NodeID, Property: ChangedText})
	}

	// Rewrite only the changed nodes' entries in the parallel arrays.
	seen := map[NodeId]bool{}
	for _, ch := range merged {
		if !seen[ch.NodeID] {
			seen[ch.NodeID] = true
			resolveNodeProperties(prev.props, cache, ch.NodeID)
		}
	}

	sets := newRelayoutSets()
	for _, ch := range merged {
		w, h, bubbles := propertyAxisEffect(ch.Property)
		id := ch.NodeID
		parent, hasParent := tree.ParentOf(id)
		if w {
			sets.parentsRecalcWidth[id] = true
			if hasParent {
				sets.parentsRecalcWidth[parent] = true
				sets.repositionX[parent] = true
			}
			if bubbles {
				sets.bubbleWidth[id] = true
			}
		}
		if h {
			sets.parentsRecalcHeight[id] = true
			if hasParent {
				sets.parentsRecalcHeight[parent] = true
				sets.repositionY[parent] = true
			}
			if bubbles {
				sets.bubbleHeight[id] = true
			}
		}
	}

	depthOf := make([]int, tree.Len())
	for _, e := range tree.DepthOrder() {
		depthOf[e.NodeID] = e.Depth
	}

	oldWidthInner := make([]float32, tree.Len())
	for i := range prev.WidthRects {
		oldWidthInner[i] = prev.WidthRects[i].InnerSize()
	}

	wst := &solverState{tree: tree, props: prev.props, measure: prev.measure, axis: AxisWidth, rects: prev.WidthRects}
	restrictedAxisSolve(wst, sets.bubbleWidth, sets.parentsRecalcWidth, viewport.widthConstraint(), depthOf)

	// Between the axes: re-measure any content whose height depends on the
	// just-solved widths — text re-wraps, images re-scale to keep aspect —
	// so the restricted height init sees the real content height.
	for i := 0; i < tree.Len(); i++ {
		id := NodeId(i)
		typ := tree.NodeType(id)
		if typ != NodeText && typ != NodeImage {
			continue
		}
		parent, hasParent := tree.ParentOf(id)
		dirty := textChanged[id] || prev.WidthRects[id].InnerSize() != oldWidthInner[id] ||
			(hasParent && prev.WidthRects[parent].InnerSize() != oldWidthInner[parent])
		if !dirty {
			continue
		}
		if typ == NodeImage {
			prev.measure.ScaleImageHeight(tree, id, prev.WidthRects[id].InnerSize())
		} else {
			wrapWidth := prev.WidthRects[id].InnerSize()
			if hasParent {
				if pw := prev.WidthRects[parent].InnerSize(); pw < wrapWidth {
					wrapWidth = pw
				}
			}
			prev.measure.MeasureWrapped(tree, id, prev.props.TextOpts[id], wrapWidth)
		}
		sets.bubbleHeight[id] = true
		sets.parentsRecalcHeight[id] = true
		if hasParent {
			sets.parentsRecalcHeight[parent] = true
			sets.repositionY[parent] = true
		}
	}

	hst := &solverState{tree: tree, props: prev.props, measure: prev.measure, axis: AxisHeight, rects: prev.HeightRects}
	restrictedAxisSolve(hst, sets.bubbleHeight, sets.parentsRecalcHeight, viewport.heightConstraint(), depthOf)

	// Reposition: every recalc parent may have moved or resized its
	// children, so the subtrees rooted at the topmost dirty nodes are
	// re-placed from their retained origins (a topmost dirty node's own
	// origin is unchanged — had its outer size moved, the bubble walk would
	// have dirtied its parent too, and it would not be topmost).
	dirtyPos := map[NodeId]bool{}
	for _, set := range []map[NodeId]bool{sets.parentsRecalcWidth, sets.parentsRecalcHeight, sets.repositionX, sets.repositionY} {
		for id := range set {
			dirtyPos[id] = true
		}
	}
	pos := &positioner{tree: tree, props: prev.props, widths: prev.WidthRects, heights: prev.HeightRects, out: prev.Rectangles}
	for _, rootID := range topmostNodes(tree, dirtyPos) {
		pos.place(rootID, oldRects[rootID].Position)
	}
	pos.placeAbsolutes()

	prev.Overflow = DetectOverflow(tree, prev.props, prev.Rectangles)

	changed := diffRects(oldRects, prev.Rectangles)
	for _, set := range []map[NodeId]bool{sets.parentsRecalcWidth, sets.parentsRecalcHeight} {
		for id := range set {
			changed[id] = true
			for _, c := range tree.ChildrenOf(id) {
				changed[c] = true
			}
		}
	}

	return &RelayoutResult{LayoutResult: prev, ChangedNodes: changed}
}

// restrictedAxisSolve is the dirty-set-limited counterpart of SolveAxis's
// three passes, operating in place on retained AxisRects:
//
//  1. every node whose own preferred size may have changed is re-initialized
//     and re-bubbled from its (unchanged) children;
//  2. its new minimum is bubbled up the ancestor chain, stopping once an
//     ancestor's own minimum is absorbed unchanged — every touched
//     ancestor joins the recalc set;
//  3. flex growth is redistributed top-down over the recalc set only,
//     level by level, cascading to a child's own subtree whenever the
//     redistribution changed that child's inner size.
func restrictedAxisSolve(st *solverState, bubble, recalc map[NodeId]bool, rootAvailable Constraint, depthOf []int) {
	tree := st.tree

	// Shallow-to-deep so a changed node nested under another changed node is
	// re-initialized against its parent's already-refreshed Preferred; id as
	// the tie-break keeps the whole pass deterministic despite the map input.
	bubbleIDs := make([]NodeId, 0, len(bubble))
	for id := range bubble {
		bubbleIDs = append(bubbleIDs, id)
	}
	sort.Slice(bubbleIDs, func(i, j int) bool {
		if depthOf[bubbleIDs[i]] != depthOf[bubbleIDs[j]] {
			return depthOf[bubbleIDs[i]] < depthOf[bubbleIDs[j]]
		}
		return bubbleIDs[i] < bubbleIDs[j]
	})

	for _, id := range bubbleIDs {
		parent, _ := tree.ParentOf(id)
		st.initNode(id, parent, rootAvailable)
		st.bubbleNode(id)
		recalc[id] = true
	}

	for _, id := range bubbleIDs {
		cur := id
		for {
			parent, ok := tree.ParentOf(cur)
			if !ok {
				break
			}
			// The parent redistributes even when its own minimum is
			// absorbed unchanged: the child's new size still shifts how
			// siblings share the same inner space.
			recalc[parent] = true
			old := st.rects[parent].MinInnerSizePx
			st.bubbleNode(parent)
			if st.rects[parent].MinInnerSizePx == old {
				break
			}
			cur = parent
		}
	}

	if recalc[tree.Root()] {
		st.applyRootGrow(rootAvailable)
	}

	byDepth := map[int][]NodeId{}
	maxDepth := 0
	for id := range recalc {
		d := depthOf[id]
		byDepth[d] = append(byDepth[d], id)
		if d > maxDepth {
			maxDepth = d
		}
	}
	for d := 0; d <= maxDepth; d++ {
		level := byDepth[d]
		sort.Slice(level, func(i, j int) bool { return level[i] < level[j] })
		for _, id := range level {
			children := tree.ChildrenOf(id)
			if len(children) == 0 {
				continue
			}
			before := make([]float32, len(children))
			for i, c := range children {
				before[i] = st.rects[c].InnerSize()
			}
			st.distributeChildren(id)
			for i, c := range children {
				if st.rects[c].InnerSize() == before[i] || recalc[c] {
					continue
				}
				recalc[c] = true
				cd := depthOf[c]
				byDepth[cd] = append(byDepth[cd], c)
				if cd > maxDepth {
					maxDepth = cd
				}
			}
		}
	}
}

// topmostNodes filters set down to the nodes none of whose ancestors are
// also in the set, in ascending NodeId order.
func topmostNodes(tree *StyledTree, set map[NodeId]bool) []NodeId {
	var out []NodeId
	for id := range set {
		covered := false
		for cur, ok := tree.ParentOf(id); ok; cur, ok = tree.ParentOf(cur) {
			if set[cur] {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// diffRects reports every node whose final rectangle differs between two
// geometry snapshots of the same tree.
func diffRects(old, updated []PositionedRectangle) map[NodeId]bool {
	changed := map[NodeId]bool{}
	for i := range updated {
		if i >= len(old) || old[i] != updated[i] {
			changed[NodeId(i)] = true
		}
	}
	return changed
}

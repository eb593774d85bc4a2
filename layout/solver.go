package layout

import (
	"math"

	"golang.org/x/sync/errgroup"
)

// solverState is the per-axis working set the three sub-passes below share:
// one AxisRect per node plus the inputs needed to derive it. Keeping this as
// a struct (rather than free functions over bare slices) is what lets
// WidthSolver and HeightSolver be the same code invoked with Axis ==
// AxisWidth or AxisHeight.
type solverState struct {
	tree    *StyledTree
	props   *ResolvedProperties
	measure *ContentMeasurer
	axis    Axis
	rects   []AxisRect
}

// SolveAxis runs the full three-pass width or height solve (init, bubble,
// flex-grow) over tree and returns one AxisRect per node, indexed by
// NodeId. rootAvailable is the viewport's constraint on the given axis.
func SolveAxis(tree *StyledTree, props *ResolvedProperties, measure *ContentMeasurer, axis Axis, rootAvailable Constraint) []AxisRect {
	st := &solverState{tree: tree, props: props, measure: measure, axis: axis, rects: make([]AxisRect, tree.Len())}
	st.initPass(rootAvailable)
	st.bubblePass()
	st.flexGrowPass(rootAvailable)
	return st.rects
}

// initPass walks the tree top-down (shallowest first). Each node's Preferred
// constraint is derived from its own WhConfig against its parent's
// just-computed MaxAvailableSpace on this axis — safe because the parent
// appears earlier in the same sweep, never a forward reference.
func (st *solverState) initPass(rootAvailable Constraint) {
	for _, e := range st.tree.DepthOrder() {
		st.initNode(e.NodeID, e.ParentID, rootAvailable)
	}
}

// initNode recomputes one node's AxisRect from its WhConfig, offsets, and
// content size, resolving percents against its parent's MaxAvailableSpace
// (the viewport constraint for the root). Shared by the full top-down
// initPass and the restricted relayout path, which re-inits only the nodes
// whose own preferred size may have changed.
func (st *solverState) initNode(id, parentID NodeId, rootAvailable Constraint) {
	var parentSize float32
	if parentID == InvalidNodeId {
		parentSize = rootAvailable.MaxAvailableSpace()
	} else {
		parentSize = st.rects[parentID].Preferred.MaxAvailableSpace()
	}

	wh := st.props.WhConfigs[id]
	off := st.props.Offsets[id]

	var contentPtr *float32
	if st.measure != nil {
		topts := st.props.TextOpts[id]
		if v, ok := st.measure.PreferredContentSize(st.tree, id, topts, st.axis); ok {
			contentPtr = &v
		}
	}

	cfg := sizeConstraintFor(st.axis, wh)
	pref := determinePreferred(cfg, parentSize, contentPtr, parentSize)

	var content float32
	if contentPtr != nil {
		content = *contentPtr
	}

	marginLo, marginHi := loHi(st.axis, off.Margin)
	paddingLo, paddingHi := loHi(st.axis, off.Padding)
	borderLo, borderHi := loHi(st.axis, off.BorderWidths)

	r := AxisRect{
		Preferred:   pref,
		MarginLo:    marginLo.Resolve(parentSize),
		MarginHi:    marginHi.Resolve(parentSize),
		PaddingLo:   paddingLo.Resolve(parentSize),
		PaddingHi:   paddingHi.Resolve(parentSize),
		BorderLo:    borderLo.Resolve(parentSize),
		BorderHi:    borderHi.Resolve(parentSize),
		BoxSizing:   off.BoxSizing,
		FlexBasisPx: clampNeg(content),
	}
	if off.BoxSizing == BorderBox && pref.IsFixed() {
		// An explicit border-box size already includes padding+border;
		// carve them back out so MinInnerSizePx/Total stay content-box
		// internally.
		shrink := r.PaddingSum() + r.BorderSum()
		r.Preferred = EqualToC(maxF32(0, pref.Lo-shrink))
	}
	st.rects[id] = r
}

// bubblePass walks the tree bottom-up, one full depth level at a time
// (deepest level first). For each parent it aggregates its
// non-absolutely-positioned children's flex basis: summed along the
// parent's main axis, maxed along its cross axis, plus main-axis gaps. The
// aggregate becomes the parent's MinInnerSizePx, floored at its own
// Preferred minimum. Nodes within a level never depend on one another —
// only on already-settled children strictly deeper in the tree — so each
// level's nodes are resolved concurrently, mirroring PropertyResolver's
// errgroup fan-out.
func (st *solverState) bubblePass() {
	levels := groupByDepth(st.tree.DepthOrder(), func(NodeId) bool { return true })
	for i := len(levels) - 1; i >= 0; i-- {
		level := levels[i]
		parallelOverIDs(level, st.bubbleNode)
	}
}

func (st *solverState) bubbleNode(id NodeId) {
	children := st.tree.ChildrenOf(id)
	r := &st.rects[id]

	if len(children) == 0 {
		r.MinInnerSizePx = r.Preferred.MinNeededSpace()
		return
	}

	container := st.props.Containers[id]
	mainAxis := container.Direction.MainAxis()
	isMain := st.axis == mainAxis

	var agg float32
	if !isMain && container.Wrap {
		agg = st.wrappedCrossAggregate(id, children, container)
	} else {
		first := true
		for _, c := range children {
			if st.props.Offsets[c].Position.IsOutOfFlow() {
				continue // absolute/fixed children never contribute to parent sizing
			}
			basis := st.rects[c].FlexBasis()
			if isMain {
				if !first {
					agg += gapFor(container, st.axis)
				}
				agg += basis
				first = false
			} else if basis > agg {
				agg = basis
			}
		}
	}

	// children_size = min(parent_max_available, sum_or_max). A parent
	// with its own finite max/exact constraint cannot be forced
	// to grow past it just because its children need more room; the
	// excess is left for the OverflowDetector to report instead.
	childrenSize := agg
	if parentMax := r.Preferred.MaxAvailableSpace(); !math.IsInf(float64(parentMax), 1) && parentMax < childrenSize {
		childrenSize = parentMax
	}

	own := r.Preferred.MinNeededSpace()
	if childrenSize > own {
		r.MinInnerSizePx = childrenSize
	} else {
		r.MinInnerSizePx = own
	}
}

func gapFor(c ContainerConfig, axis Axis) float32 {
	if axis == c.Direction.MainAxis() {
		return c.GapMain
	}
	return c.GapCross
}

// wrappedCrossAggregate computes the cross-axis space a wrapping container
// needs: children are grouped into lines against the container's main-axis
// availability, and the line cross sizes (max of this axis's flex bases per
// line) are summed with cross gaps between lines. The main-axis sizes come
// from each child's raw config rather than solved rects, since the main
// axis may not have been solved yet when this axis bubbles (width always
// solves before height, whichever of the two is the main axis here).
func (st *solverState) wrappedCrossAggregate(id NodeId, children []NodeId, container ContainerConfig) float32 {
	mainAxis := container.Direction.MainAxis()
	mainAvail := st.estimateInner(id, mainAxis)

	var total, lineCross, lineMain float32
	lineCount, lineLen := 0, 0
	flush := func() {
		if lineLen == 0 {
			return
		}
		if lineCount > 0 {
			total += gapFor(container, st.axis)
		}
		total += lineCross
		lineCount++
		lineCross, lineMain, lineLen = 0, 0, 0
	}
	for _, c := range children {
		if st.props.Offsets[c].Position.IsOutOfFlow() {
			continue
		}
		mb := st.estimateOuter(c, mainAxis)
		gap := float32(0)
		if lineLen > 0 {
			gap = gapFor(container, mainAxis)
		}
		if lineLen > 0 && lineMain+gap+mb > mainAvail {
			flush()
			gap = 0
		}
		lineMain += gap + mb
		lineLen++
		if cb := st.rects[c].FlexBasis(); cb > lineCross {
			lineCross = cb
		}
	}
	flush()
	return total
}

// estimateInner approximates the wrapping container's inner size on the
// given (possibly not-yet-solved) axis from its raw config alone. Percents
// resolve to zero here — an estimate consulted only for line grouping.
func (st *solverState) estimateInner(id NodeId, axis Axis) float32 {
	inf := float32(math.Inf(1))
	off := st.props.Offsets[id]
	cfg := sizeConstraintFor(axis, st.props.WhConfigs[id])
	inner := determinePreferred(cfg, inf, nil, inf).MaxAvailableSpace()
	if math.IsInf(float64(inner), 1) {
		return inner
	}
	if off.BoxSizing == BorderBox {
		pl, ph := loHi(axis, off.Padding)
		bl, bh := loHi(axis, off.BorderWidths)
		inner = maxF32(0, inner-pl.Resolve(inf)-ph.Resolve(inf)-bl.Resolve(inf)-bh.Resolve(inf))
	}
	return inner
}

// estimateOuter approximates a child's outer (margin-inclusive) size on the
// given axis before that axis has been solved: its configured or intrinsic
// minimum plus box-model offsets, percents resolving to zero.
func (st *solverState) estimateOuter(id NodeId, axis Axis) float32 {
	inf := float32(math.Inf(1))
	off := st.props.Offsets[id]
	cfg := sizeConstraintFor(axis, st.props.WhConfigs[id])

	var contentPtr *float32
	if st.measure != nil {
		if v, ok := st.measure.PreferredContentSize(st.tree, id, st.props.TextOpts[id], axis); ok {
			contentPtr = &v
		}
	}
	pref := determinePreferred(cfg, inf, contentPtr, inf)

	pl, ph := loHi(axis, off.Padding)
	bl, bh := loHi(axis, off.BorderWidths)
	ml, mh := loHi(axis, off.Margin)
	box := pl.Resolve(inf) + ph.Resolve(inf) + bl.Resolve(inf) + bh.Resolve(inf)

	size := pref.MinNeededSpace()
	if off.BoxSizing == BorderBox && pref.IsFixed() {
		size = maxF32(0, size-box)
	}
	return size + box + ml.Resolve(inf) + mh.Resolve(inf)
}

// flexGrowPass walks the tree top-down, depth level by depth level (every
// node at depth d is finalized before any node at depth d+1 begins, so
// siblings never race on a parent's not-yet-settled inner size). The root's
// available growth
// is rootAvailable minus its bubbled MinInnerSizePx (see applyRootGrow); every other node's
// available growth is its parent's already-settled InnerSize.
func (st *solverState) flexGrowPass(rootAvailable Constraint) {
	st.applyRootGrow(rootAvailable)

	levels := groupByDepth(st.tree.DepthOrder(), func(NodeId) bool { return true })
	for _, level := range levels {
		parallelOverIDs(level, st.distributeChildren)
	}
}

// applyRootGrow seeds the root's growth from the viewport: the viewport
// size minus the root's bubbled minimum, clamped to the root's own max if
// set. The viewport is always the base; the root's
// own WhConfig (if any) only narrows it further. A root with no explicit
// width/height is not thereby shrink-to-fit — it fills the viewport, exactly
// like a styled root with no width style fills its window. Only when the
// viewport itself carries no constraint (rootAvailable Unconstrained, the
// sentinel an auto-sizing caller passes when it wants its root to
// shrink-wrap its content) does sizing fall back to the bubbled content
// requirement.
func (st *solverState) applyRootGrow(rootAvailable Constraint) {
	rr := &st.rects[st.tree.Root()]
	rootPreferred := rootAvailable.MaxAvailableSpace()
	if math.IsInf(float64(rootPreferred), 1) {
		rootPreferred = rr.MinInnerSizePx
	}
	if ownMax := rr.Preferred.MaxAvailableSpace(); !math.IsInf(float64(ownMax), 1) && ownMax < rootPreferred {
		rootPreferred = ownMax
	}
	rr.FlexGrowPx = maxF32(0, rootPreferred-rr.MinInnerSizePx)
}

// distributeChildren dispatches one parent's flex distribution on this
// solver's axis: main-axis proportional growth when the parent's direction
// matches, per-child stretch otherwise.
func (st *solverState) distributeChildren(id NodeId) {
	children := st.tree.ChildrenOf(id)
	if len(children) == 0 {
		return
	}
	container := st.props.Containers[id]
	parentInner := st.rects[id].InnerSize()

	if st.axis == container.Direction.MainAxis() {
		st.distributeMainAxis(id, children, container, parentInner)
	} else {
		st.distributeCrossAxis(id, children, parentInner)
	}
}

// parallelOverIDs runs fn(id) for every id in ids across a bounded worker
// pool, the same level-synchronous fan-out property_resolver.go's
// parallelOverRange uses over plain indices: callers only ever pass one
// full depth level at a time, whose nodes share no dependency on one
// another. errgroup is the join primitive; fn never returns an error.
func parallelOverIDs(ids []NodeId, fn func(NodeId)) {
	n := len(ids)
	if n == 0 {
		return
	}
	workers := n
	if workers > maxParallelWorkers {
		workers = maxParallelWorkers
	}
	if workers <= 1 {
		for _, id := range ids {
			fn(id)
		}
		return
	}

	var g errgroup.Group
	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if start >= n {
			break
		}
		if end > n {
			end = n
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				fn(ids[i])
			}
			return nil
		})
	}
	_ = g.Wait()
}

// distributeMainAxis distributes main-axis free space following CSS
// Flexbox's "resolving flexible lengths" algorithm (CSS Flexible Box
// Layout §9.7.3): every growable child starts at its flex basis (its
// content size, not its min-bumped floor), the parent's free space is
// distributed proportionally to flex-grow weight, and any child whose
// hypothetical size would violate its own min or max is frozen there
// instead — removing it, and the space it actually consumes, from the pool
// before the remaining unfrozen children are reconsidered. Iterating is
// what lets one child's freeze free up (or give back) room for the rest.
func (st *solverState) distributeMainAxis(parent NodeId, children []NodeId, container ContainerConfig, parentInner float32) {
	type entry struct {
		id       NodeId
		grow     float32
		growable bool
		basis    float32 // flex basis: content size, ignoring any min bump
		floor    float32 // MinInnerSizePx: the hard minimum this child cannot shrink below
		maxInner float32
		target   float32
	}

	var flow []*entry
	used := float32(0)
	gapCount := 0
	for _, c := range children {
		if st.props.Offsets[c].Position.IsOutOfFlow() {
			continue
		}
		if gapCount > 0 {
			used += container.GapMain
		}
		gapCount++
		cr := &st.rects[c]
		grow := st.props.Items[c].FlexGrow
		growable := grow > 0 && !cr.Preferred.IsFixed()
		floor := cr.MinInnerSizePx
		basis := floor
		if growable {
			basis = cr.FlexBasisPx
		}
		used += basis + cr.PaddingSum() + cr.BorderSum() + cr.MarginSum()
		flow = append(flow, &entry{id: c, grow: grow, growable: growable, basis: basis, floor: floor, maxInner: cr.Preferred.MaxAvailableSpace()})
	}
	if len(flow) == 0 {
		return
	}

	remaining := parentInner - used
	if remaining < 0 {
		remaining = 0
	}

	var unfrozen []*entry
	for _, e := range flow {
		if e.growable {
			unfrozen = append(unfrozen, e)
		}
	}

	for len(unfrozen) > 0 {
		totalGrow := float32(0)
		for _, e := range unfrozen {
			totalGrow += e.grow
		}
		if totalGrow <= 0 {
			for _, e := range unfrozen {
				e.target = e.basis
			}
			break
		}

		var stillUnfrozen []*entry
		anyFrozen := false
		for _, e := range unfrozen {
			share := remaining * (e.grow / totalGrow)
			hyp := e.basis + share
			switch {
			case hyp < e.floor:
				e.target = e.floor
				remaining -= e.floor - e.basis
				anyFrozen = true
			case !math.IsInf(float64(e.maxInner), 1) && hyp > e.maxInner:
				e.target = e.maxInner
				remaining -= e.maxInner - e.basis
				anyFrozen = true
			default:
				stillUnfrozen = append(stillUnfrozen, e)
			}
		}
		if remaining < 0 {
			remaining = 0
		}
		if !anyFrozen {
			for _, e := range stillUnfrozen {
				share := remaining * (e.grow / totalGrow)
				e.target = e.basis + share
			}
			break
		}
		unfrozen = stillUnfrozen
	}

	for _, e := range flow {
		if e.growable {
			st.rects[e.id].FlexGrowPx = maxF32(0, e.target-e.floor)
		} else {
			// A no-op on a from-scratch solve (growth starts at zero), but a
			// restricted relayout re-runs this over already-grown rects: a
			// child that is no longer growable must not keep growth a
			// previous distribution assigned it.
			st.rects[e.id].FlexGrowPx = 0
		}
	}
}

// distributeCrossAxis handles the perpendicular axis: a
// non-iterative pass, each flowed child independently grows to
// min(parentInner, its own max) when AlignItems is Stretch (or the item
// opts out via AlignSelf); absolute/fixed children are skipped and keep
// their own minimum size, and positioner.go places them against their
// reference box.
func (st *solverState) distributeCrossAxis(parent NodeId, children []NodeId, parentInner float32) {
	container := st.props.Containers[parent]
	for _, c := range children {
		if st.props.Offsets[c].Position.IsOutOfFlow() {
			continue
		}
		cr := &st.rects[c]
		align := container.AlignItems
		if as := st.props.Items[c].AlignSelf; as != nil {
			align = *as
		}
		if align != AlignStretch || cr.Preferred.IsFixed() {
			// Growth always restarts from zero so a restricted relayout over
			// already-grown rects cannot keep stale stretch from a previous
			// distribution.
			cr.FlexGrowPx = 0
			continue
		}
		maxAvail := cr.Preferred.MaxAvailableSpace()
		target := parentInner - cr.PaddingSum() - cr.BorderSum() - cr.MarginSum()
		if !math.IsInf(float64(maxAvail), 1) && maxAvail < target {
			target = maxAvail
		}
		cr.FlexGrowPx = maxF32(0, target-cr.MinInnerSizePx)
	}
}

func maxF32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

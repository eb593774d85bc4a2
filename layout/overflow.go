package layout

// OverflowKind classifies how a parent's content exceeds its own bounds.
type OverflowKind int

const (
	KindNoOverflow OverflowKind = iota
	KindClip
	KindScroll
)

// OverflowResult reports one parent whose children's content rectangle
// exceeds its own content box.
type OverflowResult struct {
	NodeID       NodeId
	Kind         OverflowKind // the more severe of KindX/KindY (KindScroll > KindClip)
	KindX        OverflowKind // horizontal axis: evaluated against OverflowX alone
	KindY        OverflowKind // vertical axis: evaluated against OverflowY alone
	ParentRect   LogicalRect  // the parent's own content box
	ChildrenRect LogicalRect  // the union of all children's outer rects
	// IdentityHash is a stable value for the same (parent, children-union)
	// pair across relayouts, letting a caller preserve scroll offsets for a
	// region that hasn't structurally changed.
	IdentityHash uint64
}

// DetectOverflow walks every parent in the tree and reports those whose
// children's content-rect union exceeds the parent's own content box on at
// least one axis. Each axis is judged independently against its own
// OverflowMode — overflow-x: hidden with overflow-y: auto clips
// horizontally while scrolling vertically. KindX/KindY carry that split;
// Kind is the louder of the two for callers that only want one verdict.
// A parent with OverflowVisible on both axes is skipped entirely, however
// badly its children overshoot.
func DetectOverflow(tree *StyledTree, props *ResolvedProperties, rects []PositionedRectangle) []OverflowResult {
	var out []OverflowResult
	for _, e := range tree.DepthOrder() {
		id := e.NodeID
		children := tree.ChildrenOf(id)
		if len(children) == 0 {
			continue
		}

		off := props.Offsets[id]
		if off.OverflowX == OverflowVisible && off.OverflowY == OverflowVisible {
			continue
		}

		parentContent := rects[id].ContentOrigin()
		parentRect := LogicalRect{Origin: parentContent, Size: rects[id].ContentSize}

		var union LogicalRect
		for _, c := range children {
			cr := rects[c]
			union = union.Union(LogicalRect{Origin: cr.Position, Size: cr.Size})
		}

		if parentRect.Contains(union) {
			continue
		}

		overflowsX := union.Origin.X < parentRect.Origin.X ||
			union.Origin.X+union.Size.Width > parentRect.Origin.X+parentRect.Size.Width
		overflowsY := union.Origin.Y < parentRect.Origin.Y ||
			union.Origin.Y+union.Size.Height > parentRect.Origin.Y+parentRect.Size.Height

		kindFor := func(overflows bool, mode OverflowMode) OverflowKind {
			if !overflows || mode == OverflowVisible {
				return KindNoOverflow
			}
			if mode.Clips() {
				return KindClip
			}
			return KindScroll
		}

		kindX := kindFor(overflowsX, off.OverflowX)
		kindY := kindFor(overflowsY, off.OverflowY)
		if kindX == KindNoOverflow && kindY == KindNoOverflow {
			continue
		}

		kind := kindX
		if kindY > kind {
			kind = kindY
		}

		out = append(out, OverflowResult{
			NodeID:       id,
			Kind:         kind,
			KindX:        kindX,
			KindY:        kindY,
			ParentRect:   parentRect,
			ChildrenRect: union,
			IdentityHash: overflowIdentity(id, parentRect, union),
		})
	}
	return out
}

// overflowIdentity combines the node id with the quantized geometry of both
// rectangles into a stable hash, so two relayouts that settle on the same
// geometry for the same node produce the same identity (a cheap
// structural fingerprint, not a cryptographic hash).
func overflowIdentity(id NodeId, parent, children LogicalRect) uint64 {
	h := uint64(1469598103934665603) // FNV offset basis
	mix := func(v float32) {
		bits := uint64(int64(v * 256))
		h ^= bits
		h *= 1099511628211 // FNV prime
	}
	h ^= uint64(id)
	h *= 1099511628211
	mix(parent.Origin.X)
	mix(parent.Origin.Y)
	mix(parent.Size.Width)
	mix(parent.Size.Height)
	mix(children.Origin.X)
	mix(children.Origin.Y)
	mix(children.Size.Width)
	mix(children.Size.Height)
	return h
}

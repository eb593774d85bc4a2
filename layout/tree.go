// Package layout implements the flexbox-style incremental layout solver:
// given a styled tree of nodes and a resolved property cache, it computes
// the size, position, padding/margin/border, and scroll overflow of every
// node in absolute window coordinates, and it can recompute only the
// affected subtrees when styles, text, or the viewport change.
package layout

import "math"

// NodeId is a stable index into the per-node parallel arrays that back a
// StyledTree. The zero value refers to the tree's root.
type NodeId int32

// InvalidNodeId marks the absence of a node (no parent, no sibling, ...).
const InvalidNodeId NodeId = -1

// NodeType distinguishes the small set of content kinds the solver needs to
// reason about when measuring preferred size. Visual rendering beyond that
// (decoding, painting) is the concern of external collaborators.
type NodeType int

const (
	NodeDiv NodeType = iota
	NodeText
	NodeImage
	NodeIFrame
)

// ImageRef is an opaque handle the ImageRegistry uses to look up intrinsic
// pixel dimensions. The solver never interprets it.
type ImageRef interface{}

// IFrameCallback produces a replacement subtree for an IFrame node, given
// candidate bounds for the node hosting it (Solve passes the viewport's
// full rectangle, as the host is not yet sized). A callback that panics or is
// nil is treated as producing an empty child tree; no error is surfaced.
type IFrameCallback func(bounds LogicalRect) *StyledTree

// treeNode is the flat representation of one node: parent, first child and
// next sibling links, plus the small amount of content data the solver
// itself needs (text string, image ref, iframe callback).
type treeNode struct {
	Parent      NodeId
	FirstChild  NodeId
	LastChild   NodeId
	NextSibling NodeId
	PrevSibling NodeId
	Type        NodeType

	Text      string
	Image     ImageRef
	IFrame    IFrameCallback
	iframeGen int // bumped when the callback's subtree is grafted; a grafted host is not expanded again
}

// DepthEntry pairs a node with its depth in the tree (root = depth 0) and
// the NodeId of its parent (InvalidNodeId for the root). A precomputed,
// depth-ordered slice of these lets every solver pass sweep bottom-up or
// top-down without recursion.
type DepthEntry struct {
	Depth    int
	NodeID   NodeId
	ParentID NodeId
}

// StyledTree is a flat, indexed DOM-like tree: the input the solver borrows.
// The solver changes it only to rebuild its depth order, to graft iframe
// subtrees, and (in Relayout) to apply text changes.
type StyledTree struct {
	nodes      []treeNode
	root       NodeId
	depthOrder []DepthEntry // top-down order: shallowest first
}

// NewStyledTree creates an empty tree with a single Div root node.
func NewStyledTree() *StyledTree {
	t := &StyledTree{nodes: []treeNode{{Parent: InvalidNodeId, FirstChild: InvalidNodeId, LastChild: InvalidNodeId, NextSibling: InvalidNodeId, PrevSibling: InvalidNodeId, Type: NodeDiv}}}
	t.root = 0
	t.rebuildDepthOrder()
	return t
}

// Root returns the tree's root NodeId.
func (t *StyledTree) Root() NodeId { return t.root }

// Len returns the number of nodes in the tree.
func (t *StyledTree) Len() int { return len(t.nodes) }

// NodeType reports the content kind of a node.
func (t *StyledTree) NodeType(id NodeId) NodeType {
	if !t.valid(id) {
		return NodeDiv
	}
	return t.nodes[id].Type
}

// Text returns the text content of a NodeText node (empty otherwise).
func (t *StyledTree) Text(id NodeId) string {
	if !t.valid(id) {
		return ""
	}
	return t.nodes[id].Text
}

// SetText replaces a NodeText node's text content.
func (t *StyledTree) SetText(id NodeId, s string) {
	if t.valid(id) {
		t.nodes[id].Text = s
	}
}

// Image returns the image reference of a NodeImage node.
func (t *StyledTree) Image(id NodeId) ImageRef {
	if !t.valid(id) {
		return nil
	}
	return t.nodes[id].Image
}

// ParentOf returns the parent of id, or (InvalidNodeId, false) for the root.
func (t *StyledTree) ParentOf(id NodeId) (NodeId, bool) {
	if !t.valid(id) {
		return InvalidNodeId, false
	}
	p := t.nodes[id].Parent
	return p, p != InvalidNodeId
}

// ChildrenOf returns the direct children of id in sibling order.
func (t *StyledTree) ChildrenOf(id NodeId) []NodeId {
	if !t.valid(id) {
		return nil
	}
	var out []NodeId
	for c := t.nodes[id].FirstChild; c != InvalidNodeId; c = t.nodes[c].NextSibling {
		out = append(out, c)
	}
	return out
}

// DepthOrder returns the precomputed (depth, parent) sweep order,
// shallowest first. Iterating in reverse yields deepest-first (bottom-up).
func (t *StyledTree) DepthOrder() []DepthEntry { return t.depthOrder }

func (t *StyledTree) valid(id NodeId) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// AddChild appends a new node of the given type as the last child of
// parent, returning its NodeId. Adding a node leaves the cached depth order
// stale until RebuildDepthOrder runs (Solve calls it on entry; callers doing
// a full (re)build should call it once after all Adds).
func (t *StyledTree) AddChild(parent NodeId, typ NodeType) NodeId {
	if !t.valid(parent) {
		parent = t.root
	}
	id := NodeId(len(t.nodes))
	t.nodes = append(t.nodes, treeNode{
		Parent: parent, FirstChild: InvalidNodeId, LastChild: InvalidNodeId,
		NextSibling: InvalidNodeId, PrevSibling: InvalidNodeId, Type: typ,
	})
	p := &t.nodes[parent]
	if p.LastChild == InvalidNodeId {
		p.FirstChild = id
	} else {
		t.nodes[p.LastChild].NextSibling = id
		t.nodes[id].PrevSibling = p.LastChild
	}
	p.LastChild = id
	return id
}

// AddText is a convenience wrapper around AddChild for NodeText content.
func (t *StyledTree) AddText(parent NodeId, text string) NodeId {
	id := t.AddChild(parent, NodeText)
	t.nodes[id].Text = text
	return id
}

// AddImage is a convenience wrapper around AddChild for NodeImage content.
func (t *StyledTree) AddImage(parent NodeId, ref ImageRef) NodeId {
	id := t.AddChild(parent, NodeImage)
	t.nodes[id].Image = ref
	return id
}

// AddIFrame is a convenience wrapper around AddChild for NodeIFrame content.
func (t *StyledTree) AddIFrame(parent NodeId, cb IFrameCallback) NodeId {
	id := t.AddChild(parent, NodeIFrame)
	t.nodes[id].IFrame = cb
	return id
}

// RebuildDepthOrder recomputes the precomputed sweep order. Call after
// structural edits (AddChild et al.) and before running a full layout.
func (t *StyledTree) RebuildDepthOrder() { t.rebuildDepthOrder() }

func (t *StyledTree) rebuildDepthOrder() {
	order := make([]DepthEntry, 0, len(t.nodes))
	// Breadth-first walk guarantees every node appears after its parent,
	// i.e. in non-decreasing depth order — a tree invariant from the
	// builder means there are no cycles to guard against.
	type queued struct {
		id, parent NodeId
		depth      int
	}
	queue := []queued{{id: t.root, parent: InvalidNodeId, depth: 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		order = append(order, DepthEntry{Depth: cur.depth, NodeID: cur.id, ParentID: cur.parent})
		for c := t.nodes[cur.id].FirstChild; c != InvalidNodeId; c = t.nodes[c].NextSibling {
			queue = append(queue, queued{id: c, parent: cur.id, depth: cur.depth + 1})
		}
	}
	t.depthOrder = order
}

// MaxDepth returns the deepest depth present in the tree, or 0 for a
// single-node tree.
func (t *StyledTree) MaxDepth() int {
	max := 0
	for _, e := range t.depthOrder {
		if e.Depth > max {
			max = e.Depth
		}
	}
	return max
}

// groupByDepth buckets depth-order entries for which include returns true
// into per-depth slices, shallow-to-deep. Used by the bubble and flex-grow
// passes (both include every node), which must process a level fully
// before the next.
func groupByDepth(order []DepthEntry, include func(NodeId) bool) [][]NodeId {
	byDepth := map[int][]NodeId{}
	maxDepth := 0
	for _, e := range order {
		if !include(e.NodeID) {
			continue
		}
		byDepth[e.Depth] = append(byDepth[e.Depth], e.NodeID)
		if e.Depth > maxDepth {
			maxDepth = e.Depth
		}
	}
	out := make([][]NodeId, 0, maxDepth+1)
	for d := 0; d <= maxDepth; d++ {
		if ids, ok := byDepth[d]; ok {
			out = append(out, ids)
		}
	}
	return out
}

func clampNeg(v float32) float32 {
	if v < 0 || math.IsNaN(float64(v)) {
		return 0
	}
	return v
}

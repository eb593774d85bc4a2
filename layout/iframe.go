package layout

// DefaultMaxIFrameDepth bounds iframe expansion when a Viewport doesn't
// specify its own limit, so mutually embedding callbacks cannot expand
// forever.
const DefaultMaxIFrameDepth = 8

// resolveIFrames replaces every NodeIFrame node in tree with the subtree its
// callback produces, recursively, down to maxDepth levels of iframe
// nesting. A callback returning nil, or depth exceeding maxDepth, leaves the
// node childless rather than erroring — the solver never fails.
// The replacement subtree's nodes are grafted in place so the rest of the
// solver sees one flat tree, never a forest of iframe-hosted trees.
func resolveIFrames(tree *StyledTree, bounds func(NodeId) LogicalRect, maxDepth int) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxIFrameDepth
	}
	resolveIFramesDepth(tree, tree.Root(), bounds, maxDepth, 0)
}

func resolveIFramesDepth(tree *StyledTree, id NodeId, bounds func(NodeId) LogicalRect, maxDepth, depth int) {
	if tree.NodeType(id) == NodeIFrame {
		if depth >= maxDepth {
			return
		}
		node := &tree.nodes[id]
		// iframeGen > 0 means an earlier pass already grafted this
		// callback's subtree; re-running the solve over the same tree must
		// not graft a second copy alongside it.
		if node.IFrame == nil || node.iframeGen > 0 {
			return
		}
		sub := safeInvokeIFrame(node.IFrame, bounds(id))
		if sub == nil {
			return
		}
		node.iframeGen++
		graftSubtree(tree, id, sub)
		for _, c := range tree.ChildrenOf(id) {
			resolveIFramesDepth(tree, c, bounds, maxDepth, depth+1)
		}
		return
	}
	for _, c := range tree.ChildrenOf(id) {
		resolveIFramesDepth(tree, c, bounds, maxDepth, depth)
	}
}

// safeInvokeIFrame shields the solver from a panicking callback: an IFrame
// is untrusted embedder code, and one bad callback must not take down an
// otherwise-total layout pass.
func safeInvokeIFrame(cb IFrameCallback, bounds LogicalRect) (sub *StyledTree) {
	defer func() {
		if recover() != nil {
			sub = nil
		}
	}()
	return cb(bounds)
}

// graftSubtree appends sub's nodes (renumbered) as children of host in
// tree, preserving sub's own internal structure.
func graftSubtree(tree *StyledTree, host NodeId, sub *StyledTree) {
	offset := NodeId(len(tree.nodes))
	base := len(tree.nodes)
	tree.nodes = append(tree.nodes, sub.nodes...)

	remap := func(id NodeId) NodeId {
		if id == InvalidNodeId {
			return InvalidNodeId
		}
		return id + offset
	}
	for i := base; i < len(tree.nodes); i++ {
		n := &tree.nodes[i]
		n.Parent = remap(n.Parent)
		n.FirstChild = remap(n.FirstChild)
		n.LastChild = remap(n.LastChild)
		n.NextSibling = remap(n.NextSibling)
		n.PrevSibling = remap(n.PrevSibling)
	}

	newRoot := remap(sub.root)
	tree.nodes[newRoot].Parent = host
	tree.nodes[newRoot].NextSibling = InvalidNodeId
	tree.nodes[newRoot].PrevSibling = InvalidNodeId

	h := &tree.nodes[host]
	if h.LastChild == InvalidNodeId {
		h.FirstChild = newRoot
	} else {
		tree.nodes[h.LastChild].NextSibling = newRoot
		tree.nodes[newRoot].PrevSibling = h.LastChild
	}
	h.LastChild = newRoot

	tree.rebuildDepthOrder()
}

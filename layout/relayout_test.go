package layout_test

import (
	"strings"
	"testing"

	"github.com/fluxwm/layoutengine/layout"
	"github.com/stretchr/testify/require"
)

// TestRelayout_IncrementalWidthChange: starting from an even 500/500
// two-child flex row, pinning child0 to an explicit 700px
// width and reporting the change via Relayout. child0's new EqualTo(700)
// constraint removes it from the growable set, so the remaining 300px
// (1000 - 700) goes entirely to child1, the only node still eligible for
// its flex-grow:1 share. The changed-node set is exactly {root, child0,
// child1}: child0 because its preferred changed, root because it had to
// redistribute, child1 because the redistribution resized it.
func TestRelayout_IncrementalWidthChange(t *testing.T) {
	tree := layout.NewStyledTree()
	root := tree.Root()
	c0 := tree.AddChild(root, layout.NodeDiv)
	c1 := tree.AddChild(root, layout.NodeDiv)
	tree.RebuildDepthOrder()

	cache := newFakeCache()
	cache.items[c0] = layout.ItemConfig{FlexGrow: 1}
	cache.items[c1] = layout.ItemConfig{FlexGrow: 1}

	viewport := layout.Viewport{Size: layout.LogicalSize{Width: 1000, Height: 500}}
	initial := layout.Solve(tree, cache, nil, nil, viewport)
	require.Equal(t, float32(500), initial.RectOf(c0).Size.Width)
	require.Equal(t, float32(500), initial.RectOf(c1).Size.Width)

	cache.wh[c0] = layout.WhConfig{Width: layout.SizeConstraint{Exact: px(700)}}
	updated := layout.Relayout(initial, cache, viewport, []layout.StyleChange{
		{NodeID: c0, Property: layout.ChangedWidth},
	}, nil)

	require.Equal(t, float32(700), updated.RectOf(c0).Size.Width)
	require.Equal(t, float32(300), updated.RectOf(c1).Size.Width)
	require.Equal(t, float32(700), updated.RectOf(c1).Position.X)
	require.Equal(t, float32(500), updated.RectOf(c0).Size.Height)
	require.Equal(t, float32(500), updated.RectOf(c1).Size.Height)

	require.Equal(t, map[layout.NodeId]bool{root: true, c0: true, c1: true}, updated.ChangedNodes)
}

// TestRelayout_EarlyOut: same viewport and no changes is a no-op — the same
// result comes back untouched with an empty changed set, so re-laying out
// an unchanged window is bit-identical by construction.
func TestRelayout_EarlyOut(t *testing.T) {
	tree := layout.NewStyledTree()
	root := tree.Root()
	tree.AddChild(root, layout.NodeDiv)
	tree.RebuildDepthOrder()

	viewport := layout.Viewport{Size: layout.LogicalSize{Width: 800, Height: 600}}
	initial := layout.Solve(tree, newFakeCache(), nil, nil, viewport)
	before := append([]layout.PositionedRectangle(nil), initial.Rectangles...)

	updated := layout.Relayout(initial, newFakeCache(), viewport, nil, nil)

	require.Empty(t, updated.ChangedNodes)
	require.Equal(t, before, updated.Rectangles)
	require.Same(t, initial, updated.LayoutResult)
}

// TestRelayout_MatchesFullSolve checks incremental equivalence on a
// three-level tree: applying a mutation via Relayout must
// produce the same rectangle for every node as solving the mutated state
// from scratch.
func TestRelayout_MatchesFullSolve(t *testing.T) {
	build := func() (*layout.StyledTree, *fakeCache, layout.NodeId) {
		tree := layout.NewStyledTree()
		root := tree.Root()
		left := tree.AddChild(root, layout.NodeDiv)
		right := tree.AddChild(root, layout.NodeDiv)
		inner0 := tree.AddChild(left, layout.NodeDiv)
		inner1 := tree.AddChild(left, layout.NodeDiv)
		tree.RebuildDepthOrder()

		cache := newFakeCache()
		cache.items[left] = layout.ItemConfig{FlexGrow: 1}
		cache.items[right] = layout.ItemConfig{FlexGrow: 3}
		cache.containers[left] = layout.ContainerConfig{Direction: layout.Column, AlignItems: layout.AlignStretch}
		cache.items[inner0] = layout.ItemConfig{FlexGrow: 1}
		cache.items[inner1] = layout.ItemConfig{FlexGrow: 1}
		return tree, cache, inner0
	}

	viewport := layout.Viewport{Size: layout.LogicalSize{Width: 1200, Height: 800}}

	treeA, cacheA, innerA := build()
	prev := layout.Solve(treeA, cacheA, nil, nil, viewport)
	cacheA.wh[innerA] = layout.WhConfig{Height: layout.SizeConstraint{Min: px(600)}}
	incremental := layout.Relayout(prev, cacheA, viewport, []layout.StyleChange{
		{NodeID: innerA, Property: layout.ChangedHeight},
	}, nil)

	treeB, cacheB, innerB := build()
	cacheB.wh[innerB] = layout.WhConfig{Height: layout.SizeConstraint{Min: px(600)}}
	full := layout.Solve(treeB, cacheB, nil, nil, viewport)

	require.Equal(t, full.Rectangles, incremental.Rectangles)
}

// TestRelayout_TextChangeRewraps drives the changed_text path end to end: a
// text node inside a 200px column gets a longer string, Relayout re-measures
// it at the unchanged wrap width, and the new line count raises its height —
// matching what a from-scratch solve of the new text produces.
func TestRelayout_TextChangeRewraps(t *testing.T) {
	const short = "xxxxxxxxxx"              // 10 chars, 100px: one line
	var long = strings.Repeat("x", 50)      // 500px intrinsic: wraps to 3 lines at 200px

	build := func(s string) (*layout.StyledTree, *fakeCache, layout.NodeId) {
		tree := layout.NewStyledTree()
		root := tree.Root()
		text := tree.AddText(root, s)
		tree.RebuildDepthOrder()

		cache := newFakeCache()
		cache.wh[root] = layout.WhConfig{Width: layout.SizeConstraint{Exact: px(200)}}
		cache.items[text] = layout.ItemConfig{AlignSelf: alignSelf(layout.AlignStart)}
		cache.text[text] = layout.TextLayoutOptions{FontID: "mock", WrapMode: layout.WrapByWord}
		return tree, cache, text
	}

	fonts := fakeFont{charWidth: 10, lineHeight: 20}
	viewport := layout.Viewport{Size: layout.LogicalSize{Width: 1000, Height: 1000}}

	tree, cache, text := build(short)
	prev := layout.Solve(tree, cache, fonts, nil, viewport)
	require.Equal(t, float32(20), prev.RectOf(text).Size.Height)

	updated := layout.Relayout(prev, cache, viewport, nil, []layout.TextChange{
		{NodeID: text, Text: long},
	})
	require.Equal(t, float32(60), updated.RectOf(text).Size.Height)
	require.True(t, updated.ChangedNodes[text])

	freshTree, freshCache, freshText := build(long)
	fresh := layout.Solve(freshTree, freshCache, fonts, nil, viewport)
	require.Equal(t, fresh.RectOf(freshText).Size.Height, updated.RectOf(text).Size.Height)
}

// TestRelayout_ViewportChangeResolvesEverything: growing the window is never
// an early-out — every percent and flex-grow value hangs off the root
// constraint, so the whole tree re-solves and the resized nodes are
// reported.
func TestRelayout_ViewportChangeResolvesEverything(t *testing.T) {
	tree := layout.NewStyledTree()
	root := tree.Root()
	c0 := tree.AddChild(root, layout.NodeDiv)
	tree.RebuildDepthOrder()

	cache := newFakeCache()
	cache.items[c0] = layout.ItemConfig{FlexGrow: 1}

	prev := layout.Solve(tree, cache, nil, nil, layout.Viewport{Size: layout.LogicalSize{Width: 1000, Height: 500}})
	require.Equal(t, float32(1000), prev.RectOf(c0).Size.Width)

	updated := layout.Relayout(prev, cache, layout.Viewport{Size: layout.LogicalSize{Width: 1400, Height: 500}}, nil, nil)
	require.Equal(t, float32(1400), updated.RectOf(c0).Size.Width)
	require.True(t, updated.ChangedNodes[root])
	require.True(t, updated.ChangedNodes[c0])
}

// TestRelayout_LocalizedChangeLeavesSiblingSubtreeUntouched: mutating a leaf
// inside one branch must not report (or move) nodes in the sibling branch
// whose geometry is independent of it.
func TestRelayout_LocalizedChangeLeavesSiblingSubtreeUntouched(t *testing.T) {
	tree := layout.NewStyledTree()
	root := tree.Root()
	left := tree.AddChild(root, layout.NodeDiv)
	right := tree.AddChild(root, layout.NodeDiv)
	leftInner := tree.AddChild(left, layout.NodeDiv)
	rightInner := tree.AddChild(right, layout.NodeDiv)
	tree.RebuildDepthOrder()

	cache := newFakeCache()
	// Fixed halves: the root never redistributes, so a change inside left
	// is absorbed there (its 500px pin doesn't widen).
	cache.wh[left] = layout.WhConfig{Width: layout.SizeConstraint{Exact: px(500)}}
	cache.wh[right] = layout.WhConfig{Width: layout.SizeConstraint{Exact: px(500)}}
	cache.wh[leftInner] = layout.WhConfig{Width: layout.SizeConstraint{Exact: px(100)}}
	cache.wh[rightInner] = layout.WhConfig{Width: layout.SizeConstraint{Exact: px(100)}}

	viewport := layout.Viewport{Size: layout.LogicalSize{Width: 1000, Height: 500}}
	prev := layout.Solve(tree, cache, nil, nil, viewport)

	cache.wh[leftInner] = layout.WhConfig{Width: layout.SizeConstraint{Exact: px(200)}}
	updated := layout.Relayout(prev, cache, viewport, []layout.StyleChange{
		{NodeID: leftInner, Property: layout.ChangedWidth},
	}, nil)

	require.Equal(t, float32(200), updated.RectOf(leftInner).Size.Width)
	require.False(t, updated.ChangedNodes[rightInner])
	require.False(t, updated.ChangedNodes[right])
}

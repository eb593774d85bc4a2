package layout_test

import (
	"testing"

	"github.com/fluxwm/layoutengine/layout"
	"github.com/stretchr/testify/require"
)

// TestSolve_IsDeterministic asserts that running the same tree/cache/viewport
// through Solve twice produces byte-identical geometry — no dependence on
// map iteration order or goroutine scheduling leaking into the result,
// despite PropertyResolver's parallelOverRange fan-out.
func TestSolve_IsDeterministic(t *testing.T) {
	build := func() (*layout.StyledTree, *fakeCache) {
		tree := layout.NewStyledTree()
		root := tree.Root()
		for i := 0; i < 5; i++ {
			tree.AddChild(root, layout.NodeDiv)
		}
		tree.RebuildDepthOrder()
		cache := newFakeCache()
		for _, c := range tree.ChildrenOf(root) {
			cache.items[c] = layout.ItemConfig{FlexGrow: 1}
		}
		return tree, cache
	}

	viewport := layout.Viewport{Size: layout.LogicalSize{Width: 1000, Height: 500}}

	tree1, cache1 := build()
	first := layout.Solve(tree1, cache1, nil, nil, viewport)

	tree2, cache2 := build()
	second := layout.Solve(tree2, cache2, nil, nil, viewport)

	require.Equal(t, first.Rectangles, second.Rectangles)
}

// TestSolve_MaxWidthCapsGrowth pins the max-respect rule alongside the flex
// freeze rule: a max-capped grower in a 1000px row stops at its 200px
// ceiling and the sibling absorbs everything it gave up.
func TestSolve_MaxWidthCapsGrowth(t *testing.T) {
	tree := layout.NewStyledTree()
	root := tree.Root()
	capped := tree.AddChild(root, layout.NodeDiv)
	open := tree.AddChild(root, layout.NodeDiv)
	tree.RebuildDepthOrder()

	cache := newFakeCache()
	cache.wh[capped] = layout.WhConfig{Width: layout.SizeConstraint{Max: px(200)}}
	cache.items[capped] = layout.ItemConfig{FlexGrow: 1}
	cache.items[open] = layout.ItemConfig{FlexGrow: 1}

	viewport := layout.Viewport{Size: layout.LogicalSize{Width: 1000, Height: 500}}
	result := layout.Solve(tree, cache, nil, nil, viewport)

	require.Equal(t, float32(200), result.RectOf(capped).Size.Width)
	require.Equal(t, float32(800), result.RectOf(open).Size.Width)
}

// TestSolve_RemovingAbsoluteChildLeavesSiblingsUnchanged pins absolute
// isolation: solving the same flow twice, once with an
// absolutely positioned extra child present and once without, yields
// identical geometry for every flow node.
func TestSolve_RemovingAbsoluteChildLeavesSiblingsUnchanged(t *testing.T) {
	build := func(withAbsolute bool) (*layout.LayoutResult, [2]layout.NodeId) {
		tree := layout.NewStyledTree()
		root := tree.Root()
		a := tree.AddChild(root, layout.NodeDiv)
		b := tree.AddChild(root, layout.NodeDiv)

		cache := newFakeCache()
		cache.items[a] = layout.ItemConfig{FlexGrow: 1}
		cache.items[b] = layout.ItemConfig{FlexGrow: 2}

		if withAbsolute {
			abs := tree.AddChild(root, layout.NodeDiv)
			cache.wh[abs] = layout.WhConfig{
				Width:  layout.SizeConstraint{Exact: px(300)},
				Height: layout.SizeConstraint{Exact: px(300)},
			}
			cache.offsets[abs] = layout.AllOffsets{
				Position:    layout.PositionAbsolute,
				PositionOff: layout.PositionOffsets{Left: px(50), Top: px(50)},
			}
		}
		tree.RebuildDepthOrder()

		viewport := layout.Viewport{Size: layout.LogicalSize{Width: 900, Height: 600}}
		return layout.Solve(tree, cache, nil, nil, viewport), [2]layout.NodeId{a, b}
	}

	with, idsWith := build(true)
	without, idsWithout := build(false)

	for i := range idsWith {
		got, want := with.RectOf(idsWith[i]), without.RectOf(idsWithout[i])
		require.Equal(t, want.Position, got.Position)
		require.Equal(t, want.Size, got.Size)
	}
}

// TestSolve_GapsAreSubtractedFromGrowthSpace checks that main-axis gaps
// shrink the space available to flex-grow, not just pad between children:
// two flex-grow:1 children with a 20px gap in a 1000px row split the
// remaining 980px evenly (490 each), not 500 each.
func TestSolve_GapsAreSubtractedFromGrowthSpace(t *testing.T) {
	tree := layout.NewStyledTree()
	root := tree.Root()
	c0 := tree.AddChild(root, layout.NodeDiv)
	c1 := tree.AddChild(root, layout.NodeDiv)
	tree.RebuildDepthOrder()

	cache := newFakeCache()
	cache.containers[root] = layout.ContainerConfig{Direction: layout.Row, GapMain: 20}
	cache.items[c0] = layout.ItemConfig{FlexGrow: 1}
	cache.items[c1] = layout.ItemConfig{FlexGrow: 1}

	viewport := layout.Viewport{Size: layout.LogicalSize{Width: 1000, Height: 500}}
	result := layout.Solve(tree, cache, nil, nil, viewport)

	r0, r1 := result.RectOf(c0), result.RectOf(c1)
	require.Equal(t, float32(490), r0.Size.Width)
	require.Equal(t, float32(490), r1.Size.Width)
	require.Equal(t, float32(0), r0.Position.X)
	require.Equal(t, float32(510), r1.Position.X)
}

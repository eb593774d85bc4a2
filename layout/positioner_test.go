package layout_test

import (
	"testing"

	"github.com/fluxwm/layoutengine/layout"
	"github.com/stretchr/testify/require"
)

// TestPosition_AbsoluteOffsetsAgainstRoot: a 1000×500 root with a position:absolute child A (top:10, right:20,
// width:100, height:50) and a normal-flow sibling B. A's right/top offsets
// resolve against the root's content box (1000×500, the nearest positioned
// ancestor — the root is always eligible as the fallback per positioner.go's
// referenceAncestor): x = 1000 - 20 - 100 = 880, y = 10. B, the only
// flowed child, is unaffected by A's presence or absence (absolute children
// are filtered out of bubblePass/distributeMainAxis/place entirely) and
// stretches to fill the root exactly as it would alone.
func TestPosition_AbsoluteOffsetsAgainstRoot(t *testing.T) {
	tree := layout.NewStyledTree()
	root := tree.Root()
	a := tree.AddChild(root, layout.NodeDiv)
	b := tree.AddChild(root, layout.NodeDiv)
	tree.RebuildDepthOrder()

	cache := newFakeCache()
	cache.wh[a] = layout.WhConfig{
		Width:  layout.SizeConstraint{Exact: px(100)},
		Height: layout.SizeConstraint{Exact: px(50)},
	}
	cache.offsets[a] = layout.AllOffsets{
		Position: layout.PositionAbsolute,
		PositionOff: layout.PositionOffsets{
			Top:   px(10),
			Right: px(20),
		},
	}
	cache.items[b] = layout.ItemConfig{FlexGrow: 1}

	viewport := layout.Viewport{Size: layout.LogicalSize{Width: 1000, Height: 500}}
	result := layout.Solve(tree, cache, nil, nil, viewport)

	ra := result.RectOf(a)
	require.Equal(t, float32(880), ra.Position.X)
	require.Equal(t, float32(10), ra.Position.Y)
	require.Equal(t, float32(100), ra.Size.Width)
	require.Equal(t, float32(50), ra.Size.Height)

	rb := result.RectOf(b)
	require.Equal(t, float32(0), rb.Position.X)
	require.Equal(t, float32(0), rb.Position.Y)
	require.Equal(t, float32(1000), rb.Size.Width)
	require.Equal(t, float32(500), rb.Size.Height)
	require.Equal(t, layout.PositionAbsolute, ra.Kind)
	require.Equal(t, layout.PositionStatic, rb.Kind)
}

// TestPosition_RelativeStaysInFlow: a position:relative child keeps its flow
// slot (it still stretches and its sibling still flows after it) and is then
// shifted by its offsets; StaticPosition records the unshifted slot for hit
// testing.
func TestPosition_RelativeStaysInFlow(t *testing.T) {
	tree := layout.NewStyledTree()
	root := tree.Root()
	a := tree.AddChild(root, layout.NodeDiv)
	b := tree.AddChild(root, layout.NodeDiv)
	tree.RebuildDepthOrder()

	cache := newFakeCache()
	cache.items[a] = layout.ItemConfig{FlexGrow: 1}
	cache.items[b] = layout.ItemConfig{FlexGrow: 1}
	cache.offsets[a] = layout.AllOffsets{
		Position:    layout.PositionRelative,
		PositionOff: layout.PositionOffsets{Left: px(30), Top: px(15)},
		BoxSizing:   layout.ContentBox,
	}

	viewport := layout.Viewport{Size: layout.LogicalSize{Width: 1000, Height: 500}}
	result := layout.Solve(tree, cache, nil, nil, viewport)

	ra := result.RectOf(a)
	require.Equal(t, float32(500), ra.Size.Width) // still claims its flow share
	require.Equal(t, float32(30), ra.Position.X)
	require.Equal(t, float32(15), ra.Position.Y)
	require.Equal(t, float32(0), ra.StaticPosition.X)
	require.Equal(t, float32(0), ra.StaticPosition.Y)
	require.Equal(t, layout.PositionRelative, ra.Kind)

	rb := result.RectOf(b)
	require.Equal(t, float32(500), rb.Position.X) // sibling flows after a's slot, not after the shift
	require.Equal(t, float32(500), rb.Size.Width)
}

// TestPosition_FixedAnchorsToViewport: a position:fixed node resolves its
// right/bottom against the viewport even when nested under a padded,
// positioned ancestor.
func TestPosition_FixedAnchorsToViewport(t *testing.T) {
	tree := layout.NewStyledTree()
	root := tree.Root()
	panel := tree.AddChild(root, layout.NodeDiv)
	badge := tree.AddChild(panel, layout.NodeDiv)
	tree.RebuildDepthOrder()

	cache := newFakeCache()
	cache.offsets[panel] = layout.AllOffsets{
		Position:  layout.PositionRelative,
		Padding:   layout.OffsetQuad{Top: layout.Px(40), Left: layout.Px(40), Right: layout.Px(40), Bottom: layout.Px(40)},
		BoxSizing: layout.ContentBox,
	}
	cache.wh[badge] = layout.WhConfig{
		Width:  layout.SizeConstraint{Exact: px(100)},
		Height: layout.SizeConstraint{Exact: px(50)},
	}
	cache.offsets[badge] = layout.AllOffsets{
		Position:    layout.PositionFixed,
		PositionOff: layout.PositionOffsets{Right: px(20), Bottom: px(10)},
		BoxSizing:   layout.ContentBox,
	}

	viewport := layout.Viewport{Size: layout.LogicalSize{Width: 1000, Height: 500}}
	result := layout.Solve(tree, cache, nil, nil, viewport)

	rb := result.RectOf(badge)
	require.Equal(t, float32(1000-20-100), rb.Position.X)
	require.Equal(t, float32(500-10-50), rb.Position.Y)
	require.Equal(t, layout.PositionFixed, rb.Kind)
}

// TestPosition_JustifyContentDistributions pins the free-space arithmetic
// for the justify modes over three fixed 100px children in a 1000px row
// (700px free):
//
//	center:        start 350        → x = 350, 450, 550
//	end:           start 700        → x = 700, 800, 900
//	space-between: gaps 700/2 = 350 → x = 0, 450, 900
//	space-around:  gap 700/3,
//	               start gap/2      → x = 116.66, 450, 783.33
//	space-evenly:  gaps 700/4 = 175 → x = 175, 450, 725
func TestPosition_JustifyContentDistributions(t *testing.T) {
	solve := func(j layout.JustifyContent) [3]float32 {
		tree := layout.NewStyledTree()
		root := tree.Root()
		var kids [3]layout.NodeId
		for i := range kids {
			kids[i] = tree.AddChild(root, layout.NodeDiv)
		}
		tree.RebuildDepthOrder()

		cache := newFakeCache()
		cache.containers[root] = layout.ContainerConfig{Direction: layout.Row, Justify: j, AlignItems: layout.AlignStart}
		for _, k := range kids {
			cache.wh[k] = layout.WhConfig{
				Width:  layout.SizeConstraint{Exact: px(100)},
				Height: layout.SizeConstraint{Exact: px(100)},
			}
		}

		viewport := layout.Viewport{Size: layout.LogicalSize{Width: 1000, Height: 500}}
		result := layout.Solve(tree, cache, nil, nil, viewport)

		var xs [3]float32
		for i, k := range kids {
			xs[i] = result.RectOf(k).Position.X
		}
		return xs
	}

	require.Equal(t, [3]float32{350, 450, 550}, solve(layout.JustifyCenter))
	require.Equal(t, [3]float32{700, 800, 900}, solve(layout.JustifyEnd))
	require.Equal(t, [3]float32{0, 450, 900}, solve(layout.JustifySpaceBetween))
	require.Equal(t, [3]float32{175, 450, 725}, solve(layout.JustifySpaceEvenly))

	around := solve(layout.JustifySpaceAround)
	require.InDelta(t, 700.0/6, around[0], 0.01)
	require.Equal(t, float32(450), around[1])
	require.InDelta(t, 1000-700.0/6-100, around[2], 0.01)
}

// TestPosition_RowReverseLaysOutBackToFront: row-reverse places the first
// child at the main-axis end.
func TestPosition_RowReverseLaysOutBackToFront(t *testing.T) {
	tree := layout.NewStyledTree()
	root := tree.Root()
	first := tree.AddChild(root, layout.NodeDiv)
	second := tree.AddChild(root, layout.NodeDiv)
	tree.RebuildDepthOrder()

	cache := newFakeCache()
	cache.containers[root] = layout.ContainerConfig{Direction: layout.RowReverse, AlignItems: layout.AlignStart}
	cache.items[first] = layout.ItemConfig{FlexGrow: 1}
	cache.items[second] = layout.ItemConfig{FlexGrow: 1}

	viewport := layout.Viewport{Size: layout.LogicalSize{Width: 1000, Height: 500}}
	result := layout.Solve(tree, cache, nil, nil, viewport)

	require.Equal(t, float32(500), result.RectOf(first).Position.X)
	require.Equal(t, float32(0), result.RectOf(second).Position.X)
}

// TestPosition_MarginsOffsetTheBorderBox: a child's border box starts after
// its lo-side margins, and the margin-inclusive slot is what its sibling
// flows after.
func TestPosition_MarginsOffsetTheBorderBox(t *testing.T) {
	tree := layout.NewStyledTree()
	root := tree.Root()
	a := tree.AddChild(root, layout.NodeDiv)
	b := tree.AddChild(root, layout.NodeDiv)
	tree.RebuildDepthOrder()

	cache := newFakeCache()
	cache.containers[root] = layout.ContainerConfig{Direction: layout.Row, AlignItems: layout.AlignStart}
	for _, k := range []layout.NodeId{a, b} {
		cache.wh[k] = layout.WhConfig{
			Width:  layout.SizeConstraint{Exact: px(100)},
			Height: layout.SizeConstraint{Exact: px(100)},
		}
	}
	cache.offsets[a] = layout.AllOffsets{
		Margin:    layout.OffsetQuad{Left: layout.Px(10), Right: layout.Px(20), Top: layout.Px(5)},
		BoxSizing: layout.ContentBox,
	}

	viewport := layout.Viewport{Size: layout.LogicalSize{Width: 1000, Height: 500}}
	result := layout.Solve(tree, cache, nil, nil, viewport)

	ra := result.RectOf(a)
	require.Equal(t, float32(10), ra.Position.X)
	require.Equal(t, float32(5), ra.Position.Y)
	require.Equal(t, float32(10), ra.MarginLeft)
	require.Equal(t, float32(20), ra.MarginRight)

	// b flows after a's full margin-inclusive slot: 10 + 100 + 20.
	require.Equal(t, float32(130), result.RectOf(b).Position.X)
}

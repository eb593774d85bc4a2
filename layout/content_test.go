package layout_test

import (
	"strings"
	"testing"

	"github.com/fluxwm/layoutengine/layout"
	"github.com/stretchr/testify/require"
)

// TestSolve_TextWrapRaisesHeight: a 200px-wide
// root containing a single unbreakable 50-character text run at 10px/char
// (500px single-line intrinsic width) and 20px line height. The text has no
// width of its own, so WidthSolver floors it at its full single-line
// width (determinePreferred's content-only branch, Between(500, +Inf) —
// nothing in the flex-grow/stretch passes ever shrinks a node below its
// MinInnerSizePx) and remeasureWrappedText clamps the re-wrap width to the
// narrower of that and the parent's solved width, 200px. Wrapping an
// unbreakable run at 200px with 10px characters fits 20 chars/line: 3 lines
// (200, 200, 100px), height = 3 * 20 = 60 = ceil(500/200)*20. AlignSelf: start keeps the text node from being
// stretched to the root's grown height, isolating the wrap-driven height as
// the only contributor to its own final size.
func TestSolve_TextWrapRaisesHeight(t *testing.T) {
	tree := layout.NewStyledTree()
	root := tree.Root()
	text := tree.AddText(root, strings.Repeat("x", 50))
	tree.RebuildDepthOrder()

	cache := newFakeCache()
	cache.wh[root] = layout.WhConfig{Width: layout.SizeConstraint{Exact: px(200)}}
	cache.items[text] = layout.ItemConfig{AlignSelf: alignSelf(layout.AlignStart)}
	cache.text[text] = layout.TextLayoutOptions{FontID: "mock", WrapMode: layout.WrapByWord}

	fonts := fakeFont{charWidth: 10, lineHeight: 20}
	viewport := layout.Viewport{Size: layout.LogicalSize{Width: 1000, Height: 1000}}
	result := layout.Solve(tree, cache, fonts, nil, viewport)

	rt := result.RectOf(text)
	require.Equal(t, float32(60), rt.Size.Height)
}

// TestSolve_ImageAspectPreservedAtSolvedWidth: an image node pinned to twice
// its intrinsic width gets its height rescaled by the same factor between
// the width and height solves: 100×50 intrinsic at width 200 → height 100.
func TestSolve_ImageAspectPreservedAtSolvedWidth(t *testing.T) {
	tree := layout.NewStyledTree()
	root := tree.Root()
	img := tree.AddImage(root, "pic")
	tree.RebuildDepthOrder()

	cache := newFakeCache()
	cache.wh[img] = layout.WhConfig{Width: layout.SizeConstraint{Exact: px(200)}}
	cache.items[img] = layout.ItemConfig{AlignSelf: alignSelf(layout.AlignStart)}

	images := fakeImages{"pic": {100, 50}}
	viewport := layout.Viewport{Size: layout.LogicalSize{Width: 1000, Height: 1000}}
	result := layout.Solve(tree, cache, nil, images, viewport)

	r := result.RectOf(img)
	require.Equal(t, float32(200), r.Size.Width)
	require.Equal(t, float32(100), r.Size.Height)
}

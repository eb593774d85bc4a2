package image_test

import (
	"image"
	"testing"

	imgreg "github.com/fluxwm/layoutengine/internal/core/image"
	"github.com/fluxwm/layoutengine/layout"
	"github.com/stretchr/testify/require"
)

// mapCache is a minimal layout.PropertyCache over plain maps, local to this
// package so the test below exercises the real imgreg.Registry adapter end
// to end without importing the layout package's own test helpers.
type mapCache struct {
	wh   map[layout.NodeId]layout.WhConfig
	cont map[layout.NodeId]layout.ContainerConfig
}

func newMapCache() *mapCache {
	return &mapCache{wh: map[layout.NodeId]layout.WhConfig{}, cont: map[layout.NodeId]layout.ContainerConfig{}}
}

func (c *mapCache) WhConfig(id layout.NodeId) (layout.WhConfig, bool) {
	v, ok := c.wh[id]
	return v, ok
}
func (c *mapCache) Offsets(layout.NodeId) (layout.AllOffsets, bool)     { return layout.AllOffsets{}, false }
func (c *mapCache) Container(id layout.NodeId) (layout.ContainerConfig, bool) {
	v, ok := c.cont[id]
	return v, ok
}
func (c *mapCache) Item(layout.NodeId) (layout.ItemConfig, bool)                 { return layout.ItemConfig{}, false }
func (c *mapCache) TextLayoutOptions(layout.NodeId) (layout.TextLayoutOptions, bool) {
	return layout.TextLayoutOptions{}, false
}

// TestRegistry_DrivesContentMeasurer exercises the real imgreg.Registry
// adapter (the one aliases.go exposes as NewImageRegistry), not a test
// double: it registers a decoded stdlib image, lets a childless NodeImage
// pick up its intrinsic size with no explicit width/height, and checks the
// size survives all the way through ContentMeasurer and the width/height
// solves into the final PositionedRectangle.
func TestRegistry_DrivesContentMeasurer(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 120, 80))
	reg := imgreg.NewRegistry()
	reg.Register("logo", img)

	tree := layout.NewStyledTree()
	root := tree.Root()
	child := tree.AddImage(root, "logo")
	tree.RebuildDepthOrder()

	cache := newMapCache()
	// Opt the root out of the default align-items: stretch so the child's
	// intrinsic cross-axis size (its height, in this row-direction root)
	// is what reaches the final rectangle, not a stretched-to-fill one.
	cache.cont[root] = layout.ContainerConfig{Direction: layout.Row, Justify: layout.JustifyStart, AlignItems: layout.AlignStart, AlignContent: layout.AlignStart}

	viewport := layout.Viewport{Size: layout.LogicalSize{Width: 640, Height: 480}}
	result := layout.Solve(tree, cache, nil, reg, viewport)

	r := result.RectOf(child)
	require.Equal(t, float32(120), r.Size.Width)
	require.Equal(t, float32(80), r.Size.Height)
}

// TestRegistry_UnregisteredRefIsZero confirms the adapter's miss path (an
// ImageRef with no matching registration) reports a zero intrinsic size
// rather than panicking, matching layout.ImageRegistry's documented
// contract for content that carries no size of its own.
func TestRegistry_UnregisteredRefIsZero(t *testing.T) {
	reg := imgreg.NewRegistry()
	w, h := reg.IntrinsicSize("missing")
	require.Equal(t, float32(0), w)
	require.Equal(t, float32(0), h)
}

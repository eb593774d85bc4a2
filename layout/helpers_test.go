package layout_test

import "github.com/fluxwm/layoutengine/layout"

// fakeCache is a minimal in-memory layout.PropertyCache: every property
// group is an optional map keyed by NodeId, with a miss reported as !ok so
// PropertyResolver's documented defaults kick in exactly as they
// would against a real style cascade. Mirrors the mockShape pattern in
// instructions/tests/auto_layout_test.go: a small hand-rolled stand-in for
// the real collaborator, built for exact control over the inputs a test
// cares about.
type fakeCache struct {
	wh         map[layout.NodeId]layout.WhConfig
	offsets    map[layout.NodeId]layout.AllOffsets
	containers map[layout.NodeId]layout.ContainerConfig
	items      map[layout.NodeId]layout.ItemConfig
	text       map[layout.NodeId]layout.TextLayoutOptions
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		wh:         map[layout.NodeId]layout.WhConfig{},
		offsets:    map[layout.NodeId]layout.AllOffsets{},
		containers: map[layout.NodeId]layout.ContainerConfig{},
		items:      map[layout.NodeId]layout.ItemConfig{},
		text:       map[layout.NodeId]layout.TextLayoutOptions{},
	}
}

func (c *fakeCache) WhConfig(id layout.NodeId) (layout.WhConfig, bool) {
	v, ok := c.wh[id]
	return v, ok
}

func (c *fakeCache) Offsets(id layout.NodeId) (layout.AllOffsets, bool) {
	v, ok := c.offsets[id]
	return v, ok
}

func (c *fakeCache) Container(id layout.NodeId) (layout.ContainerConfig, bool) {
	v, ok := c.containers[id]
	return v, ok
}

func (c *fakeCache) Item(id layout.NodeId) (layout.ItemConfig, bool) {
	v, ok := c.items[id]
	return v, ok
}

func (c *fakeCache) TextLayoutOptions(id layout.NodeId) (layout.TextLayoutOptions, bool) {
	v, ok := c.text[id]
	return v, ok
}

// fakeFont is a deterministic layout.FontRegistry: every character advances
// by a fixed width, every line is a fixed height, so wrap points land on
// exact pixel boundaries a test can predict by hand.
type fakeFont struct {
	charWidth  float32
	lineHeight float32
}

func (f fakeFont) MeasureLine(_ layout.FontID, s string) (width, height float32) {
	return float32(len([]rune(s))) * f.charWidth, f.lineHeight
}

func (f fakeFont) LineHeight(_ layout.FontID) float32 { return f.lineHeight }

// fakeImages is a deterministic layout.ImageRegistry: intrinsic sizes come
// straight from the map, keyed by the string ImageRef.
type fakeImages map[string][2]float32

func (f fakeImages) IntrinsicSize(ref layout.ImageRef) (width, height float32) {
	s, _ := ref.(string)
	wh := f[s]
	return wh[0], wh[1]
}

func px(v float32) *layout.PixelValue {
	p := layout.Px(v)
	return &p
}

func alignSelf(v layout.AlignItems) *layout.AlignItems { return &v }

package instructions

import (
	"image"
	"math"
	"sort"

	"github.com/fluxwm/layoutengine/internal/core/geom"
	"github.com/fluxwm/layoutengine/layout"
)

// Display describes the layout model used by a container.
// Currently only DisplayFlex is implemented, but the enum allows
// future extension (e.g., grid or block layout).
type Display int

const (
	// DisplayFlex enables Flexbox-style layout behavior.
	DisplayFlex Display = iota
)

// FlexDirection defines the orientation of the main axis in the flex container.
type FlexDirection int

const (
	// Row lays out items horizontally, left-to-right by default.
	Row FlexDirection = iota
	// Column lays out items vertically, top-to-bottom by default.
	Column
)

// JustifyContent defines how free space is distributed along the main axis.
type JustifyContent int

const (
	JustifyStart        JustifyContent = iota // Items packed at start (default)
	JustifyCenter                             // Items centered along main axis
	JustifyEnd                                // Items packed at end
	JustifySpaceBetween                       // Even spacing between items, none at ends
	JustifySpaceAround                        // Equal spacing around items, half-space at edges
	JustifySpaceEvenly                        // Equal spacing including container edges
)

// AlignItems defines alignment of items along the cross axis within each line.
type AlignItems int

const (
	AlignItemsStart   AlignItems = iota // Align items to start of cross axis
	AlignItemsCenter                    // Align items to center of cross axis
	AlignItemsEnd                       // Align items to end of cross axis
	AlignItemsStretch                   // Stretch items to fill cross axis
)

// PositionType indicates whether an item participates in normal layout flow.
type PositionType int

const (
	// PosRelative — participates in normal flow (default).
	PosRelative PositionType = iota
	// PosAbsolute — removed from flow and positioned relative to container padding box.
	PosAbsolute
)

// ContainerStyle defines CSS-like layout properties for an AutoLayout container.
//
// All numeric units are pixels. Width and Height values of 0 mean
// "auto-size to fit content" depending on the layout direction and children.
type ContainerStyle struct {
	Display       Display
	Direction     FlexDirection
	Wrap          bool
	Padding       [4]int  // top, right, bottom, left
	Gap           Vector2 // gap.X = horizontal spacing, gap.Y = vertical spacing
	Justify       JustifyContent
	AlignItems    AlignItems
	AlignContent  AlignItems // cross-axis packing for multiple lines: Start/Center/End/Stretch
	Width, Height int        // container dimensions; 0 = auto by content
}

// ItemStyle defines the layout behavior of a single child within a flex container.
type ItemStyle struct {
	Margin     [4]int // top, right, bottom, left
	Width      int    // fixed width; 0 = auto
	Height     int    // fixed height; 0 = auto
	FlexGrow   float64
	FlexShrink float64 // parsed for API parity with the rest of the vocabulary; never consulted by the solver
	FlexBasis  int      // preferred main size in px; 0 = auto → width/height/intrinsic
	AlignSelf  *AlignItems

	// Positioning properties for absolute items.
	Position PositionType
	Top      *int
	Right    *int
	Bottom   *int
	Left     *int

	// Painting order (higher values drawn later).
	ZIndex int

	// IgnoreGapBefore skips the container gap directly before this item.
	// This affects line construction, wrapping, and final positioning.
	IgnoreGapBefore bool
}

// node holds a registered child alongside the capability interfaces
// AutoLayout uses to query its intrinsic size and apply its resolved
// position back.
type node struct {
	shape Shape
	meas  BoundedShape // used to query intrinsic size
	pos   BoundedShape // used to update absolute coordinates
	st    ItemStyle
}

// Resizable is an optional capability. If implemented by a shape,
// AutoLayout will pass the resolved width and height to the shape.
type Resizable interface {
	SetSize(w, h int)
}

// Boundable is an optional capability. If implemented by a shape,
// AutoLayout will pass the resolved position and size in one call.
type Boundable interface {
	SetBounds(x, y, w, h int)
}

// AutoLayout represents a flexible container that arranges child shapes
// according to flex layout rules and draws them to an overlay image.
//
// It never modifies the base layer directly. The actual flex math is
// delegated to the layout package: AutoLayout builds a one-level
// layout.StyledTree from its registered children and their ItemStyle, runs
// layout.Solve, and applies the resulting PositionedRectangles back onto
// its shapes.
type AutoLayout struct {
	x, y     int // container origin
	style    ContainerStyle
	children []*node
	w, h     int
	dirty    bool // marks layout as invalidated

	rects []layout.PositionedRectangle // last-solved rectangles, root at index 0
}

// NewAutoLayout constructs a new flex container anchored at (x, y).
// If Display is not DisplayFlex, it is automatically set.
func NewAutoLayout(x, y int, style ContainerStyle) *AutoLayout {
	if style.Display != DisplayFlex {
		style.Display = DisplayFlex
	}
	return &AutoLayout{x: x, y: y, style: style, dirty: true}
}

// Add registers a child Shape with an optional layout style.
// If the shape implements BoundedShape, its size and position are
// queried and updated automatically.
func (al *AutoLayout) Add(s Shape, st ItemStyle) *AutoLayout {
	n := &node{shape: s, st: st}

	if bs, ok := s.(BoundedShape); ok {
		n.meas = bs
		n.pos = bs
	}
	al.children = append(al.children, n)
	al.w, al.h = 0, 0
	al.dirty = true
	return al
}

// SetStyle replaces the container style and invalidates the current layout.
func (al *AutoLayout) SetStyle(style ContainerStyle) {
	if style.Display != DisplayFlex {
		style.Display = DisplayFlex
	}
	al.style = style
	al.w, al.h = 0, 0
	al.dirty = true
}

// Size returns the current outer dimensions of the AutoLayout container
// as a *geom.Size, including padding on all sides. If the layout is dirty,
// it is recomputed.
func (al *AutoLayout) Size() *geom.Size {
	al.ensureLayout()
	return geom.NewSize(float64(al.w), float64(al.h))
}

// ensureLayout computes a fresh layout if it is marked dirty or empty.
func (al *AutoLayout) ensureLayout() {
	if al.dirty || (al.w == 0 && al.h == 0) {
		al.layoutFlex()
		al.dirty = false
	}
}

// naturalSize returns a node's intrinsic width and height, queried from its
// BoundedShape when present.
func naturalSize(n *node) (w, h float64) {
	if n.meas != nil {
		size := n.meas.Size()
		return size.Width(), size.Height()
	}
	return 0, 0
}

// autoLayoutCache adapts one AutoLayout's ContainerStyle/ItemStyle pair
// into layout.PropertyCache: node 0 is the container (styled Relative so it
// is a valid positioned-ancestor reference for its own absolute children,
// which anchor to its content box, inside its padding); nodes 1..N are children in
// registration order.
type autoLayoutCache struct {
	al *AutoLayout
}

func (c *autoLayoutCache) WhConfig(id layout.NodeId) (layout.WhConfig, bool) {
	if id == 0 {
		return containerWhConfig(c.al.style), true
	}
	n := c.al.children[id-1]
	return itemWhConfig(c.al.style, n), true
}

func (c *autoLayoutCache) Offsets(id layout.NodeId) (layout.AllOffsets, bool) {
	if id == 0 {
		t, r, b, l := c.al.style.Padding[0], c.al.style.Padding[1], c.al.style.Padding[2], c.al.style.Padding[3]
		return layout.AllOffsets{
			Padding:  pxQuad(t, r, b, l),
			Position: layout.PositionRelative,
			// An explicit Width/Height on ContainerStyle already counts
			// padding (innerW = Width - padding), so the container maps to
			// BorderBox rather than CSS's content-box default.
			BoxSizing: layout.BorderBox,
		}, true
	}
	n := c.al.children[id-1]
	off := layout.AllOffsets{
		Margin: pxQuad(n.st.Margin[0], n.st.Margin[1], n.st.Margin[2], n.st.Margin[3]),
	}
	if n.st.Position == PosAbsolute {
		off.Position = layout.PositionAbsolute
		off.PositionOff = layout.PositionOffsets{
			Top: pxPtr(n.st.Top), Right: pxPtr(n.st.Right),
			Bottom: pxPtr(n.st.Bottom), Left: pxPtr(n.st.Left),
		}
	}
	return off, true
}

func (c *autoLayoutCache) Container(id layout.NodeId) (layout.ContainerConfig, bool) {
	if id != 0 {
		return layout.ContainerConfig{}, false
	}
	cs := c.al.style
	cfg := layout.ContainerConfig{
		Direction:    toLayoutDirection(cs.Direction),
		Wrap:         cs.Wrap,
		Justify:      toLayoutJustify(cs.Justify),
		AlignItems:   toLayoutAlign(cs.AlignItems),
		AlignContent: toLayoutAlign(cs.AlignContent),
	}
	if cs.Direction == Row {
		cfg.GapMain, cfg.GapCross = float32(cs.Gap.X), float32(cs.Gap.Y)
	} else {
		cfg.GapMain, cfg.GapCross = float32(cs.Gap.Y), float32(cs.Gap.X)
	}
	return cfg, true
}

func (c *autoLayoutCache) Item(id layout.NodeId) (layout.ItemConfig, bool) {
	if id == 0 {
		return layout.ItemConfig{}, false
	}
	n := c.al.children[id-1]
	item := layout.ItemConfig{
		FlexGrow:        float32(n.st.FlexGrow),
		FlexShrink:      float32(n.st.FlexShrink),
		IgnoreGapBefore: n.st.IgnoreGapBefore,
		ZIndex:          n.st.ZIndex,
	}
	if n.st.AlignSelf != nil {
		a := toLayoutAlign(*n.st.AlignSelf)
		item.AlignSelf = &a
	}
	return item, true
}

func (c *autoLayoutCache) TextLayoutOptions(layout.NodeId) (layout.TextLayoutOptions, bool) {
	return layout.TextLayoutOptions{}, false
}

var _ layout.PropertyCache = (*autoLayoutCache)(nil)

// containerWhConfig resolves the container's own explicit size; auto (0)
// sides are left Unconstrained, and solver.go's bubble pass fills them in
// from the children's aggregated flex basis.
func containerWhConfig(cs ContainerStyle) layout.WhConfig {
	var wh layout.WhConfig
	if cs.Width > 0 {
		v := layout.Px(float32(cs.Width))
		wh.Width.Exact = &v
	}
	if cs.Height > 0 {
		v := layout.Px(float32(cs.Height))
		wh.Height.Exact = &v
	}
	return wh
}

// itemWhConfig derives a child's per-axis constraint: the main axis gets a
// Min floor (flex-basis, or explicit size, or intrinsic size, in that
// order of precedence), so it
// remains growable by flex-grow; the cross axis gets a pinned Exact when
// the style sets an explicit size, or a Min floor from intrinsic size
// otherwise so AlignItemsStretch can still grow it.
func itemWhConfig(cs ContainerStyle, n *node) layout.WhConfig {
	nw, nh := naturalSize(n)
	isRow := cs.Direction == Row

	mainBasis := func(explicit int, natural float64) layout.PixelValue {
		if n.st.FlexBasis > 0 {
			return layout.Px(float32(n.st.FlexBasis))
		}
		if explicit > 0 {
			return layout.Px(float32(explicit))
		}
		return layout.Px(float32(natural))
	}
	crossConstraint := func(explicit int, natural float64) layout.SizeConstraint {
		if explicit > 0 {
			v := layout.Px(float32(explicit))
			return layout.SizeConstraint{Exact: &v}
		}
		v := layout.Px(float32(natural))
		return layout.SizeConstraint{Min: &v}
	}

	var wh layout.WhConfig
	if isRow {
		v := mainBasis(n.st.Width, nw)
		wh.Width = layout.SizeConstraint{Min: &v}
		wh.Height = crossConstraint(n.st.Height, nh)
	} else {
		v := mainBasis(n.st.Height, nh)
		wh.Height = layout.SizeConstraint{Min: &v}
		wh.Width = crossConstraint(n.st.Width, nw)
	}
	return wh
}

func pxQuad(top, right, bottom, left int) layout.OffsetQuad {
	return layout.OffsetQuad{
		Top: layout.Px(float32(top)), Right: layout.Px(float32(right)),
		Bottom: layout.Px(float32(bottom)), Left: layout.Px(float32(left)),
	}
}

func pxPtr(v *int) *layout.PixelValue {
	if v == nil {
		return nil
	}
	p := layout.Px(float32(*v))
	return &p
}

func toLayoutDirection(d FlexDirection) layout.FlexDirection {
	if d == Column {
		return layout.Column
	}
	return layout.Row
}

func toLayoutJustify(j JustifyContent) layout.JustifyContent {
	switch j {
	case JustifyCenter:
		return layout.JustifyCenter
	case JustifyEnd:
		return layout.JustifyEnd
	case JustifySpaceBetween:
		return layout.JustifySpaceBetween
	case JustifySpaceAround:
		return layout.JustifySpaceAround
	case JustifySpaceEvenly:
		return layout.JustifySpaceEvenly
	default:
		return layout.JustifyStart
	}
}

func toLayoutAlign(a AlignItems) layout.AlignItems {
	switch a {
	case AlignItemsCenter:
		return layout.AlignCenter
	case AlignItemsEnd:
		return layout.AlignEnd
	case AlignItemsStretch:
		return layout.AlignStretch
	default:
		return layout.AlignStart
	}
}

// layoutFlex builds the one-level styled tree for the current children,
// runs the shared solver, and caches the resulting rectangles.
func (al *AutoLayout) layoutFlex() {
	tree := layout.NewStyledTree()
	for range al.children {
		tree.AddChild(tree.Root(), layout.NodeDiv)
	}
	tree.RebuildDepthOrder()

	cache := &autoLayoutCache{al: al}

	available := layout.LogicalSize{Width: float32(math.MaxFloat32), Height: float32(math.MaxFloat32)}
	if al.style.Width > 0 {
		available.Width = float32(al.style.Width)
	}
	if al.style.Height > 0 {
		available.Height = float32(al.style.Height)
	}
	viewport := layout.Viewport{Size: available}

	result := layout.Solve(tree, cache, nil, nil, viewport)
	al.rects = result.Rectangles

	root := result.RectOf(tree.Root())
	al.w = int(math.Round(float64(root.Size.Width)))
	al.h = int(math.Round(float64(root.Size.Height)))
}

// Draw performs layout, sorts children by ZIndex, and draws each one in order.
// Shapes that implement BoundedShape receive updated coordinates via SetPosition
// before drawing. If a shape implements Resizable or Boundable, its size is
// also propagated.
func (al *AutoLayout) Draw(base, overlay *image.RGBA) {
	al.ensureLayout()

	order := make([]int, len(al.children))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return al.children[order[i]].st.ZIndex < al.children[order[j]].st.ZIndex
	})

	for _, i := range order {
		n := al.children[i]
		r := al.rects[i+1]
		x := al.x + int(math.Round(float64(r.Position.X)))
		y := al.y + int(math.Round(float64(r.Position.Y)))
		w := int(math.Round(float64(r.Size.Width)))
		h := int(math.Round(float64(r.Size.Height)))

		if b, ok := n.shape.(Boundable); ok {
			b.SetBounds(x, y, w, h)
		} else {
			if n.pos != nil {
				n.pos.SetPosition(x, y)
			}
			if rs, ok := n.shape.(Resizable); ok {
				rs.SetSize(w, h)
			}
		}
		n.shape.Draw(base, overlay)
	}
}

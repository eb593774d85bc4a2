package layout

import "golang.org/x/sync/errgroup"

// PropertyCache is the solver's sole window into resolved CSS-derived
// values. One method per property group, each returning (value, ok) so
// PropertyResolver can apply the documented defaults on a miss. The solver
// never cascades; it reads pre-resolved values.
type PropertyCache interface {
	WhConfig(id NodeId) (WhConfig, bool)
	Offsets(id NodeId) (AllOffsets, bool)
	Container(id NodeId) (ContainerConfig, bool)
	Item(id NodeId) (ItemConfig, bool)
	TextLayoutOptions(id NodeId) (TextLayoutOptions, bool)
}

// ResolvedProperties holds the parallel per-node arrays PropertyResolver
// produces: size constraints, box offsets, container arrangement, and item
// flex participation.
type ResolvedProperties struct {
	WhConfigs  []WhConfig
	Offsets    []AllOffsets
	Containers []ContainerConfig
	Items      []ItemConfig
	TextOpts   []TextLayoutOptions
}

// defaultAllOffsets: position Static, box-sizing ContentBox, overflow
// Visible, padding/margin/border all zero.
func defaultAllOffsets() AllOffsets {
	return AllOffsets{Position: PositionStatic, BoxSizing: ContentBox, OverflowX: OverflowVisible, OverflowY: OverflowVisible}
}

// defaultContainerConfig: direction Row, justify Start.
func defaultContainerConfig() ContainerConfig {
	return ContainerConfig{Direction: Row, Justify: JustifyStart, AlignItems: AlignStretch, AlignContent: AlignStart}
}

// defaultItemConfig: flex-grow 0.
func defaultItemConfig() ItemConfig {
	return ItemConfig{FlexShrink: 1}
}

// ResolveProperties walks the styled tree once, producing the parallel
// arrays described above. The walk is embarrassingly parallel over node
// indices — each node's resolution is a pure function of its own id — so it
// is dispatched across an errgroup worker pool.
func ResolveProperties(tree *StyledTree, cache PropertyCache) *ResolvedProperties {
	n := tree.Len()
	out := &ResolvedProperties{
		WhConfigs:  make([]WhConfig, n),
		Offsets:    make([]AllOffsets, n),
		Containers: make([]ContainerConfig, n),
		Items:      make([]ItemConfig, n),
		TextOpts:   make([]TextLayoutOptions, n),
	}

	parallelOverRange(n, func(i int) {
		resolveNodeProperties(out, cache, NodeId(i))
	})

	return out
}

// resolveNodeProperties rewrites one node's entry in every parallel array
// from the cache, applying defaults on a miss. Shared by the full resolve
// above and the relayout path, which rewrites only the entries of nodes a
// caller reported as changed, leaving every other entry untouched.
func resolveNodeProperties(out *ResolvedProperties, cache PropertyCache, id NodeId) {
	i := int(id)

	if wh, ok := cache.WhConfig(id); ok {
		out.WhConfigs[i] = wh
	} else {
		out.WhConfigs[i] = WhConfig{}
	}

	if off, ok := cache.Offsets(id); ok {
		out.Offsets[i] = off
	} else {
		out.Offsets[i] = defaultAllOffsets()
	}

	if c, ok := cache.Container(id); ok {
		out.Containers[i] = c
	} else {
		out.Containers[i] = defaultContainerConfig()
	}

	if it, ok := cache.Item(id); ok {
		if it.FlexShrink == 0 {
			it.FlexShrink = 1
		}
		out.Items[i] = it
	} else {
		out.Items[i] = defaultItemConfig()
	}

	if topt, ok := cache.TextLayoutOptions(id); ok {
		out.TextOpts[i] = topt
	} else {
		out.TextOpts[i] = TextLayoutOptions{}
	}
}

// parallelOverRange runs fn(i) for i in [0,n) across a bounded worker pool.
// Errors cannot occur (fn is a pure local computation); errgroup is used
// purely as the idiomatic fan-out/join primitive.
func parallelOverRange(n int, fn func(i int)) {
	if n == 0 {
		return
	}
	workers := n
	if workers > maxParallelWorkers {
		workers = maxParallelWorkers
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var g errgroup.Group
	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if start >= n {
			break
		}
		if end > n {
			end = n
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				fn(i)
			}
			return nil
		})
	}
	_ = g.Wait()
}

const maxParallelWorkers = 8

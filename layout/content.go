package layout

import (
	"strings"

	"github.com/rivo/uniseg"
)

// WrapMode selects how text wraps when it exceeds its available width.
type WrapMode int

const (
	WrapByWord WrapMode = iota
	WrapBySymbol
)

// TextLayoutOptions is the per-node text configuration the PropertyCache
// supplies for NodeText nodes.
type TextLayoutOptions struct {
	FontID    FontID
	WrapMode  WrapMode
	MaxLines  int // 0 = unbounded
	LineGapPx float32
}

// FontID is an opaque handle the FontRegistry resolves to a usable font. The
// solver never interprets it beyond passing it back to the registry.
type FontID interface{}

// FontRegistry is the external collaborator that measures text.
// Implementations own the concrete font/shaping backend; the solver only
// ever asks "how wide/tall is this string at this width".
type FontRegistry interface {
	// MeasureLine returns the pixel width and line height of s set on one
	// line with no wrapping.
	MeasureLine(font FontID, s string) (width, height float32)
	// LineHeight returns the font's natural line height in pixels.
	LineHeight(font FontID) float32
}

// ImageRegistry is the external collaborator that reports an image's
// intrinsic pixel size.
type ImageRegistry interface {
	IntrinsicSize(ref ImageRef) (width, height float32)
}

// ContentMeasurer computes a node's preferred (unconstrained) content size,
// and re-measures text nodes once their wrap width is known.
// Beyond its two registries it keeps only a per-node cache of measured
// heights (wrappedHeight); callers own the tree and the node id being
// measured.
type ContentMeasurer struct {
	Fonts  FontRegistry
	Images ImageRegistry

	// wrappedHeight caches each text node's post-wrap height, filled in by
	// MeasureWrapped and consulted by PreferredContentSize on the height
	// axis so HeightSolver sees the real wrapped height instead of the
	// single-line height WidthSolver used.
	wrappedHeight map[NodeId]float32
}

// NewContentMeasurer constructs a ContentMeasurer bound to the given
// registries. A nil registry is valid if the tree never uses that content
// kind (measurements for that kind return zero).
func NewContentMeasurer(fonts FontRegistry, images ImageRegistry) *ContentMeasurer {
	return &ContentMeasurer{Fonts: fonts, Images: images, wrappedHeight: map[NodeId]float32{}}
}

// PreferredContentSize returns the node's unconstrained intrinsic size on
// the given axis, or (0, false) if the node type carries no intrinsic size
// of its own (NodeDiv without text/image, i.e. it is sized purely by its
// children and explicit style).
//
// For text, this is the single-line width (axis width) or the single-line
// height (axis height) — the first of two measurement passes. A second,
// width-aware pass happens in MeasureWrapped once the width solve has
// settled the node's content width; once a height is cached for the node,
// the height axis returns that cached height instead.
func (m *ContentMeasurer) PreferredContentSize(tree *StyledTree, id NodeId, opts TextLayoutOptions, axis Axis) (float32, bool) {
	switch tree.NodeType(id) {
	case NodeText:
		if m.Fonts == nil {
			return 0, false
		}
		if axis == AxisHeight {
			if h, ok := m.wrappedHeight[id]; ok {
				return h, true
			}
		}
		text := tree.Text(id)
		w, h := m.Fonts.MeasureLine(opts.FontID, firstLine(text))
		if axis == AxisWidth {
			return w, true
		}
		return h, true
	case NodeImage:
		if m.Images == nil {
			return 0, false
		}
		if axis == AxisHeight {
			if h, ok := m.wrappedHeight[id]; ok {
				return h, true
			}
		}
		w, h := m.Images.IntrinsicSize(tree.Image(id))
		if axis == AxisWidth {
			return w, true
		}
		return h, true
	default:
		return 0, false
	}
}

// MeasureWrapped re-measures a text node's height given the content width
// the width solve settled on, wrapping at word or grapheme-cluster
// boundaries, so the wrapped line count is known before heights solve.
func (m *ContentMeasurer) MeasureWrapped(tree *StyledTree, id NodeId, opts TextLayoutOptions, contentWidth float32) (width, height float32, lines []string) {
	text := tree.Text(id)
	if m.Fonts == nil || contentWidth <= 0 {
		return 0, 0, nil
	}

	lines = wrapText(text, opts.WrapMode, func(s string) float32 {
		w, _ := m.Fonts.MeasureLine(opts.FontID, s)
		return w
	}, contentWidth)

	if opts.MaxLines > 0 && len(lines) > opts.MaxLines {
		lines = appendEllipsis(lines[:opts.MaxLines], func(s string) float32 {
			w, _ := m.Fonts.MeasureLine(opts.FontID, s)
			return w
		}, contentWidth)
	}

	lineHeight := m.Fonts.LineHeight(opts.FontID) + opts.LineGapPx
	for _, l := range lines {
		w, _ := m.Fonts.MeasureLine(opts.FontID, l)
		if w > width {
			width = w
		}
	}
	height = float32(len(lines)) * lineHeight
	m.wrappedHeight[id] = height
	return width, height, lines
}

// InvalidateWrapped drops the cached post-wrap height for a node whose text
// content changed, so the next measurement pass recomputes it from the new
// string instead of serving the stale entry.
func (m *ContentMeasurer) InvalidateWrapped(id NodeId) {
	delete(m.wrappedHeight, id)
}

// ScaleImageHeight records an image node's aspect-preserving height for the
// width it actually solved at, consulted by the height pass the same way
// wrapped text height is: content_height = intrinsic_height ×
// (solved_width / intrinsic_width). A width equal to the intrinsic one is a
// no-op, keeping the plain intrinsic-height path.
func (m *ContentMeasurer) ScaleImageHeight(tree *StyledTree, id NodeId, solvedWidth float32) {
	if m.Images == nil || solvedWidth <= 0 {
		return
	}
	w, h := m.Images.IntrinsicSize(tree.Image(id))
	if w <= 0 || h <= 0 || w == solvedWidth {
		delete(m.wrappedHeight, id)
		return
	}
	m.wrappedHeight[id] = h * solvedWidth / w
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// wrapText wraps s to fit within maxWidth, splitting at word boundaries
// (WrapByWord) or grapheme clusters (WrapBySymbol): prefix-sum word
// fitting, binary-search grapheme fitting. Measurement is a function
// parameter so the layout package never depends on a rendering backend.
func wrapText(s string, mode WrapMode, measure func(string) float32, maxWidth float32) []string {
	var out []string
	for _, para := range strings.Split(normalizeNewlines(s), "\n") {
		if para == "" {
			out = append(out, "")
			continue
		}
		if mode == WrapBySymbol {
			out = append(out, wrapBySymbols(para, measure, maxWidth)...)
		} else {
			out = append(out, wrapByWords(para, measure, maxWidth)...)
		}
	}
	return out
}

func wrapByWords(p string, measure func(string) float32, maxWidth float32) []string {
	words := strings.Fields(p)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	i := 0
	for i < len(words) {
		if measure(words[i]) > maxWidth {
			lines = append(lines, splitLongWord(words[i], measure, maxWidth)...)
			i++
			continue
		}

		rem := words[i:]
		pref := make([]float32, len(rem)+1)
		spaceW := measure(" ")
		for k := 1; k <= len(rem); k++ {
			pref[k] = pref[k-1] + measure(rem[k-1])
			if k > 1 {
				pref[k] += spaceW
			}
		}

		lo, hi := 1, len(rem)
		count := 1
		for lo <= hi {
			mid := (lo + hi) >> 1
			if pref[mid] <= maxWidth {
				count = mid
				lo = mid + 1
			} else {
				hi = mid - 1
			}
		}
		lines = append(lines, strings.Join(rem[:count], " "))
		i += count
	}
	return lines
}

func splitLongWord(word string, measure func(string) float32, maxWidth float32) []string {
	clusters, offs := splitGraphemes(word)
	var out []string
	start := 0
	for start < len(clusters) {
		lo, hi := start+1, len(clusters)
		best := start + 1
		for lo <= hi {
			mid := (lo + hi) >> 1
			if measure(word[offs[start]:offs[mid]]) <= maxWidth {
				best = mid
				lo = mid + 1
			} else {
				hi = mid - 1
			}
		}
		out = append(out, word[offs[start]:offs[best]])
		start = best
	}
	return out
}

func wrapBySymbols(p string, measure func(string) float32, maxWidth float32) []string {
	clusters, offs := splitGraphemes(p)
	if len(clusters) == 0 {
		return []string{""}
	}
	var lines []string
	start := 0
	for start < len(clusters) {
		lo, hi := start+1, len(clusters)
		best := start
		for lo <= hi {
			mid := (lo + hi) >> 1
			if measure(p[offs[start]:offs[mid]]) <= maxWidth {
				best = mid
				lo = mid + 1
			} else {
				hi = mid - 1
			}
		}
		if best == start {
			best = start + 1
		}
		lines = append(lines, p[offs[start]:offs[best]])
		start = best
	}
	return lines
}

// appendEllipsis trims the final visible line so that an ellipsis fits,
// removing by grapheme cluster to avoid breaking composite glyphs.
func appendEllipsis(lines []string, measure func(string) float32, maxWidth float32) []string {
	const ellipsis = "…"
	if len(lines) == 0 {
		return lines
	}
	last := strings.TrimRight(lines[len(lines)-1], " ")
	if measure(last+ellipsis) <= maxWidth {
		lines[len(lines)-1] = last + ellipsis
		return lines
	}
	clusters, offs := splitGraphemes(last)
	for len(clusters) > 0 {
		clusters = clusters[:len(clusters)-1]
		cut := last[:offs[len(clusters)]]
		if measure(cut+ellipsis) <= maxWidth {
			lines[len(lines)-1] = cut + ellipsis
			return lines
		}
	}
	if measure(ellipsis) <= maxWidth {
		lines[len(lines)-1] = ellipsis
	}
	return lines
}

func splitGraphemes(s string) (clusters []string, offsets []int) {
	g := uniseg.NewGraphemes(s)
	offsets = append(offsets, 0)
	for g.Next() {
		cl := g.Str()
		clusters = append(clusters, cl)
		offsets = append(offsets, offsets[len(offsets)-1]+len(cl))
	}
	return clusters, offsets
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return s
}

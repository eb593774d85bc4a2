package render

import "github.com/fluxwm/layoutengine/layout"

// Registry adapts a named set of *Font values to layout.FontRegistry, so
// the solver's ContentMeasurer measures text through that interface
// instead of depending on *Font directly. A node's
// layout.TextLayoutOptions.FontID is the string key passed to Register.
type Registry struct {
	fonts map[string]*Font
}

// NewRegistry creates an empty font registry.
func NewRegistry() *Registry {
	return &Registry{fonts: map[string]*Font{}}
}

// Register binds name to f, overwriting any previous binding.
func (r *Registry) Register(name string, f *Font) {
	r.fonts[name] = f
}

// Lookup returns the font bound to name, or nil if none is registered.
func (r *Registry) Lookup(name string) *Font {
	return r.fonts[name]
}

// MeasureLine implements layout.FontRegistry.
func (r *Registry) MeasureLine(id layout.FontID, s string) (width, height float32) {
	f := r.resolve(id)
	if f == nil {
		return 0, 0
	}
	w, h := f.MeasureString(s)
	return float32(w), float32(h)
}

// LineHeight implements layout.FontRegistry.
func (r *Registry) LineHeight(id layout.FontID) float32 {
	f := r.resolve(id)
	if f == nil {
		return 0
	}
	return float32(f.LineHeightPx())
}

func (r *Registry) resolve(id layout.FontID) *Font {
	switch v := id.(type) {
	case string:
		return r.fonts[v]
	case *Font:
		return v
	default:
		return nil
	}
}

var _ layout.FontRegistry = (*Registry)(nil)

package image

import (
	stdimage "image"

	"github.com/fluxwm/layoutengine/layout"
)

// Registry adapts a named set of decoded images to layout.ImageRegistry, so
// the solver's ContentMeasurer reports intrinsic image size through that
// interface instead of depending on stdlib image.Image directly. A node's ImageRef is the string key passed to Register.
type Registry struct {
	images map[string]stdimage.Image
}

// NewRegistry creates an empty image registry.
func NewRegistry() *Registry {
	return &Registry{images: map[string]stdimage.Image{}}
}

// Register binds name to img, overwriting any previous binding.
func (r *Registry) Register(name string, img stdimage.Image) {
	r.images[name] = img
}

// IntrinsicSize implements layout.ImageRegistry.
func (r *Registry) IntrinsicSize(ref layout.ImageRef) (width, height float32) {
	var img stdimage.Image
	switch v := ref.(type) {
	case string:
		img = r.images[v]
	case stdimage.Image:
		img = v
	default:
		return 0, 0
	}
	if img == nil {
		return 0, 0
	}
	b := img.Bounds()
	return float32(b.Dx()), float32(b.Dy())
}

var _ layout.ImageRegistry = (*Registry)(nil)

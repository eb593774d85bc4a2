package glimo_test

import (
	"testing"

	"github.com/fluxwm/layoutengine/instructions"
)

func newLayer(t *testing.T, w, h int) *instructions.Layer {
	t.Helper()
	return instructions.NewLayer(w, h)
}

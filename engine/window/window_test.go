package window

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-sdf/common"
	"github.com/stretchr/testify/assert"
)

// These tests exercise the window state without spawning a platform window.

func TestResizeNotifiesViewport(t *testing.T) {
	w := &sdfWindow{width: 100, height: 50, contentScale: 1}
	var got []common.Viewport
	w.SetResizeCallback(func(vp common.Viewport) { got = append(got, vp) })

	w.resize(800, 600)
	w.resize(0, 0)

	assert.Equal(t, []common.Viewport{{Width: 800, Height: 600}}, got)
	assert.Equal(t, common.Viewport{Width: 800, Height: 600}, w.Viewport())
}

func TestUncreatedWindow(t *testing.T) {
	w := &sdfWindow{}
	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.Error(t, w.Close())
}

func TestBuilderOptions(t *testing.T) {
	w := &sdfWindow{}
	for _, opt := range []WindowBuilderOption{WithTitle("t"), WithSize(10, 20), WithMinSize(1, 2), WithMaxSize(30, 40)} {
		opt(w)
	}
	assert.Equal(t, "t", w.title)
	assert.Equal(t, 10, w.width)
	assert.Equal(t, 20, w.height)
	assert.Equal(t, 1, w.minWidth)
	assert.Equal(t, 40, w.maxHeight)
}

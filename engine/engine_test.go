package engine

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-sdf/common"
	"github.com/Carmen-Shannon/oxy-sdf/engine/element"
	"github.com/Carmen-Shannon/oxy-sdf/engine/layout"
	"github.com/Carmen-Shannon/oxy-sdf/engine/packer"
	"github.com/Carmen-Shannon/oxy-sdf/engine/scene"
	"github.com/Carmen-Shannon/oxy-sdf/engine/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingResizer struct {
	mu    sync.Mutex
	sizes []common.Viewport
}

func (r *recordingResizer) Resize(vp common.Viewport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sizes = append(r.sizes, vp)
}

func newTestScene(t *testing.T, name string, shapes int) (scene.Scene, *surface.Recorder) {
	t.Helper()
	provider := layout.NewStaticProvider()
	rec := surface.NewRecorder()
	s := scene.NewScene(name, provider, scene.WithSurfaces(rec))
	for i := 0; i < shapes; i++ {
		id := name + string(rune('a'+i))
		provider.SetRect(id, common.Rect{Left: float32(10 * i), Top: 0, Width: 20, Height: 20})
		_, err := s.Attach(id, element.Sphere, 0)
		require.NoError(t, err)
	}
	return s, rec
}

func TestRenderFrameOrdersActiveScenes(t *testing.T) {
	back, backRec := newTestScene(t, "back", 1)
	front, frontRec := newTestScene(t, "front", 2)
	hidden, hiddenRec := newTestScene(t, "hidden", 1)
	hidden.SetActive(false)

	e := NewEngine(
		WithViewport(800, 600),
		WithScene(10, front),
		WithScene(-1, back),
		WithScene(5, hidden),
		WithPackWorkers(2),
	)

	frames, err := e.RenderFrame()
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, -1, frames[0].Key)
	assert.Equal(t, "back", frames[0].Name)
	assert.Equal(t, 1, frames[0].Frame.NumElements)
	assert.Equal(t, 10, frames[1].Key)
	assert.Equal(t, 2, frames[1].Frame.NumElements)

	assert.Equal(t, 1, backRec.Count(surface.EventUpload))
	assert.Equal(t, 1, frontRec.Count(surface.EventUpload))
	assert.Zero(t, hiddenRec.Count(surface.EventUpload))

	stats := frameStats(frames)
	assert.Equal(t, 2, stats.Scenes)
	assert.Equal(t, 3, stats.Shapes)
	assert.Equal(t, 3*element.Sphere.Slots(), stats.UsedSlots)
}

func TestRenderFrameJoinsSceneErrors(t *testing.T) {
	good, _ := newTestScene(t, "good", 1)
	bad, badRec := newTestScene(t, "bad", 1)
	uploadErr := errors.New("lost device")
	badRec.FailUploads(uploadErr)

	e := NewEngine(WithViewport(800, 600), WithScene(0, good), WithScene(1, bad))

	frames, err := e.RenderFrame()
	require.Error(t, err)
	assert.ErrorIs(t, err, uploadErr)
	require.Len(t, frames, 2)
	assert.NoError(t, frames[0].Err)
	assert.ErrorIs(t, frames[1].Err, uploadErr)
}

func TestRenderFrameWithoutViewport(t *testing.T) {
	s, _ := newTestScene(t, "s", 1)
	e := NewEngine(WithScene(0, s))

	_, err := e.RenderFrame()
	assert.ErrorIs(t, err, packer.ErrInvalidViewport)
}

func TestSetViewportPropagates(t *testing.T) {
	s, rec := newTestScene(t, "s", 1)
	resizer := &recordingResizer{}
	e := NewEngine(WithScene(0, s), WithResizer(resizer))
	assert.False(t, e.Viewport().Valid())

	rec.Reset()
	e.SetViewport(common.Viewport{Width: 640, Height: 480})
	e.SetViewport(common.Viewport{})

	assert.Equal(t, common.Viewport{Width: 640, Height: 480}, s.Viewport())
	assert.Equal(t, []common.Viewport{{Width: 640, Height: 480}}, resizer.sizes)
	assert.Equal(t, 1, rec.Count(surface.EventLayerLayoutChanged))

	late, _ := newTestScene(t, "late", 0)
	e.AddScene(3, late)
	assert.Equal(t, common.Viewport{Width: 640, Height: 480}, late.Viewport())
	assert.Same(t, late, e.Scene(3))
	assert.Len(t, e.Scenes(), 2)

	e.RemoveScene(3)
	assert.Nil(t, e.Scene(3))
}

func TestHeadlessRunStopsOnQuit(t *testing.T) {
	s, _ := newTestScene(t, "s", 1)
	e := NewEngine(WithViewport(100, 100), WithScene(0, s), WithRenderFrameLimit(200), WithTickRate(200))

	var mu sync.Mutex
	rendered, ticked := 0, 0
	e.SetRenderCallback(func(_ float32, frames []SceneFrame) {
		mu.Lock()
		defer mu.Unlock()
		rendered++
	})
	e.SetTickCallback(func(float32) {
		mu.Lock()
		defer mu.Unlock()
		ticked++
	})

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return rendered > 2 && ticked > 2
	}, 2*time.Second, 5*time.Millisecond)

	e.Quit()
	e.Quit()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Quit")
	}
}

func TestSettingsChangeWhileRunning(t *testing.T) {
	s, _ := newTestScene(t, "s", 1)
	e := NewEngine(WithViewport(100, 100), WithScene(0, s), WithRenderFrameLimit(500), WithTickRate(500))

	var mu sync.Mutex
	lateRenders, lateTicks := 0, 0

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	for i := 0; i < 50; i++ {
		e.EnableProfiler()
		e.SetRenderCallback(func(float32, []SceneFrame) {})
		e.SetTickCallback(func(float32) {})
		e.SetRenderFrameLimit(float64(200 + i))
		e.SetTickRate(float64(200 + i))
		e.DisableProfiler()
	}
	e.SetRenderCallback(func(float32, []SceneFrame) {
		mu.Lock()
		defer mu.Unlock()
		lateRenders++
	})
	e.SetTickCallback(func(float32) {
		mu.Lock()
		defer mu.Unlock()
		lateTicks++
	})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return lateRenders > 0 && lateTicks > 0
	}, 2*time.Second, 5*time.Millisecond)

	e.Quit()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Quit")
	}
}

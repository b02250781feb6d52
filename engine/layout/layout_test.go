package layout

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-sdf/common"
	"github.com/Carmen-Shannon/oxy-sdf/engine/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tomlDoc = `
[[shape]]
id = "ball"
type = "sphere"
layer = 0
rect = { left = 10.0, top = 20.0, width = 100.0, height = 50.0 }
transform = "matrix(1, 0, 0, 1, 0, 0)"
style = "background-color: rgb(255, 0, 0); --kd: 0.8; --depth: 0.1"

[[shape]]
id = "frame"
type = "border"
layer = 1
rect = { left = 0.0, top = 0.0, width = 300.0, height = 200.0 }
style = "border-width: 4px"
`

const yamlDoc = `
shapes:
  - id: ball
    type: sphere
    rect: {left: 1, top: 2, width: 3, height: 4}
    transform: none
    style: "--ks: 0.5"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseDeclarations(t *testing.T) {
	got, err := ParseDeclarations("background-color: rgba(0, 128, 255, 0.5); --kd: 0.8;--p:32")
	require.NoError(t, err)
	assert.Equal(t, "rgba(0, 128, 255, 0.5)", got[style.PropBackgroundColor])
	assert.Equal(t, "0.8", got[style.PropKd])
	assert.Equal(t, "32", got[style.PropP])

	got, err = ParseDeclarations("border-width: 4px")
	require.NoError(t, err)
	assert.Equal(t, "4px", got[style.PropBorderWidth])

	got, err = ParseDeclarations(" --kd: 0.8; --p: 32 ")
	require.NoError(t, err)
	assert.Equal(t, "0.8", got[style.PropKd])
	assert.Equal(t, "32", got[style.PropP])

	got, err = ParseDeclarations("--p: 16;")
	require.NoError(t, err)
	assert.Equal(t, "16", got[style.PropP])

	got, err = ParseDeclarations("  ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStaticProvider(t *testing.T) {
	p := NewStaticProvider()
	require.NoError(t, p.Set(Shape{
		ID:     "a",
		Rect:   common.Rect{Left: 1, Top: 2, Width: 3, Height: 4},
		Style:  "--kd: 0.5; --ks: 0.1",
		Styles: map[string]string{style.PropKd: "0.9"},
	}))

	rect, err := p.BoundingRect("a")
	require.NoError(t, err)
	assert.Equal(t, float32(3), rect.Width)

	v, ok := p.StyleValue("a", style.PropKd)
	assert.True(t, ok)
	assert.Equal(t, "0.9", v)

	p.SetStyle("a", style.PropKa, "0.2")
	v, _ = p.StyleValue("a", style.PropKa)
	assert.Equal(t, "0.2", v)

	p.SetTransform("b", "none")
	d, err := p.TransformDescription("b")
	require.NoError(t, err)
	assert.Equal(t, "none", d)

	p.SetRect("b", common.Rect{Width: 9})
	rect, _ = p.BoundingRect("b")
	assert.Equal(t, float32(9), rect.Width)

	p.Remove("a")
	_, err = p.BoundingRect("a")
	assert.ErrorIs(t, err, ErrUnknownShape)
	_, err = p.TransformDescription("a")
	assert.ErrorIs(t, err, ErrUnknownShape)
	_, ok = p.StyleValue("a", style.PropKd)
	assert.False(t, ok)
}

func TestFileProviderTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "layout.toml", tomlDoc)
	p, err := NewFileProvider(path)
	require.NoError(t, err)

	shapes := p.Shapes()
	require.Len(t, shapes, 2)
	assert.Equal(t, "border", shapes[1].Type)
	assert.Equal(t, 1, shapes[1].Layer)

	rect, err := p.BoundingRect("ball")
	require.NoError(t, err)
	assert.Equal(t, common.Rect{Left: 10, Top: 20, Width: 100, Height: 50}, rect)

	v, ok := p.StyleValue("ball", style.PropBackgroundColor)
	assert.True(t, ok)
	assert.Equal(t, "rgb(255, 0, 0)", v)

	v, _ = p.StyleValue("frame", style.PropBorderWidth)
	assert.Equal(t, "4px", v)

	d, err := p.TransformDescription("frame")
	require.NoError(t, err)
	assert.Empty(t, d)
}

func TestFileProviderYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "layout.yaml", yamlDoc)
	p, err := NewFileProvider(path)
	require.NoError(t, err)

	rect, err := p.BoundingRect("ball")
	require.NoError(t, err)
	assert.Equal(t, float32(4), rect.Height)
	v, _ := p.StyleValue("ball", style.PropKs)
	assert.Equal(t, "0.5", v)
}

func TestFileProviderErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewFileProvider(writeFile(t, dir, "layout.json", "{}"))
	assert.ErrorIs(t, err, common.ErrUnsupportedFormat)

	_, err = NewFileProvider(writeFile(t, dir, "dup.toml", "[[shape]]\nid = \"a\"\n[[shape]]\nid = \"a\"\n"))
	assert.ErrorContains(t, err, "duplicate")

	_, err = NewFileProvider(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestFileProviderReloadKeepsPreviousOnError(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "layout.toml", tomlDoc)
	p, err := NewFileProvider(path)
	require.NoError(t, err)

	writeFile(t, dir, "layout.toml", "[[shape]\n")
	assert.Error(t, p.Reload())
	assert.Len(t, p.Shapes(), 2)
}

func TestFileProviderWatch(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "layout.toml", tomlDoc)
	p, err := NewFileProvider(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	var reloads atomic.Int32
	go func() {
		done <- p.Watch(ctx, func(err error) {
			if err == nil {
				reloads.Add(1)
			}
		})
	}()

	single := "[[shape]]\nid = \"only\"\ntype = \"box\"\n"
	assert.Eventually(t, func() bool {
		writeFile(t, dir, "layout.toml", single)
		return reloads.Load() > 0 && len(p.Shapes()) == 1
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-sdf/engine/layer"
	"github.com/Carmen-Shannon/oxy-sdf/engine/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 256, cfg.Capacity)
	assert.Equal(t, "0x00000000", cfg.FallbackColor)

	fb, err := cfg.Fallback()
	require.NoError(t, err)
	assert.Equal(t, style.DefaultFallbackColor, fb)

	layers, err := cfg.LayerTable()
	require.NoError(t, err)
	assert.Equal(t, layer.DefaultLayers(), layers)
}

func TestLoadTOML(t *testing.T) {
	path := write(t, "scene.toml", `
name = "demo"
capacity = 64
fallback_color = "rgba(255, 0, 255, 1)"

[material]
kd = 0.7
ks = 0.3
p = 16.0
ka = 0.1

[[layer]]
operation = "union"

[[layer]]
operation = "smooth-subtraction"
smoothing = 6.0
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Name)
	assert.Equal(t, 64, cfg.Capacity)
	assert.Equal(t, 1e-10, cfg.SingularEpsilon)
	assert.Equal(t, Material{Kd: 0.7, Ks: 0.3, P: 16, Ka: 0.1}, cfg.MaterialOrDefault())

	fb, err := cfg.Fallback()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFF00FFFF), fb)

	layers, err := cfg.LayerTable()
	require.NoError(t, err)
	assert.Equal(t, []layer.Layer{{Operation: layer.Union}, {Operation: layer.SmoothSubtraction, SmoothingFactor: 6}}, layers)
}

func TestLoadYAMLMergesDefaults(t *testing.T) {
	path := write(t, "scene.yaml", "fallback_color: \"0x11223344\"\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.Capacity)
	assert.Len(t, cfg.Layers, 3)
	assert.Equal(t, DefaultMaterial(), cfg.MaterialOrDefault())

	fb, err := cfg.Fallback()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x11223344), fb)
}

func TestLoadInvalid(t *testing.T) {
	cases := map[string]string{
		"bad-op.toml":       "[[layer]]\noperation = \"blend\"\n",
		"bad-color.toml":    "fallback_color = \"purple\"\n",
		"bad-hex.yaml":      "fallback_color: \"0xZZ\"\n",
		"neg-capacity.yaml": "capacity: -4\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(write(t, name, content))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	cfg := Default()
	cfg.Layers = make([]Layer, layer.MaxLayers+1)
	for i := range cfg.Layers {
		cfg.Layers[i].Operation = "union"
	}
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestMaterialOrDefault(t *testing.T) {
	assert.Equal(t, DefaultMaterial(), SceneConfig{}.MaterialOrDefault())
}

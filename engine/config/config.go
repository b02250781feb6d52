// package config loads scene configuration from TOML or YAML files.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-sdf/common"
	"github.com/Carmen-Shannon/oxy-sdf/engine/layer"
	"github.com/Carmen-Shannon/oxy-sdf/engine/registry"
	"github.com/Carmen-Shannon/oxy-sdf/engine/style"
)

// ErrInvalidConfig is returned when a configuration fails validation.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Material holds the shading coefficients used when a shape does not set them.
type Material struct {
	Kd float32 `toml:"kd" yaml:"kd"`
	Ks float32 `toml:"ks" yaml:"ks"`
	P  float32 `toml:"p" yaml:"p"`
	Ka float32 `toml:"ka" yaml:"ka"`
}

// DefaultMaterial returns a purely diffuse material.
func DefaultMaterial() Material {
	return Material{Kd: 1, Ks: 0, P: 1, Ka: 0}
}

// Layer configures one layer slot.
type Layer struct {
	Operation string  `toml:"operation" yaml:"operation"`
	Smoothing float32 `toml:"smoothing" yaml:"smoothing"`
}

// SceneConfig is the file form of a scene's settings.
type SceneConfig struct {
	Name            string    `toml:"name" yaml:"name"`
	Capacity        int       `toml:"capacity" yaml:"capacity"`
	SingularEpsilon float64   `toml:"singular_epsilon" yaml:"singular_epsilon"`
	FallbackColor   string    `toml:"fallback_color" yaml:"fallback_color"`
	Material        *Material `toml:"material" yaml:"material"`
	Layers          []Layer   `toml:"layer" yaml:"layers"`
}

// Default returns the configuration used when no file is given: 256 record units, the default three-layer
// table, transparent black as the fallback colour and a diffuse material.
func Default() SceneConfig {
	m := DefaultMaterial()
	cfg := SceneConfig{
		Name:            "default",
		Capacity:        registry.MaxBufferCapacity,
		SingularEpsilon: common.SingularEpsilon,
		FallbackColor:   fmt.Sprintf("0x%08x", style.DefaultFallbackColor),
		Material:        &m,
	}
	for _, l := range layer.DefaultLayers() {
		cfg.Layers = append(cfg.Layers, Layer{Operation: l.Operation.String(), Smoothing: l.SmoothingFactor})
	}
	return cfg
}

// Load reads a scene configuration file. Unset fields take their values from Default.
//
// Parameters:
//   - path: a .toml, .yaml or .yml file
//
// Returns:
//   - SceneConfig: the merged and validated configuration
//   - error: the read, decode or validation error
func Load(path string) (SceneConfig, error) {
	var cfg SceneConfig
	if err := common.UnmarshalFile(path, &cfg); err != nil {
		return SceneConfig{}, fmt.Errorf("config: %w", err)
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return SceneConfig{}, err
	}
	return cfg, nil
}

func (c SceneConfig) withDefaults() SceneConfig {
	def := Default()
	c.Name = common.Coalesce(c.Name, def.Name)
	c.Capacity = common.Coalesce(c.Capacity, def.Capacity)
	c.SingularEpsilon = common.Coalesce(c.SingularEpsilon, def.SingularEpsilon)
	c.FallbackColor = common.Coalesce(c.FallbackColor, def.FallbackColor)
	c.Material = common.Coalesce(c.Material, def.Material)
	if len(c.Layers) == 0 {
		c.Layers = def.Layers
	}
	return c
}

// Validate checks that the configuration can build a scene.
func (c SceneConfig) Validate() error {
	if c.Capacity < 1 {
		return fmt.Errorf("%w: capacity %d", ErrInvalidConfig, c.Capacity)
	}
	if c.SingularEpsilon <= 0 {
		return fmt.Errorf("%w: singular_epsilon %g", ErrInvalidConfig, c.SingularEpsilon)
	}
	if _, err := c.Fallback(); err != nil {
		return err
	}
	if _, err := c.LayerTable(); err != nil {
		return err
	}
	return nil
}

// Fallback parses FallbackColor. Both "0xRRGGBBAA" words and CSS rgb()/rgba() colours are accepted.
//
// Returns:
//   - uint32: the packed fallback colour
//   - error: ErrInvalidConfig if the value cannot be parsed
func (c SceneConfig) Fallback() (uint32, error) {
	s := strings.TrimSpace(c.FallbackColor)
	if s == "" {
		return style.DefaultFallbackColor, nil
	}
	if hex, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: fallback_color %q", ErrInvalidConfig, c.FallbackColor)
		}
		return uint32(v), nil
	}
	col, err := style.ParseColor(s)
	if err != nil {
		return 0, fmt.Errorf("%w: fallback_color: %w", ErrInvalidConfig, err)
	}
	return col.Pack(), nil
}

// LayerTable converts the configured layers into compositor slots.
//
// Returns:
//   - []layer.Layer: the layer slots
//   - error: ErrInvalidConfig wrapping the layer error
func (c SceneConfig) LayerTable() ([]layer.Layer, error) {
	out := make([]layer.Layer, 0, len(c.Layers))
	for i, l := range c.Layers {
		op, err := layer.ParseOperation(l.Operation)
		if err != nil {
			return nil, fmt.Errorf("%w: layer %d: %w", ErrInvalidConfig, i, err)
		}
		out = append(out, layer.Layer{Operation: op, SmoothingFactor: l.Smoothing})
	}
	if err := layer.Validate(out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return out, nil
}

// MaterialOrDefault returns the configured material, or DefaultMaterial when unset.
func (c SceneConfig) MaterialOrDefault() Material {
	if c.Material == nil {
		return DefaultMaterial()
	}
	return *c.Material
}

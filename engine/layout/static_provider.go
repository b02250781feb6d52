package layout

import (
	"fmt"
	"maps"
	"sync"

	"github.com/Carmen-Shannon/oxy-sdf/common"
)

// StaticProvider is an in-memory LayoutProvider. Thread-safe for concurrent access.
type StaticProvider struct {
	mu     sync.RWMutex
	shapes map[string]*Shape
}

var _ LayoutProvider = &StaticProvider{}

// NewStaticProvider creates an empty StaticProvider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{shapes: make(map[string]*Shape)}
}

// Set stores a shape, replacing any shape with the same ID. Style declarations in shape.Style are parsed
// and merged under shape.Styles, which take precedence.
//
// Parameters:
//   - shape: the shape to store
//
// Returns:
//   - error: style.ErrMalformedStyleValue if shape.Style is not a declaration block
func (p *StaticProvider) Set(shape Shape) error {
	styles, err := ParseDeclarations(shape.Style)
	if err != nil {
		return fmt.Errorf("layout: shape %q: %w", shape.ID, err)
	}
	maps.Copy(styles, shape.Styles)
	shape.Styles = styles

	p.mu.Lock()
	defer p.mu.Unlock()
	p.shapes[shape.ID] = &shape
	return nil
}

// SetRect updates the bounding rectangle of a shape, creating it if needed.
func (p *StaticProvider) SetRect(id string, rect common.Rect) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lockedShape(id).Rect = rect
}

// SetStyle sets a single style property of a shape, creating it if needed.
func (p *StaticProvider) SetStyle(id, name, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lockedShape(id).Styles[name] = value
}

// SetTransform sets the transform description of a shape, creating it if needed.
func (p *StaticProvider) SetTransform(id, description string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lockedShape(id).Transform = description
}

// Remove forgets a shape.
func (p *StaticProvider) Remove(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.shapes, id)
}

func (p *StaticProvider) BoundingRect(shapeID string) (common.Rect, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.shapes[shapeID]
	if !ok {
		return common.Rect{}, fmt.Errorf("%w: %q", ErrUnknownShape, shapeID)
	}
	return s.Rect, nil
}

func (p *StaticProvider) StyleValue(shapeID, name string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.shapes[shapeID]
	if !ok {
		return "", false
	}
	v, ok := s.Styles[name]
	return v, ok
}

func (p *StaticProvider) TransformDescription(shapeID string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.shapes[shapeID]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownShape, shapeID)
	}
	return s.Transform, nil
}

func (p *StaticProvider) lockedShape(id string) *Shape {
	s, ok := p.shapes[id]
	if !ok {
		s = &Shape{ID: id, Styles: make(map[string]string)}
		p.shapes[id] = s
	}
	if s.Styles == nil {
		s.Styles = make(map[string]string)
	}
	return s
}

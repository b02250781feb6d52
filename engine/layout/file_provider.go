package layout

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-sdf/common"
	"github.com/fsnotify/fsnotify"
)

// Document is the on-disk layout format. In TOML each shape is a [[shape]] table; in YAML a "shapes" list.
type Document struct {
	Shapes []Shape `toml:"shape" yaml:"shapes"`
}

// FileProvider is a LayoutProvider backed by a TOML or YAML layout document.
// Reload swaps the whole document at once so readers never observe a partial update.
type FileProvider struct {
	path string

	mu       sync.RWMutex
	shapes   []Shape
	provider *StaticProvider
}

var _ LayoutProvider = &FileProvider{}

// NewFileProvider loads the layout document at path.
//
// Parameters:
//   - path: a .toml, .yaml or .yml layout document
//
// Returns:
//   - *FileProvider: the loaded provider
//   - error: the read, decode or style parse error
func NewFileProvider(path string) (*FileProvider, error) {
	p := &FileProvider{path: filepath.Clean(path)}
	if err := p.Reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// Path returns the document path.
func (p *FileProvider) Path() string {
	return p.path
}

// Reload re-reads the document. On error the previous document stays in effect.
func (p *FileProvider) Reload() error {
	var doc Document
	if err := common.UnmarshalFile(p.path, &doc); err != nil {
		return fmt.Errorf("layout: %w", err)
	}

	next := NewStaticProvider()
	seen := make(map[string]bool, len(doc.Shapes))
	for i, s := range doc.Shapes {
		if s.ID == "" {
			return fmt.Errorf("layout: %s: shape %d has no id", p.path, i)
		}
		if seen[s.ID] {
			return fmt.Errorf("layout: %s: duplicate shape id %q", p.path, s.ID)
		}
		seen[s.ID] = true
		if err := next.Set(s); err != nil {
			return fmt.Errorf("%s: %w", p.path, err)
		}
	}

	p.mu.Lock()
	p.shapes = doc.Shapes
	p.provider = next
	p.mu.Unlock()
	common.Logger().Debug("layout: loaded", "path", p.path, "shapes", len(doc.Shapes))
	return nil
}

// Shapes returns the shapes of the current document in file order.
func (p *FileProvider) Shapes() []Shape {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.shapes)
}

func (p *FileProvider) current() *StaticProvider {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.provider
}

func (p *FileProvider) BoundingRect(shapeID string) (common.Rect, error) {
	return p.current().BoundingRect(shapeID)
}

func (p *FileProvider) StyleValue(shapeID, name string) (string, bool) {
	return p.current().StyleValue(shapeID, name)
}

func (p *FileProvider) TransformDescription(shapeID string) (string, error) {
	return p.current().TransformDescription(shapeID)
}

// Watch reloads the document whenever it changes on disk until ctx is cancelled.
// The directory is watched rather than the file so that editors which replace the file are handled.
// onChange is called after every reload attempt with the reload error, if any.
//
// Parameters:
//   - ctx: cancels the watch
//   - onChange: invoked after each reload
//
// Returns:
//   - error: the watcher setup error, or nil once ctx is done
func (p *FileProvider) Watch(ctx context.Context, onChange func(err error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("layout: watch: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(p.path)); err != nil {
		return fmt.Errorf("layout: watch %s: %w", p.path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != p.path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			err := p.Reload()
			if err != nil {
				common.Logger().Warn("layout: reload failed", "path", p.path, "err", err)
			}
			if onChange != nil {
				onChange(err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			common.Logger().Warn("layout: watcher error", "path", p.path, "err", err)
		}
	}
}

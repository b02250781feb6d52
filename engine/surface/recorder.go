package surface

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-sdf/engine/layer"
	"github.com/Carmen-Shannon/oxy-sdf/engine/packer"
)

// EventKind identifies a recorded call.
type EventKind int

const (
	EventMembershipChanged EventKind = iota
	EventLayerLayoutChanged
	EventUpload
)

// Event is one recorded call on a Recorder.
type Event struct {
	Kind  EventKind
	Table layer.Table
	Frame packer.Frame
}

// Recorder is a RenderSurface that keeps a copy of everything it receives. Thread-safe for concurrent access.
type Recorder struct {
	mu        sync.Mutex
	events    []Event
	uploadErr error
}

var _ RenderSurface = &Recorder{}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// FailUploads makes every subsequent Upload return err. Pass nil to succeed again.
func (r *Recorder) FailUploads(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uploadErr = err
}

func (r *Recorder) OnMembershipChanged(table layer.Table) {
	r.record(Event{Kind: EventMembershipChanged, Table: table})
}

func (r *Recorder) OnLayerLayoutChanged(table layer.Table) {
	r.record(Event{Kind: EventLayerLayoutChanged, Table: table})
}

func (r *Recorder) Upload(frame packer.Frame, table layer.Table) error {
	r.mu.Lock()
	err := r.uploadErr
	r.mu.Unlock()
	if err != nil {
		return err
	}
	r.record(Event{Kind: EventUpload, Table: table, Frame: frame.Clone()})
	return nil
}

// Events returns a copy of the recorded calls in order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Count returns how many calls of the given kind were recorded.
func (r *Recorder) Count(kind EventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// LastUpload returns the most recent uploaded frame.
func (r *Recorder) LastUpload() (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Kind == EventUpload {
			return r.events[i], true
		}
	}
	return Event{}, false
}

// Reset discards all recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func (r *Recorder) record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

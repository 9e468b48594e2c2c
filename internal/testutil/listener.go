package testutil

import (
	"sync"

	"github.com/vk/modelgraph/internal/graph"
)

// RecordingListener is a graph.Listener that keeps every event it receives,
// in order.
type RecordingListener struct {
	mu     sync.Mutex
	events []any
}

var _ graph.Listener = (*RecordingListener)(nil)

func (l *RecordingListener) record(e any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *RecordingListener) NodeCreated(e graph.NodeCreated)                 { l.record(e) }
func (l *RecordingListener) RelationshipCreated(e graph.RelationshipCreated) { l.record(e) }
func (l *RecordingListener) LabelAdded(e graph.LabelAdded)                   { l.record(e) }
func (l *RecordingListener) PropertyChanged(e graph.PropertyChanged)         { l.record(e) }

// Events returns a copy of the recorded events.
func (l *RecordingListener) Events() []any {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]any(nil), l.events...)
}

// Reset drops the recorded events.
func (l *RecordingListener) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}

// PropertyKeys returns the keys of the recorded PropertyChanged events.
func (l *RecordingListener) PropertyKeys() []string {
	var keys []string
	for _, e := range l.Events() {
		if pc, ok := e.(graph.PropertyChanged); ok {
			keys = append(keys, pc.Key)
		}
	}
	return keys
}

package graph

import (
	"log/slog"

	"github.com/vk/modelgraph/internal/value"
)

// NodeCreated is delivered after a node has been allocated.
type NodeCreated struct {
	Graph  *Graph
	NodeID int64
}

// RelationshipCreated is delivered after a relationship has been allocated
// and linked into both endpoints.
type RelationshipCreated struct {
	Graph          *Graph
	RelationshipID int64
}

// LabelAdded is delivered the first time a label is attached to a node.
type LabelAdded struct {
	Graph  *Graph
	NodeID int64
	Label  Label
}

// PropertyChanged is delivered on every successful property write. Previous
// is the null Value when the key was absent.
type PropertyChanged struct {
	Graph    *Graph
	EntityID int64
	Key      string
	Previous value.Value
	Value    value.Value
}

// Listener observes graph mutations. Calls are synchronous and happen on the
// mutating goroutine before the mutating call returns.
type Listener interface {
	NodeCreated(NodeCreated)
	RelationshipCreated(RelationshipCreated)
	LabelAdded(LabelAdded)
	PropertyChanged(PropertyChanged)
}

// NopListener ignores every event. Embed it to implement only some methods.
type NopListener struct{}

func (NopListener) NodeCreated(NodeCreated)                 {}
func (NopListener) RelationshipCreated(RelationshipCreated) {}
func (NopListener) LabelAdded(LabelAdded)                   {}
func (NopListener) PropertyChanged(PropertyChanged)         {}

// Listeners fans every event out to each listener in slice order.
type Listeners []Listener

func (ls Listeners) NodeCreated(e NodeCreated) {
	for _, l := range ls {
		l.NodeCreated(e)
	}
}

func (ls Listeners) RelationshipCreated(e RelationshipCreated) {
	for _, l := range ls {
		l.RelationshipCreated(e)
	}
}

func (ls Listeners) LabelAdded(e LabelAdded) {
	for _, l := range ls {
		l.LabelAdded(e)
	}
}

func (ls Listeners) PropertyChanged(e PropertyChanged) {
	for _, l := range ls {
		l.PropertyChanged(e)
	}
}

type loggingListener struct {
	logger *slog.Logger
}

// LoggingListener returns a Listener that writes one debug record per event.
func LoggingListener(logger *slog.Logger) Listener {
	return &loggingListener{logger: logger}
}

func (l *loggingListener) NodeCreated(e NodeCreated) {
	l.logger.Debug("Node created.", "graph", e.Graph.ID(), "node_id", e.NodeID)
}

func (l *loggingListener) RelationshipCreated(e RelationshipCreated) {
	l.logger.Debug("Relationship created.", "graph", e.Graph.ID(), "relationship_id", e.RelationshipID)
}

func (l *loggingListener) LabelAdded(e LabelAdded) {
	l.logger.Debug("Label added.", "graph", e.Graph.ID(), "node_id", e.NodeID, "label", e.Label.Name())
}

func (l *loggingListener) PropertyChanged(e PropertyChanged) {
	l.logger.Debug("Property changed.",
		"graph", e.Graph.ID(),
		"entity_id", e.EntityID,
		"key", e.Key,
		"previous", e.Previous.String(),
		"value", e.Value.String(),
	)
}

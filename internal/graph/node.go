package graph

import (
	"fmt"
	"iter"
	"slices"
)

// Direction filters relationships relative to a node.
type Direction uint8

const (
	// Incoming matches relationships ending at the node.
	Incoming Direction = 1 << iota
	// Outgoing matches relationships starting at the node.
	Outgoing
	// Both matches either end. A self-loop satisfies both directions and is
	// therefore yielded twice.
	Both = Incoming | Outgoing
)

func (d Direction) String() string {
	switch d {
	case Incoming:
		return "INCOMING"
	case Outgoing:
		return "OUTGOING"
	case Both:
		return "BOTH"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

func (d Direction) valid() bool { return d == Incoming || d == Outgoing || d == Both }

// Node is a handle to a graph node. The zero Node is invalid.
type Node struct {
	entity
}

var _ Entity = Node{}

// Labels returns a copy of the node's labels in insertion order.
func (n Node) Labels() []Label {
	return slices.Clone(n.record().labels)
}

// HasLabel reports whether l is attached to the node.
func (n Node) HasLabel(l Label) bool {
	return slices.Contains(n.record().labels, l)
}

// AddLabel attaches l to the node and fires LabelAdded. Adding a label the
// node already carries does nothing. It panics on the zero Label.
func (n Node) AddLabel(l Label) {
	if l.IsZero() {
		panic("graph: cannot add zero label")
	}
	rec := n.record()
	if slices.Contains(rec.labels, l) {
		return
	}
	rec.labels = append(rec.labels, l)
	n.graph.fireLabelAdded(LabelAdded{Graph: n.graph, NodeID: n.id, Label: l})
}

// Relationships yields the relationships attached to the node that match dir
// and, when types is non-empty, one of types. The sequence covers the
// relationships that existed at call time, in creation order, and may be
// ranged over more than once.
func (n Node) Relationships(dir Direction, types ...RelationshipType) iter.Seq[Relationship] {
	adj := n.record().adjacency
	adj = adj[:len(adj):len(adj)]
	types = slices.Clone(types)
	return func(yield func(Relationship) bool) {
		for _, rid := range adj {
			rec := n.graph.records[rid]
			if len(types) > 0 && !slices.Contains(types, rec.relType) {
				continue
			}
			r := Relationship{entity{graph: n.graph, id: rid}}
			if dir&Outgoing != 0 && rec.start == n.id {
				if !yield(r) {
					return
				}
			}
			if dir&Incoming != 0 && rec.end == n.id {
				if !yield(r) {
					return
				}
			}
		}
	}
}

// HasRelationship reports whether Relationships(dir, types...) is non-empty.
func (n Node) HasRelationship(dir Direction, types ...RelationshipType) bool {
	for range n.Relationships(dir, types...) {
		return true
	}
	return false
}

// SingleRelationship returns the one relationship of type t in direction dir.
// ok is false when there is none. More than one match is an
// AmbiguousResultError, which includes a self-loop queried with Both.
func (n Node) SingleRelationship(t RelationshipType, dir Direction) (r Relationship, ok bool, err error) {
	if t.IsZero() {
		return Relationship{}, false, &InvalidArgumentError{Argument: "relationship type", Reason: "must not be zero"}
	}
	if !dir.valid() {
		return Relationship{}, false, &InvalidArgumentError{Argument: "direction", Reason: dir.String()}
	}

	count := 0
	for rel := range n.Relationships(dir, t) {
		if count == 0 {
			r = rel
		}
		count++
	}
	switch count {
	case 0:
		return Relationship{}, false, nil
	case 1:
		return r, true, nil
	default:
		return Relationship{}, false, &AmbiguousResultError{NodeID: n.id, Type: t, Direction: dir, Count: count}
	}
}

// CreateRelationshipTo creates n -[t]-> other.
func (n Node) CreateRelationshipTo(other Node, t RelationshipType) (Relationship, error) {
	if n.graph == nil {
		return Relationship{}, &InvalidArgumentError{Argument: "start node", Reason: "zero node"}
	}
	return n.graph.CreateRelationship(n, t, other)
}

func (n Node) String() string {
	if n.graph == nil {
		return "node(invalid)"
	}
	return fmt.Sprintf("node#%d", n.id)
}

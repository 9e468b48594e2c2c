package graph

import (
	"fmt"
	"iter"

	"github.com/google/uuid"
)

type entityKind uint8

const (
	kindNode entityKind = iota + 1
	kindRelationship
)

// record is the single writable copy of an entity's state.
type record struct {
	kind  entityKind
	props *Properties

	// node
	labels []Label
	// adjacency holds ids of incident relationships in creation order. A
	// self-loop is listed once.
	adjacency []int64

	// relationship
	start, end int64
	relType    RelationshipType
}

// Graph is the aggregate root owning every node and relationship created
// through it. Entities are never removed.
type Graph struct {
	id       uuid.UUID
	listener Listener

	// records is indexed by entity id.
	records       []*record
	nodes         []int64
	relationships []int64
}

// Option configures a Graph.
type Option func(*Graph)

// WithListener registers l. Repeated use fans events out to every listener in
// registration order.
func WithListener(l Listener) Option {
	return func(g *Graph) {
		switch existing := g.listener.(type) {
		case nil:
			g.listener = l
		case Listeners:
			g.listener = append(existing, l)
		default:
			g.listener = Listeners{existing, l}
		}
	}
}

// WithID overrides the randomly generated graph id.
func WithID(id uuid.UUID) Option {
	return func(g *Graph) { g.id = id }
}

// New returns an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{id: uuid.New()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ID returns the graph instance id.
func (g *Graph) ID() uuid.UUID { return g.id }

func (g *Graph) String() string { return fmt.Sprintf("graph(%s)", g.id) }

func (g *Graph) allocate(rec *record) int64 {
	id := int64(len(g.records))
	rec.props = newProperties(g, id)
	g.records = append(g.records, rec)
	return id
}

// CreateNode allocates a node with no labels and no properties and fires
// NodeCreated.
func (g *Graph) CreateNode() Node {
	id := g.allocate(&record{kind: kindNode})
	g.nodes = append(g.nodes, id)
	if g.listener != nil {
		g.listener.NodeCreated(NodeCreated{Graph: g, NodeID: id})
	}
	return Node{entity{graph: g, id: id}}
}

// CreateRelationship allocates start -[t]-> end and fires RelationshipCreated.
// Both nodes must belong to g and t must not be zero.
func (g *Graph) CreateRelationship(start Node, t RelationshipType, end Node) (Relationship, error) {
	if err := g.checkOwned("start node", start); err != nil {
		return Relationship{}, err
	}
	if err := g.checkOwned("end node", end); err != nil {
		return Relationship{}, err
	}
	if t.IsZero() {
		return Relationship{}, &InvalidArgumentError{Argument: "relationship type", Reason: "must not be zero"}
	}

	id := g.allocate(&record{kind: kindRelationship, start: start.id, end: end.id, relType: t})
	g.relationships = append(g.relationships, id)

	startRec := g.records[start.id]
	startRec.adjacency = append(startRec.adjacency, id)
	if end.id != start.id {
		endRec := g.records[end.id]
		endRec.adjacency = append(endRec.adjacency, id)
	}

	if g.listener != nil {
		g.listener.RelationshipCreated(RelationshipCreated{Graph: g, RelationshipID: id})
	}
	return Relationship{entity{graph: g, id: id}}, nil
}

func (g *Graph) checkOwned(arg string, n Node) error {
	if n.graph == nil {
		return &InvalidArgumentError{Argument: arg, Reason: "zero node"}
	}
	if n.graph != g {
		return &InvalidArgumentError{Argument: arg, Reason: fmt.Sprintf("%s belongs to %s, not %s", n, n.graph, g)}
	}
	return nil
}

func (g *Graph) lookup(id int64) (*record, bool) {
	if id < 0 || id >= int64(len(g.records)) {
		return nil, false
	}
	return g.records[id], true
}

// NodeByID returns the node with the given id. A relationship id is
// reported as not found.
func (g *Graph) NodeByID(id int64) (Node, error) {
	rec, ok := g.lookup(id)
	if !ok || rec.kind != kindNode {
		return Node{}, &NotFoundError{Kind: "node", ID: id}
	}
	return Node{entity{graph: g, id: id}}, nil
}

// RelationshipByID returns the relationship with the given id. A node id is
// reported as not found.
func (g *Graph) RelationshipByID(id int64) (Relationship, error) {
	rec, ok := g.lookup(id)
	if !ok || rec.kind != kindRelationship {
		return Relationship{}, &NotFoundError{Kind: "relationship", ID: id}
	}
	return Relationship{entity{graph: g, id: id}}, nil
}

// EntityByID returns the node or relationship with the given id.
func (g *Graph) EntityByID(id int64) (Entity, error) {
	rec, ok := g.lookup(id)
	if !ok {
		return nil, &NotFoundError{Kind: "entity", ID: id}
	}
	if rec.kind == kindNode {
		return Node{entity{graph: g, id: id}}, nil
	}
	return Relationship{entity{graph: g, id: id}}, nil
}

// Nodes yields the nodes that existed at call time in creation order.
func (g *Graph) Nodes() iter.Seq[Node] {
	ids := g.nodes[:len(g.nodes):len(g.nodes)]
	return func(yield func(Node) bool) {
		for _, id := range ids {
			if !yield(Node{entity{graph: g, id: id}}) {
				return
			}
		}
	}
}

// Relationships yields the relationships that existed at call time in
// creation order.
func (g *Graph) Relationships() iter.Seq[Relationship] {
	ids := g.relationships[:len(g.relationships):len(g.relationships)]
	return func(yield func(Relationship) bool) {
		for _, id := range ids {
			if !yield(Relationship{entity{graph: g, id: id}}) {
				return
			}
		}
	}
}

// NodeCount returns the number of nodes created so far.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// RelationshipCount returns the number of relationships created so far.
func (g *Graph) RelationshipCount() int { return len(g.relationships) }

func (g *Graph) fireLabelAdded(e LabelAdded) {
	if g.listener != nil {
		g.listener.LabelAdded(e)
	}
}

func (g *Graph) firePropertyChanged(e PropertyChanged) {
	if g.listener != nil {
		g.listener.PropertyChanged(e)
	}
}

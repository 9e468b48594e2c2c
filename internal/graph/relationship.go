package graph

import "fmt"

// Relationship is a handle to a directed, typed edge. Its endpoints and type
// are fixed at creation. The zero Relationship is invalid.
type Relationship struct {
	entity
}

var _ Entity = Relationship{}

// StartNode returns the node the relationship leaves from.
func (r Relationship) StartNode() Node {
	return Node{entity{graph: r.graph, id: r.record().start}}
}

// EndNode returns the node the relationship points to.
func (r Relationship) EndNode() Node {
	return Node{entity{graph: r.graph, id: r.record().end}}
}

// Nodes returns the start and end nodes, in that order.
func (r Relationship) Nodes() [2]Node {
	return [2]Node{r.StartNode(), r.EndNode()}
}

// Type returns the relationship type.
func (r Relationship) Type() RelationshipType { return r.record().relType }

// IsType reports whether the relationship has type t.
func (r Relationship) IsType(t RelationshipType) bool { return r.record().relType == t }

// OtherNode returns the endpoint opposite n. For a self-loop that is n itself.
func (r Relationship) OtherNode(n Node) (Node, error) {
	rec := r.record()
	if n.graph != r.graph {
		return Node{}, &InvalidArgumentError{Argument: "node", Reason: fmt.Sprintf("%s is not an endpoint of relationship %d", n, r.id)}
	}
	switch n.id {
	case rec.start:
		return r.EndNode(), nil
	case rec.end:
		return r.StartNode(), nil
	default:
		return Node{}, &InvalidArgumentError{Argument: "node", Reason: fmt.Sprintf("%s is not an endpoint of relationship %d", n, r.id)}
	}
}

func (r Relationship) String() string {
	if r.graph == nil {
		return "relationship(invalid)"
	}
	rec := r.record()
	return fmt.Sprintf("(#%d)-[%s#%d]->(#%d)", rec.start, rec.relType.Name(), r.id, rec.end)
}

// Package topologystore defines the interface for projecting discovered
// model elements into the property graph.
//
// # Why Topology Store Exists
//
// The topology store isolates the **element structure** (which elements exist
// and who owns whom) from the **lifecycle state** managed by nodestore. Every
// element the host realizes becomes one graph node; ownership becomes an
// OWNS relationship from owner to owned element.
//
// # Lifecycle and Usage
//
// The topology store is:
//  1. **Created** once per model session, wrapping a fresh graph.Graph
//  2. **Populated** by the realizer as elements are registered and realized
//  3. **Queried** by reports once discovery reaches its fixed point
//  4. **Discarded** when the session ends
package topologystore

import (
	"context"

	"github.com/vk/modelgraph/internal/discover"
	"github.com/vk/modelgraph/internal/graph"
	"github.com/vk/modelgraph/internal/nodeid"
	"github.com/vk/modelgraph/internal/value"
)

// Relationship and property names used by the projection.
var (
	// Owns links an owner element to an element it owns.
	Owns = graph.RelationshipTypeNamed("OWNS")
)

const (
	PropertyIdentifier = "identifier"
	PropertyType       = "type"
	PropertyName       = "name"
)

// Store is the interface for managing the projected element topology.
//
// # Thread-Safety Requirements
//
// Implementations MUST be thread-safe. The underlying graph.Graph is not, so
// implementations serialize every access to it.
//
// # Typical Implementation
//
// See internal/inmemorytopology for the reference implementation backed by a
// graph.Graph and a sync.RWMutex.
type Store interface {
	// AddElement projects identity as a graph node labelled with its type and
	// every supertype. When parent is non-nil, the parent must already be
	// projected and an OWNS relationship is created from it.
	//
	// Adding an element again returns the existing node. Adding an identifier
	// that is already projected with a different type is an error.
	AddElement(ctx context.Context, identity discover.Identity, parent *discover.Identity) (graph.Node, error)

	// SetProperties writes properties onto a projected element.
	SetProperties(ctx context.Context, identifier nodeid.Address, props map[string]value.Value) error

	// Element returns the node projected for identifier.
	Element(ctx context.Context, identifier nodeid.Address) (graph.Node, bool)

	// AllElements returns every projected node in projection order.
	AllElements(ctx context.Context) []graph.Node

	// ChildrenOf returns the nodes owned by identifier in projection order.
	ChildrenOf(ctx context.Context, identifier nodeid.Address) ([]graph.Node, error)

	// View runs fn with read access to the underlying graph. fn must not
	// mutate the graph or retain it.
	View(ctx context.Context, fn func(g *graph.Graph) error) error
}

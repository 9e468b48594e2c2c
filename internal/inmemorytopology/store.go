package inmemorytopology

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/vk/modelgraph/internal/discover"
	"github.com/vk/modelgraph/internal/graph"
	"github.com/vk/modelgraph/internal/nodeid"
	"github.com/vk/modelgraph/internal/topologystore"
	"github.com/vk/modelgraph/internal/value"
)

// Store implements the topologystore.Store interface on top of a graph.Graph,
// guarded by a mutex for thread-safe concurrent access.
type Store struct {
	mu       sync.RWMutex
	graph    *graph.Graph
	elements map[string]graph.Node // Key: identifier string
	types    map[string]string     // Key: identifier string, Value: type name
}

var _ topologystore.Store = (*Store)(nil)

// New creates a new, empty topology store. opts configure the underlying
// graph, typically to attach listeners.
func New(opts ...graph.Option) *Store {
	return &Store{
		graph:    graph.New(opts...),
		elements: make(map[string]graph.Node),
		types:    make(map[string]string),
	}
}

// AddElement projects an element into the graph.
func (s *Store) AddElement(ctx context.Context, identity discover.Identity, parent *discover.Identity) (graph.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := identity.Identifier.String()
	var owner graph.Node
	if parent != nil {
		p, ok := s.elements[parent.Identifier.String()]
		if !ok {
			return graph.Node{}, fmt.Errorf("owner '%s' of element '%s' not found in topology", parent.Identifier, key)
		}
		owner = p
	}

	n, exists := s.elements[key]
	if exists {
		// Adding the same element twice is not an error, it's idempotent.
		if s.types[key] != identity.Type.Name() {
			return graph.Node{}, fmt.Errorf("element '%s' is already projected as %s, not %s", key, s.types[key], identity.Type.Name())
		}
	} else {
		n = s.graph.CreateNode()
		for _, t := range identity.Type.Lineage() {
			n.AddLabel(graph.LabelNamed(t.Name()))
		}
		props := map[string]value.Value{
			topologystore.PropertyIdentifier: value.String(key),
			topologystore.PropertyType:       value.String(identity.Type.Name()),
			topologystore.PropertyName:       value.String(identity.Identifier.Name()),
		}
		for _, k := range []string{topologystore.PropertyIdentifier, topologystore.PropertyType, topologystore.PropertyName} {
			if _, err := n.Properties().Put(k, props[k]); err != nil {
				return graph.Node{}, err
			}
		}
		s.elements[key] = n
		s.types[key] = identity.Type.Name()
	}

	if parent != nil && !owns(owner, n) {
		if _, err := owner.CreateRelationshipTo(n, topologystore.Owns); err != nil {
			return graph.Node{}, err
		}
	}
	return n, nil
}

func owns(owner, n graph.Node) bool {
	for r := range owner.Relationships(graph.Outgoing, topologystore.Owns) {
		if r.EndNode() == n {
			return true
		}
	}
	return false
}

// SetProperties writes properties onto a projected element in key order.
func (s *Store) SetProperties(ctx context.Context, identifier nodeid.Address, props map[string]value.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.elements[identifier.String()]
	if !ok {
		return fmt.Errorf("element '%s' not found in topology", identifier)
	}
	for _, k := range slices.Sorted(maps.Keys(props)) {
		if _, err := n.Properties().Put(k, props[k]); err != nil {
			return fmt.Errorf("setting property of element '%s': %w", identifier, err)
		}
	}
	return nil
}

// Element retrieves the node projected for identifier.
func (s *Store) Element(ctx context.Context, identifier nodeid.Address) (graph.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.elements[identifier.String()]
	return n, ok
}

// AllElements returns every projected node in projection order.
func (s *Store) AllElements(ctx context.Context) []graph.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]graph.Node, 0, s.graph.NodeCount())
	for n := range s.graph.Nodes() {
		nodes = append(nodes, n)
	}
	return nodes
}

// ChildrenOf returns the nodes owned by identifier.
func (s *Store) ChildrenOf(ctx context.Context, identifier nodeid.Address) ([]graph.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := identifier.String()
	n, ok := s.elements[key]
	if !ok {
		return nil, fmt.Errorf("element '%s' not found in topology", key)
	}

	children := []graph.Node{}
	for r := range n.Relationships(graph.Outgoing, topologystore.Owns) {
		children = append(children, r.EndNode())
	}
	return children, nil
}

// View runs fn under the read lock.
func (s *Store) View(ctx context.Context, fn func(g *graph.Graph) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(s.graph)
}

package graph

import (
	"iter"
	"maps"
	"slices"

	"github.com/vk/modelgraph/internal/value"
)

// Properties is the key/value store of one entity. It is owned by the graph;
// every write is routed through it so that listeners see each change.
type Properties struct {
	graph    *Graph
	entityID int64
	values   map[string]value.Value
}

func newProperties(g *Graph, entityID int64) *Properties {
	return &Properties{graph: g, entityID: entityID, values: make(map[string]value.Value)}
}

// EntityID returns the id of the entity owning these properties.
func (p *Properties) EntityID() int64 { return p.entityID }

// Put stores v under key and returns the previous value, which is null when
// the key was absent. Exactly one PropertyChanged event is fired per
// successful call, including when v equals the previous value.
func (p *Properties) Put(key string, v value.Value) (value.Value, error) {
	if key == "" {
		return value.Value{}, &InvalidArgumentError{Argument: "key", Reason: "must not be empty"}
	}
	if v.IsNull() {
		return value.Value{}, &InvalidArgumentError{Argument: "value", Reason: "null values cannot be stored under key " + key}
	}

	previous := p.values[key]
	p.values[key] = v
	p.graph.firePropertyChanged(PropertyChanged{
		Graph:    p.graph,
		EntityID: p.entityID,
		Key:      key,
		Previous: previous,
		Value:    v,
	})
	return previous, nil
}

// Get returns the value stored under key.
func (p *Properties) Get(key string) (value.Value, error) {
	if key == "" {
		return value.Value{}, &InvalidArgumentError{Argument: "key", Reason: "must not be empty"}
	}
	v, ok := p.values[key]
	if !ok {
		return value.Value{}, &NotFoundError{Kind: "property", ID: p.entityID, Key: key}
	}
	return v, nil
}

// GetOrDefault returns the value stored under key, or def. It panics on an
// empty key.
func (p *Properties) GetOrDefault(key string, def value.Value) value.Value {
	mustKey(key)
	if v, ok := p.values[key]; ok {
		return v
	}
	return def
}

// Has reports whether key is present. It panics on an empty key.
func (p *Properties) Has(key string) bool {
	mustKey(key)
	_, ok := p.values[key]
	return ok
}

// Len returns the number of stored keys.
func (p *Properties) Len() int { return len(p.values) }

// All returns the pairs present at call time, ordered by key. Writes made
// while ranging are not observed.
func (p *Properties) All() iter.Seq2[string, value.Value] {
	keys := slices.Sorted(maps.Keys(p.values))
	snapshot := maps.Clone(p.values)
	return func(yield func(string, value.Value) bool) {
		for _, k := range keys {
			if !yield(k, snapshot[k]) {
				return
			}
		}
	}
}

func mustKey(key string) {
	if key == "" {
		panic("graph: property key must not be empty")
	}
}

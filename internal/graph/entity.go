package graph

import "github.com/vk/modelgraph/internal/value"

// Entity is the behavior shared by Node and Relationship.
type Entity interface {
	ID() int64
	Graph() *Graph
	Properties() *Properties
	SetProperty(key string, v any) (value.Value, error)
	Property(key string) (value.Value, error)
	PropertyOrDefault(key string, def value.Value) value.Value
	HasProperty(key string) bool
}

// entity is the handle embedded in Node and Relationship. It is comparable,
// so handles are equal exactly when they name the same id in the same graph.
type entity struct {
	graph *Graph
	id    int64
}

// ID returns the entity id. It is unique within the owning graph.
func (e entity) ID() int64 { return e.id }

// Graph returns the owning graph.
func (e entity) Graph() *Graph { return e.graph }

func (e entity) record() *record { return e.graph.records[e.id] }

// Properties returns the entity's property store.
func (e entity) Properties() *Properties { return e.record().props }

// SetProperty converts v with value.Of and stores it under key.
func (e entity) SetProperty(key string, v any) (value.Value, error) {
	val, err := value.Of(v)
	if err != nil {
		return value.Value{}, &InvalidArgumentError{Argument: "value", Reason: "unsupported property value for key " + key, Err: err}
	}
	return e.Properties().Put(key, val)
}

func (e entity) Property(key string) (value.Value, error) {
	return e.Properties().Get(key)
}

func (e entity) PropertyOrDefault(key string, def value.Value) value.Value {
	return e.Properties().GetOrDefault(key, def)
}

func (e entity) HasProperty(key string) bool {
	return e.Properties().Has(key)
}

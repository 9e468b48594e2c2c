package discover

import (
	"github.com/vk/modelgraph/internal/modeltype"
	"github.com/vk/modelgraph/internal/nodeid"
)

// Identity names a model element: where it lives and what it is.
type Identity struct {
	Identifier nodeid.Address
	Type       *modeltype.Type
}

// NewIdentity is a convenience constructor.
func NewIdentity(identifier nodeid.Address, t *modeltype.Type) Identity {
	return Identity{Identifier: identifier, Type: t}
}

// Key returns a string unique to the identifier and type pair, suitable as a
// map key.
func (id Identity) Key() string {
	return id.Identifier.String() + ":" + id.Type.Name()
}

// Equal reports whether both identities have the same identifier and type.
func (id Identity) Equal(other Identity) bool {
	return id.Type == other.Type && id.Identifier.Equal(other.Identifier)
}

func (id Identity) String() string {
	return id.Identifier.String() + " (" + id.Type.Name() + ")"
}

// LifecycleOracle answers lifecycle questions about elements. It is
// implemented by the host that realizes and finalizes elements.
type LifecycleOracle interface {
	IsRealized(Identity) bool
	IsFinalized(Identity) bool
}

// OracleFuncs adapts two functions to a LifecycleOracle. A nil function
// answers false.
type OracleFuncs struct {
	Realized  func(Identity) bool
	Finalized func(Identity) bool
}

func (o OracleFuncs) IsRealized(id Identity) bool {
	return o.Realized != nil && o.Realized(id)
}

func (o OracleFuncs) IsFinalized(id Identity) bool {
	return o.Finalized != nil && o.Finalized(id)
}

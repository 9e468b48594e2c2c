package modeltype

import (
	"fmt"
	"slices"
)

// Universe is a closed, validated set of types.
type Universe struct {
	byName  map[string]*Type
	ordered []*Type
}

// Lookup returns the type with the given name.
func (u *Universe) Lookup(name string) (*Type, bool) {
	t, ok := u.byName[name]
	return t, ok
}

// MustLookup is like Lookup but panics when the type is unknown.
func (u *Universe) MustLookup(name string) *Type {
	t, ok := u.byName[name]
	if !ok {
		panic(fmt.Sprintf("modeltype: unknown type %q", name))
	}
	return t
}

// Types returns every type, each after all of its supertypes.
func (u *Universe) Types() []*Type {
	return slices.Clone(u.ordered)
}

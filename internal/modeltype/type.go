// Package modeltype declares the type hierarchy of model elements.
//
// Types are plain data: a name and a list of supertypes, declared once at
// startup through a Builder. Every type is a subtype of Object. Project is
// the fixed type of the discovery root.
package modeltype

import "slices"

// Type is a node of the model type hierarchy. Types compare by pointer.
type Type struct {
	name       string
	supertypes []*Type
	// lineage is every supertype, transitively, followed by the type itself,
	// ordered supertype-first.
	lineage []*Type
}

var (
	// Object is the supertype of every type.
	Object = &Type{name: "Object"}
	// Project is the type of the root element seeded into discovery.
	Project = &Type{name: "Project", supertypes: []*Type{Object}}
)

func init() {
	Object.lineage = []*Type{Object}
	Project.lineage = []*Type{Object, Project}
}

// Name returns the declared type name.
func (t *Type) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

func (t *Type) String() string { return t.Name() }

// Supertypes returns the direct supertypes in declaration order.
func (t *Type) Supertypes() []*Type {
	return slices.Clone(t.supertypes)
}

// Lineage returns t and all of its supertypes, supertypes first. Object is
// always the first element.
func (t *Type) Lineage() []*Type {
	return slices.Clone(t.lineage)
}

// IsSubtypeOf reports whether t is other or inherits from it.
func (t *Type) IsSubtypeOf(other *Type) bool {
	if t == nil || other == nil {
		return false
	}
	return slices.Contains(t.lineage, other)
}

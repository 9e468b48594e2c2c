package config

import (
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified, format-agnostic representation of a model
// description: the types it declares, how elements of those types are
// discovered, and the elements known up front.
type Model struct {
	// Project names the root element. Empty means the default root.
	Project       string
	Types         []*TypeDecl
	Discoverables []*DiscoverableDecl
	Selections    []*SelectionDecl
	Elements      []*ElementDecl
}

// TypeDecl declares a model type and its direct supertypes.
type TypeDecl struct {
	Name    string
	Extends []string
}

// DiscoverableDecl lists the elements every instance of Type owns.
type DiscoverableDecl struct {
	Type     string
	Elements []*DiscoverableElementDecl
}

// DiscoverableElementDecl is one owned element. Scope is "registered" or
// "realized"; empty means registered.
type DiscoverableElementDecl struct {
	Name  string
	Type  string
	Scope string
}

// SelectionDecl maps identifier patterns to element types for elements
// whose type is only known once their name is.
type SelectionDecl struct {
	Type  string
	Cases []*CaseDecl
}

// CaseDecl is one arm of a SelectionDecl.
type CaseDecl struct {
	Name  string
	Match string
	Type  string
}

// ElementDecl is an element registered before discovery starts.
type ElementDecl struct {
	Identifier string
	Type       string
	Properties map[string]cty.Value
}

// Merge appends the declarations of other to m. A non-empty Project in
// other replaces the one in m.
func (m *Model) Merge(other *Model) {
	if other == nil {
		return
	}
	if other.Project != "" {
		m.Project = other.Project
	}
	m.Types = append(m.Types, other.Types...)
	m.Discoverables = append(m.Discoverables, other.Discoverables...)
	m.Selections = append(m.Selections, other.Selections...)
	m.Elements = append(m.Elements, other.Elements...)
}

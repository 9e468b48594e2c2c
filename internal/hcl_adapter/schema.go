package hcl_adapter

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Projects      []*Project      `hcl:"project,block"`
	Types         []*Type         `hcl:"type,block"`
	Discoverables []*Discoverable `hcl:"discoverable,block"`
	Selections    []*Select       `hcl:"select,block"`
	Elements      []*Element      `hcl:"element,block"`
	Remain        hcl.Body        `hcl:",remain"`
}

// Project represents a `project "name" {}` block naming the root element.
type Project struct {
	Name   string   `hcl:"name,label"`
	Remain hcl.Body `hcl:",remain"`
}

// Type represents a `type "Name" {}` block declaring a model type.
type Type struct {
	Name    string   `hcl:"name,label"`
	Extends []string `hcl:"extends,optional"`
}

// Discoverable represents a `discoverable "Type" {}` block listing the
// elements owned by every instance of the type.
type Discoverable struct {
	Type     string                 `hcl:"type,label"`
	Elements []*DiscoverableElement `hcl:"element,block"`
}

// DiscoverableElement is an `element "name" {}` block nested in a
// discoverable block.
type DiscoverableElement struct {
	Name  string `hcl:"name,label"`
	Type  string `hcl:"type"`
	Scope string `hcl:"scope,optional"`
}

// Select represents a `select "Type" {}` block.
type Select struct {
	Type  string  `hcl:"type,label"`
	Cases []*Case `hcl:"case,block"`
}

// Case is a `case "name" {}` block nested in a select block.
type Case struct {
	Name  string `hcl:"name,label"`
	Match string `hcl:"match,optional"`
	Type  string `hcl:"type"`
}

// Element represents a top-level `element "a.b" {}` block registering an
// element before discovery.
type Element struct {
	Identifier string         `hcl:"identifier,label"`
	Type       string         `hcl:"type"`
	Properties hcl.Expression `hcl:"properties,optional"`
}

// Package component declares the native software component vocabulary:
// components, libraries and applications, their source sets, variants and
// the binaries and tasks those produce.
package component

import (
	"github.com/vk/modelgraph/internal/config"
	"github.com/vk/modelgraph/internal/registry"
)

// Type names declared by this module.
const (
	Component   = "Component"
	Library     = "Library"
	Application = "Application"
	SourceSet   = "SourceSet"
	Variant     = "Variant"
	Binary      = "Binary"
	Task        = "Task"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register declares the types and their discoverable elements.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterType(Component)
	r.RegisterType(Library, Component)
	r.RegisterType(Application, Component)
	r.RegisterType(SourceSet)
	r.RegisterType(Variant)
	r.RegisterType(Binary)
	r.RegisterType(Task)

	r.RegisterDiscoverable(Component,
		&config.DiscoverableElementDecl{Name: "sources", Type: SourceSet},
		&config.DiscoverableElementDecl{Name: "assemble", Type: Task},
	)
	r.RegisterDiscoverable(Library,
		&config.DiscoverableElementDecl{Name: "debug", Type: Variant, Scope: "realized"},
		&config.DiscoverableElementDecl{Name: "release", Type: Variant, Scope: "realized"},
	)
	r.RegisterDiscoverable(Application,
		&config.DiscoverableElementDecl{Name: "main", Type: Variant, Scope: "realized"},
	)
	r.RegisterDiscoverable(Variant,
		&config.DiscoverableElementDecl{Name: "compile", Type: Task},
	)
	r.RegisterSelection(Variant,
		&config.CaseDecl{Name: "executable", Match: "*.main", Type: Binary},
		&config.CaseDecl{Name: "sharedLibrary", Match: "*", Type: Binary},
	)
}

// Package testsuite declares test suites, which are components that own a
// test task once realized.
package testsuite

import (
	"github.com/vk/modelgraph/internal/config"
	"github.com/vk/modelgraph/internal/registry"
	"github.com/vk/modelgraph/modules/component"
)

// TestSuite is the type name declared by this module.
const TestSuite = "TestSuite"

// Module implements the registry.Module interface for this package. It
// depends on the types of the component module.
type Module struct{}

func (m *Module) Register(r *registry.Registry) {
	r.RegisterType(TestSuite, component.Component)
	r.RegisterDiscoverable(TestSuite,
		&config.DiscoverableElementDecl{Name: "test", Type: component.Task, Scope: "realized"},
	)
}

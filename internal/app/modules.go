package app

import (
	"github.com/vk/modelgraph/internal/registry"
	"github.com/vk/modelgraph/modules/component"
	"github.com/vk/modelgraph/modules/testsuite"
)

// coreModules is the definitive list of all modules that are compiled into
// the modelgraph binary.
var coreModules = []registry.Module{
	&component.Module{},
	&testsuite.Module{},
}

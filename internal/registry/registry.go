package registry

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/hashicorp/go-multierror"

	"github.com/vk/modelgraph/internal/config"
)

// Module is the interface that all core modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds every type, discoverable and selection declaration for a
// single application instance.
type Registry struct {
	types         []*config.TypeDecl
	typeIndex     map[string]*config.TypeDecl
	discoverables []*config.DiscoverableDecl
	selections    []*config.SelectionDecl
}

// New creates and initializes a new Registry instance, registering modules
// in order.
func New(modules ...Module) *Registry {
	r := &Registry{typeIndex: make(map[string]*config.TypeDecl)}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// RegisterType declares a type. Declaring the same type again with the same
// supertypes is a no-op; a conflicting declaration panics.
func (r *Registry) RegisterType(name string, supertypes ...string) {
	if err := r.declareType(&config.TypeDecl{Name: name, Extends: supertypes}); err != nil {
		panic(err.Error())
	}
}

// RegisterDiscoverable declares elements owned by every instance of typeName.
func (r *Registry) RegisterDiscoverable(typeName string, elements ...*config.DiscoverableElementDecl) {
	slog.Debug("Registering discoverable.", "type", typeName, "elements", len(elements))
	r.discoverables = append(r.discoverables, &config.DiscoverableDecl{Type: typeName, Elements: elements})
}

// RegisterSelection declares the cases instances of typeName choose from.
func (r *Registry) RegisterSelection(typeName string, cases ...*config.CaseDecl) {
	slog.Debug("Registering selection.", "type", typeName, "cases", len(cases))
	r.selections = append(r.selections, &config.SelectionDecl{Type: typeName, Cases: cases})
}

// PopulateFromModel copies the declarations of a loaded config model into
// the registry. Every conflicting type declaration is reported.
func (r *Registry) PopulateFromModel(model *config.Model) error {
	var errs *multierror.Error
	for _, t := range model.Types {
		if err := r.declareType(t); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	r.discoverables = append(r.discoverables, model.Discoverables...)
	r.selections = append(r.selections, model.Selections...)
	return errs.ErrorOrNil()
}

func (r *Registry) declareType(decl *config.TypeDecl) error {
	if existing, ok := r.typeIndex[decl.Name]; ok {
		if !slices.Equal(existing.Extends, decl.Extends) {
			return fmt.Errorf("type '%s' already registered with supertypes %v, cannot redeclare with %v", decl.Name, existing.Extends, decl.Extends)
		}
		return nil
	}
	slog.Debug("Registering type.", "name", decl.Name, "extends", decl.Extends)
	r.types = append(r.types, decl)
	r.typeIndex[decl.Name] = decl
	return nil
}

// TypeNames returns the declared type names in registration order.
func (r *Registry) TypeNames() []string {
	names := make([]string, 0, len(r.types))
	for _, t := range r.types {
		names = append(names, t.Name)
	}
	return names
}

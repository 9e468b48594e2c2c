package modeltype

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/vk/modelgraph/internal/dag"
)

type declaration struct {
	name       string
	supertypes []string
}

// Builder collects type declarations. The zero Builder is ready to use.
type Builder struct {
	decls []declaration
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder { return &Builder{} }

// Declare adds a type named name extending the given supertypes. A type
// with no supertypes extends Object. Supertypes may be declared later.
func (b *Builder) Declare(name string, supertypes ...string) *Builder {
	b.decls = append(b.decls, declaration{name: name, supertypes: supertypes})
	return b
}

// Build validates every declaration and links the hierarchy. All problems
// found are reported together.
func (b *Builder) Build() (*Universe, error) {
	var result *multierror.Error

	known := map[string]bool{Object.name: true, Project.name: true}
	for _, d := range b.decls {
		switch {
		case d.name == "":
			result = multierror.Append(result, errors.New("type name must not be empty"))
		case known[d.name]:
			result = multierror.Append(result, fmt.Errorf("type %q is declared more than once", d.name))
		default:
			known[d.name] = true
		}
	}
	for _, d := range b.decls {
		for _, s := range d.supertypes {
			if !known[s] {
				result = multierror.Append(result, fmt.Errorf("type %q extends unknown type %q", d.name, s))
			}
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	g := dag.New()
	g.AddNode(Object.name)
	g.AddNode(Project.name)
	for _, d := range b.decls {
		g.AddNode(d.name)
	}
	for _, d := range b.decls {
		for _, s := range d.supertypes {
			if s == d.name {
				return nil, fmt.Errorf("type %q extends itself", d.name)
			}
			if err := g.AddEdge(s, d.name); err != nil {
				return nil, err
			}
		}
	}
	order, err := g.TopologicalSort()
	if err != nil {
		var cycleErr *dag.CycleError
		if errors.As(err, &cycleErr) {
			return nil, fmt.Errorf("inheritance cycle through type %q", cycleErr.Node)
		}
		return nil, err
	}

	u := &Universe{byName: map[string]*Type{Object.name: Object, Project.name: Project}}
	supers := make(map[string][]string, len(b.decls))
	for _, d := range b.decls {
		supers[d.name] = d.supertypes
		u.byName[d.name] = &Type{name: d.name}
	}
	for _, name := range order {
		t := u.byName[name]
		u.ordered = append(u.ordered, t)
		if t == Object || t == Project {
			continue
		}
		if len(supers[name]) == 0 {
			t.supertypes = []*Type{Object}
		}
		for _, s := range supers[name] {
			t.supertypes = append(t.supertypes, u.byName[s])
		}
	}
	// Lineages follow the global order so ties are resolved the same way for
	// every type.
	for _, t := range u.ordered {
		if t == Object || t == Project {
			continue
		}
		ancestors := map[*Type]bool{t: true}
		for _, s := range t.supertypes {
			for _, a := range s.lineage {
				ancestors[a] = true
			}
		}
		for _, candidate := range u.ordered {
			if ancestors[candidate] {
				t.lineage = append(t.lineage, candidate)
			}
		}
	}
	return u, nil
}

package registry

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/vk/modelgraph/internal/config"
	"github.com/vk/modelgraph/internal/ctxlog"
	"github.com/vk/modelgraph/internal/discover"
	"github.com/vk/modelgraph/internal/modeltype"
	"github.com/vk/modelgraph/internal/nodeid"
)

// Catalog is the validated result of a registry build.
type Catalog struct {
	Universe *modeltype.Universe
	Strategy *discover.Strategy
	// Service answers discovery rules per type, memoized.
	Service discover.Service
}

// Build validates every declaration and produces the type universe and the
// discovery service. All validation failures are reported together.
func (r *Registry) Build(ctx context.Context) (*Catalog, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Building registry.", "types", len(r.types), "discoverables", len(r.discoverables), "selections", len(r.selections))

	b := modeltype.NewBuilder()
	for _, t := range r.types {
		b.Declare(t.Name, t.Extends...)
	}
	universe, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("registry validation failed: %w", err)
	}

	var errs *multierror.Error
	strategy := discover.NewStrategy()

	for _, d := range r.discoverables {
		owner, ok := universe.Lookup(d.Type)
		if !ok {
			errs = multierror.Append(errs, fmt.Errorf("discoverable: unknown type '%s'", d.Type))
			continue
		}
		disc := discover.Discoverable{Type: owner}
		for _, e := range d.Elements {
			el, err := resolveElement(universe, d.Type, e)
			if err != nil {
				errs = multierror.Append(errs, err)
				continue
			}
			disc.Elements = append(disc.Elements, el)
		}
		strategy.Register(disc)
	}

	for _, s := range r.selections {
		owner, ok := universe.Lookup(s.Type)
		if !ok {
			errs = multierror.Append(errs, fmt.Errorf("select: unknown type '%s'", s.Type))
			continue
		}
		sel := discover.Selection{Type: owner}
		for _, c := range s.Cases {
			cs, err := resolveCase(universe, s.Type, c)
			if err != nil {
				errs = multierror.Append(errs, err)
				continue
			}
			sel.Cases = append(sel.Cases, cs)
		}
		strategy.RegisterSelection(sel)
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("registry validation failed: %w", err)
	}

	logger.Info("Registry built successfully.", "types", len(universe.Types()))
	return &Catalog{
		Universe: universe,
		Strategy: strategy,
		Service:  discover.Cached(strategy),
	}, nil
}

func resolveElement(u *modeltype.Universe, owner string, e *config.DiscoverableElementDecl) (discover.DiscoverableElement, error) {
	if e.Name == "" {
		return discover.DiscoverableElement{}, fmt.Errorf("discoverable '%s': element name must not be empty", owner)
	}
	if err := checkElementName(e.Name); err != nil {
		return discover.DiscoverableElement{}, fmt.Errorf("discoverable '%s', element '%s': %w", owner, e.Name, err)
	}
	t, ok := u.Lookup(e.Type)
	if !ok {
		return discover.DiscoverableElement{}, fmt.Errorf("discoverable '%s', element '%s': unknown type '%s'", owner, e.Name, e.Type)
	}
	scope, err := discover.ParseScope(e.Scope)
	if err != nil {
		return discover.DiscoverableElement{}, fmt.Errorf("discoverable '%s', element '%s': %w", owner, e.Name, err)
	}
	return discover.DiscoverableElement{Name: e.Name, Type: t, Scope: scope}, nil
}

func resolveCase(u *modeltype.Universe, owner string, c *config.CaseDecl) (discover.Case, error) {
	if c.Name == "" {
		return discover.Case{}, fmt.Errorf("select '%s': case name must not be empty", owner)
	}
	if err := checkElementName(c.Name); err != nil {
		return discover.Case{}, fmt.Errorf("select '%s', case '%s': %w", owner, c.Name, err)
	}
	t, ok := u.Lookup(c.Type)
	if !ok {
		return discover.Case{}, fmt.Errorf("select '%s', case '%s': unknown type '%s'", owner, c.Name, c.Type)
	}
	pattern := c.Match
	if pattern == "" {
		pattern = "*"
	}
	return discover.Case{Match: discover.MatchPattern(pattern), Name: c.Name, Type: t}, nil
}

// checkElementName requires name to be exactly one unindexed identifier
// segment. Emitted candidates append it to their owner's identifier as is.
func checkElementName(name string) error {
	addr, err := nodeid.Parse(name)
	if err != nil {
		return fmt.Errorf("invalid element name: %w", err)
	}
	if addr.Len() != 1 || addr.Path[0].HasIndex() {
		return fmt.Errorf("invalid element name: %q must be a single segment without an index", name)
	}
	return nil
}

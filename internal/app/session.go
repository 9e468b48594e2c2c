package app

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/hashicorp/go-multierror"

	"github.com/vk/modelgraph/internal/config"
	"github.com/vk/modelgraph/internal/discover"
	"github.com/vk/modelgraph/internal/graph"
	"github.com/vk/modelgraph/internal/inmemorystore"
	"github.com/vk/modelgraph/internal/inmemorytopology"
	"github.com/vk/modelgraph/internal/nodeid"
	"github.com/vk/modelgraph/internal/nodestore"
	"github.com/vk/modelgraph/internal/topologystore"
	"github.com/vk/modelgraph/internal/value"
)

// DefaultProject names the root element of a model without a project block.
const DefaultProject = "root"

// Element properties written while elements move through their lifecycle.
const (
	propertyRealized  = "realized"
	propertyFinalized = "finalized"
)

// session is the state of one discovery run. It is the discover.Realizer of
// its engine: realizing an element records it in the lifecycle store,
// projects it into the topology and registers the elements it owns.
type session struct {
	logger    *slog.Logger
	engine    *discover.Engine
	lifecycle nodestore.Store
	topology  topologystore.Store
	root      discover.Identity
	projected map[string]discover.Identity // Key: identifier string
}

var _ discover.Realizer = (*session)(nil)

func (a *App) newSession(ctx context.Context) (*session, error) {
	metrics, err := graph.MetricsListener()
	if err != nil {
		return nil, fmt.Errorf("failed to create graph metrics: %w", err)
	}

	rootName := cmp.Or(a.model.Project, DefaultProject)
	rootAddr, err := nodeid.Parse(rootName)
	if err != nil {
		return nil, fmt.Errorf("invalid project name: %w", err)
	}

	lifecycle := inmemorystore.New()
	s := &session{
		logger:    a.logger,
		lifecycle: lifecycle,
		topology: inmemorytopology.New(
			graph.WithListener(graph.LoggingListener(a.logger)),
			graph.WithListener(metrics),
		),
		engine: discover.NewEngine(rootAddr, a.catalog.Service, lifecycle,
			discover.WithMaxDepth(a.config.MaxDepth),
			discover.WithLogger(a.logger),
		),
		projected: make(map[string]discover.Identity),
	}
	s.root = s.engine.Root()

	if err := s.project(ctx, s.root, nil); err != nil {
		return nil, err
	}
	if err := s.markRealized(ctx, s.root); err != nil {
		return nil, err
	}
	if err := s.seed(ctx, a); err != nil {
		return nil, err
	}
	a.logger.Debug("Session created.", "root", rootName, "elements", len(s.projected))
	return s, nil
}

// seed registers the elements declared by the model, owners first.
func (s *session) seed(ctx context.Context, a *App) error {
	type seedElement struct {
		decl *config.ElementDecl
		addr nodeid.Address
	}

	var errs *multierror.Error
	var elements []seedElement
	for _, decl := range a.model.Elements {
		addr, err := nodeid.Parse(decl.Identifier)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("element '%s': %w", decl.Identifier, err))
			continue
		}
		elements = append(elements, seedElement{decl: decl, addr: addr})
	}
	slices.SortStableFunc(elements, func(x, y seedElement) int { return x.addr.Len() - y.addr.Len() })

	for _, el := range elements {
		t, ok := a.catalog.Universe.Lookup(el.decl.Type)
		if !ok {
			errs = multierror.Append(errs, fmt.Errorf("element '%s': unknown type '%s'", el.decl.Identifier, el.decl.Type))
			continue
		}
		id := discover.NewIdentity(el.addr, t)
		s.engine.Discover(id)
		if err := s.project(ctx, id, s.ownerOf(id)); err != nil {
			errs = multierror.Append(errs, err)
			continue
		}

		props := make(map[string]value.Value, len(el.decl.Properties))
		for k, cv := range el.decl.Properties {
			v, err := value.FromCty(cv)
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("element '%s', property '%s': %w", el.decl.Identifier, k, err))
				continue
			}
			props[k] = v
		}
		if err := s.topology.SetProperties(ctx, id.Identifier, props); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

// ownerOf returns the closest projected ancestor of id, the root when there
// is none, and nil for the root itself.
func (s *session) ownerOf(id discover.Identity) *discover.Identity {
	if id.Equal(s.root) {
		return nil
	}
	for addr, ok := id.Identifier.Parent(); ok; addr, ok = addr.Parent() {
		if owner, found := s.projected[addr.String()]; found {
			return &owner
		}
	}
	root := s.root
	return &root
}

func (s *session) project(ctx context.Context, id discover.Identity, owner *discover.Identity) error {
	if _, err := s.topology.AddElement(ctx, id, owner); err != nil {
		return err
	}
	if err := s.lifecycle.MarkDiscovered(ctx, id); err != nil {
		return err
	}
	s.projected[id.Identifier.String()] = id
	return nil
}

func (s *session) markRealized(ctx context.Context, id discover.Identity) error {
	if err := s.lifecycle.MarkRealized(ctx, id); err != nil {
		return err
	}
	return s.topology.SetProperties(ctx, id.Identifier, map[string]value.Value{propertyRealized: value.Bool(true)})
}

// Realize implements discover.Realizer. The direct children that waited
// only on target become known elements owned by it.
func (s *session) Realize(ctx context.Context, target discover.Identity) error {
	candidates, err := s.engine.Candidates(ctx)
	if err != nil {
		return err
	}

	if _, ok := s.projected[target.Identifier.String()]; !ok {
		if err := s.project(ctx, target, s.ownerOf(target)); err != nil {
			return err
		}
	}
	if err := s.markRealized(ctx, target); err != nil {
		return err
	}
	s.engine.Discover(target)

	products := 0
	for _, c := range candidates {
		if !isProductOf(c, target) {
			continue
		}
		id := c.Identity()
		s.engine.Discover(id)
		if err := s.project(ctx, id, &target); err != nil {
			return err
		}
		products++
	}
	s.logger.Debug("Element realized.", "identity", target.String(), "products", products)
	return nil
}

// isProductOf reports whether c is a direct child of target that waited
// only on target's realization.
func isProductOf(c *discover.CandidateElement, target discover.Identity) bool {
	actions := c.Actions()
	if len(actions) != 1 || actions[0].Act != discover.Realize || !actions[0].Target.Identity().Equal(target) {
		return false
	}
	parent, ok := c.Identifier().Parent()
	return ok && parent.Equal(target.Identifier)
}

// finalizeAll finalizes, pass after pass, the realized elements whose
// finalize rules still have work to do.
func (s *session) finalizeAll(ctx context.Context, a *App) error {
	for _, t := range a.catalog.Universe.Types() {
		s.engine.OnFinalized(t)
	}

	for pass := 1; ; pass++ {
		candidates, err := s.engine.Candidates(ctx)
		if err != nil {
			return err
		}

		var targets []discover.Identity
		seen := make(map[string]bool)
		for _, c := range candidates {
			for _, action := range c.Actions() {
				if action.Act != discover.Finalize {
					continue
				}
				id := action.Target.Identity()
				if seen[id.Key()] {
					continue
				}
				seen[id.Key()] = true
				status, err := s.lifecycle.Status(ctx, id)
				if err != nil {
					return err
				}
				if status == nodestore.StatusRealized {
					targets = append(targets, id)
				}
			}
		}
		if len(targets) == 0 {
			s.logger.Debug("All elements finalized.", "passes", pass)
			return nil
		}

		for _, id := range targets {
			if err := s.lifecycle.MarkFinalized(ctx, id); err != nil {
				return err
			}
			if err := s.topology.SetProperties(ctx, id.Identifier, map[string]value.Value{propertyFinalized: value.Bool(true)}); err != nil {
				return err
			}
			s.logger.Debug("Element finalized.", "identity", id.String(), "pass", pass)
		}
	}
}

package discover

import (
	"context"
	"log/slog"
	"slices"

	"github.com/vk/modelgraph/internal/ctxlog"
	"github.com/vk/modelgraph/internal/modeltype"
	"github.com/vk/modelgraph/internal/nodeid"
)

// DefaultMaxDepth bounds how deep a single expansion may nest.
const DefaultMaxDepth = 64

// Realizer materializes an element. It is implemented by the host and is
// expected to make the element realized in the engine's LifecycleOracle and
// to register whatever the element owns with Engine.Discover.
type Realizer interface {
	Realize(ctx context.Context, identity Identity) error
}

// RealizerFunc adapts a function to a Realizer.
type RealizerFunc func(ctx context.Context, identity Identity) error

func (f RealizerFunc) Realize(ctx context.Context, identity Identity) error { return f(ctx, identity) }

// Engine holds the rule set of one project and expands it on demand.
type Engine struct {
	root     nodeid.Address
	service  Service
	oracle   LifecycleOracle
	maxDepth int
	logger   *slog.Logger

	rules []Rule
	// wrappers makes wrapping the same rule twice return the same wrapper,
	// so that repeated callbacks do not grow the rule set.
	wrappers map[wrapperKey]Rule
}

type wrapperKey struct {
	kind  string
	inner Rule
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxDepth overrides DefaultMaxDepth. Values below one are ignored.
func WithMaxDepth(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxDepth = n
		}
	}
}

// WithLogger sets the logger. Without it the logger is taken from the
// context of each call.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine returns an engine whose expansions start at a known Project
// candidate identified by root.
func NewEngine(root nodeid.Address, service Service, oracle LifecycleOracle, opts ...Option) *Engine {
	e := &Engine{
		root:     root,
		service:  service,
		oracle:   oracle,
		maxDepth: DefaultMaxDepth,
		wrappers: make(map[wrapperKey]Rule),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) log(ctx context.Context) *slog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return ctxlog.FromContext(ctx)
}

// Root returns the identity of the root candidate.
func (e *Engine) Root() Identity { return Identity{Identifier: e.root, Type: modeltype.Project} }

// Rules returns a copy of the rule set in insertion order.
func (e *Engine) Rules() []Rule { return slices.Clone(e.rules) }

// AddRule adds r unless an equal rule is already present. It reports whether
// r was added.
func (e *Engine) AddRule(r Rule) bool {
	if slices.Contains(e.rules, r) {
		return false
	}
	e.rules = append(e.rules, r)
	return true
}

// Discover registers identity as known. It is reported by every later
// expansion.
func (e *Engine) Discover(identity Identity) {
	for _, r := range e.rules {
		if kr, ok := r.(*KnownElementRule); ok && kr.Identity.Equal(identity) {
			return
		}
	}
	e.rules = append(e.rules, NewKnownElementRule(identity))
}

// IsKnown reports whether identity was registered with Discover.
func (e *Engine) IsKnown(identity Identity) bool {
	for _, r := range e.rules {
		if kr, ok := r.(*KnownElementRule); ok && kr.Identity.Equal(identity) {
			return true
		}
	}
	return false
}

// OnKnown adds the rules of t unchanged.
func (e *Engine) OnKnown(t *modeltype.Type) {
	for _, r := range e.service.Discover(t) {
		e.AddRule(e.wrap("known", r, func() Rule { return NewKnownRule(r) }))
	}
}

// OnRealized adds the rules of t gated on their candidate not being realized.
func (e *Engine) OnRealized(t *modeltype.Type) {
	for _, r := range e.service.Discover(t) {
		inner := unwrapLifecycle(r)
		e.AddRule(e.wrap("realize", inner, func() Rule { return NewRealizeRule(inner) }))
	}
}

// OnFinalized adds the rules of t gated on their candidate not being finalized.
func (e *Engine) OnFinalized(t *modeltype.Type) {
	for _, r := range e.service.Discover(t) {
		inner := unwrapLifecycle(r)
		e.AddRule(e.wrap("finalize", inner, func() Rule { return NewFinalizeRule(inner) }))
	}
}

func (e *Engine) wrap(kind string, inner Rule, build func() Rule) Rule {
	key := wrapperKey{kind: kind, inner: inner}
	if w, ok := e.wrappers[key]; ok {
		return w
	}
	w := build()
	e.wrappers[key] = w
	return w
}

// Candidates expands the rule set from the root and returns every distinct
// candidate in emission order, the root first. The root is expanded with the
// engine's rules plus the service rules of modeltype.Project.
func (e *Engine) Candidates(ctx context.Context) ([]*CandidateElement, error) {
	w := newWalker(ctx, e)
	root := NewCandidateElement(e.root, modeltype.Project, true, e.oracle, nil, nil)
	if err := w.list(root, w.withService(e.rules, modeltype.Project), 0); err != nil {
		recordPass(ctx, len(w.result), err)
		return nil, err
	}
	recordPass(ctx, len(w.result), nil)
	e.log(ctx).Debug("Discovery pass complete.", "root", e.root.String(), "rules", len(e.rules), "candidates", len(w.result))
	return w.result, nil
}

// FindAll returns the candidates whose type is a subtype of t.
func (e *Engine) FindAll(ctx context.Context, t *modeltype.Type) ([]*CandidateElement, error) {
	all, err := e.Candidates(ctx)
	if err != nil {
		return nil, err
	}
	var out []*CandidateElement
	for _, c := range all {
		if c.Type().IsSubtypeOf(t) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Find returns the candidates of a subtype of t identified by fqn. A
// candidate whose identifier contains `*` matches every fqn it covers.
func (e *Engine) Find(ctx context.Context, fqn nodeid.Address, t *modeltype.Type) ([]*CandidateElement, error) {
	all, err := e.FindAll(ctx, t)
	if err != nil {
		return nil, err
	}
	var out []*CandidateElement
	for _, c := range all {
		id := c.Identifier()
		if id.HasWildcard() {
			if id.MatchesAddress(fqn) {
				out = append(out, c)
			}
		} else if id.Equal(fqn) {
			out = append(out, c)
		}
	}
	return out, nil
}

func firstRealize(c *CandidateElement) (Identity, bool) {
	a, ok := c.FirstAction()
	if !ok || a.Act != Realize || a.Target == nil {
		return Identity{}, false
	}
	return a.Target.Identity(), true
}

// DiscoverAll realizes, pass after pass, the elements that candidates of
// type t are waiting on, until no candidate of type t waits for a
// realization. Each element is realized at most once per call. Targets that
// were already realized are skipped; a pass in which every target was skipped
// fails with a CycleDetectedError.
func (e *Engine) DiscoverAll(ctx context.Context, t *modeltype.Type, realizer Realizer) error {
	logger := e.log(ctx)
	attempted := make(map[string]bool)
	for pass := 1; ; pass++ {
		candidates, err := e.FindAll(ctx, t)
		if err != nil {
			return err
		}

		var targets []Identity
		seen := make(map[string]bool)
		for _, c := range candidates {
			target, ok := firstRealize(c)
			if !ok || seen[target.Key()] {
				continue
			}
			seen[target.Key()] = true
			targets = append(targets, target)
		}
		if len(targets) == 0 {
			logger.Debug("All elements discovered.", "type", t.Name(), "passes", pass)
			return nil
		}

		realized := 0
		for _, target := range targets {
			if attempted[target.Key()] || e.oracle.IsRealized(target) {
				logger.Debug("Skipping realized element.", "identity", target.String(), "pass", pass)
				continue
			}
			attempted[target.Key()] = true
			logger.Debug("Realizing element.", "identity", target.String(), "pass", pass)
			if err := realizer.Realize(ctx, target); err != nil {
				return err
			}
			realized++
		}
		if realized == 0 {
			recordCycle(ctx)
			return &CycleDetectedError{Identity: targets[0], Reason: "candidates still wait on elements that were already realized"}
		}
	}
}

// Resolve realizes along the provenance chain until an element identified by
// fqn with a subtype of t is known. It reports whether one became known.
func (e *Engine) Resolve(ctx context.Context, fqn nodeid.Address, t *modeltype.Type, realizer Realizer) (bool, error) {
	realized := make(map[string]bool)
	for !e.hasKnown(fqn, t) {
		candidates, err := e.Find(ctx, fqn, t)
		if err != nil {
			return false, err
		}

		var target Identity
		found := false
		for _, c := range candidates {
			if target, found = firstRealize(c); found {
				break
			}
		}
		if !found {
			return false, nil
		}
		if realized[target.Key()] {
			recordCycle(ctx)
			return false, &CycleDetectedError{Identity: target, Reason: "realizing the element did not make " + fqn.String() + " known"}
		}
		realized[target.Key()] = true
		if err := realizer.Realize(ctx, target); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (e *Engine) hasKnown(fqn nodeid.Address, t *modeltype.Type) bool {
	for _, r := range e.rules {
		if kr, ok := r.(*KnownElementRule); ok && kr.Identity.Identifier.Equal(fqn) && kr.Identity.Type.IsSubtypeOf(t) {
			return true
		}
	}
	return false
}

package discover

import (
	"context"

	"github.com/vk/modelgraph/internal/modeltype"
	"github.com/vk/modelgraph/internal/nodeid"
)

// walker performs one depth-first expansion.
type walker struct {
	ctx    context.Context
	engine *Engine

	result []*CandidateElement
	seen   map[uint64]bool
	// visiting holds the identity keys on the current expansion path.
	visiting map[string]bool
	path     []Identity
}

func newWalker(ctx context.Context, e *Engine) *walker {
	return &walker{
		ctx:      ctx,
		engine:   e,
		seen:     make(map[uint64]bool),
		visiting: make(map[string]bool),
	}
}

func (w *walker) list(current *CandidateElement, rules []Rule, depth int) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}

	identity := current.Identity()
	key := identity.Key()
	if w.visiting[key] {
		recordCycle(w.ctx)
		return &CycleDetectedError{Identity: identity, Chain: append(w.pathCopy(), identity), Reason: "element is its own descendant"}
	}
	if depth > w.engine.maxDepth {
		recordCycle(w.ctx)
		return &CycleDetectedError{Identity: identity, Chain: append(w.pathCopy(), identity), Reason: "expansion exceeded the maximum depth"}
	}

	if !w.seen[current.Fingerprint()] {
		w.seen[current.Fingerprint()] = true
		w.result = append(w.result, current)
	}

	w.visiting[key] = true
	w.path = append(w.path, identity)
	defer func() {
		delete(w.visiting, key)
		w.path = w.path[:len(w.path)-1]
	}()

	for _, rule := range rules {
		d := &emitter{walker: w, current: current, rule: rule, rules: rules, depth: depth}
		if err := rule.Execute(d); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) pathCopy() []Identity {
	out := make([]Identity, len(w.path))
	copy(out, w.path)
	return out
}

// withService returns rules followed by the service rules for t that are not
// already present. rules itself is never modified.
func (w *walker) withService(rules []Rule, t *modeltype.Type) []Rule {
	extra := w.engine.service.Discover(t)
	out := make([]Rule, len(rules), len(rules)+len(extra))
	copy(out, rules)
	for _, r := range extra {
		if !containsRule(out, r) {
			out = append(out, r)
		}
	}
	return out
}

func containsRule(rules []Rule, r Rule) bool {
	for _, existing := range rules {
		if existing == r {
			return true
		}
	}
	return false
}

// emitter is the Details handed to a rule for one candidate.
type emitter struct {
	walker  *walker
	current *CandidateElement
	rule    Rule
	rules   []Rule
	depth   int
}

func (d *emitter) Candidate() *CandidateElement { return d.current }

func (d *emitter) emit(c *CandidateElement) error {
	recordEmitted(d.walker.ctx)
	return d.walker.list(c, d.walker.withService(d.rules, c.Type()), d.depth+1)
}

func (d *emitter) NewKnownCandidate(identity Identity) error {
	c := NewCandidateElement(identity.Identifier, identity.Type, true, d.walker.engine.oracle, d.current.actions, d.rule)
	return d.emit(c)
}

func (d *emitter) NewKnownCandidateWithAct(identity Identity, act Act) error {
	actions := append(d.current.Actions(), DiscoverChain{Target: d.current, Act: act})
	c := NewCandidateElement(identity.Identifier, identity.Type, true, d.walker.engine.oracle, actions, d.rule)
	return d.emit(c)
}

func (d *emitter) NewCandidate(name string, t *modeltype.Type) error {
	c := NewCandidateElement(d.childIdentifier(name), t, false, d.walker.engine.oracle, d.current.actions, d.rule)
	return d.emit(c)
}

func (d *emitter) NewCandidateWithAct(name string, t *modeltype.Type, act Act) error {
	actions := append(d.current.Actions(), DiscoverChain{Target: d.current, Act: act})
	c := NewCandidateElement(d.childIdentifier(name), t, false, d.walker.engine.oracle, actions, d.rule)
	return d.emit(c)
}

func (d *emitter) childIdentifier(name string) nodeid.Address {
	if name == "" {
		return d.current.Identifier()
	}
	return d.current.Identifier().Child(name)
}

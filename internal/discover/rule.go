package discover

import (
	"github.com/vk/modelgraph/internal/modeltype"
)

// Rule inspects the candidate exposed by Details and may emit new candidates
// through it. A rule whose guard does not match the candidate does nothing.
type Rule interface {
	Execute(Details) error
}

// Details is the view a rule gets of the candidate being expanded. Emission
// errors must be returned from Execute unchanged.
type Details interface {
	Candidate() *CandidateElement

	// NewKnownCandidate emits an element registered by the host.
	NewKnownCandidate(identity Identity) error
	// NewKnownCandidateWithAct emits a registered element whose existence
	// depends on the current candidate going through act.
	NewKnownCandidateWithAct(identity Identity, act Act) error
	// NewCandidate emits an element named name below the current candidate.
	// An empty name emits at the current candidate's identifier.
	NewCandidate(name string, t *modeltype.Type) error
	// NewCandidateWithAct is like NewCandidate but records that the current
	// candidate must go through act first.
	NewCandidateWithAct(name string, t *modeltype.Type, act Act) error
}

// Entry is one element produced by a GroupRule.
type Entry struct {
	Name string
	Type *modeltype.Type
}

// GroupRule emits every entry for candidates whose type is a subtype of Target.
type GroupRule struct {
	Target  *modeltype.Type
	Entries []Entry
}

// NewGroupRule returns a GroupRule.
func NewGroupRule(target *modeltype.Type, entries ...Entry) *GroupRule {
	return &GroupRule{Target: target, Entries: entries}
}

func (r *GroupRule) Execute(d Details) error {
	if !d.Candidate().Type().IsSubtypeOf(r.Target) {
		return nil
	}
	for _, e := range r.Entries {
		if err := d.NewCandidate(e.Name, e.Type); err != nil {
			return err
		}
	}
	return nil
}

func (r *GroupRule) String() string { return "GroupRule(" + r.Target.Name() + ")" }

// Matcher decides whether a case applies to a candidate identifier.
type Matcher interface {
	Match(Identity) bool
}

// MatcherFunc adapts a function to a Matcher.
type MatcherFunc func(Identity) bool

func (f MatcherFunc) Match(id Identity) bool { return f(id) }

// MatchPattern matches identifiers against a `*` pattern.
func MatchPattern(pattern string) Matcher {
	return MatcherFunc(func(id Identity) bool { return id.Identifier.Matches(pattern) })
}

// Case is one alternative of a SelectRule.
type Case struct {
	Match Matcher
	Name  string
	Type  *modeltype.Type
}

// SelectRule chooses among cases for candidates whose type is a subtype of
// Target. A known candidate gets only the first case whose matcher accepts
// it. An unknown candidate cannot be told apart yet and gets every case.
type SelectRule struct {
	Target *modeltype.Type
	Cases  []Case
}

// NewSelectRule returns a SelectRule.
func NewSelectRule(target *modeltype.Type, cases ...Case) *SelectRule {
	return &SelectRule{Target: target, Cases: cases}
}

func (r *SelectRule) Execute(d Details) error {
	c := d.Candidate()
	if !c.Type().IsSubtypeOf(r.Target) {
		return nil
	}
	if c.Known() {
		for _, cs := range r.Cases {
			if cs.Match.Match(c.Identity()) {
				return d.NewCandidate(cs.Name, cs.Type)
			}
		}
		return nil
	}
	for _, cs := range r.Cases {
		if err := d.NewCandidate(cs.Name, cs.Type); err != nil {
			return err
		}
	}
	return nil
}

func (r *SelectRule) String() string { return "SelectRule(" + r.Target.Name() + ")" }

// KnownElementRule seeds an element registered by the host. It fires only on
// candidates whose type is exactly modeltype.Project.
type KnownElementRule struct {
	Identity Identity
}

// NewKnownElementRule returns a KnownElementRule.
func NewKnownElementRule(identity Identity) *KnownElementRule {
	return &KnownElementRule{Identity: identity}
}

func (r *KnownElementRule) Execute(d Details) error {
	if d.Candidate().Type() != modeltype.Project {
		return nil
	}
	return d.NewKnownCandidate(r.Identity)
}

func (r *KnownElementRule) String() string { return "KnownElementRule(" + r.Identity.String() + ")" }

// KnownRule runs its delegate unchanged.
type KnownRule struct {
	Delegate Rule
}

// NewKnownRule returns a KnownRule.
func NewKnownRule(delegate Rule) *KnownRule { return &KnownRule{Delegate: delegate} }

func (r *KnownRule) Execute(d Details) error { return r.Delegate.Execute(d) }

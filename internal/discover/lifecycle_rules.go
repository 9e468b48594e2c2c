package discover

import (
	"fmt"

	"github.com/vk/modelgraph/internal/modeltype"
)

// RealizeRule runs its delegate only while the candidate is not realized and
// tags everything the delegate emits with Realize.
type RealizeRule struct {
	Delegate Rule
}

// NewRealizeRule returns a RealizeRule.
func NewRealizeRule(delegate Rule) *RealizeRule { return &RealizeRule{Delegate: delegate} }

func (r *RealizeRule) Execute(d Details) error {
	if d.Candidate().IsRealized() {
		return nil
	}
	return r.Delegate.Execute(realizeDetails{d})
}

type realizeDetails struct {
	Details
}

func (d realizeDetails) NewKnownCandidate(identity Identity) error {
	return d.Details.NewKnownCandidateWithAct(identity, Realize)
}

func (d realizeDetails) NewKnownCandidateWithAct(identity Identity, act Act) error {
	if act != Realize {
		return fmt.Errorf("%w: realize rule cannot emit %s with act %s", ErrUnsupportedOperation, identity, act)
	}
	return d.Details.NewKnownCandidateWithAct(identity, Realize)
}

func (d realizeDetails) NewCandidate(name string, t *modeltype.Type) error {
	return d.Details.NewCandidateWithAct(name, t, Realize)
}

func (d realizeDetails) NewCandidateWithAct(name string, t *modeltype.Type, act Act) error {
	if act != Realize {
		return fmt.Errorf("%w: realize rule cannot emit %q (%s) with act %s", ErrUnsupportedOperation, name, t.Name(), act)
	}
	return d.Details.NewCandidateWithAct(name, t, Realize)
}

// FinalizeRule runs its delegate only while the candidate is not finalized
// and tags everything the delegate emits with Finalize. Known elements cannot
// be emitted through it.
type FinalizeRule struct {
	Delegate Rule
}

// NewFinalizeRule returns a FinalizeRule.
func NewFinalizeRule(delegate Rule) *FinalizeRule { return &FinalizeRule{Delegate: delegate} }

func (r *FinalizeRule) Execute(d Details) error {
	if d.Candidate().IsFinalized() {
		return nil
	}
	return r.Delegate.Execute(finalizeDetails{d})
}

type finalizeDetails struct {
	Details
}

func (d finalizeDetails) NewKnownCandidate(identity Identity) error {
	return fmt.Errorf("%w: finalize rule cannot emit known element %s", ErrUnsupportedOperation, identity)
}

func (d finalizeDetails) NewKnownCandidateWithAct(identity Identity, _ Act) error {
	return d.NewKnownCandidate(identity)
}

func (d finalizeDetails) NewCandidate(name string, t *modeltype.Type) error {
	return d.Details.NewCandidateWithAct(name, t, Finalize)
}

func (d finalizeDetails) NewCandidateWithAct(name string, t *modeltype.Type, act Act) error {
	if act != Finalize {
		return fmt.Errorf("%w: finalize rule cannot emit %q (%s) with act %s", ErrUnsupportedOperation, name, t.Name(), act)
	}
	return d.Details.NewCandidateWithAct(name, t, Finalize)
}

// unwrapLifecycle strips a RealizeRule or FinalizeRule so that the delegate
// can be re-gated without nesting two lifecycle gates.
func unwrapLifecycle(r Rule) Rule {
	switch lr := r.(type) {
	case *RealizeRule:
		return lr.Delegate
	case *FinalizeRule:
		return lr.Delegate
	default:
		return r
	}
}

package discover

import (
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/vk/modelgraph/internal/modeltype"
	"github.com/vk/modelgraph/internal/nodeid"
)

// Act is a lifecycle step recorded in a candidate's provenance.
type Act int

const (
	// Realize materializes the target so that the candidate comes into existence.
	Realize Act = iota + 1
	// Finalize locks the target against further structural change.
	Finalize
)

func (a Act) String() string {
	switch a {
	case Realize:
		return "REALIZE"
	case Finalize:
		return "FINALIZE"
	default:
		return "Act(" + strconv.Itoa(int(a)) + ")"
	}
}

// DiscoverChain records that Target had to go through Act for a candidate to
// be emitted.
type DiscoverChain struct {
	Target *CandidateElement
	Act    Act
}

// Equal reports whether both links have the same act and equal targets.
func (c DiscoverChain) Equal(other DiscoverChain) bool {
	if c.Act != other.Act {
		return false
	}
	if c.Target == nil || other.Target == nil {
		return c.Target == other.Target
	}
	return c.Target.Fingerprint() == other.Target.Fingerprint()
}

func (c DiscoverChain) String() string {
	if c.Target == nil {
		return c.Act.String() + "(<nil>)"
	}
	return c.Act.String() + "(" + c.Target.Identity().String() + ")"
}

// CandidateElement is a model element under consideration. It is immutable;
// its lifecycle state is read from the oracle on every call.
type CandidateElement struct {
	identifier nodeid.Address
	typ        *modeltype.Type
	known      bool
	oracle     LifecycleOracle
	actions    []DiscoverChain
	producedBy Rule

	fingerprint uint64
}

// NewCandidateElement returns a candidate. actions is copied. producedBy is
// nil for the root.
func NewCandidateElement(identifier nodeid.Address, t *modeltype.Type, known bool, oracle LifecycleOracle, actions []DiscoverChain, producedBy Rule) *CandidateElement {
	c := &CandidateElement{
		identifier: identifier,
		typ:        t,
		known:      known,
		oracle:     oracle,
		actions:    slices.Clone(actions),
		producedBy: producedBy,
	}
	c.fingerprint = c.computeFingerprint()
	return c
}

func (c *CandidateElement) Identifier() nodeid.Address { return c.identifier }

func (c *CandidateElement) Type() *modeltype.Type { return c.typ }

func (c *CandidateElement) Identity() Identity { return Identity{Identifier: c.identifier, Type: c.typ} }

// Known reports whether the element was registered by the host rather than
// inferred by a rule.
func (c *CandidateElement) Known() bool { return c.known }

func (c *CandidateElement) IsRealized() bool { return c.oracle.IsRealized(c.Identity()) }

func (c *CandidateElement) IsFinalized() bool { return c.oracle.IsFinalized(c.Identity()) }

// Actions returns a copy of the provenance chain, oldest first.
func (c *CandidateElement) Actions() []DiscoverChain { return slices.Clone(c.actions) }

// FirstAction returns the oldest provenance link, if any.
func (c *CandidateElement) FirstAction() (DiscoverChain, bool) {
	if len(c.actions) == 0 {
		return DiscoverChain{}, false
	}
	return c.actions[0], true
}

// ProducedBy returns the rule that emitted the candidate, or nil for the root.
func (c *CandidateElement) ProducedBy() Rule { return c.producedBy }

// Fingerprint hashes the identifier, type, known flag and provenance chain.
// Two candidates with the same fingerprint describe the same element reached
// the same way.
func (c *CandidateElement) Fingerprint() uint64 { return c.fingerprint }

func (c *CandidateElement) computeFingerprint() uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(c.Identity().Key())
	if c.known {
		_, _ = d.WriteString("|k")
	} else {
		_, _ = d.WriteString("|u")
	}
	for _, a := range c.actions {
		_, _ = d.WriteString("|" + a.Act.String() + ":")
		if a.Target != nil {
			_, _ = d.WriteString(strconv.FormatUint(a.Target.Fingerprint(), 16))
		}
	}
	return d.Sum64()
}

func (c *CandidateElement) String() string {
	var sb strings.Builder
	sb.WriteString(c.Identity().String())
	if c.known {
		sb.WriteString(" known")
	}
	for _, a := range c.actions {
		sb.WriteString(" <- ")
		sb.WriteString(a.String())
	}
	return sb.String()
}

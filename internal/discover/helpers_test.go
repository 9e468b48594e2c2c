package discover

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/modelgraph/internal/modeltype"
	"github.com/vk/modelgraph/internal/nodeid"
)

type testTypes struct {
	component, library, sourceSet, binary, variant, typeA, typeB, task *modeltype.Type
}

func newTestTypes(t *testing.T) testTypes {
	t.Helper()
	u, err := modeltype.NewBuilder().
		Declare("Component").
		Declare("Library", "Component").
		Declare("SourceSet").
		Declare("Binary").
		Declare("Variant").
		Declare("TypeA").
		Declare("TypeB").
		Declare("Task").
		Build()
	require.NoError(t, err)
	return testTypes{
		component: u.MustLookup("Component"),
		library:   u.MustLookup("Library"),
		sourceSet: u.MustLookup("SourceSet"),
		binary:    u.MustLookup("Binary"),
		variant:   u.MustLookup("Variant"),
		typeA:     u.MustLookup("TypeA"),
		typeB:     u.MustLookup("TypeB"),
		task:      u.MustLookup("Task"),
	}
}

// fakeOracle keeps lifecycle state in maps keyed by Identity.Key.
type fakeOracle struct {
	realized  map[string]bool
	finalized map[string]bool
}

func newFakeOracle() *fakeOracle {
	return &fakeOracle{realized: map[string]bool{}, finalized: map[string]bool{}}
}

func (o *fakeOracle) IsRealized(id Identity) bool  { return o.realized[id.Key()] }
func (o *fakeOracle) IsFinalized(id Identity) bool { return o.finalized[id.Key()] }

type emission struct {
	Identifier string
	Type       *modeltype.Type
	Known      bool
	Act        Act
}

// recordingDetails captures what a rule emits without expanding anything.
type recordingDetails struct {
	candidate *CandidateElement
	emitted   []emission
}

func (d *recordingDetails) Candidate() *CandidateElement { return d.candidate }

func (d *recordingDetails) NewKnownCandidate(id Identity) error {
	d.emitted = append(d.emitted, emission{Identifier: id.Identifier.String(), Type: id.Type, Known: true})
	return nil
}

func (d *recordingDetails) NewKnownCandidateWithAct(id Identity, act Act) error {
	d.emitted = append(d.emitted, emission{Identifier: id.Identifier.String(), Type: id.Type, Known: true, Act: act})
	return nil
}

func (d *recordingDetails) NewCandidate(name string, t *modeltype.Type) error {
	d.emitted = append(d.emitted, emission{Identifier: name, Type: t})
	return nil
}

func (d *recordingDetails) NewCandidateWithAct(name string, t *modeltype.Type, act Act) error {
	d.emitted = append(d.emitted, emission{Identifier: name, Type: t, Act: act})
	return nil
}

func detailsFor(id string, t *modeltype.Type, known bool, oracle LifecycleOracle) *recordingDetails {
	return &recordingDetails{candidate: NewCandidateElement(nodeid.MustParse(id), t, known, oracle, nil, nil)}
}

// countingRule counts its executions and emits nothing.
type countingRule struct {
	calls int
}

func (r *countingRule) Execute(Details) error {
	r.calls++
	return nil
}

// hostRealizer marks elements realized and registers as known every
// candidate that only waited on the realized element.
type hostRealizer struct {
	engine *Engine
	oracle *fakeOracle
	calls  []string
}

func (h *hostRealizer) Realize(ctx context.Context, target Identity) error {
	h.calls = append(h.calls, target.Identifier.String())
	candidates, err := h.engine.Candidates(ctx)
	if err != nil {
		return err
	}
	h.oracle.realized[target.Key()] = true
	h.engine.Discover(target)
	for _, c := range candidates {
		actions := c.Actions()
		if len(actions) == 1 && actions[0].Act == Realize && actions[0].Target.Identity().Equal(target) {
			h.engine.Discover(c.Identity())
		}
	}
	return nil
}

func identifiers(cs []*CandidateElement) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Identifier().String()
	}
	return out
}

func mustAddr(s string) nodeid.Address { return nodeid.MustParse(s) }

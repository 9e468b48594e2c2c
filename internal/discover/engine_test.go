package discover

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/modelgraph/internal/modeltype"
)

// newLibraryStrategy declares that a Library owns registered sources and a
// realized debug variant, and that a Variant owns a realized binary.
func newLibraryStrategy(types testTypes) *Strategy {
	return NewStrategy(
		Discoverable{Type: types.library, Elements: []DiscoverableElement{
			{Name: "sources", Type: types.sourceSet, Scope: Registered},
			{Name: "debug", Type: types.variant, Scope: Realized},
		}},
		Discoverable{Type: types.variant, Elements: []DiscoverableElement{
			{Name: "binary", Type: types.binary, Scope: Realized},
		}},
	)
}

func TestEngine_Candidates(t *testing.T) {
	types := newTestTypes(t)
	oracle := newFakeOracle()
	e := NewEngine(mustAddr("app"), Cached(newLibraryStrategy(types)), oracle)
	e.Discover(NewIdentity(mustAddr("app.main"), types.library))

	candidates, err := e.Candidates(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"app", "app.main", "app.main.sources", "app.main.debug", "app.main.debug.binary"}, identifiers(candidates))

	root := candidates[0]
	assert.True(t, root.Known())
	assert.Nil(t, root.ProducedBy())

	main := candidates[1]
	assert.True(t, main.Known())
	assert.Empty(t, main.Actions())
	assert.IsType(t, &KnownElementRule{}, main.ProducedBy())

	sources := candidates[2]
	assert.False(t, sources.Known())
	assert.Empty(t, sources.Actions())

	debug := candidates[3]
	require.Len(t, debug.Actions(), 1)
	assert.Equal(t, Realize, debug.Actions()[0].Act)
	assert.Same(t, main, debug.Actions()[0].Target)

	binary := candidates[4]
	actions := binary.Actions()
	require.Len(t, actions, 2)
	assert.True(t, actions[0].Target.Identity().Equal(main.Identity()))
	assert.True(t, actions[1].Target.Identity().Equal(debug.Identity()))
	assert.Equal(t, "REALIZE(app.main (Library))", actions[0].String())
}

func TestEngine_RealizedElementStopsGatedExpansion(t *testing.T) {
	types := newTestTypes(t)
	oracle := newFakeOracle()
	main := NewIdentity(mustAddr("app.main"), types.library)
	oracle.realized[main.Key()] = true

	e := NewEngine(mustAddr("app"), Cached(newLibraryStrategy(types)), oracle)
	e.Discover(main)

	candidates, err := e.Candidates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"app", "app.main", "app.main.sources"}, identifiers(candidates))
}

func TestEngine_DeduplicatesRulesAndCandidates(t *testing.T) {
	types := newTestTypes(t)
	e := NewEngine(mustAddr("app"), Cached(newLibraryStrategy(types)), newFakeOracle())
	main := NewIdentity(mustAddr("app.main"), types.library)
	e.Discover(main)
	e.Discover(main)

	group := NewGroupRule(types.library, Entry{Name: "extra", Type: types.task})
	assert.True(t, e.AddRule(group))
	assert.False(t, e.AddRule(group))
	assert.Len(t, e.Rules(), 2)

	candidates, err := e.Candidates(context.Background())
	require.NoError(t, err)

	seen := map[uint64]bool{}
	for _, c := range candidates {
		assert.False(t, seen[c.Fingerprint()], "duplicate candidate %s", c)
		seen[c.Fingerprint()] = true
	}
	assert.Contains(t, identifiers(candidates), "app.main.extra")
}

func TestEngine_CycleDetection(t *testing.T) {
	types := newTestTypes(t)

	t.Run("element emitting itself", func(t *testing.T) {
		strategy := NewStrategy(Discoverable{Type: types.task, Elements: []DiscoverableElement{
			{Name: "", Type: types.task},
		}})
		e := NewEngine(mustAddr("app"), Cached(strategy), newFakeOracle())
		e.Discover(NewIdentity(mustAddr("app.build"), types.task))

		_, err := e.Candidates(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCycleDetected)

		var cycleErr *CycleDetectedError
		require.True(t, errors.As(err, &cycleErr))
		assert.Equal(t, "app.build", cycleErr.Identity.Identifier.String())
		assert.Contains(t, err.Error(), "app.build (Task)")
	})

	t.Run("unbounded nesting", func(t *testing.T) {
		strategy := NewStrategy(Discoverable{Type: types.component, Elements: []DiscoverableElement{
			{Name: "nested", Type: types.component},
		}})
		e := NewEngine(mustAddr("app"), Cached(strategy), newFakeOracle(), WithMaxDepth(5))
		e.Discover(NewIdentity(mustAddr("app.main"), types.component))

		_, err := e.Candidates(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCycleDetected)
		assert.Contains(t, err.Error(), "maximum depth")
	})
}

func TestEngine_RuleErrorAbortsPass(t *testing.T) {
	boom := errors.New("boom")
	e := NewEngine(mustAddr("app"), Services{}, newFakeOracle())
	e.AddRule(&scriptedRule{run: func(Details) error { return boom }})

	_, err := e.Candidates(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestEngine_CanceledContext(t *testing.T) {
	e := NewEngine(mustAddr("app"), Services{}, newFakeOracle())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Candidates(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_FindAllAndFind(t *testing.T) {
	types := newTestTypes(t)
	strategy := newLibraryStrategy(types)
	strategy.Register(Discoverable{Type: types.library, Elements: []DiscoverableElement{
		{Name: "compile*", Type: types.task},
	}})
	e := NewEngine(mustAddr("app"), Cached(strategy), newFakeOracle())
	e.Discover(NewIdentity(mustAddr("app.main"), types.library))
	ctx := context.Background()

	libs, err := e.FindAll(ctx, types.component)
	require.NoError(t, err)
	assert.Equal(t, []string{"app.main"}, identifiers(libs))

	found, err := e.Find(ctx, mustAddr("app.main.sources"), types.sourceSet)
	require.NoError(t, err)
	assert.Equal(t, []string{"app.main.sources"}, identifiers(found))

	found, err = e.Find(ctx, mustAddr("app.main.compileDebug"), types.task)
	require.NoError(t, err)
	assert.Equal(t, []string{"app.main.compile*"}, identifiers(found))

	found, err = e.Find(ctx, mustAddr("app.main.sources"), types.binary)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestEngine_DiscoverAll(t *testing.T) {
	types := newTestTypes(t)
	oracle := newFakeOracle()
	e := NewEngine(mustAddr("app"), Cached(newLibraryStrategy(types)), oracle)
	e.Discover(NewIdentity(mustAddr("app.main"), types.library))
	realizer := &hostRealizer{engine: e, oracle: oracle}
	ctx := context.Background()

	require.NoError(t, e.DiscoverAll(ctx, types.binary, realizer))
	assert.Equal(t, []string{"app.main", "app.main.debug"}, realizer.calls)

	binaries, err := e.FindAll(ctx, types.binary)
	require.NoError(t, err)
	require.Len(t, binaries, 1)
	assert.True(t, binaries[0].Known())
	assert.Empty(t, binaries[0].Actions())
	assert.True(t, e.IsKnown(NewIdentity(mustAddr("app.main.debug.binary"), types.binary)))
}

func TestEngine_DiscoverAllWithoutProgress(t *testing.T) {
	types := newTestTypes(t)
	e := NewEngine(mustAddr("app"), Cached(newLibraryStrategy(types)), newFakeOracle())
	e.Discover(NewIdentity(mustAddr("app.main"), types.library))

	calls := 0
	noop := RealizerFunc(func(context.Context, Identity) error {
		calls++
		return nil
	})

	err := e.DiscoverAll(context.Background(), types.variant, noop)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCycleDetected)
	assert.Equal(t, 1, calls)
}

// ungatedRealizeRule emits a child waiting on the realization of every
// candidate of exactly the given type, realized or not.
type ungatedRealizeRule struct {
	owner *modeltype.Type
	name  string
	typ   *modeltype.Type
}

func (r *ungatedRealizeRule) Execute(d Details) error {
	if d.Candidate().Type() != r.owner {
		return nil
	}
	return d.NewCandidateWithAct(r.name, r.typ, Realize)
}

func TestEngine_DiscoverAllContinuesWhileAPassMakesProgress(t *testing.T) {
	types := newTestTypes(t)
	oracle := newFakeOracle()
	sticky := &ungatedRealizeRule{owner: types.library, name: "sticky", typ: types.typeA}
	service := Services{
		Cached(newLibraryStrategy(types)),
		ServiceFunc(func(t *modeltype.Type) []Rule {
			if t == types.library {
				return []Rule{sticky}
			}
			return nil
		}),
	}
	e := NewEngine(mustAddr("app"), service, oracle)
	e.Discover(NewIdentity(mustAddr("app.main"), types.library))
	realizer := &hostRealizer{engine: e, oracle: oracle}

	err := e.DiscoverAll(context.Background(), modeltype.Object, realizer)

	// The second pass still waits on app.main but realizes app.main.debug;
	// only the third pass, with nothing new to realize, fails.
	assert.Equal(t, []string{"app.main", "app.main.debug"}, realizer.calls)
	var cycleErr *CycleDetectedError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, "app.main", cycleErr.Identity.Identifier.String())
	assert.True(t, oracle.IsRealized(NewIdentity(mustAddr("app.main.debug"), types.variant)))
}

func TestEngine_DiscoverAllPropagatesRealizerError(t *testing.T) {
	types := newTestTypes(t)
	e := NewEngine(mustAddr("app"), Cached(newLibraryStrategy(types)), newFakeOracle())
	e.Discover(NewIdentity(mustAddr("app.main"), types.library))
	boom := errors.New("boom")

	err := e.DiscoverAll(context.Background(), types.variant, RealizerFunc(func(context.Context, Identity) error { return boom }))
	assert.ErrorIs(t, err, boom)
}

func TestEngine_Resolve(t *testing.T) {
	types := newTestTypes(t)
	oracle := newFakeOracle()
	e := NewEngine(mustAddr("app"), Cached(newLibraryStrategy(types)), oracle)
	e.Discover(NewIdentity(mustAddr("app.main"), types.library))
	realizer := &hostRealizer{engine: e, oracle: oracle}
	ctx := context.Background()

	ok, err := e.Resolve(ctx, mustAddr("app.main.debug.binary"), types.binary, realizer)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"app.main", "app.main.debug"}, realizer.calls)

	ok, err = e.Resolve(ctx, mustAddr("app.missing"), types.binary, realizer)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEngine_ResolveWithoutProgress(t *testing.T) {
	types := newTestTypes(t)
	e := NewEngine(mustAddr("app"), Cached(newLibraryStrategy(types)), newFakeOracle())
	e.Discover(NewIdentity(mustAddr("app.main"), types.library))

	_, err := e.Resolve(context.Background(), mustAddr("app.main.debug"), types.variant,
		RealizerFunc(func(context.Context, Identity) error { return nil }))
	assert.ErrorIs(t, err, ErrCycleDetected)
}

func TestEngine_LifecycleCallbacks(t *testing.T) {
	types := newTestTypes(t)
	strategy := NewStrategy(Discoverable{Type: types.library, Elements: []DiscoverableElement{
		{Name: "sources", Type: types.sourceSet, Scope: Registered},
		{Name: "debug", Type: types.variant, Scope: Realized},
	}})

	e := NewEngine(mustAddr("app"), Cached(strategy), newFakeOracle())
	e.OnRealized(types.library)
	e.OnRealized(types.library)
	e.OnFinalized(types.library)
	e.OnKnown(types.library)

	rules := e.Rules()
	require.Len(t, rules, 6)
	assert.IsType(t, &RealizeRule{}, rules[0])
	assert.IsType(t, &RealizeRule{}, rules[1])
	assert.IsType(t, &FinalizeRule{}, rules[2])
	assert.IsType(t, &FinalizeRule{}, rules[3])
	assert.IsType(t, &KnownRule{}, rules[4])

	// The realize-scoped group is re-gated, not nested.
	_, nested := rules[1].(*RealizeRule).Delegate.(*RealizeRule)
	assert.False(t, nested)

	e.Discover(NewIdentity(mustAddr("app.main"), types.library))
	_, err := e.Candidates(context.Background())
	require.NoError(t, err)
}

package graph

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/modelgraph/internal/value"
)

// recorder captures every event in delivery order.
type recorder struct {
	events []any
}

func (r *recorder) NodeCreated(e NodeCreated)                 { r.events = append(r.events, e) }
func (r *recorder) RelationshipCreated(e RelationshipCreated) { r.events = append(r.events, e) }
func (r *recorder) LabelAdded(e LabelAdded)                   { r.events = append(r.events, e) }
func (r *recorder) PropertyChanged(e PropertyChanged)         { r.events = append(r.events, e) }

func ofType[T any](events []any) []T {
	var out []T
	for _, e := range events {
		if v, ok := e.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

var knows = RelationshipTypeNamed("knows")

func TestGraph_HasRelationshipByDirection(t *testing.T) {
	g := New()
	n0 := g.CreateNode()
	n1 := g.CreateNode()

	_, err := g.CreateRelationship(n0, knows, n1)
	require.NoError(t, err)

	assert.True(t, n0.HasRelationship(Outgoing, knows))
	assert.True(t, n1.HasRelationship(Incoming, knows))
	assert.False(t, n0.HasRelationship(Incoming))
	assert.False(t, n1.HasRelationship(Outgoing))
	assert.True(t, n0.HasRelationship(Both))
	assert.False(t, n0.HasRelationship(Outgoing, RelationshipTypeNamed("likes")))
}

func TestGraph_CreateRelationshipEndpoints(t *testing.T) {
	g := New()
	a, b := g.CreateNode(), g.CreateNode()

	for _, rt := range []RelationshipType{knows, RelationshipTypeNamed("OWNS")} {
		r, err := g.CreateRelationship(a, rt, b)
		require.NoError(t, err)
		assert.Equal(t, a, r.StartNode())
		assert.Equal(t, b, r.EndNode())
		assert.Equal(t, [2]Node{a, b}, r.Nodes())
		assert.True(t, r.IsType(rt))
		assert.Equal(t, rt, r.Type())
	}
}

func TestGraph_CreateRelationshipRejectsInvalidArguments(t *testing.T) {
	g := New()
	other := New()
	n := g.CreateNode()
	foreign := other.CreateNode()

	testCases := []struct {
		name  string
		start Node
		rt    RelationshipType
		end   Node
	}{
		{name: "zero start", start: Node{}, rt: knows, end: n},
		{name: "zero end", start: n, rt: knows, end: Node{}},
		{name: "foreign start", start: foreign, rt: knows, end: n},
		{name: "foreign end", start: n, rt: knows, end: foreign},
		{name: "zero type", start: n, rt: RelationshipType{}, end: n},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := g.CreateRelationship(tc.start, tc.rt, tc.end)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			var iae *InvalidArgumentError
			assert.True(t, errors.As(err, &iae))
		})
	}
	assert.Equal(t, 0, g.RelationshipCount())
}

func TestGraph_IDsAreSharedAndMonotonic(t *testing.T) {
	g := New()
	n0 := g.CreateNode()
	n1 := g.CreateNode()
	r, err := n0.CreateRelationshipTo(n1, knows)
	require.NoError(t, err)
	n2 := g.CreateNode()

	assert.Equal(t, []int64{0, 1, 2, 3}, []int64{n0.ID(), n1.ID(), r.ID(), n2.ID()})
}

func TestGraph_LookupByID(t *testing.T) {
	g := New()
	n := g.CreateNode()
	r, err := n.CreateRelationshipTo(n, knows)
	require.NoError(t, err)

	got, err := g.NodeByID(n.ID())
	require.NoError(t, err)
	assert.Equal(t, n, got)

	gotRel, err := g.RelationshipByID(r.ID())
	require.NoError(t, err)
	assert.Equal(t, r, gotRel)

	ent, err := g.EntityByID(r.ID())
	require.NoError(t, err)
	assert.Equal(t, Entity(r), ent)

	testCases := []struct {
		name string
		call func() error
	}{
		{name: "unknown node", call: func() error { _, err := g.NodeByID(99); return err }},
		{name: "negative node", call: func() error { _, err := g.NodeByID(-1); return err }},
		{name: "relationship id as node", call: func() error { _, err := g.NodeByID(r.ID()); return err }},
		{name: "node id as relationship", call: func() error { _, err := g.RelationshipByID(n.ID()); return err }},
		{name: "unknown entity", call: func() error { _, err := g.EntityByID(7); return err }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}

	_, err = g.NodeByID(42)
	assert.Contains(t, err.Error(), "42")
}

func TestGraph_NodesInCreationOrder(t *testing.T) {
	g := New()
	created := []Node{g.CreateNode(), g.CreateNode(), g.CreateNode()}

	assert.Equal(t, created, slices.Collect(g.Nodes()))
	assert.Equal(t, 3, g.NodeCount())
}

func TestGraph_IterationIsRestartableAndBounded(t *testing.T) {
	g := New()
	a, b := g.CreateNode(), g.CreateNode()
	_, err := a.CreateRelationshipTo(b, knows)
	require.NoError(t, err)

	nodes := g.Nodes()
	rels := g.Relationships()
	g.CreateNode()
	_, err = b.CreateRelationshipTo(a, knows)
	require.NoError(t, err)

	assert.Len(t, slices.Collect(nodes), 2)
	assert.Len(t, slices.Collect(nodes), 2)
	assert.Len(t, slices.Collect(rels), 1)
	assert.Len(t, slices.Collect(g.Nodes()), 3)
	assert.Len(t, slices.Collect(g.Relationships()), 2)
}

func TestNode_RelationshipsFilter(t *testing.T) {
	g := New()
	likes := RelationshipTypeNamed("likes")
	a, b, c := g.CreateNode(), g.CreateNode(), g.CreateNode()

	ab, _ := a.CreateRelationshipTo(b, knows)
	ca, _ := c.CreateRelationshipTo(a, knows)
	ac, _ := a.CreateRelationshipTo(c, likes)

	testCases := []struct {
		name     string
		dir      Direction
		types    []RelationshipType
		expected []Relationship
	}{
		{name: "outgoing any", dir: Outgoing, expected: []Relationship{ab, ac}},
		{name: "incoming any", dir: Incoming, expected: []Relationship{ca}},
		{name: "both any", dir: Both, expected: []Relationship{ab, ca, ac}},
		{name: "both knows", dir: Both, types: []RelationshipType{knows}, expected: []Relationship{ab, ca}},
		{name: "outgoing likes or knows", dir: Outgoing, types: []RelationshipType{likes, knows}, expected: []Relationship{ab, ac}},
		{name: "incoming likes", dir: Incoming, types: []RelationshipType{likes}, expected: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, slices.Collect(a.Relationships(tc.dir, tc.types...)))
		})
	}
}

func TestNode_SelfLoopCountedOncePerDirection(t *testing.T) {
	g := New()
	n := g.CreateNode()
	loop, err := n.CreateRelationshipTo(n, knows)
	require.NoError(t, err)

	assert.Equal(t, []Relationship{loop}, slices.Collect(n.Relationships(Outgoing)))
	assert.Equal(t, []Relationship{loop}, slices.Collect(n.Relationships(Incoming)))
	assert.Equal(t, []Relationship{loop, loop}, slices.Collect(n.Relationships(Both)))

	other, err := loop.OtherNode(n)
	require.NoError(t, err)
	assert.Equal(t, n, other)

	_, _, err = n.SingleRelationship(knows, Both)
	assert.ErrorIs(t, err, ErrAmbiguousResult)

	single, ok, err := n.SingleRelationship(knows, Outgoing)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, loop, single)
}

func TestNode_SingleRelationship(t *testing.T) {
	g := New()
	a, b, c := g.CreateNode(), g.CreateNode(), g.CreateNode()

	_, ok, err := a.SingleRelationship(knows, Outgoing)
	require.NoError(t, err)
	assert.False(t, ok)

	ab, err := a.CreateRelationshipTo(b, knows)
	require.NoError(t, err)
	got, ok, err := a.SingleRelationship(knows, Outgoing)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, ab, got)

	_, err = a.CreateRelationshipTo(c, knows)
	require.NoError(t, err)
	_, ok, err = a.SingleRelationship(knows, Outgoing)
	require.Error(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrAmbiguousResult)
	var are *AmbiguousResultError
	require.True(t, errors.As(err, &are))
	assert.Equal(t, 2, are.Count)
	assert.Contains(t, err.Error(), "knows")
	assert.Contains(t, err.Error(), "OUTGOING")

	_, _, err = a.SingleRelationship(RelationshipType{}, Outgoing)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestRelationship_OtherNode(t *testing.T) {
	g := New()
	a, b, c := g.CreateNode(), g.CreateNode(), g.CreateNode()
	r, err := a.CreateRelationshipTo(b, knows)
	require.NoError(t, err)

	got, err := r.OtherNode(a)
	require.NoError(t, err)
	assert.Equal(t, b, got)

	got, err = r.OtherNode(b)
	require.NoError(t, err)
	assert.Equal(t, a, got)

	_, err = r.OtherNode(c)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = r.OtherNode(New().CreateNode())
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNode_AddLabelFiresOnce(t *testing.T) {
	rec := &recorder{}
	g := New(WithListener(rec))
	n := g.CreateNode()
	foo := LabelNamed("foo")

	n.AddLabel(foo)
	added := ofType[LabelAdded](rec.events)
	require.Len(t, added, 1)
	assert.Equal(t, LabelAdded{Graph: g, NodeID: n.ID(), Label: LabelNamed("foo")}, added[0])

	n.AddLabel(LabelNamed("foo"))
	assert.Len(t, ofType[LabelAdded](rec.events), 1)
	assert.Equal(t, []Label{foo}, n.Labels())

	n.AddLabel(LabelNamed("bar"))
	assert.Equal(t, []Label{foo, LabelNamed("bar")}, n.Labels())
	assert.True(t, n.HasLabel(LabelNamed("bar")))
	assert.False(t, n.HasLabel(LabelNamed("baz")))
}

func TestGraph_EventsInCreationOrder(t *testing.T) {
	rec := &recorder{}
	g := New(WithListener(rec))
	a := g.CreateNode()
	b := g.CreateNode()
	r, err := a.CreateRelationshipTo(b, knows)
	require.NoError(t, err)
	_, err = r.SetProperty("weight", 3)
	require.NoError(t, err)

	expected := []any{
		NodeCreated{Graph: g, NodeID: a.ID()},
		NodeCreated{Graph: g, NodeID: b.ID()},
		RelationshipCreated{Graph: g, RelationshipID: r.ID()},
		PropertyChanged{Graph: g, EntityID: r.ID(), Key: "weight", Value: value.Int(3)},
	}
	assert.Equal(t, expected, rec.events)
}

func TestGraph_MultipleListenersFanOut(t *testing.T) {
	first, second := &recorder{}, &recorder{}
	g := New(WithListener(first), WithListener(second))
	g.CreateNode()

	assert.Len(t, first.events, 1)
	assert.Len(t, second.events, 1)
}

type panickingListener struct {
	NopListener
}

func (panickingListener) NodeCreated(NodeCreated) { panic("boom") }

func TestGraph_ListenerPanicPropagates(t *testing.T) {
	g := New(WithListener(panickingListener{}))
	assert.PanicsWithValue(t, "boom", func() { g.CreateNode() })
}

func TestGraph_WithID(t *testing.T) {
	id := uuid.MustParse("6f1c2b7e-8a55-4d0e-9d39-2b9a7f0e1c11")
	g := New(WithID(id))
	assert.Equal(t, id, g.ID())
	assert.Equal(t, "graph(6f1c2b7e-8a55-4d0e-9d39-2b9a7f0e1c11)", g.String())
}

func TestEntity_Equality(t *testing.T) {
	g1, g2 := New(), New()
	a := g1.CreateNode()
	b := g2.CreateNode()

	again, err := g1.NodeByID(0)
	require.NoError(t, err)
	assert.True(t, a == again)
	assert.False(t, a == b, "same id in different graphs must differ")
}

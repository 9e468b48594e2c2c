package inmemorytopology

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/modelgraph/internal/discover"
	"github.com/vk/modelgraph/internal/graph"
	"github.com/vk/modelgraph/internal/modeltype"
	"github.com/vk/modelgraph/internal/nodeid"
	"github.com/vk/modelgraph/internal/testutil"
	"github.com/vk/modelgraph/internal/topologystore"
	"github.com/vk/modelgraph/internal/value"
)

func testUniverse(t *testing.T) *modeltype.Universe {
	t.Helper()
	u, err := modeltype.NewBuilder().
		Declare("Component").
		Declare("Library", "Component").
		Declare("SourceSet").
		Build()
	require.NoError(t, err)
	return u
}

func identity(u *modeltype.Universe, id, typ string) discover.Identity {
	return discover.NewIdentity(nodeid.MustParse(id), u.MustLookup(typ))
}

func labelNames(n graph.Node) []string {
	var out []string
	for _, l := range n.Labels() {
		out = append(out, l.Name())
	}
	return out
}

func TestAddElement_ProjectsNode(t *testing.T) {
	u := testUniverse(t)
	s := New()
	ctx := context.Background()

	n, err := s.AddElement(ctx, identity(u, "app.main", "Library"), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"Object", "Component", "Library"}, labelNames(n))
	for key, want := range map[string]string{
		topologystore.PropertyIdentifier: "app.main",
		topologystore.PropertyType:       "Library",
		topologystore.PropertyName:       "main",
	} {
		got, err := n.Property(key)
		require.NoError(t, err)
		assert.True(t, value.String(want).Equal(got), "property %s", key)
	}

	found, ok := s.Element(ctx, nodeid.MustParse("app.main"))
	require.True(t, ok)
	assert.Equal(t, n, found)
}

func TestAddElement_Idempotent(t *testing.T) {
	u := testUniverse(t)
	s := New()
	ctx := context.Background()
	parent := identity(u, "app.main", "Library")

	_, err := s.AddElement(ctx, parent, nil)
	require.NoError(t, err)
	first, err := s.AddElement(ctx, identity(u, "app.main.sources", "SourceSet"), &parent)
	require.NoError(t, err)
	second, err := s.AddElement(ctx, identity(u, "app.main.sources", "SourceSet"), &parent)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, s.AllElements(ctx), 2)

	children, err := s.ChildrenOf(ctx, parent.Identifier)
	require.NoError(t, err)
	assert.Equal(t, []graph.Node{first}, children, "ownership must not be duplicated")
}

func TestAddElement_Errors(t *testing.T) {
	u := testUniverse(t)
	ctx := context.Background()
	missing := identity(u, "app.ghost", "Library")

	testCases := []struct {
		name  string
		setup func(s *Store)
		add   discover.Identity
		owner *discover.Identity
	}{
		{
			name:  "unknown owner",
			setup: func(*Store) {},
			add:   identity(u, "app.main", "Library"),
			owner: &missing,
		},
		{
			name: "type conflict",
			setup: func(s *Store) {
				_, err := s.AddElement(ctx, identity(u, "app.main", "Library"), nil)
				require.NoError(t, err)
			},
			add: identity(u, "app.main", "SourceSet"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := New()
			tc.setup(s)
			_, err := s.AddElement(ctx, tc.add, tc.owner)
			assert.Error(t, err)
		})
	}
}

func TestChildrenOf(t *testing.T) {
	u := testUniverse(t)
	s := New()
	ctx := context.Background()
	root := identity(u, "app", "Component")

	_, err := s.AddElement(ctx, root, nil)
	require.NoError(t, err)
	a, err := s.AddElement(ctx, identity(u, "app.a", "SourceSet"), &root)
	require.NoError(t, err)
	b, err := s.AddElement(ctx, identity(u, "app.b", "SourceSet"), &root)
	require.NoError(t, err)

	children, err := s.ChildrenOf(ctx, root.Identifier)
	require.NoError(t, err)
	assert.Equal(t, []graph.Node{a, b}, children)

	leaf, err := s.ChildrenOf(ctx, nodeid.MustParse("app.a"))
	require.NoError(t, err)
	assert.Empty(t, leaf)

	_, err = s.ChildrenOf(ctx, nodeid.MustParse("nope"))
	assert.Error(t, err)
}

func TestSetProperties(t *testing.T) {
	u := testUniverse(t)
	listener := &testutil.RecordingListener{}
	s := New(graph.WithListener(listener))
	ctx := context.Background()

	_, err := s.AddElement(ctx, identity(u, "app", "Component"), nil)
	require.NoError(t, err)
	listener.Reset()

	err = s.SetProperties(ctx, nodeid.MustParse("app"), map[string]value.Value{
		"version": value.String("1.0"),
		"debug":   value.Bool(true),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"debug", "version"}, listener.PropertyKeys(), "properties are written in key order")

	err = s.SetProperties(ctx, nodeid.MustParse("missing"), map[string]value.Value{"x": value.Int(1)})
	assert.Error(t, err)

	err = s.SetProperties(ctx, nodeid.MustParse("app"), map[string]value.Value{"": value.Int(1)})
	assert.ErrorIs(t, err, graph.ErrInvalidArgument)
}

func TestView(t *testing.T) {
	u := testUniverse(t)
	s := New()
	ctx := context.Background()
	root := identity(u, "app", "Component")
	_, err := s.AddElement(ctx, root, nil)
	require.NoError(t, err)
	_, err = s.AddElement(ctx, identity(u, "app.a", "SourceSet"), &root)
	require.NoError(t, err)

	err = s.View(ctx, func(g *graph.Graph) error {
		assert.Equal(t, 2, g.NodeCount())
		assert.Equal(t, 1, g.RelationshipCount())
		return nil
	})
	require.NoError(t, err)
}

func TestConcurrentAccess(t *testing.T) {
	u := testUniverse(t)
	s := New()
	ctx := context.Background()
	root := identity(u, "app", "Component")
	_, err := s.AddElement(ctx, root, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := root.Identifier.Child(fmt.Sprintf("part%d", i))
			_, err := s.AddElement(ctx, discover.NewIdentity(id, u.MustLookup("SourceSet")), &root)
			assert.NoError(t, err)
			s.AllElements(ctx)
		}(i)
	}
	wg.Wait()

	children, err := s.ChildrenOf(ctx, root.Identifier)
	require.NoError(t, err)
	assert.Len(t, children, 20)
}

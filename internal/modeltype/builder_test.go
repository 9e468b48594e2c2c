package modeltype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(types []*Type) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.Name()
	}
	return out
}

func TestBuilder_Hierarchy(t *testing.T) {
	u, err := NewBuilder().
		Declare("NativeLibrary", "Library", "Native").
		Declare("Library", "Component").
		Declare("Component").
		Declare("Native").
		Declare("SourceSet").
		Build()
	require.NoError(t, err)

	lib := u.MustLookup("Library")
	native := u.MustLookup("NativeLibrary")
	component := u.MustLookup("Component")

	assert.True(t, native.IsSubtypeOf(lib))
	assert.True(t, native.IsSubtypeOf(component))
	assert.True(t, native.IsSubtypeOf(Object))
	assert.True(t, lib.IsSubtypeOf(lib), "subtyping is reflexive")
	assert.False(t, lib.IsSubtypeOf(native))
	assert.False(t, u.MustLookup("SourceSet").IsSubtypeOf(component))
	assert.False(t, lib.IsSubtypeOf(nil))

	assert.Equal(t, []string{"Object"}, names(component.Supertypes()))
	assert.Equal(t, []string{"Library", "Native"}, names(native.Supertypes()))
	assert.Equal(t, []string{"Object", "Component", "Library", "Native", "NativeLibrary"}, names(native.Lineage()))
}

func TestBuilder_TypesAreSupertypeFirst(t *testing.T) {
	u, err := NewBuilder().
		Declare("Binary", "Artifact").
		Declare("Artifact").
		Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"Object", "Project", "Artifact", "Binary"}, names(u.Types()))
	p, ok := u.Lookup("Project")
	require.True(t, ok)
	assert.Same(t, Project, p)
	assert.True(t, Project.IsSubtypeOf(Object))
}

func TestBuilder_ValidationErrorsAreAggregated(t *testing.T) {
	_, err := NewBuilder().
		Declare("Library").
		Declare("Library").
		Declare("Binary", "Artifact").
		Declare("").
		Declare("Object").
		Build()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, `type "Library" is declared more than once`)
	assert.Contains(t, msg, `type "Binary" extends unknown type "Artifact"`)
	assert.Contains(t, msg, "type name must not be empty")
	assert.Contains(t, msg, `type "Object" is declared more than once`)
}

func TestBuilder_InheritanceCycle(t *testing.T) {
	testCases := []struct {
		name    string
		builder *Builder
		errText string
	}{
		{
			name:    "two types",
			builder: NewBuilder().Declare("A", "B").Declare("B", "A"),
			errText: "inheritance cycle",
		},
		{
			name:    "self",
			builder: NewBuilder().Declare("A", "A"),
			errText: "extends itself",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.builder.Build()
			assert.ErrorContains(t, err, tc.errText)
		})
	}
}

func TestUniverse_MustLookupPanics(t *testing.T) {
	u, err := NewBuilder().Build()
	require.NoError(t, err)
	assert.Panics(t, func() { u.MustLookup("Missing") })
	_, ok := u.Lookup("Missing")
	assert.False(t, ok)
}

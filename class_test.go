package rhinodoc_test

import (
	"testing"

	"github.com/fwojciec/rhinodoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorpus_Manifest(t *testing.T) {
	t.Parallel()

	corpus := rhinodoc.Corpus{
		"rhino.geometry": {Namespace: "rhino.geometry", Classes: []*rhinodoc.Class{{Name: "Brep"}, {Name: "Mesh"}}},
		"rhino.display":  {Namespace: "rhino.display", Classes: []*rhinodoc.Class{{Name: "DisplayPipeline"}}},
		"rhino":          {Namespace: "rhino", Classes: []*rhinodoc.Class{}},
	}

	m := corpus.Manifest("8")

	assert.Equal(t, "8", m.Version)
	assert.Equal(t, []string{"rhino", "rhino.display", "rhino.geometry"}, m.Namespaces)
	assert.Equal(t, 3, m.TotalClasses)
	assert.True(t, m.HasNamespace("rhino.display"))
	assert.False(t, m.HasNamespace("rhino.render"))
}

func TestShard_FindClass(t *testing.T) {
	t.Parallel()

	shard := &rhinodoc.Shard{
		Namespace: "rhino.geometry",
		Classes: []*rhinodoc.Class{
			{Name: "Brep", FullName: "Rhino.Geometry.Brep"},
			{Name: "BrepFace", FullName: "Rhino.Geometry.BrepFace"},
		},
	}

	require.NotNil(t, shard.FindClass("Rhino.Geometry.BrepFace"))
	assert.Nil(t, shard.FindClass("rhino.geometry.brepface"))

	c := shard.FindClassByName("BREP")
	require.NotNil(t, c)
	assert.Equal(t, "Rhino.Geometry.Brep", c.FullName)
	assert.Nil(t, shard.FindClassByName("Bre"))
}

func TestClass_Clone(t *testing.T) {
	t.Parallel()

	orig := &rhinodoc.Class{
		Name: "Brep",
		Methods: []rhinodoc.Method{
			{Name: "Split", Parameters: []rhinodoc.Parameter{{Name: "cutter"}}},
		},
		Properties: []rhinodoc.Property{{Name: "Faces"}},
	}

	clone := orig.Clone()
	clone.Methods[0].Parameters[0].Name = "changed"
	clone.Properties[0].Name = "changed"

	assert.Equal(t, "cutter", orig.Methods[0].Parameters[0].Name)
	assert.Equal(t, "Faces", orig.Properties[0].Name)
	assert.NotNil(t, clone.Fields)
}

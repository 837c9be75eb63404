package corpus_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/fwojciec/rhinodoc"
	"github.com/fwojciec/rhinodoc/corpus"
	"github.com/fwojciec/rhinodoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeMember(name, summary string) *rhinodoc.Member {
	return &rhinodoc.Member{Kind: rhinodoc.KindType, Name: name, Summary: summary}
}

func methodMember(name, summary string, params ...rhinodoc.Parameter) *rhinodoc.Member {
	return &rhinodoc.Member{Kind: rhinodoc.KindMethod, Name: name, Summary: summary, Params: params, Returns: "bool"}
}

func fixtureMembers() []*rhinodoc.Member {
	return []*rhinodoc.Member{
		typeMember("Rhino.Geometry.Brep", "Boundary representation."),
		methodMember("Rhino.Geometry.Brep.IsValid()", "Tests validity."),
		methodMember("Rhino.Geometry.Brep.Split(Rhino.Geometry.Brep)", "Splits by brep.", rhinodoc.Parameter{Name: "cutter"}),
		methodMember("Rhino.Geometry.Brep.Split(Rhino.Geometry.Plane)", "Splits by plane.", rhinodoc.Parameter{Name: "plane"}),
		{Kind: rhinodoc.KindProperty, Name: "Rhino.Geometry.Brep.Faces", Summary: "Faces.", Value: "The faces."},
		{Kind: rhinodoc.KindProperty, Name: "Rhino.Geometry.Brep.Edges", Summary: "Edges."},
		{Kind: rhinodoc.KindField, Name: "Rhino.Geometry.Brep.Unset", Summary: "Unset marker."},
		typeMember("Rhino.Geometry.Mesh", "Polygon mesh."),
		methodMember("Rhino.Geometry.Mesh.Compact()", "Removes unused vertices."),
		typeMember("Rhino.Display.DisplayPipeline", "Draws geometry."),
		methodMember("Rhino.Display.DisplayPipeline.DrawBrepWires(Rhino.Geometry.Brep)", "Draws wires."),
		typeMember("Rhino.RhinoDoc", "A Rhino document."),
	}
}

func TestBuilder_Build(t *testing.T) {
	t.Parallel()

	t.Run("attaches a method to its class in either order", func(t *testing.T) {
		t.Parallel()

		brep := typeMember("Rhino.Geometry.Brep", "")
		isValid := methodMember("Rhino.Geometry.Brep.IsValid()", "")

		for _, members := range [][]*rhinodoc.Member{{brep, isValid}, {isValid, brep}} {
			c, report, err := corpus.NewBuilder().Build(members)
			require.NoError(t, err)

			shard := c["rhino.geometry"]
			require.NotNil(t, shard)
			require.Len(t, shard.Classes, 1)
			assert.Equal(t, "Brep", shard.Classes[0].Name)
			require.Len(t, shard.Classes[0].Methods, 1)
			assert.Equal(t, "IsValid", shard.Classes[0].Methods[0].Name)
			assert.Zero(t, report.OrphanCount())
		}
	})

	t.Run("produces identical corpora for permuted input", func(t *testing.T) {
		t.Parallel()

		want, _, err := corpus.NewBuilder().Build(fixtureMembers())
		require.NoError(t, err)

		rng := rand.New(rand.NewPCG(1, 2))
		for i := 0; i < 20; i++ {
			members := fixtureMembers()
			rng.Shuffle(len(members), func(a, b int) { members[a], members[b] = members[b], members[a] })

			got, _, err := corpus.NewBuilder().Build(members)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}

		reversed := fixtureMembers()
		slices.Reverse(reversed)
		got, _, err := corpus.NewBuilder().Build(reversed)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("orders duplicate member entries by content", func(t *testing.T) {
		t.Parallel()

		members := []*rhinodoc.Member{
			typeMember("Rhino.Geometry.Brep", ""),
			methodMember("Rhino.Geometry.Brep.Flip()", "Second summary."),
			methodMember("Rhino.Geometry.Brep.Flip()", "First summary."),
			{Kind: rhinodoc.KindProperty, Name: "Rhino.Geometry.Brep.Faces", Summary: "B."},
			{Kind: rhinodoc.KindProperty, Name: "Rhino.Geometry.Brep.Faces", Summary: "A."},
			{Kind: rhinodoc.KindField, Name: "Rhino.Geometry.Brep.Unset", Summary: "Y."},
			{Kind: rhinodoc.KindField, Name: "Rhino.Geometry.Brep.Unset", Summary: "X."},
		}
		reversed := slices.Clone(members)
		slices.Reverse(reversed)

		a, _, err := corpus.NewBuilder().Build(members)
		require.NoError(t, err)
		b, _, err := corpus.NewBuilder().Build(reversed)
		require.NoError(t, err)

		assert.Equal(t, a, b)
		class := a["rhino.geometry"].Classes[0]
		assert.Equal(t, "First summary.", class.Methods[0].Description)
		assert.Equal(t, "A.", class.Properties[0].Description)
		assert.Equal(t, "X.", class.Fields[0].Description)
	})

	t.Run("groups classes by lower-cased namespace", func(t *testing.T) {
		t.Parallel()

		c, _, err := corpus.NewBuilder().Build(fixtureMembers())
		require.NoError(t, err)

		assert.Equal(t, []string{"rhino", "rhino.display", "rhino.geometry"}, c.Namespaces())
		assert.Equal(t, 4, c.TotalClasses())

		geometry := c["rhino.geometry"]
		assert.Equal(t, "rhino.geometry", geometry.Namespace)
		assert.Equal(t, "Rhino.Geometry.Brep", geometry.Classes[0].FullName)
		assert.Equal(t, "Rhino.Geometry.Mesh", geometry.Classes[1].FullName)
	})

	t.Run("fills class records from member payloads", func(t *testing.T) {
		t.Parallel()

		c, _, err := corpus.NewBuilder().Build(fixtureMembers())
		require.NoError(t, err)

		brep := c["rhino.geometry"].FindClass("Rhino.Geometry.Brep")
		require.NotNil(t, brep)

		assert.Equal(t, "Boundary representation.", brep.Description)
		assert.Equal(t, "https://mcneel-apidocs.herokuapp.com/api/rhinocommon/rhino.geometry.brep", brep.URL)

		require.Len(t, brep.Methods, 3)
		assert.Equal(t, "IsValid", brep.Methods[0].Name)
		assert.Equal(t, "Rhino.Geometry.Brep.IsValid()", brep.Methods[0].Signature)
		assert.Equal(t, "bool", brep.Methods[0].Returns)
		assert.NotNil(t, brep.Methods[0].Parameters)
		assert.Empty(t, brep.Methods[0].Parameters)
		assert.Equal(t, "Split", brep.Methods[1].Name)
		assert.Equal(t, "Rhino.Geometry.Brep.Split(Rhino.Geometry.Brep)", brep.Methods[1].Signature)
		assert.Equal(t, []rhinodoc.Parameter{{Name: "cutter"}}, brep.Methods[1].Parameters)
		assert.Equal(t, "Rhino.Geometry.Brep.Split(Rhino.Geometry.Plane)", brep.Methods[2].Signature)

		assert.Equal(t, []rhinodoc.Property{
			{Name: "Edges", Description: "Edges."},
			{Name: "Faces", Description: "Faces.", Value: "The faces."},
		}, brep.Properties)
		assert.Equal(t, []rhinodoc.Field{{Name: "Unset", Description: "Unset marker."}}, brep.Fields)
	})

	t.Run("gives classes without members empty lists", func(t *testing.T) {
		t.Parallel()

		c, _, err := corpus.NewBuilder().Build(fixtureMembers())
		require.NoError(t, err)

		doc := c["rhino"].FindClass("Rhino.RhinoDoc")
		require.NotNil(t, doc)
		assert.NotNil(t, doc.Methods)
		assert.NotNil(t, doc.Properties)
		assert.NotNil(t, doc.Fields)
	})

	t.Run("records orphaned members without failing", func(t *testing.T) {
		t.Parallel()

		members := append(fixtureMembers(),
			methodMember("Rhino.Geometry.Curve.Reverse()", ""),
			methodMember("System.Object.ToString()", ""),
			&rhinodoc.Member{Kind: rhinodoc.KindField, Name: "Orphan"},
		)

		c, report, err := corpus.NewBuilder().Build(members)

		require.NoError(t, err)
		assert.Equal(t, 3, report.OrphanCount())
		assert.Equal(t, corpus.Orphan{
			Kind:  rhinodoc.KindMethod,
			Name:  "Rhino.Geometry.Curve.Reverse()",
			Owner: "Rhino.Geometry.Curve",
		}, report.Orphans[0])
		assert.Equal(t, 4, c.TotalClasses())
	})

	t.Run("skips types outside the root and orphans their members", func(t *testing.T) {
		t.Parallel()

		members := []*rhinodoc.Member{
			typeMember("System.Drawing.Color", ""),
			methodMember("System.Drawing.Color.FromArgb(System.Int32)", ""),
			typeMember("Rhino.Geometry.Point3d", ""),
		}

		c, report, err := corpus.NewBuilder().Build(members)

		require.NoError(t, err)
		assert.Equal(t, []string{"rhino.geometry"}, c.Namespaces())
		assert.Equal(t, 1, report.Skipped)
		assert.Equal(t, 1, report.OrphanCount())
	})

	t.Run("honors a custom root", func(t *testing.T) {
		t.Parallel()

		b := corpus.NewBuilder()
		b.Root = "Grasshopper."

		c, _, err := b.Build([]*rhinodoc.Member{
			typeMember("Grasshopper.Kernel.GH_Component", ""),
			typeMember("Rhino.Geometry.Brep", ""),
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"grasshopper.kernel"}, c.Namespaces())
	})

	t.Run("overwrites duplicate types and records the collision", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		b := corpus.NewBuilder()
		b.Logger = slog.New(slog.NewTextHandler(&buf, nil))

		c, report, err := b.Build([]*rhinodoc.Member{
			typeMember("Rhino.Geometry.Brep", "first"),
			methodMember("Rhino.Geometry.Brep.IsValid()", ""),
			typeMember("Rhino.Geometry.Brep", "second"),
		})

		require.NoError(t, err)
		shard := c["rhino.geometry"]
		require.Len(t, shard.Classes, 1)
		assert.Equal(t, "second", shard.Classes[0].Description)
		assert.Len(t, shard.Classes[0].Methods, 1)
		assert.Equal(t, []string{"Rhino.Geometry.Brep"}, report.Collisions)
		assert.Equal(t, 1, report.Types)
		assert.Contains(t, buf.String(), "duplicate type")
	})

	t.Run("rejects types that cannot be split and continues", func(t *testing.T) {
		t.Parallel()

		c, report, err := corpus.NewBuilder().Build([]*rhinodoc.Member{
			typeMember("Rhino.", ""),
			typeMember("Rhino.Geometry.Brep", ""),
		})

		require.NoError(t, err)
		require.Len(t, report.Rejected, 1)
		assert.Equal(t, "Rhino.", report.Rejected[0].Name)
		assert.Equal(t, 1, c.TotalClasses())
	})

	t.Run("returns EPARSE for members without a valid kind", func(t *testing.T) {
		t.Parallel()

		c, report, err := corpus.NewBuilder().Build([]*rhinodoc.Member{
			typeMember("Rhino.Geometry.Brep", ""),
			{Name: "Rhino.Geometry.Brep.IsValid()"},
		})

		require.Error(t, err)
		assert.Equal(t, rhinodoc.EPARSE, rhinodoc.ErrorCode(err))
		assert.Nil(t, c)
		assert.Nil(t, report)
	})

	t.Run("counts members by kind", func(t *testing.T) {
		t.Parallel()

		_, report, err := corpus.NewBuilder().Build(fixtureMembers())

		require.NoError(t, err)
		assert.Equal(t, 4, report.Types)
		assert.Equal(t, 5, report.Methods)
		assert.Equal(t, 2, report.Properties)
		assert.Equal(t, 1, report.Fields)
	})

	t.Run("keeps manifest total equal to shard class counts", func(t *testing.T) {
		t.Parallel()

		c, _, err := corpus.NewBuilder().Build(fixtureMembers())
		require.NoError(t, err)

		m := c.Manifest("8")
		var sum int
		for _, ns := range m.Namespaces {
			sum += len(c[ns].Classes)
		}
		assert.Equal(t, sum, m.TotalClasses)
	})
}

func TestBuilder_BuildFrom(t *testing.T) {
	t.Parallel()

	t.Run("builds from source members", func(t *testing.T) {
		t.Parallel()

		src := &mock.MemberSource{
			MembersFn: func(ctx context.Context) ([]*rhinodoc.Member, error) {
				return fixtureMembers(), nil
			},
		}

		c, report, err := corpus.NewBuilder().BuildFrom(context.Background(), src)

		require.NoError(t, err)
		assert.Equal(t, 4, c.TotalClasses())
		assert.NotNil(t, report)
	})

	t.Run("returns source errors without a corpus", func(t *testing.T) {
		t.Parallel()

		src := &mock.MemberSource{
			MembersFn: func(ctx context.Context) ([]*rhinodoc.Member, error) {
				return nil, rhinodoc.Errorf(rhinodoc.EPARSE, "bad xml")
			},
		}

		c, report, err := corpus.NewBuilder().BuildFrom(context.Background(), src)

		assert.Equal(t, rhinodoc.EPARSE, rhinodoc.ErrorCode(err))
		assert.Nil(t, c)
		assert.Nil(t, report)
	})

	t.Run("propagates plain source errors", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		src := &mock.MemberSource{
			MembersFn: func(ctx context.Context) ([]*rhinodoc.Member, error) {
				return nil, boom
			},
		}

		_, _, err := corpus.NewBuilder().BuildFrom(context.Background(), src)

		assert.ErrorIs(t, err, boom)
	})
}

//go:build integration

package minio_test

import (
	"context"
	"os"
	"testing"

	"github.com/fwojciec/rhinodoc"
	"github.com/fwojciec/rhinodoc/minio"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openStore connects to the endpoint in RHINODOC_TEST_S3_ENDPOINT with a
// fresh key prefix per test.
func openStore(t *testing.T) *minio.CorpusStore {
	t.Helper()
	endpoint := os.Getenv("RHINODOC_TEST_S3_ENDPOINT")
	if endpoint == "" {
		t.Skip("RHINODOC_TEST_S3_ENDPOINT not set")
	}
	store, err := minio.NewCorpusStore(minio.Config{
		Endpoint:  endpoint,
		AccessKey: os.Getenv("RHINODOC_TEST_S3_ACCESS_KEY"),
		SecretKey: os.Getenv("RHINODOC_TEST_S3_SECRET_KEY"),
		Bucket:    "rhinodoc-test",
		Prefix:    "test-" + uuid.NewString() + "/",
	})
	require.NoError(t, err)
	return store
}

func testCorpus() rhinodoc.Corpus {
	return rhinodoc.Corpus{
		"rhino.geometry": {
			Namespace: "rhino.geometry",
			Classes: []*rhinodoc.Class{{
				Name:       "Brep",
				FullName:   "Rhino.Geometry.Brep",
				Methods:    []rhinodoc.Method{},
				Properties: []rhinodoc.Property{},
				Fields:     []rhinodoc.Field{},
			}},
		},
		"rhino.display": {Namespace: "rhino.display", Classes: []*rhinodoc.Class{}},
	}
}

func TestCorpusStore_Integration(t *testing.T) {
	t.Run("round trips a corpus", func(t *testing.T) {
		store := openStore(t)
		ctx := context.Background()
		corpus := testCorpus()

		require.NoError(t, store.Persist(ctx, corpus, "8"))

		m, err := store.LoadManifest(ctx, "8")
		require.NoError(t, err)
		assert.Equal(t, corpus.Manifest("8"), m)
		for _, ns := range m.Namespaces {
			shard, err := store.LoadShard(ctx, ns, "8")
			require.NoError(t, err)
			assert.Equal(t, corpus[ns], shard)
		}
	})

	t.Run("removes stale shards", func(t *testing.T) {
		store := openStore(t)
		ctx := context.Background()
		require.NoError(t, store.Persist(ctx, testCorpus(), "8"))

		smaller := testCorpus()
		delete(smaller, "rhino.display")
		require.NoError(t, store.Persist(ctx, smaller, "8"))

		_, err := store.LoadShard(ctx, "rhino.display", "8")
		assert.Equal(t, rhinodoc.ENOTFOUND, rhinodoc.ErrorCode(err))
	})

	t.Run("returns ENOTFOUND for unknown versions", func(t *testing.T) {
		store := openStore(t)

		_, err := store.LoadManifest(context.Background(), "99")

		assert.Equal(t, rhinodoc.ENOTFOUND, rhinodoc.ErrorCode(err))
	})
}

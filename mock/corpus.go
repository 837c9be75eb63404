package mock

import (
	"context"

	"github.com/fwojciec/rhinodoc"
)

// Compile-time interface verification.
var (
	_ rhinodoc.CorpusStore  = (*CorpusStore)(nil)
	_ rhinodoc.ExampleStore = (*ExampleStore)(nil)
)

// CorpusStore is a mock implementation of rhinodoc.CorpusStore.
type CorpusStore struct {
	PersistFn      func(ctx context.Context, corpus rhinodoc.Corpus, version string) error
	LoadManifestFn func(ctx context.Context, version string) (*rhinodoc.Manifest, error)
	LoadShardFn    func(ctx context.Context, namespace, version string) (*rhinodoc.Shard, error)
}

func (s *CorpusStore) Persist(ctx context.Context, corpus rhinodoc.Corpus, version string) error {
	return s.PersistFn(ctx, corpus, version)
}

func (s *CorpusStore) LoadManifest(ctx context.Context, version string) (*rhinodoc.Manifest, error) {
	return s.LoadManifestFn(ctx, version)
}

func (s *CorpusStore) LoadShard(ctx context.Context, namespace, version string) (*rhinodoc.Shard, error) {
	return s.LoadShardFn(ctx, namespace, version)
}

// ExampleStore is a mock implementation of rhinodoc.ExampleStore.
type ExampleStore struct {
	FindExamplesFn func(ctx context.Context, className string) ([]rhinodoc.Example, error)
}

func (s *ExampleStore) FindExamples(ctx context.Context, className string) ([]rhinodoc.Example, error) {
	return s.FindExamplesFn(ctx, className)
}
